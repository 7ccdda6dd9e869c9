package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestDefaultsAreValid(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())
	assert.Zero(t, cfg.Timeout, "no request timeout by default")
	assert.Equal(t, 10, cfg.TopN)
}

func TestLoadConfig_FileOverDefaults(t *testing.T) {
	p := writeFile(t, "stackflow.yaml", `
api_base: https://analytics.example.com/api
timeout: 15s
requests_per_second: 4
tag: go
window:
  width: 1400
`)
	cfg, err := LoadConfig(p)
	require.NoError(t, err)
	assert.Equal(t, "https://analytics.example.com/api", cfg.APIBase)
	assert.Equal(t, 15*time.Second, cfg.Timeout)
	assert.Equal(t, 4.0, cfg.RequestsPerSecond)
	assert.Equal(t, "go", cfg.Tag)
	assert.Equal(t, 1400, cfg.Window.Width)
	assert.Equal(t, 760, cfg.Window.Height, "unset keys keep defaults")
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadConfig_Errors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = LoadConfig(writeFile(t, "bad.yaml", "api_base: [unterminated"))
	assert.Error(t, err)
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		EnvAPIBase:  " http://10.0.0.5:9000/api ",
		EnvLogLevel: "debug",
		EnvTimeout:  "3s",
		EnvRPS:      "2.5",
	}
	cfg := Default()
	require.NoError(t, cfg.ApplyEnv(func(k string) (string, bool) { v, ok := env[k]; return v, ok }))
	assert.Equal(t, "http://10.0.0.5:9000/api", cfg.APIBase)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 3*time.Second, cfg.Timeout)
	assert.Equal(t, 2.5, cfg.RequestsPerSecond)

	env[EnvTimeout] = "soon"
	assert.Error(t, Default().ApplyEnv(func(k string) (string, bool) { v, ok := env[k]; return v, ok }))
}

func TestFlagsBeatEnvAndFile(t *testing.T) {
	p := writeFile(t, "c.yaml", "api_base: http://file/api\ntag: rust\n")
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	f := BindFlags(fs)
	require.NoError(t, fs.Parse([]string{"--config", p, "--api-base", "http://flag/api", "--tab", "pitfalls"}))

	cfg, err := LoadConfig(f.Config)
	require.NoError(t, err)
	require.NoError(t, cfg.ApplyEnv(func(k string) (string, bool) {
		if k == EnvAPIBase {
			return "http://env/api", true
		}
		return "", false
	}))
	f.Apply(cfg)
	assert.Equal(t, "http://flag/api", cfg.APIBase)
	assert.Equal(t, "rust", cfg.Tag, "unset flag leaves file value")
	assert.Equal(t, "pitfalls", cfg.StartTab)
	assert.True(t, f.Changed("tab"))
	assert.False(t, f.Changed("tag"))
	assert.Equal(t, 10, cfg.TopN, "unset --top-n must not zero the default")
}

func TestValidate(t *testing.T) {
	cases := map[string]func(*Config){
		"scheme":    func(c *Config) { c.APIBase = "ftp://x/api" },
		"no host":   func(c *Config) { c.APIBase = "http:///api" },
		"timeout":   func(c *Config) { c.Timeout = -time.Second },
		"rps":       func(c *Config) { c.RequestsPerSecond = -1 },
		"log level": func(c *Config) { c.LogLevel = "verbose" },
		"top n":     func(c *Config) { c.TopN = 101 },
		"tab":       func(c *Config) { c.StartTab = "home" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := Default()
			mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	p := writeFile(t, ".env", EnvLogLevel+"=warn\n")
	t.Setenv(EnvLogLevel, "")
	os.Unsetenv(EnvLogLevel)
	require.NoError(t, LoadDotEnv(p, filepath.Join(t.TempDir(), "absent.env")))
	assert.Equal(t, "warn", os.Getenv(EnvLogLevel))
}
