// Package config resolves the dashboard settings. Precedence, lowest first: built-in defaults,
// the YAML file, the environment (with an optional .env file), command line flags.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/iafilius/StackflowDashboard/src/logger"
	"github.com/iafilius/StackflowDashboard/src/types"
)

// Environment variables read by ApplyEnv.
const (
	EnvAPIBase  = "STACKFLOW_API_BASE"
	EnvLogLevel = "STACKFLOW_LOG_LEVEL"
	EnvTimeout  = "STACKFLOW_TIMEOUT"
	EnvRPS      = "STACKFLOW_RPS"
)

// Config is the resolved configuration shared by the commands.
type Config struct {
	APIBase           string        `yaml:"api_base"`
	Timeout           time.Duration `yaml:"timeout"`
	RequestsPerSecond float64       `yaml:"requests_per_second"`
	LogLevel          string        `yaml:"log_level"`
	Tag               string        `yaml:"tag"`
	TopN              int           `yaml:"top_n"`
	StartTab          string        `yaml:"start_tab"`
	Window            WindowConfig  `yaml:"window"`
	Mock              MockConfig    `yaml:"mock"`
}

// WindowConfig is the initial viewer window size.
type WindowConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// MockConfig configures stackflowmock.
type MockConfig struct {
	Addr string `yaml:"addr"`
}

// Default returns the built-in settings. No timeout is set.
func Default() *Config {
	return &Config{
		APIBase:  "http://localhost:8080/api",
		LogLevel: "info",
		Tag:      "java",
		TopN:     10,
		StartTab: string(types.TabTrends),
		Window:   WindowConfig{Width: 1100, Height: 760},
		Mock:     MockConfig{Addr: ":8080"},
	}
}

// LoadConfig reads filename over the defaults. An empty filename yields the defaults.
func LoadConfig(filename string) (*Config, error) {
	cfg := Default()
	if strings.TrimSpace(filename) == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", filename, err)
	}
	return cfg, nil
}

// LoadDotEnv loads the given .env files into the process environment, skipping missing ones.
// Variables already set win.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// ApplyEnv overrides c from the environment. lookup is os.LookupEnv outside tests.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvAPIBase); ok && strings.TrimSpace(v) != "" {
		c.APIBase = strings.TrimSpace(v)
	}
	if v, ok := lookup(EnvLogLevel); ok && strings.TrimSpace(v) != "" {
		c.LogLevel = strings.TrimSpace(v)
	}
	if v, ok := lookup(EnvTimeout); ok && strings.TrimSpace(v) != "" {
		d, err := time.ParseDuration(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%s: %w", EnvTimeout, err)
		}
		c.Timeout = d
	}
	if v, ok := lookup(EnvRPS); ok && strings.TrimSpace(v) != "" {
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvRPS, err)
		}
		c.RequestsPerSecond = f
	}
	return nil
}

// Flags are the command line overrides. Register them with BindFlags and apply after Parse.
type Flags struct {
	fs       *pflag.FlagSet
	Config   string
	apiBase  string
	logLevel string
	timeout  time.Duration
	rps      float64
	tag      string
	topN     int
	tab      string
}

// BindFlags registers the shared flags on fs.
func BindFlags(fs *pflag.FlagSet) *Flags {
	f := &Flags{fs: fs}
	fs.StringVarP(&f.Config, "config", "c", "", "YAML config file")
	fs.StringVar(&f.apiBase, "api-base", "", "backend API root, e.g. http://localhost:8080/api")
	fs.StringVar(&f.logLevel, "log-level", "", "log level: debug, info, warn, error")
	fs.DurationVar(&f.timeout, "timeout", 0, "per-request timeout (0 = none)")
	fs.Float64Var(&f.rps, "rps", 0, "client-side request rate limit (0 = unlimited)")
	fs.StringVar(&f.tag, "tag", "", "tag shown on the trends panel")
	fs.IntVar(&f.topN, "top-n", 0, "number of co-occurring pairs")
	fs.StringVar(&f.tab, "tab", "", "tab to open: trends, cooccurrence, pitfalls, solvability")
	return f
}

// Apply copies every flag the user set onto c.
func (f *Flags) Apply(c *Config) {
	if f.fs.Changed("api-base") {
		c.APIBase = f.apiBase
	}
	if f.fs.Changed("log-level") {
		c.LogLevel = f.logLevel
	}
	if f.fs.Changed("timeout") {
		c.Timeout = f.timeout
	}
	if f.fs.Changed("rps") {
		c.RequestsPerSecond = f.rps
	}
	if f.fs.Changed("tag") {
		c.Tag = f.tag
	}
	if f.fs.Changed("top-n") {
		c.TopN = f.topN
	}
	if f.fs.Changed("tab") {
		c.StartTab = f.tab
	}
}

// Changed reports whether the named flag was given on the command line.
func (f *Flags) Changed(name string) bool { return f.fs.Changed(name) }

// Resolve runs the whole chain for a parsed flag set: file, .env and environment, flags, Validate.
func Resolve(f *Flags) (*Config, error) {
	cfg, err := LoadConfig(f.Config)
	if err != nil {
		return nil, err
	}
	if err := LoadDotEnv(); err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	f.Apply(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger.SetLogLevel(cfg.LogLevel)
	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	u, err := url.Parse(c.APIBase)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("api_base %q must be an http(s) URL", c.APIBase)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative")
	}
	if c.RequestsPerSecond < 0 {
		return fmt.Errorf("requests_per_second must not be negative")
	}
	if !logger.ValidLevel(c.LogLevel) {
		return fmt.Errorf("unknown log_level %q", c.LogLevel)
	}
	if c.TopN < 1 || c.TopN > 100 {
		return fmt.Errorf("top_n must be between 1 and 100, got %d", c.TopN)
	}
	if c.StartTab != "" {
		if _, err := types.ParseTab(c.StartTab); err != nil {
			return fmt.Errorf("start_tab: %w", err)
		}
	}
	if c.Window.Width < 0 || c.Window.Height < 0 {
		return fmt.Errorf("window size must not be negative")
	}
	return nil
}
