package logger

import (
	"bytes"
	"os"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func captureOutput(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(&buf)
	saved := GetLogLevel()
	t.Cleanup(func() {
		SetOutput(os.Stderr)
		atomic.StoreInt32(&currentLevel, int32(saved))
	})
	return &buf
}

func TestInfof_NoDoubleFormattingWithPercent(t *testing.T) {
	buf := captureOutput(t)
	SetLogLevel("info")

	msg := "[solvability] Trendiness Solvable: 12.5 (55.6%) Hard: 10 (44.4%)"
	Infof(msg)

	out := buf.String()
	if !strings.Contains(out, "(55.6%)") {
		t.Fatalf("log output missing expected percent segment: %s", out)
	}
	if strings.Contains(out, "MISSING") {
		t.Fatalf("log output shows fmt artifact: %s", out)
	}
}

func TestLevelFiltering(t *testing.T) {
	buf := captureOutput(t)
	if !SetLogLevel("warn") {
		t.Fatalf("warn should be a known level")
	}
	Infof("hidden %d", 1)
	Warnf("shown %d", 2)
	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info line leaked through warn level: %s", out)
	}
	if !strings.Contains(out, "[WARN] shown 2") {
		t.Fatalf("missing warn line: %s", out)
	}
	if SetLogLevel("loud") {
		t.Fatalf("unknown level accepted")
	}
	if GetLogLevel() != LevelWarn {
		t.Fatalf("unknown level changed current level to %v", GetLogLevel())
	}
}

func TestTimeTrack(t *testing.T) {
	buf := captureOutput(t)
	SetLogLevel("info")
	TimeTrack(time.Now(), "quiet phase")
	if buf.Len() != 0 {
		t.Fatalf("timing logged above debug level: %s", buf.String())
	}
	SetLogLevel("debug")
	TimeTrack(time.Now().Add(-2*time.Second), "[trends] fetch /trend")
	if out := buf.String(); !strings.Contains(out, "[DEBUG] [trends] fetch /trend took 2") {
		t.Fatalf("missing timing line: %s", out)
	}
}

func TestComponentPrefix(t *testing.T) {
	buf := captureOutput(t)
	SetLogLevel("debug")
	c := Component("trends")
	c.Debugf("loaded %d points", 3)
	c.Errorf("100% broken")
	out := buf.String()
	if !strings.Contains(out, "[DEBUG] [trends] loaded 3 points") {
		t.Fatalf("missing component debug line: %s", out)
	}
	if !strings.Contains(out, "[ERROR] [trends] 100% broken") {
		t.Fatalf("verbatim component line mangled: %s", out)
	}
}
