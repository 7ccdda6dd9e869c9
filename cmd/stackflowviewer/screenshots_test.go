package main

import (
	"context"
	"image"
	_ "image/png" // register PNG decoder
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/iafilius/StackflowDashboard/src/apiclient"
	"github.com/iafilius/StackflowDashboard/src/config"
	"github.com/iafilius/StackflowDashboard/src/mockapi"
)

func mockClient(t *testing.T, opts mockapi.Options) *apiclient.Client {
	t.Helper()
	gin.SetMode(gin.TestMode)
	srv := httptest.NewServer(mockapi.Router(nil, opts))
	t.Cleanup(srv.Close)
	c, err := apiclient.New(apiclient.Options{BaseURL: srv.URL + "/api"})
	if err != nil {
		t.Fatalf("client: %v", err)
	}
	return c
}

func pngSize(t *testing.T, path string) (int, int) {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()
	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		t.Fatalf("decode %s: %v", path, err)
	}
	return cfg.Width, cfg.Height
}

func TestScreenshots_AllPanels(t *testing.T) {
	out := t.TempDir()
	if err := RunScreenshotsMode(context.Background(), mockClient(t, mockapi.Options{}), config.Default(), out, 1000); err != nil {
		t.Fatalf("RunScreenshotsMode: %v", err)
	}
	for _, name := range []string{"trends.png", "cooccurrence.png", "pitfalls.png"} {
		w, h := pngSize(t, filepath.Join(out, name))
		if w != 1000 || h != 500 {
			t.Fatalf("%s: got %dx%d, want 1000x500", name, w, h)
		}
	}
	for _, cat := range []string{"trendiness", "difficulty", "popularity", "code_snippets"} {
		name := filepath.Join(out, "solvability_"+cat+".png")
		if _, err := os.Stat(name); err != nil {
			t.Fatalf("missing pie %s: %v", name, err)
		}
	}
}

func TestScreenshots_FailedPanelIsReported(t *testing.T) {
	out := t.TempDir()
	err := RunScreenshotsMode(context.Background(), mockClient(t, mockapi.Options{Fail: "wordcloud"}), config.Default(), out, 800)
	if err == nil || !strings.Contains(err.Error(), "Pitfalls") {
		t.Fatalf("expected pitfalls failure, got %v", err)
	}
	if _, err := os.Stat(filepath.Join(out, "pitfalls.png")); !os.IsNotExist(err) {
		t.Fatalf("pitfalls.png should not be written: %v", err)
	}
	if _, err := os.Stat(filepath.Join(out, "trends.png")); err != nil {
		t.Fatalf("other panels still render: %v", err)
	}
}
