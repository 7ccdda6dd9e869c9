package main

import (
	"bytes"
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/iafilius/StackflowDashboard/src/apiclient"
	"github.com/iafilius/StackflowDashboard/src/config"
	"github.com/iafilius/StackflowDashboard/src/dashboard"
	"github.com/iafilius/StackflowDashboard/src/mockapi"
)

func newReader(t *testing.T, opts mockapi.Options, trend dashboard.TrendInput) reader {
	t.Helper()
	gin.SetMode(gin.TestMode)
	srv := httptest.NewServer(mockapi.Router(nil, opts))
	t.Cleanup(srv.Close)
	c, err := apiclient.New(apiclient.Options{BaseURL: srv.URL + "/api"})
	if err != nil {
		t.Fatalf("client: %v", err)
	}
	cfg := config.Default()
	cfg.TopN = 3
	return reader{client: c, cfg: cfg, trend: trend, now: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)}
}

func TestPrintAllPanels(t *testing.T) {
	r := newReader(t, mockapi.Options{}, dashboard.TrendInput{Tag: "go", Start: "2024-01", End: "2024-03-31"})
	var out bytes.Buffer
	if err := r.print(context.Background(), &out, ""); err != nil {
		t.Fatalf("print: %v\n%s", err, out.String())
	}
	s := out.String()
	for _, want := range []string{
		"== Trends ==", "Activity for tag: go (3 months)", "2024-01\t",
		"== Co-occurrence ==", "java + multithreading\t4210",
		"== Pitfalls ==", "deadlock\t96",
		"== Solvability ==", "Trendiness\tSolvable: 12.5 (55.6%)\tHard: 10 (44.4%)",
	} {
		if !strings.Contains(s, want) {
			t.Fatalf("output missing %q:\n%s", want, s)
		}
	}
	if strings.Contains(s, "java + atomic") {
		t.Fatalf("top N of 3 should cut the list:\n%s", s)
	}
}

func TestPrintSinglePanelAndErrors(t *testing.T) {
	r := newReader(t, mockapi.Options{Fail: "solvability"}, dashboard.TrendInput{Tag: " "})
	var out bytes.Buffer
	if err := r.print(context.Background(), &out, "pitfalls"); err != nil {
		t.Fatalf("pitfalls: %v", err)
	}
	if strings.Contains(out.String(), "== Trends ==") {
		t.Fatalf("only the named panel should print:\n%s", out.String())
	}
	if err := r.print(context.Background(), &out, "Trends"); err == nil {
		t.Fatalf("tab ids are exact; expected error")
	}
	out.Reset()
	err := r.print(context.Background(), &out, "")
	if err == nil || !strings.Contains(err.Error(), "Trends") || !strings.Contains(err.Error(), "Solvability") {
		t.Fatalf("expected blank tag and injected failure to be reported, got %v", err)
	}
	if !strings.Contains(out.String(), "deadlock") {
		t.Fatalf("healthy panels still print:\n%s", out.String())
	}
}
