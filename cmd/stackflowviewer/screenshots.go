package main

import (
	"bytes"
	"context"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/iafilius/StackflowDashboard/src/charts"
	"github.com/iafilius/StackflowDashboard/src/config"
	"github.com/iafilius/StackflowDashboard/src/dashboard"
	"github.com/iafilius/StackflowDashboard/src/types"
)

var unsafeName = regexp.MustCompile(`[^a-z0-9]+`)

// RunScreenshotsMode loads every panel once against client and writes the charts as PNGs under outDir.
// It runs headlessly without creating a UI window. Panels that fail to load are reported together.
func RunScreenshotsMode(ctx context.Context, client dashboard.API, cfg *config.Config, outDir string, width int) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("create out dir: %w", err)
	}
	w, h := charts.ComputeChartDimensions(width)
	surfaces := map[types.Tab]*charts.ImageSurface{
		types.TabTrends:       charts.NewImageSurface(w, h),
		types.TabCooccurrence: charts.NewImageSurface(w, h),
		types.TabPitfalls:     charts.NewImageSurface(w, h),
	}
	board := &dashboard.ImageBoard{W: w / 2, H: h}
	var problems []string
	db, err := dashboard.New(dashboard.Deps{
		Client: client,
		Exec:   dashboard.Inline{},
		Notify: func(msg string) { problems = append(problems, msg) },
	}, dashboard.Surfaces{
		Trends:       surfaces[types.TabTrends],
		Cooccurrence: surfaces[types.TabCooccurrence],
		Pitfalls:     surfaces[types.TabPitfalls],
		Solvability:  board,
	}, dashboard.Inputs{
		Trend: func() dashboard.TrendInput { return dashboard.TrendInput{Tag: cfg.Tag} },
		TopN:  func() string { return fmt.Sprint(cfg.TopN) },
	}, nil, nil)
	if err != nil {
		return err
	}
	defer db.Close()
	db.LoadAll(ctx)

	for _, t := range []types.Tab{types.TabTrends, types.TabCooccurrence, types.TabPitfalls} {
		if err := writePNG(outDir, string(t)+".png", surfaces[t].Frame()); err != nil {
			return err
		}
	}
	cats, pies := board.Pies()
	for i, s := range pies {
		name := "solvability_" + strings.Trim(unsafeName.ReplaceAllString(strings.ToLower(cats[i]), "_"), "_") + ".png"
		if err := writePNG(outDir, name, s.Frame()); err != nil {
			return err
		}
	}
	if len(problems) > 0 {
		return fmt.Errorf("%d panel(s) failed: %s", len(problems), strings.Join(problems, "; "))
	}
	return nil
}

// writePNG skips empty frames; the panel's failure is reported separately.
func writePNG(dir, name string, f charts.Frame) error {
	if f.Image == nil {
		return nil
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, f.Image); err != nil {
		return fmt.Errorf("png encode %s: %w", name, err)
	}
	outPath := filepath.Join(dir, name)
	if err := os.WriteFile(outPath, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", outPath, err)
	}
	return nil
}
