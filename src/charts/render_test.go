package charts

import (
	"image"
	"image/color"
	"reflect"
	"strings"
	"testing"
)

func TestGoChart_LineDrawsFrameWithTooltip(t *testing.T) {
	s := NewImageSurface(800, 400)
	cfg := Config{
		Type:   KindLine,
		Title:  "Activity for tag: java",
		Labels: []string{"2023-11", "2023-12", "2024-01"},
		Datasets: []Dataset{{
			Label:        "Activity for tag: java",
			Data:         []float64{1, 2, 5},
			BorderColors: []color.RGBA{{R: 75, G: 192, B: 192, A: 255}},
		}},
		Responsive: true,
	}
	h, err := GoChart{}.Construct(s, cfg)
	if err != nil {
		t.Fatalf("construct: %v", err)
	}
	f := s.Frame()
	if f.Image == nil || f.Image.Bounds().Dx() != 800 {
		t.Fatalf("unexpected frame %+v", f.Image)
	}
	if f.Tooltip == nil {
		t.Fatalf("line chart should carry a tooltip")
	}
	lines := f.Tooltip(padLeft+1, 100)
	if len(lines) == 0 || lines[0] != "2023-11" {
		t.Fatalf("tooltip at left edge: %q", lines)
	}
	h.Destroy()
	if s.Frame().Image != nil {
		t.Fatalf("destroy must clear the surface")
	}
}

func TestGoChart_SinglePointAndEmpty(t *testing.T) {
	for _, cfg := range []Config{
		{Type: KindLine, Labels: []string{"2024-01"}, Datasets: []Dataset{{Data: []float64{3}}}},
		{Type: KindLine},
		{Type: KindBar},
		{Type: KindPie, Labels: []string{"Solvable", "Hard"}, Datasets: []Dataset{{Data: []float64{0, 0}}}},
	} {
		s := NewImageSurface(400, 300)
		if _, err := (GoChart{}).Construct(s, cfg); err != nil {
			t.Fatalf("%s: %v", cfg.Type, err)
		}
		if s.Frame().Image == nil {
			t.Fatalf("%s: no frame drawn", cfg.Type)
		}
	}
}

func TestGoChart_Bar(t *testing.T) {
	s := NewImageSurface(900, 450)
	cfg := Config{
		Type:     KindBar,
		Labels:   []string{"java + spring", "java + multithreading"},
		Datasets: []Dataset{{Label: "Co-occurrence Frequency", Data: []float64{17, 42}}},
	}
	if _, err := (GoChart{}).Construct(s, cfg); err != nil {
		t.Fatalf("construct: %v", err)
	}
	f := s.Frame()
	lines := f.Tooltip(880-yAxisWidth(valueTicks(0, 50, 6))-padRight, 200)
	if len(lines) == 0 || lines[0] != "java + multithreading" {
		t.Fatalf("tooltip at right edge: %q", lines)
	}
}

func TestGoChart_RejectsWordCloud(t *testing.T) {
	if _, err := (GoChart{}).Construct(NewImageSurface(10, 10), Config{Type: KindWordCloud}); err == nil {
		t.Fatalf("go-chart must not claim word clouds")
	}
}

func TestPieTooltipUsesCallback(t *testing.T) {
	s := NewImageSurface(400, 400)
	var got TooltipContext
	cfg := Config{
		Type:     KindPie,
		Title:    "Trendiness",
		Labels:   []string{"Solvable", "Hard"},
		Datasets: []Dataset{{Data: []float64{12.5, 10}}},
		Tooltip: func(c TooltipContext) []string {
			got = c
			return []string{"both"}
		},
	}
	if _, err := (GoChart{}).Construct(s, cfg); err != nil {
		t.Fatalf("construct: %v", err)
	}
	cx, cy, r := pieGeometry(400, 400)
	// Just below 3 o'clock is the start of the first slice.
	lines := s.Frame().Tooltip(int(cx+r/2), int(cy+2))
	if !reflect.DeepEqual(lines, []string{"both"}) {
		t.Fatalf("tooltip %q", lines)
	}
	if got.Index != 0 || got.Total != 22.5 || got.Label != "Solvable" {
		t.Fatalf("context %+v", got)
	}
	if s.Frame().Tooltip(0, 0) != nil {
		t.Fatalf("corner is outside the pie")
	}
}

func TestPieHit_SkipsZeroSlices(t *testing.T) {
	slices := []pieSlice{{index: 1, start: 0, end: 1}}
	if got := pieHit(slices, 50, 50, 40, 60, 60); got != 1 {
		t.Fatalf("want data index 1, got %d", got)
	}
}

func TestWordCloud_PlacesWordsWithoutOverlap(t *testing.T) {
	s := NewImageSurface(600, 400)
	cfg := Config{
		Type:         KindWordCloud,
		Labels:       []string{"deadlock", "volatile", "executor", "synchronized"},
		Datasets:     []Dataset{{Data: []float64{40, 30, 12, 5}}},
		WeightFactor: func(v float64) float64 { return v },
	}
	if _, err := (WordCloud{}).Construct(s, cfg); err != nil {
		t.Fatalf("construct: %v", err)
	}
	f := s.Frame()
	if f.Image == nil {
		t.Fatalf("no image")
	}
	// The first word sits at the centre.
	lines := f.Tooltip(300, 200)
	if len(lines) != 1 || !strings.HasPrefix(lines[0], "deadlock") {
		t.Fatalf("centre tooltip %q", lines)
	}
}

func TestFindSpot(t *testing.T) {
	var placed []placedWord
	for i := 0; i < 5; i++ {
		r, ok := findSpot(image.Pt(40, 20), 200, 100, placed)
		if !ok {
			t.Fatalf("word %d did not fit", i)
		}
		for _, p := range placed {
			if r.Overlaps(p.rect) {
				t.Fatalf("overlap %v %v", r, p.rect)
			}
		}
		placed = append(placed, placedWord{rect: r})
	}
	if _, ok := findSpot(image.Pt(300, 20), 200, 100, nil); ok {
		t.Fatalf("oversized word must not fit")
	}
}

func TestRotate90(t *testing.T) {
	img := rasterWord("ab", 26, color.RGBA{A: 255}, false)
	rot := rotate90(img)
	if rot.Bounds().Dx() != img.Bounds().Dy() || rot.Bounds().Dy() != img.Bounds().Dx() {
		t.Fatalf("rotated bounds %v from %v", rot.Bounds(), img.Bounds())
	}
}
