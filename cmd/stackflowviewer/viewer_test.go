package main

import (
	"testing"

	fyne "fyne.io/fyne/v2"

	"github.com/iafilius/StackflowDashboard/src/config"
	"github.com/iafilius/StackflowDashboard/src/types"
)

func TestContainRect(t *testing.T) {
	x, y, w, h, s := containRect(800, 400, 1200, 400)
	if s != 1 || w != 800 || h != 400 || x != 200 || y != 0 {
		t.Fatalf("wide view: got x=%v y=%v w=%v h=%v s=%v", x, y, w, h, s)
	}
	x, y, w, h, s = containRect(800, 400, 400, 400)
	if s != 0.5 || w != 400 || h != 200 || x != 0 || y != 100 {
		t.Fatalf("narrow view: got x=%v y=%v w=%v h=%v s=%v", x, y, w, h, s)
	}
	if _, _, _, _, s := containRect(0, 400, 100, 100); s != 0 {
		t.Fatalf("empty image must not scale, got %v", s)
	}
}

func TestViewToImage(t *testing.T) {
	view := fyne.NewSize(400, 400)
	ix, iy, ok := viewToImage(fyne.NewPos(200, 200), 800, 400, view)
	if !ok || ix != 400 || iy != 200 {
		t.Fatalf("centre: got %d,%d ok=%v", ix, iy, ok)
	}
	if _, _, ok := viewToImage(fyne.NewPos(200, 50), 800, 400, view); ok {
		t.Fatalf("letterbox area must not map into the image")
	}
	ix, iy, ok = viewToImage(fyne.NewPos(400, 300), 800, 400, view)
	if !ok || ix != 799 || iy != 399 {
		t.Fatalf("bottom-right edge: got %d,%d ok=%v", ix, iy, ok)
	}
}

func TestPlaceTooltipStaysInside(t *testing.T) {
	view := fyne.NewSize(300, 200)
	box := fyne.NewSize(100, 40)
	p := placeTooltip(fyne.NewPos(10, 10), box, view)
	if p.X != 22 || p.Y != 22 {
		t.Fatalf("got %v", p)
	}
	p = placeTooltip(fyne.NewPos(290, 190), box, view)
	if p.X+box.Width > view.Width || p.Y+box.Height > view.Height || p.Y < 0 {
		t.Fatalf("tooltip escapes view: %v", p)
	}
}

type memPrefs map[string]string

func (m memPrefs) StringWithFallback(k, fb string) string {
	if v, ok := m[k]; ok {
		return v
	}
	return fb
}
func (m memPrefs) SetString(k, v string) { m[k] = v }

func TestPrefs_RoundTripAndPrecedence(t *testing.T) {
	cfg := config.Default()
	p := memPrefs{}
	got := loadPrefs(p, cfg, nil)
	if got.Tab != types.TabTrends || got.Tag != "java" || got.TopN != "10" {
		t.Fatalf("defaults: %+v", got)
	}
	savePrefs(p, viewerPrefs{Tab: types.TabPitfalls, Tag: "go", TopN: "25"})
	got = loadPrefs(p, cfg, nil)
	if got.Tab != types.TabPitfalls || got.Tag != "go" || got.TopN != "25" {
		t.Fatalf("remembered: %+v", got)
	}
	cfg.StartTab = "solvability"
	got = loadPrefs(p, cfg, func(f string) bool { return f == "tab" })
	if got.Tab != types.TabSolvability || got.Tag != "go" {
		t.Fatalf("explicit --tab must win: %+v", got)
	}
	p[prefLastTab] = "bogus"
	if got := loadPrefs(p, config.Default(), nil); got.Tab != types.TabTrends {
		t.Fatalf("invalid remembered tab must fall back: %+v", got)
	}
}
