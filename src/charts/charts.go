// Package charts owns every live chart on the dashboard.
//
// A rendering Library turns a Config into pixels on a Surface and hands back a Handle. The Registry
// keeps at most one Handle per Slot and always destroys the old one before constructing its
// replacement, so two overlapping charts can never share a slot.
package charts

import (
	"errors"
	"image"
	"image/color"
)

// Kind selects the chart type and therefore the Library that renders it.
type Kind string

const (
	KindLine      Kind = "line"
	KindBar       Kind = "bar"
	KindPie       Kind = "pie"
	KindWordCloud Kind = "wordcloud"
)

// ErrRenderingLibraryUnavailable is returned when no Library is registered for a chart Kind.
var ErrRenderingLibraryUnavailable = errors.New("rendering library unavailable")

// Dataset is one series of values aligned with Config.Labels.
type Dataset struct {
	Label string
	Data  []float64
	// BackgroundColors holds one color per point (pie slices) or a single color for the series.
	BackgroundColors []color.RGBA
	BorderColors     []color.RGBA
	BorderWidth      float64
	// Tension is accepted for line charts but ignored; go-chart draws straight segments.
	Tension float64
}

// TooltipContext describes the element under the pointer.
type TooltipContext struct {
	DatasetIndex int
	Index        int
	Label        string
	Value        float64
	Dataset      Dataset
	// Total is the sum of the hovered dataset's values.
	Total float64
}

// TooltipFunc returns the tooltip lines for the hovered element.
type TooltipFunc func(TooltipContext) []string

// Config is the library-neutral description of one chart.
type Config struct {
	Type     Kind
	Title    string
	Labels   []string
	Datasets []Dataset

	// Responsive sizes the chart from the surface; otherwise Width/Height are used.
	Responsive bool
	// MaintainAspectRatio derives the height from the width.
	MaintainAspectRatio bool
	Width, Height       int

	// Tooltip overrides the default "label: value" tooltip.
	Tooltip TooltipFunc
	// WeightFactor maps a word weight to a pixel height (word clouds only).
	WeightFactor func(float64) float64
}

// Frame is one rendered chart image plus its hit-test.
type Frame struct {
	Image image.Image
	// Tooltip returns lines for the element at image pixel (x, y), or nil.
	Tooltip func(x, y int) []string
}

// Surface is where a chart is drawn: a widget in the viewer, an in-memory image headless.
type Surface interface {
	// Size is the current pixel size available to the chart; zero means unknown.
	Size() (w, h int)
	Draw(f Frame)
	Clear()
}

// Handle is a live chart. Destroy releases it and clears its surface; calling it twice is harmless.
type Handle interface {
	Destroy()
}

// Library constructs charts.
type Library interface {
	Construct(s Surface, cfg Config) (Handle, error)
}

// chartDimensions resolves the pixel size for cfg on s.
func chartDimensions(s Surface, cfg Config) (int, int) {
	w, h := cfg.Width, cfg.Height
	if cfg.Responsive && s != nil {
		if sw, sh := s.Size(); sw > 0 {
			w, h = sw, sh
		}
	}
	if w <= 0 {
		w = 800
	}
	if cfg.MaintainAspectRatio || h <= 0 {
		return ComputeChartDimensions(w)
	}
	if w < 320 {
		w = 320
	}
	if h < 200 {
		h = 200
	}
	return w, h
}

// ComputeChartDimensions applies the width/height clamp rules used for charts.
func ComputeChartDimensions(rawW int) (int, int) {
	w := rawW
	if w < 320 {
		w = 320
	}
	h := int(float32(w) * 0.5)
	if h < 240 {
		h = 240
	}
	if h > 520 {
		h = 520
	}
	return w, h
}

type surfaceHandle struct {
	s         Surface
	destroyed bool
}

func (h *surfaceHandle) Destroy() {
	if h.destroyed {
		return
	}
	h.destroyed = true
	if h.s != nil {
		h.s.Clear()
	}
}
