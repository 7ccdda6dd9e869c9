package charts

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"strconv"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Paddings used when rendering; the hit-tests below rely on them.
const (
	padTop    = 24
	padLeft   = 16
	padRight  = 12
	padBottom = 28
	piePad    = 24
)

var defaultPalette = []color.RGBA{
	{R: 75, G: 192, B: 192, A: 255},
	{R: 244, G: 128, B: 36, A: 255},
	{R: 255, G: 99, B: 132, A: 255},
	{R: 54, G: 162, B: 235, A: 255},
}

// GoChart renders line, bar and pie charts to PNG with go-chart and draws them on the surface.
type GoChart struct{}

func (GoChart) Construct(s Surface, cfg Config) (Handle, error) {
	w, h := chartDimensions(s, cfg)
	var (
		f   Frame
		err error
	)
	switch cfg.Type {
	case KindLine:
		f, err = renderLine(cfg, w, h)
	case KindBar:
		f, err = renderBar(cfg, w, h)
	case KindPie:
		f, err = renderPie(cfg, w, h)
	default:
		return nil, fmt.Errorf("go-chart cannot render %q charts", cfg.Type)
	}
	if err != nil {
		log.Warnf("%s chart %q render error: %v; showing blank fallback", cfg.Type, cfg.Title, err)
		f = Frame{Image: drawHint(blank(w, h), "Chart could not be rendered")}
	}
	if s != nil {
		s.Draw(f)
	}
	return &surfaceHandle{s: s}, nil
}

func toDrawing(c color.RGBA) drawing.Color {
	return drawing.Color{R: c.R, G: c.G, B: c.B, A: c.A}
}

func pick(cs []color.RGBA, i int, fallback color.RGBA) color.RGBA {
	switch {
	case i < len(cs):
		return cs[i]
	case len(cs) == 1:
		return cs[0]
	}
	return fallback
}

func decodePNG(buf *bytes.Buffer) (image.Image, error) {
	img, err := png.Decode(buf)
	if err != nil {
		return nil, fmt.Errorf("decode rendered chart: %w", err)
	}
	return img, nil
}

func tooltipFor(cfg Config, di, idx int) []string {
	if di < 0 || di >= len(cfg.Datasets) {
		return nil
	}
	ds := cfg.Datasets[di]
	if idx < 0 || idx >= len(ds.Data) {
		return nil
	}
	label := ""
	if idx < len(cfg.Labels) {
		label = cfg.Labels[idx]
	}
	var total float64
	for _, v := range ds.Data {
		if !math.IsNaN(v) {
			total += v
		}
	}
	if cfg.Tooltip != nil {
		return cfg.Tooltip(TooltipContext{DatasetIndex: di, Index: idx, Label: label, Value: ds.Data[idx], Dataset: ds, Total: total})
	}
	v := strconv.FormatFloat(ds.Data[idx], 'f', -1, 64)
	if ds.Label != "" {
		return []string{label, ds.Label + ": " + v}
	}
	return []string{label + ": " + v}
}

// categoryIndex maps an image x to the nearest category of n spread evenly over the plot width.
func categoryIndex(x, left, right, n int) int {
	if n <= 0 || right <= left || x < left || x > right {
		return -1
	}
	i := (x - left) * n / (right - left)
	if i >= n {
		i = n - 1
	}
	return i
}

// yAxisWidth estimates the pixel width go-chart reserves for the right-hand value axis.
func yAxisWidth(ticks []chart.Tick) int {
	longest := 1
	for _, t := range ticks {
		if len(t.Label) > longest {
			longest = len(t.Label)
		}
	}
	return longest*7 + 16
}

func renderLine(cfg Config, w, h int) (Frame, error) {
	n := len(cfg.Labels)
	lo, hi := seriesBounds(cfg.Datasets)
	if n == 0 || math.IsNaN(lo) {
		return noData(w, h, cfg.Title), nil
	}
	yMin, yMax := valueRange(lo, hi)
	yTicks := valueTicks(yMin, yMax, 6)
	axisW := yAxisWidth(yTicks)
	plotL, plotR := padLeft, w-padRight-axisW

	xs := make([]float64, n)
	for i := range xs {
		xs[i] = float64(i + 1)
	}
	maxX := float64(n) + 0.5
	if n == 1 {
		maxX = 2
	}
	series := make([]chart.Series, 0, len(cfg.Datasets))
	for i, ds := range cfg.Datasets {
		ys := make([]float64, n)
		for j := range ys {
			ys[j] = math.NaN()
			if j < len(ds.Data) {
				ys[j] = ds.Data[j]
			}
		}
		col := toDrawing(pick(ds.BorderColors, 0, defaultPalette[i%len(defaultPalette)]))
		st := chart.Style{StrokeColor: col, StrokeWidth: math.Max(ds.BorderWidth, 2), DotColor: col, DotWidth: 3}
		px := xs
		if n == 1 {
			st.DotWidth = 6
			px = []float64{xs[0], xs[0] + 1}
			ys = []float64{ys[0], ys[0]}
		} else if n > 60 {
			st.DotWidth = 0
		}
		series = append(series, chart.ContinuousSeries{Name: ds.Label, XValues: px, YValues: ys, Style: st})
	}
	ch := chart.Chart{
		Title:      cfg.Title,
		Width:      w,
		Height:     h,
		Background: chart.Style{Padding: chart.Box{Top: padTop, Left: padLeft, Right: padRight, Bottom: padBottom}},
		XAxis: chart.XAxis{
			Ticks: categoryTicks(cfg.Labels, plotR-plotL, 64),
			Range: &chart.ContinuousRange{Min: 0.5, Max: maxX},
		},
		YAxis:  chart.YAxis{Range: &chart.ContinuousRange{Min: yMin, Max: yMax}, Ticks: yTicks},
		Series: series,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}

	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		return Frame{}, err
	}
	img, err := decodePNG(&buf)
	if err != nil {
		return Frame{}, err
	}
	return Frame{Image: img, Tooltip: func(x, _ int) []string {
		// X positions run 0.5..n+0.5 across the plot, so category bins are even.
		return tooltipFor(cfg, 0, categoryIndex(x, plotL, plotR, n))
	}}, nil
}

func renderBar(cfg Config, w, h int) (Frame, error) {
	if len(cfg.Datasets) == 0 || len(cfg.Datasets[0].Data) == 0 {
		return noData(w, h, cfg.Title), nil
	}
	ds := cfg.Datasets[0]
	lo, hi := seriesBounds([]Dataset{ds})
	if math.IsNaN(lo) {
		return noData(w, h, cfg.Title), nil
	}
	yMin, yMax := valueRange(lo, hi)
	yTicks := valueTicks(yMin, yMax, 6)
	axisW := yAxisWidth(yTicks)
	plotL, plotR := padLeft, w-padRight-axisW

	n := len(ds.Data)
	slot := (plotR - plotL) / n
	if slot < 4 {
		slot = 4
	}
	fill := toDrawing(pick(ds.BackgroundColors, 0, defaultPalette[1]))
	stroke := toDrawing(pick(ds.BorderColors, 0, defaultPalette[1]))
	bars := make([]chart.Value, n)
	for i, v := range ds.Data {
		label := ""
		if i < len(cfg.Labels) {
			label = cfg.Labels[i]
		}
		if math.IsNaN(v) {
			v = 0
		}
		bars[i] = chart.Value{Label: label, Value: v, Style: chart.Style{FillColor: fill, StrokeColor: stroke, StrokeWidth: math.Max(ds.BorderWidth, 1)}}
	}
	xStyle := chart.Style{}
	bottom := padBottom
	if n > 4 {
		xStyle.TextRotationDegrees = 45
		bottom = padBottom + 8
	}
	bc := chart.BarChart{
		Title:      cfg.Title,
		Width:      w,
		Height:     h,
		Background: chart.Style{Padding: chart.Box{Top: padTop + 16, Left: padLeft, Right: padRight, Bottom: bottom}},
		BarWidth:   slot * 3 / 5,
		BarSpacing: slot - slot*3/5,
		XAxis:      xStyle,
		YAxis:      chart.YAxis{Range: &chart.ContinuousRange{Min: yMin, Max: yMax}, Ticks: yTicks},
		Bars:       bars,
	}
	var buf bytes.Buffer
	if err := bc.Render(chart.PNG, &buf); err != nil {
		return Frame{}, err
	}
	img, err := decodePNG(&buf)
	if err != nil {
		return Frame{}, err
	}
	return Frame{Image: img, Tooltip: func(x, _ int) []string {
		return tooltipFor(cfg, 0, categoryIndex(x, plotL, plotR, n))
	}}, nil
}

type pieSlice struct {
	index      int
	start, end float64
}

func renderPie(cfg Config, w, h int) (Frame, error) {
	if len(cfg.Datasets) == 0 {
		return noData(w, h, cfg.Title), nil
	}
	ds := cfg.Datasets[0]
	var total float64
	for _, v := range ds.Data {
		if v > 0 && !math.IsInf(v, 0) {
			total += v
		}
	}
	if total <= 0 {
		return noData(w, h, cfg.Title), nil
	}
	values := make([]chart.Value, 0, len(ds.Data))
	slices := make([]pieSlice, 0, len(ds.Data))
	acc := 0.0
	for i, v := range ds.Data {
		// go-chart drops non-positive values; keep the index mapping for the hit-test.
		if !(v > 0) || math.IsInf(v, 0) {
			continue
		}
		label := ""
		if i < len(cfg.Labels) {
			label = cfg.Labels[i]
		}
		fb := defaultPalette[i%len(defaultPalette)]
		values = append(values, chart.Value{
			Label: label,
			Value: v,
			Style: chart.Style{
				FillColor:   toDrawing(pick(ds.BackgroundColors, i, fb)),
				StrokeColor: toDrawing(pick(ds.BorderColors, i, fb)),
				StrokeWidth: math.Max(ds.BorderWidth, 1),
			},
		})
		frac := v / total
		slices = append(slices, pieSlice{index: i, start: acc, end: acc + frac})
		acc += frac
	}
	pc := chart.PieChart{
		Title:      cfg.Title,
		Width:      w,
		Height:     h,
		Background: chart.Style{Padding: chart.Box{Top: piePad, Left: piePad, Right: piePad, Bottom: piePad}},
		Values:     values,
	}
	var buf bytes.Buffer
	if err := pc.Render(chart.PNG, &buf); err != nil {
		return Frame{}, err
	}
	img, err := decodePNG(&buf)
	if err != nil {
		return Frame{}, err
	}
	cx, cy, r := pieGeometry(w, h)
	return Frame{Image: img, Tooltip: func(x, y int) []string {
		idx := pieHit(slices, cx, cy, r, x, y)
		if idx < 0 {
			return nil
		}
		return tooltipFor(cfg, 0, idx)
	}}, nil
}

// pieGeometry is the circle go-chart fits into the padded canvas.
func pieGeometry(w, h int) (cx, cy, r float64) {
	l, t, rr, b := piePad, piePad, w-piePad, h-piePad
	cx = float64(l+rr) / 2
	cy = float64(t+b) / 2
	r = math.Min(float64(rr-l), float64(b-t)) / 2
	return cx, cy, r
}

// pieHit returns the data index of the slice under (x, y). Slices start at 3 o'clock and run clockwise.
func pieHit(slices []pieSlice, cx, cy, r float64, x, y int) int {
	dx, dy := float64(x)-cx, float64(y)-cy
	if math.Hypot(dx, dy) > r || len(slices) == 0 {
		return -1
	}
	a := math.Atan2(dy, dx)
	if a < 0 {
		a += 2 * math.Pi
	}
	frac := a / (2 * math.Pi)
	for _, s := range slices {
		if frac >= s.start && frac < s.end {
			return s.index
		}
	}
	return slices[len(slices)-1].index
}
