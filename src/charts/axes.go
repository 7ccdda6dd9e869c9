package charts

import (
	"fmt"
	"math"

	chart "github.com/wcharczuk/go-chart/v2"
)

// valueRange pads [min, max] and rounds it outward to the value's order of magnitude.
// Counts never dip below zero, so a non-negative min pins the axis at 0.
func valueRange(min, max float64) (float64, float64) {
	if math.IsNaN(min) || math.IsNaN(max) {
		return 0, 1
	}
	if max <= min {
		max = min + 1
	}
	span := max - min
	pad := span * 0.05
	a, b := min-pad, max+pad
	if min >= 0 {
		a = 0
	}
	mag := math.Pow(10, math.Floor(math.Log10(span)))
	if !math.IsInf(mag, 0) && mag > 0 {
		a = math.Floor(a/mag) * mag
		b = math.Ceil(b/mag) * mag
	}
	return a, b
}

// valueTicks picks up to about n ticks over [min, max] on a 1/2/2.5/5 step.
func valueTicks(min, max float64, n int) []chart.Tick {
	if n < 2 || math.IsNaN(min) || math.IsNaN(max) {
		return nil
	}
	if max <= min {
		max = min + 1
	}
	mag := math.Pow(10, math.Floor(math.Log10((max-min)/float64(n-1))))
	step := mag
	best := math.MaxFloat64
	for _, c := range []float64{1, 2, 2.5, 5, 10} {
		s := c * mag
		count := math.Max(2, math.Ceil((max-min)/s))
		if score := math.Abs(count - float64(n)); score < best {
			best = score
			step = s
		}
	}
	start := math.Floor(min/step) * step
	end := math.Ceil(max/step) * step
	var ticks []chart.Tick
	for v := start; v <= end+step/2; v += step {
		ticks = append(ticks, chart.Tick{Value: v, Label: formatTick(v)})
		if len(ticks) > n+2 {
			break
		}
	}
	return ticks
}

func formatTick(v float64) string {
	av := math.Abs(v)
	switch {
	case v == 0:
		return "0"
	case av >= 100:
		return fmt.Sprintf("%.0f", v)
	case av >= 10:
		return fmt.Sprintf("%.1f", v)
	default:
		return fmt.Sprintf("%.2f", v)
	}
}

// categoryTicks labels positions 1..n, thinning labels so roughly one fits per minGap pixels.
func categoryTicks(labels []string, plotW, minGap int) []chart.Tick {
	n := len(labels)
	every := 1
	if minGap > 0 && plotW > 0 {
		fit := plotW / minGap
		if fit < 1 {
			fit = 1
		}
		every = (n + fit - 1) / fit
		if every < 1 {
			every = 1
		}
	}
	ticks := make([]chart.Tick, 0, n/every+2)
	for i, l := range labels {
		if i%every != 0 && i != n-1 {
			continue
		}
		ticks = append(ticks, chart.Tick{Value: float64(i + 1), Label: l})
	}
	if n == 1 {
		ticks = append(ticks, chart.Tick{Value: 2, Label: ""})
	}
	return ticks
}

// seriesBounds returns min and max over all finite values, NaN when there are none.
func seriesBounds(ds []Dataset) (float64, float64) {
	min, max := math.Inf(1), math.Inf(-1)
	for _, d := range ds {
		for _, v := range d.Data {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			min = math.Min(min, v)
			max = math.Max(max, v)
		}
	}
	if math.IsInf(min, 1) {
		return math.NaN(), math.NaN()
	}
	return min, max
}
