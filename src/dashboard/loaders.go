package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image/color"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/iafilius/StackflowDashboard/src/analysis"
	"github.com/iafilius/StackflowDashboard/src/apiclient"
	"github.com/iafilius/StackflowDashboard/src/charts"
	"github.com/iafilius/StackflowDashboard/src/logger"
	"github.com/iafilius/StackflowDashboard/src/types"
)

// Fetcher is the part of the API client the loaders need.
type Fetcher interface {
	FetchJSON(ctx context.Context, path string, params apiclient.Params) (json.RawMessage, error)
}

// Loader fetches and renders one panel. Load returns once the work is handed to the executor.
type Loader interface {
	Panel() types.Tab
	Load(ctx context.Context, t charts.Ticket)
}

// Redrawer re-renders the last committed chart at the surface's current size without fetching.
type Redrawer interface {
	Redraw() error
}

// Notifier receives one-line user-facing messages (the status line).
type Notifier func(string)

var (
	trendColor = color.RGBA{R: 75, G: 192, B: 192, A: 255}
	barFill    = color.RGBA{R: 244, G: 128, B: 36, A: 153}
	barBorder  = color.RGBA{R: 244, G: 128, B: 36, A: 255}
	pieFill    = []color.RGBA{{R: 75, G: 192, B: 192, A: 153}, {R: 255, G: 99, B: 132, A: 153}}
	pieBorder  = []color.RGBA{{R: 75, G: 192, B: 192, A: 255}, {R: 255, G: 99, B: 132, A: 255}}
)

// loaderBase carries what every panel loader shares.
type loaderBase struct {
	panel    types.Tab
	client   Fetcher
	registry *charts.Registry
	exec     Executor
	notify   Notifier
	log      logger.Component

	mu   sync.Mutex
	last func() error
}

func newBase(panel types.Tab, d Deps) loaderBase {
	exec := d.Exec
	if exec == nil {
		exec = Inline{}
	}
	return loaderBase{panel: panel, client: d.Client, registry: d.Registry, exec: exec, notify: d.Notify, log: logger.Component(string(panel))}
}

func (b *loaderBase) Panel() types.Tab { return b.panel }

func (b *loaderBase) tell(msg string) {
	if b.notify != nil {
		b.notify(msg)
	}
}

// reject reports invalid input without issuing a request.
func (b *loaderBase) reject(err error) {
	b.log.Warnf("%v", err)
	b.tell(err.Error())
}

// fetch runs the request and transform off the UI thread, then commits only if t is still current.
// On error the panel keeps its last chart.
func (b *loaderBase) fetch(ctx context.Context, t charts.Ticket, path string, params apiclient.Params, build func(json.RawMessage) (func() error, error)) {
	b.exec.Run(func() func() {
		defer logger.TimeTrack(time.Now(), fmt.Sprintf("[%s] fetch %s", b.panel, path))
		raw, err := b.client.FetchJSON(ctx, path, params)
		var commit func() error
		if err == nil {
			commit, err = build(raw)
		}
		return func() {
			if !b.registry.Current(t) {
				b.log.Debugf("discarding stale %s result", b.panel)
				return
			}
			if err == nil {
				err = commit()
			}
			if err != nil {
				b.fail(err)
			}
		}
	})
}

// draw runs a commit and keeps it for Redraw once it succeeds.
func (b *loaderBase) draw(f func() error) error {
	if err := f(); err != nil {
		return err
	}
	b.mu.Lock()
	b.last = f
	b.mu.Unlock()
	return nil
}

// Redraw replays the last successful commit. It is a no-op before the first one.
func (b *loaderBase) Redraw() error {
	b.mu.Lock()
	f := b.last
	b.mu.Unlock()
	if f == nil {
		return nil
	}
	if err := f(); err != nil {
		b.log.Warnf("redraw %s: %v", b.panel, err)
		return err
	}
	return nil
}

// replace draws spec into the panel's single slot.
func (b *loaderBase) replace(spec charts.Spec) error {
	return b.draw(func() error { return b.registry.Replace(charts.PanelSlot(b.panel), spec) })
}

func (b *loaderBase) fail(err error) {
	b.log.Errorf("failed to load %s: %v", b.panel, err)
	if errors.Is(err, charts.ErrRenderingLibraryUnavailable) {
		b.tell(fmt.Sprintf("%s: chart library unavailable", b.panel.Title()))
		return
	}
	b.tell(fmt.Sprintf("Failed to load %s: %v", b.panel.Title(), err))
}

// TrendsLoader draws the monthly activity line for one tag.
type TrendsLoader struct {
	loaderBase
	input   func() TrendInput
	surface charts.Surface
	clock   clockwork.Clock
}

func NewTrendsLoader(d Deps, surface charts.Surface, input func() TrendInput) *TrendsLoader {
	clock := d.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &TrendsLoader{loaderBase: newBase(types.TabTrends, d), input: input, surface: surface, clock: clock}
}

func (l *TrendsLoader) Load(ctx context.Context, t charts.Ticket) {
	q, err := ParseTrendInput(l.input(), l.clock.Now())
	if err != nil {
		l.reject(err)
		return
	}
	l.fetch(ctx, t, apiclient.PathTrend, q.Params(), func(raw json.RawMessage) (func() error, error) {
		pts, err := analysis.TrendSeries(raw)
		if err != nil {
			return nil, err
		}
		l.log.Debugf("%s: %d months", q.Tag, len(pts))
		spec := charts.Spec{Surface: l.surface, Config: TrendConfig(q.Tag, pts)}
		return func() error { return l.replace(spec) }, nil
	})
}

// TrendConfig is the line chart for a tag's monthly counts.
func TrendConfig(tag string, pts []types.SeriesPoint) charts.Config {
	labels := make([]string, len(pts))
	data := make([]float64, len(pts))
	for i, p := range pts {
		labels[i], data[i] = p.Label, p.Value
	}
	title := "Activity for tag: " + tag
	return charts.Config{
		Type:   charts.KindLine,
		Title:  title,
		Labels: labels,
		Datasets: []charts.Dataset{{
			Label:        title,
			Data:         data,
			BorderColors: []color.RGBA{trendColor},
			Tension:      0.1,
		}},
		Responsive: true,
	}
}

// CooccurrenceLoader draws the most frequent tag pairs as bars.
type CooccurrenceLoader struct {
	loaderBase
	input   func() string
	surface charts.Surface
}

func NewCooccurrenceLoader(d Deps, surface charts.Surface, input func() string) *CooccurrenceLoader {
	return &CooccurrenceLoader{loaderBase: newBase(types.TabCooccurrence, d), input: input, surface: surface}
}

func (l *CooccurrenceLoader) Load(ctx context.Context, t charts.Ticket) {
	n, err := ParseTopN(l.input())
	if err != nil {
		l.reject(err)
		return
	}
	l.fetch(ctx, t, apiclient.PathTopNPairs, apiclient.Params{"topN": n}, func(raw json.RawMessage) (func() error, error) {
		pairs, err := analysis.PairSeries(raw)
		if err != nil {
			return nil, err
		}
		spec := charts.Spec{Surface: l.surface, Config: PairConfig(pairs)}
		return func() error { return l.replace(spec) }, nil
	})
}

// PairConfig is the bar chart of pair frequencies in backend order.
func PairConfig(pairs []types.PairCount) charts.Config {
	labels := make([]string, len(pairs))
	data := make([]float64, len(pairs))
	for i, p := range pairs {
		labels[i], data[i] = p.Pair, p.Count
	}
	return charts.Config{
		Type:   charts.KindBar,
		Title:  "Co-occurrence Frequency",
		Labels: labels,
		Datasets: []charts.Dataset{{
			Label:            "Co-occurrence Frequency",
			Data:             data,
			BackgroundColors: []color.RGBA{barFill},
			BorderColors:     []color.RGBA{barBorder},
			BorderWidth:      1,
		}},
		Responsive: true,
	}
}

// PitfallsLoader draws the multithreading word cloud.
type PitfallsLoader struct {
	loaderBase
	surface charts.Surface
}

func NewPitfallsLoader(d Deps, surface charts.Surface) *PitfallsLoader {
	return &PitfallsLoader{loaderBase: newBase(types.TabPitfalls, d), surface: surface}
}

func (l *PitfallsLoader) Load(ctx context.Context, t charts.Ticket) {
	l.fetch(ctx, t, apiclient.PathWordCloud, nil, func(raw json.RawMessage) (func() error, error) {
		words, err := analysis.WordWeights(raw)
		if err != nil {
			return nil, err
		}
		spec := charts.Spec{Surface: l.surface, Config: WordCloudConfig(words)}
		return func() error { return l.replace(spec) }, nil
	})
}

// WordCloudConfig keeps raw weights in the dataset; display sizes come from WeightFactor.
func WordCloudConfig(words []types.WordWeight) charts.Config {
	labels := make([]string, len(words))
	data := make([]float64, len(words))
	for i, w := range words {
		labels[i], data[i] = w.Word, w.Weight
	}
	return charts.Config{
		Type:         charts.KindWordCloud,
		Labels:       labels,
		Datasets:     []charts.Dataset{{Data: data}},
		Responsive:   true,
		WeightFactor: analysis.WordDisplaySize,
	}
}

// PieBoard hosts the solvability pies. Surfaces discards the previous surfaces and returns one
// fresh titled surface per category, in order.
type PieBoard interface {
	Surfaces(categories []string) []charts.Surface
}

// SolvabilityLoader draws one Solvable/Hard pie per category.
type SolvabilityLoader struct {
	loaderBase
	board PieBoard
}

func NewSolvabilityLoader(d Deps, board PieBoard) *SolvabilityLoader {
	return &SolvabilityLoader{loaderBase: newBase(types.TabSolvability, d), board: board}
}

func (l *SolvabilityLoader) Load(ctx context.Context, t charts.Ticket) {
	l.fetch(ctx, t, apiclient.PathSolvability, nil, func(raw json.RawMessage) (func() error, error) {
		recs, err := analysis.SolvabilityRecords(raw)
		if err != nil {
			return nil, err
		}
		return func() error {
			if !l.registry.Available(charts.KindPie) {
				return fmt.Errorf("pie charts: %w", charts.ErrRenderingLibraryUnavailable)
			}
			cats := make([]string, len(recs))
			for i, r := range recs {
				cats[i] = r.Category
			}
			surfaces := l.board.Surfaces(cats)
			specs := make([]charts.KeyedSpec, len(recs))
			for i, r := range recs {
				specs[i] = charts.KeyedSpec{Key: r.Category, Spec: charts.Spec{Surface: surfaces[i], Config: SolvabilityConfig(r)}}
			}
			// Redraw reuses these surfaces; only a new load rebuilds the board.
			return l.draw(func() error { return l.registry.ReplaceSet(l.panel, specs) })
		}, nil
	})
}

// SolvabilityConfig is a two-slice pie whose tooltip always reports both slices.
func SolvabilityConfig(r types.SolvabilityRecord) charts.Config {
	return charts.Config{
		Type:   charts.KindPie,
		Title:  r.Category,
		Labels: []string{"Solvable", "Hard"},
		Datasets: []charts.Dataset{{
			Data:             []float64{r.Solvable, r.Hard},
			BackgroundColors: pieFill,
			BorderColors:     pieBorder,
			BorderWidth:      1,
		}},
		Responsive: true,
		Tooltip: func(c charts.TooltipContext) []string {
			if len(c.Dataset.Data) < 2 {
				return nil
			}
			return analysis.SolvabilityTooltip(c.Dataset.Data[0], c.Dataset.Data[1])
		},
	}
}
