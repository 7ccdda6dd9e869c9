package dashboard

import (
	"context"
	"sync"

	"github.com/jonboulle/clockwork"

	"github.com/iafilius/StackflowDashboard/src/charts"
	"github.com/iafilius/StackflowDashboard/src/types"
)

// API is everything the dashboard asks of the backend client.
type API interface {
	Fetcher
	TextFetcher
}

// Deps are the collaborators shared by every loader.
type Deps struct {
	Client   API
	Registry *charts.Registry
	Exec     Executor
	Clock    clockwork.Clock
	Notify   Notifier
}

// Surfaces are the drawing targets of each panel.
type Surfaces struct {
	Trends       charts.Surface
	Cooccurrence charts.Surface
	Pitfalls     charts.Surface
	Solvability  PieBoard
}

// Inputs read the panel entries at load time.
type Inputs struct {
	Trend func() TrendInput
	TopN  func() string
}

// Dashboard is the assembled controller: tabs, loaders, collection trigger and the chart registry.
type Dashboard struct {
	Registry *charts.Registry
	Tabs     *TabController
	Loaders  map[types.Tab]Loader
	Collect  *CollectionTrigger
}

// New wires the four loaders to their surfaces and views. views and collect may be nil headless.
func New(d Deps, s Surfaces, in Inputs, views map[types.Tab]TabView, collect Control) (*Dashboard, error) {
	if d.Registry == nil {
		d.Registry = charts.NewDefaultRegistry()
	}
	if in.Trend == nil {
		in.Trend = func() TrendInput { return TrendInput{} }
	}
	if s.Solvability == nil {
		s.Solvability = &ImageBoard{W: 480, H: 360}
	}
	if in.TopN == nil {
		in.TopN = func() string { return "" }
	}
	loaders := map[types.Tab]Loader{
		types.TabTrends:       NewTrendsLoader(d, s.Trends, in.Trend),
		types.TabCooccurrence: NewCooccurrenceLoader(d, s.Cooccurrence, in.TopN),
		types.TabPitfalls:     NewPitfallsLoader(d, s.Pitfalls),
		types.TabSolvability:  NewSolvabilityLoader(d, s.Solvability),
	}
	entries := make(map[types.Tab]TabEntry, len(loaders))
	for t, l := range loaders {
		entries[t] = TabEntry{View: views[t], Loader: l}
	}
	tabs, err := NewTabController(d.Registry, entries)
	if err != nil {
		return nil, err
	}
	return &Dashboard{
		Registry: d.Registry,
		Tabs:     tabs,
		Loaders:  loaders,
		Collect:  NewCollectionTrigger(d.Client, d.Exec, d.Clock, collect, d.Notify),
	}, nil
}

// LoadAll runs every loader once with a fresh ticket, leaving the active tab untouched (headless export).
func (db *Dashboard) LoadAll(ctx context.Context) {
	for _, t := range types.AllTabs {
		db.Loaders[t].Load(ctx, db.Registry.Begin(t))
	}
}

// Close destroys every chart.
func (db *Dashboard) Close() { db.Registry.Close() }

// ImageBoard is a PieBoard backed by in-memory surfaces.
type ImageBoard struct {
	W, H int

	mu       sync.Mutex
	cats     []string
	surfaces []*charts.ImageSurface
}

func (b *ImageBoard) Surfaces(categories []string) []charts.Surface {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cats = append([]string(nil), categories...)
	b.surfaces = make([]*charts.ImageSurface, len(categories))
	out := make([]charts.Surface, len(categories))
	for i := range categories {
		b.surfaces[i] = charts.NewImageSurface(b.W, b.H)
		out[i] = b.surfaces[i]
	}
	return out
}

// Pies returns the current categories and their surfaces.
func (b *ImageBoard) Pies() ([]string, []*charts.ImageSurface) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.cats, b.surfaces
}
