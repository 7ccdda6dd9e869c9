package charts

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/iafilius/StackflowDashboard/src/logger"
	"github.com/iafilius/StackflowDashboard/src/types"
)

var log = logger.Component("charts")

// Slot names one renderable chart instance.
type Slot string

// PanelSlot is the single slot of a panel that renders one chart.
func PanelSlot(panel types.Tab) Slot { return Slot(panel) }

// SetSlot is a member slot of a panel that renders a dynamic set of charts.
func SetSlot(panel types.Tab, key string) Slot { return Slot(string(panel) + "/" + key) }

// Spec is what Replace needs: where to draw and what.
type Spec struct {
	Surface Surface
	Config  Config
}

// KeyedSpec is one member of a ReplaceSet call.
type KeyedSpec struct {
	Key  string
	Spec Spec
}

// Ticket marks one load of a panel. It stays current until the panel is loaded again or invalidated.
type Ticket struct {
	Panel types.Tab
	gen   uint64
}

// Registry exclusively owns all chart handles.
type Registry struct {
	mu      sync.Mutex
	libs    map[Kind]Library
	handles map[Slot]Handle
	sets    map[types.Tab][]Slot
	gens    map[types.Tab]uint64
}

// NewRegistry returns an empty registry. Kinds without a library fail with ErrRenderingLibraryUnavailable.
func NewRegistry() *Registry {
	return &Registry{
		libs:    map[Kind]Library{},
		handles: map[Slot]Handle{},
		sets:    map[types.Tab][]Slot{},
		gens:    map[types.Tab]uint64{},
	}
}

// NewDefaultRegistry renders line, bar and pie charts with go-chart and word clouds with WordCloud.
func NewDefaultRegistry() *Registry {
	return NewRegistry().
		Use(KindLine, GoChart{}).
		Use(KindBar, GoChart{}).
		Use(KindPie, GoChart{}).
		Use(KindWordCloud, WordCloud{})
}

// Use registers lib for kind. A nil lib unregisters it.
func (r *Registry) Use(kind Kind, lib Library) *Registry {
	r.mu.Lock()
	defer r.mu.Unlock()
	if lib == nil {
		delete(r.libs, kind)
	} else {
		r.libs[kind] = lib
	}
	return r
}

// Available reports whether kind can be rendered.
func (r *Registry) Available(kind Kind) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.libs[kind] != nil
}

// Replace destroys the handle at slot, if any, then constructs spec in its place.
// When no library serves spec's kind nothing is touched and ErrRenderingLibraryUnavailable is returned.
func (r *Registry) Replace(slot Slot, spec Spec) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	lib := r.libs[spec.Config.Type]
	if lib == nil {
		return fmt.Errorf("%s chart for %s: %w", spec.Config.Type, slot, ErrRenderingLibraryUnavailable)
	}
	r.destroyLocked(slot)
	h, err := lib.Construct(spec.Surface, spec.Config)
	if err != nil {
		return fmt.Errorf("construct %s chart for %s: %w", spec.Config.Type, slot, err)
	}
	r.handles[slot] = h
	return nil
}

// ReplaceSet destroys the whole previous set of panel, whatever its keys were, then constructs specs.
func (r *Registry) ReplaceSet(panel types.Tab, specs []KeyedSpec) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	seen := make(map[string]bool, len(specs))
	for _, ks := range specs {
		if seen[ks.Key] {
			return fmt.Errorf("%s: duplicate chart key %q", panel, ks.Key)
		}
		seen[ks.Key] = true
		if r.libs[ks.Spec.Config.Type] == nil {
			return fmt.Errorf("%s chart for %s: %w", ks.Spec.Config.Type, SetSlot(panel, ks.Key), ErrRenderingLibraryUnavailable)
		}
	}
	for _, s := range r.sets[panel] {
		r.destroyLocked(s)
	}
	delete(r.sets, panel)

	slots := make([]Slot, 0, len(specs))
	for _, ks := range specs {
		slot := SetSlot(panel, ks.Key)
		h, err := r.libs[ks.Spec.Config.Type].Construct(ks.Spec.Surface, ks.Spec.Config)
		if err != nil {
			r.sets[panel] = slots
			return fmt.Errorf("construct %s: %w", slot, err)
		}
		r.handles[slot] = h
		slots = append(slots, slot)
	}
	r.sets[panel] = slots
	return nil
}

// Begin starts a new load of panel, superseding every earlier ticket for it.
func (r *Registry) Begin(panel types.Tab) Ticket {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.gens[panel]++
	return Ticket{Panel: panel, gen: r.gens[panel]}
}

// Current reports whether t is the latest ticket of its panel.
func (r *Registry) Current(t Ticket) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return t.gen != 0 && r.gens[t.Panel] == t.gen
}

// Invalidate supersedes every outstanding ticket for panel without starting a load.
func (r *Registry) Invalidate(panel types.Tab) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.gens[panel]++
}

// Teardown destroys every chart of panel and drops its in-flight tickets.
func (r *Registry) Teardown(panel types.Tab) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.gens[panel]++
	prefix := string(panel) + "/"
	for slot := range r.handles {
		if slot == PanelSlot(panel) || strings.HasPrefix(string(slot), prefix) {
			r.destroyLocked(slot)
		}
	}
	delete(r.sets, panel)
}

// Close destroys every live chart.
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := len(r.handles)
	for slot := range r.handles {
		r.destroyLocked(slot)
	}
	r.sets = map[types.Tab][]Slot{}
	for p := range r.gens {
		r.gens[p]++
	}
	if n > 0 {
		log.Debugf("closed %d charts", n)
	}
}

// Live reports whether slot holds a chart.
func (r *Registry) Live(slot Slot) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.handles[slot]
	return ok
}

// LiveCount is the number of live charts across all panels.
func (r *Registry) LiveCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.handles)
}

// LiveSlots lists live slots in sorted order (diagnostics).
func (r *Registry) LiveSlots() []Slot {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Slot, 0, len(r.handles))
	for s := range r.handles {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (r *Registry) destroyLocked(slot Slot) {
	h, ok := r.handles[slot]
	if !ok {
		return
	}
	delete(r.handles, slot)
	h.Destroy()
}
