package dashboard

import (
	"context"
	"fmt"
	"sync"

	"github.com/iafilius/StackflowDashboard/src/charts"
	"github.com/iafilius/StackflowDashboard/src/logger"
	"github.com/iafilius/StackflowDashboard/src/types"
)

var tabLog = logger.Component("tabs")

// TabView is a tab's button and panel container, toggled together.
type TabView interface {
	SetActive(active bool)
}

// TabEntry binds one tab id to its view and loader.
type TabEntry struct {
	View   TabView
	Loader Loader
}

// TabController keeps exactly one tab active and loads it on activation.
type TabController struct {
	mu       sync.Mutex
	registry *charts.Registry
	entries  map[types.Tab]TabEntry
	active   types.Tab
	onChange func(types.Tab)
}

// NewTabController needs an entry for every known tab.
func NewTabController(reg *charts.Registry, entries map[types.Tab]TabEntry) (*TabController, error) {
	for _, t := range types.AllTabs {
		e, ok := entries[t]
		if !ok || e.Loader == nil {
			return nil, fmt.Errorf("tab %s: no loader", t)
		}
		if e.Loader.Panel() != t {
			return nil, fmt.Errorf("tab %s: loader is for %s", t, e.Loader.Panel())
		}
	}
	for t := range entries {
		if !t.Valid() {
			return nil, &types.InvalidTabError{ID: string(t)}
		}
	}
	return &TabController{registry: reg, entries: entries}, nil
}

// OnChange registers a callback run after every successful activation (persisting the last tab).
func (c *TabController) OnChange(f func(types.Tab)) {
	c.mu.Lock()
	c.onChange = f
	c.mu.Unlock()
}

// Activate shows tab id, hides the others and runs its loader once. Results still in flight for
// the previously active panel are discarded. Unknown ids change nothing.
func (c *TabController) Activate(ctx context.Context, id string) error {
	tab, err := types.ParseTab(id)
	if err != nil {
		tabLog.Warnf("%v", err)
		return err
	}
	c.mu.Lock()
	prev := c.active
	for t, e := range c.entries {
		if e.View != nil {
			e.View.SetActive(t == tab)
		}
	}
	if prev != "" && prev != tab {
		c.registry.Invalidate(prev)
	}
	c.active = tab
	ticket := c.registry.Begin(tab)
	loader := c.entries[tab].Loader
	onChange := c.onChange
	c.mu.Unlock()

	tabLog.Debugf("activate %s (was %q)", tab, prev)
	loader.Load(ctx, ticket)
	if onChange != nil {
		onChange(tab)
	}
	return nil
}

// Reload runs the active tab's loader again.
func (c *TabController) Reload(ctx context.Context) error {
	active := c.Active()
	if active == "" {
		return fmt.Errorf("no active tab")
	}
	return c.Activate(ctx, string(active))
}

// Redraw re-renders the active tab's last chart, e.g. after a resize. It never fetches.
func (c *TabController) Redraw() error {
	c.mu.Lock()
	active := c.active
	loader := c.entries[active].Loader
	c.mu.Unlock()
	if active == "" {
		return fmt.Errorf("no active tab")
	}
	if r, ok := loader.(Redrawer); ok {
		return r.Redraw()
	}
	return nil
}

// Active is the current tab, empty before the first activation.
func (c *TabController) Active() types.Tab {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}
