package dashboard

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/iafilius/StackflowDashboard/src/apiclient"
	"github.com/iafilius/StackflowDashboard/src/logger"
)

const (
	CollectCooldown  = 5 * time.Second
	StatusCollecting = "Collecting data... (Check backend logs)"
)

var collectLog = logger.Component("collect")

// TextFetcher is the part of the API client the collection trigger needs.
type TextFetcher interface {
	FetchText(ctx context.Context, path string) (string, error)
}

// Control is the collect button.
type Control interface {
	Enable()
	Disable()
}

// CollectionTrigger starts the backend collection job. The control stays disabled for exactly
// CollectCooldown from the click, whether the request succeeds, fails or never returns.
type CollectionTrigger struct {
	client   TextFetcher
	exec     Executor
	clock    clockwork.Clock
	control  Control
	status   Notifier
	cooldown time.Duration

	mu      sync.Mutex
	cooling bool
}

func NewCollectionTrigger(client TextFetcher, exec Executor, clock clockwork.Clock, control Control, status Notifier) *CollectionTrigger {
	if exec == nil {
		exec = Inline{}
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &CollectionTrigger{client: client, exec: exec, clock: clock, control: control, status: status, cooldown: CollectCooldown}
}

// Trigger fires the job. It reports false and does nothing while cooling down.
func (c *CollectionTrigger) Trigger(ctx context.Context) bool {
	c.mu.Lock()
	if c.cooling {
		c.mu.Unlock()
		collectLog.Debugf("ignored: cooling down")
		return false
	}
	c.cooling = true
	c.mu.Unlock()

	if c.control != nil {
		c.control.Disable()
	}
	c.setStatus(StatusCollecting)
	c.clock.AfterFunc(c.cooldown, func() {
		c.exec.Run(func() func() { return c.rearm })
	})
	c.exec.Run(func() func() {
		text, err := c.client.FetchText(ctx, apiclient.PathCollect)
		return func() {
			if err != nil {
				collectLog.Errorf("collect failed: %v", err)
				c.setStatus("Error: " + err.Error())
				return
			}
			collectLog.Infof("collection started: %s", text)
			c.setStatus("Started: " + text)
		}
	})
	return true
}

// CoolingDown reports whether the control is currently disabled.
func (c *CollectionTrigger) CoolingDown() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cooling
}

func (c *CollectionTrigger) rearm() {
	c.mu.Lock()
	c.cooling = false
	c.mu.Unlock()
	if c.control != nil {
		c.control.Enable()
	}
}

func (c *CollectionTrigger) setStatus(s string) {
	if c.status != nil {
		c.status(s)
	}
}
