// Package dashboard holds the tab controller, the per-panel loaders and the collection trigger.
//
// Nothing here touches a window toolkit directly. The viewer supplies views, surfaces and an
// Executor that marshals commits onto its UI thread; the headless tools use Inline.
package dashboard

// Executor runs work away from the UI thread and applies the commit it returns on the UI thread.
// A nil commit is skipped.
type Executor interface {
	Run(work func() (commit func()))
}

// Inline runs work and its commit synchronously on the calling goroutine.
type Inline struct{}

func (Inline) Run(work func() func()) {
	if c := work(); c != nil {
		c()
	}
}

// ExecutorFunc adapts a function that posts callbacks to a UI thread, running work on a new goroutine.
type ExecutorFunc func(func())

func (post ExecutorFunc) Run(work func() func()) {
	go func() {
		if c := work(); c != nil {
			post(c)
		}
	}()
}
