package main

import (
	"context"
	"image"
	"image/png"
	"time"

	fyne "fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"github.com/iafilius/StackflowDashboard/src/charts"
	"github.com/iafilius/StackflowDashboard/src/config"
	"github.com/iafilius/StackflowDashboard/src/dashboard"
	"github.com/iafilius/StackflowDashboard/src/logger"
	"github.com/iafilius/StackflowDashboard/src/types"
)

var log = logger.Component("viewer")

// tabView is one tab button and the body it shows.
type tabView struct {
	btn  *widget.Button
	body fyne.CanvasObject
}

func (v *tabView) SetActive(active bool) {
	if active {
		v.btn.Importance = widget.HighImportance
		v.body.Show()
	} else {
		v.btn.Importance = widget.LowImportance
		v.body.Hide()
	}
	v.btn.Refresh()
}

// buttonControl is the collect button as seen by the collection trigger.
type buttonControl struct{ b *widget.Button }

func (c buttonControl) Enable()  { c.b.Enable() }
func (c buttonControl) Disable() { c.b.Disable() }

type uiState struct {
	app    fyne.App
	window fyne.Window
	ctx    context.Context
	cancel context.CancelFunc
	db     *dashboard.Dashboard
	prefs  viewerPrefs

	views map[types.Tab]*chartView
	board *pieBoard

	tagEntry, startEntry, endEntry, topNEntry *widget.Entry
	status                                    *widget.Label
}

func buildUI(a fyne.App, w fyne.Window, client dashboard.API, cfg *config.Config, explicit func(string) bool) (*uiState, error) {
	ctx, cancel := context.WithCancel(context.Background())
	state := &uiState{app: a, window: w, ctx: ctx, cancel: cancel}
	state.prefs = loadPrefs(a.Preferences(), cfg, explicit)

	chartMin := fyne.NewSize(900, 420)
	state.views = map[types.Tab]*chartView{
		types.TabTrends:       newChartView(chartMin),
		types.TabCooccurrence: newChartView(chartMin),
		types.TabPitfalls:     newChartView(chartMin),
	}
	state.board = newPieBoard(fyne.NewSize(320, 300))

	state.status = widget.NewLabel("")
	state.status.Wrapping = fyne.TextWrapWord

	state.tagEntry = widget.NewEntry()
	state.tagEntry.SetPlaceHolder("tag, e.g. java")
	state.tagEntry.SetText(state.prefs.Tag)
	state.startEntry = widget.NewEntry()
	state.startEntry.SetPlaceHolder("start (2008-01)")
	state.endEntry = widget.NewEntry()
	state.endEntry.SetPlaceHolder("end (now)")
	state.topNEntry = widget.NewEntry()
	state.topNEntry.SetPlaceHolder("top N (10)")
	state.topNEntry.SetText(state.prefs.TopN)

	reload := func(string) { state.reload() }
	state.tagEntry.OnSubmitted = reload
	state.startEntry.OnSubmitted = reload
	state.endEntry.OnSubmitted = reload
	state.topNEntry.OnSubmitted = reload

	bodies := map[types.Tab]fyne.CanvasObject{
		types.TabTrends: container.NewBorder(
			container.NewGridWithColumns(4, state.tagEntry, state.startEntry, state.endEntry,
				widget.NewButton("Load", state.reload)),
			nil, nil, nil, state.views[types.TabTrends]),
		types.TabCooccurrence: container.NewBorder(
			container.NewHBox(widget.NewLabel("Top N:"), container.NewGridWrap(fyne.NewSize(120, 36), state.topNEntry),
				widget.NewButton("Load", state.reload)),
			nil, nil, nil, state.views[types.TabCooccurrence]),
		types.TabPitfalls:    state.views[types.TabPitfalls],
		types.TabSolvability: container.NewVScroll(state.board.grid),
	}

	tabViews := make(map[types.Tab]dashboard.TabView, len(types.AllTabs))
	var buttons, stack []fyne.CanvasObject
	for _, t := range types.AllTabs {
		t := t
		tv := &tabView{body: bodies[t]}
		tv.btn = widget.NewButton(t.Title(), func() { state.activate(string(t)) })
		tv.btn.Importance = widget.LowImportance
		tabViews[t] = tv
		buttons = append(buttons, tv.btn)
		stack = append(stack, tv.body)
	}

	collectBtn := widget.NewButton("Collect Data", nil)
	db, err := dashboard.New(dashboard.Deps{
		Client: client,
		Exec:   dashboard.ExecutorFunc(fyne.Do),
		Notify: state.setStatus,
	}, dashboard.Surfaces{
		Trends:       state.views[types.TabTrends].Surface(),
		Cooccurrence: state.views[types.TabCooccurrence].Surface(),
		Pitfalls:     state.views[types.TabPitfalls].Surface(),
		Solvability:  state.board,
	}, dashboard.Inputs{
		Trend: func() dashboard.TrendInput {
			return dashboard.TrendInput{Tag: state.tagEntry.Text, Start: state.startEntry.Text, End: state.endEntry.Text}
		},
		TopN: func() string { return state.topNEntry.Text },
	}, tabViews, buttonControl{collectBtn})
	if err != nil {
		cancel()
		return nil, err
	}
	state.db = db
	collectBtn.OnTapped = func() { db.Collect.Trigger(state.ctx) }
	db.Tabs.OnChange(func(t types.Tab) {
		state.prefs.Tab = t
		state.savePrefs()
	})

	top := container.NewBorder(nil, nil, container.NewHBox(buttons...), collectBtn)
	content := container.NewBorder(top, state.status, nil, nil, container.NewStack(stack...))
	w.SetContent(content)
	buildMenus(state)
	return state, nil
}

// start opens the remembered tab and begins watching the window width.
func (s *uiState) start() {
	s.activate(string(s.prefs.Tab))

	done := make(chan struct{})
	s.window.SetOnClosed(func() {
		s.savePrefs()
		s.cancel()
		s.db.Close()
		close(done)
	})
	// Re-render on resize so responsive charts track the window width.
	go func() {
		prevW := float32(0)
		t := time.NewTicker(300 * time.Millisecond)
		defer t.Stop()
		for {
			select {
			case <-done:
				return
			case <-t.C:
				c := s.window.Canvas()
				if c == nil {
					continue
				}
				curW := c.Size().Width
				if prevW != 0 && curW != prevW {
					fyne.Do(s.redraw)
				}
				prevW = curW
			}
		}
	}()
}

func (s *uiState) activate(id string) {
	if err := s.db.Tabs.Activate(s.ctx, id); err != nil {
		s.setStatus(err.Error())
	}
}

func (s *uiState) reload() {
	if err := s.db.Tabs.Reload(s.ctx); err != nil {
		log.Warnf("reload: %v", err)
	}
}

func (s *uiState) redraw() {
	if err := s.db.Tabs.Redraw(); err != nil {
		log.Debugf("redraw: %v", err)
	}
}

func (s *uiState) setStatus(msg string) { s.status.SetText(msg) }

func (s *uiState) savePrefs() {
	s.prefs.Tag = s.tagEntry.Text
	s.prefs.TopN = s.topNEntry.Text
	savePrefs(s.app.Preferences(), s.prefs)
}

// activeImage is the chart on the active tab, or the whole window for the pie grid.
func (s *uiState) activeImage() image.Image {
	t := s.db.Tabs.Active()
	if v, ok := s.views[t]; ok {
		return v.Image()
	}
	if t == types.TabSolvability && s.window.Canvas() != nil {
		return s.window.Canvas().Capture()
	}
	return nil
}

func buildMenus(state *uiState) {
	exportItem := fyne.NewMenuItem("Export Chart PNG…", func() { exportChartPNG(state) })
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Reload", state.reload),
		fyne.NewMenuItem("Collect Data", func() { state.db.Collect.Trigger(state.ctx) }),
		fyne.NewMenuItemSeparator(),
		exportItem,
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() { state.window.Close() }),
	)
	var tabItems []*fyne.MenuItem
	for _, t := range types.AllTabs {
		t := t
		tabItems = append(tabItems, fyne.NewMenuItem(t.Title(), func() { state.activate(string(t)) }))
	}
	state.window.SetMainMenu(fyne.NewMainMenu(fileMenu, fyne.NewMenu("View", tabItems...)))

	canv := state.window.Canvas()
	if canv == nil {
		return
	}
	for _, mod := range []fyne.KeyModifier{fyne.KeyModifierSuper, fyne.KeyModifierControl} {
		canv.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyR, Modifier: mod}, func(fyne.Shortcut) { state.reload() })
		canv.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyW, Modifier: mod}, func(fyne.Shortcut) { state.window.Close() })
		for i, t := range types.AllTabs {
			t := t
			key := []fyne.KeyName{fyne.Key1, fyne.Key2, fyne.Key3, fyne.Key4}[i]
			canv.AddShortcut(&desktop.CustomShortcut{KeyName: key, Modifier: mod}, func(fyne.Shortcut) { state.activate(string(t)) })
		}
	}
}

// export PNG
func exportChartPNG(state *uiState) {
	img := state.activeImage()
	if img == nil {
		dialog.ShowInformation("Export", "No chart to export.", state.window)
		return
	}
	fs := dialog.NewFileSave(func(wc fyne.URIWriteCloser, err error) {
		if err != nil || wc == nil {
			return
		}
		defer wc.Close()
		if err := png.Encode(wc, img); err != nil {
			dialog.ShowError(err, state.window)
		}
	}, state.window)
	fs.SetFileName(string(state.db.Tabs.Active()) + ".png")
	fs.Show()
}

var _ charts.Surface = viewSurface{}
