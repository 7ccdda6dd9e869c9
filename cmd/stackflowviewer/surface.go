package main

import (
	"image"
	"image/color"
	"strings"
	"sync"

	fyne "fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"github.com/iafilius/StackflowDashboard/src/charts"
)

// chartView shows the last chart frame and its tooltip under the pointer.
type chartView struct {
	widget.BaseWidget
	min fyne.Size

	mu       sync.Mutex
	frame    charts.Frame
	mouse    fyne.Position
	hovering bool

	img *canvas.Image
}

func newChartView(min fyne.Size) *chartView {
	v := &chartView{min: min}
	v.img = canvas.NewImageFromImage(nil)
	v.img.FillMode = canvas.ImageFillContain
	v.img.ScaleMode = canvas.ImageScaleSmooth
	v.ExtendBaseWidget(v)
	return v
}

// Surface adapts the widget to charts.Surface; the widget's own Size has a different signature.
func (v *chartView) Surface() charts.Surface { return viewSurface{v} }

// Image is the frame currently shown, nil when cleared.
func (v *chartView) Image() image.Image {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.frame.Image
}

func (v *chartView) setFrame(f charts.Frame) {
	v.mu.Lock()
	v.frame = f
	v.mu.Unlock()
	v.img.Image = f.Image
	v.img.Refresh()
	v.Refresh()
}

// tooltip returns the lines for the pointer position in widget coordinates.
func (v *chartView) tooltip() ([]string, fyne.Position) {
	v.mu.Lock()
	f, mouse, hovering := v.frame, v.mouse, v.hovering
	v.mu.Unlock()
	if !hovering || f.Image == nil || f.Tooltip == nil {
		return nil, mouse
	}
	b := f.Image.Bounds()
	x, y, ok := viewToImage(mouse, float32(b.Dx()), float32(b.Dy()), v.Size())
	if !ok {
		return nil, mouse
	}
	return f.Tooltip(x, y), mouse
}

type viewSurface struct{ v *chartView }

func (s viewSurface) Size() (int, int) {
	sz := s.v.Size()
	if sz.Width < 1 || sz.Height < 1 {
		sz = s.v.min
	}
	return int(sz.Width), int(sz.Height)
}

func (s viewSurface) Draw(f charts.Frame) { s.v.setFrame(f) }
func (s viewSurface) Clear()              { s.v.setFrame(charts.Frame{}) }

// containRect is where an imgW x imgH image lands inside a view with ImageFillContain.
func containRect(imgW, imgH, viewW, viewH float32) (x, y, w, h, scale float32) {
	if imgW <= 0 || imgH <= 0 || viewW <= 0 || viewH <= 0 {
		return 0, 0, 0, 0, 0
	}
	scale = viewW / imgW
	if sy := viewH / imgH; sy < scale {
		scale = sy
	}
	w, h = imgW*scale, imgH*scale
	return (viewW - w) / 2, (viewH - h) / 2, w, h, scale
}

// viewToImage maps a widget position to image pixels; ok is false outside the drawn image.
func viewToImage(p fyne.Position, imgW, imgH float32, view fyne.Size) (int, int, bool) {
	x, y, w, h, scale := containRect(imgW, imgH, view.Width, view.Height)
	if scale <= 0 || p.X < x || p.Y < y || p.X > x+w || p.Y > y+h {
		return 0, 0, false
	}
	ix, iy := int((p.X-x)/scale), int((p.Y-y)/scale)
	if ix >= int(imgW) {
		ix = int(imgW) - 1
	}
	if iy >= int(imgH) {
		iy = int(imgH) - 1
	}
	return ix, iy, true
}

// placeTooltip offsets the box from the pointer and keeps it inside the view.
func placeTooltip(mouse fyne.Position, box, view fyne.Size) fyne.Position {
	tx, ty := mouse.X+12, mouse.Y+12
	if tx+box.Width > view.Width {
		tx = view.Width - box.Width
	}
	if ty+box.Height > view.Height {
		ty = mouse.Y - box.Height - 4
	}
	if tx < 0 {
		tx = 0
	}
	if ty < 0 {
		ty = 0
	}
	return fyne.NewPos(tx, ty)
}

func (v *chartView) CreateRenderer() fyne.WidgetRenderer {
	// transparent background for a full hover hit-area
	bg := canvas.NewRectangle(color.RGBA{})
	label := widget.NewLabel("")
	label.Wrapping = fyne.TextWrapOff
	labelBG := canvas.NewRectangle(color.RGBA{A: 190})
	return &chartViewRenderer{v: v, bg: bg, label: label, labelBG: labelBG, objs: []fyne.CanvasObject{bg, v.img, labelBG, label}}
}

type chartViewRenderer struct {
	v       *chartView
	bg      *canvas.Rectangle
	label   *widget.Label
	labelBG *canvas.Rectangle
	objs    []fyne.CanvasObject
}

func (r *chartViewRenderer) Destroy() {}

func (r *chartViewRenderer) Layout(size fyne.Size) {
	r.bg.Resize(size)
	r.v.img.Move(fyne.NewPos(0, 0))
	r.v.img.Resize(size)
	lines, mouse := r.v.tooltip()
	if len(lines) == 0 {
		r.label.Hide()
		r.labelBG.Hide()
		return
	}
	r.label.SetText(strings.Join(lines, "\n"))
	ts := r.label.MinSize()
	pos := placeTooltip(mouse, ts, size)
	r.labelBG.Resize(ts)
	r.labelBG.Move(pos)
	r.label.Resize(ts)
	r.label.Move(pos)
	r.labelBG.Show()
	r.label.Show()
}

func (r *chartViewRenderer) MinSize() fyne.Size           { return r.v.min }
func (r *chartViewRenderer) Objects() []fyne.CanvasObject { return r.objs }
func (r *chartViewRenderer) Refresh() {
	r.Layout(r.v.Size())
	r.bg.Refresh()
	r.labelBG.Refresh()
}

func (v *chartView) MouseIn(ev *desktop.MouseEvent) { v.hover(ev.Position, true) }
func (v *chartView) MouseMoved(ev *desktop.MouseEvent) {
	v.hover(ev.Position, true)
}
func (v *chartView) MouseOut() { v.hover(fyne.Position{}, false) }

func (v *chartView) hover(p fyne.Position, in bool) {
	v.mu.Lock()
	v.mouse, v.hovering = p, in
	v.mu.Unlock()
	v.Refresh()
}

var _ desktop.Hoverable = (*chartView)(nil)
