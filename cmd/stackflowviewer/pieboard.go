package main

import (
	fyne "fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/iafilius/StackflowDashboard/src/charts"
)

// pieBoard lays the solvability pies out in a wrapping grid, one titled cell per category.
type pieBoard struct {
	cell  fyne.Size
	grid  *fyne.Container
	views []*chartView
}

func newPieBoard(cell fyne.Size) *pieBoard {
	return &pieBoard{cell: cell, grid: container.NewGridWrap(cell)}
}

func (b *pieBoard) Surfaces(categories []string) []charts.Surface {
	b.views = make([]*chartView, len(categories))
	cells := make([]fyne.CanvasObject, len(categories))
	out := make([]charts.Surface, len(categories))
	for i, cat := range categories {
		v := newChartView(fyne.NewSize(b.cell.Width, b.cell.Height-40))
		title := widget.NewLabelWithStyle(cat, fyne.TextAlignCenter, fyne.TextStyle{Bold: true})
		b.views[i] = v
		cells[i] = container.NewBorder(title, nil, nil, nil, v)
		out[i] = v.Surface()
	}
	b.grid.Objects = cells
	b.grid.Refresh()
	return out
}
