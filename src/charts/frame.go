package charts

import (
	"image"
	"image/color"
	"image/draw"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

var backgroundDark = color.RGBA{R: 18, G: 18, B: 18, A: 255}

func blank(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(backgroundDark), image.Point{}, draw.Src)
	return img
}

// drawHint writes text near the bottom-left of img on a dark plate.
func drawHint(img image.Image, text string) image.Image {
	if img == nil || strings.TrimSpace(text) == "" {
		return img
	}
	b := img.Bounds()
	rgba := image.NewRGBA(b)
	draw.Draw(rgba, b, img, b.Min, draw.Src)
	face := basicfont.Face7x13
	pad := 6
	dr := &font.Drawer{Dst: rgba, Src: image.NewUniform(color.RGBA{R: 255, G: 255, B: 255, A: 255}), Face: face}
	tw := dr.MeasureString(text).Ceil()
	x := b.Min.X + 8
	y := b.Max.Y - 6
	plate := image.Rect(x-pad, y-face.Metrics().Ascent.Ceil()-pad, x+tw+pad, y+pad/2)
	draw.Draw(rgba, plate, image.NewUniform(color.RGBA{A: 200}), image.Point{}, draw.Over)
	shadow := &font.Drawer{Dst: rgba, Src: image.NewUniform(color.RGBA{A: 180}), Face: face, Dot: fixed.P(x+1, y+1)}
	shadow.DrawString(text)
	dr.Dot = fixed.P(x, y)
	dr.DrawString(text)
	return rgba
}

// noData is the frame shown for an empty dataset.
func noData(w, h int, title string) Frame {
	msg := "No data"
	if strings.TrimSpace(title) != "" {
		msg = title + ": no data"
	}
	return Frame{Image: drawHint(blank(w, h), msg)}
}

// ImageSurface keeps the last frame in memory. It backs headless rendering and tests.
type ImageSurface struct {
	mu     sync.Mutex
	w, h   int
	frame  Frame
	clears int
}

func NewImageSurface(w, h int) *ImageSurface { return &ImageSurface{w: w, h: h} }

func (s *ImageSurface) Size() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w, s.h
}

// Resize changes the size reported to responsive charts.
func (s *ImageSurface) Resize(w, h int) {
	s.mu.Lock()
	s.w, s.h = w, h
	s.mu.Unlock()
}

func (s *ImageSurface) Draw(f Frame) {
	s.mu.Lock()
	s.frame = f
	s.mu.Unlock()
}

func (s *ImageSurface) Clear() {
	s.mu.Lock()
	s.frame = Frame{}
	s.clears++
	s.mu.Unlock()
}

// Frame returns the last drawn frame, zero after Clear.
func (s *ImageSurface) Frame() Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frame
}

// Clears counts Clear calls.
func (s *ImageSurface) Clears() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clears
}
