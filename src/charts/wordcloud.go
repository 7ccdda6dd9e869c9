package charts

import (
	"hash/fnv"
	"image"
	"image/color"
	"math"
	"strconv"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	cloudGrid    = 8
	cloudMinSize = 8
)

var (
	cloudBackground = color.RGBA{R: 0xf0, G: 0xf0, B: 0xf0, A: 0xff}
	// Dark tones readable on the light background.
	cloudPalette = []color.RGBA{
		{R: 0x1f, G: 0x3a, B: 0x5f, A: 0xff},
		{R: 0x7a, G: 0x1f, B: 0x2b, A: 0xff},
		{R: 0x2e, G: 0x5e, B: 0x2e, A: 0xff},
		{R: 0x5b, G: 0x2c, B: 0x6f, A: 0xff},
		{R: 0x8a, G: 0x4b, B: 0x08, A: 0xff},
		{R: 0x1b, G: 0x4f, B: 0x4f, A: 0xff},
		{R: 0x40, G: 0x40, B: 0x40, A: 0xff},
	}
)

// WordCloud lays words out on a spiral from the centre in payload order.
// Labels are the words and Datasets[0].Data their weights; Config.WeightFactor maps a weight to a
// pixel height. Every other word is turned 90 degrees. Words that do not fit are left out.
type WordCloud struct{}

type placedWord struct {
	rect   image.Rectangle
	word   string
	weight float64
}

func (WordCloud) Construct(s Surface, cfg Config) (Handle, error) {
	w, h := chartDimensions(s, cfg)
	f := renderCloud(cfg, w, h)
	if s != nil {
		s.Draw(f)
	}
	return &surfaceHandle{s: s}, nil
}

func renderCloud(cfg Config, w, h int) Frame {
	if len(cfg.Labels) == 0 || len(cfg.Datasets) == 0 {
		return noData(w, h, cfg.Title)
	}
	weights := cfg.Datasets[0].Data
	factor := cfg.WeightFactor
	if factor == nil {
		factor = func(v float64) float64 { return v }
	}
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(cloudBackground), image.Point{}, draw.Src)

	var placed []placedWord
	maxH := float64(h) / 3
	for i, word := range cfg.Labels {
		if i >= len(weights) {
			break
		}
		size := factor(weights[i])
		if math.IsNaN(size) || size < cloudMinSize {
			if !(size > 0) {
				continue
			}
			size = cloudMinSize
		}
		size = math.Min(size, maxH)
		glyph := rasterWord(word, int(size), wordColor(word), i%2 == 1)
		if glyph == nil {
			continue
		}
		r, ok := findSpot(glyph.Bounds().Size(), w, h, placed)
		if !ok {
			log.Debugf("word cloud: no room for %q", word)
			continue
		}
		draw.Draw(img, r, glyph, image.Point{}, draw.Over)
		placed = append(placed, placedWord{rect: r, word: word, weight: weights[i]})
	}
	if cfg.Title != "" {
		d := &font.Drawer{Dst: img, Src: image.NewUniform(cloudPalette[6]), Face: basicfont.Face7x13, Dot: fixed.P(8, 16)}
		d.DrawString(cfg.Title)
	}
	return Frame{Image: img, Tooltip: func(x, y int) []string {
		p := image.Pt(x, y)
		for i := len(placed) - 1; i >= 0; i-- {
			if p.In(placed[i].rect) {
				pw := placed[i]
				if cfg.Tooltip != nil {
					idx := indexOf(cfg.Labels, pw.word)
					return cfg.Tooltip(TooltipContext{Index: idx, Label: pw.word, Value: pw.weight, Dataset: cfg.Datasets[0]})
				}
				return []string{pw.word + ": " + strconv.FormatFloat(pw.weight, 'f', -1, 64)}
			}
		}
		return nil
	}}
}

func indexOf(xs []string, s string) int {
	for i, x := range xs {
		if x == s {
			return i
		}
	}
	return -1
}

// wordColor picks a stable dark tone per word.
func wordColor(word string) color.RGBA {
	h := fnv.New32a()
	_, _ = h.Write([]byte(word))
	return cloudPalette[int(h.Sum32()%uint32(len(cloudPalette)-1))]
}

// rasterWord draws word with the 7x13 face and scales it to px pixels high.
func rasterWord(word string, px int, col color.RGBA, vertical bool) *image.RGBA {
	face := basicfont.Face7x13
	d := &font.Drawer{Face: face}
	tw := d.MeasureString(word).Ceil()
	if tw <= 0 || px <= 0 {
		return nil
	}
	fh := face.Metrics().Height.Ceil()
	src := image.NewRGBA(image.Rect(0, 0, tw, fh))
	d.Dst = src
	d.Src = image.NewUniform(col)
	d.Dot = fixed.P(0, face.Metrics().Ascent.Ceil())
	d.DrawString(word)

	scale := float64(px) / float64(fh)
	dw := int(math.Ceil(float64(tw) * scale))
	dst := image.NewRGBA(image.Rect(0, 0, dw, px))
	draw.BiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)
	if vertical {
		return rotate90(dst)
	}
	return dst
}

// rotate90 turns img a quarter turn counter-clockwise so vertical words read bottom to top.
func rotate90(img *image.RGBA) *image.RGBA {
	b := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dy(), b.Dx()))
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			out.SetRGBA(y, b.Dx()-1-x, img.RGBAAt(b.Min.X+x, b.Min.Y+y))
		}
	}
	return out
}

// findSpot walks an Archimedean spiral from the centre in grid steps until sz fits without
// overlapping an earlier word.
func findSpot(sz image.Point, w, h int, placed []placedWord) (image.Rectangle, bool) {
	if sz.X > w || sz.Y > h {
		return image.Rectangle{}, false
	}
	bounds := image.Rect(0, 0, w, h)
	cx, cy := float64(w)/2, float64(h)/2
	maxR := math.Hypot(cx, cy)
	for t := 0.0; ; t += 0.1 {
		r := float64(cloudGrid) * t / (2 * math.Pi)
		if r > maxR {
			return image.Rectangle{}, false
		}
		x := int(cx+r*math.Cos(t)) - sz.X/2
		y := int(cy+r*math.Sin(t)) - sz.Y/2
		cand := image.Rect(x, y, x+sz.X, y+sz.Y)
		if !cand.In(bounds) {
			continue
		}
		free := true
		for _, p := range placed {
			if cand.Overlaps(p.rect.Inset(-1)) {
				free = false
				break
			}
		}
		if free {
			return cand, true
		}
	}
}
