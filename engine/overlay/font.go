package overlay

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/spaghettifunk/cubism/engine/resources"
)

var ErrNoGlyphs = errors.New("bitmap font has no glyphs")

// Face draws single lines of text into an RGBA image.
type Face interface {
	// LineHeight is the distance between two baselines in pixels.
	LineHeight() int
	// Ascent is the distance from the top of a line to its baseline.
	Ascent() int
	// Measure returns the advance of s in pixels.
	Measure(s string) int
	// DrawString draws s with its baseline at (x, y) and returns the pen
	// position after the last glyph.
	DrawString(dst *image.RGBA, x, y int, s string, c color.Color) int
}

type kerningPair struct {
	first, second rune
}

// BitmapFace renders glyphs cut out of AngelCode bmfont pages.
type BitmapFace struct {
	lineHeight int
	base       int
	glyphs     map[rune]resources.FontGlyph
	kerning    map[kerningPair]int
	pages      map[int]*image.RGBA
	fallback   rune
}

func NewBitmapFace(data *resources.BitmapFontResourceData) (*BitmapFace, error) {
	if data == nil || data.Data == nil || len(data.Data.Glyphs) == 0 {
		return nil, ErrNoGlyphs
	}
	f := &BitmapFace{
		lineHeight: int(data.Data.LineHeight),
		base:       int(data.Data.Baseline),
		glyphs:     make(map[rune]resources.FontGlyph, len(data.Data.Glyphs)),
		kerning:    make(map[kerningPair]int, len(data.Data.Kernings)),
		pages:      make(map[int]*image.RGBA, len(data.PageImages)),
		fallback:   -1,
	}
	for _, g := range data.Data.Glyphs {
		f.glyphs[g.Codepoint] = g
	}
	for _, k := range data.Data.Kernings {
		f.kerning[kerningPair{k.Codepoint0, k.Codepoint1}] = int(k.Amount)
	}
	for id, img := range data.PageImages {
		f.pages[id] = &image.RGBA{
			Pix:    img.Pixels,
			Stride: int(img.Width) * 4,
			Rect:   image.Rect(0, 0, int(img.Width), int(img.Height)),
		}
	}
	if _, ok := f.glyphs['?']; ok {
		f.fallback = '?'
	}
	return f, nil
}

func (f *BitmapFace) LineHeight() int { return f.lineHeight }

func (f *BitmapFace) Ascent() int { return f.base }

func (f *BitmapFace) glyph(r rune) (resources.FontGlyph, bool) {
	if g, ok := f.glyphs[r]; ok {
		return g, true
	}
	g, ok := f.glyphs[f.fallback]
	return g, ok
}

func (f *BitmapFace) Measure(s string) int {
	x := 0
	prev := rune(-1)
	for _, r := range s {
		g, ok := f.glyph(r)
		if !ok {
			continue
		}
		x += f.kerning[kerningPair{prev, g.Codepoint}]
		x += int(g.XAdvance)
		prev = g.Codepoint
	}
	return x
}

func (f *BitmapFace) DrawString(dst *image.RGBA, x, y int, s string, c color.Color) int {
	src := image.NewUniform(c)
	top := y - f.base
	prev := rune(-1)
	for _, r := range s {
		g, ok := f.glyph(r)
		if !ok {
			continue
		}
		x += f.kerning[kerningPair{prev, g.Codepoint}]
		prev = g.Codepoint

		page, ok := f.pages[int(g.PageID)]
		if ok && g.Width > 0 && g.Height > 0 {
			target := image.Rect(0, 0, int(g.Width), int(g.Height)).
				Add(image.Pt(x+int(g.XOffset), top+int(g.YOffset)))
			// page alpha is the coverage
			draw.DrawMask(dst, target, src, image.Point{}, page, image.Pt(int(g.X), int(g.Y)), draw.Over)
		}
		x += int(g.XAdvance)
	}
	return x
}

// DrawerFace draws with any x/image font.Face.
type DrawerFace struct {
	face font.Face
}

// NewBasicFace returns the built-in fixed size fallback.
func NewBasicFace() *DrawerFace {
	return &DrawerFace{face: basicfont.Face7x13}
}

// NewSystemFace rasterizes the index-th font of a ttf/otf collection at size points.
func NewSystemFace(c *opentype.Collection, index int, size float64) (*DrawerFace, error) {
	if index < 0 || index >= c.NumFonts() {
		return nil, fmt.Errorf("font index %d out of range [0, %d)", index, c.NumFonts())
	}
	f, err := c.Font(index)
	if err != nil {
		return nil, err
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return nil, err
	}
	return &DrawerFace{face: face}, nil
}

func (f *DrawerFace) LineHeight() int { return f.face.Metrics().Height.Ceil() }

func (f *DrawerFace) Ascent() int { return f.face.Metrics().Ascent.Ceil() }

func (f *DrawerFace) Measure(s string) int {
	return font.MeasureString(f.face, s).Ceil()
}

func (f *DrawerFace) DrawString(dst *image.RGBA, x, y int, s string, c color.Color) int {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: f.face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
	return d.Dot.X.Ceil()
}
