package overlay

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	"github.com/spaghettifunk/cubism/engine/resources"
)

func testFont() *resources.BitmapFontResourceData {
	pixels := make([]uint8, 8*8*4)
	for i := range pixels {
		pixels[i] = 255
	}
	return &resources.BitmapFontResourceData{
		Data: &resources.FontData{
			FontType:   resources.FONT_TYPE_BITMAP,
			LineHeight: 6,
			Baseline:   4,
			Glyphs: []resources.FontGlyph{
				{Codepoint: 'A', X: 0, Y: 0, Width: 4, Height: 4, XAdvance: 5},
				{Codepoint: 'B', X: 4, Y: 0, Width: 4, Height: 4, XAdvance: 5},
				{Codepoint: ' ', XAdvance: 3},
			},
			Kernings: []resources.FontKerning{{Codepoint0: 'A', Codepoint1: 'B', Amount: -1}},
		},
		PageImages: map[int]*resources.ImageResourceData{
			0: {Width: 8, Height: 8, Pixels: pixels, Premultiplied: true},
		},
	}
}

func TestNewBitmapFaceRejectsEmptyFonts(t *testing.T) {
	_, err := NewBitmapFace(nil)
	assert.ErrorIs(t, err, ErrNoGlyphs)

	_, err = NewBitmapFace(&resources.BitmapFontResourceData{Data: &resources.FontData{}})
	assert.ErrorIs(t, err, ErrNoGlyphs)
}

func TestBitmapFaceMeasureAppliesKerning(t *testing.T) {
	f, err := NewBitmapFace(testFont())
	require.NoError(t, err)

	assert.Equal(t, 10, f.Measure("AA"))
	assert.Equal(t, 9, f.Measure("AB"))
	assert.Equal(t, 13, f.Measure("A B"))
	// unknown runes are skipped without a fallback glyph
	assert.Equal(t, 5, f.Measure("Aé"))
	assert.Equal(t, 6, f.LineHeight())
	assert.Equal(t, 4, f.Ascent())
}

func TestBitmapFaceDrawString(t *testing.T) {
	f, err := NewBitmapFace(testFont())
	require.NoError(t, err)

	dst := image.NewRGBA(image.Rect(0, 0, 16, 8))
	end := f.DrawString(dst, 1, 4, "AB", color.RGBA{R: 255, A: 255})
	assert.Equal(t, 10, end)

	assert.Equal(t, color.RGBA{R: 255, A: 255}, dst.RGBAAt(1, 0))
	assert.Equal(t, color.RGBA{R: 255, A: 255}, dst.RGBAAt(4, 3))
	// kerning pulls B one pixel left, onto x=5
	assert.Equal(t, color.RGBA{}, dst.RGBAAt(0, 0))
	assert.Equal(t, color.RGBA{R: 255, A: 255}, dst.RGBAAt(5, 0))
	assert.Equal(t, color.RGBA{}, dst.RGBAAt(9, 0))
	assert.Equal(t, color.RGBA{}, dst.RGBAAt(1, 5))
}

func TestBasicFace(t *testing.T) {
	f := NewBasicFace()
	assert.Equal(t, 7*3, f.Measure("abc"))

	dst := image.NewRGBA(image.Rect(0, 0, 32, 16))
	end := f.DrawString(dst, 0, f.Ascent(), "ab", color.White)
	assert.Equal(t, 14, end)

	lit := 0
	for i := 3; i < len(dst.Pix); i += 4 {
		if dst.Pix[i] != 0 {
			lit++
		}
	}
	assert.Positive(t, lit)
}

func TestSystemFace(t *testing.T) {
	c, err := opentype.ParseCollection(goregular.TTF)
	require.NoError(t, err)

	small, err := NewSystemFace(c, 0, 10)
	require.NoError(t, err)
	large, err := NewSystemFace(c, 0, 20)
	require.NoError(t, err)
	assert.Greater(t, large.LineHeight(), small.LineHeight())
	assert.Greater(t, large.Measure("cubism"), small.Measure("cubism"))
	assert.Positive(t, small.Ascent())

	_, err = NewSystemFace(c, 1, 10)
	assert.Error(t, err)
}

func TestHUDLines(t *testing.T) {
	h := New(nil)
	h.ShowHelp = false

	lines := h.Lines(Stats{FPS: 59.6, FrameTime: 16.666, Model: "Hiyori", Backend: "vulkan", Physics: true})
	assert.Equal(t, []string{
		"60 fps  16.67 ms",
		"Hiyori  [vulkan]",
		"expression -",
		"motion -",
		"physics on",
	}, lines)

	lines = h.Lines(Stats{Expression: "F01", Motion: "Idle[2]", Paused: true})
	assert.Equal(t, "expression F01", lines[1])
	assert.Equal(t, "physics off  PAUSED", lines[3])

	h.ShowHelp = true
	assert.Len(t, h.Lines(Stats{}), 4+1+len(helpLines))
}

func TestHUDRenderOnlyChangesWithText(t *testing.T) {
	h := New(nil)

	img, changed := h.Render(Stats{FPS: 60})
	require.NotNil(t, img)
	assert.True(t, changed)

	again, changed := h.Render(Stats{FPS: 60})
	assert.False(t, changed)
	assert.Same(t, img, again)

	_, changed = h.Render(Stats{FPS: 30})
	assert.True(t, changed)
}

func TestLayoutSize(t *testing.T) {
	f, err := NewBitmapFace(testFont())
	require.NoError(t, err)

	img := Layout(f, []string{"AB", "AAA"}, 2, false)
	assert.Equal(t, 15+4, img.Rect.Dx())
	assert.Equal(t, 12+4, img.Rect.Dy())
	// background covers the padding
	assert.Equal(t, backgroundColor, img.RGBAAt(0, 0))

	assert.Equal(t, 1, statusLine([]string{"a", "b", "", "help"}))
	assert.Equal(t, 1, statusLine([]string{"a", "b"}))
}
