package resources

import "golang.org/x/image/font/opentype"

type FontType int

const (
	FONT_TYPE_BITMAP FontType = iota
	FONT_TYPE_BUILTIN
	FONT_TYPE_SYSTEM
)

type FontGlyph struct {
	Codepoint rune
	X         uint16
	Y         uint16
	Width     uint16
	Height    uint16
	XOffset   int16
	YOffset   int16
	XAdvance  int16
	PageID    uint8
}

type FontKerning struct {
	Codepoint0 rune
	Codepoint1 rune
	Amount     int16
}

type FontData struct {
	FontType   FontType
	Face       string
	Size       uint32
	LineHeight int32
	Baseline   int32
	AtlasSizeX int32
	AtlasSizeY int32
	Glyphs     []FontGlyph
	Kernings   []FontKerning
}

type BitmapFontPage struct {
	ID   int8
	File string
}

type BitmapFontResourceData struct {
	Data  *FontData
	Pages []BitmapFontPage
	/** @brief Page images keyed by page id, RGBA. */
	PageImages map[int]*ImageResourceData
}

type SystemFontFace struct {
	Index int
	Name  string
}

type SystemFontResourceData struct {
	Collection *opentype.Collection
	Faces      []SystemFontFace
}
