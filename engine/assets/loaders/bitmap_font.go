package loaders

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/fzipp/bmfont"

	"github.com/spaghettifunk/cubism/engine/resources"
)

// BitmapFontLoader imports AngelCode .fnt descriptors together with their
// page images.
type BitmapFontLoader struct {
	textures TextureLoader
}

func (fl *BitmapFontLoader) Load(path string, assetType resources.ResourceType, params interface{}) (*resources.Resource, error) {
	rd, err := fl.importFNTFile(path)
	if err != nil {
		return nil, err
	}

	size := uint64(0)
	for _, img := range rd.PageImages {
		size += uint64(len(img.Pixels))
	}

	return &resources.Resource{
		Type:     resources.ResourceTypeBitmapFont,
		Name:     resourceName(path, params),
		FullPath: path,
		Data:     rd,
		DataSize: size,
	}, nil
}

func (fl *BitmapFontLoader) Unload(resource *resources.Resource) error {
	if resource.Data != nil {
		data := resource.Data.(*resources.BitmapFontResourceData)
		data.Data.Glyphs = nil
		data.Data.Kernings = nil
		data.Pages = nil
		data.PageImages = nil
		resource.Data = nil
		resource.DataSize = 0
	}
	return nil
}

func (fl *BitmapFontLoader) importFNTFile(fntFileName string) (*resources.BitmapFontResourceData, error) {
	font, err := bmfont.Load(fntFileName)
	if err != nil {
		return nil, err
	}
	desc := font.Descriptor

	outData := &resources.BitmapFontResourceData{
		Data: &resources.FontData{
			FontType:   resources.FONT_TYPE_BITMAP,
			Face:       desc.Info.Face,
			Size:       uint32(desc.Info.Size),
			LineHeight: int32(desc.Common.LineHeight),
			Baseline:   int32(desc.Common.Base),
			AtlasSizeX: int32(desc.Common.ScaleW),
			AtlasSizeY: int32(desc.Common.ScaleH),
			Glyphs:     make([]resources.FontGlyph, 0, len(desc.Chars)),
			Kernings:   make([]resources.FontKerning, 0, len(desc.Kerning)),
		},
		Pages:      make([]resources.BitmapFontPage, 0, len(desc.Pages)),
		PageImages: make(map[int]*resources.ImageResourceData, len(desc.Pages)),
	}

	dir := filepath.Dir(fntFileName)
	for _, p := range desc.Pages {
		outData.Pages = append(outData.Pages, resources.BitmapFontPage{ID: int8(p.ID), File: p.File})

		res, err := fl.textures.Load(filepath.Join(dir, p.File), resources.ResourceTypeImage, resources.ImageResourceParams{Premultiply: true})
		if err != nil {
			return nil, fmt.Errorf("font page %d: %w", p.ID, err)
		}
		outData.PageImages[p.ID] = res.Data.(*resources.ImageResourceData)
	}
	sort.Slice(outData.Pages, func(i, j int) bool { return outData.Pages[i].ID < outData.Pages[j].ID })

	for _, g := range desc.Chars {
		outData.Data.Glyphs = append(outData.Data.Glyphs, resources.FontGlyph{
			Codepoint: g.ID,
			Height:    uint16(g.Height),
			Width:     uint16(g.Width),
			X:         uint16(g.X),
			Y:         uint16(g.Y),
			XAdvance:  int16(g.XAdvance),
			XOffset:   int16(g.XOffset),
			YOffset:   int16(g.YOffset),
			PageID:    uint8(g.Page),
		})
	}
	sort.Slice(outData.Data.Glyphs, func(i, j int) bool {
		return outData.Data.Glyphs[i].Codepoint < outData.Data.Glyphs[j].Codepoint
	})

	for p, k := range desc.Kerning {
		outData.Data.Kernings = append(outData.Data.Kernings, resources.FontKerning{
			Amount:     int16(k.Amount),
			Codepoint0: p.First,
			Codepoint1: p.Second,
		})
	}
	sort.Slice(outData.Data.Kernings, func(i, j int) bool {
		a, b := outData.Data.Kernings[i], outData.Data.Kernings[j]
		if a.Codepoint0 != b.Codepoint0 {
			return a.Codepoint0 < b.Codepoint0
		}
		return a.Codepoint1 < b.Codepoint1
	})

	return outData, nil
}
