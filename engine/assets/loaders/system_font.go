package loaders

import (
	"fmt"
	"os"

	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"

	"github.com/spaghettifunk/cubism/engine/resources"
)

// SystemFontLoader parses ttf, otf and ttc files. A single font file is a
// collection of one.
type SystemFontLoader struct{}

func (fl *SystemFontLoader) Load(path string, assetType resources.ResourceType, params interface{}) (*resources.Resource, error) {
	fontBytes, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c, err := opentype.ParseCollection(fontBytes)
	if err != nil {
		return nil, fmt.Errorf("parsing font %s: %w", path, err)
	}

	rd := &resources.SystemFontResourceData{Collection: c}
	var buf sfnt.Buffer
	for i := 0; i < c.NumFonts(); i++ {
		f, err := c.Font(i)
		if err != nil {
			return nil, err
		}
		name, err := f.Name(&buf, sfnt.NameIDFamily)
		if err != nil {
			name = fmt.Sprintf("face-%d", i)
		}
		rd.Faces = append(rd.Faces, resources.SystemFontFace{Index: i, Name: name})
	}

	return &resources.Resource{
		Type:     resources.ResourceTypeSystemFont,
		Name:     resourceName(path, params),
		FullPath: path,
		Data:     rd,
		DataSize: uint64(len(fontBytes)),
	}, nil
}

func (fl *SystemFontLoader) Unload(res *resources.Resource) error {
	res.Data = nil
	return nil
}
