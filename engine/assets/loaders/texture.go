package loaders

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/spaghettifunk/cubism/engine/resources"
)

// TextureLoader decodes png, jpeg, bmp, tiff and webp files into RGBA8
// pixels. params may be a resources.ImageResourceParams or a pointer to one.
type TextureLoader struct{}

func (tl *TextureLoader) Load(path string, assetType resources.ResourceType, params interface{}) (*resources.Resource, error) {
	// Open and decode the texture image file
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}

	var p resources.ImageResourceParams
	switch v := params.(type) {
	case resources.ImageResourceParams:
		p = v
	case *resources.ImageResourceParams:
		if v != nil {
			p = *v
		}
	}

	data := DecodeImage(img, p)
	return &resources.Resource{
		Type:     resources.ResourceTypeImage,
		Name:     resourceName(path, params),
		FullPath: path,
		DataSize: uint64(len(data.Pixels)),
		Data:     data,
	}, nil
}

func (tl *TextureLoader) Unload(res *resources.Resource) error {
	res.Data = nil
	res.DataSize = 0
	return nil
}

/**
 * @brief Converts any decoded image to tightly packed RGBA8.
 * image.RGBA is alpha premultiplied and image.NRGBA is not, so the
 * conversion is a draw onto the right destination type.
 */
func DecodeImage(img image.Image, p resources.ImageResourceParams) *resources.ImageResourceData {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if max := int(p.MaxSize); max > 0 && (w > max || h > max) {
		if w >= h {
			h = h * max / w
			w = max
		} else {
			w = w * max / h
			h = max
		}
		if w < 1 {
			w = 1
		}
		if h < 1 {
			h = 1
		}
	}
	dr := image.Rect(0, 0, w, h)

	var pix []uint8
	var stride int
	if p.Premultiply {
		dst := image.NewRGBA(dr)
		blit(dst, img, w != b.Dx() || h != b.Dy())
		pix, stride = dst.Pix, dst.Stride
	} else {
		dst := image.NewNRGBA(dr)
		blit(dst, img, w != b.Dx() || h != b.Dy())
		pix, stride = dst.Pix, dst.Stride
	}

	if p.FlipY {
		flipRows(pix, stride, h)
	}

	return &resources.ImageResourceData{
		Width:         uint32(w),
		Height:        uint32(h),
		Pixels:        pix,
		Premultiplied: p.Premultiply,
	}
}

func blit(dst draw.Image, src image.Image, scale bool) {
	if scale {
		draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
		return
	}
	draw.Draw(dst, dst.Bounds(), src, src.Bounds().Min, draw.Src)
}

func flipRows(pix []uint8, stride, h int) {
	tmp := make([]uint8, stride)
	for y := 0; y < h/2; y++ {
		top := pix[y*stride : (y+1)*stride]
		bottom := pix[(h-1-y)*stride : (h-y)*stride]
		copy(tmp, top)
		copy(top, bottom)
		copy(bottom, tmp)
	}
}
