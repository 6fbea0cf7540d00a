package loaders

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/spaghettifunk/cubism/engine/resources"
)

func writePNG(t *testing.T, path string, img image.Image) {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
}

// twoRows is a 1x2 image: a half transparent red on top, opaque blue below.
func twoRows() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 1, 2))
	img.SetNRGBA(0, 0, color.NRGBA{R: 255, A: 128})
	img.SetNRGBA(0, 1, color.NRGBA{B: 255, A: 255})
	return img
}

func TestTextureLoader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tex.png")
	writePNG(t, path, twoRows())

	tl := &TextureLoader{}

	res, err := tl.Load(path, resources.ResourceTypeImage, nil)
	require.NoError(t, err)
	data := res.Data.(*resources.ImageResourceData)
	assert.Equal(t, uint32(1), data.Width)
	assert.Equal(t, uint32(2), data.Height)
	assert.False(t, data.Premultiplied)
	assert.Equal(t, []uint8{255, 0, 0, 128, 0, 0, 255, 255}, data.Pixels)

	res, err = tl.Load(path, resources.ResourceTypeImage, &resources.ImageResourceParams{Premultiply: true, FlipY: true})
	require.NoError(t, err)
	data = res.Data.(*resources.ImageResourceData)
	assert.True(t, data.Premultiplied)
	assert.Equal(t, []uint8{0, 0, 255, 255, 128, 0, 0, 128}, data.Pixels)

	require.NoError(t, tl.Unload(res))
	assert.Nil(t, res.Data)
}

func TestTextureLoaderMaxSize(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 64, 16))
	data := DecodeImage(img, resources.ImageResourceParams{MaxSize: 32})
	assert.Equal(t, uint32(32), data.Width)
	assert.Equal(t, uint32(8), data.Height)
	assert.Len(t, data.Pixels, 32*8*4)

	data = DecodeImage(img, resources.ImageResourceParams{MaxSize: 128})
	assert.Equal(t, uint32(64), data.Width)
}

func TestTextureLoaderRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tex.png")
	require.NoError(t, os.WriteFile(path, []byte("not an image"), 0o644))
	_, err := (&TextureLoader{}).Load(path, resources.ResourceTypeImage, nil)
	assert.Error(t, err)
}

func TestMocLoader(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "a.moc3")
	bad := filepath.Join(dir, "b.moc3")
	require.NoError(t, os.WriteFile(good, append([]byte("MOC3"), 4, 0, 0, 0), 0o644))
	require.NoError(t, os.WriteFile(bad, []byte("JUNK"), 0o644))

	ml := &MocLoader{}
	res, err := ml.Load(good, resources.ResourceTypeMoc, map[string]string{"name": "haru"})
	require.NoError(t, err)
	assert.Equal(t, "haru", res.Name)
	assert.Equal(t, uint64(8), res.DataSize)

	_, err = ml.Load(bad, resources.ResourceTypeMoc, nil)
	assert.Error(t, err)
}

func TestBinaryLoader(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mask.frag.spv")
	words := []uint32{spirvMagic, 0x00010000, 7}
	buf := new(bytes.Buffer)
	require.NoError(t, binary.Write(buf, binary.LittleEndian, words))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	res, err := (&BinaryLoader{}).Load(path, resources.ResourceTypeBinary, nil)
	require.NoError(t, err)
	assert.Equal(t, words, res.Data.([]uint32))

	odd := filepath.Join(dir, "odd.spv")
	require.NoError(t, os.WriteFile(odd, []byte{1, 2, 3}, 0o644))
	_, err = (&BinaryLoader{}).Load(odd, resources.ResourceTypeBinary, nil)
	assert.Error(t, err)

	noMagic := filepath.Join(dir, "nomagic.spv")
	require.NoError(t, os.WriteFile(noMagic, []byte{1, 2, 3, 4}, 0o644))
	_, err = (&BinaryLoader{}).Load(noMagic, resources.ResourceTypeBinary, nil)
	assert.Error(t, err)
}

func TestJSONLoaders(t *testing.T) {
	base := filepath.Join("..", "..", "resources", "testdata", "haru")

	res, err := NewModel3Loader().Load(filepath.Join(base, "haru.model3.json"), resources.ResourceTypeModel, nil)
	require.NoError(t, err)
	assert.Equal(t, resources.ResourceTypeModel, res.Type)
	assert.Equal(t, "haru.moc3", res.Data.(*resources.Model3).FileReferences.Moc)

	res, err = NewPoseLoader().Load(filepath.Join(base, "haru.pose3.json"), resources.ResourceTypePose, nil)
	require.NoError(t, err)
	assert.NotEmpty(t, res.Data.(*resources.Pose3).Groups)

	_, err = NewMotionLoader().Load(filepath.Join(base, "haru.model3.json"), resources.ResourceTypeMotion, nil)
	// a model3 file decodes as an empty motion, only a broken file fails
	assert.NoError(t, err)

	broken := filepath.Join(t.TempDir(), "broken.exp3.json")
	require.NoError(t, os.WriteFile(broken, []byte("{"), 0o644))
	_, err = NewExpressionLoader().Load(broken, resources.ResourceTypeExpression, nil)
	assert.Error(t, err)
}

func TestSystemFontLoader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "go.ttf")
	require.NoError(t, os.WriteFile(path, goregular.TTF, 0o644))

	res, err := (&SystemFontLoader{}).Load(path, resources.ResourceTypeSystemFont, nil)
	require.NoError(t, err)
	data := res.Data.(*resources.SystemFontResourceData)
	require.Len(t, data.Faces, 1)
	assert.Equal(t, "Go", data.Faces[0].Name)
	assert.Equal(t, 1, data.Collection.NumFonts())
}

const testFnt = `info face="Test" size=16 bold=0 italic=0 charset="" unicode=1 stretchH=100 smooth=1 aa=1 padding=0,0,0,0 spacing=1,1 outline=0
common lineHeight=18 base=14 scaleW=16 scaleH=16 pages=1 packed=0 alphaChnl=0 redChnl=4 greenChnl=4 blueChnl=4
page id=0 file="test_0.png"
chars count=2
char id=66   x=8     y=0     width=8     height=10    xoffset=0     yoffset=4     xadvance=9     page=0  chnl=15
char id=65   x=0     y=0     width=8     height=10    xoffset=0     yoffset=4     xadvance=9     page=0  chnl=15
kernings count=1
kerning first=65  second=66  amount=-1
`

func TestBitmapFontLoader(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "test_0.png"), image.NewNRGBA(image.Rect(0, 0, 16, 16)))
	path := filepath.Join(dir, "test.fnt")
	require.NoError(t, os.WriteFile(path, []byte(testFnt), 0o644))

	fl := &BitmapFontLoader{}
	res, err := fl.Load(path, resources.ResourceTypeBitmapFont, nil)
	require.NoError(t, err)

	data := res.Data.(*resources.BitmapFontResourceData)
	assert.Equal(t, "Test", data.Data.Face)
	assert.Equal(t, int32(18), data.Data.LineHeight)
	require.Len(t, data.Data.Glyphs, 2)
	assert.Equal(t, 'A', data.Data.Glyphs[0].Codepoint)
	assert.Equal(t, uint16(8), data.Data.Glyphs[1].X)
	require.Len(t, data.Data.Kernings, 1)
	assert.Equal(t, int16(-1), data.Data.Kernings[0].Amount)
	require.Contains(t, data.PageImages, 0)
	assert.True(t, data.PageImages[0].Premultiplied)

	require.NoError(t, fl.Unload(res))
	assert.Nil(t, res.Data)
}
