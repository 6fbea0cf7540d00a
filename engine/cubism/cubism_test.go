package cubism_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spaghettifunk/cubism/engine/cubism"
	"github.com/spaghettifunk/cubism/engine/cubism/cubismtest"
	"github.com/spaghettifunk/cubism/engine/math"
)

func TestVersionDecode(t *testing.T) {
	v := cubism.Version(0x04020003)
	assert.Equal(t, uint8(4), v.Major())
	assert.Equal(t, uint8(2), v.Minor())
	assert.Equal(t, uint16(3), v.Patch())
	assert.Equal(t, "4.2.3", v.String())
	assert.Equal(t, "3.3", cubism.MocVersion33.String())
}

func TestBlendMode(t *testing.T) {
	assert.Equal(t, cubism.BlendModeNormal, cubism.ConstantFlags(0).BlendMode())
	assert.Equal(t, cubism.BlendModeAdditive, cubism.BlendAdditive.BlendMode())
	assert.Equal(t, cubism.BlendModeMultiplicative, (cubism.BlendMultiplicative | cubism.IsDoubleSided).BlendMode())
	assert.True(t, (cubism.IsDoubleSided | cubism.IsInvertedMask).Has(cubism.IsInvertedMask))
}

func TestCanvasBounds(t *testing.T) {
	c := cubism.CanvasInfo{
		Size:          math.Vec2{X: 400, Y: 800},
		Origin:        math.Vec2{X: 200, Y: 400},
		PixelsPerUnit: 400,
	}
	assert.Equal(t, math.Rect{X: -0.5, Y: -1, Width: 1, Height: 2}, c.Bounds())
}

func TestParameterHelpers(t *testing.T) {
	m := cubismtest.New(cubismtest.Params(-1, 1, "A", "B"), nil, nil)
	assert.True(t, cubism.SetParameter(m, "B", 5))
	assert.Equal(t, float32(1), m.Value("B"))
	assert.False(t, cubism.SetParameter(m, "C", 1))

	cubism.AddParameterAt(m, 0, 0.5, 0.5)
	assert.Equal(t, float32(0.25), m.Value("A"))
	cubism.MultiplyParameterAt(m, 0, 2, 1)
	assert.Equal(t, float32(0.5), m.Value("A"))

	cubism.ResetParameters(m)
	assert.Zero(t, m.Value("A"))

	p := cubism.ParameterAt(m, 1)
	assert.Equal(t, cubism.Parameter{ID: "B", Value: 0, MinValue: -1, MaxValue: 1}, p)
}

func TestDrawableHelpers(t *testing.T) {
	masked := cubismtest.Quad("D1", 0, 0, 1, 1)
	masked.Masks = []int32{0}
	m := cubismtest.New(nil, nil, []cubismtest.Drawable{cubismtest.Quad("D0", -1, -1, 2, 1), masked})

	assert.Equal(t, 1, cubism.DrawableIndex(m, "D1"))
	assert.True(t, cubism.IsMasked(m, 1))
	assert.False(t, cubism.IsMasked(m, 0))
	assert.True(t, cubism.DrawableVisible(m, 0))
	assert.Equal(t, math.Rect{X: -1, Y: -1, Width: 2, Height: 1}, cubism.DrawableBounds(m, 0))
}
