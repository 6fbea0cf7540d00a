package clipping

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/cubism/engine/cubism"
	"github.com/spaghettifunk/cubism/engine/cubism/cubismtest"
	"github.com/spaghettifunk/cubism/engine/math"
)

func TestLayoutsPerChannel(t *testing.T) {
	tests := []struct {
		n        int
		channels [Channels]int
	}{
		{1, [Channels]int{1, 0, 0, 0}},
		{4, [Channels]int{1, 1, 1, 1}},
		{5, [Channels]int{2, 1, 1, 1}},
		{11, [Channels]int{3, 3, 3, 2}},
		{36, [Channels]int{9, 9, 9, 9}},
	}
	for _, tt := range tests {
		layouts, err := Layouts(tt.n)
		require.NoError(t, err)
		require.Len(t, layouts, tt.n)
		var got [Channels]int
		for _, l := range layouts {
			got[l.Channel]++
		}
		assert.Equal(t, tt.channels, got, "n=%d", tt.n)
	}
}

func TestLayoutsOverflow(t *testing.T) {
	layouts, err := Layouts(40)
	assert.ErrorIs(t, err, ErrTooManyMasks)
	assert.Len(t, layouts, MaxContexts)
}

func TestLayoutRects(t *testing.T) {
	full := math.Rect{X: 0, Y: 0, Width: 1, Height: 1}
	assert.Equal(t, full, cell(1, 0))

	assert.Equal(t, math.Rect{X: 0.5, Y: 0, Width: 0.5, Height: 1}, cell(2, 1))
	assert.Equal(t, math.Rect{X: 0.5, Y: 0.5, Width: 0.5, Height: 0.5}, cell(4, 3))
	assert.Equal(t, math.Rect{X: 0, Y: 0.5, Width: 0.5, Height: 0.5}, cell(3, 2))

	r := cell(9, 8)
	assert.InDelta(t, 2.0/3, r.X, 1e-6)
	assert.InDelta(t, 2.0/3, r.Y, 1e-6)
	assert.InDelta(t, 1.0/3, r.Width, 1e-6)

	// no two layouts of one channel overlap
	layouts, _ := Layouts(MaxContexts)
	for i, a := range layouts {
		for _, b := range layouts[i+1:] {
			if a.Channel != b.Channel {
				continue
			}
			overlap := a.Rect.X < b.Rect.Right()-1e-6 && b.Rect.X < a.Rect.Right()-1e-6 &&
				a.Rect.Y < b.Rect.Bottom()-1e-6 && b.Rect.Y < a.Rect.Bottom()-1e-6
			assert.False(t, overlap, "%v and %v overlap", a, b)
		}
	}
}

func TestChannelFlag(t *testing.T) {
	assert.Equal(t, math.Vec4{X: 1}, ChannelFlag(0))
	assert.Equal(t, math.Vec4{Y: 1}, ChannelFlag(1))
	assert.Equal(t, math.Vec4{Z: 1}, ChannelFlag(2))
	assert.Equal(t, math.Vec4{W: 1}, ChannelFlag(3))
}

func TestMatrices(t *testing.T) {
	bounds := math.Rect{X: -1, Y: 2, Width: 4, Height: 2}
	layout := math.Rect{X: 0.5, Y: 0, Width: 0.5, Height: 1}
	draw, mask := Matrices(bounds, layout)

	lo := math.Vec2{X: bounds.X, Y: bounds.Y}
	hi := math.Vec2{X: bounds.Right(), Y: bounds.Bottom()}

	assert.InDelta(t, 0.5, lo.Transform(draw).X, 1e-6)
	assert.InDelta(t, 0.0, lo.Transform(draw).Y, 1e-6)
	assert.InDelta(t, 1.0, hi.Transform(draw).X, 1e-6)
	assert.InDelta(t, 1.0, hi.Transform(draw).Y, 1e-6)

	assert.InDelta(t, 0.0, lo.Transform(mask).X, 1e-6)
	assert.InDelta(t, -1.0, lo.Transform(mask).Y, 1e-6)
	assert.InDelta(t, 1.0, hi.Transform(mask).X, 1e-6)
	assert.InDelta(t, 1.0, hi.Transform(mask).Y, 1e-6)

	// both are plain scale + offset
	so := draw.ScaleOffset()
	assert.InDelta(t, 0.125, so.X, 1e-6)
	assert.InDelta(t, 0.5, so.Y, 1e-6)
}

func maskedModel() *cubismtest.Model {
	drawables := []cubismtest.Drawable{
		cubismtest.Quad("mask0", 0, 0, 1, 1),
		cubismtest.Quad("mask1", 0, 0, 1, 1),
		cubismtest.Quad("a", 0, 0, 1, 1),
		cubismtest.Quad("b", 2, 0, 1, 1),
		cubismtest.Quad("c", 0, 0, 1, 1),
		cubismtest.Quad("d", 0, 0, 1, 1),
	}
	drawables[2].Masks = []int32{0, 1}
	drawables[3].Masks = []int32{1, 0}
	drawables[4].Masks = []int32{1}
	return cubismtest.New(nil, nil, drawables)
}

func TestNewManagerGroupsByMaskSet(t *testing.T) {
	m := NewManager(maskedModel())

	require.Len(t, m.Contexts(), 2)
	assert.Equal(t, []int32{0, 1}, m.Contexts()[0].Masks)
	assert.Equal(t, []int{2, 3}, m.Contexts()[0].Clipped)
	assert.Equal(t, []int{4}, m.Contexts()[1].Clipped)

	assert.Same(t, m.Contexts()[0], m.ContextOf(3))
	assert.Nil(t, m.ContextOf(5))
	assert.Nil(t, m.ContextOf(0))
	assert.Nil(t, m.ContextOf(99))
}

func TestUpdateBoundsAndSkipping(t *testing.T) {
	model := maskedModel()
	m := NewManager(model)

	// c is the only drawable of the second context
	model.Drawables[4].DynamicFlags = 0
	require.NoError(t, m.Update(model))

	ctx := m.Contexts()[0]
	require.True(t, ctx.Used)
	assert.False(t, m.Contexts()[1].Used)
	assert.Len(t, m.UsedContexts(), 1)

	// union of a and b is [0, 3] x [0, 1] plus a 5% margin
	assert.InDelta(t, -0.15, ctx.Bounds.X, 1e-6)
	assert.InDelta(t, 3.3, ctx.Bounds.Width, 1e-5)
	assert.InDelta(t, -0.05, ctx.Bounds.Y, 1e-6)
	assert.Equal(t, 0, ctx.Layout.Channel)
	assert.Equal(t, math.Rect{Width: 1, Height: 1}, ctx.Layout.Rect)

	model.Drawables[4].DynamicFlags = cubism.IsVisible
	model.Drawables[3].Opacity = 0
	require.NoError(t, m.Update(model))
	assert.Equal(t, 1, m.Contexts()[1].Layout.Channel)
	assert.InDelta(t, 1.1, ctx.Bounds.Width, 1e-5)
}

func TestUpdateTooManyContexts(t *testing.T) {
	var drawables []cubismtest.Drawable
	for i := 0; i < MaxContexts+2; i++ {
		d := cubismtest.Quad("d", 0, 0, 1, 1)
		d.Masks = []int32{int32(i)}
		drawables = append(drawables, d)
	}
	model := cubismtest.New(nil, nil, drawables)
	m := NewManager(model)

	assert.ErrorIs(t, m.Update(model), ErrTooManyMasks)
	assert.Len(t, m.UsedContexts(), MaxContexts)
	assert.False(t, m.Contexts()[MaxContexts].Used)
	assert.True(t, m.warned)
}
