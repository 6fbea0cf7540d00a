package math

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMat4MulAppliesLeftFirst(t *testing.T) {
	// translate then scale: (1,1) -> (3,3) -> (6,6)
	mt := NewMat4Translation(2, 2).Mul(NewMat4Scale(2, 2))
	p := Vec2{X: 1, Y: 1}.Transform(mt)
	assert.InDelta(t, 6, p.X, 1e-6)
	assert.InDelta(t, 6, p.Y, 1e-6)

	so := mt.ScaleOffset()
	assert.Equal(t, Vec4{X: 2, Y: 2, Z: 4, W: 4}, so)
}

func TestMat4Inverse(t *testing.T) {
	mt := NewMat4Scale(4, 0.5).Mul(NewMat4Translation(3, -1))
	id := mt.Mul(mt.Inverse())
	want := NewMat4Identity()
	for i := range id.Data {
		assert.InDelta(t, want.Data[i], id.Data[i], 1e-5, "element %d", i)
	}
}

func TestOrthographicMapsCorners(t *testing.T) {
	o := NewMat4Orthographic(-2, 2, -1, 1, -1, 1)
	p := Vec2{X: 2, Y: 1}.Transform(o)
	assert.InDelta(t, 1, p.X, 1e-6)
	assert.InDelta(t, 1, p.Y, 1e-6)
	p = Vec2{X: -2, Y: -1}.Transform(o)
	assert.InDelta(t, -1, p.X, 1e-6)
	assert.InDelta(t, -1, p.Y, 1e-6)
}

func TestTransposed(t *testing.T) {
	mt := NewMat4Translation(5, 6).Transposed()
	assert.Equal(t, float32(5), mt.Data[3])
	assert.Equal(t, float32(6), mt.Data[7])
}

func TestRect(t *testing.T) {
	a := Rect{X: 0, Y: 0, Width: 1, Height: 1}
	b := Rect{X: 2, Y: -1, Width: 1, Height: 1}
	u := a.Union(b)
	assert.Equal(t, Rect{X: 0, Y: -1, Width: 3, Height: 2}, u)
	assert.Equal(t, a, a.Union(Rect{}))
	assert.True(t, u.Contains(Vec2{X: 1.5, Y: 0.5}))
	assert.Equal(t, Rect{X: -1, Y: -2, Width: 3, Height: 5}, a.Expand(1, 2))

	assert.Equal(t, Rect{X: -1, Y: 0, Width: 3, Height: 4},
		BoundsOf([]Vec2{{X: 2, Y: 4}, {X: -1, Y: 0}, {X: 0, Y: 1}}))
}

func TestHelpers(t *testing.T) {
	assert.Equal(t, 3, Clamp(5, 0, 3))
	assert.Equal(t, float32(0), EaseSine(-1))
	assert.Equal(t, float32(1), EaseSine(2))
	assert.InDelta(t, 0.5, EaseSine(0.5), 1e-6)

	assert.InDelta(t, K_HALF_PI, DirectionToRadian(Vec2{X: 1}, Vec2{Y: 1}), 1e-6)
	assert.InDelta(t, -K_HALF_PI, DirectionToRadian(Vec2{Y: 1}, Vec2{X: 1}), 1e-6)

	Seed(7)
	for i := 0; i < 100; i++ {
		v := RandomInRange(2, 3)
		assert.GreaterOrEqual(t, v, float32(2))
		assert.Less(t, v, float32(3))
	}
}
