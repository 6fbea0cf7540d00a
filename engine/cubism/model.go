package cubism

import (
	"github.com/spaghettifunk/cubism/engine/math"
)

// Model is a revived moc instance. Slices returned by the parameter, part and
// drawable getters are indexed by parameter, part or drawable index; the
// value slices are views into model memory and writes go straight to the
// core. Drawable data is only valid after Update.
type Model interface {
	ParameterIDs() []string
	ParameterMinimumValues() []float32
	ParameterMaximumValues() []float32
	ParameterDefaultValues() []float32
	ParameterValues() []float32

	PartIDs() []string
	PartOpacities() []float32
	PartParentIndices() []int32

	DrawableIDs() []string
	DrawableConstantFlags() []ConstantFlags
	DrawableDynamicFlags() []DynamicFlags
	DrawableTextureIndices() []int32
	DrawableDrawOrders() []int32
	DrawableRenderOrders() []int32
	DrawableOpacities() []float32
	DrawableMasks(idx int) []int32
	DrawableVertexPositions(idx int) []math.Vec2
	DrawableVertexUVs(idx int) []math.Vec2
	DrawableIndices(idx int) []uint16

	CanvasInfo() CanvasInfo

	// Update applies parameter values and part opacities, then resets the
	// dynamic flags.
	Update()
}

// CanvasInfo holds the canvas size and origin in pixels plus the pixels per
// model unit.
type CanvasInfo struct {
	Size          math.Vec2
	Origin        math.Vec2
	PixelsPerUnit float32
}

// Bounds returns the canvas rect in model units with y pointing up, so Y is
// the bottom edge.
func (c CanvasInfo) Bounds() math.Rect {
	ppu := c.PixelsPerUnit
	if ppu == 0 {
		ppu = 1
	}
	return math.Rect{
		X:      -c.Origin.X / ppu,
		Y:      (c.Origin.Y - c.Size.Y) / ppu,
		Width:  c.Size.X / ppu,
		Height: c.Size.Y / ppu,
	}
}

// Parameter is a value copy of one parameter.
type Parameter struct {
	ID           string
	Value        float32
	MinValue     float32
	MaxValue     float32
	DefaultValue float32
}

// Part is a value copy of one part.
type Part struct {
	ID      string
	Opacity float32
	Parent  int32
}

func indexOf(ids []string, id string) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}

// ParameterIndex returns the first parameter index with the given id or -1.
func ParameterIndex(m Model, id string) int {
	return indexOf(m.ParameterIDs(), id)
}

func PartIndex(m Model, id string) int {
	return indexOf(m.PartIDs(), id)
}

func DrawableIndex(m Model, id string) int {
	return indexOf(m.DrawableIDs(), id)
}

func ParameterAt(m Model, idx int) Parameter {
	return Parameter{
		ID:           m.ParameterIDs()[idx],
		Value:        m.ParameterValues()[idx],
		MinValue:     m.ParameterMinimumValues()[idx],
		MaxValue:     m.ParameterMaximumValues()[idx],
		DefaultValue: m.ParameterDefaultValues()[idx],
	}
}

func PartAt(m Model, idx int) Part {
	return Part{
		ID:      m.PartIDs()[idx],
		Opacity: m.PartOpacities()[idx],
		Parent:  m.PartParentIndices()[idx],
	}
}

// SetParameter writes v clamped to the parameter range. Unknown ids are ignored.
func SetParameter(m Model, id string, v float32) bool {
	idx := ParameterIndex(m, id)
	if idx < 0 {
		return false
	}
	SetParameterAt(m, idx, v)
	return true
}

func SetParameterAt(m Model, idx int, v float32) {
	m.ParameterValues()[idx] = math.Clamp(v, m.ParameterMinimumValues()[idx], m.ParameterMaximumValues()[idx])
}

// AddParameterAt blends v into the current value: cur + v*weight.
func AddParameterAt(m Model, idx int, v, weight float32) {
	SetParameterAt(m, idx, m.ParameterValues()[idx]+v*weight)
}

// MultiplyParameterAt scales the current value: cur * (1 + (v - 1)*weight).
func MultiplyParameterAt(m Model, idx int, v, weight float32) {
	SetParameterAt(m, idx, m.ParameterValues()[idx]*(1+(v-1)*weight))
}

// ResetParameters restores every parameter default.
func ResetParameters(m Model) {
	copy(m.ParameterValues(), m.ParameterDefaultValues())
}

func IsMasked(m Model, idx int) bool {
	return len(m.DrawableMasks(idx)) > 0
}

func DrawableVisible(m Model, idx int) bool {
	return m.DrawableDynamicFlags()[idx].Has(IsVisible)
}

// DrawableBounds returns the bounding rect of the drawable vertices in model units.
func DrawableBounds(m Model, idx int) math.Rect {
	return math.BoundsOf(m.DrawableVertexPositions(idx))
}
