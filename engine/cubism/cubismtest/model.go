// Package cubismtest provides an in-memory cubism.Model for tests.
package cubismtest

import (
	"github.com/spaghettifunk/cubism/engine/cubism"
	"github.com/spaghettifunk/cubism/engine/math"
)

type Parameter struct {
	ID      string
	Min     float32
	Max     float32
	Default float32
}

type Part struct {
	ID     string
	Parent int32
}

type Drawable struct {
	ID            string
	ConstantFlags cubism.ConstantFlags
	DynamicFlags  cubism.DynamicFlags
	TextureIndex  int32
	DrawOrder     int32
	RenderOrder   int32
	Opacity       float32
	Masks         []int32
	Positions     []math.Vec2
	UVs           []math.Vec2
	Indices       []uint16
}

// Model is a fake core model. Update only counts calls and clears the
// change bits of the dynamic flags.
type Model struct {
	paramIDs  []string
	paramMin  []float32
	paramMax  []float32
	paramDef  []float32
	paramVals []float32

	partIDs     []string
	partOpacity []float32
	partParents []int32

	Drawables []Drawable
	Canvas    cubism.CanvasInfo

	Updates int
}

func New(params []Parameter, parts []Part, drawables []Drawable) *Model {
	m := &Model{Drawables: drawables}
	for _, p := range params {
		m.paramIDs = append(m.paramIDs, p.ID)
		m.paramMin = append(m.paramMin, p.Min)
		m.paramMax = append(m.paramMax, p.Max)
		m.paramDef = append(m.paramDef, p.Default)
		m.paramVals = append(m.paramVals, p.Default)
	}
	for _, p := range parts {
		m.partIDs = append(m.partIDs, p.ID)
		m.partOpacity = append(m.partOpacity, 1)
		m.partParents = append(m.partParents, p.Parent)
	}
	m.Canvas = cubism.CanvasInfo{
		Size:          math.Vec2{X: 200, Y: 200},
		Origin:        math.Vec2{X: 100, Y: 100},
		PixelsPerUnit: 100,
	}
	return m
}

// Params is a shorthand for parameters ranging over [min, max] with a zero default.
func Params(min, max float32, ids ...string) []Parameter {
	out := make([]Parameter, len(ids))
	for i, id := range ids {
		out[i] = Parameter{ID: id, Min: min, Max: max}
	}
	return out
}

// Quad returns a visible unit square drawable spanning [x, x+w] x [y, y+h].
func Quad(id string, x, y, w, h float32) Drawable {
	return Drawable{
		ID:           id,
		DynamicFlags: cubism.IsVisible,
		Opacity:      1,
		Positions: []math.Vec2{
			{X: x, Y: y}, {X: x + w, Y: y}, {X: x + w, Y: y + h}, {X: x, Y: y + h},
		},
		UVs: []math.Vec2{
			{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1},
		},
		Indices: []uint16{0, 1, 2, 0, 2, 3},
	}
}

func (m *Model) Value(id string) float32 {
	idx := cubism.ParameterIndex(m, id)
	if idx < 0 {
		return 0
	}
	return m.paramVals[idx]
}

func (m *Model) Opacity(id string) float32 {
	idx := cubism.PartIndex(m, id)
	if idx < 0 {
		return 0
	}
	return m.partOpacity[idx]
}

func (m *Model) ParameterIDs() []string            { return m.paramIDs }
func (m *Model) ParameterMinimumValues() []float32 { return m.paramMin }
func (m *Model) ParameterMaximumValues() []float32 { return m.paramMax }
func (m *Model) ParameterDefaultValues() []float32 { return m.paramDef }
func (m *Model) ParameterValues() []float32        { return m.paramVals }

func (m *Model) PartIDs() []string             { return m.partIDs }
func (m *Model) PartOpacities() []float32      { return m.partOpacity }
func (m *Model) PartParentIndices() []int32    { return m.partParents }
func (m *Model) CanvasInfo() cubism.CanvasInfo { return m.Canvas }

func (m *Model) DrawableIDs() []string {
	out := make([]string, len(m.Drawables))
	for i, d := range m.Drawables {
		out[i] = d.ID
	}
	return out
}

func (m *Model) DrawableConstantFlags() []cubism.ConstantFlags {
	out := make([]cubism.ConstantFlags, len(m.Drawables))
	for i, d := range m.Drawables {
		out[i] = d.ConstantFlags
	}
	return out
}

func (m *Model) DrawableDynamicFlags() []cubism.DynamicFlags {
	out := make([]cubism.DynamicFlags, len(m.Drawables))
	for i, d := range m.Drawables {
		out[i] = d.DynamicFlags
	}
	return out
}

func (m *Model) DrawableTextureIndices() []int32 {
	return m.ints(func(d Drawable) int32 { return d.TextureIndex })
}

func (m *Model) DrawableDrawOrders() []int32 {
	return m.ints(func(d Drawable) int32 { return d.DrawOrder })
}

func (m *Model) DrawableRenderOrders() []int32 {
	return m.ints(func(d Drawable) int32 { return d.RenderOrder })
}

func (m *Model) DrawableOpacities() []float32 {
	out := make([]float32, len(m.Drawables))
	for i, d := range m.Drawables {
		out[i] = d.Opacity
	}
	return out
}

func (m *Model) DrawableMasks(idx int) []int32               { return m.Drawables[idx].Masks }
func (m *Model) DrawableVertexPositions(idx int) []math.Vec2 { return m.Drawables[idx].Positions }
func (m *Model) DrawableVertexUVs(idx int) []math.Vec2       { return m.Drawables[idx].UVs }
func (m *Model) DrawableIndices(idx int) []uint16            { return m.Drawables[idx].Indices }

func (m *Model) Update() {
	m.Updates++
	for i := range m.Drawables {
		m.Drawables[i].DynamicFlags &= cubism.IsVisible
	}
}

func (m *Model) ints(fn func(Drawable) int32) []int32 {
	out := make([]int32, len(m.Drawables))
	for i, d := range m.Drawables {
		out[i] = fn(d)
	}
	return out
}

var _ cubism.Model = (*Model)(nil)
