// Package clipping lays out the clip masks of a model in a single RGBA atlas.
//
// Drawables that share the same set of mask drawables form a clip context.
// Every frame the contexts with visible drawables get a rect in one colour
// channel of the atlas: the masks are rendered into that rect, and the
// clipped drawables sample the channel back to find out if a fragment is
// inside.
package clipping

import (
	"errors"
	"sort"
	"strconv"
	"strings"

	"github.com/spaghettifunk/cubism/engine/core"
	"github.com/spaghettifunk/cubism/engine/cubism"
	"github.com/spaghettifunk/cubism/engine/math"
)

var ErrTooManyMasks = errors.New("too many clip contexts for one mask atlas")

const (
	Channels             = 4
	MaxLayoutsPerChannel = 9
	MaxContexts          = Channels * MaxLayoutsPerChannel
	// Margin grows the mask bounds by this fraction of their size on each side.
	Margin float32 = 0.05
)

// Layout is a rect of the atlas in [0, 1] texture space plus the channel it lives in.
type Layout struct {
	Channel int
	Rect    math.Rect
}

// ChannelFlag returns the colour mask selecting channel c (0 = R .. 3 = A).
func ChannelFlag(c int) math.Vec4 {
	var v [4]float32
	v[c%Channels] = 1
	return math.Vec4{X: v[0], Y: v[1], Z: v[2], W: v[3]}
}

/**
 * @brief Splits the atlas for n contexts. Channel c holds n/4 layouts, plus
 * one when c < n%4, split as one full rect, two halves along x, a 2x2 or a
 * 3x3 grid.
 * @returns The layouts in assignment order, or ErrTooManyMasks with the
 * first MaxContexts layouts when n is larger.
 */
func Layouts(n int) ([]Layout, error) {
	var err error
	if n > MaxContexts {
		n = MaxContexts
		err = ErrTooManyMasks
	}
	div, mod := n/Channels, n%Channels

	out := make([]Layout, 0, n)
	for c := 0; c < Channels; c++ {
		count := div
		if c < mod {
			count++
		}
		for i := 0; i < count; i++ {
			out = append(out, Layout{Channel: c, Rect: cell(count, i)})
		}
	}
	return out, err
}

func cell(count, i int) math.Rect {
	switch {
	case count <= 1:
		return math.Rect{X: 0, Y: 0, Width: 1, Height: 1}
	case count == 2:
		return math.Rect{X: float32(i) * 0.5, Y: 0, Width: 0.5, Height: 1}
	case count <= 4:
		return math.Rect{X: float32(i%2) * 0.5, Y: float32(i/2) * 0.5, Width: 0.5, Height: 0.5}
	default:
		const third = float32(1) / 3
		return math.Rect{X: float32(i%3) * third, Y: float32(i/3) * third, Width: third, Height: third}
	}
}

/**
 * @brief Maps model space bounds onto a layout rect.
 * @returns draw, which maps into [0, 1] atlas texture space, and mask, the
 * same mapping into [-1, 1] clip space of the atlas render target.
 */
func Matrices(bounds, layout math.Rect) (draw, mask math.Mat4) {
	draw = math.NewMat4Translation(-bounds.X, -bounds.Y).
		Mul(math.NewMat4Scale(layout.Width/bounds.Width, layout.Height/bounds.Height)).
		Mul(math.NewMat4Translation(layout.X, layout.Y))
	mask = draw.Mul(math.NewMat4Scale(2, 2)).Mul(math.NewMat4Translation(-1, -1))
	return draw, mask
}

// Context is a set of drawables clipped by the same masks.
type Context struct {
	// Masks are the mask drawable indices, sorted.
	Masks []int32
	// Clipped are the drawables using these masks, in drawable order.
	Clipped []int

	// Used is set when the context has visible drawables this frame and got
	// a layout. Unused contexts are drawn unclipped.
	Used       bool
	Bounds     math.Rect
	Layout     Layout
	DrawMatrix math.Mat4
	MaskMatrix math.Mat4
}

func (c *Context) ChannelFlag() math.Vec4 {
	return ChannelFlag(c.Layout.Channel)
}

type Manager struct {
	contexts   []*Context
	byDrawable []int
	warned     bool
}

// NewManager groups the masked drawables of model by their mask set. The
// order of the mask list does not matter.
func NewManager(model cubism.Model) *Manager {
	n := len(model.DrawableIDs())
	m := &Manager{byDrawable: make([]int, n)}
	keys := make(map[string]int)

	for i := 0; i < n; i++ {
		m.byDrawable[i] = -1
		masks := model.DrawableMasks(i)
		if len(masks) == 0 {
			continue
		}
		sorted := append([]int32(nil), masks...)
		sort.Slice(sorted, func(a, b int) bool { return sorted[a] < sorted[b] })
		key := maskKey(sorted)

		idx, ok := keys[key]
		if !ok {
			idx = len(m.contexts)
			keys[key] = idx
			m.contexts = append(m.contexts, &Context{Masks: sorted})
		}
		m.contexts[idx].Clipped = append(m.contexts[idx].Clipped, i)
		m.byDrawable[i] = idx
	}
	return m
}

func maskKey(masks []int32) string {
	var b strings.Builder
	for i, v := range masks {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(int(v)))
	}
	return b.String()
}

func (m *Manager) Contexts() []*Context {
	return m.contexts
}

// ContextOf returns the context of a drawable, nil when it is not masked.
func (m *Manager) ContextOf(drawable int) *Context {
	if drawable < 0 || drawable >= len(m.byDrawable) || m.byDrawable[drawable] < 0 {
		return nil
	}
	return m.contexts[m.byDrawable[drawable]]
}

/**
 * @brief Computes the bounds, layouts and matrices of the contexts for the
 * current frame. Contexts without visible drawables are skipped.
 * @returns ErrTooManyMasks when more than MaxContexts contexts are in use.
 * The overflow is drawn unclipped and the error is only logged once.
 */
func (m *Manager) Update(model cubism.Model) error {
	opacities := model.DrawableOpacities()
	used := 0
	for _, c := range m.contexts {
		c.Used = false
		bounds := math.Rect{}
		for _, d := range c.Clipped {
			if !cubism.DrawableVisible(model, d) || opacities[d] <= 0 {
				continue
			}
			bounds = bounds.Union(cubism.DrawableBounds(model, d))
		}
		if bounds.IsEmpty() {
			continue
		}
		c.Bounds = bounds.Expand(bounds.Width*Margin, bounds.Height*Margin)
		c.Used = true
		used++
	}

	layouts, err := Layouts(used)
	if err != nil && !m.warned {
		core.LogWarn("%d clip contexts in use, only %d fit into the mask atlas", used, MaxContexts)
		m.warned = true
	}

	next := 0
	for _, c := range m.contexts {
		if !c.Used {
			continue
		}
		if next >= len(layouts) {
			c.Used = false
			continue
		}
		c.Layout = layouts[next]
		next++
		c.DrawMatrix, c.MaskMatrix = Matrices(c.Bounds, c.Layout.Rect)
	}
	return err
}

// UsedContexts returns the contexts that got a layout in the last Update.
func (m *Manager) UsedContexts() []*Context {
	var out []*Context
	for _, c := range m.contexts {
		if c.Used {
			out = append(out, c)
		}
	}
	return out
}
