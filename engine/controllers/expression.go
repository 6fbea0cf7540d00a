package controllers

import (
	"sort"

	"github.com/spaghettifunk/cubism/engine/animation"
	"github.com/spaghettifunk/cubism/engine/containers"
	"github.com/spaghettifunk/cubism/engine/cubism"
	"github.com/spaghettifunk/cubism/engine/math"
)

// ExpressionController registers expressions of a model and switches
// between them. A newly selected expression fades in over its fade in time
// while the previous one fades out.
type ExpressionController struct {
	expressions *containers.Slab[*animation.Expression]
	names       map[string]int
	current     int
	previous    int
	weight      float32
	elapsed     float32
}

func NewExpressionController() *ExpressionController {
	return &ExpressionController{
		expressions: containers.NewSlab[*animation.Expression](),
		names:       make(map[string]int),
		current:     -1,
		previous:    -1,
		weight:      1,
	}
}

/**
 * @brief Registers exp under name.
 * @returns The expression previously registered under the same name, or nil.
 */
func (ec *ExpressionController) Register(name string, exp *animation.Expression) *animation.Expression {
	idx := ec.expressions.Push(exp)
	old, ok := ec.names[name]
	ec.names[name] = idx
	if !ok {
		return nil
	}
	prev, _ := ec.expressions.Take(old)
	if ec.current == old {
		ec.current = idx
	}
	if ec.previous == old {
		ec.previous = -1
	}
	return prev
}

// SetExpression selects the named expression. Unknown names clear the selection.
func (ec *ExpressionController) SetExpression(name string) {
	idx, ok := ec.names[name]
	if !ok {
		idx = -1
	}
	if idx == ec.current {
		return
	}
	ec.previous = ec.current
	ec.current = idx
	ec.elapsed = 0
}

// Current returns the name of the selected expression, or "".
func (ec *ExpressionController) Current() string {
	if ec.current < 0 {
		return ""
	}
	for name, idx := range ec.names {
		if idx == ec.current {
			return name
		}
	}
	return ""
}

// SetExpressionWeight sets the weight the expressions are applied with, clamped to [0, 1].
func (ec *ExpressionController) SetExpressionWeight(weight float32) {
	ec.weight = math.Clamp(weight, 0, 1)
}

func (ec *ExpressionController) ExpressionWeight() float32 {
	return ec.weight
}

// Names returns the registered expression names sorted alphabetically.
func (ec *ExpressionController) Names() []string {
	out := make([]string, 0, len(ec.names))
	for name := range ec.names {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func (ec *ExpressionController) Expressions() []*animation.Expression {
	var out []*animation.Expression
	ec.expressions.Each(func(_ int, e *animation.Expression) bool {
		out = append(out, e)
		return true
	})
	return out
}

func (ec *ExpressionController) UpdateParameters(model cubism.Model, delta float32) {
	ec.elapsed += delta

	// without a current expression the previous one fades out on its own time
	fade := float32(1)
	if cur, ok := ec.expressions.Get(ec.current); ok {
		if cur.FadeInTime > 0 {
			fade = math.EaseSine(ec.elapsed / cur.FadeInTime)
		}
	} else if prev, ok := ec.expressions.Get(ec.previous); ok && prev.FadeOutTime > 0 {
		fade = math.EaseSine(ec.elapsed / prev.FadeOutTime)
	}
	if prev, ok := ec.expressions.Get(ec.previous); ok {
		if fade < 1 {
			prev.Apply(model, ec.weight*(1-fade))
		} else {
			ec.previous = -1
		}
	}
	if cur, ok := ec.expressions.Get(ec.current); ok {
		cur.Apply(model, ec.weight*fade)
	}
}

func (ec *ExpressionController) Priority() int {
	return PriorityExpression
}
