package animation

import (
	"github.com/spaghettifunk/cubism/engine/cubism"
	"github.com/spaghettifunk/cubism/engine/math"
	"github.com/spaghettifunk/cubism/engine/resources"
)

// Expression offsets a set of parameters on top of the current pose.
type Expression struct {
	Name        string
	FadeInTime  float32
	FadeOutTime float32
	parameters  []resources.ExpressionParameter
}

func NewExpression(name string, e3 *resources.Expression3) *Expression {
	return &Expression{
		Name:        name,
		FadeInTime:  resources.FadeTime(e3.FadeInTime, resources.DefaultFadeTime),
		FadeOutTime: resources.FadeTime(e3.FadeOutTime, resources.DefaultFadeTime),
		parameters:  e3.Parameters,
	}
}

func (e *Expression) Parameters() []resources.ExpressionParameter {
	return e.parameters
}

/**
 * @brief Blends the expression into the model. Parameters missing from the
 * model are skipped and results are clamped to the parameter range.
 * @param model The model to modify.
 * @param weight The expression weight in [0, 1].
 */
func (e *Expression) Apply(model cubism.Model, weight float32) {
	values := model.ParameterValues()
	for _, p := range e.parameters {
		idx := cubism.ParameterIndex(model, p.ID)
		if idx < 0 {
			continue
		}
		orig := values[idx]
		var v float32
		switch p.Blend {
		case resources.ExpressionBlendAdd:
			v = orig + p.Value*weight
		case resources.ExpressionBlendMultiply:
			v = orig * (1 + (p.Value-1)*weight)
		case resources.ExpressionBlendOverwrite:
			v = orig + (p.Value-orig)*weight
		}
		values[idx] = math.Clamp(v, model.ParameterMinimumValues()[idx], model.ParameterMaximumValues()[idx])
	}
}
