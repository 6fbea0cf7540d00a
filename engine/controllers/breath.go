package controllers

import (
	"github.com/spaghettifunk/cubism/engine/cubism"
	"github.com/spaghettifunk/cubism/engine/ids"
	"github.com/spaghettifunk/cubism/engine/math"
)

// BreathParameter adds offset + peak*sin(2*pi*t/cycle) to a parameter.
type BreathParameter struct {
	ID     string
	Offset float32
	Peak   float32
	Cycle  float32
	Weight float32
}

// DefaultBreathParameters is the standard idle breathing.
var DefaultBreathParameters = []BreathParameter{
	{ID: ids.ParamAngleX, Offset: 0, Peak: 15, Cycle: 6.5345, Weight: 0.5},
	{ID: ids.ParamAngleY, Offset: 0, Peak: 8, Cycle: 3.5345, Weight: 0.5},
	{ID: ids.ParamAngleZ, Offset: 0, Peak: 10, Cycle: 5.5345, Weight: 0.5},
	{ID: ids.ParamBodyAngleX, Offset: 0, Peak: 4, Cycle: 15.5345, Weight: 0.5},
	{ID: ids.ParamBreath, Offset: 0.5, Peak: 0.5, Cycle: 3.2345, Weight: 1},
}

type Breath struct {
	parameters []BreathParameter
	elapsed    float32
}

func NewBreath(parameters []BreathParameter) *Breath {
	return &Breath{parameters: parameters}
}

func (b *Breath) Parameters() []BreathParameter {
	return b.parameters
}

func (b *Breath) UpdateParameters(model cubism.Model, delta float32) {
	b.elapsed += delta
	t := b.elapsed * 2 * math.K_PI
	for _, p := range b.parameters {
		idx := cubism.ParameterIndex(model, p.ID)
		if idx < 0 || p.Cycle == 0 {
			continue
		}
		cubism.AddParameterAt(model, idx, p.Offset+p.Peak*math.Sin(t/p.Cycle), p.Weight)
	}
}

func (b *Breath) Priority() int {
	return PriorityBreath
}
