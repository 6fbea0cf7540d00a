package physics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/cubism/engine/cubism/cubismtest"
	"github.com/spaghettifunk/cubism/engine/math"
	"github.com/spaghettifunk/cubism/engine/resources"
)

func hairRig() *resources.Physics3 {
	return &resources.Physics3{
		Meta: resources.PhysicsMeta{
			Fps: 60,
			EffectiveForces: resources.EffectiveForces{
				Gravity: resources.Vec2{X: 0, Y: -1},
			},
		},
		PhysicsSettings: []resources.PhysicsSetting{{
			ID: "Hair",
			Input: []resources.PhysicsInput{
				{Source: resources.PhysicsTarget{Target: "Parameter", ID: "ParamAngleX"}, Weight: 100, Type: resources.PhysicsTypeX},
			},
			Output: []resources.PhysicsOutput{
				{Destination: resources.PhysicsTarget{Target: "Parameter", ID: "ParamHairFront"}, VertexIndex: 1, Scale: 1, Weight: 100, Type: resources.PhysicsTypeAngle},
				{Destination: resources.PhysicsTarget{Target: "Parameter", ID: "ParamMissing"}, VertexIndex: 1, Scale: 1, Weight: 100, Type: resources.PhysicsTypeAngle},
			},
			Vertices: []resources.PhysicsVertex{
				{Mobility: 1, Delay: 1, Acceleration: 1, Radius: 0},
				{Mobility: 0.95, Delay: 0.9, Acceleration: 1.5, Radius: 3},
			},
			Normalization: resources.PhysicsNormalization{
				Position: resources.PhysicsRange{Minimum: -10, Default: 0, Maximum: 10},
				Angle:    resources.PhysicsRange{Minimum: -10, Default: 0, Maximum: 10},
			},
		}},
	}
}

func TestNormalize(t *testing.T) {
	n := normalization{minimum: -10, maximum: 10, def: 0}
	tests := []struct {
		name    string
		value   float32
		reflect bool
		want    float32
	}{
		{"max", 30, false, -10},
		{"max reflected", 30, true, 10},
		{"middle", 0, false, 0},
		{"half min", -15, true, -5},
		{"clamped", 90, true, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, normalize(tt.value, -30, 30, n, tt.reflect), 1e-5)
		})
	}
}

func TestRigAtRest(t *testing.T) {
	model := cubismtest.New(cubismtest.Params(-30, 30, "ParamAngleX", "ParamHairFront"), nil, nil)
	rig := NewRig(hairRig())

	rig.Evaluate(model, 0.5)
	assert.InDelta(t, 0, model.Value("ParamHairFront"), 1e-5)
	pos := rig.Positions(0)
	assert.InDelta(t, 0, pos[1].X, 1e-5)
	assert.InDelta(t, 3, pos[1].Y, 1e-5)
}

func TestRigSwings(t *testing.T) {
	model := cubismtest.New(cubismtest.Params(-30, 30, "ParamAngleX", "ParamHairFront"), nil, nil)
	rig := NewRig(hairRig())

	model.ParameterValues()[0] = 30
	rig.Evaluate(model, 1.0/60)
	swing := model.Value("ParamHairFront")
	assert.NotZero(t, swing)

	for i := 0; i < 600; i++ {
		rig.Evaluate(model, 1.0/60)
	}
	v := model.Value("ParamHairFront")
	assert.GreaterOrEqual(t, v, float32(-30))
	assert.LessOrEqual(t, v, float32(30))
	// the root moved and the strand settled below it again
	pos := rig.Positions(0)
	require.Len(t, pos, 2)
	assert.InDelta(t, -10, pos[0].X, 1e-4)
	assert.InDelta(t, 3, pos[1].Sub(pos[0]).Length(), 1e-4)

	rig.Reset()
	assert.Equal(t, []math.Vec2{{X: 0, Y: 0}, {X: 0, Y: 3}}, rig.Positions(0))
}

func TestRigFixedStep(t *testing.T) {
	model := cubismtest.New(cubismtest.Params(-30, 30, "ParamAngleX", "ParamHairFront"), nil, nil)
	rig := NewRig(hairRig())
	model.ParameterValues()[0] = 30

	// less than one step: nothing runs yet
	rig.Evaluate(model, 0.005)
	assert.Equal(t, float32(0), model.Value("ParamHairFront"))
	rig.Evaluate(model, 0.015)
	assert.NotZero(t, model.Value("ParamHairFront"))

	rig.Evaluate(model, 0)
	rig.Evaluate(model, -1)
}

func TestRigWeightBlend(t *testing.T) {
	p3 := hairRig()
	p3.PhysicsSettings[0].Output[0].Weight = 50
	p3.PhysicsSettings[0].Output[0].Type = resources.PhysicsTypeX
	p3.PhysicsSettings[0].Output[0].Scale = 10

	model := cubismtest.New(cubismtest.Params(-30, 30, "ParamAngleX", "ParamHairFront"), nil, nil)
	model.ParameterValues()[1] = 4
	rig := NewRig(p3)
	rig.Evaluate(model, 1.0/60)
	// x offset of the strand is 0 at rest, half weight pulls the value half way
	assert.InDelta(t, 2, model.Value("ParamHairFront"), 1e-4)
}
