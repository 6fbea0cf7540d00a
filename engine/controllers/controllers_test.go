package controllers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/cubism/engine/animation"
	"github.com/spaghettifunk/cubism/engine/cubism"
	"github.com/spaghettifunk/cubism/engine/cubism/cubismtest"
	"github.com/spaghettifunk/cubism/engine/ids"
	"github.com/spaghettifunk/cubism/engine/resources"
)

type recorder struct {
	name     string
	priority int
	log      *[]string
}

func (r *recorder) UpdateParameters(cubism.Model, float32) { *r.log = append(*r.log, r.name) }
func (r *recorder) Priority() int                          { return r.priority }

func TestControllerMapOrder(t *testing.T) {
	var log []string
	cm := NewControllerMap()
	assert.Nil(t, cm.Insert("pose", &recorder{"pose", PriorityPose, &log}))
	assert.Nil(t, cm.Insert("blink", &recorder{"blink", PriorityEyeBlink, &log}))
	assert.Nil(t, cm.Insert("first", &recorder{"first", PriorityBreath, &log}))
	assert.Nil(t, cm.Insert("second", &recorder{"second", PriorityBreath, &log}))

	cm.UpdateEnabled(nil, 0)
	assert.Equal(t, []string{"blink", "first", "second", "pose"}, log)

	log = nil
	cm.SetEnabled("blink", false)
	assert.False(t, cm.IsEnabled("blink"))
	assert.False(t, cm.IsEnabled("unknown"))
	cm.UpdateEnabled(nil, 0)
	assert.Equal(t, []string{"first", "second", "pose"}, log)
	assert.Equal(t, []string{"blink", "first", "pose", "second"}, cm.Names())
}

func TestControllerMapReplace(t *testing.T) {
	var log []string
	cm := NewControllerMap()
	old := &recorder{"old", 1, &log}
	cm.Insert("x", old)
	prev := cm.Insert("x", &recorder{"new", 1, &log})
	assert.Same(t, old, prev)
	assert.Equal(t, 1, cm.Len())

	removed := cm.Remove("x")
	require.NotNil(t, removed)
	assert.Nil(t, cm.Get("x"))
	assert.Nil(t, cm.Remove("x"))
	assert.Equal(t, 0, cm.Len())
}

func eyeModel() *cubismtest.Model {
	return cubismtest.New(cubismtest.Params(0, 1, ids.ParamEyeLOpen, ids.ParamEyeROpen), nil, nil)
}

func TestEyeBlinkCycle(t *testing.T) {
	m := eyeModel()
	eb := NewEyeBlinkFromIDs(m, []string{ids.ParamEyeLOpen, ids.ParamEyeROpen, "Missing"})
	assert.Equal(t, []int{0, 1}, eb.ParameterIDs())
	eb.SetTimings(1, 0.1, 0.2, 0.1)

	eb.UpdateParameters(m, 0.5)
	assert.Equal(t, EyeStateOpen, eb.State())
	assert.Equal(t, float32(1), m.Value(ids.ParamEyeLOpen))

	eb.UpdateParameters(m, 0.5)
	assert.Equal(t, EyeStateClosing, eb.State())

	eb.UpdateParameters(m, 0.05)
	assert.InDelta(t, 0.5, m.Value(ids.ParamEyeLOpen), 1e-5)

	eb.UpdateParameters(m, 0.05)
	assert.Equal(t, EyeStateClosed, eb.State())
	assert.Equal(t, float32(0), m.Value(ids.ParamEyeROpen))

	eb.UpdateParameters(m, 0.1)
	assert.Equal(t, EyeStateOpening, eb.State())

	eb.UpdateParameters(m, 0.1)
	assert.InDelta(t, 0.5, m.Value(ids.ParamEyeLOpen), 1e-5)

	eb.UpdateParameters(m, 0.1)
	assert.Equal(t, EyeStateOpen, eb.State())
	assert.Equal(t, float32(1), m.Value(ids.ParamEyeLOpen))
}

func TestEyeBlinkTimingsFloor(t *testing.T) {
	eb := NewEyeBlink(nil)
	eb.SetTimings(0.1, 0.1, 0.2, 0.3)
	assert.InDelta(t, 0.6, eb.interval, 1e-6)
	assert.InDelta(t, 0.6, eb.nextCycle, 1e-6)
}

func expr(name string, v float32) *animation.Expression {
	zero := float32(0)
	return animation.NewExpression(name, &resources.Expression3{
		FadeInTime:  &zero,
		FadeOutTime: &zero,
		Parameters:  []resources.ExpressionParameter{{ID: "ParamCheek", Value: v, Blend: resources.ExpressionBlendAdd}},
	})
}

func TestExpressionController(t *testing.T) {
	m := cubismtest.New(cubismtest.Params(-10, 10, "ParamCheek"), nil, nil)
	ec := NewExpressionController()
	assert.Nil(t, ec.Register("happy", expr("happy", 1)))
	assert.Nil(t, ec.Register("sad", expr("sad", -1)))
	old := ec.Register("happy", expr("happy", 2))
	require.NotNil(t, old)
	assert.Equal(t, "happy", old.Name)
	assert.Equal(t, []string{"happy", "sad"}, ec.Names())
	assert.Len(t, ec.Expressions(), 2)

	ec.SetExpression("happy")
	assert.Equal(t, "happy", ec.Current())
	ec.UpdateParameters(m, 0.1)
	assert.Equal(t, float32(2), m.Value("ParamCheek"))

	m.ParameterValues()[0] = 0
	ec.SetExpressionWeight(3)
	assert.Equal(t, float32(1), ec.ExpressionWeight())
	ec.SetExpressionWeight(0.5)
	ec.UpdateParameters(m, 0.1)
	assert.Equal(t, float32(1), m.Value("ParamCheek"))

	m.ParameterValues()[0] = 0
	ec.SetExpression("unknown")
	assert.Equal(t, "", ec.Current())
	ec.UpdateParameters(m, 0.1)
	assert.Equal(t, float32(0), m.Value("ParamCheek"))
}

func TestExpressionCrossFade(t *testing.T) {
	m := cubismtest.New(cubismtest.Params(-10, 10, "ParamCheek"), nil, nil)
	ec := NewExpressionController()
	ec.Register("a", expr("a", 4))
	one := float32(1)
	ec.Register("b", animation.NewExpression("b", &resources.Expression3{
		FadeInTime: &one,
		Parameters: []resources.ExpressionParameter{{ID: "ParamCheek", Value: 4, Blend: resources.ExpressionBlendAdd}},
	}))

	ec.SetExpression("a")
	ec.UpdateParameters(m, 0.1)
	m.ParameterValues()[0] = 0

	ec.SetExpression("b")
	ec.UpdateParameters(m, 0.5)
	// a fades out while b fades in: weights 0.5 and 0.5
	assert.InDelta(t, 4, m.Value("ParamCheek"), 1e-4)
}

func TestExpressionClearFadesOut(t *testing.T) {
	m := cubismtest.New(cubismtest.Params(-10, 10, "ParamCheek"), nil, nil)
	ec := NewExpressionController()
	zero, one := float32(0), float32(1)
	ec.Register("a", animation.NewExpression("a", &resources.Expression3{
		FadeInTime:  &zero,
		FadeOutTime: &one,
		Parameters:  []resources.ExpressionParameter{{ID: "ParamCheek", Value: 4, Blend: resources.ExpressionBlendAdd}},
	}))

	ec.SetExpression("a")
	ec.UpdateParameters(m, 0.1)
	assert.Equal(t, float32(4), m.Value("ParamCheek"))

	m.ParameterValues()[0] = 0
	ec.SetExpression("")
	assert.Equal(t, "", ec.Current())
	ec.UpdateParameters(m, 0.5)
	assert.InDelta(t, 2, m.Value("ParamCheek"), 1e-4)

	m.ParameterValues()[0] = 0
	ec.UpdateParameters(m, 0.6)
	assert.Equal(t, float32(0), m.Value("ParamCheek"))
	assert.Equal(t, -1, ec.previous)
}

func TestEyeBlinkSuppress(t *testing.T) {
	m := eyeModel()
	eb := NewEyeBlinkFromIDs(m, []string{ids.ParamEyeLOpen})
	eb.SetTimings(1, 0.1, 0.2, 0.1)
	suppressed := true
	eb.SetSuppress(func() bool { return suppressed })

	m.ParameterValues()[0] = 0.3
	eb.UpdateParameters(m, 2)
	assert.Equal(t, float32(0.3), m.Value(ids.ParamEyeLOpen))
	assert.Equal(t, EyeStateOpen, eb.State())

	suppressed = false
	eb.UpdateParameters(m, 0.5)
	assert.Equal(t, float32(1), m.Value(ids.ParamEyeLOpen))
}

func motion(duration float32) *animation.Motion {
	zero := float32(0)
	m, err := animation.NewMotion(&resources.Motion3{
		Meta: resources.MotionMeta{Duration: duration, FadeInTime: &zero, FadeOutTime: &zero},
		Curves: []resources.MotionCurve{
			{Target: resources.CurveTargetParameter, ID: ids.ParamAngleX, Segments: []float32{0, 10, 0, duration, 10}},
		},
	}, nil)
	if err != nil {
		panic(err)
	}
	return m
}

func TestMotionControllerPriorities(t *testing.T) {
	m := cubismtest.New(cubismtest.Params(-30, 30, ids.ParamAngleX), nil, nil)
	mc := NewMotionController()

	_, ok := mc.Start(motion(1), MotionPriorityIdle)
	require.True(t, ok)
	assert.Equal(t, MotionPriorityIdle, mc.CurrentPriority())

	_, ok = mc.Start(motion(1), MotionPriorityIdle)
	assert.False(t, ok, "same priority does not interrupt")

	_, ok = mc.Start(motion(1), MotionPriorityNormal)
	assert.True(t, ok)
	_, ok = mc.Start(motion(1), MotionPriorityForce)
	assert.True(t, ok)
	assert.Equal(t, MotionPriorityNone, mc.ReservePriority())

	mc.UpdateParameters(m, 0.5)
	assert.True(t, mc.Updated())
	assert.Equal(t, float32(10), m.Value(ids.ParamAngleX))

	mc.UpdateParameters(m, 1)
	assert.True(t, mc.IsFinished())
	assert.Equal(t, MotionPriorityNone, mc.CurrentPriority())

	assert.True(t, mc.Reserve(MotionPriorityNormal))
	assert.False(t, mc.Reserve(MotionPriorityIdle))
	_, ok = mc.Start(motion(1), MotionPriorityNormal)
	assert.True(t, ok)
	mc.StopAll()
	assert.True(t, mc.IsFinished())
}

func TestSnapshot(t *testing.T) {
	m := cubismtest.New(cubismtest.Params(-30, 30, ids.ParamAngleX), nil, nil)
	s := NewSnapshot()
	s.Load(m)
	m.ParameterValues()[0] = 12
	s.UpdateParameters(m, 0)
	m.ParameterValues()[0] = 20
	s.Load(m)
	assert.Equal(t, float32(12), m.Value(ids.ParamAngleX))
}

func TestLookAt(t *testing.T) {
	m := cubismtest.New(cubismtest.Params(-90, 90,
		ids.ParamAngleX, ids.ParamAngleY, ids.ParamAngleZ, ids.ParamBodyAngleX, ids.ParamEyeBallX, ids.ParamEyeBallY), nil, nil)
	l := NewLookAt(m)
	l.SetTarget(2, -0.5)
	assert.Equal(t, float32(1), l.Target().X)

	for i := 0; i < 300; i++ {
		l.Step(1.0 / 60)
	}
	cur := l.Current()
	assert.InDelta(t, 1, cur.X, 0.02)
	assert.InDelta(t, -0.5, cur.Y, 0.02)

	l.UpdateParameters(m, 0)
	assert.InDelta(t, cur.X*30, m.Value(ids.ParamAngleX), 1e-4)
	assert.InDelta(t, cur.Y*30, m.Value(ids.ParamAngleY), 1e-4)
	assert.InDelta(t, cur.X*cur.Y*-30, m.Value(ids.ParamAngleZ), 1e-4)
	assert.InDelta(t, cur.X*10, m.Value(ids.ParamBodyAngleX), 1e-4)
	assert.InDelta(t, cur.X, m.Value(ids.ParamEyeBallX), 1e-4)
}

func TestBreath(t *testing.T) {
	m := cubismtest.New(cubismtest.Params(-30, 30, ids.ParamAngleX, ids.ParamBreath), nil, nil)
	b := NewBreath([]BreathParameter{
		{ID: ids.ParamAngleX, Peak: 10, Cycle: 4, Weight: 1},
		{ID: ids.ParamBreath, Offset: 0.5, Peak: 0.5, Cycle: 4, Weight: 1},
	})
	// a quarter cycle in, the sine peaks
	b.UpdateParameters(m, 1)
	assert.InDelta(t, 10, m.Value(ids.ParamAngleX), 1e-4)
	assert.InDelta(t, 1, m.Value(ids.ParamBreath), 1e-4)
	assert.Len(t, DefaultBreathParameters, 5)
}

func TestLipSync(t *testing.T) {
	m := cubismtest.New(cubismtest.Params(0, 1, ids.ParamMouthOpenY), nil, nil)
	ls := NewLipSyncFromIDs(m, []string{ids.ParamMouthOpenY})
	ls.UpdateParameters(m, 0)
	assert.Equal(t, float32(0), m.Value(ids.ParamMouthOpenY))

	ls.SetLevel(2)
	assert.Equal(t, float32(1), ls.Level())
	ls.SetLevel(0.5)
	ls.UpdateParameters(m, 0)
	assert.InDelta(t, 0.4, m.Value(ids.ParamMouthOpenY), 1e-6)
}
