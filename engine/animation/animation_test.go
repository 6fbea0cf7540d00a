package animation

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/cubism/engine/cubism/cubismtest"
	"github.com/spaghettifunk/cubism/engine/resources"
)

func f32(v float32) *float32 { return &v }

func TestParseCurve(t *testing.T) {
	c, err := ParseCurve(resources.MotionCurve{
		Target:   resources.CurveTargetParameter,
		ID:       "ParamAngleX",
		Segments: []float32{0, 0, 1, 0.25, 0, 0.75, 10, 1, 10, 0, 2, 0, 2, 3, 5, 3, 4, 1},
	})
	require.NoError(t, err)

	want := []Segment{
		{Kind: SegmentBezier, Points: [4]Point{{0, 0}, {0.25, 0}, {0.75, 10}, {1, 10}}},
		{Kind: SegmentLinear, Points: [4]Point{{1, 10}, {2, 0}}},
		{Kind: SegmentStepped, Points: [4]Point{{2, 0}, {3, 5}}},
		{Kind: SegmentInverseStepped, Points: [4]Point{{3, 5}, {4, 1}}},
	}
	if diff := cmp.Diff(want, c.Segments); diff != "" {
		t.Errorf("segments mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, float32(-1), c.FadeInTime)

	_, err = ParseCurve(resources.MotionCurve{ID: "x", Segments: []float32{0, 0, 1, 0.5}})
	assert.ErrorIs(t, err, resources.ErrBadSegments)
	_, err = ParseCurve(resources.MotionCurve{ID: "x", Segments: []float32{0}})
	assert.ErrorIs(t, err, resources.ErrBadSegments)
}

func TestSegmentEvaluate(t *testing.T) {
	linear := Segment{Kind: SegmentLinear, Points: [4]Point{{0, 0}, {2, 10}}}
	assert.InDelta(t, 5, linear.Evaluate(1), 1e-6)
	assert.Equal(t, float32(0), linear.Evaluate(-1))

	bezier := Segment{Kind: SegmentBezier, Points: [4]Point{{0, 0}, {1, 0}, {2, 10}, {3, 10}}}
	assert.InDelta(t, 5, bezier.Evaluate(1.5), 1e-5)
	assert.Equal(t, float32(0), bezier.Evaluate(0))
	assert.InDelta(t, 10, bezier.Evaluate(3), 1e-5)

	stepped := Segment{Kind: SegmentStepped, Points: [4]Point{{0, 1}, {1, 2}}}
	assert.Equal(t, float32(1), stepped.Evaluate(0.9))
	inverse := Segment{Kind: SegmentInverseStepped, Points: [4]Point{{0, 1}, {1, 2}}}
	assert.Equal(t, float32(2), inverse.Evaluate(0.1))
}

func TestCurveEvaluateOutOfRange(t *testing.T) {
	c, err := ParseCurve(resources.MotionCurve{Segments: []float32{1, 3, 0, 2, 7}})
	require.NoError(t, err)
	assert.Equal(t, float32(3), c.Evaluate(0))
	assert.Equal(t, float32(5), c.Evaluate(1.5))
	assert.Equal(t, float32(7), c.Evaluate(9))

	single, err := ParseCurve(resources.MotionCurve{Segments: []float32{0, 4}})
	require.NoError(t, err)
	assert.Equal(t, float32(4), single.Evaluate(1))
}

func linearMotion(duration float32, loop bool) *resources.Motion3 {
	return &resources.Motion3{
		Meta: resources.MotionMeta{Duration: duration, Fps: 30, Loop: loop, FadeInTime: f32(0), FadeOutTime: f32(0)},
		Curves: []resources.MotionCurve{
			{Target: resources.CurveTargetParameter, ID: "ParamAngleX", Segments: []float32{0, 0, 0, duration, 10}},
		},
	}
}

func TestMotionTick(t *testing.T) {
	m, err := NewMotion(linearMotion(2, false), nil)
	require.NoError(t, err)

	m.Tick(1)
	assert.Equal(t, float32(0), m.CurrentTime(), "paused motions do not advance")

	m.Play()
	m.Tick(1.5)
	assert.Equal(t, float32(1.5), m.CurrentTime())
	m.Tick(1)
	assert.Equal(t, float32(2), m.CurrentTime())
	assert.False(t, m.IsPlaying())
	assert.True(t, m.IsFinished())

	m.Stop()
	assert.Equal(t, float32(0), m.CurrentTime())
	assert.False(t, m.IsFinished())

	looped, err := NewMotion(linearMotion(2, true), nil)
	require.NoError(t, err)
	looped.Play()
	looped.Tick(5)
	assert.InDelta(t, 1, looped.CurrentTime(), 1e-6)
	assert.True(t, looped.IsPlaying())
}

func TestMotionFadeDefaults(t *testing.T) {
	m3 := linearMotion(2, false)
	m3.Meta.FadeInTime = nil
	m3.Meta.FadeOutTime = f32(0.5)

	m, err := NewMotion(m3, nil)
	require.NoError(t, err)
	assert.Equal(t, resources.DefaultFadeTime, m.FadeInTime())
	assert.Equal(t, float32(0.5), m.FadeOutTime())

	m, err = NewMotion(m3, &resources.MotionRef{FadeInTime: f32(0.2)})
	require.NoError(t, err)
	assert.Equal(t, float32(0.2), m.FadeInTime())
	assert.Equal(t, float32(0.5), m.FadeOutTime())
}

func TestMotionApply(t *testing.T) {
	model := cubismtest.New(cubismtest.Params(-30, 30, "ParamAngleX", "ParamEyeLOpen", "ParamMouthOpenY"),
		[]cubismtest.Part{{ID: "PartArm", Parent: -1}}, nil)

	m3 := linearMotion(2, false)
	m3.Curves = append(m3.Curves,
		resources.MotionCurve{Target: resources.CurveTargetModel, ID: ModelCurveEyeBlink, Segments: []float32{0, 0.5, 2, 2, 0.5}},
		resources.MotionCurve{Target: resources.CurveTargetModel, ID: ModelCurveLipSync, Segments: []float32{0, 0.25, 2, 2, 0.25}},
		resources.MotionCurve{Target: resources.CurveTargetPartOpacity, ID: "PartArm", Segments: []float32{0, 0.3, 2, 2, 0.3}},
	)
	m, err := NewMotion(m3, nil)
	require.NoError(t, err)
	m.SetEffectIDs([]string{"ParamEyeLOpen"}, []string{"ParamMouthOpenY"})

	model.ParameterValues()[1] = 1
	model.ParameterValues()[2] = 0.5

	m.Play()
	m.Tick(1)
	m.Update(model)

	assert.InDelta(t, 5, model.Value("ParamAngleX"), 1e-5)
	assert.InDelta(t, 0.5, model.Value("ParamEyeLOpen"), 1e-5)
	assert.InDelta(t, 0.75, model.Value("ParamMouthOpenY"), 1e-5)
	assert.InDelta(t, 0.3, model.Opacity("PartArm"), 1e-6)
}

func TestMotionFadeIn(t *testing.T) {
	model := cubismtest.New(cubismtest.Params(-30, 30, "ParamAngleX"), nil, nil)
	m3 := linearMotion(2, true)
	m3.Curves[0].Segments = []float32{0, 10, 0, 2, 10}
	m3.Meta.FadeInTime = f32(1)

	m, err := NewMotion(m3, nil)
	require.NoError(t, err)
	m.Play()
	m.Tick(0.5)
	m.Update(model)
	assert.InDelta(t, 5, model.Value("ParamAngleX"), 1e-4, "half way through a sine fade")

	// curve level fade overrides the motion fade
	m3.Curves[0].FadeInTime = f32(0)
	m, err = NewMotion(m3, nil)
	require.NoError(t, err)
	model.ParameterValues()[0] = 0
	m.Play()
	m.Tick(0.5)
	m.Update(model)
	assert.InDelta(t, 10, model.Value("ParamAngleX"), 1e-4)
}

func TestMotionOpacity(t *testing.T) {
	model := cubismtest.New(cubismtest.Params(-30, 30, "ParamAngleX"), nil, nil)
	m3 := linearMotion(2, true)
	m3.Meta.FadeInTime = f32(1)
	m3.Curves = append(m3.Curves,
		resources.MotionCurve{Target: resources.CurveTargetModel, ID: ModelCurveOpacity, Segments: []float32{0, 0.4, 0, 2, 0.4}},
	)
	m, err := NewMotion(m3, nil)
	require.NoError(t, err)
	assert.Equal(t, float32(1), m.Opacity())

	m.Play()
	m.Tick(0.5)
	m.Update(model)
	assert.InDelta(t, 0.4, m.Opacity(), 1e-6)
	assert.InDelta(t, 0.5, m.Weight(), 1e-5)

	m.Tick(1)
	assert.InDelta(t, 1, m.Weight(), 1e-6)

	m.Stop()
	assert.Equal(t, float32(1), m.Opacity())
}

func TestMotionEvents(t *testing.T) {
	m3 := linearMotion(2, true)
	m3.UserData = []resources.MotionEvent{{Time: 0.5, Value: "a"}, {Time: 1.5, Value: "b"}}
	m, err := NewMotion(m3, nil)
	require.NoError(t, err)

	var got []string
	m.SetEventHandler(func(value string, _ float32) { got = append(got, value) })
	m.Play()
	m.Tick(1)
	assert.Equal(t, []string{"a"}, got)
	m.Tick(0.8)
	assert.Equal(t, []string{"a", "b"}, got)
	// wraps to 0.3 without crossing an event
	m.Tick(0.5)
	assert.Equal(t, []string{"a", "b"}, got)
	m.Tick(0.5)
	assert.Equal(t, []string{"a", "b", "a"}, got)
}

func TestMotionQueue(t *testing.T) {
	model := cubismtest.New(cubismtest.Params(-30, 30, "ParamAngleX"), nil, nil)
	q := NewMotionQueue()
	assert.True(t, q.IsFinished())

	first, err := NewMotion(linearMotion(1, false), nil)
	require.NoError(t, err)
	id1 := q.Start(first, 2)
	assert.False(t, q.IsFinishedID(id1))

	second, err := NewMotion(linearMotion(3, false), nil)
	require.NoError(t, err)
	second.SetFadeTimes(0, 0)
	id2 := q.Start(second, 2)
	assert.NotEqual(t, id1, id2)
	assert.Equal(t, id2, q.Current().ID)

	// the first motion has no fade out time so it finishes immediately
	assert.True(t, q.Update(model, 0.5))
	assert.True(t, q.IsFinishedID(id1))
	assert.Equal(t, 1, q.Len())

	q.SetPaused(true)
	q.Update(model, 1)
	assert.InDelta(t, 0.5, second.CurrentTime(), 1e-6)
	q.SetPaused(false)

	q.Update(model, 5)
	assert.True(t, q.IsFinished())

	q.Start(second, 1)
	q.StopAll()
	assert.True(t, q.IsFinished())
	assert.False(t, q.Update(model, 1))
}

func TestExpressionApply(t *testing.T) {
	model := cubismtest.New([]cubismtest.Parameter{
		{ID: "Add", Min: -10, Max: 10, Default: 1},
		{ID: "Mul", Min: -10, Max: 10, Default: 2},
		{ID: "Over", Min: -10, Max: 10, Default: 2},
		{ID: "Clamped", Min: 0, Max: 1, Default: 0.5},
	}, nil, nil)

	e := NewExpression("smile", &resources.Expression3{Parameters: []resources.ExpressionParameter{
		{ID: "Add", Value: 2, Blend: resources.ExpressionBlendAdd},
		{ID: "Mul", Value: 3, Blend: resources.ExpressionBlendMultiply},
		{ID: "Over", Value: 6, Blend: resources.ExpressionBlendOverwrite},
		{ID: "Clamped", Value: 4, Blend: resources.ExpressionBlendAdd},
		{ID: "Missing", Value: 1},
	}})
	assert.Equal(t, resources.DefaultFadeTime, e.FadeInTime)

	e.Apply(model, 0.5)
	assert.InDelta(t, 2, model.Value("Add"), 1e-6)
	assert.InDelta(t, 4, model.Value("Mul"), 1e-6)
	assert.InDelta(t, 4, model.Value("Over"), 1e-6)
	assert.Equal(t, float32(1), model.Value("Clamped"))
}
