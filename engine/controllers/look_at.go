package controllers

import (
	"github.com/spaghettifunk/cubism/engine/cubism"
	"github.com/spaghettifunk/cubism/engine/ids"
	"github.com/spaghettifunk/cubism/engine/math"
)

const (
	lookAtFrameRate      float32 = 30
	lookAtEpsilon        float32 = 0.01
	lookAtMaxSpeed       float32 = 40.0 / 10.0 / lookAtFrameRate
	lookAtFramesToMaxVel float32 = 0.15 * lookAtFrameRate
)

// LookAt makes the face and eyes follow a target point in [-1, 1]. The
// current point chases the target with bounded speed and acceleration.
type LookAt struct {
	target   math.Vec2
	face     math.Vec2
	velocity math.Vec2

	angleX, angleY, angleZ int
	bodyAngleX             int
	eyeBallX, eyeBallY     int
}

func NewLookAt(model cubism.Model) *LookAt {
	return &LookAt{
		angleX:     cubism.ParameterIndex(model, ids.ParamAngleX),
		angleY:     cubism.ParameterIndex(model, ids.ParamAngleY),
		angleZ:     cubism.ParameterIndex(model, ids.ParamAngleZ),
		bodyAngleX: cubism.ParameterIndex(model, ids.ParamBodyAngleX),
		eyeBallX:   cubism.ParameterIndex(model, ids.ParamEyeBallX),
		eyeBallY:   cubism.ParameterIndex(model, ids.ParamEyeBallY),
	}
}

// SetTarget sets the point to look at, clamped to [-1, 1].
func (l *LookAt) SetTarget(x, y float32) {
	l.target = math.Vec2{X: math.Clamp(x, -1, 1), Y: math.Clamp(y, -1, 1)}
}

func (l *LookAt) Target() math.Vec2 {
	return l.target
}

// Current returns the smoothed point the model looks at.
func (l *LookAt) Current() math.Vec2 {
	return l.face
}

// Step advances the smoothing by delta seconds.
func (l *LookAt) Step(delta float32) {
	frames := delta * lookAtFrameRate
	if frames <= 0 {
		return
	}
	maxAccel := frames * lookAtMaxSpeed / lookAtFramesToMaxVel

	d := l.target.Sub(l.face)
	if math.Abs(d.X) <= lookAtEpsilon && math.Abs(d.Y) <= lookAtEpsilon {
		return
	}
	dist := d.Length()
	want := d.MulScalar(lookAtMaxSpeed / dist)

	accel := want.Sub(l.velocity)
	if a := accel.Length(); a > maxAccel {
		accel = accel.MulScalar(maxAccel / a)
	}
	l.velocity = l.velocity.Add(accel)

	// slow down in time to stop on the target
	maxV := 0.5 * (math.Sqrt(maxAccel*maxAccel+16*maxAccel*dist-8*maxAccel*dist) - maxAccel)
	if cur := l.velocity.Length(); cur > maxV {
		l.velocity = l.velocity.MulScalar(maxV / cur)
	}
	l.face = l.face.Add(l.velocity)
}

func (l *LookAt) UpdateParameters(model cubism.Model, delta float32) {
	l.Step(delta)
	x, y := l.face.X, l.face.Y
	add := func(idx int, v float32) {
		if idx >= 0 {
			cubism.AddParameterAt(model, idx, v, 1)
		}
	}
	add(l.angleX, x*30)
	add(l.angleY, y*30)
	add(l.angleZ, x*y*-30)
	add(l.bodyAngleX, x*10)
	add(l.eyeBallX, x)
	add(l.eyeBallY, y)
}

func (l *LookAt) Priority() int {
	return PriorityLookAt
}
