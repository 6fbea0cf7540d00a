// Package physics runs the pendulum rigs of a physics3 file. Inputs are
// normalized into a translation and an angle that move the root of each
// particle strand; the strand follows with delay and its shape is written
// back into output parameters.
package physics

import (
	"github.com/spaghettifunk/cubism/engine/cubism"
	"github.com/spaghettifunk/cubism/engine/math"
	"github.com/spaghettifunk/cubism/engine/resources"
)

const (
	airResistance     float32 = 5.0
	maximumWeight     float32 = 100.0
	movementThreshold float32 = 0.001
	// remaining time above this is dropped, e.g. after a stall
	maxDeltaTime float32 = 5.0
)

type SourceType int

const (
	SourceX SourceType = iota
	SourceY
	SourceAngle
)

func parseSourceType(s string) SourceType {
	switch s {
	case resources.PhysicsTypeY:
		return SourceY
	case resources.PhysicsTypeAngle:
		return SourceAngle
	default:
		return SourceX
	}
}

type normalization struct {
	minimum, maximum, def float32
}

type input struct {
	sourceID    string
	sourceIndex int
	weight      float32
	kind        SourceType
	reflect     bool
}

type output struct {
	destinationID    string
	destinationIndex int
	vertexIndex      int
	scale            float32
	weight           float32
	kind             SourceType
	reflect          bool
}

type particle struct {
	initialPosition math.Vec2
	mobility        float32
	delay           float32
	acceleration    float32
	radius          float32
	position        math.Vec2
	lastPosition    math.Vec2
	lastGravity     math.Vec2
	velocity        math.Vec2
}

type subRig struct {
	id        string
	inputs    []input
	outputs   []output
	particles []particle
	position  normalization
	angle     normalization
}

// Rig is a set of independent pendulums.
type Rig struct {
	settings   []subRig
	gravity    math.Vec2
	wind       math.Vec2
	fps        float32
	remaining  float32
	resolvedTo cubism.Model
}

/**
 * @brief Builds a rig from a physics file.
 * @param p3 The parsed physics3 file.
 * @returns The rig with every strand in its initial layout.
 */
func NewRig(p3 *resources.Physics3) *Rig {
	r := &Rig{
		gravity: math.Vec2{X: 0, Y: -1},
		fps:     p3.Meta.Fps,
	}
	if g := p3.Meta.EffectiveForces.Gravity; g.X != 0 || g.Y != 0 {
		r.gravity = math.Vec2{X: g.X, Y: g.Y}
	}
	r.wind = math.Vec2{X: p3.Meta.EffectiveForces.Wind.X, Y: p3.Meta.EffectiveForces.Wind.Y}

	for _, s := range p3.PhysicsSettings {
		sub := subRig{
			id: s.ID,
			position: normalization{
				minimum: s.Normalization.Position.Minimum,
				maximum: s.Normalization.Position.Maximum,
				def:     s.Normalization.Position.Default,
			},
			angle: normalization{
				minimum: s.Normalization.Angle.Minimum,
				maximum: s.Normalization.Angle.Maximum,
				def:     s.Normalization.Angle.Default,
			},
		}
		for _, in := range s.Input {
			sub.inputs = append(sub.inputs, input{
				sourceID:    in.Source.ID,
				sourceIndex: -1,
				weight:      in.Weight,
				kind:        parseSourceType(in.Type),
				reflect:     in.Reflect,
			})
		}
		for _, out := range s.Output {
			sub.outputs = append(sub.outputs, output{
				destinationID:    out.Destination.ID,
				destinationIndex: -1,
				vertexIndex:      out.VertexIndex,
				scale:            out.Scale,
				weight:           out.Weight,
				kind:             parseSourceType(out.Type),
				reflect:          out.Reflect,
			})
		}
		for _, v := range s.Vertices {
			sub.particles = append(sub.particles, particle{
				mobility:     v.Mobility,
				delay:        v.Delay,
				acceleration: v.Acceleration,
				radius:       v.Radius,
			})
		}
		r.settings = append(r.settings, sub)
	}
	r.Reset()
	return r
}

func (r *Rig) SetGravity(g math.Vec2) { r.gravity = g }
func (r *Rig) SetWind(w math.Vec2)    { r.wind = w }
func (r *Rig) Gravity() math.Vec2     { return r.gravity }
func (r *Rig) Wind() math.Vec2        { return r.wind }

// Reset puts every strand back into its initial straight layout.
func (r *Rig) Reset() {
	for s := range r.settings {
		ps := r.settings[s].particles
		for i := range ps {
			p := &ps[i]
			if i == 0 {
				p.initialPosition = math.Vec2{}
			} else {
				p.initialPosition = ps[i-1].initialPosition.Add(math.Vec2{X: 0, Y: p.radius})
			}
			p.position = p.initialPosition
			p.lastPosition = p.initialPosition
			p.lastGravity = math.Vec2{X: 0, Y: 1}
			p.velocity = math.Vec2{}
		}
	}
	r.remaining = 0
}

// Positions returns the current particle positions of setting idx.
func (r *Rig) Positions(idx int) []math.Vec2 {
	ps := r.settings[idx].particles
	out := make([]math.Vec2, len(ps))
	for i, p := range ps {
		out[i] = p.position
	}
	return out
}

func (r *Rig) resolve(model cubism.Model) {
	if r.resolvedTo == model {
		return
	}
	for s := range r.settings {
		sub := &r.settings[s]
		for i := range sub.inputs {
			sub.inputs[i].sourceIndex = cubism.ParameterIndex(model, sub.inputs[i].sourceID)
		}
		for i := range sub.outputs {
			sub.outputs[i].destinationIndex = cubism.ParameterIndex(model, sub.outputs[i].destinationID)
		}
	}
	r.resolvedTo = model
}

/**
 * @brief Advances the rig by delta seconds and writes the outputs. With a
 * rig fps the simulation runs in fixed steps and leftover time carries over
 * to the next call.
 */
func (r *Rig) Evaluate(model cubism.Model, delta float32) {
	if delta <= 0 {
		return
	}
	r.resolve(model)

	step := delta
	if r.fps > 0 {
		step = 1 / r.fps
	}
	r.remaining += delta
	if r.remaining > maxDeltaTime {
		r.remaining = 0
	}
	for r.remaining >= step {
		for s := range r.settings {
			r.evaluateSetting(model, &r.settings[s], step)
		}
		r.remaining -= step
	}
}

func (r *Rig) evaluateSetting(model cubism.Model, sub *subRig, step float32) {
	values := model.ParameterValues()
	mins := model.ParameterMinimumValues()
	maxs := model.ParameterMaximumValues()

	var translation math.Vec2
	var angle float32
	for _, in := range sub.inputs {
		if in.sourceIndex < 0 {
			continue
		}
		weight := in.weight / maximumWeight
		idx := in.sourceIndex
		switch in.kind {
		case SourceX:
			translation.X += normalize(values[idx], mins[idx], maxs[idx], sub.position, in.reflect) * weight
		case SourceY:
			translation.Y += normalize(values[idx], mins[idx], maxs[idx], sub.position, in.reflect) * weight
		case SourceAngle:
			angle += normalize(values[idx], mins[idx], maxs[idx], sub.angle, in.reflect) * weight
		}
	}

	rad := math.DegToRad(-angle)
	translation = math.Vec2{
		X: translation.X*math.Cos(rad) - translation.Y*math.Sin(rad),
		Y: translation.X*math.Sin(rad) + translation.Y*math.Cos(rad),
	}

	updateParticles(sub.particles, translation, angle, r.wind, movementThreshold*sub.position.maximum, step)

	for _, out := range sub.outputs {
		pi := out.vertexIndex
		if out.destinationIndex < 0 || pi < 1 || pi >= len(sub.particles) {
			continue
		}
		d := sub.particles[pi].position.Sub(sub.particles[pi-1].position)
		var v float32
		switch out.kind {
		case SourceX:
			v = d.X
		case SourceY:
			v = d.Y
		case SourceAngle:
			parent := r.gravity.MulScalar(-1)
			if pi >= 2 {
				parent = sub.particles[pi-1].position.Sub(sub.particles[pi-2].position)
			}
			v = math.DirectionToRadian(parent, d)
		}
		if out.reflect {
			v = -v
		}
		writeOutput(model, out, v)
	}
}

func writeOutput(model cubism.Model, out output, v float32) {
	idx := out.destinationIndex
	values := model.ParameterValues()
	v = math.Clamp(v*out.scale, model.ParameterMinimumValues()[idx], model.ParameterMaximumValues()[idx])

	weight := out.weight / maximumWeight
	if weight >= 1 {
		values[idx] = v
		return
	}
	values[idx] = values[idx]*(1-weight) + v*weight
}

/**
 * @brief Maps a parameter value onto the normalization range. The middle of
 * the parameter range maps to the normalization default; the sign is
 * flipped unless the input is reflected.
 */
func normalize(value, paramMin, paramMax float32, n normalization, reflect bool) float32 {
	maxValue := math.Max(paramMax, paramMin)
	minValue := math.Min(paramMax, paramMin)
	value = math.Clamp(value, minValue, maxValue)

	minNorm := math.Min(n.minimum, n.maximum)
	maxNorm := math.Max(n.minimum, n.maximum)
	middleNorm := n.def
	middle := minValue + (maxValue-minValue)/2

	var result float32
	pv := value - middle
	switch {
	case pv > 0:
		if length := maxValue - middle; length != 0 {
			result = pv*((maxNorm-middleNorm)/length) + middleNorm
		}
	case pv < 0:
		if length := minValue - middle; length != 0 {
			result = pv*((minNorm-middleNorm)/length) + middleNorm
		}
	default:
		result = middleNorm
	}
	if reflect {
		return result
	}
	return -result
}

func updateParticles(ps []particle, translation math.Vec2, angle float32, wind math.Vec2, threshold, step float32) {
	if len(ps) == 0 {
		return
	}
	ps[0].position = translation
	gravity := math.RadianToDirection(math.DegToRad(angle)).Normalized()

	for i := 1; i < len(ps); i++ {
		p := &ps[i]
		prev := ps[i-1].position
		force := gravity.MulScalar(p.acceleration).Add(wind)
		p.lastPosition = p.position

		delay := p.delay * step * 30
		dir := p.position.Sub(prev)
		rad := math.DirectionToRadian(p.lastGravity, gravity) / airResistance
		dir = math.Vec2{
			X: math.Cos(rad)*dir.X - dir.Y*math.Sin(rad),
			Y: math.Sin(rad)*dir.X + dir.Y*math.Cos(rad),
		}
		p.position = prev.Add(dir)
		p.position = p.position.Add(p.velocity.MulScalar(delay)).Add(force.MulScalar(delay * delay))

		p.position = prev.Add(p.position.Sub(prev).Normalized().MulScalar(p.radius))
		if math.Abs(p.position.X) < threshold {
			p.position.X = 0
		}
		if delay != 0 {
			p.velocity = p.position.Sub(p.lastPosition).MulScalar(p.mobility / delay)
		}
		p.lastGravity = gravity
	}
}
