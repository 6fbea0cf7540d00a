package animation

import (
	"github.com/spaghettifunk/cubism/engine/cubism"
	"github.com/spaghettifunk/cubism/engine/math"
	"github.com/spaghettifunk/cubism/engine/resources"
)

// Ids of Model target curves.
const (
	ModelCurveEyeBlink = "EyeBlink"
	ModelCurveLipSync  = "LipSync"
	ModelCurveOpacity  = "Opacity"
)

// EventHandler receives motion user data when playback crosses its time.
type EventHandler func(value string, time float32)

// Motion plays a parsed motion3 file on a model.
type Motion struct {
	curves   []Curve
	events   []resources.MotionEvent
	duration float32
	fps      float32
	looped   bool
	playing  bool
	finished bool
	current  float32

	fadeIn  float32
	fadeOut float32
	// time since Play, drives the fades
	elapsed    float32
	fadingOut  bool
	fadeOutEnd float32

	eyeBlinkIDs []string
	lipSyncIDs  []string
	opacity     float32
	onEvent     EventHandler
}

/**
 * @brief Creates a motion from a parsed file.
 * @param m3 The motion file.
 * @param ref The model3 entry the file was referenced from. Can be nil; its
 * fade times take precedence over the ones in the file.
 * @returns The motion or an error if a curve is malformed.
 */
func NewMotion(m3 *resources.Motion3, ref *resources.MotionRef) (*Motion, error) {
	m := &Motion{
		duration: m3.Meta.Duration,
		fps:      m3.Meta.Fps,
		looped:   m3.Meta.Loop,
		events:   m3.UserData,
		opacity:  1,
		fadeIn:   resources.FadeTime(m3.Meta.FadeInTime, resources.DefaultFadeTime),
		fadeOut:  resources.FadeTime(m3.Meta.FadeOutTime, resources.DefaultFadeTime),
	}
	if ref != nil {
		m.fadeIn = resources.FadeTime(ref.FadeInTime, m.fadeIn)
		m.fadeOut = resources.FadeTime(ref.FadeOutTime, m.fadeOut)
	}
	for _, c := range m3.Curves {
		curve, err := ParseCurve(c)
		if err != nil {
			return nil, err
		}
		m.curves = append(m.curves, curve)
	}
	return m, nil
}

func (m *Motion) Duration() float32    { return m.duration }
func (m *Motion) Fps() float32         { return m.fps }
func (m *Motion) CurrentTime() float32 { return m.current }
func (m *Motion) FadeInTime() float32  { return m.fadeIn }
func (m *Motion) FadeOutTime() float32 { return m.fadeOut }
func (m *Motion) IsLooped() bool       { return m.looped }
func (m *Motion) IsPlaying() bool      { return m.playing }

// IsFinished reports whether the motion ran to its end or faded out.
func (m *Motion) IsFinished() bool { return m.finished }

// Opacity is the last value of the Model Opacity curve, 1 without one.
func (m *Motion) Opacity() float32 { return m.opacity }

// Weight is the current fade in and fade out weight of the motion.
func (m *Motion) Weight() float32 {
	in, out := m.fadeWeights(m.fadeIn, m.fadeOut)
	return in * out
}

func (m *Motion) SetLooped(looped bool) { m.looped = looped }

func (m *Motion) SetFadeTimes(fadeIn, fadeOut float32) {
	m.fadeIn = math.Max(fadeIn, 0)
	m.fadeOut = math.Max(fadeOut, 0)
}

// SetEffectIDs sets the parameters driven by the EyeBlink and LipSync model curves.
func (m *Motion) SetEffectIDs(eyeBlink, lipSync []string) {
	m.eyeBlinkIDs = eyeBlink
	m.lipSyncIDs = lipSync
}

func (m *Motion) SetEventHandler(fn EventHandler) { m.onEvent = fn }

func (m *Motion) Play() {
	if m.finished {
		m.Stop()
	}
	m.playing = true
}

func (m *Motion) Pause() {
	m.playing = false
}

// Stop halts playback and rewinds to the start.
func (m *Motion) Stop() {
	m.playing = false
	m.finished = false
	m.fadingOut = false
	m.current = 0
	m.elapsed = 0
	m.opacity = 1
}

// FadeOut starts the fade out. The motion finishes when it completes.
func (m *Motion) FadeOut() {
	if m.fadingOut || m.finished {
		return
	}
	if m.fadeOut <= 0 {
		m.finish()
		return
	}
	m.fadingOut = true
	m.fadeOutEnd = m.elapsed + m.fadeOut
}

func (m *Motion) finish() {
	m.playing = false
	m.finished = true
}

/**
 * @brief Advances playback. Looped motions wrap around their duration,
 * others stop at the end. Events between the old and new time are fired.
 */
func (m *Motion) Tick(delta float32) {
	if !m.playing {
		return
	}
	prev := m.current
	m.current += delta
	m.elapsed += delta

	wrapped := false
	if m.duration <= m.current {
		if m.looped && m.duration > 0 {
			m.current -= math.Floor(m.current/m.duration) * m.duration
			wrapped = true
		} else {
			m.current = m.duration
			m.finish()
		}
	}
	if m.fadingOut && m.elapsed >= m.fadeOutEnd {
		m.finish()
	}
	m.fireEvents(prev, wrapped)
}

func (m *Motion) fireEvents(prev float32, wrapped bool) {
	if m.onEvent == nil {
		return
	}
	for _, e := range m.events {
		var hit bool
		if wrapped {
			hit = e.Time > prev || e.Time <= m.current
		} else {
			hit = e.Time > prev && e.Time <= m.current
		}
		if hit {
			m.onEvent(e.Value, e.Time)
		}
	}
}

func fadeWeight(elapsed, fade float32) float32 {
	if fade <= 0 {
		return 1
	}
	return math.EaseSine(elapsed / fade)
}

// fadeWeights returns the fade in and fade out weights for the given fade times.
func (m *Motion) fadeWeights(fadeIn, fadeOut float32) (float32, float32) {
	in := fadeWeight(m.elapsed, fadeIn)
	out := float32(1)
	switch {
	case m.fadingOut:
		out = fadeWeight(m.fadeOutEnd-m.elapsed, fadeOut)
	case !m.looped && fadeOut > 0:
		out = fadeWeight(m.duration-m.current, fadeOut)
	}
	return in, out
}

// Update applies the motion at full weight.
func (m *Motion) Update(model cubism.Model) {
	m.Apply(model, 1)
}

/**
 * @brief Writes the curve values at the current time into the model.
 * Parameter values are blended from their current value with the faded
 * weight. Part opacities are written directly.
 * @param model The model to animate.
 * @param weight The motion weight in [0, 1].
 */
func (m *Motion) Apply(model cubism.Model, weight float32) {
	t := m.current
	in, out := m.fadeWeights(m.fadeIn, m.fadeOut)
	motionWeight := weight * in * out

	var eyeBlink, lipSync *float32
	for i := range m.curves {
		c := &m.curves[i]
		if c.Target != resources.CurveTargetModel {
			continue
		}
		v := c.Evaluate(t)
		switch c.ID {
		case ModelCurveEyeBlink:
			eyeBlink = &v
		case ModelCurveLipSync:
			lipSync = &v
		case ModelCurveOpacity:
			m.opacity = v
		}
	}

	values := model.ParameterValues()
	touched := make(map[int]bool)
	for i := range m.curves {
		c := &m.curves[i]
		switch c.Target {
		case resources.CurveTargetPartOpacity:
			if idx := cubism.PartIndex(model, c.ID); idx >= 0 {
				model.PartOpacities()[idx] = c.Evaluate(t)
			}
		case resources.CurveTargetParameter:
			idx := cubism.ParameterIndex(model, c.ID)
			if idx < 0 {
				continue
			}
			touched[idx] = true
			v := c.Evaluate(t)
			if eyeBlink != nil && contains(m.eyeBlinkIDs, c.ID) {
				v *= *eyeBlink
			}
			if lipSync != nil && contains(m.lipSyncIDs, c.ID) {
				v += *lipSync
			}

			w := motionWeight
			if c.FadeInTime >= 0 || c.FadeOutTime >= 0 {
				fin, fout := m.fadeIn, m.fadeOut
				if c.FadeInTime >= 0 {
					fin = c.FadeInTime
				}
				if c.FadeOutTime >= 0 {
					fout = c.FadeOutTime
				}
				cin, cout := m.fadeWeights(fin, fout)
				w = weight * cin * cout
			}
			src := values[idx]
			cubism.SetParameterAt(model, idx, src+(v-src)*w)
		}
	}

	if eyeBlink != nil {
		m.applyEffect(model, m.eyeBlinkIDs, touched, motionWeight, func(src float32) float32 { return src * *eyeBlink })
	}
	if lipSync != nil {
		m.applyEffect(model, m.lipSyncIDs, touched, motionWeight, func(src float32) float32 { return src + *lipSync })
	}
}

// applyEffect drives effect parameters that have no curve of their own.
func (m *Motion) applyEffect(model cubism.Model, ids []string, touched map[int]bool, w float32, fn func(float32) float32) {
	values := model.ParameterValues()
	for _, id := range ids {
		idx := cubism.ParameterIndex(model, id)
		if idx < 0 || touched[idx] {
			continue
		}
		src := values[idx]
		cubism.SetParameterAt(model, idx, src+(fn(src)-src)*w)
	}
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
