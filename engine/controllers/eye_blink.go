package controllers

import (
	"github.com/spaghettifunk/cubism/engine/cubism"
	"github.com/spaghettifunk/cubism/engine/math"
)

type EyeState int

const (
	EyeStateOpen EyeState = iota
	EyeStateClosing
	EyeStateClosed
	EyeStateOpening
)

func (s EyeState) String() string {
	switch s {
	case EyeStateClosing:
		return "closing"
	case EyeStateClosed:
		return "closed"
	case EyeStateOpening:
		return "opening"
	default:
		return "open"
	}
}

const (
	DefaultBlinkInterval float32 = 5.0
	DefaultClosedTime    float32 = 0.05
	DefaultOpeningTime   float32 = 0.15
	DefaultClosingTime   float32 = 0.1
)

// EyeBlink emulates eye blinking on a set of parameters.
type EyeBlink struct {
	parameterIDs []int
	state        EyeState
	nextCycle    float32
	interval     float32
	closedTime   float32
	openingTime  float32
	closingTime  float32
	// random extra open time in [0, jitter)
	jitter float32
	// blinking pauses while suppress reports true
	suppress func() bool
}

func NewEyeBlink(parameterIDs []int) *EyeBlink {
	return &EyeBlink{
		parameterIDs: parameterIDs,
		state:        EyeStateOpen,
		nextCycle:    DefaultBlinkInterval,
		interval:     DefaultBlinkInterval,
		closedTime:   DefaultClosedTime,
		openingTime:  DefaultOpeningTime,
		closingTime:  DefaultClosingTime,
	}
}

// NewEyeBlinkFromIDs resolves parameter ids against the model and skips unknown ones.
func NewEyeBlinkFromIDs(model cubism.Model, ids []string) *EyeBlink {
	var idx []int
	for _, id := range ids {
		if i := cubism.ParameterIndex(model, id); i >= 0 {
			idx = append(idx, i)
		}
	}
	return NewEyeBlink(idx)
}

func (e *EyeBlink) SetParameterIDs(ids []int) {
	e.parameterIDs = ids
}

func (e *EyeBlink) ParameterIDs() []int {
	return e.parameterIDs
}

func (e *EyeBlink) State() EyeState {
	return e.state
}

/**
 * @brief Sets the blink timings. The interval is raised to at least the
 * length of one blink and the current cycle restarts.
 */
func (e *EyeBlink) SetTimings(interval, closed, opening, closing float32) {
	e.interval = math.Max(interval, closed+opening+closing)
	e.nextCycle = e.interval
	e.closedTime = closed
	e.openingTime = opening
	e.closingTime = closing
}

// SetRandomJitter adds a random delay in [0, jitter) to every open interval.
func (e *EyeBlink) SetRandomJitter(jitter float32) {
	e.jitter = math.Max(jitter, 0)
}

func (e *EyeBlink) openInterval() float32 {
	if e.jitter <= 0 {
		return e.interval
	}
	return e.interval + math.RandomInRange(0, e.jitter)
}

// SetSuppress pauses blinking in the updates where fn reports true, leaving
// the eye parameters to whatever ran before.
func (e *EyeBlink) SetSuppress(fn func() bool) {
	e.suppress = fn
}

func (e *EyeBlink) UpdateParameters(model cubism.Model, delta float32) {
	if e.suppress != nil && e.suppress() {
		return
	}
	e.nextCycle -= delta
	var v float32
	switch e.state {
	case EyeStateOpen:
		if e.nextCycle <= 0 {
			e.state = EyeStateClosing
			e.nextCycle += e.closingTime
		}
		v = 1
	case EyeStateClosed:
		if e.nextCycle <= 0 {
			e.state = EyeStateOpening
			e.nextCycle += e.openingTime
		}
		v = 0
	case EyeStateOpening:
		if e.nextCycle <= 0 {
			e.state = EyeStateOpen
			e.nextCycle += e.openInterval()
			v = 1
		} else {
			v = (e.openingTime - e.nextCycle) / e.openingTime
		}
	case EyeStateClosing:
		if e.nextCycle <= 0 {
			e.state = EyeStateClosed
			e.nextCycle += e.closedTime
			v = 0
		} else {
			v = e.nextCycle / e.closingTime
		}
	}
	values := model.ParameterValues()
	for _, idx := range e.parameterIDs {
		values[idx] = v
	}
}

func (e *EyeBlink) Priority() int {
	return PriorityEyeBlink
}
