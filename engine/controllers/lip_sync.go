package controllers

import (
	"github.com/spaghettifunk/cubism/engine/cubism"
	"github.com/spaghettifunk/cubism/engine/math"
)

// LipSyncWeight scales the level before it is added to the mouth parameters.
const LipSyncWeight float32 = 0.8

// LipSync opens the mouth by the current level.
type LipSync struct {
	parameterIDs []int
	level        float32
}

func NewLipSync(parameterIDs []int) *LipSync {
	return &LipSync{parameterIDs: parameterIDs}
}

// NewLipSyncFromIDs resolves parameter ids against the model and skips unknown ones.
func NewLipSyncFromIDs(model cubism.Model, ids []string) *LipSync {
	var idx []int
	for _, id := range ids {
		if i := cubism.ParameterIndex(model, id); i >= 0 {
			idx = append(idx, i)
		}
	}
	return NewLipSync(idx)
}

// SetLevel sets the mouth opening, clamped to [0, 1].
func (l *LipSync) SetLevel(level float32) {
	l.level = math.Clamp(level, 0, 1)
}

func (l *LipSync) Level() float32 {
	return l.level
}

func (l *LipSync) ParameterIDs() []int {
	return l.parameterIDs
}

func (l *LipSync) UpdateParameters(model cubism.Model, _ float32) {
	if l.level == 0 {
		return
	}
	for _, idx := range l.parameterIDs {
		cubism.AddParameterAt(model, idx, l.level, LipSyncWeight)
	}
}

func (l *LipSync) Priority() int {
	return PriorityLipSync
}
