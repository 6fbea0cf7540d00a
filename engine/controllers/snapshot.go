package controllers

import "github.com/spaghettifunk/cubism/engine/cubism"

// Snapshot keeps a copy of the parameter values. Saved after the motions
// run, it lets the next frame start from the animated pose instead of the
// effects layered on top of it.
type Snapshot struct {
	values []float32
}

func NewSnapshot() *Snapshot {
	return &Snapshot{}
}

func (s *Snapshot) Save(model cubism.Model) {
	s.values = append(s.values[:0], model.ParameterValues()...)
}

// Load restores the saved values. It does nothing before the first Save.
func (s *Snapshot) Load(model cubism.Model) {
	if len(s.values) == 0 {
		return
	}
	copy(model.ParameterValues(), s.values)
}

func (s *Snapshot) UpdateParameters(model cubism.Model, _ float32) {
	s.Save(model)
}

func (s *Snapshot) Priority() int {
	return PrioritySnapshot
}
