package controllers

import (
	"sort"

	"github.com/spaghettifunk/cubism/engine/containers"
	"github.com/spaghettifunk/cubism/engine/cubism"
)

// Priorities of the standard controllers. Smaller values run first.
const (
	PriorityMotion     = 50
	PrioritySnapshot   = 75
	PriorityEyeBlink   = 100
	PriorityExpression = 200
	PriorityLookAt     = 300
	PriorityBreath     = 400
	PriorityPhysics    = 500
	PriorityLipSync    = 600
	PriorityPose       = 700
)

// Names the user model registers the standard controllers under.
const (
	NameMotion     = "motion"
	NameSnapshot   = "snapshot"
	NameEyeBlink   = "eye_blink"
	NameExpression = "expression"
	NameLookAt     = "look_at"
	NameBreath     = "breath"
	NamePhysics    = "physics"
	NameLipSync    = "lip_sync"
	NamePose       = "pose"
)

// Controller modifies the parameter and part values of a model once a frame.
type Controller interface {
	UpdateParameters(model cubism.Model, delta float32)
	// Priority orders controllers; the smallest value runs first.
	Priority() int
}

type controllerEntry struct {
	name       string
	controller Controller
	enabled    bool
	seq        uint64
}

// ControllerMap maps names to controllers and tracks their enabled state.
type ControllerMap struct {
	controllers *containers.Slab[controllerEntry]
	names       map[string]int
	seq         uint64
}

func NewControllerMap() *ControllerMap {
	return &ControllerMap{
		controllers: containers.NewSlab[controllerEntry](),
		names:       make(map[string]int),
	}
}

/**
 * @brief Inserts an enabled controller under name.
 * @returns The controller previously registered under the same name, or nil.
 */
func (cm *ControllerMap) Insert(name string, c Controller) Controller {
	cm.seq++
	idx := cm.controllers.Push(controllerEntry{name: name, controller: c, enabled: true, seq: cm.seq})
	old, ok := cm.names[name]
	cm.names[name] = idx
	if !ok {
		return nil
	}
	prev, _ := cm.controllers.Take(old)
	return prev.controller
}

// Remove unregisters and returns the controller under name.
func (cm *ControllerMap) Remove(name string) Controller {
	idx, ok := cm.names[name]
	if !ok {
		return nil
	}
	delete(cm.names, name)
	prev, _ := cm.controllers.Take(idx)
	return prev.controller
}

func (cm *ControllerMap) Get(name string) Controller {
	idx, ok := cm.names[name]
	if !ok {
		return nil
	}
	e, _ := cm.controllers.Get(idx)
	return e.controller
}

func (cm *ControllerMap) SetEnabled(name string, enabled bool) {
	idx, ok := cm.names[name]
	if !ok {
		return
	}
	e, _ := cm.controllers.Get(idx)
	e.enabled = enabled
	cm.controllers.Set(idx, e)
}

func (cm *ControllerMap) IsEnabled(name string) bool {
	idx, ok := cm.names[name]
	if !ok {
		return false
	}
	e, _ := cm.controllers.Get(idx)
	return e.enabled
}

// Names returns the registered names sorted alphabetically.
func (cm *ControllerMap) Names() []string {
	out := make([]string, 0, len(cm.names))
	for name := range cm.names {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func (cm *ControllerMap) Len() int {
	return cm.controllers.Len()
}

// Enabled returns the enabled controllers sorted by priority. Controllers
// with the same priority keep their insertion order.
func (cm *ControllerMap) Enabled() []Controller {
	var entries []controllerEntry
	cm.controllers.Each(func(_ int, e controllerEntry) bool {
		if e.enabled {
			entries = append(entries, e)
		}
		return true
	})
	sort.SliceStable(entries, func(i, j int) bool {
		pi, pj := entries[i].controller.Priority(), entries[j].controller.Priority()
		if pi != pj {
			return pi < pj
		}
		return entries[i].seq < entries[j].seq
	})
	out := make([]Controller, len(entries))
	for i, e := range entries {
		out[i] = e.controller
	}
	return out
}

// UpdateEnabled runs every enabled controller in priority order.
func (cm *ControllerMap) UpdateEnabled(model cubism.Model, delta float32) {
	for _, c := range cm.Enabled() {
		c.UpdateParameters(model, delta)
	}
}
