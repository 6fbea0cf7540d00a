package controllers

import (
	"github.com/google/uuid"

	"github.com/spaghettifunk/cubism/engine/animation"
	"github.com/spaghettifunk/cubism/engine/cubism"
)

// Motion priorities. A motion only replaces the running one when started
// with a higher priority, Force always wins.
const (
	MotionPriorityNone = iota
	MotionPriorityIdle
	MotionPriorityNormal
	MotionPriorityForce
)

// MotionController drives a motion queue with priority reservation.
type MotionController struct {
	queue           *animation.MotionQueue
	currentPriority int
	reservePriority int
	updated         bool
}

func NewMotionController() *MotionController {
	return &MotionController{queue: animation.NewMotionQueue()}
}

func (mc *MotionController) Queue() *animation.MotionQueue {
	return mc.queue
}

func (mc *MotionController) CurrentPriority() int {
	return mc.currentPriority
}

func (mc *MotionController) ReservePriority() int {
	return mc.reservePriority
}

func (mc *MotionController) SetReservePriority(priority int) {
	mc.reservePriority = priority
}

/**
 * @brief Reserves playback for a motion about to be loaded.
 * @returns false if a motion with the same or a higher priority is running
 * or reserved.
 */
func (mc *MotionController) Reserve(priority int) bool {
	if priority <= mc.reservePriority || priority <= mc.currentPriority {
		return false
	}
	mc.reservePriority = priority
	return true
}

/**
 * @brief Starts m with the given priority.
 * @returns The queue handle and true, or uuid.Nil and false when the
 * priority is too low.
 */
func (mc *MotionController) Start(m *animation.Motion, priority int) (uuid.UUID, bool) {
	if priority == MotionPriorityForce {
		mc.reservePriority = priority
	} else if priority != mc.reservePriority && !mc.Reserve(priority) {
		return uuid.Nil, false
	}
	if priority == mc.reservePriority {
		mc.reservePriority = MotionPriorityNone
	}
	mc.currentPriority = priority
	return mc.queue.Start(m, priority), true
}

// IsFinished reports whether the queue ran empty.
func (mc *MotionController) IsFinished() bool {
	return mc.queue.IsFinished()
}

// Updated reports whether any motion was applied in the last update.
func (mc *MotionController) Updated() bool {
	return mc.updated
}

func (mc *MotionController) StopAll() {
	mc.queue.StopAll()
	mc.currentPriority = MotionPriorityNone
}

func (mc *MotionController) SetPaused(paused bool) {
	mc.queue.SetPaused(paused)
}

func (mc *MotionController) UpdateParameters(model cubism.Model, delta float32) {
	mc.updated = mc.queue.Update(model, delta)
	if mc.queue.IsFinished() {
		mc.currentPriority = MotionPriorityNone
	}
}

func (mc *MotionController) Priority() int {
	return PriorityMotion
}
