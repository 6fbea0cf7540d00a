package animation

import (
	"github.com/google/uuid"

	"github.com/spaghettifunk/cubism/engine/cubism"
)

type MotionQueueEntry struct {
	ID       uuid.UUID
	Motion   *Motion
	Priority int
}

// MotionQueue plays motions with cross fades. Starting a motion fades out
// the ones already running; entries are dropped once finished.
type MotionQueue struct {
	entries []*MotionQueueEntry
	onEvent EventHandler
}

func NewMotionQueue() *MotionQueue {
	return &MotionQueue{}
}

// SetEventHandler sets the handler for user data events of every motion started afterwards.
func (q *MotionQueue) SetEventHandler(fn EventHandler) {
	q.onEvent = fn
}

/**
 * @brief Starts a motion from the beginning and fades out the running ones.
 * @param m The motion to start.
 * @param priority The priority the motion was started with.
 * @returns The handle of the new queue entry.
 */
func (q *MotionQueue) Start(m *Motion, priority int) uuid.UUID {
	for _, e := range q.entries {
		e.Motion.FadeOut()
	}
	m.Stop()
	if q.onEvent != nil {
		m.SetEventHandler(q.onEvent)
	}
	m.Play()

	entry := &MotionQueueEntry{ID: uuid.New(), Motion: m, Priority: priority}
	q.entries = append(q.entries, entry)
	return entry.ID
}

/**
 * @brief Advances and applies every entry in start order, then drops the
 * finished ones.
 * @returns true if any motion was applied.
 */
func (q *MotionQueue) Update(model cubism.Model, delta float32) bool {
	updated := false
	for _, e := range q.entries {
		e.Motion.Tick(delta)
		e.Motion.Update(model)
		updated = true
	}
	live := q.entries[:0]
	for _, e := range q.entries {
		if !e.Motion.IsFinished() {
			live = append(live, e)
		}
	}
	for i := len(live); i < len(q.entries); i++ {
		q.entries[i] = nil
	}
	q.entries = live
	return updated
}

// IsFinished reports whether no motion is left in the queue.
func (q *MotionQueue) IsFinished() bool {
	return len(q.entries) == 0
}

// IsFinishedID reports whether the entry with the given handle is gone.
func (q *MotionQueue) IsFinishedID(id uuid.UUID) bool {
	return q.Entry(id) == nil
}

func (q *MotionQueue) Entry(id uuid.UUID) *MotionQueueEntry {
	for _, e := range q.entries {
		if e.ID == id {
			return e
		}
	}
	return nil
}

// Current returns the most recently started entry, or nil.
func (q *MotionQueue) Current() *MotionQueueEntry {
	if len(q.entries) == 0 {
		return nil
	}
	return q.entries[len(q.entries)-1]
}

func (q *MotionQueue) Len() int {
	return len(q.entries)
}

// SetPaused pauses or resumes every entry.
func (q *MotionQueue) SetPaused(paused bool) {
	for _, e := range q.entries {
		if paused {
			e.Motion.Pause()
		} else {
			e.Motion.Play()
		}
	}
}

// StopAll stops and removes every entry.
func (q *MotionQueue) StopAll() {
	for _, e := range q.entries {
		e.Motion.Stop()
	}
	q.entries = nil
}
