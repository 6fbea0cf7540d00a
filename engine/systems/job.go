package systems

import (
	"errors"
	"sync"
	"sync/atomic"

	"github.com/spaghettifunk/cubism/engine/containers"
	"github.com/spaghettifunk/cubism/engine/core"
)

var (
	ErrNoWorkers           = errors.New("attempting to create worker pool with less than 1 worker")
	ErrNegativeChannelSize = errors.New("attempting to create worker pool with a negative channel size")
	ErrJobSystemClosed     = errors.New("job system is shut down")
)

// The max number of job results that can be stored before they spill over.
const MaxJobResults int = 512

/** @brief Runs on a worker goroutine. Must not touch GPU state. */
type JobStart func(params interface{}) (interface{}, error)

/** @brief Runs on the goroutine calling Update. */
type JobOnComplete func(result interface{})

type JobOnFailure func(err error)

/**
 * @brief Describes a job to be run.
 */
type JobTask struct {
	/** @brief Shown in logs when the job fails. */
	Name string
	/** @brief Data passed to OnStart. */
	InputParams interface{}
	/** @brief Required. */
	OnStart JobStart
	/** @brief Optional, invoked with the result of OnStart. */
	OnComplete JobOnComplete
	/** @brief Optional, invoked with the error of OnStart. */
	OnFailure JobOnFailure
}

type jobResult struct {
	task   JobTask
	result interface{}
	err    error
}

type JobSystem struct {
	numWorkers int
	jobQueue   chan JobTask
	wg         sync.WaitGroup

	// guards jobQueue against a send after close
	queueMu sync.RWMutex
	closed  bool

	resultsMu sync.Mutex
	results   *containers.RingQueue[jobResult]
	overflow  []jobResult

	pending atomic.Int64
}

func NewJobSystem(numWorkers int, channelSize int) (*JobSystem, error) {
	if numWorkers <= 0 {
		return nil, ErrNoWorkers
	}
	if channelSize < 0 {
		return nil, ErrNegativeChannelSize
	}

	js := &JobSystem{
		numWorkers: numWorkers,
		jobQueue:   make(chan JobTask, channelSize),
		results:    containers.NewRingQueue[jobResult](MaxJobResults),
	}

	js.start()

	return js, nil
}

func (js *JobSystem) start() {
	for i := 0; i < js.numWorkers; i++ {
		js.wg.Add(1)
		go func() {
			defer js.wg.Done()
			for job := range js.jobQueue {
				// Run the job and hand the outcome to the main thread
				res, err := job.OnStart(job.InputParams)
				js.push(jobResult{task: job, result: res, err: err})
			}
		}()
	}
}

func (js *JobSystem) push(r jobResult) {
	js.resultsMu.Lock()
	defer js.resultsMu.Unlock()
	if len(js.overflow) == 0 {
		if err := js.results.Enqueue(r); err == nil {
			return
		}
		core.LogWarn("job results are full, spilling over")
	}
	js.overflow = append(js.overflow, r)
}

/**
 * @brief Shuts the job system down. Queued jobs still run, results that were
 * not collected with Update are dropped.
 */
func (js *JobSystem) Shutdown() error {
	js.queueMu.Lock()
	if js.closed {
		js.queueMu.Unlock()
		return nil
	}
	js.closed = true
	close(js.jobQueue)
	js.queueMu.Unlock()

	js.wg.Wait()
	return nil
}

/**
 * @brief Updates the job system. Should happen once an update cycle, on the
 * thread that owns the renderer.
 * @returns The number of callbacks that ran.
 */
func (js *JobSystem) Update() int {
	js.resultsMu.Lock()
	var ready []jobResult
	for !js.results.IsEmpty() {
		r, _ := js.results.Dequeue()
		ready = append(ready, r)
	}
	// the overflow is newer than anything left in the ring
	ready = append(ready, js.overflow...)
	js.overflow = nil
	js.resultsMu.Unlock()

	for _, r := range ready {
		js.pending.Add(-1)
		if r.err != nil {
			core.LogError("job %s failed: %s", r.task.Name, r.err)
			if r.task.OnFailure != nil {
				r.task.OnFailure(r.err)
			}
			continue
		}
		if r.task.OnComplete != nil {
			r.task.OnComplete(r.result)
		}
	}
	return len(ready)
}

// Pending is the number of submitted jobs whose callbacks have not run yet.
func (js *JobSystem) Pending() int {
	return int(js.pending.Load())
}

/**
 * @brief Submits the provided job to be queued for execution. Blocks while
 * the queue is full.
 * @param jt The description of the job to be executed.
 */
func (js *JobSystem) Submit(jt JobTask) error {
	if jt.OnStart == nil {
		return errors.New("job has no start function")
	}
	js.queueMu.RLock()
	defer js.queueMu.RUnlock()
	if js.closed {
		return ErrJobSystemClosed
	}
	js.pending.Add(1)
	js.jobQueue <- jt
	return nil
}
