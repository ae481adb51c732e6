package pool

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync/atomic"
	"time"

	tperrors "github.com/markbuckner/tpool/pkg/common/errors"
	"github.com/markbuckner/tpool/pkg/common/validation"
)

// Submit adds a task to the pool with Normal priority.
func (p *pool) Submit(task Task) (TaskID, error) {
	return p.SubmitWithPriority(task, Normal)
}

// SubmitWithPriority adds a task to the pool with the given priority.
// The returned id is immediately valid for GetReturnValue even though the
// task may not have started yet.
func (p *pool) SubmitWithPriority(task Task, priority Priority) (TaskID, error) {
	if err := validation.ValidateNotNil("pool", "task", task); err != nil {
		return 0, err
	}
	if !priority.valid() {
		return 0, tperrors.NewValidationError("pool", "priority", int(priority), "out of range").
			WithHint("use one of the five Priority constants")
	}

	if atomic.LoadInt32(&p.stopped) == 1 {
		return 0, fmt.Errorf("cannot submit task: %w", tperrors.ErrPoolStopped)
	}

	id := TaskID(atomic.AddUint64(&p.nextID, 1))

	// Register before push so no retrieval for this id can miss the entry.
	p.results.register(id)

	if !p.queue.Push(&queuedTask{id: id, task: task, priority: priority}) {
		// Stop won the race; the task was never enqueued.
		p.results.remove(id)
		return 0, fmt.Errorf("cannot submit task: %w", tperrors.ErrPoolStopped)
	}

	atomic.AddInt64(&p.totalSubmitted, 1)
	return id, nil
}

// GetReturnValue blocks until the task's outcome is terminal and returns
// its value. Task failures come back as a *TaskError wrapping the original
// error.
func (p *pool) GetReturnValue(id TaskID) (interface{}, error) {
	return p.results.await(context.Background(), id)
}

// GetReturnValueWithTimeout blocks up to timeout for the task's outcome.
// On timeout it returns ErrTimeout; the task is unaffected and its eventual
// outcome remains retrievable.
func (p *pool) GetReturnValueWithTimeout(id TaskID, timeout time.Duration) (interface{}, error) {
	if err := validation.ValidateNonNegativeDuration("pool", "timeout", timeout); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return p.results.await(ctx, id)
}

// GetReturnValueWithContext blocks until the task's outcome is terminal or
// ctx ends.
func (p *pool) GetReturnValueWithContext(ctx context.Context, id TaskID) (interface{}, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	return p.results.await(ctx, id)
}

// IsTaskInProgress reports whether the task has not returned yet.
func (p *pool) IsTaskInProgress(id TaskID) (bool, error) {
	return p.results.inProgress(id)
}

// Stop transitions the pool to stopping and wakes every idle worker. A
// worker in the middle of a task finishes it before exiting; tasks queued
// but not yet dequeued are abandoned and stay pending forever. With
// wait=true, Stop returns only after every worker has exited.
func (p *pool) Stop(wait bool) {
	p.stopOnce.Do(func() {
		atomic.StoreInt32(&p.stopped, 1)
		p.queue.Close()
	})

	if wait {
		p.workerWg.Wait()
	}
}

// Size returns the number of workers in the pool.
func (p *pool) Size() int {
	return p.config.WorkerCount
}

// QueueSize returns the current number of queued tasks waiting for execution.
func (p *pool) QueueSize() int {
	return p.queue.Len()
}

// ActiveWorkers returns the number of workers currently executing tasks.
func (p *pool) ActiveWorkers() int {
	return int(atomic.LoadInt32(&p.activeWorkers))
}

// TotalSubmitted returns the total number of tasks submitted to the pool.
func (p *pool) TotalSubmitted() int64 {
	return atomic.LoadInt64(&p.totalSubmitted)
}

// TotalCompleted returns the total number of tasks completed by the pool.
func (p *pool) TotalCompleted() int64 {
	return atomic.LoadInt64(&p.totalCompleted)
}

// PendingResults returns the number of submitted tasks whose outcome is not
// yet terminal. This includes queued, running and abandoned tasks.
func (p *pool) PendingResults() int {
	return p.results.pending()
}

// run is the main loop for a worker: block for the next task, execute it,
// repeat. The loop ends only when Pop reports the shutdown wake.
func (w *worker) run() {
	defer w.pool.workerWg.Done()

	if w.pool.config.OnWorkerStart != nil {
		w.pool.config.OnWorkerStart(w.id)
	}
	defer func() {
		if w.pool.config.OnWorkerStop != nil {
			w.pool.config.OnWorkerStop(w.id)
		}
	}()

	for {
		t, ok := w.pool.queue.Pop()
		if !ok {
			return
		}
		w.executeTask(t)
	}
}

// executeTask runs a single task and commits its outcome. A panicking task
// becomes a failure; the worker itself always survives.
func (w *worker) executeTask(t *queuedTask) {
	atomic.AddInt32(&w.pool.activeWorkers, 1)
	defer atomic.AddInt32(&w.pool.activeWorkers, -1)

	if w.pool.config.OnTaskStart != nil {
		w.pool.config.OnTaskStart(w.id, t.id)
	}

	start := time.Now()
	var value interface{}
	var err error

	func() {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("task panicked: %v\nStack trace:\n%s", r, debug.Stack())
				if w.pool.config.PanicHandler != nil {
					w.pool.config.PanicHandler(t.id, r)
				}
			}
		}()
		value, err = t.task.Execute(context.Background())
	}()

	// Count before completing so awaiters woken by complete observe the
	// updated total.
	atomic.AddInt64(&w.pool.totalCompleted, 1)
	w.pool.results.complete(t.id, value, err)

	if w.pool.config.OnTaskComplete != nil {
		w.pool.config.OnTaskComplete(w.id, t.id, err, time.Since(start))
	}
}
