/*
Package pool provides a fixed-size worker pool that executes tasks in
priority order and stores each task's return value for later retrieval by
task id.

A pool owns N long-lived worker goroutines that block on a shared priority
queue. Submitting a task is non-blocking and returns an opaque id; the
task's return value (or failure) is retrieved separately, with an optional
wait timeout. This suits programs that want to offload blocking or
CPU-light work onto a fixed set of workers instead of spawning a goroutine
per call.

Basic usage:

	p := pool.New(4) // 4 workers
	defer p.Stop(true)

	id, err := p.Submit(pool.TaskFunc(func(ctx context.Context) (interface{}, error) {
		return fetchReport(), nil
	}))
	if err != nil {
		log.Printf("Failed to submit: %v", err)
	}

	value, err := p.GetReturnValue(id)

Priorities:

Five levels order the queue: UltraLow < Low < Normal < High < UltraHigh.
The pending task with the highest priority is always dequeued first; tasks
of equal priority run in submission order. The zero value of Priority is
Normal, so Submit without an explicit priority behaves as "normal".

	id, _ := p.SubmitWithPriority(task, pool.UltraHigh) // jumps the queue

Dequeue order is deterministic (priority, then submission order); start
order across several idle workers is not, since whichever worker wakes
first takes the head of the queue.

Result retrieval:

Each submitted task has a result slot that transitions exactly once from
pending to either a value or a failure. Retrieval never consumes the slot,
so repeated calls observe the same outcome:

	// Block indefinitely
	v, err := p.GetReturnValue(id)

	// Bound only the caller's wait; the task keeps running on timeout
	v, err := p.GetReturnValueWithTimeout(id, 100*time.Millisecond)
	if errors.Is(err, tperrors.ErrTimeout) {
		// try again later; the eventual outcome is still stored
	}

	// Non-blocking completion probe
	running, err := p.IsTaskInProgress(id)

Error Handling:

A task returning an error (or panicking) never kills its worker. The
failure surfaces only when that task's result is retrieved, as a
*TaskError from pkg/common/errors wrapping the original error:

	if _, err := p.GetReturnValue(id); err != nil {
		var te *tperrors.TaskError
		if errors.As(err, &te) {
			log.Printf("task failed: %v", te.Err)
		}
	}

Retrieving an id that was never issued reports ErrUnknownTask. Submitting
after Stop reports ErrPoolStopped.

Shutdown:

	p.Stop(true) // wake idle workers, wait for all of them to exit

Stop never interrupts a task that a worker has already started. Tasks that
were queued but not yet dequeued when Stop was called are abandoned: they
never run and their outcomes stay pending forever. This is a documented
trade-off, not a bug; drain the queue first if those tasks matter.

Monitoring:

State accessors (Size, QueueSize, ActiveWorkers, TotalSubmitted,
TotalCompleted, PendingResults) are safe for concurrent use. For
Prometheus instrumentation wrap the pool via NewWithMetrics or
NewWithConfigAndMetrics; see pkg/metrics for the exported series.

Thread Safety:

All pool operations are safe for concurrent use from multiple goroutines.
Tasks are immutable once submitted; only the worker that dequeued a task
touches it.
*/
package pool
