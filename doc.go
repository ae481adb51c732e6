/*
Package tpool provides a fixed-size worker pool that executes tasks in
priority order and lets callers retrieve each task's return value later,
by task id, with an optional wait timeout.

Worker Pool (pkg/pool):
  - five priority levels, strict highest-first dequeue, FIFO within a level
  - per-task result retrieval with blocking, timeout and context variants
  - graceful shutdown that wakes idle workers without interrupting running tasks
  - optional Prometheus instrumentation

Scheduling (pkg/scheduler):
  - one-shot, delayed, repeating and cron-expression submission into a pool

Example usage:

	import (
		"github.com/markbuckner/tpool/pkg/pool"
	)

	p := pool.New(4) // 4 workers
	defer p.Stop(true)

	id, _ := p.SubmitWithPriority(pool.TaskFunc(func(ctx context.Context) (interface{}, error) {
		return compute(), nil
	}), pool.High)

	v, err := p.GetReturnValueWithTimeout(id, time.Second)
*/
package tpool
