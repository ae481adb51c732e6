package pool

import (
	"context"
	"sync"
	"time"

	tperrors "github.com/markbuckner/tpool/pkg/common/errors"
	"github.com/markbuckner/tpool/pkg/common/validation"
)

// Priority determines dequeue order among pending tasks. Higher priorities
// are always dequeued first; tasks of equal priority run in submission order.
// The zero value is Normal, so an unset priority behaves as "normal".
type Priority int

// Priority levels, from lowest to highest.
const (
	UltraLow  Priority = -2
	Low       Priority = -1
	Normal    Priority = 0
	High      Priority = 1
	UltraHigh Priority = 2
)

// String returns the priority's name.
func (p Priority) String() string {
	switch p {
	case UltraLow:
		return "ultra_low"
	case Low:
		return "low"
	case Normal:
		return "normal"
	case High:
		return "high"
	case UltraHigh:
		return "ultra_high"
	default:
		return "invalid"
	}
}

// valid reports whether p is one of the five defined levels.
func (p Priority) valid() bool {
	return p >= UltraLow && p <= UltraHigh
}

// ParsePriority converts a priority name ("ultra_low", "low", "normal",
// "high", "ultra_high") to its Priority value.
func ParsePriority(s string) (Priority, error) {
	switch s {
	case "ultra_low":
		return UltraLow, nil
	case "low":
		return Low, nil
	case "normal":
		return Normal, nil
	case "high":
		return High, nil
	case "ultra_high":
		return UltraHigh, nil
	default:
		return Normal, tperrors.NewValidationError("pool", "priority", s, "unrecognized level").
			WithHint(`use one of "ultra_low", "low", "normal", "high", "ultra_high"`)
	}
}

// TaskID identifies a submitted task. IDs are unique for the lifetime of a
// pool and are never reused. The zero value is never a valid id.
type TaskID uint64

// Task represents a unit of work that can be executed by a worker.
// Arguments are bound by closing over them, so a Task carries a single
// ready-to-invoke operation.
type Task interface {
	// Execute runs the task with the given context and returns its value.
	Execute(ctx context.Context) (interface{}, error)
}

// TaskFunc is a function type that implements the Task interface.
type TaskFunc func(ctx context.Context) (interface{}, error)

// Execute implements the Task interface for TaskFunc.
func (f TaskFunc) Execute(ctx context.Context) (interface{}, error) {
	return f(ctx)
}

// Pool represents a worker pool that executes tasks concurrently in
// priority order and stores each task's return value for later retrieval.
type Pool interface {
	// Submit adds a task with Normal priority.
	// Returns the task's id, or an error if the pool is stopped.
	Submit(task Task) (TaskID, error)

	// SubmitWithPriority adds a task with the given priority.
	// Returns the task's id, or an error if the pool is stopped.
	SubmitWithPriority(task Task, priority Priority) (TaskID, error)

	// GetReturnValue blocks until the task's outcome is terminal and
	// returns its value. A task failure is reported as a *TaskError
	// wrapping the original error.
	GetReturnValue(id TaskID) (interface{}, error)

	// GetReturnValueWithTimeout is GetReturnValue bounded by a wait
	// deadline. On timeout it returns ErrTimeout; the task keeps running
	// and a later call can still retrieve its outcome.
	GetReturnValueWithTimeout(id TaskID, timeout time.Duration) (interface{}, error)

	// GetReturnValueWithContext is GetReturnValue bounded by a context.
	GetReturnValueWithContext(ctx context.Context, id TaskID) (interface{}, error)

	// IsTaskInProgress reports whether the task has not reached a terminal
	// outcome yet. Returns ErrUnknownTask for ids never registered.
	IsTaskInProgress(id TaskID) (bool, error)

	// Stop initiates shutdown. Idle workers are woken and exit; workers
	// executing a task finish it first. Tasks queued but not yet dequeued
	// are abandoned and their outcomes stay pending forever. If wait is
	// true, Stop blocks until every worker has exited. Stop is idempotent.
	Stop(wait bool)

	// Size returns the number of workers in the pool.
	Size() int

	// QueueSize returns the current number of queued tasks waiting for execution.
	QueueSize() int

	// ActiveWorkers returns the number of workers currently executing tasks.
	ActiveWorkers() int

	// TotalSubmitted returns the total number of tasks submitted to the pool.
	TotalSubmitted() int64

	// TotalCompleted returns the total number of tasks completed by the pool.
	TotalCompleted() int64

	// PendingResults returns the number of submitted tasks whose outcome
	// is not yet terminal.
	PendingResults() int
}

// Config holds configuration options for creating a worker pool.
type Config struct {
	// WorkerCount is the number of workers in the pool.
	// Must be greater than 0. Workers are created once and never resized.
	WorkerCount int

	// PanicHandler is called when a task panics during execution.
	// The panic is always converted to a task failure; the worker survives.
	PanicHandler func(id TaskID, recovered interface{})

	// OnWorkerStart is called when a worker starts.
	OnWorkerStart func(workerID int)

	// OnWorkerStop is called when a worker stops.
	OnWorkerStop func(workerID int)

	// OnTaskStart is called before a task begins execution.
	OnTaskStart func(workerID int, id TaskID)

	// OnTaskComplete is called after a task completes (success or failure).
	OnTaskComplete func(workerID int, id TaskID, err error, duration time.Duration)
}

// pool implements the Pool interface.
type pool struct {
	config Config

	// Core pool state
	queue    *taskQueue
	results  *resultStore
	workers  []worker
	stopOnce sync.Once

	// State tracking, all accessed atomically
	stopped        int32
	activeWorkers  int32
	totalSubmitted int64
	totalCompleted int64
	nextID         uint64

	// Worker management
	workerWg sync.WaitGroup
}

// worker represents a single worker in the pool.
type worker struct {
	id   int
	pool *pool
}

// New creates a new worker pool with the specified number of workers.
// It panics if workerCount is not positive; use NewWithConfig to get an
// error instead.
func New(workerCount int) Pool {
	p, err := NewWithConfig(Config{WorkerCount: workerCount})
	if err != nil {
		panic(err)
	}
	return p
}

// NewWithConfig creates a new worker pool with the specified configuration.
func NewWithConfig(config Config) (Pool, error) {
	if err := validation.ValidatePositive("pool", "workerCount", config.WorkerCount); err != nil {
		return nil, err
	}

	p := &pool{
		config:  config,
		queue:   newTaskQueue(),
		results: newResultStore(),
	}

	// Create and start workers
	p.workers = make([]worker, config.WorkerCount)
	for i := 0; i < config.WorkerCount; i++ {
		p.workers[i] = worker{id: i, pool: p}
		p.workerWg.Add(1)
		go p.workers[i].run()
	}

	return p, nil
}
