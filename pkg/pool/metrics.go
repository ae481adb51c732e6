package pool

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/markbuckner/tpool/pkg/metrics"
)

// MetricsPool wraps a worker Pool with Prometheus metrics collection.
type MetricsPool struct {
	pool     Pool
	name     string
	registry *metrics.Registry
	enabled  bool
}

// NewWithMetrics creates a new worker pool with metrics enabled.
// It panics on invalid configuration, like New.
func NewWithMetrics(workerCount int, name string) Pool {
	// Use a separate registry per metrics-enabled pool to avoid collisions
	registry := prometheus.NewRegistry()
	config := metrics.Config{
		Enabled:  true,
		Registry: registry,
	}

	p, err := NewWithConfigAndMetrics(Config{WorkerCount: workerCount}, name, config)
	if err != nil {
		panic(err)
	}
	return p
}

// NewWithConfigAndMetrics creates a new worker pool with custom config and metrics.
func NewWithConfigAndMetrics(config Config, name string, metricsConfig metrics.Config) (Pool, error) {
	basePool, err := NewWithConfig(config)
	if err != nil {
		return nil, err
	}

	if !metricsConfig.Enabled {
		return basePool, nil
	}

	registry := metrics.DefaultRegistry
	if metricsConfig.Registry != nil {
		registry = metrics.NewRegistry(metricsConfig.Registry)
	}

	mp := &MetricsPool{
		pool:     basePool,
		name:     name,
		registry: registry,
		enabled:  true,
	}

	mp.updateMetrics()

	return mp, nil
}

// updateMetrics updates the current state gauges.
func (mp *MetricsPool) updateMetrics() {
	if !mp.enabled {
		return
	}

	mp.registry.WorkerPoolSize.WithLabelValues(mp.name).Set(float64(mp.pool.Size()))
	mp.registry.WorkerPoolActive.WithLabelValues(mp.name).Set(float64(mp.pool.ActiveWorkers()))
	mp.registry.WorkerPoolQueued.WithLabelValues(mp.name).Set(float64(mp.pool.QueueSize()))
	mp.registry.ResultsPending.WithLabelValues(mp.name).Set(float64(mp.pool.PendingResults()))
}

// Submit adds a task to the pool with Normal priority.
func (mp *MetricsPool) Submit(task Task) (TaskID, error) {
	return mp.SubmitWithPriority(task, Normal)
}

// SubmitWithPriority adds a task to the pool with the given priority.
func (mp *MetricsPool) SubmitWithPriority(task Task, priority Priority) (TaskID, error) {
	wrapped := task
	if mp.enabled && task != nil {
		// Wrap the task to collect execution metrics
		wrapped = &metricsTask{
			original:   task,
			pool:       mp,
			submitTime: time.Now(),
		}
	}

	id, err := mp.pool.SubmitWithPriority(wrapped, priority)

	if mp.enabled {
		if err == nil {
			mp.registry.TasksSubmitted.WithLabelValues(mp.name, priority.String()).Inc()
		}
		mp.updateMetrics()
	}

	return id, err
}

// metricsTask wraps a Task to collect execution metrics.
type metricsTask struct {
	original   Task
	pool       *MetricsPool
	submitTime time.Time
}

// Execute runs the original task and records metrics.
func (mt *metricsTask) Execute(ctx context.Context) (interface{}, error) {
	start := time.Now()
	queueTime := start.Sub(mt.submitTime)

	if mt.pool.enabled {
		mt.pool.registry.TaskQueueWait.WithLabelValues(mt.pool.name).Observe(queueTime.Seconds())
	}

	value, err := mt.original.Execute(ctx)

	if mt.pool.enabled {
		executionTime := time.Since(start)

		mt.pool.registry.TaskExecutionDuration.WithLabelValues(mt.pool.name).Observe(executionTime.Seconds())

		if err != nil {
			mt.pool.registry.TasksFailed.WithLabelValues(mt.pool.name).Inc()
		} else {
			mt.pool.registry.TasksCompleted.WithLabelValues(mt.pool.name).Inc()
		}

		mt.pool.updateMetrics()
	}

	return value, err
}

// GetReturnValue blocks until the task's outcome is terminal.
func (mp *MetricsPool) GetReturnValue(id TaskID) (interface{}, error) {
	return mp.pool.GetReturnValue(id)
}

// GetReturnValueWithTimeout blocks up to timeout for the task's outcome.
func (mp *MetricsPool) GetReturnValueWithTimeout(id TaskID, timeout time.Duration) (interface{}, error) {
	return mp.pool.GetReturnValueWithTimeout(id, timeout)
}

// GetReturnValueWithContext blocks until the task's outcome is terminal or ctx ends.
func (mp *MetricsPool) GetReturnValueWithContext(ctx context.Context, id TaskID) (interface{}, error) {
	return mp.pool.GetReturnValueWithContext(ctx, id)
}

// IsTaskInProgress reports whether the task has not returned yet.
func (mp *MetricsPool) IsTaskInProgress(id TaskID) (bool, error) {
	return mp.pool.IsTaskInProgress(id)
}

// Stop initiates shutdown of the underlying pool.
func (mp *MetricsPool) Stop(wait bool) {
	mp.pool.Stop(wait)
	if mp.enabled {
		mp.updateMetrics()
	}
}

// Size returns the number of workers.
func (mp *MetricsPool) Size() int {
	return mp.pool.Size()
}

// QueueSize returns the current number of queued tasks.
func (mp *MetricsPool) QueueSize() int {
	queueSize := mp.pool.QueueSize()

	if mp.enabled {
		mp.registry.WorkerPoolQueued.WithLabelValues(mp.name).Set(float64(queueSize))
	}

	return queueSize
}

// ActiveWorkers returns the number of workers currently executing tasks.
func (mp *MetricsPool) ActiveWorkers() int {
	activeWorkers := mp.pool.ActiveWorkers()

	if mp.enabled {
		mp.registry.WorkerPoolActive.WithLabelValues(mp.name).Set(float64(activeWorkers))
	}

	return activeWorkers
}

// TotalSubmitted returns the total number of tasks submitted.
func (mp *MetricsPool) TotalSubmitted() int64 {
	return mp.pool.TotalSubmitted()
}

// TotalCompleted returns the total number of tasks completed.
func (mp *MetricsPool) TotalCompleted() int64 {
	return mp.pool.TotalCompleted()
}

// PendingResults returns the number of non-terminal outcomes.
func (mp *MetricsPool) PendingResults() int {
	pending := mp.pool.PendingResults()

	if mp.enabled {
		mp.registry.ResultsPending.WithLabelValues(mp.name).Set(float64(pending))
	}

	return pending
}

// EnableMetrics enables metrics collection.
func (mp *MetricsPool) EnableMetrics(config metrics.Config) error {
	mp.enabled = config.Enabled

	if config.Registry != nil {
		mp.registry = metrics.NewRegistry(config.Registry)
	}

	if mp.enabled {
		mp.updateMetrics()
	}

	return nil
}

// DisableMetrics disables metrics collection.
func (mp *MetricsPool) DisableMetrics() {
	mp.enabled = false
}

// MetricsEnabled returns true if metrics are currently enabled.
func (mp *MetricsPool) MetricsEnabled() bool {
	return mp.enabled
}
