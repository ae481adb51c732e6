package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry holds all metric instances for tpool components.
type Registry struct {
	// Task Metrics
	TasksSubmitted        *prometheus.CounterVec
	TasksCompleted        *prometheus.CounterVec
	TasksFailed           *prometheus.CounterVec
	TaskExecutionDuration *prometheus.HistogramVec
	TaskQueueWait         *prometheus.HistogramVec

	// Worker Pool Metrics
	WorkerPoolSize   *prometheus.GaugeVec
	WorkerPoolActive *prometheus.GaugeVec
	WorkerPoolQueued *prometheus.GaugeVec
	ResultsPending   *prometheus.GaugeVec

	// Scheduler Metrics
	TasksScheduled *prometheus.CounterVec
}

// DefaultRegistry is the default metrics registry used by tpool components.
var DefaultRegistry *Registry

func init() {
	DefaultRegistry = NewRegistry(prometheus.DefaultRegisterer)
}

// NewRegistry creates a new metrics registry with the given Prometheus registerer.
func NewRegistry(reg prometheus.Registerer) *Registry {
	factory := promauto.With(reg)

	return &Registry{
		// Task Metrics
		TasksSubmitted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "tpool",
				Subsystem: "tasks",
				Name:      "submitted_total",
				Help:      "Total number of tasks submitted to the pool",
			},
			[]string{"pool_name", "priority"},
		),

		TasksCompleted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "tpool",
				Subsystem: "tasks",
				Name:      "completed_total",
				Help:      "Total number of tasks completed successfully",
			},
			[]string{"pool_name"},
		),

		TasksFailed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "tpool",
				Subsystem: "tasks",
				Name:      "failed_total",
				Help:      "Total number of tasks that failed",
			},
			[]string{"pool_name"},
		),

		TaskExecutionDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "tpool",
				Subsystem: "tasks",
				Name:      "duration_seconds",
				Help:      "Time spent executing tasks",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"pool_name"},
		),

		TaskQueueWait: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "tpool",
				Subsystem: "tasks",
				Name:      "queue_wait_seconds",
				Help:      "Time tasks spend queued before a worker picks them up",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"pool_name"},
		),

		// Worker Pool Metrics
		WorkerPoolSize: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "tpool",
				Subsystem: "workerpool",
				Name:      "size",
				Help:      "Current worker pool size",
			},
			[]string{"pool_name"},
		),

		WorkerPoolActive: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "tpool",
				Subsystem: "workerpool",
				Name:      "active_workers",
				Help:      "Number of active workers",
			},
			[]string{"pool_name"},
		),

		WorkerPoolQueued: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "tpool",
				Subsystem: "workerpool",
				Name:      "queued_tasks",
				Help:      "Number of queued tasks",
			},
			[]string{"pool_name"},
		),

		ResultsPending: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "tpool",
				Subsystem: "workerpool",
				Name:      "results_pending",
				Help:      "Number of submitted tasks whose outcome is not yet terminal",
			},
			[]string{"pool_name"},
		),

		// Scheduler Metrics
		TasksScheduled: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "tpool",
				Subsystem: "scheduler",
				Name:      "tasks_scheduled_total",
				Help:      "Total number of tasks scheduled",
			},
			[]string{"scheduler_name"},
		),
	}
}
