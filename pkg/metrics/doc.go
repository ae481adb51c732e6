// Package metrics provides Prometheus instrumentation for tpool components.
//
// # Quick Start
//
// Enable metrics by using the metrics-enabled constructors:
//
//	// Worker pool with metrics
//	p := pool.NewWithMetrics(5, "task_pool")
//
// Then expose metrics via HTTP:
//
//	http.Handle("/metrics", promhttp.Handler())
//	log.Fatal(http.ListenAndServe(":8080", nil))
//
// # Custom Registry
//
// Use a custom Prometheus registry for isolation:
//
//	registry := prometheus.NewRegistry()
//	config := metrics.Config{
//		Enabled:  true,
//		Registry: registry,
//	}
//
//	p, err := pool.NewWithConfigAndMetrics(
//		pool.Config{WorkerCount: 5},
//		"task_pool",
//		config,
//	)
//
// # Available Metrics
//
// ## Task Metrics
//
//   - tpool_tasks_submitted_total: Total number of tasks submitted to the pool
//   - tpool_tasks_completed_total: Total number of tasks completed successfully
//   - tpool_tasks_failed_total: Total number of tasks that failed
//   - tpool_tasks_duration_seconds: Time spent executing tasks
//   - tpool_tasks_queue_wait_seconds: Time tasks spend queued before pickup
//
// ## Worker Pool Metrics
//
//   - tpool_workerpool_size: Current worker pool size
//   - tpool_workerpool_active_workers: Number of active workers
//   - tpool_workerpool_queued_tasks: Number of queued tasks
//   - tpool_workerpool_results_pending: Submitted tasks without a terminal outcome
//
// ## Scheduler Metrics
//
//   - tpool_scheduler_tasks_scheduled_total: Total number of tasks scheduled
//
// # Labels
//
//   - pool_name: User-provided name for the worker pool instance
//   - priority: Submission priority ("ultra_low" through "ultra_high")
//   - scheduler_name: User-provided name for the scheduler instance
//
// # Runtime Control
//
// Components implementing the Instrumentable interface support runtime control:
//
//	mp := pool.NewWithMetrics(5, "api")
//	mp.DisableMetrics()            // Stop collecting metrics
//	mp.EnableMetrics(config)       // Re-enable with new config
//	enabled := mp.MetricsEnabled() // Check current state
//
// # Performance
//
// Metrics are updated only when operations occur. There are no background
// goroutines or timers, and updates are skipped entirely when disabled.
package metrics
