package scheduler

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/markbuckner/tpool/pkg/common/validation"
	"github.com/markbuckner/tpool/pkg/metrics"
	"github.com/markbuckner/tpool/pkg/pool"
)

// Entry describes a scheduled task.
type Entry struct {
	ID       string
	RunAt    time.Time
	Interval time.Duration // Zero for one-time tasks
	Priority pool.Priority
	Created  time.Time
}

// Scheduler submits tasks into a worker pool at scheduled times, with
// cron support.
type Scheduler interface {
	// Basic scheduling
	Schedule(id string, task pool.Task, runAt time.Time) error
	ScheduleWithPriority(id string, task pool.Task, runAt time.Time, priority pool.Priority) error
	ScheduleAfter(id string, task pool.Task, delay time.Duration) error
	ScheduleRepeating(id string, task pool.Task, interval time.Duration) error

	// Cron scheduling
	ScheduleCron(id string, cronExpr string, task pool.Task) error

	// Task management
	Cancel(id string) bool
	CancelAll()
	List() []Entry

	// Lifecycle
	Start() error
	Stop() <-chan struct{}
}

// Config holds scheduler configuration.
type Config struct {
	// Pool receives the scheduled submissions. If nil, the scheduler owns
	// a 4-worker pool and stops it on Stop.
	Pool pool.Pool

	// Priority is the default priority for scheduled submissions.
	// The zero value is pool.Normal.
	Priority pool.Priority

	// Location is the timezone for cron scheduling (default: time.Local).
	Location *time.Location

	// TickInterval is how often ready tasks are checked for (default: 50ms).
	TickInterval time.Duration

	// MaxTasks is the maximum number of scheduled tasks (default: 10000).
	MaxTasks int

	// OnSubmit is called with the schedule id and the pool task id after
	// each successful submission, so callers can retrieve return values.
	OnSubmit func(id string, taskID pool.TaskID)

	// Name labels this scheduler in metrics (default: "scheduler").
	Name string

	// Metrics configures Prometheus instrumentation for fired schedules.
	Metrics metrics.Config
}

type scheduledTask struct {
	id           string
	task         pool.Task
	priority     pool.Priority
	runAt        time.Time
	interval     time.Duration
	cronSchedule cron.Schedule
	created      time.Time
}

type scheduler struct {
	pool         pool.Pool
	ownPool      bool
	priority     pool.Priority
	location     *time.Location
	tickInterval time.Duration
	maxTasks     int
	cronParser   cron.Parser
	onSubmit     func(id string, taskID pool.TaskID)
	name         string
	registry     *metrics.Registry

	mu      sync.RWMutex
	tasks   map[string]*scheduledTask
	ticker  *time.Ticker
	done    chan struct{}
	running bool
}

// New creates a scheduler with default configuration.
func New() Scheduler {
	s, err := NewWithConfig(Config{})
	if err != nil {
		panic(err)
	}
	return s
}

// NewWithConfig creates a scheduler with custom configuration.
func NewWithConfig(cfg Config) (Scheduler, error) {
	if cfg.Priority < pool.UltraLow || cfg.Priority > pool.UltraHigh {
		return nil, fmt.Errorf("scheduler: default priority %d out of range", cfg.Priority)
	}

	p := cfg.Pool
	ownPool := false
	if p == nil {
		p = pool.New(4)
		ownPool = true
	}

	location := cfg.Location
	if location == nil {
		location = time.Local
	}

	tickInterval := cfg.TickInterval
	if tickInterval <= 0 {
		tickInterval = 50 * time.Millisecond
	}

	maxTasks := cfg.MaxTasks
	if maxTasks <= 0 {
		maxTasks = 10000
	}

	name := cfg.Name
	if name == "" {
		name = "scheduler"
	}

	var registry *metrics.Registry
	if cfg.Metrics.Enabled {
		registry = metrics.DefaultRegistry
		if cfg.Metrics.Registry != nil {
			registry = metrics.NewRegistry(cfg.Metrics.Registry)
		}
	}

	return &scheduler{
		pool:         p,
		ownPool:      ownPool,
		priority:     cfg.Priority,
		location:     location,
		tickInterval: tickInterval,
		maxTasks:     maxTasks,
		cronParser:   cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor),
		onSubmit:     cfg.OnSubmit,
		name:         name,
		registry:     registry,
		tasks:        make(map[string]*scheduledTask),
		done:         make(chan struct{}),
	}, nil
}

func (s *scheduler) validate(id string, task pool.Task) error {
	if err := validation.ValidateNotEmpty("scheduler", "id", id); err != nil {
		return err
	}
	if len(id) > 255 {
		return fmt.Errorf("task ID too long (max 255 characters)")
	}
	return validation.ValidateNotNil("scheduler", "task", task)
}

// add stores a schedule entry after checking for duplicates and capacity.
func (s *scheduler) add(t *scheduledTask) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.tasks[t.id]; exists {
		return fmt.Errorf("task with ID %q already exists, use a different ID or cancel the existing task first", t.id)
	}

	if len(s.tasks) >= s.maxTasks {
		return fmt.Errorf("cannot schedule task: maximum number of tasks (%d) reached", s.maxTasks)
	}

	s.tasks[t.id] = t
	return nil
}

func (s *scheduler) Schedule(id string, task pool.Task, runAt time.Time) error {
	return s.ScheduleWithPriority(id, task, runAt, s.priority)
}

func (s *scheduler) ScheduleWithPriority(id string, task pool.Task, runAt time.Time, priority pool.Priority) error {
	if err := s.validate(id, task); err != nil {
		return err
	}
	if runAt.IsZero() {
		return fmt.Errorf("task run time cannot be zero")
	}

	return s.add(&scheduledTask{
		id:       id,
		task:     task,
		priority: priority,
		runAt:    runAt,
		created:  time.Now(),
	})
}

func (s *scheduler) ScheduleAfter(id string, task pool.Task, delay time.Duration) error {
	return s.Schedule(id, task, time.Now().Add(delay))
}

func (s *scheduler) ScheduleRepeating(id string, task pool.Task, interval time.Duration) error {
	if err := s.validate(id, task); err != nil {
		return err
	}
	if interval <= 0 {
		return fmt.Errorf("interval must be positive, got %v", interval)
	}

	return s.add(&scheduledTask{
		id:       id,
		task:     task,
		priority: s.priority,
		runAt:    time.Now(),
		interval: interval,
		created:  time.Now(),
	})
}

func (s *scheduler) ScheduleCron(id string, cronExpr string, task pool.Task) error {
	if err := s.validate(id, task); err != nil {
		return err
	}
	if err := validation.ValidateNotEmpty("scheduler", "cron", cronExpr); err != nil {
		return err
	}

	schedule, err := s.cronParser.Parse(cronExpr)
	if err != nil {
		return fmt.Errorf("invalid cron expression: %w", err)
	}

	now := time.Now().In(s.location)
	return s.add(&scheduledTask{
		id:           id,
		task:         task,
		priority:     s.priority,
		runAt:        schedule.Next(now),
		cronSchedule: schedule,
		created:      time.Now(),
	})
}

func (s *scheduler) Cancel(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.tasks[id]; exists {
		delete(s.tasks, id)
		return true
	}
	return false
}

func (s *scheduler) CancelAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tasks = make(map[string]*scheduledTask)
}

func (s *scheduler) List() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]Entry, 0, len(s.tasks))
	for _, t := range s.tasks {
		entries = append(entries, Entry{
			ID:       t.id,
			RunAt:    t.runAt,
			Interval: t.interval,
			Priority: t.priority,
			Created:  t.created,
		})
	}

	// Sort by run time
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].RunAt.Before(entries[j].RunAt)
	})

	return entries
}

func (s *scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("scheduler already running, call Stop() first")
	}

	s.running = true
	s.ticker = time.NewTicker(s.tickInterval)

	go s.run()
	return nil
}

func (s *scheduler) Stop() <-chan struct{} {
	s.mu.Lock()
	if s.running {
		s.running = false
		close(s.done)
		s.ticker.Stop()
	}
	s.mu.Unlock()

	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		if s.ownPool {
			s.pool.Stop(true)
		}
	}()

	return stopped
}

func (s *scheduler) run() {
	for {
		select {
		case <-s.done:
			return
		case <-s.ticker.C:
			s.processReadyTasks()
		}
	}
}

func (s *scheduler) processReadyTasks() {
	now := time.Now()

	s.mu.Lock()
	if len(s.tasks) == 0 {
		s.mu.Unlock()
		return
	}

	ready := make([]*scheduledTask, 0, len(s.tasks))

	for id, t := range s.tasks {
		if now.Before(t.runAt) {
			continue
		}
		ready = append(ready, t)

		// Handle rescheduling
		if t.interval > 0 {
			t.runAt = now.Add(t.interval)
		} else if t.cronSchedule != nil {
			t.runAt = t.cronSchedule.Next(now.In(s.location))
		} else {
			delete(s.tasks, id)
		}
	}
	s.mu.Unlock()

	for _, t := range ready {
		taskID, err := s.pool.SubmitWithPriority(t.task, t.priority)
		if err != nil {
			// Pool rejected the task (e.g. stopped); keep processing others.
			continue
		}
		if s.registry != nil {
			s.registry.TasksScheduled.WithLabelValues(s.name).Inc()
		}
		if s.onSubmit != nil {
			s.onSubmit(t.id, taskID)
		}
	}
}
