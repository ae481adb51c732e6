/*
Package scheduler submits tasks into a worker pool at scheduled times.

It supports one-shot, delayed, repeating and cron-expression schedules.
Every fire is an ordinary pool submission at the schedule's priority, so
scheduled work competes in the same priority queue as directly submitted
work, and return values stay retrievable by pool task id via the OnSubmit
callback.

	p := pool.New(4)
	s, _ := scheduler.NewWithConfig(scheduler.Config{
		Pool:     p,
		Priority: pool.Low, // background work yields to direct submissions
		OnSubmit: func(id string, taskID pool.TaskID) {
			log.Printf("schedule %s fired as task %d", id, taskID)
		},
	})

	s.ScheduleRepeating("compact", compactTask, 10*time.Minute)
	s.ScheduleCron("nightly-report", "0 0 2 * * *", reportTask)
	s.Start()
	defer func() {
		<-s.Stop()
		p.Stop(true)
	}()

Cron expressions use the 6-field format with seconds, plus descriptors
like "@hourly" and "@daily".
*/
package scheduler
