package pool

import (
	"context"
	"fmt"
	"testing"
	"time"
)

var noopTask = TaskFunc(func(ctx context.Context) (interface{}, error) {
	return nil, nil
})

// BenchmarkSubmit measures the overhead of task submission
func BenchmarkSubmit(b *testing.B) {
	p := New(4)
	defer p.Stop(true)

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			p.Submit(noopTask)
		}
	})
}

// BenchmarkSubmitAndRetrieve measures the full submit/await round trip
func BenchmarkSubmitAndRetrieve(b *testing.B) {
	p := New(4)
	defer p.Stop(true)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		id, err := p.Submit(noopTask)
		if err != nil {
			b.Fatal(err)
		}
		if _, err := p.GetReturnValue(id); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkPriorityMix measures submission across all priority levels
func BenchmarkPriorityMix(b *testing.B) {
	p := New(4)
	defer p.Stop(true)

	priorities := []Priority{UltraLow, Low, Normal, High, UltraHigh}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		p.SubmitWithPriority(noopTask, priorities[i%len(priorities)])
	}
}

// BenchmarkWorkerScaling tests throughput across different worker counts
func BenchmarkWorkerScaling(b *testing.B) {
	workerCounts := []int{1, 2, 4, 8}

	for _, workerCount := range workerCounts {
		b.Run(fmt.Sprintf("Workers-%d", workerCount), func(b *testing.B) {
			p := New(workerCount)
			defer p.Stop(true)

			ids := make([]TaskID, 0, b.N)
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				id, err := p.Submit(noopTask)
				if err != nil {
					b.Fatal(err)
				}
				ids = append(ids, id)
			}
			for _, id := range ids {
				p.GetReturnValue(id)
			}
		})
	}
}

// BenchmarkQueuePushPop measures raw queue operations
func BenchmarkQueuePushPop(b *testing.B) {
	q := newTaskQueue()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		q.Push(&queuedTask{id: TaskID(i + 1), priority: Priority(i%5 - 2)})
		q.Pop()
	}
}

// BenchmarkStateInspection measures performance of state inspection methods
func BenchmarkStateInspection(b *testing.B) {
	p := New(4)
	defer p.Stop(true)

	for i := 0; i < 10; i++ {
		p.Submit(TaskFunc(func(ctx context.Context) (interface{}, error) {
			time.Sleep(10 * time.Millisecond)
			return nil, nil
		}))
	}

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			p.Size()
			p.QueueSize()
			p.ActiveWorkers()
			p.TotalSubmitted()
			p.TotalCompleted()
		}
	})
}
