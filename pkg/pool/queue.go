package pool

import (
	"container/heap"
	"sync"
)

const queueCap = 256

// queuedTask is the immutable record stored between Submit and execution.
type queuedTask struct {
	id       TaskID
	task     Task
	priority Priority
	seq      uint64 // assigned at push time, breaks priority ties FIFO
}

// taskQueue is a thread-safe priority queue. Pop blocks while the queue is
// empty and the distinguished "closed" wake tells workers to exit instead
// of handing them a task.
type taskQueue struct {
	mu     sync.Mutex
	cond   *sync.Cond
	items  taskHeap
	seq    uint64
	closed bool
}

func newTaskQueue() *taskQueue {
	q := &taskQueue{items: make(taskHeap, 0, queueCap)}
	q.cond = sync.NewCond(&q.mu)
	heap.Init(&q.items)
	return q
}

// Push inserts a task. It never blocks. Returns false if the queue has
// been closed, in which case the task was not enqueued.
func (q *taskQueue) Push(t *queuedTask) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return false
	}

	q.seq++
	t.seq = q.seq
	heap.Push(&q.items, t)
	q.cond.Signal()
	return true
}

// Pop removes and returns the highest-priority task, blocking while the
// queue is empty. It returns (nil, false) once the queue is closed; tasks
// still enqueued at close time are never delivered.
func (q *taskQueue) Pop() (*queuedTask, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for q.items.Len() == 0 && !q.closed {
		q.cond.Wait()
	}

	if q.closed {
		return nil, false
	}

	t := heap.Pop(&q.items).(*queuedTask)
	return t, true
}

// Close marks the queue as shut down and wakes every blocked Pop.
func (q *taskQueue) Close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()
	q.cond.Broadcast()
}

// Len returns the number of tasks currently enqueued.
func (q *taskQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.items.Len()
}

// taskHeap orders tasks by descending priority, then ascending sequence
// number, which realizes "higher priority first, FIFO within a level".
type taskHeap []*queuedTask

func (h taskHeap) Len() int { return len(h) }

func (h taskHeap) Less(i, j int) bool {
	if h[i].priority != h[j].priority {
		return h[i].priority > h[j].priority
	}
	return h[i].seq < h[j].seq
}

func (h taskHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
}

func (h *taskHeap) Push(x any) {
	*h = append(*h, x.(*queuedTask))
}

func (h *taskHeap) Pop() any {
	old := *h
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return t
}
