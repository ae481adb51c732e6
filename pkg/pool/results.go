package pool

import (
	"context"
	"errors"
	"fmt"
	"sync"

	tperrors "github.com/markbuckner/tpool/pkg/common/errors"
)

// resultEntry holds one task's outcome. It starts pending; the executing
// worker fills value/err exactly once and closes done. The fields are only
// read after done is closed, which gives awaiters a happens-before edge.
type resultEntry struct {
	done  chan struct{}
	value interface{}
	err   error
}

func (e *resultEntry) terminal() bool {
	select {
	case <-e.done:
		return true
	default:
		return false
	}
}

// resultStore maps task ids to their (possibly pending) outcomes. Entries
// are retained until the pool is discarded, so finished results can be
// read any number of times.
type resultStore struct {
	mu      sync.RWMutex
	entries map[TaskID]*resultEntry
}

func newResultStore() *resultStore {
	return &resultStore{entries: make(map[TaskID]*resultEntry)}
}

// register creates a pending entry for id. Called before the task becomes
// visible to any worker, so a retrieval can never race ahead of it.
func (s *resultStore) register(id TaskID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.entries[id]; exists {
		panic(fmt.Sprintf("pool: task id %d registered twice", id))
	}
	s.entries[id] = &resultEntry{done: make(chan struct{})}
}

// remove deletes an entry whose task was never enqueued (submission lost a
// race with Stop).
func (s *resultStore) remove(id TaskID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, id)
}

// complete records the terminal outcome for id and releases all awaiters.
// Only the worker that dequeued the task calls this; a duplicate or unknown
// completion means the single-writer invariant broke, so it panics.
func (s *resultStore) complete(id TaskID, value interface{}, err error) {
	s.mu.RLock()
	e, ok := s.entries[id]
	s.mu.RUnlock()

	if !ok {
		panic(fmt.Sprintf("pool: completion for unregistered task id %d", id))
	}
	if e.terminal() {
		panic(fmt.Sprintf("pool: task id %d completed twice", id))
	}

	e.value = value
	e.err = err
	close(e.done)
}

// await blocks until id's outcome is terminal or ctx ends. A context
// deadline is reported as ErrTimeout; plain cancellation as ctx.Err().
// Timing out never disturbs the entry, so a later await still succeeds.
func (s *resultStore) await(ctx context.Context, id TaskID) (interface{}, error) {
	s.mu.RLock()
	e, ok := s.entries[id]
	s.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("task %d: %w", id, tperrors.ErrUnknownTask)
	}

	select {
	case <-e.done:
		if e.err != nil {
			return nil, tperrors.NewTaskError(e.err)
		}
		return e.value, nil
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("task %d: %w", id, tperrors.ErrTimeout)
		}
		return nil, ctx.Err()
	}
}

// inProgress reports whether id's outcome is still pending.
func (s *resultStore) inProgress(id TaskID) (bool, error) {
	s.mu.RLock()
	e, ok := s.entries[id]
	s.mu.RUnlock()

	if !ok {
		return false, fmt.Errorf("task %d: %w", id, tperrors.ErrUnknownTask)
	}
	return !e.terminal(), nil
}

// pending returns the number of registered entries that are not terminal.
func (s *resultStore) pending() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, e := range s.entries {
		if !e.terminal() {
			n++
		}
	}
	return n
}
