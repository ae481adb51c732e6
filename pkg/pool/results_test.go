package pool

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/markbuckner/tpool/internal/testutil"
	tperrors "github.com/markbuckner/tpool/pkg/common/errors"
)

func TestResultStoreLifecycle(t *testing.T) {
	s := newResultStore()
	s.register(1)

	running, err := s.inProgress(1)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, running, true)
	testutil.AssertEqual(t, s.pending(), 1)

	s.complete(1, "value", nil)

	running, err = s.inProgress(1)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, running, false)
	testutil.AssertEqual(t, s.pending(), 0)

	// Terminal outcomes can be read any number of times.
	for i := 0; i < 3; i++ {
		v, err := s.await(context.Background(), 1)
		testutil.AssertNoError(t, err)
		testutil.AssertEqual(t, v.(string), "value")
	}
}

func TestResultStoreAwaitUnknown(t *testing.T) {
	s := newResultStore()

	_, err := s.await(context.Background(), 42)
	testutil.AssertError(t, err)
	if !errors.Is(err, tperrors.ErrUnknownTask) {
		t.Errorf("expected ErrUnknownTask, got %v", err)
	}
}

func TestResultStoreAwaitBlocksUntilComplete(t *testing.T) {
	s := newResultStore()
	s.register(1)

	done := make(chan interface{})
	go func() {
		v, err := s.await(context.Background(), 1)
		if err != nil {
			t.Errorf("await failed: %v", err)
		}
		done <- v
	}()

	time.Sleep(10 * time.Millisecond)
	s.complete(1, 99, nil)

	select {
	case v := <-done:
		testutil.AssertEqual(t, v.(int), 99)
	case <-time.After(time.Second):
		t.Fatal("await did not wake after complete")
	}
}

func TestResultStoreAwaitDeadline(t *testing.T) {
	s := newResultStore()
	s.register(1)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := s.await(ctx, 1)
	testutil.AssertError(t, err)
	if !errors.Is(err, tperrors.ErrTimeout) {
		t.Errorf("expected ErrTimeout, got %v", err)
	}

	// The entry is untouched by a timed-out wait.
	s.complete(1, "late", nil)
	v, err := s.await(context.Background(), 1)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, v.(string), "late")
}

func TestResultStoreAwaitCancellation(t *testing.T) {
	s := newResultStore()
	s.register(1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.await(ctx, 1)
	testutil.AssertEqual(t, err, context.Canceled)
}

func TestResultStoreFailureOutcome(t *testing.T) {
	s := newResultStore()
	s.register(1)

	cause := errors.New("boom")
	s.complete(1, nil, cause)

	_, err := s.await(context.Background(), 1)
	testutil.AssertError(t, err)

	var te *tperrors.TaskError
	if !errors.As(err, &te) {
		t.Fatalf("expected *TaskError, got %T", err)
	}
	testutil.AssertEqual(t, te.Err, cause)
}

func TestResultStoreConcurrentAwaiters(t *testing.T) {
	s := newResultStore()
	s.register(1)

	const awaiters = 8
	var wg sync.WaitGroup
	for i := 0; i < awaiters; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := s.await(context.Background(), 1)
			if err != nil {
				t.Errorf("await failed: %v", err)
				return
			}
			if v.(string) != "shared" {
				t.Errorf("got %v, want shared", v)
			}
		}()
	}

	time.Sleep(5 * time.Millisecond)
	s.complete(1, "shared", nil)
	wg.Wait()
}

func TestResultStoreDuplicateCompletePanics(t *testing.T) {
	s := newResultStore()
	s.register(1)
	s.complete(1, nil, nil)

	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic on duplicate completion")
		}
	}()
	s.complete(1, nil, nil)
}

func TestResultStoreUnknownCompletePanics(t *testing.T) {
	s := newResultStore()

	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic on completing an unregistered id")
		}
	}()
	s.complete(5, nil, nil)
}

func TestResultStoreDuplicateRegisterPanics(t *testing.T) {
	s := newResultStore()
	s.register(1)

	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic on duplicate registration")
		}
	}()
	s.register(1)
}

func TestResultStoreRemove(t *testing.T) {
	s := newResultStore()
	s.register(1)
	s.remove(1)

	_, err := s.await(context.Background(), 1)
	if !errors.Is(err, tperrors.ErrUnknownTask) {
		t.Errorf("expected ErrUnknownTask after remove, got %v", err)
	}
	testutil.AssertEqual(t, s.pending(), 0)
}
