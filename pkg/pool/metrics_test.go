package pool

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/markbuckner/tpool/internal/testutil"
	"github.com/markbuckner/tpool/pkg/metrics"
)

func newTestMetricsPool(t *testing.T, workers int) Pool {
	t.Helper()

	registry := prometheus.NewRegistry()
	p, err := NewWithConfigAndMetrics(
		Config{WorkerCount: workers},
		"test",
		metrics.Config{Enabled: true, Registry: registry},
	)
	testutil.AssertNoError(t, err)
	return p
}

func TestMetricsPoolBasicFlow(t *testing.T) {
	p := newTestMetricsPool(t, 2)
	defer p.Stop(true)

	id, err := p.SubmitWithPriority(TaskFunc(func(ctx context.Context) (interface{}, error) {
		return "instrumented", nil
	}), High)
	testutil.AssertNoError(t, err)

	v, err := p.GetReturnValue(id)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, v.(string), "instrumented")

	failID, err := p.Submit(TaskFunc(func(ctx context.Context) (interface{}, error) {
		return nil, errors.New("boom")
	}))
	testutil.AssertNoError(t, err)

	_, err = p.GetReturnValue(failID)
	testutil.AssertError(t, err)

	testutil.AssertEqual(t, p.TotalSubmitted(), int64(2))
	testutil.AssertEqual(t, p.Size(), 2)
}

func TestMetricsPoolDisabled(t *testing.T) {
	// With metrics disabled the base pool is returned unwrapped.
	p, err := NewWithConfigAndMetrics(
		Config{WorkerCount: 1},
		"test",
		metrics.Config{Enabled: false},
	)
	testutil.AssertNoError(t, err)
	defer p.Stop(true)

	if _, ok := p.(*MetricsPool); ok {
		t.Error("disabled metrics should not wrap the pool")
	}
}

func TestMetricsPoolEnableDisable(t *testing.T) {
	p := newTestMetricsPool(t, 1)
	defer p.Stop(true)

	mp, ok := p.(*MetricsPool)
	if !ok {
		t.Fatalf("expected *MetricsPool, got %T", p)
	}

	testutil.AssertEqual(t, mp.MetricsEnabled(), true)

	mp.DisableMetrics()
	testutil.AssertEqual(t, mp.MetricsEnabled(), false)

	err := mp.EnableMetrics(metrics.Config{Enabled: true, Registry: prometheus.NewRegistry()})
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, mp.MetricsEnabled(), true)
}

func TestMetricsPoolInvalidConfig(t *testing.T) {
	_, err := NewWithConfigAndMetrics(Config{WorkerCount: 0}, "bad", metrics.DefaultConfig())
	testutil.AssertError(t, err)
}
