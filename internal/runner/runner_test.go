package runner_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/yuchen1830/showme/internal/runner"
)

func TestAllResolvesEveryLabel(t *testing.T) {
	t.Parallel()

	var tasks []runner.Task[int]
	for i := 0; i < 7; i++ {
		i := i
		tasks = append(tasks, runner.Task[int]{
			Label: fmt.Sprintf("task-%d", i),
			Run: func(_ context.Context) (int, error) {
				return i * 2, nil
			},
		})
	}

	out := runner.All(context.Background(), tasks, runner.Options{MaxConcurrent: 3})
	if len(out) != 7 {
		t.Fatalf("expected 7 outcomes, got %d", len(out))
	}
	for i := 0; i < 7; i++ {
		o := out[fmt.Sprintf("task-%d", i)]
		if o.Err != nil || o.TimedOut || o.Value != i*2 {
			t.Fatalf("unexpected outcome for task-%d: %#v", i, o)
		}
	}
}

func TestAllNeverExceedsConcurrencyCap(t *testing.T) {
	t.Parallel()

	const limit = 3
	var inFlight atomic.Int32
	var peak atomic.Int32

	var tasks []runner.Task[struct{}]
	for i := 0; i < 10; i++ {
		tasks = append(tasks, runner.Task[struct{}]{
			Label: fmt.Sprintf("task-%d", i),
			Run: func(_ context.Context) (struct{}, error) {
				n := inFlight.Add(1)
				for {
					p := peak.Load()
					if n <= p || peak.CompareAndSwap(p, n) {
						break
					}
				}
				time.Sleep(20 * time.Millisecond)
				inFlight.Add(-1)
				return struct{}{}, nil
			},
		})
	}

	runner.All(context.Background(), tasks, runner.Options{MaxConcurrent: limit})
	if got := peak.Load(); got > limit {
		t.Fatalf("observed %d tasks in flight, cap is %d", got, limit)
	}
}

func TestAllFixesTimedOutOutcomeAtDeadline(t *testing.T) {
	t.Parallel()

	start := time.Now()
	out := runner.All(context.Background(), []runner.Task[string]{
		{
			Label:   "hung",
			Timeout: 30 * time.Millisecond,
			Run: func(_ context.Context) (string, error) {
				// Ignores cancellation entirely.
				time.Sleep(2 * time.Second)
				return "late", nil
			},
		},
		{
			Label: "fast",
			Run: func(_ context.Context) (string, error) {
				return "ok", nil
			},
		},
	}, runner.Options{MaxConcurrent: 2})

	if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
		t.Fatalf("runner waited %s for an abandoned task", elapsed)
	}
	if !out["hung"].TimedOut {
		t.Fatalf("expected hung task to time out: %#v", out["hung"])
	}
	if out["fast"].Err != nil || out["fast"].Value != "ok" {
		t.Fatalf("sibling task affected by timeout: %#v", out["fast"])
	}
}

func TestAllIsolatesFailuresPerTask(t *testing.T) {
	t.Parallel()

	out := runner.All(context.Background(), []runner.Task[string]{
		{Label: "bad", Run: func(_ context.Context) (string, error) {
			return "", errors.New("boom")
		}},
		{Label: "good", Run: func(_ context.Context) (string, error) {
			return "ok", nil
		}},
	}, runner.Options{MaxConcurrent: 1})

	if out["bad"].Err == nil || out["bad"].Err.Error() != "boom" {
		t.Fatalf("unexpected outcome for bad: %#v", out["bad"])
	}
	if out["good"].Err != nil || out["good"].Value != "ok" {
		t.Fatalf("unexpected outcome for good: %#v", out["good"])
	}
}

func TestAllConvertsPanicToErroredOutcome(t *testing.T) {
	t.Parallel()

	out := runner.All(context.Background(), []runner.Task[string]{
		{Label: "panics", Run: func(_ context.Context) (string, error) {
			panic("unexpected agent state")
		}},
	}, runner.Options{MaxConcurrent: 1})

	o := out["panics"]
	if o.Err == nil || !strings.Contains(o.Err.Error(), "unexpected agent state") {
		t.Fatalf("expected panic to become an error, got %#v", o)
	}
}
