// Package runner executes labeled tasks under a global concurrency cap with
// a hard per-task deadline. The cap models a ceiling on simultaneous
// external agent sessions: one slow or hung site must never starve the
// others.
package runner

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Task is one labeled operation with its own deadline.
type Task[T any] struct {
	Label   string
	Timeout time.Duration
	Run     func(ctx context.Context) (T, error)
}

// Outcome is the terminal state of one task. Exactly one of Value, Err, or
// TimedOut is meaningful; a task never surfaces a panic or a raised error to
// the caller of All.
type Outcome[T any] struct {
	Value    T
	Err      error
	TimedOut bool
}

type Options struct {
	// MaxConcurrent caps tasks in flight at once. <=0 means 4.
	MaxConcurrent int

	// RateLimitRPS is a global start-rate limit across all tasks. Set to
	// <=0 to disable.
	RateLimitRPS float64
}

func (o Options) withDefaults() Options {
	if o.MaxConcurrent <= 0 {
		o.MaxConcurrent = 4
	}
	return o
}

// All runs every task and returns an outcome per label. At most
// MaxConcurrent tasks run concurrently. A task that exceeds its Timeout has
// its outcome fixed to TimedOut, its slot released, and any late result
// discarded. All returns only after every task has resolved.
func All[T any](ctx context.Context, tasks []Task[T], opts Options) map[string]Outcome[T] {
	opts = opts.withDefaults()

	var limiter *rate.Limiter
	if opts.RateLimitRPS > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RateLimitRPS), 1)
	}

	type job struct {
		idx int
	}
	type completion struct {
		idx int
		out Outcome[T]
	}

	jobs := make(chan job)
	done := make(chan completion, len(tasks))

	var wg sync.WaitGroup
	workerFn := func() {
		defer wg.Done()
		for j := range jobs {
			out := runOne(ctx, tasks[j.idx], limiter)
			done <- completion{idx: j.idx, out: out}
		}
	}

	workers := opts.MaxConcurrent
	if workers > len(tasks) {
		workers = len(tasks)
	}
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go workerFn()
	}

	go func() {
		defer close(jobs)
		for i := range tasks {
			jobs <- job{idx: i}
		}
	}()

	go func() {
		wg.Wait()
		close(done)
	}()

	outcomes := make(map[string]Outcome[T], len(tasks))
	for c := range done {
		outcomes[tasks[c.idx].Label] = c.out
	}
	return outcomes
}

func runOne[T any](ctx context.Context, task Task[T], limiter *rate.Limiter) Outcome[T] {
	if limiter != nil {
		if err := limiter.Wait(ctx); err != nil {
			return Outcome[T]{Err: err}
		}
	}

	taskCtx := ctx
	var cancel context.CancelFunc
	if task.Timeout > 0 {
		taskCtx, cancel = context.WithTimeout(ctx, task.Timeout)
		defer cancel()
	}

	// The task runs in its own goroutine so a collaborator that ignores
	// cancellation cannot hold the worker slot past the deadline. The result
	// channel is buffered: a late result is dropped, not leaked as a blocked
	// goroutine.
	resCh := make(chan Outcome[T], 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				resCh <- Outcome[T]{Err: fmt.Errorf("task panicked: %v", r)}
			}
		}()
		v, err := task.Run(taskCtx)
		resCh <- Outcome[T]{Value: v, Err: err}
	}()

	select {
	case out := <-resCh:
		if out.Err != nil && taskCtx.Err() == context.DeadlineExceeded {
			return Outcome[T]{TimedOut: true}
		}
		return out
	case <-taskCtx.Done():
		if ctx.Err() != nil {
			return Outcome[T]{Err: ctx.Err()}
		}
		return Outcome[T]{TimedOut: true}
	}
}
