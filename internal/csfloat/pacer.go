package csfloat

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/donaldgifford/csfloat-tracker/internal/metrics"
)

// ErrPacerClosed is returned for work submitted to, or still queued in, a
// closed Pacer.
var ErrPacerClosed = errors.New("pacer closed")

// Pacer runs submitted calls one at a time on a single worker and spaces
// their start times by at least the configured interval. Calls from any
// number of goroutines share the same queue, so concurrent callers cannot
// burst past the spacing.
type Pacer struct {
	limiter *rate.Limiter
	jobs    chan pacerJob
	done    chan struct{}
	stopped chan struct{}
	once    sync.Once
	nowFunc func() time.Time
}

type pacerJob struct {
	ctx      context.Context
	run      func(context.Context)
	queuedAt time.Time
}

// PacerOption configures the Pacer.
type PacerOption func(*Pacer)

// WithPacerNowFunc overrides the time function for testing.
func WithPacerNowFunc(f func() time.Time) PacerOption {
	return func(p *Pacer) {
		p.nowFunc = f
	}
}

// NewPacer starts a Pacer whose calls begin at least interval apart. A zero
// interval disables spacing but keeps calls serialized.
func NewPacer(interval time.Duration, opts ...PacerOption) *Pacer {
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}
	p := &Pacer{
		limiter: rate.NewLimiter(limit, 1),
		jobs:    make(chan pacerJob),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
		nowFunc: time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	go p.loop()
	return p
}

// Close stops the worker. Calls already running finish; calls still waiting
// for their turn and future submissions fail with ErrPacerClosed. Close is
// idempotent and does not wait out the pacing interval.
func (p *Pacer) Close() {
	p.once.Do(func() {
		close(p.done)
	})
	<-p.stopped
}

func (p *Pacer) loop() {
	defer close(p.stopped)
	for {
		select {
		case <-p.done:
			return
		case job := <-p.jobs:
			if p.closed() {
				job.run(errContext{Context: job.ctx, err: ErrPacerClosed})
				return
			}
			p.dispatch(job)
		}
	}
}

func (p *Pacer) dispatch(job pacerJob) {
	waitCtx, cancel := context.WithCancel(job.ctx)
	defer cancel()
	go func() {
		select {
		case <-p.done:
			cancel()
		case <-waitCtx.Done():
		}
	}()

	err := p.limiter.Wait(waitCtx)
	if p.closed() {
		job.run(errContext{Context: job.ctx, err: ErrPacerClosed})
		return
	}
	if err != nil {
		// The job observes its own context; nothing to run.
		job.run(cancelledContext(job.ctx, err))
		return
	}
	metrics.PacerWaitDuration.Observe(p.nowFunc().Sub(job.queuedAt).Seconds())
	job.run(job.ctx)
}

func (p *Pacer) closed() bool {
	select {
	case <-p.done:
		return true
	default:
		return false
	}
}

// submit hands run to the worker. It blocks until the worker accepts the job,
// ctx ends, or the pacer closes.
func (p *Pacer) submit(ctx context.Context, run func(context.Context)) error {
	job := pacerJob{ctx: ctx, run: run, queuedAt: p.nowFunc()}
	select {
	case <-p.done:
		return ErrPacerClosed
	case <-ctx.Done():
		return ctx.Err()
	case p.jobs <- job:
		return nil
	}
}

// Future is the pending result of a call scheduled on a Pacer.
type Future[T any] struct {
	done  chan struct{}
	value T
	err   error
}

// Wait blocks until the call completes or ctx ends.
func (f *Future[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Done is closed when the result is available.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Schedule queues fn on p and returns its Future. fn never starts if ctx ends
// while it is queued.
func Schedule[T any](
	ctx context.Context,
	p *Pacer,
	fn func(context.Context) (T, error),
) *Future[T] {
	f := &Future[T]{done: make(chan struct{})}

	err := p.submit(ctx, func(runCtx context.Context) {
		defer close(f.done)
		if err := runCtx.Err(); err != nil {
			f.err = err
			return
		}
		f.value, f.err = fn(runCtx)
	})
	if err != nil {
		f.err = fmt.Errorf("scheduling call: %w", err)
		close(f.done)
	}
	return f
}

type errContext struct {
	context.Context
	err error
}

func (c errContext) Err() error { return c.err }

// cancelledContext reports err from Err even when the limiter failed for a
// reason other than ctx ending (for example a deadline shorter than the wait).
func cancelledContext(ctx context.Context, err error) context.Context {
	if ctx.Err() != nil {
		return ctx
	}
	return errContext{Context: ctx, err: fmt.Errorf("pacer wait: %w", err)}
}
