// Package worker runs conversion jobs on a bounded pool of goroutines.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Status is the outcome of a job that did not fail.
type Status int

const (
	Done    Status = iota // The job did its work.
	Skipped               // The job had nothing to do.
)

// Job is a unit of work. The context is cancelled when the pool stops.
type Job func(ctx context.Context) (Status, error)

// Options configures a Pool.
type Options struct {
	// Workers is the maximum number of concurrent jobs. Zero or less means
	// one per CPU.
	Workers int
	// StopOnError stops the pool after the first failure. Running jobs
	// finish, and jobs submitted afterwards are refused.
	StopOnError bool
	// Log receives a message per failed job. Nil means no logging.
	Log *zap.Logger
}

// Pool runs jobs concurrently and counts their outcomes.
type Pool struct {
	opts   Options
	ctx    context.Context
	cancel context.CancelFunc
	group  *errgroup.Group
	start  time.Time

	stopped atomic.Bool
	done    atomic.Int64
	skipped atomic.Int64
	failed  atomic.Int64
}

// New returns a pool whose jobs run under ctx.
func New(ctx context.Context, opts Options) *Pool {
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}
	if opts.Log == nil {
		opts.Log = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(ctx)
	g := &errgroup.Group{}
	g.SetLimit(opts.Workers)
	return &Pool{opts: opts, ctx: ctx, cancel: cancel, group: g, start: time.Now()}
}

// Stopped returns whether the pool refuses new jobs.
func (p *Pool) Stopped() bool {
	return p.stopped.Load() || p.ctx.Err() != nil
}

// Submit schedules job, blocking while all workers are busy. It returns
// false if the pool has stopped, in which case the job is not run. Name
// identifies the job in log messages.
func (p *Pool) Submit(name string, job Job) bool {
	if p.Stopped() {
		return false
	}
	p.group.Go(func() error {
		if p.Stopped() {
			return nil
		}
		status, err := p.run(job)
		switch {
		case err != nil:
			p.failed.Add(1)
			p.opts.Log.Error("job failed", zap.String("job", name), zap.Error(err))
			if p.opts.StopOnError {
				p.stopped.Store(true)
				p.cancel()
			}
		case status == Skipped:
			p.skipped.Add(1)
		default:
			p.done.Add(1)
		}
		return nil
	})
	return true
}

// run calls job, converting a panic into an error.
func (p *Pool) run(job Job) (status Status, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return job(p.ctx)
}

// Wait waits for all submitted jobs to finish, and returns a summary of
// their outcomes.
func (p *Pool) Wait() Summary {
	_ = p.group.Wait()
	p.cancel()
	return Summary{
		Done:    int(p.done.Load()),
		Skipped: int(p.skipped.Load()),
		Failed:  int(p.failed.Load()),
		Elapsed: time.Since(p.start),
	}
}

// Summary counts the outcomes of the jobs of a pool.
type Summary struct {
	Done    int
	Skipped int
	Failed  int
	Elapsed time.Duration
}

// String formats the summary as
//
//	Converted N files[, S skipped][, E errors], cost X.XXXs.
func (s Summary) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Converted %d files", s.Done)
	if s.Skipped > 0 {
		fmt.Fprintf(&b, ", %d skipped", s.Skipped)
	}
	if s.Failed > 0 {
		fmt.Fprintf(&b, ", %d errors", s.Failed)
	}
	fmt.Fprintf(&b, ", cost %.3fs.", s.Elapsed.Seconds())
	return b.String()
}
