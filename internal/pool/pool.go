package pool

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
)

// ErrClosed is returned by Do after Close
var ErrClosed = errors.New("pool closed")

// Pool runs submitted work on a fixed number of goroutines.
// Submitters beyond capacity block until a worker frees up.
type Pool struct {
	jobs    chan *job
	quit    chan struct{}
	wg      sync.WaitGroup
	once    sync.Once
	busy    atomic.Int32
	workers int
	logger  *slog.Logger
}

type job struct {
	fn       func()
	done     chan struct{}
	panicked any
}

// New starts a pool with the given number of workers (minimum 1)
func New(workers int, logger *slog.Logger) *Pool {
	if workers < 1 {
		workers = 1
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	p := &Pool{
		jobs:    make(chan *job),
		quit:    make(chan struct{}),
		workers: workers,
		logger:  logger,
	}

	for range workers {
		p.wg.Add(1)
		go p.work()
	}
	return p
}

func (p *Pool) work() {
	defer p.wg.Done()
	for {
		select {
		case j := <-p.jobs:
			p.run(j)
		case <-p.quit:
			return
		}
	}
}

func (p *Pool) run(j *job) {
	p.busy.Add(1)
	defer func() {
		if r := recover(); r != nil {
			j.panicked = r
		}
		p.busy.Add(-1)
		close(j.done)
	}()
	j.fn()
}

// Do runs fn on a worker and waits for it to finish. If ctx ends before a
// worker is free, fn is never run and ctx's error is returned. A panic in fn
// is re-raised in the caller's goroutine.
func (p *Pool) Do(ctx context.Context, fn func()) error {
	j := &job{fn: fn, done: make(chan struct{})}

	select {
	case p.jobs <- j:
	case <-ctx.Done():
		return ctx.Err()
	case <-p.quit:
		return ErrClosed
	}

	<-j.done
	if j.panicked != nil {
		panic(j.panicked)
	}
	return nil
}

// Workers returns the pool size
func (p *Pool) Workers() int {
	return p.workers
}

// Busy returns how many workers are running a job right now
func (p *Pool) Busy() int {
	return int(p.busy.Load())
}

// Close stops accepting work and waits for running jobs to finish
func (p *Pool) Close() {
	p.once.Do(func() {
		close(p.quit)
	})
	p.wg.Wait()
}

// Middleware serves every request on a pool worker. Requests arriving after
// Close are answered by closed.
func (p *Pool) Middleware(next, closed http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		err := p.Do(r.Context(), func() { next.ServeHTTP(w, r) })
		switch {
		case errors.Is(err, ErrClosed):
			closed.ServeHTTP(w, r)
		case err != nil:
			p.logger.Debug("request abandoned while queued", "path", r.URL.Path, "error", err)
		}
	})
}
