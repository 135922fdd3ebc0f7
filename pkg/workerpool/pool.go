// Package workerpool provides a bounded goroutine pool with backpressure.
//
// The dashboard runs every section load of a search on one shared Pool, so a
// burst of searches cannot create an unbounded number of upstream calls.
//
//	pool := workerpool.New(8)
//	defer pool.Shutdown()
//
//	err := pool.Submit("inventory", func() { loadInventory() })
//	if errors.Is(err, workerpool.ErrPoolFull) {
//	    // reject or fall back to SubmitWait
//	}
package workerpool

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"

	"github.com/shashiranjanraj/stockroom/pkg/logger"
)

// ErrPoolFull is returned by Submit when the task queue is at capacity.
var ErrPoolFull = errors.New("workerpool: pool is full")

// ErrPoolClosed is returned by Submit and SubmitWait after Shutdown.
var ErrPoolClosed = errors.New("workerpool: pool is closed")

type task struct {
	name string
	fn   func()
}

// Pool is a bounded goroutine pool.
type Pool struct {
	size  int
	tasks chan task
	wg    sync.WaitGroup

	// mu guards closed and the close of tasks; senders hold the read lock so
	// Shutdown never closes the channel under a pending send.
	mu     sync.RWMutex
	closed bool
}

// New creates a Pool with size workers and a queue of 2×size.
func New(size int) *Pool {
	if size <= 0 {
		size = 1
	}

	p := &Pool{
		size:  size,
		tasks: make(chan task, size*2),
	}
	for i := 0; i < size; i++ {
		p.wg.Add(1)
		go p.worker()
	}
	return p
}

// Size returns the number of workers.
func (p *Pool) Size() int { return p.size }

// Submit enqueues fn without blocking. name labels the task in logs.
func (p *Pool) Submit(name string, fn func()) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPoolClosed
	}

	select {
	case p.tasks <- task{name: name, fn: fn}:
		return nil
	default:
		return ErrPoolFull
	}
}

// SubmitWait blocks until fn is queued, ctx is done or the pool closes.
func (p *Pool) SubmitWait(ctx context.Context, name string, fn func()) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPoolClosed
	}

	select {
	case p.tasks <- task{name: name, fn: fn}:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("workerpool: submit %s: %w", name, ctx.Err())
	}
}

// Shutdown stops accepting tasks, runs everything already queued and waits
// for the workers to exit. It is safe to call multiple times.
func (p *Pool) Shutdown() {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.tasks)
	}
	p.mu.Unlock()
	p.wg.Wait()
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for t := range p.tasks {
		safeRun(t)
	}
}

// safeRun executes t, logging a panic instead of killing the worker.
func safeRun(t task) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("workerpool: task panicked",
				"task", t.name, "panic", fmt.Sprint(r), "stack", string(debug.Stack()))
		}
	}()
	t.fn()
}
