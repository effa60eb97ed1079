package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Pool runs fire-and-forget background tasks, such as list cache
// revalidation, and drains them on shutdown
type Pool struct {
	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
	logger *slog.Logger
}

// NewPool creates a new worker pool
func NewPool(logger *slog.Logger) *Pool {
	ctx, cancel := context.WithCancel(context.Background())
	return &Pool{
		ctx:    ctx,
		cancel: cancel,
		logger: logger,
	}
}

// Submit runs a named task in the background. Tasks submitted after
// Shutdown are dropped.
func (p *Pool) Submit(name string, task func(ctx context.Context)) bool {
	return p.start(p.ctx, name, func() {}, task)
}

// SubmitWithTimeout runs a named task whose context expires after timeout
func (p *Pool) SubmitWithTimeout(name string, timeout time.Duration, task func(ctx context.Context)) bool {
	ctx, cancel := context.WithTimeout(p.ctx, timeout)
	if !p.start(ctx, name, cancel, task) {
		cancel()
		return false
	}
	return true
}

func (p *Pool) start(ctx context.Context, name string, release context.CancelFunc, task func(ctx context.Context)) bool {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		p.logger.Warn("⚠️ [Worker] Pool is shut down, dropping task", "task", name)
		return false
	}
	p.wg.Add(1)
	p.mu.Unlock()

	go func() {
		defer p.wg.Done()
		defer release()
		defer func() {
			if r := recover(); r != nil {
				p.logger.Error("❌ [Worker] Task panicked", "task", name, "panic", r)
			}
		}()
		task(ctx)
	}()
	return true
}

// Context returns the pool's context
func (p *Pool) Context() context.Context {
	return p.ctx
}

// Shutdown stops accepting tasks, cancels running ones and waits for them.
// It reports whether every task finished before the timeout.
func (p *Pool) Shutdown(timeout time.Duration) bool {
	p.logger.Info("🛑 [Worker] Initiating graceful shutdown...")

	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()

	p.cancel()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.logger.Info("✅ [Worker] All background tasks completed")
		return true
	case <-time.After(timeout):
		p.logger.Warn("⚠️ [Worker] Shutdown timeout exceeded, some tasks may not have completed",
			"timeout", timeout,
		)
		return false
	}
}
