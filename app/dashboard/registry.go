package dashboard

import (
	"context"
	"sync"
	"time"

	"github.com/shashiranjanraj/stockroom/pkg/logger"
	"github.com/shashiranjanraj/stockroom/pkg/metrics"
)

// Registry maps session IDs to pages and evicts pages idle for longer than
// its TTL.
type Registry struct {
	ctx  context.Context
	deps Deps
	ttl  time.Duration
	now  func() time.Time

	mu    sync.Mutex
	pages map[string]*Page
}

// NewRegistry returns an empty registry. Pages it creates live at most as
// long as ctx.
func NewRegistry(ctx context.Context, deps Deps, ttl time.Duration) *Registry {
	return &Registry{ctx: ctx, deps: deps, ttl: ttl, now: time.Now, pages: map[string]*Page{}}
}

// SetClock replaces the registry clock, and that of pages created after.
func (r *Registry) SetClock(now func() time.Time) {
	r.mu.Lock()
	r.now = now
	r.mu.Unlock()
}

// Get returns the page of id, creating it on first use.
func (r *Registry) Get(id string) *Page {
	r.mu.Lock()
	defer r.mu.Unlock()

	if p, ok := r.pages[id]; ok {
		p.mu.Lock()
		p.touch()
		p.mu.Unlock()
		return p
	}
	p := NewPage(r.ctx, id, r.deps)
	p.now = r.now
	p.touched = r.now()
	r.pages[id] = p
	metrics.ActivePages.Set(float64(len(r.pages)))
	return p
}

// Lookup returns the page of id without creating one.
func (r *Registry) Lookup(id string) (*Page, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.pages[id]
	return p, ok
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pages)
}

// Evict closes and forgets pages idle for longer than the TTL. It returns
// how many were removed.
func (r *Registry) Evict() int {
	r.mu.Lock()
	cutoff := r.now().Add(-r.ttl)
	var idle []*Page
	for id, p := range r.pages {
		if p.LastSeen().Before(cutoff) {
			idle = append(idle, p)
			delete(r.pages, id)
		}
	}
	metrics.ActivePages.Set(float64(len(r.pages)))
	r.mu.Unlock()

	for _, p := range idle {
		p.Close()
	}
	if len(idle) > 0 {
		logger.Debug("dashboard: idle pages evicted", "count", len(idle))
	}
	return len(idle)
}

// Run evicts idle pages every interval until ctx is done.
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			r.Evict()
		}
	}
}
