// Package session identifies dashboard browsers by cookie and keeps a small
// per-session key/value bag in a cache.Store (Redis or memory).
//
//	m := session.NewManager(store, session.DefaultOptions())
//	r.Use(m.Middleware())
//
//	sess := session.FromCtx(r.Context())
//	sess.Set("last_query", "widget")
//	_ = sess.Save(r.Context(), w)
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/shashiranjanraj/stockroom/pkg/cache"
)

// Options configures session behaviour.
type Options struct {
	CookieName string
	TTL        time.Duration
	HTTPOnly   bool
	Secure     bool
	SameSite   http.SameSite
	Path       string
}

func DefaultOptions() Options {
	return Options{
		CookieName: "stockroom_session",
		TTL:        30 * time.Minute,
		HTTPOnly:   true,
		SameSite:   http.SameSiteLaxMode,
		Path:       "/",
	}
}

// Manager loads and saves sessions.
type Manager struct {
	store cache.Store
	opts  Options
}

func NewManager(store cache.Store, opts Options) *Manager {
	if store == nil {
		store = cache.Nop{}
	}
	return &Manager{store: store, opts: opts}
}

// Options returns the manager's options.
func (m *Manager) Options() Options { return m.opts }

// Session is an in-request session handle. It is safe for concurrent use.
type Session struct {
	m  *Manager
	id string

	mu      sync.Mutex
	data    map[string]string
	isNew   bool
	changed bool
}

type ctxKey struct{}

// newID generates a random 32-byte hex session ID.
func newID() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		panic(fmt.Sprintf("session: crypto/rand: %v", err))
	}
	return hex.EncodeToString(b)
}

func storeKey(id string) string { return "session:" + id }

// Load returns the session identified by the request cookie, or a new one.
func (m *Manager) Load(r *http.Request) *Session {
	s := &Session{m: m, data: map[string]string{}}

	if c, err := r.Cookie(m.opts.CookieName); err == nil && c.Value != "" {
		s.id = c.Value
		m.store.Get(r.Context(), storeKey(s.id), &s.data)
		if s.data == nil {
			s.data = map[string]string{}
		}
		return s
	}

	s.id = newID()
	s.isNew = true
	s.changed = true
	return s
}

// ID returns the session ID.
func (s *Session) ID() string { return s.id }

// IsNew reports whether the session was created by this request.
func (s *Session) IsNew() bool { return s.isNew }

func (s *Session) Set(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data[key] != value {
		s.data[key] = value
		s.changed = true
	}
}

func (s *Session) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.data[key]
	return v, ok
}

func (s *Session) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data[key]; ok {
		delete(s.data, key)
		s.changed = true
	}
}

// Save persists the data and writes the cookie when anything changed.
func (s *Session) Save(ctx context.Context, w http.ResponseWriter) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.changed {
		return nil
	}

	if err := s.m.store.Set(ctx, storeKey(s.id), s.data, s.m.opts.TTL); err != nil {
		return fmt.Errorf("session: save: %w", err)
	}

	o := s.m.opts
	http.SetCookie(w, &http.Cookie{
		Name:     o.CookieName,
		Value:    s.id,
		Path:     o.Path,
		MaxAge:   int(o.TTL.Seconds()),
		HttpOnly: o.HTTPOnly,
		Secure:   o.Secure,
		SameSite: o.SameSite,
	})
	s.changed = false
	return nil
}

// Middleware loads the session into the request context. A new session's
// cookie is written before the handler runs so it survives streaming
// responses and websocket upgrades.
func (m *Manager) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := m.Load(r)
			if sess.IsNew() {
				_ = sess.Save(r.Context(), w)
			}
			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), sess)))
		})
	}
}

// WithSession stores s in ctx.
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromCtx retrieves the session from ctx, or nil.
func FromCtx(ctx context.Context) *Session {
	s, _ := ctx.Value(ctxKey{}).(*Session)
	return s
}
