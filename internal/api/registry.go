package api

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"seedround/internal/game"
)

var ErrSessionNotFound = errors.New("game session not found")

type entry struct {
	mu      sync.Mutex
	session *game.Session
	// lastSeen is guarded by Registry.mu.
	lastSeen time.Time
}

// Registry holds live sessions in memory. Each session is guarded by its
// own lock so one slow pitch load never blocks other players.
type Registry struct {
	mu      sync.Mutex
	entries map[string]*entry
	now     func() time.Time
}

func NewRegistry(now func() time.Time) *Registry {
	if now == nil {
		now = time.Now
	}
	return &Registry{entries: map[string]*entry{}, now: now}
}

func (r *Registry) Put(s *game.Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[s.ID] = &entry{session: s, lastSeen: r.now()}
}

// With runs fn while holding the session's lock.
func (r *Registry) With(id string, fn func(s *game.Session) error) error {
	r.mu.Lock()
	e, ok := r.entries[id]
	if ok {
		e.lastSeen = r.now()
	}
	r.mu.Unlock()
	if !ok {
		return ErrSessionNotFound
	}

	e.mu.Lock()
	defer func() {
		r.touch(e)
		e.mu.Unlock()
	}()
	return fn(e.session)
}

func (r *Registry) touch(e *entry) {
	r.mu.Lock()
	e.lastSeen = r.now()
	r.mu.Unlock()
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Sweep drops sessions idle for longer than ttl and reports how many went.
// Sessions currently in use are skipped.
func (r *Registry) Sweep(ttl time.Duration) int {
	cutoff := r.now().Add(-ttl)
	r.mu.Lock()
	defer r.mu.Unlock()
	removed := 0
	for id, e := range r.entries {
		if !e.mu.TryLock() {
			continue
		}
		idle := e.lastSeen.Before(cutoff)
		e.mu.Unlock()
		if idle {
			delete(r.entries, id)
			removed++
		}
	}
	return removed
}

// RunJanitor sweeps idle sessions every interval until ctx ends.
func (r *Registry) RunJanitor(ctx context.Context, every, ttl time.Duration, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	logger.Info("session janitor started", "every", every.String(), "ttl", ttl.String())
	for {
		select {
		case <-ctx.Done():
			logger.Info("session janitor shutdown")
			return
		case <-ticker.C:
			if n := r.Sweep(ttl); n > 0 {
				logger.Info("evicted idle sessions", "count", n, "live", r.Len())
			}
		}
	}
}
