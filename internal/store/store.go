package store

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/healthboard/healthboard/internal/actions"
	"github.com/healthboard/healthboard/internal/dataset"
)

// Processed is everything derived from one uploaded dataset. The wellness
// score and action items are intentionally absent: they are recomputed from
// Summary on every read so scoring stays a pure per-call derivation.
type Processed struct {
	ID         string
	UserID     string
	Filename   string
	Summary    dataset.Summary
	Trends     []dataset.Trend
	Anomalies  []actions.Anomaly
	Timeseries map[string][]dataset.Point
}

// Entry is a processed dataset together with the time it was stored.
type Entry struct {
	Processed *Processed
	UpdatedAt time.Time
}

// Store is a thread-safe in-memory dataset store, keyed by dataset ID.
// A background goroutine (Run) periodically evicts entries older than the
// configured TTL. It also keeps a per-user index of recent dataset IDs.
type Store struct {
	mu       sync.RWMutex
	data     map[string]*Entry
	sessions map[string][]string // user ID → dataset IDs, oldest first
	ttl      time.Duration
	now      func() time.Time // injectable for deterministic tests
}

// New creates a Store with the given TTL.
func New(ttl time.Duration) *Store {
	return &Store{
		data:     make(map[string]*Entry),
		sessions: make(map[string][]string),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Put stores the processed dataset under p.ID and records it in the owning
// user's session. Callers must not modify p after calling Put.
func (s *Store) Put(p *Processed) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[p.ID] = &Entry{
		Processed: p,
		UpdatedAt: s.now(),
	}
	if p.UserID != "" {
		s.sessions[p.UserID] = append(s.sessions[p.UserID], p.ID)
	}
}

// Get returns the entry for the given dataset ID if it exists and is still
// within the TTL.
func (s *Store) Get(id string) (*Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.data[id]
	if !ok || !e.UpdatedAt.After(s.now().Add(-s.ttl)) {
		return nil, false
	}
	return e, ok
}

// Latest returns the most recently stored live entry, or nil when the store
// holds no live data. Used for the dashboard stream and alert snapshots.
func (s *Store) Latest() *Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cutoff := s.now().Add(-s.ttl)
	var latest *Entry
	for _, e := range s.data {
		if !e.UpdatedAt.After(cutoff) {
			continue
		}
		if latest == nil || e.UpdatedAt.After(latest.UpdatedAt) {
			latest = e
		}
	}
	return latest
}

// Sessions returns the dataset IDs recorded for a user, oldest first.
func (s *Store) Sessions(userID string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := s.sessions[userID]
	out := make([]string, len(ids))
	copy(out, ids)
	return out
}

// Count returns the total number of entries currently held, including stale ones.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

// Evict removes entries whose UpdatedAt is older than now minus TTL and
// prunes their IDs from the session index. Returns the number removed.
func (s *Store) Evict(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	cutoff := now.Add(-s.ttl)
	removed := 0
	for id, e := range s.data {
		if !e.UpdatedAt.After(cutoff) {
			if uid := e.Processed.UserID; uid != "" {
				s.sessions[uid] = without(s.sessions[uid], id)
				if len(s.sessions[uid]) == 0 {
					delete(s.sessions, uid)
				}
			}
			delete(s.data, id)
			removed++
		}
	}
	return removed
}

// Run starts the background TTL eviction loop. It ticks at half the TTL
// interval (minimum 1 second) and blocks until ctx is cancelled.
func (s *Store) Run(ctx context.Context) {
	interval := s.ttl / 2
	if interval < time.Second {
		interval = time.Second
	}
	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			if n := s.Evict(now); n > 0 {
				slog.Debug("store: evicted expired datasets", "count", n)
			}
		}
	}
}

func without(ids []string, id string) []string {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
