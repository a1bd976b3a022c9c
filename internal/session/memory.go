package session

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/matching-cli/internal/model"
)

// MemoryStore keeps sessions in a mutex-guarded map with TTL-based eviction.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration
	onEvict func(id string, state *model.SessionState)
	stop    chan struct{}
	once    sync.Once
}

type memoryEntry struct {
	state     *model.SessionState
	expiresAt time.Time
}

// MemoryOption configures the in-memory store.
type MemoryOption func(*MemoryStore)

// WithEvictionHook registers a callback invoked for every TTL-evicted
// session, after the entry has been removed. Used to unlink orphaned upload
// files.
func WithEvictionHook(hook func(id string, state *model.SessionState)) MemoryOption {
	return func(s *MemoryStore) { s.onEvict = hook }
}

// NewMemory creates an in-memory store. Sessions expire ttl after their last
// Put; a background janitor sweeps expired entries. A ttl of zero disables
// expiry.
func NewMemory(ttl time.Duration, opts ...MemoryOption) *MemoryStore {
	s := &MemoryStore{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		stop:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}

	if ttl > 0 {
		interval := ttl / 10
		if interval < time.Second {
			interval = time.Second
		}
		go s.janitor(interval)
	}
	return s
}

func (s *MemoryStore) janitor(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.sweep(time.Now())
		}
	}
}

// sweep removes expired entries and fires the eviction hook outside the lock.
func (s *MemoryStore) sweep(now time.Time) {
	type evicted struct {
		id    string
		state *model.SessionState
	}
	var gone []evicted

	s.mu.Lock()
	for id, entry := range s.entries {
		if now.After(entry.expiresAt) {
			delete(s.entries, id)
			gone = append(gone, evicted{id: id, state: entry.state})
		}
	}
	s.mu.Unlock()

	for _, e := range gone {
		zap.L().Debug("session: expired", zap.String("session_id", e.id))
		if s.onEvict != nil {
			s.onEvict(e.id, e.state)
		}
	}
}

func (s *MemoryStore) Put(_ context.Context, id string, state *model.SessionState) error {
	expiresAt := time.Now().Add(s.ttl)
	if s.ttl <= 0 {
		expiresAt = time.Now().Add(100 * 365 * 24 * time.Hour)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[id] = memoryEntry{state: state, expiresAt: expiresAt}
	return nil
}

func (s *MemoryStore) Update(_ context.Context, id string, state *model.SessionState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[id]
	if !ok || time.Now().After(entry.expiresAt) {
		return ErrNotFound
	}

	expiresAt := time.Now().Add(s.ttl)
	if s.ttl <= 0 {
		expiresAt = time.Now().Add(100 * 365 * 24 * time.Hour)
	}
	s.entries[id] = memoryEntry{state: state, expiresAt: expiresAt}
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (*model.SessionState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.entries[id]
	if !ok || time.Now().After(entry.expiresAt) {
		return nil, ErrNotFound
	}
	return entry.state, nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, id)
	return nil
}

// Close stops the janitor. Safe to call more than once.
func (s *MemoryStore) Close() error {
	s.once.Do(func() { close(s.stop) })
	return nil
}
