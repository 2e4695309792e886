package sessions

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/yigit/gradedesk/internal/app/models"
	"github.com/yigit/gradedesk/internal/pkg/apperrors"
)

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

// MemoryStore keeps workspaces in process memory. Workspaces are stored
// encoded so callers never share state with the store.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewMemoryStore creates a memory store whose entries expire after ttl of inactivity
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get returns a copy of the workspace and extends its expiry, like RedisStore does
func (s *MemoryStore) Get(_ context.Context, id string) (*models.Workspace, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.lookup(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrSessionNotFound, id)
	}
	entry.expiresAt = s.expiry()
	s.entries[id] = entry
	return decodeWorkspace(id, entry.data)
}

// Put stores ws
func (s *MemoryStore) Put(_ context.Context, ws *models.Workspace) error {
	data, err := encodeWorkspace(ws)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[ws.ID] = memoryEntry{data: data, expiresAt: s.expiry()}
	return nil
}

// Update applies fn under the store lock
func (s *MemoryStore) Update(_ context.Context, id string, fn func(ws *models.Workspace) error) (*models.Workspace, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.lookup(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrSessionNotFound, id)
	}

	ws, err := decodeWorkspace(id, entry.data)
	if err != nil {
		return nil, err
	}
	if err := fn(ws); err != nil {
		return nil, err
	}
	ws.UpdatedAt = s.now()

	data, err := encodeWorkspace(ws)
	if err != nil {
		return nil, err
	}
	s.entries[id] = memoryEntry{data: data, expiresAt: s.expiry()}
	return ws, nil
}

// Count returns the number of live sessions
func (s *MemoryStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweep()
	return len(s.entries)
}

// Close drops every session
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]memoryEntry)
	return nil
}

// lookup must be called with s.mu held
func (s *MemoryStore) lookup(id string) (memoryEntry, bool) {
	entry, ok := s.entries[id]
	if !ok {
		return memoryEntry{}, false
	}
	if s.ttl > 0 && s.now().After(entry.expiresAt) {
		delete(s.entries, id)
		return memoryEntry{}, false
	}
	return entry, true
}

func (s *MemoryStore) sweep() {
	if s.ttl <= 0 {
		return
	}
	now := s.now()
	for id, entry := range s.entries {
		if now.After(entry.expiresAt) {
			delete(s.entries, id)
		}
	}
}

func (s *MemoryStore) expiry() time.Time {
	return s.now().Add(s.ttl)
}
