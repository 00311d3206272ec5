package auth

import (
	"sync"

	"github.com/mrlokans/authcore/internal/entities"
)

// MemoryStore maps session ids to records. Entries are only removed by
// Delete; expired records stay until then.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]entities.SessionRecord
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]entities.SessionRecord)}
}

func (s *MemoryStore) Put(rec entities.SessionRecord) {
	s.mu.Lock()
	s.sessions[rec.SessionID] = rec
	s.mu.Unlock()
}

func (s *MemoryStore) Get(sessionID string) (entities.SessionRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.sessions[sessionID]
	return rec, ok
}

// Delete removes sessionID and reports whether it was present.
func (s *MemoryStore) Delete(sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[sessionID]; !ok {
		return false
	}
	delete(s.sessions, sessionID)
	return true
}

func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
