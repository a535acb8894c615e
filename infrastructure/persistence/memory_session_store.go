package persistence

import (
	"context"
	"encoding/json"
	"sync"

	"meta-ads-setup/domain/model"
	"meta-ads-setup/domain/repository"
)

// MemorySessionStore keeps sessions in process memory. Used when neither
// PostgreSQL nor Redis is available, and by unit tests. Sessions are copied
// through JSON on the way in and out so callers never share a mutable pointer
// with the store.
type MemorySessionStore struct {
	mu       sync.Mutex
	sessions map[string][]byte
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: map[string][]byte{}}
}

func (s *MemorySessionStore) Get(_ context.Context, id string) (*model.Session, error) {
	s.mu.Lock()
	data, ok := s.sessions[id]
	s.mu.Unlock()
	if !ok {
		return nil, repository.ErrSessionNotFound
	}
	session := &model.Session{}
	if err := json.Unmarshal(data, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *MemorySessionStore) Save(_ context.Context, session *model.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.sessions[session.ID] = data
	s.mu.Unlock()
	return nil
}

func (s *MemorySessionStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
	return nil
}
