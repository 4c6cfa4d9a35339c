package store

import (
	"context"
	"sync"

	"credex/internal/presentationrequest/models"
	"credex/internal/sentinel"
	id "credex/pkg/domain"
)

type InMemoryStore struct {
	mu      sync.RWMutex
	records map[id.PresentationRequestID]models.Record
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{records: make(map[id.PresentationRequestID]models.Record)}
}

func (s *InMemoryStore) Save(_ context.Context, record *models.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[record.ID]; ok {
		return sentinel.ErrConflict
	}
	s.records[record.ID] = clone(record)
	return nil
}

func (s *InMemoryStore) Get(_ context.Context, prID id.PresentationRequestID) (*models.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.records[prID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	out := clone(&r)
	return &out, nil
}

func clone(r *models.Record) models.Record {
	out := *r
	out.Body = append([]byte(nil), r.Body...)
	if r.ExpiresAt != nil {
		t := *r.ExpiresAt
		out.ExpiresAt = &t
	}
	return out
}
