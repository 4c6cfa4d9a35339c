package store

import (
	"context"
	"encoding/json"
	"sync"

	"credex/internal/presentation/models"
	"credex/internal/sentinel"
	id "credex/pkg/domain"
)

type InMemoryStore struct {
	mu      sync.RWMutex
	records map[id.SubmissionID]models.Record
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{records: make(map[id.SubmissionID]models.Record)}
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

func (s *InMemoryStore) Get(_ context.Context, submissionID id.SubmissionID) (*models.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.records[submissionID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	out := clone(&r)
	return &out, nil
}

func clone(r *models.Record) models.Record {
	out := *r
	out.PresentationRequestInfo = append(json.RawMessage(nil), r.PresentationRequestInfo...)
	out.EncryptedPresentation = append(json.RawMessage(nil), r.EncryptedPresentation...)
	return out
}
