package store

import (
	"context"
	"sync"
	"time"

	"credex/internal/sentinel"
	"credex/internal/verifier/models"
	id "credex/pkg/domain"
)

// InMemoryStore keeps verifiers in process memory. Safe for concurrent use;
// concurrent patches of the same record resolve last-write-wins.
type InMemoryStore struct {
	mu        sync.RWMutex
	verifiers map[id.VerifierID]models.Verifier
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{verifiers: make(map[id.VerifierID]models.Verifier)}
}

func (s *InMemoryStore) Get(_ context.Context, filter models.Filter) (*models.Verifier, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, v := range s.verifiers {
		if v.VerifierDID == filter.VerifierDID {
			found := v
			return &found, nil
		}
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemoryStore) Patch(_ context.Context, verifierID id.VerifierID, patch models.Patch, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.verifiers[verifierID]
	if !ok {
		return sentinel.ErrNotFound
	}
	if patch.AuthToken != nil {
		v.AuthToken = *patch.AuthToken
	}
	v.UpdatedAt = at
	s.verifiers[verifierID] = v
	return nil
}

func (s *InMemoryStore) Create(_ context.Context, verifier *models.Verifier) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.verifiers[verifier.ID]; ok {
		return sentinel.ErrConflict
	}
	for _, v := range s.verifiers {
		if v.VerifierDID == verifier.VerifierDID {
			return sentinel.ErrConflict
		}
	}
	s.verifiers[verifier.ID] = *verifier
	return nil
}
