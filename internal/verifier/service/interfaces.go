package service

import (
	"context"
	"time"

	"credex/internal/events"
	"credex/internal/verifier/models"
	id "credex/pkg/domain"
)

// Store is the slice of verifier persistence the rotator needs.
// Error Contract: Get and Patch return sentinel.ErrNotFound when no record matches.
type Store interface {
	Get(ctx context.Context, filter models.Filter) (*models.Verifier, error)
	Patch(ctx context.Context, verifierID id.VerifierID, patch models.Patch, at time.Time) error
}

// EventPublisher ships domain events. It must not block the caller.
type EventPublisher interface {
	Publish(ctx context.Context, evt events.Event)
}
