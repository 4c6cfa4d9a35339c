package service

import (
	"context"

	"credex/internal/events"
	"credex/internal/presentationrequest/models"
	verifiermodels "credex/internal/verifier/models"
	id "credex/pkg/domain"
)

// VerifierTokens resolves the current verifier and persists rotated tokens.
type VerifierTokens interface {
	CurrentVerifier(ctx context.Context, did id.DID) (*verifiermodels.Verifier, error)
	RotateIfChanged(ctx context.Context, verifier *verifiermodels.Verifier, newToken string) error
}

// Store persists signed presentation requests.
// Error Contract: Get returns sentinel.ErrNotFound when no record exists.
type Store interface {
	Save(ctx context.Context, record *models.Record) error
	Get(ctx context.Context, prID id.PresentationRequestID) (*models.Record, error)
}

// EventPublisher ships domain events. It must not block the caller.
type EventPublisher interface {
	Publish(ctx context.Context, evt events.Event)
}
