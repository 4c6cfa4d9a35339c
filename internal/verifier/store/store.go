// Package store persists Verifier records.
//
// Implementations return sentinel.ErrNotFound when no record matches and
// sentinel.ErrConflict when a second record would claim an existing DID.
package store

import (
	"context"
	"time"

	"credex/internal/verifier/models"
	id "credex/pkg/domain"
)

type Store interface {
	Get(ctx context.Context, filter models.Filter) (*models.Verifier, error)
	Patch(ctx context.Context, verifierID id.VerifierID, patch models.Patch, at time.Time) error
	Create(ctx context.Context, verifier *models.Verifier) error
}
