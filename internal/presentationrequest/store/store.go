// Package store persists signed presentation requests.
package store

import (
	"context"

	"credex/internal/presentationrequest/models"
	id "credex/pkg/domain"
)

// Store is implemented by every backend and by the Redis cache that fronts them.
// Error Contract: Get returns sentinel.ErrNotFound when no record exists.
type Store interface {
	Save(ctx context.Context, record *models.Record) error
	Get(ctx context.Context, prID id.PresentationRequestID) (*models.Record, error)
}
