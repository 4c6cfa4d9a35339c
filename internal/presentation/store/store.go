package store

import (
	"context"

	"credex/internal/presentation/models"
	id "credex/pkg/domain"
)

// Store persists accepted submissions.
type Store interface {
	Save(ctx context.Context, record *models.Record) error
	Get(ctx context.Context, submissionID id.SubmissionID) (*models.Record, error)
}
