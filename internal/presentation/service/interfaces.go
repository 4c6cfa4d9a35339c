package service

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks Store,EventPublisher

import (
	"context"

	"credex/internal/events"
	"credex/internal/presentation/models"
	id "credex/pkg/domain"
)

type Store interface {
	Save(ctx context.Context, record *models.Record) error
	Get(ctx context.Context, submissionID id.SubmissionID) (*models.Record, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, evt events.Event)
}
