// Package service creates presentation requests through the before-create
// pipeline and serves stored ones.
package service

import (
	"context"
	"errors"
	"log/slog"

	"credex/internal/events"
	"credex/internal/pipeline"
	"credex/internal/presentationrequest/metrics"
	"credex/internal/presentationrequest/models"
	"credex/internal/presentationrequest/ports"
	"credex/internal/sentinel"
	id "credex/pkg/domain"
	dErrors "credex/pkg/domain-errors"
	"credex/pkg/requestcontext"
)

const (
	PipelineBeforeCreate = "before-create"
	StepValidateRequest  = "validate-request"
	StepSendRequest      = "send-request"
)

type Option func(*Service)

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithPublisher(p EventPublisher) Option {
	return func(s *Service) {
		s.publisher = p
	}
}

// WithPipelineOptions forwards tracing and metrics options to the before-create pipeline.
func WithPipelineOptions(opts ...pipeline.Option) Option {
	return func(s *Service) {
		s.pipelineOpts = append(s.pipelineOpts, opts...)
	}
}

type Service struct {
	store        Store
	logger       *slog.Logger
	metrics      *metrics.Metrics
	publisher    EventPublisher
	pipelineOpts []pipeline.Option
	beforeCreate *pipeline.Pipeline[*models.CreateContext]
}

func NewService(store Store, tokens VerifierTokens, client ports.IssuanceClient, holderAppUUID string, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		store:     store,
		logger:    logger,
		publisher: events.NoopPublisher{},
	}
	for _, opt := range opts {
		opt(s)
	}

	sender := NewSender(tokens, client, holderAppUUID, logger)
	s.beforeCreate = pipeline.New(PipelineBeforeCreate, []pipeline.Step[*models.CreateContext]{
		{Name: StepValidateRequest, Hook: ValidateRequest},
		{Name: StepSendRequest, Hook: sender.Send},
	}, s.pipelineOpts...)
	return s
}

// Steps reports the before-create step order.
func (s *Service) Steps() []string {
	return s.beforeCreate.Steps()
}

// Create validates in, obtains the signed object from the issuance protocol,
// stores it and returns it unmodified. in may be nil when the body was absent.
func (s *Service) Create(ctx context.Context, in *models.CreateInput) (*models.Result, error) {
	c := &models.CreateContext{Input: in}
	if err := s.beforeCreate.Run(ctx, c); err != nil {
		s.recordFailure(dErrors.CodeOf(err))
		return nil, err
	}

	persistCtx := context.WithoutCancel(ctx)
	record, err := models.NewRecord(c.Result, requestcontext.Now(ctx))
	if err != nil {
		s.logger.ErrorContext(ctx, "signed presentation request is not storable", "error", err)
		s.recordFailure(dErrors.CodeInternal)
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to store presentation request")
	}
	if err := s.store.Save(persistCtx, record); err != nil {
		s.logger.ErrorContext(ctx, "failed to save presentation request",
			"error", err,
			"presentation_request_id", record.ID.String(),
		)
		s.recordFailure(dErrors.CodeInternal)
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to store presentation request")
	}

	if s.metrics != nil {
		s.metrics.IncrementCreated()
	}
	created := events.PresentationRequestCreated{
		PresentationRequestID: record.ID.String(),
		VerifierDID:           record.VerifierDID.String(),
		HolderAppUUID:         record.HolderAppUUID,
	}
	if record.ExpiresAt != nil {
		created.ExpiresAt = *record.ExpiresAt
	}
	s.publisher.Publish(ctx, events.New(events.TypePresentationRequestCreated, record.ID.String(), record.CreatedAt, created))

	return c.Result, nil
}

// Get returns the stored presentation request.
func (s *Service) Get(ctx context.Context, prID id.PresentationRequestID) (*models.Record, error) {
	record, err := s.store.Get(ctx, prID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "presentation request not found")
		}
		s.logger.ErrorContext(ctx, "failed to load presentation request",
			"error", err,
			"presentation_request_id", prID.String(),
		)
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load presentation request")
	}
	return record, nil
}

// recordFailure counts a failed create. Errors without a domain code are internal.
func (s *Service) recordFailure(code dErrors.Code) {
	if s.metrics == nil {
		return
	}
	if code == "" {
		code = dErrors.CodeInternal
	}
	s.metrics.IncrementCreateFailed(string(code))
}
