// Package service accepts presentation submissions behind the version gate.
package service

import (
	"context"
	"errors"
	"log/slog"

	"credex/internal/events"
	"credex/internal/pipeline"
	"credex/internal/presentation/metrics"
	"credex/internal/presentation/models"
	"credex/internal/sentinel"
	id "credex/pkg/domain"
	dErrors "credex/pkg/domain-errors"
	"credex/pkg/requestcontext"
)

const (
	PipelineBeforeSubmit = "before-submit"
	StepVersionGate      = "version-gate"
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

// WithPipelineOptions forwards tracing and metrics options to the before-submit pipeline.
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
	beforeSubmit *pipeline.Pipeline[*models.SubmitContext]
}

func NewService(store Store, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		store:     store,
		logger:    logger,
		publisher: events.NoopPublisher{},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.beforeSubmit = pipeline.New(PipelineBeforeSubmit, []pipeline.Step[*models.SubmitContext]{
		{Name: StepVersionGate, Hook: GateVersion},
	}, s.pipelineOpts...)
	return s
}

// Steps reports the before-submit step order.
func (s *Service) Steps() []string {
	return s.beforeSubmit.Steps()
}

// Submit gates sub on versionHeader, stores it under the resolved wire format
// and returns a receipt. sub may be nil when the body was absent.
func (s *Service) Submit(ctx context.Context, sub *models.Submission, versionHeader string) (*models.Receipt, error) {
	c := &models.SubmitContext{Submission: sub, VersionHeader: versionHeader}
	if err := s.beforeSubmit.Run(ctx, c); err != nil {
		s.recordRejection(dErrors.CodeOf(err))
		return nil, err
	}
	if !c.Validated {
		s.logger.ErrorContext(ctx, "submission reached routing without passing the version gate")
		s.recordRejection(dErrors.CodePrecondition)
		return nil, dErrors.New(dErrors.CodePrecondition, "hook context has not been validated")
	}

	prID, err := presentationRequestID(c.Format, sub.PresentationRequestInfo)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodePrecondition) {
			s.logger.ErrorContext(ctx, "submission has no routable wire format", "error", err)
		}
		s.recordRejection(dErrors.CodeOf(err))
		return nil, err
	}

	record := &models.Record{
		ID:                      id.NewSubmissionID(),
		Version:                 sub.Version,
		Format:                  c.Format,
		PresentationRequestID:   prID,
		PresentationRequestInfo: sub.PresentationRequestInfo,
		EncryptedPresentation:   sub.EncryptedPresentation,
		ReceivedAt:              requestcontext.Now(ctx),
	}
	if err := s.store.Save(context.WithoutCancel(ctx), record); err != nil {
		s.logger.ErrorContext(ctx, "failed to save presentation",
			"error", err,
			"submission_id", record.ID.String(),
		)
		s.recordRejection(dErrors.CodeInternal)
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to store presentation")
	}

	if s.metrics != nil {
		s.metrics.IncrementAccepted(record.Format.String())
	}
	s.publisher.Publish(ctx, events.New(events.TypePresentationSubmitted, record.ID.String(), record.ReceivedAt,
		events.PresentationSubmitted{
			SubmissionID: record.ID.String(),
			Version:      record.Version,
			Format:       record.Format.String(),
		}))

	return models.NewReceipt(record), nil
}

// Receipt returns the receipt of a stored submission.
func (s *Service) Receipt(ctx context.Context, submissionID id.SubmissionID) (*models.Receipt, error) {
	record, err := s.store.Get(ctx, submissionID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "presentation not found")
		}
		s.logger.ErrorContext(ctx, "failed to load presentation",
			"error", err,
			"submission_id", submissionID.String(),
		)
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load presentation")
	}
	return models.NewReceipt(record), nil
}

func (s *Service) recordRejection(code dErrors.Code) {
	if s.metrics == nil {
		return
	}
	if code == "" {
		code = dErrors.CodeInternal
	}
	s.metrics.IncrementRejected(string(code))
}
