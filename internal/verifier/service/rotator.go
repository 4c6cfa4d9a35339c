// Package service resolves the current verifier and persists auth tokens
// refreshed by the issuance protocol.
//
// Concurrent rotations for the same verifier are not serialized. Each one
// patches the store and the last write wins; a fresher token may be
// overwritten by a slower caller and is re-issued on the next send.
package service

import (
	"context"
	"errors"
	"log/slog"

	"credex/internal/events"
	"credex/internal/platform/tracer"
	"credex/internal/sentinel"
	"credex/internal/verifier/metrics"
	"credex/internal/verifier/models"
	id "credex/pkg/domain"
	dErrors "credex/pkg/domain-errors"
	"credex/pkg/requestcontext"
)

type Option func(*Rotator)

func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Rotator) {
		r.metrics = m
	}
}

func WithTracer(t tracer.Tracer) Option {
	return func(r *Rotator) {
		r.tracer = t
	}
}

// WithPublisher emits verifier.token_rotated after each persisted rotation.
func WithPublisher(p EventPublisher) Option {
	return func(r *Rotator) {
		r.publisher = p
	}
}

type Rotator struct {
	store      Store
	primaryDID id.DID
	logger     *slog.Logger
	metrics    *metrics.Metrics
	tracer     tracer.Tracer
	publisher  EventPublisher
}

// NewRotator binds the rotator to primaryDID, the verifier used when a caller names none.
func NewRotator(store Store, primaryDID id.DID, logger *slog.Logger, opts ...Option) *Rotator {
	r := &Rotator{
		store:      store,
		primaryDID: primaryDID,
		logger:     logger,
		tracer:     tracer.NewNoop(),
		publisher:  events.NoopPublisher{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// CurrentVerifier loads the verifier for did, or the primary verifier when did is empty.
func (r *Rotator) CurrentVerifier(ctx context.Context, did id.DID) (*models.Verifier, error) {
	if did.IsNil() {
		did = r.primaryDID
	}
	v, err := r.store.Get(ctx, models.Filter{VerifierDID: did})
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Wrap(err, dErrors.CodeNotFound, "verifier not found")
		}
		r.logger.ErrorContext(ctx, "failed to load verifier", "error", err, "verifier_did", did)
		if r.metrics != nil {
			r.metrics.IncrementLookupFailures()
		}
		return nil, err
	}
	return v, nil
}

// RotateIfChanged persists newToken against verifier when it differs from the
// held token. An empty newToken means none was issued. A failed patch is
// logged and returned unchanged; the upstream call that produced the token
// has already happened and is not undone.
func (r *Rotator) RotateIfChanged(ctx context.Context, verifier *models.Verifier, newToken string) (err error) {
	ctx, span := r.tracer.Start(ctx, tracer.SpanTokenRotation,
		tracer.String(tracer.AttrVerifierDID, verifier.VerifierDID.String()),
	)
	defer func() { span.End(err) }()

	if newToken == "" || newToken == verifier.AuthToken {
		span.SetAttributes(tracer.Bool(tracer.AttrTokenRotated, false))
		if r.metrics != nil {
			r.metrics.IncrementUnchanged()
		}
		return nil
	}

	now := requestcontext.Now(ctx)
	if err = r.store.Patch(ctx, verifier.ID, models.Patch{AuthToken: &newToken}, now); err != nil {
		r.logger.ErrorContext(ctx, "failed to persist rotated auth token",
			"error", err,
			"verifier_id", verifier.ID.String(),
			"verifier_did", verifier.VerifierDID,
		)
		if r.metrics != nil {
			r.metrics.IncrementFailed()
		}
		return err
	}

	span.SetAttributes(tracer.Bool(tracer.AttrTokenRotated, true))
	if r.metrics != nil {
		r.metrics.IncrementRotated()
	}
	r.publisher.Publish(ctx, events.New(events.TypeVerifierTokenRotated, verifier.VerifierDID.String(), now,
		events.VerifierTokenRotated{VerifierDID: verifier.VerifierDID.String()}))
	return nil
}
