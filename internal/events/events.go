// Package events defines the domain events emitted after accepted operations
// and the publishers that ship them.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	TypePresentationRequestCreated Type = "presentation_request.created"
	TypePresentationSubmitted      Type = "presentation.submitted"
	TypeVerifierTokenRotated       Type = "verifier.token_rotated"
)

// Event is the envelope written to the events topic. Key is the aggregate id
// and becomes the record key so events for one aggregate stay ordered.
type Event struct {
	ID         string    `json:"id"`
	Type       Type      `json:"type"`
	Key        string    `json:"-"`
	OccurredAt time.Time `json:"occurredAt"`
	RequestID  string    `json:"requestId,omitempty"`
	Data       any       `json:"data"`
}

// Publisher hands events off for delivery. Publish never blocks on the broker
// and never fails the caller.
type Publisher interface {
	Publish(ctx context.Context, evt Event)
}

type PresentationRequestCreated struct {
	PresentationRequestID string    `json:"presentationRequestId"`
	VerifierDID           string    `json:"verifierDid"`
	HolderAppUUID         string    `json:"holderAppUuid"`
	ExpiresAt             time.Time `json:"expiresAt"`
}

type PresentationSubmitted struct {
	SubmissionID string `json:"submissionId"`
	Version      string `json:"version"`
	Format       string `json:"format"`
}

// VerifierTokenRotated carries the verifier DID only. The token stays in the store.
type VerifierTokenRotated struct {
	VerifierDID string `json:"verifierDid"`
}

// New stamps an event with a fresh id.
func New(t Type, key string, at time.Time, data any) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       t,
		Key:        key,
		OccurredAt: at.UTC(),
		Data:       data,
	}
}

// NoopPublisher discards events. Used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, Event) {}

var _ Publisher = NoopPublisher{}
