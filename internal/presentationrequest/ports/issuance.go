// Package ports declares the outbound contracts of the presentation request module.
package ports

//go:generate mockgen -source=issuance.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"time"

	"credex/internal/presentationrequest/models"
	id "credex/pkg/domain"
)

// SendInput carries everything the issuance protocol needs to build and sign
// a presentation request on behalf of a verifier.
type SendInput struct {
	AuthToken          string
	VerifierDID        id.DID
	CredentialRequests []models.CredentialRequest
	SigningPrivateKey  string
	HolderAppUUID      string
	ExpiresAt          *time.Time
	Metadata           map[string]any
}

// SendResult is the signed object plus the auth token to use from now on.
type SendResult struct {
	Body      *models.Result
	AuthToken string
}

// IssuanceClient sends presentation requests to the issuance protocol.
// Send makes exactly one attempt.
type IssuanceClient interface {
	Send(ctx context.Context, in SendInput) (*SendResult, error)
}
