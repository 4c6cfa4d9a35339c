package service

import (
	"context"
	"log/slog"

	"credex/internal/presentationrequest/models"
	"credex/internal/presentationrequest/ports"
	dErrors "credex/pkg/domain-errors"
)

// Sender turns a validated creation input into a signed presentation request
// using the current verifier's credentials.
type Sender struct {
	tokens        VerifierTokens
	client        ports.IssuanceClient
	holderAppUUID string
	logger        *slog.Logger
}

// NewSender stamps holderAppUUID onto every outbound request, whatever the input carries.
func NewSender(tokens VerifierTokens, client ports.IssuanceClient, holderAppUUID string, logger *slog.Logger) *Sender {
	return &Sender{
		tokens:        tokens,
		client:        client,
		holderAppUUID: holderAppUUID,
		logger:        logger,
	}
}

// Send requires c.Validated. The issuance call and the token rotation that
// follows it run detached from request cancellation, so a client disconnect
// cannot strand a token the upstream has already rotated.
func (s *Sender) Send(ctx context.Context, c *models.CreateContext) error {
	if !c.Validated {
		s.logger.ErrorContext(ctx, "send-request ran on an unvalidated context; validate-request must precede it")
		return dErrors.New(dErrors.CodePrecondition, "hook context has not been validated")
	}

	verifier, err := s.tokens.CurrentVerifier(ctx, "")
	if err != nil {
		return err
	}

	detached := context.WithoutCancel(ctx)
	res, err := s.client.Send(detached, ports.SendInput{
		AuthToken:          verifier.AuthToken,
		VerifierDID:        verifier.VerifierDID,
		CredentialRequests: c.Input.CredentialRequests,
		SigningPrivateKey:  verifier.SigningPrivateKey,
		HolderAppUUID:      s.holderAppUUID,
		ExpiresAt:          c.Input.ExpiresAt,
		Metadata:           c.Input.Metadata,
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "issuance protocol call failed",
			"error", err,
			"verifier_did", verifier.VerifierDID,
		)
		return dErrors.WrapAs(err, dErrors.CodeUpstream, "Error sending request")
	}

	if err := s.tokens.RotateIfChanged(detached, verifier, res.AuthToken); err != nil {
		return err
	}

	c.Result = res.Body
	return nil
}
