package service

import (
	"context"
	"errors"
	"time"

	"credex/internal/issuance"
	"credex/internal/sentinel"
	"credex/internal/verifier/models"
	id "credex/pkg/domain"
	dErrors "credex/pkg/domain-errors"
	"credex/pkg/validation"
)

// Creator inserts a new Verifier. It returns sentinel.ErrConflict when the DID is taken.
type Creator interface {
	Create(ctx context.Context, verifier *models.Verifier) error
}

type RegisterInput struct {
	VerifierDID       string `json:"did" validate:"required,did"`
	AuthToken         string `json:"authToken" validate:"required,notblank"`
	SigningPrivateKey string `json:"signingPrivateKey" validate:"required,notblank"`
}

// Register validates in and stores a new Verifier created at now.
func Register(ctx context.Context, store Creator, in RegisterInput, now time.Time) (*models.Verifier, error) {
	if err := validation.Validate(&in); err != nil {
		return nil, err
	}
	if _, err := issuance.ParseSigningKey(in.SigningPrivateKey); err != nil {
		return nil, dErrors.WrapAs(err, dErrors.CodeInvalidInput, "signingPrivateKey must be in PEM encoded EC private key form")
	}

	verifier := &models.Verifier{
		ID:                id.NewVerifierID(),
		VerifierDID:       id.DID(in.VerifierDID),
		AuthToken:         in.AuthToken,
		SigningPrivateKey: in.SigningPrivateKey,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := store.Create(ctx, verifier); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.Wrap(err, dErrors.CodeConflict, "verifier already registered")
		}
		return nil, err
	}
	return verifier, nil
}
