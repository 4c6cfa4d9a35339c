package models

import (
	"time"

	id "credex/pkg/domain"
)

// Verifier is the party that issues presentation requests. Its identity is
// VerifierDID. AuthToken is opaque and compared only for equality.
type Verifier struct {
	ID                id.VerifierID
	VerifierDID       id.DID
	AuthToken         string
	SigningPrivateKey string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Filter selects a single Verifier.
type Filter struct {
	VerifierDID id.DID
}

// Patch lists the fields to overwrite; nil fields are left untouched.
type Patch struct {
	AuthToken *string
}

func (p Patch) IsEmpty() bool {
	return p.AuthToken == nil
}
