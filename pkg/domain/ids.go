// Package domain provides type-safe identifiers to prevent mixing up IDs at compile time.
package domain

import (
	"strings"

	"github.com/google/uuid"

	dErrors "credex/pkg/domain-errors"
)

// Distinct ID types - compiler prevents passing a VerifierID where a SubmissionID is expected.
type (
	VerifierID            uuid.UUID
	PresentationRequestID uuid.UUID
	SubmissionID          uuid.UUID
)

// DID is a decentralized identifier naming a Verifier, Issuer or Holder (e.g. "did:unum:...").
type DID string

const didScheme = "did:"

// Constructors - new random identifiers.

func NewVerifierID() VerifierID                       { return VerifierID(uuid.New()) }
func NewPresentationRequestID() PresentationRequestID { return PresentationRequestID(uuid.New()) }
func NewSubmissionID() SubmissionID                   { return SubmissionID(uuid.New()) }

// Parse functions - use at trust boundaries (handlers, CLI flags, store rows).

func ParseVerifierID(s string) (VerifierID, error) {
	id, err := parseUUID(s, "verifier ID")
	return VerifierID(id), err
}

func ParsePresentationRequestID(s string) (PresentationRequestID, error) {
	id, err := parseUUID(s, "presentation request ID")
	return PresentationRequestID(id), err
}

func ParseSubmissionID(s string) (SubmissionID, error) {
	id, err := parseUUID(s, "submission ID")
	return SubmissionID(id), err
}

// ParseDID checks the did: scheme and that a method-specific part follows it.
func ParseDID(s string) (DID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "DID cannot be empty")
	}
	rest, ok := strings.CutPrefix(s, didScheme)
	if !ok || !strings.Contains(rest, ":") || strings.HasSuffix(rest, ":") || strings.HasPrefix(rest, ":") {
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid DID format")
	}
	return DID(s), nil
}

// String methods - for logging and debugging.

func (id VerifierID) String() string            { return uuid.UUID(id).String() }
func (id PresentationRequestID) String() string { return uuid.UUID(id).String() }
func (id SubmissionID) String() string          { return uuid.UUID(id).String() }
func (d DID) String() string                    { return string(d) }

// IsNil checks - used for service-layer validation.

func (id VerifierID) IsNil() bool            { return uuid.UUID(id) == uuid.Nil }
func (id PresentationRequestID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id SubmissionID) IsNil() bool          { return uuid.UUID(id) == uuid.Nil }
func (d DID) IsNil() bool                    { return d == "" }

// parseUUID is the shared validation logic.
func parseUUID(s, label string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, label+" cannot be empty")
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+label+" format")
	}
	if id == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, label+" cannot be nil")
	}
	return id, nil
}
