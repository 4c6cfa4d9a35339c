package models

import (
	"encoding/json"
	"fmt"
	"time"

	id "credex/pkg/domain"
)

// CredentialRequest asks for one credential type from any of the listed issuers.
type CredentialRequest struct {
	Type     string   `json:"type"`
	Issuers  []string `json:"issuers"`
	Required *bool    `json:"required,omitempty"`
}

// CreateInput is the body of a presentation request creation call.
// A nil CredentialRequests slice means the field was absent.
type CreateInput struct {
	CredentialRequests []CredentialRequest `json:"credentialRequests"`
	HolderAppUUID      string              `json:"holderAppUuid"`
	Metadata           map[string]any      `json:"metadata,omitempty"`
	ExpiresAt          *time.Time          `json:"expiresAt,omitempty"`
}

// CreateContext travels through the before-create pipeline.
// Validated is set by the request validator and required by the sender,
// which replaces Result with the signed object.
type CreateContext struct {
	Input     *CreateInput
	Validated bool
	Result    *Result
}

// Result is the signed presentation request returned by the issuance protocol.
// Raw holds the exact upstream bytes; the remaining fields are a read-only view.
type Result struct {
	Raw                 json.RawMessage       `json:"-"`
	PresentationRequest PresentationRequest   `json:"presentationRequest"`
	Verifier            VerifierInfo          `json:"verifier"`
	Issuers             map[string]IssuerInfo `json:"issuers"`
	Deeplink            string                `json:"deeplink"`
	QRCode              string                `json:"qrCode"`
}

type PresentationRequest struct {
	UUID               string              `json:"uuid"`
	CreatedAt          time.Time           `json:"createdAt"`
	UpdatedAt          time.Time           `json:"updatedAt"`
	ExpiresAt          *time.Time          `json:"expiresAt,omitempty"`
	Verifier           string              `json:"verifier"`
	CredentialRequests []CredentialRequest `json:"credentialRequests"`
	Proof              Proof               `json:"proof"`
	Metadata           map[string]any      `json:"metadata,omitempty"`
	HolderAppUUID      string              `json:"holderAppUuid"`
}

type Proof struct {
	Created            time.Time `json:"created"`
	Type               string    `json:"type"`
	VerificationMethod string    `json:"verificationMethod"`
	ProofPurpose       string    `json:"proofPurpose"`
	SignatureValue     string    `json:"signatureValue"`
}

type VerifierInfo struct {
	DID  string `json:"did"`
	Name string `json:"name,omitempty"`
	URL  string `json:"url,omitempty"`
}

type IssuerInfo struct {
	DID  string `json:"did"`
	Name string `json:"name,omitempty"`
}

// ParseResult decodes the typed view of raw and keeps raw verbatim.
func ParseResult(raw []byte) (*Result, error) {
	var r Result
	if err := json.Unmarshal(raw, &r); err != nil {
		return nil, fmt.Errorf("decode presentation request: %w", err)
	}
	if r.PresentationRequest.UUID == "" {
		return nil, fmt.Errorf("presentation request has no uuid")
	}
	r.Raw = append(json.RawMessage(nil), raw...)
	return &r, nil
}

// MarshalJSON returns Raw so the signed object reaches callers byte for byte.
func (r Result) MarshalJSON() ([]byte, error) {
	if len(r.Raw) == 0 {
		return nil, fmt.Errorf("presentation request result has no raw body")
	}
	return r.Raw, nil
}

// Record is the stored form of a created presentation request.
type Record struct {
	ID            id.PresentationRequestID
	VerifierDID   id.DID
	HolderAppUUID string
	ExpiresAt     *time.Time
	Deeplink      string
	QRCode        string
	Body          json.RawMessage
	CreatedAt     time.Time
}

// NewRecord derives the stored form from a signed result.
func NewRecord(r *Result, createdAt time.Time) (*Record, error) {
	prID, err := id.ParsePresentationRequestID(r.PresentationRequest.UUID)
	if err != nil {
		return nil, fmt.Errorf("presentation request uuid: %w", err)
	}
	return &Record{
		ID:            prID,
		VerifierDID:   id.DID(r.PresentationRequest.Verifier),
		HolderAppUUID: r.PresentationRequest.HolderAppUUID,
		ExpiresAt:     r.PresentationRequest.ExpiresAt,
		Deeplink:      r.Deeplink,
		QRCode:        r.QRCode,
		Body:          r.Raw,
		CreatedAt:     createdAt,
	}, nil
}
