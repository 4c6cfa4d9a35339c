package models

import (
	"bytes"
	"encoding/json"
	"time"

	id "credex/pkg/domain"
)

// WireFormat names the payload generation a submission was encoded with.
// It is resolved once from the version header and never inferred from the body.
type WireFormat string

const (
	FormatV2      WireFormat = "v2"
	FormatCurrent WireFormat = "current"
)

func (f WireFormat) String() string { return string(f) }

// Submission is the body of POST /presentationV2. Version is stamped from the
// transport header; any value in the body is discarded.
type Submission struct {
	PresentationRequestInfo json.RawMessage `json:"presentationRequestInfo"`
	EncryptedPresentation   json.RawMessage `json:"encryptedPresentation"`
	Version                 string          `json:"-"`
}

// SubmitContext flows through the before-submit pipeline.
type SubmitContext struct {
	Submission    *Submission
	VersionHeader string
	Validated     bool
	Format        WireFormat
}

// Record is a stored submission. The encrypted payload is kept opaque.
type Record struct {
	ID                      id.SubmissionID
	Version                 string
	Format                  WireFormat
	PresentationRequestID   string
	PresentationRequestInfo json.RawMessage
	EncryptedPresentation   json.RawMessage
	ReceivedAt              time.Time
}

// Receipt acknowledges an accepted submission.
type Receipt struct {
	ID         string     `json:"id"`
	Version    string     `json:"version"`
	Format     WireFormat `json:"format"`
	ReceivedAt time.Time  `json:"receivedAt"`
}

func NewReceipt(r *Record) *Receipt {
	return &Receipt{
		ID:         r.ID.String(),
		Version:    r.Version,
		Format:     r.Format,
		ReceivedAt: r.ReceivedAt,
	}
}

// IsAbsent reports whether a raw field was omitted, null or empty.
func IsAbsent(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 ||
		bytes.Equal(trimmed, []byte("null")) ||
		bytes.Equal(trimmed, []byte(`""`))
}
