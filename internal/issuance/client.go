// Package issuance is the HTTP client for the issuance protocol. It builds the
// unsigned presentation request, signs it with the verifier's key and posts it
// upstream, which returns the final signed object.
package issuance

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"credex/internal/platform/tracer"
	"credex/internal/presentationrequest/models"
	"credex/internal/presentationrequest/ports"
)

const (
	// AuthTokenHeader carries the rotated verifier token on responses.
	AuthTokenHeader = "x-auth-token"

	DefaultExpiry = 10 * time.Minute

	maxResponseBytes = 1 << 20
	proofPurpose     = "AssertionMethod"
)

var _ ports.IssuanceClient = (*Client)(nil)

// HTTPDoer is the minimal interface needed from an HTTP client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

type Option func(*Client)

// WithHTTPClient sets a custom HTTP client (for testing).
func WithHTTPClient(doer HTTPDoer) Option {
	return func(c *Client) {
		c.httpClient = doer
	}
}

func WithTracer(t tracer.Tracer) Option {
	return func(c *Client) {
		c.tracer = t
	}
}

// WithClock overrides the time source used for createdAt and the default expiry.
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		c.now = now
	}
}

type Client struct {
	baseURL    string
	httpClient HTTPDoer
	tracer     tracer.Tracer
	now        func() time.Time
}

// NewClient targets baseURL. timeout bounds each request end to end.
func NewClient(baseURL string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		tracer:     tracer.NewNoop(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type unsignedRequest struct {
	UUID               string                     `json:"uuid"`
	CreatedAt          time.Time                  `json:"createdAt"`
	UpdatedAt          time.Time                  `json:"updatedAt"`
	ExpiresAt          time.Time                  `json:"expiresAt"`
	Verifier           string                     `json:"verifier"`
	CredentialRequests []models.CredentialRequest `json:"credentialRequests"`
	Metadata           map[string]any             `json:"metadata,omitempty"`
	HolderAppUUID      string                     `json:"holderAppUuid"`
}

type signedRequest struct {
	unsignedRequest
	Proof models.Proof `json:"proof"`
}

// Send builds, signs and posts one presentation request. It makes a single attempt.
func (c *Client) Send(ctx context.Context, in ports.SendInput) (result *ports.SendResult, err error) {
	ctx, span := c.tracer.Start(ctx, tracer.SpanIssuanceSend,
		tracer.String(tracer.AttrVerifierDID, in.VerifierDID.String()),
	)
	defer func() { span.End(err) }()

	req, err := c.buildSigned(in)
	if err != nil {
		return nil, err
	}
	body, err := json.Marshal(req)
	if err != nil {
		return nil, newError(ErrorSigning, 0, "failed to marshal request", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/presentationRequest", bytes.NewReader(body))
	if err != nil {
		return nil, newError(ErrorTransport, 0, "failed to create request", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+in.AuthToken)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, newError(ErrorTimeout, 0, "request timeout", err)
		}
		return nil, newError(ErrorTransport, 0, "failed to execute request", err)
	}
	defer resp.Body.Close()
	span.SetAttributes(tracer.Int64(tracer.AttrHTTPStatus, int64(resp.StatusCode)))

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, newError(ErrorBadResponse, resp.StatusCode, "failed to read response", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, newError(ErrorAuthentication, resp.StatusCode, "verifier token rejected", nil)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, newError(ErrorRejected, resp.StatusCode, "presentation request rejected", nil)
	}

	signed, err := models.ParseResult(respBody)
	if err != nil {
		return nil, newError(ErrorBadResponse, resp.StatusCode, "failed to parse response", err)
	}

	token := resp.Header.Get(AuthTokenHeader)
	if token == "" {
		token = in.AuthToken
	}
	return &ports.SendResult{Body: signed, AuthToken: token}, nil
}

func (c *Client) buildSigned(in ports.SendInput) (*signedRequest, error) {
	now := c.now().UTC().Truncate(time.Millisecond)
	expiresAt := now.Add(DefaultExpiry)
	if in.ExpiresAt != nil {
		expiresAt = in.ExpiresAt.UTC()
	}

	unsigned := unsignedRequest{
		UUID:               uuid.NewString(),
		CreatedAt:          now,
		UpdatedAt:          now,
		ExpiresAt:          expiresAt,
		Verifier:           in.VerifierDID.String(),
		CredentialRequests: in.CredentialRequests,
		Metadata:           in.Metadata,
		HolderAppUUID:      in.HolderAppUUID,
	}

	keyID := fmt.Sprintf("%s#keys-1", in.VerifierDID)
	signature, err := Sign(unsigned, in.SigningPrivateKey, keyID)
	if err != nil {
		return nil, newError(ErrorSigning, 0, "failed to sign presentation request", err)
	}

	return &signedRequest{
		unsignedRequest: unsigned,
		Proof: models.Proof{
			Created:            now,
			Type:               ProofType,
			VerificationMethod: keyID,
			ProofPurpose:       proofPurpose,
			SignatureValue:     signature,
		},
	}, nil
}
