package issuance

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gowebpki/jcs"
	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/lestrrat-go/jwx/v3/jws"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"credex/internal/presentationrequest/models"
	"credex/internal/presentationrequest/ports"
	"credex/pkg/testutil"
)

type ClientSuite struct {
	suite.Suite
	keyPEM   string
	now      time.Time
	received map[string]any
	header   http.Header
}

func TestClientSuite(t *testing.T) {
	suite.Run(t, new(ClientSuite))
}

func (s *ClientSuite) SetupTest() {
	s.keyPEM = testutil.ECPrivateKeyPEM(s.T())
	s.now = time.Date(2024, 7, 1, 8, 0, 0, 0, time.UTC)
	s.received = nil
	s.header = nil
}

func (s *ClientSuite) input() ports.SendInput {
	return ports.SendInput{
		AuthToken:   "tok-1",
		VerifierDID: testutil.TestIDs.VerifierDID,
		CredentialRequests: []models.CredentialRequest{
			{Type: "Email", Issuers: []string{"did:unum:issuer1"}},
		},
		SigningPrivateKey: s.keyPEM,
		HolderAppUUID:     testutil.TestIDs.HolderAppUUID,
		Metadata:          map[string]any{"fields": map[string]any{"channel": "web"}},
	}
}

// server echoes the posted request inside a signed envelope.
func (s *ClientSuite) server(status int, rotatedToken string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.Equal(http.MethodPost, r.Method)
		s.Equal("/presentationRequest", r.URL.Path)
		s.header = r.Header.Clone()

		body, err := io.ReadAll(r.Body)
		s.Require().NoError(err)
		s.Require().NoError(json.Unmarshal(body, &s.received))

		if rotatedToken != "" {
			w.Header().Set(AuthTokenHeader, rotatedToken)
		}
		w.WriteHeader(status)
		if status >= 300 {
			_, _ = w.Write([]byte(`{"error":"nope"}`))
			return
		}
		envelope := map[string]any{
			"presentationRequest": s.received,
			"verifier":            map[string]any{"did": testutil.TestIDs.VerifierDID.String(), "name": "Acme"},
			"issuers":             map[string]any{"did:unum:issuer1": map[string]any{"did": "did:unum:issuer1", "name": "Issuer One"}},
			"deeplink":            "https://unumid.co/presentationRequest/abc",
			"qrCode":              "data:image/png;base64,AAAA",
		}
		_ = json.NewEncoder(w).Encode(envelope)
	}))
}

func (s *ClientSuite) client(srv *httptest.Server) *Client {
	return NewClient(srv.URL+"/", 5*time.Second, WithClock(func() time.Time { return s.now }))
}

func (s *ClientSuite) TestSend_SignsCanonicalRequest() {
	srv := s.server(http.StatusOK, "")
	defer srv.Close()

	_, err := s.client(srv).Send(context.Background(), s.input())
	s.Require().NoError(err)

	s.Equal("Bearer tok-1", s.header.Get("Authorization"))
	s.Equal("application/json", s.header.Get("Content-Type"))

	proof, ok := s.received["proof"].(map[string]any)
	s.Require().True(ok, "proof is attached")
	s.Equal(ProofType, proof["type"])
	s.Equal(testutil.TestIDs.VerifierDID.String()+"#keys-1", proof["verificationMethod"])

	unsigned := make(map[string]any, len(s.received))
	for k, v := range s.received {
		if k != "proof" {
			unsigned[k] = v
		}
	}
	raw, err := json.Marshal(unsigned)
	s.Require().NoError(err)
	expected, err := jcs.Transform(raw)
	s.Require().NoError(err)

	priv, err := jwk.ParseKey([]byte(s.keyPEM), jwk.WithPEM(true))
	s.Require().NoError(err)
	pub, err := jwk.PublicKeyOf(priv)
	s.Require().NoError(err)

	payload, err := jws.Verify([]byte(proof["signatureValue"].(string)), jws.WithKey(jwa.ES256(), pub))
	s.Require().NoError(err)
	s.Equal(string(expected), string(payload))
}

func (s *ClientSuite) TestSend_DefaultExpiry() {
	srv := s.server(http.StatusOK, "")
	defer srv.Close()

	_, err := s.client(srv).Send(context.Background(), s.input())
	s.Require().NoError(err)
	s.Equal(s.now.Add(DefaultExpiry).Format(time.RFC3339Nano), s.received["expiresAt"])
	s.Equal(testutil.TestIDs.HolderAppUUID, s.received["holderAppUuid"])
}

func (s *ClientSuite) TestSend_ExplicitExpiry() {
	srv := s.server(http.StatusOK, "")
	defer srv.Close()

	in := s.input()
	expires := time.Date(2024, 7, 2, 0, 0, 0, 0, time.UTC)
	in.ExpiresAt = &expires

	_, err := s.client(srv).Send(context.Background(), in)
	s.Require().NoError(err)
	s.Equal(expires.Format(time.RFC3339Nano), s.received["expiresAt"])
}

func (s *ClientSuite) TestSend_RotatedTokenFromHeader() {
	srv := s.server(http.StatusCreated, "tok-2")
	defer srv.Close()

	res, err := s.client(srv).Send(context.Background(), s.input())
	s.Require().NoError(err)
	s.Equal("tok-2", res.AuthToken)
	s.Equal("https://unumid.co/presentationRequest/abc", res.Body.Deeplink)
	s.Equal(s.received["uuid"], res.Body.PresentationRequest.UUID)
	s.NotEmpty(res.Body.Raw)
}

func (s *ClientSuite) TestSend_AbsentHeaderKeepsToken() {
	srv := s.server(http.StatusOK, "")
	defer srv.Close()

	res, err := s.client(srv).Send(context.Background(), s.input())
	s.Require().NoError(err)
	s.Equal("tok-1", res.AuthToken)
}

func (s *ClientSuite) TestSend_Non2xxIsError() {
	cases := []struct {
		status   int
		category ErrorCategory
	}{
		{http.StatusUnauthorized, ErrorAuthentication},
		{http.StatusBadRequest, ErrorRejected},
		{http.StatusInternalServerError, ErrorRejected},
	}
	for _, tc := range cases {
		srv := s.server(tc.status, "tok-2")

		res, err := s.client(srv).Send(context.Background(), s.input())
		srv.Close()

		s.Nil(res)
		var perr *ProtocolError
		s.Require().True(errors.As(err, &perr), "status %d", tc.status)
		s.Equal(tc.category, perr.Category)
		s.Equal(tc.status, perr.StatusCode)
	}
}

func (s *ClientSuite) TestSend_InvalidKeyNeverCallsUpstream() {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	in := s.input()
	in.SigningPrivateKey = "not a pem"

	_, err := s.client(srv).Send(context.Background(), in)
	var perr *ProtocolError
	s.Require().ErrorAs(err, &perr)
	s.Equal(ErrorSigning, perr.Category)
	s.False(called)
}

func (s *ClientSuite) TestSend_MalformedBody() {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"deeplink":"x"}`))
	}))
	defer srv.Close()

	_, err := s.client(srv).Send(context.Background(), s.input())
	var perr *ProtocolError
	s.Require().ErrorAs(err, &perr)
	s.Equal(ErrorBadResponse, perr.Category)
}

func TestCanonicalize_SortsKeys(t *testing.T) {
	out, err := Canonicalize(map[string]any{"b": 1, "a": []string{"x"}})
	require.NoError(t, err)
	assert.Equal(t, `{"a":["x"],"b":1}`, string(out))
}

func TestProtocolError_Message(t *testing.T) {
	err := newError(ErrorRejected, 502, "presentation request rejected", errors.New("boom"))
	assert.Equal(t, "issuance [rejected]: presentation request rejected (status 502): boom", err.Error())
}
