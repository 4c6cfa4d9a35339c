package cli

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"credex/internal/issuance"
	"credex/internal/platform/config"
	fixtures "credex/pkg/testutil"
)

const upstreamBody = `{"presentationRequest":{"uuid":"9f0d7c1e-3a2b-4c5d-8e9f-0a1b2c3d4e5f","expiresAt":"2030-05-01T09:40:00Z","verifier":"did:key:z6MkVerifierPrimary"},"verifier":{"did":"did:key:z6MkVerifierPrimary"},  "deeplink":"https://unumid.co/presentationRequest/9f0d","qrCode":"data:image/png;base64,AAAA"}`

// fakeIssuance issues tok-2 on the first call and records the bearer tokens it saw.
type fakeIssuance struct {
	mu     sync.Mutex
	tokens []string
}

func (f *fakeIssuance) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.tokens = append(f.tokens, strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer "))
	f.mu.Unlock()

	w.Header().Set(issuance.AuthTokenHeader, "tok-2")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, upstreamBody)
}

func (f *fakeIssuance) seen() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.tokens...)
}

func inMemoryConfig(baseURL string) *config.Server {
	return &config.Server{
		Environment:           "test",
		Host:                  "127.0.0.1",
		Port:                  8080,
		ServerShutdownTimeout: time.Second,
		MaxRequestBodyBytes:   1 << 20,
		VerifierDID:           fixtures.TestIDs.VerifierDID.String(),
		HolderAppUUID:         fixtures.TestIDs.HolderAppUUID,
		Issuance:              config.Issuance{BaseURL: baseURL, Timeout: 5 * time.Second},
		Redis:                 config.Redis{CacheTTL: time.Minute},
		Seed:                  config.Seed{VerifierAuthToken: "tok-1"},
	}
}

func TestBuildServer_InMemory(t *testing.T) {
	upstream := &fakeIssuance{}
	ts := httptest.NewServer(upstream)
	defer ts.Close()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	in := &infra{}
	defer in.close(logger, time.Second)

	srv, err := buildServer(context.Background(), inMemoryConfig(ts.URL), logger, prometheus.NewRegistry(), in)
	require.NoError(t, err)
	h := srv.Handler()

	create := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/presentationRequest",
			strings.NewReader(`{"credentialRequests":[{"type":"EmailCredential","issuers":["did:unum:issuer1"]}],"holderAppUuid":"ignored"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		return w
	}

	first := create()
	require.Equal(t, http.StatusCreated, first.Code, first.Body.String())
	assert.Equal(t, upstreamBody, first.Body.String())

	get := httptest.NewRecorder()
	h.ServeHTTP(get, httptest.NewRequest(http.MethodGet, "/presentationRequest/9f0d7c1e-3a2b-4c5d-8e9f-0a1b2c3d4e5f", nil))
	assert.Equal(t, http.StatusOK, get.Code)
	assert.Equal(t, upstreamBody, get.Body.String())

	// The second create reuses the presentation request uuid, so storing it conflicts,
	// but the upstream call has already been made with the rotated token.
	create()
	assert.Equal(t, []string{"tok-1", "tok-2"}, upstream.seen())

	submit := httptest.NewRequest(http.MethodPost, "/presentationV2",
		strings.NewReader(`{"presentationRequestInfo":{"presentationRequest":{"uuid":"9f0d7c1e-3a2b-4c5d-8e9f-0a1b2c3d4e5f"}},"encryptedPresentation":{"data":"x"}}`))
	submit.Header.Set("Content-Type", "application/json")
	submit.Header.Set("version", "2.0.0")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, submit)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var receipt map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &receipt))
	assert.Equal(t, "v2", receipt["format"])
	assert.Equal(t, "2.0.0", receipt["version"])

	ready := httptest.NewRecorder()
	h.ServeHTTP(ready, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	assert.Equal(t, http.StatusOK, ready.Code)
}

func TestBuildServer_ProdRequiresDatabase(t *testing.T) {
	cfg := inMemoryConfig("http://127.0.0.1:1")
	cfg.Environment = "prod"

	_, err := buildServer(context.Background(), cfg, slog.New(slog.NewTextHandler(io.Discard, nil)), prometheus.NewRegistry(), &infra{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}
