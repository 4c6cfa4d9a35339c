package service

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"credex/internal/events"
	"credex/internal/presentationrequest/metrics"
	"credex/internal/presentationrequest/models"
	"credex/internal/presentationrequest/ports"
	portmocks "credex/internal/presentationrequest/ports/mocks"
	"credex/internal/presentationrequest/service/mocks"
	"credex/internal/presentationrequest/store"
	"credex/internal/sentinel"
	verifiermodels "credex/internal/verifier/models"
	verifierservice "credex/internal/verifier/service"
	verifiermocks "credex/internal/verifier/service/mocks"
	id "credex/pkg/domain"
	dErrors "credex/pkg/domain-errors"
	"credex/pkg/requestcontext"
	fixtures "credex/pkg/testutil"
)

const signedBody = `{"presentationRequest":{"uuid":"9f0d7c1e-3a2b-4c5d-8e9f-0a1b2c3d4e5f","createdAt":"2024-05-01T09:30:00Z","updatedAt":"2024-05-01T09:30:00Z","expiresAt":"2030-05-01T09:40:00Z","verifier":"did:key:z6MkVerifierPrimary","credentialRequests":[{"type":"Email","issuers":["did:unum:issuer1"]}],"proof":{"signatureValue":"sig"},"holderAppUuid":"5f8b9a3e-7c1d-4e2a-9b6f-0a1b2c3d4e5f"},"verifier":{"did":"did:key:z6MkVerifierPrimary"},"issuers":{},"deeplink":"https://unumid.co/presentationRequest/9f0d","qrCode":"data:image/png;base64,AAAA"}`

// ServiceSuite exercises the before-create pipeline with the real rotator
// over a mocked verifier store and a mocked issuance client.
type ServiceSuite struct {
	suite.Suite
	ctrl          *gomock.Controller
	verifierStore *verifiermocks.MockStore
	issuance      *portmocks.MockIssuanceClient
	publisher     *mocks.MockEventPublisher
	store         *store.InMemoryStore
	metrics       *metrics.Metrics
	logs          *bytes.Buffer
	service       *Service
	verifier      *verifiermodels.Verifier
	ctx           context.Context
	now           time.Time
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.verifierStore = verifiermocks.NewMockStore(s.ctrl)
	s.issuance = portmocks.NewMockIssuanceClient(s.ctrl)
	s.publisher = mocks.NewMockEventPublisher(s.ctrl)
	s.store = store.NewInMemoryStore()
	s.metrics = metrics.New(prometheus.NewRegistry())
	s.logs = &bytes.Buffer{}
	logger := slog.New(slog.NewJSONHandler(s.logs, nil))

	rotator := verifierservice.NewRotator(s.verifierStore, fixtures.TestIDs.VerifierDID, logger)
	s.service = NewService(s.store, rotator, s.issuance, fixtures.TestIDs.HolderAppUUID, logger,
		WithMetrics(s.metrics),
		WithPublisher(s.publisher),
	)
	s.verifier = fixtures.NewVerifierBuilder().Build()
	s.now = time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)
	s.ctx = requestcontext.WithTime(context.Background(), s.now)
}

func (s *ServiceSuite) signed(token string) *ports.SendResult {
	body, err := models.ParseResult([]byte(signedBody))
	s.Require().NoError(err)
	return &ports.SendResult{Body: body, AuthToken: token}
}

func (s *ServiceSuite) input() *models.CreateInput {
	return &models.CreateInput{
		CredentialRequests: []models.CredentialRequest{
			{Type: "Email", Issuers: []string{"did:unum:issuer1"}},
		},
		HolderAppUUID: "app-123",
	}
}

func (s *ServiceSuite) TestSteps() {
	s.Equal([]string{StepValidateRequest, StepSendRequest}, s.service.Steps())
}

func (s *ServiceSuite) TestCreate_RotatedTokenIsPatchedOnce() {
	s.verifierStore.EXPECT().Get(gomock.Any(), verifiermodels.Filter{VerifierDID: fixtures.TestIDs.VerifierDID}).Return(s.verifier, nil)
	s.issuance.EXPECT().Send(gomock.Any(), gomock.Any()).Return(s.signed("tok-2"), nil)
	token := "tok-2"
	s.verifierStore.EXPECT().Patch(gomock.Any(), s.verifier.ID, verifiermodels.Patch{AuthToken: &token}, s.now).Return(nil).Times(1)
	s.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).
		Do(func(_ context.Context, evt events.Event) {
			s.Equal(events.TypePresentationRequestCreated, evt.Type)
			s.Equal("9f0d7c1e-3a2b-4c5d-8e9f-0a1b2c3d4e5f", evt.Key)
		})

	res, err := s.service.Create(s.ctx, s.input())
	s.Require().NoError(err)
	s.JSONEq(signedBody, string(res.Raw))
	s.Equal(signedBody, string(res.Raw), "returned unmodified")
	s.Equal(1.0, testutil.ToFloat64(s.metrics.Created))
}

func (s *ServiceSuite) TestCreate_UnchangedTokenNeverPatches() {
	s.verifierStore.EXPECT().Get(gomock.Any(), gomock.Any()).Return(s.verifier, nil)
	s.issuance.EXPECT().Send(gomock.Any(), gomock.Any()).Return(s.signed("tok-1"), nil)
	s.verifierStore.EXPECT().Patch(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
	s.publisher.EXPECT().Publish(gomock.Any(), gomock.Any())

	res, err := s.service.Create(s.ctx, s.input())
	s.Require().NoError(err)
	s.Equal(signedBody, string(res.Raw))
}

func (s *ServiceSuite) TestCreate_SendsVerifierCredentialsAndConfiguredHolder() {
	expires := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	in := s.input()
	in.ExpiresAt = &expires
	in.Metadata = map[string]any{"fields": "x"}

	s.verifierStore.EXPECT().Get(gomock.Any(), gomock.Any()).Return(s.verifier, nil)
	s.issuance.EXPECT().Send(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, got ports.SendInput) (*ports.SendResult, error) {
			s.Equal("tok-1", got.AuthToken)
			s.Equal(s.verifier.VerifierDID, got.VerifierDID)
			s.Equal(s.verifier.SigningPrivateKey, got.SigningPrivateKey)
			s.Equal(fixtures.TestIDs.HolderAppUUID, got.HolderAppUUID, "configured holder app, not the input's")
			s.Equal(in.CredentialRequests, got.CredentialRequests)
			s.Equal(&expires, got.ExpiresAt)
			s.Equal(in.Metadata, got.Metadata)
			return s.signed("tok-1"), nil
		})
	s.publisher.EXPECT().Publish(gomock.Any(), gomock.Any())

	_, err := s.service.Create(s.ctx, in)
	s.Require().NoError(err)
}

func (s *ServiceSuite) TestCreate_UpstreamFailure() {
	cause := errors.New("connection reset by peer")
	s.verifierStore.EXPECT().Get(gomock.Any(), gomock.Any()).Return(s.verifier, nil)
	s.issuance.EXPECT().Send(gomock.Any(), gomock.Any()).Return(nil, cause).Times(1)
	s.verifierStore.EXPECT().Patch(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	_, err := s.service.Create(s.ctx, s.input())
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeUpstream))
	s.Equal("Error sending request", err.Error())
	s.ErrorIs(err, cause)
	s.Equal(1, strings.Count(s.logs.String(), "issuance protocol call failed"), "logged exactly once")
	s.Equal(1.0, testutil.ToFloat64(s.metrics.CreateFailed.WithLabelValues(string(dErrors.CodeUpstream))))
}

func (s *ServiceSuite) TestCreate_UpstreamDomainCodeIsReplaced() {
	s.verifierStore.EXPECT().Get(gomock.Any(), gomock.Any()).Return(s.verifier, nil)
	s.issuance.EXPECT().Send(gomock.Any(), gomock.Any()).Return(nil, dErrors.New(dErrors.CodeValidation, "upstream said no"))

	_, err := s.service.Create(s.ctx, s.input())
	s.Equal(dErrors.CodeUpstream, dErrors.CodeOf(err))
}

func (s *ServiceSuite) TestCreate_PatchFailureSurfacesUnchanged() {
	patchErr := errors.New("could not serialize access")
	s.verifierStore.EXPECT().Get(gomock.Any(), gomock.Any()).Return(s.verifier, nil)
	s.issuance.EXPECT().Send(gomock.Any(), gomock.Any()).Return(s.signed("tok-2"), nil)
	s.verifierStore.EXPECT().Patch(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(patchErr)

	_, err := s.service.Create(s.ctx, s.input())
	s.Same(patchErr, err)
	s.Contains(s.logs.String(), "failed to persist rotated auth token")
}

func (s *ServiceSuite) TestCreate_UnknownVerifier() {
	s.verifierStore.EXPECT().Get(gomock.Any(), gomock.Any()).Return(nil, sentinel.ErrNotFound)

	_, err := s.service.Create(s.ctx, s.input())
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *ServiceSuite) TestCreate_ValidationFailureNeverCallsUpstream() {
	_, err := s.service.Create(s.ctx, nil)
	s.Require().Error(err)
	s.Equal("data is required", err.Error())
}

func (s *ServiceSuite) TestCreate_DisconnectedClientDoesNotAbortSend() {
	ctx, cancel := context.WithCancel(s.ctx)

	s.verifierStore.EXPECT().Get(gomock.Any(), gomock.Any()).Return(s.verifier, nil)
	s.issuance.EXPECT().Send(gomock.Any(), gomock.Any()).
		DoAndReturn(func(sendCtx context.Context, _ ports.SendInput) (*ports.SendResult, error) {
			cancel()
			s.NoError(sendCtx.Err(), "send context is detached from the request")
			return s.signed("tok-1"), nil
		})
	s.publisher.EXPECT().Publish(gomock.Any(), gomock.Any())

	_, err := s.service.Create(ctx, s.input())
	s.NoError(err)
}

func (s *ServiceSuite) TestCreate_PersistsRecord() {
	s.verifierStore.EXPECT().Get(gomock.Any(), gomock.Any()).Return(s.verifier, nil)
	s.issuance.EXPECT().Send(gomock.Any(), gomock.Any()).Return(s.signed("tok-1"), nil)
	s.publisher.EXPECT().Publish(gomock.Any(), gomock.Any())

	res, err := s.service.Create(s.ctx, s.input())
	s.Require().NoError(err)

	prID, err := id.ParsePresentationRequestID(res.PresentationRequest.UUID)
	s.Require().NoError(err)
	rec, err := s.service.Get(s.ctx, prID)
	s.Require().NoError(err)
	s.Equal(signedBody, string(rec.Body))
	s.Equal("https://unumid.co/presentationRequest/9f0d", rec.Deeplink)
	s.Equal(s.now, rec.CreatedAt)
}

func (s *ServiceSuite) TestGet_NotFound() {
	_, err := s.service.Get(s.ctx, id.NewPresentationRequestID())
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}
