package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"credex/internal/events"
	"credex/internal/presentation/metrics"
	"credex/internal/presentation/models"
	"credex/internal/presentation/service/mocks"
	"credex/internal/sentinel"
	id "credex/pkg/domain"
	dErrors "credex/pkg/domain-errors"
	"credex/pkg/requestcontext"
)

type ServiceSuite struct {
	suite.Suite
	ctrl      *gomock.Controller
	store     *mocks.MockStore
	publisher *mocks.MockEventPublisher
	metrics   *metrics.Metrics
	logs      *bytes.Buffer
	service   *Service
	ctx       context.Context
	now       time.Time
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.store = mocks.NewMockStore(s.ctrl)
	s.publisher = mocks.NewMockEventPublisher(s.ctrl)
	s.metrics = metrics.New(prometheus.NewRegistry())
	s.logs = &bytes.Buffer{}
	s.service = NewService(s.store, slog.New(slog.NewJSONHandler(s.logs, nil)),
		WithMetrics(s.metrics),
		WithPublisher(s.publisher),
	)
	s.now = time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)
	s.ctx = requestcontext.WithTime(context.Background(), s.now)
}

func (s *ServiceSuite) TestSteps() {
	s.Equal([]string{StepVersionGate}, s.service.Steps())
}

func (s *ServiceSuite) TestSubmit_V2() {
	var saved *models.Record
	s.store.EXPECT().Save(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, r *models.Record) error {
		saved = r
		return nil
	})
	s.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Do(func(_ context.Context, evt events.Event) {
		s.Equal(events.TypePresentationSubmitted, evt.Type)
		s.Equal(saved.ID.String(), evt.Key)
		s.Equal(events.PresentationSubmitted{
			SubmissionID: saved.ID.String(),
			Version:      "2.5.3",
			Format:       "v2",
		}, evt.Data)
	})

	receipt, err := s.service.Submit(s.ctx, validSubmission(), "2.5.3")
	s.Require().NoError(err)

	s.Equal(saved.ID.String(), receipt.ID)
	s.Equal("2.5.3", receipt.Version)
	s.Equal(models.FormatV2, receipt.Format)
	s.Equal(s.now, receipt.ReceivedAt)
	s.Equal("9f0d7c1e-3a2b-4c5d-8e9f-0a1b2c3d4e5f", saved.PresentationRequestID)
	s.JSONEq(`{"data":"ciphertext","key":{"iv":"x"}}`, string(saved.EncryptedPresentation))
	s.Equal(1.0, testutil.ToFloat64(s.metrics.Accepted.WithLabelValues("v2")))
}

func (s *ServiceSuite) TestSubmit_CurrentReadsID() {
	sub := &models.Submission{
		PresentationRequestInfo: json.RawMessage(`{"presentationRequest":{"id":"pr-3","uuid":"legacy"}}`),
		EncryptedPresentation:   json.RawMessage(`{"data":"x"}`),
	}
	s.store.EXPECT().Save(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, r *models.Record) error {
		s.Equal(models.FormatCurrent, r.Format)
		s.Equal("pr-3", r.PresentationRequestID)
		return nil
	})
	s.publisher.EXPECT().Publish(gomock.Any(), gomock.Any())

	receipt, err := s.service.Submit(s.ctx, sub, "3.0.0")
	s.Require().NoError(err)
	s.Equal(models.FormatCurrent, receipt.Format)
}

func (s *ServiceSuite) TestSubmit_GateFailureStoresNothing() {
	_, err := s.service.Submit(s.ctx, validSubmission(), "1.9.9")

	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeUnsupportedVersion))
	s.Equal(1.0, testutil.ToFloat64(s.metrics.Rejected.WithLabelValues(string(dErrors.CodeUnsupportedVersion))))
	s.Empty(s.logs.String())
}

func (s *ServiceSuite) TestSubmit_MissingBody() {
	_, err := s.service.Submit(s.ctx, nil, "2.0.0")

	s.Require().Error(err)
	s.Equal("data is required", err.Error())
}

func (s *ServiceSuite) TestSubmit_ShapeMismatch() {
	sub := &models.Submission{
		PresentationRequestInfo: json.RawMessage(`"just a string"`),
		EncryptedPresentation:   json.RawMessage(`{"data":"x"}`),
	}

	_, err := s.service.Submit(s.ctx, sub, "2.0.0")

	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
}

func (s *ServiceSuite) TestSubmit_SaveFailure() {
	cause := errors.New("connection reset")
	s.store.EXPECT().Save(gomock.Any(), gomock.Any()).Return(cause)

	_, err := s.service.Submit(s.ctx, validSubmission(), "2.0.0")

	s.Require().Error(err)
	s.ErrorIs(err, cause)
	s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	s.Contains(s.logs.String(), "failed to save presentation")
}

func (s *ServiceSuite) TestSubmit_SavesOnDetachedContext() {
	ctx, cancel := context.WithCancel(s.ctx)
	s.store.EXPECT().Save(gomock.Any(), gomock.Any()).DoAndReturn(func(saveCtx context.Context, _ *models.Record) error {
		cancel()
		s.NoError(saveCtx.Err())
		return nil
	})
	s.publisher.EXPECT().Publish(gomock.Any(), gomock.Any())

	_, err := s.service.Submit(ctx, validSubmission(), "2.0.0")
	s.Require().NoError(err)
}

func (s *ServiceSuite) TestReceipt() {
	subID := id.NewSubmissionID()
	s.store.EXPECT().Get(gomock.Any(), subID).Return(&models.Record{
		ID: subID, Version: "2.0.0", Format: models.FormatV2, ReceivedAt: s.now,
	}, nil)

	receipt, err := s.service.Receipt(s.ctx, subID)
	s.Require().NoError(err)
	s.Equal(&models.Receipt{ID: subID.String(), Version: "2.0.0", Format: models.FormatV2, ReceivedAt: s.now}, receipt)
}

func (s *ServiceSuite) TestReceipt_NotFound() {
	s.store.EXPECT().Get(gomock.Any(), gomock.Any()).Return(nil, sentinel.ErrNotFound)

	_, err := s.service.Receipt(s.ctx, id.NewSubmissionID())
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	s.Empty(s.logs.String())
}

func TestPresentationRequestID_UnknownFormat(t *testing.T) {
	_, err := presentationRequestID(models.WireFormat("v1"), json.RawMessage(`{}`))
	if !dErrors.HasCode(err, dErrors.CodePrecondition) {
		t.Fatalf("expected precondition failure, got %v", err)
	}
}
