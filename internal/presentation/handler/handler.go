package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"credex/internal/presentation/models"
	id "credex/pkg/domain"
	dErrors "credex/pkg/domain-errors"
	"credex/pkg/platform/httputil"
	"credex/pkg/requestcontext"
)

// VersionHeader carries the submitter's wire-format version.
const VersionHeader = "version"

type Service interface {
	Submit(ctx context.Context, sub *models.Submission, versionHeader string) (*models.Receipt, error)
	Receipt(ctx context.Context, submissionID id.SubmissionID) (*models.Receipt, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Post("/presentationV2", h.handleSubmit)
	r.Get("/presentationV2/{id}", h.handleReceipt)
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	sub, ok := httputil.DecodeOptionalJSON[models.Submission](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	version := r.Header.Get(VersionHeader)
	h.logger.DebugContext(ctx, "presentation submitted",
		"request_id", requestID,
		"version", version,
	)
	receipt, err := h.service.Submit(ctx, sub, version)
	if err != nil {
		h.writeError(ctx, w, err, "presentation rejected")
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, receipt)
}

func (h *Handler) handleReceipt(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	submissionID, err := id.ParseSubmissionID(chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(ctx, w, err, "invalid submission id")
		return
	}
	receipt, err := h.service.Receipt(ctx, submissionID)
	if err != nil {
		h.writeError(ctx, w, err, "presentation lookup failed")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, receipt)
}

func (h *Handler) writeError(ctx context.Context, w http.ResponseWriter, err error, msg string) {
	if httputil.DomainCodeToHTTPStatus(dErrors.CodeOf(err)) < http.StatusInternalServerError {
		h.logger.WarnContext(ctx, msg,
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
	}
	httputil.WriteError(w, err)
}
