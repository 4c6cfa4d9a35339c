package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"credex/internal/presentationrequest/models"
	id "credex/pkg/domain"
	dErrors "credex/pkg/domain-errors"
	"credex/pkg/platform/httputil"
	"credex/pkg/requestcontext"
)

// Service defines the presentation request operations the handler exposes.
type Service interface {
	Create(ctx context.Context, in *models.CreateInput) (*models.Result, error)
	Get(ctx context.Context, prID id.PresentationRequestID) (*models.Record, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Post("/presentationRequest", h.handleCreate)
	r.Get("/presentationRequest/{id}", h.handleGet)
}

// handleCreate responds with the issuance protocol's signed object exactly as received.
func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	in, ok := httputil.DecodeOptionalJSON[models.CreateInput](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	res, err := h.service.Create(ctx, in)
	if err != nil {
		h.writeError(ctx, w, err, "presentation request rejected")
		return
	}
	httputil.WriteRawJSON(w, http.StatusCreated, res.Raw)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	prID, err := id.ParsePresentationRequestID(chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(ctx, w, err, "invalid presentation request id")
		return
	}

	record, err := h.service.Get(ctx, prID)
	if err != nil {
		h.writeError(ctx, w, err, "presentation request lookup failed")
		return
	}
	httputil.WriteRawJSON(w, http.StatusOK, record.Body)
}

// writeError logs client errors. Server errors were logged where they were raised.
func (h *Handler) writeError(ctx context.Context, w http.ResponseWriter, err error, msg string) {
	if httputil.DomainCodeToHTTPStatus(dErrors.CodeOf(err)) < http.StatusInternalServerError {
		h.logger.WarnContext(ctx, msg,
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
	}
	httputil.WriteError(w, err)
}
