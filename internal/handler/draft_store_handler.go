package handler

import (
	"errors"
	"net/http"

	"storefront/internal/model"
	"storefront/internal/service"

	"github.com/rs/zerolog"
)

// DraftStoreHandler handles the onboarding draft endpoints. Every response
// uses the DraftStoreResponse envelope.
type DraftStoreHandler struct {
	service service.DraftStoreService
	logger  zerolog.Logger
}

// NewDraftStoreHandler creates a new draft store handler.
func NewDraftStoreHandler(service service.DraftStoreService, logger zerolog.Logger) *DraftStoreHandler {
	return &DraftStoreHandler{
		service: service,
		logger:  logger.With().Str("handler", "draft_store").Logger(),
	}
}

// Create handles POST /api/draft-store/create requests.
func (h *DraftStoreHandler) Create(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	var req model.CreateDraftStoreRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.fail(w, err)
		return
	}

	draft, err := h.service.Create(r.Context(), req.Slug)
	if err != nil {
		h.fail(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, model.DraftStoreResponse{Success: true, DraftToken: draft.DraftToken, Draft: draft})
}

// Get handles GET /api/draft-store/get?token= requests.
func (h *DraftStoreHandler) Get(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	draft, err := h.service.Get(r.Context(), r.URL.Query().Get("token"))
	if err != nil {
		h.fail(w, err)
		return
	}

	writeJSON(w, http.StatusOK, model.DraftStoreResponse{Success: true, DraftToken: draft.DraftToken, Draft: draft})
}

// Update handles POST /api/draft-store/update requests.
func (h *DraftStoreHandler) Update(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	var req model.UpdateDraftStoreRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.fail(w, err)
		return
	}

	draft, err := h.service.Update(r.Context(), req.DraftToken, req.Config)
	if err != nil {
		h.fail(w, err)
		return
	}

	writeJSON(w, http.StatusOK, model.DraftStoreResponse{Success: true, DraftToken: draft.DraftToken, Draft: draft})
}

func (h *DraftStoreHandler) fail(w http.ResponseWriter, err error) {
	var de *model.DomainError
	if !errors.As(err, &de) {
		h.logger.Error().Err(err).Msg("draft store request failed")
		writeJSON(w, http.StatusInternalServerError, model.DraftStoreResponse{
			Code:  model.ErrCodeInternalError,
			Error: "failed to process draft store",
		})
		return
	}

	msg := de.Message
	if len(de.Details) > 0 {
		msg = de.Details[0]
	}
	writeJSON(w, statusFor(de.Code), model.DraftStoreResponse{Code: de.Code, Error: msg})
}
