package handler

import (
	"net/http"

	"storefront/internal/model"
	"storefront/internal/service"

	"github.com/rs/zerolog"
)

// ReasonSlugRequired is reported when the check is called without a slug.
const ReasonSlugRequired = "slug is required"

// SlugHandler serves slug availability checks.
type SlugHandler struct {
	service service.SlugService
	logger  zerolog.Logger
}

// NewSlugHandler creates a new slug handler.
func NewSlugHandler(service service.SlugService, logger zerolog.Logger) *SlugHandler {
	return &SlugHandler{
		service: service,
		logger:  logger.With().Str("handler", "slug").Logger(),
	}
}

// Check handles POST /api/slug/check requests. A missing or malformed body
// is answered as an unavailable empty slug.
func (h *SlugHandler) Check(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	var req model.SlugCheckRequest
	if err := decodeJSON(w, r, &req); err != nil || req.Slug == "" {
		writeJSON(w, http.StatusOK, model.SlugCheckResponse{Reason: ReasonSlugRequired})
		return
	}

	resp, err := h.service.Check(r.Context(), req.Slug)
	if err != nil {
		writeDomainError(w, err, "failed to check slug", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}
