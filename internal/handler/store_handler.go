package handler

import (
	"net/http"

	"storefront/internal/service"

	"github.com/rs/zerolog"
)

// StoreHandler serves store availability.
type StoreHandler struct {
	service service.StoreService
	logger  zerolog.Logger
}

// NewStoreHandler creates a new store handler.
func NewStoreHandler(service service.StoreService, logger zerolog.Logger) *StoreHandler {
	return &StoreHandler{
		service: service,
		logger:  logger.With().Str("handler", "store").Logger(),
	}
}

// Status handles GET /api/stores/{id}/status requests.
func (h *StoreHandler) Status(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	storeID := r.PathValue("id")
	if storeID == "" {
		writeError(w, http.StatusBadRequest, "store ID is required", h.logger)
		return
	}

	status, err := h.service.Status(r.Context(), storeID)
	if err != nil {
		writeDomainError(w, err, "failed to retrieve store status", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, status)
}
