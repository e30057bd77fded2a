package handler

import (
	"context"
	"net/http"

	"storefront/internal/task"

	"github.com/rs/zerolog"
)

// SweepRunner runs every maintenance job once.
type SweepRunner interface {
	RunAll(ctx context.Context) []task.Result
}

// SweepResponse lists the outcome of an on-demand sweep.
type SweepResponse struct {
	Success bool          `json:"success"`
	Results []task.Result `json:"results"`
}

// InternalHandler serves operator endpoints behind the internal API key.
type InternalHandler struct {
	sweeper SweepRunner
	logger  zerolog.Logger
}

// NewInternalHandler creates a new internal handler.
func NewInternalHandler(sweeper SweepRunner, logger zerolog.Logger) *InternalHandler {
	return &InternalHandler{
		sweeper: sweeper,
		logger:  logger.With().Str("handler", "internal").Logger(),
	}
}

// Sweep handles POST /internal/sweep requests.
func (h *InternalHandler) Sweep(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	results := h.sweeper.RunAll(r.Context())

	resp := SweepResponse{Success: true, Results: results}
	for _, res := range results {
		if res.Error != "" {
			resp.Success = false
		}
	}

	h.logger.Info().Int("jobs", len(results)).Bool("success", resp.Success).Msg("manual sweep finished")
	writeJSON(w, http.StatusOK, resp)
}
