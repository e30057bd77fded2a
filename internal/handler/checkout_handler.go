package handler

import (
	"errors"
	"net/http"

	"storefront/internal/checkout"
	"storefront/internal/model"
	"storefront/internal/service"

	"github.com/rs/zerolog"
)

// CheckoutHandler handles checkout submissions.
type CheckoutHandler struct {
	service service.CheckoutService
	logger  zerolog.Logger
}

// NewCheckoutHandler creates a new checkout handler.
func NewCheckoutHandler(service service.CheckoutService, logger zerolog.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		service: service,
		logger:  logger.With().Str("handler", "checkout").Logger(),
	}
}

// Submit handles POST /api/checkout requests.
func (h *CheckoutHandler) Submit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	var req model.CheckoutRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.reject(w, err)
		return
	}

	result, err := h.service.Submit(r.Context(), &req)
	if err != nil {
		h.reject(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, model.CheckoutResponse{
		Success:      true,
		OrderID:      &result.Order.ID,
		OrderCode:    result.Order.Code,
		Totals:       &result.Totals,
		ScheduledFor: result.Order.ScheduledFor,
	})
}

// reject writes a failed checkout. Customers only ever see business
// messages; infrastructure detail stays in the log.
func (h *CheckoutHandler) reject(w http.ResponseWriter, err error) {
	resp := model.CheckoutResponse{
		Code:  model.ErrorCode(err),
		Error: checkout.UserMessage(err),
	}

	var de *model.DomainError
	if errors.As(err, &de) {
		resp.Errors = de.Details
	} else {
		h.logger.Error().Err(err).Msg("checkout failed")
	}

	writeJSON(w, statusFor(resp.Code), resp)
}
