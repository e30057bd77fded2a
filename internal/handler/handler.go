package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"storefront/internal/model"

	"github.com/rs/zerolog"
)

// maxBodyBytes caps request bodies read by the JSON handlers.
const maxBodyBytes = 1 << 20

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but don't expose it to the client
		return
	}
}

// writeError writes an error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string, logger zerolog.Logger) {
	logger.Error().Str("error", message).Int("status", status).Msg("handler error")
	writeJSON(w, status, model.ErrorResponse{Error: message})
}

// writeDomainError maps err to a status and writes its code, message and
// details. Errors without a domain code are logged and reported as
// internal errors with a generic message.
func writeDomainError(w http.ResponseWriter, err error, fallback string, logger zerolog.Logger) {
	var de *model.DomainError
	if !errors.As(err, &de) {
		logger.Error().Err(err).Msg("request failed")
		writeJSON(w, http.StatusInternalServerError, model.ErrorResponse{
			Code:  model.ErrCodeInternalError,
			Error: fallback,
		})
		return
	}

	status := statusFor(de.Code)
	logger.Debug().Str("code", de.Code).Int("status", status).Msg("request rejected")
	writeJSON(w, status, model.ErrorResponse{Code: de.Code, Error: de.Message, Errors: de.Details})
}

// statusFor returns the HTTP status of a domain error code.
func statusFor(code string) int {
	switch code {
	case model.ErrCodeInvalidJSON, model.ErrCodeValidation, model.ErrCodeSlugInvalid:
		return http.StatusBadRequest
	case model.ErrCodeStoreNotFound, model.ErrCodeNotFound:
		return http.StatusNotFound
	case model.ErrCodeStoreClosed, model.ErrCodeProductUnavailable, model.ErrCodeOutOfStock, model.ErrCodeSlugTaken:
		return http.StatusConflict
	case model.ErrCodeScheduleInvalid, model.ErrCodeDeliveryAddressRequired, model.ErrCodeOutOfRange,
		model.ErrCodeMinOrderNotMet, model.ErrCodeInvalidCoupon:
		return http.StatusUnprocessableEntity
	case model.ErrCodeRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// decodeJSON reads a JSON body into dst. Failures come back as INVALID_JSON.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return model.NewDomainError(model.ErrCodeInvalidJSON, "request body is empty")
		}
		return model.NewDomainError(model.ErrCodeInvalidJSON, "invalid request body")
	}
	return nil
}
