package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"storefront/internal/model"
	"storefront/internal/service"
	"storefront/internal/storehours"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestStoreHandler_Status(t *testing.T) {
	logger := zerolog.Nop()

	status := &service.StoreStatus{
		StoreID:    "store-1",
		Timezone:   "America/Sao_Paulo",
		Status:     storehours.Status{IsOpen: true},
		Scheduling: true,
		Slots: []storehours.SlotDay{
			{Date: "2026-10-14", Weekday: 3, Slots: []storehours.Slot{{Time: "14:00", Available: true}}},
		},
	}

	tests := []struct {
		name           string
		id             string
		mockReturn     *service.StoreStatus
		mockError      error
		expectedStatus int
	}{
		{name: "Success", id: "store-1", mockReturn: status, expectedStatus: http.StatusOK},
		{name: "Unknown store", id: "nope", mockError: model.ErrStoreNotFound, expectedStatus: http.StatusNotFound},
		{name: "Service error", id: "store-1", mockError: errors.New("db down"), expectedStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockStoreService)
			mockService.On("Status", mock.Anything, tt.id).Return(tt.mockReturn, tt.mockError)
			handler := NewStoreHandler(mockService, logger)

			req := httptest.NewRequest(http.MethodGet, "/api/stores/"+tt.id+"/status", nil)
			req.SetPathValue("id", tt.id)
			w := httptest.NewRecorder()

			handler.Status(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			mockService.AssertExpectations(t)

			if tt.mockReturn != nil {
				var got service.StoreStatus
				require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
				assert.True(t, got.Status.IsOpen)
				require.Len(t, got.Slots, 1)
				assert.Equal(t, "14:00", got.Slots[0].Slots[0].Time)
			}
		})
	}
}

func TestStoreHandler_Status_MethodNotAllowed(t *testing.T) {
	mockService := new(MockStoreService)
	handler := NewStoreHandler(mockService, zerolog.Nop())

	req := httptest.NewRequest(http.MethodDelete, "/api/stores/store-1/status", nil)
	w := httptest.NewRecorder()

	handler.Status(w, req)

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	mockService.AssertNotCalled(t, "Status", mock.Anything, mock.Anything)
}
