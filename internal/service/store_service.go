package service

import (
	"context"
	"fmt"
	"time"

	"storefront/internal/model"
	"storefront/internal/repository"
	"storefront/internal/storehours"

	"github.com/rs/zerolog"
)

// storeService implements StoreService.
type storeService struct {
	storeRepo repository.StoreRepository
	now       func() time.Time
	logger    zerolog.Logger
}

// NewStoreService creates a new store service.
func NewStoreService(storeRepo repository.StoreRepository, logger zerolog.Logger) StoreService {
	return &storeService{
		storeRepo: storeRepo,
		now:       time.Now,
		logger:    logger.With().Str("service", "store").Logger(),
	}
}

// Status returns whether the store is open now and, when scheduling is
// enabled, the slots customers can pick.
func (s *storeService) Status(ctx context.Context, storeID string) (*StoreStatus, error) {
	store, err := s.storeRepo.GetByID(ctx, storeID)
	if err != nil {
		s.logger.Error().Err(err).Str("store_id", storeID).Msg("failed to get store")
		return nil, fmt.Errorf("failed to get store: %w", err)
	}
	if store == nil || !store.IsActive {
		return nil, model.ErrStoreNotFound
	}

	tz := store.Timezone
	loc, err := storehours.LoadLocation(tz)
	if err != nil {
		s.logger.Warn().Err(err).Str("store_id", storeID).Msg("invalid store timezone, using default")
		tz = storehours.DefaultTimezone
		loc, _ = storehours.LoadLocation(tz)
	}
	if tz == "" {
		tz = storehours.DefaultTimezone
	}

	now := s.now()
	hours := store.Settings.BusinessHours
	status := &StoreStatus{
		StoreID:    store.ID,
		Timezone:   tz,
		Status:     storehours.GetStatus(hours, now, loc),
		Scheduling: store.Settings.Scheduling.Enabled,
	}
	if status.Scheduling {
		status.Slots = storehours.BuildSlots(hours, now, loc, storehours.OptionsFromSettings(store.Settings.Scheduling))
	}

	return status, nil
}
