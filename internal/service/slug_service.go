package service

import (
	"context"
	"time"

	"storefront/internal/model"
	"storefront/internal/repository"
	"storefront/internal/slug"

	"github.com/rs/zerolog"
)

// slugService implements SlugService.
type slugService struct {
	claims    slugClaims
	validator *slug.Validator
	now       func() time.Time
	logger    zerolog.Logger
}

// NewSlugService creates a new slug service.
func NewSlugService(
	storeRepo repository.StoreRepository,
	draftRepo repository.DraftStoreRepository,
	validator *slug.Validator,
	logger zerolog.Logger,
) SlugService {
	logger = logger.With().Str("service", "slug").Logger()
	return &slugService{
		claims:    slugClaims{stores: storeRepo, drafts: draftRepo, logger: logger},
		validator: validator,
		now:       time.Now,
		logger:    logger,
	}
}

// Check normalizes raw and reports whether the result can be claimed.
// OK reports whether the normalized slug is well formed. Check only reads:
// a slug held by an expired draft reports available, and the draft row is
// left for Create or the expiry sweep to remove.
func (s *slugService) Check(ctx context.Context, raw string) (*model.SlugCheckResponse, error) {
	normalized := slug.Normalize(raw)
	resp := &model.SlugCheckResponse{Normalized: normalized}

	if res := s.validator.Validate(normalized); !res.Valid {
		resp.Reason = res.Reason
		return resp, nil
	}
	resp.OK = true

	taken, err := s.claims.taken(ctx, normalized, s.now(), false)
	if err != nil {
		s.logger.Error().Err(err).Str("slug", normalized).Msg("failed to check slug availability")
		return nil, err
	}
	if taken {
		resp.Reason = ReasonSlugTaken
		return resp, nil
	}

	resp.Available = true
	return resp, nil
}
