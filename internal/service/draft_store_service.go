package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"storefront/internal/metrics"
	"storefront/internal/model"
	"storefront/internal/repository"
	"storefront/internal/slug"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ReasonSlugTaken is reported when a live store or unexpired draft owns the slug.
const ReasonSlugTaken = "slug is already taken"

// draftStoreService implements DraftStoreService.
type draftStoreService struct {
	draftRepo repository.DraftStoreRepository
	claims    slugClaims
	validator *slug.Validator
	ttl       time.Duration
	metrics   *metrics.Registry
	now       func() time.Time
	logger    zerolog.Logger
}

// NewDraftStoreService creates a new draft store service. Drafts expire ttl
// after creation.
func NewDraftStoreService(
	draftRepo repository.DraftStoreRepository,
	storeRepo repository.StoreRepository,
	validator *slug.Validator,
	ttl time.Duration,
	m *metrics.Registry,
	logger zerolog.Logger,
) DraftStoreService {
	logger = logger.With().Str("service", "draft_store").Logger()
	return &draftStoreService{
		draftRepo: draftRepo,
		claims:    slugClaims{stores: storeRepo, drafts: draftRepo, logger: logger},
		validator: validator,
		ttl:       ttl,
		metrics:   m,
		now:       time.Now,
		logger:    logger,
	}
}

// Create claims a slug and returns a new draft with its token.
func (s *draftStoreService) Create(ctx context.Context, rawSlug string) (*model.DraftStore, error) {
	normalized := slug.Normalize(rawSlug)
	if res := s.validator.Validate(normalized); !res.Valid {
		s.logger.Debug().Str("slug", rawSlug).Str("reason", res.Reason).Msg("invalid slug")
		return nil, model.ErrSlugInvalid.WithDetails(res.Reason)
	}

	now := s.now()
	taken, err := s.claims.taken(ctx, normalized, now, true)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, model.ErrSlugTaken
	}

	draft := &model.DraftStore{
		ID:         uuid.New(),
		DraftToken: newDraftToken(),
		Slug:       normalized,
		Config:     map[string]any{},
		ExpiresAt:  now.Add(s.ttl),
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.draftRepo.Create(ctx, draft); err != nil {
		if model.ErrorCode(err) == model.ErrCodeSlugTaken {
			return nil, model.ErrSlugTaken
		}
		s.logger.Error().Err(err).Str("slug", normalized).Msg("failed to create draft store")
		return nil, fmt.Errorf("failed to create draft store: %w", err)
	}

	s.metrics.DraftCreated()
	s.logger.Info().
		Str("draft_id", draft.ID.String()).
		Str("slug", normalized).
		Time("expires_at", draft.ExpiresAt).
		Msg("draft store created")

	return draft, nil
}

// Get returns an unexpired draft by token. Expired drafts are reported as
// not found even before the sweep removes them.
func (s *draftStoreService) Get(ctx context.Context, token string) (*model.DraftStore, error) {
	if strings.TrimSpace(token) == "" {
		return nil, model.ErrNotFound
	}

	draft, err := s.draftRepo.GetByToken(ctx, token)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to get draft store")
		return nil, fmt.Errorf("failed to get draft store: %w", err)
	}
	if draft == nil {
		return nil, model.ErrNotFound
	}

	if draft.Expired(s.now()) {
		if err := s.draftRepo.DeleteByToken(ctx, token); err != nil {
			s.logger.Warn().Err(err).Str("draft_id", draft.ID.String()).Msg("failed to delete expired draft")
		}
		return nil, model.ErrNotFound
	}

	return draft, nil
}

// Update shallow-merges config into an unexpired draft.
func (s *draftStoreService) Update(ctx context.Context, token string, config map[string]any) (*model.DraftStore, error) {
	if strings.TrimSpace(token) == "" {
		return nil, model.ErrNotFound
	}
	if config == nil {
		return nil, model.ErrValidation.WithDetails("Config is required")
	}

	draft, err := s.draftRepo.MergeConfig(ctx, token, config, s.now())
	if err != nil {
		if model.ErrorCode(err) == model.ErrCodeNotFound {
			return nil, model.ErrNotFound
		}
		s.logger.Error().Err(err).Msg("failed to update draft store")
		return nil, fmt.Errorf("failed to update draft store: %w", err)
	}

	s.logger.Debug().Str("draft_id", draft.ID.String()).Int("keys", len(config)).Msg("draft store updated")
	return draft, nil
}

// SweepExpired deletes every expired draft.
func (s *draftStoreService) SweepExpired(ctx context.Context) (int, error) {
	n, err := s.draftRepo.DeleteExpired(ctx, s.now())
	if err != nil {
		return 0, fmt.Errorf("failed to sweep draft stores: %w", err)
	}
	if n > 0 {
		s.logger.Info().Int64("deleted", n).Msg("expired draft stores removed")
	}
	return int(n), nil
}

// newDraftToken returns an opaque token backed by 122 random bits.
func newDraftToken() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// slugClaims answers whether a slug is owned by a store or a live draft.
type slugClaims struct {
	stores repository.StoreRepository
	drafts repository.DraftStoreRepository
	logger zerolog.Logger
}

// taken reports whether slug is held at now. A draft that has expired no
// longer holds its slug; with reclaim set it is also deleted so the slug can
// be claimed again.
func (c slugClaims) taken(ctx context.Context, name string, now time.Time, reclaim bool) (bool, error) {
	exists, err := c.stores.SlugExists(ctx, name)
	if err != nil {
		return false, fmt.Errorf("failed to check store slug: %w", err)
	}
	if exists {
		return true, nil
	}

	draft, err := c.drafts.GetBySlug(ctx, name)
	if err != nil {
		return false, fmt.Errorf("failed to check draft slug: %w", err)
	}
	if draft == nil {
		return false, nil
	}
	if !draft.Expired(now) {
		return true, nil
	}
	if !reclaim {
		return false, nil
	}

	if err := c.drafts.DeleteByToken(ctx, draft.DraftToken); err != nil {
		return false, fmt.Errorf("failed to reclaim expired draft slug: %w", err)
	}
	c.logger.Info().Str("slug", name).Str("draft_id", draft.ID.String()).Msg("reclaimed slug from expired draft")
	return false, nil
}
