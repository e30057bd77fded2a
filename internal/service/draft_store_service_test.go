package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"storefront/internal/metrics"
	"storefront/internal/model"
	"storefront/internal/slug"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type draftFixture struct {
	drafts  *MockDraftStoreRepository
	stores  *MockStoreRepository
	metrics *metrics.Registry
	svc     *draftStoreService
	now     time.Time
}

func newDraftFixture() *draftFixture {
	f := &draftFixture{
		drafts:  new(MockDraftStoreRepository),
		stores:  new(MockStoreRepository),
		metrics: metrics.NewRegistry(),
		now:     time.Date(2026, 10, 14, 15, 0, 0, 0, time.UTC),
	}
	validator := slug.NewValidator(slug.DefaultReserved())
	f.svc = NewDraftStoreService(f.drafts, f.stores, validator, 24*time.Hour, f.metrics, zerolog.Nop()).(*draftStoreService)
	f.svc.now = func() time.Time { return f.now }
	return f
}

func TestDraftStoreService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("Too short", func(t *testing.T) {
		f := newDraftFixture()

		draft, err := f.svc.Create(ctx, "ab")

		assert.Nil(t, draft)
		assert.ErrorIs(t, err, model.ErrSlugInvalid)
		var de *model.DomainError
		require.True(t, errors.As(err, &de))
		assert.Equal(t, []string{slug.ReasonTooShort}, de.Details)
		f.drafts.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Reserved", func(t *testing.T) {
		f := newDraftFixture()

		_, err := f.svc.Create(ctx, "Admin")

		assert.ErrorIs(t, err, model.ErrSlugInvalid)
	})

	t.Run("Success", func(t *testing.T) {
		f := newDraftFixture()
		f.stores.On("SlugExists", ctx, "minha-loja").Return(false, nil)
		f.drafts.On("GetBySlug", ctx, "minha-loja").Return(nil, nil)
		f.drafts.On("Create", ctx, mock.AnythingOfType("*model.DraftStore")).Return(nil)

		draft, err := f.svc.Create(ctx, "  Minha Loja ")

		require.NoError(t, err)
		assert.Equal(t, "minha-loja", draft.Slug)
		assert.Len(t, draft.DraftToken, 32)
		assert.NotContains(t, draft.DraftToken, "-")
		assert.Equal(t, f.now.Add(24*time.Hour), draft.ExpiresAt)
		assert.NotNil(t, draft.Config)
		assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.DraftsCreated))
		f.drafts.AssertExpectations(t)
	})

	t.Run("Tokens are unique", func(t *testing.T) {
		f := newDraftFixture()
		f.stores.On("SlugExists", ctx, mock.Anything).Return(false, nil)
		f.drafts.On("GetBySlug", ctx, mock.Anything).Return(nil, nil)
		f.drafts.On("Create", ctx, mock.Anything).Return(nil)

		a, err := f.svc.Create(ctx, "loja-um")
		require.NoError(t, err)
		b, err := f.svc.Create(ctx, "loja-dois")
		require.NoError(t, err)

		assert.NotEqual(t, a.DraftToken, b.DraftToken)
	})

	t.Run("Taken by a store", func(t *testing.T) {
		f := newDraftFixture()
		f.stores.On("SlugExists", ctx, "pizzaria-do-ze").Return(true, nil)

		_, err := f.svc.Create(ctx, "pizzaria-do-ze")

		assert.ErrorIs(t, err, model.ErrSlugTaken)
		f.drafts.AssertNotCalled(t, "GetBySlug", mock.Anything, mock.Anything)
	})

	t.Run("Taken by a live draft", func(t *testing.T) {
		f := newDraftFixture()
		f.stores.On("SlugExists", ctx, "minha-loja").Return(false, nil)
		f.drafts.On("GetBySlug", ctx, "minha-loja").Return(&model.DraftStore{
			ID: uuid.New(), DraftToken: "tok", Slug: "minha-loja", ExpiresAt: f.now.Add(time.Hour),
		}, nil)

		_, err := f.svc.Create(ctx, "minha-loja")

		assert.ErrorIs(t, err, model.ErrSlugTaken)
		f.drafts.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Expired draft releases its slug", func(t *testing.T) {
		f := newDraftFixture()
		f.stores.On("SlugExists", ctx, "minha-loja").Return(false, nil)
		f.drafts.On("GetBySlug", ctx, "minha-loja").Return(&model.DraftStore{
			ID: uuid.New(), DraftToken: "old-token", Slug: "minha-loja", ExpiresAt: f.now.Add(-time.Minute),
		}, nil)
		f.drafts.On("DeleteByToken", ctx, "old-token").Return(nil)
		f.drafts.On("Create", ctx, mock.Anything).Return(nil)

		draft, err := f.svc.Create(ctx, "minha-loja")

		require.NoError(t, err)
		assert.NotEqual(t, "old-token", draft.DraftToken)
		f.drafts.AssertExpectations(t)
	})

	t.Run("Lost race on insert", func(t *testing.T) {
		f := newDraftFixture()
		f.stores.On("SlugExists", ctx, "minha-loja").Return(false, nil)
		f.drafts.On("GetBySlug", ctx, "minha-loja").Return(nil, nil)
		f.drafts.On("Create", ctx, mock.Anything).Return(model.ErrSlugTaken)

		_, err := f.svc.Create(ctx, "minha-loja")

		assert.ErrorIs(t, err, model.ErrSlugTaken)
		assert.Equal(t, 0.0, testutil.ToFloat64(f.metrics.DraftsCreated))
	})

	t.Run("Repository error", func(t *testing.T) {
		f := newDraftFixture()
		f.stores.On("SlugExists", ctx, "minha-loja").Return(false, errors.New("db down"))

		_, err := f.svc.Create(ctx, "minha-loja")

		require.Error(t, err)
		assert.Equal(t, model.ErrCodeInternalError, model.ErrorCode(err))
	})
}

func TestDraftStoreService_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("Live draft", func(t *testing.T) {
		f := newDraftFixture()
		want := &model.DraftStore{ID: uuid.New(), DraftToken: "tok", Slug: "minha-loja", ExpiresAt: f.now.Add(time.Hour)}
		f.drafts.On("GetByToken", ctx, "tok").Return(want, nil)

		got, err := f.svc.Get(ctx, "tok")

		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("Expired draft is not found and removed", func(t *testing.T) {
		f := newDraftFixture()
		f.drafts.On("GetByToken", ctx, "tok").Return(&model.DraftStore{
			ID: uuid.New(), DraftToken: "tok", ExpiresAt: f.now,
		}, nil)
		f.drafts.On("DeleteByToken", ctx, "tok").Return(nil)

		got, err := f.svc.Get(ctx, "tok")

		assert.Nil(t, got)
		assert.ErrorIs(t, err, model.ErrNotFound)
		f.drafts.AssertCalled(t, "DeleteByToken", ctx, "tok")
	})

	t.Run("Delete failure still reports not found", func(t *testing.T) {
		f := newDraftFixture()
		f.drafts.On("GetByToken", ctx, "tok").Return(&model.DraftStore{
			ID: uuid.New(), DraftToken: "tok", ExpiresAt: f.now.Add(-time.Hour),
		}, nil)
		f.drafts.On("DeleteByToken", ctx, "tok").Return(errors.New("db down"))

		_, err := f.svc.Get(ctx, "tok")

		assert.ErrorIs(t, err, model.ErrNotFound)
	})

	t.Run("Unknown token", func(t *testing.T) {
		f := newDraftFixture()
		f.drafts.On("GetByToken", ctx, "nope").Return(nil, nil)

		_, err := f.svc.Get(ctx, "nope")

		assert.ErrorIs(t, err, model.ErrNotFound)
	})

	t.Run("Empty token", func(t *testing.T) {
		f := newDraftFixture()

		_, err := f.svc.Get(ctx, "  ")

		assert.ErrorIs(t, err, model.ErrNotFound)
		f.drafts.AssertNotCalled(t, "GetByToken", mock.Anything, mock.Anything)
	})
}

func TestDraftStoreService_CreateThenExpire(t *testing.T) {
	ctx := context.Background()
	f := newDraftFixture()
	f.stores.On("SlugExists", ctx, "minha-loja").Return(false, nil)
	f.drafts.On("GetBySlug", ctx, "minha-loja").Return(nil, nil)

	var stored *model.DraftStore
	f.drafts.On("Create", ctx, mock.Anything).Run(func(args mock.Arguments) {
		stored = args.Get(1).(*model.DraftStore)
	}).Return(nil)

	draft, err := f.svc.Create(ctx, "minha-loja")
	require.NoError(t, err)

	f.drafts.On("GetByToken", ctx, draft.DraftToken).Return(stored, nil)
	f.drafts.On("DeleteByToken", ctx, draft.DraftToken).Return(nil)

	got, err := f.svc.Get(ctx, draft.DraftToken)
	require.NoError(t, err)
	assert.Equal(t, draft.ID, got.ID)

	f.now = draft.ExpiresAt.Add(time.Second)

	_, err = f.svc.Get(ctx, draft.DraftToken)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestDraftStoreService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("Merges config", func(t *testing.T) {
		f := newDraftFixture()
		patch := map[string]any{"name": "Minha Loja"}
		merged := &model.DraftStore{
			ID: uuid.New(), DraftToken: "tok",
			Config:    map[string]any{"theme": "dark", "name": "Minha Loja"},
			ExpiresAt: f.now.Add(time.Hour),
		}
		f.drafts.On("MergeConfig", ctx, "tok", patch, f.now).Return(merged, nil)

		got, err := f.svc.Update(ctx, "tok", patch)

		require.NoError(t, err)
		assert.Equal(t, "dark", got.Config["theme"])
		assert.Equal(t, "Minha Loja", got.Config["name"])
	})

	t.Run("Expired or unknown token", func(t *testing.T) {
		f := newDraftFixture()
		f.drafts.On("MergeConfig", ctx, "tok", mock.Anything, f.now).Return(nil, model.ErrNotFound)

		_, err := f.svc.Update(ctx, "tok", map[string]any{"a": 1})

		assert.ErrorIs(t, err, model.ErrNotFound)
	})

	t.Run("Missing config", func(t *testing.T) {
		f := newDraftFixture()

		_, err := f.svc.Update(ctx, "tok", nil)

		assert.ErrorIs(t, err, model.ErrValidation)
		f.drafts.AssertNotCalled(t, "MergeConfig", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Empty token", func(t *testing.T) {
		f := newDraftFixture()

		_, err := f.svc.Update(ctx, "", map[string]any{"a": 1})

		assert.ErrorIs(t, err, model.ErrNotFound)
	})

	t.Run("Repository error", func(t *testing.T) {
		f := newDraftFixture()
		f.drafts.On("MergeConfig", ctx, "tok", mock.Anything, f.now).Return(nil, errors.New("db down"))

		_, err := f.svc.Update(ctx, "tok", map[string]any{"a": 1})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to update draft store")
	})
}

func TestDraftStoreService_SweepExpired(t *testing.T) {
	ctx := context.Background()

	t.Run("Deletes expired drafts", func(t *testing.T) {
		f := newDraftFixture()
		f.drafts.On("DeleteExpired", ctx, f.now).Return(int64(3), nil)

		n, err := f.svc.SweepExpired(ctx)

		require.NoError(t, err)
		assert.Equal(t, 3, n)
	})

	t.Run("Repository error", func(t *testing.T) {
		f := newDraftFixture()
		f.drafts.On("DeleteExpired", ctx, f.now).Return(int64(0), errors.New("db down"))

		n, err := f.svc.SweepExpired(ctx)

		require.Error(t, err)
		assert.Zero(t, n)
	})
}
