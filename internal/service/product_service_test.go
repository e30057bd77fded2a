package service

import (
	"context"
	"errors"
	"testing"

	"storefront/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductService_ListByStore(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name           string
		storeID        string
		limit, offset  int
		expectedLimit  int
		expectedOffset int
	}{
		{name: "Explicit page", storeID: "store-1", limit: 10, offset: 20, expectedLimit: 10, expectedOffset: 20},
		{name: "Default page size", storeID: "store-1", limit: 0, offset: 0, expectedLimit: defaultPageSize},
		{name: "Page size capped", storeID: "store-1", limit: 1000, offset: 0, expectedLimit: maxPageSize},
		{name: "Negative offset", storeID: "store-1", limit: 5, offset: -3, expectedLimit: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockProductRepository)
			repo.On("ListByStore", ctx, tt.storeID, tt.expectedLimit, tt.expectedOffset).Return(testProducts(), nil)
			svc := NewProductService(repo, zerolog.Nop())

			products, err := svc.ListByStore(ctx, tt.storeID, tt.limit, tt.offset)

			require.NoError(t, err)
			assert.Len(t, products, 2)
			repo.AssertExpectations(t)
		})
	}
}

func TestProductService_ListByStore_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("Missing store", func(t *testing.T) {
		svc := NewProductService(new(MockProductRepository), zerolog.Nop())

		_, err := svc.ListByStore(ctx, "", 10, 0)

		assert.ErrorIs(t, err, model.ErrStoreNotFound)
	})

	t.Run("Repository error", func(t *testing.T) {
		repo := new(MockProductRepository)
		repo.On("ListByStore", ctx, "store-1", 10, 0).Return(nil, errors.New("db down"))
		svc := NewProductService(repo, zerolog.Nop())

		_, err := svc.ListByStore(ctx, "store-1", 10, 0)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to get products")
	})
}

func TestProductService_GetByID(t *testing.T) {
	ctx := context.Background()
	inactive := testProducts()[0]
	inactive.IsActive = false

	tests := []struct {
		name        string
		id          string
		product     *model.Product
		repoErr     error
		expectedErr error
	}{
		{name: "Found", id: "P001", product: &testProducts()[0]},
		{name: "Missing", id: "P999", expectedErr: model.ErrNotFound},
		{name: "Inactive", id: "P001", product: &inactive, expectedErr: model.ErrNotFound},
		{name: "Empty ID", id: "", expectedErr: model.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockProductRepository)
			if tt.id != "" {
				repo.On("GetByID", ctx, tt.id).Return(tt.product, tt.repoErr)
			}
			svc := NewProductService(repo, zerolog.Nop())

			product, err := svc.GetByID(ctx, tt.id)

			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				assert.Nil(t, product)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "Margherita", product.Name)
		})
	}
}
