package handler

import (
	"context"

	"storefront/internal/model"
	"storefront/internal/service"
	"storefront/internal/task"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockCheckoutService is a mock implementation of CheckoutService.
type MockCheckoutService struct {
	mock.Mock
}

func (m *MockCheckoutService) Submit(ctx context.Context, req *model.CheckoutRequest) (*model.CheckoutResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CheckoutResult), args.Error(1)
}

// MockOrderService is a mock implementation of OrderService.
type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) GetByID(ctx context.Context, id uuid.UUID) (*model.OrderResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.OrderResponse), args.Error(1)
}

// MockProductService is a mock implementation of ProductService.
type MockProductService struct {
	mock.Mock
}

func (m *MockProductService) ListByStore(ctx context.Context, storeID string, limit, offset int) ([]model.Product, error) {
	args := m.Called(ctx, storeID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Product), args.Error(1)
}

func (m *MockProductService) GetByID(ctx context.Context, id string) (*model.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

// MockStoreService is a mock implementation of StoreService.
type MockStoreService struct {
	mock.Mock
}

func (m *MockStoreService) Status(ctx context.Context, storeID string) (*service.StoreStatus, error) {
	args := m.Called(ctx, storeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.StoreStatus), args.Error(1)
}

// MockDraftStoreService is a mock implementation of DraftStoreService.
type MockDraftStoreService struct {
	mock.Mock
}

func (m *MockDraftStoreService) Create(ctx context.Context, rawSlug string) (*model.DraftStore, error) {
	args := m.Called(ctx, rawSlug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DraftStore), args.Error(1)
}

func (m *MockDraftStoreService) Get(ctx context.Context, token string) (*model.DraftStore, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DraftStore), args.Error(1)
}

func (m *MockDraftStoreService) Update(ctx context.Context, token string, config map[string]any) (*model.DraftStore, error) {
	args := m.Called(ctx, token, config)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DraftStore), args.Error(1)
}

func (m *MockDraftStoreService) SweepExpired(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

// MockSlugService is a mock implementation of SlugService.
type MockSlugService struct {
	mock.Mock
}

func (m *MockSlugService) Check(ctx context.Context, raw string) (*model.SlugCheckResponse, error) {
	args := m.Called(ctx, raw)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SlugCheckResponse), args.Error(1)
}

// MockSweepRunner is a mock implementation of SweepRunner.
type MockSweepRunner struct {
	mock.Mock
}

func (m *MockSweepRunner) RunAll(ctx context.Context) []task.Result {
	args := m.Called(ctx)
	return args.Get(0).([]task.Result)
}
