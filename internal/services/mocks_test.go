package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/nimasrn/storefront-backoffice/internal/auth"
	"github.com/nimasrn/storefront-backoffice/internal/model"
	"github.com/stretchr/testify/mock"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) Search(ctx context.Context, f model.UserFilter) ([]*model.User, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.User), args.Error(1)
}

func (m *MockUserRepository) AddPoints(ctx context.Context, id uuid.UUID, delta int64) (int64, error) {
	args := m.Called(ctx, id, delta)
	return args.Get(0).(int64), args.Error(1)
}

type MockPointAdjustmentRepository struct {
	mock.Mock
}

func (m *MockPointAdjustmentRepository) Create(ctx context.Context, adj *model.PointAdjustment) error {
	args := m.Called(ctx, adj)
	if args.Error(0) == nil && adj.ID == uuid.Nil {
		adj.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *MockPointAdjustmentRepository) ListUnexpiredGrants(ctx context.Context, userID uuid.UUID, now time.Time) ([]*model.PointAdjustment, error) {
	args := m.Called(ctx, userID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.PointAdjustment), args.Error(1)
}

type MockPendingPhoneGrantRepository struct {
	mock.Mock
}

func (m *MockPendingPhoneGrantRepository) Create(ctx context.Context, grant *model.PendingPhoneGrant) error {
	args := m.Called(ctx, grant)
	return args.Error(0)
}

func (m *MockPendingPhoneGrantRepository) ListByPhone(ctx context.Context, phone string) ([]*model.PendingPhoneGrant, error) {
	args := m.Called(ctx, phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.PendingPhoneGrant), args.Error(1)
}

type MockTokenVerifier struct {
	mock.Mock
}

func (m *MockTokenVerifier) Verify(token string) (*auth.Claims, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.Claims), args.Error(1)
}

type MockObjectStorage struct {
	mock.Mock
}

func (m *MockObjectStorage) Bucket() string { return "Public" }

func (m *MockObjectStorage) Put(ctx context.Context, path, contentType string, data []byte) error {
	args := m.Called(ctx, path, contentType, data)
	return args.Error(0)
}

func (m *MockObjectStorage) Remove(ctx context.Context, paths ...string) error {
	args := m.Called(ctx, paths)
	return args.Error(0)
}

func (m *MockObjectStorage) PublicURL(path string) string {
	return "https://cdn.example.com/Public/" + path
}

type MockCatalogRepository struct {
	mock.Mock
}

func (m *MockCatalogRepository) ListBrands(ctx context.Context, activeOnly bool) ([]*model.Brand, error) {
	args := m.Called(ctx, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Brand), args.Error(1)
}

func (m *MockCatalogRepository) GetBrand(ctx context.Context, id uuid.UUID) (*model.Brand, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Brand), args.Error(1)
}

func (m *MockCatalogRepository) CreateBrand(ctx context.Context, brand *model.Brand) error {
	return m.Called(ctx, brand).Error(0)
}

func (m *MockCatalogRepository) SetBrandActive(ctx context.Context, id uuid.UUID, active bool) (*model.Brand, error) {
	args := m.Called(ctx, id, active)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Brand), args.Error(1)
}

func (m *MockCatalogRepository) DeleteBrand(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockCatalogRepository) ListCategories(ctx context.Context, activeOnly bool) ([]*model.Category, error) {
	args := m.Called(ctx, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Category), args.Error(1)
}

func (m *MockCatalogRepository) CreateCategory(ctx context.Context, category *model.Category) error {
	return m.Called(ctx, category).Error(0)
}

func (m *MockCatalogRepository) UpdateCategory(ctx context.Context, id uuid.UUID, patch model.CategoryPatch) (*model.Category, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Category), args.Error(1)
}

func (m *MockCatalogRepository) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockCatalogRepository) ListProducts(ctx context.Context, f model.ProductFilter) ([]*model.Product, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Product), args.Error(1)
}

func (m *MockCatalogRepository) GetProduct(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockCatalogRepository) CreateProduct(ctx context.Context, product *model.Product) error {
	return m.Called(ctx, product).Error(0)
}

func (m *MockCatalogRepository) UpdateProduct(ctx context.Context, id uuid.UUID, patch model.ProductPatch) (*model.Product, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockCatalogRepository) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}
