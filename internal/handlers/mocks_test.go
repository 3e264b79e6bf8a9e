package handlers

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/nimasrn/storefront-backoffice/internal/model"
	xhttp "github.com/nimasrn/storefront-backoffice/pkg/http"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
)

type MockPointsService struct {
	mock.Mock
}

func (m *MockPointsService) RecordAdjustment(ctx context.Context, req model.AdjustmentCreateRequest) (*model.AdjustmentResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AdjustmentResult), args.Error(1)
}

func (m *MockPointsService) Summarize(ctx context.Context, userID string) (*model.PointsSummary, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PointsSummary), args.Error(1)
}

type MockPhoneGrantService struct {
	mock.Mock
}

func (m *MockPhoneGrantService) RecordPendingGrant(ctx context.Context, req model.PendingGrantCreateRequest) (*model.PendingGrantResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PendingGrantResult), args.Error(1)
}

func (m *MockPhoneGrantService) ListPendingGrants(ctx context.Context, rawPhone string) ([]*model.PendingPhoneGrant, error) {
	args := m.Called(ctx, rawPhone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.PendingPhoneGrant), args.Error(1)
}

type MockAdminResolver struct {
	mock.Mock
}

func (m *MockAdminResolver) Resolve(ctx context.Context, token string) (*model.User, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Search(ctx context.Context, query string) ([]*model.User, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.User), args.Error(1)
}

func (m *MockUserService) Profile(ctx context.Context, id uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

type MockCatalogService struct {
	mock.Mock
}

func (m *MockCatalogService) ListBrands(ctx context.Context, activeOnly bool) ([]*model.Brand, error) {
	args := m.Called(ctx, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Brand), args.Error(1)
}

func (m *MockCatalogService) CreateBrand(ctx context.Context, req model.BrandCreateRequest) (*model.Brand, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Brand), args.Error(1)
}

func (m *MockCatalogService) SetBrandActive(ctx context.Context, rawID string, active bool) (*model.Brand, error) {
	args := m.Called(ctx, rawID, active)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Brand), args.Error(1)
}

func (m *MockCatalogService) DeleteBrand(ctx context.Context, rawID string) (uuid.UUID, error) {
	args := m.Called(ctx, rawID)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockCatalogService) ListCategories(ctx context.Context, activeOnly bool) ([]*model.Category, error) {
	args := m.Called(ctx, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Category), args.Error(1)
}

func (m *MockCatalogService) CreateCategory(ctx context.Context, req model.CategoryCreateRequest) (*model.Category, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Category), args.Error(1)
}

func (m *MockCatalogService) UpdateCategory(ctx context.Context, rawID string, patch model.CategoryPatch) (*model.Category, error) {
	args := m.Called(ctx, rawID, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Category), args.Error(1)
}

func (m *MockCatalogService) DeleteCategory(ctx context.Context, rawID string) error {
	return m.Called(ctx, rawID).Error(0)
}

func (m *MockCatalogService) ListProducts(ctx context.Context, f model.ProductFilter) ([]*model.Product, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Product), args.Error(1)
}

func (m *MockCatalogService) GetProduct(ctx context.Context, rawID string, visibleOnly bool) (*model.Product, error) {
	args := m.Called(ctx, rawID, visibleOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockCatalogService) CreateProduct(ctx context.Context, req model.ProductCreateRequest) (*model.Product, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockCatalogService) UpdateProduct(ctx context.Context, rawID string, patch model.ProductPatch) (*model.Product, error) {
	args := m.Called(ctx, rawID, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockCatalogService) DeleteProduct(ctx context.Context, rawID string) error {
	return m.Called(ctx, rawID).Error(0)
}

func (m *MockCatalogService) Upload(ctx context.Context, folder, filename string, file *model.Upload) (*model.StoredObject, error) {
	args := m.Called(ctx, folder, filename, file)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.StoredObject), args.Error(1)
}

func setupTestContext(method, path string, body []byte) *xhttp.RequestCtx {
	ctx := &fasthttp.RequestCtx{}
	ctx.Request.Header.SetMethod(method)
	ctx.Request.SetRequestURI(path)
	if body != nil {
		ctx.Request.SetBody(body)
	}
	return ctx
}

func decodeBody(t *testing.T, ctx *xhttp.RequestCtx) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &out))
	return out
}
