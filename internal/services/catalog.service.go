package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nimasrn/storefront-backoffice/internal/model"
	"github.com/nimasrn/storefront-backoffice/internal/repository"
	"github.com/nimasrn/storefront-backoffice/pkg/logger"
)

var ErrStorage = errors.New("object storage failure")

type CatalogRepository interface {
	ListBrands(ctx context.Context, activeOnly bool) ([]*model.Brand, error)
	GetBrand(ctx context.Context, id uuid.UUID) (*model.Brand, error)
	CreateBrand(ctx context.Context, brand *model.Brand) error
	SetBrandActive(ctx context.Context, id uuid.UUID, active bool) (*model.Brand, error)
	DeleteBrand(ctx context.Context, id uuid.UUID) error

	ListCategories(ctx context.Context, activeOnly bool) ([]*model.Category, error)
	CreateCategory(ctx context.Context, category *model.Category) error
	UpdateCategory(ctx context.Context, id uuid.UUID, patch model.CategoryPatch) (*model.Category, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error

	ListProducts(ctx context.Context, f model.ProductFilter) ([]*model.Product, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*model.Product, error)
	CreateProduct(ctx context.Context, product *model.Product) error
	UpdateProduct(ctx context.Context, id uuid.UUID, patch model.ProductPatch) (*model.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
}

// ObjectStorage is the public asset bucket.
type ObjectStorage interface {
	Bucket() string
	Put(ctx context.Context, path, contentType string, data []byte) error
	Remove(ctx context.Context, paths ...string) error
	PublicURL(path string) string
}

type CatalogService struct {
	repo    CatalogRepository
	storage ObjectStorage
	now     func() time.Time
}

func NewCatalogService(repo CatalogRepository, storage ObjectStorage) *CatalogService {
	return &CatalogService{
		repo:    repo,
		storage: storage,
		now:     time.Now,
	}
}

func (s *CatalogService) ListBrands(ctx context.Context, activeOnly bool) ([]*model.Brand, error) {
	brands, err := s.repo.ListBrands(ctx, activeOnly)
	if err != nil {
		return nil, persistence("list brands", err)
	}
	return brands, nil
}

// CreateBrand uploads the optional logo to brand/<slug>-<millis>.<ext> and
// inserts the row. The logo is removed again if the insert fails.
func (s *CatalogService) CreateBrand(ctx context.Context, req model.BrandCreateRequest) (*model.Brand, error) {
	if err := req.Validate(); err != nil {
		return nil, validation(err)
	}
	slug := Slugify(req.Slug)
	if slug == "" {
		slug = Slugify(req.Name)
	}
	if slug == "" {
		return nil, validation(errors.New("name must contain letters or digits"))
	}

	brand := &model.Brand{
		Name:     strings.TrimSpace(req.Name),
		Slug:     slug,
		IsActive: req.IsActive,
	}

	if req.Logo != nil && len(req.Logo.Data) > 0 {
		ext := fileExt(req.Logo.Filename, req.Logo.ContentType)
		logoPath := fmt.Sprintf("brand/%s-%d.%s", slug, s.now().UnixMilli(), ext)
		contentType := req.Logo.ContentType
		if contentType == "" {
			contentType = "image/png"
		}
		if err := s.storage.Put(ctx, logoPath, contentType, req.Logo.Data); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrStorage, err)
		}
		brand.LogoURL = &logoPath
	}

	if err := s.repo.CreateBrand(ctx, brand); err != nil {
		if brand.LogoURL != nil {
			s.removeQuietly(ctx, *brand.LogoURL)
		}
		if errors.Is(err, repository.ErrDuplicateSlug) {
			return nil, ErrDuplicateSlug
		}
		return nil, persistence("create brand", err)
	}
	logger.Info("[catalog] brand created", "brand_id", brand.ID, "slug", brand.Slug)
	return brand, nil
}

func (s *CatalogService) SetBrandActive(ctx context.Context, rawID string, active bool) (*model.Brand, error) {
	id, err := uuid.Parse(strings.TrimSpace(rawID))
	if err != nil {
		return nil, ErrBrandNotFound
	}
	brand, err := s.repo.SetBrandActive(ctx, id, active)
	if err != nil {
		return nil, s.mapRepoErr("update brand", err)
	}
	return brand, nil
}

// DeleteBrand removes the row first; the logo is cleaned up best-effort.
func (s *CatalogService) DeleteBrand(ctx context.Context, rawID string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(rawID))
	if err != nil {
		return uuid.Nil, ErrBrandNotFound
	}
	brand, err := s.repo.GetBrand(ctx, id)
	if err != nil {
		return uuid.Nil, s.mapRepoErr("get brand", err)
	}
	if err := s.repo.DeleteBrand(ctx, id); err != nil {
		return uuid.Nil, s.mapRepoErr("delete brand", err)
	}
	if brand.LogoURL != nil && *brand.LogoURL != "" {
		s.removeQuietly(ctx, *brand.LogoURL)
	}
	return id, nil
}

func (s *CatalogService) ListCategories(ctx context.Context, activeOnly bool) ([]*model.Category, error) {
	categories, err := s.repo.ListCategories(ctx, activeOnly)
	if err != nil {
		return nil, persistence("list categories", err)
	}
	return categories, nil
}

func (s *CatalogService) CreateCategory(ctx context.Context, req model.CategoryCreateRequest) (*model.Category, error) {
	if err := req.Validate(); err != nil {
		return nil, validation(err)
	}
	category := &model.Category{
		Name:     strings.TrimSpace(req.Name),
		Slug:     strings.TrimSpace(req.Slug),
		Sort:     1,
		IsActive: true,
	}
	if req.Sort != nil {
		category.Sort = *req.Sort
	}
	if req.IsActive != nil {
		category.IsActive = *req.IsActive
	}
	if req.IconPath != nil && strings.TrimSpace(*req.IconPath) != "" {
		icon := strings.TrimSpace(*req.IconPath)
		category.IconPath = &icon
	}

	if err := s.repo.CreateCategory(ctx, category); err != nil {
		return nil, s.mapRepoErr("create category", err)
	}
	return category, nil
}

func (s *CatalogService) UpdateCategory(ctx context.Context, rawID string, patch model.CategoryPatch) (*model.Category, error) {
	id, err := uuid.Parse(strings.TrimSpace(rawID))
	if err != nil {
		return nil, ErrCategoryNotFound
	}
	patch.Name = trimmed(patch.Name)
	patch.Slug = trimmed(patch.Slug)
	patch.IconPath = trimmed(patch.IconPath)
	if (patch.Name != nil && *patch.Name == "") || (patch.Slug != nil && *patch.Slug == "") {
		return nil, validation(errors.New("name and slug cannot be empty"))
	}

	category, err := s.repo.UpdateCategory(ctx, id, patch)
	if err != nil {
		return nil, s.mapRepoErr("update category", err)
	}
	return category, nil
}

func (s *CatalogService) DeleteCategory(ctx context.Context, rawID string) error {
	id, err := uuid.Parse(strings.TrimSpace(rawID))
	if err != nil {
		return ErrCategoryNotFound
	}
	if err := s.repo.DeleteCategory(ctx, id); err != nil {
		return s.mapRepoErr("delete category", err)
	}
	return nil
}

// ListProducts returns every product for admins or only the visible ones
// for shoppers, depending on f.Visible.
func (s *CatalogService) ListProducts(ctx context.Context, f model.ProductFilter) ([]*model.Product, error) {
	f.Query = strings.TrimSpace(f.Query)
	f.BrandSlug = strings.TrimSpace(f.BrandSlug)
	f.Category = strings.TrimSpace(f.Category)
	products, err := s.repo.ListProducts(ctx, f)
	if err != nil {
		return nil, persistence("list products", err)
	}
	return products, nil
}

// GetProduct looks a product up by id. With visibleOnly a hidden or draft
// product is reported as missing.
func (s *CatalogService) GetProduct(ctx context.Context, rawID string, visibleOnly bool) (*model.Product, error) {
	id, err := uuid.Parse(strings.TrimSpace(rawID))
	if err != nil {
		return nil, ErrProductNotFound
	}
	product, err := s.repo.GetProduct(ctx, id)
	if err != nil {
		return nil, s.mapRepoErr("get product", err)
	}
	if visibleOnly && (!product.IsActive || product.Status != model.ProductStatusPublished) {
		return nil, ErrProductNotFound
	}
	return product, nil
}

func (s *CatalogService) CreateProduct(ctx context.Context, req model.ProductCreateRequest) (*model.Product, error) {
	if err := req.Validate(); err != nil {
		return nil, validation(err)
	}
	product := &model.Product{
		Name:        strings.TrimSpace(req.Name),
		BrandSlug:   strings.TrimSpace(req.BrandSlug),
		Category:    strings.TrimSpace(req.Category),
		Price:       req.Price,
		ImageURL:    trimmedOrNil(req.ImageURL),
		Description: strings.TrimSpace(req.Description),
		Status:      model.ParseProductStatus(req.Status),
		IsActive:    true,
		Stock:       max(req.Stock, 0),
		Condition:   model.ParseProductCondition(req.Condition),
	}
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}

	if err := s.repo.CreateProduct(ctx, product); err != nil {
		return nil, persistence("create product", err)
	}
	logger.Info("[catalog] product created", "product_id", product.ID, "brand", product.BrandSlug)
	return product, nil
}

func (s *CatalogService) UpdateProduct(ctx context.Context, rawID string, patch model.ProductPatch) (*model.Product, error) {
	id, err := uuid.Parse(strings.TrimSpace(rawID))
	if err != nil {
		return nil, ErrProductNotFound
	}
	if patch.IsEmpty() {
		return nil, ErrNothingToUpdate
	}

	patch.Name = trimmed(patch.Name)
	patch.BrandSlug = trimmed(patch.BrandSlug)
	patch.Category = trimmed(patch.Category)
	patch.Description = trimmed(patch.Description)
	patch.ImageURL = trimmed(patch.ImageURL)
	for _, f := range []*string{patch.Name, patch.BrandSlug, patch.Category} {
		if f != nil && *f == "" {
			return nil, validation(errors.New("name, brand_slug and category cannot be empty"))
		}
	}
	if patch.Price != nil && *patch.Price < 0 {
		return nil, validation(errors.New("price must not be negative"))
	}
	if patch.Status != nil {
		st := model.ParseProductStatus(string(*patch.Status))
		patch.Status = &st
	}
	if patch.Condition != nil {
		c := model.ParseProductCondition(string(*patch.Condition))
		patch.Condition = &c
	}
	if patch.Stock != nil && *patch.Stock < 0 {
		zero := 0
		patch.Stock = &zero
	}

	product, err := s.repo.UpdateProduct(ctx, id, patch)
	if err != nil {
		return nil, s.mapRepoErr("update product", err)
	}
	return product, nil
}

func (s *CatalogService) DeleteProduct(ctx context.Context, rawID string) error {
	id, err := uuid.Parse(strings.TrimSpace(rawID))
	if err != nil {
		return ErrProductNotFound
	}
	if err := s.repo.DeleteProduct(ctx, id); err != nil {
		return s.mapRepoErr("delete product", err)
	}
	return nil
}

// Upload stores an admin supplied file at <folder>/<name> and returns where
// it landed.
func (s *CatalogService) Upload(ctx context.Context, folder, filename string, file *model.Upload) (*model.StoredObject, error) {
	if file == nil || len(file.Data) == 0 {
		return nil, validation(errors.New("file is required"))
	}
	folder = SafeFileName(folder)
	if folder == "" {
		return nil, validation(errors.New("folder is required"))
	}

	ext := fileExt(file.Filename, file.ContentType)
	name := filename
	if strings.TrimSpace(name) == "" {
		name = file.Filename
	}
	base := SafeFileName(name)
	if base == "" {
		base = fmt.Sprintf("upload-%d.%s", s.now().UnixMilli(), ext)
	}
	if !strings.Contains(base, ".") {
		base += "." + ext
	}
	objectPath := folder + "/" + base

	if err := s.storage.Put(ctx, objectPath, file.ContentType, file.Data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	logger.Info("[catalog] file uploaded", "path", objectPath, "size", len(file.Data))

	return &model.StoredObject{
		Bucket:    s.storage.Bucket(),
		Path:      objectPath,
		PublicURL: s.storage.PublicURL(objectPath),
	}, nil
}

func (s *CatalogService) removeQuietly(ctx context.Context, path string) {
	if err := s.storage.Remove(ctx, path); err != nil {
		logger.Warn("[catalog] failed to remove object", "path", path, "error", err)
	}
}

func (s *CatalogService) mapRepoErr(op string, err error) error {
	switch {
	case errors.Is(err, repository.ErrBrandNotFound):
		return ErrBrandNotFound
	case errors.Is(err, repository.ErrCategoryNotFound):
		return ErrCategoryNotFound
	case errors.Is(err, repository.ErrProductNotFound):
		return ErrProductNotFound
	case errors.Is(err, repository.ErrDuplicateSlug):
		return ErrDuplicateSlug
	}
	return persistence(op, err)
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}

func trimmedOrNil(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	return trimmed(s)
}
