package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/nimasrn/storefront-backoffice/internal/model"
	"github.com/nimasrn/storefront-backoffice/pkg/pg"
	"gorm.io/gorm"
)

var (
	ErrBrandNotFound    = errors.New("brand not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrProductNotFound  = errors.New("product not found")
	ErrDuplicateSlug    = errors.New("slug already exists")
)

type CatalogRepository struct {
	*pg.DB
}

func NewCatalogRepository(db *pg.DB) *CatalogRepository {
	return &CatalogRepository{
		db,
	}
}

func (r *CatalogRepository) ListBrands(ctx context.Context, activeOnly bool) ([]*model.Brand, error) {
	q := r.Read(ctx).Order("created_at DESC")
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	var entities []*BrandEntity
	if err := q.Find(&entities).Error; err != nil {
		return nil, err
	}
	brands := make([]*model.Brand, len(entities))
	for i, e := range entities {
		brands[i] = toBrandModel(e)
	}
	return brands, nil
}

func (r *CatalogRepository) GetBrand(ctx context.Context, id uuid.UUID) (*model.Brand, error) {
	var entity BrandEntity
	if err := r.Read(ctx).Where("id = ?", id).First(&entity).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBrandNotFound
		}
		return nil, err
	}
	return toBrandModel(&entity), nil
}

func (r *CatalogRepository) CreateBrand(ctx context.Context, brand *model.Brand) error {
	entity := toBrandEntity(brand)
	if err := r.Write(ctx).Create(entity).Error; err != nil {
		return translateWriteError(err)
	}
	*brand = *toBrandModel(entity)
	return nil
}

func (r *CatalogRepository) SetBrandActive(ctx context.Context, id uuid.UUID, active bool) (*model.Brand, error) {
	var entity BrandEntity
	err := r.updateReturning(ctx, &entity, id, map[string]any{"is_active": active})
	if err != nil {
		return nil, notFoundAs(err, ErrBrandNotFound)
	}
	return toBrandModel(&entity), nil
}

func (r *CatalogRepository) DeleteBrand(ctx context.Context, id uuid.UUID) error {
	return notFoundAs(r.deleteByID(ctx, &BrandEntity{}, id), ErrBrandNotFound)
}

func (r *CatalogRepository) ListCategories(ctx context.Context, activeOnly bool) ([]*model.Category, error) {
	q := r.Read(ctx)
	if activeOnly {
		q = q.Where("is_active = ?", true).Order("sort ASC").Order("name ASC")
	} else {
		q = q.Order("created_at DESC")
	}
	var entities []*CategoryEntity
	if err := q.Find(&entities).Error; err != nil {
		return nil, err
	}
	categories := make([]*model.Category, len(entities))
	for i, e := range entities {
		categories[i] = toCategoryModel(e)
	}
	return categories, nil
}

func (r *CatalogRepository) CreateCategory(ctx context.Context, category *model.Category) error {
	entity := toCategoryEntity(category)
	if err := r.Write(ctx).Create(entity).Error; err != nil {
		return translateWriteError(err)
	}
	*category = *toCategoryModel(entity)
	return nil
}

func (r *CatalogRepository) UpdateCategory(ctx context.Context, id uuid.UUID, patch model.CategoryPatch) (*model.Category, error) {
	cols := map[string]any{}
	if patch.Name != nil {
		cols["name"] = *patch.Name
	}
	if patch.Slug != nil {
		cols["slug"] = *patch.Slug
	}
	if patch.Sort != nil {
		cols["sort"] = *patch.Sort
	}
	if patch.IsActive != nil {
		cols["is_active"] = *patch.IsActive
	}
	if patch.IconPath != nil {
		cols["icon_path"] = nullable(*patch.IconPath)
	}

	var entity CategoryEntity
	if err := r.updateReturning(ctx, &entity, id, cols); err != nil {
		return nil, notFoundAs(err, ErrCategoryNotFound)
	}
	return toCategoryModel(&entity), nil
}

func (r *CatalogRepository) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	return notFoundAs(r.deleteByID(ctx, &CategoryEntity{}, id), ErrCategoryNotFound)
}

// ListProducts returns products newest first.
func (r *CatalogRepository) ListProducts(ctx context.Context, filter model.ProductFilter) ([]*model.Product, error) {
	q := r.Read(ctx).Order("created_at DESC")
	if filter.Visible {
		q = q.Where("is_active = ? AND status = ?", true, string(model.ProductStatusPublished))
	}
	if filter.BrandSlug != "" {
		q = q.Where("brand_slug = ?", filter.BrandSlug)
	}
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if term := strings.TrimSpace(filter.Query); term != "" {
		pattern := "%" + escapeLike(strings.ToLower(term)) + "%"
		q = q.Where("LOWER(name) LIKE ? ESCAPE '\\' OR LOWER(description) LIKE ? ESCAPE '\\'", pattern, pattern)
	}

	var entities []*ProductEntity
	if err := q.Find(&entities).Error; err != nil {
		return nil, err
	}
	return toProductModels(entities), nil
}

func (r *CatalogRepository) GetProduct(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	var entity ProductEntity
	if err := r.Read(ctx).Where("id = ?", id).First(&entity).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return toProductModel(&entity), nil
}

func (r *CatalogRepository) CreateProduct(ctx context.Context, product *model.Product) error {
	entity := toProductEntity(product)
	if err := r.Write(ctx).Create(entity).Error; err != nil {
		return err
	}
	*product = *toProductModel(entity)
	return nil
}

func (r *CatalogRepository) UpdateProduct(ctx context.Context, id uuid.UUID, patch model.ProductPatch) (*model.Product, error) {
	cols := map[string]any{}
	if patch.Name != nil {
		cols["name"] = *patch.Name
	}
	if patch.BrandSlug != nil {
		cols["brand_slug"] = *patch.BrandSlug
	}
	if patch.Category != nil {
		cols["category"] = *patch.Category
	}
	if patch.Price != nil {
		cols["price"] = *patch.Price
	}
	if patch.ImageURL != nil {
		cols["image_url"] = nullable(*patch.ImageURL)
	}
	if patch.Description != nil {
		cols["description"] = *patch.Description
	}
	if patch.Status != nil {
		cols["status"] = string(*patch.Status)
	}
	if patch.IsActive != nil {
		cols["is_active"] = *patch.IsActive
	}
	if patch.Stock != nil {
		cols["stock"] = *patch.Stock
	}
	if patch.Condition != nil {
		cols["condition"] = string(*patch.Condition)
	}

	var entity ProductEntity
	if err := r.updateReturning(ctx, &entity, id, cols); err != nil {
		return nil, notFoundAs(err, ErrProductNotFound)
	}
	return toProductModel(&entity), nil
}

func (r *CatalogRepository) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return notFoundAs(r.deleteByID(ctx, &ProductEntity{}, id), ErrProductNotFound)
}

// updateReturning applies cols to the row and loads it back into dest within
// one transaction. An empty cols only loads the row.
func (r *CatalogRepository) updateReturning(ctx context.Context, dest any, id uuid.UUID, cols map[string]any) error {
	return r.WithinTransaction(ctx, func(ctx context.Context) error {
		tx := r.Write(ctx)
		if len(cols) > 0 {
			result := tx.Model(dest).Where("id = ?", id).Updates(cols)
			if result.Error != nil {
				return translateWriteError(result.Error)
			}
			if result.RowsAffected == 0 {
				return gorm.ErrRecordNotFound
			}
		}
		return tx.Where("id = ?", id).First(dest).Error
	})
}

func (r *CatalogRepository) deleteByID(ctx context.Context, entity any, id uuid.UUID) error {
	result := r.Write(ctx).Where("id = ?", id).Delete(entity)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func notFoundAs(err, target error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return target
	}
	return err
}

func translateWriteError(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateSlug
	}
	return err
}
