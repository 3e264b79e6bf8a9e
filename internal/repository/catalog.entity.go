package repository

import (
	"github.com/nimasrn/storefront-backoffice/internal/model"
	"github.com/nimasrn/storefront-backoffice/pkg/pg"
)

type BrandEntity struct {
	pg.Model
	Name     string  `gorm:"column:name;not null"`
	Slug     string  `gorm:"column:slug;not null;uniqueIndex"`
	LogoURL  *string `gorm:"column:logo_url"`
	IsActive bool    `gorm:"column:is_active;not null"`
}

func (BrandEntity) TableName() string {
	return "brands"
}

type CategoryEntity struct {
	pg.Model
	Name     string  `gorm:"column:name;not null"`
	Slug     string  `gorm:"column:slug;not null;uniqueIndex"`
	IconPath *string `gorm:"column:icon_path"`
	IsActive bool    `gorm:"column:is_active;not null"`
	Sort     int     `gorm:"column:sort;not null"`
}

func (CategoryEntity) TableName() string {
	return "category"
}

type ProductEntity struct {
	pg.Model
	Name        string   `gorm:"column:name;not null"`
	BrandSlug   string   `gorm:"column:brand_slug;not null;index"`
	Category    string   `gorm:"column:category;not null;index"`
	Price       *float64 `gorm:"column:price"`
	ImageURL    *string  `gorm:"column:image_url"`
	Description string   `gorm:"column:description;not null;default:''"`
	Status      string   `gorm:"column:status;not null"`
	IsActive    bool     `gorm:"column:is_active;not null"`
	Stock       int      `gorm:"column:stock;not null"`
	Condition   string   `gorm:"column:condition;not null"`
}

func (ProductEntity) TableName() string {
	return "products"
}

func toBrandEntity(m *model.Brand) *BrandEntity {
	return &BrandEntity{
		Model:    pg.Model{ID: m.ID},
		Name:     m.Name,
		Slug:     m.Slug,
		LogoURL:  m.LogoURL,
		IsActive: m.IsActive,
	}
}

func toBrandModel(e *BrandEntity) *model.Brand {
	return &model.Brand{
		ID:        e.ID,
		Name:      e.Name,
		Slug:      e.Slug,
		LogoURL:   e.LogoURL,
		IsActive:  e.IsActive,
		CreatedAt: e.CreatedAt,
	}
}

func toCategoryEntity(m *model.Category) *CategoryEntity {
	return &CategoryEntity{
		Model:    pg.Model{ID: m.ID},
		Name:     m.Name,
		Slug:     m.Slug,
		IconPath: m.IconPath,
		IsActive: m.IsActive,
		Sort:     m.Sort,
	}
}

func toCategoryModel(e *CategoryEntity) *model.Category {
	return &model.Category{
		ID:        e.ID,
		Name:      e.Name,
		Slug:      e.Slug,
		IconPath:  e.IconPath,
		IsActive:  e.IsActive,
		Sort:      e.Sort,
		CreatedAt: e.CreatedAt,
	}
}

func toProductEntity(m *model.Product) *ProductEntity {
	return &ProductEntity{
		Model:       pg.Model{ID: m.ID},
		Name:        m.Name,
		BrandSlug:   m.BrandSlug,
		Category:    m.Category,
		Price:       m.Price,
		ImageURL:    m.ImageURL,
		Description: m.Description,
		Status:      string(m.Status),
		IsActive:    m.IsActive,
		Stock:       m.Stock,
		Condition:   string(m.Condition),
	}
}

func toProductModel(e *ProductEntity) *model.Product {
	return &model.Product{
		ID:          e.ID,
		Name:        e.Name,
		BrandSlug:   e.BrandSlug,
		Category:    e.Category,
		Price:       e.Price,
		ImageURL:    e.ImageURL,
		Description: e.Description,
		Status:      model.ProductStatus(e.Status),
		IsActive:    e.IsActive,
		Stock:       e.Stock,
		Condition:   model.ProductCondition(e.Condition),
		CreatedAt:   e.CreatedAt,
	}
}

func toProductModels(entities []*ProductEntity) []*model.Product {
	models := make([]*model.Product, len(entities))
	for i, e := range entities {
		models[i] = toProductModel(e)
	}
	return models
}
