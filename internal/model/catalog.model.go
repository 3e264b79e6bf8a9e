package model

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Brand struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	LogoURL   *string   `json:"logo_url"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// BrandCreateRequest carries the multipart form of a new brand. Logo is
// optional.
type BrandCreateRequest struct {
	Name     string
	Slug     string
	IsActive bool
	Logo     *Upload
}

func (r BrandCreateRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return errors.New("name is required")
	}
	return nil
}

type Category struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	IconPath  *string   `json:"icon_path"`
	IsActive  bool      `json:"is_active"`
	Sort      int       `json:"sort"`
	CreatedAt time.Time `json:"created_at"`
}

type CategoryCreateRequest struct {
	Name     string  `json:"name"`
	Slug     string  `json:"slug"`
	Sort     *int    `json:"sort"`
	IsActive *bool   `json:"is_active"`
	IconPath *string `json:"icon_path"`
}

func (r CategoryCreateRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return errors.New("name is required")
	}
	if strings.TrimSpace(r.Slug) == "" {
		return errors.New("slug is required")
	}
	return nil
}

// CategoryPatch only touches the fields that are set. An empty IconPath
// clears the icon.
type CategoryPatch struct {
	Name     *string `json:"name"`
	Slug     *string `json:"slug"`
	Sort     *int    `json:"sort"`
	IsActive *bool   `json:"is_active"`
	IconPath *string `json:"icon_path"`
}

func (p CategoryPatch) IsEmpty() bool {
	return p.Name == nil && p.Slug == nil && p.Sort == nil && p.IsActive == nil && p.IconPath == nil
}

type ProductStatus string

const (
	ProductStatusPublished ProductStatus = "published"
	ProductStatusDraft     ProductStatus = "draft"
)

// ParseProductStatus maps anything that is not "draft" to published.
func ParseProductStatus(s string) ProductStatus {
	if strings.TrimSpace(s) == string(ProductStatusDraft) {
		return ProductStatusDraft
	}
	return ProductStatusPublished
}

type ProductCondition string

const (
	ProductConditionNew  ProductCondition = "new"
	ProductConditionUsed ProductCondition = "used"
)

// ParseProductCondition maps anything that is not "used" to new.
func ParseProductCondition(s string) ProductCondition {
	if strings.TrimSpace(s) == string(ProductConditionUsed) {
		return ProductConditionUsed
	}
	return ProductConditionNew
}

type Product struct {
	ID          uuid.UUID        `json:"id"`
	Name        string           `json:"name"`
	BrandSlug   string           `json:"brand_slug"`
	Category    string           `json:"category"`
	Price       *float64         `json:"price"`
	ImageURL    *string          `json:"image_url"`
	Description string           `json:"description"`
	Status      ProductStatus    `json:"status"`
	IsActive    bool             `json:"is_active"`
	Stock       int              `json:"stock"`
	Condition   ProductCondition `json:"condition"`
	CreatedAt   time.Time        `json:"created_at"`
}

type ProductCreateRequest struct {
	Name        string   `json:"name"`
	BrandSlug   string   `json:"brand_slug"`
	Category    string   `json:"category"`
	Price       *float64 `json:"price"`
	ImageURL    *string  `json:"image_url"`
	Description string   `json:"description"`
	Status      string   `json:"status"`
	IsActive    *bool    `json:"is_active"`
	Stock       int      `json:"stock"`
	Condition   string   `json:"condition"`
}

func (r ProductCreateRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return errors.New("name is required")
	}
	if strings.TrimSpace(r.BrandSlug) == "" {
		return errors.New("brand_slug is required")
	}
	if strings.TrimSpace(r.Category) == "" {
		return errors.New("category is required")
	}
	if r.Price != nil && *r.Price < 0 {
		return errors.New("price must not be negative")
	}
	return nil
}

type ProductPatch struct {
	Name        *string           `json:"name"`
	BrandSlug   *string           `json:"brand_slug"`
	Category    *string           `json:"category"`
	Price       *float64          `json:"price"`
	ImageURL    *string           `json:"image_url"`
	Description *string           `json:"description"`
	Status      *ProductStatus    `json:"status"`
	IsActive    *bool             `json:"is_active"`
	Stock       *int              `json:"stock"`
	Condition   *ProductCondition `json:"condition"`
}

func (p ProductPatch) IsEmpty() bool {
	return p.Name == nil && p.BrandSlug == nil && p.Category == nil && p.Price == nil &&
		p.ImageURL == nil && p.Description == nil && p.Status == nil && p.IsActive == nil &&
		p.Stock == nil && p.Condition == nil
}

// ProductFilter controls List queries. Visible restricts the result to what
// shoppers may see: active and published.
type ProductFilter struct {
	Query     string
	BrandSlug string
	Category  string
	Visible   bool
}

// Upload is a file received from a multipart form.
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// StoredObject describes a file written to the public bucket.
type StoredObject struct {
	Bucket    string `json:"bucket"`
	Path      string `json:"path"`
	PublicURL string `json:"publicUrl"`
}
