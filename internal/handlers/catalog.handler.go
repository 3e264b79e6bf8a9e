package handlers

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"strings"

	"github.com/fasthttp/router"
	"github.com/google/uuid"
	"github.com/nimasrn/storefront-backoffice/internal/model"
	xhttp "github.com/nimasrn/storefront-backoffice/pkg/http"
)

type CatalogService interface {
	ListBrands(ctx context.Context, activeOnly bool) ([]*model.Brand, error)
	CreateBrand(ctx context.Context, req model.BrandCreateRequest) (*model.Brand, error)
	SetBrandActive(ctx context.Context, rawID string, active bool) (*model.Brand, error)
	DeleteBrand(ctx context.Context, rawID string) (uuid.UUID, error)

	ListCategories(ctx context.Context, activeOnly bool) ([]*model.Category, error)
	CreateCategory(ctx context.Context, req model.CategoryCreateRequest) (*model.Category, error)
	UpdateCategory(ctx context.Context, rawID string, patch model.CategoryPatch) (*model.Category, error)
	DeleteCategory(ctx context.Context, rawID string) error

	ListProducts(ctx context.Context, f model.ProductFilter) ([]*model.Product, error)
	GetProduct(ctx context.Context, rawID string, visibleOnly bool) (*model.Product, error)
	CreateProduct(ctx context.Context, req model.ProductCreateRequest) (*model.Product, error)
	UpdateProduct(ctx context.Context, rawID string, patch model.ProductPatch) (*model.Product, error)
	DeleteProduct(ctx context.Context, rawID string) error

	Upload(ctx context.Context, folder, filename string, file *model.Upload) (*model.StoredObject, error)
}

type CatalogHandler struct {
	svc CatalogService
}

func RegisterCatalogAdminRoutes(e *router.Group, h *CatalogHandler, requireAdmin xhttp.MiddlewareFunc) {
	e.GET("/brands", requireAdmin(h.AdminListBrands))
	e.POST("/brands", requireAdmin(h.CreateBrand))
	e.PATCH("/brands", requireAdmin(h.UpdateBrand))
	e.DELETE("/brands", requireAdmin(h.DeleteBrand))

	e.GET("/category", requireAdmin(h.AdminListCategories))
	e.POST("/category", requireAdmin(h.CreateCategory))
	e.PATCH("/category", requireAdmin(h.UpdateCategory))
	e.DELETE("/category", requireAdmin(h.DeleteCategory))
	e.PATCH("/category/{id}", requireAdmin(h.UpdateCategory))
	e.DELETE("/category/{id}", requireAdmin(h.DeleteCategory))

	e.GET("/products", requireAdmin(h.AdminListProducts))
	e.POST("/products", requireAdmin(h.CreateProduct))
	e.PATCH("/products", requireAdmin(h.UpdateProduct))
	e.DELETE("/products", requireAdmin(h.DeleteProduct))
	e.PATCH("/products/{id}", requireAdmin(h.UpdateProduct))
	e.DELETE("/products/{id}", requireAdmin(h.DeleteProduct))

	e.POST("/upload", requireAdmin(h.Upload))
}

// RegisterCatalogPublicRoutes mounts the shopper-facing read endpoints.
func RegisterCatalogPublicRoutes(e *router.Group, h *CatalogHandler) {
	e.GET("/products", h.PublicListProducts)
	e.GET("/products/{id}", h.PublicGetProduct)
	e.GET("/brands", h.PublicListBrands)
	e.GET("/categories", h.PublicListCategories)
}

func NewCatalogHandler(svc CatalogService) *CatalogHandler {
	return &CatalogHandler{svc: svc}
}

/* --------------------------------- Brands ----------------------------------- */

func (h *CatalogHandler) AdminListBrands(ctx *xhttp.RequestCtx) {
	h.listBrands(ctx, false)
}

func (h *CatalogHandler) PublicListBrands(ctx *xhttp.RequestCtx) {
	h.listBrands(ctx, true)
}

func (h *CatalogHandler) listBrands(ctx *xhttp.RequestCtx, activeOnly bool) {
	rows, err := h.svc.ListBrands(ctx, activeOnly)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeOK(ctx, xhttp.StatusOK, envelope{"rows": rows})
}

func (h *CatalogHandler) CreateBrand(ctx *xhttp.RequestCtx) {
	form, ok := multipartForm(ctx)
	if !ok {
		return
	}
	logo, err := formFile(form, "file")
	if err != nil {
		writeFail(ctx, xhttp.StatusBadRequest, "invalid_body", err.Error())
		return
	}

	brand, err := h.svc.CreateBrand(ctx, model.BrandCreateRequest{
		Name:     formValue(form, "name"),
		Slug:     formValue(form, "slug"),
		IsActive: parseFormBool(formValue(form, "is_active"), true),
		Logo:     logo,
	})
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeOK(ctx, xhttp.StatusCreated, envelope{"row": brand})
}

type brandPatchRequest struct {
	IsActive *bool `json:"is_active"`
}

func (h *CatalogHandler) UpdateBrand(ctx *xhttp.RequestCtx) {
	var req brandPatchRequest
	if err := readJSON(ctx, &req); err != nil {
		writeFail(ctx, xhttp.StatusBadRequest, "invalid_body", "invalid request body")
		return
	}
	if req.IsActive == nil {
		writeFail(ctx, xhttp.StatusBadRequest, "nothing_to_update", "is_active is required")
		return
	}
	brand, err := h.svc.SetBrandActive(ctx, targetID(ctx), *req.IsActive)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeOK(ctx, xhttp.StatusOK, envelope{"row": brand})
}

func (h *CatalogHandler) DeleteBrand(ctx *xhttp.RequestCtx) {
	id, err := h.svc.DeleteBrand(ctx, targetID(ctx))
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeOK(ctx, xhttp.StatusOK, envelope{"id": id})
}

/* ------------------------------- Categories --------------------------------- */

func (h *CatalogHandler) AdminListCategories(ctx *xhttp.RequestCtx) {
	h.listCategories(ctx, false)
}

func (h *CatalogHandler) PublicListCategories(ctx *xhttp.RequestCtx) {
	h.listCategories(ctx, true)
}

func (h *CatalogHandler) listCategories(ctx *xhttp.RequestCtx, activeOnly bool) {
	rows, err := h.svc.ListCategories(ctx, activeOnly)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeOK(ctx, xhttp.StatusOK, envelope{"rows": rows})
}

func (h *CatalogHandler) CreateCategory(ctx *xhttp.RequestCtx) {
	var req model.CategoryCreateRequest
	if err := readJSON(ctx, &req); err != nil {
		writeFail(ctx, xhttp.StatusBadRequest, "invalid_body", "invalid request body")
		return
	}
	row, err := h.svc.CreateCategory(ctx, req)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeOK(ctx, xhttp.StatusCreated, envelope{"row": row})
}

func (h *CatalogHandler) UpdateCategory(ctx *xhttp.RequestCtx) {
	var patch model.CategoryPatch
	if err := readJSON(ctx, &patch); err != nil {
		writeFail(ctx, xhttp.StatusBadRequest, "invalid_body", "invalid request body")
		return
	}
	row, err := h.svc.UpdateCategory(ctx, targetID(ctx), patch)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeOK(ctx, xhttp.StatusOK, envelope{"row": row})
}

func (h *CatalogHandler) DeleteCategory(ctx *xhttp.RequestCtx) {
	id := targetID(ctx)
	if err := h.svc.DeleteCategory(ctx, id); err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeOK(ctx, xhttp.StatusOK, envelope{"id": id})
}

/* -------------------------------- Products ---------------------------------- */

func (h *CatalogHandler) AdminListProducts(ctx *xhttp.RequestCtx) {
	h.listProducts(ctx, false)
}

func (h *CatalogHandler) PublicListProducts(ctx *xhttp.RequestCtx) {
	h.listProducts(ctx, true)
}

func (h *CatalogHandler) listProducts(ctx *xhttp.RequestCtx, visible bool) {
	rows, err := h.svc.ListProducts(ctx, model.ProductFilter{
		Query:     query(ctx, "q"),
		BrandSlug: query(ctx, "brand"),
		Category:  query(ctx, "category"),
		Visible:   visible,
	})
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeOK(ctx, xhttp.StatusOK, envelope{"rows": rows})
}

func (h *CatalogHandler) PublicGetProduct(ctx *xhttp.RequestCtx) {
	id, _ := ctx.UserValue("id").(string)
	row, err := h.svc.GetProduct(ctx, id, true)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeOK(ctx, xhttp.StatusOK, envelope{"row": row})
}

func (h *CatalogHandler) CreateProduct(ctx *xhttp.RequestCtx) {
	var req model.ProductCreateRequest
	if err := readJSON(ctx, &req); err != nil {
		writeFail(ctx, xhttp.StatusBadRequest, "invalid_body", "invalid request body")
		return
	}
	row, err := h.svc.CreateProduct(ctx, req)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeOK(ctx, xhttp.StatusCreated, envelope{"row": row})
}

func (h *CatalogHandler) UpdateProduct(ctx *xhttp.RequestCtx) {
	var patch model.ProductPatch
	if err := readJSON(ctx, &patch); err != nil {
		writeFail(ctx, xhttp.StatusBadRequest, "invalid_body", "invalid request body")
		return
	}
	row, err := h.svc.UpdateProduct(ctx, targetID(ctx), patch)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeOK(ctx, xhttp.StatusOK, envelope{"row": row})
}

func (h *CatalogHandler) DeleteProduct(ctx *xhttp.RequestCtx) {
	id := targetID(ctx)
	if err := h.svc.DeleteProduct(ctx, id); err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeOK(ctx, xhttp.StatusOK, envelope{"id": id})
}

/* --------------------------------- Upload ----------------------------------- */

func (h *CatalogHandler) Upload(ctx *xhttp.RequestCtx) {
	form, ok := multipartForm(ctx)
	if !ok {
		return
	}
	file, err := formFile(form, "file")
	if err != nil {
		writeFail(ctx, xhttp.StatusBadRequest, "invalid_body", err.Error())
		return
	}
	obj, err := h.svc.Upload(ctx, formValue(form, "folder"), formValue(form, "filename"), file)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeOK(ctx, xhttp.StatusOK, envelope{
		"bucket":    obj.Bucket,
		"path":      obj.Path,
		"publicUrl": obj.PublicURL,
	})
}

// multipartForm writes the failure response itself when the body is not a
// readable multipart form.
func multipartForm(ctx *xhttp.RequestCtx) (*multipart.Form, bool) {
	if !bytes.HasPrefix(ctx.Request.Header.ContentType(), []byte("multipart/form-data")) {
		writeFail(ctx, xhttp.StatusUnsupportedMediaType, "bad_content_type", "expected multipart/form-data")
		return nil, false
	}
	form, err := ctx.MultipartForm()
	if err != nil {
		writeFail(ctx, xhttp.StatusBadRequest, "invalid_body", "invalid multipart form")
		return nil, false
	}
	return form, true
}

// targetID reads the row id from the path when routed as /{id}, otherwise
// from ?id=.
func targetID(ctx *xhttp.RequestCtx) string {
	if id, ok := ctx.UserValue("id").(string); ok && id != "" {
		return id
	}
	return query(ctx, "id")
}

func formValue(form *multipart.Form, key string) string {
	if v := form.Value[key]; len(v) > 0 {
		return strings.TrimSpace(v[0])
	}
	return ""
}

// formFile returns nil when the field is absent or empty.
func formFile(form *multipart.Form, key string) (*model.Upload, error) {
	files := form.File[key]
	if len(files) == 0 || files[0].Size == 0 {
		return nil, nil
	}
	fh := files[0]
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", key, err)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	return &model.Upload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

func parseFormBool(v string, def bool) bool {
	switch strings.ToLower(v) {
	case "true", "1", "on", "yes":
		return true
	case "false", "0", "off", "no":
		return false
	}
	return def
}
