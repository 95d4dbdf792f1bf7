package http

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ojuansoares/dolse-vitta/internal/adapter/http/middleware"
	domain "github.com/ojuansoares/dolse-vitta/internal/entity"
	"github.com/ojuansoares/dolse-vitta/internal/usecase"
	"github.com/shopspring/decimal"
)

type CatalogHandler struct {
	catalog *usecase.Catalog
	timeout time.Duration
}

func NewCatalogHandler(catalog *usecase.Catalog, timeout time.Duration) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, timeout: timeout}
}

type createProductReq struct {
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	CategoryID  *string          `json:"category_id"`
	ImageURL    string           `json:"image_url"`
	IsAvailable *bool            `json:"is_available"`
	IsFeatured  bool             `json:"is_featured"`
	SortOrder   int              `json:"sort_order"`
}

type createCategoryReq struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
	IsActive    *bool  `json:"is_active"`
	SortOrder   int    `json:"sort_order"`
}

type reorderReq struct {
	Items []struct {
		ID        string `json:"id"`
		SortOrder int    `json:"sort_order"`
	} `json:"items"`
}

func boolOr(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}

func queryFlag(c *gin.Context, name string) bool {
	v, err := strconv.ParseBool(c.Query(name))
	return err == nil && v
}

// ListProducts handles GET /v1/products[?available=true].
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	ctx, cancel := requestCtx(c, h.timeout)
	defer cancel()

	ps, err := h.catalog.ListProducts(ctx, queryFlag(c, "available"))
	if err != nil {
		writeError(c, err)
		return
	}
	out := make([]productDTO, 0, len(ps))
	for _, p := range ps {
		out = append(out, toProductDTO(p))
	}
	ok(c, gin.H{"products": out})
}

func (h *CatalogHandler) GetProduct(c *gin.Context) {
	ctx, cancel := requestCtx(c, h.timeout)
	defer cancel()

	p, err := h.catalog.GetProduct(ctx, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	ok(c, gin.H{"product": toProductDTO(*p)})
}

func (h *CatalogHandler) CreateProduct(c *gin.Context) {
	var req createProductReq
	if !bindJSON(c, &req) {
		return
	}
	if req.Price == nil {
		badRequest(c, "price is required")
		return
	}

	ctx, cancel := requestCtx(c, h.timeout)
	defer cancel()

	p, err := h.catalog.CreateProduct(ctx, usecase.NewProductInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       *req.Price,
		CategoryID:  req.CategoryID,
		ImageURL:    req.ImageURL,
		IsAvailable: boolOr(req.IsAvailable, true),
		IsFeatured:  req.IsFeatured,
		SortOrder:   req.SortOrder,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	ok(c, gin.H{"message": "Product created successfully!", "product": toProductDTO(*p)})
}

func (h *CatalogHandler) UpdateProduct(c *gin.Context) {
	patch, bound := bindPatch(c, usecase.ProductSchema)
	if !bound {
		return
	}

	ctx, cancel := requestCtx(c, h.timeout)
	defer cancel()

	if err := h.catalog.UpdateProduct(ctx, c.Param("id"), patch); err != nil {
		writeError(c, err)
		return
	}
	ok(c, gin.H{"message": "Product updated successfully!", "updated_fields": patch.Fields()})
}

func (h *CatalogHandler) DeleteProduct(c *gin.Context) {
	ctx, cancel := requestCtx(c, h.timeout)
	defer cancel()

	if err := h.catalog.DeleteProduct(ctx, c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	ok(c, gin.H{"message": "Product deleted successfully!"})
}

// ListCategories handles GET /v1/categories. all=true is only honoured for
// authenticated admins.
func (h *CatalogHandler) ListCategories(c *gin.Context) {
	onlyActive := true
	if _, authed := middleware.IdentityFrom(c); authed && queryFlag(c, "all") {
		onlyActive = false
	}

	ctx, cancel := requestCtx(c, h.timeout)
	defer cancel()

	cs, err := h.catalog.ListCategories(ctx, onlyActive)
	if err != nil {
		writeError(c, err)
		return
	}
	out := make([]categoryDTO, 0, len(cs))
	for _, cat := range cs {
		out = append(out, toCategoryDTO(cat))
	}
	ok(c, gin.H{"categories": out})
}

func (h *CatalogHandler) GetCategory(c *gin.Context) {
	ctx, cancel := requestCtx(c, h.timeout)
	defer cancel()

	cat, err := h.catalog.GetCategory(ctx, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	ok(c, gin.H{"category": toCategoryDTO(*cat)})
}

func (h *CatalogHandler) CreateCategory(c *gin.Context) {
	var req createCategoryReq
	if !bindJSON(c, &req) {
		return
	}

	ctx, cancel := requestCtx(c, h.timeout)
	defer cancel()

	cat, err := h.catalog.CreateCategory(ctx, usecase.NewCategoryInput{
		Name:        req.Name,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		IsActive:    boolOr(req.IsActive, true),
		SortOrder:   req.SortOrder,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	ok(c, gin.H{"message": "Category created successfully!", "category": toCategoryDTO(*cat)})
}

func (h *CatalogHandler) UpdateCategory(c *gin.Context) {
	patch, bound := bindPatch(c, usecase.CategorySchema)
	if !bound {
		return
	}

	ctx, cancel := requestCtx(c, h.timeout)
	defer cancel()

	if err := h.catalog.UpdateCategory(ctx, c.Param("id"), patch); err != nil {
		writeError(c, err)
		return
	}
	ok(c, gin.H{"message": "Category updated successfully!", "updated_fields": patch.Fields()})
}

// DeleteCategory removes the category's products first, then the category.
func (h *CatalogHandler) DeleteCategory(c *gin.Context) {
	ctx, cancel := requestCtx(c, h.timeout)
	defer cancel()

	n, err := h.catalog.DeleteCategory(ctx, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	ok(c, gin.H{"message": "Category deleted successfully!", "products_deleted": n})
}

// Reorder handles PUT /v1/reorder/:kind where kind is categories or products.
func (h *CatalogHandler) Reorder(c *gin.Context) {
	var kind string
	switch c.Param("kind") {
	case "categories":
		kind = usecase.KindCategory
	case "products":
		kind = usecase.KindProduct
	default:
		badRequest(c, "unknown reorder target "+strconv.Quote(c.Param("kind")))
		return
	}

	var req reorderReq
	if !bindJSON(c, &req) {
		return
	}
	entries := make([]domain.SortEntry, 0, len(req.Items))
	for _, it := range req.Items {
		entries = append(entries, domain.SortEntry{ID: it.ID, SortOrder: it.SortOrder})
	}

	ctx, cancel := requestCtx(c, h.timeout)
	defer cancel()

	n, err := h.catalog.Reorder(ctx, kind, entries)
	if err != nil {
		c.Header("X-Applied-Count", strconv.Itoa(n))
		writeError(c, err)
		return
	}
	ok(c, gin.H{"message": "Reordered successfully!", "applied": n})
}
