package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	domain "github.com/ojuansoares/dolse-vitta/internal/entity"
	"github.com/ojuansoares/dolse-vitta/internal/logging"
	"github.com/shopspring/decimal"
)

type NewProductInput struct {
	Name        string
	Description string
	Price       decimal.Decimal
	CategoryID  *string
	ImageURL    string
	IsAvailable bool
	IsFeatured  bool
	SortOrder   int
}

type NewCategoryInput struct {
	Name        string
	Description string
	ImageURL    string
	IsActive    bool
	SortOrder   int
}

// Catalog is the admin surface over categories and products.
type Catalog struct {
	store  CatalogStore
	events CatalogEvents
	now    func() time.Time
}

func NewCatalog(store CatalogStore, events CatalogEvents) *Catalog {
	return &Catalog{store: store, events: events, now: func() time.Time { return time.Now().UTC() }}
}

func (uc *Catalog) ListProducts(ctx context.Context, onlyAvailable bool) ([]domain.Product, error) {
	ps, err := uc.store.ListProducts(ctx, onlyAvailable)
	if err != nil {
		return nil, upstream("list products", err)
	}
	return ps, nil
}

func (uc *Catalog) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	p, err := uc.store.GetProduct(ctx, id)
	if err != nil {
		return nil, storeErr("get product", "product", err)
	}
	return p, nil
}

func (uc *Catalog) CreateProduct(ctx context.Context, in NewProductInput) (*domain.Product, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, validationf("product name is required")
	}
	p := &domain.Product{
		ID:          uuid.NewString(),
		Name:        name,
		Description: in.Description,
		Price:       in.Price,
		CategoryID:  in.CategoryID,
		ImageURL:    in.ImageURL,
		IsAvailable: in.IsAvailable,
		IsFeatured:  in.IsFeatured,
		SortOrder:   in.SortOrder,
		UpdatedAt:   uc.now(),
	}
	if err := p.Validate(); err != nil {
		return nil, validationf("price must be greater than or equal to 0")
	}
	if err := uc.store.CreateProduct(ctx, p); err != nil {
		return nil, upstream("create product", err)
	}
	uc.publish(ctx, KindProduct, p.ID, ActionCreated)
	return p, nil
}

// UpdateProduct applies a partial update. An empty patch is a successful no-op.
func (uc *Catalog) UpdateProduct(ctx context.Context, id string, patch Patch) error {
	if patch.Len() == 0 {
		return nil
	}
	if err := validateNamePatch(patch); err != nil {
		return err
	}
	if price, ok := patch.Decimal("price"); ok && price.IsNegative() {
		return validationf("price must be greater than or equal to 0")
	}
	if err := uc.store.UpdateProduct(ctx, id, patch); err != nil {
		return storeErr("update product", "product", err)
	}
	uc.publish(ctx, KindProduct, id, ActionUpdated)
	return nil
}

func (uc *Catalog) DeleteProduct(ctx context.Context, id string) error {
	if err := uc.store.DeleteProduct(ctx, id); err != nil {
		return storeErr("delete product", "product", err)
	}
	uc.publish(ctx, KindProduct, id, ActionDeleted)
	return nil
}

func (uc *Catalog) ListCategories(ctx context.Context, onlyActive bool) ([]domain.Category, error) {
	cs, err := uc.store.ListCategories(ctx, onlyActive)
	if err != nil {
		return nil, upstream("list categories", err)
	}
	return cs, nil
}

func (uc *Catalog) GetCategory(ctx context.Context, id string) (*domain.Category, error) {
	c, err := uc.store.GetCategory(ctx, id)
	if err != nil {
		return nil, storeErr("get category", "category", err)
	}
	return c, nil
}

func (uc *Catalog) CreateCategory(ctx context.Context, in NewCategoryInput) (*domain.Category, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, validationf("category name is required")
	}
	c := &domain.Category{
		ID:          uuid.NewString(),
		Name:        name,
		Description: in.Description,
		ImageURL:    in.ImageURL,
		IsActive:    in.IsActive,
		SortOrder:   in.SortOrder,
		UpdatedAt:   uc.now(),
	}
	if err := uc.store.CreateCategory(ctx, c); err != nil {
		return nil, upstream("create category", err)
	}
	uc.publish(ctx, KindCategory, c.ID, ActionCreated)
	return c, nil
}

func (uc *Catalog) UpdateCategory(ctx context.Context, id string, patch Patch) error {
	if patch.Len() == 0 {
		return nil
	}
	if err := validateNamePatch(patch); err != nil {
		return err
	}
	if err := uc.store.UpdateCategory(ctx, id, patch); err != nil {
		return storeErr("update category", "category", err)
	}
	uc.publish(ctx, KindCategory, id, ActionUpdated)
	return nil
}

// DeleteCategory deletes the category's products first, then the category.
// A failure on the products step leaves the category in place. A failure on
// the category step after its products are gone is reported as an error too.
func (uc *Catalog) DeleteCategory(ctx context.Context, id string) (int64, error) {
	if _, err := uc.store.GetCategory(ctx, id); err != nil {
		return 0, storeErr("get category", "category", err)
	}

	n, err := uc.store.DeleteProductsByCategory(ctx, id)
	if err != nil {
		return 0, upstream("delete products of category "+id, err)
	}
	if n > 0 {
		uc.publish(ctx, KindProduct, "", ActionDeleted)
	}

	if err := uc.store.DeleteCategory(ctx, id); err != nil {
		logging.FromCtx(ctx).Error("category cascade incomplete",
			"category_id", id, "products_deleted", n, "err", err)
		return n, upstream("products of category "+id+" deleted but category was not", err)
	}
	uc.publish(ctx, KindCategory, id, ActionDeleted)
	return n, nil
}

// Reorder applies sort orders in input order and stops at the first failure.
// It returns how many entries were applied.
func (uc *Catalog) Reorder(ctx context.Context, kind string, entries []domain.SortEntry) (int, error) {
	var set func(context.Context, string, int) error
	switch kind {
	case KindProduct:
		set = uc.store.SetProductSortOrder
	case KindCategory:
		set = uc.store.SetCategorySortOrder
	default:
		return 0, validationf("unknown resource kind %q", kind)
	}

	for i, e := range entries {
		if strings.TrimSpace(e.ID) == "" {
			return i, validationf("item %d: id is required", i)
		}
		if err := set(ctx, e.ID, e.SortOrder); err != nil {
			return i, storeErr("reorder "+kind, kind+" "+e.ID, err)
		}
	}
	if len(entries) > 0 {
		uc.publish(ctx, kind, "", ActionReordered)
	}
	return len(entries), nil
}

func (uc *Catalog) publish(ctx context.Context, kind, id, action string) {
	if uc.events == nil {
		return
	}
	msg := CatalogChangedMsg{Kind: kind, ID: id, Action: action}
	if err := uc.events.PublishCatalogChanged(ctx, msg); err != nil {
		logging.FromCtx(ctx).Warn("catalog: publish change failed", "kind", kind, "id", id, "err", err)
	}
}

func validateNamePatch(p Patch) error {
	if name, ok := p.String("name"); ok && strings.TrimSpace(name) == "" {
		return validationf("name cannot be empty")
	}
	return nil
}
