package usecase

import (
	"context"

	domain "github.com/ojuansoares/dolse-vitta/internal/entity"
)

// ProductFetcher is the batched read used by checkout pricing.
type ProductFetcher interface {
	// FetchProducts returns the stored products whose id is in ids. Unknown ids
	// are simply absent from the result.
	FetchProducts(ctx context.Context, ids []string) ([]domain.Product, error)
}

type CatalogStore interface {
	ProductFetcher

	ListProducts(ctx context.Context, onlyAvailable bool) ([]domain.Product, error)
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	CreateProduct(ctx context.Context, p *domain.Product) error
	UpdateProduct(ctx context.Context, id string, patch Patch) error
	DeleteProduct(ctx context.Context, id string) error
	DeleteProductsByCategory(ctx context.Context, categoryID string) (int64, error)
	SetProductSortOrder(ctx context.Context, id string, sortOrder int) error

	ListCategories(ctx context.Context, onlyActive bool) ([]domain.Category, error)
	GetCategory(ctx context.Context, id string) (*domain.Category, error)
	CreateCategory(ctx context.Context, c *domain.Category) error
	UpdateCategory(ctx context.Context, id string, patch Patch) error
	DeleteCategory(ctx context.Context, id string) error
	SetCategorySortOrder(ctx context.Context, id string, sortOrder int) error
}

type OrderStore interface {
	// InsertOrder persists the header and returns the generated id.
	InsertOrder(ctx context.Context, header domain.Order) (string, error)
	// InsertOrderLines bulk-inserts lines that already carry orderID.
	InsertOrderLines(ctx context.Context, orderID string, lines []domain.OrderLine) error
	GetOrder(ctx context.Context, id string) (*domain.Order, error)
	ListOrders(ctx context.Context) ([]domain.Order, error)
	DeleteAllOrders(ctx context.Context) error
}

// DestinationSource reads the notification destination from the site profile.
// ok is false when there is no profile or the field is unset.
type DestinationSource interface {
	NotificationDestination(ctx context.Context) (dest string, ok bool, err error)
}

type SiteProfileStore interface {
	DestinationSource
	GetSiteProfile(ctx context.Context) (*domain.SiteProfile, error)
	UpsertSiteProfile(ctx context.Context, patch Patch) error
}

type AdminStore interface {
	GetAdmin(ctx context.Context, id string) (*domain.Admin, error)
	InsertAdmin(ctx context.Context, a domain.Admin) error
	UpdateAdmin(ctx context.Context, id string, patch Patch) error
	DeleteAdmin(ctx context.Context, id string) error
}

// IdentityProvider is the hosted auth service.
type IdentityProvider interface {
	SignIn(ctx context.Context, email, password string) (domain.Session, error)
	SignUp(ctx context.Context, email, password, name string) (domain.Identity, error)
	SignOut(ctx context.Context, accessToken string) error
}

// IdempotencyStore guards checkout against client retries.
type IdempotencyStore interface {
	TryLock(ctx context.Context, scope, key string) (bool, error)
	Remember(ctx context.Context, scope, key, value string) error
	Recall(ctx context.Context, scope, key string) (string, bool, error)
	Release(ctx context.Context, scope, key string) error
}

type OrderEvents interface {
	PublishPlaced(ctx context.Context, msg OrderPlacedMsg) error
}

type CatalogEvents interface {
	PublishCatalogChanged(ctx context.Context, msg CatalogChangedMsg) error
}

// SummaryCache holds rendered order summaries.
type SummaryCache interface {
	SetSummary(ctx context.Context, orderID, text string) error
	GetSummary(ctx context.Context, orderID string) (string, bool, error)
}
