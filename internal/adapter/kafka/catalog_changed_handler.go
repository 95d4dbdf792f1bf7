package kafka

import (
	"context"

	"github.com/ojuansoares/dolse-vitta/internal/logging"
	"github.com/ojuansoares/dolse-vitta/internal/usecase"
)

// Invalidator drops cached catalog listings.
type Invalidator interface {
	Invalidate(ctx context.Context) error
}

// CatalogChangedHandler keeps the listing cache in step with catalog writes
// made by any instance.
type CatalogChangedHandler struct {
	Cache Invalidator
}

func NewCatalogChangedHandler(c Invalidator) *CatalogChangedHandler {
	return &CatalogChangedHandler{Cache: c}
}

func (h *CatalogChangedHandler) Handle(ctx context.Context, ev usecase.CatalogChangedMsg) error {
	logging.FromCtx(ctx).Debug("catalog changed", "kind", ev.Kind, "id", ev.ID, "action", ev.Action)
	return h.Cache.Invalidate(ctx)
}
