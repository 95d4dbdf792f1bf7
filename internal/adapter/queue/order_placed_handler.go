package queue

import (
	"context"
	"fmt"

	"github.com/ojuansoares/dolse-vitta/internal/logging"
	"github.com/ojuansoares/dolse-vitta/internal/usecase"
)

// OrderPlacedHandler projects the rendered summary of each placed order into
// the summary cache, so the admin summary endpoint can skip the database.
type OrderPlacedHandler struct {
	Summaries usecase.SummaryCache
}

func NewOrderPlacedHandler(c usecase.SummaryCache) *OrderPlacedHandler {
	return &OrderPlacedHandler{Summaries: c}
}

// HandlePlaced is intended to be used with the JSON adapter (queue.JSONHandler[OrderPlacedMsg]).
func (h *OrderPlacedHandler) HandlePlaced(ctx context.Context, msg usecase.OrderPlacedMsg) error {
	if msg.OrderID == "" || msg.Text == "" {
		return fmt.Errorf("%w: order.placed without order id or text", ErrPoison)
	}
	if err := h.Summaries.SetSummary(ctx, msg.OrderID, msg.Text); err != nil {
		return fmt.Errorf("cache summary of %s: %w", msg.OrderID, err)
	}
	logging.FromCtx(ctx).Debug("summary cached", "order_id", msg.OrderID, "total", msg.Total)
	return nil
}

// Handler wraps HandlePlaced for Router.Register.
func (h *OrderPlacedHandler) Handler() Handler {
	return JSONHandler[usecase.OrderPlacedMsg]{HandleFunc: h.HandlePlaced}
}
