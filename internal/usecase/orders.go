package usecase

import (
	"context"
	"time"

	domain "github.com/ojuansoares/dolse-vitta/internal/entity"
	"github.com/ojuansoares/dolse-vitta/internal/logging"
)

type CreateOrderInput struct {
	CustomerName string
	Note         string
	Items        []domain.CartItem
}

// Orders is the admin surface over stored orders. Manual capture follows the
// same pricing contract as checkout: client prices are never used.
type Orders struct {
	resolver  *PricingResolver
	orders    OrderStore
	summaries SummaryCache
	format    SummaryFormat
	now       func() time.Time
}

func NewOrders(catalog ProductFetcher, orders OrderStore, summaries SummaryCache, format SummaryFormat) *Orders {
	return &Orders{
		resolver:  NewPricingResolver(catalog),
		orders:    orders,
		summaries: summaries,
		format:    format,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (uc *Orders) List(ctx context.Context) ([]domain.Order, error) {
	os, err := uc.orders.ListOrders(ctx)
	if err != nil {
		return nil, upstream("list orders", err)
	}
	return os, nil
}

func (uc *Orders) Get(ctx context.Context, id string) (*domain.Order, error) {
	o, err := uc.orders.GetOrder(ctx, id)
	if err != nil {
		return nil, storeErr("get order", "order", err)
	}
	return o, nil
}

// Summary returns the rendered text of a stored order, from the cache when present.
func (uc *Orders) Summary(ctx context.Context, id string) (string, error) {
	if uc.summaries != nil {
		if text, ok, err := uc.summaries.GetSummary(ctx, id); err == nil && ok {
			return text, nil
		}
	}
	o, err := uc.Get(ctx, id)
	if err != nil {
		return "", err
	}
	text := RenderSummary(uc.format, *o, o.Lines)
	if uc.summaries != nil {
		_ = uc.summaries.SetSummary(ctx, id, text)
	}
	return text, nil
}

func (uc *Orders) Create(ctx context.Context, in CreateOrderInput) (*domain.Order, error) {
	if err := ValidateCart(in.CustomerName, in.Items); err != nil {
		return nil, err
	}
	resolved, err := uc.resolver.Resolve(ctx, CartProductIDs(in.Items))
	if err != nil {
		return nil, err
	}
	asm, err := Assemble(in.CustomerName, in.Note, in.Items, resolved, uc.now())
	if err != nil {
		return nil, err
	}
	order, err := persistAssembly(ctx, uc.orders, asm)
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// ClearHistory deletes every order line and then every order header.
func (uc *Orders) ClearHistory(ctx context.Context) error {
	if err := uc.orders.DeleteAllOrders(ctx); err != nil {
		return upstream("delete orders", err)
	}
	return nil
}

// persistAssembly writes the header, stamps its id on the lines, then writes
// the lines. The header must exist before any line references it.
func persistAssembly(ctx context.Context, store OrderStore, asm Assembly) (domain.Order, error) {
	orderID, err := store.InsertOrder(ctx, asm.Order)
	if err != nil {
		return domain.Order{}, upstream("insert order", err)
	}
	order := asm.Order
	order.ID = orderID
	order.Lines = domain.StampOrderID(orderID, asm.Lines)

	if err := store.InsertOrderLines(ctx, orderID, order.Lines); err != nil {
		logging.FromCtx(ctx).Error("partial_order",
			"order_id", orderID,
			"lines", len(order.Lines),
			"total", order.Total.StringFixed(2),
			"err", err)
		return domain.Order{}, &Error{
			Kind:    ErrPartialOrder,
			Msg:     "order " + orderID + " stored without its items",
			Err:     err,
			OrderID: orderID,
		}
	}
	return order, nil
}
