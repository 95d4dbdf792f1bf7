package http

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ojuansoares/dolse-vitta/internal/adapter/http/middleware"
	domain "github.com/ojuansoares/dolse-vitta/internal/entity"
	"github.com/ojuansoares/dolse-vitta/internal/usecase"
)

type CheckoutHandler struct {
	checkout *usecase.Checkout
	timeout  time.Duration
}

func NewCheckoutHandler(checkout *usecase.Checkout, timeout time.Duration) *CheckoutHandler {
	return &CheckoutHandler{checkout: checkout, timeout: timeout}
}

type cartItemReq struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type checkoutReq struct {
	CustomerName string        `json:"customer_name"`
	Note         string        `json:"note"`
	Items        []cartItemReq `json:"items"`
}

func toCartItems(in []cartItemReq) []domain.CartItem {
	items := make([]domain.CartItem, 0, len(in))
	for _, it := range in {
		items = append(items, domain.CartItem{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	return items
}

// Checkout handles POST /v1/checkout. Prices always come from the catalog.
func (h *CheckoutHandler) Checkout(c *gin.Context) {
	var req checkoutReq
	if !bindJSON(c, &req) {
		middleware.ObserveCheckout("invalid", 0)
		return
	}

	ctx, cancel := requestCtx(c, h.timeout)
	defer cancel()

	out, err := h.checkout.Execute(ctx, usecase.CheckoutInput{
		CustomerName:   req.CustomerName,
		Note:           req.Note,
		IdempotencyKey: c.GetHeader("X-Idempotency-Key"),
		Items:          toCartItems(req.Items),
	})
	if err != nil {
		middleware.ObserveCheckout(checkoutResult(err), 0)
		writeError(c, err)
		return
	}

	if out.Replayed {
		middleware.ObserveCheckout("replayed", 0)
	} else {
		middleware.ObserveCheckout("placed", out.Total.InexactFloat64())
	}
	ok(c, gin.H{
		"order_id":                 out.OrderID,
		"notification_destination": out.Destination,
		"notification_text":        out.Text,
		"total":                    money(out.Total),
		"items":                    toLineDTOs(out.Lines),
		"replayed":                 out.Replayed,
	})
}

func checkoutResult(err error) string {
	switch {
	case errors.Is(err, usecase.ErrValidation):
		return "invalid"
	case errors.Is(err, usecase.ErrDuplicate):
		return "duplicate"
	case errors.Is(err, usecase.ErrPartialOrder):
		return "partial"
	}
	return "failed"
}
