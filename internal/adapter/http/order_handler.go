package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ojuansoares/dolse-vitta/internal/usecase"
)

type OrderHandler struct {
	orders  *usecase.Orders
	timeout time.Duration
}

func NewOrderHandler(orders *usecase.Orders, timeout time.Duration) *OrderHandler {
	return &OrderHandler{orders: orders, timeout: timeout}
}

type createOrderReq struct {
	CustomerName string        `json:"customer_name"`
	Note         string        `json:"note"`
	Items        []cartItemReq `json:"items"`
}

// CreateOrder captures an order by hand. Any prices in the body are ignored;
// lines are priced from the catalog like checkout.
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req createOrderReq
	if !bindJSON(c, &req) {
		return
	}

	ctx, cancel := requestCtx(c, h.timeout)
	defer cancel()

	o, err := h.orders.Create(ctx, usecase.CreateOrderInput{
		CustomerName: req.CustomerName,
		Note:         req.Note,
		Items:        toCartItems(req.Items),
	})
	if err != nil {
		writeError(c, err)
		return
	}
	ok(c, gin.H{"message": "Order created successfully!", "order_id": o.ID, "order": toOrderDTO(*o)})
}

func (h *OrderHandler) ListOrders(c *gin.Context) {
	ctx, cancel := requestCtx(c, h.timeout)
	defer cancel()

	os, err := h.orders.List(ctx)
	if err != nil {
		writeError(c, err)
		return
	}
	out := make([]orderDTO, 0, len(os))
	for _, o := range os {
		out = append(out, toOrderDTO(o))
	}
	ok(c, gin.H{"orders": out})
}

func (h *OrderHandler) GetOrderByID(c *gin.Context) {
	ctx, cancel := requestCtx(c, h.timeout)
	defer cancel()

	o, err := h.orders.Get(ctx, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	ok(c, gin.H{"order": toOrderDTO(*o)})
}

func (h *OrderHandler) Summary(c *gin.Context) {
	ctx, cancel := requestCtx(c, h.timeout)
	defer cancel()

	id := c.Param("id")
	text, err := h.orders.Summary(ctx, id)
	if err != nil {
		writeError(c, err)
		return
	}
	ok(c, gin.H{"order_id": id, "text": text})
}

func (h *OrderHandler) ClearHistory(c *gin.Context) {
	ctx, cancel := requestCtx(c, h.timeout)
	defer cancel()

	if err := h.orders.ClearHistory(ctx); err != nil {
		writeError(c, err)
		return
	}
	ok(c, gin.H{"message": "Order history cleared successfully!"})
}
