package usecase

import (
	"strings"
	"time"

	domain "github.com/ojuansoares/dolse-vitta/internal/entity"
	"github.com/shopspring/decimal"
)

// Assembly is an order ready to persist. Lines carry no order id yet.
type Assembly struct {
	Order   domain.Order
	Lines   []domain.OrderLine
	Total   decimal.Decimal
	Dropped []string // cart product ids with no stored product
}

// ValidateCart runs the checks that need no store access.
func ValidateCart(customerName string, items []domain.CartItem) error {
	if strings.TrimSpace(customerName) == "" {
		return validationf("customer name is required")
	}
	if len(items) == 0 {
		return validationf("cart is empty")
	}
	for i, it := range items {
		if strings.TrimSpace(it.ProductID) == "" {
			return validationf("item %d: product_id is required", i)
		}
		if it.Quantity <= 0 {
			return validationf("item %d: quantity must be greater than 0", i)
		}
	}
	return nil
}

// Assemble prices the cart from the resolved snapshot. Items whose product is
// not in resolved are dropped; if none remain the cart is rejected. Prices
// always come from resolved, never from the client.
func Assemble(customerName, note string, items []domain.CartItem, resolved map[string]domain.Product, now time.Time) (Assembly, error) {
	if err := ValidateCart(customerName, items); err != nil {
		return Assembly{}, err
	}

	var out Assembly
	lines := make([]domain.OrderLine, 0, len(items))
	total := decimal.Zero
	for _, it := range items {
		p, ok := resolved[it.ProductID]
		if !ok {
			out.Dropped = append(out.Dropped, it.ProductID)
			continue
		}
		line := domain.NewOrderLine(p, it.Quantity)
		line.CreatedAt = now
		total = total.Add(line.Subtotal)
		lines = append(lines, line)
	}
	if len(lines) == 0 {
		return Assembly{}, validationf("no valid products in cart")
	}

	out.Order = domain.Order{
		CustomerName: strings.TrimSpace(customerName),
		Note:         strings.TrimSpace(note),
		Total:        total,
		CreatedAt:    now,
	}
	out.Lines = lines
	out.Total = total
	return out, nil
}
