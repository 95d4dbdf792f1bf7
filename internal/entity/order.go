package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartItem is one client-submitted (product, quantity) pair. Never persisted as-is.
type CartItem struct {
	ProductID string
	Quantity  int
}

// OrderLine snapshots a product at order time. Subtotal is always UnitPrice * Quantity.
type OrderLine struct {
	ID          string
	OrderID     string
	ProductID   string
	ProductName string
	UnitPrice   decimal.Decimal
	Quantity    int
	Subtotal    decimal.Decimal
	CreatedAt   time.Time
}

// NewOrderLine builds a line and computes its subtotal. OrderID is stamped later,
// once the header has been persisted.
func NewOrderLine(p Product, quantity int) OrderLine {
	return OrderLine{
		ProductID:   p.ID,
		ProductName: p.Name,
		UnitPrice:   p.Price,
		Quantity:    quantity,
		Subtotal:    p.Price.Mul(decimal.NewFromInt(int64(quantity))),
	}
}

// Order is the header. Lines is only populated on reads.
type Order struct {
	ID           string
	CustomerName string
	Note         string
	Total        decimal.Decimal
	CreatedAt    time.Time
	Lines        []OrderLine
}

// SumLines returns the sum of the line subtotals.
func SumLines(lines []OrderLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Subtotal)
	}
	return total
}

// StampOrderID assigns the parent order id to every line.
func StampOrderID(orderID string, lines []OrderLine) []OrderLine {
	out := make([]OrderLine, len(lines))
	for i, l := range lines {
		l.OrderID = orderID
		out[i] = l
	}
	return out
}
