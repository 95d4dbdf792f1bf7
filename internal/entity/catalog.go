package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var ErrInvalidPrice = errors.New("invalid price")

type Category struct {
	ID          string
	Name        string
	Description string
	ImageURL    string
	IsActive    bool
	SortOrder   int
	UpdatedAt   time.Time
}

type Product struct {
	ID          string
	Name        string
	Description string
	Price       decimal.Decimal
	CategoryID  *string
	ImageURL    string
	IsAvailable bool
	IsFeatured  bool
	SortOrder   int
	UpdatedAt   time.Time
}

func (p *Product) Validate() error {
	if p.Price.IsNegative() {
		return ErrInvalidPrice
	}
	return nil
}

// ProductsByID indexes products by id; later duplicates win.
func ProductsByID(products []Product) map[string]Product {
	out := make(map[string]Product, len(products))
	for _, p := range products {
		out[p.ID] = p
	}
	return out
}

// SortEntry is one element of a reorder request.
type SortEntry struct {
	ID        string
	SortOrder int
}
