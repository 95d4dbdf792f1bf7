package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestNewOrderLine_ComputesSubtotal(t *testing.T) {
	p := Product{ID: "p1", Name: "Bolo", Price: decimal.RequireFromString("15.50")}

	l := NewOrderLine(p, 2)

	require.Equal(t, "p1", l.ProductID)
	require.Equal(t, "Bolo", l.ProductName)
	require.True(t, l.UnitPrice.Equal(decimal.RequireFromString("15.50")))
	require.True(t, l.Subtotal.Equal(decimal.RequireFromString("31.00")))
	require.Empty(t, l.OrderID)
}

func TestSumLines(t *testing.T) {
	lines := []OrderLine{
		NewOrderLine(Product{ID: "a", Price: decimal.RequireFromString("0.10")}, 3),
		NewOrderLine(Product{ID: "b", Price: decimal.RequireFromString("0.20")}, 1),
	}
	require.True(t, SumLines(lines).Equal(decimal.RequireFromString("0.50")))
	require.True(t, SumLines(nil).IsZero())
}

func TestStampOrderID_DoesNotMutateInput(t *testing.T) {
	lines := []OrderLine{{ProductID: "a"}, {ProductID: "b"}}

	stamped := StampOrderID("o-1", lines)

	for _, l := range stamped {
		require.Equal(t, "o-1", l.OrderID)
	}
	require.Empty(t, lines[0].OrderID)
}

func TestProductValidate(t *testing.T) {
	require.NoError(t, (&Product{Price: decimal.Zero}).Validate())
	require.ErrorIs(t, (&Product{Price: decimal.NewFromInt(-1)}).Validate(), ErrInvalidPrice)
}
