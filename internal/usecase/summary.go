package usecase

import (
	"strconv"
	"strings"

	domain "github.com/ojuansoares/dolse-vitta/internal/entity"
	"github.com/shopspring/decimal"
)

// SummaryFormat holds the literals of the order summary text. Emphasis wraps
// the title, the customer label, the items header and the total line (e.g. "*"
// for chat bold).
type SummaryFormat struct {
	Title         string
	CustomerLabel string
	ItemsLabel    string
	TotalLabel    string
	Closing       string
	Currency      string
	Emphasis      string
}

var DefaultSummaryFormat = SummaryFormat{
	Title:         "NEW ORDER",
	CustomerLabel: "Customer",
	ItemsLabel:    "Items",
	TotalLabel:    "TOTAL",
	Closing:       "Awaiting confirmation!",
	Currency:      "R$",
}

// withDefaults fills empty literals from DefaultSummaryFormat. Emphasis may be empty.
func (f SummaryFormat) withDefaults() SummaryFormat {
	d := DefaultSummaryFormat
	if f.Title == "" {
		f.Title = d.Title
	}
	if f.CustomerLabel == "" {
		f.CustomerLabel = d.CustomerLabel
	}
	if f.ItemsLabel == "" {
		f.ItemsLabel = d.ItemsLabel
	}
	if f.TotalLabel == "" {
		f.TotalLabel = d.TotalLabel
	}
	if f.Closing == "" {
		f.Closing = d.Closing
	}
	if f.Currency == "" {
		f.Currency = d.Currency
	}
	return f
}

// RenderSummary formats an order for the notification channel. Output is a
// pure function of its inputs; lines keep their given order.
//
// The destination is not a parameter: the text never contains it, so the same
// order renders identically whatever number it is sent to. Callers pair the
// text with SanitizeDestination's result.
//
//	<title>
//
//	Customer: <name>
//
//	Items:
//	- <qty>x <name> - R$ <subtotal>
//
//	TOTAL: R$ <total>
//
//	<closing>
func RenderSummary(f SummaryFormat, order domain.Order, lines []domain.OrderLine) string {
	f = f.withDefaults()
	em := f.Emphasis

	var b strings.Builder
	b.WriteString(em + f.Title + em + "\n")
	b.WriteString("\n")
	b.WriteString(em + f.CustomerLabel + ":" + em + " " + order.CustomerName + "\n")
	b.WriteString("\n")
	b.WriteString(em + f.ItemsLabel + ":" + em + "\n")
	for _, l := range lines {
		b.WriteString("- ")
		b.WriteString(strconv.Itoa(l.Quantity))
		b.WriteString("x ")
		b.WriteString(l.ProductName)
		b.WriteString(" - ")
		b.WriteString(money(f.Currency, l.Subtotal))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(em + f.TotalLabel + ": " + money(f.Currency, order.Total) + em + "\n")
	b.WriteString("\n")
	b.WriteString(f.Closing)
	return b.String()
}

func money(symbol string, d decimal.Decimal) string {
	return symbol + " " + d.StringFixed(2)
}
