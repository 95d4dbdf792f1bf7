package usecase

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	domain "github.com/ojuansoares/dolse-vitta/internal/entity"
	"github.com/ojuansoares/dolse-vitta/internal/logging"
	"github.com/shopspring/decimal"
)

// DefaultDestination is used when the site profile has no usable number.
const DefaultDestination = "5511999999999"

const idemScope = "checkout"

// idemCleanupTimeout bounds releasing or recording a key after the request.
const idemCleanupTimeout = 2 * time.Second

type CheckoutInput struct {
	CustomerName   string
	Note           string
	IdempotencyKey string
	Items          []domain.CartItem
}

type CheckoutOutput struct {
	OrderID     string
	Destination string
	Text        string
	Total       decimal.Decimal
	Lines       []domain.OrderLine
	Replayed    bool
}

type Checkout struct {
	resolver    *PricingResolver
	orders      OrderStore
	profile     DestinationSource
	idem        IdempotencyStore
	events      OrderEvents
	format      SummaryFormat
	defaultDest string
	now         func() time.Time
}

type CheckoutOption func(*Checkout)

func WithIdempotency(s IdempotencyStore) CheckoutOption { return func(c *Checkout) { c.idem = s } }
func WithOrderEvents(p OrderEvents) CheckoutOption       { return func(c *Checkout) { c.events = p } }
func WithSummaryFormat(f SummaryFormat) CheckoutOption   { return func(c *Checkout) { c.format = f } }
func WithClock(now func() time.Time) CheckoutOption      { return func(c *Checkout) { c.now = now } }
func WithDefaultDestination(d string) CheckoutOption {
	return func(c *Checkout) {
		if d = SanitizeDestination(d, ""); d != "" {
			c.defaultDest = d
		}
	}
}

func NewCheckout(catalog ProductFetcher, orders OrderStore, profile DestinationSource, opts ...CheckoutOption) *Checkout {
	c := &Checkout{
		resolver:    NewPricingResolver(catalog),
		orders:      orders,
		profile:     profile,
		format:      DefaultSummaryFormat,
		defaultDest: DefaultDestination,
		now:         func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Execute runs resolve -> assemble -> insert header -> insert lines -> render.
//
// The two writes are not atomic. If the header is stored but the lines are not,
// the returned error is ErrPartialOrder and carries the stored order id.
func (uc *Checkout) Execute(ctx context.Context, in CheckoutInput) (CheckoutOutput, error) {
	if err := ValidateCart(in.CustomerName, in.Items); err != nil {
		return CheckoutOutput{}, err
	}

	key := strings.TrimSpace(in.IdempotencyKey)
	if uc.idem != nil && key != "" {
		raw, ok, err := uc.idem.Recall(ctx, idemScope, key)
		if err != nil {
			logging.FromCtx(ctx).Debug("checkout: idempotency recall failed", "key", key, "err", err)
		}
		if ok {
			if out, err := decodeCheckoutOutput(raw); err == nil {
				out.Replayed = true
				return out, nil
			}
		}
		locked, err := uc.idem.TryLock(ctx, idemScope, key)
		if err != nil {
			return CheckoutOutput{}, upstream("idempotency lock", err)
		}
		if !locked {
			return CheckoutOutput{}, ErrDuplicate
		}
	}

	out, err := uc.place(ctx, in)
	if err != nil {
		// A partial order keeps the lock: retrying it would store a second header.
		if uc.idem != nil && key != "" && OrderIDOf(err) == "" {
			cctx, cancel := idemCleanupCtx(ctx)
			defer cancel()
			if rerr := uc.idem.Release(cctx, idemScope, key); rerr != nil {
				logging.FromCtx(ctx).Warn("checkout: idempotency release failed", "key", key, "err", rerr)
			}
		}
		return CheckoutOutput{}, err
	}

	if uc.idem != nil && key != "" {
		if raw, err := encodeCheckoutOutput(out); err == nil {
			cctx, cancel := idemCleanupCtx(ctx)
			defer cancel()
			if rerr := uc.idem.Remember(cctx, idemScope, key, raw); rerr != nil {
				logging.FromCtx(ctx).Warn("checkout: idempotency remember failed", "key", key, "err", rerr)
			}
		}
	}
	return out, nil
}

// idemCleanupCtx outlives the request deadline so a timed-out checkout can
// still release or record its key.
func idemCleanupCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), idemCleanupTimeout)
}

func (uc *Checkout) place(ctx context.Context, in CheckoutInput) (CheckoutOutput, error) {
	log := logging.FromCtx(ctx)

	resolved, err := uc.resolver.Resolve(ctx, CartProductIDs(in.Items))
	if err != nil {
		return CheckoutOutput{}, err
	}

	asm, err := Assemble(in.CustomerName, in.Note, in.Items, resolved, uc.now())
	if err != nil {
		return CheckoutOutput{}, err
	}
	if len(asm.Dropped) > 0 {
		log.Info("checkout: dropped unknown products", "product_ids", asm.Dropped)
	}

	order, err := persistAssembly(ctx, uc.orders, asm)
	if err != nil {
		return CheckoutOutput{}, err
	}

	dest := uc.destination(ctx)
	text := RenderSummary(uc.format, order, order.Lines)

	if uc.events != nil {
		msg := OrderPlacedMsg{
			OrderID:     order.ID,
			Customer:    order.CustomerName,
			Total:       asm.Total.StringFixed(2),
			Destination: dest,
			Text:        text,
		}
		if err := uc.events.PublishPlaced(ctx, msg); err != nil {
			log.Warn("checkout: publish order.placed failed", "order_id", order.ID, "err", err)
		}
	}

	return CheckoutOutput{
		OrderID:     order.ID,
		Destination: dest,
		Text:        text,
		Total:       order.Total,
		Lines:       order.Lines,
	}, nil
}

// destination never fails the checkout: the order is already stored.
func (uc *Checkout) destination(ctx context.Context) string {
	if uc.profile == nil {
		return uc.defaultDest
	}
	raw, ok, err := uc.profile.NotificationDestination(ctx)
	if err != nil {
		logging.FromCtx(ctx).Warn("checkout: destination lookup failed, using default", "err", err)
		return uc.defaultDest
	}
	if !ok {
		return uc.defaultDest
	}
	return SanitizeDestination(raw, uc.defaultDest)
}

// SanitizeDestination keeps only ASCII digits; an empty result yields fallback.
func SanitizeDestination(raw, fallback string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return fallback
	}
	return b.String()
}

type storedLine struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	UnitPrice   string `json:"unit_price"`
	Quantity    int    `json:"quantity"`
	Subtotal    string `json:"subtotal"`
}

type storedCheckout struct {
	OrderID     string       `json:"order_id"`
	Destination string       `json:"destination"`
	Text        string       `json:"text"`
	Total       string       `json:"total"`
	Lines       []storedLine `json:"lines"`
}

func encodeCheckoutOutput(out CheckoutOutput) (string, error) {
	rec := storedCheckout{
		OrderID:     out.OrderID,
		Destination: out.Destination,
		Text:        out.Text,
		Total:       out.Total.String(),
	}
	for _, l := range out.Lines {
		rec.Lines = append(rec.Lines, storedLine{
			ProductID:   l.ProductID,
			ProductName: l.ProductName,
			UnitPrice:   l.UnitPrice.String(),
			Quantity:    l.Quantity,
			Subtotal:    l.Subtotal.String(),
		})
	}
	b, err := json.Marshal(rec)
	return string(b), err
}

func decodeCheckoutOutput(raw string) (CheckoutOutput, error) {
	var rec storedCheckout
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return CheckoutOutput{}, err
	}
	total, err := decimal.NewFromString(rec.Total)
	if err != nil {
		return CheckoutOutput{}, err
	}
	out := CheckoutOutput{
		OrderID:     rec.OrderID,
		Destination: rec.Destination,
		Text:        rec.Text,
		Total:       total,
	}
	for _, l := range rec.Lines {
		price, err := decimal.NewFromString(l.UnitPrice)
		if err != nil {
			return CheckoutOutput{}, err
		}
		sub, err := decimal.NewFromString(l.Subtotal)
		if err != nil {
			return CheckoutOutput{}, err
		}
		out.Lines = append(out.Lines, domain.OrderLine{
			OrderID:     rec.OrderID,
			ProductID:   l.ProductID,
			ProductName: l.ProductName,
			UnitPrice:   price,
			Quantity:    l.Quantity,
			Subtotal:    sub,
		})
	}
	return out, nil
}
