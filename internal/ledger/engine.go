package ledger

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"puntoventa/backend/internal/display"
	"puntoventa/backend/internal/domain"
	"puntoventa/backend/internal/pricing"
	"puntoventa/backend/internal/sale"
	"puntoventa/backend/internal/statestore"
)

type actorContextKey struct{}

func WithActor(ctx context.Context, actor domain.Actor) context.Context {
	return context.WithValue(ctx, actorContextKey{}, actor)
}

func ActorFromContext(ctx context.Context) (domain.Actor, bool) {
	actor, ok := ctx.Value(actorContextKey{}).(domain.Actor)
	return actor, ok
}

// Engine serializes all transitions through one mutex so each action is an
// indivisible step. Persistence and display mirroring happen after the
// transition committed and are best effort only.
type Engine struct {
	mu       sync.Mutex
	state    State
	builder  *sale.Builder
	store    statestore.SnapshotStore
	display  display.Sink
	settings domain.Settings
	now      func() time.Time
}

func NewEngine(builder *sale.Builder, store statestore.SnapshotStore, sink display.Sink, settings domain.Settings) *Engine {
	if store == nil {
		store = statestore.Noop{}
	}
	if sink == nil {
		sink = display.Noop{}
	}
	return &Engine{
		state:    SeedState(),
		builder:  builder,
		store:    store,
		display:  sink,
		settings: settings,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// WithClock overrides the timestamp source. Test helper.
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

// Load rehydrates state from the snapshot store. Any failure falls back to
// seed data: a corrupt snapshot must never keep the register from opening.
func (e *Engine) Load(ctx context.Context) {
	snap, err := e.store.Load(ctx)
	if err != nil {
		log.Printf("[ledger] WARN: snapshot load failed, starting from seed data: %v", err)
		return
	}
	if snap == nil {
		log.Println("[ledger] no snapshot found, starting from seed data")
		return
	}

	e.mu.Lock()
	e.state = FromSnapshot(*snap)
	e.mu.Unlock()
	log.Printf("[ledger] restored snapshot saved at %s", snap.SavedAt.Format(time.RFC3339))
}

// Apply runs one action through the reducer.
func (e *Engine) Apply(ctx context.Context, action Action) error {
	e.mu.Lock()
	next, err := Reduce(e.state, action)
	if err != nil {
		e.mu.Unlock()
		return err
	}
	e.state = next
	e.mu.Unlock()

	e.afterTransition(ctx, next)
	return nil
}

// CommitSale builds a sale from the live cart context and commits it.
// Validation failures from the builder leave the state untouched.
func (e *Engine) CommitSale(ctx context.Context, saleType domain.SaleType) (domain.Sale, error) {
	e.mu.Lock()
	in := sale.BuildInput{
		Items:          e.state.Cart.Clone().Items,
		Type:           saleType,
		Customer:       e.state.Customer,
		Method:         e.state.PaymentMethod,
		AmountPaid:     e.state.PaymentAmount,
		GlobalDiscount: e.state.GlobalDiscount,
		Settings:       e.settings,
	}
	e.mu.Unlock()

	// The invoicing call happens outside the lock: a slow fiscal service
	// must not block unrelated reads or cart edits.
	built, err := e.builder.Build(ctx, in)
	if err != nil {
		return domain.Sale{}, err
	}

	e.mu.Lock()
	next, err := Reduce(e.state, SaveSale{Sale: built})
	if err != nil {
		e.mu.Unlock()
		return domain.Sale{}, err
	}
	e.state = next
	e.mu.Unlock()

	if actor, ok := ActorFromContext(ctx); ok {
		log.Printf("[ledger] %s committed %s %s total=%s method=%s", actor.Username, built.Type, built.ID, built.Total, built.Payment.Method)
	} else {
		log.Printf("[ledger] committed %s %s total=%s method=%s", built.Type, built.ID, built.Total, built.Payment.Method)
	}

	e.afterTransition(ctx, next)
	return built, nil
}

// ConvertQuote turns a stored quote into a fresh committed sale. The quote
// record itself stays in the log untouched.
func (e *Engine) ConvertQuote(ctx context.Context, quoteID string, method domain.PaymentMethod, amountPaid decimal.Decimal) (domain.Sale, error) {
	e.mu.Lock()
	var quote *domain.Sale
	for i := range e.state.Sales {
		if e.state.Sales[i].ID == quoteID && e.state.Sales[i].Type == domain.SaleTypeQuote {
			q := e.state.Sales[i]
			quote = &q
			break
		}
	}
	e.mu.Unlock()

	if quote == nil {
		return domain.Sale{}, ErrNotFound
	}

	built, err := e.builder.BuildFromQuote(ctx, *quote, method, amountPaid, e.settings)
	if err != nil {
		return domain.Sale{}, err
	}

	e.mu.Lock()
	next, err := Reduce(e.state, SaveSale{Sale: built})
	if err != nil {
		e.mu.Unlock()
		return domain.Sale{}, err
	}
	e.state = next
	e.mu.Unlock()

	e.afterTransition(ctx, next)
	return built, nil
}

// State returns a deep copy for read projections.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.clone()
}

func (e *Engine) Settings() domain.Settings {
	return e.settings
}

// CartTotal projects the live cart through the pricing rules.
func (e *Engine) CartTotal() decimal.Decimal {
	e.mu.Lock()
	defer e.mu.Unlock()
	detail := pricing.ComputeDetail(e.state.Cart.Items, e.state.GlobalDiscount, e.settings.TaxRate)
	return detail.Total
}

// afterTransition persists and mirrors the committed state. Both sides are
// best effort and never surface errors to the caller.
func (e *Engine) afterTransition(ctx context.Context, committed State) {
	if err := e.store.Save(ctx, committed.Snapshot(e.now())); err != nil {
		log.Printf("[ledger] WARN: snapshot save failed: %v", err)
	}

	if committed.Cart.Empty() {
		return
	}
	frame := display.Frame{
		Items:          committed.Cart.Items,
		Method:         committed.PaymentMethod,
		AmountPaid:     committed.PaymentAmount,
		GlobalDiscount: committed.GlobalDiscount,
		Total:          pricing.ComputeDetail(committed.Cart.Items, committed.GlobalDiscount, e.settings.TaxRate).Total,
	}
	if committed.Customer != nil {
		frame.CustomerName = committed.Customer.Name
	}
	if err := e.display.Publish(ctx, frame); err != nil {
		log.Printf("[ledger] WARN: display publish failed: %v", err)
	}
}

// IsValidationError reports whether err is a caller mistake rather than an
// internal failure, for HTTP status mapping.
func IsValidationError(err error) bool {
	switch {
	case errors.Is(err, sale.ErrEmptyCart),
		errors.Is(err, sale.ErrInsufficientPayment),
		errors.Is(err, sale.ErrCustomerRequired),
		errors.Is(err, sale.ErrNegativeTotal),
		errors.Is(err, ErrInvalidIndex),
		errors.Is(err, ErrInvalidAmount),
		errors.Is(err, ErrMissingID),
		errors.Is(err, ErrRegisterAlreadyOpen),
		errors.Is(err, ErrRegisterNotOpen),
		errors.Is(err, ErrInvalidOpeningAmount),
		errors.Is(err, ErrCustomerHasDebt):
		return true
	}
	return false
}
