// Package checkout drives the linear purchase process: review, shipping,
// payment, confirmation. It consumes the cart store and owns no durable
// state; an abandoned flow simply disappears.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"shopfront/pkg/cart"
	"shopfront/pkg/models"
)

// Step is one stage of the checkout process.
type Step int

const (
	StepReview Step = iota
	StepShipping
	StepPayment
	StepConfirmation
)

func (s Step) String() string {
	switch s {
	case StepReview:
		return "review"
	case StepShipping:
		return "shipping"
	case StepPayment:
		return "payment"
	case StepConfirmation:
		return "confirmation"
	}
	return "unknown"
}

var (
	// ErrEmptyCart blocks entering or advancing a checkout with nothing
	// in the cart; the UI sends the user back to the shop listing.
	ErrEmptyCart = errors.New("cart is empty")

	// ErrTerminalStep rejects backward navigation out of confirmation.
	ErrTerminalStep = errors.New("cannot navigate back from confirmation")

	// ErrNoActiveFlow means no checkout has been started for this
	// session id, or it was already abandoned.
	ErrNoActiveFlow = errors.New("no active checkout")
)

// ValidationError reports the fields blocking a forward transition. The
// flow stays on its current step.
type ValidationError struct {
	Step   Step
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s step has invalid fields", e.Step)
}

// Flow is the per-user checkout state: the current step plus the form
// data entered so far.
type Flow struct {
	Step     Step
	Shipping models.ShippingInfo
	Payment  models.PaymentDetails
	OrderID  string
}

// StepForm carries the form payload for a forward transition. Only the
// part matching the current step is consulted.
type StepForm struct {
	Shipping *models.ShippingInfo
	Payment  *models.PaymentDetails
}

// Manager owns the active flows and drives their transitions against the
// cart contents and the order service.
type Manager struct {
	carts  *cart.Store
	placer OrderPlacer

	mu    sync.Mutex
	flows map[string]*Flow
}

func NewManager(carts *cart.Store, placer OrderPlacer) *Manager {
	return &Manager{carts: carts, placer: placer, flows: make(map[string]*Flow)}
}

// Begin starts a fresh flow for sid, replacing any previous one. The
// caller enforces the signed-in guard; Begin enforces the non-empty cart.
func (m *Manager) Begin(ctx context.Context, sid string) (Flow, error) {
	if len(m.carts.Items(ctx, sid)) == 0 {
		return Flow{}, ErrEmptyCart
	}
	flow := &Flow{Step: StepReview}
	m.mu.Lock()
	m.flows[sid] = flow
	m.mu.Unlock()
	return *flow, nil
}

// Current returns the flow for sid.
func (m *Manager) Current(sid string) (Flow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	flow, ok := m.flows[sid]
	if !ok {
		return Flow{}, ErrNoActiveFlow
	}
	return *flow, nil
}

// Abandon discards the flow for sid, if any. Entered form data is lost.
func (m *Manager) Abandon(sid string) {
	m.mu.Lock()
	delete(m.flows, sid)
	m.mu.Unlock()
}

// Next advances the flow one step. Form data is merged before validation;
// on a validation or placement failure the flow stays where it is. The
// payment step places the order and clears the cart only on success.
func (m *Manager) Next(ctx context.Context, sid string, form StepForm) (Flow, error) {
	m.mu.Lock()
	flow, ok := m.flows[sid]
	m.mu.Unlock()
	if !ok {
		return Flow{}, ErrNoActiveFlow
	}

	switch flow.Step {
	case StepReview:
		if len(m.carts.Items(ctx, sid)) == 0 {
			return *flow, ErrEmptyCart
		}
		flow.Step = StepShipping

	case StepShipping:
		if form.Shipping != nil {
			flow.Shipping = *form.Shipping
		}
		if fields := validateShipping(flow.Shipping); len(fields) > 0 {
			return *flow, &ValidationError{Step: StepShipping, Fields: fields}
		}
		flow.Step = StepPayment

	case StepPayment:
		if form.Payment != nil {
			flow.Payment = *form.Payment
		}
		if fields := validatePayment(flow.Payment); len(fields) > 0 {
			return *flow, &ValidationError{Step: StepPayment, Fields: fields}
		}

		order := Order{
			Shipping: flow.Shipping,
			Payment:  flow.Payment,
			Items:    m.carts.Items(ctx, sid),
			Pricing:  Quote(m.carts.Total(ctx, sid)),
		}
		orderID, err := m.placer.PlaceOrder(ctx, order)
		if err != nil {
			if errors.Is(err, ErrOrderPlacementFailed) {
				return *flow, err
			}
			return *flow, fmt.Errorf("%w: %v", ErrOrderPlacementFailed, err)
		}
		flow.OrderID = orderID
		m.carts.Clear(ctx, sid)
		flow.Step = StepConfirmation

	case StepConfirmation:
		// Terminal; nothing to advance to.
	}
	return *flow, nil
}

// Back returns to the previous step. Data entered in later steps is kept,
// and confirmation is terminal.
func (m *Manager) Back(sid string) (Flow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	flow, ok := m.flows[sid]
	if !ok {
		return Flow{}, ErrNoActiveFlow
	}
	switch flow.Step {
	case StepReview:
		// Already at the first step.
	case StepConfirmation:
		return *flow, ErrTerminalStep
	default:
		flow.Step--
	}
	return *flow, nil
}

// PriceCart quotes the live cart for sid. Recomputed on every call so the
// review and payment steps never show stale numbers.
func (m *Manager) PriceCart(ctx context.Context, sid string) models.Pricing {
	return Quote(m.carts.Total(ctx, sid))
}

var phonePattern = regexp.MustCompile(`^[0-9+\-\s().]{7,20}$`)

func validateShipping(info models.ShippingInfo) map[string]string {
	fields := make(map[string]string)
	if strings.TrimSpace(info.Name) == "" {
		fields["name"] = "Please enter your name"
	}
	if strings.TrimSpace(info.Address) == "" {
		fields["address"] = "Please enter your address"
	}
	phone := strings.TrimSpace(info.Phone)
	switch {
	case phone == "":
		fields["phone"] = "Please enter your phone number"
	case !phonePattern.MatchString(phone):
		fields["phone"] = "Please enter a valid phone number"
	}
	return fields
}

func validatePayment(details models.PaymentDetails) map[string]string {
	fields := make(map[string]string)
	switch details.Method {
	case "paypal", "cash_on_delivery":
	case "credit_card":
		if strings.TrimSpace(details.CardNumber) == "" {
			fields["card_number"] = "Please enter your card number"
		}
		if strings.TrimSpace(details.Expiry) == "" {
			fields["expiry"] = "Please enter expiry date"
		}
		if strings.TrimSpace(details.CVV) == "" {
			fields["cvv"] = "Please enter CVV"
		}
	default:
		fields["method"] = "Payment method must be credit_card, paypal or cash_on_delivery"
	}
	return fields
}
