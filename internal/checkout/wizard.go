// Package checkout implements the sequential Address, Review, Payment wizard
// that turns a cart into an order against the catalog service.
package checkout

import (
	"context"
	"fmt"

	"github.com/bazaarhq/storefront-client/internal/cache"
	"github.com/bazaarhq/storefront-client/internal/cart"
	"github.com/bazaarhq/storefront-client/internal/catalog"
	"github.com/bazaarhq/storefront-client/internal/identity"
	"github.com/bazaarhq/storefront-client/internal/payment"
	"github.com/bazaarhq/storefront-client/internal/session"
	"github.com/bazaarhq/storefront-client/pkg/enums"
	pkgerrors "github.com/bazaarhq/storefront-client/pkg/errors"
	"github.com/bazaarhq/storefront-client/pkg/logger"
	"github.com/bazaarhq/storefront-client/pkg/types"
)

// Step is the wizard's current state.
type Step string

const (
	StepAddress    Step = "address"
	StepReview     Step = "review"
	StepPayment    Step = "payment"
	StepSubmitting Step = "submitting"
	StepSucceeded  Step = "succeeded"
)

// Wizard is the checkout state machine. A wizard instance is owned by a single
// session; transitions are strictly sequential and guarded.
type Wizard struct {
	service  catalog.Service
	payments *payment.Session
	store    session.Store
	provider identity.Provider
	registry *cache.Registry
	agg      *cart.Aggregator
	logg     *logger.Logger

	step         Step
	address      types.Address
	addressSaved bool
	method       enums.PaymentMethod
	details      payment.Details
	orderMessage string
	submitting   bool
	orderID      uint64
}

// NewWizard builds a wizard positioned at the address step. A previously
// saved address is restored when present, unsaved, so it must be re-validated.
func NewWizard(
	ctx context.Context,
	service catalog.Service,
	payments *payment.Session,
	store session.Store,
	provider identity.Provider,
	registry *cache.Registry,
	agg *cart.Aggregator,
	logg *logger.Logger,
) (*Wizard, error) {
	if service == nil {
		return nil, fmt.Errorf("catalog service required")
	}
	if payments == nil {
		return nil, fmt.Errorf("payment session required")
	}
	if store == nil {
		return nil, fmt.Errorf("session store required")
	}
	if provider == nil {
		return nil, fmt.Errorf("identity provider required")
	}
	if agg == nil {
		return nil, fmt.Errorf("cart aggregator required")
	}

	w := &Wizard{
		service:  service,
		payments: payments,
		store:    store,
		provider: provider,
		registry: registry,
		agg:      agg,
		logg:     logg,
		step:     StepAddress,
	}
	if restored, ok := restoreAddress(ctx, store, logg); ok {
		w.address = restored
	}
	return w, nil
}

// Step returns the wizard's current state.
func (w *Wizard) Step() Step {
	return w.step
}

// OrderID returns the created order id; zero until the wizard succeeds.
func (w *Wizard) OrderID() uint64 {
	return w.orderID
}

// AddressData returns the in-progress address.
func (w *Wizard) AddressData() types.Address {
	return w.address
}

// AddressSaved reports whether the current address has passed validation.
func (w *Wizard) AddressSaved() bool {
	return w.addressSaved
}

// SetAddress replaces the in-progress address. Any edit clears the saved flag,
// so re-validation is forced before advancing again.
func (w *Wizard) SetAddress(addr types.Address) {
	w.address = addr
	w.addressSaved = false
}

// SaveAddress validates the address and, on success, marks it saved and
// persists it to session storage.
func (w *Wizard) SaveAddress(ctx context.Context) error {
	if err := ValidateAddress(w.address); err != nil {
		return err
	}
	w.addressSaved = true
	persistAddress(ctx, w.store, w.logg, w.address)
	return nil
}

// ContinueToReview advances Address -> Review; requires a saved address.
func (w *Wizard) ContinueToReview() error {
	if w.step != StepAddress {
		return w.wrongStep(StepAddress)
	}
	if !w.addressSaved {
		return pkgerrors.New(pkgerrors.CodeValidation, "Please save your address before continuing")
	}
	w.step = StepReview
	return nil
}

// BackToAddress returns Review -> Address without clearing the saved address.
func (w *Wizard) BackToAddress() error {
	if w.step != StepReview {
		return w.wrongStep(StepReview)
	}
	w.step = StepAddress
	return nil
}

// ContinueToPayment advances Review -> Payment unconditionally; Review is a
// read-only confirmation step.
func (w *Wizard) ContinueToPayment() error {
	if w.step != StepReview {
		return w.wrongStep(StepReview)
	}
	w.step = StepPayment
	return nil
}

// BackToReview returns Payment -> Review while no submission is in flight.
func (w *Wizard) BackToReview() error {
	if w.step != StepPayment {
		return w.wrongStep(StepPayment)
	}
	if w.submitting {
		return pkgerrors.New(pkgerrors.CodeConflict, "submission in progress")
	}
	w.step = StepReview
	return nil
}

// ReviewSummary returns the priced cart view shown on the Review step.
func (w *Wizard) ReviewSummary(ctx context.Context) (cart.View, error) {
	return w.agg.Snapshot(ctx)
}

// SelectPaymentMethod records the chosen method.
func (w *Wizard) SelectPaymentMethod(method enums.PaymentMethod) error {
	if !method.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown payment method %q", method))
	}
	w.method = method
	return nil
}

// SetPaymentDetails records the raw payment fields for the selected method.
func (w *Wizard) SetPaymentDetails(details payment.Details) {
	w.details = details
}

// PaymentValid is the aggregate validity signal for the selected method.
func (w *Wizard) PaymentValid() bool {
	if w.method == "" {
		return false
	}
	return payment.IsMethodValid(w.method, w.details)
}

// SetOrderMessage records the optional note submitted with the order.
func (w *Wizard) SetOrderMessage(message string) {
	w.orderMessage = message
}

// PlaceOrder runs the submission sequence: the simulated processing delay,
// address serialization, remote order creation, transaction-reference storage
// for non-cash methods, and discarding the session address. Any creation
// failure returns the wizard to the Payment step with the remote message
// intact and the re-entrancy guard cleared. A second call while a submission
// is in flight is a no-op.
func (w *Wizard) PlaceOrder(ctx context.Context) (uint64, error) {
	if w.submitting {
		return 0, nil
	}
	if w.step != StepPayment {
		return 0, w.wrongStep(StepPayment)
	}
	if w.method == "" {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "Please select a payment method")
	}
	if !w.PaymentValid() {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "Please complete the payment details")
	}
	id, err := w.provider.Current(ctx)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "resolve identity")
	}
	if id == nil {
		return 0, pkgerrors.New(pkgerrors.CodeUnauthorized, "Please sign in to place an order")
	}

	w.submitting = true
	w.step = StepSubmitting

	w.payments.SimulateProcessing()

	addressString := w.address.Serialize()
	methodString := w.method.String()
	input := catalog.CreateOrderInput{
		Address:       &addressString,
		PaymentMethod: &methodString,
	}
	if w.orderMessage != "" {
		message := w.orderMessage
		input.Message = &message
	}

	orderID, err := w.service.CreateOrder(ctx, input)
	if err != nil {
		w.step = StepPayment
		w.submitting = false
		if w.logg != nil {
			w.logg.Error(w.logg.WithStep(ctx, string(StepPayment)), "order creation failed", err)
		}
		return 0, err
	}

	if w.method != enums.PaymentMethodCOD {
		w.payments.StoreReference(ctx, orderID, payment.GenerateTransactionID())
	}

	discardAddress(ctx, w.store, w.logg)
	w.address = types.Address{}
	w.addressSaved = false

	// The service converted the cart; cached reads are stale.
	w.registry.Invalidate(cache.ResourceCart, cache.ResourceProducts, cache.ResourceOrders)

	w.orderID = orderID
	w.step = StepSucceeded
	w.submitting = false
	if w.logg != nil {
		w.logg.Info(w.logg.WithOrderID(ctx, orderID), "order placed")
	}
	return orderID, nil
}

func (w *Wizard) wrongStep(expected Step) error {
	return pkgerrors.New(
		pkgerrors.CodeConflict,
		fmt.Sprintf("operation requires the %s step, wizard is at %s", expected, w.step),
	)
}
