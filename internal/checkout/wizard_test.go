package checkout

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bazaarhq/storefront-client/internal/cache"
	"github.com/bazaarhq/storefront-client/internal/cart"
	"github.com/bazaarhq/storefront-client/internal/catalog"
	"github.com/bazaarhq/storefront-client/internal/identity"
	"github.com/bazaarhq/storefront-client/internal/payment"
	"github.com/bazaarhq/storefront-client/internal/session"
	"github.com/bazaarhq/storefront-client/pkg/enums"
	pkgerrors "github.com/bazaarhq/storefront-client/pkg/errors"
	"github.com/bazaarhq/storefront-client/pkg/types"
)

// stubCatalog drives the wizard in tests; CreateOrder behavior is pluggable.
type stubCatalog struct {
	lines    []types.CartLine
	products []types.Product

	createOrder func(ctx context.Context, input catalog.CreateOrderInput) (uint64, error)
	createCalls []catalog.CreateOrderInput
	cartReads   int
}

var _ catalog.Service = (*stubCatalog)(nil)

func (s *stubCatalog) GetCart(context.Context) ([]types.CartLine, error) {
	s.cartReads++
	return s.lines, nil
}

func (s *stubCatalog) GetAllProducts(context.Context) ([]types.Product, error) {
	return s.products, nil
}

func (s *stubCatalog) GetProduct(context.Context, uint64) (types.Product, error) {
	return types.Product{}, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
}

func (s *stubCatalog) Categories(context.Context) ([]string, error) { return nil, nil }

func (s *stubCatalog) ProductsByCategory(context.Context, string) ([]types.Product, error) {
	return nil, nil
}

func (s *stubCatalog) SetCartLine(context.Context, uint64, int) error { return nil }

func (s *stubCatalog) CreateOrder(ctx context.Context, input catalog.CreateOrderInput) (uint64, error) {
	s.createCalls = append(s.createCalls, input)
	if s.createOrder != nil {
		return s.createOrder(ctx, input)
	}
	return 101, nil
}

func (s *stubCatalog) GetOrders(context.Context) ([]types.Order, error)    { return nil, nil }
func (s *stubCatalog) GetAllOrders(context.Context) ([]types.Order, error) { return nil, nil }

func (s *stubCatalog) UpdateOrderStatus(context.Context, uint64, enums.OrderStatus) error {
	return nil
}

func (s *stubCatalog) UpdateProductStock(context.Context, uint64, int) error { return nil }

type wizardFixture struct {
	wizard  *Wizard
	service *stubCatalog
	store   *session.MemoryStore
	session *payment.Session
	reg     *cache.Registry
}

func newFixture(t *testing.T, provider identity.Provider) *wizardFixture {
	t.Helper()

	service := &stubCatalog{
		lines: []types.CartLine{{ProductID: 1, Quantity: 2}},
		products: []types.Product{
			{ID: 1, Title: "Kettle", Price: decimal.NewFromInt(500), Stock: 4},
		},
	}
	store := session.NewMemoryStore()
	paySession := payment.NewSession(store, nil, time.Millisecond)
	registry := cache.NewRegistry()
	agg := cart.NewAggregator(service, registry)

	w, err := NewWizard(context.Background(), service, paySession, store, provider, registry, agg, nil)
	if err != nil {
		t.Fatalf("new wizard: %v", err)
	}
	return &wizardFixture{wizard: w, service: service, store: store, session: paySession, reg: registry}
}

func signedIn() identity.Provider {
	return identity.NewStaticProvider(&identity.Identity{Subject: "buyer-1", Role: identity.RoleBuyer, Token: "t"})
}

func advanceToPayment(t *testing.T, w *Wizard) {
	t.Helper()
	ctx := context.Background()
	w.SetAddress(validAddress())
	if err := w.SaveAddress(ctx); err != nil {
		t.Fatalf("save address: %v", err)
	}
	if err := w.ContinueToReview(); err != nil {
		t.Fatalf("continue to review: %v", err)
	}
	if err := w.ContinueToPayment(); err != nil {
		t.Fatalf("continue to payment: %v", err)
	}
}

func TestWizardStartsAtAddress(t *testing.T) {
	f := newFixture(t, signedIn())
	if f.wizard.Step() != StepAddress {
		t.Fatalf("expected address step, got %s", f.wizard.Step())
	}
}

func TestAddressEditClearsSavedFlag(t *testing.T) {
	f := newFixture(t, signedIn())
	ctx := context.Background()

	f.wizard.SetAddress(validAddress())
	if err := f.wizard.SaveAddress(ctx); err != nil {
		t.Fatalf("save: %v", err)
	}
	if !f.wizard.AddressSaved() {
		t.Fatal("expected saved flag after validation passes")
	}

	edited := validAddress()
	edited.City = "Pune"
	f.wizard.SetAddress(edited)
	if f.wizard.AddressSaved() {
		t.Fatal("edit must clear the saved flag")
	}

	err := f.wizard.ContinueToReview()
	if err == nil {
		t.Fatal("advancing with unsaved address must be refused")
	}
	if f.wizard.Step() != StepAddress {
		t.Fatalf("wizard moved despite refusal, at %s", f.wizard.Step())
	}

	if err := f.wizard.SaveAddress(ctx); err != nil {
		t.Fatalf("re-save: %v", err)
	}
	if err := f.wizard.ContinueToReview(); err != nil {
		t.Fatalf("continue after re-save: %v", err)
	}
}

func TestSaveAddressRejectsInvalid(t *testing.T) {
	f := newFixture(t, signedIn())
	addr := validAddress()
	addr.Pincode = "12"
	f.wizard.SetAddress(addr)

	if err := f.wizard.SaveAddress(context.Background()); err == nil {
		t.Fatal("expected validation failure")
	}
	if f.wizard.AddressSaved() {
		t.Fatal("saved flag must stay false after failed validation")
	}
}

func TestBackToAddressKeepsSavedAddress(t *testing.T) {
	f := newFixture(t, signedIn())
	ctx := context.Background()

	f.wizard.SetAddress(validAddress())
	if err := f.wizard.SaveAddress(ctx); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := f.wizard.ContinueToReview(); err != nil {
		t.Fatalf("to review: %v", err)
	}
	if err := f.wizard.BackToAddress(); err != nil {
		t.Fatalf("back to address: %v", err)
	}
	if !f.wizard.AddressSaved() {
		t.Fatal("going back must not clear the saved address")
	}
	if err := f.wizard.ContinueToReview(); err != nil {
		t.Fatalf("re-advance: %v", err)
	}
}

func TestPlaceOrderWithCashOnDelivery(t *testing.T) {
	f := newFixture(t, signedIn())
	ctx := context.Background()
	advanceToPayment(t, f.wizard)

	// cod requires no payment-field input at all.
	if err := f.wizard.SelectPaymentMethod(enums.PaymentMethodCOD); err != nil {
		t.Fatalf("select method: %v", err)
	}
	if !f.wizard.PaymentValid() {
		t.Fatal("cod must always be valid")
	}

	orderID, err := f.wizard.PlaceOrder(ctx)
	if err != nil {
		t.Fatalf("place order: %v", err)
	}
	if orderID != 101 || f.wizard.OrderID() != 101 {
		t.Fatalf("unexpected order id %d", orderID)
	}
	if f.wizard.Step() != StepSucceeded {
		t.Fatalf("expected succeeded step, got %s", f.wizard.Step())
	}

	// Serialized address reached the remote call.
	if len(f.service.createCalls) != 1 {
		t.Fatalf("expected one create call, got %d", len(f.service.createCalls))
	}
	input := f.service.createCalls[0]
	if input.Address == nil || !strings.Contains(*input.Address, "Asha Rao, 9876543210") {
		t.Fatalf("address not serialized into order: %v", input.Address)
	}
	if input.PaymentMethod == nil || *input.PaymentMethod != "cod" {
		t.Fatalf("unexpected payment method %v", input.PaymentMethod)
	}

	// cod stores no transaction reference.
	if ref := f.session.Reference(ctx, 101); ref != "" {
		t.Fatalf("cod must not store a reference, got %q", ref)
	}

	// The session address is discarded after success.
	if _, ok, _ := f.store.Get(ctx, AddressKey); ok {
		t.Fatal("saved address must be discarded after success")
	}
}

func TestPlaceOrderStoresReferenceForUPI(t *testing.T) {
	f := newFixture(t, signedIn())
	ctx := context.Background()
	advanceToPayment(t, f.wizard)

	if err := f.wizard.SelectPaymentMethod(enums.PaymentMethodUPI); err != nil {
		t.Fatalf("select method: %v", err)
	}
	f.wizard.SetPaymentDetails(payment.Details{UPIID: "asha@bank"})

	orderID, err := f.wizard.PlaceOrder(ctx)
	if err != nil {
		t.Fatalf("place order: %v", err)
	}
	ref := f.session.Reference(ctx, orderID)
	if ref == "" || !strings.HasPrefix(ref, "TXN") {
		t.Fatalf("expected stored transaction reference, got %q", ref)
	}
}

func TestPlaceOrderGuards(t *testing.T) {
	ctx := context.Background()

	t.Run("requires method", func(t *testing.T) {
		f := newFixture(t, signedIn())
		advanceToPayment(t, f.wizard)
		if _, err := f.wizard.PlaceOrder(ctx); err == nil {
			t.Fatal("expected missing-method error")
		}
	})

	t.Run("requires valid details", func(t *testing.T) {
		f := newFixture(t, signedIn())
		advanceToPayment(t, f.wizard)
		f.wizard.SelectPaymentMethod(enums.PaymentMethodUPI)
		f.wizard.SetPaymentDetails(payment.Details{UPIID: "not-an-upi"})
		if _, err := f.wizard.PlaceOrder(ctx); err == nil {
			t.Fatal("expected invalid-details error")
		}
	})

	t.Run("requires signed-in identity", func(t *testing.T) {
		f := newFixture(t, identity.NewStaticProvider(nil))
		advanceToPayment(t, f.wizard)
		f.wizard.SelectPaymentMethod(enums.PaymentMethodCOD)
		_, err := f.wizard.PlaceOrder(ctx)
		typed := pkgerrors.As(err)
		if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
			t.Fatalf("expected unauthorized, got %v", err)
		}
	})

	t.Run("requires payment step", func(t *testing.T) {
		f := newFixture(t, signedIn())
		if _, err := f.wizard.PlaceOrder(ctx); err == nil {
			t.Fatal("expected wrong-step error")
		}
	})
}

func TestPlaceOrderFailureReturnsToPaymentWithVerbatimMessage(t *testing.T) {
	f := newFixture(t, signedIn())
	ctx := context.Background()

	stockMessage := "Insufficient stock for Kettle: requested 2, only 1 available"
	failures := 0
	f.service.createOrder = func(context.Context, catalog.CreateOrderInput) (uint64, error) {
		if failures == 0 {
			failures++
			return 0, pkgerrors.New(pkgerrors.CodeOutOfStock, stockMessage)
		}
		return 202, nil
	}

	advanceToPayment(t, f.wizard)
	f.wizard.SelectPaymentMethod(enums.PaymentMethodCOD)

	_, err := f.wizard.PlaceOrder(ctx)
	typed := pkgerrors.As(err)
	if typed == nil {
		t.Fatalf("expected typed error, got %v", err)
	}
	if typed.Message() != stockMessage {
		t.Fatalf("remote message must surface verbatim, got %q", typed.Message())
	}
	if f.wizard.Step() != StepPayment {
		t.Fatalf("expected wizard back at payment, got %s", f.wizard.Step())
	}

	// Guard is cleared: an explicit retry goes through.
	orderID, err := f.wizard.PlaceOrder(ctx)
	if err != nil {
		t.Fatalf("retry failed: %v", err)
	}
	if orderID != 202 {
		t.Fatalf("unexpected retry order id %d", orderID)
	}
}

func TestPlaceOrderReentrantSubmitIsNoop(t *testing.T) {
	f := newFixture(t, signedIn())
	ctx := context.Background()

	var nestedID uint64 = 999
	var nestedErr error
	f.service.createOrder = func(ctx context.Context, _ catalog.CreateOrderInput) (uint64, error) {
		// A submit arriving while one is in flight must be a no-op.
		nestedID, nestedErr = f.wizard.PlaceOrder(ctx)
		return 303, nil
	}

	advanceToPayment(t, f.wizard)
	f.wizard.SelectPaymentMethod(enums.PaymentMethodCOD)

	orderID, err := f.wizard.PlaceOrder(ctx)
	if err != nil {
		t.Fatalf("place order: %v", err)
	}
	if orderID != 303 {
		t.Fatalf("unexpected order id %d", orderID)
	}
	if nestedID != 0 || nestedErr != nil {
		t.Fatalf("nested submit should be a no-op, got id=%d err=%v", nestedID, nestedErr)
	}
	if len(f.service.createCalls) != 1 {
		t.Fatalf("expected exactly one remote create, got %d", len(f.service.createCalls))
	}
}

func TestPlaceOrderInvalidatesCartCache(t *testing.T) {
	f := newFixture(t, signedIn())
	ctx := context.Background()

	if _, err := f.wizard.ReviewSummary(ctx); err != nil {
		t.Fatalf("summary: %v", err)
	}
	if _, err := f.wizard.ReviewSummary(ctx); err != nil {
		t.Fatalf("summary: %v", err)
	}
	if f.service.cartReads != 1 {
		t.Fatalf("expected cached cart read, got %d", f.service.cartReads)
	}

	advanceToPayment(t, f.wizard)
	f.wizard.SelectPaymentMethod(enums.PaymentMethodCOD)
	if _, err := f.wizard.PlaceOrder(ctx); err != nil {
		t.Fatalf("place order: %v", err)
	}

	if _, err := f.wizard.ReviewSummary(ctx); err != nil {
		t.Fatalf("summary after order: %v", err)
	}
	if f.service.cartReads != 2 {
		t.Fatalf("expected cart refetch after order, got %d reads", f.service.cartReads)
	}
}

func TestNewWizardRestoresSavedAddressUnsaved(t *testing.T) {
	f := newFixture(t, signedIn())
	ctx := context.Background()

	f.wizard.SetAddress(validAddress())
	if err := f.wizard.SaveAddress(ctx); err != nil {
		t.Fatalf("save: %v", err)
	}

	// A new wizard over the same session store sees the address but must
	// re-validate before advancing.
	registry := cache.NewRegistry()
	agg := cart.NewAggregator(f.service, registry)
	w2, err := NewWizard(ctx, f.service, f.session, f.store, signedIn(), registry, agg, nil)
	if err != nil {
		t.Fatalf("new wizard: %v", err)
	}
	if w2.AddressData().FullName != "Asha Rao" {
		t.Fatalf("expected restored address, got %+v", w2.AddressData())
	}
	if w2.AddressSaved() {
		t.Fatal("restored address must start unsaved")
	}
}
