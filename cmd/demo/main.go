// The demo binary walks a complete purchase against a running catalog service
// (see cmd/catalogd): browse, fill the cart, then drive the checkout wizard
// from address entry through a simulated UPI payment.
package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/bazaarhq/storefront-client/internal/cache"
	"github.com/bazaarhq/storefront-client/internal/cart"
	"github.com/bazaarhq/storefront-client/internal/catalog"
	"github.com/bazaarhq/storefront-client/internal/checkout"
	"github.com/bazaarhq/storefront-client/internal/identity"
	"github.com/bazaarhq/storefront-client/internal/orders"
	"github.com/bazaarhq/storefront-client/internal/payment"
	"github.com/bazaarhq/storefront-client/internal/products"
	"github.com/bazaarhq/storefront-client/internal/session"
	"github.com/bazaarhq/storefront-client/pkg/config"
	"github.com/bazaarhq/storefront-client/pkg/enums"
	"github.com/bazaarhq/storefront-client/pkg/logger"
	"github.com/bazaarhq/storefront-client/pkg/metrics"
	"github.com/bazaarhq/storefront-client/pkg/types"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "demo"})
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		logg.Warn(ctx, ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(ctx, "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "demo",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	store, err := newSessionStore(ctx, cfg.Session)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap session store", err)
		os.Exit(1)
	}

	id, err := identity.NewSignedIdentity(cfg.Auth, "demo-buyer", identity.RoleBuyer)
	if err != nil {
		logg.Error(ctx, "failed to sign demo identity", err)
		os.Exit(1)
	}
	provider := identity.NewStaticProvider(id)

	callMetrics := metrics.NewRemoteCallMetrics(prometheus.NewRegistry())
	client, err := catalog.NewHTTPClient(cfg.Catalog, provider, logg, callMetrics)
	if err != nil {
		logg.Error(ctx, "failed to build catalog client", err)
		os.Exit(1)
	}

	registry := cache.NewRegistry()
	browser := products.NewBrowser(client, registry)
	mutator := cart.NewMutator(client, registry)
	aggregator := cart.NewAggregator(client, registry)
	payments := payment.NewSession(store, logg, cfg.Payment.ProcessingDelay)
	reader := orders.NewReader(client, registry)

	if err := run(ctx, logg, client, browser, mutator, aggregator, payments, store, provider, registry, reader); err != nil {
		logg.Error(ctx, "demo walkthrough failed", err)
		os.Exit(1)
	}
}

func run(
	ctx context.Context,
	logg *logger.Logger,
	client catalog.Service,
	browser *products.Browser,
	mutator *cart.Mutator,
	aggregator *cart.Aggregator,
	payments *payment.Session,
	store session.Store,
	provider identity.Provider,
	registry *cache.Registry,
	reader *orders.Reader,
) error {
	list, err := browser.All(ctx)
	if err != nil {
		return err
	}
	logg.Info(logg.WithField(ctx, "products", len(list)), "catalog loaded")

	var picked []types.Product
	for _, p := range list {
		if p.InStock(1) {
			picked = append(picked, p)
		}
		if len(picked) == 2 {
			break
		}
	}
	for _, p := range picked {
		if err := mutator.Add(ctx, p.ID, 1); err != nil {
			return err
		}
		logg.Info(logg.WithProductID(ctx, p.ID), "added to cart")
	}

	view, err := aggregator.Snapshot(ctx)
	if err != nil {
		return err
	}
	logg.Info(logg.WithFields(ctx, map[string]any{
		"items":    view.ItemCount(),
		"subtotal": view.Subtotal.String(),
	}), "cart ready")

	wizard, err := checkout.NewWizard(ctx, client, payments, store, provider, registry, aggregator, logg)
	if err != nil {
		return err
	}

	wizard.SetAddress(types.Address{
		FullName:     "Demo Buyer",
		Mobile:       "9876543210",
		Pincode:      "560038",
		AddressLine1: "12 Lake Road",
		City:         "Bengaluru",
		State:        "Karnataka",
	})
	if err := wizard.SaveAddress(ctx); err != nil {
		return err
	}
	if err := wizard.ContinueToReview(); err != nil {
		return err
	}

	summary, err := wizard.ReviewSummary(ctx)
	if err != nil {
		return err
	}
	logg.Info(logg.WithField(ctx, "subtotal", summary.Subtotal.String()), "order reviewed")

	if err := wizard.ContinueToPayment(); err != nil {
		return err
	}
	if err := wizard.SelectPaymentMethod(enums.PaymentMethodUPI); err != nil {
		return err
	}
	wizard.SetPaymentDetails(payment.Details{UPIID: "demo@bank"})
	wizard.SetOrderMessage("demo walkthrough order")

	orderID, err := wizard.PlaceOrder(ctx)
	if err != nil {
		return err
	}
	ctx = logg.WithOrderID(ctx, orderID)
	logg.Info(logg.WithField(ctx, "txn_ref", payments.Reference(ctx, orderID)), "payment recorded")

	history, err := reader.Mine(ctx)
	if err != nil {
		return err
	}
	logg.Info(logg.WithField(ctx, "orders", len(history)), "walkthrough complete")
	return nil
}

func newSessionStore(ctx context.Context, cfg config.SessionConfig) (session.Store, error) {
	if cfg.Backend == config.SessionBackendRedis {
		return session.NewRedisStore(ctx, cfg)
	}
	return session.NewMemoryStore(), nil
}
