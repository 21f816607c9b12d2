// Package catalog defines the remote Catalog & Order Service surface consumed
// by the purchasing flow, plus its HTTP implementation. The service owns cart
// lines, products, and orders; the client holds only read-through caches.
package catalog

import (
	"context"

	"github.com/bazaarhq/storefront-client/pkg/enums"
	"github.com/bazaarhq/storefront-client/pkg/types"
)

// CreateOrderInput carries the nullable order-creation fields.
type CreateOrderInput struct {
	Address       *string `json:"address"`
	PaymentMethod *string `json:"payment_method"`
	Message       *string `json:"message"`
}

// Service is the remote surface. All operations are blocking; callers supply
// deadlines through the context.
type Service interface {
	// GetCart returns the caller's cart lines, empty when unauthenticated.
	GetCart(ctx context.Context) ([]types.CartLine, error)
	// GetAllProducts returns every product sorted by id.
	GetAllProducts(ctx context.Context) ([]types.Product, error)
	// GetProduct fails with NOT_FOUND when the product does not exist.
	GetProduct(ctx context.Context, productID uint64) (types.Product, error)
	// Categories returns the distinct category labels.
	Categories(ctx context.Context) ([]string, error)
	// ProductsByCategory returns products carrying the given category label.
	ProductsByCategory(ctx context.Context, category string) ([]types.Product, error)
	// SetCartLine sets the absolute quantity for a product; zero deletes the line.
	SetCartLine(ctx context.Context, productID uint64, quantity int) error
	// CreateOrder converts the caller's cart into an order and returns its id.
	// Stock insufficiency is reported in the error message.
	CreateOrder(ctx context.Context, input CreateOrderInput) (uint64, error)
	// GetOrders returns the caller's orders.
	GetOrders(ctx context.Context) ([]types.Order, error)
	// GetAllOrders returns every order; admin only.
	GetAllOrders(ctx context.Context) ([]types.Order, error)
	// UpdateOrderStatus transitions an order; admin only.
	UpdateOrderStatus(ctx context.Context, orderID uint64, status enums.OrderStatus) error
	// UpdateProductStock replaces a product's stock count; admin only.
	UpdateProductStock(ctx context.Context, productID uint64, newStock int) error
}
