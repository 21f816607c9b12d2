// Package orders serves the caller's order history through the shared cache
// and carries the admin-side status transitions.
package orders

import (
	"context"
	"fmt"

	"github.com/bazaarhq/storefront-client/internal/cache"
	"github.com/bazaarhq/storefront-client/internal/catalog"
	"github.com/bazaarhq/storefront-client/pkg/enums"
	pkgerrors "github.com/bazaarhq/storefront-client/pkg/errors"
	"github.com/bazaarhq/storefront-client/pkg/types"
)

// Reader serves cached order reads for the signed-in buyer.
type Reader struct {
	service catalog.Service
	cache   *cache.Registry
}

func NewReader(service catalog.Service, registry *cache.Registry) *Reader {
	return &Reader{service: service, cache: registry}
}

// Mine returns the caller's orders, cached under the orders resource.
func (r *Reader) Mine(ctx context.Context) ([]types.Order, error) {
	return cache.Fetch(ctx, r.cache, cache.ResourceOrders, r.service.GetOrders)
}

// Admin carries the order operations gated to the admin role server-side.
type Admin struct {
	service catalog.Service
	cache   *cache.Registry
}

func NewAdmin(service catalog.Service, registry *cache.Registry) *Admin {
	return &Admin{service: service, cache: registry}
}

// All returns every order across buyers. Admin reads bypass the cache: the
// orders resource holds the buyer-scoped list and must not be overwritten by
// the global one.
func (a *Admin) All(ctx context.Context) ([]types.Order, error) {
	return a.service.GetAllOrders(ctx)
}

// SetStatus transitions an order and marks the cached order reads stale.
func (a *Admin) SetStatus(ctx context.Context, orderID uint64, status enums.OrderStatus) error {
	if !status.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown order status %q", status))
	}
	if err := a.service.UpdateOrderStatus(ctx, orderID, status); err != nil {
		return err
	}
	a.cache.Invalidate(cache.ResourceOrders)
	return nil
}
