package cart

import (
	"context"

	"github.com/bazaarhq/storefront-client/internal/cache"
	"github.com/bazaarhq/storefront-client/internal/catalog"
	pkgerrors "github.com/bazaarhq/storefront-client/pkg/errors"
)

// Mutator performs the cart write operations. Every operation is an absolute
// quantity write at the wire level; on success both the cart and product
// caches are invalidated. Operations are not optimistic: failures surface
// unmodified with no local rollback.
type Mutator struct {
	service catalog.Service
	cache   *cache.Registry
}

func NewMutator(service catalog.Service, registry *cache.Registry) *Mutator {
	return &Mutator{service: service, cache: registry}
}

// Add sets the desired absolute quantity for the product. UI callers compute
// current+1 for an increment.
func (m *Mutator) Add(ctx context.Context, productID uint64, quantity int) error {
	if quantity < 1 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}
	return m.set(ctx, productID, quantity)
}

// UpdateQuantity sets a new absolute quantity for an existing line. Decrement
// is clamped to a floor of 1 by callers; removal is a distinct call.
func (m *Mutator) UpdateQuantity(ctx context.Context, productID uint64, newQuantity int) error {
	if newQuantity < 1 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1; use Remove to delete the line")
	}
	return m.set(ctx, productID, newQuantity)
}

// Remove deletes the line via the zero-quantity sentinel.
func (m *Mutator) Remove(ctx context.Context, productID uint64) error {
	return m.set(ctx, productID, 0)
}

func (m *Mutator) set(ctx context.Context, productID uint64, quantity int) error {
	if err := m.service.SetCartLine(ctx, productID, quantity); err != nil {
		return err
	}
	// Products are invalidated too: a server that reserves stock eagerly may
	// have changed counts as a side effect of the write.
	m.cache.Invalidate(cache.ResourceCart, cache.ResourceProducts, cache.ProductResource(productID))
	return nil
}
