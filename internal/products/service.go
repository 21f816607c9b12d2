// Package products wraps the catalog product reads with the shared cache and
// exposes the admin stock mutation with its invalidation.
package products

import (
	"context"
	"fmt"

	"github.com/bazaarhq/storefront-client/internal/cache"
	"github.com/bazaarhq/storefront-client/internal/catalog"
	pkgerrors "github.com/bazaarhq/storefront-client/pkg/errors"
	"github.com/bazaarhq/storefront-client/pkg/types"
)

// Browser serves cached product and category reads.
type Browser struct {
	service catalog.Service
	cache   *cache.Registry
}

func NewBrowser(service catalog.Service, registry *cache.Registry) *Browser {
	return &Browser{service: service, cache: registry}
}

// All returns every product, cached under the product-list resource.
func (b *Browser) All(ctx context.Context) ([]types.Product, error) {
	return cache.Fetch(ctx, b.cache, cache.ResourceProducts, b.service.GetAllProducts)
}

// Get returns one product, cached under its per-product resource.
func (b *Browser) Get(ctx context.Context, productID uint64) (types.Product, error) {
	return cache.Fetch(ctx, b.cache, cache.ProductResource(productID), func(ctx context.Context) (types.Product, error) {
		return b.service.GetProduct(ctx, productID)
	})
}

// Categories returns the distinct category labels, cached.
func (b *Browser) Categories(ctx context.Context) ([]string, error) {
	return cache.Fetch(ctx, b.cache, cache.ResourceCategories, b.service.Categories)
}

// ByCategory filters the cached product list by category label. Filtering runs
// on the full list so a category browse never issues an extra remote read once
// the list is cached.
func (b *Browser) ByCategory(ctx context.Context, category string) ([]types.Product, error) {
	all, err := b.All(ctx)
	if err != nil {
		return nil, err
	}
	filtered := make([]types.Product, 0, len(all))
	for _, p := range all {
		if p.Category == category {
			filtered = append(filtered, p)
		}
	}
	return filtered, nil
}

// Admin issues product mutations; admin only server-side.
type Admin struct {
	service catalog.Service
	cache   *cache.Registry
}

func NewAdmin(service catalog.Service, registry *cache.Registry) *Admin {
	return &Admin{service: service, cache: registry}
}

// SetStock replaces a product's stock count and marks the product reads stale.
func (a *Admin) SetStock(ctx context.Context, productID uint64, stock int) error {
	if stock < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("stock must be non-negative, got %d", stock))
	}
	if err := a.service.UpdateProductStock(ctx, productID, stock); err != nil {
		return err
	}
	a.cache.Invalidate(cache.ResourceProducts, cache.ProductResource(productID))
	return nil
}
