// Package cart merges the remote cart lines with current product records into
// priced view items and issues the quantity mutations against the catalog
// service.
package cart

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/bazaarhq/storefront-client/internal/cache"
	"github.com/bazaarhq/storefront-client/internal/catalog"
	"github.com/bazaarhq/storefront-client/pkg/types"
)

// View is the derived, client-only projection of the cart. Recomputed on every
// read; never persisted.
type View struct {
	Items    []types.CartViewItem
	Subtotal decimal.Decimal
}

// ItemCount sums the quantities across all resolvable items.
func (v View) ItemCount() int {
	count := 0
	for _, item := range v.Items {
		count += item.Quantity
	}
	return count
}

// Aggregator builds cart views from the cached cart and product reads.
type Aggregator struct {
	service catalog.Service
	cache   *cache.Registry
}

func NewAggregator(service catalog.Service, registry *cache.Registry) *Aggregator {
	return &Aggregator{service: service, cache: registry}
}

// Snapshot joins cart lines against the product list, in raw cart-line order.
// Lines whose product is no longer resolvable are silently dropped; that is
// distinct from a fetch error on either source, which is returned. The cart
// read is attempted first, so its error surfaces before a product read error.
func (a *Aggregator) Snapshot(ctx context.Context) (View, error) {
	lines, err := cache.Fetch(ctx, a.cache, cache.ResourceCart, a.service.GetCart)
	if err != nil {
		return View{}, err
	}
	products, err := cache.Fetch(ctx, a.cache, cache.ResourceProducts, a.service.GetAllProducts)
	if err != nil {
		return View{}, err
	}

	byID := make(map[uint64]types.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	view := View{Subtotal: decimal.Zero}
	for _, line := range lines {
		product, ok := byID[line.ProductID]
		if !ok {
			continue
		}
		item := types.CartViewItem{Product: product, Quantity: line.Quantity}
		view.Items = append(view.Items, item)
		view.Subtotal = view.Subtotal.Add(item.LineTotal())
	}
	return view, nil
}
