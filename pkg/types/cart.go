package types

import "github.com/shopspring/decimal"

// CartLine is the server-held (productId, quantity) pair. Quantity zero is the
// deletion sentinel.
type CartLine struct {
	ProductID uint64 `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// CartViewItem joins a cart line with its current product record. Derived
// client-side only; never persisted.
type CartViewItem struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// LineTotal returns price times quantity for the item.
func (c CartViewItem) LineTotal() decimal.Decimal {
	return c.Product.Price.Mul(decimal.NewFromInt(int64(c.Quantity)))
}
