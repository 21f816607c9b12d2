package types

import "github.com/shopspring/decimal"

// Product mirrors the catalog service's product record. Stock is the last
// fetched value; the client never computes authoritative stock.
type Product struct {
	ID          uint64          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	ImageURL    string          `json:"image_url"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
}

// InStock reports whether the last-known stock covers the desired quantity.
func (p Product) InStock(quantity int) bool {
	return quantity <= p.Stock
}
