package types

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/bazaarhq/storefront-client/pkg/enums"
)

// Order is the authoritative server-owned record created by checkout.
type Order struct {
	ID            uint64            `json:"id"`
	Owner         string            `json:"owner"`
	Status        enums.OrderStatus `json:"status"`
	Total         decimal.Decimal   `json:"total"`
	Address       *string           `json:"address,omitempty"`
	PaymentMethod *string           `json:"payment_method,omitempty"`
	Message       *string           `json:"message,omitempty"`
	Items         []CartLine        `json:"items"`
	CreatedAt     time.Time         `json:"created_at"`
}
