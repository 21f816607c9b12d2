// Package stubcatalog bundles an in-memory Catalog & Order Service behind the
// same HTTP surface the purchasing flow consumes. It exists for demos and
// integration tests; nothing survives a restart.
package stubcatalog

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bazaarhq/storefront-client/internal/catalog"
	"github.com/bazaarhq/storefront-client/pkg/enums"
	pkgerrors "github.com/bazaarhq/storefront-client/pkg/errors"
	"github.com/bazaarhq/storefront-client/pkg/types"
)

// store holds the mutable service state. All access goes through the mutex;
// handlers never touch the maps directly.
type store struct {
	mu sync.Mutex

	products map[uint64]types.Product
	carts    map[string][]types.CartLine
	orders   []types.Order

	nextOrderID uint64
	now         func() time.Time
}

func newStore() *store {
	return &store{
		products:    map[uint64]types.Product{},
		carts:       map[string][]types.CartLine{},
		nextOrderID: 1,
		now:         time.Now,
	}
}

func seededStore() *store {
	s := newStore()
	for _, p := range []types.Product{
		{ID: 1, Title: "Stainless Kettle", Description: "1.5L stovetop kettle", ImageURL: "https://img.example/kettle.jpg", Category: "kitchen", Price: decimal.NewFromInt(1499), Stock: 12},
		{ID: 2, Title: "Ceramic Mug", Description: "350ml glazed mug", ImageURL: "https://img.example/mug.jpg", Category: "kitchen", Price: decimal.NewFromInt(349), Stock: 40},
		{ID: 3, Title: "Desk Lamp", Description: "Warm LED lamp", ImageURL: "https://img.example/lamp.jpg", Category: "decor", Price: decimal.NewFromInt(899), Stock: 7},
		{ID: 4, Title: "Wall Clock", Description: "30cm silent clock", ImageURL: "https://img.example/clock.jpg", Category: "decor", Price: decimal.NewFromInt(1299), Stock: 0},
		{ID: 5, Title: "Notebook Set", Description: "Pack of three ruled notebooks", ImageURL: "https://img.example/notebooks.jpg", Category: "stationery", Price: decimal.NewFromInt(249), Stock: 100},
	} {
		s.products[p.ID] = p
	}
	return s
}

func (s *store) listProducts() []types.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.productsSortedLocked()
}

func (s *store) productsSortedLocked() []types.Product {
	out := make([]types.Product, 0, len(s.products))
	for _, p := range s.products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *store) getProduct(id uint64) (types.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return types.Product{}, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("product %d not found", id))
	}
	return p, nil
}

func (s *store) categories() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	seen := map[string]bool{}
	var out []string
	for _, p := range s.products {
		if !seen[p.Category] {
			seen[p.Category] = true
			out = append(out, p.Category)
		}
	}
	sort.Strings(out)
	return out
}

func (s *store) productsByCategory(category string) []types.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []types.Product
	for _, p := range s.productsSortedLocked() {
		if p.Category == category {
			out = append(out, p)
		}
	}
	return out
}

func (s *store) cart(owner string) []types.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	lines := s.carts[owner]
	out := make([]types.CartLine, len(lines))
	copy(out, lines)
	return out
}

// setCartLine applies the absolute-quantity semantics: zero deletes the line,
// a positive quantity inserts or replaces it.
func (s *store) setCartLine(owner string, productID uint64, quantity int) error {
	if quantity < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be non-negative")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.products[productID]; !ok {
		return pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("product %d not found", productID))
	}
	lines := s.carts[owner]
	for i, line := range lines {
		if line.ProductID != productID {
			continue
		}
		if quantity == 0 {
			s.carts[owner] = append(lines[:i], lines[i+1:]...)
		} else {
			lines[i].Quantity = quantity
		}
		return nil
	}
	if quantity > 0 {
		s.carts[owner] = append(lines, types.CartLine{ProductID: productID, Quantity: quantity})
	}
	return nil
}

// createOrder converts the owner's cart into an order. Stock is checked and
// decremented atomically at submission; the first insufficient line aborts the
// whole order and nothing is decremented.
func (s *store) createOrder(owner string, input catalog.CreateOrderInput) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines := s.carts[owner]
	if len(lines) == 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	total := decimal.Zero
	for _, line := range lines {
		p, ok := s.products[line.ProductID]
		if !ok {
			return 0, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("product %d not found", line.ProductID))
		}
		if line.Quantity > p.Stock {
			return 0, pkgerrors.New(
				pkgerrors.CodeOutOfStock,
				fmt.Sprintf("Insufficient stock for %s: requested %d, only %d available", p.Title, line.Quantity, p.Stock),
			).WithDetails(map[string]any{
				"product_id": p.ID,
				"requested":  line.Quantity,
				"available":  p.Stock,
			})
		}
		total = total.Add(p.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}

	for _, line := range lines {
		p := s.products[line.ProductID]
		p.Stock -= line.Quantity
		s.products[line.ProductID] = p
	}

	items := make([]types.CartLine, len(lines))
	copy(items, lines)

	order := types.Order{
		ID:            s.nextOrderID,
		Owner:         owner,
		Status:        enums.OrderStatusPending,
		Total:         total,
		Address:       input.Address,
		PaymentMethod: input.PaymentMethod,
		Message:       input.Message,
		Items:         items,
		CreatedAt:     s.now(),
	}
	s.nextOrderID++
	s.orders = append(s.orders, order)
	delete(s.carts, owner)
	return order.ID, nil
}

func (s *store) ordersFor(owner string) []types.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []types.Order
	for _, o := range s.orders {
		if o.Owner == owner {
			out = append(out, o)
		}
	}
	return out
}

func (s *store) allOrders() []types.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]types.Order, len(s.orders))
	copy(out, s.orders)
	return out
}

func (s *store) updateOrderStatus(orderID uint64, status enums.OrderStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.orders {
		if s.orders[i].ID == orderID {
			s.orders[i].Status = status
			return nil
		}
	}
	return pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("order %d not found", orderID))
}

func (s *store) updateProductStock(productID uint64, stock int) error {
	if stock < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "stock must be non-negative")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[productID]
	if !ok {
		return pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("product %d not found", productID))
	}
	p.Stock = stock
	s.products[productID] = p
	return nil
}
