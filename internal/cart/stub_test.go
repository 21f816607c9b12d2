package cart

import (
	"context"
	"sort"

	"github.com/bazaarhq/storefront-client/internal/catalog"
	"github.com/bazaarhq/storefront-client/pkg/enums"
	pkgerrors "github.com/bazaarhq/storefront-client/pkg/errors"
	"github.com/bazaarhq/storefront-client/pkg/types"
)

// stubService is an in-memory catalog.Service double that mimics the remote
// set-quantity semantics and counts reads so cache behavior can be asserted.
type stubService struct {
	lines    []types.CartLine
	products map[uint64]types.Product

	cartErr    error
	productErr error

	cartReads    int
	productReads int
	setCalls     []types.CartLine
}

var _ catalog.Service = (*stubService)(nil)

func (s *stubService) GetCart(context.Context) ([]types.CartLine, error) {
	s.cartReads++
	if s.cartErr != nil {
		return nil, s.cartErr
	}
	out := make([]types.CartLine, len(s.lines))
	copy(out, s.lines)
	return out, nil
}

func (s *stubService) GetAllProducts(context.Context) ([]types.Product, error) {
	s.productReads++
	if s.productErr != nil {
		return nil, s.productErr
	}
	out := make([]types.Product, 0, len(s.products))
	for _, p := range s.products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *stubService) GetProduct(_ context.Context, id uint64) (types.Product, error) {
	p, ok := s.products[id]
	if !ok {
		return types.Product{}, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return p, nil
}

func (s *stubService) Categories(context.Context) ([]string, error) {
	return nil, nil
}

func (s *stubService) ProductsByCategory(context.Context, string) ([]types.Product, error) {
	return nil, nil
}

func (s *stubService) SetCartLine(_ context.Context, productID uint64, quantity int) error {
	s.setCalls = append(s.setCalls, types.CartLine{ProductID: productID, Quantity: quantity})
	for i, line := range s.lines {
		if line.ProductID != productID {
			continue
		}
		if quantity == 0 {
			s.lines = append(s.lines[:i], s.lines[i+1:]...)
		} else {
			s.lines[i].Quantity = quantity
		}
		return nil
	}
	if quantity > 0 {
		s.lines = append(s.lines, types.CartLine{ProductID: productID, Quantity: quantity})
	}
	return nil
}

func (s *stubService) CreateOrder(context.Context, catalog.CreateOrderInput) (uint64, error) {
	return 0, pkgerrors.New(pkgerrors.CodeInternal, "not implemented")
}

func (s *stubService) GetOrders(context.Context) ([]types.Order, error) {
	return nil, nil
}

func (s *stubService) GetAllOrders(context.Context) ([]types.Order, error) {
	return nil, nil
}

func (s *stubService) UpdateOrderStatus(context.Context, uint64, enums.OrderStatus) error {
	return nil
}

func (s *stubService) UpdateProductStock(context.Context, uint64, int) error {
	return nil
}
