package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/bazaarhq/storefront-client/internal/identity"
	"github.com/bazaarhq/storefront-client/pkg/config"
	"github.com/bazaarhq/storefront-client/pkg/enums"
	pkgerrors "github.com/bazaarhq/storefront-client/pkg/errors"
	"github.com/bazaarhq/storefront-client/pkg/logger"
	"github.com/bazaarhq/storefront-client/pkg/metrics"
	"github.com/bazaarhq/storefront-client/pkg/types"
)

// HTTPClient talks to the catalog service over HTTP. The bearer token is
// sourced from the identity provider per call so sign-in changes take effect
// without rebuilding the client.
type HTTPClient struct {
	baseURL  string
	client   *http.Client
	provider identity.Provider
	logg     *logger.Logger
	metrics  *metrics.RemoteCallMetrics
}

// NewHTTPClient builds the HTTP implementation of Service.
func NewHTTPClient(cfg config.CatalogConfig, provider identity.Provider, logg *logger.Logger, m *metrics.RemoteCallMetrics) (*HTTPClient, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("catalog base url required")
	}
	if provider == nil {
		return nil, fmt.Errorf("identity provider required")
	}
	return &HTTPClient{
		baseURL:  cfg.BaseURL,
		client:   &http.Client{Timeout: cfg.Timeout},
		provider: provider,
		logg:     logg,
		metrics:  m,
	}, nil
}

var _ Service = (*HTTPClient)(nil)

func (c *HTTPClient) GetCart(ctx context.Context) ([]types.CartLine, error) {
	var lines []types.CartLine
	err := c.call(ctx, "getCart", http.MethodGet, "/cart", nil, &lines)
	return lines, err
}

func (c *HTTPClient) GetAllProducts(ctx context.Context) ([]types.Product, error) {
	var products []types.Product
	err := c.call(ctx, "getAllProducts", http.MethodGet, "/products", nil, &products)
	return products, err
}

func (c *HTTPClient) GetProduct(ctx context.Context, productID uint64) (types.Product, error) {
	var product types.Product
	err := c.call(ctx, "getProduct", http.MethodGet, "/products/"+formatID(productID), nil, &product)
	return product, err
}

func (c *HTTPClient) Categories(ctx context.Context) ([]string, error) {
	var categories []string
	err := c.call(ctx, "getCategories", http.MethodGet, "/categories", nil, &categories)
	return categories, err
}

func (c *HTTPClient) ProductsByCategory(ctx context.Context, category string) ([]types.Product, error) {
	var products []types.Product
	path := "/products?category=" + url.QueryEscape(category)
	err := c.call(ctx, "getProductsByCategory", http.MethodGet, path, nil, &products)
	return products, err
}

func (c *HTTPClient) SetCartLine(ctx context.Context, productID uint64, quantity int) error {
	body := map[string]any{"quantity": quantity}
	return c.call(ctx, "setCartLine", http.MethodPut, "/cart/"+formatID(productID), body, nil)
}

func (c *HTTPClient) CreateOrder(ctx context.Context, input CreateOrderInput) (uint64, error) {
	var result struct {
		OrderID uint64 `json:"order_id"`
	}
	if err := c.call(ctx, "createOrder", http.MethodPost, "/orders", input, &result); err != nil {
		return 0, err
	}
	return result.OrderID, nil
}

func (c *HTTPClient) GetOrders(ctx context.Context) ([]types.Order, error) {
	var orders []types.Order
	err := c.call(ctx, "getOrders", http.MethodGet, "/orders", nil, &orders)
	return orders, err
}

func (c *HTTPClient) GetAllOrders(ctx context.Context) ([]types.Order, error) {
	var orders []types.Order
	err := c.call(ctx, "getAllOrders", http.MethodGet, "/admin/orders", nil, &orders)
	return orders, err
}

func (c *HTTPClient) UpdateOrderStatus(ctx context.Context, orderID uint64, status enums.OrderStatus) error {
	body := map[string]any{"status": status.String()}
	return c.call(ctx, "updateOrderStatus", http.MethodPatch, "/admin/orders/"+formatID(orderID)+"/status", body, nil)
}

func (c *HTTPClient) UpdateProductStock(ctx context.Context, productID uint64, newStock int) error {
	body := map[string]any{"stock": newStock}
	return c.call(ctx, "updateProductStock", http.MethodPatch, "/admin/products/"+formatID(productID)+"/stock", body, nil)
}

func (c *HTTPClient) call(ctx context.Context, operation, method, path string, body, dest any) error {
	start := time.Now()
	err := c.do(ctx, method, path, body, dest)
	c.metrics.Observe(operation, time.Since(start), err)
	if err != nil && c.logg != nil {
		ctx = c.logg.WithField(ctx, "operation", operation)
		c.logg.Warn(ctx, "catalog call failed")
	}
	return err
}

func (c *HTTPClient) do(ctx context.Context, method, path string, body, dest any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode request body")
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build request")
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	id, err := c.provider.Current(ctx)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "resolve identity")
	}
	if id != nil && id.Token != "" {
		req.Header.Set("Authorization", "Bearer "+id.Token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "catalog service unreachable")
	}
	defer func() {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}()

	if resp.StatusCode >= 400 {
		return decodeError(resp)
	}
	if dest == nil {
		return nil
	}

	envelope := types.SuccessEnvelope{Data: dest}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode response")
	}
	return nil
}

// decodeError maps the service's error envelope onto a typed error, keeping
// the remote message verbatim so callers can surface it unchanged.
func decodeError(resp *http.Response) error {
	var envelope types.ErrorEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil || envelope.Error.Message == "" {
		return pkgerrors.New(pkgerrors.CodeDependency, fmt.Sprintf("catalog service returned status %d", resp.StatusCode))
	}
	code := pkgerrors.Code(envelope.Error.Code)
	if code == "" {
		code = pkgerrors.CodeDependency
	}
	return pkgerrors.New(code, envelope.Error.Message).WithDetails(envelope.Error.Details)
}

func formatID(id uint64) string {
	return strconv.FormatUint(id, 10)
}
