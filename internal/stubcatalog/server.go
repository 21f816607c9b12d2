package stubcatalog

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/bazaarhq/storefront-client/internal/catalog"
	"github.com/bazaarhq/storefront-client/pkg/config"
	"github.com/bazaarhq/storefront-client/pkg/enums"
	pkgerrors "github.com/bazaarhq/storefront-client/pkg/errors"
	"github.com/bazaarhq/storefront-client/pkg/logger"
	"github.com/bazaarhq/storefront-client/pkg/types"
)

// Server owns the stub state and exposes it as an http.Handler.
type Server struct {
	store   *store
	authCfg config.AuthConfig
	logg    *logger.Logger
}

// New builds a stub server. With seed enabled the catalog starts with a small
// demo product set; otherwise it starts empty.
func New(authCfg config.AuthConfig, seed bool, logg *logger.Logger) *Server {
	s := newStore()
	if seed {
		s = seededStore()
	}
	return &Server{store: s, authCfg: authCfg, logg: logg}
}

// Handler assembles the routes behind the standard middleware chain.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(
		recoverer(s.logg),
		requestID(s.logg),
		logging(s.logg),
		auth(s.authCfg, s.logg),
	)

	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		writeSuccess(w, map[string]string{"status": "ok"})
	})

	r.Get("/products", s.handleListProducts)
	r.Get("/products/{productID}", s.handleGetProduct)
	r.Get("/categories", s.handleCategories)

	r.Get("/cart", s.handleGetCart)
	r.With(requireAuth(s.logg)).Put("/cart/{productID}", s.handleSetCartLine)

	r.Group(func(r chi.Router) {
		r.Use(requireAuth(s.logg))
		r.Post("/orders", s.handleCreateOrder)
		r.Get("/orders", s.handleGetOrders)
	})

	r.Group(func(r chi.Router) {
		r.Use(requireAdmin(s.logg))
		r.Get("/admin/orders", s.handleAllOrders)
		r.Patch("/admin/orders/{orderID}/status", s.handleUpdateOrderStatus)
		r.Patch("/admin/products/{productID}/stock", s.handleUpdateProductStock)
	})

	return r
}

func (s *Server) handleListProducts(w http.ResponseWriter, r *http.Request) {
	if category := r.URL.Query().Get("category"); category != "" {
		writeSuccess(w, s.store.productsByCategory(category))
		return
	}
	writeSuccess(w, s.store.listProducts())
}

func (s *Server) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "productID")
	if err != nil {
		writeError(r.Context(), s.logg, w, err)
		return
	}
	product, err := s.store.getProduct(id)
	if err != nil {
		writeError(r.Context(), s.logg, w, err)
		return
	}
	writeSuccess(w, product)
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, s.store.categories())
}

// handleGetCart returns an empty cart rather than 401 for anonymous callers,
// so browsing before sign-in never errors.
func (s *Server) handleGetCart(w http.ResponseWriter, r *http.Request) {
	owner := subjectFromContext(r.Context())
	if owner == "" {
		writeSuccess(w, []types.CartLine{})
		return
	}
	writeSuccess(w, s.store.cart(owner))
}

func (s *Server) handleSetCartLine(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "productID")
	if err != nil {
		writeError(r.Context(), s.logg, w, err)
		return
	}
	var payload struct {
		Quantity int `json:"quantity"`
	}
	if err := decodeBody(r, &payload); err != nil {
		writeError(r.Context(), s.logg, w, err)
		return
	}
	owner := subjectFromContext(r.Context())
	if err := s.store.setCartLine(owner, id, payload.Quantity); err != nil {
		writeError(r.Context(), s.logg, w, err)
		return
	}
	writeSuccess(w, nil)
}

func (s *Server) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	var payload catalog.CreateOrderInput
	if err := decodeBody(r, &payload); err != nil {
		writeError(r.Context(), s.logg, w, err)
		return
	}
	owner := subjectFromContext(r.Context())
	orderID, err := s.store.createOrder(owner, payload)
	if err != nil {
		writeError(r.Context(), s.logg, w, err)
		return
	}
	if s.logg != nil {
		s.logg.Info(s.logg.WithOrderID(r.Context(), orderID), "order created")
	}
	writeSuccess(w, map[string]uint64{"order_id": orderID})
}

func (s *Server) handleGetOrders(w http.ResponseWriter, r *http.Request) {
	owner := subjectFromContext(r.Context())
	writeSuccess(w, s.store.ordersFor(owner))
}

func (s *Server) handleAllOrders(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, s.store.allOrders())
}

func (s *Server) handleUpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "orderID")
	if err != nil {
		writeError(r.Context(), s.logg, w, err)
		return
	}
	var payload struct {
		Status string `json:"status"`
	}
	if err := decodeBody(r, &payload); err != nil {
		writeError(r.Context(), s.logg, w, err)
		return
	}
	status, err := enums.ParseOrderStatus(payload.Status)
	if err != nil {
		writeError(r.Context(), s.logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status"))
		return
	}
	if err := s.store.updateOrderStatus(id, status); err != nil {
		writeError(r.Context(), s.logg, w, err)
		return
	}
	writeSuccess(w, nil)
}

func (s *Server) handleUpdateProductStock(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "productID")
	if err != nil {
		writeError(r.Context(), s.logg, w, err)
		return
	}
	var payload struct {
		Stock int `json:"stock"`
	}
	if err := decodeBody(r, &payload); err != nil {
		writeError(r.Context(), s.logg, w, err)
		return
	}
	if err := s.store.updateProductStock(id, payload.Stock); err != nil {
		writeError(r.Context(), s.logg, w, err)
		return
	}
	writeSuccess(w, nil)
}

func pathID(r *http.Request, param string) (uint64, error) {
	raw := chi.URLParam(r, param)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid id "+raw)
	}
	return id, nil
}

func decodeBody(r *http.Request, dest any) error {
	defer func() {
		io.Copy(io.Discard, r.Body)
	}()
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dest); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid request body")
	}
	return nil
}
