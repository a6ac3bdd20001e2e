package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/internal/store"
	apperrors "github.com/utafrali/storefront/pkg/errors"
	"github.com/utafrali/storefront/pkg/httputil"
	"github.com/utafrali/storefront/pkg/validator"
)

// CartHandler handles HTTP requests for the session cart.
type CartHandler struct {
	logger *slog.Logger
}

// NewCartHandler creates a new cart HTTP handler.
func NewCartHandler(logger *slog.Logger) *CartHandler {
	return &CartHandler{logger: logger}
}

// UpdateQuantityRequest is the JSON request body for setting a line quantity.
// A quantity of zero or less removes the line.
type UpdateQuantityRequest struct {
	Quantity *int `json:"quantity" validate:"required"`
}

// CartView is the cart as returned to clients.
type CartView struct {
	Items      domain.Cart `json:"items"`
	TotalItems int         `json:"total_items"`
	TotalPrice float64     `json:"total_price"`
}

func newCartView(cart domain.Cart) CartView {
	if cart == nil {
		cart = domain.Cart{}
	}
	return CartView{
		Items:      cart,
		TotalItems: cart.TotalItems(),
		TotalPrice: cart.TotalPrice(),
	}
}

// GetCart handles GET /api/v1/cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	sess := store.MustFromContext(r.Context())
	httputil.WriteData(w, http.StatusOK, newCartView(sess.Cart.Items()))
}

// AddItem handles POST /api/v1/cart/items
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var p domain.Product
	if !h.decode(w, r, &p) {
		return
	}

	sess := store.MustFromContext(r.Context())
	httputil.WriteData(w, http.StatusOK, newCartView(sess.Cart.AddToCart(r.Context(), p)))
}

// UpdateItemQuantity handles PUT /api/v1/cart/items/{productId}
func (h *CartHandler) UpdateItemQuantity(w http.ResponseWriter, r *http.Request) {
	productID, ok := httputil.ParseID(w, "productId", chi.URLParam(r, "productId"))
	if !ok {
		return
	}

	var req UpdateQuantityRequest
	if !h.decode(w, r, &req) {
		return
	}

	sess := store.MustFromContext(r.Context())
	cart := sess.Cart.UpdateQuantity(r.Context(), productID, *req.Quantity)
	httputil.WriteData(w, http.StatusOK, newCartView(cart))
}

// RemoveItem handles DELETE /api/v1/cart/items/{productId}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	productID, ok := httputil.ParseID(w, "productId", chi.URLParam(r, "productId"))
	if !ok {
		return
	}

	sess := store.MustFromContext(r.Context())
	httputil.WriteData(w, http.StatusOK, newCartView(sess.Cart.RemoveFromCart(r.Context(), productID)))
}

// ClearCart handles DELETE /api/v1/cart
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	sess := store.MustFromContext(r.Context())
	httputil.WriteData(w, http.StatusOK, newCartView(sess.Cart.ClearCart(r.Context())))
}

func (h *CartHandler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	return decodeBody(w, r, dst, h.logger)
}

// decodeBody decodes and validates the request body, writing a 400 on
// failure.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any, logger *slog.Logger) bool {
	err := validator.DecodeAndValidate(r, dst)
	if err == nil {
		return true
	}
	var valErr *validator.ValidationError
	if !errors.As(err, &valErr) {
		err = apperrors.InvalidInput("invalid request body: " + err.Error())
	}
	httputil.WriteError(w, r, err, logger)
	return false
}
