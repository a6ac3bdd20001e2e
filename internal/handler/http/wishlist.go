package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/internal/store"
	"github.com/utafrali/storefront/pkg/httputil"
)

// WishlistHandler handles HTTP requests for the session wishlist.
type WishlistHandler struct {
	logger *slog.Logger
}

// NewWishlistHandler creates a new wishlist HTTP handler.
func NewWishlistHandler(logger *slog.Logger) *WishlistHandler {
	return &WishlistHandler{logger: logger}
}

// WishlistView is the wishlist as returned to clients.
type WishlistView struct {
	Items domain.Wishlist `json:"items"`
	Count int             `json:"count"`
}

// MembershipView reports whether one product is saved.
type MembershipView struct {
	ProductID  int64 `json:"product_id"`
	InWishlist bool  `json:"in_wishlist"`
}

func newWishlistView(wl domain.Wishlist) WishlistView {
	if wl == nil {
		wl = domain.Wishlist{}
	}
	return WishlistView{Items: wl, Count: len(wl)}
}

// GetWishlist handles GET /api/v1/wishlist
func (h *WishlistHandler) GetWishlist(w http.ResponseWriter, r *http.Request) {
	sess := store.MustFromContext(r.Context())
	httputil.WriteData(w, http.StatusOK, newWishlistView(sess.Wishlist.Items()))
}

// AddItem handles POST /api/v1/wishlist/items
func (h *WishlistHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var p domain.Product
	if !decodeBody(w, r, &p, h.logger) {
		return
	}

	sess := store.MustFromContext(r.Context())
	httputil.WriteData(w, http.StatusOK, newWishlistView(sess.Wishlist.AddToWishlist(r.Context(), p)))
}

// ToggleItem handles POST /api/v1/wishlist/items/toggle
func (h *WishlistHandler) ToggleItem(w http.ResponseWriter, r *http.Request) {
	var p domain.Product
	if !decodeBody(w, r, &p, h.logger) {
		return
	}

	sess := store.MustFromContext(r.Context())
	in := sess.Wishlist.Toggle(r.Context(), p)
	httputil.WriteData(w, http.StatusOK, MembershipView{ProductID: p.ID, InWishlist: in})
}

// CheckItem handles GET /api/v1/wishlist/items/{productId}
func (h *WishlistHandler) CheckItem(w http.ResponseWriter, r *http.Request) {
	productID, ok := httputil.ParseID(w, "productId", chi.URLParam(r, "productId"))
	if !ok {
		return
	}

	sess := store.MustFromContext(r.Context())
	httputil.WriteData(w, http.StatusOK, MembershipView{
		ProductID:  productID,
		InWishlist: sess.Wishlist.IsInWishlist(productID),
	})
}

// RemoveItem handles DELETE /api/v1/wishlist/items/{productId}
func (h *WishlistHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	productID, ok := httputil.ParseID(w, "productId", chi.URLParam(r, "productId"))
	if !ok {
		return
	}

	sess := store.MustFromContext(r.Context())
	httputil.WriteData(w, http.StatusOK, newWishlistView(sess.Wishlist.RemoveFromWishlist(r.Context(), productID)))
}
