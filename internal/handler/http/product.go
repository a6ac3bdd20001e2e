package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/utafrali/storefront/internal/catalog"
	"github.com/utafrali/storefront/pkg/httputil"
	"github.com/utafrali/storefront/pkg/pagination"
)

// ProductHandler serves the catalog proxy endpoints.
type ProductHandler struct {
	catalog catalog.Catalog
	logger  *slog.Logger
}

// NewProductHandler creates a new product HTTP handler.
func NewProductHandler(c catalog.Catalog, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{
		catalog: c,
		logger:  logger,
	}
}

// ListProducts handles GET /api/v1/products?category=&search=&page=&per_page=
// The category may be given as upstream id or slug.
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	category := catalog.ResolveCategory(q.Get("category"))

	products, err := h.catalog.List(r.Context(), category)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	matched := catalog.Filter(products, q.Get("search"))
	httputil.WriteJSON(w, http.StatusOK, pagination.Slice(matched, pagination.FromRequest(r)))
}

// ListCategories handles GET /api/v1/categories
func (h *ProductHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	httputil.WriteData(w, http.StatusOK, catalog.Categories())
}

// GetProduct handles GET /api/v1/products/{id}
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, "product id", chi.URLParam(r, "id"))
	if !ok {
		return
	}

	product, err := h.catalog.Get(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusOK, product)
}
