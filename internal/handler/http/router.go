package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/utafrali/storefront/internal/catalog"
	"github.com/utafrali/storefront/internal/event"
	"github.com/utafrali/storefront/internal/storage"
	"github.com/utafrali/storefront/internal/store"
	"github.com/utafrali/storefront/pkg/health"
	"github.com/utafrali/storefront/pkg/middleware"
)

const (
	serviceName = "storefront"

	// productCacheSeconds lets browsers reuse catalog responses briefly.
	productCacheSeconds = 300
)

// RouterConfig carries the dependencies of the HTTP surface.
type RouterConfig struct {
	Catalog    catalog.Catalog
	Storage    storage.Storage
	Events     *event.Producer // nil disables event publishing
	Health     *health.Handler
	CORS       middleware.CORSConfig
	PprofCIDRs []string
	Logger     *slog.Logger
}

// NewRouter creates a chi router with all storefront routes registered.
func NewRouter(cfg RouterConfig) http.Handler {
	logger := cfg.Logger
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics(serviceName))
	r.Use(middleware.Tracing(serviceName))
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.CORS(cfg.CORS))

	// Health check endpoints
	r.Get("/health/live", cfg.Health.LivenessHandler())
	r.Get("/health/ready", cfg.Health.ReadinessHandler())
	r.Handle("/metrics", promhttp.Handler())

	// Pprof debug endpoints with IP allowlist.
	middleware.RegisterPprof(r, cfg.PprofCIDRs, logger)

	productHandler := NewProductHandler(cfg.Catalog, logger)
	cartHandler := NewCartHandler(logger)
	wishlistHandler := NewWishlistHandler(logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Use(middleware.CacheControl(productCacheSeconds))

			r.Get("/", productHandler.ListProducts)
			r.Get("/{id}", productHandler.GetProduct)
		})
		r.With(middleware.CacheControl(productCacheSeconds)).
			Get("/categories", productHandler.ListCategories)

		r.Group(func(r chi.Router) {
			r.Use(middleware.NoStore)
			r.Use(ContentTypeJSON)
			r.Use(SessionFromHeader(cfg.Storage, store.NewLocks(), cfg.Events, logger))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", cartHandler.GetCart)
				r.Delete("/", cartHandler.ClearCart)

				r.Post("/items", cartHandler.AddItem)
				r.Put("/items/{productId}", cartHandler.UpdateItemQuantity)
				r.Delete("/items/{productId}", cartHandler.RemoveItem)
			})

			r.Route("/wishlist", func(r chi.Router) {
				r.Get("/", wishlistHandler.GetWishlist)

				r.Post("/items", wishlistHandler.AddItem)
				r.Post("/items/toggle", wishlistHandler.ToggleItem)
				r.Get("/items/{productId}", wishlistHandler.CheckItem)
				r.Delete("/items/{productId}", wishlistHandler.RemoveItem)
			})
		})
	})

	return r
}
