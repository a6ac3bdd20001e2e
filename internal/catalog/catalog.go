// Package catalog proxies the public product catalog that feeds the cart and
// wishlist. It holds no state of its own.
package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/utafrali/storefront/internal/domain"
	apperrors "github.com/utafrali/storefront/pkg/errors"
	"github.com/utafrali/storefront/pkg/httpclient"
	"github.com/utafrali/storefront/pkg/tracing"
)

var tracer = tracing.Tracer("github.com/utafrali/storefront/internal/catalog")

// DefaultBaseURL is the public catalog the storefront is built against.
const DefaultBaseURL = "https://fakestoreapi.com"

// Catalog is the read-only product source used by the HTTP handlers.
type Catalog interface {
	List(ctx context.Context, category string) ([]domain.Product, error)
	Get(ctx context.Context, id int64) (*domain.Product, error)
}

// Client talks to a fakestoreapi-compatible REST catalog.
type Client struct {
	baseURL string
	http    *httpclient.CircuitBreakerClient
	logger  *slog.Logger
}

// NewClient builds a catalog client with retries and a circuit breaker.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	cfg := httpclient.DefaultConfig()
	if timeout > 0 {
		cfg.Timeout = timeout
	}
	hc := httpclient.New(cfg)
	cb := httpclient.NewCircuitBreakerClient(hc, httpclient.DefaultCircuitBreakerConfig("catalog"), logger)
	return NewClientWith(baseURL, cb, logger)
}

// NewClientWith builds a catalog client over an existing breaker-wrapped client.
func NewClientWith(baseURL string, hc *httpclient.CircuitBreakerClient, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    hc,
		logger:  logger,
	}
}

// List returns every product, or only those in category when it is non-empty.
func (c *Client) List(ctx context.Context, category string) ([]domain.Product, error) {
	ctx, span := tracer.Start(ctx, "catalog.List")
	defer span.End()
	span.SetAttributes(attribute.String("catalog.category", category))

	endpoint := c.baseURL + "/products"
	if category != "" {
		endpoint += "/category/" + url.PathEscape(category)
	}

	var products []domain.Product
	if _, err := c.http.GetJSON(ctx, endpoint, &products); err != nil {
		tracing.RecordError(span, err)
		c.logger.ErrorContext(ctx, "failed to list catalog products",
			slog.String("category", category),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("list products: %w", err)
	}
	if products == nil {
		products = []domain.Product{}
	}
	span.SetAttributes(attribute.Int("catalog.products", len(products)))
	return products, nil
}

// Get returns a single product. The upstream answers an unknown id with an
// empty 200 body, which is reported as NotFound.
func (c *Client) Get(ctx context.Context, id int64) (*domain.Product, error) {
	ctx, span := tracer.Start(ctx, "catalog.Get")
	defer span.End()
	span.SetAttributes(attribute.Int64("catalog.product_id", id))

	idStr := strconv.FormatInt(id, 10)

	var product domain.Product
	empty, err := c.http.GetJSON(ctx, c.baseURL+"/products/"+idStr, &product)
	if err != nil {
		tracing.RecordError(span, err)
		return nil, fmt.Errorf("get product %d: %w", id, err)
	}
	if empty || product.ID == 0 {
		return nil, apperrors.NotFound("product", idStr)
	}
	return &product, nil
}

// Filter keeps products whose title, description or category contains query,
// ignoring case. A blank query keeps everything.
func Filter(products []domain.Product, query string) []domain.Product {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return products
	}

	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Title), q) ||
			strings.Contains(strings.ToLower(p.Description), q) ||
			strings.Contains(strings.ToLower(p.Category), q) {
			out = append(out, p)
		}
	}
	return out
}
