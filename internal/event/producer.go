package event

import (
	"context"
	"fmt"
	"log/slog"

	pkgkafka "github.com/utafrali/storefront/pkg/kafka"

	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/internal/store"
)

// Kafka topic constants for session state events.
const (
	TopicCartUpdated     = "storefront.cart.updated"
	TopicWishlistUpdated = "storefront.wishlist.updated"
)

// Aggregate type constants.
const (
	AggregateTypeCart     = "cart"
	AggregateTypeWishlist = "wishlist"
)

// SourceStorefront identifies events originating from the storefront service.
const SourceStorefront = "storefront-service"

// CartUpdatedData is the payload for a cart.updated event.
type CartUpdatedData struct {
	SessionID  string            `json:"session_id"`
	Items      []domain.CartLine `json:"items"`
	TotalItems int               `json:"total_items"`
	TotalPrice float64           `json:"total_price"`
}

// WishlistUpdatedData is the payload for a wishlist.updated event.
type WishlistUpdatedData struct {
	SessionID  string  `json:"session_id"`
	ProductIDs []int64 `json:"product_ids"`
}

// Publisher is the subset of the Kafka producer used here.
type Publisher interface {
	Publish(ctx context.Context, topic string, event *pkgkafka.Event) error
}

// Producer publishes session state events to Kafka.
type Producer struct {
	kafka  Publisher
	logger *slog.Logger
}

// NewProducer creates a new event producer.
func NewProducer(kafka Publisher, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// Attach subscribes the producer to both stores of sess. Publish failures
// are logged and never reach the store.
func (p *Producer) Attach(sess *store.Session) {
	sess.Cart.Subscribe(func(ctx context.Context, cart domain.Cart) {
		if err := p.PublishCartUpdated(ctx, sess.ID, cart); err != nil {
			p.logger.ErrorContext(ctx, "failed to publish cart.updated event",
				slog.String("session_id", sess.ID),
				slog.String("error", err.Error()),
			)
		}
	})
	sess.Wishlist.Subscribe(func(ctx context.Context, wl domain.Wishlist) {
		if err := p.PublishWishlistUpdated(ctx, sess.ID, wl); err != nil {
			p.logger.ErrorContext(ctx, "failed to publish wishlist.updated event",
				slog.String("session_id", sess.ID),
				slog.String("error", err.Error()),
			)
		}
	})
}

// PublishCartUpdated publishes a cart.updated event.
func (p *Producer) PublishCartUpdated(ctx context.Context, sessionID string, cart domain.Cart) error {
	data := CartUpdatedData{
		SessionID:  sessionID,
		Items:      cart,
		TotalItems: cart.TotalItems(),
		TotalPrice: cart.TotalPrice(),
	}

	event, err := pkgkafka.NewEvent(ctx, TopicCartUpdated, sessionID, AggregateTypeCart, SourceStorefront, data)
	if err != nil {
		return fmt.Errorf("create cart.updated event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicCartUpdated, event); err != nil {
		return fmt.Errorf("publish cart.updated event: %w", err)
	}

	p.logger.DebugContext(ctx, "published cart.updated event",
		slog.String("session_id", sessionID),
		slog.Int("total_items", data.TotalItems),
	)

	return nil
}

// PublishWishlistUpdated publishes a wishlist.updated event.
func (p *Producer) PublishWishlistUpdated(ctx context.Context, sessionID string, wl domain.Wishlist) error {
	ids := make([]int64, len(wl))
	for i, e := range wl {
		ids[i] = e.ID
	}
	data := WishlistUpdatedData{SessionID: sessionID, ProductIDs: ids}

	event, err := pkgkafka.NewEvent(ctx, TopicWishlistUpdated, sessionID, AggregateTypeWishlist, SourceStorefront, data)
	if err != nil {
		return fmt.Errorf("create wishlist.updated event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicWishlistUpdated, event); err != nil {
		return fmt.Errorf("publish wishlist.updated event: %w", err)
	}

	p.logger.DebugContext(ctx, "published wishlist.updated event",
		slog.String("session_id", sessionID),
		slog.Int("count", len(ids)),
	)

	return nil
}
