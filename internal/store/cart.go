package store

import (
	"context"
	"log/slog"

	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/internal/persist"
	"github.com/utafrali/storefront/internal/storage"
)

// CartStore owns the cart of one session. Every mutation is persisted before
// it returns; derived values are recomputed from the current lines on each call.
type CartStore struct {
	state *state[domain.CartLine]
}

// NewCartStore restores the cart stored under key, or starts empty.
func NewCartStore(ctx context.Context, st storage.Storage, key string, logger *slog.Logger) *CartStore {
	slot := persist.NewSlot[domain.CartLine](st, key, "cart", logger)
	return &CartStore{
		state: newState(ctx, slot, func(lines []domain.CartLine) []domain.CartLine {
			return domain.Cart(lines).Normalize()
		}),
	}
}

// AddToCart adds one unit of p.
func (c *CartStore) AddToCart(ctx context.Context, p domain.Product) domain.Cart {
	return c.mutate(ctx, func(cart domain.Cart) domain.Cart { return cart.Add(p) })
}

// RemoveFromCart removes the line for productID, if any.
func (c *CartStore) RemoveFromCart(ctx context.Context, productID int64) domain.Cart {
	return c.mutate(ctx, func(cart domain.Cart) domain.Cart { return cart.Remove(productID) })
}

// UpdateQuantity sets the quantity of the line for productID. A quantity of
// zero or less removes the line.
func (c *CartStore) UpdateQuantity(ctx context.Context, productID int64, qty int) domain.Cart {
	return c.mutate(ctx, func(cart domain.Cart) domain.Cart { return cart.SetQuantity(productID, qty) })
}

// ClearCart removes every line. The stored key is deleted.
func (c *CartStore) ClearCart(ctx context.Context) domain.Cart {
	return c.mutate(ctx, func(domain.Cart) domain.Cart { return domain.Cart{} })
}

// Items returns a copy of the current lines.
func (c *CartStore) Items() domain.Cart {
	return domain.Cart(c.st().snapshot())
}

// TotalPrice returns the sum of price * quantity over all lines.
func (c *CartStore) TotalPrice() float64 {
	var total float64
	c.st().read(func(lines []domain.CartLine) { total = domain.Cart(lines).TotalPrice() })
	return total
}

// TotalItems returns the sum of quantities over all lines.
func (c *CartStore) TotalItems() int {
	var n int
	c.st().read(func(lines []domain.CartLine) { n = domain.Cart(lines).TotalItems() })
	return n
}

// Subscribe registers fn to be called with the new cart after every
// mutation. The returned func cancels the subscription.
func (c *CartStore) Subscribe(fn func(ctx context.Context, cart domain.Cart)) (cancel func()) {
	return c.st().subscribe(func(ctx context.Context, lines []domain.CartLine) {
		fn(ctx, domain.Cart(lines))
	})
}

// Close ends the store's lifetime. Later calls panic with ErrClosed.
func (c *CartStore) Close() {
	c.st().close()
}

func (c *CartStore) mutate(ctx context.Context, fn func(domain.Cart) domain.Cart) domain.Cart {
	return domain.Cart(c.st().apply(ctx, func(lines []domain.CartLine) []domain.CartLine {
		return fn(domain.Cart(lines))
	}))
}

func (c *CartStore) st() *state[domain.CartLine] {
	if c == nil {
		panic(ErrClosed)
	}
	return c.state
}
