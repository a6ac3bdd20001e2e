package store

import (
	"context"
	"errors"
	"log/slog"

	"github.com/utafrali/storefront/internal/storage"
)

// ErrNoSession is the panic value of MustFromContext when no session is attached.
var ErrNoSession = errors.New("store: no session in context")

// Session groups the cart and wishlist stores of one shopper session.
type Session struct {
	ID       string
	Cart     *CartStore
	Wishlist *WishlistStore
}

// OpenSession restores both stores of session id from st.
func OpenSession(ctx context.Context, id string, st storage.Storage, logger *slog.Logger) *Session {
	l := logger.With(slog.String("session_id", id))
	return &Session{
		ID:       id,
		Cart:     NewCartStore(ctx, st, storage.CartKey(id), l),
		Wishlist: NewWishlistStore(ctx, st, storage.WishlistKey(id), l),
	}
}

// Close closes both stores.
func (s *Session) Close() {
	s.Cart.Close()
	s.Wishlist.Close()
}

type contextKey struct{}

// NewContext returns a copy of ctx carrying s.
func NewContext(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

// FromContext returns the session stored in ctx, if any.
func FromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(contextKey{}).(*Session)
	return s, ok && s != nil
}

// MustFromContext returns the session stored in ctx and panics with
// ErrNoSession when there is none.
func MustFromContext(ctx context.Context) *Session {
	s, ok := FromContext(ctx)
	if !ok {
		panic(ErrNoSession)
	}
	return s
}
