package store

import (
	"context"
	"log/slog"

	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/internal/persist"
	"github.com/utafrali/storefront/internal/storage"
)

// WishlistStore owns the wishlist of one session.
type WishlistStore struct {
	state *state[domain.WishlistEntry]
}

// NewWishlistStore restores the wishlist stored under key, or starts empty.
func NewWishlistStore(ctx context.Context, st storage.Storage, key string, logger *slog.Logger) *WishlistStore {
	slot := persist.NewSlot[domain.WishlistEntry](st, key, "wishlist", logger)
	return &WishlistStore{
		state: newState(ctx, slot, func(entries []domain.WishlistEntry) []domain.WishlistEntry {
			return domain.Wishlist(entries).Normalize()
		}),
	}
}

// AddToWishlist saves a snapshot of p unless its ID is already saved.
func (w *WishlistStore) AddToWishlist(ctx context.Context, p domain.Product) domain.Wishlist {
	return w.mutate(ctx, func(wl domain.Wishlist) domain.Wishlist { return wl.Add(p) })
}

// RemoveFromWishlist removes the entry for productID, if any.
func (w *WishlistStore) RemoveFromWishlist(ctx context.Context, productID int64) domain.Wishlist {
	return w.mutate(ctx, func(wl domain.Wishlist) domain.Wishlist { return wl.Remove(productID) })
}

// Toggle removes p when saved and saves it otherwise. It reports whether p
// is in the wishlist afterwards.
func (w *WishlistStore) Toggle(ctx context.Context, p domain.Product) bool {
	var in bool
	w.mutate(ctx, func(wl domain.Wishlist) domain.Wishlist {
		var next domain.Wishlist
		next, in = wl.Toggle(p)
		return next
	})
	return in
}

// IsInWishlist reports whether productID is saved.
func (w *WishlistStore) IsInWishlist(productID int64) bool {
	var in bool
	w.st().read(func(entries []domain.WishlistEntry) { in = domain.Wishlist(entries).Contains(productID) })
	return in
}

// Items returns a copy of the saved entries.
func (w *WishlistStore) Items() domain.Wishlist {
	return domain.Wishlist(w.st().snapshot())
}

// Count returns the number of saved entries.
func (w *WishlistStore) Count() int {
	var n int
	w.st().read(func(entries []domain.WishlistEntry) { n = len(entries) })
	return n
}

// Subscribe registers fn to be called with the new wishlist after every mutation.
func (w *WishlistStore) Subscribe(fn func(ctx context.Context, wl domain.Wishlist)) (cancel func()) {
	return w.st().subscribe(func(ctx context.Context, entries []domain.WishlistEntry) {
		fn(ctx, domain.Wishlist(entries))
	})
}

// Close ends the store's lifetime.
func (w *WishlistStore) Close() {
	w.st().close()
}

func (w *WishlistStore) mutate(ctx context.Context, fn func(domain.Wishlist) domain.Wishlist) domain.Wishlist {
	return domain.Wishlist(w.st().apply(ctx, func(entries []domain.WishlistEntry) []domain.WishlistEntry {
		return fn(domain.Wishlist(entries))
	}))
}

func (w *WishlistStore) st() *state[domain.WishlistEntry] {
	if w == nil {
		panic(ErrClosed)
	}
	return w.state
}
