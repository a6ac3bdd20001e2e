package domain

// WishlistEntry is a full product snapshot taken when it was saved.
type WishlistEntry = Product

// Wishlist is an ordered set of saved products keyed by product ID.
type Wishlist []WishlistEntry

// Contains reports whether a product with productID is saved.
func (w Wishlist) Contains(productID int64) bool {
	for i := range w {
		if w[i].ID == productID {
			return true
		}
	}
	return false
}

// Add appends p unless an entry with the same ID already exists.
func (w Wishlist) Add(p Product) Wishlist {
	if w.Contains(p.ID) {
		return w
	}
	next := make(Wishlist, len(w), len(w)+1)
	copy(next, w)
	return append(next, p)
}

// Remove drops the entry for productID, if present.
func (w Wishlist) Remove(productID int64) Wishlist {
	next := make(Wishlist, 0, len(w))
	for _, e := range w {
		if e.ID != productID {
			next = append(next, e)
		}
	}
	return next
}

// Toggle removes p when saved and adds it otherwise. The returned bool is
// the membership after the call.
func (w Wishlist) Toggle(p Product) (Wishlist, bool) {
	if w.Contains(p.ID) {
		return w.Remove(p.ID), false
	}
	return w.Add(p), true
}

// Normalize drops repeated IDs, keeping the first occurrence.
func (w Wishlist) Normalize() Wishlist {
	next := make(Wishlist, 0, len(w))
	seen := make(map[int64]struct{}, len(w))
	for _, e := range w {
		if _, dup := seen[e.ID]; dup {
			continue
		}
		seen[e.ID] = struct{}{}
		next = append(next, e)
	}
	return next
}
