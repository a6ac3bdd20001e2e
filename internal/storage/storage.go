package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when the key does not exist.
var ErrNotFound = errors.New("storage: key not found")

// Storage is a durable string-keyed byte store scoped to a single session.
// Absence of a key is a normal state and is reported as ErrNotFound.
type Storage interface {
	// Get returns the value stored under key.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key, overwriting any previous value.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// CartKey returns the storage key holding the cart of a session.
func CartKey(sessionID string) string {
	return "session:" + sessionID + ":cart"
}

// WishlistKey returns the storage key holding the wishlist of a session.
func WishlistKey(sessionID string) string {
	return "session:" + sessionID + ":wishlist"
}
