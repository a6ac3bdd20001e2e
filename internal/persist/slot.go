// Package persist stores ordered collections under a single storage key.
//
// A Slot never reports failures to its caller. A missing key and an empty
// collection are the same state: saving an empty collection deletes the key,
// and a value that cannot be decoded is deleted and read back as empty.
package persist

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/utafrali/storefront/internal/storage"
)

// Slot persists a []T as a JSON array under one key.
type Slot[T any] struct {
	store  storage.Storage
	key    string
	kind   string
	logger *slog.Logger
}

// NewSlot creates a slot for key. kind labels logs and metrics ("cart", "wishlist").
func NewSlot[T any](store storage.Storage, key, kind string, logger *slog.Logger) *Slot[T] {
	return &Slot[T]{
		store:  store,
		key:    key,
		kind:   kind,
		logger: logger,
	}
}

// Key returns the storage key of the slot.
func (s *Slot[T]) Key() string {
	return s.key
}

// Load reads the stored collection. It returns an empty, non-nil slice when
// the key is absent, unreadable or corrupt; corrupt values are deleted.
func (s *Slot[T]) Load(ctx context.Context) []T {
	data, err := s.store.Get(ctx, s.key)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			failuresTotal.WithLabelValues(s.kind, "get").Inc()
			s.logger.ErrorContext(ctx, "failed to read stored collection",
				slog.String("key", s.key),
				slog.String("error", err.Error()),
			)
		}
		return []T{}
	}

	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		discardedTotal.WithLabelValues(s.kind).Inc()
		s.logger.WarnContext(ctx, "discarding corrupt stored collection",
			slog.String("key", s.key),
			slog.String("error", err.Error()),
		)
		s.remove(ctx)
		return []T{}
	}
	if items == nil {
		items = []T{}
	}
	return items
}

// Save writes items, or deletes the key when items is empty.
func (s *Slot[T]) Save(ctx context.Context, items []T) {
	if len(items) == 0 {
		s.remove(ctx)
		return
	}

	data, err := json.Marshal(items)
	if err != nil {
		failuresTotal.WithLabelValues(s.kind, "encode").Inc()
		s.logger.ErrorContext(ctx, "failed to encode collection",
			slog.String("key", s.key),
			slog.String("error", err.Error()),
		)
		return
	}

	if err := s.store.Set(ctx, s.key, data); err != nil {
		failuresTotal.WithLabelValues(s.kind, "set").Inc()
		s.logger.ErrorContext(ctx, "failed to persist collection",
			slog.String("key", s.key),
			slog.Int("items", len(items)),
			slog.String("error", err.Error()),
		)
	}
}

func (s *Slot[T]) remove(ctx context.Context) {
	if err := s.store.Delete(ctx, s.key); err != nil {
		failuresTotal.WithLabelValues(s.kind, "delete").Inc()
		s.logger.ErrorContext(ctx, "failed to delete stored collection",
			slog.String("key", s.key),
			slog.String("error", err.Error()),
		)
	}
}
