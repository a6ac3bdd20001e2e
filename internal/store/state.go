package store

import (
	"context"
	"errors"
	"sync"

	"github.com/utafrali/storefront/internal/persist"
)

// ErrClosed is the panic value for operations on a nil or closed store.
var ErrClosed = errors.New("store: used outside of an open session")

// state is the lock, persisted slot and subscriber list shared by the cart
// and wishlist stores. Each mutation runs transition, persist and notify in
// that order; subscribers are called after the lock is released.
type state[E any] struct {
	mu     sync.Mutex
	items  []E
	slot   *persist.Slot[E]
	subs   map[int]func(context.Context, []E)
	nextID int
	closed bool
}

// newState restores the collection from slot. When normalize drops invalid
// entries the repaired collection is written back straight away.
func newState[E any](ctx context.Context, slot *persist.Slot[E], normalize func([]E) []E) *state[E] {
	loaded := slot.Load(ctx)
	items := normalize(loaded)
	if len(items) != len(loaded) {
		slot.Save(ctx, items)
	}
	return &state[E]{
		items: items,
		slot:  slot,
		subs:  make(map[int]func(context.Context, []E)),
	}
}

// apply replaces the collection with fn(current), persists it and notifies
// subscribers. It returns the new collection.
func (s *state[E]) apply(ctx context.Context, fn func([]E) []E) []E {
	s.lockOpen()
	s.items = fn(s.items)
	s.slot.Save(ctx, s.items)
	snapshot := clone(s.items)
	subs := make([]func(context.Context, []E), 0, len(s.subs))
	for _, sub := range s.subs {
		subs = append(subs, sub)
	}
	s.mu.Unlock()

	for _, sub := range subs {
		sub(ctx, clone(snapshot))
	}
	return snapshot
}

// read runs fn over the current collection under the lock.
func (s *state[E]) read(fn func([]E)) {
	s.lockOpen()
	defer s.mu.Unlock()
	fn(s.items)
}

func (s *state[E]) snapshot() []E {
	var out []E
	s.read(func(items []E) { out = clone(items) })
	return out
}

func (s *state[E]) subscribe(fn func(context.Context, []E)) func() {
	s.lockOpen()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.subs[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
		})
	}
}

func (s *state[E]) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.subs = make(map[int]func(context.Context, []E))
}

// lockOpen acquires mu, or panics with ErrClosed when the store is closed
// or nil. On a normal return the caller owns the lock.
func (s *state[E]) lockOpen() {
	if s == nil {
		panic(ErrClosed)
	}
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		panic(ErrClosed)
	}
}

func clone[E any](items []E) []E {
	out := make([]E, len(items))
	copy(out, items)
	return out
}
