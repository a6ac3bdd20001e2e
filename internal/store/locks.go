package store

import (
	"context"
	"sync"
)

// Locks serializes work on a session within this process, so that a load,
// mutate and save cycle for one session id never interleaves with another.
// An id's entry is dropped once nobody holds or waits for it.
type Locks struct {
	mu    sync.Mutex
	slots map[string]*sessionLock
}

type sessionLock struct {
	ch   chan struct{}
	refs int
}

// NewLocks returns an empty lock table.
func NewLocks() *Locks {
	return &Locks{slots: make(map[string]*sessionLock)}
}

// Lock blocks until the lock for id is free or ctx is done. The returned
// unlock releases it; calling unlock more than once is a no-op.
func (l *Locks) Lock(ctx context.Context, id string) (unlock func(), err error) {
	l.mu.Lock()
	sl, ok := l.slots[id]
	if !ok {
		sl = &sessionLock{ch: make(chan struct{}, 1)}
		l.slots[id] = sl
	}
	sl.refs++
	l.mu.Unlock()

	select {
	case sl.ch <- struct{}{}:
	case <-ctx.Done():
		l.release(id, sl)
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-sl.ch
			l.release(id, sl)
		})
	}, nil
}

func (l *Locks) release(id string, sl *sessionLock) {
	l.mu.Lock()
	defer l.mu.Unlock()
	sl.refs--
	if sl.refs == 0 {
		delete(l.slots, id)
	}
}

// size reports how many ids currently have an entry.
func (l *Locks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.slots)
}
