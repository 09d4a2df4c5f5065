// Package keylock provides a table of exclusive locks addressed by key.
package keylock

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrTimeout is returned when a lock cannot be acquired within the wait bound.
var ErrTimeout = errors.New("keylock: acquire timed out")

// Table holds one exclusive lock per key. Locks for different keys never block each other.
type Table struct {
	mu    sync.Mutex
	locks map[string]*entry
}

type entry struct {
	slot chan struct{}
	refs int
}

// New creates an empty lock table.
func New() *Table {
	return &Table{locks: make(map[string]*entry)}
}

// Acquire blocks until key is free, ctx is done or timeout elapses. A non-positive timeout
// waits as long as ctx allows. The returned release func may be called more than once.
func (t *Table) Acquire(ctx context.Context, key string, timeout time.Duration) (func(), error) {
	e := t.ref(key)

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	select {
	case e.slot <- struct{}{}:
	case <-ctx.Done():
		t.unref(key, e)
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, ErrTimeout
		}
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-e.slot
			t.unref(key, e)
		})
	}, nil
}

// Len returns number of keys currently held or waited on.
func (t *Table) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.locks)
}

func (t *Table) ref(key string) *entry {
	t.mu.Lock()
	defer t.mu.Unlock()

	e, ok := t.locks[key]
	if !ok {
		e = &entry{slot: make(chan struct{}, 1)}
		t.locks[key] = e
	}
	e.refs++
	return e
}

func (t *Table) unref(key string, e *entry) {
	t.mu.Lock()
	defer t.mu.Unlock()

	e.refs--
	if e.refs == 0 {
		delete(t.locks, key)
	}
}
