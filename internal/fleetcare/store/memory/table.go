// Package memory keeps fleet entities in process memory. Contents are lost on
// restart.
package memory

import (
	"fmt"
	"sync"

	"github.com/autopeer-io/fleetcare/internal/fleetcare/core"
)

// table is an insertion-ordered map guarded by a RWMutex. Values never leave
// the table without being cloned.
type table[T any] struct {
	kind  string
	clone func(*T) *T

	mu    sync.RWMutex
	order []string
	items map[string]*T
}

func newTable[T any](kind string, clone func(*T) *T) *table[T] {
	return &table[T]{
		kind:  kind,
		clone: clone,
		items: make(map[string]*T),
	}
}

func (t *table[T]) list() []*T {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]*T, 0, len(t.order))
	for _, id := range t.order {
		out = append(out, t.clone(t.items[id]))
	}
	return out
}

func (t *table[T]) get(id string) (*T, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	v, ok := t.items[id]
	if !ok {
		return nil, &core.NotFoundError{Kind: t.kind, ID: id}
	}
	return t.clone(v), nil
}

func (t *table[T]) insert(id string, v *T) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.items[id]; ok {
		return fmt.Errorf("%s %q already exists", t.kind, id)
	}
	t.items[id] = t.clone(v)
	t.order = append(t.order, id)
	return nil
}

// find returns a copy of the first value, in insertion order, matching pred.
func (t *table[T]) find(pred func(*T) bool) (*T, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	for _, id := range t.order {
		if v := t.items[id]; pred(v) {
			return t.clone(v), true
		}
	}
	return nil, false
}

// update runs fn on a private copy while holding the write lock and swaps the
// copy in only when fn succeeds.
func (t *table[T]) update(id string, fn func(*T) error) (*T, error) {
	return t.updateWith(id, func(v *T, _ func(func(*T) bool) bool) error { return fn(v) })
}

// updateWith is update for changes that depend on the other values, such as
// uniqueness checks. others reports whether any value but id matches pred and
// must only be called from within fn.
func (t *table[T]) updateWith(id string, fn func(v *T, others func(pred func(*T) bool) bool) error) (*T, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	cur, ok := t.items[id]
	if !ok {
		return nil, &core.NotFoundError{Kind: t.kind, ID: id}
	}

	others := func(pred func(*T) bool) bool {
		for _, oid := range t.order {
			if oid != id && pred(t.items[oid]) {
				return true
			}
		}
		return false
	}

	next := t.clone(cur)
	if err := fn(next, others); err != nil {
		return nil, err
	}
	t.items[id] = next
	return t.clone(next), nil
}
