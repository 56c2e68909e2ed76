// Package repository provides typed collections over a storage.Store.
//
// Every operation reads the whole collection, mutates it in memory and writes
// it back. A mutex per collection serialises that cycle within one process;
// writers in other processes race with last-write-wins semantics.
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/starford/digimark/internal/apperr"
	"github.com/starford/digimark/internal/storage"
)

// Entity is anything stored in a Collection.
type Entity interface {
	Identity() string
}

// Collection is an ordered, id-keyed list persisted as one JSON document.
type Collection[T Entity] struct {
	store storage.Store
	key   string
	seed  func() []T

	mu sync.Mutex
}

// NewCollection binds a collection to key. When seed is non-nil and the key is
// absent on first access, the seed is written and returned.
func NewCollection[T Entity](store storage.Store, key string, seed func() []T) *Collection[T] {
	return &Collection[T]{store: store, key: key, seed: seed}
}

// GetAll returns the collection in insertion order.
func (c *Collection[T]) GetAll(ctx context.Context) ([]T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.load(ctx)
}

// Get returns the entity with the given id.
func (c *Collection[T]) Get(ctx context.Context, id string) (T, error) {
	var zero T
	items, err := c.GetAll(ctx)
	if err != nil {
		return zero, err
	}
	for _, it := range items {
		if it.Identity() == id {
			return it, nil
		}
	}
	return zero, fmt.Errorf("%s %q: %w", c.key, id, apperr.ErrNotFound)
}

// Update runs fn on the current items and saves what it returns, all under
// the collection lock. When fn fails nothing is written.
func (c *Collection[T]) Update(ctx context.Context, fn func(items []T) ([]T, error)) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	items, err := c.load(ctx)
	if err != nil {
		return err
	}
	items, err = fn(items)
	if err != nil {
		return err
	}
	return c.save(ctx, items)
}

// Upsert replaces the entity with the same id, or appends it.
func (c *Collection[T]) Upsert(ctx context.Context, item T) error {
	return c.Update(ctx, func(items []T) ([]T, error) {
		for i := range items {
			if items[i].Identity() == item.Identity() {
				items[i] = item
				return items, nil
			}
		}
		return append(items, item), nil
	})
}

// errUnchanged aborts an Update without writing.
var errUnchanged = errors.New("unchanged")

// DeleteByID removes the entity with id. Deleting an absent id is a no-op.
func (c *Collection[T]) DeleteByID(ctx context.Context, id string) error {
	err := c.Update(ctx, func(items []T) ([]T, error) {
		kept := items[:0]
		for _, it := range items {
			if it.Identity() != id {
				kept = append(kept, it)
			}
		}
		if len(kept) == len(items) {
			return nil, errUnchanged
		}
		return kept, nil
	})
	if errors.Is(err, errUnchanged) {
		return nil
	}
	return err
}

func (c *Collection[T]) load(ctx context.Context) ([]T, error) {
	data, err := c.store.Get(ctx, c.key)
	if errors.Is(err, apperr.ErrNotFound) {
		if c.seed == nil {
			return []T{}, nil
		}
		items := c.seed()
		if err := c.save(ctx, items); err != nil {
			return nil, err
		}
		return items, nil
	}
	if err != nil {
		return nil, err
	}

	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("repository: decode %s: %w", c.key, err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

func (c *Collection[T]) save(ctx context.Context, items []T) error {
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("repository: encode %s: %w", c.key, err)
	}
	if err := c.store.Set(ctx, c.key, data); err != nil {
		return fmt.Errorf("repository: write %s: %w", c.key, err)
	}
	return nil
}
