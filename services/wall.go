package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/yunlin/oldtown/store"
)

// loadList reads a JSON array document. A missing document is an empty list.
func loadList[T any](ctx context.Context, s store.Store, owner, key string) ([]T, error) {
	raw, err := s.Get(ctx, owner, key)
	if errors.Is(err, store.ErrNotFound) {
		return []T{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", key, err)
	}
	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("decode %s: %w", key, err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

func saveList[T any](ctx context.Context, s store.Store, owner, key string, items []T) error {
	b, err := json.Marshal(items)
	if err != nil {
		return err
	}
	if err := s.Put(ctx, owner, key, b); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// prependCapped inserts item at the head and drops everything beyond limit.
func prependCapped[T any](items []T, item T, limit int) (kept, evicted []T) {
	items = append([]T{item}, items...)
	if limit > 0 && len(items) > limit {
		return items[:limit], items[limit:]
	}
	return items, nil
}
