package store

import (
	"context"
	"sync"
)

// Change describes a completed write. Body is nil for deletes.
type Change struct {
	Owner string
	Key   string
	Body  []byte
}

// Observed wraps a Store and notifies subscribers after every successful Put or Delete.
type Observed struct {
	Store

	mu   sync.RWMutex
	next int
	subs map[int]func(Change)
}

func NewObserved(s Store) *Observed {
	return &Observed{Store: s, subs: make(map[int]func(Change))}
}

// Subscribe registers fn and returns a function that removes it.
// Callbacks run synchronously on the writer's goroutine and must not block.
func (o *Observed) Subscribe(fn func(Change)) func() {
	o.mu.Lock()
	id := o.next
	o.next++
	o.subs[id] = fn
	o.mu.Unlock()
	return func() {
		o.mu.Lock()
		delete(o.subs, id)
		o.mu.Unlock()
	}
}

func (o *Observed) Put(ctx context.Context, owner, key string, body []byte) error {
	if err := o.Store.Put(ctx, owner, key, body); err != nil {
		return err
	}
	o.notify(Change{Owner: owner, Key: key, Body: body})
	return nil
}

func (o *Observed) Delete(ctx context.Context, owner, key string) error {
	if err := o.Store.Delete(ctx, owner, key); err != nil {
		return err
	}
	o.notify(Change{Owner: owner, Key: key})
	return nil
}

func (o *Observed) notify(c Change) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	for _, fn := range o.subs {
		fn(c)
	}
}
