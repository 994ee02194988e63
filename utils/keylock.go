package utils

import (
	"hash/fnv"
	"sync"
)

// KeyedMutex serializes work per key using a fixed set of striped mutexes.
// Two keys may share a stripe; that only costs throughput.
type KeyedMutex struct {
	stripes []sync.Mutex
}

// NewKeyedMutex returns a KeyedMutex with n stripes (minimum 1).
func NewKeyedMutex(n int) *KeyedMutex {
	if n < 1 {
		n = 1
	}
	return &KeyedMutex{stripes: make([]sync.Mutex, n)}
}

// Lock acquires the stripe for key and returns its unlock function.
func (k *KeyedMutex) Lock(key string) func() {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	m := &k.stripes[h.Sum32()%uint32(len(k.stripes))]
	m.Lock()
	return m.Unlock
}
