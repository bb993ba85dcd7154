// Package persist provides namespaced key/value storage for run state:
// run manifests and JSONL snapshot logs (spec.md ambient persistence).
// Backend is adapted from summarydb's window-store Backend interface,
// generalized from its (streamID, windowID) key shape to a flat
// (namespace, key) shape, since anytime inference has no windowing
// concept to key state against.
package persist

import (
	"strings"
	"sync"
)

// Backend is a namespace-scoped byte store.
type Backend interface {
	Get(namespace, key string) ([]byte, bool, error)
	Put(namespace, key string, value []byte) error
	Delete(namespace, key string) error
	Iterate(namespace string, fn func(key string, value []byte) error) error
	Close() error
}

func namespacedKey(namespace, key string) string {
	return namespace + "/" + key
}

// InMemoryBackend is a Backend for tests and single-process runs that
// don't need durability across restarts.
type InMemoryBackend struct {
	mu   sync.Mutex
	data map[string][]byte
}

// NewInMemoryBackend constructs an empty InMemoryBackend.
func NewInMemoryBackend() *InMemoryBackend {
	return &InMemoryBackend{data: make(map[string][]byte)}
}

func (b *InMemoryBackend) Get(namespace, key string) ([]byte, bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	v, ok := b.data[namespacedKey(namespace, key)]
	return v, ok, nil
}

func (b *InMemoryBackend) Put(namespace, key string, value []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.data[namespacedKey(namespace, key)] = value
	return nil
}

func (b *InMemoryBackend) Delete(namespace, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.data, namespacedKey(namespace, key))
	return nil
}

func (b *InMemoryBackend) Iterate(namespace string, fn func(key string, value []byte) error) error {
	b.mu.Lock()
	// Copy under lock, then call fn outside the lock so fn may itself
	// call back into the backend without deadlocking.
	prefix := namespace + "/"
	type kv struct {
		key   string
		value []byte
	}
	var entries []kv
	for k, v := range b.data {
		if strings.HasPrefix(k, prefix) {
			entries = append(entries, kv{strings.TrimPrefix(k, prefix), v})
		}
	}
	b.mu.Unlock()

	for _, e := range entries {
		if err := fn(e.key, e.value); err != nil {
			return err
		}
	}
	return nil
}

func (b *InMemoryBackend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.data = nil
	return nil
}
