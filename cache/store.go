// Package cache keeps provider results around so repeated queries skip the network.
package cache

import (
	"sync"
	"time"

	"github.com/metafates/gache"
	"github.com/samber/mo"
	"github.com/tansaku/tansaku/filesystem"
)

type storeData[K comparable, T any] struct {
	Entries map[K]T `json:"entries"`
}

// Store is a keyed map persisted as a single gache file.
type Store[K comparable, T any] struct {
	internal   *gache.Cache[*storeData[K, T]]
	keyWrapper func(K) K
	mu         sync.RWMutex
}

// NewStore opens the store at path. A zero lifetime never expires the file.
// keyWrapper normalizes keys before lookup and may be nil.
func NewStore[K comparable, T any](path string, lifetime time.Duration, keyWrapper func(K) K) *Store[K, T] {
	if keyWrapper == nil {
		keyWrapper = func(k K) K { return k }
	}

	return &Store[K, T]{
		internal: gache.New[*storeData[K, T]](&gache.Options{
			Path:       path,
			Lifetime:   lifetime,
			FileSystem: &filesystem.GacheFs{},
		}),
		keyWrapper: keyWrapper,
	}
}

// Get retrieves the value associated with key.
func (s *Store[K, T]) Get(key K) mo.Option[T] {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, expired, err := s.internal.Get()
	if err != nil || expired || data == nil {
		return mo.None[T]()
	}

	value, ok := data.Entries[s.keyWrapper(key)]
	if ok {
		return mo.Some(value)
	}

	return mo.None[T]()
}

// Set persists a key-value pair.
func (s *Store[K, T]) Set(key K, value T) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, expired, err := s.internal.Get()
	if err != nil {
		return err
	}

	if expired || data == nil || data.Entries == nil {
		data = &storeData[K, T]{Entries: make(map[K]T)}
	}

	data.Entries[s.keyWrapper(key)] = value
	return s.internal.Set(data)
}

// Delete removes the entry associated with key.
func (s *Store[K, T]) Delete(key K) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, expired, err := s.internal.Get()
	if err != nil {
		return err
	}

	if expired || data == nil {
		return nil
	}

	delete(data.Entries, s.keyWrapper(key))
	return s.internal.Set(data)
}
