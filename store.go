package appstate

import (
	"context"
	"fmt"
	"iter"
	"sort"
	"strings"
	"sync"

	gen "github.com/0xLeif/AppState-sub000/genstore"
)

// Store is the type-erased key -> value map every flavor reads through.
//
// One non-reentrant mutex serializes Load/Set/Remove. Nothing the Store calls
// while holding it may call back into the Store: no hooks, no notifier, no
// logger, no user code.
type Store struct {
	mu      sync.Mutex
	entries map[string]any
	gens    gen.GenStore
}

// NewStore returns an empty Store with in-process generations.
func NewStore() *Store {
	return newStore(gen.NewLocalGenStore(0, 0))
}

func newStore(gens gen.GenStore) *Store {
	return &Store{entries: make(map[string]any), gens: gens}
}

// Get returns the value at key if it is present and its dynamic type is T.
// A type mismatch is reported as absent.
func Get[T any](s *Store, key string) (T, bool) {
	raw, ok := s.Load(key)
	if !ok {
		var zero T
		return zero, false
	}
	v, ok := raw.(T)
	return v, ok
}

// Load returns the raw value stored at key.
func (s *Store) Load(key string) (any, bool) {
	s.mu.Lock()
	v, ok := s.entries[key]
	s.mu.Unlock()
	return v, ok
}

// Set unconditionally overwrites the entry at key.
func (s *Store) Set(key string, v any) {
	s.mu.Lock()
	s.entries[key] = v
	s.bump(key)
	s.mu.Unlock()
}

// Remove deletes the entry at key. Removing an absent key leaves the map
// untouched but still advances its generation, so a pending write-back
// resolved before the removal cannot resurrect it.
func (s *Store) Remove(key string) {
	s.mu.Lock()
	delete(s.entries, key)
	s.bump(key)
	s.mu.Unlock()
}

// Generation returns how many times key has been written or removed.
func (s *Store) Generation(key string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot(key)
}

// lookup reads the entry and its generation under one lock acquisition.
func lookup[T any](s *Store, key string) (T, bool, uint64) {
	s.mu.Lock()
	raw, ok := s.entries[key]
	g := s.snapshot(key)
	s.mu.Unlock()
	if !ok {
		var zero T
		return zero, false, g
	}
	v, ok := raw.(T)
	return v, ok, g
}

// commit stores v at key iff the key's generation still equals observed and
// no value of any type occupies it. Used by deferred write-back.
func (s *Store) commit(key string, v any, observed uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snapshot(key) != observed {
		return false
	}
	if _, taken := s.entries[key]; taken {
		return false
	}
	s.entries[key] = v
	s.bump(key)
	return true
}

// setIfAbsent stores v unless key already holds a T, returning the winner.
func setIfAbsent[T any](s *Store, key string, v T) T {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cur, ok := s.entries[key].(T); ok {
		return cur
	}
	s.entries[key] = v
	s.bump(key)
	return v
}

// Len returns the number of live entries.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Clear drops every entry. Generations of the dropped keys are advanced.
func (s *Store) Clear() {
	s.mu.Lock()
	for k := range s.entries {
		delete(s.entries, k)
		s.bump(k)
	}
	s.mu.Unlock()
}

// Entries returns a key-sorted snapshot of (key, description) pairs taken at
// call time. The sequence can be ranged over once; later ranges yield nothing.
func (s *Store) Entries() iter.Seq2[string, string] {
	s.mu.Lock()
	keys := make([]string, 0, len(s.entries))
	vals := make(map[string]any, len(s.entries))
	for k, v := range s.entries {
		keys = append(keys, k)
		vals[k] = v
	}
	s.mu.Unlock()
	sort.Strings(keys)

	var used bool
	return func(yield func(string, string) bool) {
		if used {
			return
		}
		used = true
		for _, k := range keys {
			// formatted after unlock: String methods may read the Store
			if !yield(k, describe(vals[k])) {
				return
			}
		}
	}
}

// Dump renders every live entry as "key: description" lines sorted by key.
func (s *Store) Dump() string {
	var b strings.Builder
	for k, d := range s.Entries() {
		b.WriteString(k)
		b.WriteString(": ")
		b.WriteString(d)
		b.WriteByte('\n')
	}
	return b.String()
}

// Close releases the generation store.
func (s *Store) Close(ctx context.Context) error {
	return s.gens.Close(ctx)
}

func describe(v any) string {
	return fmt.Sprintf("%T(%v)", v, v)
}

// bump and snapshot must be called with s.mu held.
func (s *Store) bump(key string) {
	_, _ = s.gens.Bump(context.Background(), key)
}

func (s *Store) snapshot(key string) uint64 {
	g, _ := s.gens.Snapshot(context.Background(), key)
	return g
}
