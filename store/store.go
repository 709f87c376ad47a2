package store

import (
	"errors"
	"iter"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

var (
	// ErrEmptyKey is returned when a write is attempted with an empty key.
	ErrEmptyKey = errors.New("key cannot be empty")
	// ErrNotFound is returned by typed reads when the key is absent.
	ErrNotFound = errors.New("key not found")
	// ErrTypeMismatch is returned by typed reads when the stored value has another type.
	ErrTypeMismatch = errors.New("type mismatch")
)

// Entry is a single key/value pair.
type Entry struct {
	Key   string
	Value any
}

// Container is the per-reference key-value structure.
//
// Implementations must keep keys unique and iterate in insertion order.
// Iterators are lazy: they read the container when ranged over, not when created.
type Container interface {
	// Get returns the value stored under key and whether it was present.
	Get(key string) (any, bool)
	// Put stores value under key.
	Put(key string, value any) error
	// Has reports whether key is present.
	Has(key string) bool
	// Delete removes key and reports whether it was present.
	Delete(key string) bool
	// Clear removes every key.
	Clear()
	// Len returns the number of keys.
	Len() int
	Keys() iter.Seq[string]
	Values() iter.Seq[any]
	All() iter.Seq2[string, any]
}

// KVStore is the default Container. It is an insertion-ordered map from
// string keys to values of any type.
type KVStore struct {
	data *orderedmap.OrderedMap[string, any]
}

// NewKVStore constructs a store pre-populated with entries, applied in order.
// A later entry overwrites an earlier one with the same key.
func NewKVStore(entries ...Entry) *KVStore {
	s := &KVStore{data: orderedmap.New[string, any]()}
	for _, e := range entries {
		if e.Key == "" {
			continue
		}
		s.data.Set(e.Key, e.Value)
	}
	return s
}

// Get returns the value stored under key.
func (s *KVStore) Get(key string) (any, bool) {
	return s.data.Get(key)
}

// Put stores any Go value under key.
func (s *KVStore) Put(key string, value any) error {
	if key == "" {
		return ErrEmptyKey
	}
	s.data.Set(key, value)
	return nil
}

// Has reports whether key is present.
func (s *KVStore) Has(key string) bool {
	_, ok := s.data.Get(key)
	return ok
}

// Delete removes a key from the store.
func (s *KVStore) Delete(key string) bool {
	_, existed := s.data.Delete(key)
	return existed
}

// Clear removes all keys from the store.
func (s *KVStore) Clear() {
	s.data = orderedmap.New[string, any]()
}

// Len returns the number of keys in the store.
func (s *KVStore) Len() int {
	return s.data.Len()
}

// Keys returns a lazy iterator over the keys, oldest first.
func (s *KVStore) Keys() iter.Seq[string] {
	return func(yield func(string) bool) {
		for k := range s.All() {
			if !yield(k) {
				return
			}
		}
	}
}

// Values returns a lazy iterator over the values, oldest first.
func (s *KVStore) Values() iter.Seq[any] {
	return func(yield func(any) bool) {
		for _, v := range s.All() {
			if !yield(v) {
				return
			}
		}
	}
}

// All returns a lazy iterator over the key/value pairs, oldest first.
// Deleting the current key while ranging is allowed.
func (s *KVStore) All() iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		for pair := s.data.Oldest(); pair != nil; {
			// the list unlinks removed pairs, so step before yielding
			next := pair.Next()
			if !yield(pair.Key, pair.Value) {
				return
			}
			pair = next
		}
	}
}

// Snapshot returns the entries of c in iteration order.
func Snapshot(c Container) []Entry {
	if c == nil {
		return nil
	}
	out := make([]Entry, 0, c.Len())
	for k, v := range c.All() {
		out = append(out, Entry{Key: k, Value: v})
	}
	return out
}

// CopyFrom copies every entry of source into dst, skipping keys dst already has.
// It returns the number of entries copied.
func CopyFrom(dst, source Container) (int, error) {
	if dst == nil || source == nil {
		return 0, errors.New("source and destination must not be nil")
	}

	copied := 0
	for k, v := range source.All() {
		if dst.Has(k) {
			continue
		}
		if err := dst.Put(k, v); err != nil {
			return copied, err
		}
		copied++
	}
	return copied, nil
}

// CopyFromWithOverwrite copies every entry of source into dst, overwriting
// keys dst already has. Values are shared, not cloned.
// Returns the number of new keys and the number of overwritten keys.
func CopyFromWithOverwrite(dst, source Container) (copied int, overwritten int, err error) {
	if dst == nil || source == nil {
		return 0, 0, errors.New("source and destination must not be nil")
	}

	for k, v := range source.All() {
		exists := dst.Has(k)
		if err := dst.Put(k, v); err != nil {
			return copied, overwritten, err
		}
		if exists {
			overwritten++
		} else {
			copied++
		}
	}
	return copied, overwritten, nil
}
