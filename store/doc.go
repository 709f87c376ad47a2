// Package store provides the ordered key-value containers that hold the
// private state of a single reference.
//
// A Container maps string keys to arbitrary Go values. Keys are unique and
// iteration follows insertion order: overwriting a key keeps its original
// position, deleting and re-adding it moves it to the end.
//
// Core features include:
//   - KVStore, the default Container backed by an ordered map
//   - Lazy iterators over keys, values and key/value pairs
//   - Type-safe reads using generics (Get, GetOrDefault)
//   - Merging of containers with first-wins or last-wins collision handling
//   - JSON Schema descriptions of stored value types
//
// Containers are not safe for concurrent use. The owning private.Store
// serializes access to the identity map, not to the containers it hands out.
package store
