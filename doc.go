// Package private attaches private state and methods to Go values without
// storing them on the values themselves.
//
// A Store maps a reference (a *T) to a container of key/value pairs. The
// association is keyed by pointer identity and held weakly: the store never
// keeps a reference alive, and the container is dropped once the reference
// has been garbage collected.
//
// Core operations include:
//   - Get, GetMany and GetAs: reads with optional write-on-absent defaults
//   - Set, Has, Delete and Clear: per-key and per-reference mutation
//   - Keys, Values, Entries and All: lazy iterators over a container
//   - ToObject: a plain map snapshot
//   - Link: make two references share one container
//   - Invoke: call a stored Method with the reference as its receiver
//
// Containers are created on first access. Their implementation is pluggable
// through WithContainerFactory; the default is store.KVStore, which iterates
// in insertion order.
package private
