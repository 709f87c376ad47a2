package private

import (
	"fmt"
	"iter"
	"runtime"
	"weak"

	"github.com/davidroman0O/private/store"
	"github.com/google/uuid"
	"github.com/sasha-s/go-deadlock"
)

// TypeName is the name a Store reports for itself.
const TypeName = "Private"

// box is a container together with the identity used to tell linked
// references apart from merely equal ones.
type box struct {
	id   uuid.UUID
	data store.Container
}

type slot struct {
	box     *box
	cleanup runtime.Cleanup
}

// Store associates private state with values of type T by pointer identity.
//
// The store only holds weak pointers to its references. Once a reference is
// garbage collected its container is dropped. Values stored in a container
// are held strongly, so a stored value that points back to its own reference
// keeps that reference alive.
//
// T must have a non-zero size: zero-size values share one address.
type Store[T any] struct {
	mu         deadlock.Mutex
	slots      map[weak.Pointer[T]]*slot
	middleware []InvokeMiddleware[T]

	cfg     config
	metrics *metrics
}

// New constructs an empty store.
func New[T any](opts ...Option) *Store[T] {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Store[T]{
		slots:   make(map[weak.Pointer[T]]*slot),
		cfg:     cfg,
		metrics: newMetrics(cfg.registerer, cfg.name, cfg.logger),
	}
}

// GetInstance is a factory equivalent to New.
func GetInstance[T any](opts ...Option) *Store[T] {
	return New[T](opts...)
}

// String reports TypeName.
func (s *Store[T]) String() string {
	return TypeName
}

// Len returns the number of references that currently own a container.
func (s *Store[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.slots)
}

// Container returns the whole container of ref, creating an empty one if absent.
func (s *Store[T]) Container(ref *T) (store.Container, error) {
	if ref == nil {
		return nil, opError("get", ErrMissingReference)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.materialize(ref).box.data, nil
}

// Get returns the value stored under key for ref, or nil when it is absent.
//
// When a default is supplied and key is absent, the default is written into
// the container before being returned. Passing nil as the default still
// writes. Only the first default is used. An empty key returns the container
// itself, like Container.
func (s *Store[T]) Get(ref *T, key string, defaultValue ...any) (any, error) {
	if ref == nil {
		return nil, opError("get", ErrMissingReference)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	v, err := s.get(ref, key, defaultValue...)
	return v, opError("get", err)
}

// GetMany resolves each key like Get. defaults are paired with keys by index;
// keys past the end of defaults get no default.
func (s *Store[T]) GetMany(ref *T, keys []string, defaults ...any) ([]any, error) {
	if ref == nil {
		return nil, opError("get", ErrMissingReference)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]any, 0, len(keys))
	for i, key := range keys {
		var (
			v   any
			err error
		)
		if i < len(defaults) {
			v, err = s.get(ref, key, defaults[i])
		} else {
			v, err = s.get(ref, key)
		}
		if err != nil {
			return nil, opError("get", err)
		}
		out = append(out, v)
	}
	return out, nil
}

// GetAs reads key as a V. A supplied default is written when key is absent,
// as with Get. Without a default an absent key yields store.ErrNotFound.
func GetAs[V, T any](s *Store[T], ref *T, key string, defaultValue ...V) (V, error) {
	var zero V
	if ref == nil {
		return zero, opError("get", ErrMissingReference)
	}
	if key == "" {
		return zero, opError("get", ErrMissingKey)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.materialize(ref).box.data
	if len(defaultValue) > 0 && !c.Has(key) {
		if err := c.Put(key, defaultValue[0]); err != nil {
			return zero, opError("get", err)
		}
	}

	v, err := store.Get[V](c, key)
	return v, opError("get", err)
}

// Set stores value under key for ref and returns ref's container.
func (s *Store[T]) Set(ref *T, key string, value any) (store.Container, error) {
	if key == "" {
		return nil, opError("set", ErrMissingKey)
	}
	if ref == nil {
		return nil, opError("set", ErrMissingReference)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.materialize(ref).box.data
	if err := c.Put(key, value); err != nil {
		return nil, opError("set", err)
	}
	return c, nil
}

// Has reports whether ref owns a container, or with a non-empty key, whether
// that container holds key. It never creates a container.
func (s *Store[T]) Has(ref *T, key string) bool {
	if ref == nil {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sl, ok := s.lookup(ref)
	if !ok {
		return false
	}
	if key == "" {
		return true
	}
	return sl.box.data.Has(key)
}

// Delete removes key from ref's container. With an empty key the whole
// container is dropped. It reports whether anything was removed.
func (s *Store[T]) Delete(ref *T, key string) bool {
	if ref == nil {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sl, ok := s.lookup(ref)
	if !ok {
		return false
	}
	if key != "" {
		return sl.box.data.Delete(key)
	}

	sl.cleanup.Stop()
	delete(s.slots, weak.Make(ref))
	s.metrics.deleted.Inc()
	s.metrics.live.Dec()
	s.cfg.logger.Debug("store %s: dropped container %s", s.cfg.name, sl.box.id)
	return true
}

// Clear empties ref's container in place. The container itself is kept.
func (s *Store[T]) Clear(ref *T) error {
	if ref == nil {
		return opError("clear", ErrMissingReference)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if sl, ok := s.lookup(ref); ok {
		sl.box.data.Clear()
	}
	return nil
}

// Keys returns a lazy iterator over the keys of ref's container.
func (s *Store[T]) Keys(ref *T) (iter.Seq[string], error) {
	c, err := s.iterable("keys", ref)
	if err != nil {
		return nil, err
	}
	return c.Keys(), nil
}

// Values returns a lazy iterator over the values of ref's container.
func (s *Store[T]) Values(ref *T) (iter.Seq[any], error) {
	c, err := s.iterable("values", ref)
	if err != nil {
		return nil, err
	}
	return c.Values(), nil
}

// Entries returns a lazy iterator over the VALUES of ref's container.
// Use All for key/value pairs.
func (s *Store[T]) Entries(ref *T) (iter.Seq[any], error) {
	c, err := s.iterable("entries", ref)
	if err != nil {
		return nil, err
	}
	return c.Values(), nil
}

// All returns a lazy iterator over the key/value pairs of ref's container.
func (s *Store[T]) All(ref *T) (iter.Seq2[string, any], error) {
	c, err := s.iterable("all", ref)
	if err != nil {
		return nil, err
	}
	return c.All(), nil
}

// iterable resolves the container an iterator ranges over. Iteration itself
// happens outside the store lock.
func (s *Store[T]) iterable(op string, ref *T) (store.Container, error) {
	if ref == nil {
		return nil, opError(op, ErrMissingReference)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.materialize(ref).box.data, nil
}

// ToObject returns a snapshot of ref's key/value pairs. A reference without a
// container yields an empty map and stays without one.
func (s *Store[T]) ToObject(ref *T) map[string]any {
	out := map[string]any{}
	if ref == nil {
		return out
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sl, ok := s.lookup(ref)
	if !ok {
		return out
	}
	for k, v := range sl.box.data.All() {
		out[k] = v
	}
	return out
}

// Link makes a and b share one container from now on. The shared container
// starts with a's entries followed by b's, so b wins on key collisions.
// Linking cannot be undone.
func (s *Store[T]) Link(a, b *T) error {
	if a == nil || b == nil {
		return opError("link", ErrMissingReference)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sa := s.materialize(a)
	sb := s.materialize(b)

	shared := s.emptyBox()
	for _, src := range []store.Container{sa.box.data, sb.box.data} {
		if _, _, err := store.CopyFromWithOverwrite(shared.data, src); err != nil {
			return opError("link", err)
		}
	}

	s.cfg.logger.Debug("store %s: linked %s and %s into %s", s.cfg.name, sa.box.id, sb.box.id, shared.id)
	sa.box = shared
	sb.box = shared
	s.metrics.links.Inc()
	return nil
}

// Linked reports whether a and b resolve to the same container.
func (s *Store[T]) Linked(a, b *T) bool {
	if a == nil || b == nil {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sa, ok := s.lookup(a)
	if !ok {
		return false
	}
	sb, ok := s.lookup(b)
	if !ok {
		return false
	}
	return sa.box == sb.box
}

// ID returns the identity of the container ref resolves to, without creating one.
func (s *Store[T]) ID(ref *T) (uuid.UUID, bool) {
	if ref == nil {
		return uuid.Nil, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sl, ok := s.lookup(ref)
	if !ok {
		return uuid.Nil, false
	}
	return sl.box.id, true
}

// Schema describes the Go type of the value stored under key for ref as a
// JSON Schema. It never creates a container.
func (s *Store[T]) Schema(ref *T, key string) (map[string]any, error) {
	if ref == nil {
		return nil, opError("schema", ErrMissingReference)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sl, ok := s.lookup(ref)
	if !ok {
		return nil, opError("schema", store.ErrNotFound)
	}
	schema, err := store.Schema(sl.box.data, key)
	return schema, opError("schema", err)
}

// get implements Get. The caller holds s.mu.
func (s *Store[T]) get(ref *T, key string, defaultValue ...any) (any, error) {
	c := s.materialize(ref).box.data
	if key == "" {
		return c, nil
	}

	v, ok := c.Get(key)
	if !ok && len(defaultValue) > 0 {
		if err := c.Put(key, defaultValue[0]); err != nil {
			return nil, err
		}
		return defaultValue[0], nil
	}
	return v, nil
}

// lookup finds ref's slot without creating it. The caller holds s.mu.
func (s *Store[T]) lookup(ref *T) (*slot, bool) {
	sl, ok := s.slots[weak.Make(ref)]
	return sl, ok
}

// materialize returns ref's slot, creating it and arming the reclaim cleanup
// on first access. The caller holds s.mu.
func (s *Store[T]) materialize(ref *T) *slot {
	wp := weak.Make(ref)
	if sl, ok := s.slots[wp]; ok {
		return sl
	}

	sl := &slot{box: s.newBox()}
	sl.cleanup = runtime.AddCleanup(ref, s.reclaim, wp)
	s.slots[wp] = sl

	s.metrics.materialized.Inc()
	s.metrics.live.Inc()
	s.cfg.logger.Debug("store %s: materialized container %s for %s", s.cfg.name, sl.box.id, describe(ref))
	return sl
}

// newBox builds a container seeded with the initial entries.
func (s *Store[T]) newBox() *box {
	b := s.emptyBox()
	for _, e := range s.cfg.initial {
		if err := b.data.Put(e.Key, e.Value); err != nil {
			s.cfg.logger.Warn("store %s: seeding %q failed: %v", s.cfg.name, e.Key, err)
		}
	}
	return b
}

// emptyBox builds an unseeded container.
func (s *Store[T]) emptyBox() *box {
	return &box{id: uuid.New(), data: s.cfg.factory()}
}

// reclaim runs on the runtime cleanup goroutine once a reference is unreachable.
func (s *Store[T]) reclaim(wp weak.Pointer[T]) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sl, ok := s.slots[wp]
	if !ok {
		return
	}
	delete(s.slots, wp)
	s.metrics.reclaimed.Inc()
	s.metrics.live.Dec()
	s.cfg.logger.Debug("store %s: reclaimed container %s", s.cfg.name, sl.box.id)
}

func describe[T any](ref *T) string {
	return fmt.Sprintf("%T(%p)", ref, ref)
}
