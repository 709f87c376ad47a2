package private

import (
	"errors"
	"slices"
	"testing"

	"github.com/davidroman0O/private/store"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// widget is the host type used across the tests.
type widget struct {
	name string
}

func newWidget(name string) *widget {
	return &widget{name: name}
}

func TestStoreString(t *testing.T) {
	s := GetInstance[widget]()
	assert.Equal(t, "Private", s.String())
	assert.Equal(t, TypeName, s.String())
}

func TestHasBeforeAndAfterAccess(t *testing.T) {
	s := New[widget]()
	w := newWidget("a")

	assert.False(t, s.Has(w, ""))

	_, err := s.Get(w, "anything")
	require.NoError(t, err)
	assert.True(t, s.Has(w, ""))

	other := newWidget("b")
	_, err = s.Set(other, "k", 1)
	require.NoError(t, err)
	assert.True(t, s.Has(other, ""))
}

func TestSetThenGet(t *testing.T) {
	s := New[widget]()
	w := newWidget("a")

	c, err := s.Set(w, "color", "blue")
	require.NoError(t, err)
	require.NotNil(t, c)

	v, err := s.Get(w, "color")
	require.NoError(t, err)
	assert.Equal(t, "blue", v)
	assert.True(t, s.Has(w, "color"))

	// Set returns the container of the reference
	same, err := s.Container(w)
	require.NoError(t, err)
	assert.Same(t, c, same)
}

func TestReferencesAreKeyedByIdentity(t *testing.T) {
	s := New[widget]()
	a := newWidget("twin")
	b := newWidget("twin")

	_, err := s.Set(a, "k", "a")
	require.NoError(t, err)

	assert.False(t, s.Has(b, ""))
	v, err := s.Get(b, "k")
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestGetWithoutDefaultDoesNotWrite(t *testing.T) {
	s := New[widget]()
	w := newWidget("a")

	v, err := s.Get(w, "missing")
	require.NoError(t, err)
	assert.Nil(t, v)

	assert.False(t, s.Has(w, "missing"))
	assert.True(t, s.Has(w, ""))
}

func TestGetWithDefaultWrites(t *testing.T) {
	s := New[widget]()
	w := newWidget("a")

	v, err := s.Get(w, "count", 10)
	require.NoError(t, err)
	assert.Equal(t, 10, v)
	assert.True(t, s.Has(w, "count"))

	// A present key ignores the default
	v, err = s.Get(w, "count", 99)
	require.NoError(t, err)
	assert.Equal(t, 10, v)
}

func TestGetWithNilDefaultStillWrites(t *testing.T) {
	s := New[widget]()
	w := newWidget("a")

	v, err := s.Get(w, "explicit", nil)
	require.NoError(t, err)
	assert.Nil(t, v)
	assert.True(t, s.Has(w, "explicit"))
}

func TestGetWithoutKeyReturnsContainer(t *testing.T) {
	s := New[widget]()
	w := newWidget("a")

	v, err := s.Get(w, "")
	require.NoError(t, err)

	c, ok := v.(store.Container)
	require.True(t, ok)
	assert.Equal(t, 0, c.Len())
	assert.True(t, s.Has(w, ""))
}

func TestGetMany(t *testing.T) {
	s := New[widget]()
	w := newWidget("a")

	values, err := s.GetMany(w, []string{"a", "b"}, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, []any{1, 2}, values)
	assert.True(t, s.Has(w, "a"))
	assert.True(t, s.Has(w, "b"))
}

func TestGetManyPairsDefaultsByIndex(t *testing.T) {
	s := New[widget]()
	w := newWidget("a")
	_, err := s.Set(w, "a", "existing")
	require.NoError(t, err)

	values, err := s.GetMany(w, []string{"a", "b", "c"}, "ignored", "dflt")
	require.NoError(t, err)
	assert.Equal(t, []any{"existing", "dflt", nil}, values)

	assert.True(t, s.Has(w, "b"))
	assert.False(t, s.Has(w, "c"))
}

func TestGetAs(t *testing.T) {
	s := New[widget]()
	w := newWidget("a")

	n, err := GetAs(s, w, "count", 5)
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	n, err = GetAs[int](s, w, "count")
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	_, err = GetAs[string](s, w, "count")
	assert.ErrorIs(t, err, store.ErrTypeMismatch)

	_, err = GetAs[int](s, w, "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = GetAs[int](s, nil, "count")
	assert.ErrorIs(t, err, ErrMissingReference)

	_, err = GetAs[int](s, w, "")
	assert.ErrorIs(t, err, ErrMissingKey)
}

func TestDeleteContainer(t *testing.T) {
	s := New[widget]()
	w := newWidget("a")

	assert.False(t, s.Delete(w, ""))

	_, err := s.Set(w, "k", 1)
	require.NoError(t, err)
	assert.Equal(t, 1, s.Len())

	assert.True(t, s.Delete(w, ""))
	assert.False(t, s.Has(w, ""))
	assert.False(t, s.Has(w, "k"))
	assert.Equal(t, 0, s.Len())

	// The reference can be used again afterwards
	_, err = s.Set(w, "k", 2)
	require.NoError(t, err)
	v, _ := s.Get(w, "k")
	assert.Equal(t, 2, v)
}

func TestDeleteKey(t *testing.T) {
	s := New[widget]()
	w := newWidget("a")

	assert.False(t, s.Delete(w, "k"))

	_, err := s.Set(w, "k", 1)
	require.NoError(t, err)
	_, err = s.Set(w, "keep", 2)
	require.NoError(t, err)

	assert.True(t, s.Delete(w, "k"))
	assert.False(t, s.Delete(w, "k"))
	assert.False(t, s.Has(w, "k"))
	assert.True(t, s.Has(w, "keep"))
	assert.True(t, s.Has(w, ""))
}

func TestClear(t *testing.T) {
	s := New[widget]()
	w := newWidget("a")

	// no container yet: no-op
	require.NoError(t, s.Clear(w))
	assert.False(t, s.Has(w, ""))

	_, err := s.Set(w, "a", 1)
	require.NoError(t, err)
	_, err = s.Set(w, "b", 2)
	require.NoError(t, err)

	require.NoError(t, s.Clear(w))

	keys, err := s.Keys(w)
	require.NoError(t, err)
	assert.Empty(t, slices.Collect(keys))
	assert.True(t, s.Has(w, ""))
}

func TestIterators(t *testing.T) {
	s := New[widget]()
	w := newWidget("a")

	for i, k := range []string{"z", "y", "x"} {
		_, err := s.Set(w, k, i)
		require.NoError(t, err)
	}

	keys, err := s.Keys(w)
	require.NoError(t, err)
	assert.Equal(t, []string{"z", "y", "x"}, slices.Collect(keys))

	values, err := s.Values(w)
	require.NoError(t, err)
	assert.Equal(t, []any{0, 1, 2}, slices.Collect(values))

	all, err := s.All(w)
	require.NoError(t, err)
	got := map[string]any{}
	for k, v := range all {
		got[k] = v
	}
	assert.Equal(t, map[string]any{"z": 0, "y": 1, "x": 2}, got)
}

func TestEntriesYieldsValues(t *testing.T) {
	s := New[widget]()
	w := newWidget("a")

	_, err := s.Set(w, "first", "one")
	require.NoError(t, err)
	_, err = s.Set(w, "second", "two")
	require.NoError(t, err)

	entries, err := s.Entries(w)
	require.NoError(t, err)
	assert.Equal(t, []any{"one", "two"}, slices.Collect(entries))
}

func TestIteratorsMaterialize(t *testing.T) {
	s := New[widget]()
	w := newWidget("a")

	keys, err := s.Keys(w)
	require.NoError(t, err)
	assert.True(t, s.Has(w, ""))

	// lazy: a key written after the call is still seen
	_, err = s.Set(w, "late", true)
	require.NoError(t, err)
	assert.Equal(t, []string{"late"}, slices.Collect(keys))
	assert.Equal(t, []string{"late"}, slices.Collect(keys))
}

func TestToObject(t *testing.T) {
	s := New[widget]()
	w := newWidget("a")

	assert.Equal(t, map[string]any{}, s.ToObject(w))
	assert.False(t, s.Has(w, ""))
	assert.Equal(t, map[string]any{}, s.ToObject(nil))

	_, err := s.Set(w, "name", "ada")
	require.NoError(t, err)
	_, err = s.Set(w, "age", 36)
	require.NoError(t, err)

	got := s.ToObject(w)
	want := map[string]any{"name": "ada", "age": 36}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ToObject mismatch (-want +got):\n%s", diff)
	}

	// snapshot: later writes do not show up
	_, err = s.Set(w, "extra", 1)
	require.NoError(t, err)
	assert.NotContains(t, got, "extra")
}

func TestWithInitialEntries(t *testing.T) {
	s := New[widget](WithInitialEntries(
		store.Entry{Key: "role", Value: "guest"},
		store.Entry{Key: "", Value: "dropped"},
	))
	w := newWidget("a")

	v, err := s.Get(w, "role")
	require.NoError(t, err)
	assert.Equal(t, "guest", v)

	// each reference gets its own seeded container
	_, err = s.Set(w, "role", "admin")
	require.NoError(t, err)
	v, err = s.Get(newWidget("b"), "role")
	require.NoError(t, err)
	assert.Equal(t, "guest", v)
}

// countingContainer records how many containers the factory built.
type countingContainer struct {
	*store.KVStore
}

func TestWithContainerFactory(t *testing.T) {
	built := 0
	s := New[widget](WithContainerFactory(func() store.Container {
		built++
		return countingContainer{store.NewKVStore()}
	}))

	w := newWidget("a")
	c, err := s.Container(w)
	require.NoError(t, err)
	assert.IsType(t, countingContainer{}, c)

	_, err = s.Get(w, "k")
	require.NoError(t, err)
	assert.Equal(t, 1, built)
}

func TestID(t *testing.T) {
	s := New[widget]()
	w := newWidget("a")

	_, ok := s.ID(w)
	assert.False(t, ok)
	assert.False(t, s.Has(w, ""))

	_, err := s.Set(w, "k", 1)
	require.NoError(t, err)
	id, ok := s.ID(w)
	assert.True(t, ok)

	again, _ := s.ID(w)
	assert.Equal(t, id, again)
}

func TestSchema(t *testing.T) {
	s := New[widget]()
	w := newWidget("a")

	_, err := s.Schema(w, "k")
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.False(t, s.Has(w, ""))

	_, err = s.Set(w, "k", "text")
	require.NoError(t, err)
	schema, err := s.Schema(w, "k")
	require.NoError(t, err)
	assert.Equal(t, "string", schema["type"])
}

func TestMissingArguments(t *testing.T) {
	s := New[widget]()
	w := newWidget("a")

	tests := []struct {
		name string
		op   string
		call func() error
		want error
	}{
		{"container", "get", func() error { _, err := s.Container(nil); return err }, ErrMissingReference},
		{"get", "get", func() error { _, err := s.Get(nil, "k"); return err }, ErrMissingReference},
		{"get many", "get", func() error { _, err := s.GetMany(nil, []string{"k"}); return err }, ErrMissingReference},
		{"set nil ref", "set", func() error { _, err := s.Set(nil, "k", 1); return err }, ErrMissingReference},
		{"set empty key", "set", func() error { _, err := s.Set(w, "", 1); return err }, ErrMissingKey},
		{"clear", "clear", func() error { return s.Clear(nil) }, ErrMissingReference},
		{"keys", "keys", func() error { _, err := s.Keys(nil); return err }, ErrMissingReference},
		{"values", "values", func() error { _, err := s.Values(nil); return err }, ErrMissingReference},
		{"entries", "entries", func() error { _, err := s.Entries(nil); return err }, ErrMissingReference},
		{"all", "all", func() error { _, err := s.All(nil); return err }, ErrMissingReference},
		{"link first", "link", func() error { return s.Link(nil, w) }, ErrMissingReference},
		{"link second", "link", func() error { return s.Link(w, nil) }, ErrMissingReference},
		{"invoke ref", "invoke", func() error { _, err := s.Invoke(nil, "m"); return err }, ErrMissingReference},
		{"invoke name", "invoke", func() error { _, err := s.Invoke(w, ""); return err }, ErrMissingMethodName},
		{"schema", "schema", func() error { _, err := s.Schema(nil, "k"); return err }, ErrMissingReference},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call()
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)

			var opErr *OpError
			require.True(t, errors.As(err, &opErr))
			assert.Equal(t, tt.op, opErr.Op)
		})
	}

	// none of the failures materialized anything
	assert.False(t, s.Has(w, ""))
}

func TestReadsToleratesNilReference(t *testing.T) {
	s := New[widget]()

	assert.False(t, s.Has(nil, ""))
	assert.False(t, s.Has(nil, "k"))
	assert.False(t, s.Delete(nil, ""))
	assert.False(t, s.Delete(nil, "k"))
	assert.False(t, s.Linked(nil, nil))
	_, ok := s.ID(nil)
	assert.False(t, ok)
}

func TestOpErrorMessage(t *testing.T) {
	err := opError("set", ErrMissingKey)
	assert.Equal(t, "private: set: a key must be supplied", err.Error())

	// wrapping twice keeps the innermost operation
	assert.Same(t, err, opError("get", err))
	assert.Nil(t, opError("get", nil))
}
