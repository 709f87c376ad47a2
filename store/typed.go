package store

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/invopop/jsonschema"
)

// Get retrieves the value stored under key as a T.
//
// A nil value satisfies any T whose zero value is nil (interfaces, pointers,
// maps, slices, funcs and channels).
func Get[T any](c Container, key string) (T, error) {
	var zero T
	if key == "" {
		return zero, ErrEmptyKey
	}

	v, ok := c.Get(key)
	if !ok {
		return zero, ErrNotFound
	}

	want := reflect.TypeFor[T]()
	if v == nil {
		if nilable(want.Kind()) {
			return zero, nil
		}
		return zero, fmt.Errorf("%w: wanted %v, got nil", ErrTypeMismatch, want)
	}

	result, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("%w: wanted %v (kind: %v), got %T", ErrTypeMismatch, want, want.Kind(), v)
	}
	return result, nil
}

// GetOrDefault retrieves a value of type T for the given key, returning
// defaultValue when the key is absent. Type mismatches are still reported.
func GetOrDefault[T any](c Container, key string, defaultValue T) (T, error) {
	value, err := Get[T](c, key)
	if err == ErrNotFound {
		return defaultValue, nil
	}
	return value, err
}

func nilable(kind reflect.Kind) bool {
	switch kind {
	case reflect.Interface, reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return true
	default:
		return false
	}
}

// Schema returns a JSON Schema describing the type of the value stored under key.
func Schema(c Container, key string) (map[string]any, error) {
	if key == "" {
		return nil, ErrEmptyKey
	}
	v, ok := c.Get(key)
	if !ok {
		return nil, ErrNotFound
	}
	if v == nil {
		return map[string]any{"type": "null"}, nil
	}
	return TypeToSchema(reflect.TypeOf(v)), nil
}

// TypeToSchema converts a reflect.Type to a JSON schema.
// Pointer types are described by the type they point to.
func TypeToSchema(t reflect.Type) map[string]any {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Func, reflect.Chan, reflect.UnsafePointer:
		// not representable in JSON
		return map[string]any{"type": "object", "description": t.String()}
	}

	named := t.Kind() == reflect.Struct && t.Name() != ""
	reflector := jsonschema.Reflector{
		ExpandedStruct:            named,
		DoNotReference:            true,
		AllowAdditionalProperties: false,
	}
	schema := reflector.Reflect(reflect.New(t).Interface())

	data, err := json.Marshal(schema)
	if err != nil {
		return map[string]any{"type": "object", "properties": map[string]any{}}
	}

	var schemaMap map[string]any
	if err := json.Unmarshal(data, &schemaMap); err != nil {
		return map[string]any{"type": "object", "properties": map[string]any{}}
	}

	if _, exists := schemaMap["type"]; !exists {
		schemaMap["type"] = "object"
	}
	if t.Kind() == reflect.Struct {
		if _, exists := schemaMap["properties"]; !exists {
			schemaMap["properties"] = map[string]any{}
		}
	}
	return schemaMap
}
