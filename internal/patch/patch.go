// Package patch models the fields of a partial-update payload, telling apart
// a field that was omitted, one that was sent as null and one carrying a value.
package patch

import (
	"bytes"
	"encoding/json"
)

// Field is a JSON-decodable optional value.
type Field[T any] struct {
	Set   bool
	Null  bool
	Value T
}

// Of returns a field holding v.
func Of[T any](v T) Field[T] {
	return Field[T]{Set: true, Value: v}
}

// Null returns a field explicitly cleared by the caller.
func Null[T any]() Field[T] {
	return Field[T]{Set: true, Null: true}
}

// UnmarshalJSON only runs for keys present in the payload, which is what marks the field as set.
func (f *Field[T]) UnmarshalJSON(data []byte) error {
	f.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		f.Null = true
		var zero T
		f.Value = zero
		return nil
	}
	f.Null = false
	return json.Unmarshal(data, &f.Value)
}

// HasValue reports whether the field was sent with a non-null value.
func (f Field[T]) HasValue() bool {
	return f.Set && !f.Null
}

// Apply writes the field into a non-nullable destination. Null is ignored.
func (f Field[T]) Apply(dst *T) {
	if f.HasValue() {
		*dst = f.Value
	}
}

// ApplyPtr writes the field into a nullable destination; null clears it.
func (f Field[T]) ApplyPtr(dst **T) {
	if !f.Set {
		return
	}
	if f.Null {
		*dst = nil
		return
	}
	v := f.Value
	*dst = &v
}
