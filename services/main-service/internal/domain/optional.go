package domain

import (
	"bytes"
	"encoding/json"
)

// Optional is a partial-update field: either "leave unchanged" or "set to value".
// A JSON null or an absent key both decode to the unchanged state.
type Optional[T any] struct {
	value T
	set   bool
}

func Some[T any](v T) Optional[T] { return Optional[T]{value: v, set: true} }

func None[T any]() Optional[T] { return Optional[T]{} }

func (o Optional[T]) IsSet() bool { return o.set }

func (o Optional[T]) Get() (T, bool) { return o.value, o.set }

func (o Optional[T]) OrElse(def T) T {
	if o.set {
		return o.value
	}
	return def
}

// Apply copies the value into dst when set and reports whether it did.
func (o Optional[T]) Apply(dst *T) bool {
	if !o.set {
		return false
	}
	*dst = o.value
	return true
}

func (o *Optional[T]) UnmarshalJSON(b []byte) error {
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		*o = Optional[T]{}
		return nil
	}
	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*o = Some(v)
	return nil
}

func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.set {
		return []byte("null"), nil
	}
	return json.Marshal(o.value)
}

// MapOptional converts the carried value, keeping the unchanged state.
func MapOptional[T, U any](o Optional[T], f func(T) U) Optional[U] {
	if !o.set {
		return None[U]()
	}
	return Some(f(o.value))
}
