// Package optional отличает "поле не передано" от "передано нулевое значение"
// при частичном обновлении.
package optional

import (
	"bytes"
	"encoding/json"
)

// Value хранит либо ничего, либо значение типа T.
type Value[T any] struct {
	value T
	set   bool
}

func Some[T any](v T) Value[T] {
	return Value[T]{value: v, set: true}
}

func None[T any]() Value[T] {
	return Value[T]{}
}

func (o Value[T]) IsSet() bool {
	return o.set
}

func (o Value[T]) Get() (T, bool) {
	return o.value, o.set
}

// Or возвращает значение или fallback, если значение не задано.
func (o Value[T]) Or(fallback T) T {
	if o.set {
		return o.value
	}
	return fallback
}

// UnmarshalJSON: отсутствующее поле и null оставляют значение незаданным.
func (o *Value[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*o = Value[T]{}
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*o = Some(v)
	return nil
}

func (o Value[T]) MarshalJSON() ([]byte, error) {
	if !o.set {
		return []byte("null"), nil
	}
	return json.Marshal(o.value)
}
