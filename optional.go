package appstate

import (
	"bytes"
	"encoding/json"
)

// Optional is the explicit Present | Absent payload for persisted values.
// Setting an absent Optional on a Value removes the cache entry and the durable
// entry instead of storing it.
type Optional[T any] struct {
	Value T
	Valid bool
}

func Some[T any](v T) Optional[T] { return Optional[T]{Value: v, Valid: true} }

func None[T any]() Optional[T] { return Optional[T]{} }

func (o Optional[T]) Get() (T, bool) { return o.Value, o.Valid }

func (o Optional[T]) OrElse(def T) T {
	if o.Valid {
		return o.Value
	}
	return def
}

func (o Optional[T]) IsAbsent() bool { return !o.Valid }

func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
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

type absenter interface{ IsAbsent() bool }

func isAbsent[T any](v T) bool {
	a, ok := any(v).(absenter)
	return ok && a.IsAbsent()
}
