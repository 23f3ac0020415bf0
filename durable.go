package appstate

import (
	"context"
	"fmt"

	c "github.com/0xLeif/AppState-sub000/codec"
	pr "github.com/0xLeif/AppState-sub000/provider"
)

// Durable is the typed durable tier of a Value. Load reports ok=false on a
// miss. Errors wrapping ErrEncoding are codec failures; *DurableError is an
// IO failure of the underlying store.
type Durable[T any] interface {
	Load(ctx context.Context, key string) (v T, ok bool, err error)
	Save(ctx context.Context, key string, v T) error
	Delete(ctx context.Context, key string) error
}

// persisted adapts a byte Provider and a Codec into a Durable.
type persisted[T any] struct {
	p    pr.Provider
	c    c.Codec[T]
	cost SetCostFunc
	log  Logger
}

var _ Durable[int] = (*persisted[int])(nil)

// NewDurable builds a Durable tier from a provider and codec. cost may be nil.
func NewDurable[T any](p pr.Provider, codec c.Codec[T], cost SetCostFunc) Durable[T] {
	if cost == nil {
		cost = func(string, []byte) int64 { return 1 }
	}
	return &persisted[T]{p: p, c: codec, cost: cost, log: NopLogger{}}
}

func newPersisted[T any](a *App, p pr.Provider, codec c.Codec[T]) *persisted[T] {
	return &persisted[T]{p: p, c: codec, cost: a.computeSetCost, log: a.log}
}

func (d *persisted[T]) Load(ctx context.Context, key string) (T, bool, error) {
	var zero T
	raw, ok, err := d.p.Get(ctx, key)
	if err != nil {
		return zero, false, &DurableError{Key: key, Op: "get", Err: err}
	}
	if !ok {
		return zero, false, nil
	}
	v, err := d.c.Decode(raw)
	if err != nil {
		return zero, false, fmt.Errorf("%w: decode %q: %w", ErrEncoding, key, err)
	}
	return v, true, nil
}

func (d *persisted[T]) Save(ctx context.Context, key string, v T) error {
	raw, err := d.c.Encode(v)
	if err != nil {
		return fmt.Errorf("%w: encode %q: %w", ErrEncoding, key, err)
	}
	ok, err := d.p.Set(ctx, key, raw, d.cost(key, raw))
	if err != nil {
		return &DurableError{Key: key, Op: "set", Err: err}
	}
	if !ok {
		d.log.Debug("durable set rejected by provider (pressure)", Fields{"key": key})
	}
	return nil
}

func (d *persisted[T]) Delete(ctx context.Context, key string) error {
	if err := d.p.Del(ctx, key); err != nil {
		return &DurableError{Key: key, Op: "del", Err: err}
	}
	return nil
}
