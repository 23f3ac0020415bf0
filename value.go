package appstate

import (
	"errors"
)

// Value is the tiered cache -> durable -> default accessor every state flavor
// wraps. Durable is nil for in-memory state.
type Value[T any] struct {
	app     *App
	scope   Scope
	def     func() T
	durable Durable[T]
}

// Accessor is anything with a readable and writable whole value. Value and
// Slice implement it, so slices can be stacked.
type Accessor[T any] interface {
	Getter[T]
	Set(T)
}

// Getter is anything with a readable value. Dependency implements it too.
type Getter[T any] interface {
	Get() T
}

var (
	_ Accessor[int] = (*Value[int])(nil)
	_ Getter[int]   = (*Dependency[int])(nil)
)

func newValue[T any](app *App, scope Scope, def func() T, durable Durable[T]) *Value[T] {
	if def == nil {
		def = func() T {
			var zero T
			return zero
		}
	}
	return &Value[T]{app: app, scope: scope, def: def, durable: durable}
}

func (v *Value[T]) Scope() Scope { return v.scope }

func (v *Value[T]) Key() string { return v.scope.Key() }

// Get returns the cached value, or resolves it from the durable tier or the
// default and schedules the write-back. Absent Optionals are never cached.
func (v *Value[T]) Get() T {
	key := v.scope.Key()
	cur, ok, observed := lookup[T](v.app.store, key)
	if ok {
		return cur
	}

	out, source := v.resolve(key)
	v.app.hooks.CacheMiss(key, source)
	if isAbsent(out) {
		// absent is "no entry"; caching it would make the key look present
		return out
	}
	v.app.writeBack(key, out, observed)
	return out
}

func (v *Value[T]) resolve(key string) (T, string) {
	if v.durable == nil {
		return v.def(), "default"
	}
	ctx, cancel := v.app.durableCtx()
	defer cancel()

	got, ok, err := v.durable.Load(ctx, key)
	if err != nil {
		v.failed(key, "get", err)
		return v.def(), "default"
	}
	if !ok {
		return v.def(), "default"
	}
	return got, "durable"
}

// Set writes x to the cache and then to the durable tier. An absent Optional
// removes both entries instead. Durable failures are logged; the cached value
// stays authoritative.
func (v *Value[T]) Set(x T) {
	if isAbsent(x) {
		v.Remove()
		return
	}
	key := v.scope.Key()
	v.app.store.Set(key, x)
	if v.durable != nil {
		ctx, cancel := v.app.durableCtx()
		if err := v.durable.Save(ctx, key, x); err != nil {
			v.failed(key, "set", err)
		}
		cancel()
	}
	v.app.notify(key)
}

// Remove deletes the cache entry and the durable entry. The next Get resolves
// the default.
func (v *Value[T]) Remove() {
	key := v.scope.Key()
	v.app.store.Remove(key)
	if v.durable != nil {
		ctx, cancel := v.app.durableCtx()
		if err := v.durable.Delete(ctx, key); err != nil {
			v.failed(key, "del", err)
		}
		cancel()
	}
	v.app.notify(key)
}

// Reset re-applies the default through Set.
func (v *Value[T]) Reset() { v.Set(v.def()) }

// Update applies fn to the current value and stores the result. The read and
// the write are separate Store operations; run Update inside
// App.Executor().Do when concurrent updates must not be lost.
func (v *Value[T]) Update(fn func(T) T) T {
	next := fn(v.Get())
	v.Set(next)
	return next
}

func (v *Value[T]) failed(key, op string, err error) {
	f := Fields{"key": key, "scope": v.scope.Name, "op": op, "err": err}
	if errors.Is(err, ErrEncoding) {
		v.app.hooks.EncodeFailure(key, err)
		v.app.log.Error("encoding failed; durable tier skipped", f)
		return
	}
	v.app.hooks.DurableFailure(key, op, err)
	v.app.log.Error("durable store failed; keeping in-memory value", f)
}
