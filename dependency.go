package appstate

import (
	"sync"
)

// Dependency is a get-or-create registry entry. The factory runs once per
// scope; afterwards the cached instance is returned until an Override
// replaces it. Dependencies have no durable tier.
type Dependency[T any] struct {
	app     *App
	scope   Scope
	factory func() T
}

func NewDependency[T any](app *App, scope Scope, factory func() T) *Dependency[T] {
	return &Dependency[T]{app: app, scope: scope, factory: factory}
}

func (d *Dependency[T]) Scope() Scope { return d.scope }

// Get returns the cached instance, creating it on first use. Concurrent first
// calls share one factory invocation. A factory that resolves its own scope
// deadlocks.
func (d *Dependency[T]) Get() T {
	key := d.scope.Key()
	if v, ok := Get[T](d.app.store, key); ok {
		return v
	}
	v, _, _ := d.app.deps.Do(key, func() (any, error) {
		if v, ok := Get[T](d.app.store, key); ok {
			return v, nil
		}
		return setIfAbsent(d.app.store, key, d.factory()), nil
	})
	out, _ := v.(T)
	return out
}

// Override replaces the cached instance with v until the returned token is
// cancelled. Overrides are single-slot: a second Override on the same scope
// captures the first override's value as its previous value.
func (d *Dependency[T]) Override(v T) *Override {
	key := d.scope.Key()
	prev := d.Get()
	d.app.store.Set(key, v)
	d.app.notify(key)
	return &Override{
		scope: d.scope,
		restore: func() {
			d.app.store.Set(key, prev)
			d.app.hooks.OverrideRestored(key)
			d.app.notify(key)
		},
	}
}

// With overrides the dependency for the duration of fn. The previous value is
// restored when fn returns or panics.
func (d *Dependency[T]) With(v T, fn func()) {
	o := d.Override(v)
	defer o.Cancel()
	fn()
}

// Override is the restore token returned by Dependency.Override.
type Override struct {
	scope   Scope
	once    sync.Once
	restore func()
}

func (o *Override) Scope() Scope { return o.scope }

// Cancel restores the value captured when the override was made. Only the
// first call has an effect.
func (o *Override) Cancel() {
	o.once.Do(o.restore)
}
