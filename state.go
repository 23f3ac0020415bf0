package appstate

import (
	c "github.com/0xLeif/AppState-sub000/codec"
	pr "github.com/0xLeif/AppState-sub000/provider"
)

// ValueOption configures a persisted Value.
type ValueOption[T any] func(*valueConfig[T])

type valueConfig[T any] struct {
	codec   c.Codec[T]
	durable Durable[T]
}

// WithCodec replaces the default JSON codec.
func WithCodec[T any](codec c.Codec[T]) ValueOption[T] {
	return func(cfg *valueConfig[T]) { cfg.codec = codec }
}

// WithDurable replaces the App's provider for this value entirely.
func WithDurable[T any](d Durable[T]) ValueOption[T] {
	return func(cfg *valueConfig[T]) { cfg.durable = d }
}

// NewState is in-memory state: cache, then default.
func NewState[T any](app *App, scope Scope, def func() T) *Value[T] {
	return newValue(app, scope, def, nil)
}

// NewStoredState is backed by the App's preference store.
func NewStoredState[T any](app *App, scope Scope, def func() T, opts ...ValueOption[T]) *Value[T] {
	return newValue(app, scope, def, durableFor(app, app.preferences, opts))
}

// NewSyncState is backed by the App's cloud key-value store. Propagation to
// other devices is the store's business and eventually consistent; see
// App.WatchRemote for applying remote changes.
func NewSyncState[T any](app *App, scope Scope, def func() T, opts ...ValueOption[T]) *Value[T] {
	return newValue(app, scope, def, durableFor(app, app.cloud, opts))
}

// NewFileState is backed by the App's file store: directory = scope name,
// file = scope id.
func NewFileState[T any](app *App, scope Scope, def func() T, opts ...ValueOption[T]) *Value[T] {
	return newValue(app, scope, def, durableFor(app, app.files, opts))
}

// NewSecureState is backed by the App's secure credential store, which only
// holds strings. Set None to delete the credential.
func NewSecureState(app *App, scope Scope) *Value[Optional[string]] {
	d := newPersisted[Optional[string]](app, app.secure, secretCodec{})
	return newValue[Optional[string]](app, scope, None[string], d)
}

func durableFor[T any](app *App, p pr.Provider, opts []ValueOption[T]) Durable[T] {
	cfg := valueConfig[T]{codec: c.JSON[T]{}}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.durable != nil {
		return cfg.durable
	}
	return newPersisted(app, p, cfg.codec)
}

// secretCodec stores the bare string. Absent values never reach it.
type secretCodec struct{}

func (secretCodec) Encode(o Optional[string]) ([]byte, error) { return []byte(o.Value), nil }
func (secretCodec) Decode(b []byte) (Optional[string], error) { return Some(string(b)), nil }
