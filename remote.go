package appstate

import "context"

// ChangeFeed delivers keys changed by other processes or devices.
// Subscribe blocks until ctx is done or the feed fails.
type ChangeFeed interface {
	Subscribe(ctx context.Context, fn func(key string)) error
}

// WatchRemote evicts the cached entry for every remotely changed key so the
// next Get reloads it from the durable tier, and signals the Notifier.
// It blocks like ChangeFeed.Subscribe.
func (a *App) WatchRemote(ctx context.Context, feed ChangeFeed) error {
	return feed.Subscribe(ctx, func(key string) {
		a.store.Remove(key)
		a.log.Debug("remote change evicted cached entry", Fields{"key": key})
		a.notify(key)
	})
}
