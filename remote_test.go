package appstate

import (
	"context"
	"testing"

	c "github.com/0xLeif/AppState-sub000/codec"
	"github.com/0xLeif/AppState-sub000/provider/memory"
)

type chanFeed chan string

func (f chanFeed) Subscribe(ctx context.Context, fn func(string)) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case k, ok := <-f:
			if !ok {
				return nil
			}
			fn(k)
		}
	}
}

func TestWatchRemoteReloadsFromDurable(t *testing.T) {
	cloud := memory.New()
	var changed []string
	app := newTestApp(t, func(o *Options) {
		o.Cloud = cloud
		o.Notifier = NotifierFunc(func(k string) { changed = append(changed, k) })
	})
	v := NewSyncState(app, NewScope("Sync", "theme"), func() string { return "light" })
	v.Set("dark")

	// another device writes through the shared store
	raw, _ := c.JSON[string]{}.Encode("solarized")
	_, _ = cloud.Set(context.Background(), v.Key(), raw, 1)
	if got := v.Get(); got != "dark" {
		t.Fatalf("cached value should win before eviction, got %q", got)
	}

	feed := make(chanFeed, 1)
	feed <- v.Key()
	close(feed)
	if err := app.WatchRemote(context.Background(), feed); err != nil {
		t.Fatal(err)
	}

	if got := v.Get(); got != "solarized" {
		t.Fatalf("Get after remote change=%q", got)
	}
	if n := len(changed); n < 2 || changed[n-1] != v.Key() {
		t.Fatalf("notifier not signalled: %v", changed)
	}
}
