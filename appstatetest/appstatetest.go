// Package appstatetest has helpers for tests that use appstate.
package appstatetest

import (
	"context"
	"testing"

	appstate "github.com/0xLeif/AppState-sub000"
)

// New returns a synchronous App with in-memory tiers, closed on test cleanup.
// Options in opts are applied on top; Synchronous is always forced on.
func New(t testing.TB, opts ...func(*appstate.Options)) *appstate.App {
	t.Helper()
	var o appstate.Options
	for _, fn := range opts {
		fn(&o)
	}
	o.Synchronous = true
	app := appstate.New(o)
	t.Cleanup(func() {
		if err := app.Close(context.Background()); err != nil {
			t.Errorf("appstate: close: %v", err)
		}
	})
	return app
}

// Override replaces dep's value until the test ends.
func Override[T any](t testing.TB, dep *appstate.Dependency[T], v T) {
	t.Helper()
	o := dep.Override(v)
	t.Cleanup(o.Cancel)
}
