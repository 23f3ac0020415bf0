package appstate

import (
	"time"

	pr "github.com/0xLeif/AppState-sub000/provider"
)

// SetCostFunc computes the cost passed to Provider.Set for an encoded payload.
type SetCostFunc func(key string, raw []byte) int64

// Options tune the App. The zero value is usable: every durable tier falls
// back to an in-memory provider, write-back is deferred to the Executor, and
// logging is disabled.
type Options struct {
	Logger   Logger   // if nil, NopLogger is used
	Hooks    Hooks    // if nil, NopHooks is used
	Notifier Notifier // if nil, changes are not signalled

	// Durable tiers. nil => in-memory provider (nothing survives the process).
	Preferences pr.Provider
	Cloud       pr.Provider
	Files       pr.Provider
	Secure      pr.Provider

	// Synchronous commits miss write-backs on the calling goroutine instead of
	// posting them to the Executor. Only for single-goroutine callers that never
	// read from inside a Notifier, such as tests.
	Synchronous bool

	QueueSize       int           // Executor queue; 0 => 1024
	DurableTimeout  time.Duration // per provider call; 0 => 5s
	ComputeSetCost  SetCostFunc   // default 1
	CleanupInterval time.Duration // generation pruning; 0 => disabled
	GenRetention    time.Duration // 0 => 30d when CleanupInterval is set
}
