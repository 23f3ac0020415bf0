package appstate

// Hooks lightweight callbacks for high-signal events.
// Implementations MUST be cheap and non-blocking.
// The core calls them on hot paths, never while holding the Store lock.
type Hooks interface {
	// A read missed the cache and was resolved from another tier.
	// source ∈ {"durable", "default"}
	CacheMiss(key, source string)

	// A durable provider call failed.
	// op ∈ {"get", "set", "del"}
	DurableFailure(key, op string, err error)

	// A payload could not be encoded or decoded for a persisted value.
	EncodeFailure(key string, err error)

	// A deferred write-back did not land.
	// reason ∈ {"superseded", "queue_full", "closed"}
	WriteBackSkipped(key, reason string)

	// An override token restored the previous dependency value.
	OverrideRestored(key string)
}

// NopHooks is the default no-op
type NopHooks struct{}

func (NopHooks) CacheMiss(string, string)             {}
func (NopHooks) DurableFailure(string, string, error) {}
func (NopHooks) EncodeFailure(string, error)          {}
func (NopHooks) WriteBackSkipped(string, string)      {}
func (NopHooks) OverrideRestored(string)              {}

// Notifier receives one signal per completed mutation of a key. It is the
// boundary to whatever change-propagation layer the host application uses.
type Notifier interface {
	Changed(key string)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(key string)

func (f NotifierFunc) Changed(key string) { f(key) }

type nopNotifier struct{}

func (nopNotifier) Changed(string) {}
