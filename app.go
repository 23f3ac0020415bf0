package appstate

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	gen "github.com/0xLeif/AppState-sub000/genstore"
	pr "github.com/0xLeif/AppState-sub000/provider"
	"github.com/0xLeif/AppState-sub000/provider/memory"
)

const (
	defaultDurableTimeout = 5 * time.Second
	defaultGenRetention   = 30 * 24 * time.Hour
)

// App is the process-wide context object: it owns the Store, the Executor and
// the durable tiers. Construct one with New and pass it to every state and
// dependency constructor.
type App struct {
	store    *Store
	exec     *Executor
	log      Logger
	hooks    Hooks
	notifier Notifier

	preferences pr.Provider
	cloud       pr.Provider
	files       pr.Provider
	secure      pr.Provider

	synchronous    bool
	durableTimeout time.Duration
	computeSetCost SetCostFunc

	deps      singleflight.Group
	closeOnce sync.Once
	closeErr  error
}

func New(opts Options) *App {
	a := &App{
		log:         guardedLogger{l: coalesce[Logger](opts.Logger, NopLogger{})},
		hooks:       coalesce[Hooks](opts.Hooks, NopHooks{}),
		notifier:    coalesce[Notifier](opts.Notifier, nopNotifier{}),
		synchronous: opts.Synchronous,
	}
	a.durableTimeout = coalesce[time.Duration](opts.DurableTimeout, defaultDurableTimeout)
	if opts.ComputeSetCost != nil {
		a.computeSetCost = opts.ComputeSetCost
	} else {
		a.computeSetCost = func(string, []byte) int64 { return 1 }
	}

	retention := time.Duration(0)
	if opts.CleanupInterval > 0 {
		retention = coalesce[time.Duration](opts.GenRetention, defaultGenRetention)
	}
	a.store = newStore(gen.NewLocalGenStore(opts.CleanupInterval, retention))
	a.exec = NewExecutor(opts.QueueSize, a.log)

	a.preferences = a.tier("preferences", opts.Preferences)
	a.cloud = a.tier("cloud", opts.Cloud)
	a.files = a.tier("files", opts.Files)
	a.secure = a.tier("secure", opts.Secure)
	return a
}

func (a *App) tier(name string, p pr.Provider) pr.Provider {
	if p != nil {
		return p
	}
	a.log.Debug("durable tier not configured; using in-memory provider", Fields{"tier": name})
	return memory.New()
}

// Store exposes the underlying cache, for diagnostics and tests.
func (a *App) Store() *Store { return a.store }

// Executor returns the serialized owner context.
func (a *App) Executor() *Executor { return a.exec }

func (a *App) Logger() Logger { return a.log }

// Describe returns the key-sorted diagnostics dump of all live entries.
func (a *App) Describe() string { return a.store.Dump() }

// Flush waits for pending write-backs.
func (a *App) Flush() { a.exec.Flush() }

// Close drains the Executor, then closes the generation store and every
// durable provider. Safe to call multiple times.
func (a *App) Close(ctx context.Context) error {
	a.closeOnce.Do(func() {
		a.exec.Close()
		errs := []error{a.store.Close(ctx)}
		for _, p := range []pr.Provider{a.preferences, a.cloud, a.files, a.secure} {
			errs = append(errs, p.Close(ctx))
		}
		a.closeErr = errors.Join(errs...)
	})
	return a.closeErr
}

func (a *App) notify(key string) {
	defer swallow()
	a.notifier.Changed(key)
}

func (a *App) durableCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), a.durableTimeout)
}

// writeBack commits a miss result unless the key was written or removed after
// gen was observed.
func (a *App) writeBack(key string, v any, observed uint64) {
	commit := func() {
		if a.store.commit(key, v, observed) {
			a.notify(key)
			return
		}
		a.hooks.WriteBackSkipped(key, "superseded")
	}
	if a.synchronous {
		commit()
		return
	}
	if !a.exec.Post(commit) {
		reason := "queue_full"
		if a.exec.Closed() {
			reason = "closed"
		}
		a.hooks.WriteBackSkipped(key, reason)
		a.log.Debug("write-back dropped", Fields{"key": key, "reason": reason})
	}
}
