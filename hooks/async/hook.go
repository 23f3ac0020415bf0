// Package asynchook moves hook delivery off the caller's goroutine.
//
// usage:
//
//	raw := sloghooks.New(slog.Default(), sloghooks.Options{MissEvery: 100})
//	hooks := asynchook.New(raw, 1, 1000) // 1 worker; queue 1000 events
//	defer hooks.Close()
//
//	app := appstate.New(appstate.Options{Hooks: hooks})
package asynchook

import (
	"sync"
	"sync/atomic"

	appstate "github.com/0xLeif/AppState-sub000"
)

type Hooks struct {
	inner   appstate.Hooks
	q       chan func()
	wg      sync.WaitGroup
	once    sync.Once
	mu      sync.RWMutex
	closed  bool
	dropped atomic.Uint64
}

var _ appstate.Hooks = (*Hooks)(nil)

func New(inner appstate.Hooks, workers, qlen int) *Hooks {
	if inner == nil {
		inner = appstate.NopHooks{}
	}
	if workers <= 0 {
		workers = 1
	}
	if qlen <= 0 {
		qlen = 1024
	}

	h := &Hooks{inner: inner, q: make(chan func(), qlen)}
	h.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer h.wg.Done()
			for f := range h.q {
				call(f)
			}
		}()
	}
	return h
}

// Close delivers queued events and stops the workers. Events after Close are
// dropped.
func (h *Hooks) Close() {
	h.once.Do(func() {
		h.mu.Lock()
		h.closed = true
		close(h.q)
		h.mu.Unlock()
		h.wg.Wait()
	})
}

// Dropped counts events lost to a full queue or a closed sink.
func (h *Hooks) Dropped() uint64 { return h.dropped.Load() }

func (h *Hooks) try(f func()) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.closed {
		h.dropped.Add(1)
		return
	}
	select {
	case h.q <- f:
	default: // drop
		h.dropped.Add(1)
	}
}

// call keeps a worker alive when the inner sink panics.
func call(f func()) {
	defer func() { _ = recover() }()
	f()
}

func (h *Hooks) CacheMiss(k, src string) { h.try(func() { h.inner.CacheMiss(k, src) }) }
func (h *Hooks) EncodeFailure(k string, err error) {
	h.try(func() { h.inner.EncodeFailure(k, err) })
}
func (h *Hooks) DurableFailure(k, op string, err error) {
	h.try(func() { h.inner.DurableFailure(k, op, err) })
}
func (h *Hooks) WriteBackSkipped(k, r string) { h.try(func() { h.inner.WriteBackSkipped(k, r) }) }
func (h *Hooks) OverrideRestored(k string)    { h.try(func() { h.inner.OverrideRestored(k) }) }
