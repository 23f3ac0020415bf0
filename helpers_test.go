package appstate

import (
	"context"
	"errors"
	"sync"
	"testing"

	pr "github.com/0xLeif/AppState-sub000/provider"
	"github.com/0xLeif/AppState-sub000/provider/memory"
)

func newTestApp(t *testing.T, optsOpt func(*Options)) *App {
	t.Helper()
	opts := Options{Synchronous: true}
	if optsOpt != nil {
		optsOpt(&opts)
	}
	app := New(opts)
	t.Cleanup(func() { _ = app.Close(context.Background()) })
	return app
}

type logEntry struct {
	level string
	msg   string
	f     Fields
}

type recLogger struct {
	mu      sync.Mutex
	entries []logEntry
}

func (l *recLogger) add(level, msg string, f Fields) {
	l.mu.Lock()
	l.entries = append(l.entries, logEntry{level, msg, f})
	l.mu.Unlock()
}

func (l *recLogger) Debug(msg string, f Fields) { l.add("debug", msg, f) }
func (l *recLogger) Info(msg string, f Fields)  { l.add("info", msg, f) }
func (l *recLogger) Warn(msg string, f Fields)  { l.add("warn", msg, f) }
func (l *recLogger) Error(msg string, f Fields) { l.add("error", msg, f) }

func (l *recLogger) errors() []logEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []logEntry
	for _, e := range l.entries {
		if e.level == "error" {
			out = append(out, e)
		}
	}
	return out
}

type recHooks struct {
	NopHooks
	mu       sync.Mutex
	misses   map[string]string
	durable  []string
	encode   int
	skipped  []string
	restored []string
}

func newRecHooks() *recHooks { return &recHooks{misses: map[string]string{}} }

func (h *recHooks) CacheMiss(key, source string) {
	h.mu.Lock()
	h.misses[key] = source
	h.mu.Unlock()
}

func (h *recHooks) DurableFailure(key, op string, _ error) {
	h.mu.Lock()
	h.durable = append(h.durable, op+":"+key)
	h.mu.Unlock()
}

func (h *recHooks) EncodeFailure(string, error) {
	h.mu.Lock()
	h.encode++
	h.mu.Unlock()
}

func (h *recHooks) WriteBackSkipped(key, reason string) {
	h.mu.Lock()
	h.skipped = append(h.skipped, reason+":"+key)
	h.mu.Unlock()
}

func (h *recHooks) OverrideRestored(key string) {
	h.mu.Lock()
	h.restored = append(h.restored, key)
	h.mu.Unlock()
}

var errDisk = errors.New("disk on fire")

// flakyProvider wraps a memory provider and fails selected operations.
type flakyProvider struct {
	*memory.Provider
	failGet, failSet, failDel bool
}

var _ pr.Provider = (*flakyProvider)(nil)

func newFlaky() *flakyProvider { return &flakyProvider{Provider: memory.New()} }

func (p *flakyProvider) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if p.failGet {
		return nil, false, errDisk
	}
	return p.Provider.Get(ctx, key)
}

func (p *flakyProvider) Set(ctx context.Context, key string, v []byte, cost int64) (bool, error) {
	if p.failSet {
		return false, errDisk
	}
	return p.Provider.Set(ctx, key, v, cost)
}

func (p *flakyProvider) Del(ctx context.Context, key string) error {
	if p.failDel {
		return errDisk
	}
	return p.Provider.Del(ctx, key)
}
