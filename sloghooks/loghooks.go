// Package sloghooks logs hook events to a *slog.Logger. Keys are redacted to a
// digest by default; chatty events can be sampled.
package sloghooks

import (
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"sync/atomic"

	appstate "github.com/0xLeif/AppState-sub000"
)

type Options struct {
	// Sampling to avoid floods; 0/1 = log all.
	MissEvery      uint64
	WriteBackEvery uint64
	// Optional key redactor. Defaults to SHA-256 prefix.
	Redact func(string) string
}

type Hooks struct {
	l    *slog.Logger
	opts Options

	missCtr      atomic.Uint64
	writeBackCtr atomic.Uint64
}

var _ appstate.Hooks = (*Hooks)(nil)

func New(l *slog.Logger, opts Options) *Hooks {
	return &Hooks{l: l, opts: opts}
}

func (h *Hooks) redact(k string) string {
	if h.opts.Redact != nil {
		return h.opts.Redact(k)
	}
	sum := sha256.Sum256([]byte(k))
	return hex.EncodeToString(sum[:8])
}

func sample(n uint64, ctr *atomic.Uint64) bool {
	if n == 0 || n == 1 {
		return true
	}
	return ctr.Add(1)%n == 0
}

func (h *Hooks) CacheMiss(key, source string) {
	if h.l == nil || !sample(h.opts.MissEvery, &h.missCtr) {
		return
	}
	h.l.Debug("appstate.cache_miss",
		"key", h.redact(key),
		"source", source)
}

func (h *Hooks) DurableFailure(key, op string, err error) {
	if h.l == nil {
		return
	}
	h.l.Warn("appstate.durable_failure",
		"key", h.redact(key),
		"op", op,
		"err", err)
}

func (h *Hooks) EncodeFailure(key string, err error) {
	if h.l == nil {
		return
	}
	h.l.Error("appstate.encode_failure",
		"key", h.redact(key),
		"err", err)
}

func (h *Hooks) WriteBackSkipped(key, reason string) {
	if h.l == nil || !sample(h.opts.WriteBackEvery, &h.writeBackCtr) {
		return
	}
	h.l.Debug("appstate.write_back_skipped",
		"key", h.redact(key),
		"reason", reason)
}

func (h *Hooks) OverrideRestored(key string) {
	if h.l == nil {
		return
	}
	h.l.Info("appstate.override_restored",
		"key", h.redact(key))
}
