package appstate

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEncoding marks payloads that could not be encoded or decoded by a codec.
	ErrEncoding = errors.New("appstate: encoding failure")
	// ErrDurable is matched by every *DurableError.
	ErrDurable = errors.New("appstate: durable store failure")
	// ErrNotFound is matched by *MissingKeysError.
	ErrNotFound = errors.New("appstate: key not found")
	// ErrClosed is returned by Executor.Do after Close.
	ErrClosed = errors.New("appstate: executor closed")
)

// DurableError reports a failed provider call for a key.
type DurableError struct {
	Key string
	Op  string // "get", "set" or "del"
	Err error
}

func (e *DurableError) Error() string {
	return fmt.Sprintf("appstate: durable %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *DurableError) Unwrap() error { return e.Err }

func (e *DurableError) Is(target error) bool { return target == ErrDurable }

// MissingKeysError is returned by Require and App.RequireKeys.
type MissingKeysError struct {
	Keys []string
}

func (e *MissingKeysError) Error() string {
	switch len(e.Keys) {
	case 0:
		return "appstate: missing required key"
	case 1:
		return fmt.Sprintf("appstate: missing required key %q", e.Keys[0])
	default:
		return fmt.Sprintf("appstate: missing required keys %s", strings.Join(quoteAll(e.Keys), ", "))
	}
}

func (e *MissingKeysError) Is(target error) bool { return target == ErrNotFound }

func quoteAll(keys []string) []string {
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = fmt.Sprintf("%q", k)
	}
	return out
}
