package appstate

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestExecutorRunsInOrder(t *testing.T) {
	e := NewExecutor(16, nil)
	defer e.Close()

	var got []int
	for i := 0; i < 10; i++ {
		i := i
		if !e.Post(func() { got = append(got, i) }) {
			t.Fatalf("Post %d rejected", i)
		}
	}
	e.Flush()
	for i, v := range got {
		if v != i {
			t.Fatalf("order broken: %v", got)
		}
	}
}

func TestExecutorPostDropsWhenFull(t *testing.T) {
	e := NewExecutor(1, nil)
	defer e.Close()

	release := make(chan struct{})
	started := make(chan struct{})
	e.Post(func() { close(started); <-release })
	<-started
	if !e.Post(func() {}) {
		t.Fatalf("first queued Post should fit")
	}
	if e.Post(func() {}) {
		t.Fatalf("Post on a full queue should be dropped")
	}
	close(release)
}

func TestExecutorRecoversPanics(t *testing.T) {
	log := &recLogger{}
	e := NewExecutor(4, log)
	defer e.Close()

	e.Post(func() { panic("kaboom") })
	ran := false
	if err := e.Do(func() { ran = true }); err != nil {
		t.Fatal(err)
	}
	if !ran {
		t.Fatalf("executor stopped after a panic")
	}
	if len(log.errors()) != 1 {
		t.Fatalf("panic not logged")
	}
}

func TestExecutorClose(t *testing.T) {
	e := NewExecutor(4, nil)
	done := false
	e.Post(func() { done = true })
	e.Close()
	e.Close()

	if !done {
		t.Fatalf("Close must drain queued work")
	}
	if e.Post(func() {}) {
		t.Fatalf("Post after Close should report false")
	}
	if err := e.Do(func() {}); !errors.Is(err, ErrClosed) {
		t.Fatalf("Do after Close err=%v", err)
	}
	if !e.Closed() {
		t.Fatalf("Closed=false")
	}
}

func TestWriteBackDroppedAfterClose(t *testing.T) {
	hooks := newRecHooks()
	app := New(Options{Hooks: hooks})
	v := NewState(app, NewScope("App", "late"), func() int { return 1 })
	app.Executor().Close()

	if got := v.Get(); got != 1 {
		t.Fatalf("Get=%d", got)
	}
	if len(hooks.skipped) != 1 || hooks.skipped[0] != "closed:App/late" {
		t.Fatalf("skipped=%v", hooks.skipped)
	}
	if _, ok := app.Store().Load("App/late"); ok {
		t.Fatalf("dropped write-back must not land")
	}
	_ = app.Close(context.Background())
}

// block occupies the owner goroutine until the returned func is called.
func block(t *testing.T, e *Executor, then func()) (release func()) {
	t.Helper()
	gate := make(chan struct{})
	running := make(chan struct{})
	if !e.Post(func() {
		close(running)
		<-gate
		if then != nil {
			then()
		}
	}) {
		t.Fatalf("could not post blocking task")
	}
	<-running
	return func() { close(gate) }
}

func TestCloseWhileDoWaitsOnFullQueue(t *testing.T) {
	app := New(Options{QueueSize: 1})
	v := NewState(app, NewScope("App", "gated"), func() int { return 7 })
	ex := app.Executor()

	// the running task misses the cache, so it posts a write-back
	release := block(t, ex, func() { _ = v.Get() })
	if !ex.Post(func() {}) {
		t.Fatalf("queue should have room for one task")
	}

	doErr := make(chan error, 1)
	go func() { doErr <- ex.Do(func() {}) }()
	closed := make(chan struct{})
	go func() {
		ex.Close()
		close(closed)
	}()
	time.Sleep(50 * time.Millisecond)
	release()

	select {
	case <-closed:
	case <-time.After(5 * time.Second):
		t.Fatal("Close never returned")
	}
	select {
	case err := <-doErr:
		if err != nil && !errors.Is(err, ErrClosed) {
			t.Fatalf("Do err=%v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Do never returned")
	}
	if err := ex.Do(func() {}); !errors.Is(err, ErrClosed) {
		t.Fatalf("Do after Close err=%v", err)
	}
	_ = app.Close(context.Background())
}

func TestWriteBackDroppedOnFullQueueIsHarmless(t *testing.T) {
	hooks := newRecHooks()
	app := New(Options{QueueSize: 1, Hooks: hooks})
	defer app.Close(context.Background())
	v := NewState(app, NewScope("App", "busy"), func() int { return 3 })

	release := block(t, app.Executor(), nil)
	app.Executor().Post(func() {}) // queue full

	if got := v.Get(); got != 3 {
		t.Fatalf("Get=%d", got)
	}
	hooks.mu.Lock()
	skipped := append([]string(nil), hooks.skipped...)
	hooks.mu.Unlock()
	if len(skipped) != 1 || skipped[0] != "queue_full:App/busy" {
		t.Fatalf("skipped=%v", skipped)
	}
	if _, ok := app.Store().Load("App/busy"); ok {
		t.Fatalf("dropped write-back must not land")
	}

	release()
	app.Flush()

	// the next read recomputes and its write-back lands
	if got := v.Get(); got != 3 {
		t.Fatalf("Get after drain=%d", got)
	}
	app.Flush()
	if got, ok := Get[int](app.Store(), "App/busy"); !ok || got != 3 {
		t.Fatalf("store=%d ok=%v", got, ok)
	}
}
