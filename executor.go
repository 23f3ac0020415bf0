package appstate

import (
	"sync"

	"github.com/sourcegraph/conc"
	"github.com/sourcegraph/conc/panics"
)

// Executor is the serialized owner context: one goroutine runs submitted
// functions in FIFO order. Deferred write-backs are posted here, and callers
// that need read-modify-write atomicity run their sequence through Do.
//
// A function running on the Executor must not call Do, Flush or Close on the
// same Executor; Post is safe from anywhere.
type Executor struct {
	q        chan func()
	stopping chan struct{} // closed by Close; q itself is never closed
	finished chan struct{} // closed when the owner goroutine exits
	wg       conc.WaitGroup
	log      Logger

	// mu orders Post against Close. It is never held across a blocking send.
	mu     sync.RWMutex
	closed bool
	once   sync.Once
}

// NewExecutor starts the owner goroutine. qlen <= 0 => 1024.
func NewExecutor(qlen int, log Logger) *Executor {
	if qlen <= 0 {
		qlen = 1024
	}
	if log == nil {
		log = NopLogger{}
	}
	e := &Executor{
		q:        make(chan func(), qlen),
		stopping: make(chan struct{}),
		finished: make(chan struct{}),
		log:      log,
	}
	e.wg.Go(e.loop)
	return e
}

func (e *Executor) loop() {
	defer close(e.finished)
	for {
		select {
		case f := <-e.q:
			e.run(f)
		case <-e.stopping:
			// drain what was accepted before Close
			for {
				select {
				case f := <-e.q:
					e.run(f)
				default:
					return
				}
			}
		}
	}
}

func (e *Executor) run(f func()) {
	var pc panics.Catcher
	pc.Try(f)
	if r := pc.Recovered(); r != nil {
		e.log.Error("executor task panicked", Fields{"err": r.AsError()})
	}
}

// Post enqueues f without blocking. It reports false when the queue is full
// or the Executor is closed; the function is then dropped.
func (e *Executor) Post(f func()) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.closed {
		return false
	}
	select {
	case e.q <- f:
		return true
	default: // drop
		return false
	}
}

// Do runs f on the owner goroutine and waits for it to return. It returns
// ErrClosed when the Executor closes before f runs.
func (e *Executor) Do(f func()) error {
	if e.Closed() {
		return ErrClosed
	}
	done := make(chan struct{})
	task := func() {
		defer close(done)
		f()
	}

	select {
	case e.q <- task:
	case <-e.stopping:
		return ErrClosed
	}

	select {
	case <-done:
		return nil
	case <-e.finished:
		// the owner ran its last task; ours may have been among them
		select {
		case <-done:
			return nil
		default:
			return ErrClosed
		}
	}
}

// Flush waits until everything posted before the call has run.
func (e *Executor) Flush() {
	_ = e.Do(func() {})
}

// Closed reports whether Close has been called.
func (e *Executor) Closed() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.closed
}

// Close stops accepting work, runs what was already queued and waits for the
// owner goroutine. Safe to call from several goroutines.
func (e *Executor) Close() {
	e.once.Do(func() {
		e.mu.Lock()
		e.closed = true
		close(e.stopping)
		e.mu.Unlock()
		e.wg.Wait()
	})
}
