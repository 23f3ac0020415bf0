package appstate

// Fields is a minimal structured field map for logs.
type Fields map[string]any

// Logger is a tiny leveled logger. Provide an adapter around logging stack.
// If Logger is nil in Options, logging is disabled.
//
// The core puts call-site and failure details into Fields under "key", "site",
// "op" and "err".
type Logger interface {
	Debug(msg string, f Fields)
	Info(msg string, f Fields)
	Warn(msg string, f Fields)
	Error(msg string, f Fields)
}

type NopLogger struct{}

func (NopLogger) Debug(string, Fields) {}
func (NopLogger) Info(string, Fields)  {}
func (NopLogger) Warn(string, Fields)  {}
func (NopLogger) Error(string, Fields) {}

// guardedLogger drops panics raised by the wrapped logger.
type guardedLogger struct{ l Logger }

func (g guardedLogger) Debug(msg string, f Fields) {
	defer swallow()
	g.l.Debug(msg, f)
}

func (g guardedLogger) Info(msg string, f Fields) {
	defer swallow()
	g.l.Info(msg, f)
}

func (g guardedLogger) Warn(msg string, f Fields) {
	defer swallow()
	g.l.Warn(msg, f)
}

func (g guardedLogger) Error(msg string, f Fields) {
	defer swallow()
	g.l.Error(msg, f)
}

func swallow() { _ = recover() }
