package slog

import (
	"bytes"
	stdslog "log/slog"
	"strings"
	"testing"

	appstate "github.com/0xLeif/AppState-sub000"
)

func TestSlogLoggerSortedFields(t *testing.T) {
	var buf bytes.Buffer
	l := New(stdslog.New(stdslog.NewTextHandler(&buf, &stdslog.HandlerOptions{Level: stdslog.LevelInfo})))

	l.Debug("hidden", nil)
	l.Info("evicted", appstate.Fields{"scope": "Sync", "key": "Sync/theme"})

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("debug should be filtered: %s", out)
	}
	if !strings.Contains(out, "component=appstate key=Sync/theme scope=Sync") {
		t.Fatalf("unexpected output: %s", out)
	}
}
