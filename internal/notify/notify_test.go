package notify

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestRecorder_CapturesMessages(t *testing.T) {
	r := &Recorder{}

	r.Warn("too many elements")
	r.Info("resolved")
	r.Warn("provider timeout")

	if len(r.Warnings) != 2 {
		t.Fatalf("Warnings = %d, want 2", len(r.Warnings))
	}
	if r.Warnings[0] != "too many elements" {
		t.Errorf("Warnings[0] = %q", r.Warnings[0])
	}
	if len(r.Infos) != 1 {
		t.Fatalf("Infos = %d, want 1", len(r.Infos))
	}
}

func TestSlog_EmitsULIDPerEvent(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	n := NewSlog(logger)

	n.Warn("first")
	n.Warn("second")

	out := buf.String()
	if !strings.Contains(out, "first") || !strings.Contains(out, "second") {
		t.Fatalf("log output missing messages: %s", out)
	}
	if !strings.Contains(out, "id=") {
		t.Errorf("log output missing notification id: %s", out)
	}
}

func TestNewSlog_NilLoggerFallsBack(t *testing.T) {
	n := NewSlog(nil)
	if n.Logger == nil {
		t.Error("NewSlog(nil) should fall back to slog.Default")
	}
}
