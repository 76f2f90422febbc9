package notify

import (
	"crypto/rand"
	"log/slog"
	"time"

	"github.com/oklog/ulid/v2"
)

// Notifier delivers user-facing notifications. Toast/UI delivery is owned by
// an external collaborator; the engine only emits through this interface.
type Notifier interface {
	// Warn surfaces a user-visible warning (safety-gate aborts, lookup failures).
	Warn(msg string)
	// Info surfaces a non-critical status message.
	Info(msg string)
}

// Slog is a Notifier that writes structured log events. Each notification
// carries a ULID so downstream log consumers can deduplicate deliveries.
type Slog struct {
	Logger *slog.Logger
}

// NewSlog creates a Slog notifier. A nil logger falls back to slog.Default.
func NewSlog(logger *slog.Logger) *Slog {
	if logger == nil {
		logger = slog.Default()
	}
	return &Slog{Logger: logger}
}

func (s *Slog) Warn(msg string) {
	s.Logger.Warn("notification", "id", newID(), "message", msg)
}

func (s *Slog) Info(msg string) {
	s.Logger.Info("notification", "id", newID(), "message", msg)
}

// newID generates a ULID for a notification event.
func newID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), rand.Reader).String()
}

// Recorder is a Notifier for tests that captures every message.
type Recorder struct {
	Warnings []string
	Infos    []string
}

func (r *Recorder) Warn(msg string) { r.Warnings = append(r.Warnings, msg) }
func (r *Recorder) Info(msg string) { r.Infos = append(r.Infos, msg) }
