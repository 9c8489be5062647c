package logger

import (
	"log/slog"
	"time"
)

// Attribute helpers return the empty Attr for nil inputs, so call sites
// never need their own nil checks.

// Error creates an attribute for a single error under the key "error".
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Component names the subsystem a record originates from.
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// Event labels the lifecycle event being logged.
func Event(name string) slog.Attr {
	return slog.String("event", name)
}

// Duration creates an attribute for an elapsed duration.
func Duration(d time.Duration) slog.Attr {
	return slog.Duration("duration", d)
}

// UserID tags a record with the acting user.
func UserID(id string) slog.Attr {
	return slog.String("user_id", id)
}
