// Package logging is the structured logger handed to services and the shell.
// SlogLogger over log/slog is the only implementation; tests use Discard.
package logging

import "context"

// Logger takes a message plus alternating key/value pairs:
//
//	log.Info(ctx, "order requested", "id", o.ID, "by", caller.Username)
//
// Passwords, hashes and session tokens are never logged.
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	// With returns a logger that adds args to every record.
	With(args ...any) Logger
}
