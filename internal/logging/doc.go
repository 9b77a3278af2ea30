// Package logging assembles the structured slog loggers used across
// fathomsync commands.
//
// It owns the console and JSON handlers, centralizes level plumbing, and
// exposes attr helpers so the transfer pipeline and service clients tag log
// lines consistently. A no-op logger is provided for tests and wiring code
// that cannot fail.
package logging
