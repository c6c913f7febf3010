// Package logging builds the slog loggers used by imagegrouper.
//
// Logs always go to a caller-supplied writer (stderr for the CLI) so that
// stdout stays reserved for the JSON result. Two formats are supported:
// a compact console format and JSON.
package logging
