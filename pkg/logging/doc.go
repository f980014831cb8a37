// Package logging wraps the standard library slog package with stackup
// defaults: structured JSON records on stderr, module/version context on
// every record, and level selection via flag or the LOG_LEVEL environment
// variable. Debug level enables source location tracking.
//
// Typical use, early in main:
//
//	logging.SetDefaultStructuredLoggerWithLevel("stackup", version, "info")
//	slog.Info("starting", "kubeconfig", path)
package logging
