// Package logging provides structured logging setup for boutpkg binaries.
//
// It wraps log/slog with a JSON handler writing to stderr, attaches the
// module name and version to every record, and reads the level from the
// LOG_LEVEL environment variable unless one is given explicitly.
//
//	func main() {
//	    logging.SetDefaultStructuredLogger("boutpkg", version)
//	    slog.Info("resolving", "package", "boutpp")
//	}
//
// Supported levels (case-insensitive): debug, info, warn/warning, error.
// Debug level also records the source location of each log call.
package logging
