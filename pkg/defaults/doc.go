// Package defaults provides centralized configuration constants for boutpkg.
//
// Timeouts are grouped by the component that uses them:
//
//   - Handler timeouts: HTTP request processing for resolutions and plans
//   - Server timeouts: HTTP server configuration
//   - HTTP client timeouts: fetching request documents from URLs
//   - Resolution limits: concurrency of batch resolutions
//
// Handler timeouts are longer than the internal resolution timeouts so that
// a resolution that runs out of time can still be reported as a structured
// error.
package defaults
