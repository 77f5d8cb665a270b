// Package server provides the HTTP server used by boutpkgd.
//
// Handlers registered with WithHandler run behind a middleware chain:
//
//	metrics -> API version -> request ID -> panic recovery -> rate limit -> logging
//
// System endpoints bypass the chain:
//
//   - GET /health  - liveness
//   - GET /ready   - readiness; 503 until the listener is up and during shutdown
//   - GET /metrics - Prometheus metrics
//
// A root handler describing the server and its routes is installed unless
// "/" is configured explicitly.
//
// # Usage
//
//	s := server.New(
//	    server.WithName("boutpkgd"),
//	    server.WithVersion(version),
//	    server.WithHandler(map[string]http.HandlerFunc{
//	        "/v1/resolve": h.HandleResolve,
//	    }),
//	)
//	if err := s.Run(ctx); err != nil {
//	    return err
//	}
//
// Run stops on SIGINT, SIGTERM or when ctx is canceled and waits up to
// Config.ShutdownTimeout for in-flight requests.
//
// # Errors
//
// Errors are written as:
//
//	{
//	  "code": "UNKNOWN_VARIANT",
//	  "message": "boutpp: unknown variant \"cuda\"",
//	  "details": {"variant": "cuda"},
//	  "requestId": "550e8400-e29b-41d4-a716-446655440000",
//	  "timestamp": "2026-01-02T12:00:00Z",
//	  "retryable": false
//	}
//
// WriteErrorFromErr derives the status from the error code: request and
// variant errors are 400, VALIDATOR_REJECTED is 422,
// CONFLICTING_DEFINITION is 409, NOT_FOUND is 404, TIMEOUT is 504 and
// recipe defects are 500.
//
// # Configuration
//
// NewConfig reads PORT and SHUTDOWN_TIMEOUT_SECONDS from the environment.
package server
