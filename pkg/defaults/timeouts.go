package defaults

import "time"

const (
	// ResolveHandlerTimeout is the timeout for resolution requests.
	ResolveHandlerTimeout = 15 * time.Second

	// ResolveTimeout is the internal timeout for a single resolution or plan.
	// Should be less than ResolveHandlerTimeout to allow error handling.
	ResolveTimeout = 10 * time.Second

	// ResolveCacheTTL is the cache duration advertised on resolution responses.
	ResolveCacheTTL = 5 * time.Minute

	// ResolveConcurrency bounds the number of resolutions run in parallel
	// by a batch resolve or build plan.
	ResolveConcurrency = 8
)

const (
	// ServerReadTimeout is the maximum duration for reading request headers.
	ServerReadTimeout = 10 * time.Second

	// ServerReadHeaderTimeout prevents slow header attacks.
	ServerReadHeaderTimeout = 5 * time.Second

	// ServerWriteTimeout is the maximum duration for writing a response.
	ServerWriteTimeout = 30 * time.Second

	// ServerIdleTimeout is the maximum duration to wait for the next request.
	ServerIdleTimeout = 120 * time.Second

	// ServerShutdownTimeout is the maximum duration for graceful shutdown.
	ServerShutdownTimeout = 30 * time.Second
)

const (
	// HTTPClientTimeout is the default total timeout for HTTP requests.
	HTTPClientTimeout = 30 * time.Second

	// HTTPConnectTimeout is the timeout for establishing connections.
	HTTPConnectTimeout = 5 * time.Second

	// HTTPTLSHandshakeTimeout is the timeout for TLS handshake.
	HTTPTLSHandshakeTimeout = 5 * time.Second

	// HTTPResponseHeaderTimeout is the timeout for reading response headers.
	HTTPResponseHeaderTimeout = 10 * time.Second

	// HTTPIdleConnTimeout is the timeout for idle connections in the pool.
	HTTPIdleConnTimeout = 90 * time.Second

	// HTTPKeepAlive is the keep-alive duration for connections.
	HTTPKeepAlive = 30 * time.Second

	// HTTPExpectContinueTimeout is the timeout for Expect: 100-continue.
	HTTPExpectContinueTimeout = 1 * time.Second
)

const (
	// CLIResolveTimeout is the default timeout for CLI resolutions and plans.
	CLIResolveTimeout = 1 * time.Minute
)
