// Package api provides the HTTP API layer of the boutpkg resolution service.
//
// It is a thin wrapper around pkg/server: it configures structured logging,
// builds the package catalog and registers the application routes. Server
// lifecycle, middleware, health, readiness and metrics live in pkg/server.
//
// # Endpoints
//
//   - GET|POST /v1/resolve  - resolve one package configuration
//   - GET|POST /v1/plan     - resolve a package and its catalog dependencies in build order
//   - GET /v1/packages      - list packages, or describe one with ?name=&revision=
//   - GET /health, /ready, /metrics
//
// GET requests take either a spec string or individual parameters:
//
//	curl 'http://localhost:8080/v1/resolve?spec=boutpp@5.1.0%2Bpetsc%20check=3'
//	curl 'http://localhost:8080/v1/resolve?package=hermes-3&variant=limiter=MinMod'
//
// POST requests take a BuildRequest document in JSON or YAML:
//
//	kind: BuildRequest
//	apiVersion: boutpkg.boutproject.org/v1alpha1
//	spec:
//	  package: hermes-3
//	  revision: legacy
//	  variants:
//	    petsc: true
//
// # Configuration
//
//   - PORT: HTTP server port (default: 8080)
//   - LOG_LEVEL: logging level (debug, info, warn, error)
//   - BOUTPKG_KNOWN_PACKAGES: KnownPackages file naming extra available packages
//
// Version information is set at build time using ldflags:
//
//	go build -ldflags="-X 'github.com/boutproject/boutpkg/pkg/api.version=1.0.0'"
package api
