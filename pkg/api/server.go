package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/boutproject/boutpkg/pkg/logging"
	"github.com/boutproject/boutpkg/pkg/packages"
	"github.com/boutproject/boutpkg/pkg/recipe"
	"github.com/boutproject/boutpkg/pkg/server"
)

const (
	name           = "boutpkgd"
	versionDefault = "dev"

	// knownPackagesEnv names a KnownPackages file with extra available packages.
	knownPackagesEnv = "BOUTPKG_KNOWN_PACKAGES"
)

var (
	// overridden during build with ldflags
	// e.g., -X "github.com/boutproject/boutpkg/pkg/api.version=1.0.0"
	version = versionDefault
	commit  = "unknown"
	date    = "unknown"
)

// Serve starts the API server and blocks until shutdown.
func Serve() error {
	ctx := context.Background()

	logging.SetDefaultStructuredLogger(name, version)
	slog.Info("starting",
		"name", name,
		"version", version,
		"commit", commit,
		"date", date,
	)

	catalog, err := newCatalog(os.Getenv(knownPackagesEnv))
	if err != nil {
		slog.Error("failed to load package catalog", "error", err)
		return err
	}

	s := server.New(
		server.WithName(name),
		server.WithVersion(version),
		server.WithHandler(Routes(catalog, version)),
	)

	if err := s.Run(ctx); err != nil {
		slog.Error("server exited with error", "error", err)
		return err
	}

	return nil
}

func newCatalog(knownFile string) (*packages.Catalog, error) {
	var opts []packages.Option
	if knownFile != "" {
		names, err := packages.LoadKnownPackages(knownFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load known packages from %q: %w", knownFile, err)
		}
		slog.Info("loaded known packages", "path", knownFile, "count", len(names))
		opts = append(opts, packages.WithKnownPackages(names...))
	}
	return packages.NewCatalog(opts...)
}

// Routes returns the API handlers backed by catalog.
func Routes(catalog *packages.Catalog, toolVersion string) map[string]http.HandlerFunc {
	resolver := recipe.NewResolver(
		recipe.WithIndex(catalog),
		recipe.WithToolVersion(toolVersion),
	)
	rh := recipe.NewHandler(resolver, catalog)
	ph := packages.NewHandler(catalog, packages.NewPlanner(catalog, resolver, toolVersion), toolVersion)

	return map[string]http.HandlerFunc{
		"/v1/resolve":  rh.HandleResolve,
		"/v1/plan":     ph.HandlePlan,
		"/v1/packages": ph.HandlePackages,
	}
}
