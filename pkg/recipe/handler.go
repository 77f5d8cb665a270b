package recipe

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/boutproject/boutpkg/pkg/defaults"
	bperrors "github.com/boutproject/boutpkg/pkg/errors"
	"github.com/boutproject/boutpkg/pkg/serializer"
	"github.com/boutproject/boutpkg/pkg/server"
)

// Source looks up package recipes by name and revision.
type Source interface {
	Lookup(name, revision string) (*Package, error)
}

// Handler serves resolution requests over HTTP.
type Handler struct {
	Resolver *Resolver
	Packages Source

	// CacheTTL is advertised in the Cache-Control header. Zero disables caching.
	CacheTTL int
}

// NewHandler creates a Handler with the default cache TTL.
func NewHandler(r *Resolver, src Source) *Handler {
	return &Handler{
		Resolver: r,
		Packages: src,
		CacheTTL: int(defaults.ResolveCacheTTL.Seconds()),
	}
}

// ReadRequest extracts a Request from query parameters (GET) or a
// BuildRequest body (POST). On failure the error response has already been
// written and ok is false.
func ReadRequest(w http.ResponseWriter, r *http.Request) (req *Request, ok bool) {
	var err error
	switch r.Method {
	case http.MethodGet:
		req, err = ParseRequestFromRequest(r)
	case http.MethodPost:
		defer func() {
			if r.Body != nil {
				r.Body.Close()
			}
		}()
		req, err = ParseRequestFromBody(r.Body, r.Header.Get("Content-Type"))
	default:
		w.Header().Set("Allow", "GET, POST")
		server.WriteError(w, r, http.StatusMethodNotAllowed, bperrors.ErrCodeMethodNotAllowed,
			"Method not allowed", false, map[string]any{
				"method":  r.Method,
				"allowed": []string{"GET", "POST"},
			})
		return nil, false
	}

	if err != nil {
		server.WriteErrorFromErr(w, r, bperrors.Wrap(bperrors.ErrCodeInvalidRequest, "invalid build request", err),
			"Invalid build request", nil)
		return nil, false
	}
	return req, true
}

// HandleResolve resolves a single package configuration.
// GET accepts spec, package, version, revision and variant query parameters;
// POST accepts a BuildRequest document in JSON or YAML.
func (h *Handler) HandleResolve(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), defaults.ResolveHandlerTimeout)
	defer cancel()

	req, ok := ReadRequest(w, r)
	if !ok {
		return
	}

	slog.Debug("resolve request",
		"package", req.Package,
		"revision", req.Revision,
		"version", req.Version,
		"variants", len(req.Variants),
	)

	pkg, err := h.Packages.Lookup(req.Package, req.Revision)
	if err != nil {
		server.WriteErrorFromErr(w, r, err, "Unknown package", nil)
		return
	}

	result, err := h.Resolver.Resolve(ctx, pkg, *req)
	if err != nil {
		server.WriteErrorFromErr(w, r, err, "Failed to resolve package", nil)
		return
	}

	if h.CacheTTL > 0 {
		w.Header().Set("Cache-Control", fmt.Sprintf("public, max-age=%d", h.CacheTTL))
	} else {
		w.Header().Set("Cache-Control", "no-store")
	}
	serializer.RespondJSON(w, http.StatusOK, result)
}
