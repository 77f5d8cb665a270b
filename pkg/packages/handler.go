package packages

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/boutproject/boutpkg/pkg/defaults"
	bperrors "github.com/boutproject/boutpkg/pkg/errors"
	"github.com/boutproject/boutpkg/pkg/recipe"
	"github.com/boutproject/boutpkg/pkg/serializer"
	"github.com/boutproject/boutpkg/pkg/server"
)

// Handler serves build plans and catalog listings over HTTP.
type Handler struct {
	Catalog     *Catalog
	Planner     *Planner
	ToolVersion string

	// CacheTTL is advertised in the Cache-Control header. Zero disables caching.
	CacheTTL int
}

// NewHandler creates a Handler with the default cache TTL.
func NewHandler(c *Catalog, p *Planner, toolVersion string) *Handler {
	return &Handler{
		Catalog:     c,
		Planner:     p,
		ToolVersion: toolVersion,
		CacheTTL:    int(defaults.ResolveCacheTTL.Seconds()),
	}
}

func (h *Handler) setCache(w http.ResponseWriter) {
	if h.CacheTTL > 0 {
		w.Header().Set("Cache-Control", fmt.Sprintf("public, max-age=%d", h.CacheTTL))
		return
	}
	w.Header().Set("Cache-Control", "no-store")
}

// HandlePlan builds a dependency-first plan for the requested package.
// It accepts the same GET parameters and POST documents as resolution.
func (h *Handler) HandlePlan(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), defaults.ResolveTimeout)
	defer cancel()

	req, ok := recipe.ReadRequest(w, r)
	if !ok {
		return
	}
	slog.Debug("plan request", "package", req.Package, "revision", req.Revision, "version", req.Version)

	plan, err := h.Planner.Plan(ctx, *req)
	if err != nil {
		server.WriteErrorFromErr(w, r, err, "Failed to build plan", nil)
		return
	}
	h.setCache(w)
	serializer.RespondJSON(w, http.StatusOK, plan)
}

// HandlePackages lists the catalog. With a "name" query parameter it
// describes that package instead, optionally at "revision".
func (h *Handler) HandlePackages(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		server.WriteError(w, r, http.StatusMethodNotAllowed, bperrors.ErrCodeMethodNotAllowed,
			"Method not allowed", false, map[string]any{
				"method":  r.Method,
				"allowed": []string{http.MethodGet},
			})
		return
	}

	name := r.URL.Query().Get("name")
	if name == "" {
		h.setCache(w)
		serializer.RespondJSON(w, http.StatusOK, h.Catalog.List(h.ToolVersion))
		return
	}

	info, err := h.Catalog.Info(name, r.URL.Query().Get("revision"), h.ToolVersion)
	if err != nil {
		server.WriteErrorFromErr(w, r, err, "Unknown package", nil)
		return
	}
	h.setCache(w)
	serializer.RespondJSON(w, http.StatusOK, info)
}
