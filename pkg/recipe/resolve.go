package recipe

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/boutproject/boutpkg/pkg/defaults"
	bperrors "github.com/boutproject/boutpkg/pkg/errors"
	"github.com/boutproject/boutpkg/pkg/header"
	"github.com/boutproject/boutpkg/pkg/version"
)

// Request asks for one package configuration.
type Request struct {
	// Package is the package name.
	Package string `json:"package" yaml:"package"`

	// Revision selects a recipe revision when a package ships several.
	Revision string `json:"revision,omitempty" yaml:"revision,omitempty"`

	// Version is a declared version identifier or a range. Empty selects
	// the package's default version.
	Version string `json:"version,omitempty" yaml:"version,omitempty"`

	// Variants is the requested, possibly partial, variant selection.
	Variants Selection `json:"variants,omitempty" yaml:"variants,omitempty"`
}

// Result is the complete outcome of resolving and compiling one request.
type Result struct {
	header.Header `json:",inline" yaml:",inline"`

	ID           string            `json:"id" yaml:"id"`
	Package      string            `json:"package" yaml:"package"`
	Revision     string            `json:"revision,omitempty" yaml:"revision,omitempty"`
	Version      VersionSpec       `json:"version" yaml:"version"`
	Variants     []ResolvedVariant `json:"variants" yaml:"variants"`
	Definitions  []Definition      `json:"definitions" yaml:"definitions"`
	Dependencies []DependencySpec  `json:"dependencies" yaml:"dependencies"`
	Patches      []string          `json:"patches,omitempty" yaml:"patches,omitempty"`
}

// Definition returns the compiled definition with the given name.
func (r *Result) Definition(name string) (Definition, bool) {
	c := Compiled{Definitions: r.Definitions}
	return c.Definition(name)
}

// Dependency returns the first included dependency on the named package.
func (r *Result) Dependency(name string) (DependencySpec, bool) {
	c := Compiled{Dependencies: r.Dependencies}
	return c.Dependency(name)
}

// Resolver runs the resolution pipeline: variant resolution, condition
// evaluation and argument compilation. A Resolver holds no per-request
// state and is safe for concurrent use.
type Resolver struct {
	index       PackageIndex
	concurrency int
	toolVersion string
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithIndex sets the package index passed to variant validators.
func WithIndex(idx PackageIndex) ResolverOption {
	return func(r *Resolver) {
		if idx != nil {
			r.index = idx
		}
	}
}

// WithConcurrency bounds parallel resolutions in ResolveAll.
func WithConcurrency(n int) ResolverOption {
	return func(r *Resolver) {
		if n > 0 {
			r.concurrency = n
		}
	}
}

// WithToolVersion stamps results with the tool version.
func WithToolVersion(v string) ResolverOption {
	return func(r *Resolver) {
		r.toolVersion = v
	}
}

// NewResolver creates a Resolver.
func NewResolver(opts ...ResolverOption) *Resolver {
	r := &Resolver{
		index:       emptyIndex{},
		concurrency: defaults.ResolveConcurrency,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Index returns the resolver's package index.
func (r *Resolver) Index() PackageIndex {
	return r.index
}

// SelectVersion picks the version a request refers to: an exact
// identifier, else the best version satisfying it as a range, else the
// package default when empty.
func SelectVersion(pkg *Package, requested string) (VersionSpec, error) {
	if requested == "" {
		if v, ok := pkg.DefaultVersion(); ok {
			return v, nil
		}
	} else {
		if v, ok := pkg.Version(requested); ok {
			return v, nil
		}
		if c, err := version.ParseConstraint(requested); err == nil {
			if v, ok := pkg.BestVersion(c); ok {
				return v, nil
			}
		}
	}
	return VersionSpec{}, bperrors.NewWithContext(bperrors.ErrCodeNotFound,
		fmt.Sprintf("%s has no version matching %q", pkg.Name(), requested),
		map[string]any{"package": pkg.Name(), "version": requested})
}

// Resolve resolves req against pkg. Either a complete Result is returned
// or a single typed error; nothing partial is produced.
func (r *Resolver) Resolve(ctx context.Context, pkg *Package, req Request) (*Result, error) {
	if pkg == nil {
		return nil, bperrors.New(bperrors.ErrCodeInvalidRequest, "package cannot be nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, bperrors.Wrap(bperrors.ErrCodeTimeout, "resolution canceled", err)
	}
	start := time.Now()
	defer func() {
		resolveDuration.WithLabelValues(pkg.Name()).Observe(time.Since(start).Seconds())
	}()

	res, err := r.resolve(pkg, req)
	if err != nil {
		resolveTotal.WithLabelValues(pkg.Name(), string(bperrors.CodeOf(err))).Inc()
		slog.Debug("resolution failed", "package", pkg.Name(), "version", req.Version, "error", err)
		return nil, err
	}
	resolveTotal.WithLabelValues(pkg.Name(), "OK").Inc()
	slog.Debug("resolution complete",
		"package", pkg.Name(),
		"version", res.Version.Identifier,
		"definitions", len(res.Definitions),
		"dependencies", len(res.Dependencies),
	)
	return res, nil
}

func (r *Resolver) resolve(pkg *Package, req Request) (*Result, error) {
	vs, err := SelectVersion(pkg, req.Version)
	if err != nil {
		return nil, err
	}
	parsed, err := vs.Parsed()
	if err != nil {
		return nil, bperrors.Wrap(bperrors.ErrCodeInternal, "declared version does not parse", err)
	}

	cfg, err := pkg.variants.Resolve(req.Variants, parsed, WithPackageIndex(r.index))
	if err != nil {
		return nil, err
	}

	compiled, err := Compile(cfg, pkg.mappings, pkg.deps)
	if err != nil {
		return nil, err
	}

	var patches []string
	for _, p := range pkg.patches {
		ok, err := Evaluate(p.When, cfg)
		if err != nil {
			return nil, err
		}
		if ok {
			patches = append(patches, p.File)
		}
	}

	res := &Result{
		ID:           uuid.NewString(),
		Package:      pkg.Name(),
		Revision:     pkg.Revision(),
		Version:      vs,
		Variants:     cfg.Variants(),
		Definitions:  compiled.Definitions,
		Dependencies: compiled.Dependencies,
		Patches:      patches,
	}
	res.Init(header.KindResolution, r.toolVersion)
	res.Metadata["package"] = pkg.Name()
	return res, nil
}

// Job pairs a package with a request for ResolveAll.
type Job struct {
	Package *Package
	Request Request
}

// ResolveAll resolves independent jobs concurrently. Results are returned
// in job order. The first failure cancels the remaining jobs and is
// returned.
func (r *Resolver) ResolveAll(ctx context.Context, jobs []Job) ([]*Result, error) {
	results := make([]*Result, len(jobs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)
	for i, job := range jobs {
		g.Go(func() error {
			res, err := r.Resolve(gctx, job.Package, job.Request)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
