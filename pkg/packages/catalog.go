package packages

import (
	"fmt"
	"log/slog"
	"slices"
	"sort"
	"strings"

	"golang.org/x/text/cases"

	bperrors "github.com/boutproject/boutpkg/pkg/errors"
	"github.com/boutproject/boutpkg/pkg/header"
	"github.com/boutproject/boutpkg/pkg/recipe"
)

// Constructor declares a recipe. The index reports which packages exist
// around the catalog, for recipes whose declarations depend on it.
type Constructor func(idx recipe.PackageIndex) *recipe.Package

// Builtins returns the constructors of the recipes shipped with boutpkg.
// The first revision registered for a name is its default.
func Builtins() []Constructor {
	return []Constructor{
		func(recipe.PackageIndex) *recipe.Package { return Boutpp() },
		Hermes3,
		func(recipe.PackageIndex) *recipe.Package { return Hermes3Legacy() },
	}
}

// Catalog holds package recipes by case-insensitive name and revision,
// together with the names of external packages known to exist. It
// implements recipe.PackageIndex and recipe.Source and is safe for
// concurrent use once created.
type Catalog struct {
	entries map[string][]*recipe.Package
	names   []string
	known   map[string]bool
}

type catalogConfig struct {
	constructors []Constructor
	known        []string
	noBuiltins   bool
}

// Option configures a Catalog.
type Option func(*catalogConfig)

// WithKnownPackages adds external package names to the index.
func WithKnownPackages(names ...string) Option {
	return func(c *catalogConfig) {
		c.known = append(c.known, names...)
	}
}

// WithRecipes adds recipes to the catalog.
func WithRecipes(ctors ...Constructor) Option {
	return func(c *catalogConfig) {
		c.constructors = append(c.constructors, ctors...)
	}
}

// WithoutBuiltins leaves out the shipped recipes and the embedded list of
// known external packages.
func WithoutBuiltins() Option {
	return func(c *catalogConfig) {
		c.noBuiltins = true
	}
}

// fold normalizes a package name for lookup. A Caser is stateful, so a
// new one is used for every call.
func fold(name string) string {
	return cases.Fold().String(strings.TrimSpace(name))
}

// NewCatalog builds the catalog. Known names are registered before any
// recipe is declared so that constructors see the complete index.
func NewCatalog(opts ...Option) (*Catalog, error) {
	cfg := &catalogConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	c := &Catalog{
		entries: make(map[string][]*recipe.Package),
		known:   make(map[string]bool),
	}

	ctors := cfg.constructors
	if !cfg.noBuiltins {
		builtin, err := BuiltinKnownPackages()
		if err != nil {
			return nil, bperrors.Wrap(bperrors.ErrCodeInternal, "failed to load known packages", err)
		}
		for _, n := range builtin {
			c.known[fold(n)] = true
		}
		ctors = append(Builtins(), ctors...)
	}
	for _, n := range cfg.known {
		if n = fold(n); n != "" {
			c.known[n] = true
		}
	}

	for _, ctor := range ctors {
		pkg := ctor(c)
		if pkg == nil {
			continue
		}
		key := fold(pkg.Name())
		for _, existing := range c.entries[key] {
			if existing.Revision() == pkg.Revision() {
				return nil, bperrors.NewWithContext(bperrors.ErrCodeInvalidValue,
					fmt.Sprintf("package %s revision %q is declared twice", pkg.Name(), pkg.Revision()),
					map[string]any{"package": pkg.Name(), "revision": pkg.Revision()})
			}
		}
		if _, ok := c.entries[key]; !ok {
			c.names = append(c.names, pkg.Name())
		}
		c.entries[key] = append(c.entries[key], pkg)
	}
	sort.Strings(c.names)

	if err := c.detectCycles(); err != nil {
		return nil, err
	}

	slog.Debug("package catalog ready", "packages", len(c.names), "known", len(c.known))
	return c, nil
}

// Exists reports whether name is a catalog package or a known external
// package.
func (c *Catalog) Exists(name string) bool {
	key := fold(name)
	if _, ok := c.entries[key]; ok {
		return true
	}
	return c.known[key]
}

// Has reports whether the catalog holds a recipe for name.
func (c *Catalog) Has(name string) bool {
	_, ok := c.entries[fold(name)]
	return ok
}

// Names returns the catalog package names in sorted order.
func (c *Catalog) Names() []string {
	return slices.Clone(c.names)
}

// Revisions returns the revision labels of a package, default first.
func (c *Catalog) Revisions(name string) []string {
	pkgs := c.entries[fold(name)]
	out := make([]string, 0, len(pkgs))
	for _, p := range pkgs {
		out = append(out, p.Revision())
	}
	return out
}

// Lookup returns the recipe for name. An empty revision selects the
// default revision.
func (c *Catalog) Lookup(name, revision string) (*recipe.Package, error) {
	pkgs, ok := c.entries[fold(name)]
	if !ok || len(pkgs) == 0 {
		return nil, bperrors.NewWithContext(bperrors.ErrCodeNotFound,
			fmt.Sprintf("unknown package %q", name),
			map[string]any{"package": name, "available": c.Names()})
	}
	if revision == "" {
		return pkgs[0], nil
	}
	for _, p := range pkgs {
		if strings.EqualFold(p.Revision(), revision) {
			return p, nil
		}
	}
	return nil, bperrors.NewWithContext(bperrors.ErrCodeNotFound,
		fmt.Sprintf("package %s has no revision %q", pkgs[0].Name(), revision),
		map[string]any{"package": pkgs[0].Name(), "revision": revision, "available": c.Revisions(name)})
}

// edges returns the catalog packages every recipe may depend on,
// regardless of conditions.
func (c *Catalog) edges() map[string][]string {
	deps := make(map[string][]string)
	for _, key := range c.keys() {
		for _, p := range c.entries[key] {
			for _, d := range p.Dependencies() {
				dk := fold(d.Name)
				if _, ok := c.entries[dk]; ok && !slices.Contains(deps[key], dk) {
					deps[key] = append(deps[key], dk)
				}
			}
		}
		sort.Strings(deps[key])
	}
	return deps
}

func (c *Catalog) keys() []string {
	keys := make([]string, 0, len(c.entries))
	for k := range c.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// detectCycles walks the static dependency graph depth first.
func (c *Catalog) detectCycles() error {
	deps := c.edges()
	visited := make(map[string]bool)
	onStack := make(map[string]bool)
	var path []string

	var dfs func(node string) error
	dfs = func(node string) error {
		visited[node] = true
		onStack[node] = true
		path = append(path, node)

		for _, next := range deps[node] {
			if !visited[next] {
				if err := dfs(next); err != nil {
					return err
				}
				continue
			}
			if onStack[next] {
				start := slices.Index(path, next)
				cycle := append(slices.Clone(path[start:]), next)
				return bperrors.NewWithContext(bperrors.ErrCodeInvalidValue,
					fmt.Sprintf("circular dependency detected: %s", strings.Join(cycle, " -> ")),
					map[string]any{"cycle": cycle})
			}
		}

		path = path[:len(path)-1]
		onStack[node] = false
		return nil
	}

	for _, k := range c.keys() {
		if !visited[k] {
			if err := dfs(k); err != nil {
				return err
			}
		}
	}
	return nil
}

// Summary is a one-line description of a catalog package.
type Summary struct {
	Name           string   `json:"name" yaml:"name"`
	Revisions      []string `json:"revisions,omitempty" yaml:"revisions,omitempty"`
	Description    string   `json:"description,omitempty" yaml:"description,omitempty"`
	DefaultVersion string   `json:"defaultVersion" yaml:"defaultVersion"`
	Versions       []string `json:"versions" yaml:"versions"`
	Variants       int      `json:"variants" yaml:"variants"`
}

// PackageList is the document listing the catalog.
type PackageList struct {
	header.Header `json:",inline" yaml:",inline"`

	Packages []Summary `json:"packages" yaml:"packages"`
}

// PackageInfo is the document describing one recipe.
type PackageInfo struct {
	header.Header `json:",inline" yaml:",inline"`

	Package recipe.Info `json:"package" yaml:"package"`
}

// List summarizes every catalog package, described by its default revision.
func (c *Catalog) List(toolVersion string) *PackageList {
	out := &PackageList{Packages: make([]Summary, 0, len(c.names))}
	out.Init(header.KindPackageList, toolVersion)
	for _, name := range c.names {
		pkgs := c.entries[fold(name)]
		p := pkgs[0]
		s := Summary{
			Name:        p.Name(),
			Description: p.Description(),
			Variants:    len(p.Variants()),
		}
		if len(pkgs) > 1 {
			s.Revisions = c.Revisions(name)
		}
		if v, ok := p.DefaultVersion(); ok {
			s.DefaultVersion = v.Identifier
		}
		for _, v := range p.Versions() {
			s.Versions = append(s.Versions, v.Identifier)
		}
		out.Packages = append(out.Packages, s)
	}
	return out
}

// Info describes one recipe.
func (c *Catalog) Info(name, revision, toolVersion string) (*PackageInfo, error) {
	p, err := c.Lookup(name, revision)
	if err != nil {
		return nil, err
	}
	out := &PackageInfo{Package: p.Info()}
	out.Init(header.KindPackageInfo, toolVersion)
	out.Metadata["package"] = p.Name()
	return out, nil
}
