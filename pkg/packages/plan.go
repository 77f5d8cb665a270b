package packages

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sort"
	"time"

	bperrors "github.com/boutproject/boutpkg/pkg/errors"
	"github.com/boutproject/boutpkg/pkg/header"
	"github.com/boutproject/boutpkg/pkg/recipe"
	"github.com/boutproject/boutpkg/pkg/version"
)

// Step is one package of a build plan.
type Step struct {
	recipe.Result `json:",inline" yaml:",inline"`

	// DependsOn lists the catalog packages that must be built first.
	DependsOn []string `json:"dependsOn,omitempty" yaml:"dependsOn,omitempty"`
}

// BuildPlan orders the resolved configurations of a package and every
// catalog package it depends on, dependencies first.
type BuildPlan struct {
	header.Header `json:",inline" yaml:",inline"`

	Root  string `json:"root" yaml:"root"`
	Steps []Step `json:"steps" yaml:"steps"`
}

// Step returns the step for the named package.
func (p *BuildPlan) Step(name string) (Step, bool) {
	for _, s := range p.Steps {
		if fold(s.Package) == fold(name) {
			return s, true
		}
	}
	return Step{}, false
}

// Planner builds dependency-first plans from a catalog.
type Planner struct {
	catalog     *Catalog
	resolver    *recipe.Resolver
	toolVersion string
}

// NewPlanner creates a Planner. The resolver should use the catalog as its
// package index.
func NewPlanner(c *Catalog, r *recipe.Resolver, toolVersion string) *Planner {
	return &Planner{catalog: c, resolver: r, toolVersion: toolVersion}
}

// maxPlanAttempts bounds re-planning after a dependency was resolved
// before every dependent had placed its requirements on it.
const maxPlanAttempts = 8

type planNode struct {
	key         string
	pkg         *recipe.Package
	req         recipe.Request
	constraints []version.Constraint
	result      *recipe.Result
	deps        []string
}

// demand is what dependents require of a package, carried across attempts.
type demand struct {
	constraints []version.Constraint
	variants    recipe.Selection
}

// lateDemand reports a requirement that arrived after its target was
// resolved.
type lateDemand struct {
	key  string
	dep  recipe.DependencySpec
	from string
}

func (e *lateDemand) Error() string {
	return fmt.Sprintf("%s placed %s on an already resolved package", e.from, e.dep.String())
}

// Plan resolves root and then, level by level, every included dependency
// that has a recipe in the catalog. A dependency is resolved at the best
// version satisfying all ranges placed on it, with the variants its
// dependents require. Each level is resolved concurrently. When a
// requirement turns up after its target was resolved, planning starts over
// with that requirement known up front.
func (p *Planner) Plan(ctx context.Context, root recipe.Request) (*BuildPlan, error) {
	start := time.Now()
	defer func() {
		planDuration.Observe(time.Since(start).Seconds())
	}()

	demands := make(map[string]*demand)
	for attempt := 1; ; attempt++ {
		plan, err := p.attempt(ctx, root, demands)
		var late *lateDemand
		if !errors.As(err, &late) {
			return plan, err
		}
		if attempt == maxPlanAttempts {
			return nil, bperrors.WrapWithContext(bperrors.ErrCodeConflictingDefinition,
				"dependency requirements did not settle", err,
				map[string]any{"package": late.dep.Name, "attempts": attempt})
		}
		dm, ok := demands[late.key]
		if !ok {
			dm = &demand{variants: recipe.Selection{}}
			demands[late.key] = dm
		}
		if err := dm.add(late.dep, late.from); err != nil {
			return nil, err
		}
		slog.Debug("re-planning with late requirement", "dependency", late.dep.String(), "from", late.from, "attempt", attempt)
	}
}

func (p *Planner) attempt(ctx context.Context, root recipe.Request, demands map[string]*demand) (*BuildPlan, error) {
	rootPkg, err := p.catalog.Lookup(root.Package, root.Revision)
	if err != nil {
		return nil, err
	}
	rootNode := &planNode{key: fold(rootPkg.Name()), pkg: rootPkg, req: root}
	nodes := map[string]*planNode{rootNode.key: rootNode}

	frontier := []*planNode{rootNode}
	for len(frontier) > 0 {
		jobs := make([]recipe.Job, len(frontier))
		for i, n := range frontier {
			jobs[i] = recipe.Job{Package: n.pkg, Request: n.req}
		}
		results, err := p.resolver.ResolveAll(ctx, jobs)
		if err != nil {
			return nil, err
		}

		var next []*planNode
		for i, n := range frontier {
			n.result = results[i]
			for _, d := range n.result.Dependencies {
				if !p.catalog.Has(d.Name) {
					continue
				}
				key := fold(d.Name)
				if !slices.Contains(n.deps, key) {
					n.deps = append(n.deps, key)
				}

				dn, seen := nodes[key]
				if seen && dn.result != nil {
					if err := checkPlanned(dn, d, n.pkg.Name()); err != nil {
						if dn == rootNode {
							return nil, err
						}
						return nil, &lateDemand{key: key, dep: d, from: n.pkg.Name()}
					}
					continue
				}
				if !seen {
					dn, err = p.newNode(key, d.Name, demands[key])
					if err != nil {
						return nil, err
					}
					nodes[key] = dn
					next = append(next, dn)
				}
				if err := dn.require(d, n.pkg.Name()); err != nil {
					return nil, err
				}
			}
		}

		for _, dn := range next {
			v, ok := dn.pkg.BestVersion(dn.constraints...)
			if !ok {
				return nil, bperrors.NewWithContext(bperrors.ErrCodeNotFound,
					fmt.Sprintf("%s has no version satisfying every dependent", dn.pkg.Name()),
					map[string]any{"package": dn.pkg.Name(), "constraints": constraintStrings(dn.constraints)})
			}
			dn.req.Version = v.Identifier
			slog.Debug("planned dependency", "package", dn.pkg.Name(), "version", v.Identifier)
		}
		frontier = next
	}

	order, err := buildOrder(nodes)
	if err != nil {
		return nil, err
	}

	plan := &BuildPlan{Root: rootPkg.Name(), Steps: make([]Step, 0, len(order))}
	plan.Init(header.KindBuildPlan, p.toolVersion)
	plan.Metadata["root"] = rootPkg.Name()
	for _, key := range order {
		n := nodes[key]
		step := Step{Result: *n.result}
		for _, d := range n.deps {
			step.DependsOn = append(step.DependsOn, nodes[d].pkg.Name())
		}
		plan.Steps = append(plan.Steps, step)
	}
	planSteps.Observe(float64(len(plan.Steps)))
	return plan, nil
}

func (p *Planner) newNode(key, name string, dm *demand) (*planNode, error) {
	pkg, err := p.catalog.Lookup(name, "")
	if err != nil {
		return nil, err
	}
	n := &planNode{
		key: key,
		pkg: pkg,
		req: recipe.Request{Package: pkg.Name(), Variants: recipe.Selection{}},
	}
	if dm != nil {
		n.constraints = slices.Clone(dm.constraints)
		n.req.Variants = dm.variants.Clone()
	}
	return n, nil
}

// add merges a dependency's range and variant requirements.
func (dm *demand) add(d recipe.DependencySpec, from string) error {
	if !d.Constraint.IsAny() {
		dm.constraints = append(dm.constraints, d.Constraint)
	}
	for _, r := range d.Requires {
		if prev, ok := dm.variants[r.Variant]; ok && prev != r.Value {
			return bperrors.NewWithContext(bperrors.ErrCodeConflictingDefinition,
				fmt.Sprintf("%s requires %s %s=%s but another dependent requires %v", from, d.Name, r.Variant, r.Value, prev),
				map[string]any{"package": d.Name, "variant": r.Variant, "values": []any{prev, r.Value}})
		}
		dm.variants[r.Variant] = r.Value
	}
	return nil
}

// require merges a dependent's requirements into an unresolved node.
func (n *planNode) require(d recipe.DependencySpec, from string) error {
	dm := demand{constraints: n.constraints, variants: n.req.Variants}
	if err := dm.add(d, from); err != nil {
		return err
	}
	n.constraints = dm.constraints
	return nil
}

// checkPlanned verifies that an already resolved node meets a later
// dependent's requirements.
func checkPlanned(n *planNode, d recipe.DependencySpec, from string) error {
	parsed, err := n.result.Version.Parsed()
	if err != nil {
		return bperrors.Wrap(bperrors.ErrCodeInternal, "planned version does not parse", err)
	}
	if !d.Constraint.Satisfied(parsed) {
		return bperrors.NewWithContext(bperrors.ErrCodeConflictingDefinition,
			fmt.Sprintf("%s requires %s@%s but %s is already planned", from, n.pkg.Name(), d.Constraint, n.result.Version.Identifier),
			map[string]any{"package": n.pkg.Name(), "version": n.result.Version.Identifier})
	}
	for _, r := range d.Requires {
		if !resolvedHas(n.result.Variants, r) {
			return bperrors.NewWithContext(bperrors.ErrCodeConflictingDefinition,
				fmt.Sprintf("%s requires %s %s=%s which the planned configuration does not have", from, n.pkg.Name(), r.Variant, r.Value),
				map[string]any{"package": n.pkg.Name(), "variant": r.Variant})
		}
	}
	return nil
}

func resolvedHas(vs []recipe.ResolvedVariant, r recipe.Requirement) bool {
	for _, v := range vs {
		if v.Name == r.Variant {
			return slices.Contains(v.Values, r.Value)
		}
	}
	return false
}

func constraintStrings(cs []version.Constraint) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.String()
	}
	return out
}

// buildOrder sorts planned packages so that dependencies come first, using
// Kahn's algorithm with a name-sorted queue for deterministic output.
func buildOrder(nodes map[string]*planNode) ([]string, error) {
	remaining := make(map[string]int, len(nodes))
	dependents := make(map[string][]string)
	for key, n := range nodes {
		remaining[key] = len(n.deps)
		for _, d := range n.deps {
			dependents[d] = append(dependents[d], key)
		}
	}

	var queue []string
	for key, deg := range remaining {
		if deg == 0 {
			queue = append(queue, key)
		}
	}
	sort.Strings(queue)

	order := make([]string, 0, len(nodes))
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		order = append(order, node)

		for _, dep := range dependents[node] {
			remaining[dep]--
			if remaining[dep] == 0 {
				queue = append(queue, dep)
				sort.Strings(queue)
			}
		}
	}

	if len(order) != len(nodes) {
		return nil, bperrors.New(bperrors.ErrCodeInvalidValue, "circular dependency detected in build plan")
	}
	return order, nil
}
