package recipe

import (
	"fmt"

	bperrors "github.com/boutproject/boutpkg/pkg/errors"
)

// Compiled is the output of argument compilation.
type Compiled struct {
	Definitions  []Definition     `json:"definitions" yaml:"definitions"`
	Dependencies []DependencySpec `json:"dependencies" yaml:"dependencies"`
}

// Definition returns the compiled definition with the given name.
func (c *Compiled) Definition(name string) (Definition, bool) {
	for _, d := range c.Definitions {
		if d.Name == name {
			return d, true
		}
	}
	return Definition{}, false
}

// Dependency returns the first included dependency on the named package.
func (c *Compiled) Dependency(name string) (DependencySpec, bool) {
	for _, d := range c.Dependencies {
		if d.Name == name {
			return d, true
		}
	}
	return DependencySpec{}, false
}

// Compile assembles the ordered definitions and the filtered dependency
// list for a resolved configuration. Declaration order is preserved. Two
// mappings producing different values for one flag fail with
// CONFLICTING_DEFINITION; identical repeats collapse onto the first.
func Compile(cfg *ResolvedConfig, mappings []ArgumentMapping, deps []DependencySpec) (*Compiled, error) {
	out := &Compiled{
		Definitions:  make([]Definition, 0, len(mappings)),
		Dependencies: make([]DependencySpec, 0, len(deps)),
	}

	seen := make(map[string]int, len(mappings))
	for _, m := range mappings {
		d, ok, err := compileMapping(m, cfg)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		if i, dup := seen[d.Name]; dup {
			prev := out.Definitions[i]
			if prev.Type != d.Type || prev.Value != d.Value {
				return nil, conflict(cfg.Package, prev, d)
			}
			continue
		}
		seen[d.Name] = len(out.Definitions)
		out.Definitions = append(out.Definitions, d)
	}

	for _, dep := range deps {
		holds, err := Evaluate(dep.When, cfg)
		if err != nil {
			return nil, err
		}
		if holds {
			out.Dependencies = append(out.Dependencies, dep.clone())
		}
	}
	return out, nil
}

func conflict(pkg string, a, b Definition) error {
	return bperrors.NewWithContext(bperrors.ErrCodeConflictingDefinition,
		fmt.Sprintf("%s: definition %s is assigned both %s and %s", pkg, a.Name, a.Value, b.Value),
		map[string]any{"package": pkg, "flag": a.Name, "values": []string{a.Value, b.Value}})
}

// checkFixedConflicts rejects unconditional fixed mappings that disagree
// on a flag. Conditional mappings are only checked when compiled.
func checkFixedConflicts(pkg string, mappings []ArgumentMapping) error {
	fixed := make(map[string]Definition)
	for _, m := range mappings {
		if !m.IsFixed() || m.When != nil {
			continue
		}
		d := *m.Fixed
		if prev, ok := fixed[m.Flag]; ok {
			if prev.Type != d.Type || prev.Value != d.Value {
				return conflict(pkg, prev, d)
			}
			continue
		}
		fixed[m.Flag] = d
	}
	return nil
}
