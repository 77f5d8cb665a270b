package recipe

import (
	"slices"

	"github.com/boutproject/boutpkg/pkg/version"
)

// PatchSpec is a patch applied to the sources when its condition holds.
type PatchSpec struct {
	File string    `json:"file" yaml:"file"`
	When Condition `json:"when,omitempty" yaml:"when,omitempty"`
}

// Package is an immutable package recipe produced by a Builder. It is safe
// for concurrent use.
type Package struct {
	name        string
	revision    string
	description string
	homepage    string
	git         string
	url         string
	license     string
	maintainers []string

	versions []VersionSpec
	variants *VariantRegistry
	deps     []DependencySpec
	mappings []ArgumentMapping
	patches  []PatchSpec
}

// Name returns the package name.
func (p *Package) Name() string { return p.name }

// Revision returns the recipe revision label, empty for the only revision.
func (p *Package) Revision() string { return p.revision }

// Description returns the package description.
func (p *Package) Description() string { return p.description }

// Homepage returns the project homepage.
func (p *Package) Homepage() string { return p.homepage }

// Git returns the source repository URL.
func (p *Package) Git() string { return p.git }

// URL returns the release archive URL.
func (p *Package) URL() string { return p.url }

// License returns the SPDX license expression.
func (p *Package) License() string { return p.license }

// Maintainers returns the maintainer handles.
func (p *Package) Maintainers() []string { return slices.Clone(p.maintainers) }

// Versions returns the declared versions in declaration order.
func (p *Package) Versions() []VersionSpec { return slices.Clone(p.versions) }

// Variants returns the declared variants in declaration order.
func (p *Package) Variants() []VariantSpec { return p.variants.Variants() }

// Registry returns the package's variant registry. It must not be modified.
func (p *Package) Registry() *VariantRegistry { return p.variants }

// Dependencies returns every declared dependency, conditional or not.
func (p *Package) Dependencies() []DependencySpec {
	out := make([]DependencySpec, len(p.deps))
	for i, d := range p.deps {
		out[i] = d.clone()
	}
	return out
}

// Mappings returns the argument mappings in declaration order.
func (p *Package) Mappings() []ArgumentMapping {
	out := make([]ArgumentMapping, len(p.mappings))
	for i, m := range p.mappings {
		out[i] = m.clone()
	}
	return out
}

// Patches returns the declared patches.
func (p *Package) Patches() []PatchSpec { return slices.Clone(p.patches) }

// Version returns the version declared with the given identifier.
func (p *Package) Version(id string) (VersionSpec, bool) {
	for _, v := range p.versions {
		if v.Identifier == id {
			return v, true
		}
	}
	return VersionSpec{}, false
}

// DefaultVersion returns the preferred version, otherwise the highest
// numeric version, otherwise the highest named version.
func (p *Package) DefaultVersion() (VersionSpec, bool) {
	for _, v := range p.versions {
		if v.Preferred {
			return v, true
		}
	}
	return p.highest(func(version.Version) bool { return true })
}

// BestVersion returns the preferred version when it satisfies every
// constraint, otherwise the highest satisfying version, numeric versions
// first.
func (p *Package) BestVersion(cs ...version.Constraint) (VersionSpec, bool) {
	accept := func(v version.Version) bool {
		for _, c := range cs {
			if !c.Satisfied(v) {
				return false
			}
		}
		return true
	}
	for _, v := range p.versions {
		if !v.Preferred {
			continue
		}
		if parsed, err := v.Parsed(); err == nil && accept(parsed) {
			return v, true
		}
	}
	return p.highest(accept)
}

func (p *Package) highest(accept func(version.Version) bool) (VersionSpec, bool) {
	var best VersionSpec
	var bestParsed version.Version
	found := false
	for _, named := range []bool{false, true} {
		for _, v := range p.versions {
			parsed, err := v.Parsed()
			if err != nil || parsed.IsNamed() != named || !accept(parsed) {
				continue
			}
			if !found || bestParsed.Less(parsed) {
				best, bestParsed, found = v, parsed, true
			}
		}
		if found {
			break
		}
	}
	return best, found
}

// Info is a serializable description of a package.
type Info struct {
	Name         string            `json:"name" yaml:"name"`
	Revision     string            `json:"revision,omitempty" yaml:"revision,omitempty"`
	Description  string            `json:"description,omitempty" yaml:"description,omitempty"`
	Homepage     string            `json:"homepage,omitempty" yaml:"homepage,omitempty"`
	Git          string            `json:"git,omitempty" yaml:"git,omitempty"`
	URL          string            `json:"url,omitempty" yaml:"url,omitempty"`
	License      string            `json:"license,omitempty" yaml:"license,omitempty"`
	Maintainers  []string          `json:"maintainers,omitempty" yaml:"maintainers,omitempty"`
	Versions     []VersionSpec     `json:"versions" yaml:"versions"`
	Variants     []VariantSpec     `json:"variants" yaml:"variants"`
	Dependencies []DependencySpec  `json:"dependencies" yaml:"dependencies"`
	Mappings     []ArgumentMapping `json:"mappings" yaml:"mappings"`
	Patches      []PatchSpec       `json:"patches,omitempty" yaml:"patches,omitempty"`
}

// Info returns a serializable snapshot of the package.
func (p *Package) Info() Info {
	return Info{
		Name:         p.name,
		Revision:     p.revision,
		Description:  p.description,
		Homepage:     p.homepage,
		Git:          p.git,
		URL:          p.url,
		License:      p.license,
		Maintainers:  p.Maintainers(),
		Versions:     p.Versions(),
		Variants:     p.Variants(),
		Dependencies: p.Dependencies(),
		Mappings:     p.Mappings(),
		Patches:      p.Patches(),
	}
}
