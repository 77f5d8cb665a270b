package recipe

import (
	"fmt"
	"slices"

	bperrors "github.com/boutproject/boutpkg/pkg/errors"
)

// Builder assembles a Package from ordered declaration calls. The first
// failing call is remembered and reported by Build; later calls are
// ignored.
//
//	pkg, err := recipe.NewBuilder("boutpp").
//		AddVersion(recipe.TagVersion("5.1.0", "v5.1.0", recipe.WithSubmodules())).
//		AddVariant(recipe.BoolVariant("petsc", false, "Builds with PETSc support.")).
//		AddDependency("petsc+mpi", recipe.When("+petsc")).
//		AddVariantMapping("BOUT_USE_PETSC", "petsc").
//		Build()
type Builder struct {
	pkg *Package
	err error
}

// NewBuilder starts a package declaration.
func NewBuilder(name string) *Builder {
	return &Builder{pkg: &Package{
		name:     name,
		variants: NewVariantRegistry(name),
	}}
}

func (b *Builder) fail(err error) *Builder {
	if b.err == nil {
		b.err = err
	}
	return b
}

// Revision labels the recipe revision, for packages that ship more than one.
func (b *Builder) Revision(r string) *Builder {
	b.pkg.revision = r
	return b
}

// Description sets the package description.
func (b *Builder) Description(s string) *Builder {
	b.pkg.description = s
	return b
}

// Homepage sets the project homepage.
func (b *Builder) Homepage(s string) *Builder {
	b.pkg.homepage = s
	return b
}

// Git sets the source repository URL.
func (b *Builder) Git(s string) *Builder {
	b.pkg.git = s
	return b
}

// URL sets the release archive URL.
func (b *Builder) URL(s string) *Builder {
	b.pkg.url = s
	return b
}

// License sets the SPDX license expression.
func (b *Builder) License(s string) *Builder {
	b.pkg.license = s
	return b
}

// Maintainers appends maintainer handles.
func (b *Builder) Maintainers(names ...string) *Builder {
	b.pkg.maintainers = append(b.pkg.maintainers, names...)
	return b
}

// AddVersion declares a version.
func (b *Builder) AddVersion(v VersionSpec) *Builder {
	if b.err != nil {
		return b
	}
	if err := v.Validate(); err != nil {
		return b.fail(err)
	}
	if _, exists := b.pkg.Version(v.Identifier); exists {
		return b.fail(bperrors.NewWithContext(bperrors.ErrCodeInvalidValue,
			fmt.Sprintf("%s declares version %q twice", b.pkg.name, v.Identifier),
			map[string]any{"version": v.Identifier}))
	}
	if v.Preferred {
		if slices.ContainsFunc(b.pkg.versions, func(o VersionSpec) bool { return o.Preferred }) {
			return b.fail(bperrors.New(bperrors.ErrCodeInvalidValue,
				fmt.Sprintf("%s declares more than one preferred version", b.pkg.name)))
		}
	}
	b.pkg.versions = append(b.pkg.versions, v)
	return b
}

// AddVariant declares a variant.
func (b *Builder) AddVariant(v VariantSpec) *Builder {
	if b.err != nil {
		return b
	}
	if err := b.pkg.variants.Register(v); err != nil {
		return b.fail(err)
	}
	return b
}

// AddDependency declares a dependency from spec syntax.
func (b *Builder) AddDependency(spec string, opts ...DependencyOption) *Builder {
	if b.err != nil {
		return b
	}
	d, err := ParseDependency(spec, opts...)
	if err != nil {
		return b.fail(err)
	}
	b.pkg.deps = append(b.pkg.deps, d)
	return b
}

// AddArgumentMapping appends a mapping.
func (b *Builder) AddArgumentMapping(m ArgumentMapping) *Builder {
	if b.err != nil {
		return b
	}
	if err := m.validate(); err != nil {
		return b.fail(err)
	}
	b.pkg.mappings = append(b.pkg.mappings, m.clone())
	return b
}

// AddVariantMapping appends a mapping from flag to a variant.
func (b *Builder) AddVariantMapping(flag, variant string, opts ...MappingOption) *Builder {
	if b.err != nil {
		return b
	}
	m, err := FromVariant(flag, variant, opts...)
	if err != nil {
		return b.fail(err)
	}
	return b.AddArgumentMapping(m)
}

// AddPatch declares a patch applied when cond holds.
func (b *Builder) AddPatch(file, cond string) *Builder {
	if b.err != nil {
		return b
	}
	c, err := ParseCondition(cond)
	if err != nil {
		return b.fail(err)
	}
	b.pkg.patches = append(b.pkg.patches, PatchSpec{File: file, When: c})
	return b
}

// Build validates cross references and returns the finished package.
// The Builder must not be used afterwards.
func (b *Builder) Build() (*Package, error) {
	if b.err != nil {
		return nil, b.err
	}
	p := b.pkg
	if !isIdentifier(p.name) {
		return nil, bperrors.New(bperrors.ErrCodeInvalidValue, fmt.Sprintf("invalid package name %q", p.name))
	}
	if len(p.versions) == 0 {
		return nil, bperrors.New(bperrors.ErrCodeInvalidValue, fmt.Sprintf("%s declares no versions", p.name))
	}

	for _, d := range p.deps {
		if err := CheckCondition(d.When, p.variants); err != nil {
			return nil, err
		}
	}
	for _, m := range p.mappings {
		if err := CheckCondition(m.When, p.variants); err != nil {
			return nil, err
		}
		if m.Variant != "" {
			if _, ok := p.variants.Lookup(m.Variant); !ok {
				return nil, bperrors.NewWithContext(bperrors.ErrCodeUnresolvedReference,
					fmt.Sprintf("%s maps %s to undeclared variant %q", p.name, m.Flag, m.Variant),
					map[string]any{"flag": m.Flag, "variant": m.Variant})
			}
		}
	}
	for _, pt := range p.patches {
		if err := CheckCondition(pt.When, p.variants); err != nil {
			return nil, err
		}
	}
	if err := checkFixedConflicts(p.name, p.mappings); err != nil {
		return nil, err
	}

	b.pkg = nil
	return p, nil
}

// MustBuild is like Build but panics on error. Only use it for recipes
// declared in code.
func (b *Builder) MustBuild() *Package {
	p, err := b.Build()
	if err != nil {
		panic(fmt.Sprintf("recipe %s: %v", b.name(), err))
	}
	return p
}

func (b *Builder) name() string {
	if b.pkg == nil {
		return "<built>"
	}
	return b.pkg.name
}
