package recipe

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	bperrors "github.com/boutproject/boutpkg/pkg/errors"
	"github.com/boutproject/boutpkg/pkg/version"
)

// UsageKind classifies how a dependency is used.
type UsageKind string

const (
	UsageBuild UsageKind = "build"
	UsageLink  UsageKind = "link"
	UsageRun   UsageKind = "run"
	UsageTest  UsageKind = "test"
)

var usageOrder = []UsageKind{UsageBuild, UsageLink, UsageRun, UsageTest}

// DefaultUsage is applied when a dependency declares no usage kinds.
var DefaultUsage = []UsageKind{UsageBuild, UsageLink}

// ParseUsageKind parses a usage kind name.
func ParseUsageKind(s string) (UsageKind, error) {
	k := UsageKind(strings.ToLower(strings.TrimSpace(s)))
	if !slices.Contains(usageOrder, k) {
		return "", fmt.Errorf("invalid usage kind: %s", s)
	}
	return k, nil
}

// Requirement is a variant setting a dependency requires of its target.
type Requirement struct {
	Variant string `json:"variant" yaml:"variant"`
	Value   string `json:"value" yaml:"value"`
}

// DependencySpec is a declared dependency of a package.
type DependencySpec struct {
	// Name is the target package.
	Name string `json:"name" yaml:"name"`

	// Constraint restricts the target's version. Empty matches any version.
	Constraint version.Constraint `json:"version,omitempty" yaml:"version,omitempty"`

	// Requires lists variant settings of the target, in declaration order.
	Requires []Requirement `json:"requires,omitempty" yaml:"requires,omitempty"`

	// Usage is the sorted set of usage kinds.
	Usage []UsageKind `json:"usage" yaml:"usage"`

	// When gates the dependency on the owning package's configuration.
	When Condition `json:"when,omitempty" yaml:"when,omitempty"`
}

// dependencyDoc is the wire form of a DependencySpec.
type dependencyDoc struct {
	Name       string             `json:"name" yaml:"name"`
	Constraint version.Constraint `json:"version,omitempty" yaml:"version,omitempty"`
	Requires   []Requirement      `json:"requires,omitempty" yaml:"requires,omitempty"`
	Usage      []UsageKind        `json:"usage" yaml:"usage"`
	When       string             `json:"when,omitempty" yaml:"when,omitempty"`
}

func (d *DependencySpec) fromDoc(doc dependencyDoc) error {
	when, err := ParseCondition(doc.When)
	if err != nil {
		return fmt.Errorf("dependency %s: %w", doc.Name, err)
	}
	*d = DependencySpec{
		Name:       doc.Name,
		Constraint: doc.Constraint,
		Requires:   doc.Requires,
		Usage:      doc.Usage,
		When:       when,
	}
	return nil
}

// UnmarshalJSON decodes a dependency, parsing its condition.
func (d *DependencySpec) UnmarshalJSON(b []byte) error {
	var doc dependencyDoc
	if err := json.Unmarshal(b, &doc); err != nil {
		return err
	}
	return d.fromDoc(doc)
}

// UnmarshalYAML decodes a dependency, parsing its condition.
func (d *DependencySpec) UnmarshalYAML(node *yaml.Node) error {
	var doc dependencyDoc
	if err := node.Decode(&doc); err != nil {
		return err
	}
	return d.fromDoc(doc)
}

// DependencyOption configures a DependencySpec.
type DependencyOption func(*DependencySpec) error

// WithUsage sets the usage kinds.
func WithUsage(kinds ...UsageKind) DependencyOption {
	return func(d *DependencySpec) error {
		d.Usage = nil
		for _, k := range kinds {
			if !slices.Contains(usageOrder, k) {
				return fmt.Errorf("invalid usage kind: %s", k)
			}
			if !slices.Contains(d.Usage, k) {
				d.Usage = append(d.Usage, k)
			}
		}
		sortUsage(d.Usage)
		return nil
	}
}

// When gates the dependency on a condition such as "+petsc" or "@5.0.0".
func When(cond string) DependencyOption {
	return func(d *DependencySpec) error {
		c, err := ParseCondition(cond)
		if err != nil {
			return err
		}
		d.When = c
		return nil
	}
}

// ParseDependency parses a dependency spec such as
// "petsc+hypre+mpi~debug@3.7:3.23" or "py-boutdata@0.3.0:".
func ParseDependency(s string, opts ...DependencyOption) (DependencySpec, error) {
	terms, err := lexTerms(s)
	if err != nil {
		return DependencySpec{}, bperrors.Wrap(bperrors.ErrCodeInvalidRequest, "invalid dependency", err)
	}
	if len(terms) == 0 || terms[0].kind != termName {
		return DependencySpec{}, bperrors.NewWithContext(bperrors.ErrCodeInvalidRequest,
			fmt.Sprintf("dependency %q must start with a package name", s),
			map[string]any{"dependency": s})
	}

	d := DependencySpec{Name: terms[0].name}
	for _, t := range terms[1:] {
		switch t.kind {
		case termEnable:
			d.Requires = append(d.Requires, Requirement{Variant: t.name, Value: "true"})
		case termDisable:
			d.Requires = append(d.Requires, Requirement{Variant: t.name, Value: "false"})
		case termAssign:
			d.Requires = append(d.Requires, Requirement{Variant: t.name, Value: t.value})
		case termVersion:
			if !d.Constraint.IsAny() {
				return DependencySpec{}, bperrors.New(bperrors.ErrCodeInvalidRequest,
					fmt.Sprintf("dependency %q has more than one version constraint", s))
			}
			c, err := version.ParseConstraint(t.value)
			if err != nil {
				return DependencySpec{}, bperrors.Wrap(bperrors.ErrCodeInvalidRequest,
					fmt.Sprintf("invalid version constraint in dependency %q", s), err)
			}
			d.Constraint = c
		default:
			return DependencySpec{}, bperrors.New(bperrors.ErrCodeInvalidRequest,
				fmt.Sprintf("dependency %q names more than one package", s))
		}
	}

	for _, opt := range opts {
		if err := opt(&d); err != nil {
			return DependencySpec{}, bperrors.Wrap(bperrors.ErrCodeInvalidRequest,
				fmt.Sprintf("invalid option for dependency %q", s), err)
		}
	}
	if len(d.Usage) == 0 {
		d.Usage = slices.Clone(DefaultUsage)
	}
	return d, nil
}

// Selection returns the required variants as a selection for the target.
func (d DependencySpec) Selection() Selection {
	sel := make(Selection, len(d.Requires))
	for _, r := range d.Requires {
		sel[r.Variant] = r.Value
	}
	return sel
}

// HasUsage reports whether the dependency is used as kind.
func (d DependencySpec) HasUsage(kind UsageKind) bool {
	return slices.Contains(d.Usage, kind)
}

// String renders the dependency in spec syntax, without usage or condition.
func (d DependencySpec) String() string {
	var b strings.Builder
	b.WriteString(d.Name)
	if !d.Constraint.IsAny() {
		b.WriteByte('@')
		b.WriteString(d.Constraint.String())
	}
	var assigns []string
	for _, r := range d.Requires {
		switch r.Value {
		case "true":
			b.WriteString("+" + r.Variant)
		case "false":
			b.WriteString("~" + r.Variant)
		default:
			assigns = append(assigns, r.Variant+"="+r.Value)
		}
	}
	for _, a := range assigns {
		b.WriteByte(' ')
		b.WriteString(a)
	}
	return b.String()
}

func (d DependencySpec) clone() DependencySpec {
	d.Requires = slices.Clone(d.Requires)
	d.Usage = slices.Clone(d.Usage)
	return d
}

func sortUsage(kinds []UsageKind) {
	slices.SortFunc(kinds, func(a, b UsageKind) int {
		return slices.Index(usageOrder, a) - slices.Index(usageOrder, b)
	})
}
