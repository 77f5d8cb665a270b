package recipe

import (
	"fmt"
	"slices"
	"strconv"

	bperrors "github.com/boutproject/boutpkg/pkg/errors"
	"github.com/boutproject/boutpkg/pkg/version"
)

// ResolvedVariant is one entry of a resolved configuration.
type ResolvedVariant struct {
	Name     string      `json:"name" yaml:"name"`
	Kind     VariantKind `json:"kind" yaml:"kind"`
	Values   []string    `json:"values" yaml:"values"`
	Explicit bool        `json:"explicit,omitempty" yaml:"explicit,omitempty"`
}

// ResolvedConfig is the complete, validated selection of every declared
// variant for one build request. It is never shared between requests.
type ResolvedConfig struct {
	Package string
	Version version.Version

	entries []ResolvedVariant
	index   map[string]int
}

func newResolvedConfig(pkg string, v version.Version, n int) *ResolvedConfig {
	return &ResolvedConfig{
		Package: pkg,
		Version: v,
		entries: make([]ResolvedVariant, 0, n),
		index:   make(map[string]int, n),
	}
}

func (c *ResolvedConfig) set(spec VariantSpec, values []string, explicit bool) {
	c.index[spec.Name] = len(c.entries)
	c.entries = append(c.entries, ResolvedVariant{
		Name:     spec.Name,
		Kind:     spec.Kind,
		Values:   slices.Clone(values),
		Explicit: explicit,
	})
}

func (c *ResolvedConfig) lookup(name string) (ResolvedVariant, error) {
	i, ok := c.index[name]
	if !ok {
		return ResolvedVariant{}, bperrors.NewWithContext(bperrors.ErrCodeUnresolvedReference,
			fmt.Sprintf("variant %q is not declared by %s", name, c.Package),
			map[string]any{"variant": name, "package": c.Package})
	}
	return c.entries[i], nil
}

// Has reports whether name is a declared variant.
func (c *ResolvedConfig) Has(name string) bool {
	_, ok := c.index[name]
	return ok
}

// Values returns the selected values of a variant in selection order.
func (c *ResolvedConfig) Values(name string) ([]string, bool) {
	i, ok := c.index[name]
	if !ok {
		return nil, false
	}
	return slices.Clone(c.entries[i].Values), true
}

// First returns the designated single value of a variant: the first
// selected element.
func (c *ResolvedConfig) First(name string) (string, bool) {
	i, ok := c.index[name]
	if !ok || len(c.entries[i].Values) == 0 {
		return "", false
	}
	return c.entries[i].Values[0], true
}

// Bool returns the value of a boolean variant.
func (c *ResolvedConfig) Bool(name string) (bool, error) {
	rv, err := c.lookup(name)
	if err != nil {
		return false, err
	}
	if len(rv.Values) != 1 {
		return false, bperrors.NewWithContext(bperrors.ErrCodeInvalidValue,
			fmt.Sprintf("variant %q does not hold a single boolean", name),
			map[string]any{"variant": name, "values": rv.Values})
	}
	b, err := strconv.ParseBool(rv.Values[0])
	if err != nil {
		return false, bperrors.WrapWithContext(bperrors.ErrCodeInvalidValue,
			fmt.Sprintf("variant %q is not boolean", name), err,
			map[string]any{"variant": name, "value": rv.Values[0]})
	}
	return b, nil
}

// Explicit reports whether the variant value came from the request rather
// than the declared default.
func (c *ResolvedConfig) Explicit(name string) bool {
	i, ok := c.index[name]
	return ok && c.entries[i].Explicit
}

// Variants returns every resolved variant in declaration order.
func (c *ResolvedConfig) Variants() []ResolvedVariant {
	out := make([]ResolvedVariant, len(c.entries))
	for i, e := range c.entries {
		e.Values = slices.Clone(e.Values)
		out[i] = e
	}
	return out
}

// Selection returns the resolved configuration as a fully explicit
// selection, suitable for feeding back into Resolve.
func (c *ResolvedConfig) Selection() Selection {
	sel := make(Selection, len(c.entries))
	for _, e := range c.entries {
		sel[e.Name] = slices.Clone(e.Values)
	}
	return sel
}
