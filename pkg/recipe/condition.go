package recipe

import (
	"fmt"
	"strings"

	bperrors "github.com/boutproject/boutpkg/pkg/errors"
	"github.com/boutproject/boutpkg/pkg/version"
)

// Condition is a parsed "when" predicate over a resolved configuration.
// The set of implementations is closed: VariantTrue, VariantFalse,
// VariantEquals, VersionInRange and And.
type Condition interface {
	// Evaluate reports whether the predicate holds. References to
	// undeclared variants fail with UNRESOLVED_REFERENCE.
	Evaluate(cfg *ResolvedConfig) (bool, error)
	String() string

	check(reg *VariantRegistry) error
}

// VariantTrue holds when a boolean variant is enabled ("+name").
type VariantTrue struct {
	Name string
}

// VariantFalse holds when a boolean variant is disabled ("~name").
type VariantFalse struct {
	Name string
}

// VariantEquals holds when a variant selects Value ("name=value"). For
// multi-select variants Value must be among the selected values.
type VariantEquals struct {
	Name  string
	Value string
}

// VersionInRange holds when the resolved version satisfies Constraint ("@range").
type VersionInRange struct {
	Constraint version.Constraint
}

// And holds when every member holds. An empty And always holds.
type And []Condition

// ParseCondition parses a predicate such as "+petsc", "~debug@5.1:",
// "buildtests=all" or "@:3.17". An empty string yields a nil Condition,
// which Evaluate treats as always true.
func ParseCondition(s string) (Condition, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}

	terms, err := lexTerms(s)
	if err != nil {
		return nil, bperrors.Wrap(bperrors.ErrCodeInvalidRequest, "invalid condition", err)
	}

	var conds And
	for _, t := range terms {
		switch t.kind {
		case termEnable:
			conds = append(conds, VariantTrue{Name: t.name})
		case termDisable:
			conds = append(conds, VariantFalse{Name: t.name})
		case termAssign:
			for _, v := range splitValues(t.value) {
				conds = append(conds, VariantEquals{Name: t.name, Value: v})
			}
		case termVersion:
			c, err := version.ParseConstraint(t.value)
			if err != nil {
				return nil, bperrors.Wrap(bperrors.ErrCodeInvalidRequest,
					fmt.Sprintf("invalid version range in condition %q", s), err)
			}
			conds = append(conds, VersionInRange{Constraint: c})
		default:
			return nil, bperrors.NewWithContext(bperrors.ErrCodeInvalidRequest,
				fmt.Sprintf("condition %q: bare name %q is not a predicate", s, t.name),
				map[string]any{"condition": s})
		}
	}

	if len(conds) == 1 {
		return conds[0], nil
	}
	return conds, nil
}

// MustParseCondition is like ParseCondition but panics on error.
func MustParseCondition(s string) Condition {
	c, err := ParseCondition(s)
	if err != nil {
		panic(fmt.Sprintf("MustParseCondition(%q): %v", s, err))
	}
	return c
}

// Evaluate evaluates c against cfg. A nil condition always holds.
func Evaluate(c Condition, cfg *ResolvedConfig) (bool, error) {
	if c == nil {
		return true, nil
	}
	return c.Evaluate(cfg)
}

// ConditionString renders c, returning "" for a nil condition.
func ConditionString(c Condition) string {
	if c == nil {
		return ""
	}
	return c.String()
}

// Evaluate implements Condition.
func (c VariantTrue) Evaluate(cfg *ResolvedConfig) (bool, error) {
	return cfg.Bool(c.Name)
}

func (c VariantTrue) String() string { return "+" + c.Name }

// MarshalText renders the condition in recipe syntax.
func (c VariantTrue) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

func (c VariantTrue) check(reg *VariantRegistry) error {
	return checkBoolRef(reg, c.Name, c.String())
}

// Evaluate implements Condition.
func (c VariantFalse) Evaluate(cfg *ResolvedConfig) (bool, error) {
	b, err := cfg.Bool(c.Name)
	return !b, err
}

func (c VariantFalse) String() string { return "~" + c.Name }

// MarshalText renders the condition in recipe syntax.
func (c VariantFalse) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

func (c VariantFalse) check(reg *VariantRegistry) error {
	return checkBoolRef(reg, c.Name, c.String())
}

// Evaluate implements Condition.
func (c VariantEquals) Evaluate(cfg *ResolvedConfig) (bool, error) {
	rv, err := cfg.lookup(c.Name)
	if err != nil {
		return false, err
	}
	want := c.Value
	if rv.Kind == VariantBool {
		if b, ok := normalizeBool(want); ok {
			want = b
		}
	}
	for _, v := range rv.Values {
		if v == want {
			return true, nil
		}
	}
	return false, nil
}

func (c VariantEquals) String() string { return c.Name + "=" + c.Value }

// MarshalText renders the condition in recipe syntax.
func (c VariantEquals) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

func (c VariantEquals) check(reg *VariantRegistry) error {
	spec, ok := reg.Lookup(c.Name)
	if !ok {
		return unresolved(reg, c.Name, c.String())
	}
	if !spec.HasValidator() && !spec.Allows(c.Value) {
		return bperrors.NewWithContext(bperrors.ErrCodeInvalidValue,
			fmt.Sprintf("condition %q compares against a value outside the domain of %q", c.String(), c.Name),
			map[string]any{"variant": c.Name, "value": c.Value})
	}
	return nil
}

// Evaluate implements Condition.
func (c VersionInRange) Evaluate(cfg *ResolvedConfig) (bool, error) {
	return c.Constraint.Satisfied(cfg.Version), nil
}

func (c VersionInRange) String() string { return "@" + c.Constraint.String() }

// MarshalText renders the condition in recipe syntax.
func (c VersionInRange) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

func (c VersionInRange) check(*VariantRegistry) error { return nil }

// Evaluate implements Condition. Members are evaluated in order and the
// first failing member stops evaluation; an error in any evaluated member
// is returned.
func (c And) Evaluate(cfg *ResolvedConfig) (bool, error) {
	for _, m := range c {
		ok, err := m.Evaluate(cfg)
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}

func (c And) String() string {
	var b strings.Builder
	prevAssign := false
	for i, m := range c {
		_, isAssign := m.(VariantEquals)
		// sigils may be written adjacently, name=value needs whitespace on both sides
		if i > 0 && (isAssign || prevAssign) {
			b.WriteByte(' ')
		}
		b.WriteString(m.String())
		prevAssign = isAssign
	}
	return b.String()
}

// MarshalText renders the condition in recipe syntax.
func (c And) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

func (c And) check(reg *VariantRegistry) error {
	for _, m := range c {
		if err := m.check(reg); err != nil {
			return err
		}
	}
	return nil
}

// References returns the variant names a condition refers to, in order of
// appearance.
func References(c Condition) []string {
	var out []string
	var walk func(Condition)
	walk = func(c Condition) {
		switch v := c.(type) {
		case VariantTrue:
			out = append(out, v.Name)
		case VariantFalse:
			out = append(out, v.Name)
		case VariantEquals:
			out = append(out, v.Name)
		case And:
			for _, m := range v {
				walk(m)
			}
		}
	}
	walk(c)
	return out
}

// CheckCondition verifies at declaration time that c only refers to
// variants declared in reg, and that sigil predicates target booleans.
func CheckCondition(c Condition, reg *VariantRegistry) error {
	if c == nil {
		return nil
	}
	return c.check(reg)
}

func checkBoolRef(reg *VariantRegistry, name, expr string) error {
	spec, ok := reg.Lookup(name)
	if !ok {
		return unresolved(reg, name, expr)
	}
	if spec.Kind != VariantBool {
		return bperrors.NewWithContext(bperrors.ErrCodeInvalidValue,
			fmt.Sprintf("condition %q needs a boolean variant, %q is %s", expr, name, spec.Kind),
			map[string]any{"variant": name})
	}
	return nil
}

func unresolved(reg *VariantRegistry, name, expr string) error {
	return bperrors.NewWithContext(bperrors.ErrCodeUnresolvedReference,
		fmt.Sprintf("condition %q references variant %q, which %s does not declare", expr, name, reg.owner),
		map[string]any{"variant": name, "condition": expr, "package": reg.owner})
}
