package version

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// ErrInvalidRange is returned when a range or constraint cannot be parsed.
var ErrInvalidRange = errors.New("invalid version range")

// Range is an inclusive version interval. A nil bound is open.
// A Range with equal bounds written without a colon matches a single version
// (at the precision it was written with).
type Range struct {
	Low  *Version
	High *Version

	exact bool
}

// ParseRange parses "a", "a:b", ":b" or "a:".
func ParseRange(s string) (Range, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == ":" {
		return Range{}, fmt.Errorf("%w: %q", ErrInvalidRange, s)
	}

	lo, hi, hasColon := strings.Cut(s, ":")
	if !hasColon {
		v, err := ParseVersion(s)
		if err != nil {
			return Range{}, fmt.Errorf("%w: %w", ErrInvalidRange, err)
		}
		return Range{Low: &v, High: &v, exact: true}, nil
	}
	if strings.Contains(hi, ":") {
		return Range{}, fmt.Errorf("%w: %q has more than one ':'", ErrInvalidRange, s)
	}

	var r Range
	if lo = strings.TrimSpace(lo); lo != "" {
		v, err := ParseVersion(lo)
		if err != nil {
			return Range{}, fmt.Errorf("%w: lower bound: %w", ErrInvalidRange, err)
		}
		r.Low = &v
	}
	if hi = strings.TrimSpace(hi); hi != "" {
		v, err := ParseVersion(hi)
		if err != nil {
			return Range{}, fmt.Errorf("%w: upper bound: %w", ErrInvalidRange, err)
		}
		r.High = &v
	}
	if r.Low != nil && r.High != nil && r.Low.Compare(*r.High) > 0 {
		return Range{}, fmt.Errorf("%w: %q lower bound exceeds upper bound", ErrInvalidRange, s)
	}
	return r, nil
}

// Contains reports whether v lies within the range.
func (r Range) Contains(v Version) bool {
	if r.Low != nil && v.Compare(*r.Low) < 0 {
		return false
	}
	if r.High != nil && v.Compare(*r.High) > 0 {
		return false
	}
	return true
}

// String renders the range in colon syntax.
func (r Range) String() string {
	if r.exact && r.Low != nil {
		return r.Low.String()
	}
	var sb strings.Builder
	if r.Low != nil {
		sb.WriteString(r.Low.String())
	}
	sb.WriteByte(':')
	if r.High != nil {
		sb.WriteString(r.High.String())
	}
	return sb.String()
}

func (r Range) numeric() bool {
	return (r.Low == nil || !r.Low.IsNamed()) && (r.High == nil || !r.High.IsNamed())
}

// semverExpr translates a numeric range into a Masterminds constraint
// expression. Upper bounds are widened to cover every version matching
// the bound at its precision.
func (r Range) semverExpr() string {
	var parts []string
	if r.Low != nil {
		parts = append(parts, fmt.Sprintf(">= %d.%d.%d", r.Low.Major, r.Low.Minor, r.Low.Patch))
	}
	if h := r.High; h != nil {
		switch h.Precision {
		case 1:
			parts = append(parts, fmt.Sprintf("< %d.0.0", h.Major+1))
		case 2:
			parts = append(parts, fmt.Sprintf("< %d.%d.0", h.Major, h.Minor+1))
		default:
			parts = append(parts, fmt.Sprintf("<= %d.%d.%d", h.Major, h.Minor, h.Patch))
		}
	}
	if len(parts) == 0 {
		return "*"
	}
	return strings.Join(parts, ", ")
}

// Constraint is a union of ranges. The zero value matches every version.
type Constraint struct {
	ranges   []Range
	compiled *semver.Constraints
}

// Any returns a constraint that matches every version.
func Any() Constraint {
	return Constraint{}
}

// ParseConstraint parses a comma separated list of ranges.
// An empty string yields a constraint matching every version.
func ParseConstraint(s string) (Constraint, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Constraint{}, nil
	}

	var c Constraint
	allNumeric := true
	for _, part := range strings.Split(s, ",") {
		r, err := ParseRange(part)
		if err != nil {
			return Constraint{}, err
		}
		allNumeric = allNumeric && r.numeric()
		c.ranges = append(c.ranges, r)
	}

	if allNumeric {
		exprs := make([]string, 0, len(c.ranges))
		for _, r := range c.ranges {
			exprs = append(exprs, r.semverExpr())
		}
		compiled, err := semver.NewConstraint(strings.Join(exprs, " || "))
		if err != nil {
			return Constraint{}, fmt.Errorf("%w: %q: %w", ErrInvalidRange, s, err)
		}
		c.compiled = compiled
	}
	return c, nil
}

// MustParseConstraint is like ParseConstraint but panics on error.
func MustParseConstraint(s string) Constraint {
	c, err := ParseConstraint(s)
	if err != nil {
		panic(fmt.Sprintf("MustParseConstraint: %v", err))
	}
	return c
}

// IsAny reports whether the constraint matches every version.
func (c Constraint) IsAny() bool {
	return len(c.ranges) == 0
}

// Ranges returns a copy of the constraint's ranges.
func (c Constraint) Ranges() []Range {
	out := make([]Range, len(c.ranges))
	copy(out, c.ranges)
	return out
}

// Satisfied reports whether v matches any of the constraint's ranges.
func (c Constraint) Satisfied(v Version) bool {
	if c.IsAny() {
		return true
	}
	if c.compiled != nil && !v.IsNamed() {
		sv := semver.New(uint64(v.Major), uint64(v.Minor), uint64(v.Patch), "", "")
		return c.compiled.Check(sv)
	}
	for _, r := range c.ranges {
		if r.Contains(v) {
			return true
		}
	}
	return false
}

// SatisfiedBy parses s and reports whether it satisfies the constraint.
func (c Constraint) SatisfiedBy(s string) (bool, error) {
	v, err := ParseVersion(s)
	if err != nil {
		return false, err
	}
	return c.Satisfied(v), nil
}

// String renders the constraint in its canonical colon syntax.
func (c Constraint) String() string {
	parts := make([]string, 0, len(c.ranges))
	for _, r := range c.ranges {
		parts = append(parts, r.String())
	}
	return strings.Join(parts, ",")
}

// MarshalText implements encoding.TextMarshaler.
func (c Constraint) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Constraint) UnmarshalText(b []byte) error {
	parsed, err := ParseConstraint(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
