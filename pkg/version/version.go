package version

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Error types for version parsing failures
var (
	ErrEmptyVersion      = errors.New("version string is empty")
	ErrTooManyComponents = errors.New("version has more than 3 components")
	ErrNonNumeric        = errors.New("version component is not numeric")
	ErrNegativeComponent = errors.New("version component cannot be negative")
	ErrInvalidName       = errors.New("version name contains invalid characters")
)

// infinityNames are named versions considered newer than any numeric
// version, ordered newest first.
var infinityNames = []string{"develop", "main", "master", "head", "trunk", "stable"}

// Version represents a package version. Numeric versions carry Major, Minor
// and Patch with a Precision of 1, 2 or 3; named versions carry only Name.
type Version struct {
	Major int `json:"major,omitempty" yaml:"major,omitempty"`
	Minor int `json:"minor,omitempty" yaml:"minor,omitempty"`
	Patch int `json:"patch,omitempty" yaml:"patch,omitempty"`

	// Precision indicates how many components are significant (1, 2, or 3)
	Precision int `json:"precision,omitempty" yaml:"precision,omitempty"`

	// Extras stores trailing metadata such as "-rc1".
	Extras string `json:"extras,omitempty" yaml:"extras,omitempty"`

	// Name is set for non-numeric versions like "develop".
	Name string `json:"name,omitempty" yaml:"name,omitempty"`
}

// NewVersion creates a numeric Version with all three components significant.
func NewVersion(major, minor, patch int) Version {
	return Version{
		Major:     major,
		Minor:     minor,
		Patch:     patch,
		Precision: 3,
	}
}

// IsNamed reports whether v is a non-numeric version.
func (v Version) IsNamed() bool {
	return v.Name != ""
}

// String returns the version respecting its precision. Extras are not included.
func (v Version) String() string {
	if v.IsNamed() {
		return v.Name
	}
	switch v.Precision {
	case 1:
		return fmt.Sprintf("%d", v.Major)
	case 2:
		return fmt.Sprintf("%d.%d", v.Major, v.Minor)
	default:
		return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
	}
}

// ParseVersion parses a version string.
// Numeric formats: "1", "1.2", "1.2.3", "v1.2.3", "1.2.3-suffix", "1.2.3+metadata".
// Anything starting with a letter (other than a "v" followed by a digit) is a
// named version and may contain letters, digits, '.', '-' and '_'.
func ParseVersion(s string) (Version, error) {
	if s == "" {
		return Version{}, ErrEmptyVersion
	}

	if isNameStart(s[0]) && !(s[0] == 'v' && len(s) > 1 && isDigit(s[1])) {
		for i := 0; i < len(s); i++ {
			c := s[i]
			if !isNameStart(c) && !isDigit(c) && c != '.' && c != '-' && c != '_' {
				return Version{}, fmt.Errorf("%w: %q", ErrInvalidName, s)
			}
		}
		return Version{Name: s}, nil
	}

	s = strings.TrimPrefix(s, "v")
	var v Version

	// Split off extras after a dash or plus that follows a digit, so that
	// "1.2.3-rc.1" keeps its dotted suffix but "-1" stays a (negative) number.
	mainPart := s
	for i, ch := range s {
		if (ch == '-' || ch == '+') && i > 0 && isDigit(s[i-1]) {
			mainPart = s[:i]
			v.Extras = s[i:]
			break
		}
	}

	parts := strings.Split(mainPart, ".")
	if len(parts) > 3 {
		return Version{}, ErrTooManyComponents
	}

	for i, part := range parts {
		if part == "" {
			return Version{}, fmt.Errorf("%w: empty component", ErrNonNumeric)
		}
		num, err := strconv.Atoi(part)
		if err != nil {
			return Version{}, fmt.Errorf("%w: %q", ErrNonNumeric, part)
		}
		if num < 0 {
			return Version{}, fmt.Errorf("%w: %d", ErrNegativeComponent, num)
		}

		switch i {
		case 0:
			v.Major = num
		case 1:
			v.Minor = num
		case 2:
			v.Patch = num
		}
	}

	v.Precision = len(parts)
	return v, nil
}

// MustParseVersion parses a version string and panics if parsing fails.
// Only use this for hardcoded strings or in tests.
func MustParseVersion(s string) Version {
	v, err := ParseVersion(s)
	if err != nil {
		panic(fmt.Sprintf("MustParseVersion: %v", err))
	}
	return v
}

// rank orders the three version classes: other names < numeric < infinity names.
func (v Version) rank() int {
	if !v.IsNamed() {
		return 1
	}
	if infinityIndex(v.Name) >= 0 {
		return 2
	}
	return 0
}

func infinityIndex(name string) int {
	for i, n := range infinityNames {
		if n == name {
			return i
		}
	}
	return -1
}

// Compare returns -1, 0 or 1 comparing v with other.
// Numeric comparison respects the lower of the two precisions, so "5.1"
// compares equal to "5.1.3".
func (v Version) Compare(other Version) int {
	rv, ro := v.rank(), other.rank()
	if rv != ro {
		if rv < ro {
			return -1
		}
		return 1
	}

	switch rv {
	case 2:
		// lower index is newer
		iv, io := infinityIndex(v.Name), infinityIndex(other.Name)
		switch {
		case iv < io:
			return 1
		case iv > io:
			return -1
		}
		return 0
	case 0:
		return strings.Compare(v.Name, other.Name)
	}

	precision := v.Precision
	if other.Precision < precision {
		precision = other.Precision
	}

	if c := compareInt(v.Major, other.Major); c != 0 || precision == 1 {
		return c
	}
	if c := compareInt(v.Minor, other.Minor); c != 0 || precision == 2 {
		return c
	}
	return compareInt(v.Patch, other.Patch)
}

// Less orders versions strictly: when two numeric versions compare equal
// under precision, the less precise one sorts first.
func (v Version) Less(other Version) bool {
	if c := v.Compare(other); c != 0 {
		return c < 0
	}
	if v.IsNamed() || other.IsNamed() {
		return false
	}
	return v.Precision < other.Precision
}

// EqualsOrNewer returns true if v is equal to or newer than other.
func (v Version) EqualsOrNewer(other Version) bool {
	return v.Compare(other) >= 0
}

// IsNewer returns true if v is strictly newer than other.
func (v Version) IsNewer(other Version) bool {
	return v.Compare(other) > 0
}

// Equals returns true if v exactly equals other, ignoring precision.
func (v Version) Equals(other Version) bool {
	if v.IsNamed() || other.IsNamed() {
		return v.Name == other.Name
	}
	return v.Major == other.Major && v.Minor == other.Minor && v.Patch == other.Patch
}

// IsValid returns true if the version has valid values.
func (v Version) IsValid() bool {
	if v.IsNamed() {
		return true
	}
	if v.Major < 0 || v.Minor < 0 || v.Patch < 0 {
		return false
	}
	return v.Precision >= 1 && v.Precision <= 3
}

// Sort orders versions from oldest to newest.
func Sort(vs []Version) {
	sort.SliceStable(vs, func(i, j int) bool {
		return vs[i].Less(vs[j])
	})
}

func compareInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isNameStart(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
