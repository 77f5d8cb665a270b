package recipe

import (
	"fmt"
	"slices"
	"strings"

	bperrors "github.com/boutproject/boutpkg/pkg/errors"
)

// VariantKind is the multiplicity and domain class of a variant.
type VariantKind string

const (
	// VariantBool is a toggle with the domain {true, false}.
	VariantBool VariantKind = "bool"
	// VariantSingle selects exactly one value from an ordered domain.
	VariantSingle VariantKind = "single"
	// VariantMulti selects one or more values from an ordered domain.
	VariantMulti VariantKind = "multi"
)

// VariantSpec declares a user-selectable build option.
type VariantSpec struct {
	// Name is unique within a package.
	Name string `json:"name" yaml:"name"`

	// Description is shown in package listings.
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// Kind is bool, single or multi.
	Kind VariantKind `json:"kind" yaml:"kind"`

	// Values is the ordered domain. Empty for boolean variants.
	Values []string `json:"values,omitempty" yaml:"values,omitempty"`

	// Default holds the default selection. Boolean variants hold
	// a single "true" or "false".
	Default []string `json:"default" yaml:"default"`

	// Validator, when set, replaces the domain check for explicitly
	// requested values.
	Validator ValidatorFunc `json:"-" yaml:"-"`
}

// BoolVariant declares a boolean variant.
func BoolVariant(name string, def bool, description string) VariantSpec {
	return VariantSpec{
		Name:        name,
		Description: description,
		Kind:        VariantBool,
		Default:     []string{formatBool(def)},
	}
}

// SingleVariant declares a single-select variant.
func SingleVariant(name, def string, values []string, description string) VariantSpec {
	return VariantSpec{
		Name:        name,
		Description: description,
		Kind:        VariantSingle,
		Values:      slices.Clone(values),
		Default:     []string{def},
	}
}

// MultiVariant declares a multi-select variant.
func MultiVariant(name string, def []string, values []string, description string) VariantSpec {
	return VariantSpec{
		Name:        name,
		Description: description,
		Kind:        VariantMulti,
		Values:      slices.Clone(values),
		Default:     slices.Clone(def),
	}
}

// WithValidator returns a copy of the spec carrying fn as its validator.
func (v VariantSpec) WithValidator(fn ValidatorFunc) VariantSpec {
	v.Validator = fn
	return v
}

// HasValidator reports whether a custom validator is attached.
func (v VariantSpec) HasValidator() bool {
	return v.Validator != nil
}

// Allows reports whether value is in the declared domain.
func (v VariantSpec) Allows(value string) bool {
	if v.Kind == VariantBool {
		_, ok := normalizeBool(value)
		return ok
	}
	return slices.Contains(v.Values, value)
}

// Validate checks the declaration itself: a known kind, a non-empty domain
// and a default drawn from that domain.
func (v VariantSpec) Validate() error {
	if strings.TrimSpace(v.Name) == "" {
		return bperrors.New(bperrors.ErrCodeInvalidValue, "variant name cannot be empty")
	}
	if !isIdentifier(v.Name) {
		return bperrors.NewWithContext(bperrors.ErrCodeInvalidValue,
			fmt.Sprintf("variant name %q contains invalid characters", v.Name),
			map[string]any{"variant": v.Name})
	}

	switch v.Kind {
	case VariantBool:
		if len(v.Default) != 1 {
			return invalidDefault(v, "boolean variant needs exactly one default")
		}
		if _, ok := normalizeBool(v.Default[0]); !ok {
			return invalidDefault(v, fmt.Sprintf("default %q is not a boolean", v.Default[0]))
		}
	case VariantSingle, VariantMulti:
		if len(v.Values) == 0 {
			return invalidDefault(v, "variant declares no allowed values")
		}
		if len(v.Default) == 0 {
			return invalidDefault(v, "variant declares no default")
		}
		if v.Kind == VariantSingle && len(v.Default) > 1 {
			return invalidDefault(v, "single-select variant has more than one default")
		}
		for _, d := range v.Default {
			if !slices.Contains(v.Values, d) {
				return invalidDefault(v, fmt.Sprintf("default %q is not one of %v", d, v.Values))
			}
		}
	default:
		return invalidDefault(v, fmt.Sprintf("unknown variant kind %q", v.Kind))
	}
	return nil
}

func invalidDefault(v VariantSpec, msg string) error {
	return bperrors.NewWithContext(bperrors.ErrCodeInvalidValue,
		fmt.Sprintf("variant %q: %s", v.Name, msg),
		map[string]any{"variant": v.Name})
}

// normalizeBool maps the accepted spellings of a boolean onto "true" or "false".
func normalizeBool(s string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "on", "yes", "1":
		return "true", true
	case "false", "off", "no", "0":
		return "false", true
	}
	return "", false
}

func formatBool(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isNameChar(s[i]) {
			return false
		}
	}
	return true
}

func isNameChar(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '_' || c == '-'
}
