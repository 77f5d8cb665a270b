package recipe

import (
	"fmt"
	"strings"

	bperrors "github.com/boutproject/boutpkg/pkg/errors"
)

// DefinitionType is the CMake cache type of a definition.
type DefinitionType string

const (
	TypeBool   DefinitionType = "BOOL"
	TypeString DefinitionType = "STRING"
)

// Definition is one compiled build-system definition.
type Definition struct {
	Name  string         `json:"name" yaml:"name"`
	Type  DefinitionType `json:"type" yaml:"type"`
	Value string         `json:"value" yaml:"value"`
}

// Bool reports the boolean value of a BOOL definition.
func (d Definition) Bool() bool {
	return d.Type == TypeBool && d.Value == "ON"
}

func (d Definition) String() string {
	return d.Name + "=" + d.Value
}

func boolDefinition(name string, b bool) Definition {
	v := "OFF"
	if b {
		v = "ON"
	}
	return Definition{Name: name, Type: TypeBool, Value: v}
}

type transformKind int

const (
	transformDefault transformKind = iota
	transformFirstEquals
	transformFirstNotEquals
)

// Transform turns a resolved variant into a definition value.
type Transform struct {
	kind     transformKind
	sentinel string
}

// DefaultTransform maps booleans to ON/OFF, single values verbatim and
// multi values joined with ";".
func DefaultTransform() Transform {
	return Transform{kind: transformDefault}
}

// FirstEquals yields ON when the first selected value equals sentinel.
func FirstEquals(sentinel string) Transform {
	return Transform{kind: transformFirstEquals, sentinel: sentinel}
}

// FirstNotEquals yields ON when the first selected value differs from sentinel.
func FirstNotEquals(sentinel string) Transform {
	return Transform{kind: transformFirstNotEquals, sentinel: sentinel}
}

func (t Transform) String() string {
	switch t.kind {
	case transformFirstEquals:
		return "first==" + t.sentinel
	case transformFirstNotEquals:
		return "first!=" + t.sentinel
	}
	return "default"
}

// MarshalText renders the transform name.
func (t Transform) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t Transform) apply(flag string, rv ResolvedVariant) (Definition, error) {
	switch t.kind {
	case transformFirstEquals, transformFirstNotEquals:
		if len(rv.Values) == 0 {
			return Definition{}, bperrors.New(bperrors.ErrCodeInvalidValue,
				fmt.Sprintf("variant %q has no value for %s", rv.Name, flag))
		}
		eq := rv.Values[0] == t.sentinel
		if t.kind == transformFirstNotEquals {
			eq = !eq
		}
		return boolDefinition(flag, eq), nil
	}

	switch rv.Kind {
	case VariantBool:
		if len(rv.Values) != 1 {
			return Definition{}, bperrors.New(bperrors.ErrCodeInvalidValue,
				fmt.Sprintf("variant %q does not hold a single boolean", rv.Name))
		}
		b, ok := normalizeBool(rv.Values[0])
		if !ok {
			return Definition{}, bperrors.NewWithContext(bperrors.ErrCodeInvalidValue,
				fmt.Sprintf("variant %q value %q cannot be rendered as ON/OFF", rv.Name, rv.Values[0]),
				map[string]any{"variant": rv.Name, "flag": flag})
		}
		return boolDefinition(flag, b == "true"), nil
	case VariantMulti:
		return Definition{Name: flag, Type: TypeString, Value: strings.Join(rv.Values, ";")}, nil
	default:
		var v string
		if len(rv.Values) > 0 {
			v = rv.Values[0]
		}
		return Definition{Name: flag, Type: TypeString, Value: v}, nil
	}
}

// ArgumentMapping pairs a definition name with either a fixed value or a
// variant and its transform.
type ArgumentMapping struct {
	Flag string `json:"flag" yaml:"flag"`

	// Fixed is used when Variant is empty.
	Fixed *Definition `json:"fixed,omitempty" yaml:"fixed,omitempty"`

	Variant   string    `json:"variant,omitempty" yaml:"variant,omitempty"`
	Transform Transform `json:"transform" yaml:"transform"`

	// When gates the mapping. Nil always applies.
	When Condition `json:"when,omitempty" yaml:"when,omitempty"`
}

// MappingOption configures an ArgumentMapping.
type MappingOption func(*ArgumentMapping) error

// WithTransform sets the transform of a variant mapping.
func WithTransform(t Transform) MappingOption {
	return func(m *ArgumentMapping) error {
		m.Transform = t
		return nil
	}
}

// MappingWhen gates a mapping on a condition.
func MappingWhen(cond string) MappingOption {
	return func(m *ArgumentMapping) error {
		c, err := ParseCondition(cond)
		if err != nil {
			return err
		}
		m.When = c
		return nil
	}
}

// FixedBool maps flag to a constant ON/OFF.
func FixedBool(flag string, b bool) ArgumentMapping {
	d := boolDefinition(flag, b)
	return ArgumentMapping{Flag: flag, Fixed: &d}
}

// FixedString maps flag to a constant string.
func FixedString(flag, value string) ArgumentMapping {
	return ArgumentMapping{Flag: flag, Fixed: &Definition{Name: flag, Type: TypeString, Value: value}}
}

// FromVariant maps flag to the value of a variant, through the default
// transform unless another is given.
func FromVariant(flag, variant string, opts ...MappingOption) (ArgumentMapping, error) {
	m := ArgumentMapping{Flag: flag, Variant: variant, Transform: DefaultTransform()}
	for _, opt := range opts {
		if err := opt(&m); err != nil {
			return ArgumentMapping{}, err
		}
	}
	return m, nil
}

// IsFixed reports whether the mapping carries a constant value.
func (m ArgumentMapping) IsFixed() bool {
	return m.Variant == "" && m.Fixed != nil
}

func (m ArgumentMapping) validate() error {
	if strings.TrimSpace(m.Flag) == "" {
		return bperrors.New(bperrors.ErrCodeInvalidValue, "argument mapping has no flag name")
	}
	if (m.Variant == "") == (m.Fixed == nil) {
		return bperrors.NewWithContext(bperrors.ErrCodeInvalidValue,
			fmt.Sprintf("mapping for %s needs exactly one of a fixed value or a variant", m.Flag),
			map[string]any{"flag": m.Flag})
	}
	return nil
}

func (m ArgumentMapping) clone() ArgumentMapping {
	if m.Fixed != nil {
		d := *m.Fixed
		m.Fixed = &d
	}
	return m
}

// compileMapping produces the definition for m, or ok=false when its
// condition does not hold.
func compileMapping(m ArgumentMapping, cfg *ResolvedConfig) (Definition, bool, error) {
	holds, err := Evaluate(m.When, cfg)
	if err != nil || !holds {
		return Definition{}, false, err
	}
	if m.IsFixed() {
		d := *m.Fixed
		d.Name = m.Flag
		return d, true, nil
	}
	rv, err := cfg.lookup(m.Variant)
	if err != nil {
		return Definition{}, false, err
	}
	d, err := m.Transform.apply(m.Flag, rv)
	if err != nil {
		return Definition{}, false, err
	}
	return d, true, nil
}
