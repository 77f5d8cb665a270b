package recipe

import (
	"fmt"
	"log/slog"
	"slices"
	"sort"
	"strings"

	bperrors "github.com/boutproject/boutpkg/pkg/errors"
	"github.com/boutproject/boutpkg/pkg/version"
)

// Selection maps variant names to requested values. A value may be a
// string, a bool, a []string or a []any of those. Strings containing commas
// are split into sequences.
type Selection map[string]any

// Names returns the requested variant names in sorted order.
func (s Selection) Names() []string {
	names := make([]string, 0, len(s))
	for k := range s {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Clone returns a shallow copy of the selection.
func (s Selection) Clone() Selection {
	out := make(Selection, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// requestedValues flattens a raw selection value into an ordered list.
func requestedValues(raw any) ([]string, error) {
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case string:
		return splitValues(v), nil
	case bool:
		return []string{formatBool(v)}, nil
	case []string:
		var out []string
		for _, s := range v {
			out = append(out, splitValues(s)...)
		}
		return out, nil
	case []any:
		var out []string
		for _, item := range v {
			vals, err := requestedValues(item)
			if err != nil {
				return nil, err
			}
			out = append(out, vals...)
		}
		return out, nil
	case int, int64, float64:
		return []string{fmt.Sprint(v)}, nil
	default:
		return nil, fmt.Errorf("unsupported value type %T", raw)
	}
}

func splitValues(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ResolveOption configures a single variant resolution.
type ResolveOption func(*resolveOptions)

type resolveOptions struct {
	index PackageIndex
}

// WithPackageIndex injects the index consulted by variant validators.
func WithPackageIndex(idx PackageIndex) ResolveOption {
	return func(o *resolveOptions) {
		if idx != nil {
			o.index = idx
		}
	}
}

// VariantRegistry holds the declared variants of one package in
// declaration order. Registration is not safe for concurrent use; once
// populated, Resolve may be called concurrently.
type VariantRegistry struct {
	owner string
	specs []VariantSpec
	index map[string]int
}

// NewVariantRegistry returns an empty registry for the named package.
func NewVariantRegistry(owner string) *VariantRegistry {
	return &VariantRegistry{owner: owner, index: make(map[string]int)}
}

// Register declares a variant. The declaration itself is validated and a
// name that is already registered fails with DUPLICATE_VARIANT.
func (r *VariantRegistry) Register(spec VariantSpec) error {
	if _, exists := r.index[spec.Name]; exists {
		return bperrors.NewWithContext(bperrors.ErrCodeDuplicateVariant,
			fmt.Sprintf("variant %q is already declared by %s", spec.Name, r.owner),
			map[string]any{"variant": spec.Name, "package": r.owner})
	}
	if err := spec.Validate(); err != nil {
		return err
	}
	spec.Values = slices.Clone(spec.Values)
	spec.Default = slices.Clone(spec.Default)
	r.index[spec.Name] = len(r.specs)
	r.specs = append(r.specs, spec)
	return nil
}

// Lookup returns the declared variant with the given name.
func (r *VariantRegistry) Lookup(name string) (VariantSpec, bool) {
	i, ok := r.index[name]
	if !ok {
		return VariantSpec{}, false
	}
	return r.specs[i], true
}

// Len returns the number of declared variants.
func (r *VariantRegistry) Len() int {
	return len(r.specs)
}

// Variants returns the declared variants in declaration order.
func (r *VariantRegistry) Variants() []VariantSpec {
	return slices.Clone(r.specs)
}

// Resolve fills every declared variant from the requested selection or its
// default. Requested names that were never declared fail with
// UNKNOWN_VARIANT; values outside a variant's domain fail with INVALID_VALUE
// unless the variant has a validator, whose verdict is then authoritative.
func (r *VariantRegistry) Resolve(requested Selection, v version.Version, opts ...ResolveOption) (*ResolvedConfig, error) {
	pkg := r.owner
	o := resolveOptions{index: emptyIndex{}}
	for _, opt := range opts {
		opt(&o)
	}

	for _, name := range requested.Names() {
		if _, ok := r.index[name]; !ok {
			return nil, bperrors.NewWithContext(bperrors.ErrCodeUnknownVariant,
				fmt.Sprintf("%s has no variant %q", pkg, name),
				map[string]any{"package": pkg, "variant": name})
		}
	}

	cfg := newResolvedConfig(pkg, v, len(r.specs))
	for _, spec := range r.specs {
		raw, ok := requested[spec.Name]
		if !ok {
			cfg.set(spec, spec.Default, false)
			continue
		}
		values, err := r.resolveValues(spec, raw, requested, o)
		if err != nil {
			return nil, err
		}
		cfg.set(spec, values, true)
	}

	slog.Debug("variants resolved", "package", pkg, "version", v.String(), "requested", len(requested))
	return cfg, nil
}

func (r *VariantRegistry) resolveValues(spec VariantSpec, raw any, requested Selection, o resolveOptions) ([]string, error) {
	values, err := requestedValues(raw)
	if err != nil {
		return nil, bperrors.WrapWithContext(bperrors.ErrCodeInvalidValue,
			fmt.Sprintf("invalid value for variant %q", spec.Name), err,
			map[string]any{"variant": spec.Name})
	}
	if len(values) == 0 {
		return nil, invalidValue(spec, "", "no value given")
	}
	if spec.Kind != VariantMulti && len(values) > 1 {
		return nil, invalidValue(spec, strings.Join(values, ","), "variant accepts a single value")
	}

	out := make([]string, 0, len(values))
	for _, val := range values {
		if spec.Kind == VariantBool {
			if b, ok := normalizeBool(val); ok {
				val = b
			}
		}

		if spec.HasValidator() {
			verdict := spec.Validator(ValidatorInput{
				Value:     val,
				Variant:   spec.Name,
				Requested: requested,
				Index:     o.index,
			})
			if !verdict.Accept {
				return nil, bperrors.NewWithContext(bperrors.ErrCodeValidatorRejected,
					fmt.Sprintf("variant %q rejected value %q: %s", spec.Name, val, verdict.Reason),
					map[string]any{
						"variant":     spec.Name,
						"value":       val,
						"reason":      verdict.Reason,
						"unavailable": verdict.Unavailable,
					})
			}
		} else if !spec.Allows(val) {
			return nil, invalidValue(spec, val, "value is outside the declared domain")
		}

		if !slices.Contains(out, val) {
			out = append(out, val)
		}
	}
	return out, nil
}

func invalidValue(spec VariantSpec, value, msg string) error {
	ctx := map[string]any{"variant": spec.Name, "value": value}
	if spec.Kind != VariantBool {
		ctx["allowed"] = spec.Values
	}
	return bperrors.NewWithContext(bperrors.ErrCodeInvalidValue,
		fmt.Sprintf("variant %q: %s: %q", spec.Name, msg, value), ctx)
}
