package recipe

import (
	"fmt"
	"strings"

	bperrors "github.com/boutproject/boutpkg/pkg/errors"
)

// ParseSpec parses a spec string such as
// "boutpp@5.1.0+petsc~python check=3 buildtests=all" into a Request.
// "+name" and "~name" request a boolean variant, "name=value" requests
// any variant, and comma separated values select several values of a
// multi-select variant.
func ParseSpec(s string) (Request, error) {
	terms, err := lexTerms(s)
	if err != nil {
		return Request{}, bperrors.Wrap(bperrors.ErrCodeInvalidRequest, "invalid spec", err)
	}
	if len(terms) == 0 || terms[0].kind != termName {
		return Request{}, bperrors.NewWithContext(bperrors.ErrCodeInvalidRequest,
			fmt.Sprintf("spec %q must start with a package name", s),
			map[string]any{"spec": s})
	}

	req := Request{Package: terms[0].name, Variants: Selection{}}
	for _, t := range terms[1:] {
		var name string
		var value any
		switch t.kind {
		case termVersion:
			if req.Version != "" {
				return Request{}, bperrors.New(bperrors.ErrCodeInvalidRequest,
					fmt.Sprintf("spec %q gives more than one version", s))
			}
			req.Version = t.value
			continue
		case termEnable:
			name, value = t.name, true
		case termDisable:
			name, value = t.name, false
		case termAssign:
			name, value = t.name, t.value
		default:
			return Request{}, bperrors.New(bperrors.ErrCodeInvalidRequest,
				fmt.Sprintf("spec %q names more than one package", s))
		}
		if _, dup := req.Variants[name]; dup {
			return Request{}, bperrors.NewWithContext(bperrors.ErrCodeInvalidRequest,
				fmt.Sprintf("spec %q sets variant %q more than once", s, name),
				map[string]any{"variant": name})
		}
		req.Variants[name] = value
	}
	return req, nil
}

// String renders the request in spec syntax. Variants are emitted in
// sorted order.
func (r Request) String() string {
	var b strings.Builder
	b.WriteString(r.Package)
	if r.Version != "" {
		b.WriteByte('@')
		b.WriteString(r.Version)
	}
	var assigns []string
	for _, name := range r.Variants.Names() {
		switch v := r.Variants[name].(type) {
		case bool:
			if v {
				b.WriteString("+" + name)
			} else {
				b.WriteString("~" + name)
			}
		default:
			vals, err := requestedValues(v)
			if err != nil {
				vals = []string{fmt.Sprint(v)}
			}
			assigns = append(assigns, name+"="+strings.Join(vals, ","))
		}
	}
	for _, a := range assigns {
		b.WriteByte(' ')
		b.WriteString(a)
	}
	return b.String()
}
