package recipe

import (
	"fmt"
)

type termKind int

const (
	termName    termKind = iota // bare identifier, e.g. a package name
	termEnable                  // +name
	termDisable                 // ~name
	termVersion                 // @range
	termAssign                  // name=value
)

type term struct {
	kind  termKind
	name  string
	value string
}

// lexTerms splits the compact recipe syntax shared by conditions,
// dependency specs and spec strings. Terms may be separated by whitespace
// or written adjacently ("petsc+mpi~debug@3.7:").
func lexTerms(s string) ([]term, error) {
	var terms []term
	i := 0
	for i < len(s) {
		c := s[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n':
			i++

		case c == '+' || c == '~':
			j := scanName(s, i+1)
			if j == i+1 {
				return nil, fmt.Errorf("expected variant name after %q at offset %d in %q", c, i, s)
			}
			kind := termEnable
			if c == '~' {
				kind = termDisable
			}
			terms = append(terms, term{kind: kind, name: s[i+1 : j]})
			i = j

		case c == '@':
			j := i + 1
			for j < len(s) && !isSpace(s[j]) && s[j] != '+' && s[j] != '~' {
				j++
			}
			if j == i+1 {
				return nil, fmt.Errorf("expected version after '@' at offset %d in %q", i, s)
			}
			terms = append(terms, term{kind: termVersion, value: s[i+1 : j]})
			i = j

		case isNameChar(c):
			j := scanName(s, i)
			if j < len(s) && s[j] == '=' {
				k := j + 1
				for k < len(s) && !isSpace(s[k]) && s[k] != '@' {
					k++
				}
				if k == j+1 {
					return nil, fmt.Errorf("expected value after '=' at offset %d in %q", j, s)
				}
				terms = append(terms, term{kind: termAssign, name: s[i:j], value: s[j+1 : k]})
				i = k
				continue
			}
			terms = append(terms, term{kind: termName, name: s[i:j]})
			i = j

		default:
			return nil, fmt.Errorf("unexpected character %q at offset %d in %q", c, i, s)
		}
	}
	return terms, nil
}

func scanName(s string, i int) int {
	for i < len(s) && isNameChar(s[i]) {
		i++
	}
	return i
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n'
}
