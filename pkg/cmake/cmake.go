package cmake

import (
	"fmt"
	"io"
	"strings"

	"github.com/boutproject/boutpkg/pkg/recipe"
)

// Arg renders a single definition. Definitions without a type are emitted
// as plain -DNAME=VALUE.
func Arg(d recipe.Definition) string {
	if d.Type == "" {
		return "-D" + d.Name + "=" + d.Value
	}
	return "-D" + d.Name + ":" + string(d.Type) + "=" + d.Value
}

// Args renders definitions in the order given.
func Args(defs []recipe.Definition) []string {
	if len(defs) == 0 {
		return nil
	}
	args := make([]string, 0, len(defs))
	for _, d := range defs {
		args = append(args, Arg(d))
	}
	return args
}

// CommandLine renders a cmake configure invocation for sourceDir with the
// definitions appended, quoted for a POSIX shell.
func CommandLine(sourceDir string, defs []recipe.Definition) string {
	parts := []string{"cmake"}
	if sourceDir != "" {
		parts = append(parts, "-S", Quote(sourceDir))
	}
	for _, a := range Args(defs) {
		parts = append(parts, Quote(a))
	}
	return strings.Join(parts, " ")
}

// Quote returns s unchanged when it is safe for a POSIX shell, otherwise
// single-quoted.
func Quote(s string) string {
	if s == "" {
		return "''"
	}
	if strings.IndexFunc(s, unsafeShellRune) < 0 {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

func unsafeShellRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return false
	}
	return !strings.ContainsRune("-_=:./,+@%", r)
}

// InitialCache writes a CMake initial-cache script setting every
// definition, for use with "cmake -C <file>".
func InitialCache(w io.Writer, pkg string, defs []recipe.Definition) error {
	if pkg != "" {
		if _, err := fmt.Fprintf(w, "# initial cache for %s\n", pkg); err != nil {
			return err
		}
	}
	for _, d := range defs {
		typ := string(d.Type)
		if typ == "" {
			typ = string(recipe.TypeString)
		}
		if _, err := fmt.Fprintf(w, "set(%s %s CACHE %s \"\" FORCE)\n", d.Name, cacheValue(d.Value), typ); err != nil {
			return err
		}
	}
	return nil
}

func cacheValue(v string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, `$`, `\$`)
	return `"` + r.Replace(v) + `"`
}
