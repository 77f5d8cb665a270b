package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	bperrors "github.com/boutproject/boutpkg/pkg/errors"
	"github.com/boutproject/boutpkg/pkg/recipe"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	root := newRootCmd()
	root.Writer = &buf
	root.ErrWriter = &buf
	err := root.Run(context.Background(), append([]string{name}, args...))
	return buf.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestCommandStructure(t *testing.T) {
	root := newRootCmd()
	want := map[string][]string{
		"resolve": {"request", "revision", "timeout", "output", "format"},
		"cmake":   {"request", "revision", "style", "source-dir", "output"},
		"plan":    {"request", "revision", "cmake", "output", "format"},
		"info":    {"revision", "output", "format"},
		"list":    {"output", "format"},
	}
	require.Len(t, root.Commands, len(want))
	for _, cmd := range root.Commands {
		flags, ok := want[cmd.Name]
		require.True(t, ok, cmd.Name)
		assert.NotEmpty(t, cmd.Usage, cmd.Name)
		assert.NotNil(t, cmd.Action, cmd.Name)
		for _, f := range flags {
			assert.True(t, hasFlag(cmd, f), "%s --%s", cmd.Name, f)
		}
	}
	assert.True(t, hasFlag(root, "log-level"))
	assert.True(t, hasFlag(root, "known-packages"))
}

func hasFlag(cmd *cli.Command, name string) bool {
	for _, f := range cmd.Flags {
		for _, n := range f.Names() {
			if n == name {
				return true
			}
		}
	}
	return false
}

func TestResolveCommand(t *testing.T) {
	out, err := run(t, "resolve", "--format", "json", "boutpp@5.1.0+petsc", "check=3")
	require.NoError(t, err)

	var res recipe.Result
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, "5.1.0", res.Version.Identifier)
	check, _ := res.Definition("CHECK")
	assert.Equal(t, "3", check.Value)
	_, ok := res.Dependency("petsc")
	assert.True(t, ok)
}

func TestResolveCommandRevision(t *testing.T) {
	out, err := run(t, "resolve", "--revision", "legacy", "--format", "json", "hermes-3")
	require.NoError(t, err)

	var res recipe.Result
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, "legacy", res.Revision)
	_, ok := res.Definition("BOUT_USE_SUNDIALS")
	assert.True(t, ok)
}

func TestResolveCommandRequestFile(t *testing.T) {
	path := writeFile(t, "request.yaml", `kind: BuildRequest
apiVersion: boutpkg.boutproject.org/v1alpha1
spec:
  package: boutpp
  variants:
    buildtests: [all]
`)
	dest := filepath.Join(t.TempDir(), "result.yaml")

	_, err := run(t, "resolve", "--request", path, "--output", dest, "ignored-spec")
	require.NoError(t, err)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Contains(t, string(data), "BOUT_ENABLE_ALL_TESTS")
	assert.Contains(t, string(data), "kind: Resolution")
}

func TestKnownPackagesFlag(t *testing.T) {
	_, err := run(t, "resolve", "hermes-3+vantagereactions")
	require.Error(t, err)
	assert.Equal(t, bperrors.ErrCodeValidatorRejected, bperrors.CodeOf(err))

	known := writeFile(t, "known.yaml", "kind: KnownPackages\npackages: [vantagereactions]\n")
	out, err := run(t, "--known-packages", known, "cmake", "hermes-3+vantagereactions")
	require.NoError(t, err)
	assert.Contains(t, out, "-DHERMES_USE_VANTAGE:BOOL=ON")
}

func TestCMakeCommand(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		contains []string
		prefix   string
	}{
		{
			name:     "args",
			args:     []string{"cmake", "boutpp", "check=3,1"},
			contains: []string{"-DBOUT_ENABLE_MPI:BOOL=ON", "'-DCHECK:STRING=3;1'"},
			prefix:   "-DBOUT_DOWNLOAD_ADIOS2:BOOL=OFF",
		},
		{
			name:     "command",
			args:     []string{"cmake", "--style", "command", "--source-dir", "./BOUT-dev", "boutpp"},
			contains: []string{"-DBOUT_USE_NETCDF:BOOL=ON"},
			prefix:   "cmake -S ./BOUT-dev -DBOUT_DOWNLOAD_ADIOS2:BOOL=OFF",
		},
		{
			name:     "cache",
			args:     []string{"cmake", "--style", "cache", "hermes-3", "limiter=MinMod"},
			contains: []string{`set(HERMES_SLOPE_LIMITER "MinMod" CACHE STRING "" FORCE)`},
			prefix:   "# initial cache for hermes-3@master",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, tt.args...)
			require.NoError(t, err)
			assert.True(t, strings.HasPrefix(out, tt.prefix), out)
			for _, s := range tt.contains {
				assert.Contains(t, out, s)
			}
		})
	}
}

func TestPlanCommand(t *testing.T) {
	out, err := run(t, "plan", "--format", "json", "hermes-3", "limiter=MinMod")
	require.NoError(t, err)

	var plan struct {
		Root  string `json:"root"`
		Steps []struct {
			Package   string   `json:"package"`
			DependsOn []string `json:"dependsOn"`
		} `json:"steps"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &plan))
	assert.Equal(t, "hermes-3", plan.Root)
	require.Len(t, plan.Steps, 2)
	assert.Equal(t, "boutpp", plan.Steps[0].Package)
	assert.Equal(t, []string{"boutpp"}, plan.Steps[1].DependsOn)

	out, err = run(t, "plan", "--cmake", "hermes-3")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "# boutpp@master\ncmake -S boutpp "), out)
	assert.Contains(t, out, "# hermes-3@master\ncmake -S hermes-3 -DHERMES_BUILD_BOUT:BOOL=OFF")
}

func TestCatalogCommands(t *testing.T) {
	out, err := run(t, "list", "--format", "json")
	require.NoError(t, err)
	var list struct {
		Packages []struct {
			Name string `json:"name"`
		} `json:"packages"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &list))
	require.Len(t, list.Packages, 2)
	assert.Equal(t, "boutpp", list.Packages[0].Name)

	out, err = run(t, "info", "--revision", "legacy", "hermes-3")
	require.NoError(t, err)
	assert.Contains(t, out, "kind: PackageInfo")
	assert.Contains(t, out, "bout-sundials")
}

func TestCommandErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		code bperrors.ErrorCode
	}{
		{name: "missing spec", args: []string{"resolve"}},
		{name: "two packages", args: []string{"resolve", "boutpp", "hermes-3"}},
		{name: "unknown package", args: []string{"resolve", "petsc"}, code: bperrors.ErrCodeNotFound},
		{name: "unknown variant", args: []string{"resolve", "boutpp+gpu"}, code: bperrors.ErrCodeUnknownVariant},
		{name: "unknown format", args: []string{"resolve", "--format", "xml", "boutpp"}},
		{name: "unknown style", args: []string{"cmake", "--style", "ninja", "boutpp"}},
		{name: "missing request file", args: []string{"plan", "--request", "/nonexistent/request.yaml"}},
		{name: "info without name", args: []string{"info"}},
		{name: "info unknown", args: []string{"info", "nope"}, code: bperrors.ErrCodeNotFound},
		{name: "bad known packages", args: []string{"--known-packages", "/nonexistent/known.yaml", "list"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.args...)
			require.Error(t, err)
			if tt.code != "" {
				assert.Equal(t, tt.code, bperrors.CodeOf(err))
			}
		})
	}
}
