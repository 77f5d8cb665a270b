package packages

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bperrors "github.com/boutproject/boutpkg/pkg/errors"
	"github.com/boutproject/boutpkg/pkg/recipe"
)

func resolveBoutpp(t *testing.T, req recipe.Request) *recipe.Result {
	t.Helper()
	res, err := recipe.NewResolver().Resolve(context.Background(), Boutpp(), req)
	require.NoError(t, err)
	return res
}

func definitionNames(defs []recipe.Definition) []string {
	out := make([]string, len(defs))
	for i, d := range defs {
		out[i] = d.Name
	}
	return out
}

func dependencyNames(deps []recipe.DependencySpec) []string {
	out := make([]string, len(deps))
	for i, d := range deps {
		out[i] = d.Name
	}
	return out
}

func TestBoutppDeclaration(t *testing.T) {
	p := Boutpp()
	info := p.Info()

	assert.Equal(t, "boutpp", info.Name)
	assert.Equal(t, "LGPL-3.0-only", info.License)
	assert.Len(t, info.Versions, 6)
	assert.Len(t, info.Variants, 30)

	def, ok := p.DefaultVersion()
	require.True(t, ok)
	assert.Equal(t, "master", def.Identifier)

	v, ok := p.Version("5.1.1")
	require.True(t, ok)
	assert.Equal(t, "v5.1.1", v.Tag)
	assert.True(t, v.Submodules)

	dev, _ := p.Version("develop")
	assert.Equal(t, "next", dev.Branch)
}

func TestBoutppDefaults(t *testing.T) {
	res := resolveBoutpp(t, recipe.Request{})

	assert.Equal(t, "master", res.Version.Identifier)
	require.Len(t, res.Definitions, 40)

	names := definitionNames(res.Definitions)
	assert.Equal(t, []string{
		"BOUT_DOWNLOAD_ADIOS2",
		"BOUT_DOWNLOAD_NETCDF_CXX4",
		"BOUT_DOWNLOAD_SUNDIALS",
		"BOUT_ENABLE_MPI",
		"BOUT_GENERATE_FIELDOPS",
		"BOUT_IGNORE_CONDA_ENV",
		"BOUT_UPDATE_GIT_SUBMODULE",
		"BOUT_USE_PVODE",
		"INSTALL_GTEST",
		"BOUT_USE_NLS",
		"BOUT_USE_ADIOS2",
	}, names[:11])
	assert.Equal(t, []string{"BOUT_TESTS", "BOUT_ENABLE_ALL_TESTS"}, names[38:])

	want := map[string]string{
		"BOUT_ENABLE_MPI":        "ON",
		"BOUT_DOWNLOAD_SUNDIALS": "OFF",
		"BOUT_USE_NLS":           "OFF",
		"CHECK":                  "2",
		"BOUT_ENABLE_BACKTRACE":  "ON",
		"BOUT_USE_NETCDF":        "ON",
		"BOUT_USE_PETSC":         "OFF",
		"BUILD_SHARED_LIBS":      "ON",
		"BOUT_ENABLE_TRACK":      "ON",
		"BOUT_TESTS":             "OFF",
		"BOUT_ENABLE_ALL_TESTS":  "OFF",
	}
	for flag, value := range want {
		d, ok := res.Definition(flag)
		require.True(t, ok, flag)
		assert.Equal(t, value, d.Value, flag)
	}
	check, _ := res.Definition("CHECK")
	assert.Equal(t, recipe.TypeString, check.Type)

	assert.Equal(t, []string{"c", "cxx", "cmake", "mpi", "fftw", "netcdf-cxx4"}, dependencyNames(res.Dependencies))
	assert.Empty(t, res.Patches)
}

func TestBoutppScenarios(t *testing.T) {
	tests := []struct {
		name     string
		spec     string
		defs     map[string]string
		deps     []string
		patches  []string
		excluded []string
	}{
		{
			name:     "petsc off by default",
			spec:     "boutpp",
			excluded: []string{"petsc"},
		},
		{
			name: "petsc on",
			spec: "boutpp+petsc",
			defs: map[string]string{"BOUT_USE_PETSC": "ON"},
			deps: []string{"petsc"},
		},
		{
			name:    "all tests",
			spec:    "boutpp buildtests=all",
			defs:    map[string]string{"BOUT_TESTS": "ON", "BOUT_ENABLE_ALL_TESTS": "ON"},
			patches: nil,
		},
		{
			name: "default tests",
			spec: "boutpp buildtests=default",
			defs: map[string]string{"BOUT_TESTS": "ON", "BOUT_ENABLE_ALL_TESTS": "OFF"},
		},
		{
			name: "multi check",
			spec: "boutpp check=3,1",
			defs: map[string]string{"CHECK": "3;1"},
		},
		{
			name: "python pulls in python packages",
			spec: "boutpp+python",
			defs: map[string]string{"BOUT_ENABLE_PYTHON": "ON"},
			deps: []string{"python", "py-cython", "py-jinja2", "py-numpy"},
		},
		{
			name:     "no netcdf no fftw",
			spec:     "boutpp~netcdf~fftw",
			defs:     map[string]string{"BOUT_USE_NETCDF": "OFF"},
			excluded: []string{"netcdf-cxx4", "fftw"},
		},
		{
			name:    "5.0.0 patch",
			spec:    "boutpp@5.0.0",
			patches: []string{"fix_thirdparty_cmake_v5.0.0.patch"},
		},
		{
			name:    "5.1.x patch",
			spec:    "boutpp@5.1.1",
			patches: []string{"fix_thirdparty_cmake_v5.1.x.patch"},
		},
		{
			name: "sanitizers",
			spec: "boutpp+sanitize_address+sanitize_undefined",
			defs: map[string]string{"ENABLE_SANITIZER_ADDRESS": "ON", "ENABLE_SANITIZER_UNDEFINED_BEH": "ON"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := recipe.ParseSpec(tt.spec)
			require.NoError(t, err)
			res := resolveBoutpp(t, req)

			for flag, value := range tt.defs {
				d, ok := res.Definition(flag)
				require.True(t, ok, flag)
				assert.Equal(t, value, d.Value, flag)
			}
			names := dependencyNames(res.Dependencies)
			for _, dep := range tt.deps {
				assert.Contains(t, names, dep)
			}
			for _, dep := range tt.excluded {
				assert.NotContains(t, names, dep)
			}
			assert.Equal(t, tt.patches, res.Patches)
		})
	}
}

func TestBoutppPetscRanges(t *testing.T) {
	constraints := func(res *recipe.Result) []string {
		var out []string
		for _, d := range res.Dependencies {
			if d.Name == "petsc" {
				out = append(out, d.String())
			}
		}
		return out
	}

	res := resolveBoutpp(t, recipe.Request{Version: "5.0.0", Variants: recipe.Selection{"petsc": true}})
	assert.Equal(t, []string{"petsc+mpi", "petsc@3.7:3.23", "petsc@:3.17"}, constraints(res))

	res = resolveBoutpp(t, recipe.Request{Version: "5.1.0", Variants: recipe.Selection{"petsc": true}})
	assert.Equal(t, []string{"petsc+mpi", "petsc@3.7:3.23"}, constraints(res))
}

func TestBoutppSundialsRange(t *testing.T) {
	res := resolveBoutpp(t, recipe.Request{Variants: recipe.Selection{"sundials": true}})
	d, ok := res.Dependency("sundials")
	require.True(t, ok)
	assert.Equal(t, "2.6:6.7.0", d.Constraint.String())
	assert.Equal(t, []recipe.UsageKind{recipe.UsageBuild, recipe.UsageLink}, d.Usage)

	use, _ := res.Definition("BOUT_USE_SUNDIALS")
	assert.Equal(t, "ON", use.Value)
	// downloading stays off even when SUNDIALS is used
	dl, _ := res.Definition("BOUT_DOWNLOAD_SUNDIALS")
	assert.Equal(t, "OFF", dl.Value)
}

func TestBoutppErrors(t *testing.T) {
	tests := []struct {
		name string
		req  recipe.Request
		code bperrors.ErrorCode
	}{
		{"unknown variant", recipe.Request{Variants: recipe.Selection{"gpu": true}}, bperrors.ErrCodeUnknownVariant},
		{"check out of domain", recipe.Request{Variants: recipe.Selection{"check": "5"}}, bperrors.ErrCodeInvalidValue},
		{"buildtests out of domain", recipe.Request{Variants: recipe.Selection{"buildtests": "some"}}, bperrors.ErrCodeInvalidValue},
		{"bool not a bool", recipe.Request{Variants: recipe.Selection{"petsc": "maybe"}}, bperrors.ErrCodeInvalidValue},
		{"unknown version", recipe.Request{Version: "4.4.0"}, bperrors.ErrCodeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := recipe.NewResolver().Resolve(context.Background(), Boutpp(), tt.req)
			require.Error(t, err)
			assert.Equal(t, tt.code, bperrors.CodeOf(err))
		})
	}
}
