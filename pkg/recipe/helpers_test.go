package recipe

import (
	"testing"

	bperrors "github.com/boutproject/boutpkg/pkg/errors"
	"github.com/boutproject/boutpkg/pkg/version"
)

// testPackage declares a cut-down boutpp recipe.
func testPackage(t *testing.T) *Package {
	t.Helper()
	pkg, err := NewBuilder("boutpp").
		Description("test recipe").
		AddVersion(BranchVersion("develop", "next", WithSubmodules())).
		AddVersion(BranchVersion("master", "master", WithSubmodules(), AsPreferred())).
		AddVersion(TagVersion("5.0.0", "v5.0.0", WithSubmodules())).
		AddVersion(TagVersion("5.1.0", "v5.1.0", WithSubmodules())).
		AddVersion(TagVersion("5.1.1", "v5.1.1", WithSubmodules())).
		AddPatch("fix_thirdparty_cmake_v5.0.0.patch", "@5.0.0").
		AddPatch("fix_thirdparty_cmake_v5.1.x.patch", "@5.1").
		AddVariant(BoolVariant("petsc", false, "Builds with PETSc support.")).
		AddVariant(BoolVariant("python", false, "Builds with Python support.")).
		AddVariant(BoolVariant("shared", true, "Build shared libraries.")).
		AddVariant(MultiVariant("check", []string{"2"}, []string{"0", "1", "2", "3", "4"}, "Runtime checking level.")).
		AddVariant(MultiVariant("buildtests", []string{"none"}, []string{"all", "default", "none"}, "Which tests to build.")).
		AddDependency("cmake@3.17:", WithUsage(UsageBuild)).
		AddDependency("mpi", WithUsage(UsageBuild, UsageLink, UsageRun)).
		AddDependency("petsc+hypre+mpi", When("+petsc")).
		AddDependency("petsc@:3.17", When("+petsc@5.0.0")).
		AddDependency("py-numpy", When("+python")).
		AddArgumentMapping(FixedBool("BOUT_ENABLE_MPI", true)).
		AddArgumentMapping(FixedBool("BOUT_USE_SUNDIALS", false)).
		AddVariantMapping("BOUT_USE_PETSC", "petsc").
		AddVariantMapping("BUILD_SHARED_LIBS", "shared").
		AddVariantMapping("CHECK", "check").
		AddVariantMapping("BOUT_TESTS", "buildtests", WithTransform(FirstNotEquals("none"))).
		AddVariantMapping("BOUT_ENABLE_ALL_TESTS", "buildtests", WithTransform(FirstEquals("all"))).
		Build()
	if err != nil {
		t.Fatalf("failed to build test package: %v", err)
	}
	return pkg
}

func assertCode(t *testing.T, err error, want bperrors.ErrorCode) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with code %s, got nil", want)
	}
	if got := bperrors.CodeOf(err); got != want {
		t.Fatalf("error code = %s, want %s (err: %v)", got, want, err)
	}
}

func mustVersion(t *testing.T, s string) version.Version {
	t.Helper()
	v, err := version.ParseVersion(s)
	if err != nil {
		t.Fatalf("ParseVersion(%q) error = %v", s, err)
	}
	return v
}
