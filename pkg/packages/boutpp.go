package packages

import (
	"github.com/boutproject/boutpkg/pkg/recipe"
)

// BoutppName is the catalog name of the BOUT++ framework.
const BoutppName = "boutpp"

// boutppTags are the tagged releases built with CMake (5.0.0 onwards).
var boutppTags = []string{"5.0.0", "5.1.0", "5.1.1", "5.2.0"}

// boutppVariantDefs maps CMake definitions onto the variants that drive
// them, in the order they are passed to CMake.
var boutppVariantDefs = []struct{ flag, variant string }{
	{"BOUT_USE_ADIOS2", "adios2"},
	{"BOUT_ENABLE_BACKTRACE", "backtrace"},
	{"BOUT_BUILD_DOCS", "builddocs"},
	{"BOUT_BUILD_EXAMPLES", "buildexamples"},
	{"BOUT_ENABLE_CALIPER", "caliper"},
	{"CHECK", "check"},
	{"BOUT_ENABLE_CUDA", "cuda"},
	{"BOUT_USE_HYPRE", "hypre"},
	{"BOUT_USE_LAPACK", "lapack"},
	{"BOUT_ENABLE_METRIC_3D", "metric3d"},
	{"BOUT_USE_NETCDF", "netcdf"},
	{"BOUT_ENABLE_OPENMP", "openmp"},
	{"BOUT_USE_PETSC", "petsc"},
	{"BOUT_ENABLE_PYTHON", "python"},
	{"BOUT_ENABLE_RAJA", "raja"},
	{"ENABLE_SANITIZER_ADDRESS", "sanitize_address"},
	{"ENABLE_SANITIZER_LEAK", "sanitize_leak"},
	{"ENABLE_SANITIZER_MEMORY", "sanitize_memory"},
	{"ENABLE_SANITIZER_THREAD", "sanitize_thread"},
	{"ENABLE_SANITIZER_UNDEFINED_BEH", "sanitize_undefined"},
	{"BOUT_USE_SCOREP", "scorep"},
	{"BOUT_USE_SLEPC", "slepc"},
	{"BUILD_SHARED_LIBS", "shared"},
	{"BOUT_ENABLE_SIGFPE", "sigfpe"},
	{"BOUT_ENABLE_SIGNAL", "signal"},
	{"BOUT_USE_SUNDIALS", "sundials"},
	{"BOUT_ENABLE_TRACK", "track"},
	{"BOUT_ENABLE_UMPIRE", "umpire"},
}

// boutppSimpleDeps are dependencies named after the variant that enables
// them, with an optional version range.
var boutppSimpleDeps = []struct{ name, versions string }{
	{"adios2", ""},
	{"caliper", ""},
	{"cuda", ""},
	{"fftw", ""},
	{"hypre", ""},
	{"lapack", ""},
	{"python", ""},
	{"raja", ""},
	{"scorep", ""},
	{"slepc", ""},
	{"sundials", "2.6:6.7.0"},
	{"umpire", ""},
}

// Boutpp declares the BOUT++ recipe.
func Boutpp() *recipe.Package {
	b := recipe.NewBuilder(BoutppName).
		Description("BOUT++ is a framework for writing fluid and plasma simulations in curvilinear geometry.").
		Homepage("https://bout-dev.readthedocs.io").
		Git("https://github.com/boutproject/BOUT-dev").
		URL("https://github.com/boutproject/BOUT-dev/releases/download/v5.1.0/BOUT++-v5.1.0.tar.gz").
		Maintainers("oparry-ukaea").
		License("LGPL-3.0-only").
		AddVersion(recipe.BranchVersion("develop", "next", recipe.WithSubmodules())).
		AddVersion(recipe.BranchVersion("master", "master", recipe.WithSubmodules(), recipe.AsPreferred()))
	for _, v := range boutppTags {
		b.AddVersion(recipe.TagVersion(v, "v"+v, recipe.WithSubmodules()))
	}

	b.AddPatch("fix_thirdparty_cmake_v5.0.0.patch", "@5.0.0").
		AddPatch("fix_thirdparty_cmake_v5.1.x.patch", "@5.1")

	b.AddVariant(recipe.BoolVariant("adios2", false, "Builds with ADIOS2 support.")).
		AddVariant(recipe.BoolVariant("backtrace", true, "Enable backtrace.")).
		AddVariant(recipe.BoolVariant("builddocs", false, "Builds the documentation.")).
		AddVariant(recipe.BoolVariant("buildexamples", false, "Builds the examples.")).
		AddVariant(recipe.MultiVariant("buildtests", []string{"none"}, []string{"all", "default", "none"},
			"Choose whether to build the standard set of tests ('default'), the complete set ('all'), or none at all ('none').")).
		AddVariant(recipe.BoolVariant("caliper", false, "Builds with Caliper support.")).
		AddVariant(recipe.MultiVariant("check", []string{"2"}, []string{"0", "1", "2", "3", "4"},
			"Sets the CHECK variable which controls the level of internal runtime checking.")).
		AddVariant(recipe.BoolVariant("cuda", false, "Builds with CUDA support.")).
		AddVariant(recipe.BoolVariant("fftw", true, "Builds with FFTW support.")).
		AddVariant(recipe.BoolVariant("hypre", false, "Builds with Hypre support.")).
		AddVariant(recipe.BoolVariant("lapack", false, "Builds with LAPACK support.")).
		AddVariant(recipe.BoolVariant("metric3d", false, "Enable 3D metric support.")).
		AddVariant(recipe.BoolVariant("netcdf", true, "Enable support for NetCDF output.")).
		AddVariant(recipe.BoolVariant("openmp", false, "Enable OpenMP support.")).
		AddVariant(recipe.BoolVariant("petsc", false, "Builds with PETSc support.")).
		AddVariant(recipe.BoolVariant("python", false, "Builds with Python support.")).
		AddVariant(recipe.BoolVariant("raja", false, "Builds with RAJA support.")).
		AddVariant(recipe.BoolVariant("sanitize_address", false, "Enable address sanitizer.")).
		AddVariant(recipe.BoolVariant("sanitize_leak", false, "Enable leak sanitizer.")).
		AddVariant(recipe.BoolVariant("sanitize_memory", false, "Enable memory sanitizer.")).
		AddVariant(recipe.BoolVariant("sanitize_thread", false, "Enable thread sanitizer.")).
		AddVariant(recipe.BoolVariant("sanitize_undefined", false, "Enable undefined behavior sanitizer.")).
		AddVariant(recipe.BoolVariant("scorep", false, "Builds with Score-P support.")).
		AddVariant(recipe.BoolVariant("slepc", false, "Builds with SLEPC support.")).
		AddVariant(recipe.BoolVariant("shared", true, "Build shared libraries.")).
		AddVariant(recipe.BoolVariant("sigfpe", false, "Signal floating point exceptions.")).
		AddVariant(recipe.BoolVariant("signal", true, "Signal handling.")).
		AddVariant(recipe.BoolVariant("sundials", false, "Builds with SUNDIALS support.")).
		AddVariant(recipe.BoolVariant("track", true, "Enable field name tracking.")).
		AddVariant(recipe.BoolVariant("umpire", false, "Builds with Umpire support."))

	buildLink := recipe.WithUsage(recipe.UsageBuild, recipe.UsageLink)

	b.AddDependency("c", recipe.WithUsage(recipe.UsageBuild)).
		AddDependency("cxx", recipe.WithUsage(recipe.UsageBuild)).
		AddDependency("cmake@3.17:", recipe.WithUsage(recipe.UsageBuild)).
		AddDependency("mpi", recipe.WithUsage(recipe.UsageBuild, recipe.UsageLink, recipe.UsageRun))
	for _, d := range boutppSimpleDeps {
		spec := d.name
		if d.versions != "" {
			spec += "@" + d.versions
		}
		b.AddDependency(spec, buildLink, recipe.When("+"+d.name))
	}
	b.AddDependency("netcdf-cxx4", buildLink, recipe.When("+netcdf")).
		AddDependency("py-cython", buildLink, recipe.When("+python")).
		AddDependency("py-jinja2", buildLink, recipe.When("+python")).
		AddDependency("py-numpy", buildLink, recipe.When("+python")).
		AddDependency("petsc+mpi", buildLink, recipe.When("+petsc")).
		// all PETSc versions supported by any BOUT++ release
		AddDependency("petsc@3.7:3.23", buildLink, recipe.When("+petsc")).
		AddDependency("petsc@:3.17", buildLink, recipe.When("+petsc@5.0.0"))

	// BOUT++ must not download its own dependencies.
	b.AddArgumentMapping(recipe.FixedBool("BOUT_DOWNLOAD_ADIOS2", false)).
		AddArgumentMapping(recipe.FixedBool("BOUT_DOWNLOAD_NETCDF_CXX4", false)).
		AddArgumentMapping(recipe.FixedBool("BOUT_DOWNLOAD_SUNDIALS", false)).
		AddArgumentMapping(recipe.FixedBool("BOUT_ENABLE_MPI", true)).
		AddArgumentMapping(recipe.FixedBool("BOUT_GENERATE_FIELDOPS", false)).
		AddArgumentMapping(recipe.FixedBool("BOUT_IGNORE_CONDA_ENV", true)).
		AddArgumentMapping(recipe.FixedBool("BOUT_UPDATE_GIT_SUBMODULE", true)).
		AddArgumentMapping(recipe.FixedBool("BOUT_USE_PVODE", true)).
		AddArgumentMapping(recipe.FixedBool("INSTALL_GTEST", false)).
		// CMake mixes up the glibc and standalone gettext, so NLS stays off.
		AddArgumentMapping(recipe.FixedBool("BOUT_USE_NLS", false))

	for _, d := range boutppVariantDefs {
		b.AddVariantMapping(d.flag, d.variant)
	}
	b.AddVariantMapping("BOUT_TESTS", "buildtests", recipe.WithTransform(recipe.FirstNotEquals("none"))).
		AddVariantMapping("BOUT_ENABLE_ALL_TESTS", "buildtests", recipe.WithTransform(recipe.FirstEquals("all")))

	return b.MustBuild()
}
