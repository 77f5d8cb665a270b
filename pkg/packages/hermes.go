package packages

import (
	"fmt"

	"github.com/boutproject/boutpkg/pkg/recipe"
)

const (
	// Hermes3Name is the catalog name of the Hermes-3 plasma model.
	Hermes3Name = "hermes-3"

	// RevisionCurrent builds against an external BOUT++ and supports
	// VANTAGE-Reactions.
	RevisionCurrent = "current"

	// RevisionLegacy builds BOUT++ in-tree and can let it download SUNDIALS.
	RevisionLegacy = "legacy"

	vantageReactions = "vantagereactions"
)

var hermes3Tags = []string{"1.3.1", "1.3.0", "1.2.1", "1.2.0"}

const hermes3Description = "A multifluid magnetized plasma simulation model built on the BOUT++ framework."

// RequirePackage returns a validator accepting an enabled boolean variant
// only when a package of the same name exists in the index. Disabling the
// variant is always accepted.
func RequirePackage(hint string) recipe.ValidatorFunc {
	return func(in recipe.ValidatorInput) recipe.Verdict {
		switch in.Value {
		case "false":
			return recipe.Accept()
		case "true":
		default:
			return recipe.Reject(fmt.Sprintf("%q is not a boolean", in.Value))
		}
		if in.Index != nil && in.Index.Exists(in.Variant) {
			return recipe.Accept()
		}
		msg := fmt.Sprintf("package %q does not exist in any known package repository", in.Variant)
		if hint != "" {
			msg += ". " + hint
		}
		return recipe.Unavailable(msg)
	}
}

// Hermes3 declares the current Hermes-3 recipe. The VANTAGE-Reactions
// dependency is only declared when idx knows the vantagereactions package.
func Hermes3(idx recipe.PackageIndex) *recipe.Package {
	b := recipe.NewBuilder(Hermes3Name).
		Revision(RevisionCurrent).
		Description(hermes3Description).
		Homepage("https://hermes3.readthedocs.io/").
		Git("https://github.com/boutproject/hermes-3.git").
		Maintainers("bendudson").
		License("GPL-3.0-or-later").
		AddVersion(recipe.BranchVersion("develop", "develop")).
		AddVersion(recipe.BranchVersion("master", "master", recipe.WithSubmodules(), recipe.AsPreferred()))
	for _, v := range hermes3Tags {
		b.AddVersion(recipe.TagVersion(v, "v"+v, recipe.WithSubmodules()))
	}

	b.AddVariant(recipe.SingleVariant("limiter", "MC", []string{"MC", "MinMod"}, "Slope limiter")).
		AddVariant(recipe.BoolVariant("xhermes", true, "Builds xhermes (required for some tests).")).
		AddVariant(recipe.BoolVariant(vantageReactions, false, "Build Hermes-3 with VANTAGE-Reactions support.").
			WithValidator(RequirePackage("Building hermes-3 with +vantagereactions requires the packages from a local copy of https://github.com/UKAEA-Edge-Code/VANTAGE-Reactions.")))

	b.AddDependency("cmake@3.24:", recipe.WithUsage(recipe.UsageBuild)).
		AddDependency("fftw", recipe.WithUsage(recipe.UsageBuild, recipe.UsageLink)).
		AddDependency("mpi", recipe.WithUsage(recipe.UsageBuild, recipe.UsageLink, recipe.UsageRun)).
		AddDependency(BoutppName, recipe.WithUsage(recipe.UsageBuild, recipe.UsageLink)).
		AddDependency("netcdf-cxx4", recipe.WithUsage(recipe.UsageBuild, recipe.UsageLink)).
		AddDependency("py-boutdata@0.3.0:", recipe.WithUsage(recipe.UsageRun)).
		AddDependency("py-xhermes", recipe.WithUsage(recipe.UsageRun), recipe.When("+xhermes"))
	if idx != nil && idx.Exists(vantageReactions) {
		b.AddDependency(vantageReactions, recipe.WithUsage(recipe.UsageBuild, recipe.UsageLink), recipe.When("+"+vantageReactions))
	}

	b.AddArgumentMapping(recipe.FixedBool("HERMES_BUILD_BOUT", false)).
		AddVariantMapping("HERMES_SLOPE_LIMITER", "limiter").
		AddVariantMapping("HERMES_USE_VANTAGE", vantageReactions)

	return b.MustBuild()
}

// Hermes3Legacy declares the earlier Hermes-3 recipe, which builds BOUT++
// itself. Here BOUT_DOWNLOAD_SUNDIALS follows the bout-sundials variant.
func Hermes3Legacy() *recipe.Package {
	b := recipe.NewBuilder(Hermes3Name).
		Revision(RevisionLegacy).
		Description(hermes3Description).
		Homepage("https://hermes3.readthedocs.io/").
		Git("https://github.com/bendudson/hermes-3.git").
		Maintainers("bendudson").
		License("GPL-3.0-or-later").
		// for use with the develop option in environments
		AddVersion(recipe.BranchVersion("working", "master")).
		AddVersion(recipe.BranchVersion("master", "master", recipe.WithSubmodules(), recipe.AsPreferred()))
	for _, v := range hermes3Tags {
		b.AddVersion(recipe.TagVersion(v, "v"+v, recipe.WithSubmodules()))
	}

	b.AddVariant(recipe.SingleVariant("limiter", "MC", []string{"MC", "MinMod"}, "Slope limiter")).
		AddVariant(recipe.BoolVariant("petsc", false, "Builds with PETSc support.")).
		AddVariant(recipe.BoolVariant("bout-sundials", false, "Builds with SUNDIALS support, SUNDIALS downloaded by BOUT++.")).
		AddVariant(recipe.BoolVariant("sundials", true, "Builds with SUNDIALS support.")).
		AddVariant(recipe.BoolVariant("xhermes", true, "Builds xhermes (required for some tests)."))

	all := recipe.WithUsage(recipe.UsageBuild, recipe.UsageLink, recipe.UsageRun)
	b.AddDependency("cmake@3.24:", recipe.WithUsage(recipe.UsageBuild)).
		AddDependency("fftw", all).
		AddDependency("mpi", all).
		AddDependency("netcdf-cxx4", all).
		AddDependency("py-cython", all).
		AddDependency("py-jinja2", all).
		AddDependency("py-netcdf4", all).
		AddDependency("petsc+hypre+mpi~debug~fortran", all, recipe.When("+petsc")).
		AddDependency("py-xhermes", all, recipe.When("+xhermes")).
		AddDependency("sundials", all, recipe.When("+sundials"))

	b.AddVariantMapping("BOUT_DOWNLOAD_SUNDIALS", "bout-sundials").
		AddVariantMapping("HERMES_SLOPE_LIMITER", "limiter").
		AddVariantMapping("BOUT_USE_PETSC", "petsc").
		AddVariantMapping("BOUT_USE_SUNDIALS", "sundials")

	return b.MustBuild()
}
