// Package recipe implements variant-to-build-argument resolution for
// declarative package recipes.
//
// A recipe declares a package's versions, its variants (user-selectable
// build options), dependencies conditioned on those variants, patches and
// the mapping from variant selections to CMake definitions. Resolution turns
// a request (package, version, partial variant selection) into a complete,
// validated configuration and compiles it into an ordered list of
// definitions plus the dependencies that apply.
//
// # Declaring a Package
//
// Packages are assembled with a Builder and are immutable once built:
//
//	pkg, err := recipe.NewBuilder("boutpp").
//	    AddVersion(recipe.BranchVersion("master", "master", recipe.WithSubmodules(), recipe.AsPreferred())).
//	    AddVersion(recipe.TagVersion("5.1.0", "v5.1.0", recipe.WithSubmodules())).
//	    AddVariant(recipe.BoolVariant("petsc", false, "Builds with PETSc support.")).
//	    AddVariant(recipe.MultiVariant("check", []string{"2"}, []string{"0", "1", "2", "3", "4"}, "Runtime checking level.")).
//	    AddDependency("petsc+mpi", recipe.When("+petsc")).
//	    AddArgumentMapping(recipe.FixedBool("BOUT_ENABLE_MPI", true)).
//	    AddVariantMapping("BOUT_USE_PETSC", "petsc").
//	    AddVariantMapping("CHECK", "check").
//	    Build()
//
// Build rejects duplicate variants and versions, defaults outside their
// domain, conditions or mappings referring to undeclared variants, and
// unconditional fixed definitions that disagree.
//
// # Resolution Pipeline
//
//  1. VariantRegistry.Resolve fills every declared variant from the request
//     or its default. Unknown names fail with UNKNOWN_VARIANT, values outside
//     the domain with INVALID_VALUE, unless the variant has a validator whose
//     verdict is then authoritative (VALIDATOR_REJECTED on refusal).
//  2. Conditions ("+petsc", "~debug", "check=3", "@5.1:", combinations) are
//     parsed once into a Condition tree and evaluated against the resolved
//     configuration. Referring to an undeclared variant fails with
//     UNRESOLVED_REFERENCE instead of evaluating to false.
//  3. Compile emits definitions in declaration order and keeps dependencies
//     whose condition holds. Two different values for one definition fail
//     with CONFLICTING_DEFINITION.
//
// Resolver.Resolve runs the pipeline for one request; ResolveAll runs
// independent requests in parallel. Both either return a complete Result or
// a single *errors.StructuredError.
//
// # Spec Strings
//
// Requests can be written in the compact spec syntax:
//
//	boutpp@5.1.0+petsc~python check=3 buildtests=all
//
// # Documents
//
// Requests can also be supplied as BuildRequest documents from files, URLs
// or HTTP bodies:
//
//	kind: BuildRequest
//	apiVersion: boutpkg.boutproject.org/v1alpha1
//	spec:
//	  package: hermes-3
//	  variants:
//	    limiter: MinMod
//
// # Validators and the Package Index
//
// A variant may carry a ValidatorFunc. It receives the candidate value, the
// variant name, the full requested selection and the PackageIndex injected
// with WithIndex, and returns a Verdict that can mark the value as
// unavailable in the current environment rather than merely rejected.
package recipe
