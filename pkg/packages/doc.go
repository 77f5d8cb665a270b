// Package packages holds the recipes shipped with boutpkg and the catalog
// that serves them.
//
// # Recipes
//
//   - boutpp: the BOUT++ framework
//   - hermes-3, revision "current": builds against boutpp, with optional
//     VANTAGE-Reactions support
//   - hermes-3, revision "legacy": builds BOUT++ in-tree and may let it
//     download SUNDIALS
//
// Each revision is an independent recipe. The same definition name can
// mean different things in different revisions (BOUT_DOWNLOAD_SUNDIALS is
// variant driven in the legacy hermes-3 recipe and always OFF in boutpp).
//
// # Catalog
//
// A Catalog looks packages up by case-insensitive name and revision and
// implements recipe.PackageIndex. Besides its own recipes it knows the
// external packages listed in data/known-packages.yaml plus any names
// supplied by the caller:
//
//	cat, err := packages.NewCatalog(packages.WithKnownPackages("vantagereactions"))
//	resolver := recipe.NewResolver(recipe.WithIndex(cat))
//	pkg, err := cat.Lookup("hermes-3", "")
//	res, err := resolver.Resolve(ctx, pkg, recipe.Request{
//		Variants: recipe.Selection{"vantagereactions": true},
//	})
//
// # Build plans
//
// A Planner resolves a package and every catalog package it depends on and
// returns them dependencies first:
//
//	plan, err := packages.NewPlanner(cat, resolver, version).Plan(ctx, req)
package packages
