// Package cli implements the boutpkg command-line interface.
//
// # Commands
//
// resolve - resolve a package spec:
//
//	boutpkg resolve boutpp@5.1.0+petsc~python check=3 buildtests=all
//
// Prints the resolved configuration: selected version, variants, ordered
// build-system definitions, dependencies with usage kinds and patches.
//
// cmake - render CMake arguments:
//
//	boutpkg cmake [--style args|command|cache] [--source-dir DIR] <spec>
//
// plan - resolve a package and its catalog dependencies in build order:
//
//	boutpkg plan hermes-3 limiter=MinMod
//
// info, list - inspect the recipe catalog:
//
//	boutpkg list
//	boutpkg info --revision legacy hermes-3
//
// # Global Flags
//
//   - --log-level: debug, info, warn, error (env BOUTPKG_LOG_LEVEL, LOG_LEVEL)
//   - --known-packages: KnownPackages file with extra available packages (env BOUTPKG_KNOWN_PACKAGES)
//
// Commands that resolve a spec also take --request (a BuildRequest file or
// URL used instead of the spec arguments), --revision and --timeout. Output
// goes to --output or stdout in --format json, yaml or table.
package cli
