// Package version parses package version identifiers and version range
// constraints as they appear in build recipes.
//
// # Versions
//
// A Version is either numeric with flexible precision ("5", "5.1", "5.1.0",
// optionally prefixed with "v") or named ("develop", "master"). Precision
// matters for comparison: a lower-precision version acts as a wildcard for
// the missing components, so "5.1" compares equal to "5.1.0" and "5.1.7".
//
// Named versions follow the usual recipe convention: develop, main, master,
// head, trunk and stable are newer than every numeric version (in that order,
// develop being the newest); any other name sorts below all numeric versions.
//
// # Ranges
//
// Constraints use the colon range syntax:
//
//	5.0.0        exactly 5.0.0
//	5.1          any 5.1.x
//	3.7:3.23     3.7 <= v <= 3.23.x
//	:3.17        v <= 3.17.x
//	3.24:        v >= 3.24
//	5.0.0,5.1.1  union of ranges
//
// Numeric ranges are compiled once into github.com/Masterminds/semver/v3
// constraints; ranges with named bounds fall back to precision-aware
// comparison.
package version
