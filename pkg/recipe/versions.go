package recipe

import (
	"fmt"
	"regexp"

	bperrors "github.com/boutproject/boutpkg/pkg/errors"
	"github.com/boutproject/boutpkg/pkg/version"
)

var commitPattern = regexp.MustCompile(`^[0-9a-f]{7,40}$`)

// VersionSpec is a fetchable package version. Exactly one of Release,
// Branch, Tag and Commit identifies where its sources come from.
type VersionSpec struct {
	// Identifier is the user-facing version, e.g. "5.1.0" or "develop".
	Identifier string `json:"identifier" yaml:"identifier"`

	// Release marks a version fetched from the package's release archive URL.
	Release bool   `json:"release,omitempty" yaml:"release,omitempty"`
	Branch  string `json:"branch,omitempty" yaml:"branch,omitempty"`
	Tag     string `json:"tag,omitempty" yaml:"tag,omitempty"`
	Commit  string `json:"commit,omitempty" yaml:"commit,omitempty"`

	Submodules bool `json:"submodules,omitempty" yaml:"submodules,omitempty"`
	Preferred  bool `json:"preferred,omitempty" yaml:"preferred,omitempty"`
}

// VersionOption configures a VersionSpec.
type VersionOption func(*VersionSpec)

// WithSubmodules requests that git submodules be fetched.
func WithSubmodules() VersionOption {
	return func(v *VersionSpec) { v.Submodules = true }
}

// AsPreferred marks the version as the default when none is requested.
func AsPreferred() VersionOption {
	return func(v *VersionSpec) { v.Preferred = true }
}

// ReleaseVersion declares a version fetched from the release archive.
func ReleaseVersion(id string, opts ...VersionOption) VersionSpec {
	return applyVersionOptions(VersionSpec{Identifier: id, Release: true}, opts)
}

// BranchVersion declares a version tracking a branch.
func BranchVersion(id, branch string, opts ...VersionOption) VersionSpec {
	return applyVersionOptions(VersionSpec{Identifier: id, Branch: branch}, opts)
}

// TagVersion declares a version pinned to a tag.
func TagVersion(id, tag string, opts ...VersionOption) VersionSpec {
	return applyVersionOptions(VersionSpec{Identifier: id, Tag: tag}, opts)
}

// CommitVersion declares a version pinned to a commit hash.
func CommitVersion(id, commit string, opts ...VersionOption) VersionSpec {
	return applyVersionOptions(VersionSpec{Identifier: id, Commit: commit}, opts)
}

func applyVersionOptions(v VersionSpec, opts []VersionOption) VersionSpec {
	for _, opt := range opts {
		opt(&v)
	}
	return v
}

// Source describes the fetch mechanism, e.g. "tag v5.1.0".
func (v VersionSpec) Source() string {
	switch {
	case v.Branch != "":
		return "branch " + v.Branch
	case v.Tag != "":
		return "tag " + v.Tag
	case v.Commit != "":
		return "commit " + v.Commit
	case v.Release:
		return "release"
	}
	return ""
}

// Parsed returns the identifier as a comparable version.
func (v VersionSpec) Parsed() (version.Version, error) {
	return version.ParseVersion(v.Identifier)
}

// Validate enforces exactly one identification mechanism and a parseable
// identifier.
func (v VersionSpec) Validate() error {
	parsed, err := v.Parsed()
	if err != nil {
		return bperrors.WrapWithContext(bperrors.ErrCodeInvalidValue,
			fmt.Sprintf("invalid version identifier %q", v.Identifier), err,
			map[string]any{"version": v.Identifier})
	}

	n := 0
	for _, set := range []bool{v.Release, v.Branch != "", v.Tag != "", v.Commit != ""} {
		if set {
			n++
		}
	}
	if n != 1 {
		return bperrors.NewWithContext(bperrors.ErrCodeInvalidValue,
			fmt.Sprintf("version %q must have exactly one of release, branch, tag or commit (has %d)", v.Identifier, n),
			map[string]any{"version": v.Identifier})
	}

	if v.Release && parsed.IsNamed() {
		return bperrors.NewWithContext(bperrors.ErrCodeInvalidValue,
			fmt.Sprintf("release version %q must be numeric", v.Identifier),
			map[string]any{"version": v.Identifier})
	}
	if v.Commit != "" && !commitPattern.MatchString(v.Commit) {
		return bperrors.NewWithContext(bperrors.ErrCodeInvalidValue,
			fmt.Sprintf("version %q has malformed commit hash %q", v.Identifier, v.Commit),
			map[string]any{"version": v.Identifier, "commit": v.Commit})
	}
	return nil
}
