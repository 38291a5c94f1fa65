// Package semverx wraps github.com/Masterminds/semver/v3 with the narrow
// surface Solo needs: parsing application/chart versions (spec §6
// "versions: { cli, chart, consensusNode, ... }") and version-range checks
// used when deciding whether a migration or upgrade path applies.
package semverx

import (
	"github.com/Masterminds/semver/v3"
	"github.com/hashgraph/solo-sub009/internal/soloerr"
)

// Version is a parsed semantic version.
type Version struct {
	inner *semver.Version
	raw   string
}

// Parse parses s as a semantic version, tolerating a leading "v" (the
// convention every chart/CLI version string in this system uses).
func Parse(s string) (Version, error) {
	v, err := semver.NewVersion(s)
	if err != nil {
		return Version{}, soloerr.IllegalArgument("invalid version %q: %v", s, err)
	}
	return Version{inner: v, raw: s}, nil
}

// String returns the original input string.
func (v Version) String() string { return v.raw }

// Compare returns -1, 0, or 1 per v's ordering against other.
func (v Version) Compare(other Version) int {
	return v.inner.Compare(other.inner)
}

// LessThan reports whether v precedes other.
func (v Version) LessThan(other Version) bool {
	return v.inner.LessThan(other.inner)
}

// Range is a version constraint expression (e.g. ">= 0.60.0, < 1.0.0").
type Range struct {
	inner *semver.Constraints
	raw   string
}

// ParseRange parses expr as a version-range constraint.
func ParseRange(expr string) (Range, error) {
	c, err := semver.NewConstraint(expr)
	if err != nil {
		return Range{}, soloerr.IllegalArgument("invalid version range %q: %v", expr, err)
	}
	return Range{inner: c, raw: expr}, nil
}

// Contains reports whether v satisfies r.
func (r Range) Contains(v Version) bool {
	return r.inner.Check(v.inner)
}

// String returns the original constraint expression.
func (r Range) String() string { return r.raw }
