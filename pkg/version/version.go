// Package version compares package versions.
//
// This is a thin wrapper around github.com/Masterminds/semver/v3 that falls
// back to plain string comparison for versions that are not semantic
// (branch aliases such as "dev-master").
package version

import (
	"strings"

	mm "github.com/Masterminds/semver/v3"
)

// Direction describes a version transition.
type Direction string

const (
	Upgrade   Direction = "upgrade"
	Downgrade Direction = "downgrade"
	Reinstall Direction = "reinstall"
)

// Compare compares a and b, returning:
// -1 if a < b
//
//	0 if a == b
//	1 if a > b
func Compare(a, b string) int {
	va, errA := mm.NewVersion(a)
	vb, errB := mm.NewVersion(b)
	if errA == nil && errB == nil {
		return va.Compare(vb)
	}
	return strings.Compare(a, b)
}

// IsSemantic reports whether v parses as a semantic version.
func IsSemantic(v string) bool {
	_, err := mm.NewVersion(v)
	return err == nil
}

// DirectionOf classifies the move from one version to another.
func DirectionOf(from, to string) Direction {
	switch c := Compare(from, to); {
	case c < 0:
		return Upgrade
	case c > 0:
		return Downgrade
	default:
		return Reinstall
	}
}
