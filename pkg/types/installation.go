package types

import "fmt"

// Kind tags the strategy used to place a package.
type Kind int

const (
	// KindDefault packages are full copies owned by the project.
	KindDefault Kind = iota
	// KindShared packages live in the store and are linked into the project.
	KindShared
)

func (k Kind) String() string {
	switch k {
	case KindShared:
		return "shared"
	case KindDefault:
		return "default"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ParseKind is the inverse of Kind.String.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "shared":
		return KindShared, nil
	case "default", "":
		return KindDefault, nil
	default:
		return KindDefault, fmt.Errorf("unknown installation kind %q", s)
	}
}

// Installation records how a package was placed. StorePath is only set for
// shared installations.
type Installation struct {
	Kind      Kind
	StorePath string
}

// SharedInstallation returns an Installation for a package linked to storePath.
func SharedInstallation(storePath string) Installation {
	return Installation{Kind: KindShared, StorePath: storePath}
}

// DefaultInstallation returns an Installation for a fully copied package.
func DefaultInstallation() Installation {
	return Installation{Kind: KindDefault}
}

// IsShared reports whether the installation is a store link.
func (i Installation) IsShared() bool {
	return i.Kind == KindShared
}
