package types

import "fmt"

// MetapackageType is the type tag for packages that carry no files.
const MetapackageType = "metapackage"

// ExtraSharedKey is the manifest extra key a package can use to opt in to
// (true) or out of (false) shared installation.
const ExtraSharedKey = "shared-package"

// PackageDescriptor identifies a resolved dependency. It is owned by the
// host resolver and treated as immutable here.
type PackageDescriptor struct {
	Name       string
	PrettyName string
	Version    string
	Type       string
	// Source is the local directory or archive the host already fetched
	// for this package.
	Source string
	Extra  map[string]interface{}
}

// ID returns name@version.
func (d PackageDescriptor) ID() string {
	return fmt.Sprintf("%s@%s", d.Name, d.Version)
}

// DisplayName returns the pretty name, falling back to the name.
func (d PackageDescriptor) DisplayName() string {
	if d.PrettyName != "" {
		return d.PrettyName
	}
	return d.Name
}

// SharedPreference reports the manifest's explicit shared-package extra.
// The second return value is false when the manifest does not set it.
func (d PackageDescriptor) SharedPreference() (bool, bool) {
	if d.Extra == nil {
		return false, false
	}
	v, ok := d.Extra[ExtraSharedKey].(bool)
	return v, ok
}

// IsMetapackage reports whether the package has no contents to place.
func (d PackageDescriptor) IsMetapackage() bool {
	return d.Type == MetapackageType
}
