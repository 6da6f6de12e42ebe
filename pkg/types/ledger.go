package types

// Ledger is the host's record of what is installed in a project.
// It holds at most one version per package name.
type Ledger interface {
	// HasPackage reports whether this exact name and version is recorded.
	HasPackage(d PackageDescriptor) bool

	// Installation returns the recorded placement for this exact name and
	// version.
	Installation(d PackageDescriptor) (Installation, bool)

	// Find returns the recorded descriptor for a package name, whatever its
	// version.
	Find(name string) (PackageDescriptor, bool)

	// AddPackage records d, replacing any record with the same name.
	AddPackage(d PackageDescriptor, inst Installation) error

	// RemovePackage drops the record for d. Removing an unknown package is
	// not an error.
	RemovePackage(d PackageDescriptor) error

	// Packages lists recorded descriptors sorted by name.
	Packages() []PackageDescriptor
}
