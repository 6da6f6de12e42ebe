package types

// Operation names one of the mutating installer operations.
type Operation string

const (
	OperationInstall   Operation = "install"
	OperationUpdate    Operation = "update"
	OperationUninstall Operation = "uninstall"
)

// Installer is the uniform installer contract of the host package manager.
type Installer interface {
	// GetInstallPath returns where the package appears in the project.
	GetInstallPath(d PackageDescriptor) string

	Install(ledger Ledger, d PackageDescriptor) error
	Update(ledger Ledger, initial, target PackageDescriptor) error
	Uninstall(ledger Ledger, d PackageDescriptor) error

	// IsInstalled is a soft consistency check and never fails.
	IsInstalled(ledger Ledger, d PackageDescriptor) bool

	Supports(packageType string) bool
}

// LifecycleInstaller adds the hooks the host pipeline calls around every
// operation. prev is nil unless the operation is an update.
type LifecycleInstaller interface {
	Installer

	Download(d PackageDescriptor, prev *PackageDescriptor) error
	Prepare(op Operation, d PackageDescriptor, prev *PackageDescriptor) error
	Cleanup(op Operation, d PackageDescriptor, prev *PackageDescriptor) error
}
