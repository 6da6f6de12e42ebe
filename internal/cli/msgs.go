package cli

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort    = "Install packages through a shared, version-keyed store"
	MsgVersionShort = "Print version information"
	MsgVersionLong  = "Print detailed version information including commit hash and build date"
	MsgSyncShort    = "Install, update and remove packages to match a lock file"
	MsgStatusShort  = "Show installed packages and how they are placed"
	MsgPathShort    = "Print the project path of an installed package"
	MsgConfigShort  = "Print the effective configuration"

	// Status messages
	MsgDryRunNotice     = "\nDRY RUN MODE - No changes were made"
	MsgNoOperations     = "No operations needed."
	MsgPlannedFormat    = "Planned %d operations:\n"
	MsgOperationsFormat = "\nPerformed %d operations:\n"
	MsgOperationItem    = "  ✓ %s\n"
	MsgPlannedItem      = "  - %s\n"
	MsgNoPackages       = "No packages installed."

	// Flag descriptions
	MsgFlagVerbose   = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagConfig    = "Config file (default: .sharedpkg.toml in the project root)"
	MsgFlagStoreDir  = "Shared store directory (empty disables sharing)"
	MsgFlagVendorDir = "Project vendor directory"
	MsgFlagLinkMode  = "Link mode: relative or absolute"
	MsgFlagDryRun    = "Preview changes without executing them"
	MsgFlagMetrics   = "Write operation metrics in Prometheus text format to this file"
)

// Long descriptions
const (
	MsgRootLong = `sharedpkg installs project dependencies either as full copies in the
vendor directory or, for shared packages, once into a global store keyed by
name and version and linked into each project.`

	MsgSyncLong = `Sync reads a lock file listing resolved packages and brings the vendor
directory in line with it. Packages missing from the ledger are installed,
changed packages are updated and packages no longer listed are removed.
Shared packages keep their store entries when removed.`
)
