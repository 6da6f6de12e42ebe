package config

import (
	"github.com/arthur-debert/sharedpkg/pkg/paths"
	"github.com/arthur-debert/sharedpkg/pkg/types"
)

// Config is the installer configuration. It is read-only once Load returns.
type Config struct {
	// ProjectRoot anchors relative directories.
	ProjectRoot string `koanf:"project_root"`

	// StoreDir is the shared-store root. Empty disables sharing.
	StoreDir string `koanf:"store_dir"`

	// VendorDir is the project dependency directory.
	VendorDir string `koanf:"vendor_dir"`

	// SharedType is the package type tag that marks a package as shared.
	SharedType string `koanf:"shared_type"`

	LinkMode types.LinkMode `koanf:"link_mode"`

	// Overrides lists package names installed as shared whatever their type.
	Overrides []string `koanf:"overrides"`

	// Excludes lists package names never installed as shared.
	Excludes []string `koanf:"excludes"`

	Fallback types.Fallback `koanf:"fallback"`

	// Verify checks the store marker after every link.
	Verify bool `koanf:"verify"`

	LedgerFile string `koanf:"ledger_file"`
}

// Layout returns the path layout for this configuration.
func (c *Config) Layout() paths.Layout {
	return paths.Layout{StoreDir: c.StoreDir, VendorDir: c.VendorDir}
}

// SharingEnabled reports whether a store is configured.
func (c *Config) SharingEnabled() bool {
	return c.StoreDir != ""
}

// IsOverridden reports whether name is forced shared.
func (c *Config) IsOverridden(name string) bool {
	return contains(c.Overrides, name)
}

// IsExcluded reports whether name is forced default.
func (c *Config) IsExcluded(name string) bool {
	return contains(c.Excludes, name)
}

func contains(list []string, name string) bool {
	for _, item := range list {
		if item == name {
			return true
		}
	}
	return false
}
