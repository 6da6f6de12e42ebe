// Package classifier decides which installation strategy a package uses.
package classifier

import (
	"github.com/arthur-debert/sharedpkg/pkg/config"
	"github.com/arthur-debert/sharedpkg/pkg/types"
)

// IsShared reports whether d is installed through the shared store.
//
// Sharing requires a configured store. Excludes and a manifest opt-out win
// over everything; otherwise the package is shared when its type matches
// the configured shared type, its name is in the override list, or its
// manifest opts in. The result depends only on d and cfg.
func IsShared(d types.PackageDescriptor, cfg *config.Config) bool {
	if cfg == nil || !cfg.SharingEnabled() {
		return false
	}
	if cfg.IsExcluded(d.Name) {
		return false
	}

	preference, set := d.SharedPreference()
	if set && !preference {
		return false
	}

	return d.Type == cfg.SharedType || cfg.IsOverridden(d.Name) || preference
}

// Classify returns the strategy tag for d.
func Classify(d types.PackageDescriptor, cfg *config.Config) types.Kind {
	if IsShared(d, cfg) {
		return types.KindShared
	}
	return types.KindDefault
}
