package config

import (
	"github.com/arthur-debert/sharedpkg/pkg/errors"
	"github.com/arthur-debert/sharedpkg/pkg/paths"
	"github.com/arthur-debert/sharedpkg/pkg/types"
)

// Validate reports malformed configuration as CONFIG_INVALID.
func (c *Config) Validate() error {
	if c.VendorDir == "" {
		return errors.New(errors.ErrConfigInvalid, "vendor_dir must be set")
	}
	if c.SharedType == "" {
		return errors.New(errors.ErrConfigInvalid, "shared_type must be set")
	}
	if _, err := types.ParseLinkMode(string(c.LinkMode)); err != nil {
		return errors.Wrap(err, errors.ErrConfigInvalid, "invalid link_mode")
	}
	if _, err := types.ParseFallback(string(c.Fallback)); err != nil {
		return errors.Wrap(err, errors.ErrConfigInvalid, "invalid fallback")
	}

	if c.StoreDir != "" {
		if paths.IsWithin(c.VendorDir, c.StoreDir) {
			return errors.Newf(errors.ErrConfigInvalid, "store_dir %s must not be inside vendor_dir %s", c.StoreDir, c.VendorDir).
				WithDetail(errors.DetailPath, c.StoreDir)
		}
		if paths.IsWithin(c.StoreDir, c.VendorDir) {
			return errors.Newf(errors.ErrConfigInvalid, "vendor_dir %s must not be inside store_dir %s", c.VendorDir, c.StoreDir).
				WithDetail(errors.DetailPath, c.VendorDir)
		}
	}

	for _, name := range c.Overrides {
		if c.IsExcluded(name) {
			return errors.Newf(errors.ErrConfigInvalid, "package %s is both overridden and excluded", name).
				WithDetail(errors.DetailPackage, name)
		}
	}

	return nil
}
