package symlinkfs

import (
	"path/filepath"

	"github.com/arthur-debert/sharedpkg/pkg/errors"
	"github.com/arthur-debert/sharedpkg/pkg/logging"
	"github.com/arthur-debert/sharedpkg/pkg/types"
)

const probeName = ".sharedpkg-probe"

// CheckSupport verifies that symlinks can be created in dir. Missing
// support is a configuration error unless the copy fallback is enabled.
func CheckSupport(fsys types.FS, dir string, fallback types.Fallback) error {
	logger := logging.GetLogger("symlinkfs")

	if err := fsys.MkdirAll(dir, 0755); err != nil {
		return errors.Wrapf(err, errors.ErrConfigInvalid, "cannot create %s", dir).
			WithDetail(errors.DetailPath, dir)
	}

	target := filepath.Join(dir, probeName+"-target")
	link := filepath.Join(dir, probeName+"-link")
	_ = fsys.RemoveAll(target)
	_ = fsys.Remove(link)
	defer func() {
		_ = fsys.Remove(link)
		_ = fsys.RemoveAll(target)
	}()

	if err := fsys.MkdirAll(target, 0755); err != nil {
		return errors.Wrapf(err, errors.ErrConfigInvalid, "cannot write to %s", dir).
			WithDetail(errors.DetailPath, dir)
	}

	if err := fsys.Symlink(target, link); err != nil {
		if fallback == types.FallbackCopy {
			logger.Warn().Err(err).Str("dir", dir).Msg("Symlinks unsupported, using copy fallback")
			return nil
		}
		return errors.Wrapf(err, errors.ErrConfigInvalid, "symbolic links are not supported in %s", dir).
			WithDetail(errors.DetailPath, dir)
	}

	logger.Trace().Str("dir", dir).Msg("Symlink support confirmed")
	return nil
}
