package symlinkfs

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/sharedpkg/pkg/errors"
	"github.com/arthur-debert/sharedpkg/pkg/filesystem"
	"github.com/arthur-debert/sharedpkg/pkg/logging"
	"github.com/arthur-debert/sharedpkg/pkg/paths"
	"github.com/arthur-debert/sharedpkg/pkg/types"
	"github.com/rs/zerolog"
)

// Filesystem manages package links.
type Filesystem struct {
	fs       types.FS
	fallback types.Fallback
	logger   zerolog.Logger
}

// New creates a link manager. An empty fallback means FallbackNone.
func New(fsys types.FS, fallback types.Fallback) *Filesystem {
	if fallback == "" {
		fallback = types.FallbackNone
	}
	return &Filesystem{
		fs:       fsys,
		fallback: fallback,
		logger:   logging.GetLogger("symlinkfs"),
	}
}

func linkError(err error, path, format string, args ...interface{}) error {
	if err == nil {
		return errors.Newf(errors.ErrFilesystem, format, args...).WithDetail(errors.DetailPath, path)
	}
	return errors.Wrapf(err, errors.ErrFilesystem, format, args...).WithDetail(errors.DetailPath, path)
}

// CreateLink makes linkPath point at target. An existing correct link is
// left alone; an existing link to anything else is replaced. A real file or
// directory at linkPath is never touched.
func (f *Filesystem) CreateLink(target, linkPath string, mode types.LinkMode) error {
	absTarget, err := filepath.Abs(target)
	if err != nil {
		return linkError(err, target, "failed to resolve link target %s", target)
	}
	absLink, err := filepath.Abs(linkPath)
	if err != nil {
		return linkError(err, linkPath, "failed to resolve link path %s", linkPath)
	}

	if _, err := f.fs.Stat(absTarget); err != nil {
		return linkError(err, absTarget, "link target %s does not exist", absTarget)
	}

	if filesystem.Exists(f.fs, absLink) {
		if !f.IsLink(absLink) {
			return linkError(nil, absLink, "cannot link %s: path exists and is not a link", absLink)
		}
		if f.PointsTo(absLink, absTarget) {
			f.logger.Debug().Str("link", absLink).Str("target", absTarget).Msg("Link already in place")
			return nil
		}
		f.logger.Debug().Str("link", absLink).Msg("Replacing link with a different target")
		if err := f.RemoveLink(absLink); err != nil {
			return err
		}
	}

	if err := f.fs.MkdirAll(filepath.Dir(absLink), 0755); err != nil {
		return linkError(err, absLink, "failed to create parent directory for %s", absLink)
	}

	stored := absTarget
	if mode == types.LinkModeRelative {
		// The kernel resolves a relative link from the real parent
		// directory, which differs from the lexical one when an ancestor
		// of linkPath is itself a link.
		base, err := f.fs.EvalSymlinks(filepath.Dir(absLink))
		if err != nil {
			return linkError(err, absLink, "failed to resolve parent directory of %s", absLink)
		}
		realTarget, err := f.fs.EvalSymlinks(absTarget)
		if err != nil {
			return linkError(err, absTarget, "failed to resolve link target %s", absTarget)
		}
		rel, err := filepath.Rel(base, realTarget)
		if err != nil {
			return linkError(err, absLink, "failed to compute relative target for %s", absLink)
		}
		stored = rel
	}

	if err := f.fs.Symlink(stored, absLink); err != nil {
		if f.fallback != types.FallbackCopy {
			return linkError(err, absLink, "failed to create link %s -> %s", absLink, stored)
		}
		f.logger.Warn().Err(err).Str("link", absLink).Msg("Symlink failed, placing a copy instead")
		return f.createCopy(absTarget, absLink)
	}

	f.logger.Debug().Str("link", absLink).Str("target", stored).Str("mode", string(mode)).Msg("Link created")
	return nil
}

func (f *Filesystem) createCopy(absTarget, absLink string) error {
	if err := filesystem.CopyTree(f.fs, absTarget, absLink); err != nil {
		_ = f.fs.RemoveAll(absLink)
		return linkError(err, absLink, "failed to copy %s to %s", absTarget, absLink)
	}
	marker := filepath.Join(absLink, paths.LinkMarkerFileName)
	if err := f.fs.WriteFile(marker, []byte(absTarget+"\n"), 0644); err != nil {
		_ = f.fs.RemoveAll(absLink)
		return linkError(err, marker, "failed to write link marker %s", marker)
	}
	return nil
}

// RemoveLink removes the link at linkPath, never its target. A missing
// path is not an error; a path that is not a link is.
func (f *Filesystem) RemoveLink(linkPath string) error {
	info, err := f.fs.Lstat(linkPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return linkError(err, linkPath, "failed to inspect %s", linkPath)
	}

	if info.Mode()&os.ModeSymlink != 0 {
		if err := f.fs.Remove(linkPath); err != nil {
			return linkError(err, linkPath, "failed to remove link %s", linkPath)
		}
		f.logger.Debug().Str("link", linkPath).Msg("Link removed")
		return nil
	}

	if f.isMarkedCopy(linkPath) {
		if err := f.fs.RemoveAll(linkPath); err != nil {
			return linkError(err, linkPath, "failed to remove linked copy %s", linkPath)
		}
		f.logger.Debug().Str("link", linkPath).Msg("Linked copy removed")
		return nil
	}

	return linkError(nil, linkPath, "refusing to remove %s: not a link", linkPath)
}

// IsLink reports whether path is a link. It never fails.
func (f *Filesystem) IsLink(path string) bool {
	info, err := f.fs.Lstat(path)
	if err != nil {
		return false
	}
	if info.Mode()&os.ModeSymlink != 0 {
		return true
	}
	return f.isMarkedCopy(path)
}

// ReadLinkTarget returns the target exactly as stored in the link.
func (f *Filesystem) ReadLinkTarget(path string) (string, error) {
	info, err := f.fs.Lstat(path)
	if err != nil {
		return "", linkError(err, path, "cannot read link %s", path)
	}
	if info.Mode()&os.ModeSymlink != 0 {
		target, err := f.fs.Readlink(path)
		if err != nil {
			return "", linkError(err, path, "cannot read link %s", path)
		}
		return target, nil
	}
	if f.isMarkedCopy(path) {
		return f.readMarker(path)
	}
	return "", linkError(nil, path, "%s is not a link", path)
}

// ResolveLinkTarget returns the absolute target of the link at path.
// Relative targets are joined lexically onto the link's directory.
func (f *Filesystem) ResolveLinkTarget(path string) (string, error) {
	target, err := f.ReadLinkTarget(path)
	if err != nil {
		return "", err
	}
	if !filepath.IsAbs(target) {
		target = filepath.Join(filepath.Dir(path), target)
	}
	return filepath.Clean(target), nil
}

// PointsTo reports whether linkPath is a link that really reaches target.
// Both sides are resolved through the filesystem, so a dangling link or one
// whose relative target the kernel reads from a different directory is
// reported as not pointing to target.
func (f *Filesystem) PointsTo(linkPath, target string) bool {
	want, err := f.fs.EvalSymlinks(target)
	if err != nil {
		return false
	}
	info, err := f.fs.Lstat(linkPath)
	if err != nil {
		return false
	}

	var got string
	switch {
	case info.Mode()&os.ModeSymlink != 0:
		got, err = f.fs.EvalSymlinks(linkPath)
	case f.isMarkedCopy(linkPath):
		var recorded string
		if recorded, err = f.readMarker(linkPath); err == nil {
			got, err = f.fs.EvalSymlinks(recorded)
		}
	default:
		return false
	}
	return err == nil && got == want
}

func (f *Filesystem) isMarkedCopy(path string) bool {
	if f.fallback != types.FallbackCopy || !filesystem.IsRealDir(f.fs, path) {
		return false
	}
	_, err := f.fs.Stat(filepath.Join(path, paths.LinkMarkerFileName))
	return err == nil
}

func (f *Filesystem) readMarker(path string) (string, error) {
	marker := filepath.Join(path, paths.LinkMarkerFileName)
	data, err := f.fs.ReadFile(marker)
	if err != nil {
		return "", linkError(err, marker, "cannot read link marker %s", marker)
	}
	return strings.TrimSpace(string(data)), nil
}
