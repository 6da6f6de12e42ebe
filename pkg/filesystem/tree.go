package filesystem

import (
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/arthur-debert/sharedpkg/pkg/types"
)

// CopyTree copies src into dst through fsys. Links inside the tree are
// recreated as links, not followed. dst is created if missing.
func CopyTree(fsys types.FS, src, dst string) error {
	if _, err := fsys.Stat(src); err != nil {
		return fmt.Errorf("failed to stat %s: %w", src, err)
	}
	if err := fsys.CopyTree(src, dst); err != nil {
		return fmt.Errorf("failed to copy %s to %s: %w", src, dst, err)
	}
	return nil
}

// RemovePath deletes whatever sits at path. A link is removed without
// touching its target, a directory is removed with its contents, and a
// missing path is not an error.
func RemovePath(fsys types.FS, path string) error {
	info, err := fsys.Lstat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.Mode()&os.ModeSymlink != 0 {
		err = fsys.Remove(path)
	} else {
		err = fsys.RemoveAll(path)
	}
	if err != nil {
		return fmt.Errorf("failed to remove %s: %w", path, err)
	}
	return nil
}

// WriteStream writes r to path with the given permissions.
func WriteStream(fsys types.FS, path string, r io.Reader, perm fs.FileMode) error {
	out, err := fsys.Create(path, perm)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if _, err := io.Copy(out, r); err != nil {
		_ = out.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	return nil
}

// Exists reports whether path exists without following a final symlink.
func Exists(fsys types.FS, path string) bool {
	_, err := fsys.Lstat(path)
	return err == nil
}

// IsRealDir reports whether path is a directory and not a symlink to one.
func IsRealDir(fsys types.FS, path string) bool {
	info, err := fsys.Lstat(path)
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeSymlink == 0 && info.IsDir()
}
