package library

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/sharedpkg/pkg/filesystem"
	"github.com/arthur-debert/sharedpkg/pkg/paths"
	"github.com/arthur-debert/sharedpkg/pkg/types"
)

type archiveFormat int

const (
	formatNone archiveFormat = iota
	formatTar
	formatTarGz
	formatZip
)

func detectFormat(path string) archiveFormat {
	lower := strings.ToLower(path)
	switch {
	case strings.HasSuffix(lower, ".tar.gz"), strings.HasSuffix(lower, ".tgz"):
		return formatTarGz
	case strings.HasSuffix(lower, ".tar"):
		return formatTar
	case strings.HasSuffix(lower, ".zip"):
		return formatZip
	default:
		return formatNone
	}
}

// entryPath joins an archive entry name onto dest, rejecting entries that
// would land outside it. Entries whose path crosses a link extracted earlier
// are rejected too, since the kernel would resolve through it.
func entryPath(fsys types.FS, dest, name string) (string, error) {
	target := filepath.Join(dest, filepath.FromSlash(name))
	if !paths.IsWithin(dest, target) {
		return "", fmt.Errorf("archive entry %q escapes destination", name)
	}

	rel, err := filepath.Rel(dest, target)
	if err != nil || rel == "." {
		return target, nil
	}
	cur := dest
	for _, part := range strings.Split(rel, string(filepath.Separator)) {
		cur = filepath.Join(cur, part)
		info, err := fsys.Lstat(cur)
		if err != nil {
			// Nothing below a missing component can exist yet.
			break
		}
		if info.Mode()&fs.ModeSymlink != 0 {
			return "", fmt.Errorf("archive entry %q passes through link %s", name, cur)
		}
	}
	return target, nil
}

// linkStaysWithin reports whether a link written at target with the given
// link text resolves inside dest. Parent references are only accepted as a
// leading run so that no earlier link can be climbed out of.
func linkStaysWithin(dest, target, linkname string) bool {
	if filepath.IsAbs(linkname) {
		return false
	}
	climbing := true
	for _, part := range strings.Split(filepath.ToSlash(linkname), "/") {
		switch part {
		case "..":
			if !climbing {
				return false
			}
		case ".", "":
		default:
			climbing = false
		}
	}
	return paths.IsWithin(dest, filepath.Join(filepath.Dir(target), linkname))
}

func extract(fsys types.FS, archive, dest string) error {
	switch detectFormat(archive) {
	case formatTarGz:
		return extractTar(fsys, archive, dest, true)
	case formatTar:
		return extractTar(fsys, archive, dest, false)
	case formatZip:
		return extractZip(fsys, archive, dest)
	default:
		return fmt.Errorf("unsupported archive format: %s", archive)
	}
}

func extractTar(fsys types.FS, archive, dest string, gzipped bool) error {
	f, err := fsys.Open(archive)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", archive, err)
	}
	defer func() { _ = f.Close() }()

	var r io.Reader = f
	if gzipped {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return fmt.Errorf("failed to read gzip stream %s: %w", archive, err)
		}
		defer func() { _ = gz.Close() }()
		r = gz
	}

	tr := tar.NewReader(r)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", archive, err)
		}

		target, err := entryPath(fsys, dest, hdr.Name)
		if err != nil {
			return err
		}

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := fsys.MkdirAll(target, hdr.FileInfo().Mode().Perm()|0700); err != nil {
				return fmt.Errorf("failed to create %s: %w", target, err)
			}
		case tar.TypeReg:
			if err := fsys.MkdirAll(filepath.Dir(target), 0755); err != nil {
				return fmt.Errorf("failed to create %s: %w", filepath.Dir(target), err)
			}
			if err := filesystem.WriteStream(fsys, target, tr, hdr.FileInfo().Mode().Perm()); err != nil {
				return err
			}
		case tar.TypeSymlink:
			if !linkStaysWithin(dest, target, hdr.Linkname) {
				return fmt.Errorf("archive link %q points outside destination", hdr.Name)
			}
			if err := fsys.MkdirAll(filepath.Dir(target), 0755); err != nil {
				return fmt.Errorf("failed to create %s: %w", filepath.Dir(target), err)
			}
			if err := fsys.Symlink(hdr.Linkname, target); err != nil {
				return fmt.Errorf("failed to create link %s: %w", target, err)
			}
		default:
			// Devices, fifos and hard links are not package contents.
		}
	}
}

func extractZip(fsys types.FS, archive, dest string) error {
	data, err := fsys.ReadFile(archive)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", archive, err)
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return fmt.Errorf("failed to open zip %s: %w", archive, err)
	}

	for _, zf := range zr.File {
		target, err := entryPath(fsys, dest, zf.Name)
		if err != nil {
			return err
		}

		if zf.FileInfo().IsDir() {
			if err := fsys.MkdirAll(target, 0755); err != nil {
				return fmt.Errorf("failed to create %s: %w", target, err)
			}
			continue
		}

		if err := fsys.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return fmt.Errorf("failed to create %s: %w", filepath.Dir(target), err)
		}
		rc, err := zf.Open()
		if err != nil {
			return fmt.Errorf("failed to open %s in %s: %w", zf.Name, archive, err)
		}
		perm := zf.Mode().Perm()
		if perm == 0 {
			perm = 0644
		}
		err = filesystem.WriteStream(fsys, target, rc, perm)
		_ = rc.Close()
		if err != nil {
			return err
		}
	}
	return nil
}

// flattenSingleRoot hoists the contents of a lone top-level directory, the
// usual layout of dist archives, up into dir.
func flattenSingleRoot(fsys types.FS, dir string) error {
	entries, err := fsys.ReadDir(dir)
	if err != nil {
		return err
	}
	if len(entries) != 1 || !entries[0].IsDir() {
		return nil
	}

	inner := filepath.Join(dir, entries[0].Name())
	hoisted := dir + ".root"
	if err := fsys.Rename(inner, hoisted); err != nil {
		return err
	}
	if err := fsys.Remove(dir); err != nil {
		return err
	}
	return fsys.Rename(hoisted, dir)
}
