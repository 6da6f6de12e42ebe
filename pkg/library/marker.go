package library

import (
	"path/filepath"
	"strings"

	"github.com/arthur-debert/sharedpkg/pkg/paths"
	"github.com/arthur-debert/sharedpkg/pkg/types"
)

// MarkerPath returns the version marker location inside dir.
func MarkerPath(dir string) string {
	return filepath.Join(dir, paths.MarkerFileName)
}

// ReadMarker returns the name@version recorded in dir.
func ReadMarker(fsys types.FS, dir string) (string, error) {
	data, err := fsys.ReadFile(MarkerPath(dir))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// HasMarker reports whether dir holds the materialized contents of d.
func HasMarker(fsys types.FS, dir string, d types.PackageDescriptor) bool {
	id, err := ReadMarker(fsys, dir)
	return err == nil && id == d.ID()
}

func writeMarker(fsys types.FS, dir string, d types.PackageDescriptor) error {
	return fsys.WriteFile(MarkerPath(dir), []byte(d.ID()+"\n"), 0644)
}
