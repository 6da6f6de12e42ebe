package paths

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/arthur-debert/sharedpkg/pkg/errors"
)

// Environment variable names
const (
	// EnvStateHome is the XDG state directory variable
	EnvStateHome = "XDG_STATE_HOME"

	// EnvHome is the standard home directory variable
	EnvHome = "HOME"
)

// IMPORTANT: These names define the on-disk layout shared by every project
// using a store and must stay stable across releases.
const (
	// AppDirName is the directory name for sharedpkg-specific files
	AppDirName = "sharedpkg"

	// StoreDirName is the store subdirectory under the XDG data directory
	StoreDirName = "store"

	// LedgerDirName holds per-project state inside the vendor directory
	LedgerDirName = ".sharedpkg"

	// LedgerFileName is the installed-packages ledger file
	LedgerFileName = "installed.toml"

	// MarkerFileName records name@version inside materialized contents
	MarkerFileName = ".sharedpkg-version"

	// LinkMarkerFileName records the target of a copy-fallback "link"
	LinkMarkerFileName = ".sharedpkg-link"

	// LogFileName is the name of the log file
	LogFileName = "sharedpkg.log"
)

// DefaultStoreDir returns the store root used when none is configured.
func DefaultStoreDir() string {
	return filepath.Join(xdg.DataHome, AppDirName, StoreDirName)
}

// StateDir returns the XDG state directory for sharedpkg.
func StateDir() string {
	// XDG state is checked manually so that tests can override it with t.Setenv
	if stateHome := os.Getenv(EnvStateHome); stateHome != "" {
		return filepath.Join(stateHome, AppDirName)
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return AppDirName
	}
	return filepath.Join(homeDir, ".local", "state", AppDirName)
}

// LogFilePath returns the log file location.
func LogFilePath() string {
	return filepath.Join(StateDir(), LogFileName)
}

// DefaultLedgerFile returns the ledger location for a vendor directory.
func DefaultLedgerFile(vendorDir string) string {
	return filepath.Join(vendorDir, LedgerDirName, LedgerFileName)
}

// ExpandHome expands ~ to the home directory
func ExpandHome(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = os.Getenv(EnvHome)
		if homeDir == "" {
			return path
		}
	}

	if len(path) == 1 {
		return homeDir
	}

	if path[1] == '/' || path[1] == filepath.Separator {
		return filepath.Join(homeDir, path[2:])
	}

	// ~user is not expanded
	return path
}

// Resolve expands ~ and makes path absolute relative to base.
// An empty path stays empty.
func Resolve(base, path string) (string, error) {
	if path == "" {
		return "", nil
	}
	path = ExpandHome(path)
	if !filepath.IsAbs(path) {
		path = filepath.Join(base, path)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrInvalidInput, "failed to get absolute path for %s", path).
			WithDetail(errors.DetailPath, path)
	}
	return abs, nil
}

// IsWithin reports whether child is parent or lies beneath it.
func IsWithin(parent, child string) bool {
	rel, err := filepath.Rel(filepath.Clean(parent), filepath.Clean(child))
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

// Layout computes package locations for one project and store.
type Layout struct {
	StoreDir  string
	VendorDir string
}

// ProjectPath returns the package location inside the vendor directory.
func (l Layout) ProjectPath(name string) string {
	return filepath.Join(l.VendorDir, filepath.FromSlash(name))
}

// StorePath returns the version-keyed store location for a package.
func (l Layout) StorePath(name, version string) string {
	return filepath.Join(l.StoreDir, filepath.FromSlash(name), version)
}
