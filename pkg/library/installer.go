package library

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/arthur-debert/sharedpkg/pkg/errors"
	"github.com/arthur-debert/sharedpkg/pkg/filesystem"
	ledgerpkg "github.com/arthur-debert/sharedpkg/pkg/ledger"
	"github.com/arthur-debert/sharedpkg/pkg/logging"
	"github.com/arthur-debert/sharedpkg/pkg/paths"
	"github.com/arthur-debert/sharedpkg/pkg/types"
	"github.com/rs/zerolog"
)

// Installer places packages as full copies in the vendor directory.
type Installer struct {
	fs     types.FS
	layout paths.Layout
	logger zerolog.Logger
}

// New creates a default installer for the given layout.
func New(fsys types.FS, layout paths.Layout) *Installer {
	return &Installer{
		fs:     fsys,
		layout: layout,
		logger: logging.GetLogger("library"),
	}
}

func installError(err error, d types.PackageDescriptor, path, format string, args ...interface{}) *errors.SharedPkgError {
	var e *errors.SharedPkgError
	if err == nil {
		e = errors.Newf(errors.ErrInstall, format, args...)
	} else {
		e = errors.Wrapf(err, errors.ErrInstall, format, args...)
	}
	return e.WithDetail(errors.DetailPackage, d.Name).
		WithDetail(errors.DetailVersion, d.Version).
		WithDetail(errors.DetailPath, path)
}

// GetInstallPath implements types.Installer.
func (i *Installer) GetInstallPath(d types.PackageDescriptor) string {
	return i.layout.ProjectPath(d.Name)
}

// Install implements types.Installer.
func (i *Installer) Install(ledger types.Ledger, d types.PackageDescriptor) error {
	path := i.GetInstallPath(d)
	done := logging.LogOperationStart(i.logger.With().Str("package", d.ID()).Logger(), "install")
	defer done()

	if err := i.Materialize(d, path); err != nil {
		return err
	}
	if err := ledger.AddPackage(d, types.DefaultInstallation()); err != nil {
		return err
	}

	i.logger.Info().Str("package", d.ID()).Str("path", path).Msg("Package installed")
	return nil
}

// Update implements types.Installer.
func (i *Installer) Update(ledger types.Ledger, initial, target types.PackageDescriptor) error {
	if !ledger.HasPackage(initial) {
		return errors.NotInstalled(initial.DisplayName())
	}

	done := logging.LogOperationStart(i.logger.With().Str("package", target.ID()).Logger(), "update")
	defer done()

	initialPath := i.GetInstallPath(initial)
	targetPath := i.GetInstallPath(target)
	if initialPath != targetPath {
		if err := RemovePath(i.fs, initial, initialPath); err != nil {
			return err
		}
	}

	if err := i.Materialize(target, targetPath); err != nil {
		return err
	}
	if err := ledgerpkg.Replace(ledger, initial, target, types.DefaultInstallation()); err != nil {
		return err
	}

	i.logger.Info().
		Str("package", target.Name).
		Str("from", initial.Version).
		Str("to", target.Version).
		Msg("Package updated")
	return nil
}

// Uninstall implements types.Installer.
func (i *Installer) Uninstall(ledger types.Ledger, d types.PackageDescriptor) error {
	if !ledger.HasPackage(d) {
		return errors.NotInstalled(d.DisplayName())
	}

	path := i.GetInstallPath(d)
	if err := RemovePath(i.fs, d, path); err != nil {
		return err
	}
	if err := ledger.RemovePackage(d); err != nil {
		return err
	}

	i.logger.Info().Str("package", d.ID()).Str("path", path).Msg("Package uninstalled")
	return nil
}

// IsInstalled implements types.Installer.
func (i *Installer) IsInstalled(ledger types.Ledger, d types.PackageDescriptor) bool {
	return ledger.HasPackage(d) && filesystem.IsRealDir(i.fs, i.GetInstallPath(d))
}

// Supports implements types.Installer.
func (i *Installer) Supports(packageType string) bool {
	return true
}

// RemovePath deletes the project path of d. A link is removed without
// touching its target.
func RemovePath(fsys types.FS, d types.PackageDescriptor, path string) error {
	if err := filesystem.RemovePath(fsys, path); err != nil {
		return errors.Wrapf(err, errors.ErrFilesystem, "failed to remove %s for %s", path, d.DisplayName()).
			WithDetail(errors.DetailPackage, d.Name).
			WithDetail(errors.DetailPath, path)
	}
	return nil
}

// Materialize places the contents of d at dest. The contents are staged
// next to dest and renamed into place, so dest never holds a partial tree.
// Whatever was at dest before is replaced; a link there is removed, not
// followed.
func (i *Installer) Materialize(d types.PackageDescriptor, dest string) error {
	if err := paths.ValidatePackageName(d.Name); err != nil {
		return installError(err, d, dest, "cannot install %s", d.DisplayName())
	}
	if err := paths.ValidateVersion(d.Version); err != nil {
		return installError(err, d, dest, "cannot install %s", d.DisplayName())
	}

	logger := i.logger.With().Str("package", d.ID()).Str("dest", dest).Logger()

	parent := filepath.Dir(dest)
	if err := i.fs.MkdirAll(parent, 0755); err != nil {
		return installError(err, d, parent, "failed to create %s for %s", parent, d.DisplayName())
	}

	staging := fmt.Sprintf("%s.sharedpkg-tmp-%d", dest, time.Now().UnixNano())
	cleanup := func() { _ = i.fs.RemoveAll(staging) }

	if err := i.fill(d, staging); err != nil {
		cleanup()
		return installError(err, d, dest, "failed to materialize %s into %s", d.DisplayName(), dest)
	}
	if err := writeMarker(i.fs, staging, d); err != nil {
		cleanup()
		return installError(err, d, dest, "failed to write version marker for %s", d.DisplayName())
	}

	if err := RemovePath(i.fs, d, dest); err != nil {
		cleanup()
		return installError(err, d, dest, "failed to clear %s for %s", dest, d.DisplayName())
	}
	if err := i.fs.Rename(staging, dest); err != nil {
		cleanup()
		return installError(err, d, dest, "failed to move %s into place", d.DisplayName())
	}

	logger.Debug().Str("source", d.Source).Msg("Package contents materialized")
	return nil
}

func (i *Installer) fill(d types.PackageDescriptor, staging string) error {
	if d.IsMetapackage() {
		return i.fs.MkdirAll(staging, 0755)
	}
	if d.Source == "" {
		return fmt.Errorf("package %s has no source", d.DisplayName())
	}

	info, err := i.fs.Stat(d.Source)
	if err != nil {
		return fmt.Errorf("package source %s unavailable: %w", d.Source, err)
	}

	if info.IsDir() {
		return filesystem.CopyTree(i.fs, d.Source, staging)
	}

	if err := i.fs.MkdirAll(staging, 0755); err != nil {
		return err
	}
	if err := extract(i.fs, d.Source, staging); err != nil {
		return err
	}
	return flattenSingleRoot(i.fs, staging)
}

var _ types.Installer = (*Installer)(nil)
