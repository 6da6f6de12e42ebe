package shared

import (
	"github.com/arthur-debert/sharedpkg/pkg/classifier"
	"github.com/arthur-debert/sharedpkg/pkg/config"
	"github.com/arthur-debert/sharedpkg/pkg/errors"
	ledgerpkg "github.com/arthur-debert/sharedpkg/pkg/ledger"
	"github.com/arthur-debert/sharedpkg/pkg/library"
	"github.com/arthur-debert/sharedpkg/pkg/logging"
	"github.com/arthur-debert/sharedpkg/pkg/paths"
	"github.com/arthur-debert/sharedpkg/pkg/symlinkfs"
	"github.com/arthur-debert/sharedpkg/pkg/types"
	"github.com/arthur-debert/sharedpkg/pkg/version"
	"github.com/rs/zerolog"
)

// Materializer places the contents of a package at a destination directory.
type Materializer interface {
	Materialize(d types.PackageDescriptor, dest string) error
}

// Installer is the shared-store installer.
type Installer struct {
	fs     types.FS
	cfg    *config.Config
	layout paths.Layout
	links  *symlinkfs.Filesystem
	copier Materializer
	logger zerolog.Logger
}

// New creates a shared installer. copier fills store entries and, when a
// package stops being shared, the project copy that replaces its link.
func New(fsys types.FS, cfg *config.Config, copier Materializer) *Installer {
	return &Installer{
		fs:     fsys,
		cfg:    cfg,
		layout: cfg.Layout(),
		links:  symlinkfs.New(fsys, cfg.Fallback),
		copier: copier,
		logger: logging.GetLogger("shared"),
	}
}

// GetInstallPath implements types.Installer.
func (i *Installer) GetInstallPath(d types.PackageDescriptor) string {
	return i.layout.ProjectPath(d.Name)
}

// StorePath returns the store location holding this exact version of d.
func (i *Installer) StorePath(d types.PackageDescriptor) string {
	return i.layout.StorePath(d.Name, d.Version)
}

// Install implements types.Installer.
func (i *Installer) Install(ledger types.Ledger, d types.PackageDescriptor) error {
	logger := i.logger.With().Str("package", d.ID()).Logger()
	done := logging.LogOperationStart(logger, "install")
	defer done()

	storePath := i.StorePath(d)
	if err := i.ensureStore(d, storePath); err != nil {
		return err
	}
	if err := i.link(d, storePath); err != nil {
		return err
	}
	if err := ledger.AddPackage(d, types.SharedInstallation(storePath)); err != nil {
		return err
	}

	logger.Info().Str("store", storePath).Str("link", i.GetInstallPath(d)).Msg("Shared package installed")
	return nil
}

// Update implements types.Installer. The target's classification decides
// whether it ends up linked from the store or copied into the project.
func (i *Installer) Update(ledger types.Ledger, initial, target types.PackageDescriptor) error {
	if !ledger.HasPackage(initial) {
		return errors.NotInstalled(initial.DisplayName())
	}

	logger := i.logger.With().
		Str("package", target.Name).
		Str("from", initial.Version).
		Str("to", target.Version).
		Str("direction", string(version.DirectionOf(initial.Version, target.Version))).
		Logger()
	done := logging.LogOperationStart(logger, "update")
	defer done()

	if !classifier.IsShared(target, i.cfg) {
		return i.updateToDefault(ledger, initial, target, logger)
	}

	storePath := i.StorePath(target)
	if err := i.ensureStore(target, storePath); err != nil {
		return err
	}

	inst, _ := ledger.Installation(initial)
	sameVersion := initial.Name == target.Name && initial.Version == target.Version
	if !sameVersion || !inst.IsShared() {
		if err := i.teardown(ledger, initial); err != nil {
			return err
		}
	}

	if err := i.link(target, storePath); err != nil {
		return err
	}
	if err := ledgerpkg.Replace(ledger, initial, target, types.SharedInstallation(storePath)); err != nil {
		return err
	}

	logger.Info().Str("store", storePath).Msg("Shared package updated")
	return nil
}

// updateToDefault replaces the project link with a real copy of target.
// The store entry of initial is kept.
func (i *Installer) updateToDefault(ledger types.Ledger, initial, target types.PackageDescriptor, logger zerolog.Logger) error {
	initialPath := i.GetInstallPath(initial)
	targetPath := i.GetInstallPath(target)
	if initialPath != targetPath {
		if err := i.teardown(ledger, initial); err != nil {
			return err
		}
	}

	// Materialize swaps the link for the copy in one rename.
	if err := i.copier.Materialize(target, targetPath); err != nil {
		return err
	}
	if err := ledgerpkg.Replace(ledger, initial, target, types.DefaultInstallation()); err != nil {
		return err
	}

	logger.Info().Str("path", targetPath).Msg("Package moved out of the shared store")
	return nil
}

// Uninstall implements types.Installer. Only the project link goes; the
// store entry stays.
func (i *Installer) Uninstall(ledger types.Ledger, d types.PackageDescriptor) error {
	if !ledger.HasPackage(d) {
		return errors.NotInstalled(d.DisplayName())
	}

	if err := i.teardown(ledger, d); err != nil {
		return err
	}
	if err := ledger.RemovePackage(d); err != nil {
		return err
	}

	i.logger.Info().Str("package", d.ID()).Msg("Shared package uninstalled")
	return nil
}

// IsInstalled implements types.Installer. It is true only when the ledger
// knows d and the project link resolves to d's store path.
func (i *Installer) IsInstalled(ledger types.Ledger, d types.PackageDescriptor) bool {
	if !ledger.HasPackage(d) {
		return false
	}
	return i.links.PointsTo(i.GetInstallPath(d), i.StorePath(d))
}

// Supports implements types.Installer.
func (i *Installer) Supports(packageType string) bool {
	return true
}

// ensureStore materializes d into the store unless a complete entry for
// this exact version is already there.
func (i *Installer) ensureStore(d types.PackageDescriptor, storePath string) error {
	if library.HasMarker(i.fs, storePath, d) {
		i.logger.Debug().Str("package", d.ID()).Str("store", storePath).Msg("Store entry present")
		return nil
	}

	i.logger.Debug().Str("package", d.ID()).Str("store", storePath).Msg("Materializing store entry")
	return i.copier.Materialize(d, storePath)
}

// link points the project path at storePath and verifies the result.
func (i *Installer) link(d types.PackageDescriptor, storePath string) error {
	linkPath := i.GetInstallPath(d)
	if err := i.links.CreateLink(storePath, linkPath, i.cfg.LinkMode); err != nil {
		return errors.Wrapf(err, errors.ErrInstall, "failed to link %s", d.DisplayName()).
			WithDetail(errors.DetailPackage, d.Name).
			WithDetail(errors.DetailPath, linkPath)
	}

	if !i.cfg.Verify {
		return nil
	}
	if library.HasMarker(i.fs, linkPath, d) {
		i.logger.Debug().Str("link", linkPath).Msg("Link verified")
		return nil
	}

	found, _ := library.ReadMarker(i.fs, linkPath)
	_ = i.links.RemoveLink(linkPath)
	return errors.Newf(errors.ErrInstall, "link for %s does not resolve to %s (found %q)", d.DisplayName(), d.ID(), found).
		WithDetail(errors.DetailPackage, d.Name).
		WithDetail(errors.DetailVersion, d.Version).
		WithDetail(errors.DetailPath, linkPath)
}

// teardown clears the project path of d according to how the ledger says it
// was placed: a copied package is removed outright, a linked one loses only
// its link.
func (i *Installer) teardown(ledger types.Ledger, d types.PackageDescriptor) error {
	path := i.GetInstallPath(d)
	inst, ok := ledger.Installation(d)
	if ok && inst.IsShared() {
		return i.links.RemoveLink(path)
	}

	if err := library.RemovePath(i.fs, d, path); err != nil {
		return err
	}
	i.logger.Debug().Str("package", d.ID()).Str("path", path).Msg("Project copy removed")
	return nil
}

var _ types.Installer = (*Installer)(nil)
