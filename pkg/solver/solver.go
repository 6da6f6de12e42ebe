// Package solver routes installer operations to the shared or the default
// installer according to each package's classification.
package solver

import (
	"time"

	"github.com/arthur-debert/sharedpkg/pkg/classifier"
	"github.com/arthur-debert/sharedpkg/pkg/config"
	"github.com/arthur-debert/sharedpkg/pkg/errors"
	"github.com/arthur-debert/sharedpkg/pkg/logging"
	"github.com/arthur-debert/sharedpkg/pkg/metrics"
	"github.com/arthur-debert/sharedpkg/pkg/types"
	"github.com/rs/zerolog"
)

// Solver is the installer the host package manager talks to. It owns no
// state of its own.
type Solver struct {
	cfg      *config.Config
	shared   types.Installer
	fallback types.Installer
	recorder metrics.Recorder
	logger   zerolog.Logger
}

// Option configures a Solver.
type Option func(*Solver)

// WithRecorder sets the metrics recorder. The default discards observations.
func WithRecorder(r metrics.Recorder) Option {
	return func(s *Solver) {
		if r != nil {
			s.recorder = r
		}
	}
}

// New creates a solver dispatching to shared for shared packages and to
// fallback for everything else.
func New(cfg *config.Config, shared, fallback types.Installer, opts ...Option) *Solver {
	s := &Solver{
		cfg:      cfg,
		shared:   shared,
		fallback: fallback,
		recorder: metrics.Nop{},
		logger:   logging.GetLogger("solver"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Solver) route(kind types.Kind) types.Installer {
	switch kind {
	case types.KindShared:
		return s.shared
	default:
		return s.fallback
	}
}

// updateKind is shared when either side of the update is shared, since
// only the shared installer knows how to both tear down links and fill the
// store.
func (s *Solver) updateKind(initial, target types.PackageDescriptor) types.Kind {
	if classifier.IsShared(initial, s.cfg) || classifier.IsShared(target, s.cfg) {
		return types.KindShared
	}
	return types.KindDefault
}

func (s *Solver) observe(op types.Operation, kind types.Kind, start time.Time, err error) {
	s.recorder.Observe(string(op), kind.String(), time.Since(start), err)

	event := s.logger.Debug()
	if err != nil {
		event = s.logger.Error().Err(err)
	}
	event.Str("operation", string(op)).
		Str("strategy", kind.String()).
		Dur("duration", time.Since(start)).
		Msg("Operation routed")
}

// GetInstallPath implements types.Installer.
func (s *Solver) GetInstallPath(d types.PackageDescriptor) string {
	return s.route(classifier.Classify(d, s.cfg)).GetInstallPath(d)
}

// Install implements types.Installer.
func (s *Solver) Install(ledger types.Ledger, d types.PackageDescriptor) (err error) {
	kind := classifier.Classify(d, s.cfg)
	defer func(start time.Time) { s.observe(types.OperationInstall, kind, start, err) }(time.Now())

	return s.route(kind).Install(ledger, d)
}

// Update implements types.Installer.
func (s *Solver) Update(ledger types.Ledger, initial, target types.PackageDescriptor) (err error) {
	kind := s.updateKind(initial, target)
	defer func(start time.Time) { s.observe(types.OperationUpdate, kind, start, err) }(time.Now())

	if kind == types.KindShared && !ledger.HasPackage(initial) {
		return errors.NotInstalled(initial.DisplayName())
	}
	return s.route(kind).Update(ledger, initial, target)
}

// Uninstall implements types.Installer.
func (s *Solver) Uninstall(ledger types.Ledger, d types.PackageDescriptor) (err error) {
	kind := classifier.Classify(d, s.cfg)
	defer func(start time.Time) { s.observe(types.OperationUninstall, kind, start, err) }(time.Now())

	if kind == types.KindShared && !ledger.HasPackage(d) {
		return errors.NotInstalled(d.DisplayName())
	}
	return s.route(kind).Uninstall(ledger, d)
}

// IsInstalled implements types.Installer.
func (s *Solver) IsInstalled(ledger types.Ledger, d types.PackageDescriptor) bool {
	return s.route(classifier.Classify(d, s.cfg)).IsInstalled(ledger, d)
}

// Supports implements types.Installer. The solver accepts every package
// type and splits shared from default inside each operation.
func (s *Solver) Supports(packageType string) bool {
	return true
}

// Download implements types.LifecycleInstaller. Package contents are
// fetched by the host.
func (s *Solver) Download(d types.PackageDescriptor, prev *types.PackageDescriptor) error {
	return nil
}

// Prepare implements types.LifecycleInstaller.
func (s *Solver) Prepare(op types.Operation, d types.PackageDescriptor, prev *types.PackageDescriptor) error {
	return nil
}

// Cleanup implements types.LifecycleInstaller.
func (s *Solver) Cleanup(op types.Operation, d types.PackageDescriptor, prev *types.PackageDescriptor) error {
	return nil
}

var _ types.LifecycleInstaller = (*Solver)(nil)
