// Package plan turns a desired package list into installer operations and
// runs them the way the host package manager does: download, prepare,
// operate, clean up.
package plan

import (
	"fmt"
	"sort"

	"github.com/arthur-debert/sharedpkg/pkg/logging"
	"github.com/arthur-debert/sharedpkg/pkg/types"
)

// Step is one installer operation. Prev is set for updates and holds the
// recorded descriptor being replaced.
type Step struct {
	Op     types.Operation
	Target types.PackageDescriptor
	Prev   *types.PackageDescriptor
}

func (s Step) String() string {
	if s.Prev != nil {
		return fmt.Sprintf("%s %s (%s -> %s)", s.Op, s.Target.Name, s.Prev.Version, s.Target.Version)
	}
	return fmt.Sprintf("%s %s", s.Op, s.Target.ID())
}

// Classifier returns the strategy a descriptor would be installed with.
type Classifier func(d types.PackageDescriptor) types.Kind

// Build compares desired against the ledger. Removals come first, then
// installs and updates in name order. A recorded package whose version,
// type or strategy differs is updated; one that matches is updated in place
// only when the installer no longer finds it installed.
func Build(ledger types.Ledger, desired []types.PackageDescriptor, classify Classifier, installer types.Installer) []Step {
	wanted := make(map[string]bool, len(desired))
	for _, d := range desired {
		wanted[d.Name] = true
	}

	var steps []Step
	for _, recorded := range ledger.Packages() {
		if !wanted[recorded.Name] {
			steps = append(steps, Step{Op: types.OperationUninstall, Target: recorded})
		}
	}

	sorted := append([]types.PackageDescriptor(nil), desired...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	for _, d := range sorted {
		recorded, ok := ledger.Find(d.Name)
		if !ok {
			steps = append(steps, Step{Op: types.OperationInstall, Target: d})
			continue
		}

		prev := recorded
		inst, _ := ledger.Installation(recorded)
		changed := recorded.Version != d.Version ||
			recorded.Type != d.Type ||
			inst.Kind != classify(d)
		if changed || !installer.IsInstalled(ledger, d) {
			steps = append(steps, Step{Op: types.OperationUpdate, Target: d, Prev: &prev})
		}
	}
	return steps
}

// Result summarizes an Apply run.
type Result struct {
	Applied []Step
	Failed  *Step
}

// Apply runs steps in order and stops at the first failure. Cleanup runs
// after every attempted operation, failed or not.
func Apply(installer types.LifecycleInstaller, ledger types.Ledger, steps []Step) (Result, error) {
	logger := logging.GetLogger("plan")
	var result Result

	for idx := range steps {
		step := steps[idx]
		if err := run(installer, ledger, step); err != nil {
			result.Failed = &step
			logger.Error().Err(err).Str("step", step.String()).Msg("Step failed")
			return result, err
		}
		result.Applied = append(result.Applied, step)
		logger.Info().Str("step", step.String()).Msg("Step applied")
	}
	return result, nil
}

func run(installer types.LifecycleInstaller, ledger types.Ledger, step Step) (err error) {
	if step.Op != types.OperationUninstall {
		if err := installer.Download(step.Target, step.Prev); err != nil {
			return err
		}
	}
	if err := installer.Prepare(step.Op, step.Target, step.Prev); err != nil {
		return err
	}
	defer func() {
		if cerr := installer.Cleanup(step.Op, step.Target, step.Prev); cerr != nil && err == nil {
			err = cerr
		}
	}()

	switch step.Op {
	case types.OperationInstall:
		return installer.Install(ledger, step.Target)
	case types.OperationUpdate:
		return installer.Update(ledger, *step.Prev, step.Target)
	case types.OperationUninstall:
		return installer.Uninstall(ledger, step.Target)
	default:
		return fmt.Errorf("unknown operation %q", step.Op)
	}
}
