package ledger

import (
	"github.com/arthur-debert/sharedpkg/pkg/errors"
	"github.com/arthur-debert/sharedpkg/pkg/types"
)

// Replace swaps the record of initial for target. When target cannot be
// recorded the previous record of initial is put back.
func Replace(l types.Ledger, initial, target types.PackageDescriptor, inst types.Installation) error {
	prev, had := l.Installation(initial)
	if err := l.RemovePackage(initial); err != nil {
		return err
	}

	err := l.AddPackage(target, inst)
	if err == nil || !had {
		return err
	}
	if restoreErr := l.AddPackage(initial, prev); restoreErr != nil {
		return errors.Wrapf(restoreErr, errors.ErrLedger, "failed to restore %s after: %v", initial.DisplayName(), err).
			WithDetail(errors.DetailPackage, initial.Name).
			WithDetail(errors.DetailVersion, initial.Version)
	}
	return err
}
