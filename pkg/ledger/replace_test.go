package ledger

import (
	stderrors "errors"
	"testing"

	"github.com/arthur-debert/sharedpkg/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// rejectingLedger refuses to record one version.
type rejectingLedger struct {
	*Memory
	version string
}

func (l *rejectingLedger) AddPackage(d types.PackageDescriptor, inst types.Installation) error {
	if d.Version == l.version {
		return stderrors.New("ledger is read-only")
	}
	return l.Memory.AddPackage(d, inst)
}

func TestReplace(t *testing.T) {
	foo1 := types.PackageDescriptor{Name: "foo", Version: "1.0"}
	foo2 := types.PackageDescriptor{Name: "foo", Version: "2.0"}

	l := NewMemory()
	require.NoError(t, l.AddPackage(foo1, types.DefaultInstallation()))
	require.NoError(t, Replace(l, foo1, foo2, types.SharedInstallation("/store/foo/2.0")))

	assert.False(t, l.HasPackage(foo1))
	inst, ok := l.Installation(foo2)
	require.True(t, ok)
	assert.Equal(t, "/store/foo/2.0", inst.StorePath)
}

func TestReplace_RestoresInitialOnFailure(t *testing.T) {
	foo1 := types.PackageDescriptor{Name: "foo", Version: "1.0"}
	foo2 := types.PackageDescriptor{Name: "foo", Version: "2.0"}

	l := &rejectingLedger{Memory: NewMemory(), version: "2.0"}
	require.NoError(t, l.AddPackage(foo1, types.SharedInstallation("/store/foo/1.0")))

	err := Replace(l, foo1, foo2, types.DefaultInstallation())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read-only")

	assert.False(t, l.HasPackage(foo2))
	inst, ok := l.Installation(foo1)
	require.True(t, ok)
	assert.True(t, inst.IsShared())
	assert.Equal(t, "/store/foo/1.0", inst.StorePath)
}
