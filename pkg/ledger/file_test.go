package ledger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/sharedpkg/pkg/errors"
	"github.com/arthur-debert/sharedpkg/pkg/filesystem"
	"github.com/arthur-debert/sharedpkg/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFile_RoundTrip(t *testing.T) {
	fs := filesystem.NewOS()
	path := filepath.Join(t.TempDir(), "vendor", ".sharedpkg", "installed.toml")

	l, err := Open(fs, path)
	require.NoError(t, err)
	assert.Empty(t, l.Packages())

	foo := types.PackageDescriptor{Name: "acme/foo", PrettyName: "Acme/Foo", Version: "1.0.0", Type: "shared-package"}
	bar := types.PackageDescriptor{Name: "acme/bar", Version: "2.1.0", Type: "library"}
	require.NoError(t, l.AddPackage(foo, types.SharedInstallation("/store/acme/foo/1.0.0")))
	require.NoError(t, l.AddPackage(bar, types.DefaultInstallation()))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "[[package]]")
	assert.Contains(t, string(content), "shared")

	reopened, err := Open(fs, path)
	require.NoError(t, err)
	assert.True(t, reopened.HasPackage(foo))
	assert.True(t, reopened.HasPackage(bar))

	inst, ok := reopened.Installation(foo)
	require.True(t, ok)
	assert.Equal(t, types.SharedInstallation("/store/acme/foo/1.0.0"), inst)

	found, ok := reopened.Find("acme/foo")
	require.True(t, ok)
	assert.Equal(t, "Acme/Foo", found.PrettyName)

	require.NoError(t, reopened.RemovePackage(foo))
	again, err := Open(fs, path)
	require.NoError(t, err)
	assert.False(t, again.HasPackage(foo))
	assert.True(t, again.HasPackage(bar))
}

func TestFile_InvalidContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "installed.toml")
	require.NoError(t, os.WriteFile(path, []byte("not = [valid"), 0644))

	_, err := Open(filesystem.NewOS(), path)
	assert.True(t, errors.IsErrorCode(err, errors.ErrLedger), "got %v", err)
}

func TestFile_UnknownStrategy(t *testing.T) {
	path := filepath.Join(t.TempDir(), "installed.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
version = 1

[[package]]
name = "foo"
version = "1.0"
strategy = "hardlink"
`), 0644))

	_, err := Open(filesystem.NewOS(), path)
	assert.True(t, errors.IsErrorCode(err, errors.ErrLedger), "got %v", err)
}

func TestFile_SaveFailureRollsBack(t *testing.T) {
	dir := t.TempDir()
	ledgerDir := filepath.Join(dir, ".sharedpkg")

	l, err := Open(filesystem.NewOS(), filepath.Join(ledgerDir, "installed.toml"))
	require.NoError(t, err)

	// The ledger directory cannot be created where a regular file sits
	require.NoError(t, os.WriteFile(ledgerDir, []byte("file"), 0644))

	foo := types.PackageDescriptor{Name: "foo", Version: "1.0"}
	err = l.AddPackage(foo, types.DefaultInstallation())
	assert.True(t, errors.IsErrorCode(err, errors.ErrLedger), "got %v", err)
	assert.False(t, l.HasPackage(foo))
}
