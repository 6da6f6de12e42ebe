package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/sharedpkg/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type project struct {
	root   string
	store  string
	vendor string
	lock   string
}

func setupProject(t *testing.T) *project {
	t.Helper()
	root := t.TempDir()
	t.Setenv("XDG_STATE_HOME", filepath.Join(root, "state"))

	p := &project{
		root:   root,
		store:  filepath.Join(root, "store"),
		vendor: filepath.Join(root, "project", "vendor"),
		lock:   filepath.Join(root, "project", "sharedpkg.lock"),
	}
	for _, name := range []string{"foo-1.0", "bar-1.0"} {
		dir := filepath.Join(root, "project", "dist", name)
		require.NoError(t, os.MkdirAll(dir, 0755))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "README"), []byte(name), 0644))
	}
	return p
}

func (p *project) writeLock(t *testing.T, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(p.lock, []byte(content), 0644))
}

func (p *project) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--store-dir", p.store, "--vendor-dir", p.vendor}, args...))
	err := cmd.Execute()
	return out.String(), err
}

const lockBoth = `
[[package]]
name = "foo"
version = "1.0"
type = "shared-package"
source = "dist/foo-1.0"

[[package]]
name = "bar"
version = "1.0"
type = "library"
source = "dist/bar-1.0"
`

func TestSyncCmd(t *testing.T) {
	p := setupProject(t)
	p.writeLock(t, lockBoth)

	out, err := p.run(t, "sync", p.lock)
	require.NoError(t, err)
	assert.Contains(t, out, "Performed 2 operations")
	assert.Contains(t, out, "install foo@1.0")

	info, err := os.Lstat(filepath.Join(p.vendor, "foo"))
	require.NoError(t, err)
	assert.NotZero(t, info.Mode()&os.ModeSymlink)
	info, err = os.Lstat(filepath.Join(p.vendor, "bar"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	_, err = os.Stat(filepath.Join(p.vendor, ".sharedpkg", "installed.toml"))
	assert.NoError(t, err)

	out, err = p.run(t, "sync", p.lock)
	require.NoError(t, err)
	assert.Contains(t, out, MsgNoOperations)
}

func TestSyncCmd_DryRun(t *testing.T) {
	p := setupProject(t)
	p.writeLock(t, lockBoth)

	out, err := p.run(t, "sync", "--dry-run", p.lock)
	require.NoError(t, err)
	assert.Contains(t, out, "Planned 2 operations")
	assert.Contains(t, out, "DRY RUN MODE")

	_, err = os.Lstat(filepath.Join(p.vendor, "foo"))
	assert.True(t, os.IsNotExist(err))
}

func TestSyncCmd_RemovesUnlisted(t *testing.T) {
	p := setupProject(t)
	p.writeLock(t, lockBoth)
	_, err := p.run(t, "sync", p.lock)
	require.NoError(t, err)

	p.writeLock(t, "")
	out, err := p.run(t, "sync", p.lock)
	require.NoError(t, err)
	assert.Contains(t, out, "uninstall foo@1.0")

	_, err = os.Lstat(filepath.Join(p.vendor, "foo"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(p.store, "foo", "1.0", "README"))
	assert.NoError(t, err, "store entry survives uninstall")
}

func TestSyncCmd_Metrics(t *testing.T) {
	p := setupProject(t)
	p.writeLock(t, lockBoth)
	metricsFile := filepath.Join(p.root, "metrics.prom")

	_, err := p.run(t, "sync", "--metrics", metricsFile, p.lock)
	require.NoError(t, err)

	data, err := os.ReadFile(metricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), `sharedpkg_operations_total{operation="install",strategy="shared"} 1`)
	assert.Contains(t, string(data), `sharedpkg_operations_total{operation="install",strategy="default"} 1`)
}

func TestSyncCmd_BadLockfile(t *testing.T) {
	p := setupProject(t)
	p.writeLock(t, "[[package]]\nname = \"../evil\"\nversion = \"1.0\"\n")

	_, err := p.run(t, "sync", p.lock)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrLockfile))
}

func TestStatusAndPathCmd(t *testing.T) {
	p := setupProject(t)

	out, err := p.run(t, "status")
	require.NoError(t, err)
	assert.Contains(t, out, MsgNoPackages)

	p.writeLock(t, lockBoth)
	_, err = p.run(t, "sync", p.lock)
	require.NoError(t, err)

	out, err = p.run(t, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "foo")
	assert.Contains(t, out, "shared")
	assert.Contains(t, out, "default")
	assert.Contains(t, out, "ok")

	out, err = p.run(t, "path", "foo")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(p.vendor, "foo")+"\n", out)

	_, err = p.run(t, "path", "missing")
	assert.True(t, errors.IsErrorCode(err, errors.ErrNotFound))
}

func TestConfigCmd(t *testing.T) {
	p := setupProject(t)

	out, err := p.run(t, "--link-mode", "relative", "config")
	require.NoError(t, err)
	assert.Contains(t, out, "store_dir    = "+p.store)
	assert.Contains(t, out, "link_mode    = relative")

	_, err = p.run(t, "--link-mode", "sideways", "config")
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigInvalid))
}

func TestVersionCmd(t *testing.T) {
	p := setupProject(t)
	out, err := p.run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "sharedpkg version")
}

func TestFormatError(t *testing.T) {
	msg := formatError(errors.NotInstalled("foo"))
	assert.Contains(t, msg, "PRECONDITION")
	assert.Contains(t, msg, "Package is not installed : foo")
	assert.Empty(t, formatError(nil))
}
