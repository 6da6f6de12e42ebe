package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/sharedpkg/pkg/errors"
	"github.com/arthur-debert/sharedpkg/pkg/paths"
	"github.com/arthur-debert/sharedpkg/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestLoad_Defaults(t *testing.T) {
	root := t.TempDir()

	cfg, err := Load(LoadOptions{ProjectRoot: root, SkipEnv: true})
	require.NoError(t, err)

	assert.Equal(t, root, cfg.ProjectRoot)
	assert.Equal(t, filepath.Join(root, "vendor"), cfg.VendorDir)
	assert.Equal(t, paths.DefaultStoreDir(), cfg.StoreDir)
	assert.Equal(t, "shared-package", cfg.SharedType)
	assert.Equal(t, types.LinkModeAbsolute, cfg.LinkMode)
	assert.Equal(t, types.FallbackNone, cfg.Fallback)
	assert.True(t, cfg.Verify)
	assert.Empty(t, cfg.Overrides)
	assert.Equal(t, filepath.Join(root, "vendor", ".sharedpkg", "installed.toml"), cfg.LedgerFile)
	assert.True(t, cfg.SharingEnabled())
}

func TestLoad_TomlFile(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".sharedpkg.toml"), `
store_dir = "../store"
vendor_dir = "deps"
link_mode = "relative"
overrides = ["acme/forced"]
excludes = ["acme/never"]
`)

	cfg, err := Load(LoadOptions{ProjectRoot: root, SkipEnv: true})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(filepath.Dir(root), "store"), cfg.StoreDir)
	assert.Equal(t, filepath.Join(root, "deps"), cfg.VendorDir)
	assert.Equal(t, types.LinkModeRelative, cfg.LinkMode)
	assert.True(t, cfg.IsOverridden("acme/forced"))
	assert.True(t, cfg.IsExcluded("acme/never"))
	assert.False(t, cfg.IsOverridden("acme/never"))
}

func TestLoad_YamlFile(t *testing.T) {
	root := t.TempDir()
	configFile := filepath.Join(root, "conf", "installer.yaml")
	writeFile(t, configFile, `
store_dir: /opt/shared
shared_type: library-shared
verify: false
`)

	cfg, err := Load(LoadOptions{ProjectRoot: root, ConfigFile: configFile, SkipEnv: true})
	require.NoError(t, err)

	assert.Equal(t, "/opt/shared", cfg.StoreDir)
	assert.Equal(t, "library-shared", cfg.SharedType)
	assert.False(t, cfg.Verify)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(LoadOptions{ProjectRoot: t.TempDir(), ConfigFile: "nope.toml", SkipEnv: true})
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigLoad), "got %v", err)
}

func TestLoad_EnvAndOverrides(t *testing.T) {
	root := t.TempDir()
	t.Setenv("SHAREDPKG_STORE_DIR", "/env/store")
	t.Setenv("SHAREDPKG_OVERRIDES", "a/one, a/two")
	t.Setenv("SHAREDPKG_LINK_MODE", "relative")

	cfg, err := Load(LoadOptions{
		ProjectRoot: root,
		Overrides:   map[string]interface{}{"link_mode": "absolute"},
	})
	require.NoError(t, err)

	assert.Equal(t, "/env/store", cfg.StoreDir)
	assert.Equal(t, []string{"a/one", "a/two"}, cfg.Overrides)
	assert.Equal(t, types.LinkModeAbsolute, cfg.LinkMode, "explicit overrides win over env")
}

func TestLoad_EmptyStoreDisablesSharing(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "sharedpkg.toml"), `store_dir = ""`)

	cfg, err := Load(LoadOptions{ProjectRoot: root, SkipEnv: true})
	require.NoError(t, err)
	assert.False(t, cfg.SharingEnabled())
}

func TestLoad_InvalidConfiguration(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad link mode", `link_mode = "hard"`},
		{"bad fallback", `fallback = "junction"`},
		{"empty shared type", `shared_type = ""`},
		{"store inside vendor", `store_dir = "vendor/store"`},
		{"vendor inside store", "store_dir = \".\"\nvendor_dir = \"vendor\""},
		{"override and exclude", "overrides = [\"x\"]\nexcludes = [\"x\"]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			writeFile(t, filepath.Join(root, ".sharedpkg.toml"), tt.content)

			_, err := Load(LoadOptions{ProjectRoot: root, SkipEnv: true})
			assert.True(t, errors.IsErrorCode(err, errors.ErrConfigInvalid), "got %v", err)
		})
	}
}

func TestDefaultsContent(t *testing.T) {
	assert.Contains(t, DefaultsContent(), `shared_type = "shared-package"`)
}
