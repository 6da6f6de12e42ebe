package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/sharedpkg/pkg/errors"
	"github.com/arthur-debert/sharedpkg/pkg/paths"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix prefixes every configuration environment variable.
const EnvPrefix = "SHAREDPKG_"

// ConfigFileNames are looked up in the project root when no explicit file is given.
var ConfigFileNames = []string{".sharedpkg.toml", "sharedpkg.toml", ".sharedpkg.yaml", "sharedpkg.yaml"}

// LoadOptions selects the configuration sources.
type LoadOptions struct {
	// ProjectRoot defaults to the current working directory.
	ProjectRoot string

	// ConfigFile is an explicit config file; it must exist when set.
	ConfigFile string

	// Overrides take precedence over every other source.
	Overrides map[string]interface{}

	// SkipEnv ignores SHAREDPKG_* variables.
	SkipEnv bool
}

// Load builds, normalizes and validates the configuration.
func Load(opts LoadOptions) (*Config, error) {
	root := opts.ProjectRoot
	if root == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to get current directory")
		}
		root = cwd
	}

	k := koanf.New(".")

	// 1. Defaults
	if err := k.Load(confmap.Provider(map[string]interface{}{
		"project_root": root,
		"store_dir":    paths.DefaultStoreDir(),
	}, "."), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load base config")
	}
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load defaults")
	}

	// 2. Config file
	configFile, err := findConfigFile(root, opts.ConfigFile)
	if err != nil {
		return nil, err
	}
	if configFile != "" {
		if err := k.Load(file.Provider(configFile), parserFor(configFile)); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigLoad, "failed to load config from %s", configFile).
				WithDetail(errors.DetailPath, configFile)
		}
	}

	// 3. Environment
	if !opts.SkipEnv {
		if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
			return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
		}), nil); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load env vars")
		}
	}

	// 4. Explicit overrides
	if len(opts.Overrides) > 0 {
		if err := k.Load(confmap.Provider(opts.Overrides, "."), nil); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load overrides")
		}
	}

	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to unmarshal configuration")
	}

	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func findConfigFile(root, explicit string) (string, error) {
	if explicit != "" {
		path, err := paths.Resolve(root, explicit)
		if err != nil {
			return "", errors.Wrap(err, errors.ErrConfigLoad, "failed to resolve config file")
		}
		if _, err := os.Stat(path); err != nil {
			return "", errors.Wrapf(err, errors.ErrConfigLoad, "config file %s not readable", path).
				WithDetail(errors.DetailPath, path)
		}
		return path, nil
	}

	for _, name := range ConfigFileNames {
		path := filepath.Join(root, name)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", nil
}

func parserFor(path string) koanf.Parser {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Parser()
	default:
		return toml.Parser()
	}
}

// normalize expands and absolutizes directories and fills derived defaults.
func (c *Config) normalize() error {
	root, err := paths.Resolve("", c.ProjectRoot)
	if err != nil {
		return errors.Wrap(err, errors.ErrConfigInvalid, "invalid project root")
	}
	c.ProjectRoot = root

	for _, dir := range []*string{&c.StoreDir, &c.VendorDir, &c.LedgerFile} {
		resolved, err := paths.Resolve(c.ProjectRoot, strings.TrimSpace(*dir))
		if err != nil {
			return errors.Wrap(err, errors.ErrConfigInvalid, "invalid directory")
		}
		*dir = resolved
	}

	if c.LedgerFile == "" && c.VendorDir != "" {
		c.LedgerFile = paths.DefaultLedgerFile(c.VendorDir)
	}

	c.Overrides = trimList(c.Overrides)
	c.Excludes = trimList(c.Excludes)
	return nil
}

func trimList(list []string) []string {
	out := make([]string, 0, len(list))
	for _, item := range list {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// String renders the effective configuration for debug output.
func (c *Config) String() string {
	return fmt.Sprintf("store=%s vendor=%s type=%s mode=%s fallback=%s verify=%t",
		c.StoreDir, c.VendorDir, c.SharedType, c.LinkMode, c.Fallback, c.Verify)
}
