// Package lockfile reads the resolved package list the host harness
// installs from. Lock files are TOML or YAML, chosen by extension.
package lockfile

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/arthur-debert/sharedpkg/pkg/errors"
	"github.com/arthur-debert/sharedpkg/pkg/paths"
	"github.com/arthur-debert/sharedpkg/pkg/types"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Entry is one resolved package.
type Entry struct {
	Name       string                 `toml:"name" yaml:"name"`
	PrettyName string                 `toml:"pretty_name" yaml:"pretty_name"`
	Version    string                 `toml:"version" yaml:"version"`
	Type       string                 `toml:"type" yaml:"type"`
	Source     string                 `toml:"source" yaml:"source"`
	Extra      map[string]interface{} `toml:"extra" yaml:"extra"`
}

// Lockfile is a parsed lock file.
type Lockfile struct {
	Path     string  `toml:"-" yaml:"-"`
	Packages []Entry `toml:"package" yaml:"packages"`
}

// Load reads and validates the lock file at path.
func Load(fsys types.FS, path string) (*Lockfile, error) {
	data, err := fsys.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrLockfile, "failed to read lock file %s", path).
			WithDetail(errors.DetailPath, path)
	}

	lf, err := Parse(data, formatOf(path))
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrLockfile, "failed to parse lock file %s", path).
			WithDetail(errors.DetailPath, path)
	}
	lf.Path = path
	return lf, nil
}

// Format is a lock file encoding.
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

func formatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatTOML
	}
}

// Parse decodes and validates lock file content.
func Parse(data []byte, format Format) (*Lockfile, error) {
	var lf Lockfile
	var err error
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, &lf)
	default:
		err = toml.Unmarshal(data, &lf)
	}
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(lf.Packages))
	for idx, e := range lf.Packages {
		if err := paths.ValidatePackageName(e.Name); err != nil {
			return nil, errors.Wrapf(err, errors.ErrLockfile, "package #%d", idx+1)
		}
		if err := paths.ValidateVersion(e.Version); err != nil {
			return nil, errors.Wrapf(err, errors.ErrLockfile, "package %s", e.Name).
				WithDetail(errors.DetailPackage, e.Name)
		}
		if seen[e.Name] {
			return nil, errors.Newf(errors.ErrLockfile, "package %s is listed more than once", e.Name).
				WithDetail(errors.DetailPackage, e.Name)
		}
		seen[e.Name] = true
	}
	return &lf, nil
}

// Descriptors converts the entries to package descriptors sorted by name.
// Relative sources are resolved against baseDir.
func (l *Lockfile) Descriptors(baseDir string) ([]types.PackageDescriptor, error) {
	out := make([]types.PackageDescriptor, 0, len(l.Packages))
	for _, e := range l.Packages {
		source, err := paths.Resolve(baseDir, e.Source)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrLockfile, "invalid source for %s", e.Name).
				WithDetail(errors.DetailPackage, e.Name)
		}
		out = append(out, types.PackageDescriptor{
			Name:       e.Name,
			PrettyName: e.PrettyName,
			Version:    e.Version,
			Type:       e.Type,
			Source:     source,
			Extra:      e.Extra,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
