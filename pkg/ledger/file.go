package ledger

import (
	"os"
	"path/filepath"

	"github.com/arthur-debert/sharedpkg/pkg/errors"
	"github.com/arthur-debert/sharedpkg/pkg/logging"
	"github.com/arthur-debert/sharedpkg/pkg/types"
	"github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog"
)

// FormatVersion is the on-disk ledger schema version.
const FormatVersion = 1

type document struct {
	Version  int      `toml:"version"`
	Packages []record `toml:"package"`
}

type record struct {
	Name       string `toml:"name"`
	PrettyName string `toml:"pretty_name,omitempty"`
	Version    string `toml:"version"`
	Type       string `toml:"type,omitempty"`
	Strategy   string `toml:"strategy"`
	StorePath  string `toml:"store_path,omitempty"`
}

// File is a ledger persisted as TOML.
type File struct {
	*Memory
	fs     types.FS
	path   string
	logger zerolog.Logger
}

// Open loads the ledger at path. A missing file yields an empty ledger.
func Open(fsys types.FS, path string) (*File, error) {
	f := &File{
		Memory: NewMemory(),
		fs:     fsys,
		path:   path,
		logger: logging.GetLogger("ledger"),
	}

	data, err := fsys.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			f.logger.Debug().Str("path", path).Msg("No ledger file, starting empty")
			return f, nil
		}
		return nil, errors.Wrapf(err, errors.ErrLedger, "failed to read ledger %s", path).
			WithDetail(errors.DetailPath, path)
	}

	var doc document
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrapf(err, errors.ErrLedger, "failed to parse ledger %s", path).
			WithDetail(errors.DetailPath, path)
	}
	if doc.Version > FormatVersion {
		return nil, errors.Newf(errors.ErrLedger, "ledger %s has unsupported version %d", path, doc.Version).
			WithDetail(errors.DetailPath, path)
	}

	for _, r := range doc.Packages {
		kind, err := types.ParseKind(r.Strategy)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrLedger, "invalid ledger entry for %s", r.Name).
				WithDetail(errors.DetailPackage, r.Name).
				WithDetail(errors.DetailPath, path)
		}
		d := types.PackageDescriptor{
			Name:       r.Name,
			PrettyName: r.PrettyName,
			Version:    r.Version,
			Type:       r.Type,
		}
		_ = f.Memory.AddPackage(d, types.Installation{Kind: kind, StorePath: r.StorePath})
	}

	f.logger.Debug().Str("path", path).Int("packages", len(doc.Packages)).Msg("Ledger loaded")
	return f, nil
}

// Path returns the ledger file location.
func (f *File) Path() string {
	return f.path
}

// AddPackage records d and persists the ledger.
func (f *File) AddPackage(d types.PackageDescriptor, inst types.Installation) error {
	previous, hadPrevious := f.Memory.entries[d.Name]
	_ = f.Memory.AddPackage(d, inst)
	if err := f.save(); err != nil {
		if hadPrevious {
			f.Memory.entries[d.Name] = previous
		} else {
			delete(f.Memory.entries, d.Name)
		}
		return err
	}
	return nil
}

// RemovePackage drops d and persists the ledger.
func (f *File) RemovePackage(d types.PackageDescriptor) error {
	previous, ok := f.Memory.lookup(d)
	if !ok {
		return nil
	}
	_ = f.Memory.RemovePackage(d)
	if err := f.save(); err != nil {
		f.Memory.entries[d.Name] = previous
		return err
	}
	return nil
}

func (f *File) save() error {
	doc := document{Version: FormatVersion}
	for _, d := range f.Memory.Packages() {
		inst := f.Memory.entries[d.Name].installation
		doc.Packages = append(doc.Packages, record{
			Name:       d.Name,
			PrettyName: d.PrettyName,
			Version:    d.Version,
			Type:       d.Type,
			Strategy:   inst.Kind.String(),
			StorePath:  inst.StorePath,
		})
	}

	data, err := toml.Marshal(doc)
	if err != nil {
		return errors.Wrap(err, errors.ErrLedger, "failed to encode ledger")
	}

	if err := f.fs.MkdirAll(filepath.Dir(f.path), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrLedger, "failed to create ledger directory for %s", f.path).
			WithDetail(errors.DetailPath, f.path)
	}

	tmp := f.path + ".tmp"
	if err := f.fs.WriteFile(tmp, data, 0644); err != nil {
		return errors.Wrapf(err, errors.ErrLedger, "failed to write ledger %s", tmp).
			WithDetail(errors.DetailPath, tmp)
	}
	if err := f.fs.Rename(tmp, f.path); err != nil {
		_ = f.fs.Remove(tmp)
		return errors.Wrapf(err, errors.ErrLedger, "failed to replace ledger %s", f.path).
			WithDetail(errors.DetailPath, f.path)
	}

	f.logger.Trace().Str("path", f.path).Int("packages", len(doc.Packages)).Msg("Ledger saved")
	return nil
}

var _ types.Ledger = (*File)(nil)
