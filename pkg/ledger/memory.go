package ledger

import (
	"sort"

	"github.com/arthur-debert/sharedpkg/pkg/types"
)

type entry struct {
	descriptor   types.PackageDescriptor
	installation types.Installation
}

// Memory is an in-memory ledger keyed by package name.
type Memory struct {
	entries map[string]entry
}

// NewMemory creates an empty ledger.
func NewMemory() *Memory {
	return &Memory{entries: make(map[string]entry)}
}

func (m *Memory) lookup(d types.PackageDescriptor) (entry, bool) {
	e, ok := m.entries[d.Name]
	if !ok || e.descriptor.Version != d.Version {
		return entry{}, false
	}
	return e, true
}

// HasPackage implements types.Ledger.
func (m *Memory) HasPackage(d types.PackageDescriptor) bool {
	_, ok := m.lookup(d)
	return ok
}

// Installation implements types.Ledger.
func (m *Memory) Installation(d types.PackageDescriptor) (types.Installation, bool) {
	e, ok := m.lookup(d)
	return e.installation, ok
}

// Find implements types.Ledger.
func (m *Memory) Find(name string) (types.PackageDescriptor, bool) {
	e, ok := m.entries[name]
	return e.descriptor, ok
}

// AddPackage implements types.Ledger.
func (m *Memory) AddPackage(d types.PackageDescriptor, inst types.Installation) error {
	m.entries[d.Name] = entry{descriptor: d, installation: inst}
	return nil
}

// RemovePackage implements types.Ledger.
func (m *Memory) RemovePackage(d types.PackageDescriptor) error {
	if _, ok := m.lookup(d); ok {
		delete(m.entries, d.Name)
	}
	return nil
}

// Packages implements types.Ledger.
func (m *Memory) Packages() []types.PackageDescriptor {
	names := make([]string, 0, len(m.entries))
	for name := range m.entries {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]types.PackageDescriptor, 0, len(names))
	for _, name := range names {
		out = append(out, m.entries[name].descriptor)
	}
	return out
}

var _ types.Ledger = (*Memory)(nil)
