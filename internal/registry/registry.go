package registry

import (
	"fmt"
	"sort"
)

// ModuleData is everything the compiler collaborator knows about one compiled
// module.
type ModuleData struct {
	// Name is the canonical, path-like module name (e.g. "/src/main").
	Name string
	// Dependencies are the imported module names, in the order of the code's
	// positional parameters.
	Dependencies []string
	// Exports are the names the module exports itself.
	Exports []string
	// ExportModuleReferences name modules whose whole export surface is
	// re-exported (export * from ...).
	ExportModuleReferences []string
	// HasOmniousExport marks a module whose product is the value returned by
	// its code rather than its exports object.
	HasOmniousExport bool
	// AltName is an optional secondary name the module can be imported by.
	AltName string
	// Code is the module function expression: function (exports, deps...) {...}.
	Code string
}

// Reader is the read-only view of a registry used by the bundle planner.
type Reader interface {
	// Has reports whether name (canonical or alternative) is a known module.
	Has(name string) bool
	// Get returns the module registered under name, resolving alternative names.
	Get(name string) (*ModuleData, bool)
	// Names returns all canonical module names in ascending order.
	Names() []string
}

// DuplicateModuleError is returned when two modules claim the same name.
type DuplicateModuleError struct {
	Name string
}

func (e *DuplicateModuleError) Error() string {
	return fmt.Sprintf("module %q is defined more than once", e.Name)
}

// Registry is the in-memory implementation of Reader.
type Registry struct {
	modules  map[string]*ModuleData
	altNames map[string]string
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{
		modules:  make(map[string]*ModuleData),
		altNames: make(map[string]string),
	}
}

// Add registers a module. Names and alternative names share one namespace.
func (r *Registry) Add(m *ModuleData) error {
	if m.Name == "" {
		return fmt.Errorf("module has an empty name")
	}
	if r.Has(m.Name) {
		return &DuplicateModuleError{Name: m.Name}
	}
	if m.AltName != "" {
		if m.AltName == m.Name || r.Has(m.AltName) {
			return &DuplicateModuleError{Name: m.AltName}
		}
		r.altNames[m.AltName] = m.Name
	}
	r.modules[m.Name] = m
	return nil
}

// Has implements Reader.
func (r *Registry) Has(name string) bool {
	if _, ok := r.modules[name]; ok {
		return true
	}
	_, ok := r.altNames[name]
	return ok
}

// Get implements Reader.
func (r *Registry) Get(name string) (*ModuleData, bool) {
	if m, ok := r.modules[name]; ok {
		return m, true
	}
	if canonical, ok := r.altNames[name]; ok {
		return r.modules[canonical], true
	}
	return nil, false
}

// Names implements Reader.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.modules))
	for name := range r.modules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered modules.
func (r *Registry) Len() int {
	return len(r.modules)
}
