package config

import (
	"fmt"
	"sort"

	"github.com/zclconf/go-cty/cty"
)

// DefaultEntryFunction is called when a bundle does not name its entry
// function.
const DefaultEntryFunction = "main"

// Project is the unified, format-agnostic representation of all bundle
// definitions found in the configuration.
type Project struct {
	Bundles map[string]*Bundle
}

// NewProject returns an empty project.
func NewProject() *Project {
	return &Project{Bundles: make(map[string]*Bundle)}
}

// BundleNames returns the names of all bundles in ascending order.
func (p *Project) BundleNames() []string {
	names := make([]string, 0, len(p.Bundles))
	for name := range p.Bundles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Select returns the named bundle. An empty name selects the only bundle of
// a single-bundle project.
func (p *Project) Select(name string) (*Bundle, error) {
	if name == "" {
		if len(p.Bundles) != 1 {
			return nil, fmt.Errorf("project defines %d bundles %v; choose one by name", len(p.Bundles), p.BundleNames())
		}
		for _, b := range p.Bundles {
			return b, nil
		}
	}
	b, ok := p.Bundles[name]
	if !ok {
		return nil, fmt.Errorf("bundle %q is not defined; available: %v", name, p.BundleNames())
	}
	return b, nil
}

// Bundle is the format-agnostic representation of a `bundle` block.
type Bundle struct {
	Name string

	EntryModule   string
	EntryFunction string

	// Manifests are files or directories holding module manifests.
	Manifests []string
	// Output is the path the bundle text is written to.
	Output string

	PreferCommonJS          bool
	AMDRequire              string
	CommonJSRequire         string
	ErrorHandler            string
	AfterEntryPointExecuted string

	// EntryPointArgs is cty.NilVal when not configured.
	EntryPointArgs cty.Value
}
