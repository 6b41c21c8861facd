package bundle

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/vk/tsbundler/internal/ctxlog"
	"github.com/vk/tsbundler/internal/dag"
	"github.com/vk/tsbundler/internal/registry"
)

// Metadata is the optional third element of a definition tuple.
//
// A non-nil Exports slice (even an empty one) marks a module that needs full
// metadata: the runtime hands out proxies for it instead of resolving it
// eagerly.
type Metadata struct {
	AltName       string   `json:"altName,omitempty"`
	Exports       []string `json:"exports"`
	ExportRefs    []string `json:"exportRefs,omitempty"`
	ArbitraryType bool     `json:"arbitraryType,omitempty"`
}

// Full reports whether the metadata carries the export surface of the module.
func (m *Metadata) Full() bool {
	return m != nil && m.Exports != nil
}

// MarshalJSON omits exports when the surface is not shipped, but keeps an
// empty list when it is.
func (m Metadata) MarshalJSON() ([]byte, error) {
	type wire struct {
		AltName       string    `json:"altName,omitempty"`
		Exports       *[]string `json:"exports,omitempty"`
		ExportRefs    []string  `json:"exportRefs,omitempty"`
		ArbitraryType bool      `json:"arbitraryType,omitempty"`
	}
	w := wire{AltName: m.AltName, ExportRefs: m.ExportRefs, ArbitraryType: m.ArbitraryType}
	if m.Exports != nil {
		w.Exports = &m.Exports
	}
	return json.Marshal(w)
}

// Definition is one bundled module.
type Definition struct {
	Name         string
	Dependencies []string
	Meta         *Metadata
	Code         string
}

// MarshalJSON writes the smallest tuple shape that carries the definition.
func (d Definition) MarshalJSON() ([]byte, error) {
	tuple := []any{d.Name}
	if len(d.Dependencies) > 0 || d.Meta != nil {
		deps := d.Dependencies
		if deps == nil {
			deps = []string{}
		}
		tuple = append(tuple, deps)
	}
	if d.Meta != nil {
		tuple = append(tuple, d.Meta)
	}
	tuple = append(tuple, d.Code)
	return json.Marshal(tuple)
}

// UnmarshalJSON accepts all three tuple shapes.
func (d *Definition) UnmarshalJSON(data []byte) error {
	var tuple []json.RawMessage
	if err := json.Unmarshal(data, &tuple); err != nil {
		return err
	}
	if len(tuple) < 2 || len(tuple) > 4 {
		return &ParseError{Reason: fmt.Sprintf("definition tuple has %d elements", len(tuple))}
	}

	*d = Definition{}
	if err := json.Unmarshal(tuple[0], &d.Name); err != nil {
		return fmt.Errorf("definition name: %w", err)
	}
	if err := json.Unmarshal(tuple[len(tuple)-1], &d.Code); err != nil {
		return fmt.Errorf("code of %q: %w", d.Name, err)
	}
	if len(tuple) >= 3 {
		if err := json.Unmarshal(tuple[1], &d.Dependencies); err != nil {
			return fmt.Errorf("dependencies of %q: %w", d.Name, err)
		}
	}
	if len(tuple) == 4 {
		d.Meta = &Metadata{}
		if err := json.Unmarshal(tuple[2], d.Meta); err != nil {
			return fmt.Errorf("metadata of %q: %w", d.Name, err)
		}
	}
	return nil
}

// Encoded is a bundle before it is turned into text.
type Encoded struct {
	Definitions []Definition
	Params      Params
}

// Encode converts the planned modules into definitions, in plan order. An
// empty entry module in params defaults to the plan's entry.
func Encode(ctx context.Context, reg registry.Reader, plan *dag.Result, params Params) (*Encoded, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Encode: Starting bundle encoding.", "modules", len(plan.Included))

	defs := make([]Definition, 0, len(plan.Included))
	withMeta := 0
	for _, name := range plan.Included {
		module, ok := reg.Get(name)
		if !ok || strings.TrimSpace(module.Code) == "" {
			return nil, &MissingCodeError{Module: name}
		}

		def := Definition{
			Name:         module.Name,
			Dependencies: append([]string(nil), module.Dependencies...),
			Code:         module.Code,
		}

		meta := &Metadata{AltName: module.AltName, ArbitraryType: module.HasOmniousExport}
		if plan.NeedsFullMetadata.Has(name) {
			meta.Exports = sortedUnique(module.Exports)
			if refs := sortedUnique(module.ExportModuleReferences); len(refs) > 0 {
				meta.ExportRefs = refs
			}
		}
		if meta.AltName != "" || meta.ArbitraryType || meta.Full() {
			def.Meta = meta
			withMeta++
		}
		defs = append(defs, def)
	}

	if params.EntryPoint.Module == "" {
		params.EntryPoint.Module = plan.Entry
	}

	logger.Debug("Encode: Bundle encoding complete.", "definitions", len(defs), "with_metadata", withMeta)
	return &Encoded{Definitions: defs, Params: params}, nil
}

// sortedUnique returns a sorted copy of names without duplicates. The result
// is never nil.
func sortedUnique(names []string) []string {
	out := make([]string, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
