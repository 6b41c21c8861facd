package dag

import (
	"context"

	"github.com/vk/tsbundler/internal/ctxlog"
	"github.com/vk/tsbundler/internal/graph"
	"github.com/vk/tsbundler/internal/registry"
)

// Result is the bundle plan produced by Order.
type Result struct {
	// Entry is the canonical name of the entry module.
	Entry string
	// Included lists the bundled modules in ascending order.
	Included []string
	// Absent holds dependency names the registry does not know.
	Absent graph.Set
	// NeedsFullMetadata holds included modules whose export names must be
	// shipped with the bundle.
	NeedsFullMetadata graph.Set
}

// Order computes the bundle plan for entry.
func Order(ctx context.Context, reg registry.Reader, entry string) (*Result, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Order: Starting module ordering.", "entry", entry)

	entryModule, ok := reg.Get(entry)
	if !ok {
		return nil, &EntryNotFoundError{Module: entry}
	}

	// First pass: reachability from the entry module.
	included, absent := collectReachable(reg, entryModule.Name)
	logger.Debug("Order: Reachability complete.", "included", len(included), "absent", len(absent))

	// Second pass: export-star references must form a DAG.
	if err := validateReexports(reg, included); err != nil {
		return nil, err
	}
	logger.Debug("Order: Re-export validation passed.")

	// Third pass: decide which modules ship their export names.
	needs := markFullMetadata(reg, included)
	logger.Debug("Order: Metadata marking complete.", "needs_full_metadata", len(needs))

	return &Result{
		Entry:             entryModule.Name,
		Included:          included,
		Absent:            absent,
		NeedsFullMetadata: needs,
	}, nil
}

// collectReachable walks Dependencies from entry. Unknown names are recorded
// as absent and not followed.
func collectReachable(reg registry.Reader, entry string) ([]string, graph.Set) {
	visited := graph.Set{entry: {}}
	absent := graph.Set{}
	stack := []string{entry}

	for len(stack) > 0 {
		name := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		module, _ := reg.Get(name)
		for _, dep := range module.Dependencies {
			depModule, ok := reg.Get(dep)
			if !ok {
				absent[dep] = struct{}{}
				continue
			}
			if visited.Has(depModule.Name) {
				continue
			}
			visited[depModule.Name] = struct{}{}
			stack = append(stack, depModule.Name)
		}
	}

	return visited.Sorted(), absent
}

// markFullMetadata marks every module on a dependency cycle, then every
// included module whose export surface those modules re-export, transitively.
func markFullMetadata(reg registry.Reader, included []string) graph.Set {
	inBundle := make(graph.Set, len(included))
	for _, name := range included {
		inBundle[name] = struct{}{}
	}

	edges := make(map[string][]string, len(included))
	for _, name := range included {
		module, _ := reg.Get(name)
		deps := make([]string, 0, len(module.Dependencies))
		for _, dep := range module.Dependencies {
			if depModule, ok := reg.Get(dep); ok && inBundle.Has(depModule.Name) {
				deps = append(deps, depModule.Name)
			}
		}
		edges[name] = deps
	}

	needs := graph.FindCycles(edges)

	stack := needs.Sorted()
	for len(stack) > 0 {
		name := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		module, _ := reg.Get(name)
		for _, ref := range module.ExportModuleReferences {
			refModule, ok := reg.Get(ref)
			if !ok || !inBundle.Has(refModule.Name) || needs.Has(refModule.Name) {
				continue
			}
			needs[refModule.Name] = struct{}{}
			stack = append(stack, refModule.Name)
		}
	}

	return needs
}
