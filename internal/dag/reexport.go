package dag

import (
	"github.com/vk/tsbundler/internal/graph"
	"github.com/vk/tsbundler/internal/registry"
)

// reexportFrame is one level of the explicit DFS stack.
type reexportFrame struct {
	name string
	refs []string
	next int
}

// validateReexports checks that the ExportModuleReferences graph of the
// included modules is acyclic. External references are skipped.
func validateReexports(reg registry.Reader, included []string) error {
	done := graph.Set{}
	onPath := make(map[string]int)

	for _, root := range included {
		if done.Has(root) {
			continue
		}

		rootModule, _ := reg.Get(root)
		path := []*reexportFrame{{name: root, refs: rootModule.ExportModuleReferences}}
		onPath[root] = 0

		for len(path) > 0 {
			top := path[len(path)-1]
			if top.next == len(top.refs) {
				delete(onPath, top.name)
				done[top.name] = struct{}{}
				path = path[:len(path)-1]
				continue
			}

			ref := top.refs[top.next]
			top.next++

			refModule, ok := reg.Get(ref)
			if !ok {
				continue
			}
			if idx, cyclic := onPath[refModule.Name]; cyclic {
				chain := make([]string, 0, len(path)-idx+1)
				for _, frame := range path[idx:] {
					chain = append(chain, frame.name)
				}
				chain = append(chain, refModule.Name)
				return &ReexportCycleError{Chain: chain}
			}
			if done.Has(refModule.Name) {
				continue
			}

			onPath[refModule.Name] = len(path)
			path = append(path, &reexportFrame{name: refModule.Name, refs: refModule.ExportModuleReferences})
		}
	}

	return nil
}
