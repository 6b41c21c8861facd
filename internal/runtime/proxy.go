package runtime

import (
	"fmt"

	"github.com/dop251/goja"
)

// exportNames collects the names a proxy for name exposes: the module's own
// exports, then those of every module it re-exports, transitively. "default"
// only counts on the first hop. When two sources provide the same name the
// first one wins.
func (l *Loader) exportNames(name string) []string {
	owners := make(map[string]string)
	visited := make(map[string]bool)
	var names []string

	type frame struct {
		module   string
		firstHop bool
	}
	// Explicit stack; refs are pushed in reverse to keep depth-first,
	// left-to-right order.
	stack := []frame{{module: name, firstHop: true}}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		module := l.rename(top.module)
		if visited[module] {
			continue
		}
		visited[module] = true

		rec, ok := l.records[module]
		if !ok || rec.def.Meta == nil {
			continue
		}
		for _, exportName := range rec.def.Meta.Exports {
			if !top.firstHop && exportName == "default" {
				continue
			}
			if owner, taken := owners[exportName]; taken {
				if owner != module {
					l.logger.Warn("Proxy: Export name provided by more than one module; using the first.",
						"module", name, "export", exportName, "kept", owner, "ignored", module)
				}
				continue
			}
			owners[exportName] = module
			names = append(names, exportName)
		}
		refs := rec.def.Meta.ExportRefs
		for i := len(refs) - 1; i >= 0; i-- {
			stack = append(stack, frame{module: refs[i]})
		}
	}
	return names
}

// proxy returns the cached proxy for name, building it on first use. Building
// a proxy never resolves the module.
func (l *Loader) proxy(name string) (goja.Value, error) {
	rec := l.records[name]
	if rec.proxy != nil {
		return rec.proxy, nil
	}

	obj := l.vm.NewObject()
	for _, exportName := range l.exportNames(name) {
		exportName := exportName
		getter := l.vm.ToValue(func(goja.FunctionCall) goja.Value {
			product, err := l.Product(name)
			if err != nil {
				panic(l.throw(err))
			}
			target, ok := product.(*goja.Object)
			if !ok {
				return goja.Undefined()
			}
			if v := target.Get(exportName); v != nil {
				return v
			}
			return goja.Undefined()
		})
		if err := obj.DefineAccessorProperty(exportName, getter, nil, goja.FLAG_FALSE, goja.FLAG_TRUE); err != nil {
			return nil, fmt.Errorf("define export %q on proxy of %q: %w", exportName, name, err)
		}
	}
	rec.proxy = obj
	return obj, nil
}
