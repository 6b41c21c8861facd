package runtime

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/dop251/goja"
	"github.com/dop251/goja/parser"
	"github.com/google/uuid"
	"github.com/vk/tsbundler/internal/bundle"
)

type state int

const (
	unresolved state = iota
	resolving
	resolved
)

// record is the runtime state of one bundled module.
type record struct {
	def     bundle.Definition
	fn      goja.Callable
	state   state
	product goja.Value
	proxy   *goja.Object
}

// Loader resolves the modules of one bundle on a goja VM.
type Loader struct {
	vm     *goja.Runtime
	params bundle.Params
	id     string
	logger *slog.Logger

	// ownLogger is set when the logger came from WithLogger.
	ownLogger bool

	order     []string
	records   map[string]*record
	renames   map[string]string
	externals map[string]goja.Value
	stack     []string

	// thrown maps error objects raised inside the VM back to the Go error
	// they were built from.
	thrown map[*goja.Object]error

	amd        AMDLoader
	cjs        CommonJSLoader
	onError    ErrorHandler
	onComplete Completion
}

// New creates a loader for the given definitions. Definitions are kept in
// the order given, which is also the order of the side-effect pass in Launch.
func New(vm *goja.Runtime, defs []bundle.Definition, params bundle.Params, opts ...Option) (*Loader, error) {
	id := uuid.NewString()
	l := &Loader{
		vm:        vm,
		params:    params,
		id:        id,
		logger:    slog.Default().With("loader_id", id),
		order:     make([]string, 0, len(defs)),
		records:   make(map[string]*record, len(defs)),
		renames:   make(map[string]string),
		externals: make(map[string]goja.Value),
		thrown:    make(map[*goja.Object]error),
	}

	for _, def := range defs {
		if _, dup := l.records[def.Name]; dup {
			return nil, fmt.Errorf("module %q is defined more than once in the bundle", def.Name)
		}
		l.records[def.Name] = &record{def: def}
		l.order = append(l.order, def.Name)
		if def.Meta != nil && def.Meta.AltName != "" {
			l.renames[def.Meta.AltName] = def.Name
		}
	}

	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// ID identifies the loader in log records.
func (l *Loader) ID() string {
	return l.id
}

func (l *Loader) rename(name string) string {
	if canonical, ok := l.renames[name]; ok {
		return canonical
	}
	return name
}

// proxied reports whether dependents receive a proxy for name.
func (l *Loader) proxied(name string) bool {
	rec, ok := l.records[name]
	return ok && rec.def.Meta.Full() && !rec.def.Meta.ArbitraryType
}

// Resolved reports whether the module behind name has finished running.
func (l *Loader) Resolved(name string) bool {
	name = l.rename(name)
	if _, ok := l.externals[name]; ok {
		return true
	}
	rec, ok := l.records[name]
	return ok && rec.state == resolved
}

// Product returns the value a module exposes to its importers, running the
// module first if needed. A module body runs at most once per loader.
func (l *Loader) Product(name string) (goja.Value, error) {
	name = l.rename(name)
	if v, ok := l.externals[name]; ok {
		return v, nil
	}
	rec, ok := l.records[name]
	if !ok {
		return nil, &MissingDefinitionError{Module: name}
	}

	switch rec.state {
	case resolved:
		return rec.product, nil
	case resolving:
		return nil, &CycleError{Chain: append(slices.Clone(l.stack), name)}
	}

	rec.state = resolving
	l.stack = append(l.stack, name)
	defer func() {
		l.stack = l.stack[:len(l.stack)-1]
		if rec.state == resolving {
			rec.state = unresolved
		}
	}()

	exports := l.vm.NewObject()
	args := make([]goja.Value, 0, len(rec.def.Dependencies)+1)
	args = append(args, exports)
	for _, dep := range rec.def.Dependencies {
		v, err := l.dependency(dep)
		if err != nil {
			return nil, err
		}
		args = append(args, v)
	}

	fn, err := l.compile(rec)
	if err != nil {
		return nil, err
	}
	returned, err := fn(goja.Undefined(), args...)
	if err != nil {
		return nil, l.fromVM(err, name)
	}

	product := goja.Value(exports)
	if rec.def.Meta != nil && rec.def.Meta.ArbitraryType {
		product = returned
	}
	rec.product = product
	rec.state = resolved
	l.logger.Debug("Product: Module resolved.", "module", name)
	return product, nil
}

// dependency returns what an importer receives for name: a proxy when the
// module ships its export names, the resolved product otherwise.
func (l *Loader) dependency(name string) (goja.Value, error) {
	name = l.rename(name)
	if l.proxied(name) {
		return l.proxy(name)
	}
	return l.Product(name)
}

// compile turns the module's function expression into a callable once.
func (l *Loader) compile(rec *record) (goja.Callable, error) {
	if rec.fn != nil {
		return rec.fn, nil
	}
	ast, err := parser.ParseFile(nil, rec.def.Name, "("+rec.def.Code+")", 0)
	if err != nil {
		return nil, fmt.Errorf("parse module %q: %w", rec.def.Name, err)
	}
	prog, err := goja.CompileAST(ast, false)
	if err != nil {
		return nil, fmt.Errorf("compile module %q: %w", rec.def.Name, err)
	}
	v, err := l.vm.RunProgram(prog)
	if err != nil {
		return nil, fmt.Errorf("evaluate module %q: %w", rec.def.Name, err)
	}
	fn, ok := goja.AssertFunction(v)
	if !ok {
		return nil, fmt.Errorf("code of module %q is not a function", rec.def.Name)
	}
	rec.fn = fn
	return fn, nil
}

// throw converts err into a JavaScript error object and remembers the
// original so it can be recovered when the exception leaves the VM.
func (l *Loader) throw(err error) *goja.Object {
	obj := l.vm.NewGoError(err)
	_ = obj.Set("name", errorName(err))
	l.thrown[obj] = err
	return obj
}

// fromVM maps an exception raised while running module code back to the
// loader error that caused it, or wraps it with the module name.
func (l *Loader) fromVM(err error, module string) error {
	var exc *goja.Exception
	if errors.As(err, &exc) {
		if obj, ok := exc.Value().(*goja.Object); ok {
			if original, ok := l.thrown[obj]; ok {
				return original
			}
		}
	}
	return fmt.Errorf("module %q: %w", module, err)
}

// jsError is the value passed to script hooks for err.
func (l *Loader) jsError(err error) goja.Value {
	var exc *goja.Exception
	if errors.As(err, &exc) {
		return exc.Value()
	}
	return l.throw(err)
}
