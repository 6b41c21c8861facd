package runtime

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"github.com/dop251/goja"
	"github.com/vk/tsbundler/internal/ctxlog"
)

// Externals lists every dependency name, after renames, that has no
// definition in the bundle. Names appear once, in encoding order.
func (l *Loader) Externals() []string {
	var names []string
	seen := make(map[string]bool)
	for _, name := range l.order {
		for _, dep := range l.records[name].def.Dependencies {
			dep = l.rename(dep)
			if _, ok := l.records[dep]; ok || seen[dep] {
				continue
			}
			seen[dep] = true
			names = append(names, dep)
		}
	}
	return names
}

// Launch preloads external modules, resolves the entry module, runs every
// remaining module for its side effects and calls the entry function.
//
// The entry outcome is passed to the completion hook. A failure is passed to
// the error handler; with no error handler it is returned only when no
// completion hook saw it either. Preload failures skip the completion hook.
func (l *Loader) Launch(ctx context.Context) (goja.Value, error) {
	if !l.ownLogger {
		l.logger = ctxlog.FromContext(ctx).With("loader_id", l.id)
	}
	l.resolveHooks()
	l.logger.Debug("Launch: Starting bundle execution.", "modules", len(l.order))

	if err := l.preload(ctx); err != nil {
		l.logger.Error("Launch: External module preload failed.", "error", err)
		return nil, l.fail(err)
	}

	result, err := l.runEntry()
	if l.onComplete != nil {
		l.onComplete(err, result)
	}
	if err == nil {
		l.logger.Debug("Launch: Entry point returned.", "module", l.params.EntryPoint.Module, "function", l.params.EntryPoint.Function)
		return result, nil
	}

	l.logger.Error("Launch: Bundle execution failed.", "error", err)
	if l.onError != nil || l.onComplete == nil {
		return result, l.fail(err)
	}
	return result, nil
}

// fail hands err to the error handler, or returns it when there is none.
func (l *Loader) fail(err error) error {
	if l.onError != nil {
		l.onError(err)
		return nil
	}
	return err
}

func (l *Loader) preload(ctx context.Context) error {
	names := l.Externals()
	if len(names) == 0 {
		return nil
	}
	l.logger.Debug("Launch: Preloading external modules.", "modules", names)

	if l.cjs != nil && (l.params.PreferCommonJS || l.amd == nil) {
		for _, name := range names {
			v, err := l.cjs(name)
			if err != nil {
				return &ExternalLoadError{Modules: []string{name}, Err: err}
			}
			l.externals[name] = v
		}
		return nil
	}

	if l.amd == nil {
		return &ExternalLoadError{Modules: names, Err: ErrNoExternalLoader}
	}

	type outcome struct {
		values []goja.Value
		err    error
	}
	ch := make(chan outcome, 1)
	deliver := func(o outcome) {
		select {
		case ch <- o:
		default:
		}
	}
	l.amd(names,
		func(values []goja.Value) { deliver(outcome{values: values}) },
		func(err error) { deliver(outcome{err: err}) },
	)

	select {
	case o := <-ch:
		if o.err != nil {
			return &ExternalLoadError{Modules: names, Err: o.err}
		}
		for i, name := range names {
			v := goja.Undefined()
			if i < len(o.values) && o.values[i] != nil {
				v = o.values[i]
			}
			l.externals[name] = v
		}
		return nil
	case <-ctx.Done():
		return &ExternalLoadError{Modules: names, Err: ctx.Err()}
	}
}

func (l *Loader) runEntry() (goja.Value, error) {
	ep := l.params.EntryPoint
	entry, err := l.Product(ep.Module)
	if err != nil {
		return nil, err
	}

	for _, name := range l.order {
		if _, err := l.Product(name); err != nil {
			return nil, err
		}
	}

	obj, ok := entry.(*goja.Object)
	if !ok {
		return nil, &EntryPointError{Module: ep.Module, Function: ep.Function}
	}
	fn, ok := goja.AssertFunction(obj.Get(ep.Function))
	if !ok {
		return nil, &EntryPointError{Module: ep.Module, Function: ep.Function}
	}

	args, err := l.entryArgs()
	if err != nil {
		return nil, &EntryPointError{Module: ep.Module, Function: ep.Function, Err: err}
	}
	result, err := fn(goja.Undefined(), args...)
	if err != nil {
		return nil, &EntryPointError{Module: ep.Module, Function: ep.Function, Err: l.fromVM(err, ep.Module)}
	}
	return result, nil
}

func (l *Loader) entryArgs() ([]goja.Value, error) {
	if len(l.params.EntryPointArgs) == 0 {
		return nil, nil
	}
	var raw []any
	if err := json.Unmarshal(l.params.EntryPointArgs, &raw); err != nil {
		return nil, fmt.Errorf("entryPointArgs must be a JSON array: %w", err)
	}
	args := make([]goja.Value, len(raw))
	for i, v := range raw {
		args[i] = l.vm.ToValue(v)
	}
	return args, nil
}

// resolveHooks fills hooks not set through options from the global functions
// named in the launch parameters. Names without a matching global function
// are ignored.
func (l *Loader) resolveHooks() {
	if l.amd == nil {
		if fn, ok := l.global(l.params.AMDRequire); ok {
			l.amd = l.scriptAMD(fn)
		}
	}
	if l.cjs == nil {
		if fn, ok := l.global(l.params.CommonJSRequire); ok {
			l.cjs = func(name string) (goja.Value, error) {
				return fn(goja.Undefined(), l.vm.ToValue(name))
			}
		}
	}
	if l.onError == nil {
		if fn, ok := l.global(l.params.ErrorHandler); ok {
			l.onError = func(err error) {
				if _, callErr := fn(goja.Undefined(), l.jsError(err)); callErr != nil {
					l.logger.Error("Launch: Error handler threw.", "error", callErr)
				}
			}
		}
	}
	if l.onComplete == nil {
		if fn, ok := l.global(l.params.AfterEntryPointExecuted); ok {
			l.onComplete = func(err error, result goja.Value) {
				errValue := goja.Null()
				if err != nil {
					errValue = l.jsError(err)
				}
				if result == nil {
					result = goja.Undefined()
				}
				if _, callErr := fn(goja.Undefined(), errValue, result); callErr != nil {
					l.logger.Error("Launch: Completion hook threw.", "error", callErr)
				}
			}
		}
	}
}

func (l *Loader) global(name string) (goja.Callable, bool) {
	if name == "" {
		return nil, false
	}
	fn, ok := goja.AssertFunction(l.vm.Get(name))
	if !ok {
		l.logger.Warn("Launch: Hook is not a global function; ignoring it.", "hook", name)
	}
	return fn, ok
}

// scriptAMD adapts a script function with the signature
// require(names, callback, errback) to an AMDLoader.
func (l *Loader) scriptAMD(fn goja.Callable) AMDLoader {
	return func(names []string, done func([]goja.Value), fail func(error)) {
		callback := l.vm.ToValue(func(call goja.FunctionCall) goja.Value {
			// Arguments aliases the VM stack and is reused once the call returns.
			done(slices.Clone(call.Arguments))
			return goja.Undefined()
		})
		errback := l.vm.ToValue(func(call goja.FunctionCall) goja.Value {
			fail(errors.New(call.Argument(0).String()))
			return goja.Undefined()
		})
		list := make([]any, len(names))
		for i, name := range names {
			list[i] = name
		}
		if _, err := fn(goja.Undefined(), l.vm.NewArray(list...), callback, errback); err != nil {
			fail(err)
		}
	}
}
