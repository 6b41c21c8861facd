package runtime

import (
	"errors"
	"fmt"
	"strings"
)

// CycleError is returned when a module is requested while it is still being
// resolved. Chain is the resolution stack followed by the repeated module.
type CycleError struct {
	Chain []string
}

func (e *CycleError) Error() string {
	return "cannot resolve circular dependency: " + strings.Join(e.Chain, " -> ")
}

// MissingDefinitionError names a module that is neither bundled nor loaded as
// an external module.
type MissingDefinitionError struct {
	Module string
}

func (e *MissingDefinitionError) Error() string {
	return fmt.Sprintf("module %q is neither defined in the bundle nor loaded as an external module", e.Module)
}

// ExternalLoadError is returned when the host could not supply external
// modules.
type ExternalLoadError struct {
	Modules []string
	Err     error
}

func (e *ExternalLoadError) Error() string {
	return fmt.Sprintf("failed to load external modules %s: %v", strings.Join(e.Modules, ", "), e.Err)
}

func (e *ExternalLoadError) Unwrap() error {
	return e.Err
}

// EntryPointError is returned when the entry function is missing or throws.
type EntryPointError struct {
	Module   string
	Function string
	Err      error
}

func (e *EntryPointError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("module %q does not export function %q", e.Module, e.Function)
	}
	return fmt.Sprintf("entry point %s#%s failed: %v", e.Module, e.Function, e.Err)
}

func (e *EntryPointError) Unwrap() error {
	return e.Err
}

// ErrNoExternalLoader is wrapped by ExternalLoadError when the bundle needs
// external modules but no loader is configured.
var ErrNoExternalLoader = errors.New("no external module loader is configured")

// errorName is the JavaScript error name used when err is thrown into the VM
// or handed to a script hook.
func errorName(err error) string {
	var (
		cycle    *CycleError
		missing  *MissingDefinitionError
		external *ExternalLoadError
		entry    *EntryPointError
	)
	switch {
	case errors.As(err, &cycle):
		return "CircularDependencyError"
	case errors.As(err, &missing):
		return "MissingDefinitionError"
	case errors.As(err, &external):
		return "ExternalLoadError"
	case errors.As(err, &entry):
		return "EntryPointError"
	default:
		return "Error"
	}
}
