package runtime

import (
	"log/slog"

	"github.com/dop251/goja"
)

// AMDLoader requests all names in one batch. It calls done with one value per
// name, in order, or fail. Either may be called after AMDLoader returns.
type AMDLoader func(names []string, done func(values []goja.Value), fail func(err error))

// CommonJSLoader loads a single external module synchronously.
type CommonJSLoader func(name string) (goja.Value, error)

// ErrorHandler receives every launch failure.
type ErrorHandler func(err error)

// Completion receives the outcome of the entry function call.
type Completion func(err error, result goja.Value)

// Option configures a Loader. Hook options override the hook functions named
// in the launch parameters.
type Option func(*Loader)

// WithAMDLoader sets the batch loader for external modules.
func WithAMDLoader(fn AMDLoader) Option {
	return func(l *Loader) { l.amd = fn }
}

// WithCommonJSLoader sets the one-at-a-time loader for external modules.
func WithCommonJSLoader(fn CommonJSLoader) Option {
	return func(l *Loader) { l.cjs = fn }
}

// WithErrorHandler sets the launch error handler.
func WithErrorHandler(fn ErrorHandler) Option {
	return func(l *Loader) { l.onError = fn }
}

// WithCompletion sets the callback invoked after the entry function ran.
func WithCompletion(fn Completion) Option {
	return func(l *Loader) { l.onComplete = fn }
}

// WithLogger sets the logger the loader writes to from construction on.
// Without it, Product logs to slog.Default until Launch adopts the logger of
// its context.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) {
		l.logger = logger.With("loader_id", l.id)
		l.ownLogger = true
	}
}
