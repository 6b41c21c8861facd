package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dop251/goja"
	"github.com/spf13/afero"
	"github.com/vk/tsbundler/internal/bundle"
	"github.com/vk/tsbundler/internal/ctxlog"
	"github.com/vk/tsbundler/internal/runtime"
)

// Execute reads a written bundle and runs it on a fresh VM. The VM offers a
// console object backed by the application logger and nothing else, so a
// bundle that needs external modules fails to launch.
func (a *App) Execute(ctx context.Context, path string) (goja.Value, error) {
	logger := ctxlog.FromContext(ctx)

	text, err := afero.ReadFile(a.fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read bundle: %w", err)
	}
	enc, err := bundle.Parse(string(text))
	if err != nil {
		return nil, err
	}

	vm := goja.New()
	if err := installConsole(vm, logger); err != nil {
		return nil, err
	}

	ctx = ctxlog.With(ctx, "path", path)
	loader, err := runtime.New(vm, enc.Definitions, enc.Params, runtime.WithLogger(ctxlog.FromContext(ctx)))
	if err != nil {
		return nil, err
	}
	ctxlog.FromContext(ctx).Debug("Execute: Launching bundle.", "loader_id", loader.ID(), "modules", len(enc.Definitions))

	return loader.Launch(ctx)
}

// installConsole exposes console.log/info/warn/error to scripts, writing to
// logger.
func installConsole(vm *goja.Runtime, logger *slog.Logger) error {
	console := vm.NewObject()
	methods := map[string]slog.Level{
		"log":   slog.LevelInfo,
		"info":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
		"debug": slog.LevelDebug,
	}
	for name, level := range methods {
		level := level
		err := console.Set(name, func(call goja.FunctionCall) goja.Value {
			parts := make([]string, len(call.Arguments))
			for i, arg := range call.Arguments {
				parts[i] = arg.String()
			}
			logger.Log(context.Background(), level, strings.Join(parts, " "), "source", "console")
			return goja.Undefined()
		})
		if err != nil {
			return fmt.Errorf("failed to install console.%s: %w", name, err)
		}
	}
	return vm.Set("console", console)
}
