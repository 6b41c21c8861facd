package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/dop251/goja"
	"github.com/vk/tsbundler/internal/ctxlog"
)

// Run executes the main application logic based on the provided configuration.
func (a *App) Run(ctx context.Context, appConfig *Config) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	result, err := a.Build(ctx, appConfig.BundleName)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.outW, "Wrote %s (%d modules)\n", result.Bundle.Output, len(result.Plan.Included))

	if appConfig.Run {
		a.logger.Info("Executing bundle.", "output", result.Bundle.Output)
		value, err := a.Execute(ctx, result.Bundle.Output)
		if err != nil {
			return fmt.Errorf("bundle execution failed: %w", err)
		}
		fmt.Fprintf(a.outW, "Entry point %s#%s returned: %s\n",
			result.Bundle.EntryModule, result.Bundle.EntryFunction, describe(value))
	}

	a.logger.Debug("App.Run method finished.")
	return nil
}

func describe(v goja.Value) string {
	if v == nil || goja.IsUndefined(v) {
		return "undefined"
	}
	if obj, ok := v.(*goja.Object); ok {
		if data, err := obj.MarshalJSON(); err == nil {
			return string(data)
		}
	}
	return strings.TrimSpace(v.String())
}
