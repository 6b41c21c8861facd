package app

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/vk/tsbundler/internal/bundle"
	"github.com/vk/tsbundler/internal/config"
	"github.com/vk/tsbundler/internal/ctxlog"
	"github.com/vk/tsbundler/internal/dag"
	"github.com/vk/tsbundler/internal/manifest"
)

// BuildResult describes one written bundle.
type BuildResult struct {
	Bundle  *config.Bundle
	Plan    *dag.Result
	Encoded *bundle.Encoded
	Text    string
}

// Build plans, encodes and writes the named bundle.
func (a *App) Build(ctx context.Context, name string) (*BuildResult, error) {
	b, err := a.project.Select(name)
	if err != nil {
		return nil, err
	}
	ctx = ctxlog.With(ctx, "bundle", b.Name)
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Build: Starting.", "entry_module", b.EntryModule)

	reg, err := manifest.Load(ctx, a.fs, b.Manifests...)
	if err != nil {
		return nil, fmt.Errorf("failed to load module manifests: %w", err)
	}

	plan, err := dag.Order(ctx, reg, b.EntryModule)
	if err != nil {
		return nil, fmt.Errorf("failed to order modules: %w", err)
	}
	if absent := plan.Absent.Sorted(); len(absent) > 0 {
		logger.Info("Build: Modules will be loaded from the host at launch.", "external", absent)
	}

	params, err := a.launchParams(b)
	if err != nil {
		return nil, err
	}
	enc, err := bundle.Encode(ctx, reg, plan, params)
	if err != nil {
		return nil, fmt.Errorf("failed to encode bundle: %w", err)
	}
	text, err := bundle.String(enc)
	if err != nil {
		return nil, fmt.Errorf("failed to render bundle: %w", err)
	}

	if err := a.fs.MkdirAll(filepath.Dir(b.Output), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := afero.WriteFile(a.fs, b.Output, []byte(text), 0o644); err != nil {
		return nil, fmt.Errorf("failed to write bundle: %w", err)
	}

	logger.Info("Build: Bundle written.",
		"output", b.Output,
		"modules", len(plan.Included),
		"external", len(plan.Absent),
		"needs_full_metadata", len(plan.NeedsFullMetadata),
		"bytes", len(text),
	)
	return &BuildResult{Bundle: b, Plan: plan, Encoded: enc, Text: text}, nil
}

// launchParams maps the bundle configuration to launch parameters.
func (a *App) launchParams(b *config.Bundle) (bundle.Params, error) {
	args, err := a.converter.ToJSON(b.EntryPointArgs)
	if err != nil {
		return bundle.Params{}, fmt.Errorf("invalid entry point arguments for bundle %q: %w", b.Name, err)
	}
	return bundle.Params{
		EntryPoint:              bundle.EntryPoint{Module: b.EntryModule, Function: b.EntryFunction},
		AMDRequire:              b.AMDRequire,
		CommonJSRequire:         b.CommonJSRequire,
		PreferCommonJS:          b.PreferCommonJS,
		ErrorHandler:            b.ErrorHandler,
		AfterEntryPointExecuted: b.AfterEntryPointExecuted,
		EntryPointArgs:          args,
	}, nil
}
