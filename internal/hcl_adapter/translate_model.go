// This file contains the logic for translating HCL schema structs into the
// format-agnostic configuration model defined in the config package.

package hcl_adapter

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/vk/tsbundler/internal/config"
	"github.com/vk/tsbundler/internal/ctxlog"
	"github.com/vk/tsbundler/internal/schema"
	"github.com/zclconf/go-cty/cty"
)

// translateBundle converts the HCL bundle schema into the agnostic model.
// Relative paths are resolved against baseDir, the directory of the file the
// block was read from.
func (l *Loader) translateBundle(ctx context.Context, b *schema.Bundle, baseDir string) (*config.Bundle, error) {
	logger := ctxlog.FromContext(ctx).With("bundle", b.Name)
	ctx = ctxlog.WithLogger(ctx, logger)
	logger.Debug("Translating HCL bundle to internal config model.")

	if strings.TrimSpace(b.EntryModule) == "" {
		return nil, fmt.Errorf("bundle '%s': entry_module must not be empty", b.Name)
	}
	if len(b.Manifests) == 0 {
		return nil, fmt.Errorf("bundle '%s': at least one manifest path is required", b.Name)
	}

	out := &config.Bundle{
		Name:                    b.Name,
		EntryModule:             b.EntryModule,
		EntryFunction:           b.EntryFunction,
		Output:                  b.Output,
		PreferCommonJS:          b.PreferCommonJS,
		AMDRequire:              b.AMDRequire,
		CommonJSRequire:         b.CommonJSRequire,
		ErrorHandler:            b.ErrorHandler,
		AfterEntryPointExecuted: b.AfterEntryPointExecuted,
		EntryPointArgs:          cty.NilVal,
	}
	if out.EntryFunction == "" {
		out.EntryFunction = config.DefaultEntryFunction
	}
	if out.Output == "" {
		out.Output = filepath.Join("dist", b.Name+".js")
	}
	out.Output = resolvePath(baseDir, out.Output)
	for _, m := range b.Manifests {
		out.Manifests = append(out.Manifests, resolvePath(baseDir, m))
	}

	if isExprDefined(ctx, b.EntryPointArgs, "entry_point_args") {
		val, diags := b.EntryPointArgs.Value(nil)
		if diags.HasErrors() {
			return nil, fmt.Errorf("invalid entry_point_args in bundle '%s': %w", b.Name, diags)
		}
		ty := val.Type()
		if !val.IsNull() && !ty.IsTupleType() && !ty.IsListType() {
			return nil, fmt.Errorf("bundle '%s': entry_point_args must be a list, got %s", b.Name, ty.FriendlyName())
		}
		out.EntryPointArgs = val
	}

	logger.Debug("Bundle translated.", "entry_module", out.EntryModule, "output", out.Output, "manifests", len(out.Manifests))
	return out, nil
}

func resolvePath(baseDir, p string) string {
	if filepath.IsAbs(p) || baseDir == "" {
		return filepath.Clean(p)
	}
	return filepath.Join(baseDir, p)
}
