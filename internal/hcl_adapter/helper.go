package hcl_adapter

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/vk/tsbundler/internal/ctxlog"
)

// isExprDefined checks if an HCL expression was actually present in the source
// code. The HCL decoder populates omitted optional expression fields with
// zero-width placeholder expressions, so a nil check is insufficient.
func isExprDefined(ctx context.Context, expr hcl.Expression, attrName string) bool {
	logger := ctxlog.FromContext(ctx)

	if expr == nil {
		logger.Debug("Expression is nil, considering it undefined.", "attribute", attrName)
		return false
	}

	// A real attribute occupies bytes in the file; a placeholder has a
	// zero-width range.
	exprRange := expr.Range()
	isDefined := exprRange.End.Byte > exprRange.Start.Byte

	logger.Debug("Checking if HCL attribute was explicitly defined.",
		"attribute", attrName,
		"hcl_range", exprRange.String(),
		"is_defined", isDefined,
	)

	return isDefined
}

// findDuplicateLabels returns a diagnostic for every block of blockType whose
// first label was already used, either earlier in blocks or in a previous
// file recorded in seen. First occurrences are added to seen.
func findDuplicateLabels(blocks hcl.Blocks, blockType string, seen map[string]hcl.Range) hcl.Diagnostics {
	var diags hcl.Diagnostics

	for _, block := range blocks {
		if block.Type != blockType || len(block.Labels) == 0 {
			continue
		}
		label := block.Labels[0]
		if first, ok := seen[label]; ok {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Duplicate \"" + blockType + "\" block",
				Detail:   fmt.Sprintf("A %s named %q was already defined at %s.", blockType, label, first),
				Subject:  block.DefRange.Ptr(),
			})
			continue
		}
		seen[label] = block.DefRange
	}

	return diags
}
