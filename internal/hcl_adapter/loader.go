package hcl_adapter

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/spf13/afero"
	"github.com/vk/tsbundler/internal/config"
	"github.com/vk/tsbundler/internal/ctxlog"
	"github.com/vk/tsbundler/internal/fsutil"
	"github.com/vk/tsbundler/internal/schema"
)

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct {
	fs afero.Fs
}

// NewLoader creates a new HCL configuration loader reading from fs.
func NewLoader(fs afero.Fs) *Loader {
	return &Loader{fs: fs}
}

// rootSchema is used to see block headers before decoding, so duplicate
// bundle names can be reported with their source ranges.
var rootSchema = &hcl.BodySchema{
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "bundle", LabelNames: []string{"name"}},
	},
}

// Load orchestrates the entire HCL configuration loading process. It accepts
// files and directories; directories are searched for .hcl files recursively.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Project, config.Converter, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	project := config.NewProject()

	hclFiles, err := l.findAllHCLFiles(paths)
	if err != nil {
		return nil, nil, err
	}
	logger.Debug("Discovered HCL files.", "count", len(hclFiles))

	parser := hclparse.NewParser()
	seen := make(map[string]hcl.Range)

	for _, file := range hclFiles {
		src, err := afero.ReadFile(l.fs, file)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read HCL file %s: %w", file, err)
		}
		hclFile, diags := parser.ParseHCL(src, file)
		if diags.HasErrors() {
			return nil, nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}

		content, _, diags := hclFile.Body.PartialContent(rootSchema)
		if diags.HasErrors() {
			return nil, nil, fmt.Errorf("failed to decode HCL file %s: %w", file, diags)
		}
		if diags := findDuplicateLabels(content.Blocks, "bundle", seen); diags.HasErrors() {
			return nil, nil, fmt.Errorf("invalid HCL file %s: %w", file, diags)
		}

		var root schema.ProjectConfig
		diags = gohcl.DecodeBody(hclFile.Body, nil, &root)
		if diags.HasErrors() {
			return nil, nil, fmt.Errorf("failed to decode HCL file %s: %w", file, diags)
		}

		for _, b := range root.Bundles {
			def, err := l.translateBundle(ctx, b, filepath.Dir(file))
			if err != nil {
				return nil, nil, err
			}
			project.Bundles[def.Name] = def
		}
	}

	logger.Debug("HCL loading complete.", "bundles", len(project.Bundles))
	return project, NewConverter(), nil
}

// findAllHCLFiles walks all given paths and returns a flat list of all .hcl
// files found. Paths that do not exist are skipped.
func (l *Loader) findAllHCLFiles(paths []string) ([]string, error) {
	var allFiles []string
	seen := make(map[string]struct{})

	for _, path := range paths {
		exists, err := afero.Exists(l.fs, path)
		if err != nil {
			return nil, fmt.Errorf("error accessing path %s: %w", path, err)
		}
		if !exists {
			continue
		}

		found, err := fsutil.FindFilesByExtension(l.fs, path, ".hcl")
		if err != nil {
			return nil, err
		}
		for _, p := range found {
			if _, wasSeen := seen[p]; !wasSeen {
				allFiles = append(allFiles, p)
				seen[p] = struct{}{}
			}
		}
	}
	return allFiles, nil
}
