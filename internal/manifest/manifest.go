// Package manifest reads the module manifests written by the compiler step
// into a registry.
//
// A manifest is a JSON or YAML document:
//
//	modules:
//	  /src/main:
//	    dependencies: [/src/util, lodash]
//	    exports: [main]
//	    exportModuleReferences: []
//	    hasOmniousExport: false
//	    altName: ""
//	    code: "function (exports, util, lodash) { ... }"
package manifest

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"
	"github.com/vk/tsbundler/internal/ctxlog"
	"github.com/vk/tsbundler/internal/fsutil"
	"github.com/vk/tsbundler/internal/registry"
	"gopkg.in/yaml.v3"
)

// Module is one manifest entry. Its name is the key it is stored under.
type Module struct {
	Dependencies           []string `json:"dependencies" yaml:"dependencies"`
	Exports                []string `json:"exports" yaml:"exports"`
	ExportModuleReferences []string `json:"exportModuleReferences" yaml:"exportModuleReferences"`
	HasOmniousExport       bool     `json:"hasOmniousExport" yaml:"hasOmniousExport"`
	AltName                string   `json:"altName" yaml:"altName"`
	Code                   string   `json:"code" yaml:"code"`
}

// File is the root of a manifest document.
type File struct {
	Modules map[string]Module `json:"modules" yaml:"modules"`
}

// Extensions lists the file name suffixes Load picks up.
var Extensions = []string{".json", ".yaml", ".yml"}

// Decode parses a manifest. The format is chosen by the extension of path.
func Decode(path string, data []byte) (*File, error) {
	var file File
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if err := json.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("failed to parse manifest %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("failed to parse manifest %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("unsupported manifest format: %s", path)
	}
	return &file, nil
}

// Load reads every manifest under paths into a new registry. Directories are
// searched recursively. A module defined twice, in one file or across files,
// is an error.
func Load(ctx context.Context, fsys afero.Fs, paths ...string) (*registry.Registry, error) {
	logger := ctxlog.FromContext(ctx)
	reg := registry.New()

	var files []string
	for _, path := range paths {
		found, err := fsutil.FindFilesByExtension(fsys, path, Extensions...)
		if err != nil {
			return nil, fmt.Errorf("failed to find manifests in %s: %w", path, err)
		}
		if len(found) == 0 {
			return nil, fmt.Errorf("no manifest files (%s) found in %s", strings.Join(Extensions, ", "), path)
		}
		files = append(files, found...)
	}

	for _, path := range files {
		data, err := afero.ReadFile(fsys, path)
		if err != nil {
			return nil, fmt.Errorf("failed to read manifest %s: %w", path, err)
		}
		file, err := Decode(path, data)
		if err != nil {
			return nil, err
		}

		names := make([]string, 0, len(file.Modules))
		for name := range file.Modules {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			m := file.Modules[name]
			err := reg.Add(&registry.ModuleData{
				Name:                   name,
				Dependencies:           m.Dependencies,
				Exports:                m.Exports,
				ExportModuleReferences: m.ExportModuleReferences,
				HasOmniousExport:       m.HasOmniousExport,
				AltName:                m.AltName,
				Code:                   m.Code,
			})
			if err != nil {
				return nil, fmt.Errorf("manifest %s: %w", path, err)
			}
		}
		logger.Debug("Load: Manifest read.", "path", path, "modules", len(names))
	}

	logger.Info("Load: Module registry ready.", "files", len(files), "modules", reg.Len())
	return reg, nil
}
