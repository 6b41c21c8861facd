// Package schema holds the HCL decoding targets of a project file.
package schema

import "github.com/hashicorp/hcl/v2"

// Bundle represents a `bundle` block: one entry module and everything needed
// to build and launch it.
type Bundle struct {
	Name string `hcl:"name,label"`

	EntryModule   string `hcl:"entry_module"`
	EntryFunction string `hcl:"entry_function,optional"`

	Manifests []string `hcl:"manifests"`
	Output    string   `hcl:"output,optional"`

	PreferCommonJS          bool   `hcl:"prefer_commonjs,optional"`
	AMDRequire              string `hcl:"amd_require,optional"`
	CommonJSRequire         string `hcl:"commonjs_require,optional"`
	ErrorHandler            string `hcl:"error_handler,optional"`
	AfterEntryPointExecuted string `hcl:"after_entry_point_executed,optional"`

	// EntryPointArgs is kept as an expression so any tuple of values can be
	// passed through to the bundle.
	EntryPointArgs hcl.Expression `hcl:"entry_point_args,optional"`
}

// ProjectConfig represents the top-level structure of a project file.
type ProjectConfig struct {
	Bundles []*Bundle `hcl:"bundle,block"`
	Body    hcl.Body  `hcl:",remain"`
}
