package bundle

import "encoding/json"

// EntryPoint names the function the bundle calls once all modules are loaded.
type EntryPoint struct {
	Module   string `json:"module"`
	Function string `json:"function"`
}

// Params are the launch parameters written after the definitions. Hook fields
// hold names of global functions in the host environment.
type Params struct {
	EntryPoint              EntryPoint      `json:"entryPoint"`
	AMDRequire              string          `json:"amdRequire,omitempty"`
	CommonJSRequire         string          `json:"commonjsRequire,omitempty"`
	PreferCommonJS          bool            `json:"preferCommonjs,omitempty"`
	ErrorHandler            string          `json:"errorHandler,omitempty"`
	AfterEntryPointExecuted string          `json:"afterEntryPointExecuted,omitempty"`
	EntryPointArgs          json.RawMessage `json:"entryPointArgs,omitempty"`
}
