package config

import (
	"context"
	"encoding/json"

	"github.com/zclconf/go-cty/cty"
)

// Loader is the interface for a format-specific configuration loader.
type Loader interface {
	// Load reads configuration from the given paths, translates it into the
	// format-agnostic model, and returns a matching Converter.
	Load(ctx context.Context, paths ...string) (*Project, Converter, error)
}

// Converter bridges configuration values and the JSON launch parameters
// written into a bundle.
type Converter interface {
	// ToJSON renders a configuration value as JSON. A null or missing value
	// renders as nil.
	ToJSON(v cty.Value) (json.RawMessage, error)
}
