// Package config defines the format-agnostic project model, along with the
// interfaces (Loader, Converter) for loading it from various sources.
//
// A `config.Project` is the single source of truth for the build pipeline in
// `app`. Concrete implementations of the interfaces, such as for HCL, are
// provided in separate packages.
package config
