// Package registry stores the per-module metadata handed over by the
// TypeScript compiler collaborator.
//
// A Registry is populated once (normally by the manifest package) and is
// read-only for the rest of the build. Consumers depend on the Reader
// interface, which only exposes Has, Get and Names.
package registry
