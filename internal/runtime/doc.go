// Package runtime executes a bundle's definitions on a goja VM.
//
// A Loader owns every piece of resolution state for one bundle execution:
// the definition records, alt-name renames, preloaded external values, the
// resolution stack and the proxy cache. Several loaders can share a process
// and even a VM without interfering.
//
// Each module record moves from unresolved to resolving to resolved exactly
// once. A dependency that ships its export names (it sits on an import cycle
// or completes the surface of one that does) is handed out as a proxy: an
// object with one accessor per export name that resolves the module on first
// read. Every other dependency is resolved before the importing module runs.
package runtime
