// Package bundle serializes a planned module set into bundle text and reads it
// back.
//
// A bundle is one JavaScript expression statement:
//
//	(<LoaderSource>)(
//	[<definition tuples>],
//	{<launch parameters>},eval);
//
// Every definition tuple takes the smallest shape that carries its data:
//
//	[name, code]                   no dependencies, no metadata
//	[name, deps, code]             dependencies, no metadata
//	[name, deps, metadata, code]   metadata present
//
// Encoding is deterministic: the same registry, plan and parameters always
// produce byte-identical text.
package bundle
