// Package app contains the core application logic. It defines the main App
// struct, its configuration, and the build and run lifecycle, decoupled from
// any specific entrypoint like a CLI.
//
// A build reads the module manifests of one bundle, plans it, encodes it and
// writes the bundle text. A run additionally reads the written text back and
// executes it on an in-process JavaScript VM.
package app
