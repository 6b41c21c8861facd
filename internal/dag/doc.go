// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package dag plans the content of a bundle from the module registry.
//
// Order walks the dependency graph from an entry module and produces:
//
//   - Included: every bundled module reachable from the entry, sorted so that
//     identical input always yields an identical bundle.
//   - Absent: names referenced as dependencies that the registry does not
//     know. They are external modules that the host supplies at launch.
//   - NeedsFullMetadata: modules whose export names must travel with the
//     bundle, because the runtime hands out lazy proxies for them instead of
//     resolving them eagerly.
//
// Ordinary import cycles are allowed; the runtime breaks them with proxies.
// Cycles through export-star references are not, and Order rejects them with a
// ReexportCycleError that names the full chain.
package dag
