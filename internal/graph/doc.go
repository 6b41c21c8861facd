// Package graph holds the pure graph algorithms used while planning a bundle.
//
// The main entry point is FindCycles, which takes a directed graph expressed
// as an adjacency map (node -> list of target nodes) and returns every node
// that lies on at least one cycle.
//
// # Algorithm
//
// FindCycles prunes the graph instead of enumerating cycles:
//
//  1. In/out adjacency sets and degree counters are built, ignoring edges
//     whose target is not itself a key of the map.
//  2. Every node with a zero in-degree or a zero out-degree is queued for
//     deletion.
//  3. Deleting a node decrements the matching degree of each of its
//     neighbours; a neighbour whose degree drops to zero is queued as well.
//  4. Whatever survives is a cycle member.
//
// A node nothing reaches, or that reaches nothing, cannot be on a cycle, so
// the pruning never removes a cycle member. The walk uses an explicit queue
// and runs in O(V+E).
//
// Self-loops are single-node cycles. A self-loop contributes one to both
// degrees of its node and is never decremented by a neighbour, so such a node
// always survives the pruning.
package graph
