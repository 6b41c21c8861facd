package graph

import "sort"

// Set is a set of node names.
type Set map[string]struct{}

// Has reports whether name is a member of the set.
func (s Set) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// Sorted returns the members of the set in ascending order.
func (s Set) Sorted() []string {
	out := make([]string, 0, len(s))
	for name := range s {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// FindCycles returns the set of nodes that participate in at least one cycle
// of the directed graph described by edges. Edges pointing at nodes that are
// not keys of the map are ignored, and repeated edges count once.
func FindCycles(edges map[string][]string) Set {
	out := make(map[string]Set, len(edges))
	in := make(map[string]Set, len(edges))
	for name := range edges {
		out[name] = Set{}
		in[name] = Set{}
	}

	for from, targets := range edges {
		for _, to := range targets {
			if _, known := edges[to]; !known {
				continue
			}
			out[from][to] = struct{}{}
			in[to][from] = struct{}{}
		}
	}

	inDegree := make(map[string]int, len(edges))
	outDegree := make(map[string]int, len(edges))
	var queue []string
	for name := range edges {
		inDegree[name] = len(in[name])
		outDegree[name] = len(out[name])
		if inDegree[name] == 0 || outDegree[name] == 0 {
			queue = append(queue, name)
		}
	}

	removed := make(Set, len(edges))
	for len(queue) > 0 {
		name := queue[len(queue)-1]
		queue = queue[:len(queue)-1]
		if removed.Has(name) {
			continue
		}
		removed[name] = struct{}{}

		for to := range out[name] {
			if removed.Has(to) {
				continue
			}
			inDegree[to]--
			if inDegree[to] == 0 {
				queue = append(queue, to)
			}
		}
		for from := range in[name] {
			if removed.Has(from) {
				continue
			}
			outDegree[from]--
			if outDegree[from] == 0 {
				queue = append(queue, from)
			}
		}
	}

	cycles := make(Set, len(edges)-len(removed))
	for name := range edges {
		if !removed.Has(name) {
			cycles[name] = struct{}{}
		}
	}
	return cycles
}
