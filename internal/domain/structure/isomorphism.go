package structure

import "sort"

// graphView is the comparison form of a Molecule or Group: one opaque key per
// atom and one opaque key per bond.
type graphView struct {
	keys  []string
	edges []map[int]string
}

func newGraphView(n int) graphView {
	g := graphView{keys: make([]string, n), edges: make([]map[int]string, n)}
	for i := range g.edges {
		g.edges[i] = make(map[int]string)
	}
	return g
}

func (g graphView) connect(a, b int, key string) {
	g.edges[a][b] = key
	g.edges[b][a] = key
}

// isomorphic runs a plain backtracking search.  Structures shown on the site
// are small, so candidates are only pruned on atom key and degree.
func isomorphic(a, b graphView) bool {
	n := len(a.keys)
	if n != len(b.keys) {
		return false
	}
	if !sameMultiset(a.keys, b.keys) {
		return false
	}

	// Visit the most constrained atoms first.
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return len(a.edges[order[i]]) > len(a.edges[order[j]])
	})

	mapping := make([]int, n)
	used := make([]bool, n)
	for i := range mapping {
		mapping[i] = -1
	}

	var match func(depth int) bool
	match = func(depth int) bool {
		if depth == n {
			return true
		}
		i := order[depth]
		for j := 0; j < n; j++ {
			if used[j] || a.keys[i] != b.keys[j] || len(a.edges[i]) != len(b.edges[j]) {
				continue
			}
			if !consistent(a, b, mapping, i, j) {
				continue
			}
			mapping[i], used[j] = j, true
			if match(depth + 1) {
				return true
			}
			mapping[i], used[j] = -1, false
		}
		return false
	}
	return match(0)
}

// consistent checks that mapping i to j preserves every bond between i and an
// already mapped atom, including the absence of one.
func consistent(a, b graphView, mapping []int, i, j int) bool {
	for k, mk := range mapping {
		if mk < 0 {
			continue
		}
		ka, okA := a.edges[i][k]
		kb, okB := b.edges[j][mk]
		if okA != okB || ka != kb {
			return false
		}
	}
	return true
}

func sameMultiset(a, b []string) bool {
	counts := make(map[string]int, len(a))
	for _, k := range a {
		counts[k]++
	}
	for _, k := range b {
		counts[k]--
		if counts[k] < 0 {
			return false
		}
	}
	return true
}
