package shape

// Stats summarises a tree.
type Stats struct {
	Placements     int // placements across every composite visit
	LeafVisits     int // leaves reached, counting each path separately
	DistinctLeaves int // distinct *Shape values
	Faces          int // faces across all leaf visits
	Depth          int // longest root-to-leaf placement chain
}

// Summarize walks the tree rooted at n. Cycles are cut at the first
// repeated composite on the current path.
func Summarize(n Node) Stats {
	var st Stats
	distinct := make(map[*Shape]bool)
	onPath := make(map[*MultiShape]bool)

	var visit func(n Node, depth int)
	visit = func(n Node, depth int) {
		switch v := n.(type) {
		case *Shape:
			if v == nil {
				return
			}
			st.LeafVisits++
			st.Faces += len(v.Faces)
			distinct[v] = true
			if depth > st.Depth {
				st.Depth = depth
			}
		case *MultiShape:
			if v == nil || onPath[v] {
				return
			}
			onPath[v] = true
			for _, e := range v.Entries() {
				st.Placements++
				visit(e.Child, depth+1)
			}
			delete(onPath, v)
		}
	}

	visit(n, 0)
	st.DistinctLeaves = len(distinct)
	return st
}
