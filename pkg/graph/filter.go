package graph

// FilterOptions holds the thresholds applied by Filter.
//
// MinEdgeWeight drops lighter edges, MinNodeDegree drops nodes with fewer
// incident edges, and KeepIsolates retains nodes left without edges.
type FilterOptions struct {
	MinEdgeWeight int
	MinNodeDegree int
	KeepIsolates  bool
}

// Filter returns a new graph without the edges and nodes that fall below
// the thresholds in opts; g is not modified.
//
// Edges lighter than MinEdgeWeight go first. Nodes whose degree on the
// remaining edges is below MinNodeDegree are then removed together with
// their edges, repeated until every remaining node satisfies the threshold.
// Finally nodes without edges are dropped unless KeepIsolates is set.
//
// Because the node pass runs to a fixpoint, filtering a filtered graph with
// the same options returns an equal graph, and raising a threshold never
// adds nodes or edges.
func Filter(g *Graph, opts FilterOptions) *Graph {
	edges := make(map[pair]int, len(g.weights))
	for k, w := range g.weights {
		if w >= opts.MinEdgeWeight {
			edges[k] = w
		}
	}

	alive := make(map[Node]struct{}, len(g.nodes))
	for n := range g.nodes {
		alive[n] = struct{}{}
	}

	for {
		degree := make(map[Node]int, len(alive))
		for k := range edges {
			degree[k.from]++
			degree[k.to]++
		}

		removed := false
		for n := range alive {
			if degree[n] < opts.MinNodeDegree {
				delete(alive, n)
				removed = true
			}
		}
		if !removed {
			break
		}
		for k := range edges {
			_, fromOK := alive[k.from]
			_, toOK := alive[k.to]
			if !fromOK || !toOK {
				delete(edges, k)
			}
		}
	}

	out := New(g.directed)
	for k, w := range edges {
		out.weights[k] = w
		out.nodes[k.from] = struct{}{}
		out.nodes[k.to] = struct{}{}
		out.link(k.from, k.to)
	}
	if opts.KeepIsolates {
		for n := range alive {
			out.nodes[n] = struct{}{}
		}
	}
	return out
}
