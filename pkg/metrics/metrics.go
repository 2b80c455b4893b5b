// Package metrics computes structural analytics over a weighted graph.
//
// Centralities and path lengths are unweighted and follow the graph's
// directedness. Values that are undefined for the given graph are nil
// rather than zero so callers can tell "not applicable" from a real 0.
package metrics

import (
	"sort"

	"github.com/OFFIS-RIT/letternet/pkg/graph"

	gonum "gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/network"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
	"gonum.org/v1/gonum/graph/traverse"
)

// NodeMetrics holds the per-node centralities.
type NodeMetrics struct {
	Node      graph.Node `json:"node"`
	Degree    int        `json:"degree"`
	InDegree  int        `json:"in_degree"`
	OutDegree int        `json:"out_degree"`
	Strength  int        `json:"strength"`
	// DegreeCentrality is the share of other nodes adjacent to this one.
	DegreeCentrality *float64 `json:"degree_centrality"`
	Betweenness      float64  `json:"betweenness"`
	Closeness        float64  `json:"closeness"`
}

// Result holds graph level metrics and the per-node centralities sorted by
// degree centrality descending.
type Result struct {
	Applicable bool `json:"applicable"`
	Directed   bool `json:"directed"`
	Nodes      int  `json:"nodes"`
	Edges      int  `json:"edges"`

	TotalWeight         int      `json:"total_weight"`
	Density             *float64 `json:"density"`
	ComponentCount      int      `json:"component_count"`
	Connected           bool     `json:"connected"`
	StronglyConnected   *bool    `json:"strongly_connected,omitempty"`
	AverageShortestPath *float64 `json:"average_shortest_path"`

	NodeMetrics []NodeMetrics `json:"node_metrics"`
}

// Top returns the first n node entries; n <= 0 returns all of them.
func (r Result) Top(n int) []NodeMetrics {
	if n <= 0 || n >= len(r.NodeMetrics) {
		return r.NodeMetrics
	}
	return r.NodeMetrics[:n]
}

// indexed maps the nodes of a graph onto gonum node IDs.
type indexed struct {
	nodes []graph.Node
	fwd   gonum.Directed
	rev   gonum.Directed
	und   gonum.Undirected
}

func index(g *graph.Graph) indexed {
	nodes := g.Nodes()
	ids := make(map[graph.Node]int64, len(nodes))
	for i, n := range nodes {
		ids[n] = int64(i)
	}

	if !g.Directed() {
		u := simple.NewUndirectedGraph()
		for i := range nodes {
			u.AddNode(simple.Node(int64(i)))
		}
		for _, e := range g.Edges() {
			u.SetEdge(simple.Edge{F: simple.Node(ids[e.Source]), T: simple.Node(ids[e.Target])})
		}
		return indexed{nodes: nodes, und: u}
	}

	fwd := simple.NewDirectedGraph()
	rev := simple.NewDirectedGraph()
	for i := range nodes {
		fwd.AddNode(simple.Node(int64(i)))
		rev.AddNode(simple.Node(int64(i)))
	}
	for _, e := range g.Edges() {
		s, t := simple.Node(ids[e.Source]), simple.Node(ids[e.Target])
		fwd.SetEdge(simple.Edge{F: s, T: t})
		rev.SetEdge(simple.Edge{F: t, T: s})
	}
	return indexed{nodes: nodes, fwd: fwd, rev: rev, und: gonum.Undirect{G: fwd}}
}

// forward is the graph that shortest paths are walked on.
func (ix indexed) forward() gonum.Graph {
	if ix.fwd != nil {
		return ix.fwd
	}
	return ix.und
}

// backward walks edges against their direction, so a walk from v yields
// the distances of every node to v.
func (ix indexed) backward() gonum.Graph {
	if ix.rev != nil {
		return ix.rev
	}
	return ix.und
}

// distances returns the hop count from id to every reachable node,
// including id itself at 0.
func distances(g traverse.Graph, id int64) map[int64]int {
	dist := make(map[int64]int)
	var bf traverse.BreadthFirst
	bf.Walk(g, simple.Node(id), func(n gonum.Node, d int) bool {
		dist[n.ID()] = d
		return false
	})
	return dist
}

// Compute derives every metric for g. An empty graph yields a Result whose
// Applicable flag is false and whose metrics are all unset.
func Compute(g *graph.Graph) Result {
	res := Result{
		Directed:    g.Directed(),
		Nodes:       g.NodeCount(),
		Edges:       g.EdgeCount(),
		TotalWeight: g.TotalWeight(),
	}
	if g.Empty() {
		return res
	}
	res.Applicable = true

	n := res.Nodes
	ix := index(g)

	if n > 1 {
		possible := float64(n) * float64(n-1)
		if !g.Directed() {
			possible /= 2
		}
		d := float64(res.Edges) / possible
		res.Density = &d
	}

	res.ComponentCount = len(topo.ConnectedComponents(ix.und))
	res.Connected = res.ComponentCount == 1
	reachable := res.Connected
	if g.Directed() {
		strong := len(topo.TarjanSCC(ix.fwd)) == 1
		res.StronglyConnected = &strong
		reachable = strong
	}

	var betweenness map[int64]float64
	if n > 2 {
		betweenness = network.Betweenness(ix.forward())
	}
	// Both directed and undirected Brandes sums count every ordered pair,
	// so one normalization covers both.
	scale := 1.0
	if n > 2 {
		scale = 1 / (float64(n-1) * float64(n-2))
	}

	totalDist := 0
	res.NodeMetrics = make([]NodeMetrics, 0, n)
	for i, node := range ix.nodes {
		id := int64(i)
		m := NodeMetrics{
			Node:        node,
			Degree:      g.Degree(node),
			InDegree:    g.InDegree(node),
			OutDegree:   g.OutDegree(node),
			Strength:    g.Strength(node),
			Betweenness: betweenness[id] * scale,
			Closeness:   closeness(distances(ix.backward(), id), n),
		}
		if n > 1 {
			c := float64(len(g.Neighbors(node))) / float64(n-1)
			m.DegreeCentrality = &c
		}
		if reachable {
			for _, d := range distances(ix.forward(), id) {
				totalDist += d
			}
		}
		res.NodeMetrics = append(res.NodeMetrics, m)
	}

	if reachable {
		avg := 0.0
		if n > 1 {
			avg = float64(totalDist) / (float64(n) * float64(n-1))
		}
		res.AverageShortestPath = &avg
	}

	sort.SliceStable(res.NodeMetrics, func(i, j int) bool {
		a, b := res.NodeMetrics[i].DegreeCentrality, res.NodeMetrics[j].DegreeCentrality
		if a != nil && b != nil && *a != *b {
			return *a > *b
		}
		return res.NodeMetrics[i].Node.Less(res.NodeMetrics[j].Node)
	})
	return res
}

// closeness is the Wasserman-Faust closeness of a node given the distances
// of the nodes that reach it: (r-1)/sum * (r-1)/(n-1) where r counts the
// node itself and everything that reaches it.
func closeness(dist map[int64]int, n int) float64 {
	sum := 0
	for _, d := range dist {
		sum += d
	}
	if sum == 0 || n < 2 {
		return 0
	}
	r := float64(len(dist) - 1)
	return r / float64(sum) * r / float64(n-1)
}
