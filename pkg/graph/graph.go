package graph

import (
	"encoding/json"
	"sort"

	"github.com/OFFIS-RIT/letternet/pkg/common"
)

// Kind tags the role of a node. Bipartite views use it to keep the two node
// partitions apart; a label may exist once per kind.
type Kind string

const (
	KindNone      Kind = ""
	KindPerson    Kind = "person"
	KindPlace     Kind = "place"
	KindCommodity Kind = "commodity"
	KindTopic     Kind = "topic"
)

// Node is a graph vertex. Its identity is the (Kind, Label) pair.
type Node struct {
	Label string `json:"label"`
	Kind  Kind   `json:"kind,omitempty"`
}

// Less orders nodes by kind, then label.
func (n Node) Less(o Node) bool {
	if n.Kind != o.Kind {
		return n.Kind < o.Kind
	}
	return n.Label < o.Label
}

// Edge is a weighted connection. For undirected graphs Source is the
// smaller node of the pair.
type Edge struct {
	Source Node `json:"source"`
	Target Node `json:"target"`
	Weight int  `json:"weight"`
}

type pair struct {
	from Node
	to   Node
}

// Graph is a weighted graph over labelled nodes. Weights count co-occurrence
// events and only ever grow while a graph is being built. The same type
// serves directed and undirected views; directedness is fixed at creation.
//
// A Graph is not safe for concurrent mutation. Extractors build a fresh
// graph per call and hand it off read-only.
type Graph struct {
	directed bool
	nodes    map[Node]struct{}
	weights  map[pair]int
	adj      map[Node]map[Node]struct{}
	radj     map[Node]map[Node]struct{}
}

// New returns an empty graph.
func New(directed bool) *Graph {
	return &Graph{
		directed: directed,
		nodes:    make(map[Node]struct{}),
		weights:  make(map[pair]int),
		adj:      make(map[Node]map[Node]struct{}),
		radj:     make(map[Node]map[Node]struct{}),
	}
}

// Directed reports whether edges are ordered.
func (g *Graph) Directed() bool { return g.directed }

func normalize(n Node) Node {
	n.Label = common.Clean(n.Label)
	return n
}

// AddNode adds n and reports whether it is a valid node. Labels are trimmed;
// empty labels are rejected.
func (g *Graph) AddNode(n Node) bool {
	n = normalize(n)
	if n.Label == "" {
		return false
	}
	g.nodes[n] = struct{}{}
	return true
}

func (g *Graph) key(u, v Node) pair {
	if !g.directed && v.Less(u) {
		u, v = v, u
	}
	return pair{from: u, to: v}
}

// AddWeight accumulates w on the edge u–v (u→v when directed), adding both
// nodes as needed. It reports false, and changes nothing, for empty labels,
// self-loops and non-positive increments.
func (g *Graph) AddWeight(u, v Node, w int) bool {
	u, v = normalize(u), normalize(v)
	if u.Label == "" || v.Label == "" || u == v || w <= 0 {
		return false
	}
	g.nodes[u] = struct{}{}
	g.nodes[v] = struct{}{}

	k := g.key(u, v)
	if _, ok := g.weights[k]; !ok {
		g.link(k.from, k.to)
	}
	g.weights[k] += w
	return true
}

// AddEdge is AddWeight with an increment of one.
func (g *Graph) AddEdge(u, v Node) bool {
	return g.AddWeight(u, v, 1)
}

func (g *Graph) link(u, v Node) {
	if g.adj[u] == nil {
		g.adj[u] = make(map[Node]struct{})
	}
	g.adj[u][v] = struct{}{}
	if g.directed {
		if g.radj[v] == nil {
			g.radj[v] = make(map[Node]struct{})
		}
		g.radj[v][u] = struct{}{}
		return
	}
	if g.adj[v] == nil {
		g.adj[v] = make(map[Node]struct{})
	}
	g.adj[v][u] = struct{}{}
}

// HasNode reports whether n is part of the graph.
func (g *Graph) HasNode(n Node) bool {
	_, ok := g.nodes[normalize(n)]
	return ok
}

// Weight returns the weight of u–v (u→v when directed), 0 if absent.
func (g *Graph) Weight(u, v Node) int {
	return g.weights[g.key(normalize(u), normalize(v))]
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of distinct edges.
func (g *Graph) EdgeCount() int { return len(g.weights) }

// Empty reports whether the graph has no nodes.
func (g *Graph) Empty() bool { return len(g.nodes) == 0 }

// TotalWeight returns the sum of all edge weights.
func (g *Graph) TotalWeight() int {
	total := 0
	for _, w := range g.weights {
		total += w
	}
	return total
}

// MaxWeight returns the largest edge weight, 0 for an edgeless graph.
func (g *Graph) MaxWeight() int {
	max := 0
	for _, w := range g.weights {
		if w > max {
			max = w
		}
	}
	return max
}

// Successors returns the sorted out-neighbours of n. For undirected graphs
// these are all neighbours.
func (g *Graph) Successors(n Node) []Node {
	return sortedNodes(g.adj[normalize(n)])
}

// Predecessors returns the sorted in-neighbours of n. For undirected graphs
// these are all neighbours.
func (g *Graph) Predecessors(n Node) []Node {
	n = normalize(n)
	if !g.directed {
		return sortedNodes(g.adj[n])
	}
	return sortedNodes(g.radj[n])
}

// Neighbors returns the sorted distinct nodes adjacent to n in either
// direction.
func (g *Graph) Neighbors(n Node) []Node {
	n = normalize(n)
	if !g.directed {
		return sortedNodes(g.adj[n])
	}
	set := make(map[Node]struct{}, len(g.adj[n])+len(g.radj[n]))
	for m := range g.adj[n] {
		set[m] = struct{}{}
	}
	for m := range g.radj[n] {
		set[m] = struct{}{}
	}
	return sortedNodes(set)
}

// OutDegree returns the number of edges leaving n.
func (g *Graph) OutDegree(n Node) int {
	return len(g.adj[normalize(n)])
}

// InDegree returns the number of edges entering n.
func (g *Graph) InDegree(n Node) int {
	n = normalize(n)
	if !g.directed {
		return len(g.adj[n])
	}
	return len(g.radj[n])
}

// Degree returns the number of edges incident to n; for directed graphs the
// sum of in- and out-degree.
func (g *Graph) Degree(n Node) int {
	if !g.directed {
		return g.OutDegree(n)
	}
	return g.InDegree(n) + g.OutDegree(n)
}

// Strength returns the summed weight of the edges incident to n.
func (g *Graph) Strength(n Node) int {
	n = normalize(n)
	total := 0
	for m := range g.adj[n] {
		total += g.weights[g.key(n, m)]
	}
	if g.directed {
		for m := range g.radj[n] {
			total += g.weights[g.key(m, n)]
		}
	}
	return total
}

// Nodes returns all nodes ordered by kind, then label.
func (g *Graph) Nodes() []Node {
	return sortedNodes(g.nodes)
}

// NodesOfKind returns the sorted nodes tagged with kind.
func (g *Graph) NodesOfKind(kind Kind) []Node {
	var out []Node
	for _, n := range g.Nodes() {
		if n.Kind == kind {
			out = append(out, n)
		}
	}
	return out
}

// Edges returns all edges ordered by source, then target.
func (g *Graph) Edges() []Edge {
	out := make([]Edge, 0, len(g.weights))
	for k, w := range g.weights {
		out = append(out, Edge{Source: k.from, Target: k.to, Weight: w})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Source != out[j].Source {
			return out[i].Source.Less(out[j].Source)
		}
		return out[i].Target.Less(out[j].Target)
	})
	return out
}

// TopEdges returns the n heaviest edges, ties broken by edge order. A
// non-positive n returns every edge.
func (g *Graph) TopEdges(n int) []Edge {
	edges := g.Edges()
	sort.SliceStable(edges, func(i, j int) bool {
		return edges[i].Weight > edges[j].Weight
	})
	if n > 0 && n < len(edges) {
		edges = edges[:n]
	}
	return edges
}

// IsBipartite reports whether every edge joins a node of kind a with a node
// of kind b and no node has any other kind.
func (g *Graph) IsBipartite(a, b Kind) bool {
	for n := range g.nodes {
		if n.Kind != a && n.Kind != b {
			return false
		}
	}
	for k := range g.weights {
		if k.from.Kind == k.to.Kind {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of g.
func (g *Graph) Clone() *Graph {
	c := New(g.directed)
	for n := range g.nodes {
		c.nodes[n] = struct{}{}
	}
	for k, w := range g.weights {
		c.weights[k] = w
		c.link(k.from, k.to)
	}
	return c
}

// Equal reports whether g and o have the same directedness, nodes and
// weighted edges.
func (g *Graph) Equal(o *Graph) bool {
	if g == nil || o == nil {
		return g == o
	}
	if g.directed != o.directed || len(g.nodes) != len(o.nodes) || len(g.weights) != len(o.weights) {
		return false
	}
	for n := range g.nodes {
		if _, ok := o.nodes[n]; !ok {
			return false
		}
	}
	for k, w := range g.weights {
		if o.weights[k] != w {
			return false
		}
	}
	return true
}

type graphJSON struct {
	Directed bool   `json:"directed"`
	Nodes    []Node `json:"nodes"`
	Edges    []Edge `json:"edges"`
}

// MarshalJSON encodes the graph as sorted node and edge lists.
func (g *Graph) MarshalJSON() ([]byte, error) {
	return json.Marshal(graphJSON{
		Directed: g.directed,
		Nodes:    g.Nodes(),
		Edges:    g.Edges(),
	})
}

// UnmarshalJSON decodes the format written by MarshalJSON.
func (g *Graph) UnmarshalJSON(data []byte) error {
	var raw graphJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*g = *New(raw.Directed)
	for _, n := range raw.Nodes {
		g.AddNode(n)
	}
	for _, e := range raw.Edges {
		g.AddWeight(e.Source, e.Target, e.Weight)
	}
	return nil
}

func sortedNodes(set map[Node]struct{}) []Node {
	out := make([]Node, 0, len(set))
	for n := range set {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}
