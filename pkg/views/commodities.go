package views

import (
	"sort"

	"github.com/OFFIS-RIT/letternet/pkg/common"
	"github.com/OFFIS-RIT/letternet/pkg/graph"
)

// CommodityFlow summarizes where one commodity is traded.
type CommodityFlow struct {
	Commodity   string `json:"commodity"`
	Places      int    `json:"places"`
	TotalWeight int    `json:"total_weight"`
}

// PlaceFlow summarizes which commodities pass through one place.
type PlaceFlow struct {
	Place       string `json:"place"`
	Commodities int    `json:"commodities"`
	TotalWeight int    `json:"total_weight"`
}

// CommodityResult is the output of the commodity-place view.
type CommodityResult struct {
	Graph       *graph.Graph    `json:"graph"`
	Commodities []CommodityFlow `json:"commodities"`
	Places      []PlaceFlow     `json:"places"`
}

// Commodities builds the bipartite keyword x place graph. A record with C
// distinct keywords and P distinct places adds 1 to each of the C*P
// commodity-place pairs. Commodity and place nodes carry different kinds,
// so a label used both ways still yields two nodes.
func Commodities(records []common.Record) CommodityResult {
	g := graph.New(false)
	for _, r := range records {
		commodities := common.CleanSet(r.Keywords)
		places := r.Places()
		for _, c := range commodities {
			for _, p := range places {
				g.AddEdge(
					graph.Node{Label: c, Kind: graph.KindCommodity},
					graph.Node{Label: p, Kind: graph.KindPlace},
				)
			}
		}
	}

	return CommodityResult{
		Graph:       g,
		Commodities: commodityFlows(g),
		Places:      placeFlows(g),
	}
}

func commodityFlows(g *graph.Graph) []CommodityFlow {
	nodes := g.NodesOfKind(graph.KindCommodity)
	out := make([]CommodityFlow, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, CommodityFlow{
			Commodity:   n.Label,
			Places:      g.Degree(n),
			TotalWeight: g.Strength(n),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Places != out[j].Places {
			return out[i].Places > out[j].Places
		}
		return out[i].TotalWeight > out[j].TotalWeight
	})
	return out
}

func placeFlows(g *graph.Graph) []PlaceFlow {
	nodes := g.NodesOfKind(graph.KindPlace)
	out := make([]PlaceFlow, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, PlaceFlow{
			Place:       n.Label,
			Commodities: g.Degree(n),
			TotalWeight: g.Strength(n),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Commodities != out[j].Commodities {
			return out[i].Commodities > out[j].Commodities
		}
		return out[i].TotalWeight > out[j].TotalWeight
	})
	return out
}
