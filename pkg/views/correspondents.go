package views

import (
	"github.com/OFFIS-RIT/letternet/pkg/common"
	"github.com/OFFIS-RIT/letternet/pkg/graph"
)

// Correspondents builds the directed who-writes-to-whom network. Every
// record naming both a sender and an addressee adds one to the edge
// sender -> addressee. A letter addressed to its own sender would be a
// self-loop and is not counted.
func Correspondents(records []common.Record) *graph.Graph {
	g := graph.New(true)
	for _, r := range records {
		if !r.HasParties() {
			continue
		}
		g.AddEdge(
			graph.Node{Label: r.Sender(), Kind: graph.KindPerson},
			graph.Node{Label: r.Addressee(), Kind: graph.KindPerson},
		)
	}
	return g
}
