package views

import (
	"sort"

	"github.com/OFFIS-RIT/letternet/pkg/common"
	"github.com/OFFIS-RIT/letternet/pkg/graph"
)

// TopicResult is the output of the topic co-occurrence view.
type TopicResult struct {
	Graph *graph.Graph `json:"graph"`
	// Frequency counts, per topic, the records whose topic set contains it.
	Frequency []common.Count `json:"frequency"`
}

// Topics links topics and keywords that appear in the same letter. The
// union of main topics and keywords forms one set per record; each
// unordered pair in it gains 1, so a set of N topics adds N(N-1)/2.
func Topics(records []common.Record) TopicResult {
	g := graph.New(false)
	freq := make(map[string]int)

	for _, r := range records {
		topics := common.CleanSet(r.MainTopics, r.Keywords)
		sort.Strings(topics)
		for i, a := range topics {
			freq[a]++
			g.AddNode(graph.Node{Label: a, Kind: graph.KindTopic})
			for _, b := range topics[i+1:] {
				g.AddEdge(
					graph.Node{Label: a, Kind: graph.KindTopic},
					graph.Node{Label: b, Kind: graph.KindTopic},
				)
			}
		}
	}

	return TopicResult{Graph: g, Frequency: common.SortCounts(freq)}
}
