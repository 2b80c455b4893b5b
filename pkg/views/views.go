// Package views derives weighted graphs from correspondence records.
//
// Each view is an independent, pure function of the record slice and its
// own configuration: it allocates a fresh graph, reads the records, and
// never keeps state between calls. Records that lack the fields a view
// needs are skipped, never reported as errors.
//
//   - Correspondents: directed sender -> addressee letters.
//   - Geographic:     undirected co-mention of places within one letter.
//   - Commodities:    bipartite keyword (commodity) x place co-occurrence.
//   - Topics:         undirected co-occurrence of topics and keywords.
//   - Temporal:       directed letters restricted to a date window.
package views

// Name identifies a view.
type Name string

const (
	CorrespondentsView Name = "correspondents"
	GeographicView     Name = "geographic"
	CommoditiesView    Name = "commodities"
	TopicsView         Name = "topics"
	TemporalView       Name = "temporal"
)

// All lists every view in presentation order.
var All = []Name{CorrespondentsView, GeographicView, CommoditiesView, TopicsView, TemporalView}

// Directed reports whether the view produces a directed graph.
func (n Name) Directed() bool {
	return n == CorrespondentsView || n == TemporalView
}

// Valid reports whether n names a known view.
func (n Name) Valid() bool {
	for _, v := range All {
		if v == n {
			return true
		}
	}
	return false
}
