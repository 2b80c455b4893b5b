// Package analysis runs the extract, filter and metrics pipeline for one
// view over an immutable record set.
package analysis

import (
	"context"
	"fmt"
	"time"

	"github.com/OFFIS-RIT/letternet/pkg/common"
	"github.com/OFFIS-RIT/letternet/pkg/dates"
	"github.com/OFFIS-RIT/letternet/pkg/graph"
	"github.com/OFFIS-RIT/letternet/pkg/logger"
	"github.com/OFFIS-RIT/letternet/pkg/metrics"
	"github.com/OFFIS-RIT/letternet/pkg/views"

	"golang.org/x/sync/errgroup"
)

// Size is the node and edge count of a graph.
type Size struct {
	Nodes int `json:"nodes"`
	Edges int `json:"edges"`
}

// TimelineReport is the time-series summary attached to temporal results.
type TimelineReport struct {
	Range     *views.DateRange      `json:"range"`
	Letters   int                   `json:"letters"`
	Skipped   int                   `json:"skipped"`
	GroupBy   dates.Granularity     `json:"group_by"`
	Groups    []views.PeriodCount   `json:"groups"`
	Evolution []views.PeriodMetrics `json:"evolution"`
	TopPairs  []views.PairCount     `json:"top_pairs"`
}

// NewTimelineReport summarizes tl at granularity g with the top n pairs.
func NewTimelineReport(tl views.Timeline, g dates.Granularity, n int) TimelineReport {
	return TimelineReport{
		Range:     tl.Range,
		Letters:   len(tl.Letters),
		Skipped:   tl.Skipped,
		GroupBy:   g,
		Groups:    tl.Group(g),
		Evolution: tl.Evolution(g),
		TopPairs:  tl.TopPairs(n),
	}
}

// Result is the outcome of one pipeline run. Only the auxiliary fields of
// the requested view are set.
type Result struct {
	View      views.Name     `json:"view"`
	Version   string         `json:"version"`
	Config    Config         `json:"config"`
	Extracted Size           `json:"extracted"`
	Graph     *graph.Graph   `json:"graph"`
	Metrics   metrics.Result `json:"metrics"`

	PlaceInfo   []views.PlaceInfo     `json:"place_info,omitempty"`
	Coordinates []views.Coordinate    `json:"coordinates,omitempty"`
	Commodities []views.CommodityFlow `json:"commodities,omitempty"`
	Places      []views.PlaceFlow     `json:"places,omitempty"`
	Topics      []common.Count        `json:"topics,omitempty"`
	Window      *views.Window         `json:"window,omitempty"`
	Timeline    *TimelineReport       `json:"timeline,omitempty"`
}

// Empty reports whether the filtered graph has no nodes. An empty result
// is valid output meaning there is not enough data for the view.
func (r *Result) Empty() bool {
	return r.Graph == nil || r.Graph.Empty()
}

// Run validates req and computes it over set. Configuration errors are
// returned before any extraction starts.
func Run(ctx context.Context, set *common.RecordSet, req Request) (*Result, error) {
	p, err := req.plan()
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return execute(set, p), nil
}

func execute(set *common.RecordSet, p plan) *Result {
	start := time.Now()
	records := set.Records()
	res := &Result{View: p.view, Version: set.Version(), Config: p.cfg}

	var extracted *graph.Graph
	switch p.view {
	case views.CorrespondentsView:
		extracted = views.Correspondents(records)
	case views.GeographicView:
		geo := views.Geographic(records)
		extracted = geo.Graph
		res.PlaceInfo = geo.PlaceInfo
		res.Coordinates = geo.Coordinates
	case views.CommoditiesView:
		com := views.Commodities(records)
		extracted = com.Graph
		res.Commodities = com.Commodities
		res.Places = com.Places
	case views.TopicsView:
		top := views.Topics(records)
		extracted = top.Graph
		res.Topics = top.Frequency
	case views.TemporalView:
		tmp := views.Temporal(records, views.TemporalOptions{
			Reference: p.reference,
			WidthDays: p.cfg.WindowWidthDays,
		})
		extracted = tmp.Graph
		res.Window = &tmp.Window
		report := NewTimelineReport(tmp.Timeline, p.granularity, p.cfg.TopPairs)
		res.Timeline = &report
	}

	res.Extracted = Size{Nodes: extracted.NodeCount(), Edges: extracted.EdgeCount()}
	res.Graph = graph.Filter(extracted, p.filter)
	res.Metrics = metrics.Compute(res.Graph)

	logger.Debug("[Analysis] View computed",
		"view", p.view,
		"version", set.Version(),
		"nodes", res.Graph.NodeCount(),
		"edges", res.Graph.EdgeCount(),
		"duration", time.Since(start),
	)
	return res
}

// RunAll computes several requests over the same record set with at most
// limit running at once; limit <= 0 means no bound. Every request is
// validated before the first one starts, and results keep request order.
func RunAll(ctx context.Context, set *common.RecordSet, reqs []Request, limit int) ([]*Result, error) {
	plans := make([]plan, len(reqs))
	for i, req := range reqs {
		p, err := req.plan()
		if err != nil {
			return nil, fmt.Errorf("request %d: %w", i, err)
		}
		plans[i] = p
	}

	results := make([]*Result, len(plans))
	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, p := range plans {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = execute(set, p)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
