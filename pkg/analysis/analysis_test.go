package analysis

import (
	"context"
	"errors"
	"testing"

	"github.com/OFFIS-RIT/letternet/pkg/common"
	"github.com/OFFIS-RIT/letternet/pkg/graph"
	"github.com/OFFIS-RIT/letternet/pkg/views"
)

func fixture() *common.RecordSet {
	return common.NewRecordSetWithVersion("v1", "test", []common.Record{
		{
			Shelfmark: "1", SenderName: "X", AddresseeName: "Y", SenderDate: "01.01.1800",
			SenderPlace: "Ragusa", AddresseePlace: "Venice",
			MainTopics: []string{"Trade"}, Keywords: []string{"Salt", "Wine"},
		},
		{
			Shelfmark: "2", SenderName: "X", AddresseeName: "Y", SenderDate: "15.01.1800",
			SenderPlace: "Ragusa", AddresseePlace: "Venice",
			Keywords: []string{"Salt"},
		},
		{
			Shelfmark: "3", SenderName: "Y", AddresseeName: "X", SenderDate: "10.02.1800",
			SenderPlace: "Venice", AddresseePlace: "Ragusa",
			MentionedPlaces: []common.Place{{Name: "Zara"}},
		},
		{Shelfmark: "4", SenderName: "Y", AddresseeName: "Z", SenderDate: "yesterday"},
	})
}

func request(view views.Name, mutate func(*Config)) Request {
	cfg := DefaultConfig()
	if mutate != nil {
		mutate(&cfg)
	}
	return Request{View: view, Config: cfg}
}

func TestValidateRejectsBadConfiguration(t *testing.T) {
	tests := []struct {
		name    string
		req     Request
		wantErr error
	}{
		{"unknown view", Request{View: "layout", Config: DefaultConfig()}, ErrUnknownView},
		{"zero min weight", request(views.CorrespondentsView, func(c *Config) { c.MinEdgeWeight = 0 }), ErrInvalidConfiguration},
		{"negative degree", request(views.TopicsView, func(c *Config) { c.MinNodeDegree = -1 }), ErrInvalidConfiguration},
		{"bad group by", request(views.TemporalView, func(c *Config) { c.GroupBy = "week" }), ErrInvalidConfiguration},
		{"zero width", request(views.TemporalView, func(c *Config) { c.WindowWidthDays = 0 }), ErrInvalidConfiguration},
		{"negative width", request(views.TemporalView, func(c *Config) { c.WindowWidthDays = -5 }), ErrInvalidConfiguration},
		{"bad reference", request(views.TemporalView, func(c *Config) { c.WindowReference = "yesterday" }), ErrInvalidConfiguration},
		{"negative top pairs", request(views.TemporalView, func(c *Config) { c.TopPairs = -1 }), ErrInvalidConfiguration},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Validate() error = %v, want %v", err, tt.wantErr)
			}
			if _, err := Run(context.Background(), fixture(), tt.req); !errors.Is(err, tt.wantErr) {
				t.Fatalf("Run() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateAcceptsDefaults(t *testing.T) {
	for _, v := range views.All {
		if err := request(v, nil).Validate(); err != nil {
			t.Errorf("%s: Validate() error = %v", v, err)
		}
	}
	// Width only matters for the temporal view.
	if err := request(views.GeographicView, func(c *Config) { c.WindowWidthDays = 0 }).Validate(); err != nil {
		t.Fatalf("non-temporal view rejected zero width: %v", err)
	}
}

func TestRunCorrespondents(t *testing.T) {
	res, err := Run(context.Background(), fixture(), request(views.CorrespondentsView, nil))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if res.Version != "v1" || res.Empty() {
		t.Fatalf("unexpected result: %+v", res)
	}
	if res.Graph.TotalWeight() != 4 {
		t.Fatalf("TotalWeight() = %d, want 4", res.Graph.TotalWeight())
	}
	if !res.Metrics.Applicable || res.Metrics.Nodes != 3 {
		t.Fatalf("metrics = %+v", res.Metrics)
	}
	if res.PlaceInfo != nil || res.Timeline != nil {
		t.Fatal("auxiliary data of other views set")
	}
}

func TestRunFiltersBeforeMetrics(t *testing.T) {
	res, err := Run(context.Background(), fixture(), request(views.CorrespondentsView, func(c *Config) { c.MinEdgeWeight = 2 }))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if res.Extracted.Edges != 3 || res.Graph.EdgeCount() != 1 || res.Metrics.Edges != 1 {
		t.Fatalf("extracted=%+v filtered=%d metrics=%d", res.Extracted, res.Graph.EdgeCount(), res.Metrics.Edges)
	}
}

func TestRunEmptyIsNotAnError(t *testing.T) {
	res, err := Run(context.Background(), fixture(), request(views.CorrespondentsView, func(c *Config) { c.MinEdgeWeight = 100 }))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !res.Empty() || res.Metrics.Applicable {
		t.Fatalf("expected an empty, not applicable result: %+v", res.Metrics)
	}
}

func TestRunAuxiliaryData(t *testing.T) {
	ctx := context.Background()
	set := fixture()

	geo, err := Run(ctx, set, request(views.GeographicView, nil))
	if err != nil {
		t.Fatal(err)
	}
	if len(geo.PlaceInfo) != 3 || geo.PlaceInfo[0].Place != "Ragusa" {
		t.Fatalf("PlaceInfo = %+v", geo.PlaceInfo)
	}

	com, err := Run(ctx, set, request(views.CommoditiesView, nil))
	if err != nil {
		t.Fatal(err)
	}
	if !com.Graph.IsBipartite(graph.KindCommodity, graph.KindPlace) || len(com.Commodities) != 2 {
		t.Fatalf("commodities = %+v", com.Commodities)
	}

	top, err := Run(ctx, set, request(views.TopicsView, nil))
	if err != nil {
		t.Fatal(err)
	}
	if len(top.Topics) != 3 || top.Topics[0].Label != "Salt" || top.Topics[0].Count != 2 {
		t.Fatalf("topics = %+v", top.Topics)
	}
}

func TestRunTemporal(t *testing.T) {
	res, err := Run(context.Background(), fixture(), request(views.TemporalView, func(c *Config) {
		c.WindowReference = "10.01.1800"
		c.WindowWidthDays = 20
	}))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	x := graph.Node{Label: "X", Kind: graph.KindPerson}
	y := graph.Node{Label: "Y", Kind: graph.KindPerson}
	if res.Graph.EdgeCount() != 1 || res.Graph.Weight(x, y) != 2 {
		t.Fatalf("temporal graph = %+v", res.Graph.Edges())
	}
	tl := res.Timeline
	if tl == nil || tl.Letters != 3 || tl.Skipped != 1 || tl.Range.SpanDays != 40 {
		t.Fatalf("timeline = %+v", tl)
	}
	if len(tl.Groups) != 2 || tl.Groups[0].Count != 2 {
		t.Fatalf("groups = %+v", tl.Groups)
	}
	if res.Window == nil || len(res.Window.Letters) != 2 {
		t.Fatalf("window = %+v", res.Window)
	}
}

func TestRunAllKeepsOrder(t *testing.T) {
	var reqs []Request
	for _, v := range views.All {
		reqs = append(reqs, request(v, nil))
	}
	results, err := RunAll(context.Background(), fixture(), reqs, 2)
	if err != nil {
		t.Fatalf("RunAll() error = %v", err)
	}
	for i, res := range results {
		if res.View != reqs[i].View {
			t.Fatalf("result %d is %s, want %s", i, res.View, reqs[i].View)
		}
	}
}

func TestRunAllRejectsWholesale(t *testing.T) {
	reqs := []Request{
		request(views.CorrespondentsView, nil),
		request(views.TemporalView, func(c *Config) { c.WindowWidthDays = 0 }),
	}
	results, err := RunAll(context.Background(), fixture(), reqs, 0)
	if !errors.Is(err, ErrInvalidConfiguration) || results != nil {
		t.Fatalf("RunAll() = %v, %v", results, err)
	}
}

func TestRunHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Run(ctx, fixture(), request(views.TopicsView, nil)); !errors.Is(err, context.Canceled) {
		t.Fatalf("Run() error = %v, want context.Canceled", err)
	}
	if _, err := RunAll(ctx, fixture(), []Request{request(views.TopicsView, nil)}, 1); !errors.Is(err, context.Canceled) {
		t.Fatalf("RunAll() error = %v, want context.Canceled", err)
	}
}

func TestCacheKey(t *testing.T) {
	a := request(views.GeographicView, nil)
	b := request(views.GeographicView, func(c *Config) { c.WindowWidthDays = 7 })
	if a.CacheKey() != b.CacheKey() {
		t.Fatal("window settings must not affect non-temporal keys")
	}
	c := request(views.TemporalView, nil)
	d := request(views.TemporalView, func(c *Config) { c.WindowWidthDays = 7 })
	if c.CacheKey() == d.CacheKey() {
		t.Fatal("window width must affect temporal keys")
	}
	if a.CacheKey() == request(views.GeographicView, func(c *Config) { c.MinEdgeWeight = 2 }).CacheKey() {
		t.Fatal("filter thresholds must affect keys")
	}
}
