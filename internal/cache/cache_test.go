package cache

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/OFFIS-RIT/letternet/internal/telemetry"
	"github.com/OFFIS-RIT/letternet/pkg/analysis"
	"github.com/OFFIS-RIT/letternet/pkg/common"
	"github.com/OFFIS-RIT/letternet/pkg/views"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func recordSet(version string) *common.RecordSet {
	return common.NewRecordSetWithVersion(version, "test", []common.Record{
		{SenderName: "X", AddresseeName: "Y", SenderDate: "1800-01-01", Keywords: []string{"Salt", "Wine"}},
		{SenderName: "Y", AddresseeName: "X", SenderDate: "1800-02-01"},
	})
}

func request(view views.Name) analysis.Request {
	return analysis.Request{View: view, Config: analysis.DefaultConfig()}
}

func TestRunCachesPerVersion(t *testing.T) {
	m := telemetry.New()
	c, err := New(8, m)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	v1 := recordSet("v1")

	first, hit, err := c.Run(ctx, v1, request(views.CorrespondentsView))
	if err != nil || hit {
		t.Fatalf("first Run() hit=%v err=%v", hit, err)
	}
	second, hit, err := c.Run(ctx, v1, request(views.CorrespondentsView))
	if err != nil || !hit || second != first {
		t.Fatalf("second Run() hit=%v same=%v err=%v", hit, second == first, err)
	}

	other, hit, err := c.Run(ctx, recordSet("v2"), request(views.CorrespondentsView))
	if err != nil || hit || other == first {
		t.Fatalf("new version served from cache: hit=%v err=%v", hit, err)
	}
	if other.Version != "v2" {
		t.Fatalf("result version = %q", other.Version)
	}

	if got := testutil.ToFloat64(m.CacheLookups.WithLabelValues("hit")); got != 1 {
		t.Fatalf("cache hits = %v", got)
	}
	if got := testutil.ToFloat64(m.ViewRequests.WithLabelValues("correspondents", telemetry.OutcomeOK)); got != 2 {
		t.Fatalf("computations = %v", got)
	}
}

func TestRunDistinguishesConfig(t *testing.T) {
	c, _ := New(8, nil)
	set := recordSet("v1")
	a, _, _ := c.Run(context.Background(), set, request(views.CorrespondentsView))

	req := request(views.CorrespondentsView)
	req.Config.MinEdgeWeight = 5
	b, hit, err := c.Run(context.Background(), set, req)
	if err != nil || hit || a == b {
		t.Fatalf("different config served from cache: hit=%v err=%v", hit, err)
	}
	if !b.Empty() {
		t.Fatal("expected an empty graph above the maximum weight")
	}
	if c.Len() != 2 {
		t.Fatalf("Len() = %d", c.Len())
	}
}

func TestRunDoesNotCacheErrors(t *testing.T) {
	m := telemetry.New()
	c, _ := New(8, m)
	_, _, err := c.Run(context.Background(), recordSet("v1"), request("layout"))
	if !errors.Is(err, analysis.ErrUnknownView) {
		t.Fatalf("expected ErrUnknownView, got %v", err)
	}
	if c.Len() != 0 {
		t.Fatalf("error result cached, Len() = %d", c.Len())
	}
	if got := testutil.ToFloat64(m.ViewRequests.WithLabelValues("layout", telemetry.OutcomeInvalid)); got != 1 {
		t.Fatalf("invalid requests = %v", got)
	}
}

func TestRunConcurrentIdenticalRequests(t *testing.T) {
	c, _ := New(8, nil)
	set := recordSet("v1")

	const n = 16
	results := make([]*analysis.Result, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, _, err := c.Run(context.Background(), set, request(views.TopicsView))
			if err != nil {
				t.Error(err)
				return
			}
			results[i] = res
		}()
	}
	wg.Wait()

	for i := 1; i < n; i++ {
		if results[i] != results[0] {
			t.Fatalf("request %d computed a separate result", i)
		}
	}
	if c.Len() != 1 {
		t.Fatalf("Len() = %d", c.Len())
	}
}

func TestRunAll(t *testing.T) {
	c, _ := New(8, nil)
	set := recordSet("v1")
	reqs := []analysis.Request{request(views.TopicsView), request(views.CorrespondentsView), request(views.TemporalView)}

	results, err := c.RunAll(context.Background(), set, reqs, 2)
	if err != nil {
		t.Fatalf("RunAll() error = %v", err)
	}
	for i, res := range results {
		if res.View != reqs[i].View {
			t.Fatalf("result %d is %s, want %s", i, res.View, reqs[i].View)
		}
	}

	bad := append(reqs, request("layout"))
	c.Purge()
	if _, err := c.RunAll(context.Background(), set, bad, 2); !errors.Is(err, analysis.ErrUnknownView) {
		t.Fatalf("expected ErrUnknownView, got %v", err)
	}
	if c.Len() != 0 {
		t.Fatal("a rejected batch computed results")
	}
}

func TestPurge(t *testing.T) {
	c, _ := New(0, nil)
	set := recordSet("v1")
	for _, v := range views.All {
		if _, _, err := c.Run(context.Background(), set, request(v)); err != nil {
			t.Fatal(err)
		}
	}
	if c.Len() != len(views.All) {
		t.Fatalf("Len() = %d", c.Len())
	}
	c.Purge()
	if c.Len() != 0 {
		t.Fatalf("Len() after Purge = %d", c.Len())
	}
}
