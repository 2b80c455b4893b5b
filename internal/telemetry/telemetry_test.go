package telemetry

import (
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/OFFIS-RIT/letternet/pkg/common"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveView(t *testing.T) {
	m := New()
	m.ObserveView("topics", OutcomeOK, 10*time.Millisecond)
	m.ObserveView("topics", OutcomeEmpty, time.Millisecond)
	m.ObserveView("topics", OutcomeInvalid, 0)

	if got := testutil.ToFloat64(m.ViewRequests.WithLabelValues("topics", OutcomeOK)); got != 1 {
		t.Fatalf("ok requests = %v", got)
	}
	if got := testutil.ToFloat64(m.ViewRequests.WithLabelValues("topics", OutcomeInvalid)); got != 1 {
		t.Fatalf("invalid requests = %v", got)
	}
	if got := testutil.CollectAndCount(m.ViewDuration); got != 1 {
		t.Fatalf("duration series = %d", got)
	}
}

func TestObserveReload(t *testing.T) {
	m := New()
	set := common.NewRecordSetWithVersion("v1", "test", []common.Record{
		{SenderName: "X", AddresseeName: "Y", SenderDate: "1650-01-01"},
		{SenderName: "X", AddresseeName: "Y", SenderDate: "yesterday"},
	})
	m.ObserveReload(set, nil)
	m.ObserveReload(nil, errors.New("unavailable"))

	if got := testutil.ToFloat64(m.RecordSetSize); got != 2 {
		t.Fatalf("record set size = %v", got)
	}
	if got := testutil.ToFloat64(m.SkippedDates); got != 1 {
		t.Fatalf("skipped dates = %v", got)
	}
	if got := testutil.ToFloat64(m.Reloads.WithLabelValues(OutcomeError)); got != 1 {
		t.Fatalf("failed reloads = %v", got)
	}
}

func TestHandler(t *testing.T) {
	m := New()
	m.CacheHit()
	m.CacheMiss()
	m.CacheMiss()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), `letternet_cache_lookups_total{result="miss"} 2`) {
		t.Fatalf("metrics output missing cache counter:\n%s", body)
	}
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	m.ObserveView("topics", OutcomeOK, time.Second)
	m.CacheHit()
	m.ObserveReload(nil, nil)
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	if rec.Code != 404 {
		t.Fatalf("nil handler status = %d", rec.Code)
	}
}
