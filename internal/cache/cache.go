// Package cache memoizes analysis results per record-set version.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/OFFIS-RIT/letternet/internal/telemetry"
	"github.com/OFFIS-RIT/letternet/pkg/analysis"
	"github.com/OFFIS-RIT/letternet/pkg/common"
	"github.com/OFFIS-RIT/letternet/pkg/logger"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// DefaultSize is the number of results kept when no size is configured.
const DefaultSize = 256

// Cache holds computed results keyed by record-set version and canonical
// request. Results are shared between callers and must not be modified.
// Concurrent identical requests are computed once.
type Cache struct {
	results *lru.Cache[string, *analysis.Result]
	group   singleflight.Group
	metrics *telemetry.Metrics
}

// New creates a cache holding up to size results. metrics may be nil.
func New(size int, metrics *telemetry.Metrics) (*Cache, error) {
	if size <= 0 {
		size = DefaultSize
	}
	results, err := lru.New[string, *analysis.Result](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create result cache: %w", err)
	}
	return &Cache{results: results, metrics: metrics}, nil
}

func key(set *common.RecordSet, req analysis.Request) string {
	return set.Version() + "|" + req.CacheKey()
}

func outcome(res *analysis.Result, err error) string {
	switch {
	case errors.Is(err, analysis.ErrInvalidConfiguration), errors.Is(err, analysis.ErrUnknownView):
		return telemetry.OutcomeInvalid
	case err != nil:
		return telemetry.OutcomeError
	case res.Empty():
		return telemetry.OutcomeEmpty
	}
	return telemetry.OutcomeOK
}

// Run returns the cached result for req over set, computing it on a miss.
// The boolean reports a cache hit. Failed computations are not cached.
func (c *Cache) Run(ctx context.Context, set *common.RecordSet, req analysis.Request) (*analysis.Result, bool, error) {
	k := key(set, req)
	if res, ok := c.results.Get(k); ok {
		c.metrics.CacheHit()
		return res, true, nil
	}
	c.metrics.CacheMiss()

	v, err, _ := c.group.Do(k, func() (any, error) {
		if res, ok := c.results.Get(k); ok {
			return res, nil
		}
		start := time.Now()
		res, err := analysis.Run(ctx, set, req)
		c.metrics.ObserveView(string(req.View), outcome(res, err), time.Since(start))
		if err != nil {
			return nil, err
		}
		c.results.Add(k, res)
		return res, nil
	})
	if err != nil {
		return nil, false, err
	}
	return v.(*analysis.Result), false, nil
}

// RunAll is analysis.RunAll through the cache. Every request is validated
// before the first one starts, and results keep request order.
func (c *Cache) RunAll(ctx context.Context, set *common.RecordSet, reqs []analysis.Request, limit int) ([]*analysis.Result, error) {
	for i, req := range reqs {
		if err := req.Validate(); err != nil {
			return nil, fmt.Errorf("request %d: %w", i, err)
		}
	}

	results := make([]*analysis.Result, len(reqs))
	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, req := range reqs {
		g.Go(func() error {
			res, _, err := c.Run(gctx, set, req)
			if err != nil {
				return fmt.Errorf("request %d: %w", i, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Purge drops every cached result.
func (c *Cache) Purge() {
	n := c.results.Len()
	c.results.Purge()
	logger.Debug("[Cache] Purged results", "entries", n)
}

// Len returns the number of cached results.
func (c *Cache) Len() int {
	return c.results.Len()
}
