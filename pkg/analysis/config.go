package analysis

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/OFFIS-RIT/letternet/pkg/dates"
	"github.com/OFFIS-RIT/letternet/pkg/graph"
	"github.com/OFFIS-RIT/letternet/pkg/views"

	"github.com/go-playground/validator"
)

var (
	// ErrInvalidConfiguration rejects a request before any computation.
	ErrInvalidConfiguration = errors.New("invalid configuration")
	// ErrUnknownView is returned for a view name that is not served.
	ErrUnknownView = errors.New("unknown view")
)

// Config holds the caller supplied thresholds of one pipeline run.
type Config struct {
	MinEdgeWeight int  `json:"min_edge_weight" validate:"min=1"`
	MinNodeDegree int  `json:"min_node_degree" validate:"min=0"`
	KeepIsolates  bool `json:"keep_isolates"`

	// WindowReference is the center of the temporal window in any accepted
	// date format; empty selects the earliest letter.
	WindowReference string `json:"window_reference"`
	WindowWidthDays int    `json:"window_width_days"`

	GroupBy string `json:"group_by" validate:"omitempty,oneof=day month year"`
	// TopPairs limits the pair ranking of the timeline report.
	TopPairs int `json:"top_pairs" validate:"min=0"`
}

// DefaultConfig returns the configuration used for omitted fields.
func DefaultConfig() Config {
	return Config{
		MinEdgeWeight:   1,
		WindowWidthDays: views.DefaultWindowDays,
		GroupBy:         string(dates.Month),
		TopPairs:        10,
	}
}

// Request selects a view and its configuration.
type Request struct {
	View   views.Name `json:"view"`
	Config Config     `json:"config"`
}

// plan is a validated request with its parsed values.
type plan struct {
	view        views.Name
	cfg         Config
	filter      graph.FilterOptions
	reference   time.Time
	granularity dates.Granularity
}

var validate = validator.New()

// Validate checks a request without running it. The returned error wraps
// ErrUnknownView or ErrInvalidConfiguration.
func (r Request) Validate() error {
	_, err := r.plan()
	return err
}

func (r Request) plan() (plan, error) {
	if !r.View.Valid() {
		return plan{}, fmt.Errorf("%w: %q", ErrUnknownView, r.View)
	}
	cfg := r.Config

	if err := validate.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
			}
			return plan{}, fmt.Errorf("%w: %s", ErrInvalidConfiguration, strings.Join(fields, ", "))
		}
		return plan{}, fmt.Errorf("%w: %v", ErrInvalidConfiguration, err)
	}

	granularity, err := dates.ParseGranularity(cfg.GroupBy)
	if err != nil {
		return plan{}, fmt.Errorf("%w: %v", ErrInvalidConfiguration, err)
	}

	p := plan{
		view: r.View,
		cfg:  cfg,
		filter: graph.FilterOptions{
			MinEdgeWeight: cfg.MinEdgeWeight,
			MinNodeDegree: cfg.MinNodeDegree,
			KeepIsolates:  cfg.KeepIsolates,
		},
		granularity: granularity,
	}

	if r.View == views.TemporalView {
		if cfg.WindowWidthDays <= 0 {
			return plan{}, fmt.Errorf("%w: window width must be positive, got %d", ErrInvalidConfiguration, cfg.WindowWidthDays)
		}
		if strings.TrimSpace(cfg.WindowReference) != "" {
			ref, err := dates.Parse(cfg.WindowReference)
			if err != nil {
				return plan{}, fmt.Errorf("%w: window reference: %v", ErrInvalidConfiguration, err)
			}
			p.reference = ref
		}
	}
	return p, nil
}

// CacheKey returns a canonical string for the request, equal for requests
// that produce the same result on the same record set.
func (r Request) CacheKey() string {
	c := r.Config
	key := fmt.Sprintf("%s|w=%d|d=%d|i=%t|g=%s|p=%d",
		r.View, c.MinEdgeWeight, c.MinNodeDegree, c.KeepIsolates, strings.ToLower(c.GroupBy), c.TopPairs)
	if r.View == views.TemporalView {
		key += fmt.Sprintf("|ref=%s|width=%d", strings.TrimSpace(c.WindowReference), c.WindowWidthDays)
	}
	return key
}
