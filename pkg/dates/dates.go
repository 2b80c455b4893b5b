// Package dates turns the free-text dates of letters into calendar dates.
//
// Parsing is strict: a date string is tried against an ordered list of
// fixed-width layouts and the first layout that matches wins. There is no
// locale inference and no fuzzy or partial matching.
package dates

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrDateUnparseable is returned when a date string matches none of the
// accepted layouts. Callers drop the record from temporal computations and
// carry on.
var ErrDateUnparseable = errors.New("date unparseable")

// Strategy is one attempt at parsing a date string.
type Strategy interface {
	Parse(value string) (time.Time, bool)
}

// Layout is a Strategy backed by a fixed time.Parse layout.
type Layout string

// Parse implements Strategy.
func (l Layout) Parse(value string) (time.Time, bool) {
	t, err := time.ParseInLocation(string(l), value, time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

const (
	DayMonthYearDot   Layout = "02.01.2006"
	DayMonthYearSlash Layout = "02/01/2006"
	YearMonthDay      Layout = "2006-01-02"
	DayMonthYearDash  Layout = "02-01-2006"
)

// DefaultStrategies is the accepted layout order.
var DefaultStrategies = []Strategy{
	DayMonthYearDot,
	DayMonthYearSlash,
	YearMonthDay,
	DayMonthYearDash,
}

// Normalizer parses date strings with an ordered chain of strategies.
type Normalizer struct {
	strategies []Strategy
}

// NewNormalizer returns a Normalizer that tries strategies in order. With no
// strategies the DefaultStrategies are used.
func NewNormalizer(strategies ...Strategy) Normalizer {
	if len(strategies) == 0 {
		strategies = DefaultStrategies
	}
	return Normalizer{strategies: strategies}
}

// Parse returns the first successful parse of value, or an error wrapping
// ErrDateUnparseable.
func (n Normalizer) Parse(value string) (time.Time, error) {
	strategies := n.strategies
	if len(strategies) == 0 {
		strategies = DefaultStrategies
	}
	for _, s := range strategies {
		if t, ok := s.Parse(strings.TrimSpace(value)); ok {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrDateUnparseable, value)
}

// Parse parses value with the default strategies.
func Parse(value string) (time.Time, error) {
	return NewNormalizer().Parse(value)
}

// Granularity is a reporting bucket size for grouping dates.
type Granularity string

const (
	Day   Granularity = "day"
	Month Granularity = "month"
	Year  Granularity = "year"
)

// ParseGranularity validates a group-by value. An empty value selects Month.
func ParseGranularity(s string) (Granularity, error) {
	switch g := Granularity(strings.ToLower(strings.TrimSpace(s))); g {
	case "":
		return Month, nil
	case Day, Month, Year:
		return g, nil
	default:
		return "", fmt.Errorf("unknown granularity %q", s)
	}
}

// Truncate returns the start of the bucket containing t.
func Truncate(t time.Time, g Granularity) time.Time {
	switch g {
	case Year:
		return time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	case Month:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	default:
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	}
}

// Label formats the bucket containing t: 2006-01-02, 2006-01 or 2006.
func Label(t time.Time, g Granularity) string {
	switch g {
	case Year:
		return t.Format("2006")
	case Month:
		return t.Format("2006-01")
	default:
		return t.Format(string(YearMonthDay))
	}
}

// DaysBetween returns the number of whole days from a to b. It works on Unix
// seconds because time.Duration saturates after roughly 292 years.
func DaysBetween(a, b time.Time) int {
	return int((b.Unix() - a.Unix()) / 86400)
}
