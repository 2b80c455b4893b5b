package views

import (
	"time"

	"github.com/OFFIS-RIT/letternet/pkg/common"
	"github.com/OFFIS-RIT/letternet/pkg/dates"
	"github.com/OFFIS-RIT/letternet/pkg/graph"
)

// DefaultWindowDays is the window width used when none is given.
const DefaultWindowDays = 90

// TemporalOptions selects the window of the temporal view. A zero
// Reference centers the window on the earliest letter; a non-positive
// WidthDays falls back to DefaultWindowDays.
type TemporalOptions struct {
	Reference  time.Time
	WidthDays  int
	Normalizer dates.Normalizer
}

// TemporalResult is the output of the temporal view.
type TemporalResult struct {
	Graph    *graph.Graph `json:"graph"`
	Window   Window       `json:"window"`
	Timeline Timeline     `json:"timeline"`
}

// Temporal builds the directed correspondent graph restricted to the
// letters dated inside the window. Records without a parseable sender
// date or without both parties are ignored.
func Temporal(records []common.Record, opts TemporalOptions) TemporalResult {
	tl := BuildTimeline(records, opts.Normalizer)

	ref := opts.Reference
	if ref.IsZero() && tl.Range != nil {
		ref = tl.Range.Start
	}
	width := opts.WidthDays
	if width <= 0 {
		width = DefaultWindowDays
	}

	w := tl.Window(ref, width)
	return TemporalResult{Graph: w.Graph(), Window: w, Timeline: tl}
}
