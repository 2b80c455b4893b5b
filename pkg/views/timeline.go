package views

import (
	"sort"
	"time"

	"github.com/OFFIS-RIT/letternet/pkg/common"
	"github.com/OFFIS-RIT/letternet/pkg/dates"
	"github.com/OFFIS-RIT/letternet/pkg/graph"
	"github.com/OFFIS-RIT/letternet/pkg/logger"
)

// Letter is a dated record with both correspondents named.
type Letter struct {
	Shelfmark  string    `json:"shelfmark,omitempty"`
	Sender     string    `json:"sender"`
	Addressee  string    `json:"addressee"`
	Date       time.Time `json:"date"`
	DateText   string    `json:"date_text"`
	MainTopics []string  `json:"main_topics,omitempty"`
	Keywords   []string  `json:"keywords,omitempty"`
}

// DateRange is the span covered by a timeline.
type DateRange struct {
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	SpanDays int       `json:"span_days"`
}

// Timeline holds the letters of a record set in ascending date order.
type Timeline struct {
	Letters []Letter   `json:"letters"`
	Range   *DateRange `json:"range"`
	// Skipped counts records with both parties but no usable date.
	Skipped int `json:"skipped"`
}

// BuildTimeline parses the sender date of every record with both parties.
// Records without a parseable date are left out and counted in Skipped.
func BuildTimeline(records []common.Record, n dates.Normalizer) Timeline {
	var tl Timeline
	for _, r := range records {
		if !r.HasParties() {
			continue
		}
		d, err := n.Parse(r.SenderDate)
		if err != nil {
			tl.Skipped++
			logger.Debug("[Temporal] Skipping record", "shelfmark", r.Shelfmark, "err", err)
			continue
		}
		tl.Letters = append(tl.Letters, Letter{
			Shelfmark:  common.Clean(r.Shelfmark),
			Sender:     r.Sender(),
			Addressee:  r.Addressee(),
			Date:       d,
			DateText:   common.Clean(r.SenderDate),
			MainTopics: common.CleanSet(r.MainTopics),
			Keywords:   common.CleanSet(r.Keywords),
		})
	}

	sort.SliceStable(tl.Letters, func(i, j int) bool {
		return tl.Letters[i].Date.Before(tl.Letters[j].Date)
	})
	if len(tl.Letters) > 0 {
		start, end := tl.Letters[0].Date, tl.Letters[len(tl.Letters)-1].Date
		tl.Range = &DateRange{Start: start, End: end, SpanDays: dates.DaysBetween(start, end)}
	}
	return tl
}

// Window is the closed date interval selected around a reference date.
type Window struct {
	Reference time.Time `json:"reference"`
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	Letters   []Letter  `json:"letters"`
}

// Window returns the letters dated within [ref - width/2, ref + width/2],
// where width/2 is rounded down to whole days.
func (tl Timeline) Window(ref time.Time, widthDays int) Window {
	half := widthDays / 2
	w := Window{
		Reference: ref,
		Start:     ref.AddDate(0, 0, -half),
		End:       ref.AddDate(0, 0, half),
	}
	for _, l := range tl.Letters {
		if l.Date.Before(w.Start) {
			continue
		}
		if l.Date.After(w.End) {
			break
		}
		w.Letters = append(w.Letters, l)
	}
	return w
}

// Graph returns the directed sender -> addressee graph of the letters.
func (w Window) Graph() *graph.Graph {
	return letterGraph(w.Letters)
}

func letterGraph(letters []Letter) *graph.Graph {
	g := graph.New(true)
	for _, l := range letters {
		g.AddEdge(
			graph.Node{Label: l.Sender, Kind: graph.KindPerson},
			graph.Node{Label: l.Addressee, Kind: graph.KindPerson},
		)
	}
	return g
}

// PeriodCount is the number of letters in one reporting period.
type PeriodCount struct {
	Period string `json:"period"`
	Count  int    `json:"count"`
}

// Group counts letters per period in ascending period order. Periods
// without letters are not listed.
func (tl Timeline) Group(g dates.Granularity) []PeriodCount {
	var out []PeriodCount
	for _, p := range tl.periods(g) {
		out = append(out, PeriodCount{Period: p.label, Count: len(p.letters)})
	}
	return out
}

// PeriodMetrics describes the correspondence network of a single period.
type PeriodMetrics struct {
	Period  string  `json:"period"`
	Letters int     `json:"letters"`
	Nodes   int     `json:"nodes"`
	Edges   int     `json:"edges"`
	Density float64 `json:"density"`
}

// Evolution builds one directed network per period and reports its size
// and density.
func (tl Timeline) Evolution(g dates.Granularity) []PeriodMetrics {
	var out []PeriodMetrics
	for _, p := range tl.periods(g) {
		pg := letterGraph(p.letters)
		m := PeriodMetrics{
			Period:  p.label,
			Letters: len(p.letters),
			Nodes:   pg.NodeCount(),
			Edges:   pg.EdgeCount(),
		}
		if n := m.Nodes; n > 1 {
			m.Density = float64(m.Edges) / float64(n*(n-1))
		}
		out = append(out, m)
	}
	return out
}

type period struct {
	label   string
	letters []Letter
}

func (tl Timeline) periods(g dates.Granularity) []period {
	var out []period
	for _, l := range tl.Letters {
		label := dates.Label(l.Date, g)
		if n := len(out); n > 0 && out[n-1].label == label {
			out[n-1].letters = append(out[n-1].letters, l)
			continue
		}
		out = append(out, period{label: label, letters: []Letter{l}})
	}
	return out
}

// PairCount is the number of letters sent from one person to another.
type PairCount struct {
	Sender    string `json:"sender"`
	Addressee string `json:"addressee"`
	Letters   int    `json:"letters"`
}

// TopPairs returns the n most frequent sender -> addressee pairs. A
// non-positive n returns all pairs.
func (tl Timeline) TopPairs(n int) []PairCount {
	edges := letterGraph(tl.Letters).TopEdges(n)
	out := make([]PairCount, 0, len(edges))
	for _, e := range edges {
		out = append(out, PairCount{Sender: e.Source.Label, Addressee: e.Target.Label, Letters: e.Weight})
	}
	return out
}

// SenderActivity is the number of letters each sender wrote per period.
type SenderActivity struct {
	Sender  string        `json:"sender"`
	Total   int           `json:"total"`
	Periods []PeriodCount `json:"periods"`
}

// SenderActivity groups the letters of every sender by period. Senders are
// ordered by total letters descending, then name.
func (tl Timeline) SenderActivity(g dates.Granularity) []SenderActivity {
	bySender := make(map[string]*SenderActivity)
	for _, l := range tl.Letters {
		a, ok := bySender[l.Sender]
		if !ok {
			a = &SenderActivity{Sender: l.Sender}
			bySender[l.Sender] = a
		}
		a.Total++
		label := dates.Label(l.Date, g)
		if n := len(a.Periods); n > 0 && a.Periods[n-1].Period == label {
			a.Periods[n-1].Count++
			continue
		}
		a.Periods = append(a.Periods, PeriodCount{Period: label, Count: 1})
	}

	out := make([]SenderActivity, 0, len(bySender))
	for _, a := range bySender {
		out = append(out, *a)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Total != out[j].Total {
			return out[i].Total > out[j].Total
		}
		return out[i].Sender < out[j].Sender
	})
	return out
}
