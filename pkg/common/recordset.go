package common

import (
	"fmt"
	"sort"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// RecordSet is an immutable handle on a loaded collection of records. It is
// passed explicitly to every extractor so that no analysis depends on
// process-wide state. The version changes whenever a new set is loaded and
// is used to key cached results.
type RecordSet struct {
	version  string
	loadedAt time.Time
	source   string
	records  []Record
}

// NewRecordSet copies records into a new set with a fresh version ID.
func NewRecordSet(source string, records []Record) (*RecordSet, error) {
	version, err := gonanoid.New()
	if err != nil {
		return nil, fmt.Errorf("failed to generate record set version: %w", err)
	}
	return NewRecordSetWithVersion(version, source, records), nil
}

// NewRecordSetWithVersion is NewRecordSet with a caller supplied version.
func NewRecordSetWithVersion(version, source string, records []Record) *RecordSet {
	cp := make([]Record, len(records))
	copy(cp, records)
	return &RecordSet{
		version:  version,
		loadedAt: time.Now().UTC(),
		source:   source,
		records:  cp,
	}
}

// Version returns the identifier of this record set.
func (s *RecordSet) Version() string { return s.version }

// LoadedAt returns the time the set was created.
func (s *RecordSet) LoadedAt() time.Time { return s.loadedAt }

// Source returns a description of where the records came from.
func (s *RecordSet) Source() string { return s.source }

// Len returns the number of records.
func (s *RecordSet) Len() int { return len(s.records) }

// Records returns the records of the set. The returned slice must be
// treated as read-only.
func (s *RecordSet) Records() []Record { return s.records }

// ByShelfmark returns the first record with the given shelfmark.
func (s *RecordSet) ByShelfmark(shelfmark string) (Record, bool) {
	shelfmark = Clean(shelfmark)
	if shelfmark == "" {
		return Record{}, false
	}
	for _, r := range s.records {
		if Clean(r.Shelfmark) == shelfmark {
			return r, true
		}
	}
	return Record{}, false
}

// Correspondence returns all letters sent from sender to addressee in
// document order.
func (s *RecordSet) Correspondence(sender, addressee string) []Record {
	sender, addressee = Clean(sender), Clean(addressee)
	var out []Record
	for _, r := range s.records {
		if r.Sender() == sender && r.Addressee() == addressee {
			out = append(out, r)
		}
	}
	return out
}

// AddresseesOf returns the sorted distinct addressees of a sender.
func (s *RecordSet) AddresseesOf(sender string) []string {
	sender = Clean(sender)
	seen := make(map[string]struct{})
	for _, r := range s.records {
		if r.Sender() != sender {
			continue
		}
		if a := r.Addressee(); a != "" {
			seen[a] = struct{}{}
		}
	}
	return sortedKeys(seen)
}

// Count is a label with the number of records it occurs in.
type Count struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Statistics summarizes a record set for overview pages.
type Statistics struct {
	Records       int     `json:"records"`
	WithParties   int     `json:"with_parties"`
	WithDate      int     `json:"with_date"`
	Senders       []Count `json:"senders"`
	Addressees    []Count `json:"addressees"`
	Keywords      []Count `json:"keywords"`
	PlacesWithGeo int     `json:"places_with_coordinates"`
}

// Statistics computes sender, addressee and keyword frequencies. Keyword
// counts are per occurrence, mirroring a plain value count over all
// keyword entries.
func (s *RecordSet) Statistics() Statistics {
	senders := make(map[string]int)
	addressees := make(map[string]int)
	keywords := make(map[string]int)
	geo := make(map[string]struct{})

	st := Statistics{Records: len(s.records)}
	for _, r := range s.records {
		if r.HasParties() {
			st.WithParties++
		}
		if Clean(r.SenderDate) != "" {
			st.WithDate++
		}
		if v := r.Sender(); v != "" {
			senders[v]++
		}
		if v := r.Addressee(); v != "" {
			addressees[v]++
		}
		for _, k := range r.Keywords {
			if k = Clean(k); k != "" {
				keywords[k]++
			}
		}
		for _, p := range r.MentionedPlaces {
			if name := Clean(p.Name); name != "" && p.HasCoordinates() {
				geo[name] = struct{}{}
			}
		}
	}
	st.Senders = SortCounts(senders)
	st.Addressees = SortCounts(addressees)
	st.Keywords = SortCounts(keywords)
	st.PlacesWithGeo = len(geo)
	return st
}

// SortCounts converts a frequency map into a slice ordered by count
// descending, then label ascending.
func SortCounts(m map[string]int) []Count {
	out := make([]Count, 0, len(m))
	for k, v := range m {
		out = append(out, Count{Label: k, Count: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Label < out[j].Label
	})
	return out
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
