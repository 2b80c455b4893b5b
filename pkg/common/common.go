package common

import "strings"

// Record represents a single letter of the correspondence corpus. Records are
// produced by a loader and are never modified afterwards: every analysis
// reads them, none writes them.
//
// Optional string fields are empty when absent. List fields keep the order
// and content of the source document, including empty or duplicate entries;
// consumers normalize them with Clean or CleanSet.
type Record struct {
	Shelfmark        string   `json:"shelfmark,omitempty"`
	SenderName       string   `json:"sender_name,omitempty"`
	SenderPlace      string   `json:"sender_place,omitempty"`
	SenderDate       string   `json:"sender_date,omitempty"`
	AddresseeName    string   `json:"addressee_name,omitempty"`
	AddresseePlace   string   `json:"addressee_place,omitempty"`
	MainTopics       []string `json:"main_topics"`
	Keywords         []string `json:"keywords"`
	OtherInfo        []string `json:"other_info"`
	MentionedPlaces  []Place  `json:"mentioned_places"`
	MentionedPersons []string `json:"mentioned_persons"`
}

// Place is a place mentioned in the body of a letter. A place without
// coordinates is still a valid graph node; it is only left out of
// coordinate based output.
type Place struct {
	Name      string   `json:"name"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
	Ref       string   `json:"ref,omitempty"`
}

// HasCoordinates reports whether both latitude and longitude are known.
func (p Place) HasCoordinates() bool {
	return p.Latitude != nil && p.Longitude != nil
}

// Clean normalizes a node label. Labels are compared exactly after trimming
// surrounding whitespace; an empty result means "no label".
func Clean(s string) string {
	return strings.TrimSpace(s)
}

// CleanSet returns the distinct, non-empty cleaned values of all given lists
// in first-seen order.
func CleanSet(lists ...[]string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, list := range lists {
		for _, v := range list {
			v = Clean(v)
			if v == "" {
				continue
			}
			if _, ok := seen[v]; ok {
				continue
			}
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}
	return out
}

// Sender returns the cleaned sender name.
func (r Record) Sender() string { return Clean(r.SenderName) }

// Addressee returns the cleaned addressee name.
func (r Record) Addressee() string { return Clean(r.AddresseeName) }

// HasParties reports whether both sender and addressee are named.
func (r Record) HasParties() bool {
	return r.Sender() != "" && r.Addressee() != ""
}

// MentionedPlaceNames returns the distinct cleaned names of the places
// mentioned in the letter.
func (r Record) MentionedPlaceNames() []string {
	names := make([]string, 0, len(r.MentionedPlaces))
	for _, p := range r.MentionedPlaces {
		names = append(names, p.Name)
	}
	return CleanSet(names)
}

// Places returns the distinct cleaned place names of the letter: sender
// place, addressee place and every mentioned place, in that order.
func (r Record) Places() []string {
	names := make([]string, 0, len(r.MentionedPlaces)+2)
	names = append(names, r.SenderPlace, r.AddresseePlace)
	for _, p := range r.MentionedPlaces {
		names = append(names, p.Name)
	}
	return CleanSet(names)
}
