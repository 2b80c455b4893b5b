package common

import (
	"reflect"
	"testing"
)

func TestCleanSet(t *testing.T) {
	tests := []struct {
		name  string
		lists [][]string
		want  []string
	}{
		{
			name:  "empty input",
			lists: nil,
			want:  nil,
		},
		{
			name:  "trims and drops blanks",
			lists: [][]string{{"  wine ", "", "   ", "salt"}},
			want:  []string{"wine", "salt"},
		},
		{
			name:  "deduplicates across lists",
			lists: [][]string{{"trade", "wine"}, {"wine ", "Trade"}},
			want:  []string{"trade", "wine", "Trade"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CleanSet(tt.lists...)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("CleanSet() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestRecordPlaces(t *testing.T) {
	r := Record{
		SenderPlace:    " Vienna",
		AddresseePlace: "Trieste",
		MentionedPlaces: []Place{
			{Name: "Trieste "},
			{Name: ""},
			{Name: "Varna"},
		},
	}

	got := r.Places()
	want := []string{"Vienna", "Trieste", "Varna"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Places() = %v, want %v", got, want)
	}

	mentioned := r.MentionedPlaceNames()
	if !reflect.DeepEqual(mentioned, []string{"Trieste", "Varna"}) {
		t.Fatalf("MentionedPlaceNames() = %v", mentioned)
	}
}

func TestRecordHasParties(t *testing.T) {
	tests := []struct {
		name   string
		record Record
		want   bool
	}{
		{"both present", Record{SenderName: "X", AddresseeName: "Y"}, true},
		{"missing addressee", Record{SenderName: "X"}, false},
		{"whitespace sender", Record{SenderName: "  ", AddresseeName: "Y"}, false},
	}
	for _, tt := range tests {
		if got := tt.record.HasParties(); got != tt.want {
			t.Errorf("%s: HasParties() = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestPlaceHasCoordinates(t *testing.T) {
	lat, lon := 43.2, 27.9
	if (Place{Name: "Varna"}).HasCoordinates() {
		t.Fatal("place without coordinates reported coordinates")
	}
	if (Place{Name: "Varna", Latitude: &lat}).HasCoordinates() {
		t.Fatal("place with latitude only reported coordinates")
	}
	if !(Place{Name: "Varna", Latitude: &lat, Longitude: &lon}).HasCoordinates() {
		t.Fatal("place with both coordinates reported none")
	}
}

func TestRecordSetIsolatedFromInput(t *testing.T) {
	records := []Record{{Shelfmark: "A-1", SenderName: "X", AddresseeName: "Y"}}
	set := NewRecordSetWithVersion("v1", "test", records)

	records[0].SenderName = "Z"

	if got := set.Records()[0].SenderName; got != "X" {
		t.Fatalf("record set changed with its input: sender = %q", got)
	}
	if set.Version() != "v1" || set.Len() != 1 {
		t.Fatalf("unexpected set metadata: version=%q len=%d", set.Version(), set.Len())
	}
}

func TestNewRecordSetVersions(t *testing.T) {
	a, err := NewRecordSet("test", nil)
	if err != nil {
		t.Fatalf("NewRecordSet() error = %v", err)
	}
	b, err := NewRecordSet("test", nil)
	if err != nil {
		t.Fatalf("NewRecordSet() error = %v", err)
	}
	if a.Version() == "" || a.Version() == b.Version() {
		t.Fatalf("expected distinct non-empty versions, got %q and %q", a.Version(), b.Version())
	}
}

func TestRecordSetQueries(t *testing.T) {
	set := NewRecordSetWithVersion("v1", "test", []Record{
		{Shelfmark: "A-1", SenderName: "X", AddresseeName: "Y", Keywords: []string{"wine", "salt"}},
		{Shelfmark: "A-2", SenderName: "X ", AddresseeName: "Y", Keywords: []string{"wine"}},
		{Shelfmark: "A-3", SenderName: "X", AddresseeName: "Z", SenderDate: "01.01.1800"},
		{Shelfmark: "A-4", SenderName: "Y", AddresseeName: "X"},
	})

	if r, ok := set.ByShelfmark(" A-3 "); !ok || r.AddresseeName != "Z" {
		t.Fatalf("ByShelfmark(A-3) = %+v, %v", r, ok)
	}
	if _, ok := set.ByShelfmark("missing"); ok {
		t.Fatal("ByShelfmark(missing) found a record")
	}

	if got := len(set.Correspondence("X", "Y")); got != 2 {
		t.Fatalf("Correspondence(X, Y) returned %d records, want 2", got)
	}
	if got := set.AddresseesOf("X"); !reflect.DeepEqual(got, []string{"Y", "Z"}) {
		t.Fatalf("AddresseesOf(X) = %v", got)
	}

	st := set.Statistics()
	if st.Records != 4 || st.WithParties != 4 || st.WithDate != 1 {
		t.Fatalf("unexpected statistics: %+v", st)
	}
	wantSenders := []Count{{Label: "X", Count: 3}, {Label: "Y", Count: 1}}
	if !reflect.DeepEqual(st.Senders, wantSenders) {
		t.Fatalf("Senders = %v, want %v", st.Senders, wantSenders)
	}
	wantKeywords := []Count{{Label: "wine", Count: 2}, {Label: "salt", Count: 1}}
	if !reflect.DeepEqual(st.Keywords, wantKeywords) {
		t.Fatalf("Keywords = %v, want %v", st.Keywords, wantKeywords)
	}
}
