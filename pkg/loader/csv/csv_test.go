package csv

import (
	"errors"
	"reflect"
	"testing"

	"github.com/OFFIS-RIT/letternet/pkg/common"
)

func TestParse(t *testing.T) {
	data := "\ufeffShelfmark,sender_name,addressee_name,sender_date,keywords,mentioned_places,notes\n" +
		"A-1,X,Y,1650-01-01,Salt | Wine,Ragusa|Venice,ignored\n" +
		",,,,,,\n" +
		"A-2,\"Y, the elder\",X,,,,\n"

	got, err := Parse([]byte(data))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	want := []common.Record{
		{
			Shelfmark: "A-1", SenderName: "X", AddresseeName: "Y", SenderDate: "1650-01-01",
			Keywords:        []string{"Salt", "Wine"},
			MentionedPlaces: []common.Place{{Name: "Ragusa"}, {Name: "Venice"}},
		},
		{Shelfmark: "A-2", SenderName: "Y, the elder", AddresseeName: "X"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Parse() = %+v, want %+v", got, want)
	}
}

func TestParseErrors(t *testing.T) {
	if _, err := Parse(nil); !errors.Is(err, ErrEmpty) {
		t.Fatalf("expected ErrEmpty, got %v", err)
	}
	if _, err := Parse([]byte("a,b\n1,2\n")); !errors.Is(err, ErrNoColumns) {
		t.Fatalf("expected ErrNoColumns, got %v", err)
	}
}
