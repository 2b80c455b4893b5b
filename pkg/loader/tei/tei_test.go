package tei

import (
	"errors"
	"reflect"
	"testing"

	"github.com/OFFIS-RIT/letternet/pkg/common"
)

const catalogue = `<?xml version="1.0" encoding="UTF-8"?>
<TEI xmlns="http://www.tei-c.org/ns/1.0">
  <text><body>
    <listObject>
      <object>
        <objectIdentifier><idno>DAD-1</idno></objectIdentifier>
        <desc type="sender">
          <persName>Ivan Gundulić</persName>
          <placeName> Ragusa </placeName>
          <date>01.01.1800</date>
        </desc>
        <desc type="addresse">
          <persName>Marin Držić</persName>
          <placeName>Venice</placeName>
        </desc>
        <list type="main_topics"><item>Trade</item></list>
        <list type="keywords"><item>Salt</item><item>Wine</item></list>
        <list type="other_info"><item>Sealed</item></list>
        <desc type="mentioned_places">
          <placeName latitude="43.5" longitude="16.4" ref="geo:split">Split</placeName>
          <placeName latitude="n/a" longitude="16.4">Zara</placeName>
          <placeName>Kotor</placeName>
        </desc>
        <desc type="mentioned_persons"><persName>Consul</persName></desc>
      </object>
      <object>
        <idno>DAD-2</idno>
        <desc type="sender"><persName>Marin Držić</persName></desc>
      </object>
    </listObject>
    <object><idno>ignored</idno></object>
  </body></text>
</TEI>`

func f(v float64) *float64 { return &v }

func TestParse(t *testing.T) {
	records, err := Parse([]byte(catalogue))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("Parse() returned %d records, want 2", len(records))
	}

	want := common.Record{
		Shelfmark:      "DAD-1",
		SenderName:     "Ivan Gundulić",
		SenderPlace:    "Ragusa",
		SenderDate:     "01.01.1800",
		AddresseeName:  "Marin Držić",
		AddresseePlace: "Venice",
		MainTopics:     []string{"Trade"},
		Keywords:       []string{"Salt", "Wine"},
		OtherInfo:      []string{"Sealed"},
		MentionedPlaces: []common.Place{
			{Name: "Split", Latitude: f(43.5), Longitude: f(16.4), Ref: "geo:split"},
			{Name: "Zara"},
			{Name: "Kotor"},
		},
		MentionedPersons: []string{"Consul"},
	}
	if !reflect.DeepEqual(records[0], want) {
		t.Fatalf("record 0 = %+v\nwant %+v", records[0], want)
	}

	second := records[1]
	if second.Shelfmark != "DAD-2" || second.SenderName != "Marin Držić" || second.HasParties() {
		t.Fatalf("record 1 = %+v", second)
	}
}

func TestParseErrors(t *testing.T) {
	if _, err := Parse([]byte(`<TEI xmlns="http://www.tei-c.org/ns/1.0"><text/></TEI>`)); !errors.Is(err, ErrNoObjects) {
		t.Fatalf("Parse() error = %v, want ErrNoObjects", err)
	}
	if _, err := Parse([]byte(`<TEI><listObject><object>`)); err == nil || errors.Is(err, ErrNoObjects) {
		t.Fatalf("Parse() error = %v, want a syntax error", err)
	}
}
