// Package tei decodes TEI-XML letter catalogues into records.
//
// Every tei:object below a tei:listObject becomes one record:
//
//	idno                                   -> Shelfmark
//	desc[@type=sender]/persName|placeName|date
//	desc[@type=addresse]/persName|placeName
//	list[@type=main_topics|keywords|other_info]/item
//	desc[@type=mentioned_places]/placeName[@latitude,@longitude,@ref]
//	desc[@type=mentioned_persons]/persName
package tei

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/OFFIS-RIT/letternet/pkg/common"
)

// Namespace is the TEI namespace URI.
const Namespace = "http://www.tei-c.org/ns/1.0"

// ErrNoObjects is returned for documents without any listObject/object.
var ErrNoObjects = errors.New("no letter objects found")

type element struct {
	XMLName  xml.Name
	Attrs    []xml.Attr `xml:",any,attr"`
	Text     string     `xml:",chardata"`
	Children []element  `xml:",any"`
}

func isTEI(name xml.Name, local string) bool {
	return name.Local == local && (name.Space == Namespace || name.Space == "")
}

func (e *element) attr(name string) string {
	for _, a := range e.Attrs {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}

func (e *element) text() string {
	return strings.TrimSpace(e.Text)
}

// child returns the first direct child with the given local name.
func (e *element) child(local string) *element {
	for i := range e.Children {
		if isTEI(e.Children[i].XMLName, local) {
			return &e.Children[i]
		}
	}
	return nil
}

func (e *element) children(local string) []*element {
	var out []*element
	for i := range e.Children {
		if isTEI(e.Children[i].XMLName, local) {
			out = append(out, &e.Children[i])
		}
	}
	return out
}

// find returns the descendants with the given local name and, when typ is
// set, a matching type attribute, in document order.
func (e *element) find(local, typ string) []*element {
	var out []*element
	for i := range e.Children {
		c := &e.Children[i]
		if isTEI(c.XMLName, local) && (typ == "" || c.attr("type") == typ) {
			out = append(out, c)
		}
		out = append(out, c.find(local, typ)...)
	}
	return out
}

func (e *element) first(local, typ string) *element {
	if found := e.find(local, typ); len(found) > 0 {
		return found[0]
	}
	return nil
}

func childText(e *element, local string) string {
	if e == nil {
		return ""
	}
	if c := e.child(local); c != nil {
		return c.text()
	}
	return ""
}

func items(obj *element, typ string) []string {
	var out []string
	for _, list := range obj.find("list", typ) {
		for _, item := range list.children("item") {
			out = append(out, item.text())
		}
	}
	return out
}

func coordinate(value string) *float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return nil
	}
	return &f
}

func record(obj *element) common.Record {
	r := common.Record{
		MainTopics: items(obj, "main_topics"),
		Keywords:   items(obj, "keywords"),
		OtherInfo:  items(obj, "other_info"),
	}
	if idno := obj.first("idno", ""); idno != nil {
		r.Shelfmark = idno.text()
	}

	sender := obj.first("desc", "sender")
	r.SenderName = childText(sender, "persName")
	r.SenderPlace = childText(sender, "placeName")
	r.SenderDate = childText(sender, "date")

	addressee := obj.first("desc", "addresse")
	r.AddresseeName = childText(addressee, "persName")
	r.AddresseePlace = childText(addressee, "placeName")

	for _, desc := range obj.find("desc", "mentioned_places") {
		for _, p := range desc.children("placeName") {
			place := common.Place{Name: p.text(), Ref: p.attr("ref")}
			lat, lon := coordinate(p.attr("latitude")), coordinate(p.attr("longitude"))
			if lat != nil && lon != nil {
				place.Latitude, place.Longitude = lat, lon
			}
			r.MentionedPlaces = append(r.MentionedPlaces, place)
		}
	}
	for _, desc := range obj.find("desc", "mentioned_persons") {
		for _, p := range desc.children("persName") {
			r.MentionedPersons = append(r.MentionedPersons, p.text())
		}
	}
	return r
}

// Parse decodes a TEI document. Objects are read one at a time so that
// only the current object is held as a tree.
func Parse(data []byte) ([]common.Record, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))

	var (
		records []common.Record
		stack   []xml.Name
	)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse XML: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if isTEI(t.Name, "object") && len(stack) > 0 && isTEI(stack[len(stack)-1], "listObject") {
				var obj element
				if err := dec.DecodeElement(&obj, &t); err != nil {
					return nil, fmt.Errorf("failed to decode object: %w", err)
				}
				records = append(records, record(&obj))
				continue
			}
			stack = append(stack, t.Name)
		case xml.EndElement:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		}
	}

	if len(records) == 0 {
		return nil, ErrNoObjects
	}
	return records, nil
}
