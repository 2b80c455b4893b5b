package views

import (
	"sort"

	"github.com/OFFIS-RIT/letternet/pkg/common"
	"github.com/OFFIS-RIT/letternet/pkg/graph"
)

// directBonus is added to the sender place -> addressee place pair on top
// of the ordinary co-mention increment.
const directBonus = 2

// PlaceInfo counts how the letters refer to one place.
type PlaceInfo struct {
	Place         string `json:"place"`
	TotalMentions int    `json:"total_mentions"`
	AsSender      int    `json:"as_sender"`
	AsAddressee   int    `json:"as_addressee"`
	MentionedOnly int    `json:"mentioned_only"`
}

// Coordinate is the position attached to a mentioned place.
type Coordinate struct {
	Place     string  `json:"place"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Ref       string  `json:"ref,omitempty"`
}

// GeographicResult is the output of the geographic co-mention view.
type GeographicResult struct {
	Graph       *graph.Graph `json:"graph"`
	PlaceInfo   []PlaceInfo  `json:"place_info"`
	Coordinates []Coordinate `json:"coordinates"`
}

func placeNode(label string) graph.Node {
	return graph.Node{Label: label, Kind: graph.KindPlace}
}

// Geographic links places that occur in the same letter. Every pair of
// distinct places in a record gains 1; when the sender and addressee
// places are both set and differ, their pair gains another directBonus.
func Geographic(records []common.Record) GeographicResult {
	g := graph.New(false)
	info := make(map[string]*PlaceInfo)
	coords := make(map[string]Coordinate)

	row := func(name string) *PlaceInfo {
		p, ok := info[name]
		if !ok {
			p = &PlaceInfo{Place: name}
			info[name] = p
		}
		return p
	}

	for _, r := range records {
		places := r.Places()
		for i := 0; i < len(places); i++ {
			for j := i + 1; j < len(places); j++ {
				g.AddEdge(placeNode(places[i]), placeNode(places[j]))
			}
		}

		from, to := common.Clean(r.SenderPlace), common.Clean(r.AddresseePlace)
		if from != "" && to != "" && from != to {
			g.AddWeight(placeNode(from), placeNode(to), directBonus)
		}

		for _, name := range places {
			g.AddNode(placeNode(name))
			p := row(name)
			p.TotalMentions++
			switch {
			case name == from && name == to:
				p.AsSender++
				p.AsAddressee++
			case name == from:
				p.AsSender++
			case name == to:
				p.AsAddressee++
			default:
				p.MentionedOnly++
			}
		}

		for _, mp := range r.MentionedPlaces {
			name := common.Clean(mp.Name)
			if name == "" || !mp.HasCoordinates() {
				continue
			}
			coords[name] = Coordinate{
				Place:     name,
				Latitude:  *mp.Latitude,
				Longitude: *mp.Longitude,
				Ref:       common.Clean(mp.Ref),
			}
		}
	}

	res := GeographicResult{
		Graph:       g,
		PlaceInfo:   make([]PlaceInfo, 0, len(info)),
		Coordinates: make([]Coordinate, 0, len(coords)),
	}
	for _, p := range info {
		res.PlaceInfo = append(res.PlaceInfo, *p)
	}
	sort.Slice(res.PlaceInfo, func(i, j int) bool {
		a, b := res.PlaceInfo[i], res.PlaceInfo[j]
		if a.TotalMentions != b.TotalMentions {
			return a.TotalMentions > b.TotalMentions
		}
		return a.Place < b.Place
	})
	for _, c := range coords {
		res.Coordinates = append(res.Coordinates, c)
	}
	sort.Slice(res.Coordinates, func(i, j int) bool {
		return res.Coordinates[i].Place < res.Coordinates[j].Place
	})
	return res
}
