// Package csv parses tabular catalogue exports into records. The first row
// names the columns; recognised headers are the snake_case record fields
// (shelfmark, sender_name, sender_place, sender_date, addressee_name,
// addressee_place, main_topics, keywords, other_info, mentioned_places,
// mentioned_persons). List columns separate their values with "|".
package csv

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/OFFIS-RIT/letternet/pkg/common"
)

// Separator splits the values of list columns.
const Separator = "|"

var (
	ErrEmpty     = errors.New("table is empty or contains no valid data")
	ErrNoColumns = errors.New("table header names no record columns")
)

type setter func(r *common.Record, value string)

var columns = map[string]setter{
	"shelfmark":         func(r *common.Record, v string) { r.Shelfmark = v },
	"sender_name":       func(r *common.Record, v string) { r.SenderName = v },
	"sender_place":      func(r *common.Record, v string) { r.SenderPlace = v },
	"sender_date":       func(r *common.Record, v string) { r.SenderDate = v },
	"addressee_name":    func(r *common.Record, v string) { r.AddresseeName = v },
	"addressee_place":   func(r *common.Record, v string) { r.AddresseePlace = v },
	"main_topics":       func(r *common.Record, v string) { r.MainTopics = list(v) },
	"keywords":          func(r *common.Record, v string) { r.Keywords = list(v) },
	"other_info":        func(r *common.Record, v string) { r.OtherInfo = list(v) },
	"mentioned_persons": func(r *common.Record, v string) { r.MentionedPersons = list(v) },
	"mentioned_places": func(r *common.Record, v string) {
		for _, name := range list(v) {
			r.MentionedPlaces = append(r.MentionedPlaces, common.Place{Name: name})
		}
	},
}

func list(value string) []string {
	var out []string
	for _, v := range strings.Split(value, Separator) {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func blank(row []string) bool {
	for _, field := range row {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return true
}

// Parse decodes a CSV export. Blank rows are skipped and unknown columns
// are ignored.
func Parse(data []byte) ([]common.Record, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	var rows [][]string
	line := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("csv line %d: %w", line, err)
		}
		rows = append(rows, row)
	}
	return Rows(rows)
}

// Rows maps a header row and the data rows below it to records. Other
// tabular formats share it.
func Rows(rows [][]string) ([]common.Record, error) {
	var header []setter
	var records []common.Record
	for _, row := range rows {
		if blank(row) {
			continue
		}

		if header == nil {
			header = make([]setter, len(row))
			known := 0
			for i, name := range row {
				name = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
				if set, ok := columns[name]; ok {
					header[i] = set
					known++
				}
			}
			if known == 0 {
				return nil, ErrNoColumns
			}
			continue
		}

		var r common.Record
		for i, value := range row {
			if i < len(header) && header[i] != nil {
				header[i](&r, strings.TrimSpace(value))
			}
		}
		records = append(records, r)
	}

	if header == nil {
		return nil, ErrEmpty
	}
	return records, nil
}
