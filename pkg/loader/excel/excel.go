// Package excel parses .xlsx catalogue exports. Every sheet is read with
// the column layout of the csv package; sheets without a recognised header
// are skipped.
package excel

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/OFFIS-RIT/letternet/pkg/common"
	"github.com/OFFIS-RIT/letternet/pkg/loader/csv"
	"github.com/OFFIS-RIT/letternet/pkg/logger"
)

// Parse decodes a workbook and concatenates the records of its sheets in
// sheet order.
func Parse(data []byte) ([]common.Record, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	var records []common.Record
	parsed := 0
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
		}
		part, err := csv.Rows(rows)
		if errors.Is(err, csv.ErrEmpty) || errors.Is(err, csv.ErrNoColumns) {
			logger.Debug("[Excel] Skipping sheet", "sheet", sheet, "err", err)
			continue
		}
		if err != nil {
			return nil, err
		}
		parsed++
		records = append(records, part...)
	}

	if parsed == 0 {
		return nil, csv.ErrNoColumns
	}
	return records, nil
}
