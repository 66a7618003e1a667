// Package ingest reads uploaded spreadsheets into ordered row records.
package ingest

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/JaimeStill/newsqual/internal/annotation"
)

// ErrInvalidFile reports an upload that is not a readable workbook.
var ErrInvalidFile = errors.New("invalid spreadsheet")

// Read parses the first sheet of an xlsx workbook. The first row supplies
// column names in order; each following non-blank row becomes one record.
// Rows wider than the header get "Unnamed: <index>" columns. Numeric cells
// decode to int64 or float64, empty cells to nil, and text cells stay
// strings.
func Read(r io.Reader) ([]annotation.Fields, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFile, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", ErrInvalidFile)
	}
	sheet := sheets[0]

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFile, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	width := len(rows[0])
	for _, row := range rows[1:] {
		width = max(width, len(row))
	}
	header := make([]string, width)
	copy(header, rows[0])
	columns := headers(header)

	records := make([]annotation.Fields, 0, len(rows)-1)
	for y, row := range rows[1:] {
		if blank(row) {
			continue
		}
		fields := make(annotation.Fields, len(columns))
		for x, name := range columns {
			var value any
			if x < len(row) {
				value, err = cellValue(f, sheet, x+1, y+2, row[x])
				if err != nil {
					return nil, fmt.Errorf("%w: %v", ErrInvalidFile, err)
				}
			}
			fields[x] = annotation.Field{Name: name, Value: value}
		}
		records = append(records, fields)
	}
	return records, nil
}

// cellValue converts s only when the cell at (col, row) is stored as a
// number. Text cells such as "007" pass through unchanged.
func cellValue(f *excelize.File, sheet string, col, row int, s string) (any, error) {
	if s == "" {
		return nil, nil
	}
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return nil, err
	}
	typ, err := f.GetCellType(sheet, cell)
	if err != nil {
		return nil, err
	}
	switch typ {
	case excelize.CellTypeUnset, excelize.CellTypeNumber:
		return parseNumber(s), nil
	default:
		return s, nil
	}
}

// headers names blank header cells "Unnamed: <index>" and suffixes repeated
// names with ".1", ".2", and so on.
func headers(row []string) []string {
	out := make([]string, len(row))
	seen := make(map[string]int, len(row))
	for i, cell := range row {
		name := strings.TrimSpace(cell)
		if name == "" {
			name = "Unnamed: " + strconv.Itoa(i)
		}
		if n, dup := seen[name]; dup {
			seen[name] = n + 1
			name = name + "." + strconv.Itoa(n+1)
		} else {
			seen[name] = 0
		}
		out[i] = name
	}
	return out
}

func blank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// parseNumber returns int64 for integers, float64 for decimals, or the
// formatted string when the display value is not a plain number.
func parseNumber(s string) any {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}
