// Package export renders qualified news items as a downloadable workbook.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/JaimeStill/newsqual/internal/annotation"
)

// Workbook naming for the export download.
const (
	SheetName   = "All Qualified Data"
	Filename    = "qualified_news_items.xlsx"
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// Columns returns the union of column names across rows in order of first
// appearance.
func Columns(rows []annotation.Fields) []string {
	seen := make(map[string]struct{})
	var cols []string
	for _, row := range rows {
		for _, f := range row {
			if _, ok := seen[f.Name]; ok {
				continue
			}
			seen[f.Name] = struct{}{}
			cols = append(cols, f.Name)
		}
	}
	return cols
}

// Write renders rows to a single-sheet workbook: a header row followed by one
// row per record in the given order. Columns a record lacks are left empty.
func Write(w io.Writer, rows []annotation.Fields) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return fmt.Errorf("name sheet: %w", err)
	}

	sw, err := f.NewStreamWriter(SheetName)
	if err != nil {
		return fmt.Errorf("open sheet writer: %w", err)
	}

	cols := Columns(rows)
	header := make([]any, len(cols))
	for i, c := range cols {
		header[i] = c
	}
	if err := sw.SetRow("A1", header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, row := range rows {
		values := make([]any, len(cols))
		for j, c := range cols {
			if v, ok := row.Get(c); ok {
				values[j] = v
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, values); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	if err := sw.Flush(); err != nil {
		return fmt.Errorf("flush sheet: %w", err)
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
