package storage

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"
)

const maxSheetName = 31

// sheetName turns a CSV file name into a valid, unique sheet name.
func sheetName(file string, used map[string]bool) string {
	name := strings.TrimSuffix(file, ".csv")
	name = strings.NewReplacer("[", "", "]", "", ":", "", "*", "", "?", "", "/", "", "\\", "").Replace(name)
	if len(name) > maxSheetName {
		name = name[:maxSheetName]
	}
	base := name
	for i := 2; used[name]; i++ {
		suffix := fmt.Sprintf("_%d", i)
		if len(base)+len(suffix) > maxSheetName {
			base = base[:maxSheetName-len(suffix)]
		}
		name = base + suffix
	}
	used[name] = true
	return name
}

// ExportXLSX writes a workbook with a run sheet holding the metadata and
// one sheet per table.
func ExportXLSX(w io.Writer, meta *RunMetadata, tables []*Table) error {
	f := excelize.NewFile()
	defer f.Close()

	const runSheet = "run"
	if err := f.SetSheetName("Sheet1", runSheet); err != nil {
		return err
	}
	rows := [][]any{
		{"id", meta.ID},
		{"analysis", meta.Analysis},
		{"model", meta.Model},
		{"timestamp", meta.Timestamp.Format("2006-01-02 15:04:05")},
		{"time_step", meta.TimeStep},
		{"final_time", meta.FinalTime},
	}
	names := make([]string, 0, len(meta.Params))
	for name := range meta.Params {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		rows = append(rows, []any{name, meta.Params[name]})
	}
	for _, warning := range meta.Warnings {
		rows = append(rows, []any{"warning", warning})
	}
	if err := writeRows(f, runSheet, rows); err != nil {
		return err
	}

	used := map[string]bool{runSheet: true}
	for _, t := range tables {
		sheet := sheetName(t.Name, used)
		if _, err := f.NewSheet(sheet); err != nil {
			return err
		}
		data := make([][]any, 0, len(t.Rows)+1)
		header := make([]any, len(t.Header))
		for i, h := range t.Header {
			header[i] = h
		}
		data = append(data, header)
		for i, row := range t.Rows {
			cells := make([]any, 0, len(row)+1)
			cells = append(cells, t.Times[i])
			for _, v := range row {
				if math.IsNaN(v) {
					cells = append(cells, nil)
					continue
				}
				cells = append(cells, v)
			}
			data = append(data, cells)
		}
		if err := writeRows(f, sheet, data); err != nil {
			return err
		}
	}

	return f.Write(w)
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("sheet %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}
