package storage

import (
	"encoding/json"
	"io"
	"math"
	"os"
)

// CreateFile creates an export file, failing with dynamo.ErrIOConflict if
// it exists.
func CreateFile(path string) (*os.File, error) {
	return createExclusive(path)
}

type exportTable struct {
	Name   string       `json:"name"`
	Header []string     `json:"header"`
	Times  []float64    `json:"times"`
	Rows   [][]*float64 `json:"rows"`
}

type ExportData struct {
	Run    RunMetadata   `json:"run"`
	Tables []exportTable `json:"tables"`
}

// ExportJSON writes the run and its tables as indented JSON. NaN cells
// become null.
func ExportJSON(w io.Writer, meta *RunMetadata, tables []*Table) error {
	data := ExportData{Run: *meta, Tables: make([]exportTable, len(tables))}
	for i, t := range tables {
		et := exportTable{Name: t.Name, Header: t.Header, Times: t.Times, Rows: make([][]*float64, len(t.Rows))}
		for j, row := range t.Rows {
			cells := make([]*float64, len(row))
			for k := range row {
				if !math.IsNaN(row[k]) {
					cells[k] = &row[k]
				}
			}
			et.Rows[j] = cells
		}
		data.Tables[i] = et
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
