// Package storage keeps analysis runs on disk. Each run is a directory
// holding metadata.json and the CSV histories written while it ran; the
// exporters turn those into JSON, XLSX, PNG and PDF documents.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/structdyn/internal/dynamo"
)

const metadataFile = "metadata.json"

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

func (s *Store) BaseDir() string { return s.baseDir }

type RunMetadata struct {
	ID        string             `json:"id"`
	Analysis  string             `json:"analysis"`
	Model     string             `json:"model,omitempty"`
	Timestamp time.Time          `json:"timestamp"`
	TimeStep  float64            `json:"time_step,omitempty"`
	FinalTime float64            `json:"final_time,omitempty"`
	Params    map[string]float64 `json:"params,omitempty"`
	Files     []string           `json:"files"`
	Warnings  []string           `json:"warnings,omitempty"`
	Summary   json.RawMessage    `json:"summary,omitempty"`
}

// Run is a run directory being written.
type Run struct {
	Meta RunMetadata
	dir  string
}

// NewRunID names a run after its analysis and start time, with a random
// suffix so runs started in the same second do not collide.
func NewRunID(analysis string, now time.Time) string {
	return fmt.Sprintf("%s_%s_%s", analysis, now.Format("20060102150405"), uuid.NewString()[:8])
}

// Create makes a new run directory.
func (s *Store) Create(analysis, model string) (*Run, error) {
	if err := s.Init(); err != nil {
		return nil, err
	}
	now := time.Now()
	id := NewRunID(analysis, now)
	dir := filepath.Join(s.baseDir, id)
	if err := os.Mkdir(dir, 0755); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return nil, fmt.Errorf("%w: run %s already exists", dynamo.ErrIOConflict, id)
		}
		return nil, err
	}
	return &Run{
		Meta: RunMetadata{ID: id, Analysis: analysis, Model: model, Timestamp: now, Files: []string{}},
		dir:  dir,
	}, nil
}

func (r *Run) Dir() string { return r.dir }

func (r *Run) path(name string) string {
	r.Meta.Files = append(r.Meta.Files, name)
	return filepath.Join(r.dir, name)
}

// Finish stores summary in the metadata and writes metadata.json.
func (r *Run) Finish(summary any) error {
	if summary != nil {
		data, err := json.Marshal(summary)
		if err != nil {
			return err
		}
		r.Meta.Summary = data
	}

	f, err := createExclusive(filepath.Join(r.dir, metadataFile))
	if err != nil {
		return err
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r.Meta); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// List returns the metadata of every finished run, newest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.After(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	return &meta, nil
}

// Table is one CSV file of a run: a time column followed by named
// channels.
type Table struct {
	Name   string      `json:"name"`
	Header []string    `json:"header"`
	Times  []float64   `json:"times"`
	Rows   [][]float64 `json:"rows"`
}

// Column returns the values of the named channel.
func (t *Table) Column(name string) ([]float64, bool) {
	for i, h := range t.Header {
		if h != name || i == 0 {
			continue
		}
		out := make([]float64, len(t.Rows))
		for j, row := range t.Rows {
			if i-1 < len(row) {
				out[j] = row[i-1]
			}
		}
		return out, true
	}
	return nil, false
}

// LoadStates reads a CSV file of a run. An empty file name picks the
// first file the run recorded. Empty cells read as NaN.
func (s *Store) LoadStates(runID, file string) (*Table, error) {
	if file == "" {
		meta, err := s.Load(runID)
		if err != nil {
			return nil, err
		}
		if len(meta.Files) == 0 {
			return nil, dynamo.Invalid("run %s has no recorded files", runID)
		}
		file = meta.Files[0]
	}

	f, err := os.Open(filepath.Join(s.baseDir, runID, filepath.Base(file)))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", file, err)
	}

	t := &Table{Name: file, Times: []float64{}, Rows: [][]float64{}}
	if len(records) == 0 {
		return t, nil
	}
	t.Header = records[0]

	for i, record := range records[1:] {
		if len(record) == 0 {
			continue
		}
		tm, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", file, i+2, err)
		}
		row := make([]float64, 0, len(record)-1)
		for _, field := range record[1:] {
			if field == "" {
				row = append(row, math.NaN())
				continue
			}
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("%s line %d: %w", file, i+2, err)
			}
			row = append(row, v)
		}
		t.Times = append(t.Times, tm)
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// LoadAll reads every CSV file of a run.
func (s *Store) LoadAll(runID string) (*RunMetadata, []*Table, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	tables := make([]*Table, 0, len(meta.Files))
	for _, name := range meta.Files {
		t, err := s.LoadStates(runID, name)
		if err != nil {
			return nil, nil, err
		}
		tables = append(tables, t)
	}
	return meta, tables, nil
}
