package storage

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strconv"

	"github.com/san-kum/structdyn/internal/analysis"
	"github.com/san-kum/structdyn/internal/dynamo"
	"github.com/san-kum/structdyn/internal/linalg"
	"github.com/san-kum/structdyn/internal/newmark"
)

// createExclusive fails with dynamo.ErrIOConflict when path exists, so a
// run never overwrites earlier output.
func createExclusive(path string) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if errors.Is(err, fs.ErrExist) {
		return nil, fmt.Errorf("%w: %s already exists", dynamo.ErrIOConflict, path)
	}
	return f, err
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// ResultHeader is the header of a results file: time, then displacement,
// velocity, acceleration and equivalent force per channel.
func ResultHeader(channels []string) []string {
	header := []string{"time"}
	for _, kind := range []string{"displacement", "velocity", "acceleration", "force"} {
		for _, ch := range channels {
			header = append(header, kind+"_"+ch)
		}
	}
	return header
}

// DeformationHeader is the header of a deformation file.
func DeformationHeader(channels []string) []string {
	header := []string{"time"}
	for _, kind := range []string{"deformation", "deformation_velocity", "deformation_acceleration"} {
		for _, ch := range channels {
			header = append(header, kind+"_"+ch)
		}
	}
	return header
}

// IndexedChannels names n unnamed degrees of freedom.
func IndexedChannels(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("dof%d", i)
	}
	return out
}

// CSVRecorder writes every sample of a run. It implements
// analysis.RecordCloser.
type CSVRecorder struct {
	channels    int
	deformation int
	files       []*os.File
	results     *csv.Writer
	deformed    *csv.Writer
}

// OpenCSV creates the results file and, when deformationPath is not empty,
// the deformation file. Both are created exclusively.
func OpenCSV(resultsPath, deformationPath string, channels, deformation []string) (*CSVRecorder, error) {
	rec := &CSVRecorder{channels: len(channels), deformation: len(deformation)}

	f, err := createExclusive(resultsPath)
	if err != nil {
		return nil, err
	}
	rec.files = append(rec.files, f)
	rec.results = csv.NewWriter(f)
	if err := rec.results.Write(ResultHeader(channels)); err != nil {
		rec.Close()
		return nil, err
	}

	if deformationPath != "" {
		f, err := createExclusive(deformationPath)
		if err != nil {
			rec.Close()
			return nil, err
		}
		rec.files = append(rec.files, f)
		rec.deformed = csv.NewWriter(f)
		if err := rec.deformed.Write(DeformationHeader(deformation)); err != nil {
			rec.Close()
			return nil, err
		}
	}
	return rec, nil
}

func appendValues(row []string, v linalg.Vector, n int) []string {
	for i := 0; i < n; i++ {
		x := 0.0
		if i < len(v) {
			x = v[i]
		}
		row = append(row, formatFloat(x))
	}
	return row
}

func (r *CSVRecorder) Record(result, deformation newmark.Result) error {
	row := make([]string, 0, 1+4*r.channels)
	row = append(row, formatFloat(result.Time))
	row = appendValues(row, result.Displacement, r.channels)
	row = appendValues(row, result.Velocity, r.channels)
	row = appendValues(row, result.Acceleration, r.channels)
	row = appendValues(row, result.EquivalentForce, r.channels)
	if err := r.results.Write(row); err != nil {
		return err
	}

	if r.deformed == nil {
		return nil
	}
	row = row[:0]
	row = append(row, formatFloat(result.Time))
	row = appendValues(row, deformation.Displacement, r.deformation)
	row = appendValues(row, deformation.Velocity, r.deformation)
	row = appendValues(row, deformation.Acceleration, r.deformation)
	return r.deformed.Write(row)
}

// Close flushes and closes every file, returning all errors met.
func (r *CSVRecorder) Close() error {
	var errs []error
	for _, w := range []*csv.Writer{r.results, r.deformed} {
		if w == nil {
			continue
		}
		w.Flush()
		errs = append(errs, w.Error())
	}
	for _, f := range r.files {
		errs = append(errs, f.Close())
	}
	r.files = nil
	return errors.Join(errs...)
}

// Recorder opens the CSV files of a dynamic run. The deformation file is
// only written when the model reports deformation channels.
func (r *Run) Recorder(channels, deformation []string) (*CSVRecorder, error) {
	results := r.path("results.csv")
	var deformed string
	if len(deformation) > 0 {
		deformed = r.path("deformation.csv")
	}
	return OpenCSV(results, deformed, channels, deformation)
}

// FrequencyRecorders opens one results file per angular frequency of a
// beam sweep, with one dofN channel per free degree of freedom.
func (r *Run) FrequencyRecorders() analysis.RecorderFactory {
	return func(w float64, free int) (analysis.RecordCloser, error) {
		name := fmt.Sprintf("omega_%s.csv", strconv.FormatFloat(w, 'f', -1, 64))
		return OpenCSV(r.path(name), "", IndexedChannels(free), nil)
	}
}

// WriteSweep writes one row per sweep item: its index, its parameters and
// the peak of every displacement channel. Failed items keep their index
// with empty peaks.
func (r *Run) WriteSweep(res analysis.SweepResult, channels []string) error {
	var names []string
	if len(res.Items) > 0 {
		for name := range res.Items[0].Params {
			names = append(names, name)
		}
		sort.Strings(names)
	}

	f, err := createExclusive(r.path("sweep.csv"))
	if err != nil {
		return err
	}
	w := csv.NewWriter(f)

	header := []string{"index"}
	header = append(header, names...)
	for _, ch := range channels {
		header = append(header, "max_displacement_"+ch)
	}
	if err := w.Write(header); err != nil {
		f.Close()
		return err
	}

	for _, it := range res.Items {
		row := []string{strconv.Itoa(it.Index)}
		for _, name := range names {
			row = append(row, formatFloat(it.Params[name]))
		}
		if it.Error == "" {
			row = appendValues(row, it.Result.Maximum.Displacement, len(channels))
		} else {
			for range channels {
				row = append(row, "")
			}
		}
		if err := w.Write(row); err != nil {
			f.Close()
			return err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
