package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/san-kum/structdyn/internal/analysis"
	"github.com/san-kum/structdyn/internal/config"
	"github.com/san-kum/structdyn/internal/dynamo"
	"github.com/san-kum/structdyn/internal/material"
	"github.com/san-kum/structdyn/internal/storage"
	"github.com/san-kum/structdyn/internal/viz"
)

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := newTable()
	fmt.Fprintln(w, "ID\tANALYSIS\tMODEL\tTIME\tFINAL TIME\tDT\tFILES\tWARNINGS")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%d\t%d\n",
			run.ID,
			run.Analysis,
			run.Model,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			optional(run.FinalTime, "s"),
			optional(run.TimeStep, "s"),
			len(run.Files),
			len(run.Warnings),
		)
	}
	return w.Flush()
}

func optional(v float64, unit string) string {
	if v == 0 {
		return "-"
	}
	return fmt.Sprintf("%g%s", v, unit)
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	t, err := st.LoadStates(runID, fileName)
	if err != nil {
		return err
	}
	if len(t.Rows) == 0 {
		return dynamo.Invalid("no data to plot in %s", t.Name)
	}

	names := columns
	if len(names) == 0 {
		names = storage.DisplacementColumns(t)
	}
	if len(names) == 0 {
		return dynamo.Invalid("no displacement columns in %s, use --columns", t.Name)
	}

	fmt.Println(viz.Metric("run", meta.ID, 8))
	fmt.Println(viz.Metric("model", meta.Model, 8))
	fmt.Println(viz.Metric("file", t.Name, 8))
	fmt.Println(viz.Metric("samples", len(t.Rows), 8))
	fmt.Println()

	var step float64
	if spectrum {
		if t.Header[0] != "time" || len(t.Times) < 2 {
			return dynamo.Invalid("%s is not a time history", t.Name)
		}
		step = t.Times[1] - t.Times[0]
	}

	for _, name := range names {
		data, ok := t.Column(name)
		if !ok {
			return dynamo.Invalid("unknown column %q in %s", name, t.Name)
		}
		if !spectrum {
			fmt.Println(viz.Plot(data, name+" vs "+t.Header[0], plotWidth, plotHeight))
			fmt.Println()
			continue
		}

		ps := analysis.PowerSpectrum(data)
		if len(ps) == 0 {
			continue
		}
		fmt.Println(viz.Plot(ps[:max(len(ps)/4, 1)], "power spectrum ("+name+")", plotWidth, plotHeight))
		freq := analysis.DominantFrequency(data, step)
		fmt.Println(viz.Metric("dominant frequency", fmt.Sprintf("%.3f hz", freq), 20))
		if freq > 0 {
			fmt.Println(viz.Metric("period", fmt.Sprintf("%.3f s", 1/freq), 20))
		}
		fmt.Println()
	}
	return nil
}

func pickTable(tables []*storage.Table, name string) (*storage.Table, error) {
	if len(tables) == 0 {
		return nil, dynamo.Invalid("run has no recorded files")
	}
	if name == "" {
		return tables[0], nil
	}
	for _, t := range tables {
		if t.Name == filepath.Base(name) {
			return t, nil
		}
	}
	return nil, dynamo.Invalid("run has no file %q", name)
}

func exportRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, tables, err := st.LoadAll(runID)
	if err != nil {
		return err
	}

	var (
		render func(io.Writer) error
		ext    string
	)
	switch strings.ToLower(format) {
	case "json":
		render, ext = func(w io.Writer) error { return storage.ExportJSON(w, meta, tables) }, ".json"
		if outPath == "" {
			return render(os.Stdout)
		}
	case "xlsx":
		render, ext = func(w io.Writer) error { return storage.ExportXLSX(w, meta, tables) }, ".xlsx"
	case "png":
		t, err := pickTable(tables, fileName)
		if err != nil {
			return err
		}
		render = func(w io.Writer) error { return storage.ExportPNG(w, t, columns, meta.ID+" "+t.Name) }
		ext = "_" + strings.TrimSuffix(t.Name, filepath.Ext(t.Name)) + ".png"
	default:
		return dynamo.Invalid("unknown export format %q, want json, xlsx or png", format)
	}

	path := outPath
	if path == "" {
		path = filepath.Join(st.BaseDir(), meta.ID, meta.ID+ext)
	}
	f, err := storage.CreateFile(path)
	if err != nil {
		return err
	}
	if err := render(f); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Printf("exported %s\n", path)
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	names := config.Analyses()
	if len(args) == 1 {
		names = args[:1]
	}
	for _, name := range names {
		presets := config.ListPresets(name)
		if len(presets) == 0 {
			fmt.Printf("no presets for analysis: %s\n", name)
			continue
		}
		fmt.Printf("presets for %s:\n", viz.TitleStyle.Render(name))
		for _, p := range presets {
			fmt.Printf("  %s\n", p)
		}
	}
	return nil
}

func listMaterials(cmd *cobra.Command, args []string) error {
	w := newTable()
	fmt.Fprintln(w, "NAME\tE (GPa)\tYIELD (MPa)\tTENSILE (MPa)\tDENSITY (kg/m³)")
	for _, name := range material.List() {
		m, err := material.Get(name)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%g\t%g\t%g\t%g\n", m.Name, m.YoungModulus/1e9, m.YieldStrength/1e6, m.TensileStrength/1e6, m.SpecificMass)
	}
	return w.Flush()
}

func writeConfig(cmd *cobra.Command, args []string) error {
	path := args[0]
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%w: %s", dynamo.ErrIOConflict, path)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	cfg := config.DefaultConfig()
	if preset != "" {
		if initAnalysis == "" {
			return dynamo.Invalid("--preset needs --analysis (one of %v)", config.Analyses())
		}
		if cfg = config.GetPreset(initAnalysis, preset); cfg == nil {
			return dynamo.Invalid("unknown preset %q for %s (available: %v)", preset, initAnalysis, config.ListPresets(initAnalysis))
		}
	}
	if err := config.Save(path, cfg); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}
