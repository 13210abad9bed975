package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/san-kum/structdyn/internal/analysis"
	"github.com/san-kum/structdyn/internal/config"
	"github.com/san-kum/structdyn/internal/dynamo"
	"github.com/san-kum/structdyn/internal/reaction"
	"github.com/san-kum/structdyn/internal/storage"
	"github.com/san-kum/structdyn/internal/viz"
)

// loadConfig builds the configuration of an analysis: defaults or the
// named preset, then the config file over it. Flags are applied by the
// callers, only where the user set them.
func loadConfig(cmd *cobra.Command, analysisName string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(analysisName, preset)
		if cfg == nil {
			return nil, dynamo.Invalid("unknown preset %q for %s (available: %v)", preset, analysisName, config.ListPresets(analysisName))
		}
	}
	if configFile != "" {
		var err error
		if cfg, err = config.LoadOver(configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}
	if !cmd.Flags().Changed("data") && cfg.OutputDir != "" {
		dataDir = cfg.OutputDir
	}
	return cfg, nil
}

func vectorFlag(cmd *cobra.Command, name, value string, dst *reaction.Vector3) error {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, err := reaction.ParseVector3(value)
	if err != nil {
		return fmt.Errorf("--%s: %w", name, err)
	}
	*dst = v
	return nil
}

func decimalsFlag(cmd *cobra.Command, current *int) *int {
	if cmd.Flags().Changed("decimals") || current == nil {
		d := decimals
		return &d
	}
	return current
}

// writeReport renders a PDF to a new file; an existing file is a conflict.
func writeReport(path string, render func(io.Writer) error) error {
	f, err := storage.CreateFile(path)
	if err != nil {
		return err
	}
	if err := render(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func runReactions(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, config.Static)
	if err != nil {
		return err
	}
	req := *cfg.Static
	if err := vectorFlag(cmd, "force", force, &req.AppliedForce); err != nil {
		return err
	}

	res, err := reaction.Solve(req.AppliedForce, req.Geometry)
	if err != nil {
		return err
	}
	f, m := reaction.Residual(res, req.AppliedForce, req.Geometry)
	printReactions(res.Round(decimals), f, m)
	return nil
}

func runStatic(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, config.Static)
	if err != nil {
		return err
	}
	req := *cfg.Static
	if err := vectorFlag(cmd, "force", force, &req.AppliedForce); err != nil {
		return err
	}
	if cmd.Flags().Changed("material") {
		req.Material = matName
	}
	req.Decimals = decimalsFlag(cmd, req.Decimals)

	res, err := analysis.RunStatic(cmd.Context(), req)
	if err != nil {
		return err
	}
	printStatic(res)

	run, err := storage.New(dataDir).Create(config.Static, "suspension")
	if err != nil {
		return err
	}
	if !res.Balanced {
		run.Meta.Warnings = append(run.Meta.Warnings, "equilibrium residual above precision")
	}
	if reportFile != "" {
		if err := writeReport(reportFile, func(w io.Writer) error {
			return storage.WriteStaticReport(w, "Static analysis "+run.Meta.ID, res)
		}); err != nil {
			return err
		}
		fmt.Printf("report: %s\n", reportFile)
	}
	if err := run.Finish(res); err != nil {
		return err
	}
	fmt.Printf("run id: %s\n", run.Meta.ID)
	return nil
}

func runKnuckle(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, config.Knuckle)
	if err != nil {
		return err
	}
	req := *cfg.Knuckle
	if err := vectorFlag(cmd, "force", force, &req.AppliedForce); err != nil {
		return err
	}
	if cmd.Flags().Changed("position") {
		req.Load.Position = reaction.Position(position)
	}
	req.Decimals = decimalsFlag(cmd, req.Decimals)

	res, err := analysis.RunKnuckle(cmd.Context(), req)
	if err != nil {
		return err
	}
	printKnuckle(res)

	run, err := storage.New(dataDir).Create(config.Knuckle, "suspension")
	if err != nil {
		return err
	}
	if !res.Balanced {
		run.Meta.Warnings = append(run.Meta.Warnings, "equilibrium residual above precision")
	}
	if err := run.Finish(res); err != nil {
		return err
	}
	fmt.Printf("run id: %s\n", run.Meta.ID)
	return nil
}

func runFatigue(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, config.Fatigue)
	if err != nil {
		return err
	}
	req := *cfg.Fatigue
	if err := vectorFlag(cmd, "max", maxForce, &req.MaximumForce); err != nil {
		return err
	}
	if err := vectorFlag(cmd, "min", minForce, &req.MinimumForce); err != nil {
		return err
	}
	if cmd.Flags().Changed("material") {
		req.Material = matName
	}
	if cmd.Flags().Changed("finish") {
		req.SurfaceFinish = finish
	}
	if cmd.Flags().Changed("reliability") {
		req.Reliability = reliability
	}
	req.Decimals = decimalsFlag(cmd, req.Decimals)

	res, err := analysis.RunFatigue(cmd.Context(), req, nil)
	if err != nil {
		return err
	}
	printFatigue(res)

	run, err := storage.New(dataDir).Create(config.Fatigue, "suspension")
	if err != nil {
		return err
	}
	if reportFile != "" {
		if err := writeReport(reportFile, func(w io.Writer) error {
			return storage.WriteFatigueReport(w, "Fatigue analysis "+run.Meta.ID, res)
		}); err != nil {
			return err
		}
		fmt.Printf("report: %s\n", reportFile)
	}
	if err := run.Finish(res); err != nil {
		return err
	}
	fmt.Printf("run id: %s\n", run.Meta.ID)
	return nil
}

// vehicleName picks the model from the argument, then from the config,
// then falls back to the half-car.
func vehicleName(args []string, fallback string) string {
	if len(args) == 1 {
		return args[0]
	}
	switch fallback {
	case config.HalfCar, config.QuarterCar, config.TwoMass:
		return fallback
	}
	return config.HalfCar
}

func dynamicOptions(cmd *cobra.Command, opts analysis.DynamicOptions) analysis.DynamicOptions {
	if cmd.Flags().Changed("dt") {
		opts.TimeStep = dt
	}
	if cmd.Flags().Changed("time") {
		opts.FinalTime = finalTime
	}
	if cmd.Flags().Changed("large") {
		opts.LargeDisplacements = largeDispl
	}
	opts.Decimals = decimalsFlag(cmd, opts.Decimals)
	return opts
}

func runDynamic(cmd *cobra.Command, args []string) error {
	name := vehicleName(args, "")
	cfg, err := loadConfig(cmd, name)
	if err != nil {
		return err
	}
	name = vehicleName(args, cfg.Analysis)
	m, err := cfg.Model(name)
	if err != nil {
		return err
	}
	opts := dynamicOptions(cmd, cfg.Dynamic)
	if err := analysis.ValidateDynamic(opts); err != nil {
		return err
	}

	run, err := storage.New(dataDir).Create(name, m.Name())
	if err != nil {
		return err
	}
	run.Meta.TimeStep, run.Meta.FinalTime = opts.TimeStep, opts.FinalTime
	run.Meta.Params = m.GetParams()

	rec, err := run.Recorder(m.Channels(), m.DeformationChannels())
	if err != nil {
		return err
	}

	fmt.Printf("running %s simulation...\n", name)
	start := time.Now()
	res, runErr := analysis.RunDynamic(cmd.Context(), m, opts, rec)
	elapsed := time.Since(start)

	closeErr := rec.Close()
	if runErr != nil {
		run.Meta.Warnings = append(run.Meta.Warnings, runErr.Error())
	}
	finishErr := run.Finish(res)

	fmt.Printf("completed in %v\n", elapsed.Round(time.Millisecond))
	printDynamic(res)
	if finishErr == nil {
		fmt.Printf("run id: %s\n", run.Meta.ID)
	}
	return errors.Join(runErr, closeErr, finishErr)
}

func runBeam(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, config.Beam)
	if err != nil {
		return err
	}
	req := *cfg.Beam
	if cmd.Flags().Changed("elements") {
		req.NumberOfElements = elements
	}
	if cmd.Flags().Changed("material") {
		req.Material = matName
	}
	if cmd.Flags().Changed("w0") {
		req.InitialAngularFrequency = omegaStart
	}
	if cmd.Flags().Changed("w1") {
		req.FinalAngularFrequency = omegaEnd
	}
	if cmd.Flags().Changed("dw") {
		req.AngularFrequencyStep = omegaStep
	}
	req.Decimals = decimalsFlag(cmd, req.Decimals)
	if err := req.Validate(); err != nil {
		return err
	}

	run, err := storage.New(dataDir).Create(config.Beam, "beam")
	if err != nil {
		return err
	}
	run.Meta.Params = map[string]float64{
		"number_of_elements": float64(req.NumberOfElements),
		"length":             req.Length,
	}

	fmt.Printf("running %d angular frequencies...\n", len(req.Frequencies()))
	res, runErr := analysis.RunBeam(cmd.Context(), req, run.FrequencyRecorders())
	if runErr != nil {
		run.Meta.Warnings = append(run.Meta.Warnings, runErr.Error())
	}
	finishErr := run.Finish(res)

	printBeam(res)
	if finishErr == nil {
		fmt.Printf("run id: %s\n", run.Meta.ID)
	}
	return errors.Join(runErr, finishErr)
}

// parseSweepParam reads name=v1,v2,...
func parseSweepParam(s string) (analysis.SweepParameter, error) {
	name, list, ok := strings.Cut(s, "=")
	if !ok || strings.TrimSpace(name) == "" || list == "" {
		return analysis.SweepParameter{}, dynamo.Invalid("sweep parameter %q: want name=v1,v2,...", s)
	}
	p := analysis.SweepParameter{Name: strings.TrimSpace(name)}
	for _, field := range strings.Split(list, ",") {
		v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
		if err != nil {
			return analysis.SweepParameter{}, dynamo.Invalid("sweep parameter %q: %v", s, err)
		}
		p.Values = append(p.Values, v)
	}
	return p, nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, config.Sweep)
	if err != nil {
		return err
	}
	if len(args) == 1 {
		cfg.SweepModel = args[0]
	}
	base, err := cfg.SweepBase()
	if err != nil {
		return err
	}
	if len(sweepParams) > 0 {
		cfg.Sweep = nil
		for _, s := range sweepParams {
			p, err := parseSweepParam(s)
			if err != nil {
				return err
			}
			cfg.Sweep = append(cfg.Sweep, p)
		}
	}
	cfg.Dynamic = dynamicOptions(cmd, cfg.Dynamic)
	if cmd.Flags().Changed("workers") {
		cfg.Workers = workers
	}
	req := cfg.SweepRequest()
	total := len(analysis.Grid(req.Parameters))

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	var res analysis.SweepResult
	var sweepErr error
	if noTUI || !isatty.IsTerminal(os.Stdout.Fd()) {
		res, sweepErr = analysis.RunSweep(ctx, base, req, func(done, total int, item analysis.SweepItem) {
			status := "ok"
			if item.Error != "" {
				status = item.Error
			}
			fmt.Printf("[%d/%d] %s: %s\n", done, total, viz.FormatParams(item.Params), status)
		})
	} else {
		p := tea.NewProgram(viz.NewSweepProgress(total, cancel))
		go func() {
			r, err := analysis.RunSweep(ctx, base, req, viz.Progress(p))
			p.Send(viz.DoneMsg{Result: r, Err: err})
		}()
		final, err := p.Run()
		if err != nil {
			return err
		}
		res, sweepErr = final.(viz.SweepProgress).Result()
	}
	if res.Status == "" {
		return sweepErr
	}

	run, err := storage.New(dataDir).Create(config.Sweep, base.Name())
	if err != nil {
		return err
	}
	run.Meta.TimeStep, run.Meta.FinalTime = req.Options.TimeStep, req.Options.FinalTime
	run.Meta.Warnings = res.Warnings
	writeErr := run.WriteSweep(res, base.Channels())
	finishErr := run.Finish(res)

	printSweep(res, base.Channels())
	if finishErr == nil {
		fmt.Printf("run id: %s\n", run.Meta.ID)
	}
	return errors.Join(sweepErr, writeErr, finishErr)
}
