package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/san-kum/structdyn/internal/config"
	"github.com/san-kum/structdyn/internal/dynamo"
	"github.com/san-kum/structdyn/internal/viz"
)

var (
	dataDir    string
	configFile string
	preset     string
	theme      string

	// analysis overrides
	dt          float64
	finalTime   float64
	largeDispl  bool
	decimals    int
	workers     int
	force       string
	maxForce    string
	minForce    string
	matName     string
	finish      string
	reliability string
	reportFile  string
	position    string
	elements    int
	omegaStart  float64
	omegaEnd    float64
	omegaStep   float64
	sweepParams []string
	noTUI       bool

	// inspection
	fileName   string
	columns    []string
	spectrum   bool
	format     string
	outPath    string
	plotWidth  int
	plotHeight int

	addr         string
	initAnalysis string
)

const defaultDecimals = 4

// main registers the commands and exits with status 1 on error, 2 when the
// request itself was rejected.
func main() {
	rootCmd := &cobra.Command{
		Use:           "structdyn",
		Short:         "structural and vehicle dynamics analyses",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("theme") {
				return viz.SetTheme(theme)
			}
			return nil
		},
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", config.DefaultOutputDir, "run directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "use preset configuration")
	rootCmd.PersistentFlags().StringVar(&theme, "theme", viz.CurrentTheme.Name, "colour theme")

	reactionsCmd := &cobra.Command{
		Use:   "reactions",
		Short: "solve the member reactions of a suspension corner",
		Args:  cobra.NoArgs,
		RunE:  runReactions,
	}
	reactionsCmd.Flags().StringVar(&force, "force", "", "applied force x,y,z in N")
	reactionsCmd.Flags().IntVar(&decimals, "decimals", defaultDecimals, "decimals of the reported values")

	staticCmd := &cobra.Command{
		Use:   "static",
		Short: "static stress and buckling check of a suspension corner",
		Args:  cobra.NoArgs,
		RunE:  runStatic,
	}
	staticCmd.Flags().StringVar(&force, "force", "", "applied force x,y,z in N")
	staticCmd.Flags().StringVar(&matName, "material", "", "member material")
	staticCmd.Flags().IntVar(&decimals, "decimals", defaultDecimals, "decimals of the reported values")
	staticCmd.Flags().StringVar(&reportFile, "report", "", "write a PDF report to this path")

	knuckleCmd := &cobra.Command{
		Use:   "knuckle",
		Short: "forces on the steering knuckle of a suspension corner",
		Args:  cobra.NoArgs,
		RunE:  runKnuckle,
	}
	knuckleCmd.Flags().StringVar(&force, "force", "", "applied force x,y,z in N")
	knuckleCmd.Flags().StringVar(&position, "position", "", "front or rear")
	knuckleCmd.Flags().IntVar(&decimals, "decimals", defaultDecimals, "decimals of the reported values")

	fatigueCmd := &cobra.Command{
		Use:   "fatigue",
		Short: "fatigue check of a suspension corner under a cycling force",
		Args:  cobra.NoArgs,
		RunE:  runFatigue,
	}
	fatigueCmd.Flags().StringVar(&maxForce, "max", "", "maximum applied force x,y,z in N")
	fatigueCmd.Flags().StringVar(&minForce, "min", "", "minimum applied force x,y,z in N")
	fatigueCmd.Flags().StringVar(&matName, "material", "", "member material")
	fatigueCmd.Flags().StringVar(&finish, "finish", "", "surface finish")
	fatigueCmd.Flags().StringVar(&reliability, "reliability", "", "reliability in percent")
	fatigueCmd.Flags().IntVar(&decimals, "decimals", defaultDecimals, "decimals of the reported values")
	fatigueCmd.Flags().StringVar(&reportFile, "report", "", "write a PDF report to this path")

	dynamicCmd := &cobra.Command{
		Use:       "dynamic [half-car|quarter-car|two-mass]",
		Short:     "time response of a vehicle model",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{config.HalfCar, config.QuarterCar, config.TwoMass},
		RunE:      runDynamic,
	}
	dynamicFlags(dynamicCmd)

	beamCmd := &cobra.Command{
		Use:   "beam",
		Short: "harmonic frequency sweep of a finite element beam",
		Args:  cobra.NoArgs,
		RunE:  runBeam,
	}
	beamCmd.Flags().IntVar(&elements, "elements", 0, "number of elements")
	beamCmd.Flags().StringVar(&matName, "material", "", "beam material")
	beamCmd.Flags().Float64Var(&omegaStart, "w0", 0, "initial angular frequency (rad/s)")
	beamCmd.Flags().Float64Var(&omegaEnd, "w1", 0, "final angular frequency (rad/s)")
	beamCmd.Flags().Float64Var(&omegaStep, "dw", 0, "angular frequency step (rad/s)")
	beamCmd.Flags().IntVar(&decimals, "decimals", defaultDecimals, "decimals of the reported values")

	sweepCmd := &cobra.Command{
		Use:       "sweep [half-car|quarter-car|two-mass]",
		Short:     "run a vehicle model over a parameter grid",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{config.HalfCar, config.QuarterCar, config.TwoMass},
		RunE:      runSweep,
	}
	dynamicFlags(sweepCmd)
	sweepCmd.Flags().StringArrayVar(&sweepParams, "param", nil, "swept parameter name=v1,v2,... (repeatable)")
	sweepCmd.Flags().IntVar(&workers, "workers", 0, "concurrent runs")
	sweepCmd.Flags().BoolVar(&noTUI, "no-tui", false, "print progress lines instead of the progress view")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run results in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&fileName, "file", "", "recorded file (default: the first)")
	plotCmd.Flags().StringSliceVar(&columns, "columns", nil, "columns to plot (default: displacements)")
	plotCmd.Flags().BoolVar(&spectrum, "spectrum", false, "plot the power spectrum instead")
	plotCmd.Flags().IntVar(&plotWidth, "width", viz.DefaultPlotWidth, "plot width")
	plotCmd.Flags().IntVar(&plotHeight, "height", viz.DefaultPlotHeight, "plot height")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export a run as json, xlsx or png",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().StringVar(&format, "format", "json", "json, xlsx or png")
	exportCmd.Flags().StringVarP(&outPath, "out", "o", "", "output path (default: stdout for json, the run directory otherwise)")
	exportCmd.Flags().StringVar(&fileName, "file", "", "recorded file drawn by png (default: the first)")
	exportCmd.Flags().StringSliceVar(&columns, "columns", nil, "columns drawn by png (default: displacements)")

	presetsCmd := &cobra.Command{
		Use:   "presets [analysis]",
		Short: "list presets",
		Args:  cobra.MaximumNArgs(1),
		RunE:  listPresets,
	}

	materialsCmd := &cobra.Command{
		Use:   "materials",
		Short: "list the material table",
		Args:  cobra.NoArgs,
		RunE:  listMaterials,
	}

	initCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "write a config file from the defaults or a preset",
		Args:  cobra.ExactArgs(1),
		RunE:  writeConfig,
	}
	initCmd.Flags().StringVar(&initAnalysis, "analysis", "", "analysis of --preset")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "serve the analyses over HTTP",
		Args:  cobra.NoArgs,
		RunE:  serve,
	}
	serveCmd.Flags().StringVar(&addr, "addr", "", "listen address (default from STRUCTDYN_ADDR or :8080)")
	serveCmd.Flags().IntVar(&workers, "workers", 0, "concurrent runs per sweep")

	rootCmd.AddCommand(reactionsCmd, staticCmd, knuckleCmd, fatigueCmd, dynamicCmd, beamCmd, sweepCmd,
		listCmd, plotCmd, exportCmd, presetsCmd, materialsCmd, initCmd, serveCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, viz.ErrorStyle.Render("error:"), err)
		if errors.Is(err, dynamo.ErrInvalidRequest) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func dynamicFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultTimeStep, "time step (s)")
	cmd.Flags().Float64Var(&finalTime, "time", config.DefaultFinalTime, "final time (s)")
	cmd.Flags().BoolVar(&largeDispl, "large", false, "large displacement transform of the angular channel")
	cmd.Flags().IntVar(&decimals, "decimals", defaultDecimals, "decimals of the reported values")
}
