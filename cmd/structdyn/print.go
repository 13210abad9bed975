package main

import (
	"fmt"
	"math"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/san-kum/structdyn/internal/analysis"
	"github.com/san-kum/structdyn/internal/newmark"
	"github.com/san-kum/structdyn/internal/reaction"
	"github.com/san-kum/structdyn/internal/viz"
)

func newTable() *tabwriter.Writer {
	return tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
}

func header(title string) {
	fmt.Println(viz.HeaderStyle.Render(title))
}

func printReactions(res reaction.Result, force, moment reaction.Vector3) {
	header("reactions")
	w := newTable()
	fmt.Fprintln(w, "MEMBER\tFORCE (N)\tVECTOR")
	for _, f := range res.Reactions {
		fmt.Fprintf(w, "%s\t%s\t%s\n", f.Member, viz.FormatValue(f.Magnitude), f.Vector)
	}
	w.Flush()
	fmt.Println()
	printBalance(reaction.Balanced(force, moment))
	fmt.Println(viz.Metric("residual force", force.String(), 16))
	fmt.Println(viz.Metric("residual moment", moment.String(), 16))
}

func printBalance(balanced bool) {
	if balanced {
		fmt.Println(viz.SuccessStyle.Render("equilibrium satisfied"))
		return
	}
	fmt.Println(viz.WarningStyle.Render("equilibrium residual above precision"))
}

func segmentLine(w *tabwriter.Writer, name string, s analysis.SegmentResult) {
	fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", name,
		viz.FormatValue(s.AppliedForce),
		viz.FormatValue(s.EquivalentStress),
		viz.SafetyFactor(s.StressSafetyFactor),
		viz.FormatValue(s.CriticalBucklingForce),
		viz.SafetyFactor(s.BucklingSafetyFactor))
}

func printStatic(res analysis.StaticResult) {
	header("static analysis")
	w := newTable()
	fmt.Fprintln(w, "MEMBER\tFORCE (N)\tSTRESS (Pa)\tSTRESS SF\tBUCKLING (N)\tBUCKLING SF")
	segmentLine(w, "lower wishbone front", res.LowerWishbone.FrontSegment)
	segmentLine(w, "lower wishbone rear", res.LowerWishbone.RearSegment)
	segmentLine(w, "upper wishbone front", res.UpperWishbone.FrontSegment)
	segmentLine(w, "upper wishbone rear", res.UpperWishbone.RearSegment)
	segmentLine(w, "tie rod", res.TieRod)
	w.Flush()
	fmt.Println()
	fmt.Println(viz.Metric("shock absorber", viz.FormatValue(res.ShockAbsorber.Magnitude)+" N", 16))
	printBalance(res.Balanced)
}

func printKnuckle(res analysis.KnuckleResult) {
	header("steering knuckle")
	k := res.Knuckle
	w := newTable()
	fmt.Fprintln(w, "ATTACHMENT\tFORCE (N)\tVECTOR")
	for _, row := range []struct {
		name string
		v    reaction.Vector3
	}{
		{"upper wishbone", k.UpperWishbone},
		{"lower wishbone", k.LowerWishbone},
		{"tie rod", k.TieRod},
		{"brake caliper support 1", k.BrakeCaliperSupport[0]},
		{"brake caliper support 2", k.BrakeCaliperSupport[1]},
	} {
		fmt.Fprintf(w, "%s\t%s\t%s\n", row.name, viz.FormatValue(row.v.Norm()), row.v)
	}
	w.Flush()
	fmt.Println()
	fmt.Println(viz.Metric("bearing", viz.FormatValue(k.Bearing)+" N", 16))
	if k.UnsupportedTorque != 0 {
		fmt.Println(viz.WarningStyle.Render("caliper supports leave " + viz.FormatValue(k.UnsupportedTorque) + " N·m about their line"))
	}
	printBalance(res.Balanced)
}

func fatigueLine(w *tabwriter.Writer, name string, s analysis.SegmentFatigue) {
	fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", name,
		viz.FormatValue(s.EquivalentStress),
		viz.FormatValue(s.Fatigue.EquivalentStress),
		viz.FormatValue(s.Fatigue.NumberOfCycles),
		viz.SafetyFactor(s.Fatigue.SafetyFactor))
}

func printFatigue(res analysis.FatigueResult) {
	header("fatigue analysis")
	w := newTable()
	fmt.Fprintln(w, "MEMBER\tPEAK STRESS (Pa)\tEQUIVALENT (Pa)\tCYCLES\tFATIGUE SF")
	fatigueLine(w, "lower wishbone front", res.LowerWishbone.FrontSegment)
	fatigueLine(w, "lower wishbone rear", res.LowerWishbone.RearSegment)
	fatigueLine(w, "upper wishbone front", res.UpperWishbone.FrontSegment)
	fatigueLine(w, "upper wishbone rear", res.UpperWishbone.RearSegment)
	fatigueLine(w, "tie rod", res.TieRod)
	w.Flush()
	fmt.Println()
	fmt.Println(viz.Metric("shock amplitude", viz.FormatValue(res.ShockAbsorber.ForceAmplitude)+" N", 16))
	fmt.Println(viz.Metric("shock mean", viz.FormatValue(res.ShockAbsorber.MeanForce)+" N", 16))
}

func at(v []float64, i int) float64 {
	if i < len(v) {
		return v[i]
	}
	return math.NaN()
}

func peakTable(channels []string, peak newmark.Result, freq []float64) {
	w := newTable()
	cols := "CHANNEL\tDISPLACEMENT\tVELOCITY\tACCELERATION\tFORCE"
	if freq != nil {
		cols += "\tDOMINANT (Hz)"
	}
	fmt.Fprintln(w, cols)
	for i, ch := range channels {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s", ch,
			viz.FormatValue(at(peak.Displacement, i)),
			viz.FormatValue(at(peak.Velocity, i)),
			viz.FormatValue(at(peak.Acceleration, i)),
			viz.FormatValue(at(peak.EquivalentForce, i)))
		if freq != nil {
			fmt.Fprintf(w, "\t%s", viz.FormatValue(at(freq, i)))
		}
		fmt.Fprintln(w)
	}
	w.Flush()
}

func printDynamic(res analysis.DynamicResult) {
	fmt.Println(viz.Metric("samples", res.Samples, 8))
	fmt.Println()
	header("peak response")
	peakTable(res.Channels, res.Maximum, res.DominantFrequency)
	if len(res.DeformationChannels) > 0 {
		fmt.Println()
		header("peak deformation")
		peakTable(res.DeformationChannels, res.MaximumDeformation, nil)
	}
}

func maxAbs(v []float64) float64 {
	var m float64
	for _, x := range v {
		m = analysis.MaxAbs(m, x)
	}
	return m
}

func printBeam(res analysis.BeamResult) {
	fmt.Println(viz.Metric("dofs", fmt.Sprintf("%d (%d free)", res.DegreesOfFreedom, res.FreeDegreesOfFreedom), 8))
	if n := len(res.NaturalFrequencies); n > 0 {
		modes := make([]string, min(n, 4))
		for i := range modes {
			modes[i] = viz.FormatValue(res.NaturalFrequencies[i])
		}
		fmt.Println(viz.Metric("modes", strings.Join(modes, "  ")+" rad/s", 8))
	}
	fmt.Println()
	header("peak response per angular frequency")
	w := newTable()
	fmt.Fprintln(w, "OMEGA (rad/s)\tDT (s)\tSAMPLES\tMAX DISPLACEMENT\tMAX ACCELERATION")
	peaks := make([]float64, len(res.Frequencies))
	for i, fr := range res.Frequencies {
		peaks[i] = math.Abs(maxAbs(fr.Maximum.Displacement))
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n",
			viz.FormatValue(fr.AngularFrequency),
			viz.FormatValue(fr.TimeStep),
			fr.Samples,
			viz.FormatValue(maxAbs(fr.Maximum.Displacement)),
			viz.FormatValue(maxAbs(fr.Maximum.Acceleration)))
	}
	w.Flush()
	if len(peaks) > 1 {
		fmt.Println()
		fmt.Println(viz.MetricLabel.Render("response ") + viz.Sparkline(peaks, min(len(peaks), 60)))
	}
}

func printSweep(res analysis.SweepResult, channels []string) {
	header("sweep " + string(res.Status))
	w := newTable()
	cols := []string{"INDEX", "PARAMS"}
	for _, ch := range channels {
		cols = append(cols, "MAX "+strings.ToUpper(ch))
	}
	fmt.Fprintln(w, strings.Join(cols, "\t"))
	for _, it := range res.Items {
		row := []string{fmt.Sprint(it.Index), viz.FormatParams(it.Params)}
		for i := range channels {
			if it.Error != "" {
				row = append(row, "-")
				continue
			}
			row = append(row, viz.FormatValue(at(it.Result.Maximum.Displacement, i)))
		}
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	w.Flush()
	if len(channels) > 0 {
		if best, ok := res.Best(0); ok {
			fmt.Println(viz.Metric("lowest "+channels[0], viz.FormatParams(best.Params), 16))
		}
	}
	for _, warn := range res.Warnings {
		fmt.Println(viz.WarningStyle.Render("warning: ") + warn)
	}
}
