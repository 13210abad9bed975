package viz

import (
	"math"

	"github.com/guptarohit/asciigraph"
)

const (
	DefaultPlotWidth  = 80
	DefaultPlotHeight = 10
)

// finite drops NaN and infinite samples, which mark missing cells.
func finite(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out = append(out, v)
		}
	}
	return out
}

// Plot draws one channel. It returns "" when there is nothing finite to
// draw.
func Plot(values []float64, caption string, width, height int) string {
	data := finite(values)
	if len(data) == 0 {
		return ""
	}
	return asciigraph.Plot(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
	)
}

// PlotMany overlays several channels of the same length, each in its own
// colour. Empty series are skipped.
func PlotMany(series [][]float64, caption string, width, height int) string {
	var data [][]float64
	for _, s := range series {
		if f := finite(s); len(f) > 0 {
			data = append(data, f)
		}
	}
	if len(data) == 0 {
		return ""
	}
	colors := []asciigraph.AnsiColor{
		asciigraph.Cyan, asciigraph.Yellow, asciigraph.Green,
		asciigraph.Magenta, asciigraph.Red, asciigraph.Blue,
	}
	return asciigraph.PlotMany(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
		asciigraph.SeriesColors(colors[:min(len(data), len(colors))]...),
	)
}
