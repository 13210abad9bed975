package storage

import (
	"fmt"
	"io"
	"math"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/san-kum/structdyn/internal/dynamo"
)

// Plot size in inches.
const (
	plotWidth  = 8.0
	plotHeight = 5.0
	plotDPI    = 150
)

// DisplacementColumns returns the displacement channels of a results or
// sweep table, or the deformation channels of a deformation table.
func DisplacementColumns(t *Table) []string {
	var out []string
	for _, h := range t.Header {
		switch {
		case strings.HasPrefix(h, "displacement_"), strings.HasPrefix(h, "max_displacement_"):
		case strings.HasPrefix(h, "deformation_velocity_"), strings.HasPrefix(h, "deformation_acceleration_"):
			continue
		case strings.HasPrefix(h, "deformation_"):
		default:
			continue
		}
		out = append(out, h)
	}
	return out
}

// ExportPNG draws columns of t against time. No columns means every
// displacement channel.
func ExportPNG(w io.Writer, t *Table, columns []string, title string) error {
	if len(columns) == 0 {
		columns = DisplacementColumns(t)
	}
	if len(columns) == 0 || len(t.Times) == 0 {
		return dynamo.Invalid("nothing to plot in %s", t.Name)
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = t.Header[0]
	p.Y.Label.Text = "value"
	p.Add(plotter.NewGrid())

	for i, name := range columns {
		values, ok := t.Column(name)
		if !ok {
			return dynamo.Invalid("%s has no column %q", t.Name, name)
		}
		pts := make(plotter.XYs, 0, len(values))
		for j, v := range values {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			pts = append(pts, plotter.XY{X: t.Times[j], Y: v})
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return fmt.Errorf("column %s: %w", name, err)
		}
		line.LineStyle.Width = vg.Points(1.5)
		line.LineStyle.Color = plotutil.Color(i)
		p.Add(line)
		p.Legend.Add(name, line)
	}
	p.Legend.Top = true

	c := vgimg.NewWith(
		vgimg.UseWH(vg.Length(plotWidth)*vg.Inch, vg.Length(plotHeight)*vg.Inch),
		vgimg.UseDPI(plotDPI),
	)
	p.Draw(draw.New(c))

	png := vgimg.PngCanvas{Canvas: c}
	if _, err := png.WriteTo(w); err != nil {
		return fmt.Errorf("writing png: %w", err)
	}
	return nil
}
