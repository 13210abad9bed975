package storage

import (
	"fmt"
	"io"
	"math"
	"time"

	"github.com/phpdave11/gofpdf"

	"github.com/san-kum/structdyn/internal/analysis"
)

var segmentColumns = []string{"Member", "Force (N)", "Stress (MPa)", "Stress SF", "Pcr (N)", "Buckling SF"}

var segmentWidths = []float64{46, 26, 28, 24, 28, 26}

func formatFactor(v float64) string {
	if v == math.MaxFloat64 || math.IsInf(v, 1) {
		return "unloaded"
	}
	return fmt.Sprintf("%.2f", v)
}

func segmentRow(name string, s analysis.SegmentResult) []string {
	return []string{
		name,
		fmt.Sprintf("%.1f", s.AppliedForce),
		fmt.Sprintf("%.2f", s.EquivalentStress/1e6),
		formatFactor(s.StressSafetyFactor),
		fmt.Sprintf("%.0f", s.CriticalBucklingForce),
		formatFactor(s.BucklingSafetyFactor),
	}
}

func newReport(title, subtitle string) *gofpdf.Fpdf {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, title)
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, subtitle)
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Date: %s", time.Now().Format("2006-01-02")))
	pdf.Ln(10)
	return pdf
}

func table(pdf *gofpdf.Fpdf, header []string, widths []float64, rows [][]string) {
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(220, 220, 220)
	for i, h := range header {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	for _, row := range rows {
		for i, cell := range row {
			align := "R"
			if i == 0 {
				align = "L"
			}
			pdf.CellFormat(widths[i], 6, cell, "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}
	pdf.Ln(4)
}

// WriteStaticReport renders the member checks of a static analysis.
func WriteStaticReport(w io.Writer, title string, res analysis.StaticResult) error {
	pdf := newReport(title, "Static analysis of a double wishbone suspension")

	table(pdf, segmentColumns, segmentWidths, [][]string{
		segmentRow("Lower wishbone front", res.LowerWishbone.FrontSegment),
		segmentRow("Lower wishbone rear", res.LowerWishbone.RearSegment),
		segmentRow("Upper wishbone front", res.UpperWishbone.FrontSegment),
		segmentRow("Upper wishbone rear", res.UpperWishbone.RearSegment),
		segmentRow("Tie rod", res.TieRod),
	})

	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, fmt.Sprintf("Shock absorber force: %.1f N", res.ShockAbsorber.Magnitude))
	pdf.Ln(6)
	balance := "Reactions balance the applied force."
	if !res.Balanced {
		balance = "Warning: reactions do not balance the applied force."
	}
	pdf.Cell(0, 6, balance)
	pdf.Ln(6)

	return pdf.Output(w)
}

var fatigueColumns = []string{"Member", "Stress SF", "Buckling SF", "Seq (MPa)", "Cycles", "Fatigue SF"}

func fatigueRow(name string, s analysis.SegmentFatigue) []string {
	cycles := "infinite"
	if s.Fatigue.NumberOfCycles != math.MaxFloat64 {
		cycles = fmt.Sprintf("%.3g", s.Fatigue.NumberOfCycles)
	}
	return []string{
		name,
		formatFactor(s.StressSafetyFactor),
		formatFactor(s.BucklingSafetyFactor),
		fmt.Sprintf("%.2f", s.Fatigue.EquivalentStress/1e6),
		cycles,
		formatFactor(s.Fatigue.SafetyFactor),
	}
}

// WriteFatigueReport renders the fatigue life of every member.
func WriteFatigueReport(w io.Writer, title string, res analysis.FatigueResult) error {
	pdf := newReport(title, "Fatigue analysis of a double wishbone suspension")

	table(pdf, fatigueColumns, segmentWidths, [][]string{
		fatigueRow("Lower wishbone front", res.LowerWishbone.FrontSegment),
		fatigueRow("Lower wishbone rear", res.LowerWishbone.RearSegment),
		fatigueRow("Upper wishbone front", res.UpperWishbone.FrontSegment),
		fatigueRow("Upper wishbone rear", res.UpperWishbone.RearSegment),
		fatigueRow("Tie rod", res.TieRod),
	})

	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, fmt.Sprintf("Shock absorber: amplitude %.1f N, mean %.1f N",
		res.ShockAbsorber.ForceAmplitude, res.ShockAbsorber.MeanForce))
	pdf.Ln(6)

	return pdf.Output(w)
}
