package viz

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	TitleStyle   lipgloss.Style
	HeaderStyle  lipgloss.Style
	Subtle       lipgloss.Style
	MetricLabel  lipgloss.Style
	MetricValue  lipgloss.Style
	SuccessStyle lipgloss.Style
	WarningStyle lipgloss.Style
	ErrorStyle   lipgloss.Style
)

func init() { applyTheme(CurrentTheme) }

func applyTheme(t Theme) {
	TitleStyle = lipgloss.NewStyle().Bold(true).Foreground(t.Title)
	HeaderStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Value).
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(t.Muted)
	Subtle = lipgloss.NewStyle().Foreground(t.Muted)
	MetricLabel = lipgloss.NewStyle().Foreground(t.Label)
	MetricValue = lipgloss.NewStyle().Bold(true).Foreground(t.Value)
	SuccessStyle = lipgloss.NewStyle().Bold(true).Foreground(t.Success)
	WarningStyle = lipgloss.NewStyle().Bold(true).Foreground(t.Warning)
	ErrorStyle = lipgloss.NewStyle().Bold(true).Foreground(t.Error)
}

// Metric renders one "label value" line, the label padded to width.
func Metric(label string, value any, width int) string {
	var v string
	switch x := value.(type) {
	case float64:
		v = FormatValue(x)
	default:
		v = fmt.Sprint(x)
	}
	return MetricLabel.Render(fmt.Sprintf("%-*s", width, label)) + " " + MetricValue.Render(v)
}

// FormatValue prints a float compactly. math.MaxFloat64 marks a member
// without load and prints as "unloaded".
func FormatValue(v float64) string {
	switch {
	case v == math.MaxFloat64:
		return "unloaded"
	case math.IsNaN(v):
		return "-"
	}
	return fmt.Sprintf("%.6g", v)
}

// SafetyFactor colours a safety factor: below 1 fails, below 1.5 warns.
func SafetyFactor(sf float64) string {
	s := FormatValue(sf)
	switch {
	case sf < 1:
		return ErrorStyle.Render(s)
	case sf < 1.5:
		return WarningStyle.Render(s)
	}
	return SuccessStyle.Render(s)
}

// ProgressBar renders a bar with fraction filled, clamped to [0, 1].
func ProgressBar(fraction float64, width int) string {
	if width <= 0 {
		return ""
	}
	filled := int(math.Round(fraction * float64(width)))
	filled = max(0, min(filled, width))
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	if fraction >= 1 {
		return SuccessStyle.Render(bar)
	}
	return MetricValue.Render(bar)
}

var sparkChars = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Sparkline squeezes values into width characters. NaN samples are drawn
// as spaces.
func Sparkline(values []float64, width int) string {
	if width <= 0 {
		return ""
	}
	if len(values) == 0 {
		return strings.Repeat("─", width)
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		lo, hi = math.Min(lo, v), math.Max(hi, v)
	}
	span := hi - lo
	if span == 0 || math.IsInf(span, 0) {
		span = 1
	}

	step := max(len(values)/width, 1)
	var b strings.Builder
	for i := 0; i < width && i*step < len(values); i++ {
		v := values[i*step]
		if math.IsNaN(v) {
			b.WriteRune(' ')
			continue
		}
		idx := int((v - lo) / span * float64(len(sparkChars)-1))
		b.WriteRune(sparkChars[max(0, min(idx, len(sparkChars)-1))])
	}
	return MetricValue.Render(b.String())
}
