package viz

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/structdyn/internal/analysis"
)

// ProgressMsg reports one finished sweep item.
type ProgressMsg struct {
	Done, Total int
	Item        analysis.SweepItem
}

// DoneMsg ends the sweep.
type DoneMsg struct {
	Result analysis.SweepResult
	Err    error
}

// SweepProgress follows a running sweep. Ctrl+C calls cancel and waits for
// the DoneMsg of the interrupted sweep.
type SweepProgress struct {
	done, total int
	failed      int
	last        analysis.SweepItem
	cancel      func()
	cancelled   bool
	finished    bool
	result      analysis.SweepResult
	err         error
	width       int
}

func NewSweepProgress(total int, cancel func()) SweepProgress {
	return SweepProgress{total: total, cancel: cancel, width: 40}
}

// Progress adapts a running tea program to analysis.ProgressFunc.
func Progress(p *tea.Program) analysis.ProgressFunc {
	return func(done, total int, item analysis.SweepItem) {
		p.Send(ProgressMsg{Done: done, Total: total, Item: item})
	}
}

func (m SweepProgress) Init() tea.Cmd { return nil }

func (m SweepProgress) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			if !m.cancelled && m.cancel != nil {
				m.cancel()
			}
			m.cancelled = true
		}
	case tea.WindowSizeMsg:
		m.width = max(10, min(msg.Width-30, 60))
	case ProgressMsg:
		m.done, m.total, m.last = msg.Done, msg.Total, msg.Item
		if msg.Item.Error != "" {
			m.failed++
		}
	case DoneMsg:
		m.finished = true
		m.result, m.err = msg.Result, msg.Err
		return m, tea.Quit
	}
	return m, nil
}

func (m SweepProgress) View() string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render("parameter sweep") + "\n\n")

	frac := 0.0
	if m.total > 0 {
		frac = float64(m.done) / float64(m.total)
	}
	fmt.Fprintf(&b, "%s %s\n", ProgressBar(frac, m.width), MetricValue.Render(fmt.Sprintf("%d/%d", m.done, m.total)))
	if m.failed > 0 {
		b.WriteString(ErrorStyle.Render(fmt.Sprintf("%d failed", m.failed)) + "\n")
	}
	if m.done > 0 {
		b.WriteString(Subtle.Render("last: "+FormatParams(m.last.Params)) + "\n")
	}

	switch {
	case m.finished && m.err != nil:
		b.WriteString(ErrorStyle.Render(string(m.result.Status)+": "+m.err.Error()) + "\n")
	case m.finished:
		b.WriteString(SuccessStyle.Render(string(m.result.Status)) + "\n")
	case m.cancelled:
		b.WriteString(WarningStyle.Render("cancelling...") + "\n")
	default:
		b.WriteString(Subtle.Render("ctrl+c cancel") + "\n")
	}
	return b.String()
}

// Result is the outcome carried by the DoneMsg.
func (m SweepProgress) Result() (analysis.SweepResult, error) { return m.result, m.err }

// FormatParams prints parameters as name=value pairs in name order.
func FormatParams(params map[string]float64) string {
	parts := make([]string, 0, len(params))
	for _, name := range slices.Sorted(maps.Keys(params)) {
		parts = append(parts, fmt.Sprintf("%s=%g", name, params[name]))
	}
	return strings.Join(parts, " ")
}
