package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/custodia-labs/xwb/internal/core/domain"
)

// palette is the colour set used for terminal output.
type palette struct {
	Primary lipgloss.Color
	Muted   lipgloss.Color
	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color
}

func defaultPalette() palette {
	return palette{
		Primary: lipgloss.Color("#7C3AED"), // Purple
		Muted:   lipgloss.Color("#6C7086"), // Medium gray
		Success: lipgloss.Color("#A6E3A1"), // Green
		Warning: lipgloss.Color("#F9E2AF"), // Yellow
		Error:   lipgloss.Color("#F38BA8"), // Red
	}
}

// renderer formats command output, styling it only on a terminal.
type renderer struct {
	color   bool
	title   lipgloss.Style
	muted   lipgloss.Style
	success lipgloss.Style
	warning lipgloss.Style
	err     lipgloss.Style
}

func newRenderer(w io.Writer) *renderer {
	p := defaultPalette()
	return &renderer{
		color:   isTerminal(w),
		title:   lipgloss.NewStyle().Bold(true).Foreground(p.Primary),
		muted:   lipgloss.NewStyle().Foreground(p.Muted),
		success: lipgloss.NewStyle().Foreground(p.Success),
		warning: lipgloss.NewStyle().Foreground(p.Warning),
		err:     lipgloss.NewStyle().Foreground(p.Error),
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

func (r *renderer) paint(style lipgloss.Style, s string) string {
	if !r.color {
		return s
	}
	return style.Render(s)
}

// Title renders a heading.
func (r *renderer) Title(s string) string {
	return r.paint(r.title, s)
}

// Muted renders secondary text.
func (r *renderer) Muted(s string) string {
	return r.paint(r.muted, s)
}

// Success renders a confirmation.
func (r *renderer) Success(s string) string {
	return r.paint(r.success, s)
}

// Diagnostic renders one finding. Plain output is the bare message.
func (r *renderer) Diagnostic(d domain.Diagnostic) string {
	if !r.color {
		return d.Message
	}
	if d.Severity == domain.SeverityWarning {
		return r.warning.Render("warning: ") + d.Message
	}
	return r.err.Render("error: ") + d.Message
}

// Summary renders the one-line outcome of an import.
func (r *renderer) Summary(result *domain.ImportResult) string {
	line := fmt.Sprintf("%d of %d pilots kept, %d diagnostics",
		result.PilotsOut, result.PilotsIn, len(result.Diagnostics))
	if len(result.Diagnostics) == 0 {
		return r.Success(line)
	}
	return r.Muted(line)
}
