// Package output renders workflow state in the terminal.
//
// [Printer] writes lipgloss-styled text to an [io.Writer]. Styles degrade to
// plain text when the writer is not a terminal, which keeps test output
// stable.
package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"brambling/internal/router"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Underline(true)
	doneStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	openStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	lockedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	locationStyle = lipgloss.NewStyle().Faint(true)
)

// Printer writes styled workflow output.
type Printer struct {
	out      io.Writer
	renderer *lipgloss.Renderer
}

// NewPrinter creates a [Printer] writing to stdout.
func NewPrinter() *Printer {
	return NewPrinterWithWriter(os.Stdout)
}

// NewPrinterWithWriter creates a [Printer] writing to w.
func NewPrinterWithWriter(w io.Writer) *Printer {
	return &Printer{
		out:      w,
		renderer: lipgloss.NewRenderer(w),
	}
}

func (p *Printer) render(style lipgloss.Style, s string) string {
	return p.renderer.NewStyle().Inherit(style).Render(s)
}

// Title prints a section heading.
func (p *Printer) Title(format string, args ...any) {
	fmt.Fprintln(p.out, p.render(titleStyle, fmt.Sprintf(format, args...)))
}

// Info prints a plain line.
func (p *Printer) Info(format string, args ...any) {
	fmt.Fprintf(p.out, format+"\n", args...)
}

// Success prints a highlighted line.
func (p *Printer) Success(format string, args ...any) {
	fmt.Fprintln(p.out, p.render(doneStyle, fmt.Sprintf(format, args...)))
}

// Error prints an error line.
func (p *Printer) Error(format string, args ...any) {
	fmt.Fprintln(p.out, p.render(errorStyle, fmt.Sprintf(format, args...)))
}

// Plan prints one line per step with its state marker, followed by any
// validation errors. Inactive steps are only listed when showInactive is set.
func (p *Printer) Plan(states []router.StepState, showInactive bool) {
	for _, s := range states {
		if !s.Active && !showInactive {
			continue
		}
		marker, style := stepMarker(s)
		line := fmt.Sprintf("%s %d. %-12s %s", marker, s.Index+1, s.Name, p.render(locationStyle, s.Location))
		fmt.Fprintln(p.out, p.render(style, strings.TrimRight(line, " ")))
		for _, msg := range s.Errors {
			fmt.Fprintln(p.out, p.render(errorStyle, "     ! "+msg))
		}
	}
}

func stepMarker(s router.StepState) (string, lipgloss.Style) {
	switch {
	case !s.Active:
		return "-", lockedStyle
	case s.Completed:
		return "✓", doneStyle
	case s.Accessible:
		return "→", openStyle
	}
	return "·", lockedStyle
}
