package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/mattn/go-isatty"

	"github.com/lex-fmt/core-sub003/lexerr"
)

// severityRampStart and severityRampEnd bound the hint-to-fatal color
// ramp, interpolated in Lab space the same way the teacher's
// internal/init/gradient.go blends its banner gradient.
const (
	severityRampStart = "#5FD7FF" // hint: calm cyan
	severityRampEnd   = "#D70000" // fatal: alarm red
)

// severityColor returns the ramp color for a severity by interpolating
// between severityRampStart and severityRampEnd in Lab space.
func severityColor(s lexerr.Severity) lipgloss.Color {
	start, errA := colorful.Hex(severityRampStart)
	end, errB := colorful.Hex(severityRampEnd)
	if errA != nil || errB != nil {
		return lipgloss.Color("") // unstyled fallback
	}
	ratio := float64(s) / float64(lexerr.Fatal)
	blended := start.BlendLab(end, ratio)

	return lipgloss.Color(blended.Hex())
}

// DiagnosticPrinter renders diagnostics to an io.Writer, coloring
// severities when the target is a TTY and falling back to plain text
// otherwise (SPEC_FULL.md §11).
type DiagnosticPrinter struct {
	w      io.Writer
	colors bool
}

// NewDiagnosticPrinter builds a printer for w, auto-detecting color
// support via isatty when w is an *os.File.
func NewDiagnosticPrinter(w io.Writer) *DiagnosticPrinter {
	colors := false
	if f, ok := w.(*os.File); ok {
		colors = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}

	return &DiagnosticPrinter{w: w, colors: colors}
}

// Print writes one diagnostic as a single line.
func (p *DiagnosticPrinter) Print(d lexerr.Diagnostic) {
	label := fmt.Sprintf("%-10s", d.Severity.String())
	if p.colors {
		label = lipgloss.NewStyle().Foreground(severityColor(d.Severity)).Bold(true).Render(label)
	}
	fmt.Fprintf(p.w, "%s %d..%d: %s\n", label, d.Range.Start, d.Range.End, d.Message)
}

// PrintAll writes every diagnostic in order.
func (p *DiagnosticPrinter) PrintAll(diags []lexerr.Diagnostic) {
	for _, d := range diags {
		p.Print(d)
	}
}
