// Package terminal is Solo's banner/color output seam: a minimal real
// implementation, output formatting being out of scope for this system's
// core (spec's Design Notes domain-stack wiring — github.com/fatih/color
// is a transitive dependency of the pack's Helm/kubectl tooling; Solo
// promotes it to a direct one for the orchestrator's progress banners).
package terminal

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// Printer renders task-graph progress and command-result banners.
type Printer struct {
	out io.Writer
}

// NewPrinter constructs a Printer writing to out.
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// Step prints a task title as it starts.
func (p *Printer) Step(title string) {
	fmt.Fprintf(p.out, "%s %s\n", color.CyanString("•"), title)
}

// Skip prints a skipped task title.
func (p *Printer) Skip(title string) {
	fmt.Fprintf(p.out, "%s %s (skipped)\n", color.YellowString("○"), title)
}

// Success prints a command-path success banner.
func (p *Printer) Success(commandPath string) {
	fmt.Fprintf(p.out, "%s %s completed\n", color.GreenString("✔"), commandPath)
}

// Failure prints a command-path failure banner with the wrapped cause.
func (p *Printer) Failure(commandPath string, err error) {
	fmt.Fprintf(p.out, "%s %s failed: %v\n", color.RedString("✘"), commandPath, err)
}
