// Package output renders reports for the terminal.
package output

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

// Printer handles formatted output to the terminal
type Printer struct {
	out       io.Writer
	err       io.Writer
	useColors bool
}

// NewPrinter creates a printer on stdout/stderr. Colors are skipped when
// NO_COLOR is set or the terminal is dumb.
func NewPrinter(useColors bool) *Printer {
	if _, ok := os.LookupEnv("NO_COLOR"); ok || os.Getenv("TERM") == "dumb" {
		useColors = false
	}
	return NewPrinterWithWriters(os.Stdout, os.Stderr, useColors)
}

func NewPrinterWithWriters(out, errOut io.Writer, useColors bool) *Printer {
	return &Printer{out: out, err: errOut, useColors: useColors}
}

// -----------------------------------------------------------------------------

func (p *Printer) Title(format string, args ...interface{}) {
	if p.useColors {
		color.New(color.FgCyan, color.Bold).Fprintf(p.out, "\n"+format+"\n", args...)
	} else {
		fmt.Fprintf(p.out, "\n== "+format+" ==\n", args...)
	}
}

func (p *Printer) Info(format string, args ...interface{}) {
	fmt.Fprintf(p.out, format+"\n", args...)
}

func (p *Printer) Success(format string, args ...interface{}) {
	if p.useColors {
		color.New(color.FgGreen).Fprintf(p.out, "✓ "+format+"\n", args...)
	} else {
		fmt.Fprintf(p.out, "[OK] "+format+"\n", args...)
	}
}

func (p *Printer) Warning(format string, args ...interface{}) {
	if p.useColors {
		color.New(color.FgYellow).Fprintf(p.err, "⚠ "+format+"\n", args...)
	} else {
		fmt.Fprintf(p.err, "[WARN] "+format+"\n", args...)
	}
}

func (p *Printer) Error(format string, args ...interface{}) {
	if p.useColors {
		color.New(color.FgRed).Fprintf(p.err, "✗ "+format+"\n", args...)
	} else {
		fmt.Fprintf(p.err, "[ERROR] "+format+"\n", args...)
	}
}

// Table starts a table on the printer's output.
func (p *Printer) Table(headers []string) *Table {
	return NewTable(p.out, headers)
}
