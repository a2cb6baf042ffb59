package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

// printer writes styled console output for one command invocation.
// Colors are only emitted when enabled at construction.
type printer struct {
	out    io.Writer
	errOut io.Writer

	success *color.Color
	warning *color.Color
	errc    *color.Color
	info    *color.Color
	header  *color.Color
	label   *color.Color
	value   *color.Color
	dim     *color.Color
}

func newPrinter(out, errOut io.Writer, enableColor bool) *printer {
	mk := func(attrs ...color.Attribute) *color.Color {
		c := color.New(attrs...)
		if enableColor {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c
	}
	return &printer{
		out:     out,
		errOut:  errOut,
		success: mk(color.FgGreen, color.Bold),
		warning: mk(color.FgYellow, color.Bold),
		errc:    mk(color.FgRed, color.Bold),
		info:    mk(color.FgCyan),
		header:  mk(color.FgBlue, color.Bold),
		label:   mk(color.FgWhite, color.Bold),
		value:   mk(color.FgHiBlack),
		dim:     mk(color.FgHiBlack),
	}
}

// printerFor binds a printer to the command's writers. Colors are used only
// on a terminal and never with --no-color.
func printerFor(cmd *cobra.Command) *printer {
	out := cmd.OutOrStdout()
	return newPrinter(out, cmd.ErrOrStderr(), !noColor && isTerminal(out))
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Section prints a section header
func (p *printer) Section(title string) {
	fmt.Fprintln(p.out)
	_, _ = p.header.Fprintf(p.out, "▸ %s\n", title)
	fmt.Fprintln(p.out)
}

// Success prints a success message with a checkmark
func (p *printer) Success(msg string) {
	_, _ = p.success.Fprintf(p.out, "✓ %s\n", msg)
}

// Warning prints a warning message with a warning symbol
func (p *printer) Warning(msg string) {
	_, _ = p.warning.Fprintf(p.out, "⚠ %s\n", msg)
}

// Error prints an error message to the error writer
func (p *printer) Error(msg string) {
	_, _ = p.errc.Fprintf(p.errOut, "✗ %s\n", msg)
}

func (p *printer) Info(msg string) {
	fmt.Fprintln(p.out, msg)
}

// LabelValue prints a label-value pair with proper formatting
func (p *printer) LabelValue(label, value string) {
	_, _ = p.label.Fprintf(p.out, "  %s: ", label)
	_, _ = p.value.Fprintln(p.out, value)
}

// LabelValueWithColor prints a label-value pair with a custom value color
func (p *printer) LabelValueWithColor(label, value string, valueClr *color.Color) {
	_, _ = p.label.Fprintf(p.out, "  %s: ", label)
	_, _ = valueClr.Fprintln(p.out, value)
}

// Table prints a simple column table
func (p *printer) Table(headers []string, rows [][]string) {
	if len(headers) == 0 || len(rows) == 0 {
		return
	}

	colWidths := make([]int, len(headers))
	for i, header := range headers {
		colWidths[i] = len(header)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(colWidths) && len(cell) > colWidths[i] {
				colWidths[i] = len(cell)
			}
		}
	}

	fmt.Fprint(p.out, "  ")
	for i, header := range headers {
		if i > 0 {
			fmt.Fprint(p.out, "  ")
		}
		_, _ = p.header.Fprintf(p.out, "%-*s", colWidths[i], header)
	}
	fmt.Fprintln(p.out)

	fmt.Fprint(p.out, "  ")
	for i, width := range colWidths {
		if i > 0 {
			fmt.Fprint(p.out, "  ")
		}
		fmt.Fprint(p.out, strings.Repeat("-", width))
	}
	fmt.Fprintln(p.out)

	for _, row := range rows {
		fmt.Fprint(p.out, "  ")
		for i, cell := range row {
			if i >= len(colWidths) {
				break
			}
			if i > 0 {
				fmt.Fprint(p.out, "  ")
			}
			_, _ = p.value.Fprintf(p.out, "%-*s", colWidths[i], cell)
		}
		fmt.Fprintln(p.out)
	}
}

// EmptyState prints a message when there's no data to show
func (p *printer) EmptyState(msg string) {
	_, _ = p.dim.Fprintf(p.out, "  %s\n", msg)
}

// JSON writes v as indented JSON.
func (p *printer) JSON(v interface{}) error {
	enc := json.NewEncoder(p.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// countNoun formats a count with the singular or plural noun
func countNoun(count int, singular, plural string) string {
	if count == 1 {
		return fmt.Sprintf("%d %s", count, singular)
	}
	return fmt.Sprintf("%d %s", count, plural)
}

// FormatError formats an error for display on w.
func FormatError(w io.Writer, err error) string {
	c := color.New(color.FgRed, color.Bold)
	if isTerminal(w) {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c.Sprintf("Error: %v", err)
}
