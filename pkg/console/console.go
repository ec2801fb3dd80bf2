// Package console renders the operator-facing output of the CLI: status
// glyph lines, primary results, and aligned tables. Commands speak through
// it; the engine never does (the engine reports through the logger and its
// return values). Color engages only on a real terminal and can be vetoed
// by --no-color or the NO_COLOR convention.
package console

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/mattn/go-runewidth"
)

const (
	ansiGreen  = "\033[32m"
	ansiRed    = "\033[31m"
	ansiYellow = "\033[33m"
	ansiDim    = "\033[2m"
	ansiReset  = "\033[0m"
)

// Console writes formatted output for one command invocation.
type Console struct {
	out   io.Writer
	errw  io.Writer
	color bool
	quiet bool
}

// Options configures a Console. Zero values mean stdout/stderr with color
// auto-detection and full output.
type Options struct {
	// NoColor disables ANSI color even on a terminal.
	NoColor bool
	// Quiet suppresses everything except primary results and failures.
	Quiet bool
	// Out and Err override the destinations, mainly for tests.
	Out io.Writer
	Err io.Writer
}

// New builds a Console.
func New(opts Options) *Console {
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	errw := opts.Err
	if errw == nil {
		errw = os.Stderr
	}
	return &Console{
		out:   out,
		errw:  errw,
		color: colorEnabled(out, opts.NoColor),
		quiet: opts.Quiet,
	}
}

// colorEnabled reports whether ANSI sequences should be emitted: never when
// vetoed by flag or NO_COLOR, and only when the destination is a terminal.
func colorEnabled(w io.Writer, noColor bool) bool {
	if noColor || os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Success prints a "✓" line. Suppressed in quiet mode.
func (c *Console) Success(format string, args ...interface{}) {
	if c.quiet {
		return
	}
	fmt.Fprintf(c.out, "%s %s\n", c.paint(ansiGreen, "✓"), fmt.Sprintf(format, args...))
}

// Warning prints a "!" line. Suppressed in quiet mode.
func (c *Console) Warning(format string, args ...interface{}) {
	if c.quiet {
		return
	}
	fmt.Fprintf(c.out, "%s %s\n", c.paint(ansiYellow, "!"), fmt.Sprintf(format, args...))
}

// Failure prints a "✗" line to stderr. Never suppressed: a command that
// failed must say so even in quiet mode.
func (c *Console) Failure(format string, args ...interface{}) {
	fmt.Fprintf(c.errw, "%s %s\n", c.paint(ansiRed, "✗"), fmt.Sprintf(format, args...))
}

// Info prints a plain line. Suppressed in quiet mode.
func (c *Console) Info(format string, args ...interface{}) {
	if c.quiet {
		return
	}
	fmt.Fprintf(c.out, format+"\n", args...)
}

// Result prints a command's primary output. Never suppressed: quiet mode
// exists so scripts can capture exactly this.
func (c *Console) Result(format string, args ...interface{}) {
	fmt.Fprintf(c.out, format+"\n", args...)
}

// Dim prints a de-emphasized line, plain when color is off. Suppressed in
// quiet mode.
func (c *Console) Dim(format string, args ...interface{}) {
	if c.quiet {
		return
	}
	fmt.Fprintln(c.out, c.paint(ansiDim, fmt.Sprintf(format, args...)))
}

func (c *Console) paint(color, s string) string {
	if !c.color {
		return s
	}
	return color + s + ansiReset
}

// Table prints rows under a header with columns aligned by display width,
// so wide runes in paths or names do not skew the layout. Suppressed in
// quiet mode; tables are informational.
func (c *Console) Table(headers []string, rows [][]string) {
	if c.quiet || len(headers) == 0 {
		return
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i >= len(widths) {
				break
			}
			if w := runewidth.StringWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	c.tableRow(headers, widths)
	rule := make([]string, len(headers))
	for i := range headers {
		rule[i] = strings.Repeat("-", widths[i])
	}
	c.tableRow(rule, widths)
	for _, row := range rows {
		if len(row) > len(headers) {
			row = row[:len(headers)]
		}
		c.tableRow(row, widths)
	}
}

// tableRow writes one row, padding each cell to its column's display width.
// The final column is never padded so lines carry no trailing spaces.
func (c *Console) tableRow(cells []string, widths []int) {
	var sb strings.Builder
	for i, cell := range cells {
		if i > 0 {
			sb.WriteString("  ")
		}
		sb.WriteString(cell)
		if i < len(cells)-1 {
			if pad := widths[i] - runewidth.StringWidth(cell); pad > 0 {
				sb.WriteString(strings.Repeat(" ", pad))
			}
		}
	}
	fmt.Fprintln(c.out, sb.String())
}
