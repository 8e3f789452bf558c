package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorBlue   = "\033[34m"
	colorCyan   = "\033[36m"
	colorGray   = "\033[90m"
	colorBold   = "\033[1m"
)

// Printer handles colored output
type Printer struct {
	out      io.Writer
	err      io.Writer
	useColor bool

	// mu serializes writes to err between the spinner and status messages
	mu sync.Mutex
}

// NewPrinter creates a new printer with color support
func NewPrinter() *Printer {
	return &Printer{
		out:      os.Stdout,
		err:      os.Stderr,
		useColor: isTerminal(),
	}
}

// NewPrinterWithWriters creates a printer with custom writers (for testing)
func NewPrinterWithWriters(out, err io.Writer, useColor bool) *Printer {
	return &Printer{
		out:      out,
		err:      err,
		useColor: useColor,
	}
}

func (p *Printer) line(w io.Writer, color, symbol, message string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.useColor {
		_, _ = fmt.Fprintf(w, "%s%s%s %s%s\n", colorBold, color, symbol, message, colorReset)
	} else {
		_, _ = fmt.Fprintf(w, "%s %s\n", symbol, message)
	}
}

// Success prints a success message in green
func (p *Printer) Success(format string, args ...interface{}) {
	p.line(p.err, colorGreen, "✓", fmt.Sprintf(format, args...))
}

// Error prints an error message in red
func (p *Printer) Error(format string, args ...interface{}) {
	p.line(p.err, colorRed, "✗", fmt.Sprintf(format, args...))
}

// Warning prints a warning message in yellow
func (p *Printer) Warning(format string, args ...interface{}) {
	p.line(p.err, colorYellow, "⚠", fmt.Sprintf(format, args...))
}

// Info prints an info message in cyan
func (p *Printer) Info(format string, args ...interface{}) {
	p.line(p.err, colorCyan, "→", fmt.Sprintf(format, args...))
}

// Detail prints a detail message in gray
func (p *Printer) Detail(format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.useColor {
		_, _ = fmt.Fprintf(p.err, "%s  %s%s\n", colorGray, message, colorReset)
	} else {
		_, _ = fmt.Fprintf(p.err, "  %s\n", message)
	}
}

// Reply prints the assistant's answer to stdout
func (p *Printer) Reply(text string) {
	text = strings.TrimRight(text, "\n")
	if p.useColor {
		_, _ = fmt.Fprintf(p.out, "%s%sAssistant:%s %s\n", colorBold, colorBlue, colorReset, text)
	} else {
		_, _ = fmt.Fprintln(p.out, text)
	}
}

// Tool prints one tool name with its description
func (p *Printer) Tool(name, description string) {
	if p.useColor {
		_, _ = fmt.Fprintf(p.out, "%s%-24s%s %s\n", colorBold, name, colorReset, description)
	} else {
		_, _ = fmt.Fprintf(p.out, "%-24s %s\n", name, description)
	}
}

// Print prints a plain message to stdout without color
func (p *Printer) Print(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(p.out, format, args...)
}

// Out returns the writer replies and data are printed to
func (p *Printer) Out() io.Writer {
	return p.out
}

// isTerminal checks if stdout is a terminal
func isTerminal() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}

	fileInfo, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return (fileInfo.Mode() & os.ModeCharDevice) != 0
}
