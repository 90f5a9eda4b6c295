// Package diag renders PLAS diagnostics the way the original interpreter's
// own Log class did: a key, a colon, and a message, colorized by severity.
// Where the original hand-rolled ANSI escapes, this uses
// github.com/fatih/color so coloring can be disabled cleanly for piped
// output (SPEC_FULL.md §B.1).
package diag

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// Logger writes diagnostics to an output stream with optional coloring.
type Logger struct {
	out   io.Writer
	color bool
}

// NewLogger creates a Logger writing to out. When colorEnabled is false,
// Info/Error/Warn print plain text with no escape sequences.
func NewLogger(out io.Writer, colorEnabled bool) *Logger {
	return &Logger{out: out, color: colorEnabled}
}

// Info prints a green key, matching the original Log.d (debug/info) level.
func (l *Logger) Info(key, message string) {
	l.printKeyed(color.New(color.FgGreen), key, message)
}

// Error prints a red key, matching the original Log.e level.
func (l *Logger) Error(key, message string) {
	l.printKeyed(color.New(color.FgRed), key, message)
}

// Warn prints a plain, uncolored line, matching the original Log.w level.
func (l *Logger) Warn(message string) {
	fmt.Fprintf(l.out, "%s\n", message)
}

func (l *Logger) printKeyed(c *color.Color, key, message string) {
	if !l.color {
		fmt.Fprintf(l.out, "%s: %s\n", key, message)
		return
	}
	c.Fprintf(l.out, "%s", key)
	fmt.Fprintf(l.out, ": %s\n", message)
}

// ParserError renders a fatal parser diagnostic through the Error level,
// following the "error:"/"reason:" two-line shape from SPEC_FULL.md §7.
func (l *Logger) ParserError(message, reason string) {
	l.Error("error", message)
	if reason != "" {
		l.Error("reason", reason)
	}
}

// RuntimeWarning renders the `data` instruction's non-fatal notice
// (SPEC_FULL.md Part C).
func (l *Logger) RuntimeWarning(message string, originLine int) {
	l.Warn(fmt.Sprintf("warning: %s (at line %d)", message, originLine))
}
