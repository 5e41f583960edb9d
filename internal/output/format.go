// Package output provides terminal output formatting utilities for the reltag CLI.
// This package is designed to have minimal dependencies to avoid import cycles.
package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// maxSeparatorWidth keeps separators readable on very wide terminals.
const maxSeparatorWidth = 72

// GetTerminalWidth returns the terminal width, defaulting to 80 if unavailable.
func GetTerminalWidth() int {
	if width, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && width > 0 {
		return width
	}
	return 80
}

// Separator prints a dim rule with label centered in it.
func Separator(out io.Writer, label string) {
	width := min(GetTerminalWidth(), maxSeparatorWidth)
	dim := color.New(color.FgMagenta, color.Faint).SprintFunc()

	label = " " + label + " "
	lineLen := (width - len(label)) / 2
	if lineLen < 3 {
		lineLen = 3
	}

	line := strings.Repeat("─", lineLen)
	fmt.Fprintf(out, "%s%s%s\n", dim(line), dim(label), dim(line))
}

// Info prints a neutral progress message.
func Info(out io.Writer, format string, args ...any) {
	cyan := color.New(color.FgCyan).SprintFunc()
	fmt.Fprintf(out, "%s %s\n", cyan("→"), fmt.Sprintf(format, args...))
}

// Skip prints a message about a step that was not performed.
func Skip(out io.Writer, format string, args ...any) {
	dim := color.New(color.Faint).SprintFunc()
	fmt.Fprintf(out, "%s %s\n", dim("-"), dim(fmt.Sprintf(format, args...)))
}

// Warn prints a soft failure that does not stop the run.
func Warn(out io.Writer, format string, args ...any) {
	yellow := color.New(color.FgYellow, color.Bold).SprintFunc()
	fmt.Fprintf(out, "%s %s\n", yellow("!"), fmt.Sprintf(format, args...))
}

// Success prints a completed step with a green checkmark.
func Success(out io.Writer, format string, args ...any) {
	green := color.New(color.FgGreen, color.Bold).SprintFunc()
	fmt.Fprintf(out, "%s %s\n", green("✓"), fmt.Sprintf(format, args...))
}

// Field prints an aligned "label: value" summary line.
func Field(out io.Writer, label, value string) {
	bold := color.New(color.Bold).SprintFunc()
	fmt.Fprintf(out, "  %s %s\n", bold(fmt.Sprintf("%-13s", label+":")), value)
}
