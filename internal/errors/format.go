package errors

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

var (
	// Colors fall back to plain text when color.NoColor is set
	// (non-TTY output, NO_COLOR, or --plain).
	errorLabel  = color.New(color.FgRed, color.Bold).SprintFunc()
	errorMsg    = color.New(color.FgRed).SprintFunc()
	fixLabel    = color.New(color.FgGreen, color.Bold).SprintFunc()
	usageLabel  = color.New(color.FgCyan, color.Bold).SprintFunc()
	usageText   = color.New(color.FgCyan).SprintFunc()
	bullet      = color.New(color.FgGreen).SprintFunc()
	categoryFmt = color.New(color.FgYellow).SprintFunc()
)

// FormatError formats a CLIError for display in the terminal.
func FormatError(err *CLIError) string {
	if err == nil {
		return ""
	}
	return formatError(err, !color.NoColor)
}

// FormatErrorPlain formats a CLIError without colors.
func FormatErrorPlain(err *CLIError) string {
	if err == nil {
		return ""
	}
	return formatError(err, false)
}

func formatError(err *CLIError, useColors bool) string {
	var sb strings.Builder

	paint := func(f func(a ...interface{}) string, s string) string {
		if useColors {
			return f(s)
		}
		return s
	}

	sb.WriteString(paint(errorLabel, "Error"))
	sb.WriteString(" [")
	sb.WriteString(paint(categoryFmt, err.Category.String()))
	sb.WriteString("]: ")
	sb.WriteString(paint(errorMsg, err.Message))
	sb.WriteString("\n")

	if err.Usage != "" {
		sb.WriteString("\n")
		sb.WriteString(paint(usageLabel, "Usage: "))
		sb.WriteString(paint(usageText, err.Usage))
		sb.WriteString("\n")
	}

	if len(err.Remediation) > 0 {
		sb.WriteString("\n")
		sb.WriteString(paint(fixLabel, "To fix this:"))
		sb.WriteString("\n")
		for _, step := range err.Remediation {
			sb.WriteString("  ")
			sb.WriteString(paint(bullet, "•"))
			sb.WriteString(" ")
			sb.WriteString(step)
			sb.WriteString("\n")
		}
	}

	return sb.String()
}

// FprintError prints any error to w. Errors that are not a CLIError are
// reported in the given fallback category.
func FprintError(w io.Writer, err error, fallback ErrorCategory) {
	if err == nil {
		return
	}
	cliErr := AsCLIError(err)
	if cliErr == nil {
		cliErr = Wrap(err, fallback)
	}
	fmt.Fprint(w, FormatError(cliErr))
}
