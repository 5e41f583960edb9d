package changelog

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// DateLayout is the zero-padded YYYY-MM-DD layout used in section headers.
const DateLayout = "2006-01-02"

// Entry is one changelog section.
type Entry struct {
	Version string
	Date    time.Time
	Lines   []string
}

// Header returns the "## <version> <date>" line.
func (e *Entry) Header() string {
	return fmt.Sprintf("## %s %s", e.Version, e.Date.Format(DateLayout))
}

// String renders the section: header, blank line, one line per commit and
// a final newline. An entry without lines still ends in an empty body line.
func (e *Entry) String() string {
	var b strings.Builder
	b.WriteString(e.Header())
	b.WriteString("\n\n")
	b.WriteString(strings.Join(e.Lines, "\n"))
	b.WriteString("\n")
	return b.String()
}

// FormatCommitLine renders a commit as a changelog bullet.
func FormatCommitLine(subject, shortHash string) string {
	return fmt.Sprintf("- %s %s", subject, shortHash)
}

// Filter returns the lines matching pattern, in their original order.
// The pattern is matched against the whole rendered line, hash included.
// A nil pattern keeps every line.
func Filter(lines []string, pattern *regexp.Regexp) []string {
	if pattern == nil {
		return lines
	}
	var kept []string
	for _, line := range lines {
		if pattern.MatchString(line) {
			kept = append(kept, line)
		}
	}
	return kept
}
