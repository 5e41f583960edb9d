package git

import "strings"

// LastRemovedLineInPatch scans unified diff text and returns the last
// non-blank removed line, without its leading "-".
//
// Only lines inside an "@@" hunk count, so the "--- a/file" header of each
// file section is never mistaken for a removal. The second result is false
// when the patch removes nothing.
func LastRemovedLineInPatch(patch string) (string, bool) {
	var last string
	var found, inHunk bool

	for _, line := range strings.Split(patch, "\n") {
		switch {
		case strings.HasPrefix(line, "diff "):
			inHunk = false
		case strings.HasPrefix(line, "@@"):
			inHunk = true
		case !inHunk:
		case strings.HasPrefix(line, "-"):
			text := strings.TrimSuffix(line[1:], "\r")
			if strings.TrimSpace(text) == "" {
				continue
			}
			last, found = text, true
		}
	}

	return last, found
}
