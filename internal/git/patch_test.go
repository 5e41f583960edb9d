package git

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLastRemovedLineInPatch(t *testing.T) {
	tests := map[string]struct {
		patch     string
		wantLine  string
		wantFound bool
	}{
		"single version bump": {
			patch: `diff --git a/VERSION b/VERSION
index 3eefcb9..9084fa2 100644
--- a/VERSION
+++ b/VERSION
@@ -1 +1 @@
-1.0.0
+1.0.1
`,
			wantLine:  "1.0.0",
			wantFound: true,
		},
		"last of several removed lines": {
			patch: `diff --git a/VERSION b/VERSION
--- a/VERSION
+++ b/VERSION
@@ -1,2 +1 @@
-0.9.0
-1.0.0
+1.1.0
`,
			wantLine:  "1.0.0",
			wantFound: true,
		},
		"file header is not a removal": {
			patch: `diff --git a/VERSION b/VERSION
new file mode 100644
--- /dev/null
+++ b/VERSION
@@ -0,0 +1 @@
+1.0.0
`,
			wantFound: false,
		},
		"blank removed lines are skipped": {
			patch: `diff --git a/VERSION b/VERSION
--- a/VERSION
+++ b/VERSION
@@ -1,2 +1 @@
-2.0.0
-
+2.0.1
`,
			wantLine:  "2.0.0",
			wantFound: true,
		},
		"no newline marker": {
			patch: `diff --git a/VERSION b/VERSION
--- a/VERSION
+++ b/VERSION
@@ -1 +1 @@
-3.1.4
\ No newline at end of file
+3.1.5
\ No newline at end of file
`,
			wantLine:  "3.1.4",
			wantFound: true,
		},
		"removed line that looks like a header inside a hunk": {
			patch: `diff --git a/VERSION b/VERSION
--- a/VERSION
+++ b/VERSION
@@ -1 +1 @@
---draft
+1.0.0
`,
			wantLine:  "--draft",
			wantFound: true,
		},
		"empty patch": {
			patch:     "",
			wantFound: false,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			line, found := LastRemovedLineInPatch(tt.patch)
			assert.Equal(t, tt.wantFound, found)
			assert.Equal(t, tt.wantLine, line)
		})
	}
}

func TestSubject(t *testing.T) {
	tests := map[string]struct {
		message string
		want    string
	}{
		"single line":          {message: "Add feature\n", want: "Add feature"},
		"body is dropped":      {message: "Add feature\n\nLonger description.\n", want: "Add feature"},
		"wrapped first para":   {message: "Add a very\nlong subject\n\nbody", want: "Add a very long subject"},
		"leading blank lines":  {message: "\n\nFix bug", want: "Fix bug"},
		"collapses whitespace": {message: "Add   spaced  out", want: "Add spaced out"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, subject(tt.message))
		})
	}
}
