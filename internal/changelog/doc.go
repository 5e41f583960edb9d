// Package changelog builds and writes release sections of a Markdown-like
// changelog file, newest section first:
//
//	## 1.2.3 2024-05-01
//
//	- Add widget support 1a2b3c4
//	- Add dark mode 5d6e7f8
//
// Sections are only ever prepended; content already in the file is kept
// byte-for-byte below the new section.
package changelog
