package changelog

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
)

// ErrChangelogNotFound is returned by Prepend when the changelog file does
// not exist. Prepend never creates the file.
var ErrChangelogNotFound = errors.New("changelog file not found")

// Prepend writes entry, a blank line, then the existing content of path.
// The new content goes to a temporary file beside path which is then
// renamed over it, so readers never observe a partial file.
//
// TODO: detect a section for the same version already at the top of the
// file. A plain substring check is not enough since "1.0.1" is also a
// substring of "1.0.10".
func Prepend(fs billy.Filesystem, path string, entry *Entry) error {
	info, err := fs.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrChangelogNotFound, path)
		}
		return fmt.Errorf("checking changelog %s: %w", path, err)
	}

	existing, err := util.ReadFile(fs, path)
	if err != nil {
		return fmt.Errorf("reading changelog %s: %w", path, err)
	}

	content := make([]byte, 0, len(existing)+256)
	content = append(content, entry.String()...)
	content = append(content, '\n')
	content = append(content, existing...)

	return atomicWrite(fs, path, content, info.Mode().Perm())
}

// atomicWrite writes data to path using the temp file + rename pattern.
func atomicWrite(fs billy.Filesystem, path string, data []byte, perm os.FileMode) error {
	tmp, err := fs.TempFile(filepath.Dir(path), ".changelog-")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		fs.Remove(tmpPath) // Best effort cleanup
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		fs.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", err)
	}

	// TempFile creates 0600 files; keep the changelog's original mode.
	if ch, ok := fs.(billy.Change); ok {
		if err := ch.Chmod(tmpPath, perm); err != nil {
			fs.Remove(tmpPath)
			return fmt.Errorf("setting mode on temp file: %w", err)
		}
	}

	if err := fs.Rename(tmpPath, path); err != nil {
		fs.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
