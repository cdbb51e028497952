// Package security guards the files mirrorctl writes: report and backup
// paths must resolve inside an allowed directory, and names built from node
// identifiers are reduced to a safe character set.
package security

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrPathEscapes is returned when a path resolves outside every allowed
// directory.
var ErrPathEscapes = errors.New("path escapes allowed directories")

// maxNameLen caps SanitizeFilename output.
const maxNameLen = 128

// canonical returns the absolute, symlink-free form of path. A path that
// does not exist yet is resolved through its deepest existing ancestor so a
// symlinked parent cannot smuggle the file elsewhere.
func canonical(path string) (string, error) {
	abs, err := filepath.Abs(filepath.Clean(path))
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	rest := ""
	for dir := abs; ; {
		if resolved, err := filepath.EvalSymlinks(dir); err == nil {
			return filepath.Join(resolved, rest), nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return abs, nil
		}
		rest = filepath.Join(filepath.Base(dir), rest)
		dir = parent
	}
}

// WithinDir returns nil when path resolves inside dir.
func WithinDir(path, dir string) error {
	p, err := canonical(path)
	if err != nil {
		return err
	}
	d, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", dir, err)
	}
	if d, err = filepath.EvalSymlinks(d); err != nil {
		return fmt.Errorf("failed to resolve %s: %w", dir, err)
	}
	rel, err := filepath.Rel(d, p)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) || filepath.IsAbs(rel) {
		return fmt.Errorf("%s: %w", path, ErrPathEscapes)
	}
	return nil
}

// CheckOutputPath returns nil when path resolves inside one of dirs.
func CheckOutputPath(path string, dirs ...string) error {
	if len(dirs) == 0 {
		return errors.New("no allowed directories")
	}
	for _, d := range dirs {
		if WithinDir(path, d) == nil {
			return nil
		}
	}
	return fmt.Errorf("%s must be inside one of %v: %w", path, dirs, ErrPathEscapes)
}

// CheckExportPath allows the working directory and the temp directory.
func CheckExportPath(path string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get working directory: %w", err)
	}
	return CheckOutputPath(path, cwd, os.TempDir())
}

// SanitizeFilename keeps ASCII letters, digits, '.', '_' and '-', folding
// every other run of characters into one underscore. Leading and trailing
// dots and underscores are trimmed; an empty result becomes "unknown".
func SanitizeFilename(s string) string {
	var b strings.Builder
	folded := false
	for _, r := range s {
		if b.Len() >= maxNameLen {
			break
		}
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '_', r == '-':
			b.WriteRune(r)
			folded = false
		case !folded:
			b.WriteByte('_')
			folded = true
		}
	}
	out := strings.Trim(b.String(), "._")
	if out == "" {
		return "unknown"
	}
	return out
}
