// Package fileutil provides file and path utility functions.
package fileutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"
)

// Sentinel errors for file utility operations.
var (
	ErrEmptyPath = errors.New("path cannot be empty")
)

// maxFilenameLength keeps generated names under common filesystem limits.
const maxFilenameLength = 200

// fallbackFilename is used when a title sanitizes to nothing.
const fallbackFilename = "untitled"

// SanitizeFilename turns a document title into a safe file name stem.
// Path separators and control characters become "-".
func SanitizeFilename(title string) string {
	name := strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' || r == 0 || unicode.IsControl(r) {
			return '-'
		}
		return r
	}, strings.TrimSpace(title))

	name = strings.Trim(name, " .")
	if len(name) > maxFilenameLength {
		name = strings.TrimSpace(truncateUTF8(name, maxFilenameLength))
	}
	if name == "" || name == "-" {
		return fallbackFilename
	}
	return name
}

func truncateUTF8(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !isRuneStart(s[n]) {
		n--
	}
	return s[:n]
}

func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}

// WriteFileAtomic writes content to a temp file in the target directory and
// renames it into place, so readers never see a partial file.
func WriteFileAtomic(path string, content []byte) error {
	if path == "" {
		return ErrEmptyPath
	}

	dir := filepath.Dir(path)
	tmpFile, err := os.CreateTemp(dir, ".govdraft-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}

	tmpPath := tmpFile.Name()
	cleanup := func() { _ = os.Remove(tmpPath) }

	if _, writeErr := tmpFile.Write(content); writeErr != nil {
		_ = tmpFile.Close()
		cleanup()
		return fmt.Errorf("writing temp file: %w", writeErr)
	}

	if closeErr := tmpFile.Close(); closeErr != nil {
		cleanup()
		return fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Chmod(tmpPath, 0o644); err != nil { // #nosec G302 -- exported documents are meant to be shared
		cleanup()
		return fmt.Errorf("setting file mode: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		cleanup()
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// FileExists returns true if the path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// IsURL returns true if the string looks like an http(s) URL.
func IsURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
