// Package fsutil holds the host-filesystem helpers the CLI layer shares:
// preparing output and mount directories, expanding command-line paths,
// and rendering byte counts for humans.
package fsutil

import (
	"fmt"
	"os"
	"path/filepath"
)

// EnsureDir makes sure dir exists and is a directory, creating it when
// missing. With mustBeEmpty set, an existing directory must have no
// entries. Reports whether this call created the directory.
func EnsureDir(dir string, mustBeEmpty bool) (bool, error) {
	info, err := os.Stat(dir)
	switch {
	case os.IsNotExist(err):
		if err := os.MkdirAll(dir, 0755); err != nil {
			return false, fmt.Errorf("creating %s: %w", dir, err)
		}
		return true, nil
	case err != nil:
		return false, err
	case !info.IsDir():
		return false, fmt.Errorf("%s is not a directory", dir)
	}

	if mustBeEmpty {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return false, err
		}
		if len(entries) > 0 {
			return false, fmt.Errorf("directory %s is not empty", dir)
		}
	}
	return false, nil
}

// RegularFiles expands path: a regular file yields itself, a directory
// yields its immediate regular files (non-recursive). Anything else is
// an error.
func RegularFiles(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.Mode().IsRegular() {
		return []string{path}, nil
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is neither a regular file nor a directory", path)
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, e := range entries {
		if e.Type().IsRegular() {
			files = append(files, filepath.Join(path, e.Name()))
		}
	}
	return files, nil
}

// FormatSize renders n as a human-readable byte count (1536 -> "1.5 KiB").
func FormatSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}

	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
