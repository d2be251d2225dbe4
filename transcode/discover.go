package transcode

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Discover lists the regular files in dir whose extension matches one of
// exts (case-insensitive, with or without the leading dot).
//
// Paths are returned in directory-listing order as reported by the
// filesystem. The order is deliberately not sorted and callers must not
// rely on any particular order.
func Discover(dir string, exts ...string) ([]string, error) {
	f, err := os.Open(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open directory: %w", err)
	}
	defer f.Close()

	// (*os.File).ReadDir keeps the filesystem order; os.ReadDir would sort
	entries, err := f.ReadDir(-1)
	if err != nil {
		return nil, fmt.Errorf("failed to list directory: %w", err)
	}

	wanted := make(map[string]struct{}, len(exts))
	for _, ext := range exts {
		wanted["."+strings.ToLower(strings.TrimPrefix(ext, "."))] = struct{}{}
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if len(wanted) > 0 {
			if _, ok := wanted[strings.ToLower(filepath.Ext(entry.Name()))]; !ok {
				continue
			}
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}

	return paths, nil
}
