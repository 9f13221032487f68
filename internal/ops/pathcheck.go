package ops

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hpungsan/traction/internal/errors"
)

// validateExportPath checks a destination for the CSV export:
// 1. No ".." traversal components
// 2. .csv extension
// 3. File directly in baseDir/exports (no subdirectories)
// 4. Neither the parent directory nor the file may be a symlink
//
// The "no subdirectories" rule avoids TOCTOU races where an intermediate
// directory component is swapped for a symlink between validation and open;
// openFileNoFollow covers the final component.
func validateExportPath(path, baseDir string) error {
	if path == "" {
		return errors.NewInvalidRequest("path is required")
	}
	if containsTraversal(path) {
		return errors.NewInvalidRequest("path must not contain directory traversal (..)")
	}

	cleaned := filepath.Clean(path)
	if filepath.Ext(cleaned) != ".csv" {
		return errors.NewInvalidRequest("path must have .csv extension")
	}

	absPath, err := filepath.Abs(cleaned)
	if err != nil {
		return errors.NewInvalidRequest(fmt.Sprintf("invalid path: %v", err))
	}
	exportsDir, err := filepath.Abs(filepath.Join(baseDir, "exports"))
	if err != nil {
		return errors.NewInternal(err)
	}

	parentDir := filepath.Dir(absPath)
	if filepath.Clean(parentDir) != filepath.Clean(exportsDir) {
		return errors.NewInvalidRequest(
			fmt.Sprintf("export file must be directly in %s (no subdirectories)", exportsDir))
	}

	if info, err := os.Lstat(parentDir); err == nil {
		if info.Mode()&os.ModeSymlink != 0 {
			return errors.NewInvalidRequest("parent directory must not be a symlink")
		}
	}
	if info, err := os.Lstat(absPath); err == nil {
		if info.Mode()&os.ModeSymlink != 0 {
			return errors.NewInvalidRequest("path must not be a symlink")
		}
	}

	return nil
}

// containsTraversal checks if path contains ".." directory traversal.
func containsTraversal(path string) bool {
	for _, part := range strings.Split(path, string(filepath.Separator)) {
		if part == ".." {
			return true
		}
	}
	if filepath.Separator != '/' {
		for _, part := range strings.Split(path, "/") {
			if part == ".." {
				return true
			}
		}
	}
	return false
}

// sanitizeForFilename sanitizes a string for safe use in a filename.
func sanitizeForFilename(s string) string {
	s = strings.ReplaceAll(s, "/", "-")
	s = strings.ReplaceAll(s, "\\", "-")
	s = strings.ReplaceAll(s, "..", "-")

	var result strings.Builder
	for _, r := range s {
		if r >= 32 && r != 127 {
			result.WriteRune(r)
		}
	}
	s = result.String()

	for strings.Contains(s, "--") {
		s = strings.ReplaceAll(s, "--", "-")
	}
	s = strings.Trim(s, "-")

	if s == "" {
		s = "unnamed"
	}
	return s
}
