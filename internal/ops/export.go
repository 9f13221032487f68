package ops

import (
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/hpungsan/traction/internal/analytics"
	"github.com/hpungsan/traction/internal/config"
	"github.com/hpungsan/traction/internal/errors"
)

// ExportInsightsInput contains parameters for the ExportInsights operation.
type ExportInsightsInput struct {
	// Report parameters; see InsightsInput.
	Insights InsightsInput

	// Path is the destination; default:
	// <base>/exports/insights-<dimension>-<timestamp>.csv
	Path string
}

// ExportInsightsOutput contains the result of the ExportInsights operation.
type ExportInsightsOutput struct {
	Path       string `json:"path"`
	Rows       int    `json:"rows"`
	ExportedAt int64  `json:"exported_at"`
}

// ExportInsights runs the insights pipeline and writes the ranked table to
// a CSV file under the exports directory. The success_score column is
// included exactly when the report ranks by the composite score.
func ExportInsights(database *sql.DB, cfg *config.Config, baseDir string, input ExportInsightsInput) (*ExportInsightsOutput, error) {
	report, err := Insights(database, cfg, input.Insights)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	exportPath := input.Path
	if exportPath == "" {
		filename := fmt.Sprintf("insights-%s-%s.csv",
			sanitizeForFilename(report.Dimension), now.Format("2006-01-02T150405"))
		exportPath = filepath.Join(baseDir, "exports", filename)
	}
	if err := validateExportPath(exportPath, baseDir); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(exportPath), 0700); err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to create export directory: %w", err))
	}

	// Write to temp file first, then atomic rename to preserve any
	// existing file on failure.
	randBytes := make([]byte, 8)
	if _, err := rand.Read(randBytes); err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to generate temp file name: %w", err))
	}
	tempPath := exportPath + "." + hex.EncodeToString(randBytes) + ".tmp"
	file, err := openFileNoFollow(tempPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to create export file: %w", err))
	}

	success := false
	defer func() {
		if file != nil {
			file.Close()
		}
		if !success {
			os.Remove(tempPath)
		}
	}()

	includeScore := report.RankBy == analytics.SortKeyComposite
	if err := analytics.WriteCSV(file, report.LabelColumn, report.Groups, includeScore); err != nil {
		return nil, errors.NewInternal(err)
	}

	if err := file.Sync(); err != nil {
		return nil, errors.NewInternal(err)
	}
	// Close before atomic replace (required on Windows; fine elsewhere).
	if err := file.Close(); err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to close export file: %w", err))
	}
	file = nil

	// os.Rename would follow a symlink destination.
	if info, err := os.Lstat(exportPath); err == nil && info.Mode()&os.ModeSymlink != 0 {
		return nil, errors.NewInternal(fmt.Errorf("export path is a symlink"))
	}

	if err := os.Rename(tempPath, exportPath); err != nil {
		if runtime.GOOS == "windows" {
			if _, statErr := os.Stat(exportPath); statErr == nil {
				return nil, errors.NewInvalidRequest("export destination already exists; overwriting is not supported on Windows yet (choose a new path or delete the existing file)")
			}
		}
		return nil, errors.NewInternal(fmt.Errorf("failed to finalize export: %w", err))
	}

	success = true
	return &ExportInsightsOutput{
		Path:       exportPath,
		Rows:       len(report.Groups),
		ExportedAt: now.Unix(),
	}, nil
}
