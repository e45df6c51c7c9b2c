package report

// This file contains discovery of report files written by previous runs.

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// ListReports returns every .json and .html file below outputDir, sorted.
// A missing output directory yields an empty list.
func ListReports(logger zerolog.Logger, outputDir string) ([]string, error) {
	if _, err := os.Stat(outputDir); os.IsNotExist(err) {
		logger.Debug().Str("dir", outputDir).Msg("Output directory does not exist")
		return []string{}, nil
	}

	reports := []string{}
	err := filepath.WalkDir(outputDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			logger.Warn().Err(err).Str("path", path).Msg("Failed to access path")
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		name := d.Name()
		if strings.HasSuffix(name, ".json") || strings.HasSuffix(name, ".html") {
			reports = append(reports, path)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "walking %s", outputDir)
	}

	sort.Strings(reports)
	return reports, nil
}
