package report

// paths.go contains the deterministic output directory layout.

import (
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"

	"github.com/aasgate/aasgate/model"
)

const (
	// FileDir holds reports of file checks
	FileDir = "file"
	// ServerDir holds reports of server checks
	ServerDir = "server"
	// IndexFile is the name of the run index under the output directory
	IndexFile = "index.json"
)

// FileReportPath returns outputDir/file/<sanitized path>.<format>.
func FileReportPath(outputDir, filePath string, format model.ReportFormat) string {
	return filepath.Join(outputDir, FileDir, Sanitize(filePath, MaxFilenameLength)+"."+string(format))
}

// ServerReportPath returns outputDir/server/<sanitized profile>.<format>.
func ServerReportPath(outputDir, profile string, format model.ReportFormat) string {
	return filepath.Join(outputDir, ServerDir, SanitizeProfile(profile)+"."+string(format))
}

// IndexPath returns the location of index.json for an output directory.
func IndexPath(outputDir string) string {
	return filepath.Join(outputDir, IndexFile)
}

// EnsureDirectories creates the file and server report directories.
func EnsureDirectories(outputDir string) error {
	for _, dir := range []string{FileDir, ServerDir} {
		if err := os.MkdirAll(filepath.Join(outputDir, dir), 0755); err != nil {
			return errors.Wrapf(err, "creating report directory %s", dir)
		}
	}
	return nil
}
