package report

// index.go contains aggregation of check results into the run index.

import (
	"encoding/json"
	"os"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/aasgate/aasgate/model"
)

// BuildIndex aggregates results into a ReportIndex. Checks keep the
// execution order of results.
func BuildIndex(mode model.Mode, results []model.CheckResult, generated time.Time, version, engineVersion string) model.ReportIndex {
	idx := model.ReportIndex{
		Generated:     generated.UTC(),
		ActionVersion: version,
		EngineVersion: engineVersion,
		Mode:          mode,
		TotalChecks:   len(results),
		Checks:        make([]model.IndexEntry, 0, len(results)),
	}

	for _, r := range results {
		if r.Passed {
			idx.PassedChecks++
		} else {
			idx.FailedChecks++
		}

		reports := make(map[model.ReportFormat]string, len(r.ReportPaths))
		for f, p := range r.ReportPaths {
			reports[f] = p
		}

		idx.Checks = append(idx.Checks, model.IndexEntry{
			ID:      r.ID,
			Type:    r.Kind,
			Target:  r.Target,
			Passed:  r.Passed,
			Reports: reports,
			Error:   r.Error,
		})
	}

	return idx
}

// WriteIndex persists idx as outputDir/index.json and returns its path.
func WriteIndex(outputDir string, idx model.ReportIndex) (string, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", errors.Wrap(err, "creating output directory")
	}
	path := IndexPath(outputDir)
	if err := WriteJSON(path, idx); err != nil {
		return "", errors.Wrap(err, "writing report index")
	}
	return path, nil
}

// LoadIndex reads the index.json of a previous run.
func LoadIndex(outputDir string) (model.ReportIndex, error) {
	path := IndexPath(outputDir)
	data, err := os.ReadFile(path)
	if err != nil {
		return model.ReportIndex{}, errors.Wrapf(err, "reading %s", path)
	}

	var idx model.ReportIndex
	if err := json.Unmarshal(data, &idx); err != nil {
		return model.ReportIndex{}, errors.Wrapf(err, "parsing %s", path)
	}
	return idx, nil
}
