package report

import (
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aasgate/aasgate/model"
)

var testGenerated = time.Date(2026, 1, 15, 10, 30, 0, 0, time.UTC)

func testResults() []model.CheckResult {
	passed := model.NewFileResult("/work/a.json")
	passed.Passed = true
	passed.ExitCode = 0
	passed.ReportPaths[model.ReportJSON] = "out/file/work_a.json"
	passed.ReportPaths[model.ReportHTML] = "out/file/work_a.html"

	failed := model.NewFileResult("/work/b.xml")
	failed.ExitCode = 1
	failed.ReportPaths[model.ReportJSON] = "out/file/work_b.json"

	errored := model.NewServerResult("http://localhost:8080", "https://example.com/x/SSP-001")
	errored.Error = "creating report directory: permission denied"

	return []model.CheckResult{passed, failed, errored}
}

func TestBuildIndex(t *testing.T) {
	idx := BuildIndex(model.ModeBoth, testResults(), testGenerated, "1.0.0", "1.2.3")

	assert.Equal(t, testGenerated, idx.Generated)
	assert.Equal(t, "1.0.0", idx.ActionVersion)
	assert.Equal(t, "1.2.3", idx.EngineVersion)
	assert.Equal(t, model.ModeBoth, idx.Mode)
	assert.Equal(t, 3, idx.TotalChecks)
	assert.Equal(t, 1, idx.PassedChecks)
	assert.Equal(t, 2, idx.FailedChecks)
	assert.False(t, idx.Passed())

	require.Len(t, idx.Checks, 3)
	assert.Equal(t, "file:/work/a.json", idx.Checks[0].ID)
	assert.Equal(t, "file:/work/b.xml", idx.Checks[1].ID)
	assert.Equal(t, "server:https://example.com/x/SSP-001", idx.Checks[2].ID)
	assert.Equal(t, model.CheckKindServer, idx.Checks[2].Type)
	assert.Equal(t, "http://localhost:8080 (https://example.com/x/SSP-001)", idx.Checks[2].Target)
	assert.Equal(t, "creating report directory: permission denied", idx.Checks[2].Error)
	assert.Equal(t, "out/file/work_a.html", idx.Checks[0].Reports[model.ReportHTML])
}

func TestBuildIndex_Empty(t *testing.T) {
	idx := BuildIndex(model.ModeFile, nil, testGenerated, "1.0.0", "")

	assert.Equal(t, 0, idx.TotalChecks)
	assert.True(t, idx.Passed())
	assert.NotNil(t, idx.Checks)
}

func TestBuildIndex_DoesNotShareReportMaps(t *testing.T) {
	results := testResults()
	idx := BuildIndex(model.ModeFile, results, testGenerated, "1.0.0", "")

	results[0].ReportPaths[model.ReportJSON] = "changed"
	assert.Equal(t, "out/file/work_a.json", idx.Checks[0].Reports[model.ReportJSON])
}

func TestWriteIndex_RoundTrip(t *testing.T) {
	out := filepath.Join(t.TempDir(), "aas-conformance-report")
	idx := BuildIndex(model.ModeBoth, testResults(), testGenerated, "1.0.0", "1.2.3")

	path, err := WriteIndex(out, idx)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(out, "index.json"), path)

	loaded, err := LoadIndex(out)
	require.NoError(t, err)
	assert.Equal(t, idx, loaded)
}

func TestWriteIndex_Format(t *testing.T) {
	out := t.TempDir()
	idx := BuildIndex(model.ModeFile, testResults()[:1], testGenerated, "1.0.0", "")

	path, err := WriteIndex(out, idx)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	for _, key := range []string{"generated", "actionVersion", "mode", "totalChecks", "passedChecks", "failedChecks", "checks"} {
		assert.Contains(t, raw, key)
	}
	assert.NotContains(t, raw, "engineVersion")

	checks := raw["checks"].([]any)
	first := checks[0].(map[string]any)
	assert.Equal(t, "file", first["type"])
	assert.NotContains(t, first, "error")
	assert.Equal(t, byte('\n'), data[len(data)-1])
}

func TestLoadIndex_Missing(t *testing.T) {
	_, err := LoadIndex(t.TempDir())
	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}
