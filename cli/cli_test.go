package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/aasgate/aasgate/actions"
	"github.com/aasgate/aasgate/cli/engine"
	"github.com/aasgate/aasgate/inputs"
	"github.com/aasgate/aasgate/model"
	"github.com/aasgate/aasgate/report"
	"github.com/aasgate/aasgate/runner"
)

// fakeEngine answers toolchain probes and returns exitCodes[target] for
// every aas_test_engines run, where target is the checked file or server.
type fakeEngine struct {
	exitCodes map[string]int
	stderr    string
	calls     [][]string
}

func (f *fakeEngine) LookPath(name string) (string, error) {
	if name == "python3" {
		return "/usr/bin/python3", nil
	}
	return "", errors.Newf("%s not found", name)
}

func (f *fakeEngine) Run(_ context.Context, name string, args []string, _ runner.ExecOptions) (runner.ExecResult, error) {
	if name != "aas_test_engines" {
		switch {
		case len(args) > 0 && args[0] == "--version":
			return runner.ExecResult{Stdout: "Python 3.11.9"}, nil
		case len(args) > 0 && args[0] == "-c":
			return runner.ExecResult{Stdout: "3.11.9"}, nil
		case len(args) > 2 && args[2] == "show":
			return runner.ExecResult{Stdout: "Name: aas_test_engines\nVersion: 1.0.2"}, nil
		}
		return runner.ExecResult{}, nil
	}

	f.calls = append(f.calls, args)
	return runner.ExecResult{
		ExitCode: f.exitCodes[args[1]],
		Stdout:   `{"result":"report"}`,
		Stderr:   f.stderr,
	}, nil
}

type testEnv struct {
	app     *App
	engine  *fakeEngine
	stdout  *bytes.Buffer
	stderr  *bytes.Buffer
	output  string
	summary string
	workDir string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dir := t.TempDir()
	env := &testEnv{
		engine:  &fakeEngine{exitCodes: map[string]int{}},
		stdout:  &bytes.Buffer{},
		stderr:  &bytes.Buffer{},
		output:  filepath.Join(dir, "github_output"),
		summary: filepath.Join(dir, "step_summary"),
		workDir: filepath.Join(dir, "work"),
	}
	require.NoError(t, os.MkdirAll(env.workDir, 0755))
	// the runner creates both files before a step starts
	require.NoError(t, os.WriteFile(env.output, nil, 0644))
	require.NoError(t, os.WriteFile(env.summary, nil, 0644))

	vars := map[string]string{
		actions.EnvActions:     "true",
		actions.EnvOutput:      env.output,
		actions.EnvStepSummary: env.summary,
	}
	env.app = newApp(env.stdout, env.stderr, func(k string) string { return vars[k] })
	env.app.exec = env.engine
	env.app.SetVersion("1.0.0", "none", "unknown")
	return env
}

func (e *testEnv) writeModel(t *testing.T, name string) string {
	t.Helper()
	p := filepath.Join(e.workDir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
	require.NoError(t, os.WriteFile(p, []byte("{}"), 0644))
	return p
}

func (e *testEnv) run(args ...string) error {
	return e.app.Run(append([]string{AppName}, args...))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestCheck_AllPass(t *testing.T) {
	env := newTestEnv(t)
	a := env.writeModel(t, "models/a.json")
	b := env.writeModel(t, "models/b.aasx")
	out := filepath.Join(env.workDir, "reports")

	err := env.run("check",
		"--files", filepath.Join(env.workDir, "models", "*"),
		"--output-dir", out,
	)
	require.NoError(t, err)

	idx, err := report.LoadIndex(out)
	require.NoError(t, err)
	assert.Equal(t, model.ModeFile, idx.Mode)
	assert.Equal(t, "1.0.0", idx.ActionVersion)
	assert.Equal(t, "1.0.2", idx.EngineVersion)
	assert.Equal(t, 2, idx.TotalChecks)
	assert.Equal(t, 2, idx.PassedChecks)
	require.Len(t, idx.Checks, 2)
	assert.Equal(t, "file:"+a, idx.Checks[0].ID)
	assert.Equal(t, "file:"+b, idx.Checks[1].ID)

	// two formats per file
	assert.Len(t, env.engine.calls, 4)
	for _, f := range []string{
		report.FileReportPath(out, a, model.ReportJSON),
		report.FileReportPath(out, a, model.ReportHTML),
		report.FileReportPath(out, b, model.ReportJSON),
	} {
		assert.FileExists(t, f)
	}

	outputs := readFile(t, env.output)
	assert.Contains(t, outputs, "passed<<")
	assert.Contains(t, outputs, "\ntrue\n")
	assert.Contains(t, outputs, "\n[]\n")
	assert.Contains(t, outputs, "reportDir<<")

	assert.Contains(t, readFile(t, env.summary), "## ✅ AAS Conformance Gate - All checks passed")
	assert.Contains(t, env.stdout.String(), "PASS")
}

func TestCheck_FailureFailsTheRun(t *testing.T) {
	env := newTestEnv(t)
	env.writeModel(t, "good.json")
	bad := env.writeModel(t, "bad.xml")
	env.engine.exitCodes[bad] = 1
	out := filepath.Join(env.workDir, "reports")

	err := env.run("check",
		"--files", filepath.Join(env.workDir, "*.json"),
		"--files", filepath.Join(env.workDir, "*.xml"),
		"--report-formats", "json",
		"--output-dir", out,
	)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrChecksFailed))
	assert.Contains(t, err.Error(), "1 check(s) did not pass")

	idx, err := report.LoadIndex(out)
	require.NoError(t, err)
	assert.Equal(t, 1, idx.FailedChecks)

	assert.Contains(t, readFile(t, env.output), `["file:`+bad+`"]`)
	assert.Contains(t, env.stdout.String(), "::error::")
	assert.Contains(t, readFile(t, env.summary), "### Failed Checks")
}

func TestCheck_ContinueOnError(t *testing.T) {
	env := newTestEnv(t)
	bad := env.writeModel(t, "bad.json")
	env.engine.exitCodes[bad] = 1

	err := env.run("check",
		"--files", bad,
		"--output-dir", filepath.Join(env.workDir, "reports"),
		"--continue-on-error",
	)
	require.NoError(t, err)
	assert.Contains(t, env.stdout.String(), "::warning::AAS conformance gate: 1 check(s) failed, but continueOnError is enabled.")
	assert.Contains(t, readFile(t, env.output), "\nfalse\n")
}

func TestCheck_InvalidInputAbortsBeforeChecks(t *testing.T) {
	env := newTestEnv(t)

	err := env.run("check", "--mode", "invalid")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `Invalid mode: "invalid"`)
	assert.Empty(t, env.engine.calls)
	assert.Empty(t, readFile(t, env.output))
}

func TestCheck_ServerHeadersNeverLogged(t *testing.T) {
	env := newTestEnv(t)
	env.engine.stderr = "sending Authorization: Bearer sekrit-value"
	out := filepath.Join(env.workDir, "reports")

	err := env.run("--verbose", "check",
		"--mode", "server",
		"--server-url", "http://localhost:8080",
		"--api-profile", "https://admin-shell.io/aas/API/3/0/SomeSpec/SSP-001",
		"--header", "Authorization: Bearer sekrit-value",
		"--header", "X-Tenant: a,b",
		"--output-dir", out,
	)
	require.NoError(t, err)

	require.Len(t, env.engine.calls, 2)
	assert.Contains(t, env.engine.calls[0], "Authorization: Bearer sekrit-value")
	assert.Contains(t, env.engine.calls[0], "X-Tenant: a,b")

	assert.NotContains(t, env.stderr.String(), "sekrit-value")
	assert.Contains(t, env.stderr.String(), "***")

	// only the mask registration itself carries the value
	for _, line := range strings.Split(env.stdout.String(), "\n") {
		if strings.HasPrefix(line, "::add-mask::") {
			continue
		}
		assert.NotContains(t, line, "sekrit-value")
	}
	assert.Contains(t, env.stdout.String(), "::add-mask::Bearer sekrit-value")

	idx, err := report.LoadIndex(out)
	require.NoError(t, err)
	assert.Equal(t, "server:https://admin-shell.io/aas/API/3/0/SomeSpec/SSP-001", idx.Checks[0].ID)
	assert.FileExists(t, filepath.Join(out, "server", "SomeSpec_SSP-001.html"))
}

func TestCheck_InputsFromEnvironment(t *testing.T) {
	env := newTestEnv(t)
	a := env.writeModel(t, "env.json")
	out := filepath.Join(env.workDir, "reports")

	t.Setenv("INPUT_FILES", a)
	t.Setenv("INPUT_REPORTFORMATS", "html")
	t.Setenv("INPUT_OUTPUTDIR", out)

	require.NoError(t, env.run("check"))

	require.Len(t, env.engine.calls, 1)
	assert.Equal(t, []string{"check_file", a, "--format", "json", "--output", "html"}, env.engine.calls[0])
	assert.FileExists(t, report.FileReportPath(out, a, model.ReportHTML))
}

func TestCheck_InputsFromConfigFile(t *testing.T) {
	env := newTestEnv(t)
	a := env.writeModel(t, "one.json")
	b := env.writeModel(t, "two.json")
	out := filepath.Join(env.workDir, "reports")

	configPath := filepath.Join(env.workDir, "gate.yaml")
	config := "files:\n  - " + a + "\n  - " + b + "\nreportFormats: [json]\noutputDir: " + out + "\n"
	require.NoError(t, os.WriteFile(configPath, []byte(config), 0644))

	// flags win over the file
	require.NoError(t, env.run("--config", configPath, "check", "--report-formats", "html"))

	require.Len(t, env.engine.calls, 2)
	assert.Equal(t, "html", env.engine.calls[0][len(env.engine.calls[0])-1])
	assert.Equal(t, b, env.engine.calls[1][1])
}

func TestCheck_MissingConfigFile(t *testing.T) {
	env := newTestEnv(t)

	err := env.run("--config", filepath.Join(env.workDir, "missing.yaml"), "check")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config file")
}

func TestReports(t *testing.T) {
	env := newTestEnv(t)
	a := env.writeModel(t, "a.json")
	out := filepath.Join(env.workDir, "reports")

	require.NoError(t, env.run("check", "--files", a, "--output-dir", out))
	env.stdout.Reset()

	require.NoError(t, env.run("reports", "--output-dir", out))

	listing := env.stdout.String()
	assert.Contains(t, listing, "1 checks, 1 passed, 0 failed")
	assert.Contains(t, listing, "✓  file   "+a)
	assert.Contains(t, listing, "html: "+report.FileReportPath(out, a, model.ReportHTML))
	assert.Contains(t, listing, "=== Report files (3 total) ===")
	assert.Contains(t, listing, report.IndexPath(out))
}

func TestReports_EmptyDirectory(t *testing.T) {
	env := newTestEnv(t)

	require.NoError(t, env.run("reports", "--output-dir", filepath.Join(env.workDir, "nothing")))

	assert.Contains(t, env.stdout.String(), "No report index found")
	assert.Contains(t, env.stdout.String(), "No report files found")
}

func TestFlagForInput_CoversEveryInput(t *testing.T) {
	flags := map[string]bool{}
	for _, fs := range [][]cli.Flag{engine.RunFlags(), engine.FileCheckFlags(), engine.ServerCheckFlags()} {
		for _, f := range fs {
			for _, name := range f.Names() {
				flags[name] = true
			}
		}
	}

	for _, key := range inputs.Keys {
		t.Run(key, func(t *testing.T) {
			flag, ok := flagForInput[key]
			require.True(t, ok, "input %s has no flag", key)
			assert.True(t, flags[flag], "flag --%s is not a check flag", flag)
		})
	}
	assert.Len(t, flagForInput, len(inputs.Keys))
}
