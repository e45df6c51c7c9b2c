// Package runner prepares the engine toolchain and executes the file and
// server check pipelines.
package runner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"

	"github.com/aasgate/aasgate/cli/engine"
	"github.com/aasgate/aasgate/glob"
	"github.com/aasgate/aasgate/model"
	"github.com/aasgate/aasgate/report"
)

const testDataNote = "Server tests require pre-populated test data. See: https://github.com/admin-shell-io/aas-test-engines#readme"

// Annotator surfaces warnings and errors to the CI platform.
type Annotator interface {
	Warning(msg string)
	Error(msg string)
}

// Runner executes the check pipelines of one run. Targets and report
// formats are processed sequentially in configured order.
type Runner struct {
	logger    zerolog.Logger
	exec      Executor
	annotator Annotator
	cfg       *model.Config
	cwd       string
}

// New returns a Runner for cfg. Relative file patterns resolve against cwd.
func New(logger zerolog.Logger, exec Executor, annotator Annotator, cfg *model.Config, cwd string) *Runner {
	return &Runner{
		logger:    logger,
		exec:      exec,
		annotator: annotator,
		cfg:       cfg,
		cwd:       cwd,
	}
}

// RunFileChecks expands the configured patterns and checks every matched
// file. No matches yield no results and a warning.
func (r *Runner) RunFileChecks(ctx context.Context) ([]model.CheckResult, error) {
	files, err := glob.Expand(r.cfg.Files, r.cwd)
	if err != nil {
		return nil, err
	}

	results := []model.CheckResult{}
	if len(files) == 0 {
		r.annotator.Warning("No files matched the provided patterns")
		return results, nil
	}

	r.logger.Info().Int("count", len(files)).Msg("Found files to check")

	for _, path := range files {
		result := r.runFileCheck(ctx, path)
		results = append(results, result)

		display := glob.RelativePath(path, r.cwd)
		if result.Passed {
			r.logger.Info().Str("file", display).Msg("✓ Check passed")
		} else {
			r.annotator.Error(fmt.Sprintf("✗ %s failed (exit code: %d)", display, result.ExitCode))
		}
	}

	return results, nil
}

// RunServerCheck checks the configured server against its profile.
func (r *Runner) RunServerCheck(ctx context.Context) model.CheckResult {
	cfg := r.cfg

	ev := r.logger.Info().Str("url", cfg.ServerURL).Str("profile", cfg.APIProfile)
	if cfg.Filter != "" {
		ev = ev.Str("filter", cfg.Filter)
	}
	ev.Msg("Server conformance check")
	r.logger.Info().Msg(testDataNote)

	result := model.NewServerResult(cfg.ServerURL, cfg.APIProfile)
	err := r.runFormats(ctx, &result, report.ServerDir,
		func(f model.ReportFormat) []string {
			return engine.BuildServerCheckArgs(cfg.ServerURL, cfg.APIProfile, cfg.Filter, cfg.Headers, f)
		},
		func(f model.ReportFormat) string {
			return report.ServerReportPath(cfg.OutputDir, cfg.APIProfile, f)
		},
	)
	if err != nil {
		result.Error = err.Error()
		r.annotator.Error("Server check failed: " + result.Error)
	}
	result.Passed = result.Error == "" && result.ExitCode == 0

	if result.Passed {
		r.logger.Info().Msg("✓ Server check passed")
	} else {
		r.annotator.Error(fmt.Sprintf("✗ Server check failed (exit code: %d)", result.ExitCode))
	}
	return result
}

func (r *Runner) runFileCheck(ctx context.Context, path string) model.CheckResult {
	cfg := r.cfg

	result := model.NewFileResult(path)
	err := r.runFormats(ctx, &result, report.FileDir,
		func(f model.ReportFormat) []string {
			return engine.BuildFileCheckArgs(path, cfg.Format, cfg.ModelType, f)
		},
		func(f model.ReportFormat) string {
			return report.FileReportPath(cfg.OutputDir, path, f)
		},
	)
	if err != nil {
		result.Error = err.Error()
		r.annotator.Error(fmt.Sprintf("File check failed for %s: %s", path, result.Error))
	}

	// The exit code of the last format decides.
	result.Passed = result.Error == "" && result.ExitCode == 0
	return result
}

// runFormats runs the engine once per report format and stores each stdout
// as a report. The first error aborts the remaining formats.
func (r *Runner) runFormats(
	ctx context.Context,
	result *model.CheckResult,
	subdir string,
	buildArgs func(model.ReportFormat) []string,
	reportPath func(model.ReportFormat) string,
) error {
	if err := os.MkdirAll(filepath.Join(r.cfg.OutputDir, subdir), 0755); err != nil {
		return errors.Wrap(err, "creating report directory")
	}

	for _, format := range r.cfg.ReportFormats {
		args := buildArgs(format)
		r.logger.Info().Str("command", engine.CommandLine(engine.RedactArgs(args))).Msg("Running")

		res, err := r.exec.Run(ctx, engine.ToolBinary, args, ExecOptions{})
		if err != nil {
			return err
		}
		result.ExitCode = res.ExitCode

		path := reportPath(format)
		if err := report.WriteFile(path, []byte(res.Stdout)); err != nil {
			return errors.Wrapf(err, "writing report %s", path)
		}
		result.ReportPaths[format] = path
		r.logger.Info().Str("report", path).Msg("Report written")

		if res.Stderr != "" {
			r.annotator.Warning("stderr: " + res.Stderr)
		}
	}

	return nil
}
