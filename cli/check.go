package cli

// This file contains the check command, which runs the conformance gate.

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/urfave/cli/v2"

	"github.com/aasgate/aasgate/inputs"
	"github.com/aasgate/aasgate/model"
	"github.com/aasgate/aasgate/report"
	"github.com/aasgate/aasgate/runner"
	"github.com/aasgate/aasgate/summary"
)

// ErrChecksFailed marks a run where at least one check failed and
// continueOnError was not set.
var ErrChecksFailed = errors.New("conformance checks failed")

func (a *App) check(ctx *cli.Context) error {
	a.logger.Info().Str("version", a.version).Msg("AAS Conformance Gate")

	src, err := newInputSource(ctx, ctx.String("config"))
	if err != nil {
		return err
	}

	// Header values are registered as secrets here, before anything is run
	cfg, err := inputs.Resolve(src, a.core)
	if err != nil {
		return err
	}
	a.logger.Info().
		Str("mode", string(cfg.Mode)).
		Str("output_dir", cfg.OutputDir).
		Msg("Inputs resolved")

	if err := report.EnsureDirectories(cfg.OutputDir); err != nil {
		return err
	}

	tc, err := runner.EnsureToolchain(ctx.Context, a.logger, a.exec, cfg)
	if err != nil {
		return err
	}

	cwd, err := os.Getwd()
	if err != nil {
		return errors.Wrap(err, "determining working directory")
	}

	r := runner.New(a.logger, a.exec, a.core, cfg, cwd)
	results := []model.CheckResult{}

	if cfg.Mode.IncludesFile() {
		a.logger.Info().Msg("Running file checks")
		fileResults, err := r.RunFileChecks(ctx.Context)
		if err != nil {
			return err
		}
		results = append(results, fileResults...)
	}

	if cfg.Mode.IncludesServer() {
		a.logger.Info().Msg("Running server checks")
		results = append(results, r.RunServerCheck(ctx.Context))
	}

	idx := report.BuildIndex(cfg.Mode, results, time.Now(), a.version, tc.EngineVersion)
	indexPath, err := report.WriteIndex(cfg.OutputDir, idx)
	if err != nil {
		return err
	}
	a.logger.Info().Str("path", indexPath).Msg("Report index written")

	failed := model.FailedIDs(results)
	if err := a.setOutputs(idx.Passed(), cfg.OutputDir, failed); err != nil {
		return err
	}

	md := summary.Markdown(summary.Input{
		Config:        cfg,
		Results:       results,
		PythonVersion: tc.PythonVersion,
		EngineVersion: tc.EngineVersion,
		Version:       a.version,
	})
	if err := a.core.AppendSummary(md); err != nil {
		a.logger.Warn().Err(err).Msg("Failed to write job summary")
	} else {
		a.logger.Debug().Msg("Job summary written")
	}
	summary.Console(a.stdout, idx, cfg.OutputDir)

	if idx.Passed() {
		a.logger.Info().Msg("All conformance checks passed")
		return nil
	}

	if !cfg.ContinueOnError {
		err := errors.Newf("AAS conformance gate failed. %d check(s) did not pass", len(failed))
		err = errors.WithHintf(err, "See the job summary and reports in %s/ for details.", cfg.OutputDir)
		return errors.Mark(err, ErrChecksFailed)
	}

	a.core.Warning(fmt.Sprintf("AAS conformance gate: %d check(s) failed, but continueOnError is enabled.", len(failed)))
	return nil
}

func (a *App) setOutputs(passed bool, outputDir string, failed []string) error {
	failedJSON, err := json.Marshal(failed)
	if err != nil {
		return errors.Wrap(err, "encoding failed checks")
	}

	outputs := []struct{ name, value string }{
		{"passed", strconv.FormatBool(passed)},
		{"reportDir", outputDir},
		{"failedChecks", string(failedJSON)},
	}
	for _, o := range outputs {
		if err := a.core.SetOutput(o.name, o.value); err != nil {
			return err
		}
	}
	return nil
}
