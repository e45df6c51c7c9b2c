package cli

// This file contains the reports command for inspecting a previous run.

import (
	"fmt"
	"io"
	"io/fs"
	"sort"

	"github.com/cockroachdb/errors"
	"github.com/urfave/cli/v2"

	"github.com/aasgate/aasgate/cli/engine"
	"github.com/aasgate/aasgate/model"
	"github.com/aasgate/aasgate/report"
)

func (a *App) reports(ctx *cli.Context) error {
	outputDir := ctx.String(engine.FlagOutputDir)
	w := a.stdout

	idx, err := report.LoadIndex(outputDir)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		fmt.Fprintf(w, "No report index found in %s\n", outputDir)
	case err != nil:
		return err
	default:
		writeIndex(w, idx)
	}

	files, err := report.ListReports(a.logger, outputDir)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Fprintln(w, "No report files found")
		return nil
	}

	fmt.Fprintf(w, "\n=== Report files (%d total) ===\n\n", len(files))
	for _, f := range files {
		fmt.Fprintf(w, "   %s\n", f)
	}
	return nil
}

func writeIndex(w io.Writer, idx model.ReportIndex) {
	fmt.Fprintf(w, "\n=== Run %s (%d checks, %d passed, %d failed) ===\n\n",
		idx.Generated.Format("2006-01-02 15:04:05"), idx.TotalChecks, idx.PassedChecks, idx.FailedChecks)
	fmt.Fprintf(w, "   Mode: %s  aasgate: %s", idx.Mode, idx.ActionVersion)
	if idx.EngineVersion != "" {
		fmt.Fprintf(w, "  engine: %s", idx.EngineVersion)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w)

	for _, c := range idx.Checks {
		status := "✓"
		if !c.Passed {
			status = "✗"
		}
		fmt.Fprintf(w, "%s  %-6s %s\n", status, c.Type, c.Target)
		if c.Error != "" {
			fmt.Fprintf(w, "   Error: %s\n", c.Error)
		}

		formats := make([]string, 0, len(c.Reports))
		for f := range c.Reports {
			formats = append(formats, string(f))
		}
		sort.Strings(formats)
		for _, f := range formats {
			fmt.Fprintf(w, "   %s: %s\n", f, c.Reports[model.ReportFormat(f)])
		}
	}
}
