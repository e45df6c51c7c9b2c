// Package summary renders the outcome of a gate run for humans: a
// markdown job summary and a colored console verdict.
package summary

import (
	"fmt"
	"strings"

	"github.com/aasgate/aasgate/model"
)

const maxTargetLength = 60

// Input is everything the job summary shows.
type Input struct {
	Config        *model.Config
	Results       []model.CheckResult
	PythonVersion string
	EngineVersion string
	Version       string
}

// Markdown renders the job summary.
func Markdown(in Input) string {
	cfg := in.Config

	total := len(in.Results)
	failed := len(model.FailedIDs(in.Results))
	passed := total - failed

	var b strings.Builder

	if failed == 0 {
		fmt.Fprintf(&b, "## ✅ AAS Conformance Gate - All checks passed\n\n")
	} else {
		fmt.Fprintf(&b, "## ❌ AAS Conformance Gate - %d check(s) failed\n\n", failed)
	}

	b.WriteString("### Environment\n\n")
	b.WriteString("| Component | Version |\n")
	b.WriteString("|-----------|---------|\n")
	fmt.Fprintf(&b, "| Python | %s |\n", in.PythonVersion)
	fmt.Fprintf(&b, "| %s | %s |\n", cfg.PipPackage, in.EngineVersion)
	fmt.Fprintf(&b, "| aasgate | %s |\n\n", in.Version)

	b.WriteString("### Configuration\n\n")
	b.WriteString("| Setting | Value |\n")
	b.WriteString("|---------|-------|\n")
	fmt.Fprintf(&b, "| Mode | `%s` |\n", cfg.Mode)
	fmt.Fprintf(&b, "| Output Directory | `%s` |\n", cfg.OutputDir)
	formats := make([]string, len(cfg.ReportFormats))
	for i, f := range cfg.ReportFormats {
		formats[i] = "`" + string(f) + "`"
	}
	fmt.Fprintf(&b, "| Report Formats | %s |\n", strings.Join(formats, ", "))
	if cfg.Mode.IncludesFile() {
		fmt.Fprintf(&b, "| File Patterns | %d pattern(s) |\n", len(cfg.Files))
	}
	if cfg.Mode.IncludesServer() {
		fmt.Fprintf(&b, "| Server URL | `%s` |\n", cfg.ServerURL)
		fmt.Fprintf(&b, "| API Profile | `%s` |\n", cfg.APIProfile)
		if cfg.Filter != "" {
			fmt.Fprintf(&b, "| Filter | `%s` |\n", cfg.Filter)
		}
	}
	b.WriteString("\n")

	b.WriteString("### Results\n\n")
	b.WriteString("| Status | Type | Target | Reports |\n")
	b.WriteString("|--------|------|--------|---------|\n")
	for _, r := range in.Results {
		status := "❌ Fail"
		if r.Passed {
			status = "✅ Pass"
		}
		kind := "🖥️ Server"
		if r.Kind == model.CheckKindFile {
			kind = "📄 File"
		}
		fmt.Fprintf(&b, "| %s | %s | `%s` | %s |\n", status, kind, truncate(r.Target, maxTargetLength), reportLinks(r))
	}
	b.WriteString("\n")

	b.WriteString("### Summary\n\n")
	fmt.Fprintf(&b, "- **Total checks:** %d\n", total)
	fmt.Fprintf(&b, "- **Passed:** %d ✅\n", passed)
	if failed > 0 {
		fmt.Fprintf(&b, "- **Failed:** %d ❌\n\n", failed)
	} else {
		fmt.Fprintf(&b, "- **Failed:** %d\n\n", failed)
	}

	b.WriteString("### Artifacts\n\n")
	fmt.Fprintf(&b, "Reports are available in the `%s/` directory.\n\n", cfg.OutputDir)
	b.WriteString("To preserve these reports, add an upload-artifact step after this one:\n\n")
	b.WriteString("```yaml\n")
	b.WriteString("- uses: actions/upload-artifact@v4\n")
	b.WriteString("  if: always()\n")
	b.WriteString("  with:\n")
	b.WriteString("    name: aas-conformance-report\n")
	fmt.Fprintf(&b, "    path: %s/\n", cfg.OutputDir)
	b.WriteString("```\n\n")

	if failed > 0 {
		b.WriteString("### Failed Checks\n\n")
		for _, r := range in.Results {
			if r.Passed {
				continue
			}
			fmt.Fprintf(&b, "#### ❌ %s\n\n", r.Target)
			if r.Error != "" {
				fmt.Fprintf(&b, "**Error:** %s\n\n", r.Error)
			}
			fmt.Fprintf(&b, "**Exit code:** %d\n\n", r.ExitCode)
			if html, ok := r.ReportPaths[model.ReportHTML]; ok {
				fmt.Fprintf(&b, "See the [HTML report](%s) for details.\n\n", html)
			}
		}
	}

	b.WriteString("---\n\n")
	b.WriteString("**References:**\n")
	b.WriteString("- [AAS Test Engines](https://github.com/admin-shell-io/aas-test-engines)\n")
	b.WriteString("- [IDTA Service Specifications](https://industrialdigitaltwin.io/aas-specifications/IDTA-01002/v3.1.1/http-rest-api/service-specifications-and-profiles.html)\n")
	b.WriteString("- [AAS Specs API](https://github.com/admin-shell-io/aas-specs-api)\n")

	return b.String()
}

func reportLinks(r model.CheckResult) string {
	var links []string
	if p, ok := r.ReportPaths[model.ReportJSON]; ok {
		links = append(links, fmt.Sprintf("[JSON](%s)", p))
	}
	if p, ok := r.ReportPaths[model.ReportHTML]; ok {
		links = append(links, fmt.Sprintf("[HTML](%s)", p))
	}
	if len(links) == 0 {
		return "N/A"
	}
	return strings.Join(links, ", ")
}

// truncate shortens s to max runes, ending in "...".
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}
