package summary

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/aasgate/aasgate/model"
)

var (
	cBold      = color.New(color.Bold).SprintFunc()
	cDim       = color.New(color.Faint).SprintFunc()
	cGreen     = color.New(color.FgGreen).SprintFunc()
	cRed       = color.New(color.FgRed).SprintFunc()
	cGreenBold = color.New(color.FgGreen, color.Bold).SprintFunc()
	cRedBold   = color.New(color.FgRed, color.Bold).SprintFunc()
)

const ruleWidth = 48

// Console writes the per-check outcome and the overall verdict of idx.
func Console(w io.Writer, idx model.ReportIndex, outputDir string) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %s\n", cBold("▸ Results"))
	for _, c := range idx.Checks {
		icon := cGreen("✓")
		if !c.Passed {
			icon = cRed("✗")
		}
		fmt.Fprintf(w, "    %s %-6s %s\n", icon, c.Type, c.Target)
		if c.Error != "" {
			fmt.Fprintf(w, "      %s %s\n", cDim("error:"), c.Error)
		}
	}
	if len(idx.Checks) == 0 {
		fmt.Fprintf(w, "    %s\n", cDim("(no checks ran)"))
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %s\n", cDim(rule()))
	if idx.Passed() {
		fmt.Fprintf(w, "  %s  %d passed\n", cGreenBold("PASS"), idx.PassedChecks)
	} else {
		fmt.Fprintf(w, "  %s  %d passed · %s\n", cRedBold("FAIL"), idx.PassedChecks, cRed(fmt.Sprintf("%d failed", idx.FailedChecks)))
	}
	fmt.Fprintf(w, "  %s %s/\n", cDim("Reports:"), outputDir)
	fmt.Fprintf(w, "  %s\n", cDim(rule()))
}

func rule() string {
	r := make([]rune, ruleWidth)
	for i := range r {
		r[i] = '─'
	}
	return string(r)
}
