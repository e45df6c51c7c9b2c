// Package engine builds invocations of the aas_test_engines tool and the
// command-line flags that feed them.
package engine

import (
	"github.com/urfave/cli/v2"
)

// Flag names shared by the check command and the input source.
const (
	FlagMode            = "mode"
	FlagFiles           = "files"
	FlagFormat          = "format"
	FlagModelType       = "model-type"
	FlagServerURL       = "server-url"
	FlagAPIProfile      = "api-profile"
	FlagFilter          = "filter"
	FlagHeader          = "header"
	FlagReportFormats   = "report-formats"
	FlagOutputDir       = "output-dir"
	FlagPipPackage      = "pip-package"
	FlagPipVersion      = "pip-version"
	FlagPythonCmd       = "python-cmd"
	FlagContinueOnError = "continue-on-error"
)

// FileCheckFlags returns the flags configuring check_file invocations.
func FileCheckFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringSliceFlag{
			Name:    FlagFiles,
			Aliases: []string{"f"},
			Usage:   "File path or glob pattern to validate (can be specified multiple times)",
		},
		&cli.StringFlag{
			Name:  FlagFormat,
			Usage: "Content format override (json, xml or aasx), inferred from the extension when unset",
		},
		&cli.StringFlag{
			Name:  FlagModelType,
			Usage: "Model type passed to check_file",
		},
	}
}

// ServerCheckFlags returns the flags configuring check_server invocations.
func ServerCheckFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  FlagServerURL,
			Usage: "Base URL of the AAS HTTP API server",
		},
		&cli.StringFlag{
			Name:  FlagAPIProfile,
			Usage: "IDTA profile identifier the server is checked against",
		},
		&cli.StringFlag{
			Name:  FlagFilter,
			Usage: "Test name filter passed to check_server",
		},
		&cli.StringSliceFlag{
			Name:  FlagHeader,
			Usage: "HTTP header as 'Name: value' (can be specified multiple times, values are masked in logs)",
		},
	}
}

// RunFlags returns the flags shared by every mode.
func RunFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    FlagMode,
			Aliases: []string{"m"},
			Usage:   "Which checks to run: file, server or both (default: file)",
		},
		&cli.StringFlag{
			Name:  FlagReportFormats,
			Usage: "Comma separated report formats (default: json,html)",
		},
		&cli.StringFlag{
			Name:    FlagOutputDir,
			Aliases: []string{"o"},
			Usage:   "Directory for reports and index.json (default: aas-conformance-report)",
		},
		&cli.StringFlag{
			Name:  FlagPipPackage,
			Usage: "Python package providing aas_test_engines (default: aas_test_engines)",
		},
		&cli.StringFlag{
			Name:  FlagPipVersion,
			Usage: "Engine version to install (default: latest)",
		},
		&cli.StringFlag{
			Name:  FlagPythonCmd,
			Usage: "Preferred Python executable",
		},
		&cli.BoolFlag{
			Name:  FlagContinueOnError,
			Usage: "Exit with status 0 even when checks fail",
		},
	}
}
