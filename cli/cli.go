package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"github.com/aasgate/aasgate/actions"
	"github.com/aasgate/aasgate/cli/engine"
	"github.com/aasgate/aasgate/inputs"
	"github.com/aasgate/aasgate/runner"
)

const AppName = "aasgate"

type App struct {
	logger  zerolog.Logger
	cli     *cli.App
	secrets *actions.Secrets
	core    *actions.Core
	exec    runner.Executor
	stdout  io.Writer
	version string
}

func New() *App {
	return newApp(os.Stdout, os.Stderr, os.Getenv)
}

func newApp(stdout, stderr io.Writer, getenv func(string) string) *App {
	// Set default log level to info
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	// Every line leaving the process passes the secret masker
	secrets := &actions.Secrets{}
	maskedOut := secrets.Writer(stdout)
	maskedErr := secrets.Writer(stderr)

	logger :=
		log.Output(zerolog.ConsoleWriter{
			Out:        maskedErr,
			TimeFormat: time.RFC3339Nano,
		})

	app := &App{
		logger:  logger,
		secrets: secrets,
		core:    actions.NewCore(logger, secrets, stdout, getenv),
		exec:    runner.NewOSExecutor(maskedOut, maskedErr),
		stdout:  maskedOut,
		version: "dev",
		cli: &cli.App{
			Name:      AppName,
			Usage:     "Gate CI pipelines on Asset Administration Shell conformance",
			Writer:    maskedOut,
			ErrWriter: maskedErr,
			// file patterns and headers may contain commas
			DisableSliceFlagSeparator: true,
			Flags: []cli.Flag{
				&cli.BoolFlag{
					Name:  "verbose",
					Usage: "Enable verbose (debug) logging",
				},
				&cli.StringFlag{
					Name:  "config",
					Usage: "YAML file with check inputs (default: ./" + configName + ".yaml when present)",
				},
			},
			Before: func(ctx *cli.Context) error {
				if ctx.Bool("verbose") {
					zerolog.SetGlobalLevel(zerolog.DebugLevel)
				}
				return nil
			},
		},
	}

	checkFlags := engine.RunFlags()
	checkFlags = append(checkFlags, engine.FileCheckFlags()...)
	checkFlags = append(checkFlags, engine.ServerCheckFlags()...)

	app.cli.Commands = append(app.cli.Commands, &cli.Command{
		Name:   "check",
		Usage:  "Run aas_test_engines against files and/or a server and write reports",
		Action: app.check,
		Flags:  checkFlags,
		Description: `Run the conformance gate.

Inputs are read from flags, then from INPUT_<NAME> environment variables
(as set by GitHub Actions), then from the YAML config file. Names follow the
action inputs: mode, files, format, modelType, serverUrl, apiProfile,
filter, headers, reportFormats, outputDir, pipPackage, pipVersion,
pythonCmd, continueOnError.

Examples:
  aasgate check --files 'models/**/*.json' --files '*.aasx'
  aasgate check --mode server --server-url http://localhost:8080 \
    --api-profile https://admin-shell.io/aas/API/3/0/AssetAdministrationShellRepositoryServiceSpecification/SSP-002 \
    --header 'Authorization: Bearer $TOKEN'`,
	})
	app.cli.Commands = append(app.cli.Commands, &cli.Command{
		Name:   "reports",
		Usage:  "List the checks and report files of a previous run",
		Action: app.reports,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    engine.FlagOutputDir,
				Aliases: []string{"o"},
				Usage:   "Output directory of the run",
				Value:   inputs.DefaultOutputDir,
			},
		},
	})
	return app
}

// Run executes the CLI. Failures are also reported as error annotations,
// followed by any hints attached to the error.
func (a *App) Run(args []string) error {
	err := a.cli.Run(args)
	if err != nil {
		a.core.Error(fmt.Sprintf("%s failed: %s", AppName, err))
		for _, hint := range errors.GetAllHints(err) {
			a.logger.Info().Msg(hint)
		}
	}
	return err
}

// SetVersion sets the version information for the CLI application
func (a *App) SetVersion(version, commit, date string) {
	a.version = version
	a.cli.Version = version
	if commit != "none" && len(commit) >= 8 {
		a.cli.Version = fmt.Sprintf("%s (commit: %s, built: %s)", version, commit[:8], date)
	}
}
