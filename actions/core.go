// Package actions adapts the GitHub Actions runner protocol to a gate run:
// secret masking, step outputs, annotations and the job summary.
package actions

import (
	"fmt"
	"io"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/sethvargo/go-githubactions"
)

// Environment variables set by the Actions runner.
const (
	EnvActions     = "GITHUB_ACTIONS"
	EnvOutput      = "GITHUB_OUTPUT"
	EnvStepSummary = "GITHUB_STEP_SUMMARY"
)

// File command names, resolved by the runner library to GITHUB_<NAME>.
const (
	fileCmdOutput      = "output"
	fileCmdStepSummary = "step_summary"
)

// Core talks to the Actions runner. Outside Actions, workflow commands
// are not printed and the file based calls do nothing.
type Core struct {
	logger  zerolog.Logger
	secrets *Secrets
	action  *githubactions.Action
	getenv  func(string) string
}

// NewCore returns a Core writing workflow commands to out. getenv is
// usually os.Getenv.
func NewCore(logger zerolog.Logger, secrets *Secrets, out io.Writer, getenv func(string) string) *Core {
	return &Core{
		logger:  logger,
		secrets: secrets,
		action: githubactions.New(
			githubactions.WithWriter(out),
			githubactions.WithGetenv(getenv),
		),
		getenv: getenv,
	}
}

// InActions reports whether the process runs inside a workflow.
func (c *Core) InActions() bool {
	return c.getenv(EnvActions) == "true"
}

// SetSecret registers value for masking in every log line and, inside
// Actions, asks the runner to mask it too.
func (c *Core) SetSecret(value string) {
	if value == "" {
		return
	}
	c.secrets.Add(value)
	if c.InActions() {
		c.action.AddMask(value)
	}
}

// SetOutput sets a step output. Every call uses a fresh heredoc delimiter.
func (c *Core) SetOutput(name, value string) error {
	if c.getenv(EnvOutput) == "" {
		c.logger.Debug().Str("name", name).Str("value", value).Msg("Step output")
		return nil
	}

	delimiter := "ghadelimiter_" + uuid.NewString()
	if strings.Contains(name, delimiter) || strings.Contains(value, delimiter) {
		return errors.Newf("output %s contains the delimiter", name)
	}

	err := c.action.IssueFileCommand(&githubactions.Command{
		Name:    fileCmdOutput,
		Message: fmt.Sprintf("%s<<%s\n%s\n%s", name, delimiter, value, delimiter),
	})
	return errors.Wrapf(err, "setting output %s", name)
}

// Warning logs msg and emits a warning annotation.
func (c *Core) Warning(msg string) {
	c.logger.Warn().Msg(msg)
	if c.InActions() {
		c.action.Warningf("%s", c.secrets.Redact(msg))
	}
}

// Error logs msg and emits an error annotation.
func (c *Core) Error(msg string) {
	c.logger.Error().Msg(msg)
	if c.InActions() {
		c.action.Errorf("%s", c.secrets.Redact(msg))
	}
}

// AppendSummary appends markdown to the job summary.
func (c *Core) AppendSummary(markdown string) error {
	if c.getenv(EnvStepSummary) == "" {
		c.logger.Debug().Msg("No job summary file, skipping summary")
		return nil
	}

	err := c.action.IssueFileCommand(&githubactions.Command{
		Name:    fileCmdStepSummary,
		Message: strings.TrimRight(markdown, "\n"),
	})
	return errors.Wrap(err, "writing job summary")
}
