package runner

// toolchain.go contains detection of Python and installation of the
// conformance engine.

import (
	"context"
	"regexp"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"

	"github.com/aasgate/aasgate/model"
)

// Unknown is reported for versions that could not be determined.
const Unknown = "unknown"

// ErrEnvironment marks failures to prepare Python or the engine. They
// abort the run before any check executes.
var ErrEnvironment = errors.New("environment not usable")

const pythonVersionScript = `import sys; print(f"{sys.version_info.major}.{sys.version_info.minor}.{sys.version_info.micro}")`

var pipVersionLine = regexp.MustCompile(`(?m)^Version:\s*(.+)$`)

// Toolchain describes the prepared environment of a run.
type Toolchain struct {
	Python        string
	PythonVersion string
	EngineVersion string
}

// DetectPython returns the first usable Python executable out of
// preferred, python3 and python. A candidate is usable when it is on PATH
// and "--version" succeeds.
func DetectPython(ctx context.Context, logger zerolog.Logger, exec Executor, preferred string) (string, error) {
	candidates := []string{"python3", "python"}
	if preferred != "" {
		candidates = append([]string{preferred}, candidates...)
	}

	for _, cmd := range candidates {
		if _, err := exec.LookPath(cmd); err != nil {
			logger.Debug().Str("python", cmd).Msg("Python candidate not on PATH")
			continue
		}

		res, err := exec.Run(ctx, cmd, []string{"--version"}, ExecOptions{Silent: true})
		if err != nil || res.ExitCode != 0 {
			logger.Debug().Str("python", cmd).Int("exit_code", res.ExitCode).Msg("Python candidate not usable")
			continue
		}

		logger.Info().Str("python", cmd).Str("version", res.Stdout).Msg("Found Python")
		return cmd, nil
	}

	err := errors.New("Python not found. Please ensure Python is installed and available in PATH")
	err = errors.WithHint(err, "In GitHub Actions, use actions/setup-python before this step:\n\n"+
		"- uses: actions/setup-python@v5\n"+
		"  with:\n"+
		"    python-version: \"3.11\"")
	return "", errors.Mark(err, ErrEnvironment)
}

// PythonVersion returns the major.minor.micro version of python.
func PythonVersion(ctx context.Context, exec Executor, python string) string {
	res, err := exec.Run(ctx, python, []string{"-c", pythonVersionScript}, ExecOptions{Silent: true})
	if err != nil || res.Stdout == "" {
		return Unknown
	}
	return res.Stdout
}

// InstallEngine installs or upgrades pkg with pip. version "latest" picks
// the newest release, anything else is pinned.
func InstallEngine(ctx context.Context, logger zerolog.Logger, exec Executor, python, pkg, version string) error {
	requirement := pkg
	if version != "latest" {
		requirement = pkg + "==" + version
	}

	logger.Info().Str("package", requirement).Msg("Installing conformance engine")

	res, err := exec.Run(ctx, python, []string{"-m", "pip", "install", "--upgrade", requirement}, ExecOptions{})
	if err != nil {
		return errors.Mark(errors.Wrapf(err, "installing %s", requirement), ErrEnvironment)
	}
	if res.ExitCode != 0 {
		output := res.Stderr
		if output == "" {
			output = res.Stdout
		}
		return errors.Mark(errors.Newf("Failed to install %s:\n%s", requirement, output), ErrEnvironment)
	}

	logger.Info().Str("package", pkg).Msg("Successfully installed conformance engine")
	return nil
}

// EngineVersion returns the installed version of pkg as reported by pip.
func EngineVersion(ctx context.Context, exec Executor, python, pkg string) string {
	res, err := exec.Run(ctx, python, []string{"-m", "pip", "show", pkg}, ExecOptions{Silent: true})
	if err != nil || res.ExitCode != 0 {
		return Unknown
	}

	m := pipVersionLine.FindStringSubmatch(res.Stdout)
	if m == nil {
		return Unknown
	}
	return strings.TrimSpace(m[1])
}

// EnsureToolchain detects Python, installs the engine and records the
// versions in use.
func EnsureToolchain(ctx context.Context, logger zerolog.Logger, exec Executor, cfg *model.Config) (Toolchain, error) {
	python, err := DetectPython(ctx, logger, exec, cfg.PythonCmd)
	if err != nil {
		return Toolchain{}, err
	}

	if err := InstallEngine(ctx, logger, exec, python, cfg.PipPackage, cfg.PipVersion); err != nil {
		return Toolchain{}, err
	}

	tc := Toolchain{
		Python:        python,
		PythonVersion: PythonVersion(ctx, exec, python),
		EngineVersion: EngineVersion(ctx, exec, python, cfg.PipPackage),
	}

	logger.Info().
		Str("python_version", tc.PythonVersion).
		Str("engine_version", tc.EngineVersion).
		Msg("Toolchain ready")

	return tc, nil
}
