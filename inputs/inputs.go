// Package inputs resolves the raw string inputs of a gate run into a
// validated model.Config.
package inputs

import (
	"regexp"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"

	"github.com/aasgate/aasgate/model"
)

// Input names, as they appear in the workflow definition.
const (
	KeyMode            = "mode"
	KeyFiles           = "files"
	KeyFormat          = "format"
	KeyModelType       = "modelType"
	KeyServerURL       = "serverUrl"
	KeyAPIProfile      = "apiProfile"
	KeyFilter          = "filter"
	KeyHeaders         = "headers"
	KeyReportFormats   = "reportFormats"
	KeyOutputDir       = "outputDir"
	KeyPipPackage      = "pipPackage"
	KeyPipVersion      = "pipVersion"
	KeyPythonCmd       = "pythonCmd"
	KeyContinueOnError = "continueOnError"
)

// Keys lists every recognised input.
var Keys = []string{
	KeyMode, KeyFiles, KeyFormat, KeyModelType, KeyServerURL, KeyAPIProfile,
	KeyFilter, KeyHeaders, KeyReportFormats, KeyOutputDir, KeyPipPackage,
	KeyPipVersion, KeyPythonCmd, KeyContinueOnError,
}

// Defaults for unset inputs.
const (
	DefaultMode          = model.ModeFile
	DefaultReportFormats = "json,html"
	DefaultOutputDir     = "aas-conformance-report"
	DefaultPipPackage    = "aas_test_engines"
	DefaultPipVersion    = "latest"
)

const (
	exampleProfile = "https://admin-shell.io/aas/API/3/0/AssetAdministrationShellRepositoryServiceSpecification/SSP-002"
	profileListURL = "https://industrialdigitaltwin.io/aas-specifications/IDTA-01002/v3.1.1/http-rest-api/service-specifications-and-profiles.html"
)

// ErrInvalidInput marks configuration errors. They abort the run before
// any check executes.
var ErrInvalidInput = errors.New("invalid input")

// Source returns the raw value of a named input, "" when unset.
type Source interface {
	GetInput(name string) string
}

// SecretRegistrar receives values that must never appear in logs.
type SecretRegistrar interface {
	SetSecret(value string)
}

// MapSource is a Source backed by a map.
type MapSource map[string]string

func (m MapSource) GetInput(name string) string {
	return m[name]
}

var (
	validate  = validator.New()
	lineSplit = regexp.MustCompile(`[\r\n]+`)
)

// Resolve reads every input from src, applies defaults and validates the
// result. The value part of each header is registered with secrets before
// Resolve returns, so it is masked before any command is logged.
func Resolve(src Source, secrets SecretRegistrar) (*model.Config, error) {
	rawMode := strings.TrimSpace(src.GetInput(KeyMode))
	if rawMode == "" {
		rawMode = string(DefaultMode)
	}
	mode := model.Mode(strings.ToLower(rawMode))
	if err := validate.Var(string(mode), "oneof=file server both"); err != nil {
		return nil, invalid(errors.Newf(`Invalid mode: "%s". Must be one of: file, server, both`, rawMode))
	}

	rawFormat := strings.TrimSpace(src.GetInput(KeyFormat))
	format := model.ContentFormat(strings.ToLower(rawFormat))
	if rawFormat != "" {
		if err := validate.Var(string(format), "oneof=json xml aasx"); err != nil {
			return nil, invalid(errors.Newf(`Invalid format: "%s". Must be one of: json, xml, aasx`, rawFormat))
		}
	}

	var reportFormats []model.ReportFormat
	for _, f := range parseCommaList(withDefault(src.GetInput(KeyReportFormats), DefaultReportFormats)) {
		if err := validate.Var(f, "oneof=json html"); err != nil {
			return nil, invalid(errors.Newf(`Invalid report format: "%s". Must be json or html`, f))
		}
		reportFormats = append(reportFormats, model.ReportFormat(f))
	}
	if len(reportFormats) == 0 {
		reportFormats = append(reportFormats, model.DefaultReportFormats...)
	}

	headers := parseLines(src.GetInput(KeyHeaders))
	for _, h := range headers {
		if value, ok := headerValue(h); ok {
			secrets.SetSecret(value)
		}
	}

	cfg := &model.Config{
		Mode:            mode,
		Files:           parseLines(src.GetInput(KeyFiles)),
		Format:          format,
		ModelType:       strings.TrimSpace(src.GetInput(KeyModelType)),
		ServerURL:       strings.TrimSpace(src.GetInput(KeyServerURL)),
		APIProfile:      strings.TrimSpace(src.GetInput(KeyAPIProfile)),
		Filter:          strings.TrimSpace(src.GetInput(KeyFilter)),
		Headers:         headers,
		ReportFormats:   reportFormats,
		OutputDir:       withDefault(src.GetInput(KeyOutputDir), DefaultOutputDir),
		PipPackage:      withDefault(src.GetInput(KeyPipPackage), DefaultPipPackage),
		PipVersion:      withDefault(src.GetInput(KeyPipVersion), DefaultPipVersion),
		PythonCmd:       strings.TrimSpace(src.GetInput(KeyPythonCmd)),
		ContinueOnError: parseBool(src.GetInput(KeyContinueOnError)),
	}

	if mode.IncludesFile() && len(cfg.Files) == 0 {
		return nil, invalid(errors.New(`File mode requires non-empty "files" input with file paths or glob patterns`))
	}
	if mode.IncludesServer() {
		if cfg.ServerURL == "" {
			return nil, invalid(errors.New(`Server mode requires "serverUrl" input with the base URL of the AAS HTTP API server`))
		}
		if cfg.APIProfile == "" {
			err := errors.New(`Server mode requires "apiProfile" input with the IDTA profile identifier`)
			err = errors.WithHintf(err, "Example: %s", exampleProfile)
			err = errors.WithHintf(err, "See: %s", profileListURL)
			return nil, invalid(err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, invalid(err)
	}
	return cfg, nil
}

func invalid(err error) error {
	return errors.Mark(err, ErrInvalidInput)
}

// headerValue returns the trimmed value after the first colon of a
// "Name: value" header. Headers without a name or value have none.
func headerValue(header string) (string, bool) {
	i := strings.Index(header, ":")
	if i <= 0 {
		return "", false
	}
	value := strings.TrimSpace(header[i+1:])
	return value, value != ""
}

func withDefault(v, def string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return def
	}
	return v
}

// parseLines splits a multiline input, dropping blank lines.
func parseLines(v string) []string {
	out := []string{}
	for _, line := range lineSplit.Split(v, -1) {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

// parseCommaList splits a comma separated input into lowercased items.
func parseCommaList(v string) []string {
	out := []string{}
	for _, item := range strings.Split(v, ",") {
		if item = strings.ToLower(strings.TrimSpace(item)); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func parseBool(v string) bool {
	return strings.ToLower(strings.TrimSpace(v)) == "true"
}
