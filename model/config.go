package model

import (
	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
)

// Mode selects which check pipelines run
type Mode string

const (
	ModeFile   Mode = "file"
	ModeServer Mode = "server"
	ModeBoth   Mode = "both"
)

// IncludesFile reports whether file checks run in this mode.
func (m Mode) IncludesFile() bool {
	return m == ModeFile || m == ModeBoth
}

// IncludesServer reports whether the server check runs in this mode.
func (m Mode) IncludesServer() bool {
	return m == ModeServer || m == ModeBoth
}

// ContentFormat is the format of the artifact being validated
type ContentFormat string

const (
	FormatUnset ContentFormat = ""
	FormatJSON  ContentFormat = "json"
	FormatXML   ContentFormat = "xml"
	FormatAASX  ContentFormat = "aasx"
)

// ReportFormat is the output encoding requested from the engine
type ReportFormat string

const (
	ReportJSON ReportFormat = "json"
	ReportHTML ReportFormat = "html"
)

// DefaultReportFormats is used when no report format was requested.
var DefaultReportFormats = []ReportFormat{ReportJSON, ReportHTML}

// Config is the resolved, validated input of a single gate run.
// It is built once by the input resolver and only read afterwards.
type Config struct {
	// Which pipelines run (file, server or both)
	Mode Mode `json:"mode" validate:"oneof=file server both"`
	// File paths or glob patterns, in input order
	Files []string `json:"files,omitempty"`
	// Explicit content format override; inferred per file when unset
	Format ContentFormat `json:"format,omitempty" validate:"omitempty,oneof=json xml aasx"`
	// Opaque model type filter passed to check_file
	ModelType string `json:"modelType,omitempty"`
	// Base URL of the AAS HTTP API server
	ServerURL string `json:"serverUrl,omitempty"`
	// Profile identifier (URL shaped) the server is checked against
	APIProfile string `json:"apiProfile,omitempty"`
	// Opaque test name filter passed to check_server
	Filter string `json:"filter,omitempty"`
	// Raw "Name: value" headers, in input order
	Headers []string `json:"-"`
	// Requested report formats, in configured order
	ReportFormats []ReportFormat `json:"reportFormats" validate:"min=1,dive,oneof=json html"`
	// Root directory for all generated artifacts
	OutputDir string `json:"outputDir" validate:"required"`
	// Python package providing the engine
	PipPackage string `json:"pipPackage" validate:"required"`
	// Engine version to install, or "latest"
	PipVersion string `json:"pipVersion" validate:"required"`
	// Preferred Python executable (optional)
	PythonCmd string `json:"pythonCmd,omitempty"`
	// Keep a zero exit code even when checks fail
	ContinueOnError bool `json:"continueOnError"`
}

var configValidator = newConfigValidator()

// newConfigValidator also enforces the per-mode required fields. The input
// resolver reports those with its own messages first, so this rule guards
// Configs built directly in code.
func newConfigValidator() *validator.Validate {
	v := validator.New()
	v.RegisterStructValidation(func(sl validator.StructLevel) {
		cfg := sl.Current().Interface().(Config)
		if cfg.Mode.IncludesFile() && len(cfg.Files) == 0 {
			sl.ReportError(cfg.Files, "Files", "files", "required_for_mode", string(cfg.Mode))
		}
		if cfg.Mode.IncludesServer() {
			if cfg.ServerURL == "" {
				sl.ReportError(cfg.ServerURL, "ServerURL", "serverUrl", "required_for_mode", string(cfg.Mode))
			}
			if cfg.APIProfile == "" {
				sl.ReportError(cfg.APIProfile, "APIProfile", "apiProfile", "required_for_mode", string(cfg.Mode))
			}
		}
	}, Config{})
	return v
}

// Validate checks the configuration invariants: enum fields hold known
// values, at least one report format is requested and the fields required
// by the selected mode are set.
func (c Config) Validate() error {
	if err := configValidator.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return errors.Newf("invalid configuration: field %q failed %q check (value %v)", fe.Field(), fe.Tag(), fe.Value())
		}
		return errors.Wrap(err, "invalid configuration")
	}
	return nil
}
