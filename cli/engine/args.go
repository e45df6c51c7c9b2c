package engine

// args.go contains utilities for building aas_test_engines command lines.

import (
	"path/filepath"
	"strings"

	"al.essio.dev/pkg/shellescape"

	"github.com/aasgate/aasgate/model"
)

// ToolBinary is the executable installed by the engine package.
const ToolBinary = "aas_test_engines"

// Redacted replaces secret values in logged command lines.
const Redacted = "***"

// BuildFileCheckArgs builds check_file arguments for one file and one
// report format. An unset format is inferred from the file extension.
// AASX packages never get --format.
func BuildFileCheckArgs(path string, format model.ContentFormat, modelType string, out model.ReportFormat) []string {
	args := []string{"check_file", path}

	effective := format
	if effective == model.FormatUnset {
		effective = InferFormat(path)
	}
	if effective != model.FormatUnset && effective != model.FormatAASX {
		args = append(args, "--format", string(effective))
	}

	if modelType != "" {
		args = append(args, "--model_type", modelType)
	}

	return append(args, "--output", string(out))
}

// BuildServerCheckArgs builds check_server arguments. Headers keep their
// input order.
func BuildServerCheckArgs(serverURL, profile, filter string, headers []string, out model.ReportFormat) []string {
	args := []string{"check_server", serverURL, profile}

	if filter != "" {
		args = append(args, "--filter", filter)
	}

	for _, h := range headers {
		args = append(args, "--header", h)
	}

	return append(args, "--output", string(out))
}

// InferFormat maps a .json, .xml or .aasx extension (any case) to its
// content format.
func InferFormat(path string) model.ContentFormat {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return model.FormatJSON
	case ".xml":
		return model.FormatXML
	case ".aasx":
		return model.FormatAASX
	default:
		return model.FormatUnset
	}
}

// RedactArgs returns a copy of args where the value of every --header is
// replaced, keeping the header name.
func RedactArgs(args []string) []string {
	out := make([]string, len(args))
	copy(out, args)

	for i := 0; i < len(out)-1; i++ {
		if out[i] != "--header" {
			continue
		}
		if idx := strings.Index(out[i+1], ":"); idx > 0 {
			out[i+1] = out[i+1][:idx] + ": " + Redacted
		}
		i++
	}
	return out
}

// CommandLine renders a shell-escaped command line for logging.
func CommandLine(args []string) string {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, ToolBinary)

	for _, arg := range args {
		parts = append(parts, shellescape.Quote(arg))
	}

	return strings.Join(parts, " ")
}
