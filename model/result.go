package model

// CheckKind identifies what kind of target a check ran against
type CheckKind string

const (
	CheckKindFile   CheckKind = "file"
	CheckKindServer CheckKind = "server"
)

// NotExecuted is the exit code of a check whose engine never ran.
const NotExecuted = -1

// CheckResult is the outcome of all engine invocations for one target.
type CheckResult struct {
	// Stable key, "file:<path>" or "server:<profile>"
	ID string `json:"id"`
	// Kind of target (file or server)
	Kind CheckKind `json:"type"`
	// Human readable description of the target
	Target string `json:"target"`
	// Derived from the exit code of the last engine invocation
	Passed bool `json:"passed"`
	// Exit code of the last engine invocation, NotExecuted if none ran
	ExitCode int `json:"exitCode"`
	// Report file per report format, filled as each format completes
	ReportPaths map[ReportFormat]string `json:"reports"`
	// Set when the pipeline failed outside the engine (I/O, spawn errors)
	Error string `json:"error,omitempty"`
}

// NewFileResult returns a pending result for a file target.
func NewFileResult(path string) CheckResult {
	return CheckResult{
		ID:          "file:" + path,
		Kind:        CheckKindFile,
		Target:      path,
		ExitCode:    NotExecuted,
		ReportPaths: map[ReportFormat]string{},
	}
}

// NewServerResult returns a pending result for the server target.
func NewServerResult(serverURL, profile string) CheckResult {
	return CheckResult{
		ID:          "server:" + profile,
		Kind:        CheckKindServer,
		Target:      serverURL + " (" + profile + ")",
		ExitCode:    NotExecuted,
		ReportPaths: map[ReportFormat]string{},
	}
}

// FailedIDs returns the ids of all results that did not pass, in order.
func FailedIDs(results []CheckResult) []string {
	ids := []string{}
	for _, r := range results {
		if !r.Passed {
			ids = append(ids, r.ID)
		}
	}
	return ids
}
