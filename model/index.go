package model

import "time"

// ReportIndex is the machine readable summary of one gate run.
// It is persisted as index.json at the root of the output directory.
type ReportIndex struct {
	// When the index was generated
	Generated time.Time `json:"generated"`
	// Version of aasgate that produced the run
	ActionVersion string `json:"actionVersion"`
	// Version of the conformance engine used
	EngineVersion string `json:"engineVersion,omitempty"`
	// Run mode
	Mode Mode `json:"mode"`
	// Aggregate counts
	TotalChecks  int `json:"totalChecks"`
	PassedChecks int `json:"passedChecks"`
	FailedChecks int `json:"failedChecks"`
	// Every check in execution order
	Checks []IndexEntry `json:"checks"`
}

// IndexEntry summarises a single CheckResult inside the index.
type IndexEntry struct {
	ID      string                  `json:"id"`
	Type    CheckKind               `json:"type"`
	Target  string                  `json:"target"`
	Passed  bool                    `json:"passed"`
	Reports map[ReportFormat]string `json:"reports"`
	Error   string                  `json:"error,omitempty"`
}

// Passed reports whether every check in the index passed.
func (i ReportIndex) Passed() bool {
	return i.FailedChecks == 0
}
