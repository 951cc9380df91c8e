package model

import "time"

// RunMode distinguishes analysis-only runs from mutating runs.
type RunMode string

const (
	// ModeScan analyzes and reports without touching any file.
	ModeScan RunMode = "scan"
	// ModeMigrate applies mutations to disk.
	ModeMigrate RunMode = "migrate"
	// ModeReview applies advisory flags only; protection is forced for every declaration.
	ModeReview RunMode = "review"
)

// MutationStatus records what the mutation engine did for one declaration.
type MutationStatus string

const (
	// MutationApplied means the file was rewritten.
	MutationApplied MutationStatus = "applied"
	// MutationSkipped means an idempotence check found a prior mutation.
	MutationSkipped MutationStatus = "skipped"
	// MutationStale means the target no longer exists as live code on disk.
	MutationStale MutationStatus = "stale"
	// MutationFailed means an I/O or partial-set failure; the file set is untouched.
	MutationFailed MutationStatus = "failed"
	// MutationNone means no mutation was attempted (scan mode, or Untouched outcome).
	MutationNone MutationStatus = "none"
)

// ReportEntry is the migration result for one declaration with a
// non-untouched outcome.
type ReportEntry struct {
	Qualified  string         `yaml:"qualified"`
	File       Path           `yaml:"file"`
	Kind       string         `yaml:"kind"`
	Outcome    Outcome        `yaml:"outcome"`
	Findings   []Finding      `yaml:"findings,omitempty"`
	Dependents []string       `yaml:"dependents,omitempty"`
	Mutation   MutationStatus `yaml:"mutation"`
	Error      string         `yaml:"error,omitempty"`
}

// RunReport is the full result of one engine run, persisted by the report
// store and rendered by the controller.
type RunReport struct {
	ID        string        `yaml:"id"`
	Mode      RunMode       `yaml:"mode"`
	StartedAt time.Time     `yaml:"started_at"`
	Duration  time.Duration `yaml:"duration"`
	Root      Path          `yaml:"root"`
	Files     int           `yaml:"files"`
	Scanned   int           `yaml:"declarations"`
	Entries   []ReportEntry `yaml:"entries"`
}

// Counts tallies entries per outcome.
func (r *RunReport) Counts() (removed, flagged, failed int) {
	for _, e := range r.Entries {
		switch e.Outcome {
		case Removed:
			removed++
		case Flagged:
			flagged++
		}

		if e.Mutation == MutationFailed {
			failed++
		}
	}

	return removed, flagged, failed
}
