package model

// Severity grades how disruptive a finding is for the migration.
type Severity string

const (
	// SeverityLow marks findings that usually need no manual work.
	SeverityLow Severity = "low"
	// SeverityMedium marks findings that need a manual rewrite but keep the code compilable.
	SeverityMedium Severity = "medium"
	// SeverityHigh marks findings on central framework surfaces.
	SeverityHigh Severity = "high"
	// SeverityCritical marks findings that mandate removal of the declaration.
	SeverityCritical Severity = "critical"
)

// Finding is one reason a declaration cannot be mechanically migrated.
type Finding struct {
	TypeName        string   `yaml:"type"`
	QualifiedType   string   `yaml:"qualified_type"`
	Reason          string   `yaml:"reason"`
	Description     string   `yaml:"description,omitempty"`
	Severity        Severity `yaml:"severity"`
	MandatesRemoval bool     `yaml:"mandates_removal"`
}

// DedupFindings drops findings that repeat an offending qualified type,
// preserving first-seen order.
func DedupFindings(findings []Finding) []Finding {
	seen := make(map[string]struct{}, len(findings))
	out := make([]Finding, 0, len(findings))

	for _, f := range findings {
		key := f.QualifiedType
		if key == "" {
			key = f.TypeName
		}

		if _, ok := seen[key]; ok {
			continue
		}

		seen[key] = struct{}{}
		out = append(out, f)
	}

	return out
}
