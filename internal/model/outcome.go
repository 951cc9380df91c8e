package model

// Outcome is the result of cascade and protection evaluation for one declaration.
type Outcome int

const (
	// Untouched means the declaration migrates mechanically; no mutation is applied.
	Untouched Outcome = iota
	// Flagged means the declaration keeps its body and receives an advisory comment.
	Flagged
	// Removed means the declaration's full body is commented out.
	Removed
)

// String returns the outcome name used in reports.
func (o Outcome) String() string {
	switch o {
	case Flagged:
		return "flagged"
	case Removed:
		return "removed"
	default:
		return "untouched"
	}
}

// MarshalYAML renders outcomes by name in stored reports.
func (o Outcome) MarshalYAML() (interface{}, error) {
	return o.String(), nil
}

// UnmarshalYAML parses an outcome name back from a stored report.
func (o *Outcome) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var name string
	if err := unmarshal(&name); err != nil {
		return err
	}

	switch name {
	case "flagged":
		*o = Flagged
	case "removed":
		*o = Removed
	default:
		*o = Untouched
	}

	return nil
}
