package rules

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	m "github.com/formshift/formshift/internal/model"
)

// Load returns the effective classification table: the built-in ruleset with
// the operator's YAML override file merged on top. An empty path returns the
// built-in table unchanged.
func Load(path string) (*m.Ruleset, error) {
	builtin := Builtin()

	if path == "" {
		return builtin, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read ruleset %s: %w", path, err)
	}

	overlay, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse ruleset %s: %w", path, err)
	}

	return builtin.Merge(overlay), nil
}

// Parse decodes a ruleset overlay from YAML. Severities default per table:
// critical for no-equivalent entries, medium for manual ones.
func Parse(data []byte) (*m.Ruleset, error) {
	var overlay m.Ruleset
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return nil, err
	}

	for name, rule := range overlay.NoEquivalent {
		if rule.Severity == "" {
			rule.Severity = m.SeverityCritical
			overlay.NoEquivalent[name] = rule
		}
	}

	for name, rule := range overlay.Manual {
		if rule.Severity == "" {
			rule.Severity = m.SeverityMedium
			overlay.Manual[name] = rule
		}
	}

	return &overlay, nil
}
