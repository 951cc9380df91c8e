package model

import "strings"

// Rule describes how one framework type is classified for migration.
type Rule struct {
	Reason      string   `yaml:"reason"`
	Description string   `yaml:"description,omitempty"`
	Severity    Severity `yaml:"severity,omitempty"`
}

// Ruleset is the classification table injected into every engine component.
// It maps qualified type names to their migration category and carries the
// set of protected base-type names whose subclasses must never be deleted.
type Ruleset struct {
	// NoEquivalent lists types with no successor equivalent; usage mandates removal.
	NoEquivalent map[string]Rule `yaml:"no_equivalent"`
	// Manual lists types with an equivalent that needs a manual rewrite; usage flags only.
	Manual map[string]Rule `yaml:"manual"`
	// Renameable lists one-to-one renames owned by the substitution pass that runs
	// after this engine. Loaded here only so `formshift rules` can audit the table.
	Renameable map[string]string `yaml:"renameable"`
	// ProtectedBases are simple base-type names matched case-insensitively as
	// whole identifiers anywhere in an inheritance chain.
	ProtectedBases []string `yaml:"protected_bases"`
}

// LookupNoEquivalent returns the rule for a qualified type in the no-equivalent table.
func (r *Ruleset) LookupNoEquivalent(qualified string) (Rule, bool) {
	rule, ok := r.NoEquivalent[qualified]
	return rule, ok
}

// LookupManual returns the rule for a qualified type in the manual table.
func (r *Ruleset) LookupManual(qualified string) (Rule, bool) {
	rule, ok := r.Manual[qualified]
	return rule, ok
}

// Knows reports whether a qualified name appears in any classification table.
// The resolver uses it to confirm fallback candidates.
func (r *Ruleset) Knows(qualified string) bool {
	if _, ok := r.NoEquivalent[qualified]; ok {
		return true
	}

	if _, ok := r.Manual[qualified]; ok {
		return true
	}

	_, ok := r.Renameable[qualified]

	return ok
}

// IsProtectedBase reports whether name matches a protected base name exactly,
// ignoring case. Substring collisions ("MyModuleBase" vs "ModuleBase") do not match.
func (r *Ruleset) IsProtectedBase(name string) bool {
	for _, protected := range r.ProtectedBases {
		if strings.EqualFold(name, protected) {
			return true
		}
	}

	return false
}

// Merge overlays another ruleset on top of this one and returns the result.
// Entries from the overlay win; protected base names are unioned.
func (r *Ruleset) Merge(overlay *Ruleset) *Ruleset {
	merged := &Ruleset{
		NoEquivalent: make(map[string]Rule, len(r.NoEquivalent)),
		Manual:       make(map[string]Rule, len(r.Manual)),
		Renameable:   make(map[string]string, len(r.Renameable)),
	}

	for k, v := range r.NoEquivalent {
		merged.NoEquivalent[k] = v
	}

	for k, v := range r.Manual {
		merged.Manual[k] = v
	}

	for k, v := range r.Renameable {
		merged.Renameable[k] = v
	}

	merged.ProtectedBases = append(merged.ProtectedBases, r.ProtectedBases...)

	if overlay == nil {
		return merged
	}

	for k, v := range overlay.NoEquivalent {
		merged.NoEquivalent[k] = v
	}

	for k, v := range overlay.Manual {
		merged.Manual[k] = v
	}

	for k, v := range overlay.Renameable {
		merged.Renameable[k] = v
	}

	for _, name := range overlay.ProtectedBases {
		if !merged.IsProtectedBase(name) {
			merged.ProtectedBases = append(merged.ProtectedBases, name)
		}
	}

	return merged
}
