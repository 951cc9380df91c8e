package domain

import (
	m "github.com/formshift/formshift/internal/model"
)

// Classifier inspects one declaration against the classification table and
// produces the findings that block its mechanical migration. It reads the
// frozen snapshot only; classification has no side effects.
type Classifier struct {
	resolver *Resolver
	rules    *m.Ruleset
}

// NewClassifier constructs a Classifier over the resolver and table.
func NewClassifier(resolver *Resolver, rules *m.Ruleset) *Classifier {
	return &Classifier{resolver: resolver, rules: rules}
}

// Classify returns the ordered, de-duplicated findings for a declaration.
// Every scanned reference (base types, member accesses, typeof operands, bare
// type names) is resolved and looked up; names that resolve to nothing are
// silently ignored.
func (c *Classifier) Classify(decl *m.Declaration) []m.Finding {
	var findings []m.Finding

	for _, ref := range decl.References {
		resolution := c.resolver.Resolve(ref.Name, decl)
		if !resolution.Ok() {
			continue
		}

		if finding, ok := c.lookup(ref.Name, resolution.Qualified); ok {
			findings = append(findings, finding)
		}
	}

	return m.DedupFindings(findings)
}

func (c *Classifier) lookup(raw, qualified string) (m.Finding, bool) {
	if rule, ok := c.rules.LookupNoEquivalent(qualified); ok {
		severity := rule.Severity
		if severity == "" {
			severity = m.SeverityCritical
		}

		return m.Finding{
			TypeName:        SimpleName(CleanTypeName(raw)),
			QualifiedType:   qualified,
			Reason:          rule.Reason,
			Description:     rule.Description,
			Severity:        severity,
			MandatesRemoval: true,
		}, true
	}

	if rule, ok := c.rules.LookupManual(qualified); ok {
		severity := rule.Severity
		if severity == "" {
			severity = m.SeverityMedium
		}

		return m.Finding{
			TypeName:        SimpleName(CleanTypeName(raw)),
			QualifiedType:   qualified,
			Reason:          rule.Reason,
			Description:     rule.Description,
			Severity:        severity,
			MandatesRemoval: false,
		}, true
	}

	return m.Finding{}, false
}
