package domain

import (
	"fmt"
	"log/slog"
	"sort"

	m "github.com/formshift/formshift/internal/model"
)

// OutcomeSet holds one outcome per logical declaration, keyed by qualified
// name. Outcomes are monotonic within a run: the only permitted transition is
// Untouched to Flagged or Removed; a computed outcome is never demoted.
type OutcomeSet struct {
	outcomes map[string]m.Outcome
}

// NewOutcomeSet constructs an empty OutcomeSet.
func NewOutcomeSet() *OutcomeSet {
	return &OutcomeSet{outcomes: make(map[string]m.Outcome)}
}

// Get returns the current outcome, Untouched when none was computed.
func (s *OutcomeSet) Get(qualified string) m.Outcome {
	return s.outcomes[qualified]
}

// Promote records an outcome if the declaration is still Untouched and reports
// whether the transition was applied.
func (s *OutcomeSet) Promote(qualified string, outcome m.Outcome) bool {
	if outcome == m.Untouched {
		return false
	}

	if current, ok := s.outcomes[qualified]; ok && current != m.Untouched {
		return false
	}

	s.outcomes[qualified] = outcome

	return true
}

// Qualified returns the sorted qualified names with a non-untouched outcome.
func (s *OutcomeSet) Qualified() []string {
	names := make([]string, 0, len(s.outcomes))
	for name, outcome := range s.outcomes {
		if outcome != m.Untouched {
			names = append(names, name)
		}
	}

	sort.Strings(names)

	return names
}

// CascadeResult is the full output of propagation: outcomes, the findings per
// logical declaration (classified plus synthesized) and the dependents
// discovered during cascade for the report's dependency tree.
type CascadeResult struct {
	Outcomes   *OutcomeSet
	Findings   map[string][]m.Finding
	Dependents map[string][]string
}

// Cascade expands an initial set of broken declarations into the full
// transitive set of dependents: a reverse-reachability BFS with a containment
// rule at protected nodes.
type Cascade struct {
	snap     *Snapshot
	partials *PartialCoordinator
}

// NewCascade constructs a Cascade over the snapshot and partial coordinator.
func NewCascade(snap *Snapshot, partials *PartialCoordinator) *Cascade {
	return &Cascade{snap: snap, partials: partials}
}

// Propagate seeds the work queue with every declaration whose findings
// mandate removal, then expands along reverse dependency edges. Protected
// declarations end Flagged and stop the cascade: a flagged declaration keeps
// its body, so nothing downstream of it becomes newly broken.
func (c *Cascade) Propagate(seeds map[string][]m.Finding) *CascadeResult {
	result := &CascadeResult{
		Outcomes:   NewOutcomeSet(),
		Findings:   make(map[string][]m.Finding, len(seeds)),
		Dependents: make(map[string][]string),
	}

	visited := make(map[string]struct{}, len(seeds))

	var queue []string

	seedNames := make([]string, 0, len(seeds))
	for qualified := range seeds {
		seedNames = append(seedNames, qualified)
	}

	sort.Strings(seedNames)

	for _, qualified := range seedNames {
		findings := seeds[qualified]
		if len(findings) == 0 {
			continue
		}

		result.Findings[qualified] = findings
		visited[qualified] = struct{}{}

		if !mandatesRemoval(findings) {
			result.Outcomes.Promote(qualified, m.Flagged)
			continue
		}

		decl := c.lead(qualified)
		if decl == nil {
			continue
		}

		if c.partials.GroupProtected(decl) {
			result.Outcomes.Promote(qualified, m.Flagged)
			slog.Debug("cascade contained at protected seed", "declaration", qualified)

			continue
		}

		result.Outcomes.Promote(qualified, m.Removed)
		queue = append(queue, qualified)
	}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		// Propagation continues only from removed declarations.
		if result.Outcomes.Get(current) != m.Removed {
			continue
		}

		for _, dependent := range c.dependentsOfGroup(current) {
			depQualified := dependent.QualifiedName()
			if _, seen := visited[depQualified]; seen {
				continue
			}

			visited[depQualified] = struct{}{}
			result.Dependents[current] = append(result.Dependents[current], depQualified)

			synthesized := m.Finding{
				TypeName:        SimpleName(current),
				QualifiedType:   current,
				Reason:          fmt.Sprintf("depends on '%s', which has no equivalent", current),
				Severity:        m.SeverityHigh,
				MandatesRemoval: true,
			}

			result.Findings[depQualified] = m.DedupFindings(append(result.Findings[depQualified], synthesized))

			if c.partials.GroupProtected(dependent) {
				result.Outcomes.Promote(depQualified, m.Flagged)
				slog.Debug("cascade contained at protected boundary", "declaration", depQualified, "via", current)

				continue
			}

			if result.Outcomes.Promote(depQualified, m.Removed) {
				queue = append(queue, depQualified)
			}
		}
	}

	return result
}

// lead returns the first fragment of a logical declaration.
func (c *Cascade) lead(qualified string) *m.Declaration {
	fragments := c.snap.ByQualified(qualified)
	if len(fragments) == 0 {
		return nil
	}

	return fragments[0]
}

// dependentsOfGroup collects dependents of every fragment of a logical
// declaration, de-duplicated by identity and ordered deterministically.
func (c *Cascade) dependentsOfGroup(qualified string) []*m.Declaration {
	seen := make(map[string]struct{})

	var dependents []*m.Declaration

	for _, fragment := range c.snap.ByQualified(qualified) {
		for _, dep := range c.snap.DependentsOf(fragment) {
			depQualified := dep.QualifiedName()
			if depQualified == qualified {
				continue
			}

			if _, ok := seen[depQualified]; ok {
				continue
			}

			seen[depQualified] = struct{}{}
			dependents = append(dependents, dep)
		}
	}

	sort.Slice(dependents, func(i, j int) bool {
		return dependents[i].QualifiedName() < dependents[j].QualifiedName()
	})

	return dependents
}

func mandatesRemoval(findings []m.Finding) bool {
	for _, f := range findings {
		if f.MandatesRemoval {
			return true
		}
	}

	return false
}
