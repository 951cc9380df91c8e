package domain

import (
	m "github.com/formshift/formshift/internal/model"
)

// ProtectionPolicy decides whether a declaration derives, transitively through
// its inheritance chain and possibly across files, from a protected base type.
// Protected declarations are never deleted automatically and contain the
// cascade.
type ProtectionPolicy struct {
	snap       *Snapshot
	rules      *m.Ruleset
	reviewOnly bool
}

// NewProtectionPolicy constructs a ProtectionPolicy. With reviewOnly set the
// policy returns true for every declaration, so a run performs zero removals.
func NewProtectionPolicy(snap *Snapshot, rules *m.Ruleset, reviewOnly bool) *ProtectionPolicy {
	return &ProtectionPolicy{snap: snap, rules: rules, reviewOnly: reviewOnly}
}

// IsProtected walks the declaration's base chain. Matching against the
// protected-name set is exact, case-insensitive and whole-identifier:
// "MyModuleBase" does not match "ModuleBase".
func (p *ProtectionPolicy) IsProtected(decl *m.Declaration) bool {
	if p.reviewOnly {
		return true
	}

	visited := make(map[string]struct{})

	return p.isProtected(decl, visited)
}

func (p *ProtectionPolicy) isProtected(decl *m.Declaration, visited map[string]struct{}) bool {
	qualified := decl.QualifiedName()
	if _, seen := visited[qualified]; seen {
		// Cyclic base graphs are malformed input; the visited set bounds the walk.
		return false
	}

	visited[qualified] = struct{}{}

	for _, base := range decl.BaseTypes {
		name := SimpleName(CleanTypeName(base))
		if name == "" {
			continue
		}

		if p.rules.IsProtectedBase(name) {
			return true
		}

		baseDecl := p.snap.FindBase(decl, name)
		if baseDecl == nil {
			// Unresolvable base: the chain terminates without a match.
			continue
		}

		if p.isProtected(baseDecl, visited) {
			return true
		}
	}

	return false
}
