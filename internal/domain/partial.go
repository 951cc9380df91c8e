package domain

import (
	"path/filepath"

	m "github.com/formshift/formshift/internal/model"
)

// PartialCoordinator discovers the file fragments that jointly form one
// logical declaration and forces them to share one outcome. Fragments are
// lifecycle-linked, never independently owned.
type PartialCoordinator struct {
	snap       *Snapshot
	protection *ProtectionPolicy
}

// NewPartialCoordinator constructs a PartialCoordinator.
func NewPartialCoordinator(snap *Snapshot, protection *ProtectionPolicy) *PartialCoordinator {
	return &PartialCoordinator{snap: snap, protection: protection}
}

// Fragments returns the fragment set of a declaration: the declaration itself
// plus, for partial declarations, every sibling fragment with the same
// identity and partial marker in files of the same directory.
func (pc *PartialCoordinator) Fragments(decl *m.Declaration) []*m.Declaration {
	if !decl.IsPartial {
		return []*m.Declaration{decl}
	}

	dir := filepath.Dir(string(decl.File))
	fragments := make([]*m.Declaration, 0, 2)

	for _, candidate := range pc.snap.ByQualified(decl.QualifiedName()) {
		if !candidate.IsPartial {
			continue
		}

		if filepath.Dir(string(candidate.File)) != dir {
			continue
		}

		fragments = append(fragments, candidate)
	}

	if len(fragments) == 0 {
		return []*m.Declaration{decl}
	}

	return fragments
}

// GroupProtected evaluates the protection policy independently on every
// fragment; one protected fragment protects the whole logical declaration and
// suppresses cascade propagation originating from it.
func (pc *PartialCoordinator) GroupProtected(decl *m.Declaration) bool {
	for _, fragment := range pc.Fragments(decl) {
		if pc.protection.IsProtected(fragment) {
			return true
		}
	}

	return false
}
