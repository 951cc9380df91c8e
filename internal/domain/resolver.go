package domain

import (
	"strings"

	m "github.com/formshift/formshift/internal/model"
)

// Resolver resolves written type names to qualified names against the frozen
// snapshot, with a lower-confidence fallback over the file's using directives
// when full resolution is unavailable (e.g. incomplete reference sets). The
// two strategies are never silently merged: results carry a resolution tag.
type Resolver struct {
	snap  *Snapshot
	rules *m.Ruleset
}

// NewResolver constructs a Resolver over the snapshot and classification table.
func NewResolver(snap *Snapshot, rules *m.Ruleset) *Resolver {
	return &Resolver{snap: snap, rules: rules}
}

// Resolve turns one written type name, seen inside the given declaration,
// into a tagged resolution.
func (r *Resolver) Resolve(raw string, from *m.Declaration) m.Resolution {
	name := CleanTypeName(raw)
	if name == "" {
		return m.Resolution{Kind: m.Unresolved}
	}

	if strings.ContainsRune(name, '.') {
		if r.knows(name) {
			return m.Resolution{Kind: m.Resolved, Qualified: name}
		}

		// A dotted name the project doesn't know could still be a fully
		// qualified framework name; resolution proper fails, but the
		// fallback accepts it as written.
		return m.Resolution{Kind: m.FallbackResolved, Qualified: name}
	}

	// Same-namespace lookup first, walking outer namespaces.
	for ns := from.Namespace; ; {
		candidate := name
		if ns != "" {
			candidate = ns + "." + name
		}

		if r.knows(candidate) {
			return m.Resolution{Kind: m.Resolved, Qualified: candidate}
		}

		i := strings.LastIndexByte(ns, '.')
		if i < 0 {
			break
		}

		ns = ns[:i]
	}

	// A single project-wide definition resolves unambiguously.
	if decls := r.snap.BySimple(name); len(decls) > 0 {
		qualified := decls[0].QualifiedName()
		unique := true

		for _, d := range decls[1:] {
			if d.QualifiedName() != qualified {
				unique = false
				break
			}
		}

		if unique {
			return m.Resolution{Kind: m.Resolved, Qualified: qualified}
		}
	}

	// Import-based fallback: try each using directive of the owning file.
	for _, using := range r.snap.UsingsFor(from.File) {
		candidate := using + "." + name
		if r.knows(candidate) {
			return m.Resolution{Kind: m.FallbackResolved, Qualified: candidate}
		}
	}

	return m.Resolution{Kind: m.Unresolved}
}

// knows reports whether a qualified name is defined in the project or listed
// in any classification table.
func (r *Resolver) knows(qualified string) bool {
	if len(r.snap.ByQualified(qualified)) > 0 {
		return true
	}

	return r.rules.Knows(qualified)
}
