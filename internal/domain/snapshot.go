// Package domain contains the problem propagation and safe-mutation engine.
package domain

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/formshift/formshift/internal/adapter"
	m "github.com/formshift/formshift/internal/model"
)

// Snapshot is the frozen, read-only view of the whole project built once
// before any mutation begins. The cascade propagator and protection policy
// reason about this original program graph, never about partially-mutated
// disk state.
type Snapshot struct {
	Root         m.Path
	Files        []m.Path
	Declarations []*m.Declaration

	usingsByFile map[m.Path][]string
	byQualified  map[string][]*m.Declaration
	bySimple     map[string][]*m.Declaration
}

// SnapshotBuilder parses a project tree into a Snapshot.
type SnapshotBuilder struct {
	fs     adapter.SourceFSAdapter
	parser adapter.CSharpFileAdapter
}

// NewSnapshotBuilder constructs a SnapshotBuilder backed by the provided
// filesystem and parser adapters.
func NewSnapshotBuilder(fs adapter.SourceFSAdapter, parser adapter.CSharpFileAdapter) *SnapshotBuilder {
	return &SnapshotBuilder{fs: fs, parser: parser}
}

// Build walks root, parses every .cs file not matching an exclude pattern and
// assembles the snapshot. Parsing is read-only and runs in parallel; the
// resulting snapshot is immutable.
func (b *SnapshotBuilder) Build(ctx context.Context, root m.Path, exclude []string, threads int) (*Snapshot, error) {
	excludes, err := compilePatterns(exclude)
	if err != nil {
		return nil, err
	}

	var paths []m.Path

	err = b.fs.Walk(root, true, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() || !strings.EqualFold(filepath.Ext(path), ".cs") {
			return nil
		}

		for _, pattern := range excludes {
			if pattern.MatchString(path) {
				slog.Debug("excluded from snapshot", "path", path)
				return nil
			}
		}

		paths = append(paths, m.Path(path))

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}

	snap := &Snapshot{
		Root:         root,
		usingsByFile: make(map[m.Path][]string, len(paths)),
		byQualified:  make(map[string][]*m.Declaration),
		bySimple:     make(map[string][]*m.Declaration),
	}

	var mu sync.Mutex

	group, groupCtx := errgroup.WithContext(ctx)
	if threads > 0 {
		group.SetLimit(threads)
	}

	for _, path := range paths {
		path := path
		group.Go(func() error {
			src, err := b.fs.ReadFile(path)
			if err != nil {
				// An unreadable file is skipped; the run continues.
				slog.Warn("skipping unreadable file", "path", path, "error", err)
				return nil
			}

			parsed, err := b.parser.Parse(groupCtx, path, src)
			if err != nil {
				slog.Warn("skipping unparsable file", "path", path, "error", err)
				return nil
			}

			mu.Lock()
			defer mu.Unlock()

			snap.Files = append(snap.Files, path)
			snap.usingsByFile[path] = parsed.Usings
			snap.Declarations = append(snap.Declarations, parsed.Declarations...)

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(snap.Files, func(i, j int) bool { return snap.Files[i] < snap.Files[j] })
	sort.Slice(snap.Declarations, func(i, j int) bool {
		if snap.Declarations[i].File != snap.Declarations[j].File {
			return snap.Declarations[i].File < snap.Declarations[j].File
		}

		return snap.Declarations[i].Span.Start < snap.Declarations[j].Span.Start
	})

	for _, decl := range snap.Declarations {
		snap.byQualified[decl.QualifiedName()] = append(snap.byQualified[decl.QualifiedName()], decl)
		snap.bySimple[decl.Name] = append(snap.bySimple[decl.Name], decl)
	}

	slog.Info("snapshot built", "root", root, "files", len(snap.Files), "declarations", len(snap.Declarations))

	return snap, nil
}

func compilePatterns(patterns []string) ([]*regexp.Regexp, error) {
	compiled := make([]*regexp.Regexp, 0, len(patterns))

	for _, pattern := range patterns {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", pattern, err)
		}

		compiled = append(compiled, re)
	}

	return compiled, nil
}

// ByQualified returns every fragment contributing the given qualified name.
func (s *Snapshot) ByQualified(qualified string) []*m.Declaration {
	return s.byQualified[qualified]
}

// BySimple returns every declaration with the given simple name.
func (s *Snapshot) BySimple(name string) []*m.Declaration {
	return s.bySimple[name]
}

// UsingsFor returns the using directives of the file, for fallback resolution.
func (s *Snapshot) UsingsFor(file m.Path) []string {
	return s.usingsByFile[file]
}

// FindBase locates the definition of a base type referenced by simple name,
// preferring the same file, then other files in the same directory, then the
// rest of the project.
func (s *Snapshot) FindBase(from *m.Declaration, name string) *m.Declaration {
	candidates := s.bySimple[name]
	if len(candidates) == 0 {
		return nil
	}

	for _, c := range candidates {
		if c.File == from.File {
			return c
		}
	}

	fromDir := filepath.Dir(string(from.File))
	for _, c := range candidates {
		if filepath.Dir(string(c.File)) == fromDir {
			return c
		}
	}

	return candidates[0]
}

// DependentsOf answers the reverse dependency question: every declaration that
// references the target by simple or qualified name in any scanned position.
// Matching compares whole cleaned identifiers, so a name never matches another
// type whose name merely shares a suffix or prefix.
func (s *Snapshot) DependentsOf(target *m.Declaration) []*m.Declaration {
	var dependents []*m.Declaration

	targetQualified := target.QualifiedName()

	for _, decl := range s.Declarations {
		if decl.QualifiedName() == targetQualified {
			continue
		}

		for _, ref := range decl.References {
			if refersTo(ref.Name, target) {
				dependents = append(dependents, decl)
				break
			}
		}
	}

	return dependents
}

// refersTo reports whether a written type name denotes the target declaration.
func refersTo(raw string, target *m.Declaration) bool {
	name := CleanTypeName(raw)
	if name == "" {
		return false
	}

	if name == target.Name || name == target.QualifiedName() {
		return true
	}

	// A dotted name only counts when it is exactly the target's qualified
	// name; suffix matches on unrelated namespaces are rejected.
	return false
}

// CleanTypeName strips generic arguments, array and nullable suffixes and the
// global:: prefix from a written type name.
func CleanTypeName(raw string) string {
	name := strings.TrimSpace(raw)
	name = strings.TrimPrefix(name, "global::")

	if i := strings.IndexByte(name, '<'); i >= 0 {
		name = name[:i]
	}

	name = strings.TrimSuffix(name, "?")

	for strings.HasSuffix(name, "[]") {
		name = strings.TrimSuffix(name, "[]")
	}

	return strings.TrimSpace(name)
}

// SimpleName returns the last segment of a possibly qualified type name.
func SimpleName(qualified string) string {
	if i := strings.LastIndexByte(qualified, '.'); i >= 0 {
		return qualified[i+1:]
	}

	return qualified
}
