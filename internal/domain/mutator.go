package domain

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/formshift/formshift/internal/adapter"
	m "github.com/formshift/formshift/internal/model"
)

const (
	commentMarker = "// "

	// openingSentinel opens a removed block. The format is bit-stable:
	// idempotence detection across runs depends on it.
	openingSentinel = "========== COMMENTED OUT CLASS =========="
)

// closingSentinel is a line of repeated '=' matching the opening's width.
var closingSentinel = strings.Repeat("=", len(openingSentinel))

// Mutator applies exactly one of two idempotent text transformations per
// declaration: full removal-by-annotation or advisory-flag-only. Every
// mutation reads its file fresh from disk immediately before rewriting and
// never trusts byte offsets computed before an earlier write.
type Mutator struct {
	fs     adapter.SourceFSAdapter
	parser adapter.CSharpFileAdapter
}

// NewMutator constructs a Mutator over the filesystem and parser adapters.
func NewMutator(fs adapter.SourceFSAdapter, parser adapter.CSharpFileAdapter) *Mutator {
	return &Mutator{fs: fs, parser: parser}
}

// Flag inserts the advisory comment block immediately before the declaration
// keyword line, after attribute lines, preserving indentation. Re-running on
// already-flagged output detects the prior block and skips.
func (mu *Mutator) Flag(ctx context.Context, decl *m.Declaration, findings []m.Finding) (m.MutationStatus, error) {
	content, err := mu.fs.ReadFile(decl.File)
	if err != nil {
		return m.MutationFailed, fmt.Errorf("read %s: %w", decl.File, err)
	}

	if strings.Contains(string(content), flagMarker(decl.Name)) {
		slog.Debug("flag already present", "declaration", decl.QualifiedName(), "file", decl.File)
		return m.MutationSkipped, nil
	}

	live, err := mu.findLive(ctx, decl, content)
	if err != nil {
		return m.MutationFailed, err
	}

	if live == nil {
		slog.Warn("flag target no longer live, skipping", "declaration", decl.QualifiedName(), "file", decl.File)
		return m.MutationStale, nil
	}

	block := flagBlock(live, findings)

	insertAt := keywordLineStart(content, live)
	mutated := make([]byte, 0, len(content)+len(block))
	mutated = append(mutated, content[:insertAt]...)
	mutated = append(mutated, block...)
	mutated = append(mutated, content[insertAt:]...)

	if err := mu.fs.WriteFile(decl.File, mutated, 0o644); err != nil {
		return m.MutationFailed, fmt.Errorf("write %s: %w", decl.File, err)
	}

	slog.Info("flagged declaration", "declaration", decl.QualifiedName(), "file", decl.File)

	return m.MutationApplied, nil
}

// Remove replaces the full declaration text with a reason header, the opening
// sentinel, the original lines re-prefixed as comments and the closing
// sentinel. Re-running detects the declaration's name inside an existing
// removed block (word-boundary-safe) and skips.
func (mu *Mutator) Remove(ctx context.Context, decl *m.Declaration, findings []m.Finding) (m.MutationStatus, error) {
	content, err := mu.fs.ReadFile(decl.File)
	if err != nil {
		return m.MutationFailed, fmt.Errorf("read %s: %w", decl.File, err)
	}

	if removedBlockContains(content, decl.Name) {
		slog.Debug("removal already present", "declaration", decl.QualifiedName(), "file", decl.File)
		return m.MutationSkipped, nil
	}

	mutated, status, err := mu.removeInContent(ctx, decl, findings, content)
	if err != nil || status != m.MutationApplied {
		return status, err
	}

	if err := mu.fs.WriteFile(decl.File, mutated, 0o644); err != nil {
		return m.MutationFailed, fmt.Errorf("write %s: %w", decl.File, err)
	}

	slog.Info("removed declaration", "declaration", decl.QualifiedName(), "file", decl.File)

	return m.MutationApplied, nil
}

// RemoveSet removes every fragment of a partial declaration as an atomic set:
// if any fragment cannot be mutated, already-written fragments are restored
// and the whole set is reported as failed, never half-applied.
func (mu *Mutator) RemoveSet(ctx context.Context, fragments []*m.Declaration, findings []m.Finding) (m.MutationStatus, error) {
	if len(fragments) == 1 {
		return mu.Remove(ctx, fragments[0], findings)
	}

	// Preflight: every fragment's file must be readable before anything is written.
	originals := make(map[m.Path][]byte, len(fragments))

	for _, fragment := range fragments {
		if _, ok := originals[fragment.File]; ok {
			continue
		}

		content, err := mu.fs.ReadFile(fragment.File)
		if err != nil {
			return m.MutationFailed, fmt.Errorf("partial set aborted, read %s: %w", fragment.File, err)
		}

		originals[fragment.File] = content
	}

	written := make([]m.Path, 0, len(fragments))
	applied := false

	for _, fragment := range fragments {
		status, err := mu.Remove(ctx, fragment, findings)
		if err != nil {
			mu.rollback(written, originals)
			return m.MutationFailed, fmt.Errorf("partial set aborted at %s: %w", fragment.File, err)
		}

		if status == m.MutationApplied {
			written = append(written, fragment.File)
			applied = true
		}
	}

	if !applied {
		return m.MutationSkipped, nil
	}

	return m.MutationApplied, nil
}

func (mu *Mutator) rollback(written []m.Path, originals map[m.Path][]byte) {
	for _, path := range written {
		if original, ok := originals[path]; ok {
			if err := mu.fs.WriteFile(path, original, 0o644); err != nil {
				slog.Error("rollback failed", "file", path, "error", err)
			}
		}
	}
}

// removeInContent builds the mutated file content for one removal. Spans come
// from a fresh re-parse of the passed content, never from the snapshot: an
// earlier mutation in the same run may have shifted byte offsets.
func (mu *Mutator) removeInContent(ctx context.Context, decl *m.Declaration, findings []m.Finding, content []byte) ([]byte, m.MutationStatus, error) {
	live, err := mu.findLive(ctx, decl, content)
	if err != nil {
		return nil, m.MutationFailed, err
	}

	if live == nil {
		slog.Warn("removal target no longer live, skipping", "declaration", decl.QualifiedName(), "file", decl.File)
		return nil, m.MutationStale, nil
	}

	start := lineStart(content, live.Span.Start)
	end := live.Span.End
	if end > len(content) {
		end = len(content)
	}

	block := removeBlock(live, string(content[start:end]), findings)

	mutated := make([]byte, 0, len(content)+len(block))
	mutated = append(mutated, content[:start]...)
	mutated = append(mutated, block...)
	mutated = append(mutated, content[end:]...)

	return mutated, m.MutationApplied, nil
}

// findLive re-parses current content and returns the declaration's fresh
// span, or nil when it no longer exists as live (non-commented) code.
func (mu *Mutator) findLive(ctx context.Context, decl *m.Declaration, content []byte) (*m.Declaration, error) {
	parsed, err := mu.parser.Parse(ctx, decl.File, content)
	if err != nil {
		return nil, fmt.Errorf("re-parse %s: %w", decl.File, err)
	}

	for _, candidate := range parsed.Declarations {
		if candidate.QualifiedName() == decl.QualifiedName() && candidate.Kind == decl.Kind {
			return candidate, nil
		}
	}

	return nil, nil
}

// flagMarker is the fixed-format fragment scanned for flag idempotence. The
// quotes bound the name, so one name is never detected inside another.
func flagMarker(name string) string {
	return fmt.Sprintf("TODO: The '%s' ", name)
}

func todoLine(decl *m.Declaration, verb string) string {
	return fmt.Sprintf("%s%sTODO: The '%s' %s has been %s automatically due to usage of types that have no equivalent.\n",
		decl.Indent, commentMarker, decl.Name, decl.KindLabel(), verb)
}

func reasonLines(decl *m.Declaration, findings []m.Finding) string {
	var b strings.Builder

	for _, finding := range findings {
		fmt.Fprintf(&b, "%s%s  - %s\n", decl.Indent, commentMarker, finding.Reason)
		if finding.Description != "" {
			fmt.Fprintf(&b, "%s%s    %s\n", decl.Indent, commentMarker, finding.Description)
		}
	}

	return b.String()
}

func flagBlock(decl *m.Declaration, findings []m.Finding) string {
	return todoLine(decl, "marked") + reasonLines(decl, findings)
}

func removeBlock(decl *m.Declaration, original string, findings []m.Finding) string {
	var b strings.Builder

	b.WriteString(todoLine(decl, "commented out"))
	b.WriteString(reasonLines(decl, findings))
	fmt.Fprintf(&b, "%s%s%s\n", decl.Indent, commentMarker, openingSentinel)

	for _, line := range strings.Split(original, "\n") {
		if strings.TrimSpace(line) == "" {
			b.WriteString(line)
			b.WriteByte('\n')
			continue
		}

		fmt.Fprintf(&b, "%s%s%s\n", decl.Indent, commentMarker, strings.TrimPrefix(line, decl.Indent))
	}

	fmt.Fprintf(&b, "%s%s%s", decl.Indent, commentMarker, closingSentinel)

	return b.String()
}

// removedBlockContains scans every sentinel-bounded region of the file for
// the declaration name as a whole word, so `ASPxCustomListEditor` is never
// mistaken for `ASPxCustomListEditorControl` or vice versa.
func removedBlockContains(content []byte, name string) bool {
	text := string(content)
	namePattern := regexp.MustCompile(`\b` + regexp.QuoteMeta(name) + `\b`)

	for {
		open := strings.Index(text, openingSentinel)
		if open < 0 {
			return false
		}

		rest := text[open+len(openingSentinel):]

		region := rest
		next := rest

		if close := findClosingSentinel(rest); close >= 0 {
			region = rest[:close]
			next = rest[close:]
		} else {
			next = ""
		}

		if namePattern.MatchString(region) {
			return true
		}

		text = next
	}
}

// findClosingSentinel locates the first line that is, after stripping the
// comment marker and whitespace, made of '=' only.
func findClosingSentinel(text string) int {
	offset := 0

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		trimmed = strings.TrimPrefix(trimmed, strings.TrimSpace(commentMarker))
		trimmed = strings.TrimSpace(trimmed)

		if len(trimmed) >= 10 && strings.Count(trimmed, "=") == len(trimmed) {
			return offset
		}

		offset += len(line) + 1
	}

	return -1
}

// keywordLineStart returns the offset of the line carrying the declaration
// keyword: leading comment and attribute lines are kept above the flag block.
func keywordLineStart(content []byte, decl *m.Declaration) int {
	offset := lineStart(content, decl.Span.Start)

	for offset < decl.Span.End && offset < len(content) {
		lineEnd := offset

		for lineEnd < len(content) && content[lineEnd] != '\n' {
			lineEnd++
		}

		trimmed := strings.TrimSpace(string(content[offset:lineEnd]))
		if trimmed != "" && !strings.HasPrefix(trimmed, "//") && !strings.HasPrefix(trimmed, "[") && !strings.HasPrefix(trimmed, "/*") && !strings.HasPrefix(trimmed, "*") {
			return offset
		}

		offset = lineEnd + 1
	}

	return lineStart(content, decl.Span.Start)
}

// lineStart walks back from offset to the beginning of its line.
func lineStart(content []byte, offset int) int {
	if offset > len(content) {
		offset = len(content)
	}

	for offset > 0 && content[offset-1] != '\n' {
		offset--
	}

	return offset
}
