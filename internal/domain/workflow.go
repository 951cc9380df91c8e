package domain

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/formshift/formshift/internal/adapter"
	"github.com/formshift/formshift/internal/controller"
	m "github.com/formshift/formshift/internal/model"
	"github.com/formshift/formshift/pkg/journal"
)

// ScanArgs configures an analysis-only run.
type ScanArgs struct {
	Root       m.Path
	Exclude    []string
	Threads    int
	ReviewOnly bool
	Reports    m.Path
}

// MigrateArgs configures a mutating run.
type MigrateArgs struct {
	ScanArgs
	Journal m.Path
}

// ReportArgs configures rendering of a stored report.
type ReportArgs struct {
	Reports m.Path
}

// JournalRecord is one mutation appended to the audit journal.
type JournalRecord struct {
	RunID     string
	Qualified string
	File      string
	Outcome   string
	Status    string
	At        time.Time
}

// Workflow orchestrates a full engine run: snapshot, classification, cascade,
// partial-declaration coordination and mutation, in that strict order. The
// snapshot is frozen before any mutation begins.
type Workflow interface {
	Scan(ctx context.Context, args ScanArgs) error
	Migrate(ctx context.Context, args MigrateArgs) error
	Report(ctx context.Context, args ReportArgs) error
}

type workflow struct {
	fs     adapter.SourceFSAdapter
	parser adapter.CSharpFileAdapter
	store  adapter.ReportStore
	ui     controller.UI
	rules  *m.Ruleset
}

// NewWorkflow creates a Workflow with the provided dependencies.
func NewWorkflow(
	fs adapter.SourceFSAdapter,
	parser adapter.CSharpFileAdapter,
	store adapter.ReportStore,
	ui controller.UI,
	rules *m.Ruleset,
) Workflow {
	return &workflow{
		fs:     fs,
		parser: parser,
		store:  store,
		ui:     ui,
		rules:  rules,
	}
}

// Scan analyzes the project and reports outcomes without touching any file.
func (w *workflow) Scan(ctx context.Context, args ScanArgs) error {
	started := time.Now()

	snap, result, err := w.analyze(ctx, args)
	if err != nil {
		return err
	}

	report := w.buildReport(m.ModeScan, started, args.Root, snap, result)

	return w.finish(report, args.Reports)
}

// Migrate analyzes the project, then applies one idempotent mutation per
// non-untouched declaration, file-at-a-time against live disk state.
func (w *workflow) Migrate(ctx context.Context, args MigrateArgs) error {
	started := time.Now()

	snap, result, err := w.analyze(ctx, args.ScanArgs)
	if err != nil {
		return err
	}

	mode := m.ModeMigrate
	if args.ReviewOnly {
		mode = m.ModeReview
	}

	report := w.buildReport(mode, started, args.Root, snap, result)

	audit, err := w.openJournal(args.Journal)
	if err != nil {
		return err
	}

	if audit != nil {
		defer func() {
			_ = audit.Close()
		}()
	}

	protection := NewProtectionPolicy(snap, w.rules, args.ReviewOnly)
	partials := NewPartialCoordinator(snap, protection)
	mutator := NewMutator(w.fs, w.parser)

	for i := range report.Entries {
		entry := &report.Entries[i]

		lead := w.lead(snap, entry.Qualified)
		if lead == nil {
			continue
		}

		fragments := partials.Fragments(lead)
		findings := result.Findings[entry.Qualified]

		status, err := w.mutate(ctx, mutator, entry.Outcome, fragments, findings)
		entry.Mutation = status

		if err != nil {
			// A mutation failure is recorded on its entry; the run continues.
			entry.Error = err.Error()
			slog.Error("mutation failed", "declaration", entry.Qualified, "error", err)
		}

		if audit != nil {
			record := JournalRecord{
				RunID:     report.ID,
				Qualified: entry.Qualified,
				File:      string(entry.File),
				Outcome:   entry.Outcome.String(),
				Status:    string(status),
				At:        time.Now(),
			}

			if err := audit.Append(record); err != nil {
				slog.Warn("journal append failed", "error", err)
			}
		}
	}

	report.Duration = time.Since(started)

	return w.finish(report, args.Reports)
}

// Report renders the most recent stored report.
func (w *workflow) Report(_ context.Context, args ReportArgs) error {
	report, err := w.store.LoadLatest(args.Reports)
	if err != nil {
		return fmt.Errorf("load report: %w", err)
	}

	return w.ui.DisplayReport(report)
}

// analyze builds the frozen snapshot and runs classification plus cascade
// propagation over it. No mutation happens here.
func (w *workflow) analyze(ctx context.Context, args ScanArgs) (*Snapshot, *CascadeResult, error) {
	builder := NewSnapshotBuilder(w.fs, w.parser)

	snap, err := builder.Build(ctx, args.Root, args.Exclude, args.Threads)
	if err != nil {
		return nil, nil, fmt.Errorf("build snapshot: %w", err)
	}

	resolver := NewResolver(snap, w.rules)
	classifier := NewClassifier(resolver, w.rules)
	protection := NewProtectionPolicy(snap, w.rules, args.ReviewOnly)
	partials := NewPartialCoordinator(snap, protection)
	cascade := NewCascade(snap, partials)

	seeds := make(map[string][]m.Finding)

	for _, decl := range snap.Declarations {
		findings := classifier.Classify(decl)
		if len(findings) == 0 {
			continue
		}

		qualified := decl.QualifiedName()
		seeds[qualified] = m.DedupFindings(append(seeds[qualified], findings...))
	}

	result := cascade.Propagate(seeds)

	return snap, result, nil
}

func (w *workflow) buildReport(mode m.RunMode, started time.Time, root m.Path, snap *Snapshot, result *CascadeResult) *m.RunReport {
	report := &m.RunReport{
		ID:        uuid.NewString(),
		Mode:      mode,
		StartedAt: started,
		Duration:  time.Since(started),
		Root:      root,
		Files:     len(snap.Files),
		Scanned:   len(snap.Declarations),
	}

	for _, qualified := range result.Outcomes.Qualified() {
		lead := w.lead(snap, qualified)
		if lead == nil {
			continue
		}

		report.Entries = append(report.Entries, m.ReportEntry{
			Qualified:  qualified,
			File:       lead.File,
			Kind:       lead.KindLabel(),
			Outcome:    result.Outcomes.Get(qualified),
			Findings:   result.Findings[qualified],
			Dependents: result.Dependents[qualified],
			Mutation:   m.MutationNone,
		})
	}

	return report
}

func (w *workflow) mutate(ctx context.Context, mutator *Mutator, outcome m.Outcome, fragments []*m.Declaration, findings []m.Finding) (m.MutationStatus, error) {
	switch outcome {
	case m.Removed:
		return mutator.RemoveSet(ctx, fragments, findings)

	case m.Flagged:
		// Flags are non-destructive; fragments are annotated independently.
		status := m.MutationSkipped

		for _, fragment := range fragments {
			fragmentStatus, err := mutator.Flag(ctx, fragment, findings)
			if err != nil {
				return m.MutationFailed, err
			}

			if fragmentStatus == m.MutationApplied {
				status = m.MutationApplied
			}
		}

		return status, nil

	default:
		return m.MutationNone, nil
	}
}

func (w *workflow) lead(snap *Snapshot, qualified string) *m.Declaration {
	fragments := snap.ByQualified(qualified)
	if len(fragments) == 0 {
		return nil
	}

	return fragments[0]
}

func (w *workflow) openJournal(path m.Path) (journal.Journal[JournalRecord], error) {
	if path == "" {
		return nil, nil
	}

	audit, err := journal.New[JournalRecord](string(path))
	if err != nil {
		return nil, fmt.Errorf("open mutation journal: %w", err)
	}

	return audit, nil
}

func (w *workflow) finish(report *m.RunReport, reportsDir m.Path) error {
	if reportsDir != "" {
		if err := w.store.SaveReport(reportsDir, report); err != nil {
			return fmt.Errorf("save report: %w", err)
		}
	}

	return w.ui.DisplayReport(report)
}
