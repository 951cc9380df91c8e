package adapter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "github.com/formshift/formshift/internal/model"
)

func sampleReport(id string) *m.RunReport {
	return &m.RunReport{
		ID:        id,
		Mode:      m.ModeMigrate,
		StartedAt: time.Now().UTC().Truncate(time.Second),
		Duration:  3 * time.Second,
		Root:      "src",
		Files:     12,
		Scanned:   40,
		Entries: []m.ReportEntry{
			{
				Qualified: "App.Foo",
				File:      "src/Foo.cs",
				Kind:      "class",
				Outcome:   m.Removed,
				Findings: []m.Finding{{
					TypeName:        "LegacyPage",
					QualifiedType:   "Legacy.Web.LegacyPage",
					Reason:          "no equivalent",
					Severity:        m.SeverityCritical,
					MandatesRemoval: true,
				}},
				Dependents: []string{"App.Bar"},
				Mutation:   m.MutationApplied,
			},
			{
				Qualified: "App.Module",
				File:      "src/Module.cs",
				Kind:      "class",
				Outcome:   m.Flagged,
				Mutation:  m.MutationApplied,
			},
		},
	}
}

func TestReportStoreRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store := NewReportStore()

	saved := sampleReport("run-1")
	require.NoError(t, store.SaveReport(m.Path(dir), saved))

	loaded, err := store.LoadLatest(m.Path(dir))
	require.NoError(t, err)

	assert.Equal(t, saved.ID, loaded.ID)
	assert.Equal(t, saved.Mode, loaded.Mode)
	assert.Equal(t, saved.Files, loaded.Files)
	require.Len(t, loaded.Entries, 2)
	assert.Equal(t, m.Removed, loaded.Entries[0].Outcome)
	assert.Equal(t, saved.Entries[0].Findings, loaded.Entries[0].Findings)
}

func TestReportStoreLoadsNewestRun(t *testing.T) {
	dir := t.TempDir()
	store := NewReportStore()

	require.NoError(t, store.SaveReport(m.Path(dir), sampleReport("run-old")))
	time.Sleep(10 * time.Millisecond)
	require.NoError(t, store.SaveReport(m.Path(dir), sampleReport("run-new")))

	loaded, err := store.LoadLatest(m.Path(dir))
	require.NoError(t, err)
	assert.Equal(t, "run-new", loaded.ID)
}

func TestReportStoreEmptyDir(t *testing.T) {
	store := NewReportStore()

	_, err := store.LoadLatest(m.Path(t.TempDir()))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no reports found")
}
