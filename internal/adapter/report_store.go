package adapter

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	m "github.com/formshift/formshift/internal/model"
)

// ReportStore persists run reports so operators can render or diff them later.
type ReportStore interface {
	SaveReport(dir m.Path, report *m.RunReport) error
	LoadLatest(dir m.Path) (*m.RunReport, error)
}

// YAMLReportStore stores one YAML document per run in the reports directory.
type YAMLReportStore struct{}

// NewReportStore constructs a YAMLReportStore.
func NewReportStore() *YAMLReportStore {
	return &YAMLReportStore{}
}

// SaveReport writes the report as <dir>/<run-id>.yaml, creating the directory
// when needed.
func (s *YAMLReportStore) SaveReport(dir m.Path, report *m.RunReport) error {
	if err := os.MkdirAll(string(dir), 0o750); err != nil {
		return fmt.Errorf("create reports dir %s: %w", dir, err)
	}

	data, err := yaml.Marshal(report)
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}

	target := filepath.Join(string(dir), report.ID+".yaml")
	if err := os.WriteFile(target, data, 0o600); err != nil {
		return fmt.Errorf("write report %s: %w", target, err)
	}

	return nil
}

// LoadLatest reads the most recently modified report in the directory.
func (s *YAMLReportStore) LoadLatest(dir m.Path) (*m.RunReport, error) {
	entries, err := os.ReadDir(string(dir))
	if err != nil {
		return nil, fmt.Errorf("read reports dir %s: %w", dir, err)
	}

	var candidates []os.DirEntry

	for _, entry := range entries {
		if !entry.IsDir() && filepath.Ext(entry.Name()) == ".yaml" {
			candidates = append(candidates, entry)
		}
	}

	if len(candidates) == 0 {
		return nil, fmt.Errorf("no reports found in %s", dir)
	}

	sort.Slice(candidates, func(i, j int) bool {
		fi, errI := candidates[i].Info()
		fj, errJ := candidates[j].Info()

		if errI != nil || errJ != nil {
			return candidates[i].Name() < candidates[j].Name()
		}

		return fi.ModTime().Before(fj.ModTime())
	})

	latest := filepath.Join(string(dir), candidates[len(candidates)-1].Name())

	data, err := os.ReadFile(latest)
	if err != nil {
		return nil, fmt.Errorf("read report %s: %w", latest, err)
	}

	var report m.RunReport
	if err := yaml.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("decode report %s: %w", latest, err)
	}

	return &report, nil
}
