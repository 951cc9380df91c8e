package controller

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	m "github.com/formshift/formshift/internal/model"
)

// SimpleUI implements UI using cobra Command's Println, with lipgloss styling
// when the output is a terminal.
type SimpleUI struct {
	cmd    *cobra.Command
	styled bool
}

// NewSimpleUI creates a new SimpleUI. When styled is false all output is
// plain text, suitable for piped output and CI logs.
func NewSimpleUI(cmd *cobra.Command, styled bool) *SimpleUI {
	return &SimpleUI{cmd: cmd, styled: styled}
}

var (
	removedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	flaggedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
)

// DisplayReport prints the outcome table followed by the summary line.
func (s *SimpleUI) DisplayReport(report *m.RunReport) error {
	entries := make([]m.ReportEntry, len(report.Entries))
	copy(entries, report.Entries)
	sort.Slice(entries, func(i, j int) bool { return entries[i].Qualified < entries[j].Qualified })

	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Declaration", "File", "Outcome", "Findings", "Mutation"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_CENTER,
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_CENTER,
	})

	for _, entry := range entries {
		table.Append([]string{
			entry.Qualified,
			string(entry.File),
			entry.Outcome.String(),
			summarizeFindings(entry.Findings),
			string(entry.Mutation),
		})
	}

	table.Render()
	s.printf("\n%s\n", tableBuffer.String())

	removed, flagged, failed := report.Counts()
	s.printf("%s  %s  %s\n",
		s.style(removedStyle, fmt.Sprintf("removed: %d", removed)),
		s.style(flaggedStyle, fmt.Sprintf("flagged: %d", flagged)),
		s.style(okStyle, fmt.Sprintf("scanned: %d declarations in %d files", report.Scanned, report.Files)),
	)

	if failed > 0 {
		s.printf("%s\n", s.style(removedStyle, fmt.Sprintf("failed mutations: %d (see report %s)", failed, report.ID)))
	}

	return nil
}

// DisplayRules prints the effective classification table grouped by category.
func (s *SimpleUI) DisplayRules(rules *m.Ruleset) error {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Type", "Category", "Reason"})
	table.SetBorder(false)
	table.SetCenterSeparator("")

	for _, name := range sortedKeys(rules.NoEquivalent) {
		table.Append([]string{name, "no-equivalent", rules.NoEquivalent[name].Reason})
	}

	for _, name := range sortedKeys(rules.Manual) {
		table.Append([]string{name, "manual", rules.Manual[name].Reason})
	}

	for _, name := range sortedKeysOf(rules.Renameable) {
		table.Append([]string{name, "renameable", "renamed to " + rules.Renameable[name]})
	}

	table.Render()
	s.printf("\n%s\n", tableBuffer.String())
	s.printf("protected base types: %s\n", strings.Join(rules.ProtectedBases, ", "))

	return nil
}

// Printf writes a formatted message to the command output.
func (s *SimpleUI) Printf(format string, args ...any) {
	s.printf(format, args...)
}

func (s *SimpleUI) printf(format string, args ...any) {
	s.cmd.Printf(format, args...)
}

func (s *SimpleUI) style(style lipgloss.Style, text string) string {
	if !s.styled {
		return text
	}

	return style.Render(text)
}

func summarizeFindings(findings []m.Finding) string {
	if len(findings) == 0 {
		return ""
	}

	parts := make([]string, 0, len(findings))
	for _, f := range findings {
		parts = append(parts, fmt.Sprintf("%s (%s)", f.TypeName, f.Severity))
	}

	return strings.Join(parts, ", ")
}

func sortedKeys(rules map[string]m.Rule) []string {
	keys := make([]string, 0, len(rules))
	for k := range rules {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	return keys
}

func sortedKeysOf(renames map[string]string) []string {
	keys := make([]string, 0, len(renames))
	for k := range renames {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	return keys
}
