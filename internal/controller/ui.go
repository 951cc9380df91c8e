// Package controller provides output adapters for displaying migration results.
package controller

import (
	"os"

	"github.com/mattn/go-isatty"

	m "github.com/formshift/formshift/internal/model"
)

// UI defines the interface for displaying migration results. Implementations
// can use different output methods (plain text, styled terminal output).
type UI interface {
	// DisplayReport renders the per-declaration outcome table and summary.
	DisplayReport(report *m.RunReport) error
	// DisplayRules renders the effective classification table.
	DisplayRules(rules *m.Ruleset) error
	// Printf writes a formatted message to the command output.
	Printf(format string, args ...any)
}

// IsTTY reports whether the file is attached to a terminal, so styling can be
// disabled for piped output.
func IsTTY(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
