package domain

import (
	"context"
	"regexp"
	"strings"

	"github.com/formshift/formshift/internal/adapter"
	m "github.com/formshift/formshift/internal/model"
)

// newTestSnapshot assembles a snapshot directly from declarations, bypassing
// parsing, so cascade/protection/resolver logic can be tested in isolation.
func newTestSnapshot(usings map[m.Path][]string, decls ...*m.Declaration) *Snapshot {
	snap := &Snapshot{
		Root:         ".",
		Declarations: decls,
		usingsByFile: usings,
		byQualified:  make(map[string][]*m.Declaration),
		bySimple:     make(map[string][]*m.Declaration),
	}

	if snap.usingsByFile == nil {
		snap.usingsByFile = make(map[m.Path][]string)
	}

	seenFiles := make(map[m.Path]struct{})

	for _, decl := range decls {
		snap.byQualified[decl.QualifiedName()] = append(snap.byQualified[decl.QualifiedName()], decl)
		snap.bySimple[decl.Name] = append(snap.bySimple[decl.Name], decl)

		if _, ok := seenFiles[decl.File]; !ok {
			seenFiles[decl.File] = struct{}{}
			snap.Files = append(snap.Files, decl.File)
		}
	}

	return snap
}

func field(name string) m.TypeReference {
	return m.TypeReference{Name: name, Kind: m.RefField}
}

// testRules is a fixture classification table; tests never rely on the
// built-in ruleset.
func testRules() *m.Ruleset {
	return &m.Ruleset{
		NoEquivalent: map[string]m.Rule{
			"Legacy.Web.LegacyPage": {Reason: "LegacyPage has no equivalent", Severity: m.SeverityCritical},
		},
		Manual: map[string]m.Rule{
			"Legacy.Web.LegacyEditor": {Reason: "LegacyEditor needs a manual rewrite", Severity: m.SeverityHigh},
		},
		ProtectedBases: []string{"ModuleBase", "ViewController"},
	}
}

// testDecl builds a declaration with base types doubling as base references,
// mirroring how the real parser records them.
func testDecl(name, namespace string, file m.Path, bases []string, refs ...m.TypeReference) *m.Declaration {
	d := &m.Declaration{
		Name:      name,
		Namespace: namespace,
		File:      file,
		Kind:      m.DeclClass,
		BaseTypes: bases,
	}

	for _, base := range bases {
		d.References = append(d.References, m.TypeReference{Name: base, Kind: m.RefBaseType})
	}

	d.References = append(d.References, refs...)

	return d
}

// lineParser is a miniature line-oriented C# reader used by mutation and
// workflow tests. It understands:
//
//	using Some.Namespace;
//	namespace Some.Namespace
//	[indent][modifiers] [partial] class Name [: Base1, Base2] { Type1 a; Type2 b; }
//
// one declaration per line, braces on the same line. Lines whose first
// non-space characters are "//" are comments and never parse as declarations,
// which is exactly the live-code property the mutation engine relies on.
type lineParser struct{}

var (
	lineClassRe = regexp.MustCompile(`^([ \t]*)((?:public |internal |static )*)(partial )?class ([A-Za-z_]\w*)\s*(?::\s*([^{]*?)\s*)?\{(.*)\}\s*$`)
	lineNsRe    = regexp.MustCompile(`^namespace ([\w.]+)\s*$`)
	lineUsingRe = regexp.MustCompile(`^using ([\w.]+);\s*$`)
)

func (p *lineParser) Parse(_ context.Context, path m.Path, src []byte) (*adapter.ParsedFile, error) {
	parsed := &adapter.ParsedFile{Path: path}

	namespace := ""
	offset := 0

	for lineNo, line := range strings.Split(string(src), "\n") {
		trimmed := strings.TrimSpace(line)

		switch {
		case strings.HasPrefix(trimmed, "//"):
			// commented-out code is not live

		case lineUsingRe.MatchString(trimmed):
			parsed.Usings = append(parsed.Usings, lineUsingRe.FindStringSubmatch(trimmed)[1])

		case lineNsRe.MatchString(trimmed):
			namespace = lineNsRe.FindStringSubmatch(trimmed)[1]

		default:
			if match := lineClassRe.FindStringSubmatch(line); match != nil {
				indent := match[1]

				d := &m.Declaration{
					Name:      match[4],
					Namespace: namespace,
					File:      path,
					Kind:      m.DeclClass,
					IsPartial: match[3] != "",
					Indent:    indent,
					Span:      m.Span{Start: offset + len(indent), End: offset + len(strings.TrimRight(line, " \t"))},
					StartLine: lineNo + 1,
					EndLine:   lineNo + 1,
				}

				if match[5] != "" {
					for _, base := range strings.Split(match[5], ",") {
						base = strings.TrimSpace(base)
						if base == "" {
							continue
						}

						d.BaseTypes = append(d.BaseTypes, base)
						d.References = append(d.References, m.TypeReference{Name: base, Kind: m.RefBaseType, Line: d.StartLine})
					}
				}

				for _, stmt := range strings.Split(match[6], ";") {
					words := strings.Fields(stmt)
					if len(words) >= 2 {
						d.References = append(d.References, m.TypeReference{Name: words[0], Kind: m.RefField, Line: d.StartLine})
					}
				}

				parsed.Declarations = append(parsed.Declarations, d)
			}
		}

		offset += len(line) + 1
	}

	return parsed, nil
}
