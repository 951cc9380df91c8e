package adapter

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/csharp"

	m "github.com/formshift/formshift/internal/model"
)

// ParsedFile is the result of parsing one C# source file: the using directives
// and every namespace-level type declaration with its broad reference scan.
type ParsedFile struct {
	Path         m.Path
	Usings       []string
	Declarations []*m.Declaration
}

// CSharpFileAdapter encapsulates C#-specific parsing so the domain layer can
// focus on classification and cascade rules while delegating grammar details
// to an infrastructure component.
type CSharpFileAdapter interface {
	// Parse builds the declaration view of a single file from the provided
	// source bytes.
	Parse(ctx context.Context, path m.Path, src []byte) (*ParsedFile, error)
}

// TreeSitterCSharpAdapter provides a concrete CSharpFileAdapter backed by the
// tree-sitter C# grammar.
type TreeSitterCSharpAdapter struct{}

// NewTreeSitterCSharpAdapter constructs a TreeSitterCSharpAdapter.
func NewTreeSitterCSharpAdapter() *TreeSitterCSharpAdapter {
	return &TreeSitterCSharpAdapter{}
}

// predefinedTypes are builtin C# type keywords that never resolve to a
// user or framework declaration.
var predefinedTypes = map[string]struct{}{
	"bool": {}, "byte": {}, "sbyte": {}, "char": {}, "decimal": {},
	"double": {}, "float": {}, "int": {}, "uint": {}, "nint": {}, "nuint": {},
	"long": {}, "ulong": {}, "short": {}, "ushort": {}, "object": {},
	"string": {}, "void": {}, "var": {}, "dynamic": {},
}

// declarationKinds maps tree-sitter node types to declaration kinds.
var declarationKinds = map[string]m.DeclarationKind{
	"class_declaration":     m.DeclClass,
	"interface_declaration": m.DeclInterface,
	"struct_declaration":    m.DeclStruct,
	"enum_declaration":      m.DeclEnum,
	"record_declaration":    m.DeclClass,
}

// Parse builds a ParsedFile for the provided path/source pair.
func (a *TreeSitterCSharpAdapter) Parse(ctx context.Context, path m.Path, src []byte) (*ParsedFile, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(csharp.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	defer tree.Close()

	parsed := &ParsedFile{Path: path}
	a.walkScope(tree.RootNode(), src, "", parsed)

	return parsed, nil
}

// walkScope visits one namespace scope, collecting using directives and
// namespace-level type declarations. Nested types stay inside their enclosing
// declaration's span so mutation ranges never overlap.
func (a *TreeSitterCSharpAdapter) walkScope(node *sitter.Node, src []byte, namespace string, parsed *ParsedFile) {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)

		switch child.Type() {
		case "using_directive":
			if name := a.usingName(child, src); name != "" {
				parsed.Usings = append(parsed.Usings, name)
			}

		case "namespace_declaration", "file_scoped_namespace_declaration":
			name := a.fieldContent(child, "name", src)
			inner := name
			if namespace != "" && name != "" {
				inner = namespace + "." + name
			}

			body := child.ChildByFieldName("body")
			if body == nil {
				// File-scoped namespaces have no body node; siblings follow.
				a.walkScope(child, src, inner, parsed)
				continue
			}

			a.walkScope(body, src, inner, parsed)

		default:
			if kind, ok := declarationKinds[child.Type()]; ok {
				if decl := a.extractDeclaration(child, src, namespace, kind, parsed.Path); decl != nil {
					parsed.Declarations = append(parsed.Declarations, decl)
				}
			}
		}
	}
}

func (a *TreeSitterCSharpAdapter) fieldContent(node *sitter.Node, field string, src []byte) string {
	if child := node.ChildByFieldName(field); child != nil {
		return child.Content(src)
	}

	return ""
}

func (a *TreeSitterCSharpAdapter) usingName(node *sitter.Node, src []byte) string {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if child.Type() == "qualified_name" || child.Type() == "identifier" {
			return child.Content(src)
		}
	}

	return ""
}

func (a *TreeSitterCSharpAdapter) extractDeclaration(node *sitter.Node, src []byte, namespace string, kind m.DeclarationKind, path m.Path) *m.Declaration {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return nil
	}

	start := a.leadingCommentStart(node, src)
	end := int(node.EndByte())

	decl := &m.Declaration{
		Name:      nameNode.Content(src),
		Namespace: namespace,
		File:      path,
		Kind:      kind,
		Span:      m.Span{Start: start, End: end},
		IsPartial: a.hasPartialModifier(node, src),
		Indent:    lineIndent(src, int(node.StartByte())),
		StartLine: int(node.StartPoint().Row) + 1,
		EndLine:   int(node.EndPoint().Row) + 1,
	}

	if bases := baseList(node); bases != nil {
		for i := 0; i < int(bases.NamedChildCount()); i++ {
			base := bases.NamedChild(i)
			for _, name := range typeNames(base, src) {
				decl.BaseTypes = append(decl.BaseTypes, name)
				decl.References = append(decl.References, m.TypeReference{
					Name: name,
					Kind: m.RefBaseType,
					Line: int(base.StartPoint().Row) + 1,
				})
			}
		}
	}

	a.collectReferences(node, src, decl)

	return decl
}

// baseList locates the declaration's base list, via the field name when the
// grammar exposes one and by node type otherwise.
func baseList(node *sitter.Node) *sitter.Node {
	if bases := node.ChildByFieldName("bases"); bases != nil {
		return bases
	}

	for i := 0; i < int(node.NamedChildCount()); i++ {
		if child := node.NamedChild(i); child.Type() == "base_list" {
			return child
		}
	}

	return nil
}

// hasPartialModifier reports whether the declaration carries the partial keyword.
func (a *TreeSitterCSharpAdapter) hasPartialModifier(node *sitter.Node, src []byte) bool {
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child.Type() == "modifier" || child.Type() == "partial" {
			if strings.TrimSpace(child.Content(src)) == "partial" {
				return true
			}
		}
	}

	return false
}

// leadingCommentStart extends the declaration start upward over contiguous
// preceding comment lines so doc comments are part of the span.
func (a *TreeSitterCSharpAdapter) leadingCommentStart(node *sitter.Node, src []byte) int {
	start := int(node.StartByte())

	for prev := node.PrevSibling(); prev != nil; prev = prev.PrevSibling() {
		if prev.Type() != "comment" {
			break
		}

		gap := src[prev.EndByte():start]
		if strings.Count(string(gap), "\n") > 1 {
			break
		}

		start = int(prev.StartByte())
	}

	return start
}

// typeFieldKinds maps node types carrying a "type" field to the reference
// kind their type occupies.
var typeFieldKinds = map[string]m.ReferenceKind{
	"variable_declaration":       m.RefLocal,
	"parameter":                  m.RefParameter,
	"property_declaration":       m.RefProperty,
	"method_declaration":         m.RefReturn,
	"object_creation_expression": m.RefConstruction,
	"typeof_expression":          m.RefTypeOf,
}

// collectReferences performs the broad syntactic scan over the declaration
// body: base lists, field/property/parameter/return/local types, constructed
// objects, typeof operands and static member accesses. The scan
// over-approximates; a reference inside dead code still counts.
func (a *TreeSitterCSharpAdapter) collectReferences(node *sitter.Node, src []byte, decl *m.Declaration) {
	var walk func(n *sitter.Node)

	walk = func(n *sitter.Node) {
		kind, hasTypeField := typeFieldKinds[n.Type()]

		if hasTypeField {
			typeNode := n.ChildByFieldName("type")
			if typeNode == nil {
				typeNode = n.ChildByFieldName("returns")
			}

			if typeNode != nil {
				refKind := kind
				if n.Type() == "variable_declaration" && n.Parent() != nil && n.Parent().Type() == "field_declaration" {
					refKind = m.RefField
				}

				for _, name := range typeNames(typeNode, src) {
					decl.References = append(decl.References, m.TypeReference{
						Name: name,
						Kind: refKind,
						Line: int(typeNode.StartPoint().Row) + 1,
					})
				}
			}
		}

		if n.Type() == "member_access_expression" {
			if recv := n.ChildByFieldName("expression"); recv != nil {
				recvType := recv.Type()
				if recvType == "identifier" || recvType == "qualified_name" {
					decl.References = append(decl.References, m.TypeReference{
						Name: recv.Content(src),
						Kind: m.RefMemberAccess,
						Line: int(recv.StartPoint().Row) + 1,
					})
				}
			}
		}

		for i := 0; i < int(n.NamedChildCount()); i++ {
			walk(n.NamedChild(i))
		}
	}

	walk(node)
}

// typeNames extracts every identifier and qualified name inside a type node,
// including generic type arguments, skipping builtin type keywords.
func typeNames(node *sitter.Node, src []byte) []string {
	var names []string

	var walk func(n *sitter.Node)

	walk = func(n *sitter.Node) {
		switch n.Type() {
		case "predefined_type":
			return

		case "qualified_name":
			names = append(names, n.Content(src))
			return

		case "identifier":
			name := n.Content(src)
			if _, builtin := predefinedTypes[name]; !builtin {
				names = append(names, name)
			}

			return

		case "generic_name":
			// List<Foo> contributes both the generic type and its arguments.
			if id := n.NamedChild(0); id != nil && id.Type() == "identifier" {
				names = append(names, id.Content(src))
			}

			for i := 1; i < int(n.NamedChildCount()); i++ {
				walk(n.NamedChild(i))
			}

			return
		}

		for i := 0; i < int(n.NamedChildCount()); i++ {
			walk(n.NamedChild(i))
		}
	}

	walk(node)

	return names
}

// lineIndent returns the whitespace prefix of the line containing offset.
func lineIndent(src []byte, offset int) string {
	lineStart := offset
	for lineStart > 0 && src[lineStart-1] != '\n' {
		lineStart--
	}

	end := lineStart
	for end < len(src) && (src[end] == ' ' || src[end] == '\t') {
		end++
	}

	return string(src[lineStart:end])
}
