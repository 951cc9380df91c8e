// Package model defines the data structures for the migration engine.
package model

// Path represents a file system path.
type Path string

// DeclarationKind represents the syntactic kind of a type declaration.
type DeclarationKind string

const (
	// DeclClass represents a class declaration.
	DeclClass DeclarationKind = "class"
	// DeclInterface represents an interface declaration.
	DeclInterface DeclarationKind = "interface"
	// DeclStruct represents a struct declaration.
	DeclStruct DeclarationKind = "struct"
	// DeclEnum represents an enum declaration.
	DeclEnum DeclarationKind = "enum"
)

// ReferenceKind categorizes the syntactic position a type reference was found in.
type ReferenceKind string

const (
	// RefBaseType is a reference in a declaration's base list.
	RefBaseType ReferenceKind = "base"
	// RefField is a field type.
	RefField ReferenceKind = "field"
	// RefProperty is a property type.
	RefProperty ReferenceKind = "property"
	// RefParameter is a parameter type.
	RefParameter ReferenceKind = "parameter"
	// RefReturn is a method return type.
	RefReturn ReferenceKind = "return"
	// RefLocal is a local variable type.
	RefLocal ReferenceKind = "local"
	// RefConstruction is the target of an object-creation expression.
	RefConstruction ReferenceKind = "new"
	// RefTypeOf is the operand of a typeof expression.
	RefTypeOf ReferenceKind = "typeof"
	// RefMemberAccess is the receiver of a static member access (e.g. enum constant).
	RefMemberAccess ReferenceKind = "member-access"
)

// TypeReference is one type name as written in source, pre-resolution.
type TypeReference struct {
	Name string
	Kind ReferenceKind
	Line int
}

// Span is a half-open byte range [Start, End) inside a file.
type Span struct {
	Start int
	End   int
}

// Len returns the span length in bytes.
func (s Span) Len() int {
	return s.End - s.Start
}

// Declaration is one named type definition in the source tree. The span covers
// the full declaration text including leading documentation comments and
// attribute lists. Identity is (Namespace, Name); partial declarations may
// contribute fragments with the same identity from several files.
type Declaration struct {
	Name       string
	Namespace  string
	File       Path
	Kind       DeclarationKind
	Span       Span
	IsPartial  bool
	Indent     string
	BaseTypes  []string
	References []TypeReference
	StartLine  int
	EndLine    int
}

// QualifiedName returns "Namespace.Name", or just Name when the declaration
// sits outside any namespace.
func (d *Declaration) QualifiedName() string {
	if d.Namespace == "" {
		return d.Name
	}

	return d.Namespace + "." + d.Name
}

// KindLabel renders the kind the way mutation blocks spell it, with the
// partial modifier when present.
func (d *Declaration) KindLabel() string {
	if d.IsPartial {
		return "partial " + string(d.Kind)
	}

	return string(d.Kind)
}
