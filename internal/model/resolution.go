package model

// ResolutionKind tags how a type name was resolved to a qualified name.
type ResolutionKind int

const (
	// Unresolved means neither symbol resolution nor the using-directive
	// fallback produced a qualified name.
	Unresolved ResolutionKind = iota
	// Resolved means the snapshot's symbol table produced the qualified name.
	Resolved
	// FallbackResolved means the qualified name came from matching the file's
	// using directives; lower confidence than full resolution.
	FallbackResolved
)

// Resolution is the tagged result of resolving one written type name. The two
// strategies are never silently merged; consumers can tell them apart.
type Resolution struct {
	Kind      ResolutionKind
	Qualified string
}

// Ok reports whether any strategy produced a qualified name.
func (r Resolution) Ok() bool {
	return r.Kind != Unresolved
}
