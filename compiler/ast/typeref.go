package ast

import "github.com/syssam/gqlsc/compiler/source"

// RefKind is the kind of a type reference.
type RefKind uint8

const (
	RefNamed RefKind = iota + 1
	RefList
	RefNonNull
)

// TypeRef is a possibly wrapped reference to a named type.
type TypeRef struct {
	Kind RefKind     `msgpack:"k"`
	Name string      `msgpack:"n,omitempty"`
	Elem *TypeRef    `msgpack:"e,omitempty"`
	Span source.Span `msgpack:"s"`
}

// Named returns a reference to the named type.
func Named(name string, sp source.Span) *TypeRef {
	return &TypeRef{Kind: RefNamed, Name: name, Span: sp}
}

// ListOf wraps elem in a list.
func ListOf(elem *TypeRef, sp source.Span) *TypeRef {
	return &TypeRef{Kind: RefList, Elem: elem, Span: sp}
}

// NonNullOf wraps elem in a non-null marker.
func NonNullOf(elem *TypeRef, sp source.Span) *TypeRef {
	return &TypeRef{Kind: RefNonNull, Elem: elem, Span: sp}
}

// NamedType returns the innermost named type.
func (t *TypeRef) NamedType() string {
	for t.Kind != RefNamed {
		t = t.Elem
	}
	return t.Name
}

// NonNull reports whether the outermost wrapper is non-null.
func (t *TypeRef) NonNull() bool {
	return t.Kind == RefNonNull
}

// Nullable strips an outer non-null marker.
func (t *TypeRef) Nullable() *TypeRef {
	if t.Kind == RefNonNull {
		return t.Elem
	}
	return t
}

// String renders the reference in SDL syntax, e.g. [String!]!.
func (t *TypeRef) String() string {
	switch t.Kind {
	case RefList:
		return "[" + t.Elem.String() + "]"
	case RefNonNull:
		return t.Elem.String() + "!"
	}
	return t.Name
}

// Equal reports whether both references denote the same type.
func (t *TypeRef) Equal(o *TypeRef) bool {
	if t == nil || o == nil {
		return t == o
	}
	if t.Kind != o.Kind {
		return false
	}
	if t.Kind == RefNamed {
		return t.Name == o.Name
	}
	return t.Elem.Equal(o.Elem)
}

// BuiltinScalars are the scalars every schema knows about.
var BuiltinScalars = map[string]bool{
	"String":  true,
	"Int":     true,
	"Float":   true,
	"Boolean": true,
	"ID":      true,
}

// IsBuiltinScalar reports whether name is a built-in scalar.
func IsBuiltinScalar(name string) bool {
	return BuiltinScalars[name]
}
