// Package typemap maps SDL type references onto the two output axes: the
// Go server types and the graphql-go runtime type expressions.
package typemap

import (
	"github.com/99designs/gqlgen/codegen/templates"
	"github.com/dave/jennifer/jen"

	"github.com/syssam/gqlsc/compiler/ast"
	"github.com/syssam/gqlsc/compiler/graph"
	"github.com/syssam/gqlsc/compiler/source"
)

// GraphQLPkg is the import path of the GraphQL runtime used by the
// generated schema code.
const GraphQLPkg = "github.com/graphql-go/graphql"

// Registry is the receiver name of the generated Types registry. Named
// types on the GraphQL axis are read from its fields.
const Registry = "t"

// Axis is an output target.
type Axis uint8

const (
	Server Axis = iota + 1
	GraphQL
)

func (a Axis) String() string {
	switch a {
	case Server:
		return "Server"
	case GraphQL:
		return "GraphQL"
	}
	return "unknown"
}

// Type is a mapped type expression. It keeps the span of the SDL reference
// it was mapped from.
type Type struct {
	Code jen.Code
	Span source.Span
	// Any is set on the server axis when a referenced type has no server
	// shape, or is omitted, and the expression degraded to any.
	Any bool
}

// Mapper maps references against a classified graph.
type Mapper struct {
	graph *graph.TypeGraph
	omit  map[string]bool
}

// New returns a Mapper for g. g must be classified.
func New(g *graph.TypeGraph) *Mapper {
	return &Mapper{graph: g, omit: make(map[string]bool)}
}

// Omit marks types that are not generated. Server references to them
// degrade to any.
func (m *Mapper) Omit(names ...string) *Mapper {
	for _, n := range names {
		m.omit[n] = true
	}
	return m
}

// Map maps ref on the given axis.
func (m *Mapper) Map(ref *ast.TypeRef, axis Axis) Type {
	if axis == GraphQL {
		return m.GraphQL(ref)
	}
	return m.Server(ref)
}

// Server maps ref to a Go type:
//
//	String, ID   string
//	Int          int
//	Float        float64
//	Boolean      bool
//	enum E       E
//	object O     *O
//	interface I  I
//	[T]          []T
//
// A nullable scalar or enum is a pointer. Objects are always pointers and
// interfaces never are. Lists encode null as nil.
func (m *Mapper) Server(ref *ast.TypeRef) Type {
	t := Type{Span: ref.Span}
	t.Code = m.server(ref, false, &t.Any)
	return t
}

func (m *Mapper) server(ref *ast.TypeRef, nonNull bool, fallback *bool) *jen.Statement {
	switch ref.Kind {
	case ast.RefNonNull:
		return m.server(ref.Elem, true, fallback)
	case ast.RefList:
		return jen.Index().Add(m.server(ref.Elem, false, fallback))
	}
	var (
		base    *jen.Statement
		pointer = !nonNull
	)
	switch ref.Name {
	case "String", "ID":
		base = jen.String()
	case "Int":
		base = jen.Int()
	case "Float":
		base = jen.Float64()
	case "Boolean":
		base = jen.Bool()
	default:
		t, ok := m.graph.Lookup(ref.Name)
		if !ok || !t.HasServerShape() || m.omit[ref.Name] {
			*fallback = true
			return jen.Any()
		}
		base = jen.Id(TypeName(t.Name))
		switch t.Kind {
		case ast.KindObject:
			pointer = true
		case ast.KindInterface:
			pointer = false
		}
	}
	if pointer {
		return jen.Op("*").Add(base)
	}
	return base
}

// GraphQL maps ref to a graphql-go type expression. Built-in scalars map
// to the runtime scalars, named types to fields of the registry.
func (m *Mapper) GraphQL(ref *ast.TypeRef) Type {
	return Type{Code: m.graphql(ref), Span: ref.Span}
}

func (m *Mapper) graphql(ref *ast.TypeRef) *jen.Statement {
	switch ref.Kind {
	case ast.RefNonNull:
		return jen.Qual(GraphQLPkg, "NewNonNull").Call(m.graphql(ref.Elem))
	case ast.RefList:
		return jen.Qual(GraphQLPkg, "NewList").Call(m.graphql(ref.Elem))
	}
	if ast.IsBuiltinScalar(ref.Name) {
		return jen.Qual(GraphQLPkg, ref.Name)
	}
	return jen.Id(Registry).Dot(TypeName(ref.Name))
}

// TypeName returns the Go identifier generated for a GraphQL type name.
func TypeName(name string) string {
	return templates.ToGo(name)
}

// FieldName returns the Go identifier generated for a GraphQL field,
// argument or enum value name.
func FieldName(name string) string {
	return templates.ToGo(name)
}
