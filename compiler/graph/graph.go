// Package graph merges parsed declarations into a TypeGraph and classifies
// every field into its server and GraphQL projections.
//
// The graph is built in two passes: declarations are first collected and
// merged by name, then every type reference is resolved by name lookup.
// Forward references and cycles need no special handling.
package graph

import (
	"github.com/syssam/gqlsc/compiler/ast"
	"github.com/syssam/gqlsc/compiler/source"
)

// Projection is the output axis a field belongs to.
type Projection uint8

const (
	// Both is the default: the field exists on the server type and in GraphQL.
	Both Projection = iota + 1
	// ServerOnly fields exist only on the server type.
	ServerOnly
	// GraphQLOnly fields exist only in GraphQL and must be resolved.
	GraphQLOnly
)

func (p Projection) String() string {
	switch p {
	case Both:
		return "Both"
	case ServerOnly:
		return "ServerOnly"
	case GraphQLOnly:
		return "GraphQLOnly"
	}
	return "Unclassified"
}

// Server reports whether the field is part of the server type.
func (p Projection) Server() bool { return p == Both || p == ServerOnly }

// GraphQL reports whether the field is part of the GraphQL type.
func (p Projection) GraphQL() bool { return p == Both || p == GraphQLOnly }

func projectionOf(t ast.Target) Projection {
	switch t {
	case ast.TargetServer:
		return ServerOnly
	case ast.TargetGraphQL:
		return GraphQLOnly
	}
	return Both
}

type (
	// TypeDefinition is the merged view of one named type: its base
	// declaration plus every extension.
	TypeDefinition struct {
		Name        string
		Kind        ast.DeclKind
		Description string
		// Base is the non-extension declaration.
		Base *ast.Declaration
		// Extensions in the order they were merged.
		Extensions []*ast.Declaration
		// Interfaces implemented by an object type.
		Interfaces []*ast.Name
		// Fields of an object or interface, in first-seen order.
		Fields []*ClassifiedField
		// Values of an enum, in first-seen order.
		Values []*ast.EnumValueDecl
		// Bindings are the @resolvers files of the type, in first-seen order.
		Bindings []*ResolverBinding
		// Implementors lists the object types implementing an interface,
		// in graph order.
		Implementors []string
		// Span is the span of the base declaration's name.
		Span source.Span

		fields map[string]*ClassifiedField
	}

	// ClassifiedField is a merged field with its computed projection. Only
	// the projection and the resolver data survive of its directives.
	ClassifiedField struct {
		Name              string
		Type              *ast.TypeRef
		Arguments         []*ast.ArgumentDecl
		Description       string
		Deprecated        bool
		DeprecationReason string
		Span              source.Span
		// Owner is the declaration (base or extension) the field appears in.
		Owner *ast.Declaration
		// Projection is set by Classify.
		Projection Projection
		// ProjectionSpan is the span of the @generate that decided the
		// projection, or the field span for the default.
		ProjectionSpan source.Span
		// Resolved is true if the field carries @resolve.
		Resolved bool
		// Function is the @resolve function name.
		Function    string
		ResolveSpan source.Span
		// Binding is the @resolvers file the field resolves through.
		Binding *ResolverBinding

		decl *ast.FieldDecl
	}

	// ResolverBinding associates the resolved fields of a type with the
	// external module expected to implement them.
	ResolverBinding struct {
		// File is the @resolvers(file) argument, relative to the SDL file.
		File string
		// Span is the span of the first @resolvers naming File.
		Span source.Span
		// Fields are the @resolve fields bound to File.
		Fields []*ClassifiedField
	}
)

// ServerField reports whether f is a member of the generated server type.
func (f *ClassifiedField) ServerField() bool {
	return f.Projection.Server()
}

// Field returns the field with the given name.
func (t *TypeDefinition) Field(name string) *ClassifiedField {
	return t.fields[name]
}

// ServerFields returns the members of the generated server type.
func (t *TypeDefinition) ServerFields() []*ClassifiedField {
	var out []*ClassifiedField
	for _, f := range t.Fields {
		if f.ServerField() {
			out = append(out, f)
		}
	}
	return out
}

// HasServerShape reports whether the type gets a generated server type.
// Enums always do; objects and interfaces need a server member.
func (t *TypeDefinition) HasServerShape() bool {
	if t.Kind == ast.KindEnum {
		return true
	}
	for _, f := range t.Fields {
		if f.ServerField() {
			return true
		}
	}
	return false
}

// HasGraphQLShape reports whether the type gets a GraphQL runtime type.
// Enums always do; objects and interfaces need a GraphQL field.
func (t *TypeDefinition) HasGraphQLShape() bool {
	if t.Kind == ast.KindEnum {
		return true
	}
	for _, f := range t.Fields {
		if f.Projection.GraphQL() {
			return true
		}
	}
	return false
}

// GraphQLFields returns the fields exposed by the GraphQL type.
func (t *TypeDefinition) GraphQLFields() []*ClassifiedField {
	var out []*ClassifiedField
	for _, f := range t.Fields {
		if f.Projection.GraphQL() {
			out = append(out, f)
		}
	}
	return out
}

// Declarations returns the base declaration followed by the extensions.
func (t *TypeDefinition) Declarations() []*ast.Declaration {
	return append([]*ast.Declaration{t.Base}, t.Extensions...)
}

// TypeGraph holds every merged type by name.
type TypeGraph struct {
	types map[string]*TypeDefinition
	order []string
}

func newTypeGraph() *TypeGraph {
	return &TypeGraph{types: make(map[string]*TypeDefinition)}
}

func (g *TypeGraph) add(t *TypeDefinition) {
	g.types[t.Name] = t
	g.order = append(g.order, t.Name)
}

// Lookup returns the type with the given name.
func (g *TypeGraph) Lookup(name string) (*TypeDefinition, bool) {
	t, ok := g.types[name]
	return t, ok
}

// Types returns all types in graph order: the order in which their base
// declarations appear in the path-sorted input.
func (g *TypeGraph) Types() []*TypeDefinition {
	out := make([]*TypeDefinition, 0, len(g.order))
	for _, name := range g.order {
		out = append(out, g.types[name])
	}
	return out
}

// Len returns the number of types.
func (g *TypeGraph) Len() int { return len(g.order) }

// unresolved reports whether a field of t has no working resolver: a
// GraphQL-only field without @resolve, or a @resolve that failed to bind.
func (t *TypeDefinition) unresolved() bool {
	for _, f := range t.Fields {
		if f.Resolved && f.Binding == nil || f.Projection == GraphQLOnly && !f.Resolved {
			return true
		}
	}
	return false
}
