package gen

import (
	"sync"

	"github.com/dave/jennifer/jen"

	"github.com/syssam/gqlsc/compiler/ast"
	"github.com/syssam/gqlsc/compiler/graph"
	"github.com/syssam/gqlsc/compiler/source"
	"github.com/syssam/gqlsc/compiler/typemap"
)

// Generator renders the artifacts of a classified TypeGraph with Jennifer.
// Per type it produces:
//
//	{type}_model.go      server types (enums, structs, interfaces)
//	{type}_schema.go     graphql-go type construction
//	{type}_resolvers.go  resolver interfaces, for types with @resolvers
//
// and once per graph types.go, resolvers.go and schema.graphql.
type Generator struct {
	config *Config
	graph  *graph.TypeGraph
	types  *typemap.Mapper
	skip   map[string]bool

	once    sync.Once
	runtime map[string]bool
}

// NewGenerator creates a generator for the classified graph g.
func NewGenerator(c *Config, g *graph.TypeGraph) *Generator {
	return &Generator{
		config: c,
		graph:  g,
		types:  typemap.New(g),
		skip:   make(map[string]bool),
	}
}

// WithSuppressed excludes the named types from the output. Graph-level
// files do not reference them either.
func (g *Generator) WithSuppressed(names map[string]bool) *Generator {
	for n, ok := range names {
		if ok {
			g.skip[n] = true
			g.types.Omit(n)
		}
	}
	return g
}

// Types returns the types that are emitted, in graph order.
func (g *Generator) Types() []*graph.TypeDefinition {
	var out []*graph.TypeDefinition
	for _, t := range g.graph.Types() {
		if !g.skip[t.Name] {
			out = append(out, t)
		}
	}
	return out
}

// runtimeTypes returns the emitted types that get a GraphQL runtime type:
// enums, and objects and interfaces that keep a GraphQL field once the
// fields referencing types without one are dropped.
func (g *Generator) runtimeTypes() map[string]bool {
	g.once.Do(func() {
		in := make(map[string]bool)
		for _, t := range g.Types() {
			if t.HasGraphQLShape() {
				in[t.Name] = true
			}
		}
		for changed := true; changed; {
			changed = false
			for name := range in {
				t, _ := g.graph.Lookup(name)
				if t.Kind != ast.KindEnum && len(fieldsIn(t, in)) == 0 {
					delete(in, name)
					changed = true
				}
			}
		}
		g.runtime = in
	})
	return g.runtime
}

// runtimeType returns the named type if it gets a GraphQL runtime type.
func (g *Generator) runtimeType(name string) (*graph.TypeDefinition, bool) {
	t, ok := g.graph.Lookup(name)
	if !ok || !g.runtimeTypes()[name] {
		return nil, false
	}
	return t, true
}

// graphQLFields returns the GraphQL fields of t whose type and arguments
// can be built. Fields referencing a type without a runtime type, such as
// a suppressed one, are left out.
func (g *Generator) graphQLFields(t *graph.TypeDefinition) []*graph.ClassifiedField {
	return fieldsIn(t, g.runtimeTypes())
}

func fieldsIn(t *graph.TypeDefinition, known map[string]bool) []*graph.ClassifiedField {
	var out []*graph.ClassifiedField
	for _, f := range t.GraphQLFields() {
		if !available(f.Type, known) {
			continue
		}
		ok := true
		for _, a := range f.Arguments {
			ok = ok && available(a.Type, known)
		}
		if ok {
			out = append(out, f)
		}
	}
	return out
}

func available(ref *ast.TypeRef, known map[string]bool) bool {
	name := ref.NamedType()
	return ast.IsBuiltinScalar(name) || known[name]
}

// File is a rendered artifact.
type File struct {
	// Name is the path relative to the target directory.
	Name string
	// Type is the GraphQL type the file was generated for, or "" for
	// graph-level files.
	Type string
	// Span is the declaration the file was generated from.
	Span source.Span
	// Content is the formatted file content.
	Content []byte
}

// task is a file to render.
type task struct {
	name string
	typ  *graph.TypeDefinition
	gen  func() *jen.File
	raw  func() []byte
}

// tasks lists every file to render, in a stable order.
func (g *Generator) tasks() []task {
	var tasks []task
	for _, t := range g.Types() {
		if t.HasServerShape() {
			tasks = append(tasks, task{name: fileName(t, "model"), typ: t, gen: func() *jen.File { return g.genModel(t) }})
		}
		if _, ok := g.runtimeType(t.Name); ok {
			tasks = append(tasks, task{name: fileName(t, "schema"), typ: t, gen: func() *jen.File { return g.genSchema(t) }})
		}
		if len(t.Bindings) > 0 {
			tasks = append(tasks, task{name: fileName(t, "resolvers"), typ: t, gen: func() *jen.File { return g.genResolvers(t) }})
		}
	}
	tasks = append(tasks,
		task{name: "types.go", gen: g.genTypes},
		task{name: "resolvers.go", gen: g.genResolverRoot},
		task{name: "schema.graphql", raw: g.genSDL},
	)
	return tasks
}

// newFile creates a new Jennifer file with the header comment.
func (g *Generator) newFile() *jen.File {
	f := jen.NewFile(g.config.Package)
	if g.config.Header != "" {
		f.HeaderComment(g.config.Header)
	}
	return f
}
