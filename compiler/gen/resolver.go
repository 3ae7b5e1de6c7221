package gen

import (
	"github.com/dave/jennifer/jen"

	"github.com/syssam/gqlsc/compiler/ast"
	"github.com/syssam/gqlsc/compiler/graph"
	"github.com/syssam/gqlsc/compiler/source"
	"github.com/syssam/gqlsc/compiler/typemap"
)

// genResolvers generates one interface per resolver binding of t
// ({type}_resolvers.go), plus the argument structs of resolved fields.
func (g *Generator) genResolvers(t *graph.TypeDefinition) *jen.File {
	f := g.newFile()
	for _, b := range t.Bindings {
		name := resolverInterface(t, b)
		f.Commentf("%s resolves the fields of %s implemented in %s.", name, t.Name, b.File)
		f.Comment("//")
		f.Comment("Bound at " + b.Span.String() + ".")
		f.Type().Id(name).InterfaceFunc(func(group *jen.Group) {
			for _, fd := range b.Fields {
				doc(group, fd.Description, "", fd.Span, deprecation(fd)...)
				group.Id(method(fd)).Params(g.resolverParams(t, fd)...).Params(g.types.Server(fd.Type).Code, jen.Error())
			}
		})
	}
	for _, b := range t.Bindings {
		for _, fd := range b.Fields {
			if len(fd.Arguments) > 0 {
				g.genArgs(f, t, fd)
			}
		}
	}
	return f
}

// resolverParams returns the parameters of a resolver method: the request
// context, the parent value and, if any, the arguments.
func (g *Generator) resolverParams(t *graph.TypeDefinition, fd *graph.ClassifiedField) []jen.Code {
	params := []jen.Code{
		jen.Id("ctx").Qual("context", "Context"),
		jen.Id("root").Add(g.rootType(t)),
	}
	if len(fd.Arguments) > 0 {
		params = append(params, jen.Id("args").Id(argsName(t, fd)))
	}
	return params
}

// rootType is the parent value passed to resolvers of t. Types without a
// server shape pass the raw source value.
func (g *Generator) rootType(t *graph.TypeDefinition) jen.Code {
	switch {
	case !t.HasServerShape():
		return jen.Any()
	case t.Kind == ast.KindInterface:
		return jen.Id(goName(t))
	}
	return jen.Op("*").Id(goName(t))
}

// genArgs generates the typed arguments of a resolved field.
func (g *Generator) genArgs(f *jen.File, t *graph.TypeDefinition, fd *graph.ClassifiedField) {
	name := argsName(t, fd)
	f.Commentf("%s are the arguments of %s.%s.", name, t.Name, fd.Name)
	f.Type().Id(name).StructFunc(func(group *jen.Group) {
		for _, a := range fd.Arguments {
			doc(group, a.DescriptionText(), "", source.Span{})
			group.Id(typemap.FieldName(a.Name)).Add(g.types.Server(a.Type).Code).Tag(map[string]string{"json": a.Name})
		}
	})
}

// genResolverRoot generates the ResolverRoot interface (resolvers.go)
// with one accessor per resolver interface of the emitted types.
func (g *Generator) genResolverRoot() *jen.File {
	f := g.newFile()
	f.Comment("ResolverRoot gives access to the resolvers of every type.")
	f.Type().Id("ResolverRoot").InterfaceFunc(func(group *jen.Group) {
		for _, t := range g.Types() {
			for _, b := range t.Bindings {
				group.Id(resolverName(t, b)).Params().Id(resolverInterface(t, b))
			}
		}
	})
	return f
}
