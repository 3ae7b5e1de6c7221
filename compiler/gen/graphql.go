package gen

import (
	"strconv"

	"github.com/dave/jennifer/jen"

	"github.com/syssam/gqlsc/compiler/ast"
	"github.com/syssam/gqlsc/compiler/graph"
	"github.com/syssam/gqlsc/compiler/typemap"
)

const gqlPkg = typemap.GraphQLPkg

// genSchema generates the runtime GraphQL type of t ({type}_schema.go).
func (g *Generator) genSchema(t *graph.TypeDefinition) *jen.File {
	f := g.newFile()
	name := goName(t)
	f.Commentf("new%s builds the GraphQL %s %s.", name, t.Kind, t.Name)
	f.Comment("//")
	f.Comment("Defined at " + t.Span.String() + ".")
	var (
		ret  jen.Code
		body jen.Code
	)
	switch t.Kind {
	case ast.KindEnum:
		ret, body = jen.Op("*").Qual(gqlPkg, "Enum"), g.enumConfig(t)
	case ast.KindObject:
		ret, body = jen.Op("*").Qual(gqlPkg, "Object"), g.objectConfig(t)
	case ast.KindInterface:
		ret, body = jen.Op("*").Qual(gqlPkg, "Interface"), g.interfaceConfig(t)
	}
	f.Func().Params(jen.Id(typemap.Registry).Op("*").Id("Types")).Id("new" + name).Params().Add(ret).Block(
		jen.Return(body),
	)
	return f
}

func (g *Generator) enumConfig(t *graph.TypeDefinition) jen.Code {
	return jen.Qual(gqlPkg, "NewEnum").Call(jen.Qual(gqlPkg, "EnumConfig").Values(jen.DictFunc(func(d jen.Dict) {
		d[jen.Id("Name")] = jen.Lit(t.Name)
		if t.Description != "" {
			d[jen.Id("Description")] = jen.Lit(t.Description)
		}
		d[jen.Id("Values")] = jen.Qual(gqlPkg, "EnumValueConfigMap").Values(jen.DictFunc(func(values jen.Dict) {
			for _, v := range t.Values {
				values[jen.Lit(v.Name)] = jen.Op("&").Qual(gqlPkg, "EnumValueConfig").Values(jen.DictFunc(func(cfg jen.Dict) {
					cfg[jen.Id("Value")] = jen.Id(enumConst(t, v.Name))
					if desc := v.DescriptionText(); desc != "" {
						cfg[jen.Id("Description")] = jen.Lit(desc)
					}
					if dep := v.Directive(ast.DirectiveDeprecated); dep != nil {
						cfg[jen.Id("DeprecationReason")] = jen.Lit(dep.Value)
					}
				}))
			}
		}))
	})))
}

func (g *Generator) objectConfig(t *graph.TypeDefinition) jen.Code {
	return jen.Qual(gqlPkg, "NewObject").Call(jen.Qual(gqlPkg, "ObjectConfig").Values(jen.DictFunc(func(d jen.Dict) {
		d[jen.Id("Name")] = jen.Lit(t.Name)
		if t.Description != "" {
			d[jen.Id("Description")] = jen.Lit(t.Description)
		}
		var interfaces []jen.Code
		for _, n := range t.Interfaces {
			if _, ok := g.runtimeType(n.Value); ok {
				interfaces = append(interfaces, jen.Id(typemap.Registry).Dot(typemap.TypeName(n.Value)))
			}
		}
		if len(interfaces) > 0 {
			d[jen.Id("Interfaces")] = jen.Qual(gqlPkg, "InterfacesThunk").Call(
				jen.Func().Params().Index().Op("*").Qual(gqlPkg, "Interface").Block(
					jen.Return(jen.Index().Op("*").Qual(gqlPkg, "Interface").Values(interfaces...)),
				),
			)
		}
		d[jen.Id("Fields")] = g.fieldsThunk(t, true)
	})))
}

func (g *Generator) interfaceConfig(t *graph.TypeDefinition) jen.Code {
	return jen.Qual(gqlPkg, "NewInterface").Call(jen.Qual(gqlPkg, "InterfaceConfig").Values(jen.DictFunc(func(d jen.Dict) {
		d[jen.Id("Name")] = jen.Lit(t.Name)
		if t.Description != "" {
			d[jen.Id("Description")] = jen.Lit(t.Description)
		}
		d[jen.Id("Fields")] = g.fieldsThunk(t, false)
		d[jen.Id("ResolveType")] = g.resolveType(t)
	})))
}

// fieldsThunk defers field construction so that types may reference each
// other in any order.
func (g *Generator) fieldsThunk(t *graph.TypeDefinition, resolve bool) jen.Code {
	return jen.Qual(gqlPkg, "FieldsThunk").Call(
		jen.Func().Params().Qual(gqlPkg, "Fields").Block(
			jen.Return(jen.Qual(gqlPkg, "Fields").Values(jen.DictFunc(func(d jen.Dict) {
				for _, f := range g.graphQLFields(t) {
					d[jen.Lit(f.Name)] = g.field(t, f, resolve)
				}
			}))),
		),
	)
}

func (g *Generator) field(t *graph.TypeDefinition, f *graph.ClassifiedField, resolve bool) jen.Code {
	return jen.Op("&").Qual(gqlPkg, "Field").Values(jen.DictFunc(func(d jen.Dict) {
		d[jen.Id("Type")] = g.types.GraphQL(f.Type).Code
		if f.Description != "" {
			d[jen.Id("Description")] = jen.Lit(f.Description)
		}
		if f.Deprecated {
			d[jen.Id("DeprecationReason")] = jen.Lit(f.DeprecationReason)
		}
		if len(f.Arguments) > 0 {
			d[jen.Id("Args")] = jen.Qual(gqlPkg, "FieldConfigArgument").Values(jen.DictFunc(func(args jen.Dict) {
				for _, a := range f.Arguments {
					args[jen.Lit(a.Name)] = g.argument(a)
				}
			}))
		}
		if resolve {
			if r := g.resolveFunc(t, f); r != nil {
				d[jen.Id("Resolve")] = r
			}
		}
	}))
}

func (g *Generator) argument(a *ast.ArgumentDecl) jen.Code {
	return jen.Op("&").Qual(gqlPkg, "ArgumentConfig").Values(jen.DictFunc(func(d jen.Dict) {
		d[jen.Id("Type")] = g.types.GraphQL(a.Type).Code
		if desc := a.DescriptionText(); desc != "" {
			d[jen.Id("Description")] = jen.Lit(desc)
		}
		if a.Default != nil {
			if v := g.defaultValue(a.Type, a.Default); v != nil {
				d[jen.Id("DefaultValue")] = v
			}
		}
	}))
}

// defaultValue converts an argument default to the Go value graphql-go
// passes to resolvers. Enum defaults map to their server constant.
func (g *Generator) defaultValue(ref *ast.TypeRef, v *ast.Value) jen.Code {
	ref = ref.Nullable()
	switch v.Kind {
	case ast.ValueNull:
		return nil
	case ast.ValueString:
		return jen.Lit(v.Raw)
	case ast.ValueBoolean:
		return jen.Lit(v.Raw == "true")
	case ast.ValueInt:
		if ref.Kind == ast.RefNamed && ref.Name == "Float" {
			f, err := strconv.ParseFloat(v.Raw, 64)
			if err != nil {
				return nil
			}
			return jen.Lit(f)
		}
		n, err := strconv.Atoi(v.Raw)
		if err != nil {
			return nil
		}
		return jen.Lit(n)
	case ast.ValueFloat:
		f, err := strconv.ParseFloat(v.Raw, 64)
		if err != nil {
			return nil
		}
		return jen.Lit(f)
	case ast.ValueEnum:
		if t, ok := g.graph.Lookup(ref.NamedType()); ok && t.Kind == ast.KindEnum {
			return jen.Id(enumConst(t, v.Raw))
		}
		return jen.Lit(v.Raw)
	case ast.ValueList:
		elem := ref
		if ref.Kind == ast.RefList {
			elem = ref.Elem
		}
		return jen.Index().Any().ValuesFunc(func(group *jen.Group) {
			for _, e := range v.List {
				if c := g.defaultValue(elem, e); c != nil {
					group.Add(c)
				} else {
					group.Nil()
				}
			}
		})
	}
	return nil
}

// resolveFunc returns the resolver of a GraphQL field: resolved fields
// delegate to their resolver interface, others read the server struct.
func (g *Generator) resolveFunc(t *graph.TypeDefinition, f *graph.ClassifiedField) jen.Code {
	params := jen.Params(jen.Id("p").Qual(gqlPkg, "ResolveParams")).Params(jen.Any(), jen.Error())
	switch {
	case f.Resolved && f.Binding != nil:
		return jen.Func().Add(params).BlockFunc(func(group *jen.Group) {
			root := jen.Id("p").Dot("Source")
			if t.HasServerShape() {
				group.List(jen.Id("root"), jen.Id("_")).Op(":=").Id("p").Dot("Source").Assert(jen.Op("*").Id(goName(t)))
				root = jen.Id("root")
			}
			call := []jen.Code{jen.Id("p").Dot("Context"), root}
			if len(f.Arguments) > 0 {
				group.Var().Id("args").Id(argsName(t, f))
				group.If(
					jen.Err().Op(":=").Id("decodeArgs").Call(jen.Id("p").Dot("Args"), jen.Op("&").Id("args")),
					jen.Err().Op("!=").Nil(),
				).Block(jen.Return(jen.Nil(), jen.Err()))
				call = append(call, jen.Id("args"))
			}
			group.Return(
				jen.Id(typemap.Registry).Dot("resolvers").Dot(resolverName(t, f.Binding)).Call().Dot(method(f)).Call(call...),
			)
		})
	case f.ServerField():
		return jen.Func().Add(params).Block(
			jen.List(jen.Id("root"), jen.Id("ok")).Op(":=").Id("p").Dot("Source").Assert(jen.Op("*").Id(goName(t))),
			jen.If(jen.Op("!").Id("ok").Op("||").Id("root").Op("==").Nil()).Block(
				jen.Return(jen.Nil(), jen.Nil()),
			),
			jen.Return(jen.Id("root").Dot(fieldName(f)), jen.Nil()),
		)
	}
	return nil
}

// resolveType maps a server value to the object type implementing the
// interface. Implementors without a server struct cannot be matched.
func (g *Generator) resolveType(t *graph.TypeDefinition) jen.Code {
	return jen.Func().Params(jen.Id("p").Qual(gqlPkg, "ResolveTypeParams")).Op("*").Qual(gqlPkg, "Object").BlockFunc(func(group *jen.Group) {
		var cases []jen.Code
		for _, name := range t.Implementors {
			impl, ok := g.runtimeType(name)
			if !ok || !impl.HasServerShape() {
				continue
			}
			cases = append(cases, jen.Case(jen.Op("*").Id(goName(impl))).Block(
				jen.Return(jen.Id(typemap.Registry).Dot(goName(impl))),
			))
		}
		if len(cases) > 0 {
			group.Switch(jen.Id("p").Dot("Value").Assert(jen.Type())).Block(cases...)
		}
		group.Return(jen.Nil())
	})
}

// genTypes generates the Types registry (types.go).
func (g *Generator) genTypes() *jen.File {
	f := g.newFile()
	var types []*graph.TypeDefinition
	for _, t := range g.Types() {
		if _, ok := g.runtimeType(t.Name); ok {
			types = append(types, t)
		}
	}

	f.Comment("Types holds the runtime GraphQL types of the schema.")
	f.Type().Id("Types").StructFunc(func(group *jen.Group) {
		group.Id("resolvers").Id("ResolverRoot")
		group.Line()
		for _, t := range types {
			group.Id(goName(t)).Op("*").Qual(gqlPkg, runtimeKind(t))
		}
	})

	f.Comment("NewTypes builds every type of the schema. Fields marked @resolve")
	f.Comment("delegate to resolvers.")
	f.Func().Id("NewTypes").Params(jen.Id("resolvers").Id("ResolverRoot")).Op("*").Id("Types").BlockFunc(func(group *jen.Group) {
		group.Id(typemap.Registry).Op(":=").Op("&").Id("Types").Values(jen.Dict{
			jen.Id("resolvers"): jen.Id("resolvers"),
		})
		for _, t := range types {
			group.Id(typemap.Registry).Dot(goName(t)).Op("=").Id(typemap.Registry).Dot("new" + goName(t)).Call()
		}
		group.Return(jen.Id(typemap.Registry))
	})

	f.Comment("Schema returns the executable schema. Every object type is registered")
	f.Comment("so that interface implementations are reachable.")
	f.Func().Params(jen.Id(typemap.Registry).Op("*").Id("Types")).Id("Schema").Params().Params(jen.Qual(gqlPkg, "Schema"), jen.Error()).Block(
		jen.Return(jen.Qual(gqlPkg, "NewSchema").Call(jen.Qual(gqlPkg, "SchemaConfig").Values(jen.DictFunc(func(d jen.Dict) {
			for _, root := range []string{"Query", "Mutation", "Subscription"} {
				if t, ok := g.runtimeType(root); ok && t.Kind == ast.KindObject {
					d[jen.Id(root)] = jen.Id(typemap.Registry).Dot(goName(t))
				}
			}
			d[jen.Id("Types")] = jen.Index().Qual(gqlPkg, "Type").ValuesFunc(func(group *jen.Group) {
				for _, t := range types {
					if t.Kind == ast.KindObject {
						group.Id(typemap.Registry).Dot(goName(t))
					}
				}
			})
		})))),
	)

	f.Comment("decodeArgs copies resolver arguments into their typed struct.")
	f.Func().Id("decodeArgs").Params(jen.Id("in").Map(jen.String()).Any(), jen.Id("out").Any()).Error().Block(
		jen.List(jen.Id("b"), jen.Err()).Op(":=").Qual("encoding/json", "Marshal").Call(jen.Id("in")),
		jen.If(jen.Err().Op("!=").Nil()).Block(jen.Return(jen.Err())),
		jen.Return(jen.Qual("encoding/json", "Unmarshal").Call(jen.Id("b"), jen.Id("out"))),
	)
	return f
}

func runtimeKind(t *graph.TypeDefinition) string {
	switch t.Kind {
	case ast.KindEnum:
		return "Enum"
	case ast.KindInterface:
		return "Interface"
	}
	return "Object"
}
