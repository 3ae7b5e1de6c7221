package gen

import (
	"bytes"

	gqlast "github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/formatter"

	"github.com/syssam/gqlsc/compiler/ast"
	"github.com/syssam/gqlsc/compiler/graph"
)

// genSDL prints the GraphQL projection of the emitted types as plain SDL
// (schema.graphql). Custom directives are dropped; @deprecated is kept.
func (g *Generator) genSDL() []byte {
	doc := &gqlast.SchemaDocument{}
	for _, t := range g.Types() {
		if _, ok := g.runtimeType(t.Name); ok {
			doc.Definitions = append(doc.Definitions, g.sdlDefinition(t))
		}
	}
	var buf bytes.Buffer
	formatter.NewFormatter(&buf).FormatSchemaDocument(doc)
	return buf.Bytes()
}

func (g *Generator) sdlDefinition(t *graph.TypeDefinition) *gqlast.Definition {
	def := &gqlast.Definition{
		Name:        t.Name,
		Description: t.Description,
	}
	switch t.Kind {
	case ast.KindEnum:
		def.Kind = gqlast.Enum
		for _, v := range t.Values {
			ev := &gqlast.EnumValueDefinition{
				Name:        v.Name,
				Description: v.DescriptionText(),
			}
			if dep := v.Directive(ast.DirectiveDeprecated); dep != nil {
				ev.Directives = append(ev.Directives, sdlDeprecated(dep.Value))
			}
			def.EnumValues = append(def.EnumValues, ev)
		}
		return def
	case ast.KindInterface:
		def.Kind = gqlast.Interface
	default:
		def.Kind = gqlast.Object
		for _, i := range t.Interfaces {
			if _, ok := g.runtimeType(i.Value); ok {
				def.Interfaces = append(def.Interfaces, i.Value)
			}
		}
	}
	for _, f := range g.graphQLFields(t) {
		fd := &gqlast.FieldDefinition{
			Name:        f.Name,
			Description: f.Description,
			Type:        sdlType(f.Type),
		}
		for _, a := range f.Arguments {
			fd.Arguments = append(fd.Arguments, &gqlast.ArgumentDefinition{
				Name:         a.Name,
				Description:  a.DescriptionText(),
				Type:         sdlType(a.Type),
				DefaultValue: sdlValue(a.Default),
			})
		}
		if f.Deprecated {
			fd.Directives = append(fd.Directives, sdlDeprecated(f.DeprecationReason))
		}
		def.Fields = append(def.Fields, fd)
	}
	return def
}

func sdlType(ref *ast.TypeRef) *gqlast.Type {
	switch ref.Kind {
	case ast.RefNonNull:
		t := sdlType(ref.Elem)
		t.NonNull = true
		return t
	case ast.RefList:
		return &gqlast.Type{Elem: sdlType(ref.Elem)}
	}
	return &gqlast.Type{NamedType: ref.Name}
}

var valueKinds = map[ast.ValueKind]gqlast.ValueKind{
	ast.ValueString:  gqlast.StringValue,
	ast.ValueInt:     gqlast.IntValue,
	ast.ValueFloat:   gqlast.FloatValue,
	ast.ValueBoolean: gqlast.BooleanValue,
	ast.ValueNull:    gqlast.NullValue,
	ast.ValueEnum:    gqlast.EnumValue,
	ast.ValueList:    gqlast.ListValue,
	ast.ValueObject:  gqlast.ObjectValue,
}

func sdlValue(v *ast.Value) *gqlast.Value {
	if v == nil {
		return nil
	}
	out := &gqlast.Value{Kind: valueKinds[v.Kind], Raw: v.Raw}
	for _, e := range v.List {
		out.Children = append(out.Children, &gqlast.ChildValue{Value: sdlValue(e)})
	}
	for _, f := range v.Fields {
		out.Children = append(out.Children, &gqlast.ChildValue{Name: f.Name, Value: sdlValue(f.Value)})
	}
	return out
}

func sdlDeprecated(reason string) *gqlast.Directive {
	d := &gqlast.Directive{Name: "deprecated"}
	if reason != "No longer supported" {
		d.Arguments = gqlast.ArgumentList{{
			Name:  "reason",
			Value: &gqlast.Value{Kind: gqlast.StringValue, Raw: reason},
		}}
	}
	return d
}
