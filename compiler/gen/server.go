package gen

import (
	"strings"

	"github.com/dave/jennifer/jen"

	"github.com/syssam/gqlsc/compiler/ast"
	"github.com/syssam/gqlsc/compiler/graph"
	"github.com/syssam/gqlsc/compiler/source"
	"github.com/syssam/gqlsc/compiler/typemap"
)

// genModel generates the server types of t ({type}_model.go).
func (g *Generator) genModel(t *graph.TypeDefinition) *jen.File {
	f := g.newFile()
	switch t.Kind {
	case ast.KindEnum:
		g.genEnum(f, t)
	case ast.KindObject:
		g.genStruct(f, t)
	case ast.KindInterface:
		g.genInterface(f, t)
	}
	return f
}

// genEnum generates a string type with one constant per value.
func (g *Generator) genEnum(f *jen.File, t *graph.TypeDefinition) {
	name := goName(t)
	doc(f.Group, t.Description, name+" is the server type of enum "+t.Name+".", t.Span)
	f.Type().Id(name).String()

	f.Const().DefsFunc(func(group *jen.Group) {
		for _, v := range t.Values {
			var reason []string
			if dep := v.Directive(ast.DirectiveDeprecated); dep != nil {
				reason = append(reason, dep.Value)
			}
			doc(group, v.DescriptionText(), "", source.Span{}, reason...)
			group.Id(enumConst(t, v.Name)).Id(name).Op("=").Lit(v.ServerValue())
		}
	})

	all := "All" + plural(name)
	f.Commentf("%s lists every %s value in declaration order.", all, name)
	f.Var().Id(all).Op("=").Index().Id(name).ValuesFunc(func(group *jen.Group) {
		for _, v := range t.Values {
			group.Id(enumConst(t, v.Name))
		}
	})

	recv := receiver(name)
	f.Comment("Values returns the server values of " + name + ".")
	f.Func().Params(jen.Id(name)).Id("Values").Params().Index().String().Block(
		jen.Return(jen.Index().String().ValuesFunc(func(group *jen.Group) {
			for _, v := range t.Values {
				group.Lit(v.ServerValue())
			}
		})),
	)

	f.Commentf("IsValid reports whether %s is a value of %s.", recv, name)
	f.Func().Params(jen.Id(recv).Id(name)).Id("IsValid").Params().Bool().BlockFunc(func(group *jen.Group) {
		if len(t.Values) > 0 {
			group.Switch(jen.Id(recv)).Block(
				jen.CaseFunc(func(group *jen.Group) {
					for _, v := range t.Values {
						group.Id(enumConst(t, v.Name))
					}
				}).Block(jen.Return(jen.True())),
			)
		}
		group.Return(jen.False())
	})

	f.Comment("String implements fmt.Stringer.")
	f.Func().Params(jen.Id(recv).Id(name)).Id("String").Params().String().Block(
		jen.Return(jen.String().Call(jen.Id(recv))),
	)
}

// genStruct generates the struct of an object type with its server
// members, plus the getters and assertions for implemented interfaces.
func (g *Generator) genStruct(f *jen.File, t *graph.TypeDefinition) {
	name := goName(t)
	doc(f.Group, t.Description, name+" is the server type of "+t.Name+".", t.Span)
	f.Type().Id(name).StructFunc(func(group *jen.Group) {
		for _, fd := range t.ServerFields() {
			doc(group, fd.Description, "", source.Span{}, deprecation(fd)...)
			group.Id(fieldName(fd)).Add(g.types.Server(fd.Type).Code).Tag(map[string]string{"json": fd.Name})
		}
	})

	recv := receiver(name)
	seen := make(map[string]bool)
	for _, it := range g.implemented(t) {
		for _, want := range it.ServerFields() {
			if seen[want.Name] {
				continue
			}
			seen[want.Name] = true
			fd := t.Field(want.Name)
			if fd == nil || !fd.ServerField() {
				continue
			}
			f.Commentf("%s returns the %s field.", getter(fd), fd.Name)
			f.Func().Params(jen.Id(recv).Op("*").Id(name)).Id(getter(fd)).Params().Add(g.types.Server(fd.Type).Code).Block(
				jen.Return(jen.Id(recv).Dot(fieldName(fd))),
			)
		}
	}
	for _, it := range g.implemented(t) {
		f.Var().Id("_").Id(goName(it)).Op("=").Parens(jen.Op("*").Id(name)).Call(jen.Nil())
	}
}

// genInterface generates a Go interface with one getter per server member.
func (g *Generator) genInterface(f *jen.File, t *graph.TypeDefinition) {
	name := goName(t)
	doc(f.Group, t.Description, name+" is the server type of interface "+t.Name+".", t.Span)
	f.Type().Id(name).InterfaceFunc(func(group *jen.Group) {
		for _, fd := range t.ServerFields() {
			doc(group, fd.Description, "", source.Span{}, deprecation(fd)...)
			group.Id(getter(fd)).Params().Add(g.types.Server(fd.Type).Code)
		}
	})
}

// implemented returns the interfaces of t that have a generated server
// type, in declaration order.
func (g *Generator) implemented(t *graph.TypeDefinition) []*graph.TypeDefinition {
	var out []*graph.TypeDefinition
	for _, n := range t.Interfaces {
		it, ok := g.graph.Lookup(n.Value)
		if ok && it.Kind == ast.KindInterface && it.HasServerShape() && !g.skip[n.Value] {
			out = append(out, it)
		}
	}
	return out
}

func fieldName(f *graph.ClassifiedField) string {
	return typemap.FieldName(f.Name)
}

func deprecation(f *graph.ClassifiedField) []string {
	if !f.Deprecated {
		return nil
	}
	return []string{f.DeprecationReason}
}

// doc adds a doc comment built from an SDL description, or from fallback
// without one. A valid span adds the source position and a deprecation
// reason adds a Deprecated paragraph.
func doc(group *jen.Group, desc, fallback string, sp source.Span, deprecation ...string) {
	var paragraphs []string
	switch {
	case desc != "":
		paragraphs = append(paragraphs, desc)
	case fallback != "":
		paragraphs = append(paragraphs, fallback)
	}
	if sp.IsValid() {
		paragraphs = append(paragraphs, "Defined at "+sp.String()+".")
	}
	for _, reason := range deprecation {
		paragraphs = append(paragraphs, "Deprecated: "+reason)
	}
	for i, p := range paragraphs {
		if i > 0 {
			group.Comment("//")
		}
		for _, line := range strings.Split(p, "\n") {
			if strings.TrimSpace(line) == "" {
				group.Comment("//")
				continue
			}
			group.Comment(line)
		}
	}
}
