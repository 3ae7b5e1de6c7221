package graph

import (
	"github.com/syssam/gqlsc/compiler/ast"
	"github.com/syssam/gqlsc/compiler/diag"
)

// Classify computes the projection of every field in g and validates the
// invariants that depend on it. It must run once, after Build.
//
// A field's projection comes from the first @generate found on, in order:
// the field, the declaration the field appears in, and the base
// declaration of the type. Without any, a field with @resolve or declared
// in a declaration with @resolvers is projected to GraphQL, and any other
// field to Both.
func Classify(g *TypeGraph) diag.List {
	var diags diag.List
	for _, t := range g.Types() {
		for _, f := range t.Fields {
			classify(t, f)
			if f.Projection == GraphQLOnly && !f.Resolved {
				d := diag.Errorf(diag.ClsUnresolvedGraphQLOnly, f.Span, "GraphQL-only field %s.%s must be resolved", t.Name, f.Name).
					About(t.Name)
				if f.ProjectionSpan != f.Span {
					d = d.WithRelated(f.ProjectionSpan, "projected to GraphQL here")
				}
				diags.Add(d)
			}
		}
	}
	for _, t := range g.Types() {
		diags.Add(references(g, t)...)
		diags.Add(collisions(t)...)
		if t.Kind == ast.KindObject {
			diags.Add(implementations(g, t)...)
		}
		diags.Add(advisories(g, t)...)
	}
	return diags
}

func classify(t *TypeDefinition, f *ClassifiedField) {
	for _, ds := range [][]*ast.Directive{f.decl.Directives, f.Owner.Directives, t.Base.Directives} {
		for _, d := range ds {
			if d.Kind == ast.DirectiveGenerate {
				f.Projection, f.ProjectionSpan = projectionOf(d.For), d.Span
				return
			}
		}
	}
	switch res := f.Owner.Directive(ast.DirectiveResolvers); {
	case f.Resolved:
		f.Projection, f.ProjectionSpan = GraphQLOnly, f.ResolveSpan
	case res != nil:
		f.Projection, f.ProjectionSpan = GraphQLOnly, res.Span
	default:
		f.Projection, f.ProjectionSpan = Both, f.Span
	}
}

// references checks that GraphQL fields of t only point at types that
// exist in GraphQL. An object or interface without GraphQL fields has no
// runtime type.
func references(g *TypeGraph, t *TypeDefinition) diag.List {
	var diags diag.List
	for _, f := range t.GraphQLFields() {
		named := innermost(f.Type)
		ref, ok := g.Lookup(named.Name)
		if !ok || ref.HasGraphQLShape() {
			continue
		}
		diags.Add(diag.Errorf(diag.RefNoGraphQLType, named.Span, "field %s.%s is generated for GraphQL but %s %q has no GraphQL fields", t.Name, f.Name, ref.Kind, ref.Name).
			WithRelated(ref.Span, "defined here").
			About(t.Name))
	}
	return diags
}

// collisions checks that the server members of t keep distinct Go names.
func collisions(t *TypeDefinition) diag.List {
	var (
		diags diag.List
		seen  = make(map[string]*ClassifiedField)
	)
	for _, f := range t.ServerFields() {
		name := goIdent(f.Name)
		if prev, ok := seen[name]; ok {
			diags.Add(diag.Errorf(diag.MergeNameCollision, f.Span, "fields %q and %q of %q both generate the Go name %s", prev.Name, f.Name, t.Name, name).
				WithRelated(prev.Span, "first declared here").
				About(t.Name))
			continue
		}
		seen[name] = f
	}
	return diags
}

// implementations checks that t declares every field of the interfaces it
// implements. Server members of an interface become getters of the Go
// interface, so the object must carry them on its server type with the
// same type.
func implementations(g *TypeGraph, t *TypeDefinition) diag.List {
	var diags diag.List
	for _, name := range t.Interfaces {
		it, ok := g.Lookup(name.Value)
		if !ok || it.Kind != ast.KindInterface {
			continue
		}
		for _, want := range it.Fields {
			got := t.Field(want.Name)
			switch {
			case got == nil:
				diags.Add(diag.Errorf(diag.RefMissingInterfaceField, name.Span, "%q does not declare field %q required by interface %q", t.Name, want.Name, it.Name).
					WithRelated(want.Span, "required here").
					About(t.Name))
			case !got.Type.Equal(want.Type):
				diags.Add(diag.Errorf(diag.ClsInterfaceFieldMismatch, got.Type.Span, "field %s.%s has type %s, interface %q requires %s", t.Name, got.Name, got.Type, it.Name, want.Type).
					WithRelated(want.Type.Span, "required here").
					About(t.Name))
			case want.ServerField() && !got.ServerField():
				diags.Add(diag.Errorf(diag.ClsInterfaceFieldMismatch, got.Span, "field %s.%s is not a member of the server type but interface %q requires it", t.Name, got.Name, it.Name).
					WithRelated(want.ProjectionSpan, "projected to Server here").
					About(t.Name))
			case want.Projection.GraphQL() && !got.Projection.GraphQL():
				diags.Add(diag.Errorf(diag.ClsInterfaceFieldMismatch, got.Span, "field %s.%s is not generated for GraphQL but interface %q requires it", t.Name, got.Name, it.Name).
					WithRelated(want.ProjectionSpan, "projected to GraphQL here").
					About(t.Name))
			}
		}
	}
	return diags
}

func advisories(g *TypeGraph, t *TypeDefinition) diag.List {
	var diags diag.List
	if t.Kind == ast.KindEnum || t.unresolved() {
		return nil
	}
	if !t.HasServerShape() && len(t.Bindings) == 0 {
		diags.Add(diag.Warningf(diag.AdvDeadType, t.Span, "%s %q has no server fields and no resolvers", t.Kind, t.Name).About(t.Name))
	}
	for _, b := range t.Bindings {
		if len(b.Fields) == 0 {
			diags.Add(diag.Warningf(diag.AdvEmptyBinding, b.Span, "resolvers file %q binds no @resolve field of %q", b.File, t.Name).About(t.Name))
		}
	}
	for _, f := range t.Fields {
		if !f.ServerField() {
			continue
		}
		named := innermost(f.Type)
		ref, ok := g.Lookup(named.Name)
		if !ok || ref.HasServerShape() {
			continue
		}
		diags.Add(diag.Warningf(diag.AdvNoServerType, named.Span, "%s %q has no server type, field %s.%s is generated as any", ref.Kind, ref.Name, t.Name, f.Name).
			WithRelated(ref.Span, "defined here").
			About(t.Name))
	}
	return diags
}
