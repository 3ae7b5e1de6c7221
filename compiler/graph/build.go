package graph

import (
	"github.com/99designs/gqlgen/codegen/templates"

	"github.com/syssam/gqlsc/compiler/ast"
	"github.com/syssam/gqlsc/compiler/diag"
	"github.com/syssam/gqlsc/compiler/source"
)

// Option configures Build.
type Option func(*builder)

// WithBroken marks type names whose declarations were dropped by an earlier
// stage. References to them are not reported again.
func WithBroken(names ...string) Option {
	return func(b *builder) {
		for _, n := range names {
			b.broken[n] = true
		}
	}
}

type builder struct {
	graph  *TypeGraph
	diags  diag.List
	broken map[string]bool
}

// Build merges the declarations of all files into a TypeGraph. decls must
// be in path-sorted file order, declaration order within each file.
// The returned graph contains every type with a valid base declaration,
// even when some of its parts were rejected.
func Build(decls []*ast.Declaration, opts ...Option) (*TypeGraph, diag.List) {
	b := &builder{
		graph:  newTypeGraph(),
		broken: make(map[string]bool),
	}
	for _, opt := range opts {
		opt(b)
	}
	b.merge(decls)
	b.resolve()
	return b.graph, b.diags
}

func (b *builder) errorf(subject string, code diag.Code, sp source.Span, format string, args ...any) *diag.Diagnostic {
	d := diag.Errorf(code, sp, format, args...).About(subject)
	b.diags.Add(d)
	return &b.diags[len(b.diags)-1]
}

// related attaches a secondary span to the most recently added diagnostic.
func (b *builder) related(d *diag.Diagnostic, sp source.Span, msg string) {
	*d = d.WithRelated(sp, msg)
}

// merge is the first pass: group by name and fold extensions into their base.
func (b *builder) merge(decls []*ast.Declaration) {
	var (
		groups = make(map[string][]*ast.Declaration)
		names  []string
	)
	for _, d := range decls {
		if _, ok := groups[d.Name]; !ok {
			names = append(names, d.Name)
		}
		groups[d.Name] = append(groups[d.Name], d)
	}
	built := make(map[string]*TypeDefinition, len(names))
	for _, name := range names {
		if t := b.group(name, groups[name]); t != nil {
			built[name] = t
		}
	}
	// Graph order is the order of the base declarations.
	for _, d := range decls {
		if t, ok := built[d.Name]; ok && t.Base == d {
			b.graph.add(t)
		}
	}
}

func (b *builder) group(name string, decls []*ast.Declaration) *TypeDefinition {
	var (
		base *ast.Declaration
		exts []*ast.Declaration
	)
	for _, d := range decls {
		switch {
		case d.Extension:
			exts = append(exts, d)
		case base == nil:
			base = d
		default:
			b.related(
				b.errorf(name, diag.MergeDuplicateType, d.NameSpan, "%s %q is already defined", d.Kind, name),
				base.NameSpan, "first defined here",
			)
		}
	}
	if base == nil {
		for _, e := range exts {
			b.errorf(name, diag.MergeNoBase, e.NameSpan, "%s %q is an extension with no base type", e.Keyword(), name)
		}
		b.broken[name] = true
		return nil
	}
	t := &TypeDefinition{
		Name:        name,
		Kind:        base.Kind,
		Description: base.DescriptionText(),
		Base:        base,
		Span:        base.NameSpan,
		fields:      make(map[string]*ClassifiedField),
	}
	for _, e := range exts {
		switch {
		case base.Kind == ast.KindEnum:
			b.related(
				b.errorf(name, diag.MergeEnumExtension, e.NameSpan, "enum %q cannot be extended", name),
				base.NameSpan, "enum defined here",
			)
		case e.Kind != base.Kind:
			b.related(
				b.errorf(name, diag.MergeKindMismatch, e.NameSpan, "%s %q extends a %s", e.Keyword(), name, base.Kind),
				base.NameSpan, "defined here",
			)
		default:
			if e.Description != nil {
				d := b.errorf(name, diag.MergeDescription, e.Description.Span, "extension of %q cannot redefine its description", name)
				if base.Description != nil {
					b.related(d, base.Description.Span, "described here")
				} else {
					b.related(d, base.NameSpan, "defined here")
				}
			}
			t.Extensions = append(t.Extensions, e)
		}
	}
	bindings := b.bindings(t)
	for _, d := range t.Declarations() {
		b.mergeDecl(t, d, bindings)
	}
	if t.Kind == ast.KindEnum {
		b.enumValues(t)
	}
	return t
}

// goIdent returns the Go identifier generated for a field, function or
// enum value name.
func goIdent(name string) string {
	return templates.ToGo(name)
}

// enumValues checks that the values of an enum keep distinct server values
// and distinct Go constants.
func (b *builder) enumValues(t *TypeDefinition) {
	var (
		values = make(map[string]*ast.EnumValueDecl)
		consts = make(map[string]*ast.EnumValueDecl)
	)
	for _, v := range t.Values {
		if prev, ok := values[v.ServerValue()]; ok {
			b.related(
				b.errorf(t.Name, diag.MergeDuplicateServerValue, serverSpan(v), "values %q and %q of enum %q have the same server value %q", prev.Name, v.Name, t.Name, v.ServerValue()),
				serverSpan(prev), "first used here",
			)
			continue
		}
		values[v.ServerValue()] = v
		name := goIdent(v.Name)
		if prev, ok := consts[name]; ok {
			b.related(
				b.errorf(t.Name, diag.MergeNameCollision, v.Span, "values %q and %q of enum %q both generate the Go name %s", prev.Name, v.Name, t.Name, name),
				prev.Span, "first declared here",
			)
			continue
		}
		consts[name] = v
	}
}

// serverSpan is the span of the @server of v, or of v itself.
func serverSpan(v *ast.EnumValueDecl) source.Span {
	if d := v.Directive(ast.DirectiveServer); d != nil {
		return d.Span
	}
	return v.Span
}

// bindings collects the @resolvers files of every declaration of t. A file
// named by several declarations yields one binding.
func (b *builder) bindings(t *TypeDefinition) map[*ast.Declaration]*ResolverBinding {
	var (
		byDecl = make(map[*ast.Declaration]*ResolverBinding)
		byFile = make(map[string]*ResolverBinding)
	)
	for _, d := range t.Declarations() {
		dir := d.Directive(ast.DirectiveResolvers)
		if dir == nil {
			continue
		}
		rb, ok := byFile[dir.Value]
		if !ok {
			rb = &ResolverBinding{File: dir.Value, Span: dir.Span}
			byFile[dir.Value] = rb
			t.Bindings = append(t.Bindings, rb)
		}
		byDecl[d] = rb
	}
	return byDecl
}

func (b *builder) mergeDecl(t *TypeDefinition, d *ast.Declaration, bindings map[*ast.Declaration]*ResolverBinding) {
	for _, v := range d.Values {
		if prev := findValue(t.Values, v.Name); prev != nil {
			b.related(
				b.errorf(t.Name, diag.MergeDuplicateValue, v.Span, "value %q of enum %q is declared twice", v.Name, t.Name),
				prev.Span, "first declared here",
			)
			continue
		}
		t.Values = append(t.Values, v)
	}
	for _, i := range d.Interfaces {
		if prev := findName(t.Interfaces, i.Value); prev != nil {
			b.related(
				b.errorf(t.Name, diag.MergeDuplicateInterface, i.Span, "%q already implements %q", t.Name, i.Value),
				prev.Span, "first implemented here",
			)
			continue
		}
		t.Interfaces = append(t.Interfaces, i)
	}
	for _, fd := range d.Fields {
		if prev, ok := t.fields[fd.Name]; ok {
			b.related(
				b.errorf(t.Name, diag.MergeDuplicateField, fd.Span, "field %q of %q is declared twice", fd.Name, t.Name),
				prev.Span, "first declared here",
			)
			continue
		}
		f := &ClassifiedField{
			Name:        fd.Name,
			Type:        fd.Type,
			Arguments:   fd.Arguments,
			Description: fd.DescriptionText(),
			Span:        fd.Span,
			Owner:       d,
			decl:        fd,
		}
		if dep := fd.Directive(ast.DirectiveDeprecated); dep != nil {
			f.Deprecated, f.DeprecationReason = true, dep.Value
		}
		if res := fd.Directive(ast.DirectiveResolve); res != nil {
			f.Resolved, f.Function, f.ResolveSpan = true, res.Value, res.Span
			b.bind(t, f, bindings)
		}
		t.fields[f.Name] = f
		t.Fields = append(t.Fields, f)
	}
}

// bind attaches a resolved field to the @resolvers of its own extension,
// or to the one of the base declaration.
func (b *builder) bind(t *TypeDefinition, f *ClassifiedField, bindings map[*ast.Declaration]*ResolverBinding) {
	rb, ok := bindings[f.Owner]
	if !ok {
		rb, ok = bindings[t.Base]
	}
	if !ok {
		b.related(
			b.errorf(t.Name, diag.ClsResolveWithoutResolvers, f.Span, "field %q uses @resolve but no enclosing declaration of %q has @resolvers", f.Name, t.Name),
			f.ResolveSpan, "@resolve applied here",
		)
		return
	}
	for _, other := range rb.Fields {
		if goIdent(other.Function) == goIdent(f.Function) {
			b.related(
				b.errorf(t.Name, diag.ClsDuplicateFunction, f.ResolveSpan, "function %q of %q is already bound to field %q", f.Function, rb.File, other.Name),
				other.ResolveSpan, "first bound here",
			)
			return
		}
	}
	f.Binding = rb
	rb.Fields = append(rb.Fields, f)
}

// resolve is the second pass: every reference is looked up by name.
func (b *builder) resolve() {
	for _, t := range b.graph.Types() {
		for _, i := range t.Interfaces {
			it, ok := b.graph.Lookup(i.Value)
			switch {
			case !ok:
				b.undefined(t.Name, i.Value, i.Span)
			case it.Kind != ast.KindInterface:
				b.related(
					b.errorf(t.Name, diag.RefNotInterface, i.Span, "%q implements %q, which is not an interface", t.Name, i.Value),
					it.Span, "defined here",
				)
			default:
				it.Implementors = append(it.Implementors, t.Name)
			}
		}
		for _, f := range t.Fields {
			b.reference(t.Name, f.Type)
			for _, a := range f.Arguments {
				at, ok := b.reference(t.Name, a.Type)
				if ok && at != nil && at.Kind != ast.KindEnum {
					b.related(
						b.errorf(t.Name, diag.RefInvalidArgumentType, innermost(a.Type).Span, "argument %q of %s.%s must be a scalar or an enum, found %s %q", a.Name, t.Name, f.Name, at.Kind, at.Name),
						at.Span, "defined here",
					)
				}
			}
		}
	}
}

// reference checks that ref names a known type. It returns the type
// definition, which is nil for built-in scalars.
func (b *builder) reference(subject string, ref *ast.TypeRef) (*TypeDefinition, bool) {
	named := innermost(ref)
	if ast.IsBuiltinScalar(named.Name) {
		return nil, true
	}
	if t, ok := b.graph.Lookup(named.Name); ok {
		return t, true
	}
	if !b.broken[named.Name] {
		b.undefined(subject, named.Name, named.Span)
	}
	return nil, false
}

func (b *builder) undefined(subject, name string, sp source.Span) {
	b.errorf(subject, diag.RefUndefinedType, sp, "undefined type %q", name)
}

func innermost(ref *ast.TypeRef) *ast.TypeRef {
	for ref.Kind != ast.RefNamed {
		ref = ref.Elem
	}
	return ref
}

func findValue(vs []*ast.EnumValueDecl, name string) *ast.EnumValueDecl {
	for _, v := range vs {
		if v.Name == name {
			return v
		}
	}
	return nil
}

func findName(ns []*ast.Name, name string) *ast.Name {
	for _, n := range ns {
		if n.Value == name {
			return n
		}
	}
	return nil
}
