// Package ast defines the declarations produced by the SDL parser.
//
// Declarations are created from one file, never mutated afterwards, and
// consumed by the type graph builder.
package ast

import (
	"strings"

	"github.com/syssam/gqlsc/compiler/source"
)

// DeclKind is the kind of a top-level declaration.
type DeclKind uint8

const (
	KindEnum DeclKind = iota + 1
	KindObject
	KindInterface
)

func (k DeclKind) String() string {
	switch k {
	case KindEnum:
		return "enum"
	case KindObject:
		return "type"
	case KindInterface:
		return "interface"
	}
	return "unknown"
}

type (
	// Declaration is one top-level SDL definition or extension. The
	// (Kind, Extension) pair selects the variant: EnumDecl, ObjectTypeDecl,
	// ObjectTypeExtension, InterfaceDecl or InterfaceExtension. Enum
	// extensions are parsed so the builder can reject them.
	Declaration struct {
		Kind        DeclKind         `msgpack:"k"`
		Extension   bool             `msgpack:"x,omitempty"`
		Name        string           `msgpack:"n"`
		NameSpan    source.Span      `msgpack:"ns"`
		Description *Description     `msgpack:"d,omitempty"`
		Directives  []*Directive     `msgpack:"dr,omitempty"`
		Interfaces  []*Name          `msgpack:"i,omitempty"`
		Fields      []*FieldDecl     `msgpack:"f,omitempty"`
		Values      []*EnumValueDecl `msgpack:"v,omitempty"`
		Span        source.Span      `msgpack:"s"`
	}

	// Description is an SDL string or block string attached to a node.
	Description struct {
		Text string      `msgpack:"t"`
		Span source.Span `msgpack:"s"`
	}

	// Name is an identifier with its location.
	Name struct {
		Value string      `msgpack:"v"`
		Span  source.Span `msgpack:"s"`
	}

	// FieldDecl is a field of an object or interface declaration.
	FieldDecl struct {
		Name        string          `msgpack:"n"`
		Type        *TypeRef        `msgpack:"t"`
		Arguments   []*ArgumentDecl `msgpack:"a,omitempty"`
		Description *Description    `msgpack:"d,omitempty"`
		Directives  []*Directive    `msgpack:"dr,omitempty"`
		Span        source.Span     `msgpack:"s"`
	}

	// ArgumentDecl is a field argument.
	ArgumentDecl struct {
		Name        string       `msgpack:"n"`
		Type        *TypeRef     `msgpack:"t"`
		Default     *Value       `msgpack:"df,omitempty"`
		Description *Description `msgpack:"d,omitempty"`
		Span        source.Span  `msgpack:"s"`
	}

	// EnumValueDecl is a value of an enum declaration.
	EnumValueDecl struct {
		Name        string       `msgpack:"n"`
		Description *Description `msgpack:"d,omitempty"`
		Directives  []*Directive `msgpack:"dr,omitempty"`
		Span        source.Span  `msgpack:"s"`
	}
)

// DescriptionText returns the description text or "" if there is none.
func (d *Declaration) DescriptionText() string {
	if d == nil || d.Description == nil {
		return ""
	}
	return d.Description.Text
}

// Directive returns the first directive of the given kind.
func (d *Declaration) Directive(kind DirectiveKind) *Directive {
	return findDirective(d.Directives, kind)
}

// Keyword returns the SDL keyword that introduces the declaration.
func (d *Declaration) Keyword() string {
	if d.Extension {
		return "extend " + d.Kind.String()
	}
	return d.Kind.String()
}

// Directive returns the first directive of the given kind.
func (f *FieldDecl) Directive(kind DirectiveKind) *Directive {
	return findDirective(f.Directives, kind)
}

// DescriptionText returns the description text or "".
func (f *FieldDecl) DescriptionText() string {
	if f.Description == nil {
		return ""
	}
	return f.Description.Text
}

// DescriptionText returns the description text or "".
func (a *ArgumentDecl) DescriptionText() string {
	if a.Description == nil {
		return ""
	}
	return a.Description.Text
}

// Directive returns the first directive of the given kind.
func (v *EnumValueDecl) Directive(kind DirectiveKind) *Directive {
	return findDirective(v.Directives, kind)
}

// DescriptionText returns the description text or "".
func (v *EnumValueDecl) DescriptionText() string {
	if v.Description == nil {
		return ""
	}
	return v.Description.Text
}

// ServerValue returns the @server(value) of the enum value, or its name.
func (v *EnumValueDecl) ServerValue() string {
	if d := v.Directive(DirectiveServer); d != nil {
		return d.Value
	}
	return v.Name
}

func findDirective(ds []*Directive, kind DirectiveKind) *Directive {
	for _, d := range ds {
		if d.Kind == kind {
			return d
		}
	}
	return nil
}

// ValueKind is the kind of a literal value.
type ValueKind uint8

const (
	ValueString ValueKind = iota + 1
	ValueInt
	ValueFloat
	ValueBoolean
	ValueNull
	ValueEnum
	ValueList
	ValueObject
)

// Value is a literal of a directive argument or an argument default.
// Raw holds the literal as written, except for strings where it holds the
// unescaped value.
type Value struct {
	Kind   ValueKind   `msgpack:"k"`
	Raw    string      `msgpack:"r"`
	List   []*Value    `msgpack:"l,omitempty"`
	Fields []*ObjField `msgpack:"o,omitempty"`
	Span   source.Span `msgpack:"s"`
}

// ObjField is a field of an object literal.
type ObjField struct {
	Name  string `msgpack:"n"`
	Value *Value `msgpack:"v"`
}

// String renders the value in GraphQL syntax.
func (v *Value) String() string {
	var b strings.Builder
	v.write(&b)
	return b.String()
}

func (v *Value) write(b *strings.Builder) {
	switch v.Kind {
	case ValueString:
		b.WriteString(quote(v.Raw))
	case ValueList:
		b.WriteByte('[')
		for i, e := range v.List {
			if i > 0 {
				b.WriteString(", ")
			}
			e.write(b)
		}
		b.WriteByte(']')
	case ValueObject:
		b.WriteByte('{')
		for i, f := range v.Fields {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(f.Name)
			b.WriteString(": ")
			f.Value.write(b)
		}
		b.WriteByte('}')
	default:
		b.WriteString(v.Raw)
	}
}

func quote(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`, "\r", `\r`, "\t", `\t`)
	return `"` + r.Replace(s) + `"`
}
