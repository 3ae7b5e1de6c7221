package parse

import (
	"regexp"
	"slices"

	"github.com/vektah/gqlparser/v2/lexer"

	"github.com/syssam/gqlsc/compiler/ast"
	"github.com/syssam/gqlsc/compiler/diag"
	"github.com/syssam/gqlsc/compiler/source"
)

// location is where a directive is applied.
type location uint8

const (
	locType location = iota + 1
	locEnum
	locField
	locEnumValue
	locArgument
)

func (l location) String() string {
	switch l {
	case locType:
		return "object and interface types"
	case locEnum:
		return "enum types"
	case locField:
		return "fields"
	case locEnumValue:
		return "enum values"
	case locArgument:
		return "arguments"
	}
	return "unknown locations"
}

type argKind uint8

const (
	argString argKind = iota + 1
	argTarget
)

// directiveSchema is the statically known argument set of a directive.
type directiveSchema struct {
	locations []location
	args      map[string]argKind
	required  string
}

var schemas = map[ast.DirectiveKind]directiveSchema{
	ast.DirectiveServer: {
		locations: []location{locEnumValue},
		args:      map[string]argKind{"value": argString},
		required:  "value",
	},
	ast.DirectiveGenerate: {
		locations: []location{locType, locField},
		args:      map[string]argKind{"for": argTarget},
		required:  "for",
	},
	ast.DirectiveResolvers: {
		locations: []location{locType},
		args:      map[string]argKind{"file": argString},
		required:  "file",
	},
	ast.DirectiveResolve: {
		locations: []location{locField},
		args:      map[string]argKind{"function": argString},
		required:  "function",
	},
	ast.DirectiveDeprecated: {
		locations: []location{locField, locEnumValue},
		args:      map[string]argKind{"reason": argString},
	},
}

var identifier = regexp.MustCompile(`^[_A-Za-z][_0-9A-Za-z]*$`)

// rawArg is a directive argument before validation.
type rawArg struct {
	name  string
	value *ast.Value
	span  source.Span
}

// directives parses the directive applications at the current position and
// validates them for loc. Invalid applications are reported and dropped.
func (p *parser) directives(loc location) []*ast.Directive {
	var (
		out  []*ast.Directive
		seen = make(map[ast.DirectiveKind]source.Span)
	)
	for p.peek().Kind == lexer.At {
		at := p.next()
		name := p.expectName()
		var args []rawArg
		if p.peek().Kind == lexer.ParenL {
			args = p.rawArguments()
		}
		sp := p.spanFrom(at)
		d, ok := p.checkDirective(loc, name.Value, args, sp)
		if !ok {
			continue
		}
		if prev, dup := seen[d.Kind]; dup {
			p.report(diag.Errorf(diag.DirRepeated, sp, "directive %s may appear only once here", d.Kind).
				WithRelated(prev, "first applied here"))
			continue
		}
		seen[d.Kind] = sp
		out = append(out, d)
	}
	return out
}

func (p *parser) rawArguments() []rawArg {
	p.expect(lexer.ParenL)
	var args []rawArg
	for {
		name := p.expectName()
		p.expect(lexer.Colon)
		v := p.value()
		args = append(args, rawArg{name: name.Value, value: v, span: p.spanFrom(name)})
		if p.peek().Kind == lexer.ParenR {
			p.next()
			return args
		}
	}
}

func (p *parser) checkDirective(loc location, name string, args []rawArg, sp source.Span) (*ast.Directive, bool) {
	kind, known := ast.DirectiveNames[name]
	if !known {
		p.errorf(diag.DirUnknown, sp, "unknown directive @%s", name)
		return nil, false
	}
	schema := schemas[kind]
	if !slices.Contains(schema.locations, loc) {
		p.errorf(diag.DirMisplaced, sp, "directive %s is not allowed on %s", kind, loc)
		return nil, false
	}
	var (
		d    = &ast.Directive{Kind: kind, Span: sp}
		ok   = true
		seen = make(map[string]bool, len(args))
	)
	for _, a := range args {
		if seen[a.name] {
			p.errorf(diag.SynDuplicateArgument, a.span, "argument %q of %s given twice", a.name, kind)
			ok = false
			continue
		}
		seen[a.name] = true
		spec, known := schema.args[a.name]
		if !known {
			p.errorf(diag.DirUnknownArgument, a.span, "directive %s has no argument %q", kind, a.name)
			ok = false
			continue
		}
		switch spec {
		case argString:
			if a.value.Kind != ast.ValueString {
				p.errorf(diag.DirInvalidArgument, a.value.Span, "argument %q of %s must be a string, found %s", a.name, kind, a.value)
				ok = false
				continue
			}
			d.Value, d.HasValue = a.value.Raw, true
		case argTarget:
			target, valid := ast.Targets[a.value.Raw]
			if a.value.Kind != ast.ValueEnum || !valid {
				p.errorf(diag.DirInvalidArgument, a.value.Span, "argument %q of %s must be one of Server, GraphQL or Both, found %s", a.name, kind, a.value)
				ok = false
				continue
			}
			d.For = target
		}
	}
	if schema.required != "" && !seen[schema.required] {
		p.errorf(diag.DirMissingArgument, sp, "directive %s requires argument %q", kind, schema.required)
		ok = false
	}
	if !ok {
		return nil, false
	}
	switch kind {
	case ast.DirectiveResolvers:
		if d.Value == "" {
			p.errorf(diag.DirInvalidArgument, sp, "argument \"file\" of %s must not be empty", kind)
			return nil, false
		}
	case ast.DirectiveResolve:
		if !identifier.MatchString(d.Value) {
			p.errorf(diag.DirInvalidArgument, sp, "argument \"function\" of %s must be an identifier, found %q", kind, d.Value)
			return nil, false
		}
	case ast.DirectiveDeprecated:
		if !d.HasValue {
			d.Value = "No longer supported"
		}
	}
	return d, true
}
