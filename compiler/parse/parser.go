// Package parse turns SDL text into source-annotated declarations.
//
// The parser is a recursive descent parser over the gqlparser lexer. It
// recovers from syntax errors by skipping to the next top-level
// declaration, so one malformed type never hides problems in the rest of
// the file.
package parse

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	gqlast "github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"
	"github.com/vektah/gqlparser/v2/lexer"
	"golang.org/x/sync/errgroup"

	"github.com/syssam/gqlsc/compiler/ast"
	"github.com/syssam/gqlsc/compiler/diag"
	"github.com/syssam/gqlsc/compiler/source"
)

// Result is the outcome of parsing one file.
type Result struct {
	Path         string             `msgpack:"p"`
	Declarations []*ast.Declaration `msgpack:"d"`
	Diagnostics  diag.List          `msgpack:"g"`
}

// File parses a single source. It never fails: problems are returned as
// diagnostics next to the declarations that could be parsed.
func File(src source.Source) *Result {
	p := &parser{file: source.NewFile(src.Path, src.Contents)}
	p.tokenize()
	decls := p.document()
	return &Result{Path: src.Path, Declarations: decls, Diagnostics: p.diags}
}

// Files parses srcs on a bounded worker pool. Results keep the order of
// srcs; the only error is cancellation of ctx.
func Files(ctx context.Context, srcs []source.Source, workers int) ([]*Result, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	results := make([]*Result, len(srcs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, src := range srcs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = File(src)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// bailout is raised after a syntax error was reported. It unwinds to the
// enclosing declaration, which then resynchronizes.
type bailout struct{}

// topLevel are the keywords that may start a definition.
var topLevel = map[string]bool{
	"type":      true,
	"interface": true,
	"enum":      true,
	"extend":    true,
	"directive": true,
	"scalar":    true,
	"union":     true,
	"input":     true,
	"schema":    true,
}

type parser struct {
	file  *source.File
	toks  []lexer.Token
	pos   int
	diags diag.List
	// subject is the name of the declaration being parsed.
	subject string
}

func (p *parser) tokenize() {
	lx := lexer.New(&gqlast.Source{Name: p.file.Path, Input: p.file.Text})
	for {
		tok, err := lx.ReadToken()
		if err != nil {
			p.lexError(err)
			return
		}
		if tok.Kind == lexer.Comment {
			continue
		}
		p.toks = append(p.toks, tok)
		if tok.Kind == lexer.EOF {
			return
		}
	}
}

// lexError reports a lexical error and terminates the token stream at its
// position. Declarations before it are still parsed.
func (p *parser) lexError(err error) {
	msg := err.Error()
	pos := p.file.Pos(0)
	if n := len(p.toks); n > 0 {
		pos = p.file.Pos(p.toks[n-1].Pos.End)
	}
	var gerr *gqlerror.Error
	if errors.As(err, &gerr) {
		msg = gerr.Message
		if len(gerr.Locations) > 0 {
			pos = p.file.PosAt(gerr.Locations[0].Line, gerr.Locations[0].Column)
		}
	}
	sp := source.Span{File: p.file.Path, Start: pos, End: pos}
	p.diags.Add(diag.Errorf(diag.SynLexical, sp, "%s", msg))
	p.toks = append(p.toks, lexer.Token{
		Kind: lexer.EOF,
		Pos:  gqlast.Position{Start: pos.Offset, End: pos.Offset, Line: pos.Line, Column: pos.Column},
	})
}

func (p *parser) peek() lexer.Token {
	return p.toks[p.pos]
}

func (p *parser) next() lexer.Token {
	t := p.toks[p.pos]
	if t.Kind != lexer.EOF {
		p.pos++
	}
	return t
}

func (p *parser) peekKeyword(kw string) bool {
	t := p.peek()
	return t.Kind == lexer.Name && t.Value == kw
}

// prevEnd is the end offset of the last consumed token.
func (p *parser) prevEnd() int {
	if p.pos == 0 {
		return 0
	}
	return p.toks[p.pos-1].Pos.End
}

func (p *parser) span(t lexer.Token) source.Span {
	return p.file.Span(t.Pos.Start, t.Pos.End)
}

// spanFrom covers everything from t up to the last consumed token.
func (p *parser) spanFrom(t lexer.Token) source.Span {
	return p.file.Span(t.Pos.Start, p.prevEnd())
}

func (p *parser) report(d diag.Diagnostic) {
	if p.subject != "" {
		d = d.About(p.subject)
	}
	p.diags.Add(d)
}

func (p *parser) errorf(code diag.Code, sp source.Span, format string, args ...any) {
	p.report(diag.Errorf(code, sp, format, args...))
}

// fail reports a syntax error at t and abandons the current declaration.
func (p *parser) fail(t lexer.Token, want string) {
	code := diag.SynUnexpectedToken
	if t.Kind == lexer.EOF {
		code = diag.SynUnexpectedEOF
	}
	p.errorf(code, p.span(t), "expected %s, found %s", want, describe(t))
	panic(bailout{})
}

func (p *parser) expect(kind lexer.Type) lexer.Token {
	if t := p.peek(); t.Kind != kind {
		p.fail(t, quoteKind(kind))
	}
	return p.next()
}

func (p *parser) expectName() lexer.Token {
	if t := p.peek(); t.Kind != lexer.Name {
		p.fail(t, "a name")
	}
	return p.next()
}

// document parses all definitions of the file.
func (p *parser) document() []*ast.Declaration {
	var decls []*ast.Declaration
	for p.peek().Kind != lexer.EOF {
		start := p.pos
		d, ok := p.guardedDefinition()
		switch {
		case !ok:
			p.sync(start)
		case d != nil:
			decls = append(decls, d)
		}
	}
	return decls
}

func (p *parser) guardedDefinition() (d *ast.Declaration, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			if _, isBailout := r.(bailout); !isBailout {
				panic(r)
			}
			d, ok = nil, false
		}
	}()
	p.subject = ""
	return p.definition(), true
}

// sync skips to the next top-level definition after the one starting at
// token index start. A keyword counts as a boundary when all brackets
// opened since start are closed, or when it starts a line and is followed
// by a name, which recovers from unbalanced braces.
func (p *parser) sync(start int) {
	depth := 0
	for i := start + 1; i < len(p.toks); i++ {
		t := p.toks[i]
		switch t.Kind {
		case lexer.EOF:
			p.pos = i
			return
		case lexer.BraceL, lexer.ParenL, lexer.BracketL:
			depth++
		case lexer.BraceR, lexer.ParenR, lexer.BracketR:
			depth--
		case lexer.Name:
			if !topLevel[t.Value] || p.toks[i-1].Kind == lexer.Name && p.toks[i-1].Value == "extend" {
				continue
			}
			lineStart := t.Pos.Column == 1 && i+1 < len(p.toks) && p.toks[i+1].Kind == lexer.Name
			if depth > 0 && !lineStart {
				continue
			}
			if i-1 > start && isString(p.toks[i-1]) {
				i--
			}
			p.pos = i
			return
		}
	}
	p.pos = len(p.toks) - 1
}

func (p *parser) definition() *ast.Declaration {
	desc := p.description()
	kw := p.peek()
	if kw.Kind != lexer.Name {
		p.fail(kw, "a definition")
	}
	switch kw.Value {
	case "type":
		p.next()
		return p.objectLike(kw, desc, ast.KindObject, false)
	case "interface":
		p.next()
		return p.objectLike(kw, desc, ast.KindInterface, false)
	case "enum":
		p.next()
		return p.enum(kw, desc, false)
	case "extend":
		p.next()
		what := p.expectName()
		switch what.Value {
		case "type":
			return p.objectLike(kw, desc, ast.KindObject, true)
		case "interface":
			return p.objectLike(kw, desc, ast.KindInterface, true)
		case "enum":
			return p.enum(kw, desc, true)
		case "scalar", "union", "input", "schema":
			p.errorf(diag.SynUnsupportedDefinition, p.spanFrom(kw), "%s extensions are not supported", what.Value)
			panic(bailout{})
		}
		p.fail(what, `"type", "interface" or "enum"`)
	case "directive":
		// Directive definitions only serve editor tooling; the compiler
		// knows its directives.
		p.sync(p.pos)
		return nil
	case "scalar", "union", "input", "schema":
		p.errorf(diag.SynUnsupportedDefinition, p.span(kw), "%s definitions are not supported", kw.Value)
		panic(bailout{})
	}
	p.fail(kw, "a definition")
	return nil
}

func (p *parser) description() *ast.Description {
	t := p.peek()
	if !isString(t) {
		return nil
	}
	p.next()
	return &ast.Description{Text: t.Value, Span: p.span(t)}
}

func (p *parser) objectLike(kw lexer.Token, desc *ast.Description, kind ast.DeclKind, ext bool) *ast.Declaration {
	name := p.expectName()
	p.subject = name.Value
	d := &ast.Declaration{
		Kind:        kind,
		Extension:   ext,
		Name:        name.Value,
		NameSpan:    p.span(name),
		Description: desc,
	}
	if p.peekKeyword("implements") {
		if kind == ast.KindInterface {
			p.errorf(diag.SynUnexpectedToken, p.span(p.peek()), "interfaces implementing interfaces are not supported")
			panic(bailout{})
		}
		d.Interfaces = p.implements()
	}
	if t := p.peek(); ext && len(d.Interfaces) == 0 && t.Kind != lexer.At && t.Kind != lexer.BraceL {
		p.fail(t, `"{" or a directive`)
	}
	d.Directives = p.directives(locType)
	if p.peek().Kind == lexer.BraceL {
		d.Fields = p.fields()
	}
	d.Span = p.spanFrom(kw)
	return d
}

func (p *parser) implements() []*ast.Name {
	p.next()
	if p.peek().Kind == lexer.Amp {
		p.next()
	}
	var (
		names []*ast.Name
		seen  = make(map[string]source.Span)
	)
	for {
		t := p.expectName()
		sp := p.span(t)
		if prev, ok := seen[t.Value]; ok {
			p.report(diag.Errorf(diag.SynDuplicateInterfaceName, sp, "interface %q listed twice", t.Value).
				WithRelated(prev, "first listed here"))
		} else {
			seen[t.Value] = sp
			names = append(names, &ast.Name{Value: t.Value, Span: sp})
		}
		if p.peek().Kind == lexer.Amp {
			p.next()
			continue
		}
		if n := p.peek(); n.Kind == lexer.Name && !topLevel[n.Value] {
			continue
		}
		return names
	}
}

func (p *parser) fields() []*ast.FieldDecl {
	p.expect(lexer.BraceL)
	var fields []*ast.FieldDecl
	for p.peek().Kind != lexer.BraceR {
		fields = append(fields, p.field())
	}
	p.expect(lexer.BraceR)
	return fields
}

func (p *parser) field() *ast.FieldDecl {
	desc := p.description()
	name := p.expectName()
	f := &ast.FieldDecl{Name: name.Value, Description: desc}
	if p.peek().Kind == lexer.ParenL {
		f.Arguments = p.arguments()
	}
	p.expect(lexer.Colon)
	f.Type = p.typeRef()
	f.Directives = p.directives(locField)
	f.Span = p.spanFrom(name)
	return f
}

func (p *parser) arguments() []*ast.ArgumentDecl {
	p.expect(lexer.ParenL)
	var (
		args []*ast.ArgumentDecl
		seen = make(map[string]source.Span)
	)
	for {
		desc := p.description()
		name := p.expectName()
		a := &ast.ArgumentDecl{Name: name.Value, Description: desc}
		p.expect(lexer.Colon)
		a.Type = p.typeRef()
		if p.peek().Kind == lexer.Equals {
			p.next()
			a.Default = p.value()
		}
		p.directives(locArgument)
		a.Span = p.spanFrom(name)
		if prev, ok := seen[a.Name]; ok {
			p.report(diag.Errorf(diag.SynDuplicateArgument, a.Span, "argument %q declared twice", a.Name).
				WithRelated(prev, "first declared here"))
		} else {
			seen[a.Name] = a.Span
			args = append(args, a)
		}
		if p.peek().Kind == lexer.ParenR {
			p.next()
			return args
		}
	}
}

func (p *parser) typeRef() *ast.TypeRef {
	start := p.peek()
	var ref *ast.TypeRef
	if start.Kind == lexer.BracketL {
		p.next()
		elem := p.typeRef()
		p.expect(lexer.BracketR)
		ref = ast.ListOf(elem, p.spanFrom(start))
	} else {
		name := p.expectName()
		ref = ast.Named(name.Value, p.span(name))
	}
	if p.peek().Kind == lexer.Bang {
		p.next()
		ref = ast.NonNullOf(ref, p.spanFrom(start))
	}
	return ref
}

func (p *parser) enum(kw lexer.Token, desc *ast.Description, ext bool) *ast.Declaration {
	name := p.expectName()
	p.subject = name.Value
	d := &ast.Declaration{
		Kind:        ast.KindEnum,
		Extension:   ext,
		Name:        name.Value,
		NameSpan:    p.span(name),
		Description: desc,
	}
	d.Directives = p.directives(locEnum)
	if p.peek().Kind == lexer.BraceL {
		p.next()
		for p.peek().Kind != lexer.BraceR {
			d.Values = append(d.Values, p.enumValue())
		}
		p.expect(lexer.BraceR)
	}
	d.Span = p.spanFrom(kw)
	return d
}

func (p *parser) enumValue() *ast.EnumValueDecl {
	desc := p.description()
	name := p.expectName()
	switch name.Value {
	case "true", "false", "null":
		p.errorf(diag.SynUnexpectedToken, p.span(name), "enum value cannot be named %q", name.Value)
	}
	v := &ast.EnumValueDecl{Name: name.Value, Description: desc}
	v.Directives = p.directives(locEnumValue)
	v.Span = p.spanFrom(name)
	return v
}

// value parses a constant literal.
func (p *parser) value() *ast.Value {
	t := p.peek()
	switch t.Kind {
	case lexer.String, lexer.BlockString:
		p.next()
		return &ast.Value{Kind: ast.ValueString, Raw: t.Value, Span: p.span(t)}
	case lexer.Int:
		p.next()
		return &ast.Value{Kind: ast.ValueInt, Raw: t.Value, Span: p.span(t)}
	case lexer.Float:
		p.next()
		return &ast.Value{Kind: ast.ValueFloat, Raw: t.Value, Span: p.span(t)}
	case lexer.Name:
		p.next()
		kind := ast.ValueEnum
		switch t.Value {
		case "true", "false":
			kind = ast.ValueBoolean
		case "null":
			kind = ast.ValueNull
		}
		return &ast.Value{Kind: kind, Raw: t.Value, Span: p.span(t)}
	case lexer.BracketL:
		p.next()
		v := &ast.Value{Kind: ast.ValueList}
		for p.peek().Kind != lexer.BracketR {
			v.List = append(v.List, p.value())
		}
		p.next()
		v.Span = p.spanFrom(t)
		return v
	case lexer.BraceL:
		p.next()
		v := &ast.Value{Kind: ast.ValueObject}
		for p.peek().Kind != lexer.BraceR {
			name := p.expectName()
			p.expect(lexer.Colon)
			v.Fields = append(v.Fields, &ast.ObjField{Name: name.Value, Value: p.value()})
		}
		p.next()
		v.Span = p.spanFrom(t)
		return v
	case lexer.Dollar:
		p.errorf(diag.SynUnexpectedToken, p.span(t), "variables are not allowed in schema definitions")
		panic(bailout{})
	}
	p.fail(t, "a value")
	return nil
}

func isString(t lexer.Token) bool {
	return t.Kind == lexer.String || t.Kind == lexer.BlockString
}

func describe(t lexer.Token) string {
	switch t.Kind {
	case lexer.EOF:
		return "end of file"
	case lexer.Name:
		return fmt.Sprintf("%q", t.Value)
	case lexer.String, lexer.BlockString:
		return "string"
	case lexer.Int, lexer.Float:
		return "number " + t.Value
	}
	return quoteKind(t.Kind)
}

func quoteKind(k lexer.Type) string {
	switch k {
	case lexer.Bang:
		return `"!"`
	case lexer.Dollar:
		return `"$"`
	case lexer.Amp:
		return `"&"`
	case lexer.ParenL:
		return `"("`
	case lexer.ParenR:
		return `")"`
	case lexer.Spread:
		return `"..."`
	case lexer.Colon:
		return `":"`
	case lexer.Equals:
		return `"="`
	case lexer.At:
		return `"@"`
	case lexer.BracketL:
		return `"["`
	case lexer.BracketR:
		return `"]"`
	case lexer.BraceL:
		return `"{"`
	case lexer.BraceR:
		return `"}"`
	case lexer.Pipe:
		return `"|"`
	case lexer.Name:
		return "a name"
	case lexer.EOF:
		return "end of file"
	}
	return k.Name()
}
