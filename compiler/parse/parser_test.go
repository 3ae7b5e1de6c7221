package parse

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/gqlsc/compiler/ast"
	"github.com/syssam/gqlsc/compiler/diag"
	"github.com/syssam/gqlsc/compiler/source"
)

func parse(t *testing.T, text string) *Result {
	t.Helper()
	return File(source.Source{Path: "schema.graphql", Contents: text})
}

func codes(l diag.List) []diag.Code {
	var out []diag.Code
	for _, d := range l {
		out = append(out, d.Code())
	}
	return out
}

func TestFile_Enum(t *testing.T) {
	r := parse(t, `
"Status of a thing"
enum Status {
  "Active one"
  ACTIVE @server(value: "active")
  INACTIVE
}`)
	require.Empty(t, r.Diagnostics)
	require.Len(t, r.Declarations, 1)

	d := r.Declarations[0]
	assert.Equal(t, ast.KindEnum, d.Kind)
	assert.False(t, d.Extension)
	assert.Equal(t, "Status", d.Name)
	assert.Equal(t, "Status of a thing", d.DescriptionText())
	require.Len(t, d.Values, 2)
	assert.Equal(t, "ACTIVE", d.Values[0].Name)
	assert.Equal(t, "active", d.Values[0].ServerValue())
	assert.Equal(t, "Active one", d.Values[0].DescriptionText())
	assert.Equal(t, "INACTIVE", d.Values[1].ServerValue())

	assert.Equal(t, 3, d.NameSpan.Start.Line)
	assert.Equal(t, 6, d.NameSpan.Start.Column)
	assert.Equal(t, 5, d.Values[0].Span.Start.Line)
	assert.Equal(t, 3, d.Values[0].Span.Start.Column)
}

func TestFile_ObjectAndExtension(t *testing.T) {
	r := parse(t, `type User implements Node & Named @resolvers(file: "user.go") {
  id: ID!
  tags(first: Int = 10, after: String): [String!]!
  friends: [User] @resolve(function: "friends") @generate(for: GraphQL)
}

extend type User @generate(for: Server) {
  passwordHash: String
}`)
	require.Empty(t, r.Diagnostics)
	require.Len(t, r.Declarations, 2)

	user := r.Declarations[0]
	assert.Equal(t, ast.KindObject, user.Kind)
	require.Len(t, user.Interfaces, 2)
	assert.Equal(t, "Node", user.Interfaces[0].Value)
	assert.Equal(t, "Named", user.Interfaces[1].Value)

	res := user.Directive(ast.DirectiveResolvers)
	require.NotNil(t, res)
	assert.Equal(t, "user.go", res.Value)

	require.Len(t, user.Fields, 3)
	assert.Equal(t, "ID!", user.Fields[0].Type.String())
	assert.Equal(t, "[String!]!", user.Fields[1].Type.String())
	require.Len(t, user.Fields[1].Arguments, 2)
	assert.Equal(t, "10", user.Fields[1].Arguments[0].Default.String())

	friends := user.Fields[2]
	assert.Equal(t, "friends", friends.Directive(ast.DirectiveResolve).Value)
	assert.Equal(t, ast.TargetGraphQL, friends.Directive(ast.DirectiveGenerate).For)
	assert.Equal(t, "User", friends.Type.NamedType())

	ext := r.Declarations[1]
	assert.True(t, ext.Extension)
	assert.Equal(t, "extend type", ext.Keyword())
	assert.Equal(t, ast.TargetServer, ext.Directive(ast.DirectiveGenerate).For)
	assert.Equal(t, 7, ext.Span.Start.Line)
}

func TestFile_Comments(t *testing.T) {
	r := parse(t, `# leading comment
type A { # trailing
  b: String # another
}`)
	require.Empty(t, r.Diagnostics)
	require.Len(t, r.Declarations, 1)
	require.Len(t, r.Declarations[0].Fields, 1)
}

func TestFile_DirectiveDefinitionsSkipped(t *testing.T) {
	r := parse(t, `directive @resolve(function: String!) on FIELD_DEFINITION
directive @generate(for: Target) on OBJECT | FIELD_DEFINITION
type A { b: String }`)
	require.Empty(t, r.Diagnostics)
	require.Len(t, r.Declarations, 1)
	assert.Equal(t, "A", r.Declarations[0].Name)
}

func TestFile_Recovery(t *testing.T) {
	r := parse(t, `type A {
  b String
}

type B {
  c: Int
}

type C {
  d: Boolean
`)
	// A is broken, B survives, C hits end of file.
	require.Len(t, r.Declarations, 1)
	assert.Equal(t, "B", r.Declarations[0].Name)
	require.Len(t, r.Diagnostics, 2)

	first := r.Diagnostics[0]
	assert.Equal(t, diag.SynUnexpectedToken, first.Code())
	assert.Equal(t, diag.CategorySyntax, first.Category())
	assert.Equal(t, "A", first.Subject())
	assert.Equal(t, 2, first.Primary().Start.Line)
	assert.Equal(t, 5, first.Primary().Start.Column)
	assert.Contains(t, first.Message(), `expected ":"`)

	assert.Equal(t, diag.SynUnexpectedEOF, r.Diagnostics[1].Code())
	assert.Equal(t, "C", r.Diagnostics[1].Subject())
}

func TestFile_RecoveryUnbalancedBraces(t *testing.T) {
	r := parse(t, `type A {
  b: String
  c: (
type B { x: Int }`)
	require.Len(t, r.Declarations, 1)
	assert.Equal(t, "B", r.Declarations[0].Name)
	assert.Equal(t, []diag.Code{diag.SynUnexpectedToken}, codes(r.Diagnostics))
}

func TestFile_RecoveryKeepsDescription(t *testing.T) {
	r := parse(t, `type A { b: }
"B type"
type B { x: Int }`)
	require.Len(t, r.Declarations, 1)
	assert.Equal(t, "B type", r.Declarations[0].DescriptionText())
}

func TestFile_LexicalError(t *testing.T) {
	r := parse(t, `type A { b: String }
type B { c: "unterminated }`)
	require.Len(t, r.Declarations, 1)
	assert.Equal(t, "A", r.Declarations[0].Name)
	require.NotEmpty(t, r.Diagnostics)
	assert.Equal(t, diag.SynLexical, r.Diagnostics[0].Code())
	assert.Equal(t, 2, r.Diagnostics[0].Primary().Start.Line)
}

func TestFile_Unsupported(t *testing.T) {
	r := parse(t, `scalar Time
input Filter { q: String }
type A { b: String }`)
	require.Len(t, r.Declarations, 1)
	assert.Equal(t, []diag.Code{diag.SynUnsupportedDefinition, diag.SynUnsupportedDefinition}, codes(r.Diagnostics))
}

func TestFile_DirectiveErrors(t *testing.T) {
	tests := []struct {
		name string
		sdl  string
		code diag.Code
	}{
		{"unknown", `type A { b: String @cached }`, diag.DirUnknown},
		{"misplaced server", `type A { b: String @server(value: "x") }`, diag.DirMisplaced},
		{"misplaced resolvers", `type A { b: String @resolvers(file: "x") }`, diag.DirMisplaced},
		{"generate on enum", `enum E @generate(for: Server) { A }`, diag.DirMisplaced},
		{"missing argument", `type A @resolvers { b: String }`, diag.DirMissingArgument},
		{"unknown argument", `type A { b: String @resolve(function: "b", cache: true) }`, diag.DirUnknownArgument},
		{"string target", `type A @generate(for: "Server") { b: String }`, diag.DirInvalidArgument},
		{"bad target", `type A @generate(for: Database) { b: String }`, diag.DirInvalidArgument},
		{"non string value", `enum E { A @server(value: 1) }`, diag.DirInvalidArgument},
		{"empty file", `type A @resolvers(file: "") { b: String }`, diag.DirInvalidArgument},
		{"bad function", `type A { b: String @resolve(function: "not valid") }`, diag.DirInvalidArgument},
		{"repeated", `type A { b: String @resolve(function: "b") @resolve(function: "c") }`, diag.DirRepeated},
		{"duplicate argument", `type A { b: String @resolve(function: "b", function: "c") }`, diag.SynDuplicateArgument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := parse(t, tt.sdl)
			require.Len(t, r.Declarations, 1, "declaration is kept")
			require.Len(t, r.Diagnostics, 1)
			d := r.Diagnostics[0]
			assert.Equal(t, tt.code, d.Code())
			assert.Equal(t, diag.SevError, d.Severity())
			assert.Equal(t, r.Declarations[0].Name, d.Subject())
		})
	}
}

func TestFile_DirectiveSpan(t *testing.T) {
	r := parse(t, `type A {
  b: String @nope(x: 1)
}`)
	require.Len(t, r.Diagnostics, 1)
	sp := r.Diagnostics[0].Primary()
	assert.Equal(t, 2, sp.Start.Line)
	assert.Equal(t, 13, sp.Start.Column)
	assert.Equal(t, 24, sp.End.Column)
}

func TestFile_Deprecated(t *testing.T) {
	r := parse(t, `type A {
  old: String @deprecated
  older: String @deprecated(reason: "use b")
}`)
	require.Empty(t, r.Diagnostics)
	fields := r.Declarations[0].Fields
	assert.Equal(t, "No longer supported", fields[0].Directive(ast.DirectiveDeprecated).Value)
	assert.Equal(t, "use b", fields[1].Directive(ast.DirectiveDeprecated).Value)
}

func TestFile_DuplicateInterface(t *testing.T) {
	r := parse(t, `type A implements N & N { id: ID }`)
	require.Len(t, r.Diagnostics, 1)
	assert.Equal(t, diag.SynDuplicateInterfaceName, r.Diagnostics[0].Code())
	assert.Len(t, r.Diagnostics[0].Related(), 1)
	assert.Len(t, r.Declarations[0].Interfaces, 1)
}

func TestFile_EmptyExtension(t *testing.T) {
	r := parse(t, `extend type A
type B { c: Int }`)
	require.Len(t, r.Declarations, 1)
	assert.Equal(t, "B", r.Declarations[0].Name)
	require.Len(t, r.Diagnostics, 1)
	assert.Contains(t, r.Diagnostics[0].Message(), `expected "{" or a directive`)
}

func TestFiles(t *testing.T) {
	srcs := []source.Source{
		{Path: "a.graphql", Contents: `type A { b: B }`},
		{Path: "b.graphql", Contents: `type B { a: A }`},
		{Path: "c.graphql", Contents: `enum C { X }`},
	}
	results, err := Files(context.Background(), srcs, 2)
	require.NoError(t, err)
	require.Len(t, results, 3)
	for i, r := range results {
		assert.Equal(t, srcs[i].Path, r.Path)
		require.Len(t, r.Declarations, 1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Files(ctx, srcs, 1)
	require.ErrorIs(t, err, context.Canceled)
}
