package gen

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/gqlsc/compiler/ast"
	"github.com/syssam/gqlsc/compiler/graph"
	"github.com/syssam/gqlsc/compiler/parse"
	"github.com/syssam/gqlsc/compiler/source"
)

// newGenerator compiles texts, one file each, into a generator writing to
// a temporary directory. The schema must be free of errors.
func newGenerator(t *testing.T, texts ...string) *Generator {
	t.Helper()
	var decls []*ast.Declaration
	for i, text := range texts {
		r := parse.File(source.Source{Path: fmt.Sprintf("f%d.graphql", i), Contents: text})
		require.Empty(t, r.Diagnostics, "parse %d", i)
		decls = append(decls, r.Declarations...)
	}
	g, diags := graph.Build(decls)
	diags.Add(graph.Classify(g)...)
	require.False(t, diags.HasErrors(), "%v", diags)

	c, err := NewConfig(WithTarget(t.TempDir()))
	require.NoError(t, err)
	return NewGenerator(c, g)
}

// render renders every file and returns the contents by name.
func render(t *testing.T, g *Generator) map[string]string {
	t.Helper()
	files, err := g.Render(context.Background())
	require.NoError(t, err)
	out := make(map[string]string, len(files))
	for _, f := range files {
		out[f.Name] = string(f.Content)
	}
	return out
}

// flat collapses whitespace so that assertions do not depend on gofmt
// alignment.
func flat(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func names(files map[string]string) []string {
	var out []string
	for name := range files {
		out = append(out, name)
	}
	return out
}

func TestGenerator_Enum(t *testing.T) {
	files := render(t, newGenerator(t, `enum MyEnum { Value1 Value2 }`))
	assert.ElementsMatch(t, []string{
		"my_enum_model.go", "my_enum_schema.go",
		"types.go", "resolvers.go", "schema.graphql",
	}, names(files))

	model := flat(files["my_enum_model.go"])
	assert.True(t, strings.HasPrefix(files["my_enum_model.go"], "// "+DefaultHeader))
	assert.Contains(t, model, "package graph")
	assert.Contains(t, model, "type MyEnum string")
	assert.Contains(t, model, `MyEnumValue1 MyEnum = "Value1"`)
	assert.Contains(t, model, `MyEnumValue2 MyEnum = "Value2"`)
	assert.Contains(t, model, "var AllMyEnums = []MyEnum{MyEnumValue1, MyEnumValue2}")
	assert.Contains(t, model, `return []string{"Value1", "Value2"}`)
	assert.Contains(t, model, "func (me MyEnum) IsValid() bool")
	assert.Contains(t, model, "case MyEnumValue1, MyEnumValue2: return true")

	schema := flat(files["my_enum_schema.go"])
	assert.Contains(t, schema, "func (t *Types) newMyEnum() *graphql.Enum")
	assert.Contains(t, schema, `Name: "MyEnum"`)
	assert.Contains(t, schema, "{Value: MyEnumValue1}")
	assert.NotContains(t, schema, "Description")
}

func TestGenerator_EnumValues(t *testing.T) {
	files := render(t, newGenerator(t, `
"""Account status."""
enum Status {
  "Active account."
  ACTIVE @server(value: "active")
  BANNED @deprecated(reason: "use SUSPENDED")
  SUSPENDED
}`))

	model := flat(files["status_model.go"])
	assert.Contains(t, model, "// Account status. // // Defined at f0.graphql:")
	assert.Contains(t, model, `// Active account. StatusActive Status = "active"`)
	assert.Contains(t, model, `// Deprecated: use SUSPENDED StatusBanned Status = "BANNED"`)
	assert.Contains(t, model, "var AllStatuses = []Status{StatusActive, StatusBanned, StatusSuspended}")
	assert.Contains(t, model, `return []string{"active", "BANNED", "SUSPENDED"}`)

	schema := flat(files["status_schema.go"])
	assert.Contains(t, schema, `Description: "Account status."`)
	assert.Contains(t, schema, `Description: "Active account."`)
	assert.Contains(t, schema, `DeprecationReason: "use SUSPENDED"`)

	sdl := files["schema.graphql"]
	assert.Contains(t, sdl, "enum Status")
	assert.Contains(t, sdl, `@deprecated(reason: "use SUSPENDED")`)
	assert.NotContains(t, sdl, "@server")
}

func TestGenerator_PlainObject(t *testing.T) {
	files := render(t, newGenerator(t, `type MyType { myField: String }`))
	assert.ElementsMatch(t, []string{
		"my_type_model.go", "my_type_schema.go",
		"types.go", "resolvers.go", "schema.graphql",
	}, names(files))

	model := flat(files["my_type_model.go"])
	assert.Contains(t, model, "type MyType struct { MyField *string `json:\"myField\"` }")

	schema := flat(files["my_type_schema.go"])
	assert.Contains(t, schema, "func (t *Types) newMyType() *graphql.Object")
	assert.Contains(t, schema, `"myField": &graphql.Field{`)
	assert.Contains(t, schema, "Type: graphql.String,")
	assert.Contains(t, schema, "root, ok := p.Source.(*MyType)")
	assert.Contains(t, schema, "return root.MyField, nil")

	assert.NotContains(t, flat(files["resolvers.go"]), "MyType")
}

func TestGenerator_ResolvedField(t *testing.T) {
	files := render(t, newGenerator(t, `
type MyType @resolvers(file: "f.go") {
  myResolvedField: String @resolve(function: "myResolvedField")
}`))
	assert.ElementsMatch(t, []string{
		"my_type_schema.go", "my_type_resolvers.go",
		"types.go", "resolvers.go", "schema.graphql",
	}, names(files))

	schema := flat(files["my_type_schema.go"])
	assert.Contains(t, schema, `"myResolvedField": &graphql.Field{`)
	assert.Contains(t, schema, "return t.resolvers.MyType().MyResolvedField(p.Context, p.Source)")

	resolvers := flat(files["my_type_resolvers.go"])
	assert.Contains(t, resolvers, "// MyTypeResolvers resolves the fields of MyType implemented in f.go.")
	assert.Contains(t, resolvers, "type MyTypeResolvers interface {")
	assert.Contains(t, resolvers, "MyResolvedField(ctx context.Context, root any) (*string, error)")
	assert.Contains(t, resolvers, `"context"`)

	root := flat(files["resolvers.go"])
	assert.Contains(t, root, "type ResolverRoot interface { MyType() MyTypeResolvers }")

	types := flat(files["types.go"])
	assert.Contains(t, types, "MyType *graphql.Object")
	assert.Contains(t, types, "t.MyType = t.newMyType()")
}

func TestGenerator_Interfaces(t *testing.T) {
	files := render(t, newGenerator(t,
		`interface Node { id: ID! }`,
		`type User implements Node {
  id: ID!
  name: String
}
extend type User @resolvers(file: "user.go") {
  friends(first: Int = 10): [User!]! @resolve(function: "friends")
}`,
		`type Query @resolvers(file: "query.go") { node(id: ID!): Node @resolve(function: "node") }`,
	))

	node := flat(files["node_model.go"])
	assert.Contains(t, node, "type Node interface { GetID() string }")

	user := flat(files["user_model.go"])
	assert.Contains(t, user, "ID string `json:\"id\"`")
	assert.Contains(t, user, "Name *string `json:\"name\"`")
	assert.NotContains(t, user, "Friends")
	assert.Contains(t, user, "func (u *User) GetID() string { return u.ID }")
	assert.Contains(t, user, "var _ Node = (*User)(nil)")

	nodeSchema := flat(files["node_schema.go"])
	assert.Contains(t, nodeSchema, "func (t *Types) newNode() *graphql.Interface")
	assert.Contains(t, nodeSchema, "switch p.Value.(type) { case *User: return t.User }")
	assert.NotContains(t, nodeSchema, "Resolve: func")

	userSchema := flat(files["user_schema.go"])
	assert.Contains(t, userSchema, "return []*graphql.Interface{t.Node}")
	assert.Contains(t, userSchema, "Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(t.User))),")
	assert.Contains(t, userSchema, "DefaultValue: 10,")
	assert.Contains(t, userSchema, "var args UserFriendsArgs")
	assert.Contains(t, userSchema, "decodeArgs(p.Args, &args)")
	assert.Contains(t, userSchema, "return t.resolvers.User().Friends(p.Context, root, args)")

	resolvers := flat(files["user_resolvers.go"])
	assert.Contains(t, resolvers, "Friends(ctx context.Context, root *User, args UserFriendsArgs) ([]*User, error)")
	assert.Contains(t, resolvers, "type UserFriendsArgs struct { First *int `json:\"first\"` }")

	query := flat(files["query_resolvers.go"])
	assert.Contains(t, query, "Node(ctx context.Context, root any, args QueryNodeArgs) (Node, error)")

	types := flat(files["types.go"])
	assert.Contains(t, types, "Query: t.Query,")
	assert.Contains(t, types, "Types: []graphql.Type{t.User, t.Query},")
	assert.NotContains(t, types, "Mutation")
	assert.Contains(t, types, "func decodeArgs(in map[string]any, out any) error")

	root := flat(files["resolvers.go"])
	assert.Contains(t, root, "User() UserResolvers")
	assert.Contains(t, root, "Query() QueryResolvers")
}

func TestGenerator_Projections(t *testing.T) {
	files := render(t, newGenerator(t, `
type Account @resolvers(file: "account.go") {
  id: ID! @generate(for: Both)
  passwordHash: String! @generate(for: Server)
  display: String! @generate(for: GraphQL) @resolve(function: "display")
}`))

	model := flat(files["account_model.go"])
	assert.Contains(t, model, "ID string `json:\"id\"`")
	assert.Contains(t, model, "PasswordHash string `json:\"passwordHash\"`")
	assert.NotContains(t, model, "Display")

	schema := flat(files["account_schema.go"])
	assert.Contains(t, schema, `"display": &graphql.Field{`)
	assert.Contains(t, schema, `"id": &graphql.Field{`)
	assert.NotContains(t, schema, "passwordHash")
	assert.Contains(t, schema, "root, _ := p.Source.(*Account)")

	resolvers := flat(files["account_resolvers.go"])
	assert.Contains(t, resolvers, "Display(ctx context.Context, root *Account) (string, error)")

	sdl := files["schema.graphql"]
	assert.Contains(t, sdl, "display: String!")
	assert.NotContains(t, sdl, "passwordHash")
	assert.NotContains(t, sdl, "@resolve")
	assert.NotContains(t, sdl, "@generate")
}

func TestGenerator_ResolvedServerField(t *testing.T) {
	files := render(t, newGenerator(t, `
type Order @resolvers(file: "order.go") {
  total: Int! @generate(for: Both) @resolve(function: "total")
}`))

	model := flat(files["order_model.go"])
	assert.Contains(t, model, "Total int `json:\"total\"`")

	schema := flat(files["order_schema.go"])
	assert.Contains(t, schema, "root, _ := p.Source.(*Order)")
	assert.Contains(t, schema, "return t.resolvers.Order().Total(p.Context, root)")

	resolvers := flat(files["order_resolvers.go"])
	assert.Contains(t, resolvers, "Total(ctx context.Context, root *Order) (int, error)")
}

func TestGenerator_ServerOnlyType(t *testing.T) {
	files := render(t, newGenerator(t,
		`type Query { me: String }`,
		`type Secret @generate(for: Server) { hash: String }`,
		`interface Keyed @generate(for: Server) { key: String }`,
		`type Lock implements Keyed { key: String }`,
	))
	assert.ElementsMatch(t, []string{
		"query_model.go", "query_schema.go",
		"secret_model.go",
		"keyed_model.go",
		"lock_model.go", "lock_schema.go",
		"types.go", "resolvers.go", "schema.graphql",
	}, names(files))

	model := flat(files["secret_model.go"])
	assert.Contains(t, model, "type Secret struct { Hash *string `json:\"hash\"` }")

	types := flat(files["types.go"])
	assert.NotContains(t, types, "Secret")
	assert.NotContains(t, types, "Keyed")
	assert.Contains(t, types, "Types: []graphql.Type{t.Query, t.Lock},")

	lock := flat(files["lock_schema.go"])
	assert.NotContains(t, lock, "Interfaces")

	sdl := files["schema.graphql"]
	assert.NotContains(t, sdl, "Secret")
	assert.NotContains(t, sdl, "Keyed")
	assert.Contains(t, sdl, "type Lock {")
}

func TestGenerator_SuppressedReferences(t *testing.T) {
	g := newGenerator(t,
		`enum Role { ADMIN }`,
		`type User { id: ID! role: Role }`,
		`type Team { lead: User! members: [User!]! name: String }`,
		`type Badge { owner: User }`,
		`type Query { team: Team byRole(role: Role): [Team!] users: [User!] }`,
	).WithSuppressed(map[string]bool{"User": true, "Role": true})

	files := render(t, g)
	assert.NotContains(t, names(files), "user_model.go")
	assert.NotContains(t, names(files), "badge_schema.go")

	team := flat(files["team_model.go"])
	assert.Contains(t, team, "Lead any `json:\"lead\"`")
	assert.Contains(t, team, "Members []any `json:\"members\"`")

	schema := flat(files["team_schema.go"])
	assert.Contains(t, schema, `"name": &graphql.Field{`)
	assert.NotContains(t, schema, "t.User")
	assert.NotContains(t, schema, `"lead"`)

	// Badge keeps its server type but has no GraphQL field left.
	assert.Contains(t, flat(files["badge_model.go"]), "Owner any")

	query := flat(files["query_schema.go"])
	assert.Contains(t, query, `"team": &graphql.Field{`)
	assert.NotContains(t, query, "byRole")
	assert.NotContains(t, query, "users")

	types := flat(files["types.go"])
	assert.NotContains(t, types, "t.User")
	assert.NotContains(t, types, "t.Badge")
	assert.NotContains(t, types, "t.Role")

	sdl := files["schema.graphql"]
	assert.NotContains(t, sdl, "User")
	assert.NotContains(t, sdl, "Badge")
	assert.Contains(t, sdl, "team: Team")
}

func TestGenerator_Deprecation(t *testing.T) {
	files := render(t, newGenerator(t, `
type Item {
  "The item name."
  name: String!
  title: String @deprecated
}`))

	model := flat(files["item_model.go"])
	assert.Contains(t, model, "// The item name. Name string")
	assert.Contains(t, model, "// Deprecated: No longer supported Title *string")

	schema := flat(files["item_schema.go"])
	assert.Contains(t, schema, `Description: "The item name."`)
	assert.Contains(t, schema, `DeprecationReason: "No longer supported"`)

	sdl := files["schema.graphql"]
	assert.Contains(t, sdl, "title: String @deprecated")
	assert.NotContains(t, sdl, "reason")
}

func TestGenerator_Suppressed(t *testing.T) {
	g := newGenerator(t,
		`type User { id: ID! }`,
		`type Post { id: ID! }`,
	).WithSuppressed(map[string]bool{"User": true})

	require.Len(t, g.Types(), 1)
	assert.Equal(t, "Post", g.Types()[0].Name)

	files := render(t, g)
	for name := range files {
		assert.False(t, strings.HasPrefix(name, "user_"), name)
	}
	assert.NotContains(t, files["types.go"], "User")
	assert.NotContains(t, files["schema.graphql"], "User")
}

func TestGenerator_Idempotent(t *testing.T) {
	texts := []string{
		`interface Node { id: ID! }`,
		`type User implements Node { id: ID! tags: [String!] }
extend type User @resolvers(file: "user.go") { score(scale: Float = 1): Float! @resolve(function: "score") }`,
		`enum Role { ADMIN USER }`,
		`type Query { role: Role }
extend type Query @resolvers(file: "query.go") { me: User @resolve(function: "me") }`,
	}
	first, err := newGenerator(t, texts...).Render(context.Background())
	require.NoError(t, err)
	second, err := newGenerator(t, texts...).Render(context.Background())
	require.NoError(t, err)

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].Name, second[i].Name)
		assert.Equal(t, string(first[i].Content), string(second[i].Content), first[i].Name)
	}
}

func TestGenerator_FileSpans(t *testing.T) {
	files, err := newGenerator(t, `type User { id: ID! }`).Render(context.Background())
	require.NoError(t, err)
	for _, f := range files {
		switch f.Name {
		case "user_model.go", "user_schema.go":
			assert.Equal(t, "User", f.Type)
			assert.Equal(t, "f0.graphql", f.Span.File)
		default:
			assert.Empty(t, f.Type, f.Name)
		}
	}
}

func TestGenerator_Generate(t *testing.T) {
	g := newGenerator(t, `type User { id: ID! }`)
	target := g.config.Target

	stale := filepath.Join(target, "old_model.go")
	require.NoError(t, os.WriteFile(stale, []byte("// "+DefaultHeader+"\n\npackage graph\n"), 0o644))
	custom := filepath.Join(target, "custom.go")
	require.NoError(t, os.WriteFile(custom, []byte("package graph\n"), 0o644))

	metrics, err := g.Generate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, metrics.FilesGenerated)
	assert.Positive(t, metrics.TotalBytes)

	for _, name := range []string{"user_model.go", "user_schema.go", "types.go", "resolvers.go", "schema.graphql"} {
		assert.FileExists(t, filepath.Join(target, name))
	}
	assert.NoFileExists(t, stale)
	assert.FileExists(t, custom)
}

func TestGenerator_WriteError(t *testing.T) {
	g := newGenerator(t, `type User { id: ID! }`)
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))
	g.config.Target = filepath.Join(blocker, "out")

	_, err := g.Generate(context.Background())
	require.Error(t, err)
	assert.True(t, IsGenerationError(err))
}
