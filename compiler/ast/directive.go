package ast

import "github.com/syssam/gqlsc/compiler/source"

// DirectiveKind tags the known directives. Unknown directives never reach
// the AST; the parser reports them.
type DirectiveKind uint8

const (
	// DirectiveServer is @server(value: String!) on enum values.
	DirectiveServer DirectiveKind = iota + 1
	// DirectiveGenerate is @generate(for: Server|GraphQL|Both).
	DirectiveGenerate
	// DirectiveResolvers is @resolvers(file: String!).
	DirectiveResolvers
	// DirectiveResolve is @resolve(function: String!).
	DirectiveResolve
	// DirectiveDeprecated is the standard @deprecated(reason: String).
	DirectiveDeprecated
)

// DirectiveNames maps SDL names to kinds.
var DirectiveNames = map[string]DirectiveKind{
	"server":     DirectiveServer,
	"generate":   DirectiveGenerate,
	"resolvers":  DirectiveResolvers,
	"resolve":    DirectiveResolve,
	"deprecated": DirectiveDeprecated,
}

func (k DirectiveKind) String() string {
	switch k {
	case DirectiveServer:
		return "@server"
	case DirectiveGenerate:
		return "@generate"
	case DirectiveResolvers:
		return "@resolvers"
	case DirectiveResolve:
		return "@resolve"
	case DirectiveDeprecated:
		return "@deprecated"
	}
	return "@unknown"
}

// Target is the output axis selected by @generate.
type Target uint8

const (
	TargetBoth Target = iota + 1
	TargetServer
	TargetGraphQL
)

// Targets maps the enum literals accepted by @generate(for:).
var Targets = map[string]Target{
	"Both":    TargetBoth,
	"Server":  TargetServer,
	"GraphQL": TargetGraphQL,
}

func (t Target) String() string {
	switch t {
	case TargetBoth:
		return "Both"
	case TargetServer:
		return "Server"
	case TargetGraphQL:
		return "GraphQL"
	}
	return "unknown"
}

// Directive is a validated directive application. Only the fields of its
// kind are set:
//
//	@server(value)       Value
//	@generate(for)       For
//	@resolvers(file)     Value
//	@resolve(function)   Value
//	@deprecated(reason)  Value, HasValue
type Directive struct {
	Kind     DirectiveKind `msgpack:"k"`
	Value    string        `msgpack:"v,omitempty"`
	HasValue bool          `msgpack:"h,omitempty"`
	For      Target        `msgpack:"f,omitempty"`
	Span     source.Span   `msgpack:"s"`
}
