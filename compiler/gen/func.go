package gen

import (
	"path"
	"strings"
	"unicode"

	"github.com/go-openapi/inflect"

	"github.com/syssam/gqlsc/compiler/graph"
	"github.com/syssam/gqlsc/compiler/typemap"
)

var rules = ruleset()

func ruleset() *inflect.Ruleset {
	rules := inflect.NewDefaultRuleset()
	for _, w := range []string{
		"ACL", "API", "ASCII", "CPU", "CSS", "DNS", "EOF", "GUID", "HTML",
		"HTTP", "HTTPS", "ID", "IP", "JSON", "QPS", "RAM", "RPC", "SLA",
		"SMTP", "SQL", "SSH", "TCP", "TLS", "TTL", "UDP", "UI", "UID", "URI",
		"URL", "UTF8", "UUID", "VM", "XML", "XMPP", "XSRF", "XSS",
	} {
		rules.AddAcronym(w)
	}
	// Status, Campus and Bus are not covered by the default rules.
	rules.AddPlural("us", "uses")
	return rules
}

// snake converts a Go identifier to snake case, keeping initialisms
// together: HTTPCode becomes http_code.
func snake(s string) string {
	var (
		j int
		b strings.Builder
	)
	for i := 0; i < len(s); i++ {
		r := rune(s[i])
		// Put '_' if it is not a start or end of a word, current letter is
		// uppercase, and previous is lowercase (UserInfo), or next letter is
		// lowercase and previous is a letter (HTTPCode).
		if i > 0 && i < len(s)-1 && unicode.IsUpper(r) {
			if unicode.IsLower(rune(s[i-1])) ||
				j != i-1 && unicode.IsLower(rune(s[i+1])) && unicode.IsLetter(rune(s[i-1])) {
				j = i
				b.WriteString("_")
			}
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// plural returns the plural form of a Go identifier.
func plural(name string) string {
	p := rules.Pluralize(name)
	if p == name {
		p += "Slice"
	}
	return p
}

// receiver returns the receiver name of a type: the lowercase initials
// of its words.
func receiver(s string) string {
	s = strings.TrimLeft(s, "*[]0123456789")
	var b strings.Builder
	for i, r := range s {
		if i == 0 || unicode.IsUpper(r) && (unicode.IsLower(prevRune(s, i)) || nextIsLower(s, i)) {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	if b.Len() == 0 {
		return "r"
	}
	return b.String()
}

func prevRune(s string, i int) rune {
	if i == 0 {
		return 0
	}
	return rune(s[i-1])
}

func nextIsLower(s string, i int) bool {
	return i+1 < len(s) && unicode.IsLower(rune(s[i+1]))
}

// goName returns the Go identifier of a type.
func goName(t *graph.TypeDefinition) string {
	return typemap.TypeName(t.Name)
}

// fileName returns the output file of a type with the given suffix, such
// as user_profile_model.go.
func fileName(t *graph.TypeDefinition, suffix string) string {
	return snake(goName(t)) + "_" + suffix + ".go"
}

// enumConst returns the constant generated for an enum value.
func enumConst(t *graph.TypeDefinition, value string) string {
	return goName(t) + typemap.FieldName(value)
}

// getter returns the interface method name of a server field.
func getter(f *graph.ClassifiedField) string {
	return "Get" + typemap.FieldName(f.Name)
}

// resolverName returns the resolver accessor of a binding; the interface is
// named after it with a Resolvers suffix. A type with several binding
// files qualifies each by the file stem.
func resolverName(t *graph.TypeDefinition, b *graph.ResolverBinding) string {
	if len(t.Bindings) == 1 {
		return goName(t)
	}
	stem := strings.TrimSuffix(path.Base(b.File), path.Ext(b.File))
	return goName(t) + typemap.FieldName(stem)
}

func resolverInterface(t *graph.TypeDefinition, b *graph.ResolverBinding) string {
	return resolverName(t, b) + "Resolvers"
}

// method returns the resolver method of a resolved field.
func method(f *graph.ClassifiedField) string {
	return typemap.FieldName(f.Function)
}

// argsName returns the arguments struct of a field.
func argsName(t *graph.TypeDefinition, f *graph.ClassifiedField) string {
	return goName(t) + typemap.FieldName(f.Name) + "Args"
}
