package gen

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/syssam/gqlsc/compiler/graph"
)

func TestSnake(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Username", "username"},
		{"FullName", "full_name"},
		{"HTTPCode", "http_code"},
		{"UserID", "user_id"},
		{"XMLParser", "xml_parser"},
		{"getHTTPResponse", "get_http_response"},
		{"already_snake", "already_snake"},
		{"A", "a"},
		{"AB", "ab"},
		{"", ""},
		{"userInfo", "user_info"},
		{"UserIDs", "user_ids"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, snake(tt.input))
		})
	}
}

func TestPlural(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Status", "Statuses"},
		{"Campus", "Campuses"},
		{"OrderStatus", "OrderStatuses"},
		{"Role", "Roles"},
		{"Category", "Categories"},
		{"Sheep", "SheepSlice"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, plural(tt.input))
		})
	}
}

func TestReceiver(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"User", "u"},
		{"UserProfile", "up"},
		{"HTTPStatus", "hs"},
		{"Status", "s"},
		{"*Node", "n"},
		{"", "r"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, receiver(tt.input))
		})
	}
}

func TestResolverNames(t *testing.T) {
	one := &graph.ResolverBinding{File: "resolvers/user.go"}
	single := &graph.TypeDefinition{Name: "User", Bindings: []*graph.ResolverBinding{one}}
	assert.Equal(t, "User", resolverName(single, one))
	assert.Equal(t, "UserResolvers", resolverInterface(single, one))

	other := &graph.ResolverBinding{File: "resolvers/user_stats.go"}
	multi := &graph.TypeDefinition{Name: "User", Bindings: []*graph.ResolverBinding{one, other}}
	assert.Equal(t, "UserUser", resolverName(multi, one))
	assert.Equal(t, "UserUserStatsResolvers", resolverInterface(multi, other))
}

func TestFieldNames(t *testing.T) {
	typ := &graph.TypeDefinition{Name: "userAccount"}
	field := &graph.ClassifiedField{Name: "avatarURL", Function: "resolveAvatar"}

	assert.Equal(t, "UserAccount", goName(typ))
	assert.Equal(t, "user_account_model.go", fileName(typ, "model"))
	assert.Equal(t, "UserAccountActive", enumConst(typ, "ACTIVE"))
	assert.Equal(t, "GetAvatarURL", getter(field))
	assert.Equal(t, "ResolveAvatar", method(field))
	assert.Equal(t, "UserAccountAvatarURLArgs", argsName(typ, field))
}
