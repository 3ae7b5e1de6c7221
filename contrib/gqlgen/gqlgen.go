// Package gqlgen keeps a gqlgen.yml in sync with a gqlsc generated package.
//
// gqlgen binds each GraphQL type to the generated server type, and fields
// without a server member are marked as resolver fields:
//
//	models:
//	  User:
//	    model: github.com/acme/app/graph.User
//	    fields:
//	      avatarURL:
//	        resolver: true
package gqlgen

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/syssam/gqlsc/compiler/ast"
	"github.com/syssam/gqlsc/compiler/graph"
	"github.com/syssam/gqlsc/compiler/typemap"
)

// Config represents the parts of gqlgen.yml that gqlsc updates. Other keys
// are kept in Extra and written back unchanged.
type Config struct {
	// SchemaFilename is the path(s) to the GraphQL schema file(s).
	SchemaFilename StringList `yaml:"schema,omitempty"`

	// Models is a map of GraphQL type name to model configuration.
	Models map[string]TypeMapEntry `yaml:"models,omitempty"`

	Extra map[string]any `yaml:",inline"`
}

// TypeMapEntry is the configuration for a single GraphQL type.
type TypeMapEntry struct {
	// Model is the Go model(s) to bind to this GraphQL type.
	Model StringList `yaml:"model,omitempty"`

	// Fields configures field-level mappings.
	Fields map[string]TypeMapField `yaml:"fields,omitempty"`

	Extra map[string]any `yaml:",inline"`
}

// TypeMapField is the configuration for a single field.
type TypeMapField struct {
	// Resolver indicates if this field needs a resolver.
	Resolver bool `yaml:"resolver,omitempty"`

	// FieldName is the Go struct field name.
	FieldName string `yaml:"fieldName,omitempty"`
}

// StringList is a YAML type that can be either a string or a list of strings.
type StringList []string

// UnmarshalYAML implements yaml.Unmarshaler for StringList.
func (s *StringList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*s = []string{node.Value}
		return nil
	case yaml.SequenceNode:
		var list []string
		if err := node.Decode(&list); err != nil {
			return err
		}
		*s = list
		return nil
	default:
		return fmt.Errorf("expected string or list, got %v", node.Kind)
	}
}

// MarshalYAML implements yaml.Marshaler for StringList.
func (s StringList) MarshalYAML() (any, error) {
	if len(s) == 1 {
		return s[0], nil
	}
	return []string(s), nil
}

// Load loads a gqlgen.yml configuration file. A missing file yields an
// empty configuration.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{Models: make(map[string]TypeMapEntry)}, nil
		}
		return nil, fmt.Errorf("read gqlgen config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse gqlgen config: %w", err)
	}
	if cfg.Models == nil {
		cfg.Models = make(map[string]TypeMapEntry)
	}
	return &cfg, nil
}

// Save saves a gqlgen.yml configuration file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal gqlgen config: %w", err)
	}
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory: %w", err)
		}
	}
	return os.WriteFile(path, data, 0o644)
}

// AddSchemaPath adds a schema path to the configuration if not already present.
func (c *Config) AddSchemaPath(path string) {
	if !slices.Contains(c.SchemaFilename, path) {
		c.SchemaFilename = append(c.SchemaFilename, path)
	}
}

// SetModel binds a GraphQL type to a single Go model.
func (c *Config) SetModel(typeName, modelPath string) {
	entry := c.Models[typeName]
	entry.Model = StringList{modelPath}
	c.Models[typeName] = entry
}

// SetResolver marks a field of a GraphQL type as resolved.
func (c *Config) SetResolver(typeName, field string) {
	entry := c.Models[typeName]
	if entry.Fields == nil {
		entry.Fields = make(map[string]TypeMapField)
	}
	f := entry.Fields[field]
	f.Resolver = true
	entry.Fields[field] = f
	c.Models[typeName] = entry
}

func (c *Config) clearResolver(typeName, field string) {
	entry, ok := c.Models[typeName]
	if !ok {
		return
	}
	f, ok := entry.Fields[field]
	if !ok || !f.Resolver {
		return
	}
	f.Resolver = false
	if f == (TypeMapField{}) {
		delete(entry.Fields, field)
	} else {
		entry.Fields[field] = f
	}
	c.Models[typeName] = entry
}

// Bind updates c for the types generated into the Go package pkg (an
// import path). Types without a server type are left to gqlgen, types
// absent from the GraphQL schema are not bound, and bindings into pkg of types that are no longer generated are removed.
// It returns the names of the bound types, sorted.
func (c *Config) Bind(pkg string, types []*graph.TypeDefinition) []string {
	if c.Models == nil {
		c.Models = make(map[string]TypeMapEntry)
	}
	bound := make(map[string]bool)
	for _, t := range types {
		if !t.HasServerShape() || !t.HasGraphQLShape() {
			continue
		}
		c.SetModel(t.Name, pkg+"."+typemap.TypeName(t.Name))
		bound[t.Name] = true
		if t.Kind == ast.KindEnum {
			continue
		}
		for _, f := range t.GraphQLFields() {
			if !f.ServerField() {
				c.SetResolver(t.Name, f.Name)
			} else {
				c.clearResolver(t.Name, f.Name)
			}
		}
	}
	for name, entry := range c.Models {
		if !bound[name] && bindsInto(entry, pkg) {
			delete(c.Models, name)
		}
	}
	names := make([]string, 0, len(bound))
	for name := range bound {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func bindsInto(entry TypeMapEntry, pkg string) bool {
	if len(entry.Model) == 0 {
		return false
	}
	for _, m := range entry.Model {
		i := strings.LastIndex(m, ".")
		if i < 0 || m[:i] != pkg {
			return false
		}
	}
	return true
}

// Update loads the gqlgen.yml at path, binds types into pkg, adds schema
// to the schema list if set, and saves the file.
func Update(path, pkg, schema string, types []*graph.TypeDefinition) ([]string, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	if schema != "" {
		cfg.AddSchemaPath(schema)
	}
	names := cfg.Bind(pkg, types)
	if err := Save(path, cfg); err != nil {
		return nil, err
	}
	return names, nil
}
