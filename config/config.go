// Package config loads gqlsc project files.
//
// A project is configured by gqlsc.yml, gqlsc.yaml or gqlsc.toml in the
// working directory or one of its parents:
//
//	schema:
//	  - schema
//	output:
//	  dir: graph
//	  package: graph
//	resolvers:
//	  check: true
//	cache:
//	  dir: .gqlsc-cache
//	gqlgen:
//	  config: gqlgen.yml
//	  package: github.com/acme/app/graph
//	log:
//	  level: info
//
// Relative paths are resolved against the directory of the project file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"go/token"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/syssam/gqlsc"
	"github.com/syssam/gqlsc/compiler/gen"
)

// FileNames are the project file names, in lookup order.
var FileNames = []string{"gqlsc.yml", "gqlsc.yaml", "gqlsc.toml"}

// Config is a gqlsc project configuration.
type Config struct {
	// Schema lists the directories or files holding the SDL sources.
	Schema    []string  `yaml:"schema" toml:"schema"`
	Output    Output    `yaml:"output" toml:"output"`
	Resolvers Resolvers `yaml:"resolvers" toml:"resolvers"`
	Cache     Cache     `yaml:"cache" toml:"cache"`
	GQLGen    GQLGen    `yaml:"gqlgen" toml:"gqlgen"`
	Log       Log       `yaml:"log" toml:"log"`

	// Path is the project file, empty for the default configuration.
	Path string `yaml:"-" toml:"-"`
	// Root is the directory relative paths are resolved against.
	Root string `yaml:"-" toml:"-"`
}

// Output configures the generated package.
type Output struct {
	Dir     string `yaml:"dir" toml:"dir"`
	Package string `yaml:"package" toml:"package"`
	Header  string `yaml:"header,omitempty" toml:"header"`
	Workers int    `yaml:"workers,omitempty" toml:"workers"`
}

// Resolvers configures the check of @resolvers files.
type Resolvers struct {
	Check bool `yaml:"check" toml:"check"`
}

// Cache configures the parse cache. An empty Dir uses the user cache
// directory.
type Cache struct {
	Dir      string `yaml:"dir,omitempty" toml:"dir"`
	Disabled bool   `yaml:"disabled,omitempty" toml:"disabled"`
}

// GQLGen configures the update of a gqlgen.yml after generation.
type GQLGen struct {
	// Config is the gqlgen.yml to update, empty to skip.
	Config string `yaml:"config,omitempty" toml:"config"`
	// Package is the import path of the generated package.
	Package string `yaml:"package,omitempty" toml:"package"`
}

// Log configures logging.
type Log struct {
	Level  string `yaml:"level" toml:"level"`
	Format string `yaml:"format,omitempty" toml:"format"`
}

// Default returns the configuration used without a project file.
func Default() *Config {
	return &Config{
		Schema: []string{"schema"},
		Output: Output{
			Dir:     gen.DefaultPackage,
			Package: gen.DefaultPackage,
		},
		Log:  Log{Level: "info", Format: "text"},
		Root: ".",
	}
}

// Find looks for a project file in dir and its parents. It returns false
// if there is none.
func Find(dir string) (string, bool, error) {
	if dir == "" {
		dir = "."
	}
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", false, fmt.Errorf("config: resolve %q: %w", dir, err)
	}
	for {
		for _, name := range FileNames {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, true, nil
			} else if !errors.Is(err, os.ErrNotExist) {
				return "", false, fmt.Errorf("config: stat %q: %w", candidate, err)
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false, nil
		}
		dir = parent
	}
}

// Discover loads the project file found from dir, or the default
// configuration if there is none.
func Discover(dir string) (*Config, error) {
	path, ok, err := Find(dir)
	if err != nil {
		return nil, err
	}
	if !ok {
		c := Default()
		return c, c.Validate()
	}
	return Load(path)
}

// Load reads and validates the project file at path. The format is chosen
// by extension.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, gqlsc.NewConfigError(path, "", "cannot read file", err)
	}
	c := Default()
	c.Path, c.Root = path, filepath.Dir(path)
	switch ext := filepath.Ext(path); ext {
	case ".yml", ".yaml":
		err = c.decodeYAML(data)
	case ".toml":
		err = c.decodeTOML(data)
	default:
		return nil, gqlsc.NewConfigError(path, "", fmt.Sprintf("unsupported format %q", ext), nil)
	}
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) decodeYAML(data []byte) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return gqlsc.NewConfigError(c.Path, "", "invalid YAML", err)
	}
	return nil
}

func (c *Config) decodeTOML(data []byte) error {
	meta, err := toml.Decode(string(data), c)
	if err != nil {
		return gqlsc.NewConfigError(c.Path, "", "invalid TOML", err)
	}
	if keys := meta.Undecoded(); len(keys) > 0 {
		return gqlsc.NewConfigError(c.Path, keys[0].String(), "unknown key", nil)
	}
	return nil
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if len(c.Schema) == 0 {
		return c.errorf("schema", "at least one schema path is required")
	}
	for _, s := range c.Schema {
		if strings.TrimSpace(s) == "" {
			return c.errorf("schema", "schema paths cannot be empty")
		}
	}
	if c.Output.Dir == "" {
		return c.errorf("output.dir", "cannot be empty")
	}
	if !token.IsIdentifier(c.Output.Package) {
		return c.errorf("output.package", "must be a Go identifier")
	}
	if c.Output.Workers < 0 {
		return c.errorf("output.workers", "cannot be negative")
	}
	if c.GQLGen.Config != "" && c.GQLGen.Package == "" {
		return c.errorf("gqlgen.package", "is required when gqlgen.config is set")
	}
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return gqlsc.NewConfigError(c.Path, "log.level", "", err)
	}
	switch c.Log.Format {
	case "", "text", "json":
	default:
		return c.errorf("log.format", "must be text or json")
	}
	return nil
}

func (c *Config) errorf(key, msg string) error {
	return gqlsc.NewConfigError(c.Path, key, msg, nil)
}

// Abs resolves p against the project root.
func (c *Config) Abs(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.Root, filepath.FromSlash(p))
}

// SchemaPaths returns the schema paths resolved against the root.
func (c *Config) SchemaPaths() []string {
	out := make([]string, len(c.Schema))
	for i, s := range c.Schema {
		out[i] = c.Abs(s)
	}
	return out
}

// GenOptions returns the generator options of the output section.
func (c *Config) GenOptions() []gen.Option {
	opts := []gen.Option{
		gen.WithTarget(c.Abs(c.Output.Dir)),
		gen.WithPackage(c.Output.Package),
	}
	if c.Output.Header != "" {
		opts = append(opts, gen.WithHeader(c.Output.Header))
	}
	if c.Output.Workers > 0 {
		opts = append(opts, gen.WithWorkers(c.Output.Workers))
	}
	return opts
}

// Logger returns a logger configured by the log section.
func (c *Config) Logger(w io.Writer) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(w)
	if c.Log.Format == "json" {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	}
	if lvl, err := logrus.ParseLevel(c.Log.Level); err == nil {
		l.SetLevel(lvl)
	}
	return l
}
