package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/gqlsc"
	"github.com/syssam/gqlsc/compiler/gen"
)

func write(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_YAML(t *testing.T) {
	dir := t.TempDir()
	path := write(t, dir, "gqlsc.yml", `schema:
  - schema
  - extra/types.graphql
output:
  dir: internal/graph
  package: api
  workers: 2
resolvers:
  check: true
gqlgen:
  config: gqlgen.yml
  package: github.com/acme/app/internal/graph
log:
  level: debug
  format: json
`)
	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"schema", "extra/types.graphql"}, c.Schema)
	assert.Equal(t, "api", c.Output.Package)
	assert.Equal(t, 2, c.Output.Workers)
	assert.True(t, c.Resolvers.Check)
	assert.Equal(t, "debug", c.Log.Level)
	assert.Equal(t, dir, c.Root)
	assert.Equal(t, []string{filepath.Join(dir, "schema"), filepath.Join(dir, "extra", "types.graphql")}, c.SchemaPaths())
	assert.Equal(t, filepath.Join(dir, "gqlgen.yml"), c.Abs(c.GQLGen.Config))

	cfg, err := gen.NewConfig(c.GenOptions()...)
	require.NoError(t, err)
	assert.Equal(t, "api", cfg.Package)
	assert.Equal(t, filepath.Join(dir, "internal", "graph"), cfg.Target)
	assert.Equal(t, 2, cfg.Workers)
	assert.Equal(t, gen.DefaultHeader, cfg.Header)
}

func TestLoad_TOML(t *testing.T) {
	dir := t.TempDir()
	path := write(t, dir, "gqlsc.toml", `schema = ["sdl"]

[output]
dir = "gen"
package = "gen"
header = "Generated. DO NOT EDIT."

[cache]
disabled = true
`)
	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"sdl"}, c.Schema)
	assert.Equal(t, "gen", c.Output.Dir)
	assert.True(t, c.Cache.Disabled)
	assert.Equal(t, "info", c.Log.Level)

	cfg, err := gen.NewConfig(c.GenOptions()...)
	require.NoError(t, err)
	assert.Equal(t, "Generated. DO NOT EDIT.", cfg.Header)
}

func TestLoad_Empty(t *testing.T) {
	c, err := Load(write(t, t.TempDir(), "gqlsc.yml", ""))
	require.NoError(t, err)
	assert.Equal(t, Default().Schema, c.Schema)
	assert.Equal(t, gen.DefaultPackage, c.Output.Package)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		key     string
	}{
		{name: "package", file: "gqlsc.yml", content: "output:\n  package: my-pkg\n", key: "output.package"},
		{name: "schema", file: "gqlsc.yml", content: "schema: []\n", key: "schema"},
		{name: "level", file: "gqlsc.yml", content: "log:\n  level: loud\n", key: "log.level"},
		{name: "format", file: "gqlsc.yml", content: "log:\n  format: xml\n", key: "log.format"},
		{name: "workers", file: "gqlsc.yml", content: "output:\n  workers: -1\n", key: "output.workers"},
		{name: "gqlgen", file: "gqlsc.yml", content: "gqlgen:\n  config: gqlgen.yml\n", key: "gqlgen.package"},
		{name: "unknown yaml key", file: "gqlsc.yml", content: "outptu:\n  dir: x\n"},
		{name: "unknown toml key", file: "gqlsc.toml", content: "[output]\npkg = \"x\"\n", key: "output.pkg"},
		{name: "syntax", file: "gqlsc.toml", content: "schema = [\n"},
		{name: "extension", file: "gqlsc.json", content: "{}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := write(t, t.TempDir(), tt.file, tt.content)
			_, err := Load(path)
			require.Error(t, err)
			assert.True(t, gqlsc.IsConfigError(err))
			assert.ErrorIs(t, err, gqlsc.ErrInvalidConfig)
			var ce *gqlsc.ConfigError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, path, ce.Path)
			if tt.key != "" {
				assert.Equal(t, tt.key, ce.Key)
			}
		})
	}
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "gqlsc.yml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.True(t, gqlsc.IsConfigError(err))
}

func TestFind(t *testing.T) {
	dir := t.TempDir()
	path := write(t, dir, "gqlsc.toml", "schema = [\"schema\"]\n")
	nested := filepath.Join(dir, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	got, ok, err := Find(nested)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, path, got)

	c, err := Discover(nested)
	require.NoError(t, err)
	assert.Equal(t, path, c.Path)
}

func TestFind_Precedence(t *testing.T) {
	dir := t.TempDir()
	yml := write(t, dir, "gqlsc.yml", "")
	write(t, dir, "gqlsc.toml", "")

	got, ok, err := Find(dir)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, yml, got)
}

func TestLogger(t *testing.T) {
	c := Default()
	c.Log = Log{Level: "warn", Format: "json"}
	var buf bytes.Buffer
	l := c.Logger(&buf)
	assert.Equal(t, logrus.WarnLevel, l.GetLevel())

	l.Info("hidden")
	l.WithField("file", "a.graphql").Warn("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)
	assert.Contains(t, buf.String(), `"file":"a.graphql"`)
}

func TestDefault(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())
	assert.Equal(t, "", c.Path)
	assert.Equal(t, filepath.Join("schema"), c.SchemaPaths()[0])
	assert.Equal(t, "/abs/dir", c.Abs("/abs/dir"))
}
