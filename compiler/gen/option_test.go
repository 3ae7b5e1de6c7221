package gen

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		c, err := NewConfig()
		require.NoError(t, err)
		assert.Equal(t, DefaultPackage, c.Package)
		assert.Equal(t, "graph", c.Target)
		assert.Equal(t, DefaultHeader, c.Header)
		assert.Equal(t, runtime.GOMAXPROCS(0), c.Workers)
	})

	t.Run("reports every invalid option", func(t *testing.T) {
		_, err := NewConfig(WithPackage(""), WithTarget(""), WithWorkers(3))
		require.Error(t, err)
		assert.True(t, IsConfigError(err))
		assert.Contains(t, err.Error(), "Package")
		assert.Contains(t, err.Error(), "Target")
		assert.NotContains(t, err.Error(), "Workers")
	})
}

func TestWithHeader(t *testing.T) {
	t.Run("sets header", func(t *testing.T) {
		c := &Config{}
		err := WithHeader("Custom header")(c)

		require.NoError(t, err)
		assert.Equal(t, "Custom header", c.Header)
	})

	t.Run("empty header is allowed", func(t *testing.T) {
		c := &Config{Header: "existing"}
		err := WithHeader("")(c)

		require.NoError(t, err)
		assert.Equal(t, "", c.Header)
	})
}

func TestWithPackage(t *testing.T) {
	tests := []struct {
		name    string
		pkg     string
		wantErr bool
	}{
		{"simple", "graph", false},
		{"underscore", "graph_gen", false},
		{"empty", "", true},
		{"path", "internal/graph", true},
		{"dash", "my-graph", true},
		{"leading digit", "1graph", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Config{}
			err := WithPackage(tt.pkg)(c)

			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, IsConfigError(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.pkg, c.Package)
		})
	}
}

func TestWithTarget(t *testing.T) {
	t.Run("sets target", func(t *testing.T) {
		c := &Config{}
		require.NoError(t, WithTarget("/tmp/out")(c))
		assert.Equal(t, "/tmp/out", c.Target)
	})

	t.Run("empty target returns error", func(t *testing.T) {
		c := &Config{}
		err := WithTarget("")(c)

		require.Error(t, err)
		assert.True(t, IsConfigError(err))
	})
}

func TestWithWorkers(t *testing.T) {
	tests := []struct {
		name     string
		workers  int
		expected int
		wantErr  bool
	}{
		{"positive", 4, 4, false},
		{"zero keeps default", 0, 8, false},
		{"negative", -1, 8, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Config{Workers: 8}
			err := WithWorkers(tt.workers)(c)

			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, IsConfigError(err))
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.expected, c.Workers)
		})
	}
}

func TestConfig_ApplyAll(t *testing.T) {
	t.Run("applies in order", func(t *testing.T) {
		c := &Config{}
		require.NoError(t, c.ApplyAll(WithPackage("a"), WithPackage("b")))
		assert.Equal(t, "b", c.Package)
	})

	t.Run("collects all errors", func(t *testing.T) {
		c := &Config{}
		err := c.ApplyAll(WithTarget(""), WithPackage("ok"), WithWorkers(-2))

		require.Error(t, err)
		assert.Contains(t, err.Error(), "Target")
		assert.Contains(t, err.Error(), "Workers")
		assert.Equal(t, "ok", c.Package)
	})

	t.Run("no errors", func(t *testing.T) {
		c := &Config{}
		require.NoError(t, c.ApplyAll(WithPackage("ok")))
	})
}
