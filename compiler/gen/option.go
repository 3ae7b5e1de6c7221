package gen

import (
	"errors"
	"go/token"
	"runtime"
)

const (
	// DefaultPackage is the name of the generated package.
	DefaultPackage = "graph"
	// DefaultHeader is the comment at the top of every generated Go file.
	DefaultHeader = "Code generated by gqlsc. DO NOT EDIT."
)

// Config holds the settings of a generation run.
type Config struct {
	// Package is the name of the generated Go package.
	Package string
	// Target is the output directory.
	Target string
	// Header is written at the top of each generated Go file.
	Header string
	// Workers bounds the number of files rendered and written in parallel.
	Workers int
}

// NewConfig returns a Config with defaults applied, then opts. Every
// invalid option is reported in the returned error.
func NewConfig(opts ...Option) (*Config, error) {
	c := &Config{
		Package: DefaultPackage,
		Target:  DefaultPackage,
		Header:  DefaultHeader,
		Workers: runtime.GOMAXPROCS(0),
	}
	if err := c.ApplyAll(opts...); err != nil {
		return nil, err
	}
	return c, nil
}

// Option configures code generation.
type Option func(*Config) error

// WithHeader sets the file header comment.
// The header is added at the top of each generated Go file.
func WithHeader(header string) Option {
	return func(c *Config) error {
		c.Header = header
		return nil
	}
}

// WithPackage sets the name of the generated package.
func WithPackage(pkg string) Option {
	return func(c *Config) error {
		if pkg == "" {
			return NewConfigError("Package", nil, "package cannot be empty")
		}
		if !token.IsIdentifier(pkg) {
			return NewConfigError("Package", pkg, "package must be a Go identifier")
		}
		c.Package = pkg
		return nil
	}
}

// WithTarget sets the output directory.
func WithTarget(dir string) Option {
	return func(c *Config) error {
		if dir == "" {
			return NewConfigError("Target", nil, "target directory cannot be empty")
		}
		c.Target = dir
		return nil
	}
}

// WithWorkers sets the number of parallel workers. Zero keeps the default.
func WithWorkers(n int) Option {
	return func(c *Config) error {
		if n < 0 {
			return NewConfigError("Workers", n, "workers cannot be negative")
		}
		if n > 0 {
			c.Workers = n
		}
		return nil
	}
}

// ApplyAll applies options and collects all errors.
// Returns a joined error if any options failed.
func (c *Config) ApplyAll(opts ...Option) error {
	var errs []error
	for _, opt := range opts {
		if err := opt(c); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
