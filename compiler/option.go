package compiler

import (
	"io"
	"io/fs"

	"github.com/sirupsen/logrus"

	"github.com/syssam/gqlsc"
	"github.com/syssam/gqlsc/compiler/gen"
)

// Option configures a compilation.
type Option func(*options)

type options struct {
	log   logrus.FieldLogger
	fsys  fs.FS
	cache gqlsc.Cache
	gen   []gen.Option
}

func defaultOptions() *options {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return &options{log: l}
}

// WithLogger sets the logger. Stage timings are logged at debug level.
func WithLogger(l logrus.FieldLogger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

// WithFS enables checking that @resolvers files exist. SDL paths are
// resolved against fsys.
func WithFS(fsys fs.FS) Option {
	return func(o *options) {
		o.fsys = fsys
	}
}

// WithCache reuses parse results stored in c.
func WithCache(c gqlsc.Cache) Option {
	return func(o *options) {
		o.cache = c
	}
}

// WithGenOptions passes options to the code generator.
func WithGenOptions(opts ...gen.Option) Option {
	return func(o *options) {
		o.gen = append(o.gen, opts...)
	}
}
