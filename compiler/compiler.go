// Package compiler runs the gqlsc pipeline: parse every SDL file, merge
// the declarations into a type graph, classify its fields and render the
// generated package.
//
// Every stage returns its partial result next to diagnostics, so a single
// run reports as many problems as possible. Output of a type with at least
// one error is suppressed; everything else is still generated.
package compiler

import (
	"context"
	"errors"
	"io/fs"
	"path"
	"sort"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/syssam/gqlsc"
	"github.com/syssam/gqlsc/compiler/ast"
	"github.com/syssam/gqlsc/compiler/diag"
	"github.com/syssam/gqlsc/compiler/gen"
	"github.com/syssam/gqlsc/compiler/graph"
	"github.com/syssam/gqlsc/compiler/parse"
	"github.com/syssam/gqlsc/compiler/source"
)

// parseVersion is bumped whenever the encoding of parse.Result changes.
const parseVersion = "1"

// Result is the outcome of a compilation.
type Result struct {
	// Graph is the merged and classified type graph.
	Graph *graph.TypeGraph
	// Files are the rendered artifacts of every type without errors.
	Files []*gen.File
	// Diagnostics are sorted by position and free of duplicates.
	Diagnostics diag.List
	// Suppressed are the types whose output was not rendered, sorted.
	Suppressed []string
	// Sources indexes the inputs, for rendering source excerpts.
	Sources *source.FileSet

	generator *gen.Generator
}

// Err returns a *gqlsc.CompileError if the compilation reported errors.
func (r *Result) Err() error {
	if !r.Diagnostics.HasErrors() {
		return nil
	}
	return gqlsc.NewCompileError(r.Diagnostics.Errors(), r.Diagnostics.Warnings(), r.Suppressed...)
}

// Write writes the rendered files to the configured target directory.
func (r *Result) Write(ctx context.Context) (*gen.Metrics, error) {
	return r.generator.Write(ctx, r.Files)
}

// Types returns the types whose output was rendered, in graph order.
func (r *Result) Types() []*graph.TypeDefinition {
	return r.generator.Types()
}

// Compile compiles srcs. The returned error is reserved for invalid
// options, cancellation and rendering failures; problems in the schema are
// reported in Result.Diagnostics.
func Compile(ctx context.Context, srcs []source.Source, opts ...Option) (*Result, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	cfg, err := gen.NewConfig(o.gen...)
	if err != nil {
		return nil, err
	}
	c := &compiler{options: o, workers: cfg.Workers}

	srcs = append([]source.Source(nil), srcs...)
	source.Sort(srcs)
	res := &Result{Sources: source.NewFileSet()}
	for _, src := range srcs {
		res.Sources.Add(src)
	}

	start := time.Now()
	parsed, err := c.parse(ctx, srcs)
	if err != nil {
		return nil, err
	}
	var (
		diags  diag.List
		decls  []*ast.Declaration
		broken []string
	)
	for _, r := range parsed {
		diags.Add(r.Diagnostics...)
		decls = append(decls, r.Declarations...)
	}
	for name := range diags.ErrorSubjects() {
		broken = append(broken, name)
	}
	sort.Strings(broken)
	c.log.WithFields(logrus.Fields{
		"files":        len(srcs),
		"declarations": len(decls),
		"elapsed":      time.Since(start),
	}).Debug("parsed sources")

	start = time.Now()
	g, bd := graph.Build(decls, graph.WithBroken(broken...))
	diags.Add(bd...)
	diags.Add(graph.Classify(g)...)
	if o.fsys != nil {
		diags.Add(checkResolverFiles(o.fsys, g)...)
	}
	c.log.WithFields(logrus.Fields{
		"types":   g.Len(),
		"elapsed": time.Since(start),
	}).Debug("built type graph")

	diags.Sort()
	res.Graph, res.Diagnostics = g, diags.Dedup()

	suppressed := res.Diagnostics.ErrorSubjects()
	for name := range suppressed {
		if _, ok := g.Lookup(name); ok {
			res.Suppressed = append(res.Suppressed, name)
		}
	}
	sort.Strings(res.Suppressed)
	for _, name := range res.Suppressed {
		c.log.WithField("type", name).Info("output suppressed")
	}

	start = time.Now()
	res.generator = gen.NewGenerator(cfg, g).WithSuppressed(suppressed)
	if res.Files, err = res.generator.Render(ctx); err != nil {
		return nil, err
	}
	c.log.WithFields(logrus.Fields{
		"files":    len(res.Files),
		"errors":   res.Diagnostics.Errors(),
		"warnings": res.Diagnostics.Warnings(),
		"elapsed":  time.Since(start),
	}).Debug("rendered output")
	return res, nil
}

type compiler struct {
	*options
	workers int
}

// parse parses srcs, reusing cached results where possible. Results keep
// the order of srcs.
func (c *compiler) parse(ctx context.Context, srcs []source.Source) ([]*parse.Result, error) {
	results := make([]*parse.Result, len(srcs))
	var (
		miss []int
		todo []source.Source
	)
	for i, src := range srcs {
		if r, ok := c.cached(ctx, src); ok {
			results[i] = r
			continue
		}
		miss = append(miss, i)
		todo = append(todo, src)
	}
	if len(srcs) > 0 {
		c.log.WithFields(logrus.Fields{"hits": len(srcs) - len(miss), "misses": len(miss)}).Debug("parse cache")
	}
	parsed, err := parse.Files(ctx, todo, c.workers)
	if err != nil {
		return nil, err
	}
	for j, i := range miss {
		results[i] = parsed[j]
		c.store(ctx, srcs[i], parsed[j])
	}
	return results, nil
}

func (c *compiler) cached(ctx context.Context, src source.Source) (*parse.Result, bool) {
	if c.cache == nil {
		return nil, false
	}
	key := gqlsc.NewCacheKey("parse", parseVersion, src.Path, src.Contents)
	b, err := c.cache.Get(ctx, key.String())
	if err != nil {
		c.log.WithError(err).WithField("file", src.Path).Warn("parse cache read failed")
		return nil, false
	}
	if b == nil {
		return nil, false
	}
	var r parse.Result
	if err := msgpack.Unmarshal(b, &r); err != nil {
		c.log.WithError(err).WithField("file", src.Path).Warn("parse cache entry is corrupt")
		return nil, false
	}
	return &r, true
}

func (c *compiler) store(ctx context.Context, src source.Source, r *parse.Result) {
	if c.cache == nil {
		return
	}
	b, err := msgpack.Marshal(r)
	if err == nil {
		key := gqlsc.NewCacheKey("parse", parseVersion, src.Path, src.Contents)
		err = c.cache.Set(ctx, key.String(), b, 0)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		c.log.WithError(err).WithField("file", src.Path).Warn("parse cache write failed")
	}
}

// checkResolverFiles warns about @resolvers files that do not exist.
// Paths are relative to the directory of the SDL file naming them.
func checkResolverFiles(fsys fs.FS, g *graph.TypeGraph) diag.List {
	var diags diag.List
	for _, t := range g.Types() {
		for _, b := range t.Bindings {
			name := path.Join(path.Dir(b.Span.File), b.File)
			if _, err := fs.Stat(fsys, name); err != nil {
				diags.Add(diag.Warningf(diag.AdvMissingResolverFile, b.Span,
					"resolver file %q of %q does not exist", name, t.Name).About(t.Name))
			}
		}
	}
	return diags
}
