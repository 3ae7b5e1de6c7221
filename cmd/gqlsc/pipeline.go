package main

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/syssam/gqlsc/compiler"
	"github.com/syssam/gqlsc/compiler/diagfmt"
	"github.com/syssam/gqlsc/compiler/load"
	"github.com/syssam/gqlsc/contrib/gqlgen"
)

// hostFS is the local file system. Unlike os.DirFS it accepts the
// absolute paths that load.Paths keeps outside the working directory.
type hostFS struct{}

func (hostFS) Open(name string) (fs.File, error) {
	return os.Open(filepath.FromSlash(name))
}

func (hostFS) Stat(name string) (fs.FileInfo, error) {
	return os.Stat(filepath.FromSlash(name))
}

// compile loads args, or the configured schema paths, and compiles them.
func (a *app) compile(ctx context.Context, args []string) (*compiler.Result, error) {
	paths := args
	if len(paths) == 0 {
		paths = a.cfg.SchemaPaths()
	}
	srcs, err := load.Paths(paths...)
	if err != nil {
		return nil, err
	}
	a.log.WithField("files", len(srcs)).Debug("sources loaded")

	opts := []compiler.Option{
		compiler.WithLogger(a.log),
		compiler.WithGenOptions(a.cfg.GenOptions()...),
	}
	if c := a.openCache(); c != nil {
		opts = append(opts, compiler.WithCache(c))
	}
	if a.cfg.Resolvers.Check {
		opts = append(opts, compiler.WithFS(hostFS{}))
	}
	return compiler.Compile(ctx, srcs, opts...)
}

// report renders the diagnostics of res in the given format.
func (a *app) report(w io.Writer, res *compiler.Result, format string) error {
	switch format {
	case "json":
		return diagfmt.JSON(w, res.Diagnostics, diagfmt.JSONOpts{Max: a.maxDiags, Indent: true})
	case "pretty", "":
		if len(res.Diagnostics) == 0 {
			return nil
		}
		opts := diagfmt.PrettyOpts{Color: a.useColor(w), Max: a.maxDiags}
		if err := diagfmt.Pretty(w, res.Diagnostics, res.Sources, opts); err != nil {
			return err
		}
		_, err := fmt.Fprintln(w, diagfmt.Summary(res.Diagnostics))
		return err
	}
	return fmt.Errorf("unknown format %q, want pretty or json", format)
}

// generate compiles, reports and writes the output. Types without errors
// are written even when the compilation failed; the returned error is
// then a *gqlsc.CompileError.
func (a *app) generate(ctx context.Context, w io.Writer, args []string) error {
	res, err := a.compile(ctx, args)
	if err != nil {
		return err
	}
	if err := a.report(w, res, "pretty"); err != nil {
		return err
	}
	metrics, err := res.Write(ctx)
	if err != nil {
		return err
	}
	a.log.WithFields(logrus.Fields{
		"files":      metrics.FilesGenerated,
		"bytes":      metrics.TotalBytes,
		"suppressed": len(res.Suppressed),
	}).Info("generated")

	if a.cfg.GQLGen.Config != "" {
		if err := a.updateGQLGen(res); err != nil {
			return err
		}
	}
	return res.Err()
}

func (a *app) updateGQLGen(res *compiler.Result) error {
	path := a.cfg.Abs(a.cfg.GQLGen.Config)
	schema := filepath.Join(a.cfg.Abs(a.cfg.Output.Dir), "schema.graphql")
	if rel, err := filepath.Rel(filepath.Dir(path), schema); err == nil {
		schema = rel
	}
	names, err := gqlgen.Update(path, a.cfg.GQLGen.Package, filepath.ToSlash(schema), res.Types())
	if err != nil {
		return err
	}
	a.log.WithFields(logrus.Fields{"config": path, "models": len(names)}).Info("gqlgen config updated")
	return nil
}
