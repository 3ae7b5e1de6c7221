package main

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/syssam/gqlsc"
	"github.com/syssam/gqlsc/compiler/cache"
	"github.com/syssam/gqlsc/config"
)

// app holds the state shared by the subcommands.
type app struct {
	configPath string
	color      string
	logLevel   string
	maxDiags   int

	cfg   *config.Config
	log   *logrus.Logger
	cache gqlsc.Cache
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "gqlsc",
		Short: "GraphQL SDL schema compiler",
		Long: `gqlsc compiles GraphQL SDL annotated with @generate, @resolvers and @resolve
into a Go package: server types, graphql-go type definitions, resolver
interfaces and the GraphQL projection of the schema.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}
	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "project file (default: search gqlsc.yml, gqlsc.yaml, gqlsc.toml upwards)")
	root.PersistentFlags().StringVar(&a.color, "color", "auto", "colorize output (auto|on|off)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level, overrides the project file")
	root.PersistentFlags().IntVar(&a.maxDiags, "max-diagnostics", 100, "maximum number of diagnostics to show (0 for all)")

	root.AddCommand(
		newGenerateCmd(a),
		newCheckCmd(a),
		newWatchCmd(a),
		newCacheCmd(a),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	switch a.color {
	case "auto", "on", "off":
	default:
		return fmt.Errorf("invalid --color %q, want auto, on or off", a.color)
	}
	var err error
	if a.configPath != "" {
		a.cfg, err = config.Load(a.configPath)
	} else {
		a.cfg, err = config.Discover(".")
	}
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		a.cfg.Log.Level = a.logLevel
		if err := a.cfg.Validate(); err != nil {
			return err
		}
	}
	a.log = a.cfg.Logger(cmd.ErrOrStderr())
	a.log.WithField("config", a.cfg.Path).Debug("configuration loaded")
	return nil
}

// openCache opens the parse cache once. A cache that cannot be opened is
// logged and skipped.
func (a *app) openCache() gqlsc.Cache {
	if a.cache != nil || a.cfg.Cache.Disabled {
		return a.cache
	}
	var (
		c   *cache.DiskCache
		err error
	)
	if a.cfg.Cache.Dir != "" {
		c, err = cache.Open(a.cfg.Abs(a.cfg.Cache.Dir))
	} else {
		c, err = cache.OpenDefault("gqlsc")
	}
	if err != nil {
		a.log.WithError(err).Warn("parse cache disabled")
		return nil
	}
	a.log.WithField("dir", c.Dir()).Debug("parse cache opened")
	a.cache = c
	return c
}

// useColor reports whether output to w is colorized.
func (a *app) useColor(w io.Writer) bool {
	switch a.color {
	case "on":
		return true
	case "off":
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	return ok && isTerminal(f)
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
