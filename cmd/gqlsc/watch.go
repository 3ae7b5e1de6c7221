package main

import (
	"context"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/syssam/gqlsc"
)

func newWatchCmd(a *app) *cobra.Command {
	var debounce time.Duration
	cmd := &cobra.Command{
		Use:   "watch [paths...]",
		Short: "Regenerate the package whenever a schema file changes",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.watch(cmd.Context(), cmd.ErrOrStderr(), args, debounce)
		},
	}
	cmd.Flags().DurationVar(&debounce, "debounce", 200*time.Millisecond, "delay before regenerating after a change")
	return cmd
}

// watch runs generate once, then again after every burst of changes to
// .graphql files below the watched paths. It returns when ctx is done.
func (a *app) watch(ctx context.Context, w io.Writer, args []string, debounce time.Duration) error {
	paths := args
	if len(paths) == 0 {
		paths = a.cfg.SchemaPaths()
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()
	for _, p := range paths {
		if err := addWatch(watcher, p); err != nil {
			return err
		}
	}
	a.log.WithField("dirs", len(watcher.WatchList())).Info("watching for changes")

	a.regenerate(ctx, w, args)
	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if ev.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					if err := addWatch(watcher, ev.Name); err != nil {
						a.log.WithError(err).WithField("dir", ev.Name).Warn("cannot watch directory")
					}
					continue
				}
			}
			if filepath.Ext(ev.Name) != ".graphql" || a.isOutput(ev.Name) || ev.Has(fsnotify.Chmod) && !ev.Has(fsnotify.Write) {
				continue
			}
			a.log.WithField("event", ev.String()).Debug("schema changed")
			timer.Reset(debounce)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			a.log.WithError(err).Warn("watch error")
		case <-timer.C:
			a.regenerate(ctx, w, args)
		}
	}
}

// isOutput reports whether name lies in the output directory, whose
// schema.graphql is written by generate itself.
func (a *app) isOutput(name string) bool {
	out, err := filepath.Abs(a.cfg.Abs(a.cfg.Output.Dir))
	if err != nil {
		return false
	}
	abs, err := filepath.Abs(name)
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(out, abs)
	return err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// regenerate runs generate and logs its failure; watching goes on.
func (a *app) regenerate(ctx context.Context, w io.Writer, args []string) {
	err := a.generate(ctx, w, args)
	switch {
	case err == nil:
	case gqlsc.IsCompileError(err):
		a.log.Warn(err.Error())
	case ctx.Err() != nil:
	default:
		a.log.WithError(err).Error("generation failed")
	}
}

// addWatch watches p if it is a directory, with all its non-hidden
// subdirectories, or the directory containing p otherwise.
func addWatch(w *fsnotify.Watcher, p string) error {
	info, err := os.Stat(p)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return w.Add(filepath.Dir(p))
	}
	return filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != p && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		return w.Add(path)
	})
}
