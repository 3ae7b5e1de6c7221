// Package load collects SDL sources from a file tree.
package load

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/syssam/gqlsc/compiler/source"
)

// Dir returns every *.graphql file below root in fsys, sorted by path.
// Source paths are the slash-separated fsys paths. Hidden directories are
// skipped.
func Dir(fsys fs.FS, root string) ([]source.Source, error) {
	var srcs []source.Source
	err := fs.WalkDir(fsys, root, func(name string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if name != root && strings.HasPrefix(d.Name(), ".") {
				return fs.SkipDir
			}
			return nil
		}
		if path.Ext(name) != source.Ext {
			return nil
		}
		b, err := fs.ReadFile(fsys, name)
		if err != nil {
			return err
		}
		srcs = append(srcs, source.Source{Path: name, Contents: string(b)})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	source.Sort(srcs)
	return srcs, nil
}

// Paths loads the given files and directories of the local file system.
// Directories are walked with Dir; files are read regardless of their
// extension. Paths are made relative to the working directory when
// possible so that diagnostics stay short.
func Paths(args ...string) ([]source.Source, error) {
	var (
		srcs []source.Source
		seen = make(map[string]bool)
	)
	add := func(s source.Source) {
		if !seen[s.Path] {
			seen[s.Path] = true
			srcs = append(srcs, s)
		}
	}
	for _, arg := range args {
		p := display(arg)
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("load: %w", err)
		}
		if !info.IsDir() {
			b, err := os.ReadFile(p)
			if err != nil {
				return nil, fmt.Errorf("load: %w", err)
			}
			add(source.Source{Path: filepath.ToSlash(p), Contents: string(b)})
			continue
		}
		root, dir := ".", filepath.ToSlash(p)
		if filepath.IsAbs(p) || dir == ".." || strings.HasPrefix(dir, "../") {
			root, dir = p, "."
		}
		found, err := Dir(os.DirFS(root), dir)
		if err != nil {
			return nil, err
		}
		for _, s := range found {
			if root != "." {
				s.Path = filepath.ToSlash(filepath.Join(root, filepath.FromSlash(s.Path)))
			}
			add(s)
		}
	}
	source.Sort(srcs)
	return srcs, nil
}

// display returns p relative to the working directory if p lies below it.
func display(p string) string {
	p = filepath.Clean(p)
	if !filepath.IsAbs(p) {
		return p
	}
	wd, err := os.Getwd()
	if err != nil {
		return p
	}
	rel, err := filepath.Rel(wd, p)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return p
	}
	return rel
}
