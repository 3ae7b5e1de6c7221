package gen

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/tools/imports"
)

// Metrics tracks generation output.
type Metrics struct {
	FilesGenerated int
	TotalBytes     int64
}

// Render renders every file in parallel. Files are returned in a stable
// order so that identical graphs render identical output.
func (g *Generator) Render(ctx context.Context) ([]*File, error) {
	tasks := g.tasks()
	files := make([]*File, len(tasks))

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(g.workers())
	for i, tk := range tasks {
		eg.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			f, err := g.render(tk)
			if err != nil {
				return err
			}
			files[i] = f
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return files, nil
}

// render renders a single file. Go files are passed through goimports.
func (g *Generator) render(tk task) (f *File, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = NewGenerationError("render", tk.name, fmt.Sprint(r), nil)
		}
	}()
	f = &File{Name: tk.name}
	if tk.typ != nil {
		f.Type, f.Span = tk.typ.Name, tk.typ.Span
	}
	if tk.raw != nil {
		f.Content = tk.raw()
		return f, nil
	}
	var buf bytes.Buffer
	if err := tk.gen().Render(&buf); err != nil {
		return nil, NewGenerationError("render", tk.name, "", err)
	}
	formatted, err := imports.Process(filepath.Join(g.config.Target, tk.name), buf.Bytes(), nil)
	if err != nil {
		return nil, NewGenerationError("format", tk.name, "", err)
	}
	f.Content = formatted
	return f, nil
}

// Write writes files under the target directory in parallel and removes
// stale files a previous run generated there.
func (g *Generator) Write(ctx context.Context, files []*File) (*Metrics, error) {
	if err := os.MkdirAll(g.config.Target, 0o755); err != nil {
		return nil, NewGenerationError("write", g.config.Target, "create target directory", err)
	}
	if err := g.clean(files); err != nil {
		return nil, err
	}
	var (
		mu      sync.Mutex
		metrics = &Metrics{}
	)
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(g.workers())
	for _, f := range files {
		eg.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			path := filepath.Join(g.config.Target, f.Name)
			if err := os.WriteFile(path, f.Content, 0o644); err != nil {
				return NewGenerationError("write", f.Name, "", err)
			}
			mu.Lock()
			metrics.FilesGenerated++
			metrics.TotalBytes += int64(len(f.Content))
			mu.Unlock()
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return metrics, nil
}

// clean removes generated Go files in the target directory that are not
// part of files. Only files starting with the configured header are
// considered generated.
func (g *Generator) clean(files []*File) error {
	if g.config.Header == "" {
		return nil
	}
	keep := make(map[string]bool, len(files))
	for _, f := range files {
		keep[f.Name] = true
	}
	entries, err := os.ReadDir(g.config.Target)
	if err != nil {
		return NewGenerationError("write", g.config.Target, "read target directory", err)
	}
	header := "// " + g.config.Header
	for _, e := range entries {
		if e.IsDir() || keep[e.Name()] || !strings.HasSuffix(e.Name(), ".go") {
			continue
		}
		path := filepath.Join(g.config.Target, e.Name())
		b, err := os.ReadFile(path)
		if err != nil {
			return NewGenerationError("write", e.Name(), "", err)
		}
		if !bytes.HasPrefix(b, []byte(header)) {
			continue
		}
		if err := os.Remove(path); err != nil {
			return NewGenerationError("write", e.Name(), "remove stale file", err)
		}
	}
	return nil
}

// Generate renders and writes every file.
func (g *Generator) Generate(ctx context.Context) (*Metrics, error) {
	files, err := g.Render(ctx)
	if err != nil {
		return nil, err
	}
	return g.Write(ctx, files)
}

func (g *Generator) workers() int {
	if g.config.Workers > 0 {
		return g.config.Workers
	}
	return 1
}
