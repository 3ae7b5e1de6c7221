// Package source holds SDL inputs and the positions that every later
// compiler stage carries back to the user.
package source

import (
	"sort"
	"strings"
	"unicode/utf8"
)

// Ext is the file extension of SDL inputs.
const Ext = ".graphql"

// Source is one SDL input as handed over by the loader.
type Source struct {
	// Path identifies the file in diagnostics. It must be stable across runs.
	Path string
	// Contents is the raw SDL text.
	Contents string
}

// Sort orders sources lexicographically by path, which fixes the merge
// order for reproducible output.
func Sort(srcs []Source) {
	sort.SliceStable(srcs, func(i, j int) bool { return srcs[i].Path < srcs[j].Path })
}

// File indexes the lines of a source so rune offsets can be turned into
// line/column pairs and back.
type File struct {
	Path string
	Text string
	// lineStarts holds the rune offset of the first rune of every line.
	lineStarts []int
	lines      []string
}

// NewFile builds the line index for the given text.
func NewFile(path, text string) *File {
	f := &File{Path: path, Text: text}
	f.lines = strings.Split(text, "\n")
	f.lineStarts = make([]int, len(f.lines))
	offset := 0
	for i, l := range f.lines {
		f.lineStarts[i] = offset
		offset += utf8.RuneCountInString(l) + 1
	}
	return f
}

// Pos converts a rune offset into a position.
func (f *File) Pos(offset int) Pos {
	if offset < 0 {
		offset = 0
	}
	i := sort.Search(len(f.lineStarts), func(i int) bool { return f.lineStarts[i] > offset }) - 1
	if i < 0 {
		i = 0
	}
	return Pos{Offset: offset, Line: i + 1, Column: offset - f.lineStarts[i] + 1}
}

// PosAt converts a 1-based line and column into a position.
func (f *File) PosAt(line, col int) Pos {
	if line < 1 {
		line = 1
	}
	if line > len(f.lineStarts) {
		line = len(f.lineStarts)
	}
	if col < 1 {
		col = 1
	}
	return Pos{Offset: f.lineStarts[line-1] + col - 1, Line: line, Column: col}
}

// Span returns the span between two rune offsets.
func (f *File) Span(start, end int) Span {
	if end < start {
		end = start
	}
	return Span{File: f.Path, Start: f.Pos(start), End: f.Pos(end)}
}

// Line returns the text of the 1-based line n without its terminator.
func (f *File) Line(n int) string {
	if n < 1 || n > len(f.lines) {
		return ""
	}
	return strings.TrimSuffix(f.lines[n-1], "\r")
}

// NumLines returns the number of lines in the file.
func (f *File) NumLines() int { return len(f.lines) }

// FileSet maps paths to indexed files. Renderers use it to print excerpts.
type FileSet struct {
	files map[string]*File
}

// NewFileSet returns an empty set.
func NewFileSet() *FileSet {
	return &FileSet{files: make(map[string]*File)}
}

// Add indexes src and stores it, replacing any previous file with the same path.
func (s *FileSet) Add(src Source) *File {
	f := NewFile(src.Path, src.Contents)
	s.files[src.Path] = f
	return f
}

// File returns the file registered for path.
func (s *FileSet) File(path string) (*File, bool) {
	if s == nil {
		return nil, false
	}
	f, ok := s.files[path]
	return f, ok
}
