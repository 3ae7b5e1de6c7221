package source

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFile_Pos(t *testing.T) {
	f := NewFile("a.graphql", "type A {\n  name: String\n}\n")

	p := f.Pos(0)
	assert.Equal(t, Pos{Offset: 0, Line: 1, Column: 1}, p)

	p = f.Pos(11)
	assert.Equal(t, 2, p.Line)
	assert.Equal(t, 3, p.Column)

	assert.Equal(t, "  name: String", f.Line(2))
	assert.Equal(t, "", f.Line(42))
}

func TestFile_PosMultibyte(t *testing.T) {
	f := NewFile("u.graphql", "\"héllo\"\nenum E { A }")
	p := f.Pos(8)
	assert.Equal(t, 2, p.Line)
	assert.Equal(t, 1, p.Column)
}

func TestFile_PosAt(t *testing.T) {
	f := NewFile("a.graphql", "a\nbc\nd")
	p := f.PosAt(2, 2)
	assert.Equal(t, Pos{Offset: 3, Line: 2, Column: 2}, p)
	assert.Equal(t, p, f.Pos(p.Offset))
}

func TestSpan(t *testing.T) {
	f := NewFile("a.graphql", "type A { b: B }")
	s := f.Span(5, 6)
	require.True(t, s.IsValid())
	assert.Equal(t, "a.graphql:1:6", s.String())

	wide := s.Cover(f.Span(0, 15))
	assert.Equal(t, 1, wide.Start.Column)
	assert.Equal(t, 16, wide.End.Column)

	assert.Equal(t, -1, f.Span(0, 1).Compare(s))
	assert.Equal(t, 1, s.Compare(f.Span(0, 1)))
	assert.Equal(t, 0, s.Compare(s))
	assert.False(t, Span{}.IsValid())
}

func TestSort(t *testing.T) {
	srcs := []Source{{Path: "b/x.graphql"}, {Path: "a.graphql"}, {Path: "b/a.graphql"}}
	Sort(srcs)
	assert.Equal(t, []string{"a.graphql", "b/a.graphql", "b/x.graphql"},
		[]string{srcs[0].Path, srcs[1].Path, srcs[2].Path})
}
