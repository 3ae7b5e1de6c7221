package source

import "fmt"

// Pos is a location in a source file. Line and Column are 1-based and
// count runes, matching what editors display.
type Pos struct {
	Offset int `msgpack:"o" json:"offset"`
	Line   int `msgpack:"l" json:"line"`
	Column int `msgpack:"c" json:"column"`
}

// Before reports whether p comes before q.
func (p Pos) Before(q Pos) bool {
	if p.Line != q.Line {
		return p.Line < q.Line
	}
	return p.Column < q.Column
}

// Span is a half-open range of a source file.
type Span struct {
	File  string `msgpack:"f" json:"file"`
	Start Pos    `msgpack:"s" json:"start"`
	End   Pos    `msgpack:"e" json:"end"`
}

// IsValid reports whether the span points into a file.
func (s Span) IsValid() bool {
	return s.File != "" && s.Start.Line > 0
}

// String formats the span start as file:line:column.
func (s Span) String() string {
	return fmt.Sprintf("%s:%d:%d", s.File, s.Start.Line, s.Start.Column)
}

// Cover returns the smallest span containing both s and other.
// Spans of different files are not merged.
func (s Span) Cover(other Span) Span {
	if s.File != other.File {
		return s
	}
	if other.Start.Before(s.Start) {
		s.Start = other.Start
	}
	if s.End.Before(other.End) {
		s.End = other.End
	}
	return s
}

// Compare orders spans by file, then start position, then end position.
func (s Span) Compare(other Span) int {
	switch {
	case s.File < other.File:
		return -1
	case s.File > other.File:
		return 1
	case s.Start.Before(other.Start):
		return -1
	case other.Start.Before(s.Start):
		return 1
	case s.End.Before(other.End):
		return -1
	case other.End.Before(s.End):
		return 1
	}
	return 0
}
