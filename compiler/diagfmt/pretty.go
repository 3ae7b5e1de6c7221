package diagfmt

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"

	"github.com/syssam/gqlsc/compiler/diag"
	"github.com/syssam/gqlsc/compiler/source"
)

// styles holds the color formatters of pretty output.
type styles struct {
	path    *color.Color
	err     *color.Color
	warning *color.Color
	note    *color.Color
	gutter  *color.Color
	caret   *color.Color
}

func newStyles(enabled bool) *styles {
	s := &styles{
		path:    color.New(color.Bold),
		err:     color.New(color.Bold, color.FgRed),
		warning: color.New(color.Bold, color.FgYellow),
		note:    color.New(color.Bold, color.FgCyan),
		gutter:  color.New(color.FgBlue),
		caret:   color.New(color.Bold, color.FgGreen),
	}
	for _, c := range []*color.Color{s.path, s.err, s.warning, s.note, s.gutter, s.caret} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return s
}

func (s *styles) severity(sev diag.Severity) *color.Color {
	if sev == diag.SevError {
		return s.err
	}
	return s.warning
}

// Pretty writes diagnostics in a human readable form. For every
// diagnostic it prints
//
//	<path>:<line>:<col>: <severity> <code>: <message>
//
// followed by the source line with the span underlined, then each related
// location in the same format as a note. The list is expected to be
// sorted.
func Pretty(w io.Writer, l diag.List, files *source.FileSet, opts PrettyOpts) error {
	s := newStyles(opts.Color)
	p := &printer{w: w, files: files, s: s, excerpt: !opts.NoExcerpt}
	shown := l
	if opts.Max > 0 && len(shown) > opts.Max {
		shown = shown[:opts.Max]
	}
	for _, d := range shown {
		p.header(d.Primary(), s.severity(d.Severity()), fmt.Sprintf("%s %s", d.Severity(), d.Code()), d.Message())
		p.snippet(d.Primary())
		for _, r := range d.Related() {
			p.header(r.Span, s.note, "note", r.Message)
			p.snippet(r.Span)
		}
	}
	if n := len(l) - len(shown); n > 0 {
		p.printf("... and %d more diagnostics\n", n)
	}
	return p.err
}

// Summary returns a one-line count of errors and warnings, such as
// "2 errors, 1 warning".
func Summary(l diag.List) string {
	return count(l.Errors(), "error") + ", " + count(l.Warnings(), "warning")
}

func count(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return fmt.Sprintf("%d %ss", n, word)
}

type printer struct {
	w       io.Writer
	files   *source.FileSet
	s       *styles
	excerpt bool
	err     error
}

func (p *printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

func (p *printer) header(sp source.Span, c *color.Color, label, msg string) {
	p.printf("%s: %s: %s\n", p.s.path.Sprint(sp.String()), c.Sprint(label), msg)
}

// snippet prints the first line of sp with a caret underline:
//
//	3 |   name: String
//	  |   ^~~~~~~~~~~~
func (p *printer) snippet(sp source.Span) {
	if !p.excerpt {
		return
	}
	f, ok := p.files.File(sp.File)
	if !ok || sp.Start.Line < 1 || sp.Start.Line > f.NumLines() {
		return
	}
	line := f.Line(sp.Start.Line)
	width := utf8.RuneCountInString(line)

	start := sp.Start.Column - 1
	if start > width {
		start = width
	}
	end := width
	if sp.End.Line == sp.Start.Line && sp.End.Column-1 < end {
		end = sp.End.Column - 1
	}
	n := end - start
	if n < 1 {
		n = 1
	}

	// Keep tabs so the underline lines up with the excerpt.
	var pad strings.Builder
	for i, r := range []rune(line) {
		if i >= start {
			break
		}
		if r == '\t' {
			pad.WriteRune('\t')
		} else {
			pad.WriteRune(' ')
		}
	}

	num := fmt.Sprintf("%d", sp.Start.Line)
	gutter := strings.Repeat(" ", len(num))
	p.printf(" %s %s %s\n", p.s.gutter.Sprint(num), p.s.gutter.Sprint("|"), line)
	p.printf(" %s %s %s%s\n", gutter, p.s.gutter.Sprint("|"), pad.String(), p.s.caret.Sprint("^"+strings.Repeat("~", n-1)))
}
