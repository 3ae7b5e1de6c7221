// Package diagfmt renders diagnostics for people and for tools.
package diagfmt

// PrettyOpts configures pretty-printing of diagnostics.
type PrettyOpts struct {
	Color bool
	// Max limits the number of printed diagnostics, 0 prints all.
	Max int
	// NoExcerpt disables the source line and underline.
	NoExcerpt bool
}

// JSONOpts configures JSON output of diagnostics.
type JSONOpts struct {
	Max    int // 0 prints all
	Indent bool
}
