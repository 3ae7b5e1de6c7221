package diagfmt

import (
	"encoding/json"
	"io"

	"github.com/vektah/gqlparser/v2/gqlerror"

	"github.com/syssam/gqlsc/compiler/diag"
	"github.com/syssam/gqlsc/compiler/source"
)

// Report is the JSON document written by JSON. Diagnostics are encoded as
// GraphQL errors so editors and CI tooling that understand the GraphQL
// error format can consume them.
type Report struct {
	Errors   gqlerror.List `json:"errors"`
	Count    int           `json:"count"`
	Omitted  int           `json:"omitted,omitempty"`
	Failed   bool          `json:"failed"`
	Warnings int           `json:"warnings"`
}

// NewReport converts l into a Report.
func NewReport(l diag.List, opts JSONOpts) *Report {
	r := &Report{
		Errors:   gqlerror.List{},
		Count:    len(l),
		Failed:   l.HasErrors(),
		Warnings: l.Warnings(),
	}
	shown := l
	if opts.Max > 0 && len(shown) > opts.Max {
		shown = shown[:opts.Max]
		r.Omitted = len(l) - opts.Max
	}
	for _, d := range shown {
		r.Errors = append(r.Errors, toGQLError(d))
	}
	return r
}

// JSON writes l as a Report.
func JSON(w io.Writer, l diag.List, opts JSONOpts) error {
	enc := json.NewEncoder(w)
	if opts.Indent {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(NewReport(l, opts))
}

func toGQLError(d diag.Diagnostic) *gqlerror.Error {
	ext := map[string]any{
		"file":     d.Primary().File,
		"severity": d.Severity().String(),
		"code":     d.Code().String(),
		"category": d.Category().String(),
	}
	if d.Subject() != "" {
		ext["type"] = d.Subject()
	}
	if rel := d.Related(); len(rel) > 0 {
		notes := make([]map[string]any, 0, len(rel))
		for _, r := range rel {
			notes = append(notes, map[string]any{
				"message":   r.Message,
				"file":      r.Span.File,
				"locations": locations(r.Span),
			})
		}
		ext["related"] = notes
	}
	return &gqlerror.Error{
		Message:    d.Message(),
		Locations:  locations(d.Primary()),
		Extensions: ext,
		Rule:       d.Code().String(),
	}
}

func locations(sp source.Span) []gqlerror.Location {
	if !sp.IsValid() {
		return nil
	}
	return []gqlerror.Location{{Line: sp.Start.Line, Column: sp.Start.Column}}
}
