package diag

import (
	"fmt"
	"sort"
)

// List is an ordered collection of diagnostics. Stages return a List next
// to their partial result instead of failing fast.
type List []Diagnostic

// Add appends diagnostics to the list.
func (l *List) Add(ds ...Diagnostic) {
	*l = append(*l, ds...)
}

// HasErrors reports whether any diagnostic is an error.
func (l List) HasErrors() bool {
	for _, d := range l {
		if d.severity == SevError {
			return true
		}
	}
	return false
}

// Errors returns the number of error diagnostics.
func (l List) Errors() int {
	n := 0
	for _, d := range l {
		if d.severity == SevError {
			n++
		}
	}
	return n
}

// Warnings returns the number of warning diagnostics.
func (l List) Warnings() int {
	n := 0
	for _, d := range l {
		if d.severity == SevWarning {
			n++
		}
	}
	return n
}

// ErrorSubjects returns the set of type names that have at least one
// error attributed to them.
func (l List) ErrorSubjects() map[string]bool {
	subjects := make(map[string]bool)
	for _, d := range l {
		if d.severity == SevError && d.subject != "" {
			subjects[d.subject] = true
		}
	}
	return subjects
}

// Filter returns the diagnostics for which keep returns true.
func (l List) Filter(keep func(Diagnostic) bool) List {
	var out List
	for _, d := range l {
		if keep(d) {
			out = append(out, d)
		}
	}
	return out
}

// Sort orders the list by file, position, severity (errors first) and
// code for stable output.
func (l List) Sort() {
	sort.SliceStable(l, func(i, j int) bool {
		di, dj := l[i], l[j]
		if c := di.primary.Compare(dj.primary); c != 0 {
			return c < 0
		}
		if di.severity != dj.severity {
			return di.severity > dj.severity
		}
		if di.code != dj.code {
			return di.code < dj.code
		}
		return di.message < dj.message
	})
}

// Dedup drops repeated diagnostics with the same code, span and message.
func (l List) Dedup() List {
	seen := make(map[string]bool, len(l))
	out := make(List, 0, len(l))
	for _, d := range l {
		key := fmt.Sprintf("%s|%v|%s", d.code, d.primary, d.message)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, d)
	}
	return out
}
