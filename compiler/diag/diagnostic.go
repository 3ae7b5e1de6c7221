// Package diag collects compiler diagnostics. A Diagnostic can only be
// built from a source.Span, so every report points back into the SDL the
// user wrote.
package diag

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/syssam/gqlsc/compiler/source"
)

// Related is a secondary location of a diagnostic, such as the first
// declaration of a duplicated field.
type Related struct {
	Span    source.Span `msgpack:"s"`
	Message string      `msgpack:"m"`
}

// Diagnostic is a single problem report. Its fields are unexported; use
// New, Errorf or Warningf to build one.
type Diagnostic struct {
	severity Severity
	code     Code
	message  string
	primary  source.Span
	related  []Related
	subject  string
}

// New builds a diagnostic at primary.
func New(sev Severity, code Code, primary source.Span, msg string) Diagnostic {
	return Diagnostic{severity: sev, code: code, primary: primary, message: msg}
}

// Errorf builds an error diagnostic at primary.
func Errorf(code Code, primary source.Span, format string, args ...any) Diagnostic {
	return New(SevError, code, primary, fmt.Sprintf(format, args...))
}

// Warningf builds a warning diagnostic at primary.
func Warningf(code Code, primary source.Span, format string, args ...any) Diagnostic {
	return New(SevWarning, code, primary, fmt.Sprintf(format, args...))
}

// WithRelated returns a copy of d with a secondary location appended.
func (d Diagnostic) WithRelated(sp source.Span, msg string) Diagnostic {
	related := make([]Related, len(d.related), len(d.related)+1)
	copy(related, d.related)
	d.related = append(related, Related{Span: sp, Message: msg})
	return d
}

// About returns a copy of d attributed to the named type. Errors
// attributed to a type suppress that type's generated output.
func (d Diagnostic) About(typeName string) Diagnostic {
	d.subject = typeName
	return d
}

func (d Diagnostic) Severity() Severity   { return d.severity }
func (d Diagnostic) Code() Code           { return d.code }
func (d Diagnostic) Message() string      { return d.message }
func (d Diagnostic) Primary() source.Span { return d.primary }
func (d Diagnostic) Related() []Related   { return d.related }
func (d Diagnostic) Subject() string      { return d.subject }
func (d Diagnostic) Category() Category   { return d.code.Category() }
func (d Diagnostic) IsError() bool        { return d.severity == SevError }

// String renders the diagnostic on one line:
//
//	schema/user.graphql:3:5: error GQL3005: field "name" declared twice
func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s %s: %s", d.primary, d.severity, d.code, d.message)
}

// wire is the encoded form used by the parse cache.
type wire struct {
	Severity Severity    `msgpack:"v"`
	Code     Code        `msgpack:"c"`
	Message  string      `msgpack:"m"`
	Primary  source.Span `msgpack:"p"`
	Related  []Related   `msgpack:"r,omitempty"`
	Subject  string      `msgpack:"t,omitempty"`
}

var (
	_ msgpack.CustomEncoder = Diagnostic{}
	_ msgpack.CustomDecoder = (*Diagnostic)(nil)
)

// EncodeMsgpack implements msgpack.CustomEncoder.
func (d Diagnostic) EncodeMsgpack(enc *msgpack.Encoder) error {
	return enc.Encode(wire{
		Severity: d.severity,
		Code:     d.code,
		Message:  d.message,
		Primary:  d.primary,
		Related:  d.related,
		Subject:  d.subject,
	})
}

// DecodeMsgpack implements msgpack.CustomDecoder.
func (d *Diagnostic) DecodeMsgpack(dec *msgpack.Decoder) error {
	var w wire
	if err := dec.Decode(&w); err != nil {
		return err
	}
	if !w.Primary.IsValid() {
		return fmt.Errorf("diag: decoded diagnostic %s has no source span", w.Code)
	}
	*d = Diagnostic{
		severity: w.Severity,
		code:     w.Code,
		message:  w.Message,
		primary:  w.Primary,
		related:  w.Related,
		subject:  w.Subject,
	}
	return nil
}
