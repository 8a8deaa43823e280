package diag

import (
	"vela/internal/source"
)

// Note is a secondary span with additional context ("declared here").
type Note struct {
	Span source.Span
	Msg  string
}

// Diagnostic is the immutable record handed to a Reporter. Exactly one
// primary span; Args keeps the raw message arguments so renderers and caches
// can rebuild or translate the message without re-running the pass.
type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Args     []string
	Primary  source.Span
	Notes    []Note
}

func New(sev Severity, code Code, primary source.Span, msg string) Diagnostic {
	return Diagnostic{
		Severity: sev,
		Code:     code,
		Primary:  primary,
		Message:  msg,
	}
}

func NewError(code Code, primary source.Span, msg string) Diagnostic {
	return New(SevError, code, primary, msg)
}

func (d Diagnostic) WithNote(sp source.Span, msg string) Diagnostic {
	d.Notes = append(d.Notes, Note{Span: sp, Msg: msg})
	return d
}

func (d Diagnostic) WithArgs(args ...string) Diagnostic {
	d.Args = append(d.Args, args...)
	return d
}
