// Package sema is the semantic legality verifier: one depth-first,
// order-preserving traversal of a resolved compilation unit that applies the
// rule library and emits diagnostics through a diag.Reporter.
//
// The traversal mutates nothing but its own context values and scope chain.
// The tree, the type system and the member tables are read-only inputs, so
// independent units may be verified concurrently as long as each call gets
// its own verifier (Check allocates one per call).
package sema

import (
	"fmt"

	"vela/internal/ast"
	"vela/internal/diag"
	"vela/internal/source"
	"vela/internal/types"
)

// Options configure one verification pass.
type Options struct {
	Reporter  diag.Reporter
	Types     TypeOracle
	Members   MemberOracle
	Libraries LibraryOracle
	// Strict makes internal contract violations panic instead of silently
	// skipping the affected check. Tests run strict; production callers
	// normally do not.
	Strict bool
}

// Stats counts what one pass visited.
type Stats struct {
	Decls uint32
	Stmts uint32
	Exprs uint32
}

// Result carries pass artefacts back to the driver.
type Result struct {
	Stats Stats
}

// Check verifies a single compilation unit. It either runs to completion or
// not at all: there is no partial cancellation mid-traversal.
func Check(builder *ast.Builder, unit ast.UnitID, opts Options) Result {
	res := Result{}
	if builder == nil || !unit.IsValid() || opts.Types == nil {
		return res
	}
	reporter := opts.Reporter
	if reporter == nil {
		reporter = diag.NopReporter{}
	}
	v := &verifier{
		builder:        builder,
		types:          opts.Types,
		members:        opts.Members,
		libs:           opts.Libraries,
		reporter:       reporter,
		strict:         opts.Strict,
		scopeTop:       -1,
		fired:          make(map[source.Span][]diag.Code),
		redirectCycles: make(map[ast.DeclID]struct{}),
		result:         &res,
	}
	v.walkUnit(unit)
	return res
}

type verifier struct {
	builder  *ast.Builder
	types    TypeOracle
	members  MemberOracle
	libs     LibraryOracle
	reporter diag.Reporter
	strict   bool

	scopes   []scopeFrame
	scopeTop int

	// fired tracks codes already reported per logical site so the explicit
	// precedence table in precedence.go can suppress overlapping
	// diagnostics.
	fired map[source.Span][]diag.Code

	// redirectCycles marks constructors belonging to an already-reported
	// redirect cycle, so each cycle surfaces exactly once per pass.
	redirectCycles map[ast.DeclID]struct{}

	result *Result
}

// report emits through the precedence filter, recording the code at site.
func (v *verifier) report(code diag.Code, site, span source.Span, format string, args ...any) {
	if v.superseded(site, code) {
		return
	}
	v.fired[site] = append(v.fired[site], code)
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	b := diag.ReportError(v.reporter, code, span, msg)
	for _, a := range args {
		b.WithArgs(fmt.Sprint(a))
	}
	b.Emit()
}

// reportNote is report with one attached note.
func (v *verifier) reportNote(code diag.Code, site, span source.Span, noteSpan source.Span, note, format string, args ...any) {
	if v.superseded(site, code) {
		return
	}
	v.fired[site] = append(v.fired[site], code)
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	b := diag.ReportError(v.reporter, code, span, msg)
	for _, a := range args {
		b.WithArgs(fmt.Sprint(a))
	}
	if !noteSpan.Empty() || note != "" {
		b.WithNote(noteSpan, note)
	}
	b.Emit()
}

// contract validates an internal invariant. A false condition means broken
// upstream input or a verifier defect, never a user error: strict mode
// panics so tests catch it, release mode skips the dependent check.
func (v *verifier) contract(cond bool, what string) bool {
	if !cond && v.strict {
		panic("sema: contract violated: " + what)
	}
	return cond
}

func (v *verifier) name(id source.StringID) string {
	return v.builder.Name(id)
}

func (v *verifier) exprSpan(id ast.ExprID) source.Span {
	if e := v.builder.Exprs.Get(id); e != nil {
		return e.Span
	}
	return source.Span{}
}

func (v *verifier) exprType(id ast.ExprID) (types.TypeID, bool) {
	e := v.builder.Exprs.Get(id)
	if e == nil {
		return types.NoTypeID, false
	}
	return e.Type, e.Type.IsValid()
}
