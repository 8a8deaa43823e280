package sema

import (
	"vela/internal/ast"
	"vela/internal/diag"
	"vela/internal/types"
)

func (v *verifier) originIs(t types.TypeID, class types.ClassID) bool {
	o, ok := v.types.Origin(t)
	return ok && o == class
}

// checkFunctionShape verifies the declared return type against the async and
// generator modifiers.
func (v *verifier) checkFunctionShape(decl *ast.Decl, f *ast.FuncDecl) {
	ret := f.Return
	if !ret.IsValid() {
		return
	}
	span := f.ReturnSpan
	if span.Empty() {
		span = decl.NameSpan
	}
	b := v.types.Builtins()
	async := decl.Flags.Has(ast.FlagAsync)
	gen := decl.Flags.Has(ast.FlagGenerator)
	switch {
	case async && gen:
		if !v.types.IsTop(ret) && !v.types.IsDynamic(ret) && !v.originIs(ret, b.StreamClass) {
			v.report(diag.SemaIllegalAsyncGeneratorReturnType, span, span,
				"async generator must return a Stream, not '%s'", v.types.Label(ret))
		}
	case gen:
		if !v.types.IsTop(ret) && !v.types.IsDynamic(ret) && !v.originIs(ret, b.IterableClass) {
			v.report(diag.SemaIllegalSyncGeneratorReturnType, span, span,
				"sync generator must return an Iterable, not '%s'", v.types.Label(ret))
		}
	case async:
		if !v.types.IsTop(ret) && !v.types.IsDynamic(ret) && !v.types.IsVoid(ret) &&
			!v.originIs(ret, b.FutureClass) {
			v.report(diag.SemaIllegalAsyncReturnType, span, span,
				"async function must return a supertype of Future, not '%s'",
				v.types.Label(ret))
		}
	}
}

func (v *verifier) checkReturn(stmt *ast.Stmt, p *ast.ReturnStmt, ctx context) {
	if ctx.isGenerator {
		if p.Value.IsValid() {
			v.report(diag.SemaReturnInGenerator, stmt.Span, stmt.Span,
				"generators cannot return a value, use yield")
		}
		return
	}
	if ctx.inGenerativeCtor {
		if p.Value.IsValid() {
			v.report(diag.SemaReturnInGenerativeCtor, stmt.Span, stmt.Span,
				"generative constructors cannot return a value")
		}
		return
	}

	expected := ctx.returnType
	if ctx.isAsync && expected.IsValid() {
		expected = v.types.FlattenAsync(expected)
	}
	expected = v.types.Normalize(expected)

	if !p.Value.IsValid() {
		// Only types with no value to return admit a bare return; a merely
		// nullable type still wants an explicit null.
		bare := !expected.IsValid() || v.types.IsVoid(expected) ||
			v.types.IsDynamic(expected) || expected == v.types.Builtins().Null
		if !bare {
			v.report(diag.SemaReturnWithoutValue, stmt.Span, stmt.Span,
				"a function returning '%s' must return a value", v.types.Label(expected))
		}
		return
	}

	t, ok := v.exprType(p.Value)
	if !ok {
		return
	}
	span := v.exprSpan(p.Value)
	if v.types.IsVoid(t) {
		// Returning a void expression from a void function is allowed.
		if expected.IsValid() && (v.types.IsVoid(expected) || v.types.IsDynamic(expected)) {
			return
		}
		v.report(diag.SemaUseOfVoidResult, span, span,
			"a void result cannot be used as a return value")
		return
	}
	if !expected.IsValid() {
		return
	}
	if v.types.IsVoid(expected) {
		if !v.types.IsDynamic(t) && t != v.types.Builtins().Null {
			v.report(diag.SemaReturnOfInvalidType, span, span,
				"a value of type '%s' cannot be returned from a void function",
				v.types.Label(t))
		}
		return
	}
	if !v.types.IsAssignable(t, expected) {
		v.report(diag.SemaReturnOfInvalidType, span, span,
			"a value of type '%s' cannot be returned from a function expecting '%s'",
			v.types.Label(t), v.types.Label(expected))
	}
}

func (v *verifier) checkYield(stmt *ast.Stmt, p *ast.YieldStmt, ctx context) {
	if !ctx.isGenerator {
		v.report(diag.SemaYieldOutsideGenerator, stmt.Span, stmt.Span,
			"yield can only be used inside a generator body")
		return
	}
	b := v.types.Builtins()
	wrapper := b.IterableClass
	if ctx.isAsync {
		wrapper = b.StreamClass
	}
	elem, ok := v.types.ElementTypeOf(ctx.returnType, wrapper)
	if !ok {
		return // return type already rejected by checkFunctionShape
	}
	t, tok := v.exprType(p.Value)
	if !tok {
		return
	}
	span := v.exprSpan(p.Value)
	if v.types.IsVoid(t) {
		v.report(diag.SemaUseOfVoidResult, span, span,
			"a void result cannot be yielded")
		return
	}
	if p.Each {
		if v.types.IsDynamic(t) {
			return
		}
		opElem, seq := v.types.ElementTypeOf(t, wrapper)
		if !seq {
			v.report(diag.SemaYieldOfInvalidType, span, span,
				"yield* operand of type '%s' is not a valid sequence here",
				v.types.Label(t))
			return
		}
		if !v.types.IsAssignable(opElem, elem) {
			v.report(diag.SemaYieldOfInvalidType, span, span,
				"yield* element type '%s' is not assignable to '%s'",
				v.types.Label(opElem), v.types.Label(elem))
		}
		return
	}
	if !v.types.IsAssignable(t, elem) {
		v.report(diag.SemaYieldOfInvalidType, span, span,
			"a value of type '%s' cannot be yielded into '%s'",
			v.types.Label(t), v.types.Label(elem))
	}
}
