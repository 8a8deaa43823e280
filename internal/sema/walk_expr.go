package sema

import (
	"vela/internal/ast"
	"vela/internal/diag"
	"vela/internal/types"
)

func (v *verifier) walkExpr(id ast.ExprID, ctx context) {
	e := v.builder.Exprs.Get(id)
	if !v.contract(e != nil, "expr must exist") {
		return
	}
	v.result.Stats.Exprs++

	switch e.Kind {
	case ast.ExprIdent:
		v.checkIdent(e, v.builder.Exprs.Ident(id), ctx)

	case ast.ExprMember:
		m := v.builder.Exprs.Member(id)
		if !v.contract(m != nil, "member payload must exist") {
			return
		}
		v.checkMemberAccess(m, ctx)
		if m.Recv.IsValid() {
			v.walkExpr(m.Recv, ctx)
		}

	case ast.ExprCall:
		c := v.builder.Exprs.Call(id)
		if !v.contract(c != nil, "call payload must exist") {
			return
		}
		if c.Callee.IsValid() {
			v.walkExpr(c.Callee, ctx)
		}
		for i, arg := range c.Args {
			expected := types.NoTypeID
			if i < len(c.ParamTypes) {
				expected = c.ParamTypes[i]
			}
			v.checkAssignable(arg, expected, diag.SemaArgumentNotAssignable, "argument")
			v.walkExpr(arg, ctx)
		}

	case ast.ExprNew:
		n := v.builder.Exprs.New(id)
		if !v.contract(n != nil, "new payload must exist") {
			return
		}
		ctor := v.builder.Decls.Ctor(n.Ctor)
		for i, arg := range n.Args {
			expected := types.NoTypeID
			if ctor != nil && i < len(ctor.Params) {
				if p := v.builder.Decls.Param(ctor.Params[i]); p != nil {
					expected = p.Type
				}
			}
			v.checkAssignable(arg, expected, diag.SemaArgumentNotAssignable, "argument")
			v.walkExpr(arg, ctx)
		}

	case ast.ExprAssign:
		a := v.builder.Exprs.Assign(id)
		if !v.contract(a != nil, "assign payload must exist") {
			return
		}
		if a.Target.IsValid() {
			v.walkExpr(a.Target, ctx)
		}
		if a.Value.IsValid() {
			expected := types.NoTypeID
			if target := v.builder.Exprs.Get(a.Target); target != nil {
				expected = target.Type
			}
			v.checkAssignable(a.Value, expected, diag.SemaInvalidAssignment, "assigned value")
			v.walkExpr(a.Value, ctx)
		}

	case ast.ExprLit:
		// literals carry their type, nothing to verify

	case ast.ExprList:
		l := v.builder.Exprs.List(id)
		if !v.contract(l != nil, "list payload must exist") {
			return
		}
		for _, elem := range l.Elems {
			v.checkAssignable(elem, l.ElemType, diag.SemaListElementNotAssignable,
				"collection element")
			v.walkExpr(elem, ctx)
		}

	case ast.ExprThis:
		v.checkSelfReference(e, ctx)

	case ast.ExprSuper:
		v.checkSelfReference(e, ctx)

	case ast.ExprAwait:
		if a := v.builder.Exprs.Await(id); a != nil && a.Operand.IsValid() {
			v.walkExpr(a.Operand, ctx)
		}

	case ast.ExprCond:
		c := v.builder.Exprs.Cond(id)
		if !v.contract(c != nil, "cond payload must exist") {
			return
		}
		if c.Cond.IsValid() {
			v.walkExpr(c.Cond, ctx)
		}
		if c.Then.IsValid() {
			v.walkExpr(c.Then, ctx)
		}
		if c.Else.IsValid() {
			v.walkExpr(c.Else, ctx)
		}

	case ast.ExprExtOverride:
		if x := v.builder.Exprs.ExtOverride(id); x != nil && x.Target.IsValid() {
			v.walkExpr(x.Target, ctx)
		}

	default:
		v.contract(false, "unexpected expr kind")
	}
}

// checkAssignable verifies one value site against its expected type. Void
// misuse wins over the site-specific code; a missing expected type still gets
// the void check since void results are illegal as values everywhere.
func (v *verifier) checkAssignable(value ast.ExprID, expected types.TypeID, code diag.Code, what string) {
	t, ok := v.exprType(value)
	if !ok {
		return // resolution gap, stay silent
	}
	span := v.exprSpan(value)
	if v.types.IsVoid(t) {
		v.report(diag.SemaUseOfVoidResult, span, span,
			"a void result cannot be used as %s", what)
		return
	}
	if !expected.IsValid() {
		return
	}
	if !v.types.IsAssignable(t, expected) {
		v.report(code, span, span, "%s of type '%s' is not assignable to '%s'",
			what, v.types.Label(t), v.types.Label(expected))
	}
}
