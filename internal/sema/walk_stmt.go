package sema

import (
	"vela/internal/ast"
	"vela/internal/diag"
)

func (v *verifier) walkStmt(id ast.StmtID, ctx context) {
	stmt := v.builder.Stmts.Get(id)
	if !v.contract(stmt != nil, "stmt must exist") {
		return
	}
	v.result.Stats.Stmts++

	switch stmt.Kind {
	case ast.StmtBlock:
		block := v.builder.Stmts.Block(id)
		if !v.contract(block != nil, "block payload must exist") {
			return
		}
		frame := v.pushScope(block)
		for _, sid := range block.Stmts {
			v.walkStmt(sid, ctx)
		}
		v.popScope(frame)

	case ast.StmtVarDecl:
		p := v.builder.Stmts.VarDecl(id)
		if !v.contract(p != nil, "var-decl payload must exist") {
			return
		}
		decl := v.builder.Decls.Get(p.Decl)
		if decl != nil {
			// The initializer runs before the entity becomes visible.
			v.walkVar(p.Decl, decl, ctx)
		}
		v.markDeclared(p.Decl)

	case ast.StmtLocalFunc:
		p := v.builder.Stmts.LocalFunc(id)
		if !v.contract(p != nil, "local-func payload must exist") {
			return
		}
		v.markDeclared(p.Decl)
		v.walkFunc(p.Decl, ctx)

	case ast.StmtExpr:
		if p := v.builder.Stmts.Expr(id); p != nil && p.Expr.IsValid() {
			v.walkExpr(p.Expr, ctx)
		}

	case ast.StmtReturn:
		p := v.builder.Stmts.Return(id)
		if !v.contract(p != nil, "return payload must exist") {
			return
		}
		v.checkReturn(stmt, p, ctx)
		if p.Value.IsValid() {
			v.walkExpr(p.Value, ctx)
		}

	case ast.StmtYield:
		p := v.builder.Stmts.Yield(id)
		if !v.contract(p != nil, "yield payload must exist") {
			return
		}
		v.checkYield(stmt, p, ctx)
		if p.Value.IsValid() {
			v.walkExpr(p.Value, ctx)
		}

	case ast.StmtIf:
		p := v.builder.Stmts.If(id)
		if !v.contract(p != nil, "if payload must exist") {
			return
		}
		if p.Cond.IsValid() {
			v.walkExpr(p.Cond, ctx)
		}
		if p.Then.IsValid() {
			v.walkStmt(p.Then, ctx)
		}
		if p.Else.IsValid() {
			v.walkStmt(p.Else, ctx)
		}

	case ast.StmtWhile:
		p := v.builder.Stmts.While(id)
		if !v.contract(p != nil, "while payload must exist") {
			return
		}
		if p.Cond.IsValid() {
			v.walkExpr(p.Cond, ctx)
		}
		if p.Body.IsValid() {
			v.walkStmt(p.Body, ctx)
		}

	case ast.StmtFor:
		p := v.builder.Stmts.For(id)
		if !v.contract(p != nil, "for payload must exist") {
			return
		}
		// The header declaration precedes every read of it, so the loop
		// needs no pending set of its own.
		if p.Init.IsValid() {
			v.walkStmt(p.Init, ctx)
		}
		if p.Cond.IsValid() {
			v.walkExpr(p.Cond, ctx)
		}
		for _, e := range p.Updates {
			v.walkExpr(e, ctx)
		}
		if p.Body.IsValid() {
			v.walkStmt(p.Body, ctx)
		}

	case ast.StmtSwitch:
		p := v.builder.Stmts.Switch(id)
		if !v.contract(p != nil, "switch payload must exist") {
			return
		}
		v.checkSwitch(stmt, p)
		if p.Scrutinee.IsValid() {
			v.walkExpr(p.Scrutinee, ctx)
		}
		for _, cid := range p.Cases {
			c := v.builder.Stmts.Case(cid)
			if c == nil {
				continue
			}
			for _, val := range c.Values {
				v.walkExpr(val, ctx)
			}
			for _, sid := range c.Body {
				v.walkStmt(sid, ctx)
			}
		}

	case ast.StmtBreak, ast.StmtContinue:
		// legality is syntactic, nothing to verify

	case ast.StmtThrow:
		if p := v.builder.Stmts.Throw(id); p != nil && p.Value.IsValid() {
			v.walkExpr(p.Value, ctx)
		}

	case ast.StmtRethrow:
		if !ctx.inCatch {
			v.report(diag.SemaRethrowOutsideCatch, stmt.Span, stmt.Span,
				"rethrow can only be used inside a catch clause")
		}

	case ast.StmtTry:
		p := v.builder.Stmts.Try(id)
		if !v.contract(p != nil, "try payload must exist") {
			return
		}
		if p.Body.IsValid() {
			v.walkStmt(p.Body, ctx)
		}
		cctx := ctx
		cctx.inCatch = true
		for i := range p.Catches {
			if body := p.Catches[i].Body; body.IsValid() {
				v.walkStmt(body, cctx)
			}
		}
		if p.Finally.IsValid() {
			v.walkStmt(p.Finally, ctx)
		}

	default:
		v.contract(false, "unexpected stmt kind")
	}
}
