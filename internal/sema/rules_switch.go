package sema

import (
	"vela/internal/ast"
	"vela/internal/diag"
	"vela/internal/source"
)

func (v *verifier) checkSwitch(stmt *ast.Stmt, p *ast.SwitchStmt) {
	v.checkSwitchExhaustive(stmt, p)
	v.checkSwitchFallthrough(p)
}

// checkSwitchExhaustive reports every enum constant a defaultless switch over
// an enum fails to cover, one diagnostic per constant.
func (v *verifier) checkSwitchExhaustive(stmt *ast.Stmt, p *ast.SwitchStmt) {
	if !p.Scrutinee.IsValid() {
		return
	}
	t, ok := v.exprType(p.Scrutinee)
	if !ok {
		return
	}
	origin, ok := v.types.Origin(t)
	if !ok {
		return
	}
	enumDeclID := v.builder.ClassDeclOf(origin)
	en := v.builder.Decls.Enum(enumDeclID)
	if en == nil {
		return
	}

	covered := make(map[ast.DeclID]struct{}, len(en.Constants))
	for _, cid := range p.Cases {
		c := v.builder.Stmts.Case(cid)
		if c == nil {
			continue
		}
		if c.IsDefault {
			return // default covers the rest
		}
		for _, val := range c.Values {
			if ref, ok := v.constantRef(val); ok {
				covered[ref] = struct{}{}
			}
		}
	}
	for _, constant := range en.Constants {
		if _, ok := covered[constant]; ok {
			continue
		}
		v.reportNote(diag.SemaSwitchMissingEnumConstant, stmt.Span, stmt.Span,
			v.declNameSpan(constant), "constant declared here",
			"switch over '%s' does not cover '%s'",
			v.builder.DeclName(enumDeclID), v.builder.DeclName(constant))
	}
}

// constantRef extracts the declaration a case value refers to, looking
// through both `red` and `Color.red` spellings.
func (v *verifier) constantRef(id ast.ExprID) (ast.DeclID, bool) {
	e := v.builder.Exprs.Get(id)
	if e == nil {
		return ast.NoDeclID, false
	}
	switch e.Kind {
	case ast.ExprIdent:
		if ident := v.builder.Exprs.Ident(id); ident != nil &&
			ident.State == ast.RefResolved && ident.Ref.IsValid() {
			return ident.Ref, true
		}
	case ast.ExprMember:
		if m := v.builder.Exprs.Member(id); m != nil &&
			m.State == ast.RefResolved && m.Ref.IsValid() {
			return m.Ref, true
		}
	}
	return ast.NoDeclID, false
}

// checkSwitchFallthrough requires every non-empty case but the last to end in
// a statement that leaves the switch.
func (v *verifier) checkSwitchFallthrough(p *ast.SwitchStmt) {
	for i, cid := range p.Cases {
		if i == len(p.Cases)-1 {
			break
		}
		c := v.builder.Stmts.Case(cid)
		if c == nil || len(c.Body) == 0 {
			continue // empty cases share the next body
		}
		if !v.terminatesCase(c.Body[len(c.Body)-1]) {
			v.report(diag.SemaSwitchCaseFallsThrough, c.Span, c.Span,
				"switch case must end with break, continue, return, throw or rethrow")
		}
	}
}

func (v *verifier) terminatesCase(id ast.StmtID) bool {
	stmt := v.builder.Stmts.Get(id)
	if stmt == nil {
		return false
	}
	switch stmt.Kind {
	case ast.StmtBreak, ast.StmtContinue, ast.StmtReturn, ast.StmtThrow, ast.StmtRethrow:
		return true
	case ast.StmtBlock:
		block := v.builder.Stmts.Block(id)
		if block == nil || len(block.Stmts) == 0 {
			return false
		}
		return v.terminatesCase(block.Stmts[len(block.Stmts)-1])
	}
	return false
}

func (v *verifier) declNameSpan(id ast.DeclID) source.Span {
	if decl := v.builder.Decls.Get(id); decl != nil {
		return decl.NameSpan
	}
	return source.Span{}
}
