package sema

import (
	"vela/internal/ast"
)

// scopeFrame is one block's pending-declaration set. Frames live in a flat
// stack indexed by position; parent is an index into the same stack, -1 for
// the outermost frame.
type scopeFrame struct {
	pending map[ast.DeclID]struct{}
	parent  int
}

// pushScope pre-scans a block for the entities it will declare and pushes a
// frame. Returns the frame index for the matching popScope.
func (v *verifier) pushScope(block *ast.BlockStmt) int {
	pending := make(map[ast.DeclID]struct{}, len(block.Stmts))
	for _, sid := range block.Stmts {
		stmt := v.builder.Stmts.Get(sid)
		if stmt == nil {
			continue
		}
		switch stmt.Kind {
		case ast.StmtVarDecl:
			if p := v.builder.Stmts.VarDecl(sid); p != nil && p.Decl.IsValid() {
				pending[p.Decl] = struct{}{}
			}
		case ast.StmtLocalFunc:
			if p := v.builder.Stmts.LocalFunc(sid); p != nil && p.Decl.IsValid() {
				pending[p.Decl] = struct{}{}
			}
		}
	}
	v.scopes = append(v.scopes, scopeFrame{pending: pending, parent: v.scopeTop})
	v.scopeTop = len(v.scopes) - 1
	return v.scopeTop
}

// popScope restores the frame that was current before index was pushed.
func (v *verifier) popScope(index int) {
	if index < 0 || index >= len(v.scopes) {
		return
	}
	v.scopeTop = v.scopes[index].parent
	v.scopes = v.scopes[:index]
}

// markDeclared removes an entity from the current frame's pending set. Each
// entity leaves the chain exactly once, at its declaration statement.
func (v *verifier) markDeclared(d ast.DeclID) {
	if v.scopeTop < 0 {
		return
	}
	delete(v.scopes[v.scopeTop].pending, d)
}

// pendingAnywhere walks the chain from the current frame upwards and reports
// whether d is still awaiting its declaration.
func (v *verifier) pendingAnywhere(d ast.DeclID) bool {
	for idx := v.scopeTop; idx >= 0; idx = v.scopes[idx].parent {
		if _, ok := v.scopes[idx].pending[d]; ok {
			return true
		}
	}
	return false
}
