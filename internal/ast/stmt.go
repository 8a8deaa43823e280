package ast

import (
	"vela/internal/source"
)

type StmtKind uint8

const (
	StmtInvalid StmtKind = iota
	StmtBlock
	StmtVarDecl
	StmtLocalFunc
	StmtExpr
	StmtReturn
	StmtYield
	StmtIf
	StmtWhile
	StmtFor
	StmtSwitch
	StmtBreak
	StmtContinue
	StmtThrow
	StmtRethrow
	StmtTry
)

type Stmt struct {
	Kind    StmtKind
	Span    source.Span
	payload uint32
}

type BlockStmt struct {
	Stmts []StmtID
}

// VarDeclStmt wraps a local variable declaration.
type VarDeclStmt struct {
	Decl DeclID
}

// LocalFuncStmt wraps a local function declaration.
type LocalFuncStmt struct {
	Decl DeclID
}

type ExprStmt struct {
	Expr ExprID
}

type ReturnStmt struct {
	Value ExprID // NoExprID for an empty return
}

type YieldStmt struct {
	Value ExprID
	Each  bool // yield* delegates a whole sequence
}

type IfStmt struct {
	Cond ExprID
	Then StmtID
	Else StmtID
}

type WhileStmt struct {
	Cond ExprID
	Body StmtID
}

// ForStmt is the classic counted loop. Init is a var-decl or expression
// statement; any of the header parts may be absent.
type ForStmt struct {
	Init    StmtID
	Cond    ExprID
	Updates []ExprID
	Body    StmtID
}

// SwitchCase is one case group. Values are the case constants; a default
// case has no values and IsDefault set.
type SwitchCase struct {
	Values    []ExprID
	Body      []StmtID
	IsDefault bool
	Span      source.Span
}

type SwitchStmt struct {
	Scrutinee ExprID
	Cases     []CaseID
}

type ThrowStmt struct {
	Value ExprID
}

// CatchClause is stored inline on TryStmt; catch clauses have no independent
// identity in the tree.
type CatchClause struct {
	Param DeclID
	Body  StmtID
	Span  source.Span
}

type TryStmt struct {
	Body    StmtID
	Catches []CatchClause
	Finally StmtID
}

// Stmts stores statement headers and payload arenas.
type Stmts struct {
	arena   *Arena[Stmt]
	blocks  *Arena[BlockStmt]
	vars    *Arena[VarDeclStmt]
	fns     *Arena[LocalFuncStmt]
	exprs   *Arena[ExprStmt]
	returns *Arena[ReturnStmt]
	yields  *Arena[YieldStmt]
	ifs     *Arena[IfStmt]
	whiles  *Arena[WhileStmt]
	fors    *Arena[ForStmt]
	switches *Arena[SwitchStmt]
	cases   *Arena[SwitchCase]
	throws  *Arena[ThrowStmt]
	tries   *Arena[TryStmt]
}

func NewStmts(capHint uint) *Stmts {
	return &Stmts{
		arena:    NewArena[Stmt](capHint),
		blocks:   NewArena[BlockStmt](capHint / 4),
		vars:     NewArena[VarDeclStmt](capHint / 4),
		fns:      NewArena[LocalFuncStmt](capHint / 8),
		exprs:    NewArena[ExprStmt](capHint / 2),
		returns:  NewArena[ReturnStmt](capHint / 8),
		yields:   NewArena[YieldStmt](capHint / 8),
		ifs:      NewArena[IfStmt](capHint / 8),
		whiles:   NewArena[WhileStmt](capHint / 8),
		fors:     NewArena[ForStmt](capHint / 8),
		switches: NewArena[SwitchStmt](capHint / 8),
		cases:    NewArena[SwitchCase](capHint / 4),
		throws:   NewArena[ThrowStmt](capHint / 8),
		tries:    NewArena[TryStmt](capHint / 8),
	}
}

func (s *Stmts) Get(id StmtID) *Stmt {
	return s.arena.Get(uint32(id))
}

func (s *Stmts) new(kind StmtKind, span source.Span, payload uint32) StmtID {
	return StmtID(s.arena.Allocate(Stmt{Kind: kind, Span: span, payload: payload}))
}

func (s *Stmts) NewBlock(span source.Span, stmts []StmtID) StmtID {
	return s.new(StmtBlock, span, s.blocks.Allocate(BlockStmt{Stmts: stmts}))
}

func (s *Stmts) NewVarDecl(span source.Span, decl DeclID) StmtID {
	return s.new(StmtVarDecl, span, s.vars.Allocate(VarDeclStmt{Decl: decl}))
}

func (s *Stmts) NewLocalFunc(span source.Span, decl DeclID) StmtID {
	return s.new(StmtLocalFunc, span, s.fns.Allocate(LocalFuncStmt{Decl: decl}))
}

func (s *Stmts) NewExpr(span source.Span, expr ExprID) StmtID {
	return s.new(StmtExpr, span, s.exprs.Allocate(ExprStmt{Expr: expr}))
}

func (s *Stmts) NewReturn(span source.Span, value ExprID) StmtID {
	return s.new(StmtReturn, span, s.returns.Allocate(ReturnStmt{Value: value}))
}

func (s *Stmts) NewYield(span source.Span, value ExprID, each bool) StmtID {
	return s.new(StmtYield, span, s.yields.Allocate(YieldStmt{Value: value, Each: each}))
}

func (s *Stmts) NewIf(span source.Span, cond ExprID, then, els StmtID) StmtID {
	return s.new(StmtIf, span, s.ifs.Allocate(IfStmt{Cond: cond, Then: then, Else: els}))
}

func (s *Stmts) NewWhile(span source.Span, cond ExprID, body StmtID) StmtID {
	return s.new(StmtWhile, span, s.whiles.Allocate(WhileStmt{Cond: cond, Body: body}))
}

func (s *Stmts) NewFor(span source.Span, init StmtID, cond ExprID, updates []ExprID, body StmtID) StmtID {
	return s.new(StmtFor, span, s.fors.Allocate(ForStmt{Init: init, Cond: cond, Updates: updates, Body: body}))
}

func (s *Stmts) NewCase(c SwitchCase) CaseID {
	return CaseID(s.cases.Allocate(c))
}

func (s *Stmts) NewSwitch(span source.Span, scrutinee ExprID, cases []CaseID) StmtID {
	return s.new(StmtSwitch, span, s.switches.Allocate(SwitchStmt{Scrutinee: scrutinee, Cases: cases}))
}

func (s *Stmts) NewBreak(span source.Span) StmtID {
	return s.new(StmtBreak, span, 0)
}

func (s *Stmts) NewContinue(span source.Span) StmtID {
	return s.new(StmtContinue, span, 0)
}

func (s *Stmts) NewThrow(span source.Span, value ExprID) StmtID {
	return s.new(StmtThrow, span, s.throws.Allocate(ThrowStmt{Value: value}))
}

func (s *Stmts) NewRethrow(span source.Span) StmtID {
	return s.new(StmtRethrow, span, 0)
}

func (s *Stmts) NewTry(span source.Span, body StmtID, catches []CatchClause, finally StmtID) StmtID {
	return s.new(StmtTry, span, s.tries.Allocate(TryStmt{Body: body, Catches: catches, Finally: finally}))
}

func (s *Stmts) Block(id StmtID) *BlockStmt {
	if st := s.Get(id); st != nil && st.Kind == StmtBlock {
		return s.blocks.Get(st.payload)
	}
	return nil
}

func (s *Stmts) VarDecl(id StmtID) *VarDeclStmt {
	if st := s.Get(id); st != nil && st.Kind == StmtVarDecl {
		return s.vars.Get(st.payload)
	}
	return nil
}

func (s *Stmts) LocalFunc(id StmtID) *LocalFuncStmt {
	if st := s.Get(id); st != nil && st.Kind == StmtLocalFunc {
		return s.fns.Get(st.payload)
	}
	return nil
}

func (s *Stmts) Expr(id StmtID) *ExprStmt {
	if st := s.Get(id); st != nil && st.Kind == StmtExpr {
		return s.exprs.Get(st.payload)
	}
	return nil
}

func (s *Stmts) Return(id StmtID) *ReturnStmt {
	if st := s.Get(id); st != nil && st.Kind == StmtReturn {
		return s.returns.Get(st.payload)
	}
	return nil
}

func (s *Stmts) Yield(id StmtID) *YieldStmt {
	if st := s.Get(id); st != nil && st.Kind == StmtYield {
		return s.yields.Get(st.payload)
	}
	return nil
}

func (s *Stmts) If(id StmtID) *IfStmt {
	if st := s.Get(id); st != nil && st.Kind == StmtIf {
		return s.ifs.Get(st.payload)
	}
	return nil
}

func (s *Stmts) While(id StmtID) *WhileStmt {
	if st := s.Get(id); st != nil && st.Kind == StmtWhile {
		return s.whiles.Get(st.payload)
	}
	return nil
}

func (s *Stmts) For(id StmtID) *ForStmt {
	if st := s.Get(id); st != nil && st.Kind == StmtFor {
		return s.fors.Get(st.payload)
	}
	return nil
}

func (s *Stmts) Switch(id StmtID) *SwitchStmt {
	if st := s.Get(id); st != nil && st.Kind == StmtSwitch {
		return s.switches.Get(st.payload)
	}
	return nil
}

func (s *Stmts) Case(id CaseID) *SwitchCase {
	return s.cases.Get(uint32(id))
}

func (s *Stmts) Throw(id StmtID) *ThrowStmt {
	if st := s.Get(id); st != nil && st.Kind == StmtThrow {
		return s.throws.Get(st.payload)
	}
	return nil
}

func (s *Stmts) Try(id StmtID) *TryStmt {
	if st := s.Get(id); st != nil && st.Kind == StmtTry {
		return s.tries.Get(st.payload)
	}
	return nil
}
