package ast

import (
	"vela/internal/source"
	"vela/internal/types"
)

type ExprKind uint8

const (
	ExprInvalid ExprKind = iota
	ExprIdent
	ExprMember
	ExprCall
	ExprNew
	ExprAssign
	ExprLit
	ExprList
	ExprThis
	ExprSuper
	ExprAwait
	ExprCond
	ExprExtOverride
)

// RefState distinguishes resolved references from the markers upstream
// resolution leaves behind on broken input.
type RefState uint8

const (
	RefNone RefState = iota
	RefResolved
	RefUnresolved
	RefAmbiguous
)

// Expr is the common expression header. Type is the resolved static type
// supplied by upstream inference; NoTypeID on resolution gaps.
type Expr struct {
	Kind    ExprKind
	Span    source.Span
	Type    types.TypeID
	payload uint32
}

// IdentExpr is an unqualified reference.
type IdentExpr struct {
	Name  source.StringID
	Ref   DeclID
	State RefState
}

// MemberExpr is `recv.name`.
type MemberExpr struct {
	Recv     ExprID
	Name     source.StringID
	NameSpan source.Span
	Ref      DeclID
	State    RefState
}

// CallExpr invokes a callee with positional arguments. ParamTypes carries
// the resolved parameter types of the target signature, index-aligned with
// Args; NoTypeID entries mark resolution gaps.
type CallExpr struct {
	Callee     ExprID
	Args       []ExprID
	ParamTypes []types.TypeID
}

// NewExpr instantiates a class through a resolved constructor.
type NewExpr struct {
	Ctor    DeclID
	Args    []ExprID
	IsConst bool
}

type AssignExpr struct {
	Target ExprID
	Value  ExprID
}

type LitKind uint8

const (
	LitInt LitKind = iota
	LitDouble
	LitBool
	LitString
	LitNull
)

type LitExpr struct {
	LKind LitKind
	Text  source.StringID
}

// ListExpr is a collection literal with a resolved element type.
type ListExpr struct {
	Elems    []ExprID
	ElemType types.TypeID
}

// SuperExpr is `super.name`.
type SuperExpr struct {
	Name     source.StringID
	NameSpan source.Span
	Ref      DeclID
	State    RefState
}

type AwaitExpr struct {
	Operand ExprID
}

type CondExpr struct {
	Cond ExprID
	Then ExprID
	Else ExprID
}

// ExtOverrideExpr is an explicit extension application `Ext(e).name`; member
// access through it is exempt from the static/instance receiver rules.
type ExtOverrideExpr struct {
	Ext    DeclID
	Target ExprID
	Name   source.StringID
	Ref    DeclID
}

// Exprs stores expression headers and payload arenas.
type Exprs struct {
	arena   *Arena[Expr]
	idents  *Arena[IdentExpr]
	members *Arena[MemberExpr]
	calls   *Arena[CallExpr]
	news    *Arena[NewExpr]
	assigns *Arena[AssignExpr]
	lits    *Arena[LitExpr]
	lists   *Arena[ListExpr]
	supers  *Arena[SuperExpr]
	awaits  *Arena[AwaitExpr]
	conds   *Arena[CondExpr]
	exts    *Arena[ExtOverrideExpr]
}

func NewExprs(capHint uint) *Exprs {
	return &Exprs{
		arena:   NewArena[Expr](capHint),
		idents:  NewArena[IdentExpr](capHint / 2),
		members: NewArena[MemberExpr](capHint / 4),
		calls:   NewArena[CallExpr](capHint / 4),
		news:    NewArena[NewExpr](capHint / 8),
		assigns: NewArena[AssignExpr](capHint / 8),
		lits:    NewArena[LitExpr](capHint / 2),
		lists:   NewArena[ListExpr](capHint / 8),
		supers:  NewArena[SuperExpr](capHint / 8),
		awaits:  NewArena[AwaitExpr](capHint / 8),
		conds:   NewArena[CondExpr](capHint / 8),
		exts:    NewArena[ExtOverrideExpr](capHint / 8),
	}
}

func (e *Exprs) Get(id ExprID) *Expr {
	return e.arena.Get(uint32(id))
}

func (e *Exprs) new(kind ExprKind, span source.Span, typ types.TypeID, payload uint32) ExprID {
	return ExprID(e.arena.Allocate(Expr{Kind: kind, Span: span, Type: typ, payload: payload}))
}

func (e *Exprs) NewIdent(span source.Span, typ types.TypeID, p IdentExpr) ExprID {
	return e.new(ExprIdent, span, typ, e.idents.Allocate(p))
}

func (e *Exprs) NewMember(span source.Span, typ types.TypeID, p MemberExpr) ExprID {
	return e.new(ExprMember, span, typ, e.members.Allocate(p))
}

func (e *Exprs) NewCall(span source.Span, typ types.TypeID, p CallExpr) ExprID {
	return e.new(ExprCall, span, typ, e.calls.Allocate(p))
}

func (e *Exprs) NewNew(span source.Span, typ types.TypeID, p NewExpr) ExprID {
	return e.new(ExprNew, span, typ, e.news.Allocate(p))
}

func (e *Exprs) NewAssign(span source.Span, typ types.TypeID, p AssignExpr) ExprID {
	return e.new(ExprAssign, span, typ, e.assigns.Allocate(p))
}

func (e *Exprs) NewLit(span source.Span, typ types.TypeID, p LitExpr) ExprID {
	return e.new(ExprLit, span, typ, e.lits.Allocate(p))
}

func (e *Exprs) NewList(span source.Span, typ types.TypeID, p ListExpr) ExprID {
	return e.new(ExprList, span, typ, e.lists.Allocate(p))
}

func (e *Exprs) NewThis(span source.Span, typ types.TypeID) ExprID {
	return e.new(ExprThis, span, typ, 0)
}

func (e *Exprs) NewSuper(span source.Span, typ types.TypeID, p SuperExpr) ExprID {
	return e.new(ExprSuper, span, typ, e.supers.Allocate(p))
}

func (e *Exprs) NewAwait(span source.Span, typ types.TypeID, operand ExprID) ExprID {
	return e.new(ExprAwait, span, typ, e.awaits.Allocate(AwaitExpr{Operand: operand}))
}

func (e *Exprs) NewCond(span source.Span, typ types.TypeID, p CondExpr) ExprID {
	return e.new(ExprCond, span, typ, e.conds.Allocate(p))
}

func (e *Exprs) NewExtOverride(span source.Span, typ types.TypeID, p ExtOverrideExpr) ExprID {
	return e.new(ExprExtOverride, span, typ, e.exts.Allocate(p))
}

func (e *Exprs) Ident(id ExprID) *IdentExpr {
	if ex := e.Get(id); ex != nil && ex.Kind == ExprIdent {
		return e.idents.Get(ex.payload)
	}
	return nil
}

func (e *Exprs) Member(id ExprID) *MemberExpr {
	if ex := e.Get(id); ex != nil && ex.Kind == ExprMember {
		return e.members.Get(ex.payload)
	}
	return nil
}

func (e *Exprs) Call(id ExprID) *CallExpr {
	if ex := e.Get(id); ex != nil && ex.Kind == ExprCall {
		return e.calls.Get(ex.payload)
	}
	return nil
}

func (e *Exprs) New(id ExprID) *NewExpr {
	if ex := e.Get(id); ex != nil && ex.Kind == ExprNew {
		return e.news.Get(ex.payload)
	}
	return nil
}

func (e *Exprs) Assign(id ExprID) *AssignExpr {
	if ex := e.Get(id); ex != nil && ex.Kind == ExprAssign {
		return e.assigns.Get(ex.payload)
	}
	return nil
}

func (e *Exprs) Lit(id ExprID) *LitExpr {
	if ex := e.Get(id); ex != nil && ex.Kind == ExprLit {
		return e.lits.Get(ex.payload)
	}
	return nil
}

func (e *Exprs) List(id ExprID) *ListExpr {
	if ex := e.Get(id); ex != nil && ex.Kind == ExprList {
		return e.lists.Get(ex.payload)
	}
	return nil
}

func (e *Exprs) Super(id ExprID) *SuperExpr {
	if ex := e.Get(id); ex != nil && ex.Kind == ExprSuper {
		return e.supers.Get(ex.payload)
	}
	return nil
}

func (e *Exprs) Await(id ExprID) *AwaitExpr {
	if ex := e.Get(id); ex != nil && ex.Kind == ExprAwait {
		return e.awaits.Get(ex.payload)
	}
	return nil
}

func (e *Exprs) Cond(id ExprID) *CondExpr {
	if ex := e.Get(id); ex != nil && ex.Kind == ExprCond {
		return e.conds.Get(ex.payload)
	}
	return nil
}

func (e *Exprs) ExtOverride(id ExprID) *ExtOverrideExpr {
	if ex := e.Get(id); ex != nil && ex.Kind == ExprExtOverride {
		return e.exts.Get(ex.payload)
	}
	return nil
}
