package ast

import (
	"testing"

	"vela/internal/source"
	"vela/internal/types"
)

func TestArenaSentinel(t *testing.T) {
	a := NewArena[int](4)
	if a.Get(0) != nil {
		t.Error("index 0 must be the invalid sentinel")
	}
	id := a.Allocate(7)
	if id != 1 {
		t.Errorf("first allocation got id %d, want 1", id)
	}
	if v := a.Get(id); v == nil || *v != 7 {
		t.Errorf("Get(%d) = %v", id, v)
	}
	if a.Get(2) != nil {
		t.Error("out-of-range index did not return nil")
	}
}

func TestDeclPayloadRoundTrip(t *testing.T) {
	b := NewBuilder(Hints{})
	name := b.Strings.Intern("Point")
	span := source.Span{File: 1, Start: 0, End: 20}
	nameSpan := source.Span{File: 1, Start: 6, End: 11}

	d := b.Decls.New(DeclClass, name, span, nameSpan, 0)
	b.Decls.SetClass(d, ClassDecl{Class: 3})

	decl := b.Decls.Get(d)
	if decl == nil || decl.Kind != DeclClass || decl.Name != name {
		t.Fatalf("decl header mismatch: %+v", decl)
	}
	if decl.Span != span || decl.NameSpan != nameSpan {
		t.Errorf("spans not preserved: %+v", decl)
	}

	payload := b.Decls.Class(d)
	if payload == nil || payload.Class != 3 {
		t.Fatalf("class payload mismatch: %+v", payload)
	}

	// Wrong-kind accessors return nil instead of misreading the payload.
	if b.Decls.Func(d) != nil || b.Decls.Var(d) != nil {
		t.Error("payload accessor ignored the decl kind")
	}
}

func TestDeclFlags(t *testing.T) {
	flags := FlagStatic | FlagFinal
	if !flags.Has(FlagStatic) || !flags.Has(FlagFinal) {
		t.Error("set flags not reported")
	}
	if flags.Has(FlagConst) || flags.Has(FlagLate) {
		t.Error("unset flags reported")
	}
}

func TestClassBinding(t *testing.T) {
	b := NewBuilder(Hints{})
	d := b.Decls.New(DeclClass, b.Strings.Intern("C"), source.Span{}, source.Span{}, 0)
	cid := types.ClassID(5)

	b.BindClass(cid, d)
	if got := b.ClassDeclOf(cid); got != d {
		t.Errorf("ClassDeclOf = %v, want %v", got, d)
	}
	if got := b.ClassDeclOf(types.ClassID(9)); got.IsValid() {
		t.Errorf("unbound class resolved to %v", got)
	}
}

func TestUnitDirectivesAndDecls(t *testing.T) {
	b := NewBuilder(Hints{})
	unit := b.Units.New(1, b.Strings.Intern("app"), source.Span{File: 1, End: 100})

	dir := b.Units.NewDirective(Directive{Kind: DirImport, URI: b.Strings.Intern("package:core/core.vl")})
	b.Units.PushDirective(unit, dir)
	d := b.Decls.New(DeclFunc, b.Strings.Intern("main"), source.Span{File: 1, Start: 0, End: 10}, source.Span{}, 0)
	b.Units.PushDecl(unit, d)

	u := b.Units.Get(unit)
	if len(u.Directives) != 1 || len(u.Decls) != 1 {
		t.Fatalf("unit lists: %+v", u)
	}
	if got := b.Units.Directive(u.Directives[0]); got == nil || got.Kind != DirImport {
		t.Errorf("directive round trip failed: %+v", got)
	}
}

func TestStmtPayloads(t *testing.T) {
	b := NewBuilder(Hints{})
	inner := b.Stmts.NewBreak(source.Span{File: 1, Start: 4, End: 9})
	block := b.Stmts.NewBlock(source.Span{File: 1, Start: 0, End: 12}, []StmtID{inner})

	s := b.Stmts.Get(block)
	if s == nil || s.Kind != StmtBlock {
		t.Fatalf("block header mismatch: %+v", s)
	}
	payload := b.Stmts.Block(block)
	if payload == nil || len(payload.Stmts) != 1 || payload.Stmts[0] != inner {
		t.Errorf("block payload mismatch: %+v", payload)
	}
	if b.Stmts.Get(inner).Kind != StmtBreak {
		t.Error("break header mismatch")
	}
}

func TestExprPayloads(t *testing.T) {
	b := NewBuilder(Hints{})
	name := b.Strings.Intern("x")
	target := b.Decls.New(DeclVar, name, source.Span{}, source.Span{}, 0)

	e := b.Exprs.NewIdent(source.Span{File: 1, Start: 2, End: 3}, types.TypeID(4), IdentExpr{
		Name:  name,
		Ref:   target,
		State: RefResolved,
	})
	expr := b.Exprs.Get(e)
	if expr == nil || expr.Kind != ExprIdent || expr.Type != types.TypeID(4) {
		t.Fatalf("expr header mismatch: %+v", expr)
	}
	ident := b.Exprs.Ident(e)
	if ident == nil || ident.Ref != target || ident.State != RefResolved {
		t.Fatalf("ident payload mismatch: %+v", ident)
	}
	if b.Exprs.Call(e) != nil {
		t.Error("payload accessor ignored the expr kind")
	}
}

func TestDeclNameLookup(t *testing.T) {
	b := NewBuilder(Hints{})
	d := b.Decls.New(DeclFunc, b.Strings.Intern("render"), source.Span{}, source.Span{}, 0)
	if got := b.DeclName(d); got != "render" {
		t.Errorf("DeclName = %q, want render", got)
	}
	if got := b.DeclName(NoDeclID); got != "" {
		t.Errorf("DeclName of invalid id = %q", got)
	}
}
