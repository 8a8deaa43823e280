package sema

import (
	"testing"

	"vela/internal/ast"
	"vela/internal/diag"
	"vela/internal/members"
	"vela/internal/meta"
	"vela/internal/source"
	"vela/internal/types"
)

// fixture assembles a resolved tree plus the three oracles in memory, the
// way upstream loading would.
type fixture struct {
	t    *testing.T
	b    *ast.Builder
	ts   *types.System
	ms   *members.Resolver
	libs *meta.Registry
	lib  meta.LibraryID
	unit ast.UnitID
	off  uint32
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		t:    t,
		b:    ast.NewBuilder(ast.Hints{}),
		ts:   types.NewSystem(),
		ms:   members.NewResolver(),
		libs: meta.NewRegistry(),
	}
	f.lib = f.libs.Add(meta.Library{Name: "app", URI: "package:app/main.vl", NullSafe: true})
	f.unit = f.b.Units.New(f.lib, f.b.Strings.Intern("app"), source.Span{File: 1, Start: 0, End: 1 << 20})
	return f
}

// span hands out strictly increasing non-overlapping spans so every node has
// a distinct site.
func (f *fixture) span() source.Span {
	f.off += 8
	return source.Span{File: 1, Start: f.off, End: f.off + 4}
}

func (f *fixture) str(s string) source.StringID { return f.b.Strings.Intern(s) }

func (f *fixture) run() *diag.Bag {
	f.t.Helper()
	bag := diag.NewBag(64)
	Check(f.b, f.unit, Options{
		Reporter:  diag.BagReporter{Bag: bag},
		Types:     f.ts,
		Members:   f.ms,
		Libraries: f.libs,
		Strict:    true,
	})
	return bag
}

func codesOf(bag *diag.Bag) []diag.Code {
	items := bag.Items()
	out := make([]diag.Code, len(items))
	for i := range items {
		out[i] = items[i].Code
	}
	return out
}

func countCode(bag *diag.Bag, code diag.Code) int {
	n := 0
	for _, c := range codesOf(bag) {
		if c == code {
			n++
		}
	}
	return n
}

func wantCodes(t *testing.T, bag *diag.Bag, want ...diag.Code) {
	t.Helper()
	got := codesOf(bag)
	if len(got) != len(want) {
		t.Fatalf("got %d diagnostics %v, want %v", len(got), got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("diagnostic %d is %v, want %v (all: %v)", i, got[i], want[i], got)
		}
	}
}

// newClass registers a class with the type system, member resolver and tree
// in one step. Clause types and members are attached afterwards through the
// returned payload pointer.
func (f *fixture) newClass(name string, params []types.TypeParam) (ast.DeclID, types.ClassID) {
	cid := f.ts.NewClass(name, types.ClassOrdinary, params)
	f.ts.SetSupertypes(cid, []types.TypeID{f.ts.Builtins().Object})
	d := f.b.Decls.New(ast.DeclClass, f.str(name), f.span(), f.span(), 0)
	f.b.Decls.SetClass(d, ast.ClassDecl{Class: cid})
	f.b.BindClass(cid, d)
	f.b.Units.PushDecl(f.unit, d)
	f.ms.AddClass(cid, f.ts.Builtins().ObjectClass, nil, nil)
	return d, cid
}

func (f *fixture) newMixin(name string, params []types.TypeParam) (ast.DeclID, types.ClassID) {
	cid := f.ts.NewClass(name, types.ClassMixin, params)
	d := f.b.Decls.New(ast.DeclMixin, f.str(name), f.span(), f.span(), 0)
	f.b.Decls.SetMixin(d, ast.MixinDecl{Class: cid})
	f.b.BindClass(cid, d)
	f.b.Units.PushDecl(f.unit, d)
	return d, cid
}

// field attaches an instance field to a class-like declaration.
func (f *fixture) field(owner ast.DeclID, name string, typ types.TypeID, flags ast.DeclFlags) ast.DeclID {
	d := f.b.Decls.New(ast.DeclVar, f.str(name), f.span(), f.span(), flags)
	f.b.Decls.SetVar(d, ast.VarDecl{VKind: ast.VarField, Type: typ, TypeSpan: f.span()})
	f.b.Decls.SetParent(d, owner)
	f.attachMember(owner, d)
	return d
}

// ctor attaches a constructor; name "" declares the unnamed constructor.
func (f *fixture) ctor(owner ast.DeclID, name string, flags ast.DeclFlags) ast.DeclID {
	id := source.NoStringID
	if name != "" {
		id = f.str(name)
	}
	d := f.b.Decls.New(ast.DeclCtor, id, f.span(), f.span(), flags)
	f.b.Decls.SetCtor(d, ast.CtorDecl{})
	f.b.Decls.SetParent(d, owner)
	f.attachMember(owner, d)
	return d
}

// method attaches an instance method with the given signature.
func (f *fixture) method(owner ast.DeclID, name string, flags ast.DeclFlags, ret types.TypeID, paramTypes ...types.TypeID) ast.DeclID {
	d := f.b.Decls.New(ast.DeclFunc, f.str(name), f.span(), f.span(), flags)
	params := make([]ast.DeclID, len(paramTypes))
	for i, pt := range paramTypes {
		params[i] = f.param("p", pt, 0)
	}
	f.b.Decls.SetFunc(d, ast.FuncDecl{
		FKind:      ast.FuncMethod,
		Params:     params,
		Return:     ret,
		ReturnSpan: f.span(),
	})
	f.b.Decls.SetParent(d, owner)
	f.attachMember(owner, d)
	return d
}

func (f *fixture) param(name string, typ types.TypeID, flags ast.DeclFlags) ast.DeclID {
	d := f.b.Decls.New(ast.DeclParam, f.str(name), f.span(), f.span(), flags)
	f.b.Decls.SetParam(d, ast.ParamDecl{Type: typ, TypeSpan: f.span()})
	return d
}

func (f *fixture) attachMember(owner, member ast.DeclID) {
	f.t.Helper()
	switch decl := f.b.Decls.Get(owner); decl.Kind {
	case ast.DeclClass:
		p := f.b.Decls.Class(owner)
		p.Members = append(p.Members, member)
	case ast.DeclMixin:
		p := f.b.Decls.Mixin(owner)
		p.Members = append(p.Members, member)
	default:
		f.t.Fatalf("cannot attach member to decl kind %d", decl.Kind)
	}
}

// topFunc declares a top-level function with a block body built from stmts.
func (f *fixture) topFunc(name string, flags ast.DeclFlags, ret types.TypeID, stmts ...ast.StmtID) ast.DeclID {
	body := f.b.Stmts.NewBlock(f.span(), stmts)
	d := f.b.Decls.New(ast.DeclFunc, f.str(name), f.span(), f.span(), flags)
	f.b.Decls.SetFunc(d, ast.FuncDecl{
		FKind:      ast.FuncTopLevel,
		Return:     ret,
		ReturnSpan: f.span(),
		Body:       body,
	})
	f.b.Units.PushDecl(f.unit, d)
	return d
}

// localVar builds the declaration and its wrapping statement for a local.
func (f *fixture) localVar(name string, typ types.TypeID, init ast.ExprID) (ast.DeclID, ast.StmtID) {
	d := f.b.Decls.New(ast.DeclVar, f.str(name), f.span(), f.span(), 0)
	f.b.Decls.SetVar(d, ast.VarDecl{VKind: ast.VarLocal, Type: typ, Init: init})
	return d, f.b.Stmts.NewVarDecl(f.span(), d)
}

// identTo builds a resolved identifier expression of the given static type.
func (f *fixture) identTo(name string, target ast.DeclID, typ types.TypeID) ast.ExprID {
	return f.b.Exprs.NewIdent(f.span(), typ, ast.IdentExpr{
		Name:  f.str(name),
		Ref:   target,
		State: ast.RefResolved,
	})
}

func (f *fixture) intLit(text string) ast.ExprID {
	return f.b.Exprs.NewLit(f.span(), f.ts.Builtins().Int, ast.LitExpr{LKind: ast.LitInt, Text: f.str(text)})
}

func (f *fixture) exprStmt(e ast.ExprID) ast.StmtID {
	return f.b.Stmts.NewExpr(f.span(), e)
}
