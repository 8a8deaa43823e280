package sema

import (
	"testing"

	"vela/internal/ast"
	"vela/internal/diag"
	"vela/internal/members"
	"vela/internal/source"
	"vela/internal/types"
)

func (f *fixture) iface(cid types.ClassID, args ...types.TypeID) types.TypeID {
	return f.ts.Interface(cid, args, types.NonNullable)
}

func TestExtendsDisallowedType(t *testing.T) {
	f := newFixture(t)
	cDecl, _ := f.newClass("C", nil)
	cls := f.b.Decls.Class(cDecl)
	cls.Extends = ast.TypeRef{Type: f.ts.Builtins().Int, Span: f.span()}

	wantCodes(t, f.run(), diag.SemaExtendsDisallowedType)
}

func TestDeferredClauses(t *testing.T) {
	f := newFixture(t)
	aDecl, aCid := f.newClass("A", nil)
	_ = aDecl
	cDecl, _ := f.newClass("C", nil)
	cls := f.b.Decls.Class(cDecl)
	cls.Extends = ast.TypeRef{Type: f.iface(aCid), Span: f.span(), Deferred: true}
	cls.Implements = []ast.TypeRef{{Type: f.iface(aCid), Span: f.span(), Deferred: true}}

	wantCodes(t, f.run(),
		diag.SemaExtendsDeferredType,
		diag.SemaImplementsDeferredType)
}

func TestMixinConstraintSatisfiedByInheritance(t *testing.T) {
	f := newFixture(t)
	_, aCid := f.newClass("A", nil)

	mDecl, mCid := f.newMixin("M", nil)
	f.b.Decls.Mixin(mDecl).On = []ast.TypeRef{{Type: f.iface(aCid), Span: f.span()}}

	bDecl, bCid := f.newClass("B", nil)
	f.b.Decls.Class(bDecl).Extends = ast.TypeRef{Type: f.iface(aCid), Span: f.span()}

	cDecl, _ := f.newClass("C", nil)
	cls := f.b.Decls.Class(cDecl)
	cls.Extends = ast.TypeRef{Type: f.iface(bCid), Span: f.span()}
	cls.Mixins = []ast.TypeRef{{Type: f.iface(mCid), Span: f.span()}}

	wantCodes(t, f.run())
}

func TestMixinConstraintNotSatisfiedByImplements(t *testing.T) {
	f := newFixture(t)
	_, aCid := f.newClass("A", nil)

	mDecl, mCid := f.newMixin("M", nil)
	f.b.Decls.Mixin(mDecl).On = []ast.TypeRef{{Type: f.iface(aCid), Span: f.span()}}

	// B claims A's interface but does not inherit it.
	bDecl, bCid := f.newClass("B", nil)
	f.b.Decls.Class(bDecl).Implements = []ast.TypeRef{{Type: f.iface(aCid), Span: f.span()}}
	f.ts.SetSupertypes(bCid, []types.TypeID{f.ts.Builtins().Object, f.iface(aCid)})

	cDecl, _ := f.newClass("C", nil)
	cls := f.b.Decls.Class(cDecl)
	cls.Extends = ast.TypeRef{Type: f.iface(bCid), Span: f.span()}
	cls.Mixins = []ast.TypeRef{{Type: f.iface(mCid), Span: f.span()}}

	wantCodes(t, f.run(), diag.SemaMixinConstraintNotSatisfied)
}

func TestMixinArgInference(t *testing.T) {
	f := newFixture(t)
	b := f.ts.Builtins()
	_, aCid := f.newClass("A", []types.TypeParam{{Name: "T", Variance: types.Covariant}})

	mDecl, mCid := f.newMixin("M", []types.TypeParam{{Name: "T"}})
	con := f.iface(aCid, f.ts.ParamType(mCid, 0, types.NonNullable))
	f.b.Decls.Mixin(mDecl).On = []ast.TypeRef{{Type: con, Span: f.span()}}

	cDecl, _ := f.newClass("C", nil)
	cls := f.b.Decls.Class(cDecl)
	cls.Extends = ast.TypeRef{Type: f.iface(aCid, b.Int), Span: f.span()}
	cls.Mixins = []ast.TypeRef{{Type: f.iface(mCid), Span: f.span()}}

	wantCodes(t, f.run())
}

func TestMixinArgInferenceNoMatch(t *testing.T) {
	f := newFixture(t)
	_, aCid := f.newClass("A", []types.TypeParam{{Name: "T", Variance: types.Covariant}})

	mDecl, mCid := f.newMixin("M", []types.TypeParam{{Name: "T"}})
	con := f.iface(aCid, f.ts.ParamType(mCid, 0, types.NonNullable))
	f.b.Decls.Mixin(mDecl).On = []ast.TypeRef{{Type: con, Span: f.span()}}

	cDecl, _ := f.newClass("C", nil)
	cls := f.b.Decls.Class(cDecl)
	cls.Mixins = []ast.TypeRef{{Type: f.iface(mCid), Span: f.span()}}

	wantCodes(t, f.run(), diag.SemaMixinInferenceNoMatch)
}

func TestMixinArgInferenceInconsistentMatch(t *testing.T) {
	f := newFixture(t)
	b := f.ts.Builtins()
	_, aCid := f.newClass("A", []types.TypeParam{{Name: "T", Variance: types.Covariant}})

	mDecl, mCid := f.newMixin("M", []types.TypeParam{{Name: "T"}})
	con := f.iface(aCid, f.ts.ParamType(mCid, 0, types.NonNullable))
	f.b.Decls.Mixin(mDecl).On = []ast.TypeRef{{Type: con, Span: f.span()}}

	// Base inherits A<int>; an earlier mixin application brings A<String>.
	bDecl, bCid := f.newClass("B", nil)
	f.b.Decls.Class(bDecl).Extends = ast.TypeRef{Type: f.iface(aCid, b.Int), Span: f.span()}

	dDecl, dCid := f.newClass("D", nil)
	f.b.Decls.Class(dDecl).Extends = ast.TypeRef{Type: f.iface(aCid, b.String), Span: f.span()}

	cDecl, _ := f.newClass("C", nil)
	cls := f.b.Decls.Class(cDecl)
	cls.Extends = ast.TypeRef{Type: f.iface(bCid), Span: f.span()}
	cls.Mixins = []ast.TypeRef{
		{Type: f.iface(dCid), Span: f.span()},
		{Type: f.iface(mCid), Span: f.span()},
	}

	wantCodes(t, f.run(), diag.SemaMixinInferenceInconsistentMatch)
}

func TestMixinArgInferenceNoUnification(t *testing.T) {
	f := newFixture(t)
	b := f.ts.Builtins()
	_, pCid := f.newClass("P", []types.TypeParam{
		{Name: "S", Variance: types.Covariant},
		{Name: "U", Variance: types.Covariant},
	})

	mDecl, mCid := f.newMixin("M", []types.TypeParam{{Name: "T"}})
	tp := f.ts.ParamType(mCid, 0, types.NonNullable)
	con := f.iface(pCid, tp, tp)
	f.b.Decls.Mixin(mDecl).On = []ast.TypeRef{{Type: con, Span: f.span()}}

	cDecl, _ := f.newClass("C", nil)
	cls := f.b.Decls.Class(cDecl)
	cls.Extends = ast.TypeRef{Type: f.iface(pCid, b.Int, b.String), Span: f.span()}
	cls.Mixins = []ast.TypeRef{{Type: f.iface(mCid), Span: f.span()}}

	wantCodes(t, f.run(), diag.SemaMixinInferenceNoUnification)
}

// superInvokedFixture builds `class C extends B with M` where M invokes
// `step` through super, then lets the caller shape the member tables through
// the returned fixture and class IDs.
func superInvokedFixture(t *testing.T) (f *fixture, bCid, mCid types.ClassID) {
	t.Helper()
	f = newFixture(t)

	_, bCid = f.newClass("B", nil)

	var mDecl ast.DeclID
	mDecl, mCid = f.newMixin("M", nil)
	f.b.Decls.Mixin(mDecl).SuperInvokedNames = []source.StringID{f.str("step")}

	cDecl, cCid := f.newClass("C", nil)
	cls := f.b.Decls.Class(cDecl)
	cls.Extends = ast.TypeRef{Type: f.iface(bCid), Span: f.span()}
	cls.Mixins = []ast.TypeRef{{Type: f.iface(mCid), Span: f.span()}}

	f.ms.AddClass(cCid, bCid, []types.ClassID{mCid}, nil)
	return f, bCid, mCid
}

func TestSuperInvokedMemberMissing(t *testing.T) {
	f, _, _ := superInvokedFixture(t)
	wantCodes(t, f.run(), diag.SemaMixinSuperInvokedMemberMissing)
}

func TestSuperInvokedMemberCompatible(t *testing.T) {
	f, bCid, mCid := superInvokedFixture(t)
	bt := f.ts.Builtins()
	fn := f.ts.Function([]types.TypeID{bt.Int}, bt.Void, types.NonNullable)
	f.ms.AddMember(bCid, members.Member{
		Name: "step", Kind: members.KindMethod, Type: fn, Concrete: true,
	})
	f.ms.AddMember(mCid, members.Member{Name: "step", Kind: members.KindMethod, Type: fn})

	wantCodes(t, f.run())
}

func TestSuperInvokedMemberMismatch(t *testing.T) {
	f, bCid, mCid := superInvokedFixture(t)
	bt := f.ts.Builtins()
	have := f.ts.Function([]types.TypeID{bt.String}, bt.Void, types.NonNullable)
	want := f.ts.Function([]types.TypeID{bt.Int}, bt.Void, types.NonNullable)
	f.ms.AddMember(bCid, members.Member{
		Name: "step", Kind: members.KindMethod, Type: have, Concrete: true,
	})
	f.ms.AddMember(mCid, members.Member{Name: "step", Kind: members.KindMethod, Type: want})

	wantCodes(t, f.run(), diag.SemaMixinSuperInvokedMemberMismatch)
}
