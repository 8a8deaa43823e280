package sema

import (
	"vela/internal/ast"
	"vela/internal/diag"
	"vela/internal/members"
	"vela/internal/types"
)

const maxInheritDepth = 64

// checkClassClauses verifies the extends/implements/with clauses of a class:
// disallowed and deferred base types, superclass constraints of every applied
// mixin, mixin type-argument inference and super-invoked member coverage.
func (v *verifier) checkClassClauses(id ast.DeclID, cls *ast.ClassDecl) {
	if cls.Extends.Type.IsValid() {
		switch {
		case cls.Extends.Deferred:
			v.report(diag.SemaExtendsDeferredType, cls.Extends.Span, cls.Extends.Span,
				"classes cannot extend a deferred type")
		case v.types.IsDisallowedBase(cls.Extends.Type):
			v.report(diag.SemaExtendsDisallowedType, cls.Extends.Span, cls.Extends.Span,
				"'%s' cannot be extended", v.types.Label(cls.Extends.Type))
		}
	}
	for i := range cls.Implements {
		ref := &cls.Implements[i]
		if !ref.Type.IsValid() {
			continue
		}
		switch {
		case ref.Deferred:
			v.report(diag.SemaImplementsDeferredType, ref.Span, ref.Span,
				"classes cannot implement a deferred type")
		case v.types.IsDisallowedBase(ref.Type):
			v.report(diag.SemaImplementsDisallowedType, ref.Span, ref.Span,
				"'%s' cannot be implemented", v.types.Label(ref.Type))
		}
	}

	base := cls.Extends.Type
	if !base.IsValid() {
		base = v.types.Builtins().Object
	}
	superSet := v.inheritedClosure(base)

	for i := range cls.Mixins {
		mref := &cls.Mixins[i]
		if !mref.Type.IsValid() {
			continue
		}
		if mref.Deferred {
			v.report(diag.SemaMixinDeferredType, mref.Span, mref.Span,
				"classes cannot mix in a deferred type")
			continue
		}
		if v.types.IsDisallowedBase(mref.Type) {
			v.report(diag.SemaMixinOfDisallowedType, mref.Span, mref.Span,
				"'%s' cannot be mixed in", v.types.Label(mref.Type))
		}

		morigin, ok := v.types.Origin(mref.Type)
		if !ok {
			continue
		}
		mx := v.builder.Decls.Mixin(v.builder.ClassDeclOf(morigin))
		if mx != nil {
			args := v.types.Args(mref.Type)
			inferOK := true
			if info := v.types.Class(morigin); info != nil &&
				len(info.TypeParams) > 0 && !mref.ExplicitArgs {
				args, inferOK = v.inferMixinArgs(morigin, mx, superSet, mref.Span)
			}
			if inferOK {
				for ci := range mx.On {
					con := mx.On[ci].Type
					if !con.IsValid() {
						continue
					}
					inst := v.types.Substitute(con, morigin, args)
					if !v.satisfiedBy(superSet, inst) {
						v.report(diag.SemaMixinConstraintNotSatisfied, mref.Span, mref.Span,
							"'%s' requires '%s', which the application so far does not inherit",
							v.types.Label(mref.Type), v.types.Label(inst))
					}
				}
				v.checkSuperInvoked(id, i, mref, morigin, mx, args)
			}
		}
		superSet = append(superSet, v.inheritedClosure(mref.Type)...)
	}
}

// checkMixinClauses verifies a mixin declaration's own on and implements
// clauses.
func (v *verifier) checkMixinClauses(id ast.DeclID, mx *ast.MixinDecl) {
	for i := range mx.On {
		ref := &mx.On[i]
		if !ref.Type.IsValid() {
			continue
		}
		switch {
		case ref.Deferred:
			v.report(diag.SemaExtendsDeferredType, ref.Span, ref.Span,
				"superclass constraints cannot name a deferred type")
		case v.types.IsDisallowedBase(ref.Type):
			v.report(diag.SemaExtendsDisallowedType, ref.Span, ref.Span,
				"'%s' cannot be a superclass constraint", v.types.Label(ref.Type))
		}
	}
	for i := range mx.Implements {
		ref := &mx.Implements[i]
		if !ref.Type.IsValid() {
			continue
		}
		switch {
		case ref.Deferred:
			v.report(diag.SemaImplementsDeferredType, ref.Span, ref.Span,
				"mixins cannot implement a deferred type")
		case v.types.IsDisallowedBase(ref.Type):
			v.report(diag.SemaImplementsDisallowedType, ref.Span, ref.Span,
				"'%s' cannot be implemented", v.types.Label(ref.Type))
		}
	}
}

// inheritedClosure collects t plus everything reachable through extends and
// with edges, fully instantiated. Implements edges are deliberately excluded:
// a superclass constraint demands actual inheritance, not an interface claim.
func (v *verifier) inheritedClosure(t types.TypeID) []types.TypeID {
	var out []types.TypeID
	seen := make(map[types.TypeID]struct{})
	var walk func(types.TypeID, int)
	walk = func(t types.TypeID, depth int) {
		if !t.IsValid() || depth > maxInheritDepth {
			return
		}
		if _, ok := seen[t]; ok {
			return
		}
		seen[t] = struct{}{}
		out = append(out, t)
		origin, ok := v.types.Origin(t)
		if !ok {
			return
		}
		cls := v.builder.Decls.Class(v.builder.ClassDeclOf(origin))
		if cls == nil {
			return
		}
		args := v.types.Args(t)
		if cls.Extends.Type.IsValid() {
			walk(v.types.Substitute(cls.Extends.Type, origin, args), depth+1)
		}
		for i := range cls.Mixins {
			if mt := cls.Mixins[i].Type; mt.IsValid() {
				walk(v.types.Substitute(mt, origin, args), depth+1)
			}
		}
	}
	walk(t, 0)
	return out
}

// satisfiedBy reports whether the accumulated inherited set satisfies one
// superclass constraint. The set holds inherited types only, so demanding a
// member with the constraint's own origin keeps interface claims (implements
// clauses) from counting as inheritance.
func (v *verifier) satisfiedBy(set []types.TypeID, constraint types.TypeID) bool {
	cOrigin, nominal := v.types.Origin(constraint)
	for _, s := range set {
		if nominal {
			if so, ok := v.types.Origin(s); !ok || so != cOrigin {
				continue
			}
		}
		if v.types.IsSubtype(s, constraint) {
			return true
		}
	}
	return false
}

// checkSuperInvoked verifies that every member the mixin invokes through
// super has a concrete, signature-compatible implementation below the mixin
// in the application order.
func (v *verifier) checkSuperInvoked(id ast.DeclID, mixinIndex int, mref *ast.TypeRef,
	morigin types.ClassID, mx *ast.MixinDecl, args []types.TypeID) {
	if v.members == nil {
		return
	}
	classID := v.classIDOf(id)
	if !classID.IsValid() {
		return
	}
	for _, nameID := range mx.SuperInvokedNames {
		nm := v.name(nameID)
		impl, ok := v.members.Lookup(classID, nm, members.Query{
			Concrete:   true,
			BelowMixin: mixinIndex,
		})
		if !ok {
			v.report(diag.SemaMixinSuperInvokedMemberMissing, mref.Span, mref.Span,
				"'%s' invokes '%s' through super, but no concrete implementation precedes it",
				v.types.Label(mref.Type), nm)
			continue
		}
		want, wok := v.members.Lookup(morigin, nm, members.Query{BelowMixin: members.WholeHierarchy})
		if !wok || !want.Type.IsValid() || !impl.Type.IsValid() {
			continue
		}
		expected := v.types.Substitute(want.Type, morigin, args)
		if !v.types.IsSubtype(impl.Type, expected) {
			v.report(diag.SemaMixinSuperInvokedMemberMismatch, mref.Span, mref.Span,
				"the implementation of '%s' preceding '%s' has type '%s', which does not satisfy '%s'",
				nm, v.types.Label(mref.Type), v.types.Label(impl.Type), v.types.Label(expected))
		}
	}
}
