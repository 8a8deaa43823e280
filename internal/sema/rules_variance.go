package sema

import (
	"vela/internal/ast"
	"vela/internal/diag"
	"vela/internal/source"
	"vela/internal/types"
)

// checkClassVariance verifies every explicitly annotated type parameter of a
// class against all its occurrence positions: superinterface clauses, type
// parameter bounds, member signatures and field types. One diagnostic per
// offending occurrence.
func (v *verifier) checkClassVariance(id ast.DeclID, cls *ast.ClassDecl) {
	for _, tpID := range cls.TypeParams {
		tp := v.builder.Decls.TypeParam(tpID)
		if tp == nil || !tp.Explicit {
			continue
		}
		tpName := v.builder.DeclName(tpID)
		ref := types.ParamRef{Owner: cls.Class, Index: tp.Index}
		vc := varianceCheck{v: v, ref: ref, declared: tp.Variance, name: tpName}

		if cls.Extends.Type.IsValid() {
			vc.walk(cls.Extends.Type, types.Covariant, cls.Extends.Span,
				diag.SemaVarianceInvalidSuperinterface)
		}
		for i := range cls.Implements {
			if t := cls.Implements[i].Type; t.IsValid() {
				vc.walk(t, types.Covariant, cls.Implements[i].Span,
					diag.SemaVarianceInvalidSuperinterface)
			}
		}
		for i := range cls.Mixins {
			if t := cls.Mixins[i].Type; t.IsValid() {
				vc.walk(t, types.Covariant, cls.Mixins[i].Span,
					diag.SemaVarianceInvalidSuperinterface)
			}
		}

		// Bounds are both an upper limit on instantiations and a source of
		// member types, so they admit only invariant occurrences.
		for _, boundedID := range cls.TypeParams {
			bounded := v.builder.Decls.TypeParam(boundedID)
			if bounded == nil || !bounded.Bound.IsValid() {
				continue
			}
			span := bounded.BoundSpan
			if span.Empty() {
				span = v.declNameSpan(boundedID)
			}
			vc.walk(bounded.Bound, types.Invariant, span, diag.SemaVarianceInvalidPosition)
		}

		for _, m := range cls.Members {
			vc.member(m)
		}
	}
}

type varianceCheck struct {
	v        *verifier
	ref      types.ParamRef
	declared types.Variance
	name     string
}

func (vc *varianceCheck) member(id ast.DeclID) {
	decl := vc.v.builder.Decls.Get(id)
	if decl == nil || decl.Flags.Has(ast.FlagStatic) {
		return
	}
	switch decl.Kind {
	case ast.DeclFunc:
		f := vc.v.builder.Decls.Func(id)
		if f == nil {
			return
		}
		for _, pid := range f.Params {
			p := vc.v.builder.Decls.Param(pid)
			if p == nil || !p.Type.IsValid() {
				continue
			}
			span := p.TypeSpan
			if span.Empty() {
				span = vc.v.declNameSpan(pid)
			}
			vc.walk(p.Type, types.Contravariant, span, diag.SemaVarianceInvalidPosition)
		}
		if f.Return.IsValid() && f.FKind != ast.FuncSetter {
			span := f.ReturnSpan
			if span.Empty() {
				span = decl.NameSpan
			}
			vc.walk(f.Return, types.Covariant, span, diag.SemaVarianceInvalidPosition)
		}
	case ast.DeclVar:
		field := vc.v.builder.Decls.Var(id)
		if field == nil || !field.Type.IsValid() {
			return
		}
		// A mutable field is readable and writable, so its type sits in
		// both positions at once.
		pos := types.Invariant
		if decl.Flags.Has(ast.FlagFinal) || decl.Flags.Has(ast.FlagConst) {
			pos = types.Covariant
		}
		span := field.TypeSpan
		if span.Empty() {
			span = decl.NameSpan
		}
		vc.walk(field.Type, pos, span, diag.SemaVarianceInvalidPosition)
	}
}

// walk descends into t computing the variance of each position, and reports
// every occurrence of the checked parameter whose position the declared
// variance cannot serve.
func (vc *varianceCheck) walk(t types.TypeID, pos types.Variance, span source.Span, code diag.Code) {
	tt, ok := vc.v.types.Lookup(t)
	if !ok {
		return
	}
	switch tt.Kind {
	case types.KindTypeParam:
		if tt.Param == vc.ref && !vc.declared.GreaterThanOrEqual(pos) {
			vc.v.report(code, span, span,
				"'%s' is declared %s but occurs in a %s position",
				vc.name, vc.declared, pos)
		}
	case types.KindInterface:
		info := vc.v.types.Class(tt.Class)
		for i, arg := range tt.Args {
			inner := types.Covariant
			if info != nil && i < len(info.TypeParams) {
				inner = info.TypeParams[i].Variance
			}
			vc.walk(arg, types.Combine(pos, inner), span, code)
		}
	case types.KindFunction:
		for _, p := range tt.Fn.Params {
			vc.walk(p, types.Combine(pos, types.Contravariant), span, code)
		}
		if tt.Fn.Return.IsValid() {
			vc.walk(tt.Fn.Return, pos, span, code)
		}
	}
}
