package sema

import (
	"vela/internal/ast"
	"vela/internal/diag"
	"vela/internal/source"
	"vela/internal/types"
)

// inferMixinArgs deduces the type arguments of a generic mixin application
// without written arguments by matching the mixin's superclass constraints
// against the supertypes accumulated so far. On failure it reports and
// returns false; the caller then skips the dependent checks.
func (v *verifier) inferMixinArgs(morigin types.ClassID, mx *ast.MixinDecl,
	superSet []types.TypeID, span source.Span) ([]types.TypeID, bool) {
	info := v.types.Class(morigin)
	if info == nil {
		return nil, false
	}
	n := len(info.TypeParams)
	subst := make([]types.TypeID, n)

	for ci := range mx.On {
		con := mx.On[ci].Type
		if !con.IsValid() {
			continue
		}
		conOrigin, ok := v.types.Origin(con)
		if !ok {
			continue // constraint on a non-interface type constrains nothing
		}
		match := types.NoTypeID
		for _, s := range superSet {
			so, sok := v.types.Origin(s)
			if !sok || so != conOrigin {
				continue
			}
			if match.IsValid() && s != match {
				v.report(diag.SemaMixinInferenceInconsistentMatch, span, span,
					"cannot infer type arguments: the application inherits '%s' and '%s'",
					v.types.Label(match), v.types.Label(s))
				return nil, false
			}
			if !match.IsValid() {
				match = s
			}
		}
		if !match.IsValid() {
			v.report(diag.SemaMixinInferenceNoMatch, span, span,
				"cannot infer type arguments: nothing in the application matches the constraint '%s'",
				v.types.Label(con))
			return nil, false
		}
		if !v.unifyConstraint(con, match, morigin, subst) {
			v.report(diag.SemaMixinInferenceNoUnification, span, span,
				"cannot infer type arguments: constraint '%s' does not unify with '%s'",
				v.types.Label(con), v.types.Label(match))
			return nil, false
		}
	}

	// Parameters no constraint mentions default to dynamic.
	dyn := v.types.Builtins().Dynamic
	for i := range subst {
		if !subst[i].IsValid() {
			subst[i] = dyn
		}
	}
	return subst, true
}

// unifyConstraint matches the generic constraint shape against a ground
// supertype, binding the mixin's parameters. A parameter bound twice must
// bind to the identical type.
func (v *verifier) unifyConstraint(pattern, ground types.TypeID, owner types.ClassID,
	subst []types.TypeID) bool {
	if pattern == ground {
		return true
	}
	pt, pok := v.types.Lookup(pattern)
	gt, gok := v.types.Lookup(ground)
	if !pok || !gok {
		return false
	}
	if pt.Kind == types.KindTypeParam && pt.Param.Owner == owner {
		idx := int(pt.Param.Index)
		if idx >= len(subst) {
			return false
		}
		if subst[idx].IsValid() {
			return subst[idx] == ground
		}
		subst[idx] = ground
		return true
	}
	if pt.Kind != gt.Kind {
		return false
	}
	switch pt.Kind {
	case types.KindInterface:
		if pt.Class != gt.Class || len(pt.Args) != len(gt.Args) {
			return false
		}
		for i := range pt.Args {
			if !v.unifyConstraint(pt.Args[i], gt.Args[i], owner, subst) {
				return false
			}
		}
		return true
	case types.KindFunction:
		if len(pt.Fn.Params) != len(gt.Fn.Params) {
			return false
		}
		for i := range pt.Fn.Params {
			if !v.unifyConstraint(pt.Fn.Params[i], gt.Fn.Params[i], owner, subst) {
				return false
			}
		}
		return v.unifyConstraint(pt.Fn.Return, gt.Fn.Return, owner, subst)
	}
	return false
}
