package sema

import (
	"vela/internal/ast"
	"vela/internal/diag"
)

func classLike(kind ast.DeclKind) bool {
	return kind == ast.DeclClass || kind == ast.DeclMixin || kind == ast.DeclEnum
}

// checkIdent applies the unqualified-reference rules: scope-chain ordering,
// implicit self access and ancestor statics.
func (v *verifier) checkIdent(e *ast.Expr, ident *ast.IdentExpr, ctx context) {
	if ident == nil || ident.State != ast.RefResolved || !ident.Ref.IsValid() {
		return
	}
	refDecl := v.builder.Decls.Get(ident.Ref)
	if refDecl == nil {
		return
	}
	if v.pendingAnywhere(ident.Ref) {
		v.reportNote(diag.SemaReferencedBeforeDeclaration, e.Span, e.Span,
			refDecl.NameSpan, "declared here",
			"'%s' is referenced before its declaration", v.name(ident.Name))
	}

	parent := refDecl.Parent
	if !parent.IsValid() {
		return
	}
	parentDecl := v.builder.Decls.Get(parent)
	if parentDecl == nil || !classLike(parentDecl.Kind) {
		return
	}
	static := refDecl.Flags.Has(ast.FlagStatic) || refDecl.Kind == ast.DeclEnumConstant
	if static {
		if ctx.enclosingClass.IsValid() && parent != ctx.enclosingClass &&
			v.inheritsFrom(ctx.enclosingClass, parent) {
			v.report(diag.SemaUnqualifiedAncestorStatic, e.Span, e.Span,
				"static member '%s' of '%s' must be qualified with the class name",
				v.name(ident.Name), v.builder.DeclName(parent))
		}
		return
	}
	if refDecl.Kind == ast.DeclFunc || refDecl.Kind == ast.DeclVar {
		// Unqualified instance member access goes through an implicit
		// self reference.
		v.checkSelfReference(e, ctx)
	}
}

// checkSelfReference rejects `this`, `super` and implicit self access in the
// contexts where no instance exists yet or ever. Late initializers run after
// construction and may touch the instance.
func (v *verifier) checkSelfReference(e *ast.Expr, ctx context) {
	if ctx.inLateInit {
		return
	}
	switch {
	case ctx.inFactory:
		v.report(diag.SemaThisInFactory, e.Span, e.Span,
			"factory constructors have no instance to refer to")
	case ctx.inCtorInitializer:
		v.report(diag.SemaThisInInitializer, e.Span, e.Span,
			"the instance cannot be referenced in a constructor initializer")
	case ctx.inFieldInitializer:
		v.report(diag.SemaThisInFieldInitializer, e.Span, e.Span,
			"the instance cannot be referenced in a field initializer")
	case ctx.isStatic:
		v.report(diag.SemaThisInStaticMember, e.Span, e.Span,
			"static context has no instance to refer to")
	}
}

// checkMemberAccess enforces the receiver-shape rules: static members need a
// type receiver, instance members an instance receiver. Explicit extension
// applications are exempt.
func (v *verifier) checkMemberAccess(m *ast.MemberExpr, ctx context) {
	if m.State != ast.RefResolved || !m.Ref.IsValid() {
		return
	}
	target := v.builder.Decls.Get(m.Ref)
	if target == nil {
		return
	}
	if recv := v.builder.Exprs.Get(m.Recv); recv != nil && recv.Kind == ast.ExprExtOverride {
		return
	}
	static := target.Flags.Has(ast.FlagStatic) || target.Kind == ast.DeclEnumConstant
	recvIsType := v.isTypeReference(m.Recv)
	switch {
	case recvIsType && !static && (target.Kind == ast.DeclFunc || target.Kind == ast.DeclVar):
		v.report(diag.SemaInstanceAccessThroughType, m.NameSpan, m.NameSpan,
			"instance member '%s' cannot be accessed through a type name",
			v.name(m.Name))
	case !recvIsType && static:
		v.report(diag.SemaStaticAccessThroughInstance, m.NameSpan, m.NameSpan,
			"static member '%s' cannot be accessed through an instance",
			v.name(m.Name))
	}
}

// isTypeReference reports whether an expression names a type rather than a
// value.
func (v *verifier) isTypeReference(id ast.ExprID) bool {
	e := v.builder.Exprs.Get(id)
	if e == nil || e.Kind != ast.ExprIdent {
		return false
	}
	ident := v.builder.Exprs.Ident(id)
	if ident == nil || ident.State != ast.RefResolved || !ident.Ref.IsValid() {
		return false
	}
	decl := v.builder.Decls.Get(ident.Ref)
	return decl != nil && classLike(decl.Kind)
}

// inheritsFrom reports whether ancestor appears in the inheritance
// linearization of class, excluding class itself.
func (v *verifier) inheritsFrom(class, ancestor ast.DeclID) bool {
	if v.members == nil {
		return false
	}
	classID := v.classIDOf(class)
	ancestorID := v.classIDOf(ancestor)
	if !classID.IsValid() || !ancestorID.IsValid() {
		return false
	}
	for _, c := range v.members.Linearization(classID) {
		if c != classID && c == ancestorID {
			return true
		}
	}
	return false
}
