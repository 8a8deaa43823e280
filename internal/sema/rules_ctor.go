package sema

import (
	"vela/internal/ast"
	"vela/internal/diag"
	"vela/internal/source"
)

func (v *verifier) checkCtor(owner, id ast.DeclID, decl *ast.Decl, c *ast.CtorDecl, ctx context) {
	if c.Redirect.IsValid() {
		v.checkRedirectCycle(id, decl)
	}
	if ctx.inConstCtor {
		v.checkConstCtor(owner, id, decl, c)
	}
	if ctx.inGenerativeCtor {
		if !c.Redirect.IsValid() && !v.hasSuperInit(c) {
			v.checkImplicitSuper(owner, decl)
		}
		v.checkCtorFieldInit(owner, id, decl, c)
	}
}

// ctorLabel renders "C" or "C.named" for diagnostics.
func (v *verifier) ctorLabel(id ast.DeclID) string {
	decl := v.builder.Decls.Get(id)
	if decl == nil {
		return "?"
	}
	class := v.builder.DeclName(decl.Parent)
	if decl.Name == 0 {
		return class
	}
	return class + "." + v.name(decl.Name)
}

func (v *verifier) hasSuperInit(c *ast.CtorDecl) bool {
	for i := range c.Inits {
		if c.Inits[i].Kind == ast.InitSuper {
			return true
		}
	}
	return false
}

// checkRedirectCycle reports a redirect cycle exactly once, at the redirect
// clause that closes it, and remembers every constructor on the cycle so the
// other members stay silent.
func (v *verifier) checkRedirectCycle(origin ast.DeclID, originDecl *ast.Decl) {
	if _, done := v.redirectCycles[origin]; done {
		return
	}
	seen := map[ast.DeclID]struct{}{origin: {}}
	path := []ast.DeclID{origin}
	cur := origin
	for {
		c := v.builder.Decls.Ctor(cur)
		if c == nil || !c.Redirect.IsValid() {
			return
		}
		next := c.Redirect
		if next == origin {
			span := c.RedirectSpan
			if span.Empty() {
				if d := v.builder.Decls.Get(cur); d != nil {
					span = d.Span
				}
			}
			v.report(diag.SemaRecursiveCtorRedirect, originDecl.Span, span,
				"constructor redirection for '%s' forms a cycle",
				v.ctorLabel(origin))
			for _, p := range path {
				v.redirectCycles[p] = struct{}{}
			}
			return
		}
		if _, ok := seen[next]; ok {
			// A cycle that does not pass through origin; its own members
			// report it when they are visited.
			return
		}
		seen[next] = struct{}{}
		path = append(path, next)
		cur = next
	}
}

// checkConstCtor enforces const-constructor legality: no mutable instance
// state, including state introduced by applied mixins, and only const
// constructors reachable through super calls and redirects.
func (v *verifier) checkConstCtor(owner, id ast.DeclID, decl *ast.Decl, c *ast.CtorDecl) {
	site := decl.Span

	cls := v.builder.Decls.Class(owner)
	if cls != nil {
		mutable, where := v.mutableInstanceField(owner, cls)
		if mutable.IsValid() {
			v.reportNote(diag.SemaConstCtorNonFinalField, site, decl.NameSpan,
				v.declNameSpan(mutable), where,
				"const constructor in a class with non-final field '%s'",
				v.builder.DeclName(mutable))
		}
	}

	if c.Redirect.IsValid() {
		if _, cyclic := v.redirectCycles[id]; !cyclic {
			if target := v.builder.Decls.Get(c.Redirect); target != nil &&
				!target.Flags.Has(ast.FlagConst) {
				span := c.RedirectSpan
				if span.Empty() {
					span = decl.NameSpan
				}
				v.report(diag.SemaConstCtorRedirectNonConst, site, span,
					"const constructor redirects to the non-const '%s'",
					v.ctorLabel(c.Redirect))
			}
		}
		return
	}

	superCtor := v.explicitSuperTarget(c)
	if !superCtor.IsValid() && cls != nil {
		if found, status := v.findUnnamedSuperCtor(owner); status == superCtorOK {
			superCtor = found
		}
	}
	if superCtor.IsValid() {
		if target := v.builder.Decls.Get(superCtor); target != nil &&
			!target.Flags.Has(ast.FlagConst) {
			v.report(diag.SemaConstCtorNonConstSuper, site, decl.NameSpan,
				"const constructor invokes the non-const super constructor '%s'",
				v.ctorLabel(superCtor))
		}
	}
}

func (v *verifier) explicitSuperTarget(c *ast.CtorDecl) ast.DeclID {
	for i := range c.Inits {
		if c.Inits[i].Kind == ast.InitSuper {
			return c.Inits[i].Target
		}
	}
	return ast.NoDeclID
}

// mutableInstanceField finds a non-final non-late instance field declared by
// the class or introduced by one of its applied mixins.
func (v *verifier) mutableInstanceField(owner ast.DeclID, cls *ast.ClassDecl) (ast.DeclID, string) {
	if f := v.mutableFieldIn(cls.Members); f.IsValid() {
		return f, "declared here"
	}
	for _, mref := range cls.Mixins {
		morigin, ok := v.types.Origin(mref.Type)
		if !ok {
			continue
		}
		mx := v.builder.Decls.Mixin(v.builder.ClassDeclOf(morigin))
		if mx == nil {
			continue
		}
		if f := v.mutableFieldIn(mx.Members); f.IsValid() {
			return f, "introduced by an applied mixin here"
		}
	}
	return ast.NoDeclID, ""
}

func (v *verifier) mutableFieldIn(members []ast.DeclID) ast.DeclID {
	for _, m := range members {
		decl := v.builder.Decls.Get(m)
		if decl == nil || decl.Kind != ast.DeclVar {
			continue
		}
		if decl.Flags.Has(ast.FlagStatic) {
			continue
		}
		if !decl.Flags.Has(ast.FlagFinal) && !decl.Flags.Has(ast.FlagConst) {
			return m
		}
	}
	return ast.NoDeclID
}

type superCtorStatus uint8

const (
	superCtorOK superCtorStatus = iota
	superCtorNone    // no resolvable superclass, nothing to invoke
	superCtorMissing // superclass has constructors but no unnamed one
	superCtorFactory
	superCtorRequiredParams
)

// findUnnamedSuperCtor locates the constructor an implicit super invocation
// would call for the given class declaration.
func (v *verifier) findUnnamedSuperCtor(classDecl ast.DeclID) (ast.DeclID, superCtorStatus) {
	cls := v.builder.Decls.Class(classDecl)
	if cls == nil || !cls.Extends.Type.IsValid() {
		return ast.NoDeclID, superCtorNone
	}
	origin, ok := v.types.Origin(cls.Extends.Type)
	if !ok {
		return ast.NoDeclID, superCtorNone
	}
	superDecl := v.builder.ClassDeclOf(origin)
	super := v.builder.Decls.Class(superDecl)
	if super == nil {
		return ast.NoDeclID, superCtorNone
	}
	var unnamed ast.DeclID
	hasCtor := false
	for _, m := range super.Members {
		decl := v.builder.Decls.Get(m)
		if decl == nil || decl.Kind != ast.DeclCtor {
			continue
		}
		hasCtor = true
		if decl.Name == 0 {
			unnamed = m
			break
		}
	}
	if !hasCtor {
		return ast.NoDeclID, superCtorOK // implicit default constructor
	}
	if !unnamed.IsValid() {
		return ast.NoDeclID, superCtorMissing
	}
	decl := v.builder.Decls.Get(unnamed)
	if decl.Flags.Has(ast.FlagFactory) {
		return unnamed, superCtorFactory
	}
	if ctor := v.builder.Decls.Ctor(unnamed); ctor != nil {
		for _, pid := range ctor.Params {
			if pd := v.builder.Decls.Get(pid); pd != nil && pd.Flags.Has(ast.FlagRequired) {
				return unnamed, superCtorRequiredParams
			}
		}
	}
	return unnamed, superCtorOK
}

// checkImplicitSuper verifies that the implicit super invocation of a
// generative constructor without an explicit super clause has a legal target.
func (v *verifier) checkImplicitSuper(owner ast.DeclID, decl *ast.Decl) {
	target, status := v.findUnnamedSuperCtor(owner)
	span := decl.NameSpan
	if span.Empty() {
		span = decl.Span
	}
	switch status {
	case superCtorMissing:
		v.report(diag.SemaMissingDefaultSuperCtor, span, span,
			"the superclass of '%s' has no default constructor to invoke",
			v.builder.DeclName(owner))
	case superCtorFactory:
		v.reportNote(diag.SemaNonGenerativeSuperCtor, span, span,
			v.declNameSpan(target), "factory constructor here",
			"the implicitly invoked super constructor of '%s' is a factory",
			v.builder.DeclName(owner))
	case superCtorRequiredParams:
		v.reportNote(diag.SemaImplicitSuperHasRequiredParams, span, span,
			v.declNameSpan(target), "constructor declared here",
			"the implicitly invoked super constructor of '%s' has required parameters",
			v.builder.DeclName(owner))
	}
}

// checkCtorFieldInit verifies that every field demanding initialization is
// covered by this generative constructor, through a field formal, an
// initializer-list entry or a declaration-site initializer.
func (v *verifier) checkCtorFieldInit(owner, id ast.DeclID, decl *ast.Decl, c *ast.CtorDecl) {
	if c.Redirect.IsValid() {
		return // the redirect target initializes the instance
	}
	cls := v.builder.Decls.Class(owner)
	if cls == nil {
		return
	}
	covered := make(map[ast.DeclID]struct{})
	for _, pid := range c.Params {
		if p := v.builder.Decls.Param(pid); p != nil && p.FieldFormal.IsValid() {
			covered[p.FieldFormal] = struct{}{}
		}
	}
	for i := range c.Inits {
		if c.Inits[i].Kind == ast.InitField && c.Inits[i].Field.IsValid() {
			covered[c.Inits[i].Field] = struct{}{}
		}
	}
	v.reportUninitializedFields(cls, covered, decl.Span)
}

// checkImplicitDefaultCtor covers classes that declare no constructor at
// all: their synthesized default constructor still invokes the super default
// constructor, so its legality is reported at the class name.
func (v *verifier) checkImplicitDefaultCtor(id ast.DeclID, cls *ast.ClassDecl) {
	for _, m := range cls.Members {
		if decl := v.builder.Decls.Get(m); decl != nil && decl.Kind == ast.DeclCtor {
			return
		}
	}
	classDecl := v.builder.Decls.Get(id)
	if classDecl == nil {
		return
	}
	v.checkImplicitSuper(id, classDecl)
}

// checkClassFieldInit covers classes without any generative constructor,
// where declaration-site initializers are the only chance fields get.
func (v *verifier) checkClassFieldInit(id ast.DeclID, cls *ast.ClassDecl) {
	for _, m := range cls.Members {
		decl := v.builder.Decls.Get(m)
		if decl != nil && decl.Kind == ast.DeclCtor && !decl.Flags.Has(ast.FlagFactory) {
			return // per-constructor checks handle it
		}
	}
	classDecl := v.builder.Decls.Get(id)
	if classDecl == nil {
		return
	}
	v.reportUninitializedFields(cls, nil, classDecl.Span)
}

// reportUninitializedFields emits one diagnostic per uncovered field, at the
// field's name. Late fields, nullable fields and fields of dynamic type may
// legally start unset; final fields may not, whatever their type.
func (v *verifier) reportUninitializedFields(cls *ast.ClassDecl, covered map[ast.DeclID]struct{}, site source.Span) {
	for _, m := range cls.Members {
		decl := v.builder.Decls.Get(m)
		if decl == nil || decl.Kind != ast.DeclVar {
			continue
		}
		if decl.Flags.Has(ast.FlagStatic) || decl.Flags.Has(ast.FlagLate) ||
			decl.Flags.Has(ast.FlagConst) {
			continue
		}
		field := v.builder.Decls.Var(m)
		if field == nil || field.Init.IsValid() {
			continue
		}
		if _, ok := covered[m]; ok {
			continue
		}
		final := decl.Flags.Has(ast.FlagFinal)
		if !final && (!field.Type.IsValid() || v.types.IsNullable(field.Type) ||
			v.types.IsDynamic(field.Type)) {
			continue
		}
		span := decl.NameSpan
		if span.Empty() {
			span = decl.Span
		}
		if final {
			v.report(diag.SemaFinalFieldNotInitialized, site, span,
				"final field '%s' must be initialized", v.builder.DeclName(m))
		} else {
			v.report(diag.SemaNonNullableFieldNotInitialized, site, span,
				"non-nullable field '%s' must be initialized", v.builder.DeclName(m))
		}
	}
}
