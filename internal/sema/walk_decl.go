package sema

import (
	"vela/internal/ast"
	"vela/internal/diag"
	"vela/internal/types"
)

func (v *verifier) walkTopDecl(id ast.DeclID, ctx context) {
	decl := v.builder.Decls.Get(id)
	if !v.contract(decl != nil, "top-level decl must exist") {
		return
	}
	switch decl.Kind {
	case ast.DeclClass:
		v.walkClass(id, ctx)
	case ast.DeclMixin:
		v.walkMixin(id, ctx)
	case ast.DeclExtension:
		v.walkExtension(id, ctx)
	case ast.DeclEnum:
		v.walkEnum(id, ctx)
	case ast.DeclFunc:
		v.countDecl()
		v.walkFunc(id, ctx)
	case ast.DeclVar:
		v.countDecl()
		v.walkVar(id, decl, ctx)
	default:
		v.contract(false, "unexpected top-level decl kind")
	}
}

func (v *verifier) walkClass(id ast.DeclID, ctx context) {
	v.countDecl()
	cls := v.builder.Decls.Class(id)
	if !v.contract(cls != nil, "class payload must exist") {
		return
	}
	ctx.enclosingClass = id

	v.checkClassClauses(id, cls)
	v.checkClassVariance(id, cls)
	v.checkImplicitDefaultCtor(id, cls)
	v.checkClassFieldInit(id, cls)

	for _, m := range cls.Members {
		v.walkMember(id, m, ctx)
	}
}

func (v *verifier) walkMixin(id ast.DeclID, ctx context) {
	v.countDecl()
	mx := v.builder.Decls.Mixin(id)
	if !v.contract(mx != nil, "mixin payload must exist") {
		return
	}
	ctx.enclosingClass = id

	v.checkMixinClauses(id, mx)
	for _, m := range mx.Members {
		v.walkMember(id, m, ctx)
	}
}

func (v *verifier) walkExtension(id ast.DeclID, ctx context) {
	v.countDecl()
	ext := v.builder.Decls.Extension(id)
	if !v.contract(ext != nil, "extension payload must exist") {
		return
	}
	ctx.enclosingExtension = id
	for _, m := range ext.Members {
		v.walkMember(id, m, ctx)
	}
}

func (v *verifier) walkEnum(id ast.DeclID, ctx context) {
	v.countDecl()
	en := v.builder.Decls.Enum(id)
	if !v.contract(en != nil, "enum payload must exist") {
		return
	}
	ctx.enclosingClass = id
	for range en.Constants {
		v.countDecl()
	}
}

func (v *verifier) walkMember(owner, id ast.DeclID, ctx context) {
	decl := v.builder.Decls.Get(id)
	if !v.contract(decl != nil, "member decl must exist") {
		return
	}
	switch decl.Kind {
	case ast.DeclFunc:
		v.countDecl()
		v.walkFunc(id, ctx)
	case ast.DeclCtor:
		v.countDecl()
		v.walkCtor(owner, id, decl, ctx)
	case ast.DeclVar:
		v.countDecl()
		v.walkVar(id, decl, ctx)
	default:
		v.contract(false, "unexpected member decl kind")
	}
}

func (v *verifier) walkFunc(id ast.DeclID, ctx context) {
	decl := v.builder.Decls.Get(id)
	f := v.builder.Decls.Func(id)
	if !v.contract(decl != nil && f != nil, "func payload must exist") {
		return
	}
	fctx := ctx.enterFunction(id, decl.Flags, f.Return, f.ReturnSpan)

	v.checkFunctionShape(decl, f)
	v.walkParams(f.Params, fctx)

	if f.Body.IsValid() {
		v.walkStmt(f.Body, fctx)
	}
}

func (v *verifier) walkCtor(owner, id ast.DeclID, decl *ast.Decl, ctx context) {
	c := v.builder.Decls.Ctor(id)
	if !v.contract(c != nil, "ctor payload must exist") {
		return
	}
	cctx := ctx.enterCtor(id, decl.Flags)

	v.checkCtor(owner, id, decl, c, cctx)
	v.walkParams(c.Params, cctx)

	ictx := cctx
	ictx.inCtorInitializer = true
	for i := range c.Inits {
		init := &c.Inits[i]
		switch init.Kind {
		case ast.InitField:
			v.checkFieldInitializerItem(init)
			if init.Value.IsValid() {
				v.walkExpr(init.Value, ictx)
			}
		case ast.InitSuper:
			for _, a := range init.Args {
				v.walkExpr(a, ictx)
			}
		case ast.InitAssert:
			if init.Value.IsValid() {
				v.walkExpr(init.Value, ictx)
			}
		}
	}

	if c.Body.IsValid() {
		v.walkStmt(c.Body, cctx)
	}
}

// checkFieldInitializerItem verifies the value of a `this.x = e` initializer
// against the field's declared type.
func (v *verifier) checkFieldInitializerItem(init *ast.CtorInit) {
	if !init.Field.IsValid() || !init.Value.IsValid() {
		return
	}
	field := v.builder.Decls.Var(init.Field)
	if field == nil {
		return
	}
	v.checkAssignable(init.Value, field.Type, diag.SemaInvalidAssignment,
		"initializer value")
}

// walkVar handles fields, top-level variables and the declaration half of
// locals (the statement walker calls it after unblocking the scope entry).
func (v *verifier) walkVar(id ast.DeclID, decl *ast.Decl, ctx context) {
	p := v.builder.Decls.Var(id)
	if !v.contract(p != nil, "var payload must exist") {
		return
	}
	if !p.Init.IsValid() {
		return
	}
	vctx := ctx
	if p.VKind == ast.VarField && !decl.Flags.Has(ast.FlagStatic) {
		if decl.Flags.Has(ast.FlagLate) {
			vctx.inLateInit = true
		} else {
			vctx.inFieldInitializer = true
		}
	}
	v.checkAssignable(p.Init, p.Type, diag.SemaInvalidAssignment, "initializer value")
	v.walkExpr(p.Init, vctx)
}

func (v *verifier) walkParams(params []ast.DeclID, ctx context) {
	for _, pid := range params {
		v.countDecl()
		p := v.builder.Decls.Param(pid)
		if p == nil || !p.Default.IsValid() {
			continue
		}
		v.checkAssignable(p.Default, p.Type, diag.SemaInvalidAssignment,
			"default value")
		v.walkExpr(p.Default, ctx)
	}
}

// classIDOf maps a class-like declaration to its nominal identity.
func (v *verifier) classIDOf(id ast.DeclID) types.ClassID {
	switch decl := v.builder.Decls.Get(id); {
	case decl == nil:
		return types.NoClassID
	case decl.Kind == ast.DeclClass:
		if p := v.builder.Decls.Class(id); p != nil {
			return p.Class
		}
	case decl.Kind == ast.DeclMixin:
		if p := v.builder.Decls.Mixin(id); p != nil {
			return p.Class
		}
	case decl.Kind == ast.DeclEnum:
		if p := v.builder.Decls.Enum(id); p != nil {
			return p.Class
		}
	}
	return types.NoClassID
}

func (v *verifier) countDecl() { v.result.Stats.Decls++ }
