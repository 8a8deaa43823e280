package sema

import (
	"vela/internal/ast"
	"vela/internal/meta"
	"vela/internal/source"
	"vela/internal/types"
)

// context is the scoped traversal state. It is passed by value: every mutation
// made for a node's subtree vanishes when the walk function returns, on every
// exit path, so restore-on-exit is structural rather than bookkeeping.
type context struct {
	unit    ast.UnitID
	library meta.LibraryID

	enclosingClass     ast.DeclID // class, mixin or enum declaration
	enclosingExtension ast.DeclID

	enclosingFunc    ast.DeclID // function, method or constructor
	isAsync          bool
	isGenerator      bool
	isStatic         bool // static member or top-level context
	inConstCtor      bool
	inFactory        bool
	inGenerativeCtor bool

	inCatch            bool
	inCtorInitializer  bool
	inFieldInitializer bool // non-late instance field initializer
	inLateInit         bool

	returnType types.TypeID
	returnSpan source.Span
}

// enterFunction derives the context for a function-like body.
func (c context) enterFunction(id ast.DeclID, flags ast.DeclFlags, ret types.TypeID, retSpan source.Span) context {
	c.enclosingFunc = id
	c.isAsync = flags.Has(ast.FlagAsync)
	c.isGenerator = flags.Has(ast.FlagGenerator)
	c.isStatic = flags.Has(ast.FlagStatic) ||
		(!c.enclosingClass.IsValid() && !c.enclosingExtension.IsValid())
	c.inConstCtor = false
	c.inFactory = false
	c.inGenerativeCtor = false
	c.inCtorInitializer = false
	c.inFieldInitializer = false
	c.returnType = ret
	c.returnSpan = retSpan
	return c
}

// enterCtor derives the context for a constructor.
func (c context) enterCtor(id ast.DeclID, flags ast.DeclFlags) context {
	c.enclosingFunc = id
	c.isAsync = false
	c.isGenerator = false
	c.isStatic = false
	c.inConstCtor = flags.Has(ast.FlagConst)
	c.inFactory = flags.Has(ast.FlagFactory)
	c.inGenerativeCtor = !flags.Has(ast.FlagFactory)
	c.returnType = types.NoTypeID
	c.returnSpan = source.Span{}
	return c
}
