package ast

import (
	"vela/internal/source"
	"vela/internal/types"
)

// Hints sizes the arenas up front.
type Hints struct{ Units, Decls, Stmts, Exprs uint }

// Builder owns the arenas of one resolved tree plus the string interner and
// the mapping from nominal ClassIDs back to their declarations. Upstream
// phases populate it; the verifier treats the finished tree as immutable.
type Builder struct {
	Units   *Units
	Decls   *Decls
	Stmts   *Stmts
	Exprs   *Exprs
	Strings *source.Interner

	classDecl map[types.ClassID]DeclID
}

func NewBuilder(hints Hints) *Builder {
	if hints.Units == 0 {
		hints.Units = 1 << 3
	}
	if hints.Decls == 0 {
		hints.Decls = 1 << 7
	}
	if hints.Stmts == 0 {
		hints.Stmts = 1 << 8
	}
	if hints.Exprs == 0 {
		hints.Exprs = 1 << 8
	}
	return &Builder{
		Units:     NewUnits(hints.Units),
		Decls:     NewDecls(hints.Decls),
		Stmts:     NewStmts(hints.Stmts),
		Exprs:     NewExprs(hints.Exprs),
		Strings:   source.NewInterner(),
		classDecl: make(map[types.ClassID]DeclID, 16),
	}
}

// BindClass records that class is declared by decl, so clause types can be
// traced back to their declarations.
func (b *Builder) BindClass(class types.ClassID, decl DeclID) {
	if class.IsValid() && decl.IsValid() {
		b.classDecl[class] = decl
	}
}

// ClassDeclOf returns the declaration behind a registered ClassID.
func (b *Builder) ClassDeclOf(class types.ClassID) DeclID {
	return b.classDecl[class]
}

// Name resolves an interned name for diagnostics; "" when absent.
func (b *Builder) Name(id source.StringID) string {
	s, _ := b.Strings.Lookup(id)
	return s
}

// DeclName is shorthand for the name of a declaration.
func (b *Builder) DeclName(id DeclID) string {
	decl := b.Decls.Get(id)
	if decl == nil {
		return ""
	}
	return b.Name(decl.Name)
}
