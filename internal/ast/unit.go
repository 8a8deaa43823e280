package ast

import (
	"vela/internal/meta"
	"vela/internal/source"
)

// Unit is one compilation unit: the directive list followed by the top-level
// declarations, traversed in source order.
type Unit struct {
	Library    meta.LibraryID
	Name       source.StringID
	Directives []DirectiveID
	Decls      []DeclID
	Span       source.Span
}

type DirectiveKind uint8

const (
	DirImport DirectiveKind = iota
	DirExport
)

// Directive is an import or export, with the target library resolved by
// upstream loading.
type Directive struct {
	Kind     DirectiveKind
	URI      source.StringID
	Target   meta.LibraryID
	Prefix   source.StringID
	Deferred bool
	Span     source.Span
}

type Units struct {
	arena      *Arena[Unit]
	directives *Arena[Directive]
}

func NewUnits(capHint uint) *Units {
	return &Units{
		arena:      NewArena[Unit](capHint),
		directives: NewArena[Directive](capHint * 4),
	}
}

func (u *Units) New(library meta.LibraryID, name source.StringID, span source.Span) UnitID {
	return UnitID(u.arena.Allocate(Unit{Library: library, Name: name, Span: span}))
}

func (u *Units) Get(id UnitID) *Unit {
	return u.arena.Get(uint32(id))
}

func (u *Units) NewDirective(d Directive) DirectiveID {
	return DirectiveID(u.directives.Allocate(d))
}

func (u *Units) Directive(id DirectiveID) *Directive {
	return u.directives.Get(uint32(id))
}

// PushDirective appends a directive to a unit.
func (u *Units) PushDirective(unit UnitID, d DirectiveID) {
	if un := u.Get(unit); un != nil {
		un.Directives = append(un.Directives, d)
	}
}

// PushDecl appends a top-level declaration to a unit.
func (u *Units) PushDecl(unit UnitID, d DeclID) {
	if un := u.Get(unit); un != nil {
		un.Decls = append(un.Decls, d)
	}
}
