package ast

import (
	"vela/internal/source"
	"vela/internal/types"
)

// DeclKind enumerates declared entities.
type DeclKind uint8

const (
	DeclInvalid DeclKind = iota
	DeclClass
	DeclMixin
	DeclExtension
	DeclEnum
	DeclEnumConstant
	DeclFunc
	DeclCtor
	DeclVar
	DeclParam
	DeclTypeParam
)

// DeclFlags carries the modifier bits shared by all declaration kinds.
type DeclFlags uint16

const (
	FlagStatic DeclFlags = 1 << iota
	FlagFinal
	FlagConst
	FlagLate
	FlagAbstract
	FlagExternal
	FlagFactory
	FlagAsync
	FlagGenerator
	// FlagRequired marks parameters that must be supplied at every call.
	FlagRequired
)

func (f DeclFlags) Has(bit DeclFlags) bool { return f&bit != 0 }

// Decl is the common header of every declared entity. Kind-specific payloads
// live in dedicated arenas, linked through the payload index.
type Decl struct {
	Kind     DeclKind
	Flags    DeclFlags
	Name     source.StringID
	Span     source.Span
	NameSpan source.Span
	Parent   DeclID
	payload  uint32
}

// TypeRef is a resolved type mention in a clause position (extends,
// implements, with, on). Deferred marks types named through a deferred
// import prefix; ExplicitArgs distinguishes written type arguments from
// arguments still to be inferred.
type TypeRef struct {
	Type         types.TypeID
	Span         source.Span
	Deferred     bool
	ExplicitArgs bool
}

// ClassDecl is the payload of a class declaration.
type ClassDecl struct {
	Class      types.ClassID
	TypeParams []DeclID
	Extends    TypeRef // zero value when the class extends Object implicitly
	Implements []TypeRef
	Mixins     []TypeRef
	Members    []DeclID
}

// MixinDecl is the payload of a mixin declaration. On lists the superclass
// constraints; SuperInvokedNames the member names the mixin body invokes
// through an implicit super reference (collected by upstream resolution).
type MixinDecl struct {
	Class             types.ClassID
	TypeParams        []DeclID
	On                []TypeRef
	Implements        []TypeRef
	Members           []DeclID
	SuperInvokedNames []source.StringID
}

// ExtensionDecl is the payload of an extension declaration.
type ExtensionDecl struct {
	On      TypeRef
	Members []DeclID
}

// EnumDecl is the payload of an enum declaration.
type EnumDecl struct {
	Class     types.ClassID
	Constants []DeclID
}

// FuncKind refines DeclFunc.
type FuncKind uint8

const (
	FuncTopLevel FuncKind = iota
	FuncMethod
	FuncGetter
	FuncSetter
	FuncLocal
)

// FuncDecl is the payload of a function-like declaration (except
// constructors, which have their own payload).
type FuncDecl struct {
	FKind      FuncKind
	Params     []DeclID
	Return     types.TypeID
	ReturnSpan source.Span
	Body       StmtID
}

// CtorInitKind classifies initializer-list items.
type CtorInitKind uint8

const (
	InitField CtorInitKind = iota
	InitSuper
	InitAssert
)

// CtorInit is one initializer-list item of a generative constructor.
type CtorInit struct {
	Kind   CtorInitKind
	Field  DeclID  // InitField
	Target DeclID  // InitSuper: the resolved super constructor
	Value  ExprID  // InitField value / InitAssert condition
	Args   []ExprID
	Span   source.Span
}

// CtorDecl is the payload of a constructor. Redirect is the target of a
// redirecting constructor (generative `this(...)` or factory `= C`), with
// RedirectSpan pointing at the redirect clause.
type CtorDecl struct {
	Params       []DeclID
	Inits        []CtorInit
	Redirect     DeclID
	RedirectSpan source.Span
	Body         StmtID
}

// VarKind refines DeclVar.
type VarKind uint8

const (
	VarField VarKind = iota
	VarTopLevel
	VarLocal
)

// VarDecl is the payload of a variable-like declaration.
type VarDecl struct {
	VKind    VarKind
	Type     types.TypeID
	TypeSpan source.Span
	Init     ExprID
}

// ParamDecl is the payload of a parameter. FieldFormal links `this.x`
// parameters to the initialized field.
type ParamDecl struct {
	Type        types.TypeID
	TypeSpan    source.Span
	FieldFormal DeclID
	Default     ExprID
}

// TypeParamDecl is the payload of a type parameter.
type TypeParamDecl struct {
	Index     uint32
	Variance  types.Variance
	Explicit  bool // variance written by the user
	Bound     types.TypeID
	BoundSpan source.Span
}

// Decls stores declaration headers plus the kind-specific payload arenas.
type Decls struct {
	arena      *Arena[Decl]
	classes    *Arena[ClassDecl]
	mixins     *Arena[MixinDecl]
	extensions *Arena[ExtensionDecl]
	enums      *Arena[EnumDecl]
	funcs      *Arena[FuncDecl]
	ctors      *Arena[CtorDecl]
	vars       *Arena[VarDecl]
	params     *Arena[ParamDecl]
	typeParams *Arena[TypeParamDecl]
}

func NewDecls(capHint uint) *Decls {
	return &Decls{
		arena:      NewArena[Decl](capHint),
		classes:    NewArena[ClassDecl](capHint / 8),
		mixins:     NewArena[MixinDecl](capHint / 8),
		extensions: NewArena[ExtensionDecl](capHint / 8),
		enums:      NewArena[EnumDecl](capHint / 8),
		funcs:      NewArena[FuncDecl](capHint / 4),
		ctors:      NewArena[CtorDecl](capHint / 8),
		vars:       NewArena[VarDecl](capHint / 4),
		params:     NewArena[ParamDecl](capHint / 2),
		typeParams: NewArena[TypeParamDecl](capHint / 8),
	}
}

// New allocates the declaration header. Payloads are attached afterwards via
// the Set* methods, so recursive structures (members referencing their
// parent) can be built in two phases.
func (d *Decls) New(kind DeclKind, name source.StringID, span, nameSpan source.Span, flags DeclFlags) DeclID {
	return DeclID(d.arena.Allocate(Decl{
		Kind:     kind,
		Flags:    flags,
		Name:     name,
		Span:     span,
		NameSpan: nameSpan,
	}))
}

func (d *Decls) Get(id DeclID) *Decl {
	return d.arena.Get(uint32(id))
}

// SetParent records the enclosing declaration.
func (d *Decls) SetParent(id, parent DeclID) {
	if decl := d.Get(id); decl != nil {
		decl.Parent = parent
	}
}

func (d *Decls) SetClass(id DeclID, payload ClassDecl) {
	d.set(id, DeclClass, d.classes.Allocate(payload))
}

func (d *Decls) SetMixin(id DeclID, payload MixinDecl) {
	d.set(id, DeclMixin, d.mixins.Allocate(payload))
}

func (d *Decls) SetExtension(id DeclID, payload ExtensionDecl) {
	d.set(id, DeclExtension, d.extensions.Allocate(payload))
}

func (d *Decls) SetEnum(id DeclID, payload EnumDecl) {
	d.set(id, DeclEnum, d.enums.Allocate(payload))
}

func (d *Decls) SetFunc(id DeclID, payload FuncDecl) {
	d.set(id, DeclFunc, d.funcs.Allocate(payload))
}

func (d *Decls) SetCtor(id DeclID, payload CtorDecl) {
	d.set(id, DeclCtor, d.ctors.Allocate(payload))
}

func (d *Decls) SetVar(id DeclID, payload VarDecl) {
	d.set(id, DeclVar, d.vars.Allocate(payload))
}

func (d *Decls) SetParam(id DeclID, payload ParamDecl) {
	d.set(id, DeclParam, d.params.Allocate(payload))
}

func (d *Decls) SetTypeParam(id DeclID, payload TypeParamDecl) {
	d.set(id, DeclTypeParam, d.typeParams.Allocate(payload))
}

func (d *Decls) set(id DeclID, kind DeclKind, payload uint32) {
	decl := d.Get(id)
	if decl == nil || decl.Kind != kind {
		return
	}
	decl.payload = payload
}

func (d *Decls) Class(id DeclID) *ClassDecl {
	if decl := d.Get(id); decl != nil && decl.Kind == DeclClass {
		return d.classes.Get(decl.payload)
	}
	return nil
}

func (d *Decls) Mixin(id DeclID) *MixinDecl {
	if decl := d.Get(id); decl != nil && decl.Kind == DeclMixin {
		return d.mixins.Get(decl.payload)
	}
	return nil
}

func (d *Decls) Extension(id DeclID) *ExtensionDecl {
	if decl := d.Get(id); decl != nil && decl.Kind == DeclExtension {
		return d.extensions.Get(decl.payload)
	}
	return nil
}

func (d *Decls) Enum(id DeclID) *EnumDecl {
	if decl := d.Get(id); decl != nil && decl.Kind == DeclEnum {
		return d.enums.Get(decl.payload)
	}
	return nil
}

func (d *Decls) Func(id DeclID) *FuncDecl {
	if decl := d.Get(id); decl != nil && decl.Kind == DeclFunc {
		return d.funcs.Get(decl.payload)
	}
	return nil
}

func (d *Decls) Ctor(id DeclID) *CtorDecl {
	if decl := d.Get(id); decl != nil && decl.Kind == DeclCtor {
		return d.ctors.Get(decl.payload)
	}
	return nil
}

func (d *Decls) Var(id DeclID) *VarDecl {
	if decl := d.Get(id); decl != nil && decl.Kind == DeclVar {
		return d.vars.Get(decl.payload)
	}
	return nil
}

func (d *Decls) Param(id DeclID) *ParamDecl {
	if decl := d.Get(id); decl != nil && decl.Kind == DeclParam {
		return d.params.Get(decl.payload)
	}
	return nil
}

func (d *Decls) TypeParam(id DeclID) *TypeParamDecl {
	if decl := d.Get(id); decl != nil && decl.Kind == DeclTypeParam {
		return d.typeParams.Get(decl.payload)
	}
	return nil
}
