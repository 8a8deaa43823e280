package sema

import (
	"vela/internal/meta"
	"vela/internal/members"
	"vela/internal/types"
)

// TypeOracle is the slice of the type system the verifier consults. It must
// tolerate concurrent read access; *types.System satisfies it.
type TypeOracle interface {
	Builtins() types.Builtins
	Lookup(types.TypeID) (types.Type, bool)
	Class(types.ClassID) *types.ClassInfo

	IsSubtype(a, b types.TypeID) bool
	IsAssignable(from, to types.TypeID) bool
	IsNullable(types.TypeID) bool
	IsVoid(types.TypeID) bool
	IsDynamic(types.TypeID) bool
	IsTop(types.TypeID) bool
	IsDisallowedBase(types.TypeID) bool

	FlattenAsync(types.TypeID) types.TypeID
	ElementTypeOf(t types.TypeID, wrapper types.ClassID) (types.TypeID, bool)
	SupertypeClosure(types.TypeID) []types.TypeID
	Substitute(t types.TypeID, owner types.ClassID, args []types.TypeID) types.TypeID
	Origin(types.TypeID) (types.ClassID, bool)
	Args(types.TypeID) []types.TypeID
	Normalize(types.TypeID) types.TypeID

	Label(types.TypeID) string
}

// MemberOracle is inherited-member lookup across the linearized hierarchy;
// *members.Resolver satisfies it.
type MemberOracle interface {
	Lookup(class types.ClassID, name string, q members.Query) (members.Member, bool)
	DeclaredMembers(class types.ClassID) []members.Member
	Linearization(class types.ClassID) []types.ClassID
	Base(class types.ClassID) types.ClassID
	Mixins(class types.ClassID) []types.ClassID
}

// LibraryOracle is per-library metadata; *meta.Registry satisfies it.
type LibraryOracle interface {
	Name(meta.LibraryID) string
	IsPlatform(meta.LibraryID) bool
	IsInternal(meta.LibraryID) bool
}
