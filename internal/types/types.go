package types

import "fmt"

// TypeID uniquely identifies a type inside the system.
type TypeID uint32

// NoTypeID marks the absence of a type.
const NoTypeID TypeID = 0

// ClassID identifies a nominal declaration (class, mixin, enum) registered
// with the system. Generic instantiations of one declaration share a ClassID.
type ClassID uint32

const NoClassID ClassID = 0

func (id TypeID) IsValid() bool  { return id != NoTypeID }
func (id ClassID) IsValid() bool { return id != NoClassID }

// Kind enumerates all supported kinds of types.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindVoid
	KindDynamic
	KindNever
	KindNull
	KindInterface
	KindTypeParam
	KindFunction
)

func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindVoid:
		return "void"
	case KindDynamic:
		return "dynamic"
	case KindNever:
		return "Never"
	case KindNull:
		return "Null"
	case KindInterface:
		return "interface"
	case KindTypeParam:
		return "type parameter"
	case KindFunction:
		return "function"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Nullability is the suffix on a type: T vs T?.
type Nullability uint8

const (
	NonNullable Nullability = iota
	Nullable
)

// ParamRef identifies a type-parameter occurrence by its owning declaration
// and zero-based position.
type ParamRef struct {
	Owner ClassID
	Index uint32
}

// FuncShape describes a function type.
type FuncShape struct {
	Params []TypeID
	Return TypeID
}

// Type is a compact descriptor for any supported type.
// Interface types carry the nominal origin plus type arguments.
type Type struct {
	Kind  Kind
	Class ClassID  // KindInterface
	Args  []TypeID // KindInterface
	Param ParamRef // KindTypeParam
	Fn    FuncShape
	Null  Nullability
}

// Variance describes how substituting a type parameter affects subtyping of
// the enclosing generic type.
type Variance uint8

const (
	// Covariant is the default for unannotated parameters.
	Covariant Variance = iota
	Contravariant
	Invariant
)

func (v Variance) String() string {
	switch v {
	case Covariant:
		return "out"
	case Contravariant:
		return "in"
	case Invariant:
		return "inout"
	default:
		return fmt.Sprintf("Variance(%d)", v)
	}
}

// Combine folds the variance of an inner type-constructor position into the
// position computed so far, outermost first: covariant keeps, contravariant
// flips, invariant forces invariant.
func Combine(outer, inner Variance) Variance {
	switch {
	case outer == Invariant || inner == Invariant:
		return Invariant
	case outer == Covariant:
		return inner
	default: // outer contravariant: flip
		if inner == Covariant {
			return Contravariant
		}
		return Covariant
	}
}

// GreaterThanOrEqual is the partial order used to compare a parameter's
// declared variance against the computed position variance: invariant bounds
// both directed variances, directed variances only bound themselves.
func (v Variance) GreaterThanOrEqual(other Variance) bool {
	if v == Invariant {
		return true
	}
	return v == other
}

// TypeParam describes one declared type parameter of a nominal declaration.
type TypeParam struct {
	Name     string
	Variance Variance
	Explicit bool // variance was written by the user and must be enforced
	Bound    TypeID
}

// ClassKind distinguishes the nominal declaration families.
type ClassKind uint8

const (
	ClassOrdinary ClassKind = iota
	ClassMixin
	ClassEnum
)

// ClassInfo is the system-side record of a nominal declaration. Supertypes
// are stored in generic form: occurrences of the declaration's own type
// parameters appear as KindTypeParam references owned by the declaration.
type ClassInfo struct {
	Name       string
	Kind       ClassKind
	TypeParams []TypeParam
	Supertypes []TypeID
	// Disallowed marks types that cannot be extended, implemented or mixed
	// in (core value types such as int, bool, String, Null).
	Disallowed bool
}
