package types

import (
	"fmt"
	"strings"
	"sync"

	"fortio.org/safecast"
)

// Builtins stores IDs for the types the verifier consults directly.
type Builtins struct {
	Void    TypeID
	Dynamic TypeID
	Never   TypeID
	Null    TypeID
	Object  TypeID
	Bool    TypeID
	Int     TypeID
	Double  TypeID
	String  TypeID

	ObjectClass   ClassID
	IterableClass ClassID
	StreamClass   ClassID
	FutureClass   ClassID
	ListClass     ClassID
}

// System is the Type System oracle: an interner for type descriptors plus the
// registry of nominal declarations. Population (NewClass, SetSupertypes) is
// single-goroutine; after that every method is safe for concurrent use. The
// interner keeps a lock because queries like Substitute memoize the
// descriptors they derive.
type System struct {
	mu       sync.RWMutex
	types    []Type
	index    map[string]TypeID
	classes  []ClassInfo
	builtins Builtins
}

// NewSystem constructs a system seeded with the core types.
func NewSystem() *System {
	s := &System{
		index:   make(map[string]TypeID, 128),
		classes: make([]ClassInfo, 1), // reserve 0 as invalid sentinel
	}
	s.builtins.Void = s.intern(Type{Kind: KindVoid, Null: Nullable})
	s.builtins.Dynamic = s.intern(Type{Kind: KindDynamic, Null: Nullable})
	s.builtins.Never = s.intern(Type{Kind: KindNever})
	s.builtins.Null = s.intern(Type{Kind: KindNull, Null: Nullable})

	s.builtins.ObjectClass = s.NewClass("Object", ClassOrdinary, nil)
	s.builtins.Object = s.Interface(s.builtins.ObjectClass, nil, NonNullable)

	boolClass := s.newDisallowed("bool")
	intClass := s.newDisallowed("int")
	doubleClass := s.newDisallowed("double")
	stringClass := s.newDisallowed("String")
	s.builtins.Bool = s.Interface(boolClass, nil, NonNullable)
	s.builtins.Int = s.Interface(intClass, nil, NonNullable)
	s.builtins.Double = s.Interface(doubleClass, nil, NonNullable)
	s.builtins.String = s.Interface(stringClass, nil, NonNullable)

	s.builtins.IterableClass = s.newWrapper("Iterable")
	s.builtins.StreamClass = s.newWrapper("Stream")
	s.builtins.FutureClass = s.newWrapper("Future")
	s.builtins.ListClass = s.newWrapper("List")
	return s
}

func (s *System) newDisallowed(name string) ClassID {
	id := s.NewClass(name, ClassOrdinary, nil)
	s.classes[id].Disallowed = true
	s.SetSupertypes(id, []TypeID{s.builtins.Object})
	return id
}

// newWrapper registers a single-parameter covariant generic (Iterable & co).
func (s *System) newWrapper(name string) ClassID {
	id := s.NewClass(name, ClassOrdinary, []TypeParam{{Name: "E", Variance: Covariant}})
	s.SetSupertypes(id, []TypeID{s.builtins.Object})
	return id
}

// Builtins returns the seeded core types.
func (s *System) Builtins() Builtins {
	return s.builtins
}

// NewClass registers a nominal declaration and returns its ClassID.
// Supertypes are attached separately via SetSupertypes because mutually
// referential hierarchies need every ClassID allocated first.
func (s *System) NewClass(name string, kind ClassKind, params []TypeParam) ClassID {
	lenClasses, err := safecast.Conv[uint32](len(s.classes))
	if err != nil {
		panic(fmt.Errorf("class count overflow: %w", err))
	}
	id := ClassID(lenClasses)
	s.classes = append(s.classes, ClassInfo{
		Name:       name,
		Kind:       kind,
		TypeParams: params,
	})
	return id
}

// SetSupertypes attaches the direct supertypes of a declaration, expressed in
// generic form.
func (s *System) SetSupertypes(id ClassID, supers []TypeID) {
	if info := s.Class(id); info != nil {
		info.Supertypes = supers
	}
}

// MarkDisallowed flags a declaration as not extendable/implementable.
func (s *System) MarkDisallowed(id ClassID) {
	if info := s.Class(id); info != nil {
		info.Disallowed = true
	}
}

// Class returns the mutable registry record, or nil for an invalid ID.
func (s *System) Class(id ClassID) *ClassInfo {
	if id == NoClassID || int(id) >= len(s.classes) {
		return nil
	}
	return &s.classes[id]
}

// Interface interns the instantiation of a nominal declaration.
// Missing arguments are filled with dynamic so partially resolved input
// cannot produce malformed descriptors.
func (s *System) Interface(class ClassID, args []TypeID, null Nullability) TypeID {
	info := s.Class(class)
	if info == nil {
		return NoTypeID
	}
	if len(args) < len(info.TypeParams) {
		filled := make([]TypeID, len(info.TypeParams))
		copy(filled, args)
		for i := len(args); i < len(filled); i++ {
			filled[i] = s.builtins.Dynamic
		}
		args = filled
	}
	return s.intern(Type{Kind: KindInterface, Class: class, Args: args, Null: null})
}

// ParamType interns a reference to a declaration's type parameter.
func (s *System) ParamType(owner ClassID, index uint32, null Nullability) TypeID {
	return s.intern(Type{Kind: KindTypeParam, Param: ParamRef{Owner: owner, Index: index}, Null: null})
}

// Function interns a function type.
func (s *System) Function(params []TypeID, ret TypeID, null Nullability) TypeID {
	return s.intern(Type{Kind: KindFunction, Fn: FuncShape{Params: params, Return: ret}, Null: null})
}

// Nullable returns the T? form of t.
func (s *System) Nullable(t TypeID) TypeID {
	tt, ok := s.Lookup(t)
	if !ok || tt.Null == Nullable {
		return t
	}
	tt.Null = Nullable
	return s.intern(tt)
}

// Lookup returns the descriptor for a TypeID.
func (s *System) Lookup(id TypeID) (Type, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if id == NoTypeID || int(id) > len(s.types) {
		return Type{}, false
	}
	return s.types[id-1], true
}

// MustLookup panics when id is invalid.
func (s *System) MustLookup(id TypeID) Type {
	tt, ok := s.Lookup(id)
	if !ok {
		panic("types: invalid TypeID")
	}
	return tt
}

func (s *System) intern(t Type) TypeID {
	key := descriptorKey(t)
	s.mu.Lock()
	defer s.mu.Unlock()
	if id, ok := s.index[key]; ok {
		return id
	}
	lenTypes, err := safecast.Conv[uint32](len(s.types))
	if err != nil {
		panic(fmt.Errorf("type count overflow: %w", err))
	}
	s.types = append(s.types, t)
	id := TypeID(lenTypes + 1)
	s.index[key] = id
	return id
}

// descriptorKey builds a canonical hash key. Nested types are already
// interned, so their IDs make the key exact.
func descriptorKey(t Type) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d|%d|%d|%d.%d|", t.Kind, t.Null, t.Class, t.Param.Owner, t.Param.Index)
	for _, a := range t.Args {
		fmt.Fprintf(&sb, "%d,", a)
	}
	sb.WriteByte('(')
	for _, p := range t.Fn.Params {
		fmt.Fprintf(&sb, "%d,", p)
	}
	fmt.Fprintf(&sb, ")%d", t.Fn.Return)
	return sb.String()
}
