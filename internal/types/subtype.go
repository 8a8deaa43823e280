package types

// IsTop reports whether t accepts every value: dynamic, void, Object?.
func (s *System) IsTop(t TypeID) bool {
	tt, ok := s.Lookup(t)
	if !ok {
		return false
	}
	switch tt.Kind {
	case KindDynamic, KindVoid:
		return true
	case KindInterface:
		return tt.Class == s.builtins.ObjectClass && tt.Null == Nullable
	}
	return false
}

// IsNullable reports whether null is a value of t.
func (s *System) IsNullable(t TypeID) bool {
	tt, ok := s.Lookup(t)
	if !ok {
		return false
	}
	return tt.Null == Nullable
}

// IsNonNullable is the strict complement of IsNullable for valid IDs.
func (s *System) IsNonNullable(t TypeID) bool {
	_, ok := s.Lookup(t)
	return ok && !s.IsNullable(t)
}

// IsVoid reports whether t is the void type.
func (s *System) IsVoid(t TypeID) bool {
	tt, ok := s.Lookup(t)
	return ok && tt.Kind == KindVoid
}

// IsDynamic reports whether t is the dynamic type.
func (s *System) IsDynamic(t TypeID) bool {
	tt, ok := s.Lookup(t)
	return ok && tt.Kind == KindDynamic
}

// Origin returns the nominal declaration behind an interface type.
func (s *System) Origin(t TypeID) (ClassID, bool) {
	tt, ok := s.Lookup(t)
	if !ok || tt.Kind != KindInterface {
		return NoClassID, false
	}
	return tt.Class, true
}

// Args returns the type arguments of an interface type.
func (s *System) Args(t TypeID) []TypeID {
	tt, ok := s.Lookup(t)
	if !ok || tt.Kind != KindInterface {
		return nil
	}
	return tt.Args
}

// Normalize collapses degenerate forms: Never? becomes Null, nullable tops
// stay themselves. Everything else is already canonical by interning.
func (s *System) Normalize(t TypeID) TypeID {
	tt, ok := s.Lookup(t)
	if !ok {
		return t
	}
	if tt.Kind == KindNever && tt.Null == Nullable {
		return s.builtins.Null
	}
	return t
}

// Substitute replaces references to owner's type parameters with args.
func (s *System) Substitute(t TypeID, owner ClassID, args []TypeID) TypeID {
	tt, ok := s.Lookup(t)
	if !ok {
		return t
	}
	switch tt.Kind {
	case KindTypeParam:
		if tt.Param.Owner != owner || int(tt.Param.Index) >= len(args) {
			return t
		}
		out := args[tt.Param.Index]
		if tt.Null == Nullable {
			out = s.Nullable(out)
		}
		return out
	case KindInterface:
		if len(tt.Args) == 0 {
			return t
		}
		changed := false
		newArgs := make([]TypeID, len(tt.Args))
		for i, a := range tt.Args {
			newArgs[i] = s.Substitute(a, owner, args)
			if newArgs[i] != a {
				changed = true
			}
		}
		if !changed {
			return t
		}
		return s.intern(Type{Kind: KindInterface, Class: tt.Class, Args: newArgs, Null: tt.Null})
	case KindFunction:
		changed := false
		params := make([]TypeID, len(tt.Fn.Params))
		for i, p := range tt.Fn.Params {
			params[i] = s.Substitute(p, owner, args)
			if params[i] != p {
				changed = true
			}
		}
		ret := s.Substitute(tt.Fn.Return, owner, args)
		if ret != tt.Fn.Return {
			changed = true
		}
		if !changed {
			return t
		}
		return s.intern(Type{Kind: KindFunction, Fn: FuncShape{Params: params, Return: ret}, Null: tt.Null})
	default:
		return t
	}
}

// SupertypeClosure returns t followed by every transitive supertype with type
// arguments substituted. The walk is bounded by a seen set, so cyclic
// hierarchies coming from broken input still terminate.
func (s *System) SupertypeClosure(t TypeID) []TypeID {
	var out []TypeID
	seen := make(map[TypeID]struct{})
	var walk func(cur TypeID)
	walk = func(cur TypeID) {
		if _, ok := seen[cur]; ok {
			return
		}
		seen[cur] = struct{}{}
		out = append(out, cur)
		tt, ok := s.Lookup(cur)
		if !ok || tt.Kind != KindInterface {
			return
		}
		info := s.Class(tt.Class)
		if info == nil {
			return
		}
		for _, sup := range info.Supertypes {
			walk(s.Substitute(sup, tt.Class, tt.Args))
		}
	}
	walk(t)
	return out
}

// IsSubtype implements the nominal subtype relation.
func (s *System) IsSubtype(a, b TypeID) bool {
	return s.isSubtype(a, b, 0)
}

const maxSubtypeDepth = 256

func (s *System) isSubtype(a, b TypeID, depth int) bool {
	if depth > maxSubtypeDepth {
		return false
	}
	if a == b {
		return true
	}
	ta, okA := s.Lookup(a)
	tb, okB := s.Lookup(b)
	if !okA || !okB {
		return false
	}
	if s.IsTop(b) {
		return true
	}
	// Bottom types.
	if ta.Kind == KindNever && ta.Null == NonNullable {
		return true
	}
	if ta.Kind == KindNull {
		return tb.Null == Nullable
	}
	// A nullable left side needs a nullable right side.
	if ta.Null == Nullable && tb.Null != Nullable {
		return false
	}
	// From here, compare the underlying shapes.
	switch ta.Kind {
	case KindDynamic, KindVoid:
		return false
	case KindNever:
		return true
	case KindTypeParam:
		if tb.Kind == KindTypeParam && ta.Param == tb.Param {
			return true
		}
		bound := s.paramBound(ta.Param)
		if bound == NoTypeID || bound == a {
			return false
		}
		return s.isSubtype(bound, b, depth+1)
	case KindFunction:
		if tb.Kind != KindFunction {
			return tb.Kind == KindInterface && tb.Class == s.builtins.ObjectClass
		}
		if len(ta.Fn.Params) != len(tb.Fn.Params) {
			return false
		}
		for i := range ta.Fn.Params {
			if !s.isSubtype(tb.Fn.Params[i], ta.Fn.Params[i], depth+1) {
				return false
			}
		}
		return s.isSubtype(ta.Fn.Return, tb.Fn.Return, depth+1)
	case KindInterface:
		if tb.Kind != KindInterface {
			return false
		}
		if ta.Class == tb.Class {
			return s.argsCompatible(ta, tb, depth)
		}
		info := s.Class(ta.Class)
		if info == nil {
			return false
		}
		for _, sup := range info.Supertypes {
			inst := s.Substitute(sup, ta.Class, ta.Args)
			if s.isSubtype(inst, b, depth+1) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// argsCompatible compares instantiations of the same declaration per the
// declared variance of each parameter.
func (s *System) argsCompatible(ta, tb Type, depth int) bool {
	info := s.Class(ta.Class)
	if info == nil {
		return false
	}
	for i := range info.TypeParams {
		if i >= len(ta.Args) || i >= len(tb.Args) {
			return false
		}
		av, bv := ta.Args[i], tb.Args[i]
		switch info.TypeParams[i].Variance {
		case Covariant:
			if !s.isSubtype(av, bv, depth+1) {
				return false
			}
		case Contravariant:
			if !s.isSubtype(bv, av, depth+1) {
				return false
			}
		case Invariant:
			if !s.isSubtype(av, bv, depth+1) || !s.isSubtype(bv, av, depth+1) {
				return false
			}
		}
	}
	return true
}

func (s *System) paramBound(ref ParamRef) TypeID {
	info := s.Class(ref.Owner)
	if info == nil || int(ref.Index) >= len(info.TypeParams) {
		return NoTypeID
	}
	bound := info.TypeParams[ref.Index].Bound
	if bound == NoTypeID {
		return s.Nullable(s.builtins.Object)
	}
	return bound
}

// IsAssignable reports whether an expression of type from may occur where to
// is expected: a subtype, or an implicit downcast from dynamic.
func (s *System) IsAssignable(from, to TypeID) bool {
	if from == NoTypeID || to == NoTypeID {
		return true // resolution gap: stay silent
	}
	if s.IsDynamic(from) {
		return true
	}
	return s.IsSubtype(from, to)
}

// FlattenAsync strips one Future layer: Future<T> and Future<T>? become T.
// Non-future types flatten to themselves.
func (s *System) FlattenAsync(t TypeID) TypeID {
	tt, ok := s.Lookup(t)
	if !ok || tt.Kind != KindInterface {
		return t
	}
	if tt.Class == s.builtins.FutureClass && len(tt.Args) == 1 {
		return tt.Args[0]
	}
	return t
}

// ElementTypeOf finds the instantiation of wrapper in t's supertype closure
// and returns its single type argument: the element type implied by an
// Iterable/Stream/Future-like return type.
func (s *System) ElementTypeOf(t TypeID, wrapper ClassID) (TypeID, bool) {
	for _, sup := range s.SupertypeClosure(t) {
		tt, ok := s.Lookup(sup)
		if !ok || tt.Kind != KindInterface {
			continue
		}
		if tt.Class == wrapper && len(tt.Args) == 1 {
			return tt.Args[0], true
		}
	}
	return NoTypeID, false
}

// IsDisallowedBase reports whether t's origin may not be extended,
// implemented or mixed in.
func (s *System) IsDisallowedBase(t TypeID) bool {
	origin, ok := s.Origin(t)
	if !ok {
		tt, lookupOK := s.Lookup(t)
		// Extending the unnameable types is always illegal.
		return lookupOK && (tt.Kind == KindNull || tt.Kind == KindNever || tt.Kind == KindDynamic || tt.Kind == KindVoid)
	}
	info := s.Class(origin)
	return info != nil && info.Disallowed
}
