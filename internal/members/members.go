// Package members is the Member Resolution oracle: inherited-member lookup
// across a linearized class hierarchy including applied mixins. Upstream
// resolution populates the resolver; the verification pass only reads it.
package members

import (
	"vela/internal/types"
)

// Kind classifies a resolvable member.
type Kind uint8

const (
	KindMethod Kind = iota
	KindGetter
	KindSetter
	KindField
)

// Member is one entry in a class's declared member list.
// Type holds the function type for methods and setters, the value type for
// fields and getters.
type Member struct {
	Name     string
	Kind     Kind
	Type     types.TypeID
	Static   bool
	Concrete bool
	Final    bool
	Owner    types.ClassID
}

// Query parameterizes a lookup.
type Query struct {
	// Static selects static members; otherwise instance members.
	Static bool
	// Concrete requires an implementation (abstract members are skipped).
	Concrete bool
	// BelowMixin restricts the walk to the part of the linearization below
	// the given applied-mixin index: the preceding mixins and the base
	// chain. Negative means the whole hierarchy including the class itself.
	BelowMixin int
}

// WholeHierarchy is the Query.BelowMixin value for unrestricted lookups.
const WholeHierarchy = -1

type classEntry struct {
	base       types.ClassID
	mixins     []types.ClassID
	interfaces []types.ClassID
	members    map[string][]Member
	order      []Member
}

// Resolver holds the hierarchy and member tables for every known class.
type Resolver struct {
	classes map[types.ClassID]*classEntry
}

func NewResolver() *Resolver {
	return &Resolver{classes: make(map[types.ClassID]*classEntry, 16)}
}

// AddClass registers a class's place in the hierarchy. Mixins are listed in
// application order (leftmost first).
func (r *Resolver) AddClass(id, base types.ClassID, mixins, interfaces []types.ClassID) {
	r.classes[id] = &classEntry{
		base:       base,
		mixins:     mixins,
		interfaces: interfaces,
		members:    make(map[string][]Member, 8),
	}
}

// AddMember appends a declared member to a registered class.
func (r *Resolver) AddMember(class types.ClassID, m Member) {
	entry := r.classes[class]
	if entry == nil {
		entry = &classEntry{members: make(map[string][]Member, 8)}
		r.classes[class] = entry
	}
	m.Owner = class
	entry.members[m.Name] = append(entry.members[m.Name], m)
	entry.order = append(entry.order, m)
}

// DeclaredMembers returns the class's own members in declaration order.
func (r *Resolver) DeclaredMembers(class types.ClassID) []Member {
	entry := r.classes[class]
	if entry == nil {
		return nil
	}
	return entry.order
}

// Base returns the registered superclass of a class.
func (r *Resolver) Base(class types.ClassID) types.ClassID {
	if entry := r.classes[class]; entry != nil {
		return entry.base
	}
	return types.NoClassID
}

// Mixins returns the applied mixins of a class in application order.
func (r *Resolver) Mixins(class types.ClassID) []types.ClassID {
	if entry := r.classes[class]; entry != nil {
		return entry.mixins
	}
	return nil
}

// Linearization returns the member-lookup precedence order for a class: the
// class itself, its mixins from last applied to first, then the superclass
// linearization. Bounded by a seen set so malformed cycles terminate.
func (r *Resolver) Linearization(class types.ClassID) []types.ClassID {
	var out []types.ClassID
	seen := make(map[types.ClassID]struct{})
	cur := class
	for cur.IsValid() {
		if _, ok := seen[cur]; ok {
			break
		}
		seen[cur] = struct{}{}
		out = append(out, cur)
		entry := r.classes[cur]
		if entry == nil {
			break
		}
		for i := len(entry.mixins) - 1; i >= 0; i-- {
			m := entry.mixins[i]
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			out = append(out, m)
		}
		cur = entry.base
	}
	return out
}

// Lookup finds the first member matching name and query along the
// linearization of class.
func (r *Resolver) Lookup(class types.ClassID, name string, q Query) (Member, bool) {
	order := r.lookupOrder(class, q)
	for _, c := range order {
		entry := r.classes[c]
		if entry == nil {
			continue
		}
		for _, m := range entry.members[name] {
			if m.Static != q.Static {
				continue
			}
			if q.Concrete && !m.Concrete {
				continue
			}
			return m, true
		}
	}
	return Member{}, false
}

// lookupOrder computes the classes to search, honoring BelowMixin.
func (r *Resolver) lookupOrder(class types.ClassID, q Query) []types.ClassID {
	if q.BelowMixin < 0 {
		return r.Linearization(class)
	}
	entry := r.classes[class]
	if entry == nil {
		return nil
	}
	var out []types.ClassID
	idx := q.BelowMixin
	if idx > len(entry.mixins) {
		idx = len(entry.mixins)
	}
	for i := idx - 1; i >= 0; i-- {
		out = append(out, entry.mixins[i])
	}
	if entry.base.IsValid() {
		out = append(out, r.Linearization(entry.base)...)
	}
	return out
}
