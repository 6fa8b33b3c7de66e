package registry

import "fmt"

// resolveChain replaces a *typeRef with its catalog entry, recursing into
// the four modifier wrappers (Pointer, NextPointer, FixedArray,
// DynamicArray) so a pointer-to-forward-declared-struct resolves correctly.
// Anything else — including an already-resolved Type — is returned as is,
// which is what makes running this twice (C4's documented two passes)
// harmless.
func resolveChain(r *Registry, t Type) Type {
	switch v := t.(type) {
	case *typeRef:
		if resolved, ok := r.Types[v.Ref]; ok {
			return resolved
		}
		return v
	case *Pointer:
		v.Base = resolveChain(r, v.Base)
		return v
	case *NextPointer:
		v.Base = resolveChain(r, v.Base)
		return v
	case *FixedArray:
		v.Base = resolveChain(r, v.Base)
		return v
	case *DynamicArray:
		v.Base = resolveChain(r, v.Base)
		return v
	default:
		return t
	}
}

// linkExtends records that child extends target (struct `child` may be
// chained into target's pNext family) by appending child to
// target.ExtendedBy, guarding against the duplicate inserts aliasing can
// cause. child.StructExtends already names target, so this is the single
// call site that mirrors StructExtends into ExtendedBy.
func linkExtends(child *Struct, target *Struct) {
	for _, existing := range target.ExtendedBy {
		if existing == Type(child) {
			return
		}
	}
	target.ExtendedBy = append(target.ExtendedBy, child)
}

// resolveRefs is C4: a single rewrite over every Type, Field, and Command
// replacing forward-reference stubs with graph edges. It is safe, and
// required, to call twice — once after the type catalog is bootstrapped,
// again after the extension merger introduces new cross-references (new
// enum value aliases chiefly).
func resolveRefs(r *Registry) {
	for _, t := range r.Types {
		switch v := t.(type) {
		case *Handle:
			if v.Parent != nil {
				v.Parent = resolveChain(r, v.Parent)
			}
		case *Struct:
			for _, m := range v.Members {
				m.Type = resolveChain(r, m.Type)
			}
			for i, se := range v.StructExtends {
				v.StructExtends[i] = resolveChain(r, se)
			}
		case *Bitmask:
			if v.Flags != nil {
				v.Flags = resolveChain(r, v.Flags)
			}
		case *TypeAlias:
			v.Alias = resolveChain(r, v.Alias)
		case *Enum:
			// Enum value aliases name a peer value of the same enum, which
			// lives in v.Values rather than in the type catalog.
			for _, val := range v.Values {
				alias, ok := val.(*TypeAlias)
				if !ok {
					continue
				}
				if ref, ok := alias.Alias.(*typeRef); ok {
					if peer, ok := v.Values[ref.Ref]; ok {
						alias.Alias = peer
						continue
					}
				}
				alias.Alias = resolveChain(r, alias.Alias)
			}
		}
	}

	for _, t := range r.Types {
		s, ok := t.(*Struct)
		if !ok {
			continue
		}
		for _, target := range s.StructExtends {
			if ts, ok := target.(*Struct); ok {
				linkExtends(s, ts)
			}
		}
	}
}

// resolveCommandRefs resolves every Command's return type and parameter
// types against the (already-resolved) type catalog. It runs once, right
// after commands are parsed, since command parameters are never forward
// references to each other the way struct members can be.
func resolveCommandRefs(r *Registry) {
	for _, c := range r.Commands {
		c.ReturnType = resolveChain(r, c.ReturnType)
		for _, p := range c.Parameters {
			p.Type = resolveChain(r, p.Type)
		}
	}
}

// validateResolved confirms that no *typeRef stub remains reachable from
// any surviving Type or Command. It returns the name of the first
// unresolved reference it finds, wrapped in ErrUnresolvedReference.
func validateResolved(r *Registry) error {
	seen := map[Type]bool{}
	var walk func(t Type) error
	walk = func(t Type) error {
		if t == nil || seen[t] {
			return nil
		}
		seen[t] = true
		switch v := t.(type) {
		case *typeRef:
			return fmt.Errorf("%w: %s", ErrUnresolvedReference, v.Ref)
		case *Handle:
			return walk(v.Parent)
		case *Bitmask:
			return walk(v.Flags)
		case *TypeAlias:
			return walk(v.Alias)
		case *Pointer:
			return walk(v.Base)
		case *NextPointer:
			return walk(v.Base)
		case *FixedArray:
			return walk(v.Base)
		case *DynamicArray:
			return walk(v.Base)
		case *Struct:
			for _, m := range v.Members {
				if err := walk(m.Type); err != nil {
					return err
				}
			}
			for _, se := range v.StructExtends {
				if err := walk(se); err != nil {
					return err
				}
			}
		case *Enum:
			for _, val := range v.Values {
				if err := walk(val); err != nil {
					return err
				}
			}
		}
		return nil
	}

	for _, t := range r.Types {
		if err := walk(t); err != nil {
			return err
		}
	}
	for _, c := range r.Commands {
		if err := walk(c.ReturnType); err != nil {
			return err
		}
		for _, p := range c.Parameters {
			if err := walk(p.Type); err != nil {
				return err
			}
		}
	}
	return nil
}
