package registry

import "fmt"

// filterRegistry implements Filter: select a coherent set of extensions,
// drop every type and command whose extension provenance doesn't survive,
// then prune dangling structextends/extendedby edges and enum values.
func filterRegistry(src *Registry, opts FilterOptions) (*Registry, error) {
	selected, err := selectExtensions(src, opts)
	if err != nil {
		return nil, err
	}

	allowedAuthor := func(author string) bool {
		if opts.Authors == nil {
			return true
		}
		for _, a := range opts.Authors {
			if a == author {
				return true
			}
		}
		return false
	}

	dst := &Registry{
		Types:        make(map[string]Type, len(src.Types)),
		Commands:     make(map[string]*Command, len(src.Commands)),
		Extensions:   make(map[string]*Extension, len(selected)),
		Platforms:    map[string]*Platform{},
		Constants:    src.Constants,
		Aliases:      src.Aliases,
		VersionMajor: src.VersionMajor,
		VersionMinor: src.VersionMinor,
		VersionPatch: src.VersionPatch,
		platformDefs: src.platformDefs,
		log:          src.log,
	}
	for name, ext := range selected {
		dst.Extensions[name] = ext
	}

	for name, t := range src.Types {
		if survivesFilter(extensionsOf(t), selected, allowedAuthor) {
			dst.Types[name] = t
		}
	}
	for name, c := range src.Commands {
		if survivesFilter(c.Extensions, selected, allowedAuthor) {
			dst.Commands[name] = c
		}
	}

	prunedStructs := map[string]*Struct{}
	for name, t := range dst.Types {
		s, ok := t.(*Struct)
		if !ok {
			continue
		}
		prunedStructs[name] = pruneStructEdges(s, dst.Types)
	}
	for name, s := range prunedStructs {
		dst.Types[name] = s
	}
	// pruneStructEdges read its edges off the pre-prune structs, so every
	// pruned struct's StructExtends/ExtendedBy still points at the other
	// side's stale, pre-prune object. Re-point them at the pruned copies now
	// sitting in dst.Types so two surviving structs always reference the
	// same object a map lookup would return.
	for _, s := range prunedStructs {
		relinkStructEdges(s, prunedStructs)
	}

	for name, t := range dst.Types {
		e, ok := t.(*Enum)
		if !ok {
			continue
		}
		dst.Types[name] = pruneEnumValues(e, selected)
	}

	computePlatforms(dst, opts)

	return dst, nil
}

func extensionsOf(t Type) []*Extension {
	if e, ok := t.(extensible); ok {
		return e.extensionList()
	}
	return nil
}

// survivesFilter reports whether an entity with the given provenance list
// should remain: core entities (no provenance) survive iff the author
// filter accepts the empty author; extension-tagged entities survive iff
// at least one tagging extension was selected.
func survivesFilter(provenance []*Extension, selected map[string]*Extension, allowedAuthor func(string) bool) bool {
	if len(provenance) == 0 {
		return allowedAuthor("")
	}
	for _, ext := range provenance {
		if _, ok := selected[ext.Name]; ok {
			return true
		}
	}
	return false
}

// selectExtensions computes the (platform, supported, author) match, unions
// the allow-list, and subtracts the block-list. An allow or block entry
// naming an extension absent from src is a FilterInconsistency.
func selectExtensions(src *Registry, opts FilterOptions) (map[string]*Extension, error) {
	platformSet := toSet(opts.Platforms)
	authorSet := toSet(opts.Authors)
	supported := opts.supported()

	selected := map[string]*Extension{}
	for name, ext := range src.Extensions {
		if opts.Platforms != nil && !platformSet[ext.Platform] {
			continue
		}
		if opts.Authors != nil && !authorSet[ext.Author] {
			continue
		}
		if ext.Supported != "" && !matchesSupported(ext.Supported, supported) {
			continue
		}
		selected[name] = ext
	}

	for _, name := range opts.AllowedExtensions {
		ext, ok := src.Extensions[name]
		if !ok {
			return nil, fmt.Errorf("%w: allow-list names unknown extension %s", ErrFilterInconsistency, name)
		}
		selected[name] = ext
	}
	for _, name := range opts.BlockedExtensions {
		if _, ok := src.Extensions[name]; !ok {
			return nil, fmt.Errorf("%w: block-list names unknown extension %s", ErrFilterInconsistency, name)
		}
		delete(selected, name)
	}

	return selected, nil
}

// matchesSupported reports whether any of the comma-separated tags in ext's
// supported= attribute matches want.
func matchesSupported(supportedAttr, want string) bool {
	for _, tag := range splitNonEmpty(supportedAttr, ",") {
		if tag == want {
			return true
		}
	}
	return false
}

func toSet(items []string) map[string]bool {
	if items == nil {
		return nil
	}
	set := make(map[string]bool, len(items))
	for _, i := range items {
		set[i] = true
	}
	return set
}

// pruneStructEdges returns a shallow copy of s with StructExtends and
// ExtendedBy rewritten to drop any target not present in survivingTypes.
func pruneStructEdges(s *Struct, survivingTypes map[string]Type) *Struct {
	cp := *s
	cp.StructExtends = filterSurviving(s.StructExtends, survivingTypes)
	cp.ExtendedBy = filterSurviving(s.ExtendedBy, survivingTypes)
	return &cp
}

// relinkStructEdges rewrites s's StructExtends/ExtendedBy entries to the
// pruned copy of their target, when one exists, so cross-references among
// surviving structs agree with what dst.Types itself holds for that name.
func relinkStructEdges(s *Struct, prunedStructs map[string]*Struct) {
	for i, t := range s.StructExtends {
		if p, ok := prunedStructs[t.TypeName()]; ok {
			s.StructExtends[i] = p
		}
	}
	for i, t := range s.ExtendedBy {
		if p, ok := prunedStructs[t.TypeName()]; ok {
			s.ExtendedBy[i] = p
		}
	}
}

func filterSurviving(types []Type, survivingTypes map[string]Type) []Type {
	var out []Type
	for _, t := range types {
		if survivingTypes[t.TypeName()] == t {
			out = append(out, t)
		}
	}
	return out
}

// pruneEnumValues returns a shallow copy of e whose Values map has been
// filtered: a value with no extension provenance always stays, one tagged
// by at least one selected extension stays, everything else is dropped.
// The copy leaves the source Enum (and any other filtered view built from
// it) untouched.
func pruneEnumValues(e *Enum, selected map[string]*Extension) *Enum {
	cp := *e
	cp.Values = make(map[string]Type, len(e.Values))
	for name, v := range e.Values {
		if survivesFilter(extensionsOf(v), selected, func(string) bool { return true }) {
			cp.Values[name] = v
		}
	}
	return &cp
}
