package registry

// computePlatforms builds the per-platform projection over dst's already
// filtered Types/Commands/Extensions. It runs strictly after filtering, so
// a platform view never reaches back into extension provenance the filter
// already excised — unlike the core loader this package was ported from,
// which computed named-platform views before the corresponding filter
// pass, this implementation always filters first.
func computePlatforms(dst *Registry, opts FilterOptions) {
	platformNames := map[string]string{"": ""} // core: empty name, empty macro
	for _, pd := range dst.platformDefs {
		if opts.Platforms != nil {
			allowed := false
			for _, p := range opts.Platforms {
				if p == pd.Name {
					allowed = true
					break
				}
			}
			if !allowed {
				continue
			}
		}
		platformNames[pd.Name] = pd.Macro
	}

	for name, macro := range platformNames {
		view := &Platform{
			Name:       name,
			Macro:      macro,
			Extensions: map[string]*Extension{},
			Types:      map[string]Type{},
			Commands:   map[string]*Command{},
		}
		for extName, ext := range dst.Extensions {
			if ext.Platform == name {
				view.Extensions[extName] = ext
			}
		}
		for typeName, t := range dst.Types {
			if typeBelongsToPlatform(extensionsOf(t), name, dst.Extensions) {
				view.Types[typeName] = t
			}
		}
		for cmdName, c := range dst.Commands {
			if typeBelongsToPlatform(c.Extensions, name, dst.Extensions) {
				view.Commands[cmdName] = c
			}
		}
		dst.Platforms[name] = view
	}
}

// typeBelongsToPlatform reports whether an entity with the given
// extension provenance belongs in platform's view: the core platform
// ("") claims every entity with no provenance at all; a named platform
// claims entities tagged by at least one of its own extensions.
func typeBelongsToPlatform(provenance []*Extension, platform string, all map[string]*Extension) bool {
	if len(provenance) == 0 {
		return platform == ""
	}
	for _, ext := range provenance {
		if ext.Platform == platform {
			return true
		}
	}
	return false
}
