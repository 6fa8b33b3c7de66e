// Package registry loads the Vulkan API registry XML (vk.xml) into a
// fully-resolved, in-memory object graph: types, commands, extensions,
// platforms, and constants, with every alias chain and forward reference
// resolved and every extension-contributed enum value tagged with its
// provenance.
//
// Load parses and merges a registry document:
//
//	reg, err := registry.Load("vk.xml")
//
// Filter produces an independent, filtered projection without mutating the
// registry returned by Load, so a single parse can back several different
// filtered views:
//
//	ggp, err := reg.Filter(registry.FilterOptions{
//		Platforms: []string{"", "ggp"},
//		Authors:   []string{"", "KHR", "EXT", "GGP"},
//	})
//
// The package does not generate code, validate Vulkan programs, or write any
// output; it exposes the graph and a handful of query helpers (Enum value
// resolution, DynamicArray.LengthExpr, ResolveAliases) for callers — typically
// a code generator — to walk.
package registry
