package registry

import (
	"log/slog"
	"strconv"
	"strings"
)

// Registry is the fully-resolved, in-memory graph produced by Load: every
// type, command, extension, and platform declared by a vk.xml document,
// with forward references replaced by graph edges and extension-contributed
// enum values merged onto their target enums. Platforms is empty on the
// Registry Load returns; Filter fills it with the per-platform views.
type Registry struct {
	Types      map[string]Type
	Commands   map[string]*Command
	Extensions map[string]*Extension
	Platforms  map[string]*Platform
	Constants  map[string]Type
	Aliases    map[string]*TypeAlias

	VersionMajor int
	VersionMinor int
	VersionPatch int

	platformDefs []platformDef
	log          *slog.Logger
}

// LoadOption configures Load. WithLogger is currently the only one; a
// filtered Registry inherits the logger of the Registry it was built from.
type LoadOption func(*Registry)

// WithLogger directs warnings for locally-recovered conditions (an
// extension require/enum whose target enum is missing, an extension- or
// feature-contributed enum literal that failed integer decoding) to logger
// instead of slog.Default().
func WithLogger(logger *slog.Logger) LoadOption {
	return func(r *Registry) { r.log = logger }
}

func newRegistry(opts []LoadOption) *Registry {
	r := &Registry{
		Types:      map[string]Type{},
		Commands:   map[string]*Command{},
		Extensions: map[string]*Extension{},
		Platforms:  map[string]*Platform{},
		Constants:  map[string]Type{},
		Aliases:    map[string]*TypeAlias{},
		log:        slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Load parses path (a vk.xml document) into a fully-resolved Registry: type
// catalog, commands, extensions, and feature blocks, with every forward
// reference and alias chain resolved and every extension-contributed enum
// value grafted onto its target.
func Load(path string, opts ...LoadOption) (*Registry, error) {
	r := newRegistry(opts)

	doc, err := readXML(path)
	if err != nil {
		return nil, err
	}

	platforms, err := bootstrapCatalog(r, doc)
	if err != nil {
		return nil, err
	}
	r.platformDefs = platforms

	resolveRefs(r)

	if err := parseCommands(r, doc); err != nil {
		return nil, err
	}
	resolveCommandRefs(r)

	if err := mergeExtensions(r, doc); err != nil {
		return nil, err
	}
	if err := mergeFeatures(r, doc); err != nil {
		return nil, err
	}

	resolveRefs(r)
	computeIsInstance(r)
	computeVersion(r)

	if err := validateResolved(r); err != nil {
		return nil, err
	}

	return r, nil
}

// computeVersion sets VersionMinor from the highest VK_API_VERSION_1_N
// define present, and VersionPatch from VK_HEADER_VERSION's trailing
// integer text. VersionMajor is always 1 for every Vulkan registry this
// package has ever loaded.
func computeVersion(r *Registry) {
	r.VersionMajor = 1
	for name, t := range r.Types {
		d, ok := t.(*Define)
		if !ok {
			continue
		}
		if minor, ok := strings.CutPrefix(name, "VK_API_VERSION_1_"); ok {
			if n, err := strconv.Atoi(minor); err == nil && n > r.VersionMinor {
				r.VersionMinor = n
			}
			continue
		}
		if name == "VK_HEADER_VERSION" {
			if n, err := strconv.Atoi(strings.TrimSpace(d.Tail)); err == nil {
				r.VersionPatch = n
			}
		}
	}
}

// warnf logs a warning-level diagnostic for a condition this package
// recovered from locally rather than treating as a load failure.
func (r *Registry) warnf(msg string, args ...any) {
	r.log.Warn(msg, args...)
}

// FilterOptions selects a coherent subgraph of a loaded Registry.
type FilterOptions struct {
	// Platforms restricts extensions to these platform names; empty
	// string selects the core (platform-less) surface. Nil means every
	// platform.
	Platforms []string
	// Authors restricts extensions to these author tags (e.g. "KHR",
	// "EXT"). Nil means every author.
	Authors []string
	// Supported is the supported= tag to match; defaults to "vulkan".
	Supported string
	// AllowedExtensions are force-included regardless of the
	// platform/author/supported match. An unknown name is an error.
	AllowedExtensions []string
	// BlockedExtensions are force-excluded even if they would otherwise
	// match. An unknown name is an error.
	BlockedExtensions []string
}

func (o FilterOptions) supported() string {
	if o.Supported == "" {
		return "vulkan"
	}
	return o.Supported
}

// Filter produces an independent Registry holding the subgraph selected by
// opts: the source Registry (and any other filtered view derived from it)
// is left untouched, so one Load can back many concurrent filtered views.
func (r *Registry) Filter(opts FilterOptions) (*Registry, error) {
	return filterRegistry(r, opts)
}
