package registry

import "github.com/antchfx/xmlquery"

// Extension is a named bundle of types, commands, and enum extensions
// declared by an extensions/extension element. Feature blocks produce no
// Extension: their enum values carry no extension provenance (see
// extmerge.go).
type Extension struct {
	Name            string
	Node            *xmlquery.Node
	Number          int
	Platform        string // empty = cross-platform
	Author          string
	Supported       string
	PromotedTo      string
	DeprecatedBy    string
	NameEnum        string // the "*_EXTENSION_NAME" enumerand, if present
	SpecVersionEnum string // the "*_SPEC_VERSION" enumerand, if present
	Types           []string
	Commands        []string
}

func (e *Extension) String() string { return e.Name }

// extensible is implemented by every named Type variant that tracks which
// extensions contributed or referenced it, letting the extension merger
// attach an Extension without a type switch at each call site.
type extensible interface {
	addExtension(*Extension)
	extensionList() []*Extension
}

// Platform is an OS/windowing target gated by a C preprocessor macro
// (Macro). The synthetic core platform has an empty Name and Macro.
// Extensions/Types/Commands hold the post-filter view computed by the
// platform projector; they are read-only and rebuilt whenever a filtered
// Registry is constructed.
type Platform struct {
	Name       string
	Macro      string
	Extensions map[string]*Extension
	Types      map[string]Type
	Commands   map[string]*Command
}
