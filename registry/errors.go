package registry

import "errors"

// Sentinel errors returned by Load and Filter. Use [errors.Is] to test for
// them; the wrapped error (via "%w") usually names the offending file,
// element, or extension.
var (
	// ErrIO indicates the registry file could not be opened or read.
	ErrIO = errors.New("vkregistry: io error")

	// ErrParse indicates the XML document is not well-formed.
	ErrParse = errors.New("vkregistry: xml parse error")

	// ErrSchema indicates the document parsed as XML but violates a
	// structural assumption the loader relies on: a missing required
	// attribute, a modifier declarator the tokenizer couldn't make sense
	// of, or a bit-field width that isn't an integer.
	ErrSchema = errors.New("vkregistry: schema error")

	// ErrUnresolvedReference indicates a forward-reference placeholder
	// survived reference resolution. This should never happen for a
	// well-formed vk.xml; it signals a bug in the loader or a registry
	// referencing a type that was never declared.
	ErrUnresolvedReference = errors.New("vkregistry: unresolved type reference")

	// ErrFilterInconsistency indicates FilterOptions.AllowedExtensions or
	// BlockedExtensions names an extension absent from the registry.
	ErrFilterInconsistency = errors.New("vkregistry: filter inconsistency")
)
