package registry

import (
	"regexp"
	"strings"
)

// ResolveAliases returns a projection of m that omits every TypeAlias
// entry. When resolveBaseTypeAliases is false, an entry whose value
// resolves to a BaseType (e.g. VkBool32 -> uint32_t) is kept even though it
// is itself a TypeAlias, since base-type aliases are rarely what a caller
// means by "alias" in this context.
func ResolveAliases(m map[string]Type, resolveBaseTypeAliases bool) map[string]Type {
	out := make(map[string]Type, len(m))
	for name, v := range m {
		alias, ok := v.(*TypeAlias)
		if !ok {
			out[name] = v
			continue
		}
		if !resolveBaseTypeAliases && alias.IsBaseTypeAlias() {
			out[name] = v
			continue
		}
	}
	return out
}

// identifierChain matches the first C-style identifier/arrow access chain
// appearing anywhere in a length expression, e.g. "pAllocateInfo" in
// "pAllocateInfo->descriptorSetCount", or "rasterizationSamples" in
// "(rasterizationSamples + 31) / 32".
var identifierChain = regexp.MustCompile(`\b[A-Za-z][A-Za-z0-9_]*(->[A-Za-z][A-Za-z0-9_]*)*`)

// LengthExpr formats this array's declared length (a len= attribute value,
// e.g. "pAllocateInfo->descriptorSetCount" or
// "(rasterizationSamples + 31) / 32") into a C-style access expression
// navigable from objExpr: the first identifier chain found is resolved
// against Parent's fields and every occurrence of that chain in Length is
// replaced with its object-prefixed (and, if the resolved field is itself a
// pointer, dereferenced) form. A length with no identifier chain, or one
// that resolves to a constant rather than a field, is returned unchanged.
func (t *DynamicArray) LengthExpr(objExpr string) string {
	loc := identifierChain.FindStringIndex(t.Length)
	if loc == nil {
		return t.Length
	}
	chain := t.Length[loc[0]:loc[1]]

	field := findLengthField(t.Parent, chain)
	if field == nil {
		return t.Length
	}

	expr := chain
	if objExpr != "" {
		expr = objExpr + "." + chain
	}
	if _, isPointer := field.Type.(*Pointer); isPointer {
		expr = "*" + expr
	}

	return strings.ReplaceAll(t.Length, chain, expr)
}

// findLengthField walks parent (a *Struct or *Command) through the
// "->"-joined chain, returning the final field if every hop resolves.
func findLengthField(parent any, chain string) *Field {
	parts := strings.Split(chain, "->")
	var fields []*Field
	switch p := parent.(type) {
	case *Struct:
		fields = p.Members
	case *Command:
		fields = p.Parameters
	default:
		return nil
	}

	var field *Field
	for _, name := range parts {
		field = findFieldNamed(fields, name)
		if field == nil {
			return nil
		}
		base := field.Type
		if ptr, ok := base.(*Pointer); ok {
			base = ptr.Base
		}
		if s, ok := base.(*Struct); ok {
			fields = s.Members
		} else {
			fields = nil
		}
	}
	return field
}

func findFieldNamed(fields []*Field, name string) *Field {
	for _, f := range fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}
