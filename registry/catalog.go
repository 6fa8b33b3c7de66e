package registry

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/antchfx/xmlquery"
)

// platformDef is the raw <platforms>/<platform> declaration read during
// catalog bootstrap. Platform views (C7) are only materialized once a
// filter is applied (see filter.go), so Load keeps just the name/macro pair
// until then.
type platformDef struct {
	Name  string
	Macro string
}

// bootstrapCatalog populates r.Types in a fixed order: the synthetic string
// base type, basetypes, enums (or constants), then every other categorized
// type. It returns the raw platform declarations for later use by Filter.
func bootstrapCatalog(r *Registry, doc *xmlDoc) ([]platformDef, error) {
	r.Types["string"] = &BaseType{Name: "string"}

	if err := parseBaseTypes(r, doc); err != nil {
		return nil, err
	}
	if err := parseEnumBlocks(r, doc); err != nil {
		return nil, err
	}
	if err := parseCategorizedTypes(r, doc); err != nil {
		return nil, err
	}
	parseUncategorizedTypes(r, doc)

	var platforms []platformDef
	for _, pe := range doc.find("/registry/platforms/platform") {
		name := attr(pe, "name", "")
		platforms = append(platforms, platformDef{Name: name, Macro: attr(pe, "protect", "")})
	}
	return platforms, nil
}

func parseBaseTypes(r *Registry, doc *xmlDoc) error {
	for _, te := range doc.find("/registry/types/type") {
		if attr(te, "category", "") != "basetype" {
			continue
		}
		name := text(childElement(te, "name"))
		if name == "" {
			name = attr(te, "name", "")
		}
		if tte := childElement(te, "type"); tte != nil {
			r.Types[name] = &TypeAlias{Name: name, Alias: &typeRef{Ref: text(tte)}}
		} else {
			r.Types[name] = &BaseType{Name: name, Node: te}
		}
	}
	return nil
}

// parseEnumValue decodes a single <enum> child of an <enums> block into an
// EnumValue (or, for alias="" entries, a TypeAlias). Hex literals ("0x...")
// are parsed base 16, everything else base 10. A value that fails to parse
// is retained with its raw text and Valid=false rather than aborting the
// load.
func parseEnumValue(ee *xmlquery.Node, isBitmask bool) (string, Type, bool) {
	name := attr(ee, "name", "")
	if name == "" {
		return "", nil, false
	}
	if alias := attr(ee, "alias", ""); alias != "" {
		return name, &TypeAlias{Name: name, Alias: &typeRef{Ref: alias}}, isBitmask
	}

	ev := &EnumValue{Name: name, Node: ee, Comment: attr(ee, "comment", "")}
	if bitpos := attr(ee, "bitpos", ""); bitpos != "" {
		isBitmask = true
		n, err := parseIntLiteral(bitpos)
		if err != nil {
			ev.Raw = bitpos
		} else {
			ev.Value = int64(1) << uint(n)
			ev.Valid = true
		}
	} else {
		raw := attr(ee, "value", "")
		n, err := parseIntLiteral(raw)
		if err != nil {
			ev.Raw = raw
		} else {
			ev.Value = n
			ev.Valid = true
		}
	}
	return name, ev, isBitmask
}

// parseIntLiteral decodes a Vulkan registry integer literal: hex if
// prefixed "0x", decimal otherwise.
func parseIntLiteral(s string) (int64, error) {
	if strings.HasPrefix(s, "0x") {
		return strconv.ParseInt(strings.TrimPrefix(s, "0x"), 16, 64)
	}
	return strconv.ParseInt(s, 10, 64)
}

// newEnumFromNode decodes an <enums> element's child <enum> values into an
// Enum, regardless of whether the block ultimately becomes a registry Enum
// type or a flattened constants pool — both share the same value decoding.
func newEnumFromNode(ee *xmlquery.Node) *Enum {
	e := &Enum{
		Name:      attr(ee, "name", ""),
		Node:      ee,
		Values:    map[string]Type{},
		IsBitmask: attr(ee, "type", "") == "bitmask",
		BitWidth:  32,
	}
	if bw := attr(ee, "bitwidth", ""); bw != "" {
		if n, err := strconv.Atoi(bw); err == nil {
			e.BitWidth = n
		}
	}
	for _, ve := range childElements(ee, "enum") {
		name, v, isBitmask := parseEnumValue(ve, e.IsBitmask)
		if name == "" {
			continue
		}
		e.IsBitmask = e.IsBitmask || isBitmask
		e.Values[name] = v
	}
	return e
}

func parseEnumBlocks(r *Registry, doc *xmlDoc) error {
	for _, ee := range doc.find("/registry/enums") {
		enumType := attr(ee, "type", "")
		e := newEnumFromNode(ee)
		if enumType == "enum" || enumType == "bitmask" {
			r.Types[e.Name] = e
			continue
		}
		for name, v := range e.Values {
			r.Constants[name] = v
		}
	}
	return nil
}

func parseCategorizedTypes(r *Registry, doc *xmlDoc) error {
	for _, te := range doc.find("/registry/types/type[@category]") {
		category := attr(te, "category", "")
		name := attr(te, "name", "")
		if name == "" {
			name = text(childElement(te, "name"))
		}

		if alias := attr(te, "alias", ""); alias != "" {
			at := &TypeAlias{Name: name, Alias: r.Types[alias]}
			if at.Alias == nil {
				at.Alias = &typeRef{Ref: alias}
			}
			r.Types[name] = at
			r.Aliases[name] = at
			continue
		}

		switch category {
		case "handle":
			h := &Handle{
				Name:         name,
				Node:         te,
				Dispatchable: text(childElement(te, "type")) == "VK_DEFINE_HANDLE",
			}
			if parent := attr(te, "parent", ""); parent != "" {
				h.Parent = &typeRef{Ref: parent}
			}
			r.Types[h.Name] = h

		case "struct", "union":
			s, err := parseStruct(te)
			if err != nil {
				return err
			}
			s.IsUnion = category == "union"
			r.Types[s.Name] = s

		case "funcpointer":
			fpName := text(childElement(te, "name"))
			r.Types[fpName] = &FunctionPointer{Name: fpName, Node: te}

		case "bitmask":
			bm := &Bitmask{
				Name:  text(childElement(te, "name")),
				Node:  te,
				CType: text(childElement(te, "type")),
			}
			if requires := attr(te, "requires", ""); requires != "" {
				bm.Flags = &typeRef{Ref: requires}
			}
			r.Types[bm.Name] = bm

		case "define":
			d := parseDefine(te)
			r.Types[d.Name] = d

		case "basetype":
			// handled by parseBaseTypes
		default:
			// unrecognized category: skip tolerantly, don't fail the load
		}
	}
	return nil
}

// parseUncategorizedTypes registers the types/type entries that carry no
// category= attribute at all: C's own keywords (void, char, float, ...)
// and the handful of system-header typedefs the registry references
// without describing (size_t, int, and friends). Each becomes a bare
// BaseType unless something earlier already claimed the name.
func parseUncategorizedTypes(r *Registry, doc *xmlDoc) {
	for _, te := range doc.find("/registry/types/type") {
		if hasAttr(te, "category") {
			continue
		}
		name := attr(te, "name", "")
		if name == "" {
			name = text(childElement(te, "name"))
		}
		if name == "" {
			continue
		}
		if _, exists := r.Types[name]; exists {
			continue
		}
		r.Types[name] = &BaseType{Name: name, Node: te}
	}
}

func parseStruct(te *xmlquery.Node) (*Struct, error) {
	s := &Struct{
		Name:         attr(te, "name", ""),
		Node:         te,
		ReturnedOnly: attr(te, "returnedonly", "") == "true",
	}
	for _, me := range childElements(te, "member") {
		f, err := parseParameterOrMember(me, s)
		if err != nil {
			return nil, fmt.Errorf("struct %s: %w", s.Name, err)
		}
		s.Members = append(s.Members, f)
	}
	if se := attr(te, "structextends", ""); se != "" {
		for _, name := range strings.Split(se, ",") {
			if name != "" {
				s.StructExtends = append(s.StructExtends, &typeRef{Ref: name})
			}
		}
	}
	return s, nil
}

// parseDefine decodes a types/type[@category='define'] entry. Defines
// either carry name= directly (simple macros) or nest a <name> element
// with trailing text (Tail) — the form VK_HEADER_VERSION uses to declare
// its integer value.
func parseDefine(te *xmlquery.Node) *Define {
	if name := attr(te, "name", ""); name != "" {
		return &Define{Name: name, Node: te}
	}
	nameNode := childElement(te, "name")
	d := &Define{Name: text(nameNode), Node: te, Text: text(te)}
	if nameNode != nil {
		var tail strings.Builder
		for c := nameNode.NextSibling; c != nil; c = c.NextSibling {
			if c.Type == xmlquery.TextNode {
				tail.WriteString(c.Data)
			} else {
				break
			}
		}
		d.Tail = tail.String()
	}
	return d
}
