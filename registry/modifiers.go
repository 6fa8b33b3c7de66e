package registry

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/antchfx/xmlquery"
)

// declaratorToken tokenizes the raw declarator text built by rawDeclarator:
// the "struct" keyword, "const", pointer stars, array brackets, and
// bit-field colons.
var declaratorToken = regexp.MustCompile(`\bstruct\b|\bconst\b|\*|\[|:`)

var bracketLength = regexp.MustCompile(`[^\]]+`)
var bitWidth = regexp.MustCompile(`[0-9]+`)

// pointerLevel is one decoded level of a declarator's pointer/array chain,
// in the order it was read off the text (left to right).
type pointerLevel struct {
	isConst      bool
	isFixedArray bool
	length       string // fixed-array length, or a dynamic-length expression once assigned
	hasLength    bool
}

// rawDeclarator concatenates the mixed-content text of a member/param
// element, excluding <name>, <comment>, and the primary <type> element, in
// document order. Text that trails a skipped element is a sibling TextNode
// and is visited normally; only the skipped element's own inner text is
// dropped.
func rawDeclarator(me *xmlquery.Node) string {
	var b strings.Builder
	for c := me.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case xmlquery.TextNode:
			b.WriteString(c.Data)
		case xmlquery.ElementNode:
			switch c.Data {
			case "name", "comment", "type":
				// Skip this element's own text; any trailing text is a
				// separate sibling TextNode visited on the next iteration.
			default:
				b.WriteString(text(c))
			}
		}
	}
	return strings.TrimSpace(b.String())
}

// parseDeclarator walks the tokenized declarator text and returns the
// pointer/array chain (outermost-read-first) plus an optional bit-field
// width.
func parseDeclarator(declarator string) ([]pointerLevel, *int, error) {
	s := declarator
	isConst := false
	var levels []pointerLevel
	var bits *int

	for len(s) > 0 {
		loc := declaratorToken.FindStringIndex(s)
		if loc == nil || loc[0] != 0 {
			return nil, nil, fmt.Errorf("%w: unrecognized declarator text %q", ErrSchema, s)
		}
		tok := s[loc[0]:loc[1]]
		s = strings.TrimSpace(s[loc[1]:])

		switch tok {
		case "struct":
			// ignored
		case "const":
			isConst = true
		case "*":
			levels = append(levels, pointerLevel{isConst: isConst})
			isConst = false
		case "[":
			m := bracketLength.FindString(s)
			if m == "" {
				return nil, nil, fmt.Errorf("%w: empty array length in declarator %q", ErrSchema, declarator)
			}
			s = strings.TrimSpace(strings.TrimPrefix(s, m+"]"))
			levels = append(levels, pointerLevel{isConst: isConst, isFixedArray: true, length: m, hasLength: true})
		case ":":
			m := bitWidth.FindString(s)
			if m == "" {
				return nil, nil, fmt.Errorf("%w: non-integer bit-field width in declarator %q", ErrSchema, declarator)
			}
			s = strings.TrimSpace(strings.TrimPrefix(s, m))
			w, err := strconv.Atoi(m)
			if err != nil {
				return nil, nil, fmt.Errorf("%w: bit-field width %q: %w", ErrSchema, m, err)
			}
			bits = &w
		}
	}
	return levels, bits, nil
}

// assignDynamicLengths distributes the comma-separated altlen/len attribute
// across the leading pointer levels, in order. A dynamic length can never
// land on a fixed-array level.
func assignDynamicLengths(levels []pointerLevel, lenAttr string) error {
	if lenAttr == "" {
		return nil
	}
	lengths := strings.Split(lenAttr, ",")
	for i, l := range lengths {
		if i >= len(levels) {
			return fmt.Errorf("%w: len attribute %q has more entries than pointer levels", ErrSchema, lenAttr)
		}
		if levels[i].isFixedArray {
			return fmt.Errorf("%w: len attribute %q targets a fixed-array level", ErrSchema, lenAttr)
		}
		levels[i].length = l
		levels[i].hasLength = true
	}
	return nil
}

// parseParameterOrMember decodes a <member> or <param> element into a
// Field: its modifier chain (C3), optional/output flags, allowed-values
// list, and bit-field width. parent is the owning *Struct or *Command,
// threaded through so DynamicArray.LengthExpr can navigate sibling fields.
func parseParameterOrMember(me *xmlquery.Node, parent any) (*Field, error) {
	nameNode := childElement(me, "name")
	typeNode := childElement(me, "type")
	if nameNode == nil || typeNode == nil {
		return nil, fmt.Errorf("%w: member/param missing <name> or <type>", ErrSchema)
	}
	name := text(nameNode)
	baseTypeName := text(typeNode)

	declarator := rawDeclarator(me)
	levels, bits, err := parseDeclarator(declarator)
	if err != nil {
		return nil, err
	}

	lenAttr := attr(me, "altlen", "")
	if lenAttr == "" {
		lenAttr = attr(me, "len", "")
	}
	if err := assignDynamicLengths(levels, lenAttr); err != nil {
		return nil, err
	}

	var t Type = &typeRef{Ref: baseTypeName}
	for i := len(levels) - 1; i >= 0; i-- {
		lvl := levels[i]
		switch {
		case lvl.isFixedArray:
			t = &FixedArray{typeModifier: typeModifier{Base: t, IsConst: lvl.isConst}, Length: lvl.length}
		case lvl.hasLength:
			if lvl.length == "null-terminated" {
				t = &typeRef{Ref: "string"}
			} else {
				t = &DynamicArray{typeModifier: typeModifier{Base: t, IsConst: lvl.isConst}, Length: lvl.length, Parent: parent}
			}
		case t.TypeName() == "void" && name == "pNext":
			t = &NextPointer{typeModifier: typeModifier{Base: t, IsConst: lvl.isConst}}
		default:
			t = &Pointer{typeModifier: typeModifier{Base: t, IsConst: lvl.isConst}}
		}
	}

	f := &Field{Name: name, Type: t, Node: me}

	if values := attr(me, "values", ""); values != "" {
		for _, v := range strings.Split(values, ",") {
			if v != "" {
				f.Values = append(f.Values, v)
			}
		}
	}
	f.IsOptional = attr(me, "optional", "") == "true"

	isPointer := len(levels) > 0 && !levels[0].isFixedArray
	isConstOuter := len(levels) > 0 && levels[0].isConst
	f.IsOutput = isPointer && !isConstOuter

	f.BitSize = bits

	return f, nil
}
