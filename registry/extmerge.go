package registry

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/antchfx/xmlquery"
)

// offsetBase is the base value extension-contributed enumerands compute
// from when neither an explicit value nor a bitpos is given.
const offsetBase = 1_000_000_000

// mergeExtensions materializes every extensions/extension block: attaches
// the Extension to each referenced type and command, grafts its
// require/enum contributions onto their target enums, and records the
// *_EXTENSION_NAME / *_SPEC_VERSION enumerands.
func mergeExtensions(r *Registry, doc *xmlDoc) error {
	for _, ee := range doc.find("/registry/extensions/extension") {
		name := attr(ee, "name", "")
		if skipReservedExtension(name) {
			continue
		}
		number, err := strconv.Atoi(attr(ee, "number", "0"))
		if err != nil {
			return fmt.Errorf("%w: extension %s has non-integer number", ErrSchema, name)
		}

		ext := &Extension{
			Name:         name,
			Node:         ee,
			Number:       number,
			Platform:     attr(ee, "platform", ""),
			Author:       attr(ee, "author", ""),
			Supported:    attr(ee, "supported", ""),
			PromotedTo:   attr(ee, "promotedto", ""),
			DeprecatedBy: attr(ee, "deprecatedby", ""),
		}
		r.Extensions[name] = ext

		for _, re := range childElements(ee, "require") {
			if err := mergeRequireBlock(r, ext, re, number); err != nil {
				return err
			}
		}
	}
	return nil
}

// mergeFeatures processes feature blocks identically to extensions for
// enum extensions, using extnumber for the numeric id, and additionally
// stamps Command.Feature for every require/command.
func mergeFeatures(r *Registry, doc *xmlDoc) error {
	for _, fe := range doc.find("/registry/feature") {
		featureName := attr(fe, "name", "")
		for _, re := range childElements(fe, "require") {
			for _, ce := range childElements(re, "command") {
				cname := attr(ce, "name", "")
				if cmd, ok := r.Commands[cname]; ok {
					cmd.Feature = featureName
				}
			}
			for _, xe := range childElements(re, "enum") {
				extends := attr(xe, "extends", "")
				if extends == "" {
					continue
				}
				enum, ok := r.Types[extends].(*Enum)
				if !ok {
					continue
				}
				number := 0
				if n := attr(xe, "extnumber", ""); n != "" {
					number, _ = strconv.Atoi(n)
				}
				if err := graftEnumValue(r, enum, xe, number, nil); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// skipReservedExtension reports whether name is a placeholder entry: its
// last underscore-separated component is an integer (the numbered
// placeholder form, e.g. "VK_EXT_extension_42"), or it contains "RESERVED".
// The trailing integer is not compared with the extension's number=.
func skipReservedExtension(name string) bool {
	if strings.Contains(name, "RESERVED") {
		return true
	}
	parts := strings.Split(name, "_")
	if len(parts) == 0 {
		return false
	}
	_, err := strconv.Atoi(parts[len(parts)-1])
	return err == nil
}

func mergeRequireBlock(r *Registry, ext *Extension, re *xmlquery.Node, number int) error {
	for _, te := range childElements(re, "type") {
		name := attr(te, "name", "")
		ext.Types = append(ext.Types, name)
		if t, ok := r.Types[name]; ok {
			attachExtension(t, ext)
		}
	}
	for _, ce := range childElements(re, "command") {
		name := attr(ce, "name", "")
		ext.Commands = append(ext.Commands, name)
		if c, ok := r.Commands[name]; ok {
			c.addExtension(ext)
		}
	}
	for _, xe := range childElements(re, "enum") {
		name := attr(xe, "name", "")
		switch {
		case strings.HasSuffix(name, "_EXTENSION_NAME"):
			ext.NameEnum = name
		case strings.HasSuffix(name, "_SPEC_VERSION"):
			ext.SpecVersionEnum = name
		}

		extends := attr(xe, "extends", "")
		if extends == "" {
			continue
		}
		enum, ok := r.Types[extends].(*Enum)
		if !ok {
			r.warnf("extension enum target missing", "extension", ext.Name, "enum", extends)
			continue
		}
		if err := graftEnumValue(r, enum, xe, number, ext); err != nil {
			return err
		}
	}
	return nil
}

// attachExtension pushes ext onto t's provenance list if t tracks one.
func attachExtension(t Type, ext *Extension) {
	if e, ok := t.(extensible); ok {
		e.addExtension(ext)
	}
}

// graftEnumValue computes and inserts the value an extension or feature
// require/enum element contributes to enum, following the four rules in
// order: alias, explicit value, bitmask bitpos, or the extension-number
// offset formula. ext is nil for a value contributed directly by a feature
// block rather than by a named extension.
func graftEnumValue(r *Registry, enum *Enum, xe *xmlquery.Node, extNumber int, ext *Extension) error {
	name := attr(xe, "name", "")
	if name == "" {
		return nil
	}

	if alias := attr(xe, "alias", ""); alias != "" {
		enum.Values[name] = &TypeAlias{Name: name, Alias: &typeRef{Ref: alias}}
		if ext != nil {
			attachExtension(enum.Values[name], ext)
		}
		return nil
	}

	ev := &EnumValue{Name: name, Node: xe, Comment: attr(xe, "comment", "")}

	switch {
	case attr(xe, "value", "") != "":
		raw := attr(xe, "value", "")
		n, err := parseIntLiteral(raw)
		if err != nil {
			ev.Raw = raw
			r.warnf("enum value failed to decode", "enum", enum.Name, "name", name, "raw", raw)
		} else {
			ev.Value = n
			ev.Valid = true
		}

	case enum.IsBitmask:
		bitpos, err := strconv.Atoi(attr(xe, "bitpos", "0"))
		if err != nil {
			return fmt.Errorf("%w: enum %s value %s has non-integer bitpos", ErrSchema, enum.Name, name)
		}
		ev.Value = int64(1) << uint(bitpos)
		ev.Valid = true

	default:
		offset, err := strconv.Atoi(attr(xe, "offset", "0"))
		if err != nil {
			return fmt.Errorf("%w: enum %s value %s has non-integer offset", ErrSchema, enum.Name, name)
		}
		value := int64(offsetBase) + int64(extNumber-1)*1000 + int64(offset)
		if attr(xe, "dir", "") == "-" {
			value = -value
		}
		ev.Value = value
		ev.Valid = true
	}

	enum.Values[name] = ev
	if ext != nil {
		attachExtension(ev, ext)
	}
	return nil
}
