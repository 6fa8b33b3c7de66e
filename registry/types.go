package registry

import "github.com/antchfx/xmlquery"

// Type is the sum type over every node in the type graph: base types,
// handles, enums, aggregates, and the modifier chain (pointers and arrays)
// that decorates a declared field or parameter type; a bit-field width is
// recorded on the Field (BitSize), not as a Type. Concrete
// variants below are its only implementations; callers switch on them
// rather than querying dynamic type tags.
type Type interface {
	// TypeName returns the type's registry name, e.g. "VkDevice" or
	// "VkPhysicalDeviceFeatures2KHR". Modifier variants synthesize a
	// descriptive name (see their TypeName implementations) since they
	// have no XML-declared identity of their own.
	TypeName() string

	isType()
}

// typeRef is a forward-reference placeholder: a name that hasn't been
// resolved to its catalog entry yet, because the referencing node was
// parsed before its target was declared. resolveRefs (C4) replaces every
// reachable *typeRef with the real Type it names.
type typeRef struct {
	Ref string
}

func (t *typeRef) TypeName() string { return t.Ref }
func (*typeRef) isType()            {}

// BaseType is a primitive or opaque C type carried through verbatim
// (uint32_t, void, the synthetic "string" for null-terminated C strings).
type BaseType struct {
	Name       string
	Node       *xmlquery.Node
	Extensions []*Extension
}

func (t *BaseType) TypeName() string            { return t.Name }
func (*BaseType) isType()                       {}
func (t *BaseType) addExtension(e *Extension)   { t.Extensions = append(t.Extensions, e) }
func (t *BaseType) extensionList() []*Extension { return t.Extensions }

// Define represents a types/type[@category='define'] entry — a C
// preprocessor definition. Text and Tail hold the raw element text used to
// recover version information (VK_HEADER_VERSION's trailing integer).
type Define struct {
	Name       string
	Node       *xmlquery.Node
	Text       string
	Tail       string
	Extensions []*Extension
}

func (t *Define) TypeName() string            { return t.Name }
func (*Define) isType()                       {}
func (t *Define) addExtension(e *Extension)   { t.Extensions = append(t.Extensions, e) }
func (t *Define) extensionList() []*Extension { return t.Extensions }

// Handle is an opaque Vulkan object reference. Parent is nil for handles
// with no declared parent (e.g. VkInstance); otherwise it is resolved to the
// parent Handle during C4.
type Handle struct {
	Name         string
	Node         *xmlquery.Node
	Dispatchable bool // true for VK_DEFINE_HANDLE, false for VK_DEFINE_NON_DISPATCHABLE_HANDLE
	Parent       Type // *Handle after resolution, *typeRef before, nil if no parent
	Extensions   []*Extension
}

func (t *Handle) TypeName() string            { return t.Name }
func (*Handle) isType()                       {}
func (t *Handle) addExtension(e *Extension)   { t.Extensions = append(t.Extensions, e) }
func (t *Handle) extensionList() []*Extension { return t.Extensions }

// IsInstanceHandle reports whether this handle's parent chain climbs to
// VkInstance without passing through VkDevice: VkDevice itself and every
// handle below it are device handles. VkSwapchainKHR is also hardcoded as a
// device handle regardless of its declared parent, whose parent attribute
// points at an instance-level object despite being used device-side.
func (t *Handle) IsInstanceHandle() bool {
	switch t.Name {
	case "VkInstance":
		return true
	case "VkDevice", "VkSwapchainKHR":
		return false
	}
	parent, ok := t.Parent.(*Handle)
	if !ok {
		return false
	}
	return parent.IsInstanceHandle()
}

// IsDeviceHandle is the logical complement of IsInstanceHandle.
func (t *Handle) IsDeviceHandle() bool { return !t.IsInstanceHandle() }

// EnumValue is a single enumerand: either decoded to an integer (Valid),
// or retained as the raw literal text it could not parse, so a malformed
// literal doesn't abort loading the rest of the registry.
type EnumValue struct {
	Name       string
	Node       *xmlquery.Node
	Value      int64
	Valid      bool   // false if Value couldn't be decoded; Raw holds the literal
	Raw        string
	Comment    string
	Extensions []*Extension
}

func (v *EnumValue) TypeName() string            { return v.Name }
func (*EnumValue) isType()                       {}
func (v *EnumValue) addExtension(e *Extension)   { v.Extensions = append(v.Extensions, e) }
func (v *EnumValue) extensionList() []*Extension { return v.Extensions }

// Enum is a named set of EnumValue (or TypeAlias, for aliased enumerands).
// IsBitmask is set either by an explicit type="bitmask" declaration or by
// the presence of any bitpos= enumerand.
type Enum struct {
	Name       string
	Node       *xmlquery.Node
	Values     map[string]Type // *EnumValue or *TypeAlias
	IsBitmask  bool
	BitWidth   int // 32 or 64
	Extensions []*Extension
}

func (t *Enum) TypeName() string            { return t.Name }
func (*Enum) isType()                       {}
func (t *Enum) addExtension(e *Extension)   { t.Extensions = append(t.Extensions, e) }
func (t *Enum) extensionList() []*Extension { return t.Extensions }

// GetIntegerValues resolves every value (including aliases) to its decoded
// integer form. A value that failed integer decoding is reported as 0; use
// Values directly to inspect EnumValue.Valid/Raw for those entries.
func (t *Enum) GetIntegerValues() map[string]int64 {
	out := make(map[string]int64, len(t.Values))
	for name, v := range t.Values {
		out[name] = resolveEnumValue(v).Value
	}
	return out
}

// UniqueValues returns the subset of Values that are not TypeAlias entries.
func (t *Enum) UniqueValues() map[string]Type {
	return ResolveAliases(t.Values, false)
}

func resolveEnumValue(t Type) *EnumValue {
	for {
		switch v := t.(type) {
		case *EnumValue:
			return v
		case *TypeAlias:
			t = v.Alias
		default:
			return &EnumValue{}
		}
	}
}

// Bitmask is a 32- or 64-bit flags type whose legal bits are described by
// an associated Enum (Flags). Flags is nil for placeholder bitmasks with no
// declared values.
type Bitmask struct {
	Name       string
	Node       *xmlquery.Node
	CType      string // underlying C type, e.g. "VkFlags" or "VkFlags64"
	Flags      Type   // *Enum, or *typeRef before resolution, or nil
	Extensions []*Extension
}

func (t *Bitmask) TypeName() string            { return t.Name }
func (*Bitmask) isType()                       {}
func (t *Bitmask) addExtension(e *Extension)   { t.Extensions = append(t.Extensions, e) }
func (t *Bitmask) extensionList() []*Extension { return t.Extensions }

// FunctionPointer represents a types/type[@category='funcpointer'] entry.
// Parameter parsing is intentionally shallow: function pointer parameter
// lists use a different sub-schema than command parameters and no consumer
// here needs them resolved.
type FunctionPointer struct {
	Name       string
	Node       *xmlquery.Node
	Extensions []*Extension
}

func (t *FunctionPointer) TypeName() string            { return t.Name }
func (*FunctionPointer) isType()                       {}
func (t *FunctionPointer) addExtension(e *Extension)   { t.Extensions = append(t.Extensions, e) }
func (t *FunctionPointer) extensionList() []*Extension { return t.Extensions }

// Struct represents a Vulkan struct or union (IsUnion distinguishes them).
// StructExtends and ExtendedBy are kept as exact mirrors of each other by
// linkExtends (see resolve.go); code that prunes either list must prune
// both.
type Struct struct {
	Name          string
	Node          *xmlquery.Node
	IsUnion       bool
	ReturnedOnly  bool
	Members       []*Field
	StructExtends []Type // names until C4, *Struct after
	ExtendedBy    []Type
	Extensions    []*Extension
}

func (t *Struct) TypeName() string            { return t.Name }
func (*Struct) isType()                       {}
func (t *Struct) addExtension(e *Extension)   { t.Extensions = append(t.Extensions, e) }
func (t *Struct) extensionList() []*Extension { return t.Extensions }

// FindMember returns the member field named name, or nil.
func (t *Struct) FindMember(name string) *Field {
	for _, m := range t.Members {
		if m.Name == name {
			return m
		}
	}
	return nil
}

// TypeAlias is a secondary name for a type or enum value: a promotion, an
// extension rename, or a backwards-compatible typo fix. Resolve walks the
// acyclic alias chain to its non-alias target.
type TypeAlias struct {
	Name       string
	Alias      Type
	Extensions []*Extension
}

func (t *TypeAlias) TypeName() string            { return t.Name }
func (*TypeAlias) isType()                       {}
func (t *TypeAlias) addExtension(e *Extension)   { t.Extensions = append(t.Extensions, e) }
func (t *TypeAlias) extensionList() []*Extension { return t.Extensions }

// Resolve walks the alias chain to its terminal, non-alias Type.
func (t *TypeAlias) Resolve() Type {
	var cur Type = t
	for {
		alias, ok := cur.(*TypeAlias)
		if !ok {
			return cur
		}
		cur = alias.Alias
	}
}

// IsBaseTypeAlias reports whether this alias ultimately resolves to a
// BaseType, e.g. VkBool32 -> uint32_t.
func (t *TypeAlias) IsBaseTypeAlias() bool {
	_, ok := t.Resolve().(*BaseType)
	return ok
}

// typeModifier is embedded by the four modifier variants (Pointer,
// NextPointer, FixedArray, DynamicArray) so callers can reach the wrapped
// base type without a type switch when they only care about unwrapping one
// level.
type typeModifier struct {
	Base    Type
	IsConst bool
}

func (m *typeModifier) BaseType() Type { return m.Base }

// Pointer is a single level of pointer indirection.
type Pointer struct {
	typeModifier
}

func (t *Pointer) TypeName() string {
	return modifierName("Pointer", t.IsConst, t.Base)
}
func (*Pointer) isType() {}

// NextPointer is Vulkan's pNext idiom: a void* (const or not) chaining into
// an extensible struct family.
type NextPointer struct {
	typeModifier
}

func (t *NextPointer) TypeName() string {
	return modifierName("NextPointer", t.IsConst, t.Base)
}
func (*NextPointer) isType() {}

// FixedArray is a compile-time-length array, e.g. uint8_t foo[16]. Length is
// either a decimal literal or a named enum/constant.
type FixedArray struct {
	typeModifier
	Length string
}

func (t *FixedArray) TypeName() string {
	return modifierName("FixedArray", t.IsConst, t.Base)
}
func (*FixedArray) isType() {}

// DynamicArray is a pointer whose element count is given by another field
// or parameter's value, recorded verbatim in Length (e.g.
// "pAllocateInfo->descriptorSetCount"). Parent is the *Struct or *Command
// the array belongs to, needed by LengthExpr to navigate nested structs.
type DynamicArray struct {
	typeModifier
	Length string
	Parent any // *Struct or *Command
}

func (t *DynamicArray) TypeName() string {
	return modifierName("DynamicArray", t.IsConst, t.Base)
}
func (*DynamicArray) isType() {}

func modifierName(kind string, isConst bool, base Type) string {
	baseName := ""
	if base != nil {
		baseName = base.TypeName()
	}
	if isConst {
		return "Const" + kind + "(" + baseName + ")"
	}
	return kind + "(" + baseName + ")"
}
