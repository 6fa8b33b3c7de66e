package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveAliasesStripsAliasesButKeepsBaseTypeAliases(t *testing.T) {
	t.Parallel()

	m := map[string]Type{
		"VkBool32":       &TypeAlias{Name: "VkBool32", Alias: &BaseType{Name: "uint32_t"}},
		"VK_FOO_KHR":     &TypeAlias{Name: "VK_FOO_KHR", Alias: &EnumValue{Name: "VK_FOO"}},
		"VK_FOO":         &EnumValue{Name: "VK_FOO"},
	}

	out := ResolveAliases(m, false)

	_, hasBool32 := out["VkBool32"]
	_, hasAliasEntry := out["VK_FOO_KHR"]
	_, hasTarget := out["VK_FOO"]

	assert.True(t, hasBool32, "base-type aliases should survive by default")
	assert.False(t, hasAliasEntry)
	assert.True(t, hasTarget)
}

func TestDynamicArrayLengthExprSimpleIdentifier(t *testing.T) {
	t.Parallel()

	cmd := &Command{Name: "vkGetPhysicalDeviceQueueFamilyProperties"}
	cmd.Parameters = []*Field{
		{Name: "pQueueFamilyPropertyCount", Type: &Pointer{}},
	}
	da := &DynamicArray{Length: "pQueueFamilyPropertyCount", Parent: cmd}

	assert.Equal(t, "*obj.pQueueFamilyPropertyCount", da.LengthExpr("obj"))
}

func TestDynamicArrayLengthExprNavigatesNestedStruct(t *testing.T) {
	t.Parallel()

	allocateInfo := &Struct{
		Name: "VkDescriptorSetAllocateInfo",
		Members: []*Field{
			{Name: "descriptorSetCount", Type: &BaseType{Name: "uint32_t"}},
		},
	}
	cmd := &Command{Name: "vkAllocateDescriptorSets"}
	cmd.Parameters = []*Field{
		{Name: "pAllocateInfo", Type: &Pointer{typeModifier: typeModifier{Base: allocateInfo}}},
	}
	da := &DynamicArray{Length: "pAllocateInfo->descriptorSetCount", Parent: cmd}

	assert.Equal(t, "args.pAllocateInfo->descriptorSetCount", da.LengthExpr("args"))
}

func TestDynamicArrayLengthExprRewritesEmbeddedArithmeticExpression(t *testing.T) {
	t.Parallel()

	info := &Struct{
		Name: "VkPipelineMultisampleStateCreateInfo",
		Members: []*Field{
			{Name: "rasterizationSamples", Type: &BaseType{Name: "VkSampleCountFlagBits"}},
		},
	}
	da := &DynamicArray{Length: "(rasterizationSamples + 31) / 32", Parent: info}

	assert.Equal(t, "(o.rasterizationSamples + 31) / 32", da.LengthExpr("o"))
}

func TestDynamicArrayLengthExprPassesThroughUnresolvableIdentifier(t *testing.T) {
	t.Parallel()

	// No Parent to resolve "rasterizationSamples" against: the field lookup
	// fails and the length is returned unchanged, the same as a length that
	// names a constant rather than a field.
	da := &DynamicArray{Length: "(rasterizationSamples + 31) / 32"}
	require.Equal(t, "(rasterizationSamples + 31) / 32", da.LengthExpr("obj"))
}
