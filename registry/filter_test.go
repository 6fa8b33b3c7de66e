package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRegistryForFilter() *Registry {
	r := newRegistry(nil)

	khrSurface := &Extension{Name: "VK_KHR_surface", Number: 1, Author: "KHR", Platform: "", Supported: "vulkan"}
	ggpStream := &Extension{Name: "VK_GGP_stream_descriptor_surface", Number: 60, Author: "GGP", Platform: "ggp", Supported: "vulkan"}
	r.Extensions[khrSurface.Name] = khrSurface
	r.Extensions[ggpStream.Name] = ggpStream

	core := &BaseType{Name: "uint32_t"}
	khrType := &Handle{Name: "VkSurfaceKHR", Extensions: []*Extension{khrSurface}}
	ggpType := &Handle{Name: "VkStreamDescriptorSurfaceCreateInfoGGP", Extensions: []*Extension{ggpStream}}
	r.Types[core.Name] = core
	r.Types[khrType.Name] = khrType
	r.Types[ggpType.Name] = ggpType

	r.Commands["vkCreateSurfaceKHR"] = &Command{Name: "vkCreateSurfaceKHR", Extensions: []*Extension{khrSurface}}
	r.Commands["vkCreateStreamDescriptorSurfaceGGP"] = &Command{Name: "vkCreateStreamDescriptorSurfaceGGP", Extensions: []*Extension{ggpStream}}

	r.platformDefs = []platformDef{{Name: "ggp", Macro: "VK_USE_PLATFORM_GGP"}}

	return r
}

func TestFilterByPlatformKeepsOnlyThatPlatformAndCore(t *testing.T) {
	t.Parallel()

	r := newTestRegistryForFilter()
	filtered, err := r.Filter(FilterOptions{Platforms: []string{"ggp"}})
	require.NoError(t, err)

	_, hasCore := filtered.Types["uint32_t"]
	_, hasGGP := filtered.Types["VkStreamDescriptorSurfaceCreateInfoGGP"]
	_, hasKHR := filtered.Types["VkSurfaceKHR"]

	assert.True(t, hasCore)
	assert.True(t, hasGGP)
	assert.False(t, hasKHR)
}

func TestFilterAllowListForcesInclusion(t *testing.T) {
	t.Parallel()

	r := newTestRegistryForFilter()
	filtered, err := r.Filter(FilterOptions{
		Platforms:         []string{""},
		AllowedExtensions: []string{"VK_GGP_stream_descriptor_surface"},
	})
	require.NoError(t, err)

	_, ok := filtered.Types["VkStreamDescriptorSurfaceCreateInfoGGP"]
	assert.True(t, ok)
}

func TestFilterBlockListForcesExclusion(t *testing.T) {
	t.Parallel()

	r := newTestRegistryForFilter()
	filtered, err := r.Filter(FilterOptions{
		BlockedExtensions: []string{"VK_KHR_surface"},
	})
	require.NoError(t, err)

	_, ok := filtered.Types["VkSurfaceKHR"]
	assert.False(t, ok)
}

func TestFilterUnknownAllowNameIsInconsistency(t *testing.T) {
	t.Parallel()

	r := newTestRegistryForFilter()
	_, err := r.Filter(FilterOptions{AllowedExtensions: []string{"VK_NOT_A_REAL_EXTENSION"}})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFilterInconsistency)
}

func TestFilterDoesNotMutateSource(t *testing.T) {
	t.Parallel()

	r := newTestRegistryForFilter()
	before := len(r.Types)

	_, err := r.Filter(FilterOptions{Platforms: []string{""}})
	require.NoError(t, err)

	assert.Len(t, r.Types, before)
	assert.Contains(t, r.Types, "VkSurfaceKHR")
}

func TestFilterPrunesStructExtendsEdgesToRemovedTargets(t *testing.T) {
	t.Parallel()

	r := newRegistry(nil)
	ext := &Extension{Name: "VK_EXT_dropped", Author: "EXT"}
	r.Extensions[ext.Name] = ext

	target := &Struct{Name: "VkPhysicalDeviceFeatures2"}
	child := &Struct{
		Name:          "VkPhysicalDeviceCustomFeaturesEXT",
		Extensions:    []*Extension{ext},
		StructExtends: []Type{target},
	}
	target.ExtendedBy = []Type{child}

	r.Types[target.Name] = target
	r.Types[child.Name] = child

	filtered, err := r.Filter(FilterOptions{BlockedExtensions: []string{"VK_EXT_dropped"}})
	require.NoError(t, err)

	survivingTarget := filtered.Types[target.Name].(*Struct)
	assert.Empty(t, survivingTarget.ExtendedBy)
}

func TestFilterRelinksStructEdgesToPrunedCopiesOfSurvivors(t *testing.T) {
	t.Parallel()

	r := newRegistry(nil)

	target := &Struct{Name: "VkPhysicalDeviceFeatures2"}
	child := &Struct{Name: "VkPhysicalDeviceVulkan11Features", StructExtends: []Type{target}}
	target.ExtendedBy = []Type{child}

	r.Types[target.Name] = target
	r.Types[child.Name] = child

	filtered, err := r.Filter(FilterOptions{Platforms: []string{""}})
	require.NoError(t, err)

	survivingTarget := filtered.Types[target.Name].(*Struct)
	survivingChild := filtered.Types[child.Name].(*Struct)

	require.Len(t, survivingTarget.ExtendedBy, 1)
	assert.Same(t, survivingChild, survivingTarget.ExtendedBy[0],
		"target.ExtendedBy must reference the pruned copy stored under child.name, not the pre-prune original")

	require.Len(t, survivingChild.StructExtends, 1)
	assert.Same(t, survivingTarget, survivingChild.StructExtends[0],
		"child.StructExtends must reference the pruned copy stored under target.name, not the pre-prune original")
}

func TestPruneEnumValuesKeepsCoreDropsFiltered(t *testing.T) {
	t.Parallel()

	ext := &Extension{Name: "VK_EXT_dropped"}
	enum := &Enum{
		Name: "VkResult",
		Values: map[string]Type{
			"VK_SUCCESS":          &EnumValue{Name: "VK_SUCCESS", Value: 0, Valid: true},
			"VK_ERROR_DROPPED_EXT": &EnumValue{Name: "VK_ERROR_DROPPED_EXT", Value: -100, Valid: true, Extensions: []*Extension{ext}},
		},
	}

	pruned := pruneEnumValues(enum, map[string]*Extension{})
	_, hasCore := pruned.Values["VK_SUCCESS"]
	_, hasExt := pruned.Values["VK_ERROR_DROPPED_EXT"]
	assert.True(t, hasCore)
	assert.False(t, hasExt)

	// the source enum is untouched
	assert.Len(t, enum.Values, 2)
}
