package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCommandsAliasesSharePointer(t *testing.T) {
	t.Parallel()

	doc := parseDoc(t, `<registry><commands>
		<command><proto><type>void</type><name>vkTrimCommandPool</name></proto></command>
		<command name="vkTrimCommandPoolKHR" alias="vkTrimCommandPool"/>
	</commands></registry>`)

	r := newRegistry(nil)
	require.NoError(t, parseCommands(r, doc))

	original := r.Commands["vkTrimCommandPool"]
	alias := r.Commands["vkTrimCommandPoolKHR"]
	assert.Same(t, original, alias)

	// mutating through either name is visible through the other
	original.Feature = "VK_VERSION_1_1"
	assert.Equal(t, "VK_VERSION_1_1", alias.Feature)
}

func TestParseCommandsRejectsUnknownAliasTarget(t *testing.T) {
	t.Parallel()

	doc := parseDoc(t, `<registry><commands>
		<command name="vkFoo" alias="vkDoesNotExist"/>
	</commands></registry>`)

	r := newRegistry(nil)
	err := parseCommands(r, doc)
	assert.ErrorIs(t, err, ErrSchema)
}

func TestComputeIsInstanceVkCreateInstance(t *testing.T) {
	t.Parallel()

	r := newRegistry(nil)
	r.Commands["vkCreateInstance"] = &Command{Name: "vkCreateInstance"}
	computeIsInstance(r)

	assert.True(t, r.Commands["vkCreateInstance"].IsInstance)
}

func TestComputeIsInstanceFromFirstParameterHandle(t *testing.T) {
	t.Parallel()

	r := newRegistry(nil)
	instance := &Handle{Name: "VkInstance"}
	physDevice := &Handle{Name: "VkPhysicalDevice", Parent: instance}
	device := &Handle{Name: "VkDevice", Parent: physDevice}

	r.Commands["vkEnumeratePhysicalDevices"] = &Command{
		Name:       "vkEnumeratePhysicalDevices",
		Parameters: []*Field{{Name: "instance", Type: instance}},
	}
	r.Commands["vkCreateBuffer"] = &Command{
		Name:       "vkCreateBuffer",
		Parameters: []*Field{{Name: "device", Type: device}},
	}

	computeIsInstance(r)

	assert.True(t, r.Commands["vkEnumeratePhysicalDevices"].IsInstance)
	assert.False(t, r.Commands["vkCreateBuffer"].IsInstance)
}

func TestHandleIsInstanceHandleSwapchainSpecialCase(t *testing.T) {
	t.Parallel()

	instance := &Handle{Name: "VkInstance"}
	surface := &Handle{Name: "VkSurfaceKHR", Parent: instance}
	swapchain := &Handle{Name: "VkSwapchainKHR", Parent: surface}

	assert.True(t, surface.IsInstanceHandle())
	assert.False(t, swapchain.IsInstanceHandle(), "VkSwapchainKHR is hardcoded as a device handle")
	assert.True(t, swapchain.IsDeviceHandle())
}
