package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const miniRegistry = `<?xml version="1.0" encoding="UTF-8"?>
<registry>
	<platforms>
		<platform name="ggp" protect="VK_USE_PLATFORM_GGP"/>
	</platforms>
	<types>
		<type name="void"></type>
		<type name="uint32_t"></type>
		<type category="basetype"><type>uint32_t</type><name>VkBool32</name></type>
		<type category="define">#define <name>VK_HEADER_VERSION</name> 261</type>
		<type category="define" name="VK_API_VERSION_1_1">(~0U)</type>
		<type category="handle"><type>VK_DEFINE_HANDLE</type><name>VkInstance</name></type>
		<type category="handle" parent="VkInstance"><type>VK_DEFINE_HANDLE</type><name>VkPhysicalDevice</name></type>
		<type category="struct" name="VkApplicationInfo">
			<member><type>VkStructureType</type><name>sType</name></member>
			<member>const <type>void</type>* <name>pNext</name></member>
		</type>
	</types>
	<enums name="VkStructureType" type="enum">
		<enum name="VK_STRUCTURE_TYPE_APPLICATION_INFO" value="0"/>
	</enums>
	<enums name="VkResult" type="enum">
		<enum name="VK_SUCCESS" value="0"/>
	</enums>
	<commands>
		<command><proto><type>VkResult</type><name>vkCreateInstance</name></proto>
			<param>const <type>VkApplicationInfo</type>* <name>pCreateInfo</name></param>
		</command>
	</commands>
	<extensions>
		<extension name="VK_GGP_stream_descriptor_surface" number="60" author="GGP" platform="ggp" supported="vulkan">
			<require>
				<type name="VkApplicationInfo"/>
			</require>
		</extension>
	</extensions>
	<feature name="VK_VERSION_1_0" number="1.0">
		<require><command name="vkCreateInstance"/></require>
	</feature>
</registry>`

func writeTempRegistry(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "vk.xml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoadEndToEnd(t *testing.T) {
	t.Parallel()

	path := writeTempRegistry(t, miniRegistry)
	r, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 1, r.VersionMajor)
	assert.Equal(t, 1, r.VersionMinor)
	assert.Equal(t, 261, r.VersionPatch)

	app, ok := r.Types["VkApplicationInfo"].(*Struct)
	require.True(t, ok)
	pNext := app.FindMember("pNext")
	require.NotNil(t, pNext)
	_, isNextPointer := pNext.Type.(*NextPointer)
	assert.True(t, isNextPointer)

	cmd := r.Commands["vkCreateInstance"]
	require.NotNil(t, cmd)
	assert.True(t, cmd.IsInstance)
	assert.Equal(t, "VK_VERSION_1_0", cmd.Feature)

	assert.NoError(t, validateResolved(r))
}

func TestLoadMissingFileIsIOError(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "does-not-exist.xml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrIO)
}

func TestLoadMalformedXMLIsParseError(t *testing.T) {
	t.Parallel()

	path := writeTempRegistry(t, "<registry><unterminated>")
	_, err := Load(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrParse)
}

func TestLoadThenFilterEndToEnd(t *testing.T) {
	t.Parallel()

	path := writeTempRegistry(t, miniRegistry)
	r, err := Load(path)
	require.NoError(t, err)

	filtered, err := r.Filter(FilterOptions{Platforms: []string{""}})
	require.NoError(t, err)

	_, hasApplicationInfo := filtered.Types["VkApplicationInfo"]
	assert.False(t, hasApplicationInfo, "VkApplicationInfo is GGP-only and should not survive a core-only filter")

	core, ok := filtered.Platforms[""]
	require.True(t, ok)
	assert.Contains(t, core.Types, "VkInstance")
}
