package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveChainReplacesRef(t *testing.T) {
	t.Parallel()

	r := newRegistry(nil)
	target := &BaseType{Name: "uint32_t"}
	r.Types["uint32_t"] = target

	resolved := resolveChain(r, &typeRef{Ref: "uint32_t"})
	assert.Same(t, Type(target), resolved)
}

func TestResolveChainRecursesIntoPointer(t *testing.T) {
	t.Parallel()

	r := newRegistry(nil)
	target := &Struct{Name: "VkDevice_T"}
	r.Types["VkDevice_T"] = target

	p := &Pointer{typeModifier: typeModifier{Base: &typeRef{Ref: "VkDevice_T"}}}
	resolved := resolveChain(r, p)
	assert.Same(t, p, resolved)
	assert.Same(t, Type(target), p.Base)
}

func TestResolveChainIsIdempotent(t *testing.T) {
	t.Parallel()

	r := newRegistry(nil)
	target := &BaseType{Name: "uint32_t"}
	r.Types["uint32_t"] = target

	once := resolveChain(r, &typeRef{Ref: "uint32_t"})
	twice := resolveChain(r, once)
	assert.Same(t, once, twice)
}

func TestLinkExtendsDeduplicates(t *testing.T) {
	t.Parallel()

	child := &Struct{Name: "VkPhysicalDeviceVulkan12Features"}
	target := &Struct{Name: "VkPhysicalDeviceFeatures2"}

	linkExtends(child, target)
	linkExtends(child, target)

	require.Len(t, target.ExtendedBy, 1)
	assert.Same(t, Type(child), target.ExtendedBy[0])
}

func TestResolveRefsLinksStructExtendsBothWays(t *testing.T) {
	t.Parallel()

	r := newRegistry(nil)
	target := &Struct{Name: "VkPhysicalDeviceFeatures2"}
	child := &Struct{
		Name:          "VkPhysicalDeviceVulkan12Features",
		StructExtends: []Type{&typeRef{Ref: "VkPhysicalDeviceFeatures2"}},
	}
	r.Types[target.Name] = target
	r.Types[child.Name] = child

	resolveRefs(r)

	require.Len(t, child.StructExtends, 1)
	assert.Same(t, Type(target), child.StructExtends[0])
	require.Len(t, target.ExtendedBy, 1)
	assert.Same(t, Type(child), target.ExtendedBy[0])
}

func TestValidateResolvedReportsDanglingRef(t *testing.T) {
	t.Parallel()

	r := newRegistry(nil)
	r.Types["VkFoo"] = &Handle{Name: "VkFoo", Parent: &typeRef{Ref: "VkMissing"}}

	err := validateResolved(r)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnresolvedReference)
}

func TestValidateResolvedAcceptsFullyResolvedGraph(t *testing.T) {
	t.Parallel()

	r := newRegistry(nil)
	r.Types["uint32_t"] = &BaseType{Name: "uint32_t"}
	r.Commands["vkGetFenceStatus"] = &Command{
		Name:       "vkGetFenceStatus",
		ReturnType: r.Types["uint32_t"],
	}

	assert.NoError(t, validateResolved(r))
}
