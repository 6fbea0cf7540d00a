package vulkan

import vk "github.com/goki/vulkan"

const (
	bindingTexture uint32 = 0
	bindingAtlas   uint32 = 1
)

/**
 * @brief The descriptor sets of one texture. Main pairs the texture with the
 * mask atlas; Mask pairs it with a white texture because the atlas is the
 * render target while masks are drawn.
 */
type VulkanTextureDescriptors struct {
	Main vk.DescriptorSet
	Mask vk.DescriptorSet
}

func createDescriptorSetLayout(context *VulkanContext) error {
	bindings := make([]vk.DescriptorSetLayoutBinding, VULKAN_SHADER_MAX_BINDINGS)
	for i := range bindings {
		bindings[i] = vk.DescriptorSetLayoutBinding{
			Binding:         uint32(i),
			DescriptorType:  vk.DescriptorTypeCombinedImageSampler,
			DescriptorCount: 1,
			StageFlags:      vk.ShaderStageFlags(vk.ShaderStageFragmentBit),
		}
	}

	layoutInfo := vk.DescriptorSetLayoutCreateInfo{
		SType:        vk.StructureTypeDescriptorSetLayoutCreateInfo,
		BindingCount: uint32(len(bindings)),
		PBindings:    bindings,
	}
	return lockPool.SafeCall(DescriptorManagement, func() error {
		if res := vk.CreateDescriptorSetLayout(context.Device.LogicalDevice, &layoutInfo, context.Allocator, &context.DescriptorSetLayout); res != vk.Success {
			return resultError("vkCreateDescriptorSetLayout", res)
		}
		return nil
	})
}

func createDescriptorPool(context *VulkanContext) error {
	maxSets := 2 * VULKAN_MAX_TEXTURE_COUNT
	poolSizes := []vk.DescriptorPoolSize{
		{
			Type:            vk.DescriptorTypeCombinedImageSampler,
			DescriptorCount: maxSets * VULKAN_SHADER_MAX_BINDINGS,
		},
	}
	poolInfo := vk.DescriptorPoolCreateInfo{
		SType:         vk.StructureTypeDescriptorPoolCreateInfo,
		Flags:         vk.DescriptorPoolCreateFlags(vk.DescriptorPoolCreateFreeDescriptorSetBit),
		MaxSets:       maxSets,
		PoolSizeCount: uint32(len(poolSizes)),
		PPoolSizes:    poolSizes,
	}
	return lockPool.SafeCall(DescriptorManagement, func() error {
		if res := vk.CreateDescriptorPool(context.Device.LogicalDevice, &poolInfo, context.Allocator, &context.DescriptorPool); res != vk.Success {
			return resultError("vkCreateDescriptorPool", res)
		}
		return nil
	})
}

func createSampler(context *VulkanContext) error {
	samplerInfo := vk.SamplerCreateInfo{
		SType:                   vk.StructureTypeSamplerCreateInfo,
		MagFilter:               vk.FilterLinear,
		MinFilter:               vk.FilterLinear,
		AddressModeU:            vk.SamplerAddressModeClampToEdge,
		AddressModeV:            vk.SamplerAddressModeClampToEdge,
		AddressModeW:            vk.SamplerAddressModeClampToEdge,
		AnisotropyEnable:        vk.False,
		MaxAnisotropy:           1,
		BorderColor:             vk.BorderColorIntOpaqueWhite,
		UnnormalizedCoordinates: vk.False,
		CompareEnable:           vk.False,
		CompareOp:               vk.CompareOpAlways,
		MipmapMode:              vk.SamplerMipmapModeLinear,
	}
	if res := vk.CreateSampler(context.Device.LogicalDevice, &samplerInfo, context.Allocator, &context.Sampler); res != vk.Success {
		return resultError("vkCreateSampler", res)
	}
	return nil
}

// allocateTextureDescriptors allocates and writes both sets of a texture.
func allocateTextureDescriptors(context *VulkanContext, view vk.ImageView, white vk.ImageView) (*VulkanTextureDescriptors, error) {
	out := &VulkanTextureDescriptors{}
	err := lockPool.SafeCall(DescriptorManagement, func() error {
		layouts := []vk.DescriptorSetLayout{context.DescriptorSetLayout}
		for _, set := range []*vk.DescriptorSet{&out.Main, &out.Mask} {
			allocInfo := vk.DescriptorSetAllocateInfo{
				SType:              vk.StructureTypeDescriptorSetAllocateInfo,
				DescriptorPool:     context.DescriptorPool,
				DescriptorSetCount: 1,
				PSetLayouts:        layouts,
			}
			if res := vk.AllocateDescriptorSets(context.Device.LogicalDevice, &allocInfo, set); res != vk.Success {
				return resultError("vkAllocateDescriptorSets", res)
			}
		}
		return nil
	})
	if err != nil {
		out.Free(context)
		return nil, err
	}

	writes := []vk.WriteDescriptorSet{
		imageWrite(out.Main, bindingTexture, context.Sampler, view),
		imageWrite(out.Main, bindingAtlas, context.Sampler, context.MaskAtlas.View),
		imageWrite(out.Mask, bindingTexture, context.Sampler, view),
		imageWrite(out.Mask, bindingAtlas, context.Sampler, white),
	}
	_ = lockPool.SafeCall(DescriptorManagement, func() error {
		vk.UpdateDescriptorSets(context.Device.LogicalDevice, uint32(len(writes)), writes, 0, nil)
		return nil
	})
	return out, nil
}

func imageWrite(set vk.DescriptorSet, binding uint32, sampler vk.Sampler, view vk.ImageView) vk.WriteDescriptorSet {
	return vk.WriteDescriptorSet{
		SType:           vk.StructureTypeWriteDescriptorSet,
		DstSet:          set,
		DstBinding:      binding,
		DstArrayElement: 0,
		DescriptorCount: 1,
		DescriptorType:  vk.DescriptorTypeCombinedImageSampler,
		PImageInfo: []vk.DescriptorImageInfo{
			{
				Sampler:     sampler,
				ImageView:   view,
				ImageLayout: vk.ImageLayoutShaderReadOnlyOptimal,
			},
		},
	}
}

func (d *VulkanTextureDescriptors) Free(context *VulkanContext) {
	if d == nil {
		return
	}
	var sets []vk.DescriptorSet
	for _, s := range []vk.DescriptorSet{d.Main, d.Mask} {
		if s != nil {
			sets = append(sets, s)
		}
	}
	if len(sets) > 0 {
		_ = lockPool.SafeCall(DescriptorManagement, func() error {
			vk.FreeDescriptorSets(context.Device.LogicalDevice, context.DescriptorPool, uint32(len(sets)), sets)
			return nil
		})
	}
	d.Main = nil
	d.Mask = nil
}

func destroyDescriptors(context *VulkanContext) {
	device := context.Device.LogicalDevice
	if context.DescriptorPool != nil {
		vk.DestroyDescriptorPool(device, context.DescriptorPool, context.Allocator)
		context.DescriptorPool = nil
	}
	if context.DescriptorSetLayout != nil {
		vk.DestroyDescriptorSetLayout(device, context.DescriptorSetLayout, context.Allocator)
		context.DescriptorSetLayout = nil
	}
	if context.Sampler != nil {
		vk.DestroySampler(device, context.Sampler, context.Allocator)
		context.Sampler = nil
	}
}
