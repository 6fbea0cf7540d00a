package vulkan

import (
	"fmt"

	vk "github.com/goki/vulkan"
	"github.com/spaghettifunk/cubism/engine/renderer/metadata"
)

type VulkanTextureData struct {
	Image       *VulkanImage
	Descriptors *VulkanTextureDescriptors
}

func textureData(texture *metadata.Texture) (*VulkanTextureData, error) {
	data, ok := texture.InternalData.(*VulkanTextureData)
	if !ok || data == nil {
		return nil, fmt.Errorf("texture %q has no vulkan image", texture.Name)
	}
	return data, nil
}

func checkPixels(texture *metadata.Texture, pixels []uint8) error {
	want := int(texture.Width) * int(texture.Height) * 4
	if texture.Width == 0 || texture.Height == 0 || len(pixels) != want {
		return fmt.Errorf("texture %q: expected %d bytes for %dx%d, got %d", texture.Name, want, texture.Width, texture.Height, len(pixels))
	}
	return nil
}

func textureCreate(context *VulkanContext, pixels []uint8, texture *metadata.Texture) error {
	if err := checkPixels(texture, pixels); err != nil {
		return err
	}

	image, err := ImageCreate(
		context,
		texture.Width,
		texture.Height,
		vk.FormatR8g8b8a8Unorm,
		vk.ImageUsageFlags(vk.ImageUsageTransferDstBit)|vk.ImageUsageFlags(vk.ImageUsageSampledBit),
		vk.MemoryPropertyFlags(vk.MemoryPropertyDeviceLocalBit),
	)
	if err != nil {
		return err
	}
	if err := uploadPixels(context, image, pixels); err != nil {
		image.ImageDestroy(context)
		return err
	}

	// The white texture stands in for the atlas of its own mask set.
	white := image.View
	if context.WhiteTexture != nil {
		if wd, err := textureData(context.WhiteTexture); err == nil {
			white = wd.Image.View
		}
	}
	descriptors, err := allocateTextureDescriptors(context, image.View, white)
	if err != nil {
		image.ImageDestroy(context)
		return err
	}

	texture.InternalData = &VulkanTextureData{Image: image, Descriptors: descriptors}
	texture.Generation++
	return nil
}

func textureWriteData(context *VulkanContext, texture *metadata.Texture, pixels []uint8) error {
	data, err := textureData(texture)
	if err != nil {
		return err
	}
	if err := checkPixels(texture, pixels); err != nil {
		return err
	}
	if texture.Width != data.Image.Width || texture.Height != data.Image.Height {
		return fmt.Errorf("texture %q changed size from %dx%d to %dx%d", texture.Name, data.Image.Width, data.Image.Height, texture.Width, texture.Height)
	}
	// Frames in flight may still sample the old contents.
	vk.DeviceWaitIdle(context.Device.LogicalDevice)
	if err := uploadPixels(context, data.Image, pixels); err != nil {
		return err
	}
	texture.Generation++
	return nil
}

func textureDestroy(context *VulkanContext, texture *metadata.Texture) {
	data, err := textureData(texture)
	if err != nil {
		return
	}
	vk.DeviceWaitIdle(context.Device.LogicalDevice)
	data.Descriptors.Free(context)
	data.Image.ImageDestroy(context)
	texture.InternalData = nil
}

// uploadPixels copies pixels through a staging buffer and leaves the image
// shader readable. The previous contents are discarded.
func uploadPixels(context *VulkanContext, image *VulkanImage, pixels []uint8) error {
	staging, err := BufferCreate(context, uint64(len(pixels)), vk.BufferUsageFlags(vk.BufferUsageTransferSrcBit))
	if err != nil {
		return err
	}
	defer staging.Destroy(context)
	if err := staging.LoadData(pixels); err != nil {
		return err
	}

	return SingleUse(context, context.Device.GraphicsCommandPool, context.Device.GraphicsQueue, func(cb *VulkanCommandBuffer) error {
		if err := image.TransitionLayout(cb, vk.ImageLayoutUndefined, vk.ImageLayoutTransferDstOptimal); err != nil {
			return err
		}
		image.CopyFromBuffer(cb, staging.Handle)
		return image.TransitionLayout(cb, vk.ImageLayoutTransferDstOptimal, vk.ImageLayoutShaderReadOnlyOptimal)
	})
}
