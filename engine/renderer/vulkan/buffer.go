package vulkan

import (
	"fmt"
	"unsafe"

	vk "github.com/goki/vulkan"
	"github.com/spaghettifunk/cubism/engine/renderer/metadata"
)

// VulkanBuffer is a host visible, coherent buffer that stays mapped for its
// whole life.
type VulkanBuffer struct {
	Handle vk.Buffer
	Memory vk.DeviceMemory
	Size   uint64
	Usage  vk.BufferUsageFlags
	mapped unsafe.Pointer
}

func BufferCreate(context *VulkanContext, size uint64, usage vk.BufferUsageFlags) (*VulkanBuffer, error) {
	buffer := &VulkanBuffer{Size: size, Usage: usage}

	bufferInfo := vk.BufferCreateInfo{
		SType:       vk.StructureTypeBufferCreateInfo,
		Size:        vk.DeviceSize(size),
		Usage:       usage,
		SharingMode: vk.SharingModeExclusive,
	}
	if res := vk.CreateBuffer(context.Device.LogicalDevice, &bufferInfo, context.Allocator, &buffer.Handle); res != vk.Success {
		return nil, resultError("vkCreateBuffer", res)
	}

	var requirements vk.MemoryRequirements
	vk.GetBufferMemoryRequirements(context.Device.LogicalDevice, buffer.Handle, &requirements)
	requirements.Deref()

	flags := uint32(vk.MemoryPropertyHostVisibleBit) | uint32(vk.MemoryPropertyHostCoherentBit)
	memoryType := context.FindMemoryIndex(requirements.MemoryTypeBits, flags)
	if memoryType == -1 {
		buffer.Destroy(context)
		return nil, fmt.Errorf("unable to create vulkan buffer because the required memory type index was not found")
	}

	allocateInfo := vk.MemoryAllocateInfo{
		SType:           vk.StructureTypeMemoryAllocateInfo,
		AllocationSize:  requirements.Size,
		MemoryTypeIndex: uint32(memoryType),
	}
	if res := vk.AllocateMemory(context.Device.LogicalDevice, &allocateInfo, context.Allocator, &buffer.Memory); res != vk.Success {
		buffer.Destroy(context)
		return nil, resultError("unable to allocate buffer memory", res)
	}
	if res := vk.BindBufferMemory(context.Device.LogicalDevice, buffer.Handle, buffer.Memory, 0); res != vk.Success {
		buffer.Destroy(context)
		return nil, resultError("vkBindBufferMemory", res)
	}
	if res := vk.MapMemory(context.Device.LogicalDevice, buffer.Memory, 0, vk.DeviceSize(size), 0, &buffer.mapped); res != vk.Success {
		buffer.Destroy(context)
		return nil, resultError("vkMapMemory", res)
	}
	return buffer, nil
}

// LoadData copies data to the start of the buffer. The caller makes sure the
// GPU no longer reads the previous contents.
func (b *VulkanBuffer) LoadData(data []byte) error {
	if uint64(len(data)) > b.Size {
		return fmt.Errorf("buffer overflow: %d bytes into %d", len(data), b.Size)
	}
	if len(data) == 0 {
		return nil
	}
	vk.Memcopy(b.mapped, data)
	return nil
}

// Ensure grows the buffer, dropping its contents, until size bytes fit.
func (b *VulkanBuffer) Ensure(context *VulkanContext, size uint64) (*VulkanBuffer, error) {
	if b != nil && size <= b.Size {
		return b, nil
	}
	var current uint64
	usage := vk.BufferUsageFlags(0)
	if b != nil {
		current = b.Size
		usage = b.Usage
		b.Destroy(context)
	}
	return BufferCreate(context, metadata.GrowCapacity(current, size, VULKAN_MIN_STREAM_BUFFER_SIZE), usage)
}

func (b *VulkanBuffer) Destroy(context *VulkanContext) {
	if b == nil {
		return
	}
	if b.mapped != nil {
		vk.UnmapMemory(context.Device.LogicalDevice, b.Memory)
		b.mapped = nil
	}
	if b.Memory != nil {
		vk.FreeMemory(context.Device.LogicalDevice, b.Memory, context.Allocator)
		b.Memory = nil
	}
	if b.Handle != nil {
		vk.DestroyBuffer(context.Device.LogicalDevice, b.Handle, context.Allocator)
		b.Handle = nil
	}
	b.Size = 0
}

// sliceBytes views a slice of plain values as bytes without copying.
func sliceBytes[T any](s []T) []byte {
	if len(s) == 0 {
		return nil
	}
	var zero T
	return unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), len(s)*int(unsafe.Sizeof(zero)))
}
