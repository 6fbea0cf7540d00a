package vulkan

import (
	vk "github.com/goki/vulkan"
	"github.com/spaghettifunk/cubism/engine/core"
)

type CommandBufferState int

const (
	CommandBufferNotAllocated CommandBufferState = iota
	CommandBufferReady
	CommandBufferRecording
	CommandBufferInRenderPass
	CommandBufferRecordingEnded
	CommandBufferSubmitted
)

type VulkanCommandBuffer struct {
	Handle vk.CommandBuffer
	State  CommandBufferState
}

func NewVulkanCommandBuffer(context *VulkanContext, pool vk.CommandPool, primary bool) (*VulkanCommandBuffer, error) {
	level := vk.CommandBufferLevelSecondary
	if primary {
		level = vk.CommandBufferLevelPrimary
	}
	info := vk.CommandBufferAllocateInfo{
		SType:              vk.StructureTypeCommandBufferAllocateInfo,
		CommandPool:        pool,
		CommandBufferCount: 1,
		Level:              level,
	}

	handles := make([]vk.CommandBuffer, 1)
	err := lockPool.SafeCall(CommandBufferManagement, func() error {
		if res := vk.AllocateCommandBuffers(context.Device.LogicalDevice, &info, handles); res != vk.Success {
			return resultError("vkAllocateCommandBuffers", res)
		}
		return nil
	})
	if err != nil {
		core.LogError(err.Error())
		return nil, err
	}
	return &VulkanCommandBuffer{Handle: handles[0], State: CommandBufferReady}, nil
}

func (v *VulkanCommandBuffer) Free(context *VulkanContext, pool vk.CommandPool) {
	_ = lockPool.SafeCall(CommandBufferManagement, func() error {
		vk.FreeCommandBuffers(context.Device.LogicalDevice, pool, 1, []vk.CommandBuffer{v.Handle})
		return nil
	})
	v.Handle = nil
	v.State = CommandBufferNotAllocated
}

// Begin starts recording. usage is a mask of vk.CommandBufferUsageFlagBits.
func (v *VulkanCommandBuffer) Begin(usage vk.CommandBufferUsageFlags) error {
	info := vk.CommandBufferBeginInfo{
		SType: vk.StructureTypeCommandBufferBeginInfo,
		Flags: usage,
	}
	if res := vk.BeginCommandBuffer(v.Handle, &info); res != vk.Success {
		return resultError("vkBeginCommandBuffer", res)
	}
	v.State = CommandBufferRecording
	return nil
}

func (v *VulkanCommandBuffer) End() error {
	if res := vk.EndCommandBuffer(v.Handle); res != vk.Success {
		return resultError("vkEndCommandBuffer", res)
	}
	v.State = CommandBufferRecordingEnded
	return nil
}

func (v *VulkanCommandBuffer) UpdateSubmitted() {
	v.State = CommandBufferSubmitted
}

func (v *VulkanCommandBuffer) Reset() {
	v.State = CommandBufferReady
}

/**
 * @brief Records fn into a one time command buffer, submits it to queue and
 * waits for the queue to drain. The buffer is freed on every path.
 */
func SingleUse(context *VulkanContext, pool vk.CommandPool, queue vk.Queue, fn func(cb *VulkanCommandBuffer) error) error {
	cb, err := NewVulkanCommandBuffer(context, pool, true)
	if err != nil {
		return err
	}
	defer cb.Free(context, pool)

	if err := cb.Begin(vk.CommandBufferUsageFlags(vk.CommandBufferUsageOneTimeSubmitBit)); err != nil {
		return err
	}
	if err := fn(cb); err != nil {
		return err
	}
	if err := cb.End(); err != nil {
		return err
	}

	submit := vk.SubmitInfo{
		SType:              vk.StructureTypeSubmitInfo,
		CommandBufferCount: 1,
		PCommandBuffers:    []vk.CommandBuffer{cb.Handle},
	}
	return lockPool.SafeQueueCall(uint32(context.Device.GraphicsQueueIndex), func() error {
		if res := vk.QueueSubmit(queue, 1, []vk.SubmitInfo{submit}, nil); res != vk.Success {
			return resultError("vkQueueSubmit", res)
		}
		if res := vk.QueueWaitIdle(queue); res != vk.Success {
			return resultError("vkQueueWaitIdle", res)
		}
		return nil
	})
}
