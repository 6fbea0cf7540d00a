package vulkan

import (
	"fmt"

	vk "github.com/goki/vulkan"
	"github.com/spaghettifunk/cubism/engine/core"
	"github.com/spaghettifunk/cubism/engine/renderer"
	"github.com/spaghettifunk/cubism/engine/renderer/metadata"
)

func (vr *VulkanRenderer) DrawPacket(packet *metadata.RenderPacket) error {
	if !vr.initialized {
		return core.ErrNotInitialized
	}
	if !vr.frameStarted {
		return ErrFrameNotStarted
	}
	if vr.mainPassBegun {
		return fmt.Errorf("only one packet can be drawn per frame")
	}
	ctx := vr.context
	commandBuffer := ctx.GraphicsCommandBuffers[ctx.ImageIndex]

	vertices, indices, err := vr.upload(packet)
	if err != nil {
		return err
	}

	if len(packet.Masks) > 0 {
		if err := vr.drawMasks(commandBuffer, vertices, indices, packet.Masks); err != nil {
			return err
		}
	}

	c := packet.ClearColor
	ctx.MainRenderpass.R, ctx.MainRenderpass.G, ctx.MainRenderpass.B, ctx.MainRenderpass.A = c.X, c.Y, c.Z, c.W
	vr.beginMainPass(commandBuffer)
	bindStreams(commandBuffer, vertices, indices)

	var bound *VulkanPipeline
	for i := range packet.Draws {
		cmd := &packet.Draws[i]
		if cmd.IndexCount == 0 || cmd.Texture == nil {
			continue
		}
		data, err := textureData(cmd.Texture)
		if err != nil {
			return err
		}

		key := pipelineKey{kind: pipelineModel, blend: cmd.Blend, cull: cmd.Cull}
		if cmd.Masked {
			key.kind = pipelineModelMasked
		}
		p, err := getPipeline(ctx, key)
		if err != nil {
			return err
		}
		if p != bound {
			p.Bind(commandBuffer, vk.PipelineBindPointGraphics)
			bound = p
		}

		pc := pushConstants{
			MVP:     cmd.MVP.Data,
			Clip:    vec4Array(cmd.ClipMatrix),
			Channel: vec4Array(cmd.Channel),
			Params:  [4]float32{cmd.Opacity, 0, 0, 0},
		}
		if cmd.Inverted {
			pc.Params[1] = 1
		}
		p.PushConstants(commandBuffer, &pc)
		vk.CmdBindDescriptorSets(commandBuffer.Handle, vk.PipelineBindPointGraphics, p.PipelineLayout, 0, 1, []vk.DescriptorSet{data.Descriptors.Main}, 0, nil)
		vk.CmdDrawIndexed(commandBuffer.Handle, cmd.IndexCount, 1, cmd.FirstIndex, 0, 0)
	}
	return nil
}

func (vr *VulkanRenderer) drawMasks(commandBuffer *VulkanCommandBuffer, vertices, indices *VulkanBuffer, masks []metadata.MaskCommand) error {
	ctx := vr.context
	ctx.MaskRenderpass.RenderpassBegin(commandBuffer, ctx.MaskFramebuffer.Handle)
	setViewport(commandBuffer, vr.maskAtlasSize, vr.maskAtlasSize)
	bindStreams(commandBuffer, vertices, indices)

	var bound *VulkanPipeline
	for i := range masks {
		m := &masks[i]
		if m.IndexCount == 0 || m.Texture == nil {
			continue
		}
		data, err := textureData(m.Texture)
		if err != nil {
			ctx.MaskRenderpass.RenderpassEnd(commandBuffer)
			return err
		}
		p, err := getPipeline(ctx, pipelineKey{kind: pipelineMask, blend: renderer.MaskBlend, cull: m.Cull})
		if err != nil {
			ctx.MaskRenderpass.RenderpassEnd(commandBuffer)
			return err
		}
		if p != bound {
			p.Bind(commandBuffer, vk.PipelineBindPointGraphics)
			bound = p
		}
		pc := pushConstants{
			Clip:    vec4Array(m.Matrix),
			Channel: vec4Array(m.Channel),
			Params:  vec4Array(m.Rect),
		}
		p.PushConstants(commandBuffer, &pc)
		vk.CmdBindDescriptorSets(commandBuffer.Handle, vk.PipelineBindPointGraphics, p.PipelineLayout, 0, 1, []vk.DescriptorSet{data.Descriptors.Mask}, 0, nil)
		vk.CmdDrawIndexed(commandBuffer.Handle, m.IndexCount, 1, m.FirstIndex, 0, 0)
	}
	ctx.MaskRenderpass.RenderpassEnd(commandBuffer)
	return nil
}

func (vr *VulkanRenderer) beginMainPass(commandBuffer *VulkanCommandBuffer) {
	ctx := vr.context
	ctx.MainRenderpass.W = float32(ctx.FramebufferWidth)
	ctx.MainRenderpass.H = float32(ctx.FramebufferHeight)
	ctx.MainRenderpass.RenderpassBegin(commandBuffer, ctx.Swapchain.Framebuffers[ctx.ImageIndex].Handle)
	setViewport(commandBuffer, ctx.FramebufferWidth, ctx.FramebufferHeight)
	vr.mainPassBegun = true
}

// upload writes the packet into this frame's streams, growing them first.
func (vr *VulkanRenderer) upload(packet *metadata.RenderPacket) (*VulkanBuffer, *VulkanBuffer, error) {
	ctx := vr.context
	frame := ctx.CurrentFrame

	vertexBytes := sliceBytes(packet.Vertices)
	vb, err := ctx.VertexBuffers[frame].Ensure(ctx, uint64(len(vertexBytes)))
	if err != nil {
		return nil, nil, err
	}
	ctx.VertexBuffers[frame] = vb
	if err := vb.LoadData(vertexBytes); err != nil {
		return nil, nil, err
	}

	indexBytes := sliceBytes(packet.Indices)
	ib, err := ctx.IndexBuffers[frame].Ensure(ctx, uint64(len(indexBytes)))
	if err != nil {
		return nil, nil, err
	}
	ctx.IndexBuffers[frame] = ib
	if err := ib.LoadData(indexBytes); err != nil {
		return nil, nil, err
	}
	return vb, ib, nil
}

func bindStreams(commandBuffer *VulkanCommandBuffer, vertices, indices *VulkanBuffer) {
	vk.CmdBindVertexBuffers(commandBuffer.Handle, 0, 1, []vk.Buffer{vertices.Handle}, []vk.DeviceSize{0})
	vk.CmdBindIndexBuffer(commandBuffer.Handle, indices.Handle, 0, vk.IndexTypeUint32)
}

func setViewport(commandBuffer *VulkanCommandBuffer, width, height uint32) {
	viewport := vk.Viewport{
		X:        0,
		Y:        0,
		Width:    float32(width),
		Height:   float32(height),
		MinDepth: 0.0,
		MaxDepth: 1.0,
	}
	scissor := vk.Rect2D{
		Offset: vk.Offset2D{X: 0, Y: 0},
		Extent: vk.Extent2D{Width: width, Height: height},
	}
	vk.CmdSetViewport(commandBuffer.Handle, 0, 1, []vk.Viewport{viewport})
	vk.CmdSetScissor(commandBuffer.Handle, 0, 1, []vk.Rect2D{scissor})
}
