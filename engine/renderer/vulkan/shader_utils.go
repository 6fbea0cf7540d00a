package vulkan

import (
	"errors"
	"fmt"

	vk "github.com/goki/vulkan"
)

var ErrNoShaderLoader = errors.New("vulkan backend needs a shader loader")

type shaderID int

const (
	shaderModelVert shaderID = iota
	shaderModelFrag
	shaderModelMaskedFrag
	shaderMaskVert
	shaderMaskFrag
	shaderCount
)

var shaderFiles = [shaderCount]struct {
	name  string
	stage vk.ShaderStageFlagBits
}{
	shaderModelVert:       {"model.vert", vk.ShaderStageVertexBit},
	shaderModelFrag:       {"model.frag", vk.ShaderStageFragmentBit},
	shaderModelMaskedFrag: {"model_masked.frag", vk.ShaderStageFragmentBit},
	shaderMaskVert:        {"mask.vert", vk.ShaderStageVertexBit},
	shaderMaskFrag:        {"mask.frag", vk.ShaderStageFragmentBit},
}

/**
 * @brief Represents a single shader stage.
 */
type VulkanShaderStage struct {
	/** @brief The internal shader module Handle. */
	Handle vk.ShaderModule
	/** @brief The pipeline shader stage creation info. */
	ShaderStageCreateInfo vk.PipelineShaderStageCreateInfo
}

// VulkanShaderSet holds every shader module the renderer draws with.
type VulkanShaderSet struct {
	stages [shaderCount]VulkanShaderStage
}

func LoadShaderSet(context *VulkanContext, loader func(name string) ([]uint32, error)) (*VulkanShaderSet, error) {
	if loader == nil {
		return nil, ErrNoShaderLoader
	}
	set := &VulkanShaderSet{}
	for id, file := range shaderFiles {
		code, err := loader(file.name)
		if err != nil {
			set.Destroy(context)
			return nil, fmt.Errorf("unable to read shader module %s: %w", file.name, err)
		}
		stage, err := NewShaderModule(context, code, file.stage)
		if err != nil {
			set.Destroy(context)
			return nil, fmt.Errorf("shader module %s: %w", file.name, err)
		}
		set.stages[id] = stage
	}
	return set, nil
}

// Stages returns the pipeline stage infos for a vertex and fragment pair.
func (s *VulkanShaderSet) Stages(ids ...shaderID) []vk.PipelineShaderStageCreateInfo {
	out := make([]vk.PipelineShaderStageCreateInfo, len(ids))
	for i, id := range ids {
		out[i] = s.stages[id].ShaderStageCreateInfo
	}
	return out
}

func (s *VulkanShaderSet) Destroy(context *VulkanContext) {
	if s == nil {
		return
	}
	for i := range s.stages {
		if s.stages[i].Handle != nil {
			vk.DestroyShaderModule(context.Device.LogicalDevice, s.stages[i].Handle, context.Allocator)
			s.stages[i] = VulkanShaderStage{}
		}
	}
}

func NewShaderModule(context *VulkanContext, code []uint32, shaderStageFlag vk.ShaderStageFlagBits) (VulkanShaderStage, error) {
	var stage VulkanShaderStage
	if len(code) == 0 {
		return stage, fmt.Errorf("empty SPIR-V module")
	}

	createInfo := vk.ShaderModuleCreateInfo{
		SType:    vk.StructureTypeShaderModuleCreateInfo,
		CodeSize: uint(len(code) * 4),
		PCode:    code,
	}
	if res := vk.CreateShaderModule(context.Device.LogicalDevice, &createInfo, context.Allocator, &stage.Handle); res != vk.Success {
		return stage, resultError("vkCreateShaderModule", res)
	}

	stage.ShaderStageCreateInfo = vk.PipelineShaderStageCreateInfo{
		SType:  vk.StructureTypePipelineShaderStageCreateInfo,
		Stage:  shaderStageFlag,
		Module: stage.Handle,
		PName:  VulkanSafeString("main"),
	}
	return stage, nil
}
