package vulkan

import (
	"errors"
	"fmt"
	"math"
	"runtime"
	"strings"
	"unsafe"

	"github.com/go-gl/glfw/v3.3/glfw"
	vk "github.com/goki/vulkan"
	"github.com/spaghettifunk/cubism/engine/core"
	"github.com/spaghettifunk/cubism/engine/renderer/metadata"
)

const defaultMaskAtlasSize uint32 = 1024

var ErrFrameNotStarted = errors.New("vulkan frame not started")

// WindowSurface is the window the swapchain presents to.
type WindowSurface interface {
	GetRequiredExtensionNames() []string
	CreateWindowSurface(instance interface{}, allocCallbacks unsafe.Pointer) (uintptr, error)
}

type VulkanRenderer struct {
	window                  WindowSurface
	FrameNumber             uint64
	context                 *VulkanContext
	cachedFramebufferWidth  uint32
	cachedFramebufferHeight uint32
	maskAtlasSize           uint32
	vsync                   bool

	debug bool

	frameStarted  bool
	mainPassBegun bool
	initialized   bool
}

func New(window WindowSurface) *VulkanRenderer {
	return &VulkanRenderer{
		window: window,
		context: &VulkanContext{
			Allocator: nil,
			Pipelines: make(map[pipelineKey]*VulkanPipeline),
		},
	}
}

func (vr *VulkanRenderer) Initialize(config *metadata.RendererBackendConfig) error {
	procAddr := glfw.GetVulkanGetInstanceProcAddress()
	if procAddr == nil {
		return fmt.Errorf("GetInstanceProcAddress is nil")
	}
	vk.SetGetInstanceProcAddr(procAddr)

	if err := vk.Init(); err != nil {
		return fmt.Errorf("failed to initialize vk: %w", err)
	}

	vr.debug = config.Validation
	vr.vsync = config.VSync
	vr.maskAtlasSize = config.MaskAtlasSize
	if vr.maskAtlasSize == 0 {
		vr.maskAtlasSize = defaultMaskAtlasSize
	}
	vr.context.FramebufferWidth = config.Width
	vr.context.FramebufferHeight = config.Height
	vr.cachedFramebufferWidth = config.Width
	vr.cachedFramebufferHeight = config.Height

	if err := vr.createInstance(config.ApplicationName); err != nil {
		return err
	}

	// Surface
	core.LogDebug("Creating Vulkan surface...")
	surface, err := vr.window.CreateWindowSurface(vr.context.Instance, nil)
	if err != nil {
		return fmt.Errorf("vulkan surface creation failed: %w", err)
	}
	vr.context.Surface = vk.SurfaceFromPointer(surface)
	core.LogDebug("Vulkan surface created.")

	// Device creation
	if err := DeviceCreate(vr.context); err != nil {
		return fmt.Errorf("failed to create device: %w", err)
	}

	// Swapchain
	sc, err := SwapchainCreate(vr.context, vr.context.FramebufferWidth, vr.context.FramebufferHeight, vr.vsync)
	if err != nil {
		return err
	}
	vr.context.Swapchain = sc
	vr.context.FramebufferWidth = sc.Extent.Width
	vr.context.FramebufferHeight = sc.Extent.Height

	rp, err := RenderpassCreate(
		vr.context,
		sc.ImageFormat.Format,
		vk.ImageLayoutPresentSrc,
		0, 0, float32(vr.context.FramebufferWidth), float32(vr.context.FramebufferHeight),
		0.0, 0.0, 0.0, 1.0)
	if err != nil {
		return err
	}
	vr.context.MainRenderpass = rp

	// Swapchain framebuffers.
	if err := vr.regenerateFramebuffers(vr.context.Swapchain, vr.context.MainRenderpass); err != nil {
		return err
	}

	if err := vr.createCommandBuffers(); err != nil {
		return err
	}
	if err := vr.createSyncObjects(); err != nil {
		return err
	}
	if err := vr.createStreamBuffers(); err != nil {
		return err
	}

	if err := createSampler(vr.context); err != nil {
		return err
	}
	if err := createDescriptorSetLayout(vr.context); err != nil {
		return err
	}
	if err := createDescriptorPool(vr.context); err != nil {
		return err
	}
	if err := vr.createMaskAtlas(); err != nil {
		return err
	}

	white := &metadata.Texture{Name: "white", Width: 1, Height: 1}
	if err := textureCreate(vr.context, []uint8{255, 255, 255, 255}, white); err != nil {
		return err
	}
	vr.context.WhiteTexture = white

	shaders, err := LoadShaderSet(vr.context, config.ShaderLoader)
	if err != nil {
		return err
	}
	vr.context.Shaders = shaders

	vr.initialized = true
	core.LogInfo("Vulkan renderer initialized successfully.")
	return nil
}

func (vr *VulkanRenderer) createInstance(appName string) error {
	appInfo := &vk.ApplicationInfo{
		SType:              vk.StructureTypeApplicationInfo,
		ApiVersion:         uint32(vk.MakeVersion(1, 0, 0)),
		ApplicationVersion: uint32(vk.MakeVersion(1, 0, 0)),
		PApplicationName:   VulkanSafeString(appName),
		PEngineName:        VulkanSafeString("Cubism Viewer"),
	}

	createInfo := vk.InstanceCreateInfo{
		SType:            vk.StructureTypeInstanceCreateInfo,
		PApplicationInfo: appInfo,
	}

	// Obtain a list of required extensions
	requiredExtensions := []string{"VK_KHR_surface"} // Generic surface extension
	requiredExtensions = append(requiredExtensions, vr.window.GetRequiredExtensionNames()...)

	if runtime.GOOS == "darwin" {
		requiredExtensions = append(requiredExtensions,
			"VK_KHR_portability_enumeration",
			"VK_KHR_get_physical_device_properties2",
		)
		// VK_INSTANCE_CREATE_ENUMERATE_PORTABILITY_BIT_KHR
		createInfo.Flags |= 1
	}

	if vr.debug {
		requiredExtensions = append(requiredExtensions, vk.ExtDebugReportExtensionName)
		core.LogInfo("Required extensions:")
		for _, ext := range requiredExtensions {
			core.LogInfo(ext)
		}
	}

	createInfo.EnabledExtensionCount = uint32(len(requiredExtensions))
	createInfo.PpEnabledExtensionNames = VulkanSafeStrings(requiredExtensions)

	// Validation layers.
	var requiredValidationLayerNames []string
	if vr.debug {
		core.LogInfo("Validation layers enabled. Enumerating...")
		requiredValidationLayerNames = []string{"VK_LAYER_KHRONOS_validation"}
		if err := checkValidationLayers(requiredValidationLayerNames); err != nil {
			return err
		}
		core.LogInfo("All required validation layers are present.")
	}

	createInfo.EnabledLayerCount = uint32(len(requiredValidationLayerNames))
	createInfo.PpEnabledLayerNames = VulkanSafeStrings(requiredValidationLayerNames)

	if res := vk.CreateInstance(&createInfo, vr.context.Allocator, &vr.context.Instance); res != vk.Success {
		return resultError("vkCreateInstance", res)
	}
	if err := vk.InitInstance(vr.context.Instance); err != nil {
		return err
	}
	core.LogInfo("Vulkan Instance created.")

	// Debugger
	if vr.debug {
		core.LogDebug("Creating Vulkan debugger...")
		debugCreateInfo := vk.DebugReportCallbackCreateInfo{
			SType:       vk.StructureTypeDebugReportCallbackCreateInfo,
			Flags:       vk.DebugReportFlags(vk.DebugReportErrorBit | vk.DebugReportWarningBit | vk.DebugReportPerformanceWarningBit),
			PfnCallback: dbgCallbackFunc,
		}

		var dbg vk.DebugReportCallback
		if err := vk.Error(vk.CreateDebugReportCallback(vr.context.Instance, &debugCreateInfo, nil, &dbg)); err != nil {
			return fmt.Errorf("vk.CreateDebugReportCallback failed with %w", err)
		}
		vr.context.debugMessenger = dbg
		core.LogDebug("Vulkan debugger created.")
	}
	return nil
}

func checkValidationLayers(required []string) error {
	var availableLayerCount uint32
	if res := vk.EnumerateInstanceLayerProperties(&availableLayerCount, nil); res != vk.Success {
		return resultError("vkEnumerateInstanceLayerProperties", res)
	}
	availableLayers := make([]vk.LayerProperties, availableLayerCount)
	if res := vk.EnumerateInstanceLayerProperties(&availableLayerCount, availableLayers); res != vk.Success {
		return resultError("vkEnumerateInstanceLayerProperties", res)
	}

	for _, name := range required {
		core.LogInfo("Searching for layer: %s...", name)
		found := false
		for j := range availableLayers {
			availableLayers[j].Deref()
			if strings.TrimSuffix(name, "\x00") == cString(availableLayers[j].LayerName[:]) {
				found = true
				core.LogInfo("Found.")
				break
			}
		}
		if !found {
			return fmt.Errorf("required validation layer is missing: %s", name)
		}
	}
	return nil
}

func (vr *VulkanRenderer) createSyncObjects() error {
	frames := int(vr.context.Swapchain.MaxFramesInFlight)
	vr.context.ImageAvailableSemaphores = make([]vk.Semaphore, frames)
	vr.context.QueueCompleteSemaphores = make([]vk.Semaphore, frames)
	vr.context.InFlightFences = make([]*VulkanFence, frames)

	for i := 0; i < frames; i++ {
		semaphoreCreateInfo := vk.SemaphoreCreateInfo{
			SType: vk.StructureTypeSemaphoreCreateInfo,
		}
		if res := vk.CreateSemaphore(vr.context.Device.LogicalDevice, &semaphoreCreateInfo, vr.context.Allocator, &vr.context.ImageAvailableSemaphores[i]); res != vk.Success {
			return resultError("failed to create semaphore on image available", res)
		}
		if res := vk.CreateSemaphore(vr.context.Device.LogicalDevice, &semaphoreCreateInfo, vr.context.Allocator, &vr.context.QueueCompleteSemaphores[i]); res != vk.Success {
			return resultError("failed to create semaphore on queue complete", res)
		}

		// Created signaled so the first frame does not wait forever.
		f, err := NewFence(vr.context, true)
		if err != nil {
			return err
		}
		vr.context.InFlightFences[i] = f
	}

	// Fences here are owned by InFlightFences.
	vr.context.ImagesInFlight = make([]*VulkanFence, vr.context.Swapchain.ImageCount)
	return nil
}

func (vr *VulkanRenderer) createStreamBuffers() error {
	frames := int(vr.context.Swapchain.MaxFramesInFlight)
	vr.context.VertexBuffers = make([]*VulkanBuffer, frames)
	vr.context.IndexBuffers = make([]*VulkanBuffer, frames)
	for i := 0; i < frames; i++ {
		vb, err := BufferCreate(vr.context, VULKAN_MIN_STREAM_BUFFER_SIZE, vk.BufferUsageFlags(vk.BufferUsageVertexBufferBit))
		if err != nil {
			return err
		}
		vr.context.VertexBuffers[i] = vb
		ib, err := BufferCreate(vr.context, VULKAN_MIN_STREAM_BUFFER_SIZE, vk.BufferUsageFlags(vk.BufferUsageIndexBufferBit))
		if err != nil {
			return err
		}
		vr.context.IndexBuffers[i] = ib
	}
	return nil
}

// createMaskAtlas builds the offscreen target clip masks are rendered into.
// It starts shader readable so unmasked frames can bind it.
func (vr *VulkanRenderer) createMaskAtlas() error {
	size := vr.maskAtlasSize
	atlas, err := ImageCreate(
		vr.context,
		size, size,
		vk.FormatR8g8b8a8Unorm,
		vk.ImageUsageFlags(vk.ImageUsageColorAttachmentBit)|vk.ImageUsageFlags(vk.ImageUsageSampledBit),
		vk.MemoryPropertyFlags(vk.MemoryPropertyDeviceLocalBit),
	)
	if err != nil {
		return err
	}
	vr.context.MaskAtlas = atlas

	err = SingleUse(vr.context, vr.context.Device.GraphicsCommandPool, vr.context.Device.GraphicsQueue, func(cb *VulkanCommandBuffer) error {
		return atlas.TransitionLayout(cb, vk.ImageLayoutUndefined, vk.ImageLayoutShaderReadOnlyOptimal)
	})
	if err != nil {
		return err
	}

	rp, err := RenderpassCreate(
		vr.context,
		vk.FormatR8g8b8a8Unorm,
		vk.ImageLayoutShaderReadOnlyOptimal,
		0, 0, float32(size), float32(size),
		1.0, 1.0, 1.0, 1.0)
	if err != nil {
		return err
	}
	vr.context.MaskRenderpass = rp

	fb, err := FramebufferCreate(vr.context, rp, size, size, atlas.View)
	if err != nil {
		return err
	}
	vr.context.MaskFramebuffer = fb
	return nil
}

func (vr *VulkanRenderer) Shutdown() error {
	if !vr.initialized {
		return nil
	}
	ctx := vr.context
	vk.DeviceWaitIdle(ctx.Device.LogicalDevice)

	// Destroy in the opposite order of creation.
	destroyPipelines(ctx)
	ctx.Shaders.Destroy(ctx)
	ctx.Shaders = nil

	if ctx.WhiteTexture != nil {
		textureDestroy(ctx, ctx.WhiteTexture)
		ctx.WhiteTexture = nil
	}

	ctx.MaskFramebuffer.Destroy(ctx)
	ctx.MaskFramebuffer = nil
	if ctx.MaskRenderpass != nil {
		ctx.MaskRenderpass.RenderpassDestroy(ctx)
		ctx.MaskRenderpass = nil
	}
	ctx.MaskAtlas.ImageDestroy(ctx)
	ctx.MaskAtlas = nil

	destroyDescriptors(ctx)

	for i := range ctx.VertexBuffers {
		ctx.VertexBuffers[i].Destroy(ctx)
		ctx.IndexBuffers[i].Destroy(ctx)
	}
	ctx.VertexBuffers = nil
	ctx.IndexBuffers = nil

	// Sync objects
	for i := range ctx.InFlightFences {
		if ctx.ImageAvailableSemaphores[i] != vk.NullSemaphore {
			vk.DestroySemaphore(ctx.Device.LogicalDevice, ctx.ImageAvailableSemaphores[i], ctx.Allocator)
			ctx.ImageAvailableSemaphores[i] = vk.NullSemaphore
		}
		if ctx.QueueCompleteSemaphores[i] != vk.NullSemaphore {
			vk.DestroySemaphore(ctx.Device.LogicalDevice, ctx.QueueCompleteSemaphores[i], ctx.Allocator)
			ctx.QueueCompleteSemaphores[i] = vk.NullSemaphore
		}
		if ctx.InFlightFences[i] != nil {
			ctx.InFlightFences[i].FenceDestroy(ctx)
		}
	}
	ctx.ImageAvailableSemaphores = nil
	ctx.QueueCompleteSemaphores = nil
	ctx.InFlightFences = nil
	ctx.ImagesInFlight = nil

	vr.freeCommandBuffers()
	vr.destroyFramebuffers()

	if ctx.MainRenderpass != nil {
		ctx.MainRenderpass.RenderpassDestroy(ctx)
		ctx.MainRenderpass = nil
	}

	ctx.Swapchain.SwapchainDestroy(ctx)
	ctx.Swapchain = nil

	core.LogDebug("Destroying Vulkan device...")
	DeviceDestroy(ctx)

	core.LogDebug("Destroying Vulkan surface...")
	if ctx.Surface != vk.NullSurface {
		vk.DestroySurface(ctx.Instance, ctx.Surface, ctx.Allocator)
		ctx.Surface = vk.NullSurface
	}

	if ctx.debugMessenger != vk.NullDebugReportCallback {
		core.LogDebug("Destroying Vulkan debugger...")
		vk.DestroyDebugReportCallback(ctx.Instance, ctx.debugMessenger, ctx.Allocator)
		ctx.debugMessenger = vk.NullDebugReportCallback
	}

	core.LogDebug("Destroying Vulkan instance...")
	vk.DestroyInstance(ctx.Instance, ctx.Allocator)
	vr.initialized = false
	return nil
}

func (vr *VulkanRenderer) Resized(width, height uint32) error {
	// Bumping the generation makes the next frame recreate the swapchain.
	vr.cachedFramebufferWidth = width
	vr.cachedFramebufferHeight = height
	vr.context.FramebufferSizeGeneration++

	core.LogInfo("Vulkan renderer backend->resized: w/h/gen: %d/%d/%d", width, height, vr.context.FramebufferSizeGeneration)
	return nil
}

func (vr *VulkanRenderer) FlipY() bool {
	return true
}

func (vr *VulkanRenderer) BeginFrame(deltaTime float64) error {
	if !vr.initialized {
		return core.ErrNotInitialized
	}
	ctx := vr.context
	device := ctx.Device
	vr.frameStarted = false
	vr.mainPassBegun = false

	// Check if recreating swap chain and boot out.
	if ctx.RecreatingSwapchain {
		if result := vk.DeviceWaitIdle(device.LogicalDevice); !VulkanResultIsSuccess(result) {
			return resultError("vkDeviceWaitIdle", result)
		}
		core.LogInfo("Recreating swapchain, booting.")
		return core.ErrSwapchainBooting
	}

	// Check if the framebuffer has been resized. If so, a new swapchain must be created.
	if ctx.FramebufferSizeGeneration != ctx.FramebufferSizeLastGeneration {
		if result := vk.DeviceWaitIdle(device.LogicalDevice); !VulkanResultIsSuccess(result) {
			return resultError("vkDeviceWaitIdle", result)
		}
		if _, err := vr.recreateSwapchain(); err != nil {
			return err
		}
		core.LogInfo("Resized, booting.")
		return core.ErrSwapchainBooting
	}

	// Wait for the execution of the current frame to complete.
	if !ctx.InFlightFences[ctx.CurrentFrame].FenceWait(ctx, math.MaxUint64) {
		return fmt.Errorf("in-flight fence wait failure")
	}

	imageIndex, ok, err := ctx.Swapchain.SwapchainAcquireNextImageIndex(ctx, math.MaxUint64, ctx.ImageAvailableSemaphores[ctx.CurrentFrame], vk.NullFence)
	if err != nil {
		return err
	}
	if !ok {
		if _, err := vr.recreateSwapchain(); err != nil {
			return err
		}
		return core.ErrSwapchainBooting
	}
	ctx.ImageIndex = imageIndex

	// Make sure the previous frame is not using this image.
	if f := ctx.ImagesInFlight[imageIndex]; f != nil {
		f.FenceWait(ctx, math.MaxUint64)
	}
	// Mark the image fence as in-use by this frame.
	ctx.ImagesInFlight[imageIndex] = ctx.InFlightFences[ctx.CurrentFrame]

	// Begin recording commands.
	commandBuffer := ctx.GraphicsCommandBuffers[imageIndex]
	commandBuffer.Reset()
	if err := commandBuffer.Begin(0); err != nil {
		return err
	}

	vr.frameStarted = true
	return nil
}

func (vr *VulkanRenderer) EndFrame(deltaTime float64) error {
	if !vr.frameStarted {
		return nil
	}
	vr.frameStarted = false
	ctx := vr.context
	commandBuffer := ctx.GraphicsCommandBuffers[ctx.ImageIndex]

	// A frame without a packet still clears and presents.
	if !vr.mainPassBegun {
		vr.beginMainPass(commandBuffer)
	}
	ctx.MainRenderpass.RenderpassEnd(commandBuffer)
	vr.mainPassBegun = false

	if err := commandBuffer.End(); err != nil {
		return err
	}

	// Reset the fence for use on the next frame
	if err := ctx.InFlightFences[ctx.CurrentFrame].FenceReset(ctx); err != nil {
		return err
	}

	submitInfo := vk.SubmitInfo{
		SType:                vk.StructureTypeSubmitInfo,
		CommandBufferCount:   1,
		PCommandBuffers:      []vk.CommandBuffer{commandBuffer.Handle},
		SignalSemaphoreCount: 1,
		PSignalSemaphores:    []vk.Semaphore{ctx.QueueCompleteSemaphores[ctx.CurrentFrame]},
		WaitSemaphoreCount:   1,
		PWaitSemaphores:      []vk.Semaphore{ctx.ImageAvailableSemaphores[ctx.CurrentFrame]},
		// Colour writes wait until the image is available.
		PWaitDstStageMask: []vk.PipelineStageFlags{vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit)},
	}

	if err := lockPool.SafeQueueCall(uint32(ctx.Device.GraphicsQueueIndex), func() error {
		if result := vk.QueueSubmit(ctx.Device.GraphicsQueue, 1, []vk.SubmitInfo{submitInfo}, ctx.InFlightFences[ctx.CurrentFrame].Handle); result != vk.Success {
			return resultError("vkQueueSubmit", result)
		}
		return nil
	}); err != nil {
		core.LogError(err.Error())
		return err
	}
	commandBuffer.UpdateSubmitted()

	// Give the image back to the swapchain.
	ok, err := ctx.Swapchain.SwapchainPresent(ctx, ctx.Device.PresentQueue, ctx.QueueCompleteSemaphores[ctx.CurrentFrame], ctx.ImageIndex)
	if err != nil {
		return err
	}
	if !ok {
		ctx.FramebufferSizeGeneration++
	}
	vr.FrameNumber++
	return nil
}

func (vr *VulkanRenderer) TextureCreate(pixels []uint8, texture *metadata.Texture) error {
	if !vr.initialized {
		return core.ErrNotInitialized
	}
	return textureCreate(vr.context, pixels, texture)
}

func (vr *VulkanRenderer) TextureWriteData(texture *metadata.Texture, pixels []uint8) error {
	if !vr.initialized {
		return core.ErrNotInitialized
	}
	return textureWriteData(vr.context, texture, pixels)
}

func (vr *VulkanRenderer) TextureDestroy(texture *metadata.Texture) {
	if !vr.initialized {
		return
	}
	textureDestroy(vr.context, texture)
}

func (vr *VulkanRenderer) createCommandBuffers() error {
	vr.context.GraphicsCommandBuffers = make([]*VulkanCommandBuffer, vr.context.Swapchain.ImageCount)
	for i := range vr.context.GraphicsCommandBuffers {
		cb, err := NewVulkanCommandBuffer(vr.context, vr.context.Device.GraphicsCommandPool, true)
		if err != nil {
			return err
		}
		vr.context.GraphicsCommandBuffers[i] = cb
	}
	core.LogDebug("Vulkan command buffers created.")
	return nil
}

func (vr *VulkanRenderer) freeCommandBuffers() {
	for _, cb := range vr.context.GraphicsCommandBuffers {
		if cb != nil && cb.Handle != nil {
			cb.Free(vr.context, vr.context.Device.GraphicsCommandPool)
		}
	}
	vr.context.GraphicsCommandBuffers = nil
}

func (vr *VulkanRenderer) regenerateFramebuffers(swapchain *VulkanSwapchain, renderpass *VulkanRenderpass) error {
	swapchain.Framebuffers = make([]*VulkanFramebuffer, swapchain.ImageCount)
	for i := range swapchain.Framebuffers {
		fb, err := FramebufferCreate(vr.context, renderpass, swapchain.Extent.Width, swapchain.Extent.Height, swapchain.Views[i])
		if err != nil {
			return err
		}
		swapchain.Framebuffers[i] = fb
	}
	return nil
}

func (vr *VulkanRenderer) destroyFramebuffers() {
	if vr.context.Swapchain == nil {
		return
	}
	for _, fb := range vr.context.Swapchain.Framebuffers {
		fb.Destroy(vr.context)
	}
	vr.context.Swapchain.Framebuffers = nil
}

// recreateSwapchain returns false without error when the window has no area.
func (vr *VulkanRenderer) recreateSwapchain() (bool, error) {
	ctx := vr.context
	// If already being recreated, do not try again.
	if ctx.RecreatingSwapchain {
		core.LogDebug("recreate_swapchain called when already recreating. Booting.")
		return false, nil
	}

	// Detect if the window is too small to be drawn to
	if vr.cachedFramebufferWidth == 0 || vr.cachedFramebufferHeight == 0 {
		core.LogDebug("recreate_swapchain called when window is < 1 in a dimension. Booting.")
		return false, nil
	}

	ctx.RecreatingSwapchain = true
	defer func() { ctx.RecreatingSwapchain = false }()

	// Wait for any operations to complete.
	vk.DeviceWaitIdle(ctx.Device.LogicalDevice)

	vr.freeCommandBuffers()
	vr.destroyFramebuffers()

	// Requery support
	if err := DeviceQuerySwapchainSupport(ctx.Device.PhysicalDevice, ctx.Surface, ctx.Device.SwapchainSupport); err != nil {
		return false, err
	}

	sc, err := ctx.Swapchain.SwapchainRecreate(ctx, vr.cachedFramebufferWidth, vr.cachedFramebufferHeight, vr.vsync)
	if err != nil {
		return false, err
	}
	ctx.Swapchain = sc

	// Sync the framebuffer size with the new extent.
	ctx.FramebufferWidth = sc.Extent.Width
	ctx.FramebufferHeight = sc.Extent.Height
	ctx.MainRenderpass.X = 0
	ctx.MainRenderpass.Y = 0
	ctx.MainRenderpass.W = float32(ctx.FramebufferWidth)
	ctx.MainRenderpass.H = float32(ctx.FramebufferHeight)
	ctx.FramebufferSizeLastGeneration = ctx.FramebufferSizeGeneration

	ctx.ImagesInFlight = make([]*VulkanFence, sc.ImageCount)

	if err := vr.regenerateFramebuffers(sc, ctx.MainRenderpass); err != nil {
		return false, err
	}
	if err := vr.createCommandBuffers(); err != nil {
		return false, err
	}
	return true, nil
}

func dbgCallbackFunc(flags vk.DebugReportFlags, objectType vk.DebugReportObjectType, object uint64, location uint64, messageCode int32, pLayerPrefix string, pMessage string, pUserData unsafe.Pointer) vk.Bool32 {
	switch {
	case flags&vk.DebugReportFlags(vk.DebugReportErrorBit) != 0:
		core.LogError("ERROR: [%s] Code %d : %s", pLayerPrefix, messageCode, pMessage)
	case flags&vk.DebugReportFlags(vk.DebugReportWarningBit) != 0:
		core.LogWarn("WARNING: [%s] Code %d : %s", pLayerPrefix, messageCode, pMessage)
	case flags&vk.DebugReportFlags(vk.DebugReportPerformanceWarningBit) != 0:
		core.LogWarn("PERFORMANCE WARNING: [%s] Code %d : %s", pLayerPrefix, messageCode, pMessage)
	case flags&vk.DebugReportFlags(vk.DebugReportDebugBit) != 0:
		core.LogDebug("DEBUG: [%s] Code %d : %s", pLayerPrefix, messageCode, pMessage)
	default:
		core.LogInfo("INFORMATION: [%s] Code %d : %s", pLayerPrefix, messageCode, pMessage)
	}
	return vk.Bool32(vk.False)
}
