package vulkan

import (
	"bytes"
	"fmt"
	"strings"

	vk "github.com/goki/vulkan"
)

// ResultError is a failed vk.Result. Wrapped errors can be matched with
// errors.As to recover the code.
type ResultError struct {
	Op     string
	Result vk.Result
}

func (e *ResultError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, VulkanResultString(e.Result, true))
}

func resultError(op string, res vk.Result) error {
	return &ResultError{Op: op, Result: res}
}

type resultInfo struct {
	name    string
	summary string
	ok      bool
}

var results = map[vk.Result]resultInfo{
	vk.Success:                 {"VK_SUCCESS", "command successfully completed", true},
	vk.NotReady:                {"VK_NOT_READY", "a fence or query has not yet completed", true},
	vk.Timeout:                 {"VK_TIMEOUT", "a wait operation has not completed in the specified time", true},
	vk.EventSet:                {"VK_EVENT_SET", "an event is signaled", true},
	vk.EventReset:              {"VK_EVENT_RESET", "an event is unsignaled", true},
	vk.Incomplete:              {"VK_INCOMPLETE", "a return array was too small for the result", true},
	vk.Suboptimal:              {"VK_SUBOPTIMAL_KHR", "the swapchain no longer matches the surface exactly", true},
	vk.ThreadIdle:              {"VK_THREAD_IDLE_KHR", "a deferred operation has no work for this thread", true},
	vk.ThreadDone:              {"VK_THREAD_DONE_KHR", "a deferred operation has no work left to assign", true},
	vk.OperationDeferred:       {"VK_OPERATION_DEFERRED_KHR", "some of the work was deferred", true},
	vk.OperationNotDeferred:    {"VK_OPERATION_NOT_DEFERRED_KHR", "no operations were deferred", true},
	vk.PipelineCompileRequired: {"VK_PIPELINE_COMPILE_REQUIRED_EXT", "the pipeline would have required compilation", true},

	vk.ErrorOutOfHostMemory:             {"VK_ERROR_OUT_OF_HOST_MEMORY", "a host memory allocation has failed", false},
	vk.ErrorOutOfDeviceMemory:           {"VK_ERROR_OUT_OF_DEVICE_MEMORY", "a device memory allocation has failed", false},
	vk.ErrorInitializationFailed:        {"VK_ERROR_INITIALIZATION_FAILED", "initialization of an object could not be completed", false},
	vk.ErrorDeviceLost:                  {"VK_ERROR_DEVICE_LOST", "the logical or physical device has been lost", false},
	vk.ErrorMemoryMapFailed:             {"VK_ERROR_MEMORY_MAP_FAILED", "mapping of a memory object has failed", false},
	vk.ErrorLayerNotPresent:             {"VK_ERROR_LAYER_NOT_PRESENT", "a requested layer is not present", false},
	vk.ErrorExtensionNotPresent:         {"VK_ERROR_EXTENSION_NOT_PRESENT", "a requested extension is not supported", false},
	vk.ErrorFeatureNotPresent:           {"VK_ERROR_FEATURE_NOT_PRESENT", "a requested feature is not supported", false},
	vk.ErrorIncompatibleDriver:          {"VK_ERROR_INCOMPATIBLE_DRIVER", "the requested Vulkan version is not supported by the driver", false},
	vk.ErrorTooManyObjects:              {"VK_ERROR_TOO_MANY_OBJECTS", "too many objects of the type have been created", false},
	vk.ErrorFormatNotSupported:          {"VK_ERROR_FORMAT_NOT_SUPPORTED", "a requested format is not supported on this device", false},
	vk.ErrorFragmentedPool:              {"VK_ERROR_FRAGMENTED_POOL", "a pool allocation failed due to fragmentation", false},
	vk.ErrorSurfaceLost:                 {"VK_ERROR_SURFACE_LOST_KHR", "the surface is no longer available", false},
	vk.ErrorNativeWindowInUse:           {"VK_ERROR_NATIVE_WINDOW_IN_USE_KHR", "the window is already in use", false},
	vk.ErrorOutOfDate:                   {"VK_ERROR_OUT_OF_DATE_KHR", "the surface changed and the swapchain must be recreated", false},
	vk.ErrorIncompatibleDisplay:         {"VK_ERROR_INCOMPATIBLE_DISPLAY_KHR", "the display is incompatible with the swapchain", false},
	vk.ErrorInvalidShaderNv:             {"VK_ERROR_INVALID_SHADER_NV", "one or more shaders failed to compile or link", false},
	vk.ErrorOutOfPoolMemory:             {"VK_ERROR_OUT_OF_POOL_MEMORY", "a pool memory allocation has failed", false},
	vk.ErrorInvalidExternalHandle:       {"VK_ERROR_INVALID_EXTERNAL_HANDLE", "an external handle is not valid", false},
	vk.ErrorFragmentation:               {"VK_ERROR_FRAGMENTATION", "a descriptor pool creation failed due to fragmentation", false},
	vk.ErrorInvalidDeviceAddress:        {"VK_ERROR_INVALID_DEVICE_ADDRESS_EXT", "the requested buffer address is not available", false},
	vk.ErrorFullScreenExclusiveModeLost: {"VK_ERROR_FULL_SCREEN_EXCLUSIVE_MODE_LOST_EXT", "exclusive full-screen access was lost", false},
	vk.ErrorUnknown:                     {"VK_ERROR_UNKNOWN", "an unknown error has occurred", false},
}

// VulkanResultString names a result, with a short description when extended is set.
func VulkanResultString(result vk.Result, extended bool) string {
	info, ok := results[result]
	if !ok {
		return fmt.Sprintf("VkResult(%d)", int32(result))
	}
	if !extended {
		return info.name
	}
	return info.name + " " + info.summary
}

// VulkanResultIsSuccess reports whether result is one of the success codes.
// Unknown codes count as errors when negative.
func VulkanResultIsSuccess(result vk.Result) bool {
	if info, ok := results[result]; ok {
		return info.ok
	}
	return result >= 0
}

// VulkanSafeString returns s terminated with a NUL byte, as the C side expects.
func VulkanSafeString(s string) string {
	if strings.HasSuffix(s, "\x00") {
		return s
	}
	return s + "\x00"
}

func VulkanSafeStrings(list []string) []string {
	out := make([]string, len(list))
	for i, s := range list {
		out[i] = VulkanSafeString(s)
	}
	return out
}

// cString converts a fixed size NUL padded array, such as a layer name.
func cString(arr []byte) string {
	if i := bytes.IndexByte(arr, 0); i >= 0 {
		return string(arr[:i])
	}
	return string(arr)
}
