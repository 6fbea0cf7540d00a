package vulkan

/**
 * @brief Max number of textures alive at once. Each texture owns two
 * descriptor sets, one for the model pass and one for the mask pass.
 */
const VULKAN_MAX_TEXTURE_COUNT uint32 = 512

/** @brief Combined image samplers per descriptor set: the texture and the mask atlas. */
const VULKAN_SHADER_MAX_BINDINGS = 2

/** @brief Frames recorded ahead of the GPU. */
const VULKAN_MAX_FRAMES_IN_FLIGHT = 2

/** @brief Initial size in bytes of the per frame vertex and index buffers. */
const VULKAN_MIN_STREAM_BUFFER_SIZE uint64 = 256 * 1024
