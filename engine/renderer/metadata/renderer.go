package metadata

import (
	"github.com/spaghettifunk/cubism/engine/math"
)

type RendererBackendConfig struct {
	/** @brief The name of the application */
	ApplicationName string
	Width           uint32
	Height          uint32
	VSync           bool
	/** @brief Enables the Vulkan validation layers. Ignored by OpenGL. */
	Validation bool
	/** @brief Side of the square clip mask atlas in pixels. */
	MaskAtlasSize uint32
	/**
	 * @brief Returns the SPIR-V words of a compiled shader, for example
	 * "model.vert". Only used by the Vulkan backend.
	 */
	ShaderLoader func(name string) ([]uint32, error)
}

/**
 * @brief Draws one drawable into the mask atlas. Matrix maps model units to
 * atlas clip space as vec4(scale.xy, offset.xy); Rect is the layout rect in
 * the same space as vec4(left, bottom, right, top).
 */
type MaskCommand struct {
	Drawable   int
	Texture    *Texture
	FirstIndex uint32
	IndexCount uint32
	Matrix     math.Vec4
	Channel    math.Vec4
	Rect       math.Vec4
	Cull       FaceCullMode
}

/**
 * @brief Draws one drawable on screen. Masked draws sample the atlas with
 * ClipMatrix, which maps model units to atlas texture space.
 */
type DrawCommand struct {
	Drawable   int
	Texture    *Texture
	FirstIndex uint32
	IndexCount uint32
	MVP        math.Mat4
	Blend      BlendState
	Cull       FaceCullMode
	Opacity    float32
	Masked     bool
	Inverted   bool
	ClipMatrix math.Vec4
	Channel    math.Vec4
}

/**
 * @brief A structure which is generated by the application and sent once
 * to the renderer to render a given frame. Vertices and Indices hold every
 * drawable of the frame; commands address them by index range. The indices
 * are already rebased onto the shared vertex stream.
 */
type RenderPacket struct {
	DeltaTime  float64
	ClearColor math.Vec4
	Vertices   []math.Vertex2D
	Indices    []uint32
	/** @brief Mask atlas draws, rendered before any Draws. Empty when nothing is clipped. */
	Masks []MaskCommand
	Draws []DrawCommand
}
