package renderer

import (
	"fmt"
	"strings"

	"github.com/spaghettifunk/cubism/engine/renderer/metadata"
)

type RendererBackend interface {
	Initialize(config *metadata.RendererBackendConfig) error
	Shutdown() error
	Resized(width, height uint32) error
	// BeginFrame returns core.ErrSwapchainBooting when the frame has to be skipped.
	BeginFrame(deltaTime float64) error
	EndFrame(deltaTime float64) error
	TextureCreate(pixels []uint8, texture *metadata.Texture) error
	TextureWriteData(texture *metadata.Texture, pixels []uint8) error
	TextureDestroy(texture *metadata.Texture)
	DrawPacket(packet *metadata.RenderPacket) error
	// FlipY reports a clip space with y pointing down.
	FlipY() bool
}

type RendererType uint8

const (
	OpenGL RendererType = iota
	Vulkan
)

func (t RendererType) String() string {
	switch t {
	case OpenGL:
		return "opengl"
	case Vulkan:
		return "vulkan"
	default:
		return fmt.Sprintf("RendererType(%d)", uint8(t))
	}
}

func ParseRendererType(s string) (RendererType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "opengl", "gl":
		return OpenGL, nil
	case "vulkan", "vk":
		return Vulkan, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownBackend, s)
}
