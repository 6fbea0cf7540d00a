package opengl

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/spaghettifunk/cubism/engine/core"
	"github.com/spaghettifunk/cubism/engine/math"
	"github.com/spaghettifunk/cubism/engine/renderer/metadata"
)

const (
	defaultMaskAtlasSize uint32 = 1024
	vertexStride                = int32(unsafe.Sizeof(math.Vertex2D{}))
)

var ErrFramebufferIncomplete = errors.New("mask framebuffer incomplete")

// Surface is the window that owns the GL context.
type Surface interface {
	MakeContextCurrent()
	SwapBuffers()
}

type glTexture struct {
	handle uint32
}

type OpenGLRenderer struct {
	surface Surface
	width   uint32
	height  uint32

	programs [programCount]*program

	vao         uint32
	vbo         uint32
	ebo         uint32
	vboCapacity uint64
	eboCapacity uint64

	maskFBO     uint32
	maskTexture uint32
	maskSize    uint32

	initialized bool
}

func New(surface Surface) *OpenGLRenderer {
	return &OpenGLRenderer{surface: surface}
}

func (r *OpenGLRenderer) Initialize(config *metadata.RendererBackendConfig) error {
	if r.surface != nil {
		r.surface.MakeContextCurrent()
	}
	if err := gl.Init(); err != nil {
		return fmt.Errorf("gl.Init error: %w", err)
	}
	core.LogInfo("OpenGL version: %s", gl.GoStr(gl.GetString(gl.VERSION)))

	r.width = config.Width
	r.height = config.Height
	r.maskSize = config.MaskAtlasSize
	if r.maskSize == 0 {
		r.maskSize = defaultMaskAtlasSize
	}

	for kind := programKind(0); kind < programCount; kind++ {
		p, err := buildProgram(kind)
		if err != nil {
			return fmt.Errorf("failed to build %v program: %w", kind.defines(), err)
		}
		r.programs[kind] = p
	}

	r.initBuffers()
	if err := r.initMaskAtlas(); err != nil {
		return err
	}

	gl.Disable(gl.DEPTH_TEST)
	gl.Enable(gl.BLEND)
	gl.BlendEquation(gl.FUNC_ADD)
	gl.FrontFace(gl.CCW)

	r.initialized = true
	core.LogInfo("OpenGL renderer initialized successfully.")
	return nil
}

func (r *OpenGLRenderer) initBuffers() {
	gl.GenVertexArrays(1, &r.vao)
	gl.GenBuffers(1, &r.vbo)
	gl.GenBuffers(1, &r.ebo)

	gl.BindVertexArray(r.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.vbo)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(0, 2, gl.FLOAT, false, vertexStride, 0)
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointerWithOffset(1, 2, gl.FLOAT, false, vertexStride, uintptr(unsafe.Offsetof(math.Vertex2D{}.Texcoord)))
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, r.ebo)
	gl.BindVertexArray(0)
}

func (r *OpenGLRenderer) initMaskAtlas() error {
	gl.GenTextures(1, &r.maskTexture)
	gl.BindTexture(gl.TEXTURE_2D, r.maskTexture)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(r.maskSize), int32(r.maskSize), 0, gl.RGBA, gl.UNSIGNED_BYTE, nil)

	gl.GenFramebuffers(1, &r.maskFBO)
	gl.BindFramebuffer(gl.FRAMEBUFFER, r.maskFBO)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, r.maskTexture, 0)
	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	if status != gl.FRAMEBUFFER_COMPLETE {
		return fmt.Errorf("%w: status 0x%x", ErrFramebufferIncomplete, status)
	}
	return nil
}

func (r *OpenGLRenderer) Shutdown() error {
	if !r.initialized {
		return nil
	}
	for i, p := range r.programs {
		if p != nil {
			gl.DeleteProgram(p.handle)
			r.programs[i] = nil
		}
	}
	gl.DeleteFramebuffers(1, &r.maskFBO)
	gl.DeleteTextures(1, &r.maskTexture)
	gl.DeleteBuffers(1, &r.vbo)
	gl.DeleteBuffers(1, &r.ebo)
	gl.DeleteVertexArrays(1, &r.vao)
	r.initialized = false
	return nil
}

func (r *OpenGLRenderer) Resized(width, height uint32) error {
	r.width = width
	r.height = height
	return nil
}

func (r *OpenGLRenderer) BeginFrame(deltaTime float64) error {
	if !r.initialized {
		return core.ErrNotInitialized
	}
	// minimized
	if r.width == 0 || r.height == 0 {
		return core.ErrSwapchainBooting
	}
	return nil
}

func (r *OpenGLRenderer) EndFrame(deltaTime float64) error {
	if r.surface != nil {
		r.surface.SwapBuffers()
	}
	return nil
}

func (r *OpenGLRenderer) FlipY() bool {
	return false
}

func (r *OpenGLRenderer) TextureCreate(pixels []uint8, texture *metadata.Texture) error {
	if err := checkPixels(texture, pixels); err != nil {
		return err
	}
	t := &glTexture{}
	gl.GenTextures(1, &t.handle)
	gl.BindTexture(gl.TEXTURE_2D, t.handle)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(texture.Width), int32(texture.Height), 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	gl.GenerateMipmap(gl.TEXTURE_2D)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	texture.InternalData = t
	texture.Generation++
	return nil
}

func (r *OpenGLRenderer) TextureWriteData(texture *metadata.Texture, pixels []uint8) error {
	t, ok := texture.InternalData.(*glTexture)
	if !ok {
		return fmt.Errorf("texture %q has no gl handle", texture.Name)
	}
	if err := checkPixels(texture, pixels); err != nil {
		return err
	}
	gl.BindTexture(gl.TEXTURE_2D, t.handle)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexSubImage2D(gl.TEXTURE_2D, 0, 0, 0, int32(texture.Width), int32(texture.Height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	gl.GenerateMipmap(gl.TEXTURE_2D)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	texture.Generation++
	return nil
}

func (r *OpenGLRenderer) TextureDestroy(texture *metadata.Texture) {
	if t, ok := texture.InternalData.(*glTexture); ok {
		gl.DeleteTextures(1, &t.handle)
	}
	texture.InternalData = nil
}

func checkPixels(texture *metadata.Texture, pixels []uint8) error {
	want := int(texture.Width) * int(texture.Height) * 4
	if texture.Width == 0 || texture.Height == 0 || len(pixels) != want {
		return fmt.Errorf("texture %q: expected %d bytes for %dx%d, got %d", texture.Name, want, texture.Width, texture.Height, len(pixels))
	}
	return nil
}

func (r *OpenGLRenderer) DrawPacket(packet *metadata.RenderPacket) error {
	if !r.initialized {
		return core.ErrNotInitialized
	}
	gl.BindVertexArray(r.vao)
	r.upload(packet)

	if len(packet.Masks) > 0 {
		r.drawMasks(packet.Masks)
	}

	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.Viewport(0, 0, int32(r.width), int32(r.height))
	c := packet.ClearColor
	gl.ClearColor(c.X, c.Y, c.Z, c.W)
	gl.Clear(gl.COLOR_BUFFER_BIT)

	gl.ActiveTexture(gl.TEXTURE1)
	gl.BindTexture(gl.TEXTURE_2D, r.maskTexture)

	var current *program
	for i := range packet.Draws {
		cmd := &packet.Draws[i]
		if cmd.IndexCount == 0 || cmd.Texture == nil {
			continue
		}
		p := r.programs[programFor(cmd.Masked, cmd.Inverted)]
		if p != current {
			gl.UseProgram(p.handle)
			current = p
		}
		applyBlend(cmd.Blend)
		applyCull(cmd.Cull)

		gl.UniformMatrix4fv(p.mvp, 1, false, &cmd.MVP.Data[0])
		gl.Uniform1f(p.opacity, cmd.Opacity)
		if cmd.Masked {
			gl.Uniform4f(p.clipMatrix, cmd.ClipMatrix.X, cmd.ClipMatrix.Y, cmd.ClipMatrix.Z, cmd.ClipMatrix.W)
			gl.Uniform4f(p.channel, cmd.Channel.X, cmd.Channel.Y, cmd.Channel.Z, cmd.Channel.W)
		}
		r.bindTexture(cmd.Texture)
		gl.DrawElementsWithOffset(gl.TRIANGLES, int32(cmd.IndexCount), gl.UNSIGNED_INT, uintptr(cmd.FirstIndex)*4)
	}

	gl.BindVertexArray(0)
	return checkError("draw packet")
}

func (r *OpenGLRenderer) drawMasks(masks []metadata.MaskCommand) {
	gl.BindFramebuffer(gl.FRAMEBUFFER, r.maskFBO)
	gl.Viewport(0, 0, int32(r.maskSize), int32(r.maskSize))
	gl.ClearColor(1, 1, 1, 1)
	gl.Clear(gl.COLOR_BUFFER_BIT)

	p := r.programs[programMask]
	gl.UseProgram(p.handle)
	applyBlend(maskBlend)
	for i := range masks {
		m := &masks[i]
		if m.IndexCount == 0 || m.Texture == nil {
			continue
		}
		applyCull(m.Cull)
		gl.Uniform4f(p.matrix, m.Matrix.X, m.Matrix.Y, m.Matrix.Z, m.Matrix.W)
		gl.Uniform4f(p.channel, m.Channel.X, m.Channel.Y, m.Channel.Z, m.Channel.W)
		gl.Uniform4f(p.rect, m.Rect.X, m.Rect.Y, m.Rect.Z, m.Rect.W)
		r.bindTexture(m.Texture)
		gl.DrawElementsWithOffset(gl.TRIANGLES, int32(m.IndexCount), gl.UNSIGNED_INT, uintptr(m.FirstIndex)*4)
	}
}

func (r *OpenGLRenderer) bindTexture(texture *metadata.Texture) {
	gl.ActiveTexture(gl.TEXTURE0)
	if t, ok := texture.InternalData.(*glTexture); ok {
		gl.BindTexture(gl.TEXTURE_2D, t.handle)
		return
	}
	gl.BindTexture(gl.TEXTURE_2D, 0)
}

// upload grows the buffers by doubling so steady frames only use BufferSubData.
func (r *OpenGLRenderer) upload(packet *metadata.RenderPacket) {
	gl.BindBuffer(gl.ARRAY_BUFFER, r.vbo)
	if n := uint64(len(packet.Vertices)) * uint64(vertexStride); n > 0 {
		if n > r.vboCapacity {
			r.vboCapacity = metadata.GrowCapacity(r.vboCapacity, n, 64*1024)
			gl.BufferData(gl.ARRAY_BUFFER, int(r.vboCapacity), nil, gl.DYNAMIC_DRAW)
		}
		gl.BufferSubData(gl.ARRAY_BUFFER, 0, int(n), gl.Ptr(packet.Vertices))
	}

	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, r.ebo)
	if n := uint64(len(packet.Indices)) * 4; n > 0 {
		if n > r.eboCapacity {
			r.eboCapacity = metadata.GrowCapacity(r.eboCapacity, n, 64*1024)
			gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, int(r.eboCapacity), nil, gl.DYNAMIC_DRAW)
		}
		gl.BufferSubData(gl.ELEMENT_ARRAY_BUFFER, 0, int(n), gl.Ptr(packet.Indices))
	}
}

func checkError(stage string) error {
	if code := gl.GetError(); code != gl.NO_ERROR {
		return fmt.Errorf("%s: gl error 0x%x", stage, code)
	}
	return nil
}
