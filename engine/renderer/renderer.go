package renderer

import (
	"errors"
	"fmt"
	"image"

	"github.com/spaghettifunk/cubism/engine/core"
	"github.com/spaghettifunk/cubism/engine/cubism"
	"github.com/spaghettifunk/cubism/engine/math"
	"github.com/spaghettifunk/cubism/engine/renderer/clipping"
	"github.com/spaghettifunk/cubism/engine/renderer/components"
	"github.com/spaghettifunk/cubism/engine/renderer/metadata"
	"github.com/spaghettifunk/cubism/engine/resources"
)

var (
	ErrModelMismatch  = errors.New("model does not match the prepared drawable layout")
	ErrUnknownBackend = errors.New("unknown renderer backend")
	ErrNotPrepared    = errors.New("no model has been prepared")
)

const defaultTextureSize uint32 = 64

type indexRange struct {
	first uint32
	count uint32
}

type Renderer struct {
	backend RendererBackend
	config  metadata.RendererBackendConfig

	width  uint32
	height uint32

	camera     *components.Camera
	clearColor math.Vec4
	fitCanvas  bool
	mvp        math.Mat4
	mvpDirty   bool
	canvas     cubism.CanvasInfo

	nextTextureID  uint32
	defaultTexture *metadata.Texture
	textures       []*metadata.Texture

	drawableIDs []string
	clipping    *clipping.Manager

	packet metadata.RenderPacket
	queued bool
	sorted []int
	ranges []indexRange

	overlay        *metadata.Texture
	overlayVisible bool
}

func New(backend RendererBackend, config metadata.RendererBackendConfig) *Renderer {
	return &Renderer{
		backend:    backend,
		config:     config,
		width:      config.Width,
		height:     config.Height,
		camera:     components.NewCamera(),
		clearColor: math.Vec4{W: 1},
		mvp:        math.NewMat4Identity(),
	}
}

func (r *Renderer) Initialize() error {
	if err := r.backend.Initialize(&r.config); err != nil {
		return err
	}
	r.defaultTexture = r.newTexture(metadata.DEFAULT_TEXTURE_NAME, defaultTextureSize, defaultTextureSize)
	if err := r.backend.TextureCreate(metadata.DefaultTexturePixels(defaultTextureSize), r.defaultTexture); err != nil {
		return fmt.Errorf("failed to create the default texture: %w", err)
	}
	core.LogInfo("renderer initialized (%dx%d)", r.width, r.height)
	return nil
}

func (r *Renderer) Shutdown() error {
	r.releaseTextures()
	if r.overlay != nil {
		r.backend.TextureDestroy(r.overlay)
		r.overlay = nil
	}
	if r.defaultTexture != nil {
		r.backend.TextureDestroy(r.defaultTexture)
		r.defaultTexture = nil
	}
	return r.backend.Shutdown()
}

func (r *Renderer) OnResize(width, height uint32) error {
	r.width = width
	r.height = height
	r.mvpDirty = true
	return r.backend.Resized(width, height)
}

func (r *Renderer) Camera() *components.Camera {
	return r.camera
}

func (r *Renderer) SetClearColor(c math.Vec4) {
	r.clearColor = c
}

// SetFitCanvas switches between the canvas fitting projection and identity.
func (r *Renderer) SetFitCanvas(enabled bool) {
	r.fitCanvas = enabled
	r.mvpDirty = true
}

// MVP returns the model projection for the current viewport and camera.
func (r *Renderer) MVP() math.Mat4 {
	if r.mvpDirty || r.camera.IsDirty {
		if r.fitCanvas {
			r.mvp = FitCanvas(r.canvas, r.width, r.height, r.camera, r.backend.FlipY())
		} else {
			r.mvp = math.NewMat4Identity()
		}
		r.mvpDirty = false
		r.camera.IsDirty = false
	}
	return r.mvp
}

/**
 * @brief Binds the renderer to the drawable layout of model and uploads its
 * textures. Nil images are replaced by the default texture.
 */
func (r *Renderer) Prepare(model cubism.Model, images []*resources.ImageResourceData) error {
	r.releaseTextures()

	r.textures = make([]*metadata.Texture, len(images))
	for i, img := range images {
		if img == nil {
			continue
		}
		tex := r.newTexture(fmt.Sprintf("texture_%02d", i), img.Width, img.Height)
		if err := r.backend.TextureCreate(img.Pixels, tex); err != nil {
			r.releaseTextures()
			return fmt.Errorf("failed to create texture %d: %w", i, err)
		}
		r.textures[i] = tex
	}

	r.drawableIDs = append([]string(nil), model.DrawableIDs()...)
	r.clipping = clipping.NewManager(model)
	r.canvas = model.CanvasInfo()
	r.mvpDirty = true

	core.LogDebug("renderer prepared: %d drawables, %d textures, %d clip contexts",
		len(r.drawableIDs), len(r.textures), len(r.clipping.Contexts()))
	return nil
}

// ReplaceTexture uploads new pixels for a model texture, recreating it when the size changed.
func (r *Renderer) ReplaceTexture(index int, img *resources.ImageResourceData) error {
	if index < 0 || index >= len(r.textures) {
		return fmt.Errorf("texture index %d out of range", index)
	}
	tex := r.textures[index]
	if tex != nil && tex.Width == img.Width && tex.Height == img.Height {
		tex.Generation++
		return r.backend.TextureWriteData(tex, img.Pixels)
	}
	if tex != nil {
		r.backend.TextureDestroy(tex)
	}
	tex = r.newTexture(fmt.Sprintf("texture_%02d", index), img.Width, img.Height)
	if err := r.backend.TextureCreate(img.Pixels, tex); err != nil {
		r.textures[index] = nil
		return err
	}
	r.textures[index] = tex
	return nil
}

func (r *Renderer) newTexture(name string, w, h uint32) *metadata.Texture {
	r.nextTextureID++
	return &metadata.Texture{ID: r.nextTextureID, Width: w, Height: h, Name: name}
}

func (r *Renderer) releaseTextures() {
	for _, tex := range r.textures {
		if tex != nil {
			r.backend.TextureDestroy(tex)
		}
	}
	r.textures = nil
}

// maskError drops ErrTooManyMasks: the overflow draws unclipped and the
// clipping manager logs it once.
func maskError(err error) error {
	if err == nil || errors.Is(err, clipping.ErrTooManyMasks) {
		return nil
	}
	return fmt.Errorf("clip masks: %w", err)
}

func (r *Renderer) textureFor(index int32) *metadata.Texture {
	if index >= 0 && int(index) < len(r.textures) && r.textures[index] != nil {
		return r.textures[index]
	}
	return r.defaultTexture
}

/**
 * @brief Builds the frame packet for model: vertex and index streams for all
 * drawables, the mask atlas pass and the draws in render order.
 * @param opacity The model opacity multiplied into every draw.
 * @returns ErrModelMismatch when model has a different drawable layout.
 */
func (r *Renderer) BuildPacket(model cubism.Model, opacity float32) (*metadata.RenderPacket, error) {
	if r.clipping == nil {
		return nil, ErrNotPrepared
	}
	ids := model.DrawableIDs()
	if !sameIDs(ids, r.drawableIDs) {
		return nil, ErrModelMismatch
	}

	p := &r.packet
	p.Vertices = p.Vertices[:0]
	p.Indices = p.Indices[:0]
	p.Masks = p.Masks[:0]
	p.Draws = p.Draws[:0]

	n := len(ids)
	if cap(r.ranges) < n {
		r.ranges = make([]indexRange, n)
	}
	r.ranges = r.ranges[:n]
	for i := 0; i < n; i++ {
		positions := model.DrawableVertexPositions(i)
		uvs := model.DrawableVertexUVs(i)
		base := uint32(len(p.Vertices))
		for v := range positions {
			vert := math.Vertex2D{Position: positions[v]}
			if v < len(uvs) {
				vert.Texcoord = uvs[v]
			}
			p.Vertices = append(p.Vertices, vert)
		}
		first := uint32(len(p.Indices))
		for _, ix := range model.DrawableIndices(i) {
			p.Indices = append(p.Indices, base+uint32(ix))
		}
		r.ranges[i] = indexRange{first: first, count: uint32(len(p.Indices)) - first}
	}

	if err := maskError(r.clipping.Update(model)); err != nil {
		return nil, err
	}

	flags := model.DrawableConstantFlags()
	textures := model.DrawableTextureIndices()
	for _, ctx := range r.clipping.UsedContexts() {
		rect := maskRect(ctx.Layout.Rect)
		for _, m := range ctx.Masks {
			idx := int(m)
			if idx < 0 || idx >= n || r.ranges[idx].count == 0 {
				continue
			}
			p.Masks = append(p.Masks, metadata.MaskCommand{
				Drawable:   idx,
				Texture:    r.textureFor(textures[idx]),
				FirstIndex: r.ranges[idx].first,
				IndexCount: r.ranges[idx].count,
				Matrix:     ctx.MaskMatrix.ScaleOffset(),
				Channel:    ctx.ChannelFlag(),
				Rect:       rect,
				Cull:       CullModeFor(flags[idx]),
			})
		}
	}

	mvp := r.MVP()
	dynamic := model.DrawableDynamicFlags()
	opacities := model.DrawableOpacities()
	r.sorted = RenderOrder(model.DrawableRenderOrders(), r.sorted)
	for _, idx := range r.sorted {
		if idx < 0 || !dynamic[idx].Has(cubism.IsVisible) || opacities[idx] <= 0 || r.ranges[idx].count == 0 {
			continue
		}
		cmd := metadata.DrawCommand{
			Drawable:   idx,
			Texture:    r.textureFor(textures[idx]),
			FirstIndex: r.ranges[idx].first,
			IndexCount: r.ranges[idx].count,
			MVP:        mvp,
			Blend:      BlendStateFor(flags[idx].BlendMode()),
			Cull:       CullModeFor(flags[idx]),
			Opacity:    opacities[idx] * opacity,
		}
		if ctx := r.clipping.ContextOf(idx); ctx != nil && ctx.Used {
			cmd.Masked = true
			cmd.Inverted = flags[idx].Has(cubism.IsInvertedMask)
			cmd.ClipMatrix = ctx.DrawMatrix.ScaleOffset()
			cmd.Channel = ctx.ChannelFlag()
		}
		p.Draws = append(p.Draws, cmd)
	}
	return p, nil
}

func sameIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// DrawModel queues model for the next DrawFrame.
func (r *Renderer) DrawModel(model cubism.Model, opacity float32) error {
	if _, err := r.BuildPacket(model, opacity); err != nil {
		return err
	}
	r.queued = true
	return nil
}

/**
 * @brief Sets the HUD image drawn on top of the model at the top left corner.
 * The image is uploaded again on every call. Nil hides the overlay.
 */
func (r *Renderer) SetOverlay(img *image.RGBA) error {
	if img == nil {
		r.overlayVisible = false
		return nil
	}
	w, h := uint32(img.Rect.Dx()), uint32(img.Rect.Dy())
	pixels := tightPixels(img)

	if r.overlay != nil && r.overlay.Width == w && r.overlay.Height == h {
		r.overlay.Generation++
		if err := r.backend.TextureWriteData(r.overlay, pixels); err != nil {
			return err
		}
	} else {
		if r.overlay != nil {
			r.backend.TextureDestroy(r.overlay)
		}
		r.overlay = r.newTexture("overlay", w, h)
		if err := r.backend.TextureCreate(pixels, r.overlay); err != nil {
			r.overlay = nil
			return err
		}
	}
	r.overlayVisible = true
	return nil
}

func tightPixels(img *image.RGBA) []uint8 {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	if img.Stride == w*4 {
		return img.Pix[:w*h*4]
	}
	out := make([]uint8, 0, w*h*4)
	for y := 0; y < h; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+w*4]
		out = append(out, row...)
	}
	return out
}

func (r *Renderer) appendOverlay(p *metadata.RenderPacket) {
	if !r.overlayVisible || r.overlay == nil {
		return
	}
	w, h := float32(r.overlay.Width), float32(r.overlay.Height)
	base := uint32(len(p.Vertices))
	// uv v grows upwards like the model textures, the shaders flip it
	p.Vertices = append(p.Vertices,
		math.Vertex2D{Position: math.Vec2{X: 0, Y: 0}, Texcoord: math.Vec2{X: 0, Y: 1}},
		math.Vertex2D{Position: math.Vec2{X: w, Y: 0}, Texcoord: math.Vec2{X: 1, Y: 1}},
		math.Vertex2D{Position: math.Vec2{X: w, Y: h}, Texcoord: math.Vec2{X: 1, Y: 0}},
		math.Vertex2D{Position: math.Vec2{X: 0, Y: h}, Texcoord: math.Vec2{X: 0, Y: 0}},
	)
	first := uint32(len(p.Indices))
	p.Indices = append(p.Indices, base, base+1, base+2, base, base+2, base+3)
	p.Draws = append(p.Draws, metadata.DrawCommand{
		Drawable:   -1,
		Texture:    r.overlay,
		FirstIndex: first,
		IndexCount: 6,
		MVP:        ScreenProjection(r.width, r.height, r.backend.FlipY()),
		Blend:      NormalBlend,
		Cull:       metadata.FaceCullModeNone,
		Opacity:    1,
	})
}

/**
 * @brief Renders the queued model plus the overlay. A frame the backend
 * boots out of (swapchain recreation) is skipped without an error.
 */
func (r *Renderer) DrawFrame(deltaTime float64) error {
	p := &r.packet
	if !r.queued {
		p.Vertices = p.Vertices[:0]
		p.Indices = p.Indices[:0]
		p.Masks = p.Masks[:0]
		p.Draws = p.Draws[:0]
	}
	r.queued = false
	r.appendOverlay(p)
	p.DeltaTime = deltaTime
	p.ClearColor = r.clearColor

	if err := r.backend.BeginFrame(deltaTime); err != nil {
		if errors.Is(err, core.ErrSwapchainBooting) {
			return nil
		}
		core.LogError("BeginFrame failed: %s", err)
		return err
	}
	if err := r.backend.DrawPacket(p); err != nil {
		core.LogError("DrawPacket failed: %s", err)
		return err
	}
	if err := r.backend.EndFrame(deltaTime); err != nil {
		core.LogError("EndFrame failed. Application shutting down...")
		return err
	}
	return nil
}

// ScreenToView maps window pixels to [-1, 1] with y pointing up.
func (r *Renderer) ScreenToView(x, y float32) math.Vec2 {
	if r.width == 0 || r.height == 0 {
		return math.Vec2{}
	}
	return math.Vec2{
		X: 2*x/float32(r.width) - 1,
		Y: 1 - 2*y/float32(r.height),
	}
}

// ScreenToModel maps window pixels to model units through the inverse projection.
func (r *Renderer) ScreenToModel(x, y float32) math.Vec2 {
	ndc := r.ScreenToView(x, y)
	if r.backend.FlipY() {
		ndc.Y = -ndc.Y
	}
	return ndc.Transform(r.MVP().Inverse())
}
