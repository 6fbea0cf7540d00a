package renderer

import (
	"github.com/spaghettifunk/cubism/engine/cubism"
	"github.com/spaghettifunk/cubism/engine/math"
	"github.com/spaghettifunk/cubism/engine/renderer/components"
	"github.com/spaghettifunk/cubism/engine/renderer/metadata"
)

// Colours are premultiplied, so every source factor for colour is One or DstColor.
var (
	NormalBlend = metadata.BlendState{
		SrcColor: metadata.BlendFactorOne,
		DstColor: metadata.BlendFactorOneMinusSrcAlpha,
		SrcAlpha: metadata.BlendFactorOne,
		DstAlpha: metadata.BlendFactorOneMinusSrcAlpha,
	}
	AdditiveBlend = metadata.BlendState{
		SrcColor: metadata.BlendFactorOne,
		DstColor: metadata.BlendFactorOne,
		SrcAlpha: metadata.BlendFactorZero,
		DstAlpha: metadata.BlendFactorOne,
	}
	MultiplicativeBlend = metadata.BlendState{
		SrcColor: metadata.BlendFactorDstColor,
		DstColor: metadata.BlendFactorOneMinusSrcAlpha,
		SrcAlpha: metadata.BlendFactorZero,
		DstAlpha: metadata.BlendFactorOne,
	}
	// MaskBlend subtracts the mask coverage from an atlas cleared to white.
	MaskBlend = metadata.BlendState{
		SrcColor: metadata.BlendFactorZero,
		DstColor: metadata.BlendFactorOneMinusSrcColor,
		SrcAlpha: metadata.BlendFactorZero,
		DstAlpha: metadata.BlendFactorOneMinusSrcAlpha,
	}
)

func BlendStateFor(mode cubism.BlendMode) metadata.BlendState {
	switch mode {
	case cubism.BlendModeAdditive:
		return AdditiveBlend
	case cubism.BlendModeMultiplicative:
		return MultiplicativeBlend
	default:
		return NormalBlend
	}
}

// CullModeFor culls back faces (counter clockwise front) unless the drawable is double sided.
func CullModeFor(flags cubism.ConstantFlags) metadata.FaceCullMode {
	if flags.Has(cubism.IsDoubleSided) {
		return metadata.FaceCullModeNone
	}
	return metadata.FaceCullModeBack
}

// RenderOrder returns the drawable indices sorted by render order. Slots
// without a drawable hold -1.
func RenderOrder(orders []int32, sorted []int) []int {
	n := len(orders)
	if cap(sorted) < n {
		sorted = make([]int, n)
	}
	sorted = sorted[:n]
	for i := range sorted {
		sorted[i] = -1
	}
	for idx, order := range orders {
		if order >= 0 && int(order) < n {
			sorted[order] = idx
		}
	}
	return sorted
}

/**
 * @brief Builds the projection that fits the canvas into a vw x vh viewport,
 * keeping the aspect ratio, then applies the camera zoom and pan.
 * @param flipY Set for clip spaces with y pointing down.
 */
func FitCanvas(canvas cubism.CanvasInfo, vw, vh uint32, cam *components.Camera, flipY bool) math.Mat4 {
	b := canvas.Bounds()
	if b.IsEmpty() || vw == 0 || vh == 0 {
		return math.NewMat4Identity()
	}
	center := b.Center()
	halfW, halfH := b.Width*0.5, b.Height*0.5

	aspect := float32(vw) / float32(vh)
	if halfW/halfH > aspect {
		halfH = halfW / aspect
	} else {
		halfW = halfH * aspect
	}

	if cam != nil {
		zoom := cam.GetZoom()
		if zoom > 0 {
			halfW /= zoom
			halfH /= zoom
		}
		center = center.Add(cam.GetPosition())
	}

	proj := math.NewMat4Orthographic(center.X-halfW, center.X+halfW, center.Y-halfH, center.Y+halfH, -1, 1)
	if flipY {
		proj = proj.Mul(math.NewMat4Scale(1, -1))
	}
	return proj
}

// ScreenProjection maps pixels, origin top left, onto clip space.
func ScreenProjection(vw, vh uint32, flipY bool) math.Mat4 {
	proj := math.NewMat4Orthographic(0, float32(vw), float32(vh), 0, -1, 1)
	if flipY {
		proj = proj.Mul(math.NewMat4Scale(1, -1))
	}
	return proj
}

// maskRect converts a layout rect in atlas texture space into atlas clip
// space as vec4(left, bottom, right, top).
func maskRect(r math.Rect) math.Vec4 {
	return math.Vec4{
		X: r.X*2 - 1,
		Y: r.Y*2 - 1,
		Z: r.Right()*2 - 1,
		W: r.Bottom()*2 - 1,
	}
}
