package opengl

import (
	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/spaghettifunk/cubism/engine/renderer"
	"github.com/spaghettifunk/cubism/engine/renderer/metadata"
)

var maskBlend = renderer.MaskBlend

func blendFactor(f metadata.BlendFactor) uint32 {
	switch f {
	case metadata.BlendFactorZero:
		return gl.ZERO
	case metadata.BlendFactorOne:
		return gl.ONE
	case metadata.BlendFactorSrcAlpha:
		return gl.SRC_ALPHA
	case metadata.BlendFactorOneMinusSrcAlpha:
		return gl.ONE_MINUS_SRC_ALPHA
	case metadata.BlendFactorDstColor:
		return gl.DST_COLOR
	case metadata.BlendFactorOneMinusSrcColor:
		return gl.ONE_MINUS_SRC_COLOR
	default:
		return gl.ONE
	}
}

func applyBlend(b metadata.BlendState) {
	gl.BlendFuncSeparate(blendFactor(b.SrcColor), blendFactor(b.DstColor), blendFactor(b.SrcAlpha), blendFactor(b.DstAlpha))
}

// cullFace returns false when culling has to be disabled.
func cullFace(mode metadata.FaceCullMode) (uint32, bool) {
	switch mode {
	case metadata.FaceCullModeFront:
		return gl.FRONT, true
	case metadata.FaceCullModeBack:
		return gl.BACK, true
	case metadata.FaceCullModeFrontAndBack:
		return gl.FRONT_AND_BACK, true
	default:
		return 0, false
	}
}

func applyCull(mode metadata.FaceCullMode) {
	face, ok := cullFace(mode)
	if !ok {
		gl.Disable(gl.CULL_FACE)
		return
	}
	gl.Enable(gl.CULL_FACE)
	gl.CullFace(face)
}
