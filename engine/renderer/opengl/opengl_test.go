package opengl

import (
	"strings"
	"testing"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/cubism/engine/renderer"
	"github.com/spaghettifunk/cubism/engine/renderer/metadata"
)

func TestBlendFactor(t *testing.T) {
	tests := []struct {
		in   metadata.BlendFactor
		want uint32
	}{
		{metadata.BlendFactorZero, gl.ZERO},
		{metadata.BlendFactorOne, gl.ONE},
		{metadata.BlendFactorSrcAlpha, gl.SRC_ALPHA},
		{metadata.BlendFactorOneMinusSrcAlpha, gl.ONE_MINUS_SRC_ALPHA},
		{metadata.BlendFactorDstColor, gl.DST_COLOR},
		{metadata.BlendFactorOneMinusSrcColor, gl.ONE_MINUS_SRC_COLOR},
	}
	for _, tt := range tests {
		t.Run(tt.in.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, blendFactor(tt.in))
		})
	}
}

func TestMaskBlendIsMultiplicativeErase(t *testing.T) {
	assert.Equal(t, uint32(gl.ZERO), blendFactor(maskBlend.SrcColor))
	assert.Equal(t, uint32(gl.ONE_MINUS_SRC_COLOR), blendFactor(maskBlend.DstColor))
	assert.Equal(t, uint32(gl.ONE_MINUS_SRC_ALPHA), blendFactor(maskBlend.DstAlpha))
	assert.Equal(t, renderer.MaskBlend, maskBlend)
}

func TestCullFace(t *testing.T) {
	_, ok := cullFace(metadata.FaceCullModeNone)
	assert.False(t, ok)

	face, ok := cullFace(metadata.FaceCullModeBack)
	require.True(t, ok)
	assert.Equal(t, uint32(gl.BACK), face)

	face, ok = cullFace(metadata.FaceCullModeFrontAndBack)
	require.True(t, ok)
	assert.Equal(t, uint32(gl.FRONT_AND_BACK), face)
}

func TestProgramFor(t *testing.T) {
	assert.Equal(t, programModel, programFor(false, false))
	assert.Equal(t, programModel, programFor(false, true))
	assert.Equal(t, programModelMasked, programFor(true, false))
	assert.Equal(t, programModelMaskedInverted, programFor(true, true))
}

func TestShaderSourceDefines(t *testing.T) {
	src := buildShaderSource("FRAGMENT", programModelMaskedInverted.defines())
	require.True(t, strings.HasPrefix(src, "#version 330 core\n"))
	assert.Contains(t, src, "#define FRAGMENT\n")
	assert.Contains(t, src, "#define PASS_MODEL\n#define MASKED\n#define INVERTED\n")

	mask := buildShaderSource("FRAGMENT", programMask.defines())
	assert.Contains(t, mask, "#define PASS_MASK\n")
	assert.NotContains(t, mask, "#define PASS_MODEL")
	// four step tests bound the layout rect
	assert.Equal(t, 4, strings.Count(shaderSource, "step("))
}
