package platform

import (
	"testing"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/stretchr/testify/assert"

	"github.com/spaghettifunk/cubism/engine/core"
)

func TestTranslateKey(t *testing.T) {
	tests := []struct {
		key  glfw.Key
		want core.KeyCode
	}{
		{glfw.KeyA, core.KEY_A},
		{glfw.KeyE, core.KEY_E},
		{glfw.KeyZ, core.KEY_Z},
		{glfw.Key0, core.KEY_0},
		{glfw.Key9, core.KEY_9},
		{glfw.KeyF1, core.KEY_F1},
		{glfw.KeyF12, core.KEY_F12},
		{glfw.KeyEscape, core.KEY_ESCAPE},
		{glfw.KeySpace, core.KEY_SPACE},
		{glfw.KeyKPAdd, core.KEY_PLUS},
	}
	for _, tt := range tests {
		got, ok := translateKey(tt.key)
		assert.True(t, ok, "key %d", tt.key)
		assert.Equal(t, tt.want, got, "key %d", tt.key)
	}

	_, ok := translateKey(glfw.KeyWorld1)
	assert.False(t, ok)
}

func TestTranslateButton(t *testing.T) {
	b, ok := translateButton(glfw.MouseButtonRight)
	assert.True(t, ok)
	assert.Equal(t, core.BUTTON_RIGHT, b)

	_, ok = translateButton(glfw.MouseButton4)
	assert.False(t, ok)
}

func TestClampCoord(t *testing.T) {
	assert.Equal(t, uint16(0), clampCoord(-12))
	assert.Equal(t, uint16(640), clampCoord(640.7))
	assert.Equal(t, uint16(65535), clampCoord(1e9))
}

func TestScrollDelta(t *testing.T) {
	assert.Equal(t, int8(1), scrollDelta(2.5))
	assert.Equal(t, int8(-1), scrollDelta(-0.1))
	assert.Equal(t, int8(0), scrollDelta(0))
}
