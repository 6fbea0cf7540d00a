package engine

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/cubism/engine/config"
	"github.com/spaghettifunk/cubism/engine/core"
	"github.com/spaghettifunk/cubism/engine/cubism"
	"github.com/spaghettifunk/cubism/engine/platform"
	"github.com/spaghettifunk/cubism/engine/renderer"
	"github.com/spaghettifunk/cubism/engine/resources"
)

func noFactory(moc []byte) (cubism.Model, error) {
	return nil, nil
}

func viewerConfig() *config.Config {
	cfg := config.Default()
	cfg.Model.Path = "Hiyori/Hiyori.model3.json"
	return cfg
}

func TestNewValidates(t *testing.T) {
	_, err := New(config.Default(), noFactory)
	assert.ErrorIs(t, err, ErrNoModel)

	_, err = New(viewerConfig(), nil)
	assert.ErrorIs(t, err, ErrNoFactory)

	cfg := viewerConfig()
	cfg.Renderer.Backend = "metal"
	_, err = New(cfg, noFactory)
	assert.ErrorIs(t, err, config.ErrInvalidConfig)

	cfg = viewerConfig()
	cfg.Renderer.Backend = config.BackendVulkan
	e, err := New(cfg, noFactory)
	require.NoError(t, err)
	assert.Equal(t, renderer.Vulkan, e.backendType)
	assert.Equal(t, EngineStageUninitialized, e.Stage())
}

func TestStageOrder(t *testing.T) {
	e, err := New(viewerConfig(), noFactory)
	require.NoError(t, err)

	assert.ErrorIs(t, e.Run(), ErrInvalidStage)
	assert.NoError(t, e.Shutdown())
	assert.Equal(t, "shutting down", EngineStageShuttingDown.String())
	assert.Equal(t, "Stage(9)", Stage(9).String())
}

func TestClientAPI(t *testing.T) {
	assert.Equal(t, platform.ClientAPIOpenGL, clientAPI(renderer.OpenGL))
	assert.Equal(t, platform.ClientAPIVulkan, clientAPI(renderer.Vulkan))

	_, err := newBackend(renderer.RendererType(7), nil)
	assert.ErrorIs(t, err, renderer.ErrUnknownBackend)
}

func TestKeyBindings(t *testing.T) {
	tests := []struct {
		key  core.KeyCode
		want action
	}{
		{core.KEY_ESCAPE, actionQuit},
		{core.KEY_SPACE, actionTogglePause},
		{core.KEY_E, actionNextExpression},
		{core.KEY_M, actionTapMotion},
		{core.KEY_R, actionReset},
		{core.KEY_P, actionTogglePhysics},
		{core.KEY_H, actionToggleHUD},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, keyBindings[tt.key], "key %#x", tt.key)
	}
	_, ok := keyBindings[core.KEY_Q]
	assert.False(t, ok)
}

func TestHitAction(t *testing.T) {
	assert.Equal(t, actionRandomExpression, hitAction("Head"))
	assert.Equal(t, actionRandomExpression, hitAction("head"))
	assert.Equal(t, actionTapMotion, hitAction("Body"))
	assert.Equal(t, actionNone, hitAction("Tail"))
}

func TestZoomFactor(t *testing.T) {
	assert.InDelta(t, 1.1, zoomFactor(1), 1e-6)
	assert.InDelta(t, 1/1.1, zoomFactor(-1), 1e-6)
	assert.InDelta(t, 1.21, zoomFactor(2), 1e-6)
}

func TestBeyondSlop(t *testing.T) {
	assert.False(t, beyondSlop(10, 10, 12, 13))
	assert.True(t, beyondSlop(10, 10, 15, 10))
	assert.True(t, beyondSlop(0, 0, 65535, 0))
}

func TestTextureIndex(t *testing.T) {
	dir := filepath.FromSlash("/models/hiyori")
	textures := []string{"hiyori.2048/texture_00.png", "hiyori.2048/texture_01.png"}

	assert.Equal(t, 1, textureIndex(dir, textures, filepath.Join(dir, "hiyori.2048", "texture_01.png")))
	assert.Equal(t, 0, textureIndex(dir, textures, filepath.Join(dir, "hiyori.2048", ".", "texture_00.png")))
	assert.Equal(t, -1, textureIndex(dir, textures, filepath.Join(dir, "other.png")))
}

func TestReloadsModel(t *testing.T) {
	assert.True(t, reloadsModel(resources.ResourceTypeMotion))
	assert.True(t, reloadsModel(resources.ResourceTypeModel))
	assert.True(t, reloadsModel(resources.ResourceTypeMoc))
	assert.False(t, reloadsModel(resources.ResourceTypeImage))
	assert.False(t, reloadsModel(resources.ResourceTypeBinary))
}

func TestQuitKeyStopsTheLoop(t *testing.T) {
	require.True(t, core.EventInitialize())
	t.Cleanup(func() { _ = core.EventShutdown() })

	e, err := New(viewerConfig(), noFactory)
	require.NoError(t, err)
	core.EventRegister(core.EVENT_CODE_APPLICATION_QUIT, e, e.onEvent)
	core.EventRegister(core.EVENT_CODE_KEY_PRESSED, e, e.onKey)

	e.isRunning.Store(true)
	core.EventFire(core.EventContext{Type: core.EVENT_CODE_KEY_PRESSED, Data: &core.KeyEvent{KeyCode: core.KEY_ESCAPE}})
	assert.False(t, e.isRunning.Load())
}

func TestResizeSuspends(t *testing.T) {
	e, err := New(viewerConfig(), noFactory)
	require.NoError(t, err)

	resize := func(w, h uint32) {
		e.onResized(core.EventContext{Type: core.EVENT_CODE_RESIZED, Data: &core.ResizeEvent{Width: w, Height: h}}, e)
	}
	resize(0, 0)
	assert.True(t, e.isSuspended)

	resize(800, 600)
	assert.False(t, e.isSuspended)
	assert.Equal(t, uint32(800), e.width)
	assert.Equal(t, uint32(600), e.height)
}

func TestToggleHUDWithoutModel(t *testing.T) {
	e, err := New(viewerConfig(), noFactory)
	require.NoError(t, err)
	require.True(t, e.hudEnabled)

	e.apply(actionToggleHUD)
	assert.False(t, e.hudEnabled)
	// everything else needs a model
	e.apply(actionTogglePause)
	assert.False(t, e.paused)
}
